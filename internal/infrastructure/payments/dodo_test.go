package payments_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fuseroom/fuseroom/internal/domain"
	"github.com/fuseroom/fuseroom/internal/infrastructure/payments"
)

func TestCreateCheckout(t *testing.T) {
	var gotReq payments.CheckoutRequest
	var gotAuth string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/checkouts", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]string{
			"checkout_id":  "sess_123",
			"checkout_url": "https://test.dodopayments.com/checkout/sess_123",
		})
	}))
	defer server.Close()

	client := payments.NewClientWithBaseURL("v0_test_key", server.URL)

	session, err := client.CreateCheckout(context.Background(), payments.CheckoutRequest{
		ProductCart: []payments.ProductCartItem{{ProductID: "prod_1", Quantity: 1}},
		Customer:    payments.Customer{Email: "customer@example.com", Name: "Guest User"},
		ReturnURL:   "http://localhost:3000/payment-success?order_id=o1",
		Metadata:    map[string]string{"order_id": "o1", "type": "create_room"},
	})
	require.NoError(t, err)

	assert.Equal(t, "sess_123", session.CheckoutID)
	assert.Equal(t, "Bearer v0_test_key", gotAuth)
	require.Len(t, gotReq.ProductCart, 1)
	assert.Equal(t, "prod_1", gotReq.ProductCart[0].ProductID)
	assert.Equal(t, "o1", gotReq.Metadata["order_id"])
}

func TestCreateCheckoutSurfacesAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string]string{"message": "invalid product"})
	}))
	defer server.Close()

	client := payments.NewClientWithBaseURL("v0_test_key", server.URL)

	_, err := client.CreateCheckout(context.Background(), payments.CheckoutRequest{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid product")
}

func TestCreateCheckoutRejectsIncompleteSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"checkout_id": "sess_123"})
	}))
	defer server.Close()

	client := payments.NewClientWithBaseURL("v0_test_key", server.URL)

	_, err := client.CreateCheckout(context.Background(), payments.CheckoutRequest{})
	assert.Error(t, err)
}

func TestCreateCheckoutNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // refuse connections

	client := payments.NewClientWithBaseURL("v0_test_key", server.URL)

	_, err := client.CreateCheckout(context.Background(), payments.CheckoutRequest{})
	assert.ErrorIs(t, err, domain.ErrProviderUnavailable)
}

func TestGetPayment(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/payments/pay_1", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]string{
			"payment_id": "pay_1",
			"status":     "succeeded",
		})
	}))
	defer server.Close()

	client := payments.NewClientWithBaseURL("v0_test_key", server.URL)

	payment, err := client.GetPayment(context.Background(), "pay_1")
	require.NoError(t, err)
	assert.True(t, payment.Succeeded())
}

func TestGetPaymentNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := payments.NewClientWithBaseURL("v0_test_key", server.URL)

	_, err := client.GetPayment(context.Background(), "pay_missing")
	assert.ErrorIs(t, err, domain.ErrPaymentUnverified)
}

func TestGetPaymentNotSucceeded(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{
			"payment_id": "pay_1",
			"status":     "processing",
		})
	}))
	defer server.Close()

	client := payments.NewClientWithBaseURL("v0_test_key", server.URL)

	payment, err := client.GetPayment(context.Background(), "pay_1")
	require.NoError(t, err)
	assert.False(t, payment.Succeeded())
}
