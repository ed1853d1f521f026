// Package payments wraps the Dodo Payments HTTP API used for checkout
// sessions and payment verification.
package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/fuseroom/fuseroom/internal/domain"
)

const (
	testBaseURL = "https://test.dodopayments.com"
	liveBaseURL = "https://live.dodopayments.com"

	// Keys issued for test mode carry this prefix and must hit the test host.
	testKeyPrefix = "v0_"

	statusSucceeded = "succeeded"
)

// Provider is the payment gateway surface the checkout service depends on.
type Provider interface {
	CreateCheckout(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error)
	GetPayment(ctx context.Context, paymentID string) (*Payment, error)
}

type ProductCartItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type Customer struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// CheckoutRequest metadata values must be strings per the Dodo API contract.
type CheckoutRequest struct {
	ProductCart []ProductCartItem `json:"product_cart"`
	Customer    Customer          `json:"customer"`
	ReturnURL   string            `json:"return_url"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

type CheckoutSession struct {
	CheckoutID  string `json:"checkout_id"`
	CheckoutURL string `json:"checkout_url"`
}

type Payment struct {
	PaymentID string `json:"payment_id"`
	Status    string `json:"status"`
}

func (p *Payment) Succeeded() bool {
	return p.Status == statusSucceeded
}

type apiError struct {
	Message string `json:"message"`
}

type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func NewClient(apiKey string) *Client {
	baseURL := liveBaseURL
	if strings.HasPrefix(apiKey, testKeyPrefix) {
		baseURL = testBaseURL
	}

	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// NewClientWithBaseURL overrides host selection, used by tests.
func NewClientWithBaseURL(apiKey, baseURL string) *Client {
	c := NewClient(apiKey)
	c.baseURL = baseURL
	return c
}

func (c *Client) CreateCheckout(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/checkouts", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		var apiErr apiError
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Message != "" {
			return nil, fmt.Errorf("checkout failed (%d): %s", resp.StatusCode, apiErr.Message)
		}
		return nil, fmt.Errorf("checkout failed (%d)", resp.StatusCode)
	}

	var session CheckoutSession
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, fmt.Errorf("failed to decode checkout response: %v", err)
	}
	if session.CheckoutID == "" || session.CheckoutURL == "" {
		return nil, fmt.Errorf("checkout response missing session fields")
	}

	return &session, nil
}

func (c *Client) GetPayment(ctx context.Context, paymentID string) (*Payment, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/payments/"+paymentID, nil)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, domain.ErrPaymentUnverified
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("payment lookup failed (%d)", resp.StatusCode)
	}

	var payment Payment
	if err := json.NewDecoder(resp.Body).Decode(&payment); err != nil {
		return nil, fmt.Errorf("failed to decode payment response: %v", err)
	}

	return &payment, nil
}
