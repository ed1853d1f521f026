package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fuseroom/fuseroom/internal/domain"
	"github.com/fuseroom/fuseroom/internal/infrastructure/payments"
	"github.com/fuseroom/fuseroom/internal/infrastructure/repository"
	"github.com/fuseroom/fuseroom/internal/service"
)

type checkoutFixture struct {
	orders   domain.OrderRepository
	provider *fakeProvider

	roomService     *service.RoomService
	checkoutService *service.CheckoutService
}

func newCheckoutFixture() *checkoutFixture {
	orders := repository.NewOrderRepository()
	provider := newFakeProvider()
	roomService := newRoomService(repository.NewRoomRepository())

	return &checkoutFixture{
		orders:          orders,
		provider:        provider,
		roomService:     roomService,
		checkoutService: service.NewCheckoutService(orders, provider, roomService, nil, nil, nopLogger{}, testPaymentsConfig),
	}
}

func (f *checkoutFixture) markSucceeded(paymentID string) {
	f.provider.mu.Lock()
	defer f.provider.mu.Unlock()
	f.provider.payments[paymentID] = payments.Payment{PaymentID: paymentID, Status: "succeeded"}
}

func (f *checkoutFixture) markProcessing(paymentID string) {
	f.provider.mu.Lock()
	defer f.provider.mu.Unlock()
	f.provider.payments[paymentID] = payments.Payment{PaymentID: paymentID, Status: "processing"}
}

func TestCheckoutInitiate(t *testing.T) {
	f := newCheckoutFixture()
	ctx := context.Background()

	result, err := f.checkoutService.Initiate(ctx, service.InitiateParams{
		ProductID:     "prod_room",
		Name:          "Room creation",
		Price:         500,
		Quantity:      2,
		Intent:        domain.IntentCreateRoom,
		DurationBonus: 30,
	})
	require.NoError(t, err)

	assert.Equal(t, "https://test.dodopayments.com/checkout/sess_123", result.CheckoutURL)
	assert.Equal(t, domain.OrderPending, result.Order.Status)
	assert.Equal(t, int64(1000), result.Order.TotalAmount)
	assert.Equal(t, "usd", result.Order.Currency)
	assert.Equal(t, "sess_123", result.Order.SessionID)

	// The provider only accepts string metadata values.
	checkout := f.provider.lastCheckout
	assert.Equal(t, result.Order.ID, checkout.Metadata["order_id"])
	assert.Equal(t, string(domain.IntentCreateRoom), checkout.Metadata["type"])
	assert.Contains(t, checkout.ReturnURL, "order_id="+result.Order.ID)

	// Anonymous checkouts get placeholder customer details.
	assert.Equal(t, "customer@example.com", checkout.Customer.Email)
	assert.Equal(t, "Guest User", checkout.Customer.Name)

	stored, err := f.checkoutService.GetBySessionID(ctx, "sess_123")
	require.NoError(t, err)
	assert.Equal(t, result.Order.ID, stored.ID)
}

func TestCheckoutInitiateRequiresRoomForExtension(t *testing.T) {
	f := newCheckoutFixture()
	ctx := context.Background()

	_, err := f.checkoutService.Initiate(ctx, service.InitiateParams{
		ProductID: "prod_time",
		Intent:    domain.IntentExtendTime,
		Minutes:   15,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCheckoutInitiateRejectsExtensionOfTerminalRoom(t *testing.T) {
	f := newCheckoutFixture()
	ctx := context.Background()

	room, err := f.roomService.Create(ctx, "standup", 5, 600, 0)
	require.NoError(t, err)
	require.NoError(t, f.roomService.Expire(ctx, room.ID))

	_, err = f.checkoutService.Initiate(ctx, service.InitiateParams{
		ProductID: "prod_time",
		Intent:    domain.IntentExtendTime,
		RoomID:    room.ID,
		Minutes:   15,
	})
	assert.ErrorIs(t, err, domain.ErrRoomNotActive)
}

func TestCheckoutFulfillCreateRoom(t *testing.T) {
	f := newCheckoutFixture()
	ctx := context.Background()

	result, err := f.checkoutService.Initiate(ctx, service.InitiateParams{
		ProductID: "prod_room",
		Price:     500,
		Intent:    domain.IntentCreateRoom,
		RoomParams: &domain.RoomParams{
			Name:            "paid room",
			MaxParticipants: 20,
			InitialDuration: 900,
		},
		DurationBonus: 30,
	})
	require.NoError(t, err)

	f.markSucceeded("pay_1")

	fulfilled, err := f.checkoutService.Fulfill(ctx, result.Order.ID, "pay_1")
	require.NoError(t, err)

	assert.True(t, fulfilled.Verified)
	assert.Equal(t, domain.OrderCompleted, fulfilled.Order.Status)
	assert.Equal(t, "pay_1", fulfilled.Order.PaymentID)
	require.NotEmpty(t, fulfilled.NewRoomID)
	require.NotNil(t, fulfilled.Order.CompletedAt)

	room, err := f.roomService.GetByID(ctx, fulfilled.NewRoomID)
	require.NoError(t, err)
	assert.Equal(t, "paid room", room.Name)
	assert.Equal(t, 20, room.MaxParticipants)
	assert.Equal(t, 900, room.InitialDuration)
	// 900s base plus the 30 minute bonus.
	assert.WithinDuration(t, time.Now().Add(15*time.Minute+30*time.Minute), room.ExpiresAt, 2*time.Second)
}

func TestCheckoutFulfillCreateRoomDefaults(t *testing.T) {
	f := newCheckoutFixture()
	ctx := context.Background()

	result, err := f.checkoutService.Initiate(ctx, service.InitiateParams{
		ProductID: "prod_room",
		Price:     500,
		Intent:    domain.IntentCreateRoom,
	})
	require.NoError(t, err)

	f.markSucceeded("pay_1")

	fulfilled, err := f.checkoutService.Fulfill(ctx, result.Order.ID, "pay_1")
	require.NoError(t, err)

	room, err := f.roomService.GetByID(ctx, fulfilled.NewRoomID)
	require.NoError(t, err)
	assert.Equal(t, "Anonymous Room", room.Name)
	assert.Equal(t, 10, room.MaxParticipants)
	assert.Equal(t, 600, room.InitialDuration)
}

func TestCheckoutFulfillExtendTime(t *testing.T) {
	f := newCheckoutFixture()
	ctx := context.Background()

	room, err := f.roomService.Create(ctx, "standup", 5, 600, 0)
	require.NoError(t, err)

	result, err := f.checkoutService.Initiate(ctx, service.InitiateParams{
		ProductID: "prod_time",
		Price:     300,
		Intent:    domain.IntentExtendTime,
		RoomID:    room.ID,
		Minutes:   15,
	})
	require.NoError(t, err)

	f.markSucceeded("pay_1")

	fulfilled, err := f.checkoutService.Fulfill(ctx, result.Order.ID, "pay_1")
	require.NoError(t, err)

	assert.True(t, fulfilled.Verified)
	// Extensions redirect nowhere new.
	assert.Empty(t, fulfilled.NewRoomID)
	assert.Equal(t, room.ID, fulfilled.Order.FulfilledRoomID)

	extended, err := f.roomService.GetByID(ctx, room.ID)
	require.NoError(t, err)
	assert.Equal(t, room.ExpiresAt.Add(15*time.Minute), extended.ExpiresAt)
}

func TestCheckoutFulfillIsIdempotent(t *testing.T) {
	f := newCheckoutFixture()
	ctx := context.Background()

	result, err := f.checkoutService.Initiate(ctx, service.InitiateParams{
		ProductID: "prod_room",
		Price:     500,
		Intent:    domain.IntentCreateRoom,
	})
	require.NoError(t, err)

	f.markSucceeded("pay_1")

	first, err := f.checkoutService.Fulfill(ctx, result.Order.ID, "pay_1")
	require.NoError(t, err)

	// Re-verification returns the stored result without consulting the
	// provider or creating a second room.
	second, err := f.checkoutService.Fulfill(ctx, result.Order.ID, "pay_1")
	require.NoError(t, err)

	assert.True(t, second.Verified)
	assert.Equal(t, first.NewRoomID, second.NewRoomID)
	assert.Equal(t, 1, f.provider.getPaymentCalls())
}

func TestCheckoutFulfillWithoutPaymentID(t *testing.T) {
	f := newCheckoutFixture()
	ctx := context.Background()

	result, err := f.checkoutService.Initiate(ctx, service.InitiateParams{
		ProductID: "prod_room",
		Price:     500,
		Intent:    domain.IntentCreateRoom,
	})
	require.NoError(t, err)

	fulfilled, err := f.checkoutService.Fulfill(ctx, result.Order.ID, "")
	require.NoError(t, err)

	assert.False(t, fulfilled.Verified)
	assert.Equal(t, domain.OrderPending, fulfilled.Order.Status)
}

func TestCheckoutFulfillUnsucceededPayment(t *testing.T) {
	f := newCheckoutFixture()
	ctx := context.Background()

	result, err := f.checkoutService.Initiate(ctx, service.InitiateParams{
		ProductID: "prod_room",
		Price:     500,
		Intent:    domain.IntentCreateRoom,
	})
	require.NoError(t, err)

	f.markProcessing("pay_1")

	fulfilled, err := f.checkoutService.Fulfill(ctx, result.Order.ID, "pay_1")
	require.NoError(t, err)

	assert.False(t, fulfilled.Verified)
	assert.Equal(t, domain.OrderPending, fulfilled.Order.Status)
}

func TestCheckoutFulfillUnknownPayment(t *testing.T) {
	f := newCheckoutFixture()
	ctx := context.Background()

	result, err := f.checkoutService.Initiate(ctx, service.InitiateParams{
		ProductID: "prod_room",
		Price:     500,
		Intent:    domain.IntentCreateRoom,
	})
	require.NoError(t, err)

	fulfilled, err := f.checkoutService.Fulfill(ctx, result.Order.ID, "pay_missing")
	require.NoError(t, err)

	assert.False(t, fulfilled.Verified)
	assert.Equal(t, domain.OrderPending, fulfilled.Order.Status)
}

func TestCheckoutFulfillFailureLeavesOrderPending(t *testing.T) {
	f := newCheckoutFixture()
	ctx := context.Background()

	room, err := f.roomService.Create(ctx, "standup", 5, 600, 0)
	require.NoError(t, err)

	result, err := f.checkoutService.Initiate(ctx, service.InitiateParams{
		ProductID: "prod_time",
		Price:     300,
		Intent:    domain.IntentExtendTime,
		RoomID:    room.ID,
		Minutes:   15,
	})
	require.NoError(t, err)

	// The room expires between checkout and verification, so the extension
	// cannot apply even though the payment went through.
	require.NoError(t, f.roomService.Expire(ctx, room.ID))
	f.markSucceeded("pay_1")

	_, err = f.checkoutService.Fulfill(ctx, result.Order.ID, "pay_1")
	require.Error(t, err)

	stored, err := f.orders.GetByID(ctx, result.Order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderPending, stored.Status)
}

func TestCheckoutListByRoom(t *testing.T) {
	f := newCheckoutFixture()
	ctx := context.Background()

	room, err := f.roomService.Create(ctx, "standup", 5, 600, 0)
	require.NoError(t, err)

	result, err := f.checkoutService.Initiate(ctx, service.InitiateParams{
		ProductID: "prod_time",
		Price:     300,
		Intent:    domain.IntentExtendTime,
		RoomID:    room.ID,
		Minutes:   15,
	})
	require.NoError(t, err)

	list, err := f.checkoutService.ListByRoom(ctx, room.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, result.Order.ID, list[0].ID)
}
