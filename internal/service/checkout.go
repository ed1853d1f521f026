package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fuseroom/fuseroom/internal/domain"
	"github.com/fuseroom/fuseroom/internal/infrastructure/configs"
	"github.com/fuseroom/fuseroom/internal/infrastructure/events"
	"github.com/fuseroom/fuseroom/internal/infrastructure/logging"
	"github.com/fuseroom/fuseroom/internal/infrastructure/metrics"
	"github.com/fuseroom/fuseroom/internal/infrastructure/payments"
)

// Paid room creation falls back to these when the order metadata omits
// room parameters.
const (
	defaultRoomName     = "Anonymous Room"
	defaultRoomCapacity = 10
	defaultRoomDuration = 600 // seconds
)

type CheckoutService struct {
	orders    domain.OrderRepository
	provider  payments.Provider
	rooms     *RoomService
	publisher *events.RoomPublisher
	metrics   *metrics.Metrics
	logger    logging.Logger
	cfg       configs.PaymentsConfig
}

func NewCheckoutService(
	orders domain.OrderRepository,
	provider payments.Provider,
	rooms *RoomService,
	publisher *events.RoomPublisher,
	m *metrics.Metrics,
	logger logging.Logger,
	cfg configs.PaymentsConfig,
) *CheckoutService {
	return &CheckoutService{
		orders:    orders,
		provider:  provider,
		rooms:     rooms,
		publisher: publisher,
		metrics:   m,
		logger:    logger,
		cfg:       cfg,
	}
}

type InitiateParams struct {
	ProductID string
	Name      string
	Price     int64 // smallest currency unit
	Quantity  int

	Intent domain.OrderIntent
	RoomID string // required for extend_time

	Minutes       int
	RoomParams    *domain.RoomParams
	DurationBonus int // minutes

	CustomerName  string
	CustomerEmail string
}

type CheckoutResult struct {
	Order       *domain.Order
	CheckoutURL string
}

// Initiate records a pending order and opens a provider checkout session.
// The order exists before the provider call so a session that never returns
// still leaves an auditable trail.
func (s *CheckoutService) Initiate(ctx context.Context, p InitiateParams) (*CheckoutResult, error) {
	if p.ProductID == "" {
		return nil, fmt.Errorf("%w: product id is required", domain.ErrInvalidInput)
	}
	if p.Intent != domain.IntentCreateRoom && p.RoomID == "" {
		return nil, fmt.Errorf("%w: room id is required for extensions", domain.ErrInvalidInput)
	}
	if p.Intent == domain.IntentExtendTime {
		room, err := s.rooms.GetByID(ctx, p.RoomID)
		if err != nil {
			return nil, err
		}
		if !room.IsActive() {
			return nil, domain.ErrRoomNotActive
		}
	}

	if p.Quantity <= 0 {
		p.Quantity = 1
	}

	now := time.Now()
	order := &domain.Order{
		ID:     uuid.NewString(),
		RoomID: p.RoomID,
		Items: []domain.OrderItem{{
			ProductID: p.ProductID,
			Name:      p.Name,
			Price:     p.Price,
			Quantity:  p.Quantity,
		}},
		TotalAmount: p.Price * int64(p.Quantity),
		Currency:    s.cfg.Currency,
		Status:      domain.OrderPending,
		Metadata: domain.OrderMetadata{
			Type:          p.Intent,
			Minutes:       p.Minutes,
			RoomParams:    p.RoomParams,
			DurationBonus: p.DurationBonus,
			CustomerName:  p.CustomerName,
			CustomerEmail: p.CustomerEmail,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, err
	}

	customer := payments.Customer{
		Email: p.CustomerEmail,
		Name:  p.CustomerName,
	}
	if customer.Email == "" {
		customer.Email = "customer@example.com"
	}
	if customer.Name == "" {
		customer.Name = "Guest User"
	}

	session, err := s.provider.CreateCheckout(ctx, payments.CheckoutRequest{
		ProductCart: []payments.ProductCartItem{{
			ProductID: p.ProductID,
			Quantity:  p.Quantity,
		}},
		Customer:  customer,
		ReturnURL: fmt.Sprintf("%s?order_id=%s", s.cfg.ReturnURL, order.ID),
		// Provider metadata values must be strings.
		Metadata: map[string]string{
			"order_id": order.ID,
			"room_id":  p.RoomID,
			"type":     string(p.Intent),
		},
	})
	if err != nil {
		s.logger.Error(logging.Payments, logging.ExternalService, "checkout session failed", map[logging.ExtraKey]any{
			logging.OrderID:      order.ID,
			logging.ErrorMessage: err.Error(),
		})
		return nil, err
	}

	if err := s.orders.SetSessionID(ctx, order.ID, session.CheckoutID); err != nil {
		return nil, err
	}
	order.SessionID = session.CheckoutID

	if s.metrics != nil {
		s.metrics.OrdersInitiated.Inc()
	}

	s.logger.Info(logging.Payments, logging.ExternalService, "checkout session created", map[logging.ExtraKey]any{
		logging.OrderID: order.ID,
	})

	return &CheckoutResult{
		Order:       order,
		CheckoutURL: session.CheckoutURL,
	}, nil
}

type FulfillResult struct {
	Verified bool          `json:"verified"`
	Order    *domain.Order `json:"order"`
	// NewRoomID is set for create_room fulfillments so the caller can
	// redirect into the purchased room.
	NewRoomID string `json:"newRoomId,omitempty"`
}

// Fulfill verifies the payment with the provider and applies the order's
// intent exactly once. Re-verifying a completed order returns the stored
// result without touching the room again. If fulfillment fails after the
// payment verified, the order stays pending so a retry can finish the job.
func (s *CheckoutService) Fulfill(ctx context.Context, orderID, paymentID string) (*FulfillResult, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if order.Status == domain.OrderCompleted {
		return &FulfillResult{
			Verified:  true,
			Order:     order,
			NewRoomID: s.newRoomID(order),
		}, nil
	}

	if paymentID == "" {
		return &FulfillResult{Order: order}, nil
	}

	payment, err := s.provider.GetPayment(ctx, paymentID)
	if errors.Is(err, domain.ErrPaymentUnverified) {
		return &FulfillResult{Order: order}, nil
	}
	if err != nil {
		return nil, err
	}
	if !payment.Succeeded() {
		return &FulfillResult{Order: order}, nil
	}

	fulfilledRoomID, err := s.applyIntent(ctx, order)
	if err != nil {
		s.logger.Error(logging.Payments, logging.Fulfillment, "fulfillment failed, order stays pending", map[logging.ExtraKey]any{
			logging.OrderID:      order.ID,
			logging.ErrorMessage: err.Error(),
		})
		return nil, err
	}

	if err := s.orders.Complete(ctx, order.ID, paymentID, fulfilledRoomID); err != nil {
		return nil, err
	}

	order, err = s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.OrdersCompleted.Inc()
	}
	if s.publisher != nil {
		if err := s.publisher.PublishOrderCompleted(ctx, *order); err != nil {
			s.logger.Warn(logging.RabbitMQ, logging.Fanout, "failed to publish order event", map[logging.ExtraKey]any{
				logging.OrderID:      order.ID,
				logging.ErrorMessage: err.Error(),
			})
		}
	}

	s.logger.Info(logging.Payments, logging.Fulfillment, "order fulfilled", map[logging.ExtraKey]any{
		logging.OrderID: order.ID,
		logging.RoomID:  fulfilledRoomID,
	})

	return &FulfillResult{
		Verified:  true,
		Order:     order,
		NewRoomID: s.newRoomID(order),
	}, nil
}

func (s *CheckoutService) applyIntent(ctx context.Context, order *domain.Order) (string, error) {
	switch order.Metadata.Type {
	case domain.IntentCreateRoom:
		params := order.Metadata.RoomParams
		if params == nil {
			params = &domain.RoomParams{}
		}

		name := params.Name
		if name == "" {
			name = defaultRoomName
		}
		capacity := params.MaxParticipants
		if capacity <= 0 {
			capacity = defaultRoomCapacity
		}
		duration := params.InitialDuration
		if duration <= 0 {
			duration = defaultRoomDuration
		}
		bonus := time.Duration(order.Metadata.DurationBonus) * time.Minute

		room, err := s.rooms.Create(ctx, name, capacity, duration, bonus)
		if err != nil {
			return "", err
		}
		return room.ID, nil

	case domain.IntentExtendTime:
		if order.Metadata.Minutes > 0 {
			if _, err := s.rooms.Extend(ctx, order.RoomID, order.Metadata.Minutes); err != nil {
				return "", err
			}
		}
		return order.RoomID, nil

	default:
		return "", fmt.Errorf("%w: unknown order intent %q", domain.ErrInvalidInput, order.Metadata.Type)
	}
}

func (s *CheckoutService) newRoomID(order *domain.Order) string {
	if order.Metadata.Type == domain.IntentCreateRoom {
		return order.FulfilledRoomID
	}
	return ""
}

func (s *CheckoutService) GetBySessionID(ctx context.Context, sessionID string) (*domain.Order, error) {
	return s.orders.GetBySessionID(ctx, sessionID)
}

func (s *CheckoutService) ListByRoom(ctx context.Context, roomID string) ([]domain.Order, error) {
	return s.orders.ListByRoom(ctx, roomID)
}
