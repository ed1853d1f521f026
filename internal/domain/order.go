package domain

import (
	"context"
	"errors"
	"time"
)

var (
	ErrOrderNotFound       = errors.New("order not found")
	ErrPaymentUnverified   = errors.New("payment not verified")
	ErrProviderUnavailable = errors.New("payment provider unavailable")
)

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderCompleted OrderStatus = "completed"
	OrderCancelled OrderStatus = "cancelled"
	OrderRefunded  OrderStatus = "refunded"
)

// OrderIntent tags what a verified payment must fulfill.
type OrderIntent string

const (
	IntentCreateRoom OrderIntent = "create_room"
	IntentExtendTime OrderIntent = "extend_time"
)

type OrderItem struct {
	ProductID string `json:"productId" bson:"product_id"`
	Name      string `json:"name" bson:"name"`
	Price     int64  `json:"price" bson:"price"` // smallest currency unit
	Quantity  int    `json:"quantity" bson:"quantity"`
}

// RoomParams carries everything fulfillment needs to create a room, so the
// reconciler never re-derives intent from client state.
type RoomParams struct {
	Name            string `json:"name" bson:"name"`
	MaxParticipants int    `json:"maxParticipants" bson:"max_participants"`
	InitialDuration int    `json:"initialDuration" bson:"initial_duration"` // seconds
}

type OrderMetadata struct {
	Type OrderIntent `json:"type" bson:"type"`

	// extend_time
	Minutes int `json:"minutes,omitempty" bson:"minutes,omitempty"`

	// create_room
	RoomParams    *RoomParams `json:"roomParams,omitempty" bson:"room_params,omitempty"`
	DurationBonus int         `json:"durationBonus,omitempty" bson:"duration_bonus,omitempty"` // minutes

	CustomerName  string `json:"customerName,omitempty" bson:"customer_name,omitempty"`
	CustomerEmail string `json:"customerEmail,omitempty" bson:"customer_email,omitempty"`
}

// Order records one payment intent. The pending -> completed transition is
// idempotent: re-verifying a completed order returns the stored fulfillment
// result (FulfilledRoomID) with no further side effects.
type Order struct {
	ID          string        `json:"id" bson:"_id"`
	RoomID      string        `json:"roomId,omitempty" bson:"room_id,omitempty"` // empty until create_room fulfillment
	Items       []OrderItem   `json:"items" bson:"items"`
	TotalAmount int64         `json:"totalAmount" bson:"total_amount"`
	Currency    string        `json:"currency" bson:"currency"`
	Status      OrderStatus   `json:"status" bson:"status"`
	SessionID   string        `json:"sessionId,omitempty" bson:"session_id,omitempty"`
	PaymentID   string        `json:"paymentId,omitempty" bson:"payment_id,omitempty"`
	Metadata    OrderMetadata `json:"metadata" bson:"metadata"`

	// FulfilledRoomID is the durable fulfillment result: the created room for
	// create_room intents, the extended room for extend_time intents.
	FulfilledRoomID string `json:"fulfilledRoomId,omitempty" bson:"fulfilled_room_id,omitempty"`

	CreatedAt   time.Time  `json:"createdAt" bson:"created_at"`
	UpdatedAt   time.Time  `json:"updatedAt" bson:"updated_at"`
	CompletedAt *time.Time `json:"completedAt,omitempty" bson:"completed_at,omitempty"`
}

type OrderRepository interface {
	Create(ctx context.Context, order *Order) error
	GetByID(ctx context.Context, id string) (*Order, error)
	GetBySessionID(ctx context.Context, sessionID string) (*Order, error)
	// ListByRoom returns orders for a room, newest first.
	ListByRoom(ctx context.Context, roomID string) ([]Order, error)
	SetSessionID(ctx context.Context, id, sessionID string) error
	// Complete marks a pending order completed and records the payment id
	// and fulfillment result in one update. Completing an already-completed
	// order is a no-op that preserves the stored result.
	Complete(ctx context.Context, id, paymentID, fulfilledRoomID string) error
}
