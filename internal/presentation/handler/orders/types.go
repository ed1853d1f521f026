package orders

import "time"

// checkoutRequest opens a payment session for either a paid room or a time
// extension of an existing room.
type checkoutRequest struct {
	ProductID string `json:"productId" example:"pdt_premium_room" minLength:"1"` // Provider product
	Name      string `json:"name" example:"Premium room"`                        // Line item label
	Price     int64  `json:"price" example:"499"`                                // Smallest currency unit
	Quantity  int    `json:"quantity" example:"1"`                               // Defaults to 1

	Type   string `json:"type" example:"create_room"` // create_room or extend_time
	RoomID string `json:"roomId,omitempty"`           // Required for extend_time

	Minutes       int                `json:"minutes,omitempty" example:"30"` // Extension size
	RoomParams    *roomParamsRequest `json:"roomParams,omitempty"`           // Parameters for the purchased room
	DurationBonus int                `json:"durationBonus,omitempty"`        // Extra minutes granted on paid creation

	Customer *customerRequest `json:"customer,omitempty"`
}

type roomParamsRequest struct {
	Name            string `json:"name" example:"Premium standup"`
	MaxParticipants int    `json:"maxParticipants" example:"10"`
	InitialDuration int    `json:"initialDuration" example:"600"` // seconds
}

type customerRequest struct {
	Name  string `json:"name" example:"Guest User"`
	Email string `json:"email" example:"customer@example.com"`
}

// checkoutResponse points the client at the provider's hosted checkout
type checkoutResponse struct {
	OrderID string `json:"orderId" example:"550e8400-e29b-41d4-a716-446655440010"`
	URL     string `json:"url" example:"https://test.dodopayments.com/checkout/abc"`
}

// verifyRequest asks the reconciler to verify and fulfill an order
type verifyRequest struct {
	OrderID   string `json:"orderId" minLength:"1"`
	PaymentID string `json:"paymentId,omitempty"`
}

// orderResponse mirrors the stored order including its fulfillment result
type orderResponse struct {
	ID              string     `json:"id"`
	RoomID          string     `json:"roomId,omitempty"`
	TotalAmount     int64      `json:"totalAmount"`
	Currency        string     `json:"currency"`
	Status          string     `json:"status" example:"completed"`
	SessionID       string     `json:"sessionId,omitempty"`
	PaymentID       string     `json:"paymentId,omitempty"`
	Intent          string     `json:"intent" example:"extend_time"`
	FulfilledRoomID string     `json:"fulfilledRoomId,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	CompletedAt     *time.Time `json:"completedAt,omitempty"`
}

// verifyResponse reports the reconciliation outcome
type verifyResponse struct {
	Verified  bool          `json:"verified"`
	Order     orderResponse `json:"order"`
	NewRoomID string        `json:"newRoomId,omitempty"` // Set for fulfilled create_room orders
}

type listOrdersResponse struct {
	Orders []orderResponse `json:"orders"`
}
