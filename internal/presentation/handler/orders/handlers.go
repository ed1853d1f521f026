package orders

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fuseroom/fuseroom/internal/domain"
	"github.com/fuseroom/fuseroom/internal/infrastructure/json"
	"github.com/fuseroom/fuseroom/internal/infrastructure/validate"
	"github.com/fuseroom/fuseroom/internal/presentation/apierror"
	"github.com/fuseroom/fuseroom/internal/service"
)

type Handler struct {
	checkoutService *service.CheckoutService
}

func NewHandler(checkoutService *service.CheckoutService) *Handler {
	return &Handler{
		checkoutService: checkoutService,
	}
}

var validateIntent = validate.Field("type",
	validate.Required(),
	validate.OneOf(string(domain.IntentCreateRoom), string(domain.IntentExtendTime)),
)

func toOrderResponse(order *domain.Order) orderResponse {
	return orderResponse{
		ID:              order.ID,
		RoomID:          order.RoomID,
		TotalAmount:     order.TotalAmount,
		Currency:        order.Currency,
		Status:          string(order.Status),
		SessionID:       order.SessionID,
		PaymentID:       order.PaymentID,
		Intent:          string(order.Metadata.Type),
		FulfilledRoomID: order.FulfilledRoomID,
		CreatedAt:       order.CreatedAt,
		CompletedAt:     order.CompletedAt,
	}
}

// CreateCheckoutHandler godoc
// @Summary      Open a checkout session
// @Description  Records a pending order and returns the provider's hosted checkout URL
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        request body checkoutRequest true "Checkout parameters"
// @Success      201 {object} checkoutResponse "Session created"
// @Failure      400 {object} map[string]interface{} "Validation error"
// @Failure      502 {object} map[string]interface{} "Payment provider unavailable"
// @Router       /checkout [post]
func (h *Handler) CreateCheckoutHandler(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := json.Read(r, &req); err != nil {
		json.WriteValidationError(w, err)
		return
	}

	if err := validateIntent(req.Type); err != nil {
		json.WriteValidationError(w, err)
		return
	}
	intent := domain.OrderIntent(req.Type)

	params := service.InitiateParams{
		ProductID:     req.ProductID,
		Name:          req.Name,
		Price:         req.Price,
		Quantity:      req.Quantity,
		Intent:        intent,
		RoomID:        req.RoomID,
		Minutes:       req.Minutes,
		DurationBonus: req.DurationBonus,
	}
	if req.RoomParams != nil {
		params.RoomParams = &domain.RoomParams{
			Name:            req.RoomParams.Name,
			MaxParticipants: req.RoomParams.MaxParticipants,
			InitialDuration: req.RoomParams.InitialDuration,
		}
	}
	if req.Customer != nil {
		params.CustomerName = req.Customer.Name
		params.CustomerEmail = req.Customer.Email
	}

	result, err := h.checkoutService.Initiate(r.Context(), params)
	if err != nil {
		apierror.Write(w, err)
		return
	}

	json.Write(w, http.StatusCreated, checkoutResponse{
		OrderID: result.Order.ID,
		URL:     result.CheckoutURL,
	})
}

// VerifyPaymentHandler godoc
// @Summary      Verify and fulfill a payment
// @Description  Verifies the payment with the provider and applies the order's intent exactly once; re-verification returns the stored result
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        request body verifyRequest true "Order and payment identifiers"
// @Success      200 {object} verifyResponse
// @Failure      400 {object} map[string]interface{} "Missing order id"
// @Failure      404 {object} map[string]interface{} "Order not found"
// @Failure      502 {object} map[string]interface{} "Payment provider unavailable"
// @Router       /payments/verify [post]
func (h *Handler) VerifyPaymentHandler(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := json.Read(r, &req); err != nil {
		json.WriteValidationError(w, err)
		return
	}
	if req.OrderID == "" {
		json.WriteValidationError(w, errors.New("order id is required"))
		return
	}

	result, err := h.checkoutService.Fulfill(r.Context(), req.OrderID, req.PaymentID)
	if err != nil {
		apierror.Write(w, err)
		return
	}

	json.Write(w, http.StatusOK, verifyResponse{
		Verified:  result.Verified,
		Order:     toOrderResponse(result.Order),
		NewRoomID: result.NewRoomID,
	})
}

// GetOrderBySessionHandler godoc
// @Summary      Look up an order by checkout session
// @Tags         orders
// @Produce      json
// @Param        sessionId path string true "Provider session ID"
// @Success      200 {object} orderResponse
// @Failure      404 {object} map[string]interface{} "Order not found"
// @Router       /orders/session/{sessionId} [get]
func (h *Handler) GetOrderBySessionHandler(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionId")
	if sessionID == "" {
		json.WriteValidationError(w, errors.New("session ID is missing"))
		return
	}

	order, err := h.checkoutService.GetBySessionID(r.Context(), sessionID)
	if err != nil {
		apierror.Write(w, err)
		return
	}

	json.Write(w, http.StatusOK, toOrderResponse(order))
}

// ListRoomOrdersHandler godoc
// @Summary      List a room's orders
// @Description  Orders that created or extended the room, newest first
// @Tags         orders
// @Produce      json
// @Param        roomId path string true "Room ID"
// @Success      200 {object} listOrdersResponse
// @Router       /rooms/{roomId}/orders [get]
func (h *Handler) ListRoomOrdersHandler(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "roomId")
	if roomID == "" {
		json.WriteValidationError(w, errors.New("room ID is missing"))
		return
	}

	list, err := h.checkoutService.ListByRoom(r.Context(), roomID)
	if err != nil {
		apierror.Write(w, err)
		return
	}

	resp := listOrdersResponse{Orders: make([]orderResponse, 0, len(list))}
	for i := range list {
		resp.Orders = append(resp.Orders, toOrderResponse(&list[i]))
	}

	json.Write(w, http.StatusOK, resp)
}
