package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/fuseroom/fuseroom/internal/domain"
)

type orderRepository struct {
	orders    map[string]*domain.Order // ID -> Order
	bySession map[string]string        // session ID -> order ID
	mu        *sync.RWMutex
}

func NewOrderRepository() domain.OrderRepository {
	return &orderRepository{
		orders:    make(map[string]*domain.Order),
		bySession: make(map[string]string),
		mu:        &sync.RWMutex{},
	}
}

func (r *orderRepository) Create(ctx context.Context, order *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := *order
	r.orders[order.ID] = &copied
	if order.SessionID != "" {
		r.bySession[order.SessionID] = order.ID
	}
	return nil
}

func (r *orderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}

	copied := *order
	return &copied, nil
}

func (r *orderRepository) GetBySessionID(ctx context.Context, sessionID string) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.bySession[sessionID]
	if !ok {
		return nil, domain.ErrOrderNotFound
	}

	copied := *r.orders[id]
	return &copied, nil
}

func (r *orderRepository) ListByRoom(ctx context.Context, roomID string) ([]domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []domain.Order
	for _, order := range r.orders {
		if order.RoomID == roomID || order.FulfilledRoomID == roomID {
			out = append(out, *order)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *orderRepository) SetSessionID(ctx context.Context, id, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok {
		return domain.ErrOrderNotFound
	}

	order.SessionID = sessionID
	order.UpdatedAt = time.Now()
	r.bySession[sessionID] = id
	return nil
}

func (r *orderRepository) Complete(ctx context.Context, id, paymentID, fulfilledRoomID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok {
		return domain.ErrOrderNotFound
	}
	if order.Status == domain.OrderCompleted {
		// First completion wins; a concurrent duplicate keeps its result.
		return nil
	}

	now := time.Now()
	order.Status = domain.OrderCompleted
	order.PaymentID = paymentID
	order.FulfilledRoomID = fulfilledRoomID
	if order.Metadata.Type == domain.IntentCreateRoom && order.RoomID == "" {
		order.RoomID = fulfilledRoomID
	}
	order.CompletedAt = &now
	order.UpdatedAt = now
	return nil
}
