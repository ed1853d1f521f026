// Package repository provides in-memory implementations of the domain
// repositories. They back local development and tests; production deploys
// use the Mongo implementations in internal/persistence/repository.
package repository

import (
	"context"
	"sync"
	"time"

	"github.com/fuseroom/fuseroom/internal/domain"
)

type roomRepository struct {
	rooms     map[string]*domain.Room // ID -> Room
	codeIndex map[string]string       // normalized code -> room ID
	mu        *sync.RWMutex
}

func NewRoomRepository() domain.RoomRepository {
	return &roomRepository{
		rooms:     make(map[string]*domain.Room),
		codeIndex: make(map[string]string),
		mu:        &sync.RWMutex{},
	}
}

func (r *roomRepository) Create(ctx context.Context, room *domain.Room) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	code := domain.NormalizeCode(room.Code)
	if existingID, taken := r.codeIndex[code]; taken {
		if existing := r.rooms[existingID]; existing != nil && existing.IsActive() {
			return domain.ErrCodeCollision
		}
	}

	copied := *room
	r.rooms[room.ID] = &copied
	r.codeIndex[code] = room.ID
	return nil
}

func (r *roomRepository) GetByID(ctx context.Context, id string) (*domain.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	room, ok := r.rooms[id]
	if !ok {
		return nil, domain.ErrRoomNotFound
	}

	copied := *room
	return &copied, nil
}

func (r *roomRepository) GetByCode(ctx context.Context, code string) (*domain.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.codeIndex[domain.NormalizeCode(code)]
	if !ok {
		return nil, domain.ErrRoomNotFound
	}

	room, ok := r.rooms[id]
	if !ok || !room.IsActive() {
		// Codes of terminal rooms are free for reuse and never resolve.
		return nil, domain.ErrRoomNotFound
	}

	copied := *room
	return &copied, nil
}

func (r *roomRepository) ExtendExpiry(ctx context.Context, id string, d time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.rooms[id]
	if !ok {
		return domain.ErrRoomNotFound
	}
	if !room.IsActive() {
		return domain.ErrRoomNotActive
	}

	room.ExpiresAt = room.ExpiresAt.Add(d)
	room.UpdatedAt = time.Now()
	return nil
}

func (r *roomRepository) Expire(ctx context.Context, id string) error {
	return r.transition(id, domain.RoomExpired)
}

func (r *roomRepository) Delete(ctx context.Context, id string) error {
	return r.transition(id, domain.RoomDeleted)
}

// transition moves an active room into a terminal status. Terminal rooms are
// left untouched so repeated expire or delete calls stay idempotent.
func (r *roomRepository) transition(id string, status domain.RoomStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.rooms[id]
	if !ok {
		return domain.ErrRoomNotFound
	}
	if room.Status.Terminal() {
		return nil
	}

	room.Status = status
	room.UpdatedAt = time.Now()
	return nil
}
