package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/fuseroom/fuseroom/internal/domain"
)

type participantRepository struct {
	participants map[string]*domain.Participant // ID -> Participant
	byRoom       map[string][]string            // room ID -> participant IDs
	mu           *sync.RWMutex
}

func NewParticipantRepository() domain.ParticipantRepository {
	return &participantRepository{
		participants: make(map[string]*domain.Participant),
		byRoom:       make(map[string][]string),
		mu:           &sync.RWMutex{},
	}
}

func (r *participantRepository) Create(ctx context.Context, p *domain.Participant) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := *p
	r.participants[p.ID] = &copied
	r.byRoom[p.RoomID] = append(r.byRoom[p.RoomID], p.ID)
	return nil
}

func (r *participantRepository) GetByID(ctx context.Context, id string) (*domain.Participant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.participants[id]
	if !ok {
		return nil, domain.ErrParticipantNotFound
	}

	copied := *p
	return &copied, nil
}

func (r *participantRepository) ListActiveByRoom(ctx context.Context, roomID string) ([]domain.Participant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []domain.Participant
	for _, id := range r.byRoom[roomID] {
		if p, ok := r.participants[id]; ok && !p.IsBanned {
			out = append(out, *p)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].JoinedAt.Before(out[j].JoinedAt)
	})
	return out, nil
}

func (r *participantRepository) CountActive(ctx context.Context, roomID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, id := range r.byRoom[roomID] {
		if p, ok := r.participants[id]; ok && !p.IsBanned {
			count++
		}
	}
	return count, nil
}

func (r *participantRepository) Ban(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.participants[id]
	if !ok {
		return domain.ErrParticipantNotFound
	}

	p.IsBanned = true
	return nil
}
