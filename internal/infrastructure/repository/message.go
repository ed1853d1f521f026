package repository

import (
	"context"
	"sync"

	"github.com/fuseroom/fuseroom/internal/domain"
)

type messageRepository struct {
	byRoom       map[string][]domain.Message // room ID -> messages, created_at ascending
	participants domain.ParticipantRepository
	mu           *sync.RWMutex
}

// NewMessageRepository joins each listed message with its sender so realtime
// replay and history responses carry display identities.
func NewMessageRepository(participants domain.ParticipantRepository) domain.MessageRepository {
	return &messageRepository{
		byRoom:       make(map[string][]domain.Message),
		participants: participants,
		mu:           &sync.RWMutex{},
	}
}

func (r *messageRepository) Create(ctx context.Context, message *domain.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := *message
	copied.Participant = nil
	r.byRoom[message.RoomID] = append(r.byRoom[message.RoomID], copied)
	return nil
}

func (r *messageRepository) ListByRoom(ctx context.Context, roomID string, limit int) ([]domain.Message, error) {
	r.mu.RLock()
	messages := r.byRoom[roomID]
	if limit > 0 && len(messages) > limit {
		// Keep the most recent window, still ascending.
		messages = messages[len(messages)-limit:]
	}
	out := make([]domain.Message, len(messages))
	copy(out, messages)
	r.mu.RUnlock()

	for i := range out {
		p, err := r.participants.GetByID(ctx, out[i].ParticipantID)
		if err != nil {
			continue
		}
		out[i].Participant = p
	}

	return out, nil
}
