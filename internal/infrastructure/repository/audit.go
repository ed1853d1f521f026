package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fuseroom/fuseroom/internal/domain"
)

type auditRepository struct {
	logs []domain.RoomAuditLog
	mu   *sync.RWMutex
}

func NewAuditRepository() domain.RoomAuditRepository {
	return &auditRepository{
		mu: &sync.RWMutex{},
	}
}

func (r *auditRepository) Log(ctx context.Context, entry *domain.RoomAuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := *entry
	if copied.ID == "" {
		copied.ID = uuid.NewString()
	}
	if copied.Timestamp.IsZero() {
		copied.Timestamp = time.Now()
	}
	r.logs = append(r.logs, copied)
	return nil
}

func (r *auditRepository) GetByRoomID(ctx context.Context, roomID string, limit int) ([]domain.RoomAuditLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []domain.RoomAuditLog
	for i := len(r.logs) - 1; i >= 0; i-- {
		if r.logs[i].RoomID != roomID {
			continue
		}
		out = append(out, r.logs[i])
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (r *auditRepository) DeleteOlderThan(ctx context.Context, before time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.logs[:0]
	for _, entry := range r.logs {
		if !entry.Timestamp.Before(before) {
			kept = append(kept, entry)
		}
	}
	r.logs = kept
	return nil
}
