// Package service holds the room lifecycle, admission, messaging and
// checkout use cases on top of the domain repositories.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fuseroom/fuseroom/internal/domain"
	"github.com/fuseroom/fuseroom/internal/infrastructure/configs"
	"github.com/fuseroom/fuseroom/internal/infrastructure/events"
	"github.com/fuseroom/fuseroom/internal/infrastructure/logging"
	"github.com/fuseroom/fuseroom/internal/infrastructure/metrics"
	"github.com/fuseroom/fuseroom/internal/infrastructure/ws"
)

type RoomService struct {
	rooms     domain.RoomRepository
	core      *ws.Core
	publisher *events.RoomPublisher
	metrics   *metrics.Metrics
	logger    logging.Logger
	cfg       configs.RoomsConfig
}

func NewRoomService(
	rooms domain.RoomRepository,
	core *ws.Core,
	publisher *events.RoomPublisher,
	m *metrics.Metrics,
	logger logging.Logger,
	cfg configs.RoomsConfig,
) *RoomService {
	return &RoomService{
		rooms:     rooms,
		core:      core,
		publisher: publisher,
		metrics:   m,
		logger:    logger,
		cfg:       cfg,
	}
}

// Create allocates a unique code and persists the room. The bonus duration
// extends the first window beyond the stored initial duration, used by paid
// room creation.
func (s *RoomService) Create(ctx context.Context, name string, maxParticipants, durationSec int, bonus time.Duration) (*domain.Room, error) {
	if s.cfg.MaxInitialDuration > 0 && durationSec > s.cfg.MaxInitialDuration {
		return nil, fmt.Errorf("%w: duration exceeds %d seconds", domain.ErrInvalidInput, s.cfg.MaxInitialDuration)
	}

	code, err := domain.GenerateRoomCode()
	if err != nil {
		return nil, err
	}

	room, err := domain.NewRoom(uuid.NewString(), code, name, maxParticipants, durationSec, time.Now())
	if err != nil {
		return nil, err
	}
	if bonus > 0 {
		room.ExpiresAt = room.ExpiresAt.Add(bonus)
	}

	attempts := s.cfg.MaxCodeAttempts
	if attempts <= 0 {
		attempts = 10
	}

	for i := 0; i < attempts; i++ {
		if i > 0 {
			code, err = domain.GenerateRoomCode()
			if err != nil {
				return nil, err
			}
			room.Code = code
		}

		err = s.rooms.Create(ctx, room)
		if err == nil {
			break
		}
		if err != domain.ErrCodeCollision {
			return nil, err
		}
		err = ErrCodeExhausted
	}
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.RoomsCreated.Inc()
	}
	if s.core != nil {
		s.core.WatchRoom(room)
	}
	s.publishRoom(ctx, room, func(p *events.RoomPublisher) error {
		return p.PublishRoomCreated(ctx, *room)
	})

	s.logger.Info(logging.General, logging.Lifecycle, "room created", map[logging.ExtraKey]any{
		logging.RoomID: room.ID,
	})

	return room, nil
}

func (s *RoomService) GetByID(ctx context.Context, id string) (*domain.Room, error) {
	return s.rooms.GetByID(ctx, id)
}

// GetByCode resolves an active room; codes of expired or deleted rooms do
// not resolve.
func (s *RoomService) GetByCode(ctx context.Context, code string) (*domain.Room, error) {
	return s.rooms.GetByCode(ctx, domain.NormalizeCode(code))
}

// Extend pushes the deadline forward by whole minutes and rebroadcasts the
// new expiry to subscribers.
func (s *RoomService) Extend(ctx context.Context, id string, minutes int) (*domain.Room, error) {
	if minutes <= 0 {
		return nil, fmt.Errorf("%w: minutes must be positive", domain.ErrInvalidInput)
	}

	if err := s.rooms.ExtendExpiry(ctx, id, time.Duration(minutes)*time.Minute); err != nil {
		return nil, err
	}

	room, err := s.rooms.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.RoomsExtended.Inc()
	}
	if s.core != nil {
		s.core.ExtendWatch(room.ID, room.ExpiresAt)
		s.core.Broadcast() <- ws.NewRoomExtended(
			room.ID,
			room.ExpiresAt.Format(time.RFC3339),
			int64(room.Remaining(time.Now()).Seconds()),
		)
	}
	s.publishRoom(ctx, room, func(p *events.RoomPublisher) error {
		return p.PublishRoomExtended(ctx, *room)
	})

	s.logger.Info(logging.General, logging.Lifecycle, "room extended", map[logging.ExtraKey]any{
		logging.RoomID: room.ID,
	})

	return room, nil
}

// Expire flips an active room to expired. Calling it on an already terminal
// room is a no-op with no side effects.
func (s *RoomService) Expire(ctx context.Context, id string) error {
	room, err := s.rooms.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if room.Status.Terminal() {
		return nil
	}

	if err := s.rooms.Expire(ctx, id); err != nil {
		return err
	}
	room.Status = domain.RoomExpired

	if s.metrics != nil {
		s.metrics.RoomsExpired.Inc()
	}
	if s.core != nil {
		s.core.Broadcast() <- ws.NewRoomExpired(room.ID)
		s.core.StopWatch(room.ID)
	}
	s.publishRoom(ctx, room, func(p *events.RoomPublisher) error {
		return p.PublishRoomExpired(ctx, *room)
	})

	s.logger.Info(logging.General, logging.Lifecycle, "room expired", map[logging.ExtraKey]any{
		logging.RoomID: room.ID,
	})

	return nil
}

// ExpireFromWatcher adapts Expire for the countdown watcher, which has no
// error channel to report into.
func (s *RoomService) ExpireFromWatcher(ctx context.Context, roomID string) {
	if err := s.Expire(ctx, roomID); err != nil {
		s.logger.Error(logging.General, logging.Lifecycle, "watcher expiry failed", map[logging.ExtraKey]any{
			logging.RoomID:       roomID,
			logging.ErrorMessage: err.Error(),
		})
	}
}

// Delete soft-deletes an active room. Idempotent like Expire.
func (s *RoomService) Delete(ctx context.Context, id string) error {
	room, err := s.rooms.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if room.Status.Terminal() {
		return nil
	}

	if err := s.rooms.Delete(ctx, id); err != nil {
		return err
	}
	room.Status = domain.RoomDeleted

	if s.metrics != nil {
		s.metrics.RoomsDeleted.Inc()
	}
	if s.core != nil {
		s.core.Broadcast() <- ws.NewRoomDeleted(room.ID)
		s.core.StopWatch(room.ID)
	}
	s.publishRoom(ctx, room, func(p *events.RoomPublisher) error {
		return p.PublishRoomDeleted(ctx, *room)
	})

	s.logger.Info(logging.General, logging.Lifecycle, "room deleted", map[logging.ExtraKey]any{
		logging.RoomID: room.ID,
	})

	return nil
}

// publishRoom fans the event out to the broker; broker trouble never fails
// the caller's request.
func (s *RoomService) publishRoom(ctx context.Context, room *domain.Room, publish func(*events.RoomPublisher) error) {
	if s.publisher == nil {
		return
	}
	if err := publish(s.publisher); err != nil {
		s.logger.Warn(logging.RabbitMQ, logging.Fanout, "failed to publish room event", map[logging.ExtraKey]any{
			logging.RoomID:       room.ID,
			logging.ErrorMessage: err.Error(),
		})
	}
}
