package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/fuseroom/fuseroom/internal/domain"
	"github.com/fuseroom/fuseroom/internal/infrastructure/configs"
	"github.com/fuseroom/fuseroom/internal/infrastructure/logging"
	"github.com/fuseroom/fuseroom/internal/infrastructure/metrics"
	"github.com/fuseroom/fuseroom/internal/infrastructure/ws"
)

type MessageService struct {
	rooms        domain.RoomRepository
	participants domain.ParticipantRepository
	messages     domain.MessageRepository
	core         *ws.Core
	metrics      *metrics.Metrics
	logger       logging.Logger
	cfg          configs.MessagesConfig
}

func NewMessageService(
	rooms domain.RoomRepository,
	participants domain.ParticipantRepository,
	messages domain.MessageRepository,
	core *ws.Core,
	m *metrics.Metrics,
	logger logging.Logger,
	cfg configs.MessagesConfig,
) *MessageService {
	return &MessageService{
		rooms:        rooms,
		participants: participants,
		messages:     messages,
		core:         core,
		metrics:      m,
		logger:       logger,
		cfg:          cfg,
	}
}

// Send validates sender and room state, persists the message and fans it out
// to subscribers. The returned message carries the id subscribers will see,
// which is what lets a sender de-duplicate its own echo.
func (s *MessageService) Send(ctx context.Context, roomID, participantID, content string) (*domain.Message, error) {
	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if !room.IsActive() {
		return nil, domain.ErrRoomNotActive
	}

	participant, err := s.participants.GetByID(ctx, participantID)
	if err != nil {
		return nil, err
	}
	if participant.RoomID != roomID {
		return nil, domain.ErrParticipantNotFound
	}
	if participant.IsBanned {
		return nil, domain.ErrParticipantBanned
	}

	if s.cfg.MaxContentLength > 0 && len(content) > s.cfg.MaxContentLength {
		return nil, fmt.Errorf("%w: message exceeds %d characters", domain.ErrInvalidInput, s.cfg.MaxContentLength)
	}

	message, err := domain.NewMessage(uuid.NewString(), roomID, participantID, content, time.Now())
	if err != nil {
		return nil, err
	}

	if err := s.messages.Create(ctx, message); err != nil {
		return nil, err
	}
	message.Participant = participant

	if s.metrics != nil {
		s.metrics.MessagesSent.Inc()
	}
	if s.core != nil {
		s.core.Broadcast() <- ws.NewMessageCreated(
			roomID,
			message.ID,
			message.Content,
			participant.ID,
			participant.AvatarName,
			message.CreatedAt.Format(time.RFC3339),
		)
	}

	return message, nil
}

// List returns history in ascending order. Messages from banned participants
// stay visible; a ban silences, it does not redact.
func (s *MessageService) List(ctx context.Context, roomID string, limit int) ([]domain.Message, error) {
	if _, err := s.rooms.GetByID(ctx, roomID); err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = s.cfg.DefaultListLimit
	}

	return s.messages.ListByRoom(ctx, roomID, limit)
}
