package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/fuseroom/fuseroom/internal/domain"
	"github.com/fuseroom/fuseroom/internal/infrastructure/logging"
	"github.com/fuseroom/fuseroom/internal/infrastructure/ws"
)

type AdmissionService struct {
	rooms        domain.RoomRepository
	participants domain.ParticipantRepository
	core         *ws.Core
	logger       logging.Logger
}

func NewAdmissionService(
	rooms domain.RoomRepository,
	participants domain.ParticipantRepository,
	core *ws.Core,
	logger logging.Logger,
) *AdmissionService {
	return &AdmissionService{
		rooms:        rooms,
		participants: participants,
		core:         core,
		logger:       logger,
	}
}

// Join admits a new anonymous participant. Capacity counts non-banned
// participants only, so banning frees a seat.
func (s *AdmissionService) Join(ctx context.Context, roomID string) (*domain.Participant, error) {
	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if !room.IsActive() {
		return nil, domain.ErrRoomNotActive
	}

	count, err := s.participants.CountActive(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if count >= room.MaxParticipants {
		return nil, domain.ErrRoomFull
	}

	participant, err := domain.NewParticipant(uuid.NewString(), roomID, time.Now())
	if err != nil {
		return nil, err
	}

	if err := s.participants.Create(ctx, participant); err != nil {
		return nil, err
	}

	if s.core != nil {
		s.core.Broadcast() <- ws.NewParticipantJoined(roomID, ws.ParticipantPayload{
			ParticipantID: participant.ID,
			AvatarName:    participant.AvatarName,
			JoinedAt:      participant.JoinedAt.Format(time.RFC3339),
		})
	}

	s.logger.Info(logging.General, logging.Lifecycle, "participant joined", map[logging.ExtraKey]any{
		logging.RoomID: roomID,
	})

	return participant, nil
}

// Roster lists non-banned participants in join order.
func (s *AdmissionService) Roster(ctx context.Context, roomID string) ([]domain.Participant, error) {
	if _, err := s.rooms.GetByID(ctx, roomID); err != nil {
		return nil, err
	}
	return s.participants.ListActiveByRoom(ctx, roomID)
}

// Ban flags the participant and drops their live feed. Banned participants
// keep their message history but cannot send or re-join the count.
func (s *AdmissionService) Ban(ctx context.Context, participantID string) error {
	participant, err := s.participants.GetByID(ctx, participantID)
	if err != nil {
		return err
	}

	if err := s.participants.Ban(ctx, participantID); err != nil {
		return err
	}

	if s.core != nil {
		s.core.Broadcast() <- ws.NewParticipantBanned(participant.RoomID, participant.ID, participant.AvatarName)
		_ = s.core.DisconnectClient(participant.RoomID, participant.ID)
	}

	s.logger.Info(logging.General, logging.Lifecycle, "participant banned", map[logging.ExtraKey]any{
		logging.RoomID: participant.RoomID,
	})

	return nil
}
