package domain

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"
)

var (
	ErrParticipantNotFound = errors.New("participant not found")
	ErrParticipantBanned   = errors.New("participant is banned")
)

// avatarNames is the bounded identity pool. Collisions between participants
// in the same room are acceptable.
var avatarNames = []string{
	"👻 Ghost", "🥷 Ninja", "🎭 Mask", "🦊 Fox",
	"🐺 Wolf", "🦉 Owl", "🐉 Dragon", "🦄 Unicorn",
}

// Participant is an anonymous identity scoped to one room. Its id is handed
// to the joining client as an ephemeral session marker only; the server never
// enumerates participants as logged-in identities.
type Participant struct {
	ID         string    `json:"id" bson:"_id"`
	RoomID     string    `json:"roomId" bson:"room_id"`
	AvatarName string    `json:"avatarName" bson:"avatar_name"`
	IsBanned   bool      `json:"isBanned" bson:"is_banned"`
	JoinedAt   time.Time `json:"joinedAt" bson:"joined_at"`
}

type ParticipantRepository interface {
	Create(ctx context.Context, p *Participant) error
	GetByID(ctx context.Context, id string) (*Participant, error)
	// ListActiveByRoom returns non-banned participants, joined_at ascending.
	ListActiveByRoom(ctx context.Context, roomID string) ([]Participant, error)
	// CountActive counts non-banned participants in the room.
	CountActive(ctx context.Context, roomID string) (int, error)
	Ban(ctx context.Context, id string) error
}

func NewParticipant(id, roomID string, now time.Time) (*Participant, error) {
	if id == "" || roomID == "" {
		return nil, ErrInvalidInput
	}

	return &Participant{
		ID:         id,
		RoomID:     roomID,
		AvatarName: GenerateAvatarName(),
		JoinedAt:   now,
	}, nil
}

// GenerateAvatarName picks a random {icon noun}-{number} display identity.
func GenerateAvatarName() string {
	avatar := avatarNames[rand.Intn(len(avatarNames))]
	return fmt.Sprintf("%s-%d", avatar, rand.Intn(100))
}
