package domain

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	ErrMessageNotFound = errors.New("message not found")
	ErrEmptyMessage    = errors.New("message content is empty")
)

// Message is immutable once created. There is no edit or delete operation;
// expiration cascades through the room, not per message.
type Message struct {
	ID            string    `json:"id" bson:"_id"`
	RoomID        string    `json:"roomId" bson:"room_id"`
	ParticipantID string    `json:"participantId" bson:"participant_id"`
	Content       string    `json:"content" bson:"content"`
	CreatedAt     time.Time `json:"createdAt" bson:"created_at"`

	// Participant is a display join; it may resolve to a banned or departed
	// identity and is never persisted with the message.
	Participant *Participant `json:"participant,omitempty" bson:"-"`
}

type MessageRepository interface {
	Create(ctx context.Context, message *Message) error
	// ListByRoom returns up to limit messages, created_at ascending.
	ListByRoom(ctx context.Context, roomID string, limit int) ([]Message, error)
}

func NewMessage(id, roomID, participantID, content string, now time.Time) (*Message, error) {
	if id == "" || roomID == "" || participantID == "" {
		return nil, ErrInvalidInput
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyMessage
	}

	return &Message{
		ID:            id,
		RoomID:        roomID,
		ParticipantID: participantID,
		Content:       content,
		CreatedAt:     now,
	}, nil
}
