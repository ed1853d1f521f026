package domain

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"
)

const (
	CodeLength = 6

	codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	MinParticipants = 2
)

var (
	alphabetLen = big.NewInt(int64(len(codeAlphabet)))

	ErrRoomNotFound     = errors.New("room not found")
	ErrRoomNotActive    = errors.New("room is not active")
	ErrRoomFull         = errors.New("room is full")
	ErrCodeCollision    = errors.New("room code already in use")
	ErrInvalidInput     = errors.New("invalid input")
	ErrStoreUnavailable = errors.New("store unavailable")
)

type RoomStatus string

const (
	RoomActive  RoomStatus = "active"
	RoomExpired RoomStatus = "expired"
	RoomDeleted RoomStatus = "deleted"
)

// Terminal reports whether the status admits no further transitions.
func (s RoomStatus) Terminal() bool {
	return s == RoomExpired || s == RoomDeleted
}

// Room is a time-boxed anonymous chat session identified by a short code.
// ExpiresAt is always creation time plus the cumulative granted duration
// (initial plus confirmed extensions); it is never written back from a
// client-computed absolute value.
type Room struct {
	ID              string     `json:"id" bson:"_id"`
	Code            string     `json:"code" bson:"code"`
	Name            string     `json:"name" bson:"name"`
	MaxParticipants int        `json:"maxParticipants" bson:"max_participants"`
	InitialDuration int        `json:"initialDuration" bson:"initial_duration"` // seconds
	ExpiresAt       time.Time  `json:"expiresAt" bson:"expires_at"`
	Status          RoomStatus `json:"status" bson:"status"`
	CreatedAt       time.Time  `json:"createdAt" bson:"created_at"`
	UpdatedAt       time.Time  `json:"updatedAt" bson:"updated_at"`
}

type RoomRepository interface {
	Create(ctx context.Context, room *Room) error
	GetByID(ctx context.Context, id string) (*Room, error)
	// GetByCode resolves an active room by its code, case-insensitively.
	GetByCode(ctx context.Context, code string) (*Room, error)
	// ExtendExpiry atomically pushes expires_at forward by d. The addition
	// happens store-side so concurrent extensions cannot lose updates.
	ExtendExpiry(ctx context.Context, id string, d time.Duration) error
	// Expire flips active -> expired. A no-op on already-terminal rooms.
	Expire(ctx context.Context, id string) error
	// Delete flips active -> deleted (soft delete, no row removal).
	Delete(ctx context.Context, id string) error
}

func NewRoom(id, code, name string, maxParticipants, initialDurationSec int, now time.Time) (*Room, error) {
	if id == "" || code == "" {
		return nil, ErrInvalidInput
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: room name is required", ErrInvalidInput)
	}
	if maxParticipants < MinParticipants {
		return nil, fmt.Errorf("%w: room needs at least %d participants", ErrInvalidInput, MinParticipants)
	}
	if initialDurationSec <= 0 {
		return nil, fmt.Errorf("%w: initial duration must be positive", ErrInvalidInput)
	}

	return &Room{
		ID:              id,
		Code:            code,
		Name:            name,
		MaxParticipants: maxParticipants,
		InitialDuration: initialDurationSec,
		ExpiresAt:       now.Add(time.Duration(initialDurationSec) * time.Second),
		Status:          RoomActive,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

func (r *Room) IsActive() bool {
	return r.Status == RoomActive
}

// Remaining is the countdown primitive: max(0, expires_at - now).
func (r *Room) Remaining(now time.Time) time.Duration {
	d := r.ExpiresAt.Sub(now)
	if d < 0 {
		return 0
	}
	return d
}

// GenerateRoomCode produces a fixed-length code from the allowed alphabet.
// Uniqueness among active rooms is the caller's responsibility (the store
// check-and-retry loop), not this function's.
func GenerateRoomCode() (string, error) {
	var sb strings.Builder
	sb.Grow(CodeLength)

	for i := 0; i < CodeLength; i++ {
		n, err := rand.Int(rand.Reader, alphabetLen)
		if err != nil {
			return "", err
		}
		sb.WriteByte(codeAlphabet[n.Int64()])
	}

	return sb.String(), nil
}

// NormalizeCode maps user input onto the stored code form.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
