package domain

import (
	"context"
	"time"
)

type RoomEventType string

const (
	EventRoomCreated    RoomEventType = "room.created"
	EventRoomExpired    RoomEventType = "room.expired"
	EventRoomExtended   RoomEventType = "room.extended"
	EventRoomDeleted    RoomEventType = "room.deleted"
	EventOrderCompleted RoomEventType = "order.completed"
)

type RoomAuditLog struct {
	ID        string         `json:"id" bson:"_id,omitempty"`
	RoomID    string         `json:"roomId" bson:"room_id"`
	EventType RoomEventType  `json:"eventType" bson:"event_type"`
	Details   map[string]any `json:"details,omitempty" bson:"details,omitempty"`
	Timestamp time.Time      `json:"timestamp" bson:"timestamp"`
}

type RoomAuditRepository interface {
	Log(ctx context.Context, log *RoomAuditLog) error
	GetByRoomID(ctx context.Context, roomID string, limit int) ([]RoomAuditLog, error)
	DeleteOlderThan(ctx context.Context, before time.Time) error
}
