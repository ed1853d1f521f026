package messaging

import "github.com/fuseroom/fuseroom/internal/domain"

const (
	AuditQueue      = "room_audit"
	DeadLetterQueue = "dead_letter_queue"
)

type RoomEventData struct {
	Room domain.Room `json:"room"`
}

type OrderEventData struct {
	Order domain.Order `json:"order"`
}
