package contracts

// AmqpMessage is the message structure for AMQP.
type AmqpMessage struct {
	RoomID string `json:"roomId"`
	Data   []byte `json:"data"`
}

// Routing keys - using consistent event/command patterns
const (
	EventRoomCreated       = "room.created"
	EventRoomExpired       = "room.expired"
	EventRoomExtended      = "room.extended"
	EventRoomDeleted       = "room.deleted"
	EventOrderCompleted    = "order.completed"
	EventParticipantJoined = "participant.joined"
	EventParticipantBanned = "participant.banned"
)
