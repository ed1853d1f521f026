package ws

const (
	MessageCreated = "message.created"

	ParticipantJoined = "participant.joined"
	ParticipantBanned = "participant.banned"

	RoomExpired  = "room.expired"
	RoomExtended = "room.extended"
	RoomDeleted  = "room.deleted"
	RoomWarning  = "room.warning"

	ErrorEvent = "error"
	JoinFailed = "error.join"
)
