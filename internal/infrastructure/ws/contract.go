package ws

type WSMessage struct {
	Type   string `json:"type"`
	RoomID string `json:"roomId"`
	Data   any    `json:"data"`
}

// Payload structs
type MessagePayload struct {
	ID            string `json:"id"`
	Content       string `json:"content"`
	ParticipantID string `json:"participantId"`
	AvatarName    string `json:"avatarName"`
	Timestamp     string `json:"timestamp"`
}

type ParticipantPayload struct {
	ParticipantID string `json:"participantId"`
	AvatarName    string `json:"avatarName"`
	JoinedAt      string `json:"joinedAt,omitempty"`
}

type CountdownPayload struct {
	ExpiresAt        string `json:"expiresAt"`
	RemainingSeconds int64  `json:"remainingSeconds"`
}

type ErrorPayload struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
	Retry   bool   `json:"retry,omitempty"`
}

func NewMessageCreated(roomID, msgID, content, participantID, avatarName, timestamp string) *WSMessage {
	return &WSMessage{
		Type:   MessageCreated,
		RoomID: roomID,
		Data: MessagePayload{
			ID:            msgID,
			Content:       content,
			ParticipantID: participantID,
			AvatarName:    avatarName,
			Timestamp:     timestamp,
		},
	}
}

func NewParticipantJoined(roomID string, participant ParticipantPayload) *WSMessage {
	return &WSMessage{
		Type:   ParticipantJoined,
		RoomID: roomID,
		Data:   participant,
	}
}

func NewParticipantBanned(roomID, participantID, avatarName string) *WSMessage {
	return &WSMessage{
		Type:   ParticipantBanned,
		RoomID: roomID,
		Data: ParticipantPayload{
			ParticipantID: participantID,
			AvatarName:    avatarName,
		},
	}
}

func NewRoomWarning(roomID, expiresAt string, remainingSeconds int64) *WSMessage {
	return &WSMessage{
		Type:   RoomWarning,
		RoomID: roomID,
		Data: CountdownPayload{
			ExpiresAt:        expiresAt,
			RemainingSeconds: remainingSeconds,
		},
	}
}

func NewRoomExtended(roomID, expiresAt string, remainingSeconds int64) *WSMessage {
	return &WSMessage{
		Type:   RoomExtended,
		RoomID: roomID,
		Data: CountdownPayload{
			ExpiresAt:        expiresAt,
			RemainingSeconds: remainingSeconds,
		},
	}
}

func NewRoomExpired(roomID string) *WSMessage {
	return &WSMessage{
		Type:   RoomExpired,
		RoomID: roomID,
		Data:   CountdownPayload{RemainingSeconds: 0},
	}
}

func NewRoomDeleted(roomID string) *WSMessage {
	return &WSMessage{
		Type:   RoomDeleted,
		RoomID: roomID,
	}
}

func NewError(roomID, message string) *WSMessage {
	return &WSMessage{
		Type:   ErrorEvent,
		RoomID: roomID,
		Data: ErrorPayload{
			Message: message,
			Retry:   false,
		},
	}
}

func NewJoinFailed(roomID, reason string) *WSMessage {
	return &WSMessage{
		Type:   JoinFailed,
		RoomID: roomID,
		Data: ErrorPayload{
			Code:    "JOIN_FAILED",
			Message: reason,
			Retry:   true,
		},
	}
}
