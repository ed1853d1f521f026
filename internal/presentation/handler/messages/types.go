package messages

import "time"

// sendMessageRequest represents a message submission. The participant id may
// come from the body or from the room session cookie.
type sendMessageRequest struct {
	ParticipantID string `json:"participantId,omitempty" example:"550e8400-e29b-41d4-a716-446655440001"` // Sender; optional when the session cookie is set
	Content       string `json:"content" example:"Hello, room!" minLength:"1"`                           // Message body, trimmed before storage
}

// messageResponse represents one stored message
type messageResponse struct {
	ID            string    `json:"id" example:"550e8400-e29b-41d4-a716-446655440003"` // Message id, also used for echo de-duplication
	RoomID        string    `json:"roomId"`                                            // Owning room
	ParticipantID string    `json:"participantId"`                                     // Sender id
	AvatarName    string    `json:"avatarName,omitempty" example:"🐉 Dragon-7"`         // Sender display identity
	Content       string    `json:"content" example:"Hello, room!"`                    // Message body
	CreatedAt     time.Time `json:"createdAt"`                                         // Creation timestamp
}

// listMessagesResponse carries history in ascending creation order
type listMessagesResponse struct {
	Messages []messageResponse `json:"messages"`
}
