package rooms

import "time"

// createRoomRequest represents the request to create a new chat room
type createRoomRequest struct {
	Name            string `json:"name" example:"Friday standup" minLength:"1"` // Display name for the room
	MaxParticipants int    `json:"maxParticipants" example:"10" minimum:"2"`    // Seat count, non-banned participants only
	InitialDuration int    `json:"initialDuration" example:"600" minimum:"1"`   // Initial window in seconds
}

// roomResponse represents room state including the live countdown value
type roomResponse struct {
	ID               string    `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"` // Unique room identifier
	Code             string    `json:"code" example:"X7K2P9"`                             // Share code, resolvable while active
	Name             string    `json:"name" example:"Friday standup"`                     // Display name
	MaxParticipants  int       `json:"maxParticipants" example:"10"`                      // Seat count
	InitialDuration  int       `json:"initialDuration" example:"600"`                     // Initial window in seconds
	ExpiresAt        time.Time `json:"expiresAt"`                                         // Current deadline
	RemainingSeconds int64     `json:"remainingSeconds" example:"483"`                    // max(0, expiresAt - now)
	Status           string    `json:"status" example:"active"`                           // active, expired or deleted
	CreatedAt        time.Time `json:"createdAt"`                                         // Creation timestamp
}

// participantResponse represents an anonymous room identity
type participantResponse struct {
	ID         string    `json:"id" example:"550e8400-e29b-41d4-a716-446655440001"` // Participant identifier, doubles as the session marker
	RoomID     string    `json:"roomId"`                                            // Owning room
	AvatarName string    `json:"avatarName" example:"🦊 Fox-42"`                     // Generated display identity
	JoinedAt   time.Time `json:"joinedAt"`                                          // Admission timestamp
}

// rosterResponse lists the non-banned participants in join order
type rosterResponse struct {
	Participants []participantResponse `json:"participants"`
}

// auditEntryResponse represents one lifecycle audit record
type auditEntryResponse struct {
	ID        string         `json:"id"`
	RoomID    string         `json:"roomId"`
	EventType string         `json:"eventType" example:"room.extended"`
	Details   map[string]any `json:"details,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}
