package utils

import (
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Participant sessions are per-room markers, scoped so joining one room
// never leaks an identity into another.
func participantCookieName(roomID string) string {
	return fmt.Sprintf("participant_%s", url.QueryEscape(roomID))
}

// SetParticipantCookie stores the admitted participant id against the room.
// The lifetime is generous on purpose; room expiry is what ends a session,
// not the cookie.
func SetParticipantCookie(w http.ResponseWriter, roomID, participantID string) {
	http.SetCookie(w, &http.Cookie{
		Name:     participantCookieName(roomID),
		Value:    participantID,
		Path:     "/",
		HttpOnly: false, // the client reads it to resume its session
		Expires:  time.Now().Add(24 * time.Hour),
		SameSite: http.SameSiteLaxMode,
	})
}

// GetParticipantID resolves the caller's participant identity for a room
// from the session cookie. Empty when the caller never joined.
func GetParticipantID(r *http.Request, roomID string) string {
	cookie, err := r.Cookie(participantCookieName(roomID))
	if err != nil {
		return ""
	}
	return cookie.Value
}

// ClearParticipantCookie drops the session marker, used when the referenced
// participant no longer exists.
func ClearParticipantCookie(w http.ResponseWriter, roomID string) {
	http.SetCookie(w, &http.Cookie{
		Name:    participantCookieName(roomID),
		Value:   "",
		Path:    "/",
		Expires: time.Now().Add(-24 * time.Hour),
	})
}
