// Package roomview maintains an ordered, de-duplicated view of a room's
// messages. A sender that appends its own message optimistically and then
// receives the same message over the realtime feed ends up with one copy,
// keyed by message id.
package roomview

import (
	"sync"
	"time"
)

type Message struct {
	ID            string    `json:"id"`
	ParticipantID string    `json:"participantId"`
	AvatarName    string    `json:"avatarName"`
	Content       string    `json:"content"`
	CreatedAt     time.Time `json:"createdAt"`
}

// View is safe for concurrent use.
type View struct {
	mu    sync.RWMutex
	order []string
	byID  map[string]Message
}

func New() *View {
	return &View{
		byID: make(map[string]Message),
	}
}

// Append adds a message unless its id is already present. Returns true when
// the message was new.
func (v *View) Append(msg Message) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	if _, seen := v.byID[msg.ID]; seen {
		return false
	}
	v.byID[msg.ID] = msg
	v.order = append(v.order, msg.ID)
	return true
}

// Replace swaps in a full history snapshot, preserving the given order and
// dropping duplicate ids.
func (v *View) Replace(msgs []Message) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.order = v.order[:0]
	v.byID = make(map[string]Message, len(msgs))
	for _, m := range msgs {
		if _, seen := v.byID[m.ID]; seen {
			continue
		}
		v.byID[m.ID] = m
		v.order = append(v.order, m.ID)
	}
}

// Messages returns the view in insertion order.
func (v *View) Messages() []Message {
	v.mu.RLock()
	defer v.mu.RUnlock()

	out := make([]Message, 0, len(v.order))
	for _, id := range v.order {
		out = append(out, v.byID[id])
	}
	return out
}

func (v *View) Len() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.order)
}
