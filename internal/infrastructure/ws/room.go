package ws

import (
	"errors"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

var (
	ErrRoomNotFound   = errors.New("room not found")
	ErrClientNotFound = errors.New("client not found")
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// CORS is enforced at the HTTP middleware layer.
		return true
	},
}

type WSRoom struct {
	ID      string             `json:"id"`
	Clients map[string]*Client `json:"clients"`
	History []*WSMessage

	mu sync.RWMutex // protects History
}

type RoomManager struct {
	rooms map[string]*WSRoom // roomID → WSRoom
	mu    sync.RWMutex
}

func NewRoomManager() *RoomManager {
	return &RoomManager{
		rooms: make(map[string]*WSRoom),
	}
}

func (rm *RoomManager) Upgrade(w http.ResponseWriter, r *http.Request) (*websocket.Conn, error) {
	return upgrader.Upgrade(w, r, nil)
}

func (rm *RoomManager) AddClient(cl *Client) {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	room, ok := rm.rooms[cl.RoomID]
	if !ok {
		room = &WSRoom{
			ID:      cl.RoomID,
			Clients: make(map[string]*Client),
			History: make([]*WSMessage, 0, 64),
		}
		rm.rooms[cl.RoomID] = room
	}

	if _, exists := room.Clients[cl.ID]; !exists {
		room.Clients[cl.ID] = cl
	}
}

// RemoveClient is idempotent: removing a client that already left is a no-op.
func (rm *RoomManager) RemoveClient(cl *Client) {
	rm.mu.Lock()
	defer rm.mu.Unlock()

	if room, ok := rm.rooms[cl.RoomID]; ok {
		if _, ok := room.Clients[cl.ID]; ok {
			delete(room.Clients, cl.ID)
			close(cl.done)

			if len(room.Clients) == 0 {
				delete(rm.rooms, cl.RoomID)
			}
		}
	}
}

func (rm *RoomManager) GetRoom(roomID string) (*WSRoom, bool) {
	rm.mu.RLock()
	defer rm.mu.RUnlock()

	r, ok := rm.rooms[roomID]
	return r, ok
}

func (rm *RoomManager) ClientCount(roomID string) int {
	rm.mu.RLock()
	defer rm.mu.RUnlock()

	if room, ok := rm.rooms[roomID]; ok {
		return len(room.Clients)
	}
	return 0
}

func (rm *RoomManager) BroadcastToRoom(msg *WSMessage) error {
	rm.mu.RLock()
	defer rm.mu.RUnlock()

	room, ok := rm.rooms[msg.RoomID]
	if !ok {
		return ErrRoomNotFound
	}

	room.mu.Lock()
	room.History = append(room.History, msg)
	room.mu.Unlock()

	for _, cl := range room.Clients {
		select {
		case cl.Message <- msg:
		default:
			// Client is too slow – drop the message
			log.Printf("client %s buffer full, dropping message", cl.ID)
		}
	}
	return nil
}

// DisconnectClient force-closes one client's feed, used when a participant
// is banned mid-session.
func (rm *RoomManager) DisconnectClient(roomID, clientID string) error {
	rm.mu.RLock()
	room, ok := rm.rooms[roomID]
	if !ok {
		rm.mu.RUnlock()
		return ErrRoomNotFound
	}
	cl, ok := room.Clients[clientID]
	rm.mu.RUnlock()
	if !ok {
		return ErrClientNotFound
	}

	// Closing the connection makes the read pump unregister the client.
	return cl.conn.Close()
}
