package ws

import (
	"log"

	"github.com/gorilla/websocket"
)

type Client struct {
	conn    *connWrapper
	Message chan *WSMessage
	// done signals shutdown. Message is never closed: the history replay
	// goroutine may still be sending into it when the client leaves.
	done       chan struct{}
	ID         string `json:"id"`
	RoomID     string `json:"roomId"`
	AvatarName string `json:"avatarName"`
}

func NewClient(conn *websocket.Conn, id, roomID, avatarName string) *Client {
	return &Client{
		conn:       newConnWrapper(conn),
		Message:    make(chan *WSMessage, 64), // buffered to avoid dead-locks on slow clients
		done:       make(chan struct{}),
		ID:         id,
		RoomID:     roomID,
		AvatarName: avatarName,
	}
}

// ReadMessage drains the connection until it closes. The feed is one-way:
// sends go through the HTTP API so policy checks run before fan-out.
func (c *Client) ReadMessage(core *Core) {
	defer func() {
		core.Unregister() <- c
		_ = c.conn.Close()
	}()

	for {
		if _, _, err := c.conn.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("ws read error (client %s): %v", c.ID, err)
			}
			break
		}
	}
}

func (c *Client) WriteMessage() {
	defer func() {
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg := <-c.Message:
			if err := c.conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error (client %s): %v", c.ID, err)
				return
			}
		case <-c.done:
			return
		}
	}
}
