package ws

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/fuseroom/fuseroom/internal/domain"
	"github.com/fuseroom/fuseroom/internal/infrastructure/metrics"
	"github.com/fuseroom/fuseroom/pkg/countdown"
)

const historyReplayLimit = 100

// ExpireFunc runs when a watched room's deadline is reached. Wired to the
// room service so expiry happens exactly once regardless of subscriber count.
type ExpireFunc func(ctx context.Context, roomID string)

type Core struct {
	roomMgr           *RoomManager
	register          chan *Client
	unregister        chan *Client
	broadcast         chan *WSMessage
	messageRepository domain.MessageRepository
	metrics           *metrics.Metrics

	watchMu  sync.Mutex
	watchers map[string]*roomWatch
	expire   ExpireFunc
}

// roomWatch pairs a countdown with its current deadline so the warning
// broadcast reports the deadline in effect at fire time, not at arm time.
type roomWatch struct {
	timer    *countdown.Timer
	deadline time.Time
}

func NewCore(messageRepository domain.MessageRepository, m *metrics.Metrics) *Core {
	return &Core{
		roomMgr:           NewRoomManager(),
		register:          make(chan *Client),
		unregister:        make(chan *Client),
		broadcast:         make(chan *WSMessage, 256),
		messageRepository: messageRepository,
		metrics:           m,
		watchers:          make(map[string]*roomWatch),
	}
}

func (c *Core) RoomManager() *RoomManager {
	return c.roomMgr
}

// SetExpireFunc must be called before any room is watched.
func (c *Core) SetExpireFunc(fn ExpireFunc) {
	c.expire = fn
}

func (c *Core) Run() {
	for {
		select {
		case cl := <-c.register:
			c.roomMgr.AddClient(cl)
			if c.metrics != nil {
				c.metrics.ActiveClients.Inc()
			}

			// ---------- Load persisted history ----------
			go func() {
				messages, err := c.messageRepository.ListByRoom(context.Background(), cl.RoomID, historyReplayLimit)
				if err != nil {
					log.Printf("room %s history unavailable: %v", cl.RoomID, err)
					return
				}
				for _, m := range messages {
					avatarName := ""
					if m.Participant != nil {
						avatarName = m.Participant.AvatarName
					}

					hist := NewMessageCreated(
						cl.RoomID,
						m.ID,
						m.Content,
						m.ParticipantID,
						avatarName,
						m.CreatedAt.Format(time.RFC3339),
					)
					select {
					case cl.Message <- hist:
					case <-cl.done:
						// The client left mid-replay.
						return
					}
				}
			}()

		case cl := <-c.unregister:
			c.roomMgr.RemoveClient(cl)
			if c.metrics != nil {
				c.metrics.ActiveClients.Dec()
			}

		case msg := <-c.broadcast:
			if err := c.roomMgr.BroadcastToRoom(msg); err != nil && err != ErrRoomNotFound {
				log.Printf("broadcast error: %v", err)
			}
		}
	}
}

func (c *Core) Register() chan<- *Client {
	return c.register
}

func (c *Core) Unregister() chan<- *Client {
	return c.unregister
}

func (c *Core) Broadcast() chan<- *WSMessage {
	return c.broadcast
}

func (c *Core) DisconnectClient(roomID, clientID string) error {
	return c.roomMgr.DisconnectClient(roomID, clientID)
}

// WatchRoom arms a countdown for the room's deadline. The warning broadcast
// fires once when the timer crosses the low-time threshold; expiry hands off
// to the expire func exactly once. Watching an already watched room re-arms
// the existing timer.
func (c *Core) WatchRoom(room *domain.Room) {
	c.watchMu.Lock()
	defer c.watchMu.Unlock()

	if watch, ok := c.watchers[room.ID]; ok {
		watch.deadline = room.ExpiresAt
		watch.timer.SetDeadline(room.ExpiresAt)
		return
	}

	roomID := room.ID
	timer := countdown.New(room.ExpiresAt, countdown.Callbacks{
		OnWarning: func() {
			c.broadcast <- NewRoomWarning(
				roomID,
				c.watchDeadline(roomID).Format(time.RFC3339),
				int64(countdown.WarningThreshold.Seconds()),
			)
		},
		OnExpire: func() {
			go c.expireRoom(roomID)
		},
	})

	c.watchers[roomID] = &roomWatch{timer: timer, deadline: room.ExpiresAt}
	timer.Start()
}

// ExtendWatch moves an armed deadline after a confirmed extension.
func (c *Core) ExtendWatch(roomID string, deadline time.Time) {
	c.watchMu.Lock()
	defer c.watchMu.Unlock()

	if watch, ok := c.watchers[roomID]; ok {
		watch.deadline = deadline
		watch.timer.SetDeadline(deadline)
	}
}

func (c *Core) watchDeadline(roomID string) time.Time {
	c.watchMu.Lock()
	defer c.watchMu.Unlock()

	if watch, ok := c.watchers[roomID]; ok {
		return watch.deadline
	}
	return time.Time{}
}

// StopWatch tears down the room's countdown. Idempotent.
func (c *Core) StopWatch(roomID string) {
	c.watchMu.Lock()
	defer c.watchMu.Unlock()

	if watch, ok := c.watchers[roomID]; ok {
		watch.timer.Stop()
		delete(c.watchers, roomID)
	}
}

func (c *Core) expireRoom(roomID string) {
	c.watchMu.Lock()
	delete(c.watchers, roomID)
	expire := c.expire
	c.watchMu.Unlock()

	if expire == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	expire(ctx, roomID)
}
