package ws

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fuseroom/fuseroom/internal/domain"
)

type stubMessageRepository struct {
	messages []domain.Message
}

func (s *stubMessageRepository) Create(context.Context, *domain.Message) error { return nil }

func (s *stubMessageRepository) ListByRoom(context.Context, string, int) ([]domain.Message, error) {
	return s.messages, nil
}

func history(n int) []domain.Message {
	out := make([]domain.Message, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, domain.Message{
			ID:            fmt.Sprintf("msg-%d", i),
			RoomID:        "room-1",
			ParticipantID: "participant-1",
			Content:       "hello",
			CreatedAt:     time.Now(),
		})
	}
	return out
}

func TestUnregisterDuringHistoryReplay(t *testing.T) {
	repo := &stubMessageRepository{messages: history(200)}
	core := NewCore(repo, nil)
	go core.Run()

	client := NewClient(nil, "client-1", "room-1", "Ghost-1")
	core.Register() <- client

	// With no write pump draining, the replay fills the buffer and blocks.
	require.Eventually(t, func() bool {
		return len(client.Message) == cap(client.Message)
	}, time.Second, time.Millisecond)

	core.Unregister() <- client

	select {
	case <-client.done:
	case <-time.After(time.Second):
		t.Fatal("replay goroutine not released after unregister")
	}

	assert.Equal(t, 0, core.RoomManager().ClientCount("room-1"))
}

func TestDisconnectClientDuringChurn(t *testing.T) {
	core := NewCore(&stubMessageRepository{}, nil)
	rm := core.RoomManager()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			cl := NewClient(nil, "client-1", "room-1", "Ghost-1")
			rm.AddClient(cl)
			rm.RemoveClient(cl)
		}
	}()

	for i := 0; i < 500; i++ {
		err := rm.DisconnectClient("room-1", "someone-else")
		assert.Contains(t, []error{ErrRoomNotFound, ErrClientNotFound}, err)
	}
	wg.Wait()
}

func TestDisconnectClientUnknownRoom(t *testing.T) {
	rm := NewRoomManager()
	assert.ErrorIs(t, rm.DisconnectClient("room-1", "client-1"), ErrRoomNotFound)
}
