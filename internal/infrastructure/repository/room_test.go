package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fuseroom/fuseroom/internal/domain"
	"github.com/fuseroom/fuseroom/internal/infrastructure/repository"
)

func newRoom(t *testing.T, id, code string) *domain.Room {
	t.Helper()
	room, err := domain.NewRoom(id, code, "standup", 5, 600, time.Now())
	require.NoError(t, err)
	return room
}

func TestRoomRepositoryCodeCollision(t *testing.T) {
	repo := repository.NewRoomRepository()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newRoom(t, "r1", "ABC123")))

	err := repo.Create(ctx, newRoom(t, "r2", "abc123"))
	assert.ErrorIs(t, err, domain.ErrCodeCollision)
}

func TestRoomRepositoryCodeReuseAfterTerminal(t *testing.T) {
	repo := repository.NewRoomRepository()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newRoom(t, "r1", "ABC123")))
	require.NoError(t, repo.Expire(ctx, "r1"))

	// A terminal room's code goes back into the pool.
	require.NoError(t, repo.Create(ctx, newRoom(t, "r2", "ABC123")))

	got, err := repo.GetByCode(ctx, "abc123")
	require.NoError(t, err)
	assert.Equal(t, "r2", got.ID)
}

func TestRoomRepositoryExtendRequiresActive(t *testing.T) {
	repo := repository.NewRoomRepository()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newRoom(t, "r1", "ABC123")))
	require.NoError(t, repo.Delete(ctx, "r1"))

	err := repo.ExtendExpiry(ctx, "r1", 5*time.Minute)
	assert.ErrorIs(t, err, domain.ErrRoomNotActive)

	err = repo.ExtendExpiry(ctx, "missing", 5*time.Minute)
	assert.ErrorIs(t, err, domain.ErrRoomNotFound)
}

func TestRoomRepositoryTerminalTransitionsAreSticky(t *testing.T) {
	repo := repository.NewRoomRepository()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newRoom(t, "r1", "ABC123")))
	require.NoError(t, repo.Expire(ctx, "r1"))
	require.NoError(t, repo.Delete(ctx, "r1"))

	got, err := repo.GetByID(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, domain.RoomExpired, got.Status)
}

func TestRoomRepositoryReturnsCopies(t *testing.T) {
	repo := repository.NewRoomRepository()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newRoom(t, "r1", "ABC123")))

	got, err := repo.GetByID(ctx, "r1")
	require.NoError(t, err)
	got.Name = "mutated"

	again, err := repo.GetByID(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, "standup", again.Name)
}
