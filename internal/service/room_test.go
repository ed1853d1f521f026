package service_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fuseroom/fuseroom/internal/domain"
	"github.com/fuseroom/fuseroom/internal/infrastructure/repository"
	"github.com/fuseroom/fuseroom/internal/service"
)

func TestRoomServiceCreate(t *testing.T) {
	svc := newRoomService(repository.NewRoomRepository())

	room, err := svc.Create(context.Background(), "standup", 5, 600, 0)
	require.NoError(t, err)

	assert.Len(t, room.Code, domain.CodeLength)
	assert.Equal(t, domain.RoomActive, room.Status)
	assert.Equal(t, 600, room.InitialDuration)
	assert.WithinDuration(t, time.Now().Add(10*time.Minute), room.ExpiresAt, 2*time.Second)
}

func TestRoomServiceCreateWithBonus(t *testing.T) {
	svc := newRoomService(repository.NewRoomRepository())

	room, err := svc.Create(context.Background(), "paid", 10, 600, 30*time.Minute)
	require.NoError(t, err)

	// The bonus stretches the first window; the stored duration stays the base.
	assert.Equal(t, 600, room.InitialDuration)
	assert.WithinDuration(t, time.Now().Add(40*time.Minute), room.ExpiresAt, 2*time.Second)
}

func TestRoomServiceCreateRetriesOnCollision(t *testing.T) {
	repo := &collidingRoomRepo{RoomRepository: repository.NewRoomRepository(), collisions: 2}
	svc := newRoomService(repo)

	room, err := svc.Create(context.Background(), "standup", 5, 600, 0)
	require.NoError(t, err)

	assert.Equal(t, 3, repo.createAttempts())
	assert.Len(t, room.Code, domain.CodeLength)
}

func TestRoomServiceCreateExhaustsCodeAttempts(t *testing.T) {
	repo := &collidingRoomRepo{RoomRepository: repository.NewRoomRepository(), collisions: 1000}
	svc := newRoomService(repo)

	_, err := svc.Create(context.Background(), "standup", 5, 600, 0)
	assert.ErrorIs(t, err, service.ErrCodeExhausted)
	assert.Equal(t, testRoomsConfig.MaxCodeAttempts, repo.createAttempts())
}

func TestRoomServiceCreateCapsDuration(t *testing.T) {
	svc := newRoomService(repository.NewRoomRepository())

	_, err := svc.Create(context.Background(), "marathon", 5, testRoomsConfig.MaxInitialDuration+1, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRoomServiceGetByCodeIsCaseInsensitive(t *testing.T) {
	svc := newRoomService(repository.NewRoomRepository())
	ctx := context.Background()

	room, err := svc.Create(ctx, "standup", 5, 600, 0)
	require.NoError(t, err)

	got, err := svc.GetByCode(ctx, "  "+strings.ToLower(room.Code)+" ")
	require.NoError(t, err)
	assert.Equal(t, room.ID, got.ID)
}

func TestRoomServiceCodeStopsResolvingAfterExpiry(t *testing.T) {
	svc := newRoomService(repository.NewRoomRepository())
	ctx := context.Background()

	room, err := svc.Create(ctx, "standup", 5, 600, 0)
	require.NoError(t, err)

	require.NoError(t, svc.Expire(ctx, room.ID))

	_, err = svc.GetByCode(ctx, room.Code)
	assert.ErrorIs(t, err, domain.ErrRoomNotFound)

	// Direct lookup still works; only code resolution is gated on status.
	got, err := svc.GetByID(ctx, room.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoomExpired, got.Status)
}

func TestRoomServiceExtend(t *testing.T) {
	svc := newRoomService(repository.NewRoomRepository())
	ctx := context.Background()

	room, err := svc.Create(ctx, "standup", 5, 600, 0)
	require.NoError(t, err)

	extended, err := svc.Extend(ctx, room.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, room.ExpiresAt.Add(5*time.Minute), extended.ExpiresAt)

	_, err = svc.Extend(ctx, room.ID, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRoomServiceExtendRejectsTerminalRoom(t *testing.T) {
	svc := newRoomService(repository.NewRoomRepository())
	ctx := context.Background()

	room, err := svc.Create(ctx, "standup", 5, 600, 0)
	require.NoError(t, err)
	require.NoError(t, svc.Expire(ctx, room.ID))

	_, err = svc.Extend(ctx, room.ID, 5)
	assert.ErrorIs(t, err, domain.ErrRoomNotActive)
}

func TestRoomServiceExpireIsIdempotent(t *testing.T) {
	svc := newRoomService(repository.NewRoomRepository())
	ctx := context.Background()

	room, err := svc.Create(ctx, "standup", 5, 600, 0)
	require.NoError(t, err)

	require.NoError(t, svc.Expire(ctx, room.ID))
	require.NoError(t, svc.Expire(ctx, room.ID))

	got, err := svc.GetByID(ctx, room.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoomExpired, got.Status)
}

func TestRoomServiceDeleteDoesNotResurrectExpiredRoom(t *testing.T) {
	svc := newRoomService(repository.NewRoomRepository())
	ctx := context.Background()

	room, err := svc.Create(ctx, "standup", 5, 600, 0)
	require.NoError(t, err)

	require.NoError(t, svc.Expire(ctx, room.ID))
	require.NoError(t, svc.Delete(ctx, room.ID))

	got, err := svc.GetByID(ctx, room.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoomExpired, got.Status)
}

func TestRoomServiceDelete(t *testing.T) {
	svc := newRoomService(repository.NewRoomRepository())
	ctx := context.Background()

	room, err := svc.Create(ctx, "standup", 5, 600, 0)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, room.ID))

	got, err := svc.GetByID(ctx, room.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RoomDeleted, got.Status)

	_, err = svc.GetByCode(ctx, room.Code)
	assert.ErrorIs(t, err, domain.ErrRoomNotFound)
}
