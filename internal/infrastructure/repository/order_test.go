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

func TestOrderCompleteFirstWins(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewOrderRepository()

	order := &domain.Order{
		ID:        "order-1",
		Status:    domain.OrderPending,
		Metadata:  domain.OrderMetadata{Type: domain.IntentCreateRoom},
		CreatedAt: time.Now(),
	}
	require.NoError(t, repo.Create(ctx, order))

	require.NoError(t, repo.Complete(ctx, "order-1", "pay_1", "room-1"))

	// A duplicate completion must not overwrite the stored result.
	require.NoError(t, repo.Complete(ctx, "order-1", "pay_2", "room-2"))

	got, err := repo.GetByID(ctx, "order-1")
	require.NoError(t, err)
	assert.Equal(t, domain.OrderCompleted, got.Status)
	assert.Equal(t, "pay_1", got.PaymentID)
	assert.Equal(t, "room-1", got.FulfilledRoomID)
	assert.Equal(t, "room-1", got.RoomID)
}

func TestOrderCompleteUnknownOrder(t *testing.T) {
	repo := repository.NewOrderRepository()

	err := repo.Complete(context.Background(), "missing", "pay_1", "room-1")
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}
