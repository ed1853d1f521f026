package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fuseroom/fuseroom/internal/domain"
)

func TestGenerateRoomCode(t *testing.T) {
	seen := make(map[string]bool)

	for i := 0; i < 100; i++ {
		code, err := domain.GenerateRoomCode()
		require.NoError(t, err)

		assert.Len(t, code, domain.CodeLength)
		for _, c := range code {
			isUpper := c >= 'A' && c <= 'Z'
			isDigit := c >= '0' && c <= '9'
			assert.True(t, isUpper || isDigit, "unexpected character %q in code %s", c, code)
		}
		seen[code] = true
	}

	// 100 draws from a 36^6 space colliding down to a handful would mean
	// the generator is broken.
	assert.Greater(t, len(seen), 90)
}

func TestNormalizeCode(t *testing.T) {
	assert.Equal(t, "X7K2P9", domain.NormalizeCode("  x7k2p9 "))
	assert.Equal(t, "ABC123", domain.NormalizeCode("abc123"))
}

func TestNewRoom(t *testing.T) {
	now := time.Now()

	t.Run("valid", func(t *testing.T) {
		room, err := domain.NewRoom("r1", "ABC123", "standup", 5, 600, now)
		require.NoError(t, err)

		assert.Equal(t, domain.RoomActive, room.Status)
		assert.Equal(t, now.Add(10*time.Minute), room.ExpiresAt)
		assert.Equal(t, 600, room.InitialDuration)
	})

	t.Run("rejects blank name", func(t *testing.T) {
		_, err := domain.NewRoom("r1", "ABC123", "   ", 5, 600, now)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("rejects tiny capacity", func(t *testing.T) {
		_, err := domain.NewRoom("r1", "ABC123", "standup", 1, 600, now)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("rejects non-positive duration", func(t *testing.T) {
		_, err := domain.NewRoom("r1", "ABC123", "standup", 5, 0, now)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestRoomRemaining(t *testing.T) {
	now := time.Now()
	room, err := domain.NewRoom("r1", "ABC123", "standup", 5, 600, now)
	require.NoError(t, err)

	assert.Equal(t, 10*time.Minute, room.Remaining(now))
	assert.Equal(t, time.Minute, room.Remaining(now.Add(9*time.Minute)))

	// Never negative, no matter how far past the deadline.
	assert.Equal(t, time.Duration(0), room.Remaining(now.Add(time.Hour)))
}

func TestRoomStatusTerminal(t *testing.T) {
	assert.False(t, domain.RoomActive.Terminal())
	assert.True(t, domain.RoomExpired.Terminal())
	assert.True(t, domain.RoomDeleted.Terminal())
}

func TestGenerateAvatarName(t *testing.T) {
	for i := 0; i < 50; i++ {
		name := domain.GenerateAvatarName()
		assert.Regexp(t, `^.+ .+-\d{1,2}$`, name)
	}
}

func TestNewMessage(t *testing.T) {
	now := time.Now()

	t.Run("trims content", func(t *testing.T) {
		msg, err := domain.NewMessage("m1", "r1", "p1", "  hello  ", now)
		require.NoError(t, err)
		assert.Equal(t, "hello", msg.Content)
	})

	t.Run("rejects whitespace-only content", func(t *testing.T) {
		_, err := domain.NewMessage("m1", "r1", "p1", "   ", now)
		assert.ErrorIs(t, err, domain.ErrEmptyMessage)
	})
}
