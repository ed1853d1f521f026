package roomview_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/fuseroom/fuseroom/pkg/roomview"
)

func msg(id, content string) roomview.Message {
	return roomview.Message{
		ID:        id,
		Content:   content,
		CreatedAt: time.Now(),
	}
}

func TestViewAppendDeduplicatesByID(t *testing.T) {
	v := roomview.New()

	// A sender appends its own message optimistically, then the realtime
	// feed echoes the same id back.
	assert.True(t, v.Append(msg("m1", "hello")))
	assert.False(t, v.Append(msg("m1", "hello")))

	assert.Equal(t, 1, v.Len())
}

func TestViewPreservesInsertionOrder(t *testing.T) {
	v := roomview.New()
	v.Append(msg("m1", "first"))
	v.Append(msg("m2", "second"))
	v.Append(msg("m3", "third"))

	got := v.Messages()
	assert.Len(t, got, 3)
	assert.Equal(t, "m1", got[0].ID)
	assert.Equal(t, "m2", got[1].ID)
	assert.Equal(t, "m3", got[2].ID)
}

func TestViewReplace(t *testing.T) {
	v := roomview.New()
	v.Append(msg("old", "stale"))

	v.Replace([]roomview.Message{
		msg("m1", "first"),
		msg("m2", "second"),
		msg("m1", "dupe"),
	})

	got := v.Messages()
	assert.Len(t, got, 2)
	assert.Equal(t, "first", got[0].Content)
	assert.Equal(t, "second", got[1].Content)
}

func TestViewLiveAppendAfterReplay(t *testing.T) {
	v := roomview.New()
	v.Replace([]roomview.Message{msg("m1", "history")})

	assert.True(t, v.Append(msg("m2", "live")))
	assert.False(t, v.Append(msg("m1", "replayed history")))

	got := v.Messages()
	assert.Len(t, got, 2)
	assert.Equal(t, "m2", got[1].ID)
}
