package sse

import (
	"bytes"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_PublishReachesEverySubscriberOfUser(t *testing.T) {
	hub := NewHub()

	first, cleanupFirst := hub.Subscribe("user-1")
	second, cleanupSecond := hub.Subscribe("user-1")
	other, cleanupOther := hub.Subscribe("user-2")
	defer cleanupFirst()
	defer cleanupSecond()
	defer cleanupOther()

	hub.Publish("user-1", Event{Name: "workday.updated", WorkdayID: "wd-1"})

	assert.Equal(t, "wd-1", (<-first).WorkdayID)
	assert.Equal(t, "wd-1", (<-second).WorkdayID)
	assert.Empty(t, other)
}

func TestHub_PublishDoesNotBlockOnFullBuffer(t *testing.T) {
	hub := NewHub()
	ch, cleanup := hub.Subscribe("user-1")
	defer cleanup()

	for i := 0; i < subscriberBuffer+5; i++ {
		hub.Publish("user-1", Event{Name: "workday.updated"})
	}
	assert.Len(t, ch, subscriberBuffer)
}

func TestHub_CleanupRemovesSubscriber(t *testing.T) {
	hub := NewHub()
	ch, cleanup := hub.Subscribe("user-1")
	require.Equal(t, 1, hub.SubscriberCount("user-1"))

	cleanup()

	assert.Equal(t, 0, hub.SubscriberCount("user-1"))
	_, open := <-ch
	assert.False(t, open)
	hub.Publish("user-1", Event{Name: "workday.updated"})
}

func TestWriteEvent(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteEvent(&buf, "live", []byte(`{"worked_seconds":60}`)))
	assert.Equal(t, "event: live\ndata: {\"worked_seconds\":60}\n\n", buf.String())
}

func TestPrepareStream(t *testing.T) {
	rec := httptest.NewRecorder()
	flusher, ok := PrepareStream(rec)
	require.True(t, ok)
	require.NotNil(t, flusher)
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
}
