package sse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_PublishReachesSubscribersOfTopic(t *testing.T) {
	hub := NewHub(2)

	ch, cleanup := hub.Subscribe("today")
	defer cleanup()
	other, otherCleanup := hub.Subscribe("other")
	defer otherCleanup()

	hub.Publish("today", Event{Event: "state_changed", Data: "WORKING"})

	require.Len(t, ch, 1)
	ev := <-ch
	assert.Equal(t, "today", ev.Topic)
	assert.Equal(t, "state_changed", ev.Event)
	assert.Equal(t, "WORKING", ev.Data)
	assert.Len(t, other, 0)
}

func TestHub_PublishDoesNotBlockOnFullBuffer(t *testing.T) {
	hub := NewHub(1)
	ch, cleanup := hub.Subscribe("today")
	defer cleanup()

	hub.Publish("today", Event{Event: "a"})
	hub.Publish("today", Event{Event: "b"})

	assert.Len(t, ch, 1)
	assert.Equal(t, "a", (<-ch).Event)
}

func TestHub_CleanupRemovesSubscriber(t *testing.T) {
	hub := NewHub(0)
	_, cleanup := hub.Subscribe("today")
	assert.Equal(t, 1, hub.SubscriberCount("today"))

	cleanup()
	cleanup()
	assert.Equal(t, 0, hub.SubscriberCount("today"))

	// publishing to a topic without subscribers is a no-op
	hub.Publish("today", Event{Event: "x"})
}
