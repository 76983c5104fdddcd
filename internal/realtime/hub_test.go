package realtime

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBroadcastDeliversExactlyOnce(t *testing.T) {
	hub := NewHub()
	sub := hub.Subscribe()
	defer hub.Unsubscribe(sub)

	hub.Broadcast("newReview", map[string]string{"content": "great"})

	frame := <-sub.Events()
	var event Event
	require.NoError(t, json.Unmarshal(frame, &event))
	assert.Equal(t, "newReview", event.Event)

	select {
	case extra := <-sub.Events():
		t.Fatalf("unexpected second frame: %s", extra)
	default:
	}
}

func TestBroadcastReachesAllSubscribers(t *testing.T) {
	hub := NewHub()
	first := hub.Subscribe()
	second := hub.Subscribe()
	defer hub.Unsubscribe(first)
	defer hub.Unsubscribe(second)

	hub.Broadcast("review:deleted", map[string]string{"reviewId": "abc"})

	frameOne := <-first.Events()
	frameTwo := <-second.Events()
	assert.Equal(t, frameOne, frameTwo)
	assert.Contains(t, string(frameOne), "review:deleted")
}

func TestBroadcastDropsWhenSubscriberFull(t *testing.T) {
	hub := NewHub()
	sub := hub.Subscribe()
	defer hub.Unsubscribe(sub)

	// One past the channel buffer; the hub must not block.
	for i := 0; i < cap(sub.ch)+1; i++ {
		hub.Broadcast("newReview", i)
	}
	assert.Len(t, sub.ch, cap(sub.ch))
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	hub := NewHub()
	sub := hub.Subscribe()
	require.Equal(t, 1, hub.Count())

	hub.Unsubscribe(sub)
	assert.Equal(t, 0, hub.Count())

	_, open := <-sub.Events()
	assert.False(t, open)

	// Double unsubscribe must not panic.
	hub.Unsubscribe(sub)
}

func TestBroadcastIgnoresRooms(t *testing.T) {
	hub := NewHub()
	inRoom := hub.Subscribe()
	outside := hub.Subscribe()
	defer hub.Unsubscribe(inRoom)
	defer hub.Unsubscribe(outside)

	hub.Join(inRoom, "moderators")
	hub.Broadcast("review:liked", nil)

	assert.Len(t, inRoom.ch, 1)
	assert.Len(t, outside.ch, 1)
}
