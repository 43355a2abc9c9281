package notifications

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifier_NilClientIsNoop(t *testing.T) {
	n := NewNotifier(nil)
	ctx := context.Background()

	assert.NoError(t, n.PublishEvent(ctx, Event{Type: EventAccessRequestReviewed, RequestID: 1}))
	assert.NoError(t, n.PublishUser(ctx, 1, "hello"))
	assert.NoError(t, n.StartSubscriber(ctx, func(string, string) {}))
}

func TestNotifier_PublishEventRoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	n := NewNotifier(rdb)

	ctx := context.Background()
	sub := rdb.Subscribe(ctx, WorkflowChannel)
	t.Cleanup(func() { _ = sub.Close() })

	// Wait for the subscription before publishing.
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	want := Event{
		Type:      EventAccessRequestReviewed,
		RequestID: 42,
		Status:    "approved",
		ActorID:   7,
	}
	require.NoError(t, n.PublishEvent(ctx, want))

	select {
	case msg := <-sub.Channel():
		var got Event
		require.NoError(t, json.Unmarshal([]byte(msg.Payload), &got))
		assert.Equal(t, want.Type, got.Type)
		assert.Equal(t, want.RequestID, got.RequestID)
		assert.Equal(t, want.Status, got.Status)
		assert.Equal(t, want.ActorID, got.ActorID)
		assert.False(t, got.OccurredAt.IsZero(), "publish should stamp the event")
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for published event")
	}
}

func TestUserChannel(t *testing.T) {
	assert.Equal(t, "notifications:user:12", UserChannel(12))
}
