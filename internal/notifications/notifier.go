// Package notifications publishes workflow events into Redis channels so
// dashboards and other consumers can react to review decisions in real time.
package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"runtime/debug"
	"strconv"
	"time"

	"fieldops/internal/observability"

	"github.com/redis/go-redis/v9"
)

// Event types published on the workflow channel.
const (
	EventAccessRequestCreated    = "access_request_created"
	EventAccessRequestReviewed   = "access_request_reviewed"
	EventApprovalRequestReviewed = "approval_request_reviewed"
)

// WorkflowChannel is the broadcast channel carrying every workflow event.
const WorkflowChannel = "workflow:events"

// Event is the payload published for every workflow state change.
type Event struct {
	Type       string    `json:"type"`
	RequestID  uint      `json:"request_id"`
	Status     string    `json:"status"`
	ActorID    uint      `json:"actor_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Notifier provides helpers to publish notifications into Redis channels
type Notifier struct {
	rdb *redis.Client
}

// NewNotifier creates a new Notifier instance using the provided Redis client.
// A nil client yields a no-op notifier so the workflow never depends on Redis.
func NewNotifier(rdb *redis.Client) *Notifier {
	return &Notifier{rdb: rdb}
}

// PublishEvent sends a workflow event to the broadcast channel.
func (n *Notifier) PublishEvent(ctx context.Context, ev Event) error {
	if n.rdb == nil {
		return nil
	}
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = time.Now().UTC()
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if err := n.rdb.Publish(ctx, WorkflowChannel, payload).Err(); err != nil {
		return err
	}
	observability.EventsPublished.WithLabelValues(ev.Type).Inc()
	return nil
}

// PublishUser sends a notification payload to a user's channel.
func (n *Notifier) PublishUser(
	ctx context.Context, userID uint, payload string,
) error {
	if n.rdb == nil {
		return nil
	}
	return n.rdb.Publish(ctx, UserChannel(userID), payload).Err()
}

// StartSubscriber subscribes to the workflow channel and every per-user
// channel, calling onMessage for each incoming message.
func (n *Notifier) StartSubscriber(
	ctx context.Context, onMessage func(channel string, payload string),
) error {
	if n.rdb == nil {
		return nil
	}
	sub := n.rdb.PSubscribe(ctx, WorkflowChannel, "notifications:user:*")
	ch := sub.Channel()

	go func() {
		defer func() { _ = sub.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				func() {
					defer func() {
						if r := recover(); r != nil {
							log.Printf("PANIC in workflow subscriber: %v\n%s", r, debug.Stack())
						}
					}()
					onMessage(msg.Channel, msg.Payload)
				}()
			}
		}
	}()

	return nil
}

// UserChannel derives the Redis channel name for a user.
func UserChannel(userID uint) string {
	return "notifications:user:" + strconv.FormatUint(uint64(userID), 10)
}
