package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/marcelsud/webhook-bridge/queue"
	"github.com/redis/go-redis/v9"
)

/* Redis Pub/Sub implementation of queue.MessageQueue.
 * Envelopes are published on the channel named by their event name
 * (e.g. "generic-webhook.event"); consumers answer on
 * "<event name>.response" with a queue.Reply tagged with the
 * correlation id.
 */

const replyPattern = "*.response"

type Queue struct {
	client     *redis.Client
	correlator *queue.Correlator
	sub        *redis.PubSub
	done       chan struct{}
}

// New creates a Redis-backed queue and starts the reply dispatcher.
func New(addr, password string, db int) (*Queue, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connecting to Redis: %w", err)
	}

	sub := client.PSubscribe(context.Background(), replyPattern)
	if _, err := sub.Receive(ctx); err != nil {
		return nil, fmt.Errorf("subscribing to reply channels: %w", err)
	}

	q := &Queue{
		client:     client,
		correlator: queue.NewCorrelator(),
		sub:        sub,
		done:       make(chan struct{}),
	}
	go q.dispatch()

	return q, nil
}

// dispatch routes reply messages to their pending waiters. Replies for ids
// nobody is waiting on (a timed-out request, or another bridge instance's
// correlation) are discarded.
func (q *Queue) dispatch() {
	defer close(q.done)
	for msg := range q.sub.Channel() {
		var reply queue.Reply
		if err := json.Unmarshal([]byte(msg.Payload), &reply); err != nil {
			continue
		}
		q.correlator.Resolve(reply.ID, reply.Data)
	}
}

// Push publishes an envelope without waiting for a reply.
func (q *Queue) Push(ctx context.Context, env queue.Envelope) error {
	data, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshaling envelope: %w", err)
	}
	if err := q.client.Publish(ctx, env.EventName, data).Err(); err != nil {
		return fmt.Errorf("publishing %s: %w", env.EventName, err)
	}
	return nil
}

// PushWait publishes an envelope and awaits the reply carrying its id.
func (q *Queue) PushWait(ctx context.Context, env queue.Envelope, timeout time.Duration) (json.RawMessage, error) {
	ch := q.correlator.Register(env.ID)
	if err := q.Push(ctx, env); err != nil {
		q.correlator.Drop(env.ID)
		return nil, err
	}
	return q.correlator.Await(ctx, env.ID, ch, timeout)
}

// Pending reports in-flight correlations, used by the metrics gauge.
func (q *Queue) Pending() int64 {
	return q.correlator.Pending()
}

// Close stops the reply dispatcher and closes the Redis client.
func (q *Queue) Close(ctx context.Context) error {
	if err := q.sub.Close(); err != nil {
		return fmt.Errorf("closing subscription: %w", err)
	}
	select {
	case <-q.done:
	case <-ctx.Done():
	}
	return q.client.Close()
}
