package queue

import (
	"context"
	"encoding/json"
	"time"
)

/* The bridge talks to the event bus through MessageQueue. The transport
 * itself (delivery, persistence) is the bus's problem; the bridge only needs
 * fire-and-forget publishing and a request/reply primitive.
 */

// Envelope is the wire shape of every message published onto the bus.
// ID is the correlation id linking a published event to its eventual reply.
type Envelope struct {
	ID        string          `json:"id"`
	EventName string          `json:"eventName"`
	Sender    string          `json:"sender"`
	Data      json.RawMessage `json:"data"`
}

// Reply carries a consumer's answer to a previously published envelope,
// tagged with the originating correlation id.
type Reply struct {
	ID   string          `json:"id"`
	Data json.RawMessage `json:"data"`
}

// ResponseChannel returns the channel consumers answer on for an event name.
func ResponseChannel(eventName string) string {
	return eventName + ".response"
}

// MessageQueue publishes envelopes onto the event bus.
type MessageQueue interface {
	// Push publishes an envelope without waiting for a reply.
	Push(ctx context.Context, env Envelope) error
	/* PushWait publishes an envelope and blocks until a reply tagged with the
	 * envelope's ID arrives or the timeout elapses. A nil payload with a nil
	 * error means no reply arrived in time; that is not a failure, the event
	 * was still published.
	 */
	PushWait(ctx context.Context, env Envelope, timeout time.Duration) (json.RawMessage, error)
	Close(ctx context.Context) error
}
