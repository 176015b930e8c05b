package queue

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

/* Correlator tracks in-flight request/reply correlations.
 * Each id resolves at most once, and the entry is removed both on resolve
 * and on timeout, so the registry stays bounded by the number of in-flight
 * requests.
 */
type Correlator struct {
	mu      sync.Mutex
	pending map[string]chan json.RawMessage
}

// NewCorrelator creates an empty correlation registry.
func NewCorrelator() *Correlator {
	return &Correlator{
		pending: make(map[string]chan json.RawMessage),
	}
}

// Register creates a waiter for the given correlation id. The returned
// channel receives at most one payload.
func (c *Correlator) Register(id string) <-chan json.RawMessage {
	ch := make(chan json.RawMessage, 1)
	c.mu.Lock()
	c.pending[id] = ch
	c.mu.Unlock()
	return ch
}

// Resolve delivers the payload to the waiter registered for id, reporting
// whether a waiter was present. A second resolve for the same id is a no-op.
func (c *Correlator) Resolve(id string, payload json.RawMessage) bool {
	c.mu.Lock()
	ch, ok := c.pending[id]
	if ok {
		delete(c.pending, id)
	}
	c.mu.Unlock()
	if !ok {
		return false
	}
	ch <- payload
	return true
}

// Drop removes the waiter for id without resolving it.
func (c *Correlator) Drop(id string) {
	c.mu.Lock()
	delete(c.pending, id)
	c.mu.Unlock()
}

// Pending returns the number of in-flight correlations.
func (c *Correlator) Pending() int64 {
	c.mu.Lock()
	n := len(c.pending)
	c.mu.Unlock()
	return int64(n)
}

/* Await blocks until the waiter resolves, the timeout elapses, or ctx is
 * cancelled. The registry entry is always gone when Await returns. A nil
 * payload with a nil error means the timeout won.
 */
func (c *Correlator) Await(ctx context.Context, id string, ch <-chan json.RawMessage, timeout time.Duration) (json.RawMessage, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case payload := <-ch:
		return payload, nil
	case <-timer.C:
		c.Drop(id)
		return nil, nil
	case <-ctx.Done():
		c.Drop(id)
		return nil, ctx.Err()
	}
}
