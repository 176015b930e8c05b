package queue

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

// Responder produces the reply payload for one envelope. Returning an error
// means no reply is sent and the waiter runs into its timeout.
type Responder func(ctx context.Context, env Envelope) (json.RawMessage, error)

/* Memory is an in-process MessageQueue. Consumers register a Responder per
 * event name; PushWait runs the responder concurrently and correlates its
 * reply through the same registry the wire transports use, so timeout and
 * resolution semantics are identical.
 */
type Memory struct {
	correlator *Correlator

	mu         sync.RWMutex
	responders map[string]Responder
}

// NewMemory creates an in-process queue with no responders registered.
func NewMemory() *Memory {
	return &Memory{
		correlator: NewCorrelator(),
		responders: make(map[string]Responder),
	}
}

// Handle registers the responder for an event name, replacing any previous one.
func (m *Memory) Handle(eventName string, fn Responder) {
	m.mu.Lock()
	m.responders[eventName] = fn
	m.mu.Unlock()
}

func (m *Memory) responder(eventName string) Responder {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.responders[eventName]
}

// Push publishes an envelope without waiting for a reply.
func (m *Memory) Push(ctx context.Context, env Envelope) error {
	fn := m.responder(env.EventName)
	if fn == nil {
		return nil
	}
	go func() {
		_, _ = fn(context.Background(), env)
	}()
	return nil
}

// PushWait publishes an envelope and awaits its correlated reply.
func (m *Memory) PushWait(ctx context.Context, env Envelope, timeout time.Duration) (json.RawMessage, error) {
	ch := m.correlator.Register(env.ID)
	if fn := m.responder(env.EventName); fn != nil {
		go func() {
			payload, err := fn(ctx, env)
			if err != nil {
				m.correlator.Drop(env.ID)
				return
			}
			m.correlator.Resolve(env.ID, payload)
		}()
	}
	return m.correlator.Await(ctx, env.ID, ch, timeout)
}

// Pending reports in-flight correlations.
func (m *Memory) Pending() int64 {
	return m.correlator.Pending()
}

func (m *Memory) Close(ctx context.Context) error {
	return nil
}
