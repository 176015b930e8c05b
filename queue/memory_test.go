package queue_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/marcelsud/webhook-bridge/queue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_PushWait(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the responder's reply", func(t *testing.T) {
		m := queue.NewMemory()
		m.Handle("generic-webhook.event", func(ctx context.Context, env queue.Envelope) (json.RawMessage, error) {
			return json.RawMessage(`{"successful":true}`), nil
		})

		payload, err := m.PushWait(ctx, queue.Envelope{ID: "id-1", EventName: "generic-webhook.event"}, time.Second)

		require.NoError(t, err)
		assert.JSONEq(t, `{"successful":true}`, string(payload))
		assert.Equal(t, int64(0), m.Pending())
	})

	t.Run("no responder means no reply before the timeout", func(t *testing.T) {
		m := queue.NewMemory()

		payload, err := m.PushWait(ctx, queue.Envelope{ID: "id-1", EventName: "generic-webhook.event"}, 10*time.Millisecond)

		require.NoError(t, err)
		assert.Nil(t, payload)
		assert.Equal(t, int64(0), m.Pending())
	})

	t.Run("responder error leaves the waiter to time out", func(t *testing.T) {
		m := queue.NewMemory()
		m.Handle("generic-webhook.event", func(ctx context.Context, env queue.Envelope) (json.RawMessage, error) {
			return nil, errors.New("consumer exploded")
		})

		payload, err := m.PushWait(ctx, queue.Envelope{ID: "id-1", EventName: "generic-webhook.event"}, 10*time.Millisecond)

		require.NoError(t, err)
		assert.Nil(t, payload)
		assert.Equal(t, int64(0), m.Pending())
	})

	t.Run("responder sees the published envelope", func(t *testing.T) {
		m := queue.NewMemory()
		var seen queue.Envelope
		m.Handle("upload-webhook.event", func(ctx context.Context, env queue.Envelope) (json.RawMessage, error) {
			seen = env
			return json.RawMessage(`{"mxc":"mxc://x/y"}`), nil
		})

		env := queue.Envelope{
			ID:        "id-42",
			EventName: "upload-webhook.event",
			Sender:    "GithubWebhooks",
			Data:      json.RawMessage(`{"filename":"a.png"}`),
		}
		_, err := m.PushWait(ctx, env, time.Second)

		require.NoError(t, err)
		assert.Equal(t, "id-42", seen.ID)
		assert.Equal(t, "GithubWebhooks", seen.Sender)
		assert.JSONEq(t, `{"filename":"a.png"}`, string(seen.Data))
	})
}

func TestMemory_Push(t *testing.T) {
	t.Run("fire and forget reaches the responder", func(t *testing.T) {
		m := queue.NewMemory()
		done := make(chan struct{})
		m.Handle("generic-webhook.event", func(ctx context.Context, env queue.Envelope) (json.RawMessage, error) {
			close(done)
			return nil, nil
		})

		err := m.Push(context.Background(), queue.Envelope{ID: "id-1", EventName: "generic-webhook.event"})

		require.NoError(t, err)
		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("responder was never invoked")
		}
	})

	t.Run("no responder is not an error", func(t *testing.T) {
		m := queue.NewMemory()
		require.NoError(t, m.Push(context.Background(), queue.Envelope{ID: "id-1", EventName: "nobody.event"}))
	})
}

func TestMemory_ConcurrentWaiters(t *testing.T) {
	m := queue.NewMemory()
	var calls atomic.Int32
	m.Handle("generic-webhook.event", func(ctx context.Context, env queue.Envelope) (json.RawMessage, error) {
		calls.Add(1)
		return json.RawMessage(`{"successful":true}`), nil
	})

	const n = 8
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		go func(i int) {
			env := queue.Envelope{ID: string(rune('a' + i)), EventName: "generic-webhook.event"}
			payload, err := m.PushWait(context.Background(), env, time.Second)
			if err == nil && payload == nil {
				err = errors.New("missing reply")
			}
			errs <- err
		}(i)
	}
	for i := 0; i < n; i++ {
		require.NoError(t, <-errs)
	}

	assert.Equal(t, int32(n), calls.Load())
	assert.Equal(t, int64(0), m.Pending())
}
