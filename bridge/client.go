package bridge

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/marcelsud/webhook-bridge/queue"
)

// DefaultResponseTimeout bounds every correlation the bridge depends on
// before it can answer the HTTP caller.
const DefaultResponseTimeout = 5 * time.Second

// Recorder receives bridge telemetry. The metrics package implements it;
// NopRecorder is used when metrics are disabled.
type Recorder interface {
	EventPublished(ctx context.Context, eventName string)
	EventResolved(ctx context.Context, eventName, outcome string)
	UploadBytes(ctx context.Context, n int64)
}

type NopRecorder struct{}

func (NopRecorder) EventPublished(context.Context, string)        {}
func (NopRecorder) EventResolved(context.Context, string, string) {}
func (NopRecorder) UploadBytes(context.Context, int64)            {}

/* Client is the correlation client: it tags every event with a fresh
 * correlation id, publishes it onto the bus, and awaits the matching reply
 * up to a deadline. A missed deadline resolves to the zero-value result,
 * whose outcome is Unconfirmed; only a failed publish is an error.
 */
type Client struct {
	queue   queue.MessageQueue
	sender  string
	timeout time.Duration
	metrics Recorder
}

// NewClient creates a correlation client. A non-positive timeout falls back
// to DefaultResponseTimeout; a nil metrics recorder disables telemetry.
func NewClient(q queue.MessageQueue, sender string, timeout time.Duration, metrics Recorder) *Client {
	if timeout <= 0 {
		timeout = DefaultResponseTimeout
	}
	if metrics == nil {
		metrics = NopRecorder{}
	}
	return &Client{
		queue:   q,
		sender:  sender,
		timeout: timeout,
		metrics: metrics,
	}
}

// Timeout returns the client's default response timeout.
func (c *Client) Timeout() time.Duration {
	return c.timeout
}

func (c *Client) pushWait(ctx context.Context, eventName string, data any, timeout time.Duration) (json.RawMessage, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("marshaling %s payload: %w", eventName, err)
	}
	env := queue.Envelope{
		ID:        uuid.New().String(),
		EventName: eventName,
		Sender:    c.sender,
		Data:      payload,
	}
	reply, err := c.queue.PushWait(ctx, env, timeout)
	if err != nil {
		c.metrics.EventResolved(ctx, eventName, "error")
		return nil, err
	}
	c.metrics.EventPublished(ctx, eventName)
	return reply, nil
}

// SendWebhook publishes a generic webhook event and awaits its result.
func (c *Client) SendWebhook(ctx context.Context, ev WebhookEvent, timeout time.Duration) (WebhookResult, error) {
	reply, err := c.pushWait(ctx, GenericEventName, ev, timeout)
	if err != nil {
		return WebhookResult{}, err
	}
	var res WebhookResult
	if reply == nil {
		// No reply before the deadline: accepted, outcome unknown.
		c.metrics.EventResolved(ctx, GenericEventName, Unconfirmed.String())
		return res, nil
	}
	if err := json.Unmarshal(reply, &res); err != nil {
		return WebhookResult{}, fmt.Errorf("unmarshaling %s reply: %w", GenericEventName, err)
	}
	c.metrics.EventResolved(ctx, GenericEventName, webhookOutcomeLabel(res))
	return res, nil
}

// SendWebhookDefault awaits with the client's configured default timeout.
func (c *Client) SendWebhookDefault(ctx context.Context, ev WebhookEvent) (WebhookResult, error) {
	return c.SendWebhook(ctx, ev, c.timeout)
}

// UploadFile publishes an upload event and awaits the content reference.
func (c *Client) UploadFile(ctx context.Context, ev UploadEvent, timeout time.Duration) (UploadResult, error) {
	c.metrics.UploadBytes(ctx, int64(len(ev.Data)))
	reply, err := c.pushWait(ctx, UploadEventName, ev, timeout)
	if err != nil {
		return UploadResult{}, err
	}
	var res UploadResult
	if reply == nil {
		c.metrics.EventResolved(ctx, UploadEventName, Unconfirmed.String())
		return res, nil
	}
	if err := json.Unmarshal(reply, &res); err != nil {
		return UploadResult{}, fmt.Errorf("unmarshaling %s reply: %w", UploadEventName, err)
	}
	c.metrics.EventResolved(ctx, UploadEventName, uploadOutcomeLabel(res))
	return res, nil
}

func webhookOutcomeLabel(res WebhookResult) string {
	if res.NotFound {
		return "not_found"
	}
	return res.Outcome().String()
}

func uploadOutcomeLabel(res UploadResult) string {
	switch {
	case res.NotFound:
		return "not_found"
	case res.MXC == "":
		return Failed.String()
	default:
		return Confirmed.String()
	}
}
