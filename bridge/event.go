package bridge

/* Event and result types shared with the downstream consumer.
 * These are the bus-side wire contract; field names and the event name
 * strings must not change.
 */

// Bus event names.
const (
	GenericEventName = "generic-webhook.event"
	UploadEventName  = "upload-webhook.event"
)

// WebhookEvent asks the consumer to deliver an arbitrary payload to the
// binding identified by HookID. HookData is interpreted downstream, never
// by the bridge.
type WebhookEvent struct {
	HookData any    `json:"hookData"`
	HookID   string `json:"hookId"`
}

/* WebhookResult is the consumer's synchronous answer to a WebhookEvent.
 * Successful stays nil when no confirmation arrived before the timeout;
 * use Outcome to branch on the three states.
 */
type WebhookResult struct {
	Successful *bool `json:"successful,omitempty"`
	NotFound   bool  `json:"notFound,omitempty"`
}

// UploadEvent asks the consumer to store a file and mint a content
// reference for it.
type UploadEvent struct {
	Data     []byte `json:"data"`
	Filename string `json:"filename"`
	HookID   string `json:"hookId"`
}

// UploadResult is the consumer's answer to an UploadEvent. An empty MXC
// with NotFound false means the upload itself failed.
type UploadResult struct {
	MXC      string `json:"mxc,omitempty"`
	NotFound bool   `json:"notFound,omitempty"`
}
