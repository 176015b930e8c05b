package bridge

/* Outcome is the three-way result of awaiting a webhook confirmation.
 * Unconfirmed means the event was accepted onto the bus but no reply
 * arrived in time; it is a first-class state, not an error.
 */
type Outcome int

const (
	Confirmed Outcome = iota + 1
	Failed
	Unconfirmed
)

// String returns the string representation of the outcome.
func (o Outcome) String() string {
	switch o {
	case Confirmed:
		return "confirmed"
	case Failed:
		return "failed"
	case Unconfirmed:
		return "unconfirmed"
	default:
		return "unknown"
	}
}

// Outcome derives the tri-state outcome from the optional flag.
func (r WebhookResult) Outcome() Outcome {
	switch {
	case r.Successful == nil:
		return Unconfirmed
	case *r.Successful:
		return Confirmed
	default:
		return Failed
	}
}
