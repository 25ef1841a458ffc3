package entities

import (
	"encoding/json"
	"fmt"
	"time"
)

// EventKind identifies a lifecycle transition request.

type EventKind string

const (
	EventMarkPaid      EventKind = "markPaid"
	EventMarkCancelled EventKind = "markCancelled"
	EventMarkFailed    EventKind = "markFailed"
)

// Event is a requested status transition. Build events through MarkPaid,
// MarkCancelled or MarkFailed rather than by hand so the gateway payload and
// timestamp are captured consistently.
type Event struct {
	Kind           EventKind
	APIResponseRaw json.RawMessage
	OccurredAt     time.Time
}

// MarkPaid builds a paid-confirmation event carrying the raw gateway or
// webhook payload that confirmed the payment.
func MarkPaid(apiResponse json.RawMessage) Event {
	return Event{
		Kind:           EventMarkPaid,
		APIResponseRaw: apiResponse,
		OccurredAt:     time.Now().UTC(),
	}
}

// MarkCancelled builds a cancellation event.
func MarkCancelled() Event {
	return Event{Kind: EventMarkCancelled, OccurredAt: time.Now().UTC()}
}

// MarkFailed builds a failure event.
func MarkFailed() Event {
	return Event{Kind: EventMarkFailed, OccurredAt: time.Now().UTC()}
}

// InvalidTransitionError reports an attempt to move a transaction out of a
// terminal status, or to cancel/fail a paid transaction.
type InvalidTransitionError struct {
	Reference string
	From      TransactionStatus
	Event     EventKind
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition: cannot apply %s to transaction %s in status %s", e.Event, e.Reference, e.From)
}

// Apply is the single mutation entry point for transaction status. Every
// write path (webhook confirmation, polling check, cancellation) must route
// through it so the idempotency rules hold when duplicate or racing events
// arrive for the same reference.
//
// It returns changed=true when the transaction actually moved to a new
// status. Re-applying markPaid to an already paid transaction is a no-op
// success: PaidAt and APIResponse from the first application are preserved
// and changed=false lets the caller suppress duplicate confirmation events.
func (t *Transaction) Apply(ev Event) (changed bool, err error) {
	switch t.Status {
	case StatusPending:
		switch ev.Kind {
		case EventMarkPaid:
			t.Status = StatusPaid
			at := ev.OccurredAt
			if at.IsZero() {
				at = time.Now().UTC()
			}
			t.PaidAt = &at
			if len(ev.APIResponseRaw) > 0 {
				t.APIResponseRaw = ev.APIResponseRaw
				var parsed map[string]interface{}
				if jsonErr := json.Unmarshal(ev.APIResponseRaw, &parsed); jsonErr == nil {
					t.APIResponse = parsed
				}
			}
			return true, nil
		case EventMarkCancelled:
			t.Status = StatusCancelled
			return true, nil
		case EventMarkFailed:
			t.Status = StatusFailed
			return true, nil
		}
	case StatusPaid:
		if ev.Kind == EventMarkPaid {
			return false, nil
		}
	}

	return false, &InvalidTransitionError{Reference: t.Reference, From: t.Status, Event: ev.Kind}
}
