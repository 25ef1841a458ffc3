package interfaces

import (
	"context"
	"time"

	"github.com/babulhossenshuvo/kyamipay/internal/domain/entities"
)

// PaymentConfirmedEvent is published exactly once per reference when a
// transaction transitions to paid. Subscribers must be idempotent: delivery
// ordering is not guaranteed.
type PaymentConfirmedEvent struct {
	ID          string
	Transaction entities.Transaction
	Payload     map[string]interface{}
	OccurredAt  time.Time
}

// ReconciliationRequiredEvent signals that the gateway created a reference
// but the local record could not be persisted. The external side effect
// already happened, so the triggering call does not fail; an operator or
// monitor is expected to create the missing record from this signal.
type ReconciliationRequiredEvent struct {
	ID         string
	Reference  ReferenceInfo
	Cause      error
	OccurredAt time.Time
}

// IPaymentEventPublisher fans domain events out to registered collaborators.
type IPaymentEventPublisher interface {
	PublishPaymentConfirmed(ctx context.Context, ev PaymentConfirmedEvent)
	PublishReconciliationRequired(ctx context.Context, ev ReconciliationRequiredEvent)
}
