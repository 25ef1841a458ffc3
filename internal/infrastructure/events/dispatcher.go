package events

import (
	"context"
	"log"
	"sync"

	"github.com/babulhossenshuvo/kyamipay/internal/usecase/interfaces"
)

// PaymentConfirmedFunc receives confirmed-payment events.
type PaymentConfirmedFunc func(ctx context.Context, ev interfaces.PaymentConfirmedEvent)

// ReconciliationRequiredFunc receives reconciliation signals.
type ReconciliationRequiredFunc func(ctx context.Context, ev interfaces.ReconciliationRequiredEvent)

// Dispatcher is an in-process publisher with explicit observer registration.
// Delivery order across subscribers is not guaranteed and subscribers must
// be idempotent, mirroring the duplicate-delivery tolerance of the webhook
// pipeline itself.
type Dispatcher struct {
	mu        sync.RWMutex
	confirmed []PaymentConfirmedFunc
	reconcile []ReconciliationRequiredFunc
}

var _ interfaces.IPaymentEventPublisher = (*Dispatcher)(nil)

func NewDispatcher() *Dispatcher {
	return &Dispatcher{}
}

// OnPaymentConfirmed registers a subscriber for confirmed payments.
func (d *Dispatcher) OnPaymentConfirmed(fn PaymentConfirmedFunc) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.confirmed = append(d.confirmed, fn)
}

// OnReconciliationRequired registers a subscriber for reconciliation signals.
func (d *Dispatcher) OnReconciliationRequired(fn ReconciliationRequiredFunc) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.reconcile = append(d.reconcile, fn)
}

func (d *Dispatcher) PublishPaymentConfirmed(ctx context.Context, ev interfaces.PaymentConfirmedEvent) {
	log.Printf("[kpay][events] payment confirmed event_id=%s reference=%s", ev.ID, ev.Transaction.Reference)

	d.mu.RLock()
	subscribers := make([]PaymentConfirmedFunc, len(d.confirmed))
	copy(subscribers, d.confirmed)
	d.mu.RUnlock()

	for _, fn := range subscribers {
		fn(ctx, ev)
	}
}

func (d *Dispatcher) PublishReconciliationRequired(ctx context.Context, ev interfaces.ReconciliationRequiredEvent) {
	// Warning level: the gateway side effect exists without a local record.
	log.Printf("[kpay][events] warning: reconciliation required event_id=%s reference=%s cause=%v", ev.ID, ev.Reference.Reference, ev.Cause)

	d.mu.RLock()
	subscribers := make([]ReconciliationRequiredFunc, len(d.reconcile))
	copy(subscribers, d.reconcile)
	d.mu.RUnlock()

	for _, fn := range subscribers {
		fn(ctx, ev)
	}
}
