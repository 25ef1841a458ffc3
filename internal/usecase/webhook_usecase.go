package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/babulhossenshuvo/kyamipay/internal/domain/entities"
	"github.com/babulhossenshuvo/kyamipay/internal/usecase/interfaces"
)

// AckResult is the webhook acknowledgment contract: the gateway always gets
// a JSON body {code: <int>} and retries anything that is not a 200.
type AckResult struct {
	Code    int
	Message string
}

// IWebhookUseCase processes inbound payment-confirmation deliveries.

type IWebhookUseCase interface {
	Process(ctx context.Context, raw json.RawMessage, signature string) AckResult
}

type WebhookUseCase struct {
	repo      interfaces.ITransactionRepository
	verifier  interfaces.IWebhookVerifier
	publisher interfaces.IPaymentEventPublisher
}

var _ IWebhookUseCase = (*WebhookUseCase)(nil)

func NewWebhookUseCase(repo interfaces.ITransactionRepository, verifier interfaces.IWebhookVerifier, publisher interfaces.IPaymentEventPublisher) *WebhookUseCase {
	return &WebhookUseCase{repo: repo, verifier: verifier, publisher: publisher}
}

// Process validates, verifies and applies one webhook delivery.
//
// Duplicate deliveries are expected: the gateway retries until it sees a
// 200. A payload for an already-paid reference acks without re-emitting the
// confirmation event, and unknown references ack as well since the gateway
// contract expects acknowledgment for any well-formed payload (references
// may be created out of band).
func (u *WebhookUseCase) Process(ctx context.Context, raw json.RawMessage, signature string) AckResult {
	var payload map[string]interface{}
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Printf("[kpay][webhook] invalid payload (not-json) err=%v", err)
		return AckResult{Code: http.StatusBadRequest, Message: "Invalid payload"}
	}

	reference := payloadString(payload, "reference")
	amount := payloadString(payload, "amount")
	if reference == "" || amount == "" {
		log.Printf("[kpay][webhook] invalid payload, missing reference or amount")
		return AckResult{Code: http.StatusBadRequest, Message: "Invalid payload"}
	}

	if u.verifier != nil && u.verifier.SecretConfigured() {
		if !u.verifier.Verify(payload, signature) {
			log.Printf("[kpay][webhook] signature mismatch reference=%s", reference)
			return AckResult{Code: http.StatusUnauthorized, Message: "Invalid signature"}
		}
	}

	tx, err := u.repo.GetByReference(ctx, reference)
	if err != nil {
		log.Printf("[kpay][webhook] lookup failed reference=%s err=%v", reference, err)
		return AckResult{Code: http.StatusInternalServerError, Message: "Internal server error"}
	}
	if tx.Reference == "" {
		// Acknowledge so the gateway stops retrying a reference we do not track.
		log.Printf("[kpay][webhook] transaction not found reference=%s", reference)
		return AckResult{Code: http.StatusOK}
	}

	changed, err := tx.Apply(entities.MarkPaid(raw))
	if err != nil {
		// Terminal record (cancelled/failed); keep it and stop the retries.
		log.Printf("[kpay][webhook] confirmation for terminal transaction reference=%s status=%s err=%v", reference, tx.Status, err)
		return AckResult{Code: http.StatusOK}
	}
	if !changed {
		log.Printf("[kpay][webhook] duplicate confirmation reference=%s", reference)
		return AckResult{Code: http.StatusOK}
	}

	updated, err := u.repo.UpdateStatus(ctx, tx, entities.StatusPending)
	if err != nil {
		if errors.Is(err, interfaces.ErrStatusConflict) {
			// A concurrent poll or duplicate delivery won the race; that
			// writer owns the confirmation event.
			log.Printf("[kpay][webhook] concurrent confirmation reference=%s", reference)
			return AckResult{Code: http.StatusOK}
		}
		log.Printf("[kpay][webhook] persist failed reference=%s err=%v", reference, err)
		return AckResult{Code: http.StatusInternalServerError, Message: "Internal server error"}
	}

	if u.publisher != nil {
		u.publisher.PublishPaymentConfirmed(ctx, interfaces.PaymentConfirmedEvent{
			ID:          uuid.NewString(),
			Transaction: updated,
			Payload:     payload,
			OccurredAt:  time.Now().UTC(),
		})
	}
	log.Printf("[kpay][webhook] payment confirmed reference=%s amount=%s", reference, amount)
	return AckResult{Code: http.StatusOK}
}

func payloadString(m map[string]interface{}, key string) string {
	switch v := m[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		b, _ := json.Marshal(v)
		return string(b)
	}
	return ""
}
