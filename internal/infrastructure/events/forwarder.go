package events

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/babulhossenshuvo/kyamipay/internal/usecase/interfaces"
)

// NewWebhookForwarder returns a PaymentConfirmed subscriber that relays
// confirmations to a merchant-side URL, e.g. an order service that updates
// order state. The bounded client keeps a slow receiver from blocking the
// inbound webhook acknowledgment path for long.
func NewWebhookForwarder(url string) PaymentConfirmedFunc {
	client := &http.Client{Timeout: 5 * time.Second}

	return func(ctx context.Context, ev interfaces.PaymentConfirmedEvent) {
		body, err := json.Marshal(map[string]interface{}{
			"event_id":    ev.ID,
			"reference":   ev.Transaction.Reference,
			"amount":      ev.Transaction.Amount,
			"currency":    ev.Transaction.Currency,
			"paid_at":     ev.Transaction.PaidAt,
			"order_id":    ev.Transaction.OrderID,
			"user_id":     ev.Transaction.UserID,
			"occurred_at": ev.OccurredAt,
		})
		if err != nil {
			log.Printf("[kpay][forwarder] marshal failed event_id=%s err=%v", ev.ID, err)
			return
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			log.Printf("[kpay][forwarder] request build failed event_id=%s err=%v", ev.ID, err)
			return
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("User-Agent", "KyamiPay-Forwarder/1.0")

		resp, err := client.Do(req)
		if err != nil {
			log.Printf("[kpay][forwarder] delivery failed event_id=%s err=%v", ev.ID, err)
			return
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			log.Printf("[kpay][forwarder] receiver returned error event_id=%s status=%d", ev.ID, resp.StatusCode)
		}
	}
}
