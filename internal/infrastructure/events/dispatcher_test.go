package events

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/babulhossenshuvo/kyamipay/internal/domain/entities"
	"github.com/babulhossenshuvo/kyamipay/internal/usecase/interfaces"
)

func TestDispatcher_FansOutToAllSubscribers(t *testing.T) {
	d := NewDispatcher()

	var got []string
	d.OnPaymentConfirmed(func(_ context.Context, ev interfaces.PaymentConfirmedEvent) {
		got = append(got, "a:"+ev.Transaction.Reference)
	})
	d.OnPaymentConfirmed(func(_ context.Context, ev interfaces.PaymentConfirmedEvent) {
		got = append(got, "b:"+ev.Transaction.Reference)
	})

	d.PublishPaymentConfirmed(context.Background(), interfaces.PaymentConfirmedEvent{
		ID:          "ev-1",
		Transaction: entities.Transaction{Reference: "r1"},
	})

	assert.ElementsMatch(t, []string{"a:r1", "b:r1"}, got)
}

func TestDispatcher_ReconciliationSubscribers(t *testing.T) {
	d := NewDispatcher()

	var got *interfaces.ReconciliationRequiredEvent
	d.OnReconciliationRequired(func(_ context.Context, ev interfaces.ReconciliationRequiredEvent) {
		got = &ev
	})

	d.PublishReconciliationRequired(context.Background(), interfaces.ReconciliationRequiredEvent{
		ID:        "ev-2",
		Reference: interfaces.ReferenceInfo{Reference: "r2"},
	})

	require.NotNil(t, got)
	assert.Equal(t, "r2", got.Reference.Reference)
}

func TestDispatcher_NoSubscribersIsFine(t *testing.T) {
	d := NewDispatcher()
	d.PublishPaymentConfirmed(context.Background(), interfaces.PaymentConfirmedEvent{ID: "ev-3"})
	d.PublishReconciliationRequired(context.Background(), interfaces.ReconciliationRequiredEvent{ID: "ev-4"})
}

func TestWebhookForwarder_DeliversConfirmation(t *testing.T) {
	var gotBody map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	paidAt := time.Now().UTC()
	forward := NewWebhookForwarder(srv.URL)
	forward(context.Background(), interfaces.PaymentConfirmedEvent{
		ID: "ev-5",
		Transaction: entities.Transaction{
			Reference: "123456789012345",
			Currency:  "AOA",
			PaidAt:    &paidAt,
			OrderID:   "order-9",
		},
		OccurredAt: paidAt,
	})

	require.NotNil(t, gotBody)
	assert.Equal(t, "ev-5", gotBody["event_id"])
	assert.Equal(t, "123456789012345", gotBody["reference"])
	assert.Equal(t, "order-9", gotBody["order_id"])
}
