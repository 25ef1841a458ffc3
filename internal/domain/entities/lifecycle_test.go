package entities

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pendingTransaction() Transaction {
	return Transaction{
		Reference: "123456789012345",
		Entity:    "0000",
		Amount:    decimal.RequireFromString("100.00"),
		Status:    StatusPending,
		Currency:  "AOA",
		CreatedAt: time.Now().UTC().Add(-time.Minute),
	}
}

func TestApply_PendingTransitions(t *testing.T) {
	t.Run("markPaid", func(t *testing.T) {
		tx := pendingTransaction()
		payload := json.RawMessage(`{"reference":"123456789012345","amount":"100.00"}`)

		changed, err := tx.Apply(MarkPaid(payload))
		require.NoError(t, err)
		assert.True(t, changed)
		assert.Equal(t, StatusPaid, tx.Status)
		require.NotNil(t, tx.PaidAt)
		assert.Equal(t, payload, tx.APIResponseRaw)
		assert.Equal(t, "100.00", tx.APIResponse["amount"])
	})

	t.Run("markCancelled", func(t *testing.T) {
		tx := pendingTransaction()
		changed, err := tx.Apply(MarkCancelled())
		require.NoError(t, err)
		assert.True(t, changed)
		assert.Equal(t, StatusCancelled, tx.Status)
		assert.Nil(t, tx.PaidAt)
	})

	t.Run("markFailed", func(t *testing.T) {
		tx := pendingTransaction()
		changed, err := tx.Apply(MarkFailed())
		require.NoError(t, err)
		assert.True(t, changed)
		assert.Equal(t, StatusFailed, tx.Status)
	})
}

func TestApply_MarkPaidIsIdempotent(t *testing.T) {
	tx := pendingTransaction()
	first := json.RawMessage(`{"amount":"100.00","source":"webhook"}`)
	second := json.RawMessage(`{"amount":"100.00","source":"webhook-retry"}`)

	changed, err := tx.Apply(MarkPaid(first))
	require.NoError(t, err)
	require.True(t, changed)
	paidAt := tx.PaidAt

	changed, err = tx.Apply(MarkPaid(second))
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, StatusPaid, tx.Status)
	assert.Same(t, paidAt, tx.PaidAt, "PaidAt from the first confirmation must be preserved")
	assert.Equal(t, first, tx.APIResponseRaw, "APIResponse from the first confirmation must be preserved")
}

func TestApply_PaidRejectsCancelAndFail(t *testing.T) {
	for _, ev := range []Event{MarkCancelled(), MarkFailed()} {
		tx := pendingTransaction()
		_, err := tx.Apply(MarkPaid(nil))
		require.NoError(t, err)
		before := tx

		changed, err := tx.Apply(ev)
		assert.False(t, changed)
		var invalid *InvalidTransitionError
		require.ErrorAs(t, err, &invalid)
		assert.Equal(t, StatusPaid, invalid.From)
		assert.Equal(t, ev.Kind, invalid.Event)
		assert.Equal(t, before, tx, "record must be left unchanged")
	}
}

func TestApply_TerminalStatusesRejectEverything(t *testing.T) {
	for _, status := range []TransactionStatus{StatusCancelled, StatusFailed} {
		for _, ev := range []Event{MarkPaid(nil), MarkCancelled(), MarkFailed()} {
			tx := pendingTransaction()
			tx.Status = status

			changed, err := tx.Apply(ev)
			assert.False(t, changed)
			var invalid *InvalidTransitionError
			require.ErrorAs(t, err, &invalid, "status=%s event=%s", status, ev.Kind)
			assert.Equal(t, status, tx.Status)
			assert.Nil(t, tx.PaidAt, "paid_at must stay unset outside paid status")
		}
	}
}

func TestStatusHelpers(t *testing.T) {
	tx := pendingTransaction()
	assert.True(t, tx.IsPending())
	assert.False(t, tx.IsTerminal())

	_, err := tx.Apply(MarkPaid(nil))
	require.NoError(t, err)
	assert.True(t, tx.IsPaid())
	assert.True(t, tx.IsTerminal())

	assert.True(t, ValidStatus(StatusPaid))
	assert.False(t, ValidStatus("refunded"))
}
