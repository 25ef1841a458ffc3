package entities

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionStatus tracks where a payment reference is in its lifecycle.
//
// pending is the only non-terminal status: paid, cancelled and failed are
// final. Records are never deleted; a cancelled or failed reference stays
// around in its terminal status.

type TransactionStatus string

const (
	StatusPending   TransactionStatus = "pending"
	StatusPaid      TransactionStatus = "paid"
	StatusCancelled TransactionStatus = "cancelled"
	StatusFailed    TransactionStatus = "failed"
)

// ValidStatus reports whether s is one of the known lifecycle statuses.
func ValidStatus(s TransactionStatus) bool {
	switch s {
	case StatusPending, StatusPaid, StatusCancelled, StatusFailed:
		return true
	}
	return false
}

// Transaction is the payment-reference record persisted by the service.
//
// Storage model (DynamoDB):
//   - PK: reference (assigned by the KPay gateway, immutable once set)
//   - GSI1 (status-index): status
//   - GSI2 (user_id-index): user_id
//   - GSI3 (order_id-index): order_id
//
// Gateway payloads:
//   - APIResponseRaw keeps the last raw gateway body (JSON) for audit.
//   - APIResponse is the parsed representation, useful for debugging.
//     (We persist both because gateway response schemas may vary.)

type Transaction struct {
	Reference   string            `json:"reference"`
	Entity      string            `json:"entity"`
	Amount      decimal.Decimal   `json:"amount"`
	Price       *decimal.Decimal  `json:"price,omitempty"`
	Description string            `json:"description,omitempty"`
	Status      TransactionStatus `json:"status"`
	Currency    string            `json:"currency"`
	CreatedAt   time.Time         `json:"created_at"`
	ExpiresAt   *time.Time        `json:"expires_at,omitempty"`
	PaidAt      *time.Time        `json:"paid_at,omitempty"`

	Metadata       map[string]interface{} `json:"metadata,omitempty"`
	APIResponseRaw json.RawMessage        `json:"api_response_raw,omitempty"`
	APIResponse    map[string]interface{} `json:"api_response,omitempty"`

	UserID  string `json:"user_id,omitempty"`
	OrderID string `json:"order_id,omitempty"`
}

// IsPending reports whether the reference is still awaiting confirmation.
func (t Transaction) IsPending() bool {
	return t.Status == StatusPending
}

// IsPaid reports whether the reference has been confirmed as paid.
func (t Transaction) IsPaid() bool {
	return t.Status == StatusPaid
}

// IsTerminal reports whether no further transition is possible.
func (t Transaction) IsTerminal() bool {
	return t.Status == StatusPaid || t.Status == StatusCancelled || t.Status == StatusFailed
}
