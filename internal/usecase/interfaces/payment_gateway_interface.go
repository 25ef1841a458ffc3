package interfaces

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// ErrSimulationDisabled is returned by SimulatePayment outside sandbox mode.
var ErrSimulationDisabled = errors.New("payment simulation is disabled outside sandbox mode")

// ReferenceInfo is the gateway's view of a freshly created payment reference.
type ReferenceInfo struct {
	Reference   string
	Entity      string
	Price       *decimal.Decimal
	Description string
	Expiry      *time.Time
	Raw         json.RawMessage
}

// PaymentInfo describes a reference the gateway reports as paid.
type PaymentInfo struct {
	Reference string
	Amount    *decimal.Decimal
	Raw       json.RawMessage
}

// IPaymentGateway abstracts the external KPay payment API.
//
// Every call is synchronous and bounded by the configured timeout. The
// implementation never leaks transport-library errors: failures surface as
// typed gateway errors carrying the operation name.
type IPaymentGateway interface {
	// GenerateReference creates a payment reference at the gateway. The
	// description is truncated to the gateway limit before sending; a nil
	// expiry defaults to now plus the configured hour count.
	GenerateReference(ctx context.Context, price decimal.Decimal, description string, expiry *time.Time) (ReferenceInfo, error)

	// CheckPayment reports whether a reference has been paid. A (nil, nil)
	// result means "not yet paid" and is not an error.
	CheckPayment(ctx context.Context, reference string) (*PaymentInfo, error)

	// CancelReference requests cancellation of a pending reference.
	CancelReference(ctx context.Context, reference string) error

	// ListPaidReferences enumerates references the gateway reports as paid.
	ListPaidReferences(ctx context.Context) ([]PaymentInfo, error)

	// SimulatePayment emulates a payment. Sandbox-only; refused in
	// production mode with ErrSimulationDisabled.
	SimulatePayment(ctx context.Context, reference string, amount decimal.Decimal) error
}
