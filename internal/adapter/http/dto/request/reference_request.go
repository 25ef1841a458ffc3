package request

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/babulhossenshuvo/kyamipay/internal/usecase"
)

var (
	ErrInvalidAmountValue = errors.New("invalid amount value")
	ErrInvalidExpiryValue = errors.New("invalid expiry value")
	ErrMissingReference   = errors.New("missing reference")
)

// Expiry values are accepted in the gateway's wire format or RFC3339.
const expiryLayout = "2006-01-02 15:04:05"

// GenerateReferenceRequest is the payload accepted by the reference-creation
// endpoint. Amount is a string so callers keep full decimal precision.
type GenerateReferenceRequest struct {
	Amount      string                 `json:"amount" binding:"required"`
	Description string                 `json:"description"`
	Expiry      string                 `json:"expiry"`
	Metadata    map[string]interface{} `json:"metadata"`
	UserID      string                 `json:"user_id"`
	OrderID     string                 `json:"order_id"`
}

// ToInput validates and converts the request into usecase input.
func (r GenerateReferenceRequest) ToInput() (usecase.GenerateReferenceInput, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(r.Amount))
	if err != nil || !amount.IsPositive() {
		return usecase.GenerateReferenceInput{}, ErrInvalidAmountValue
	}

	in := usecase.GenerateReferenceInput{
		Amount:      amount,
		Description: strings.TrimSpace(r.Description),
		Metadata:    r.Metadata,
		UserID:      strings.TrimSpace(r.UserID),
		OrderID:     strings.TrimSpace(r.OrderID),
	}

	if v := strings.TrimSpace(r.Expiry); v != "" {
		expiry, err := parseExpiry(v)
		if err != nil {
			return usecase.GenerateReferenceInput{}, ErrInvalidExpiryValue
		}
		in.Expiry = &expiry
	}
	return in, nil
}

func parseExpiry(v string) (time.Time, error) {
	if t, err := time.Parse(expiryLayout, v); err == nil {
		return t.UTC(), nil
	}
	return time.Parse(time.RFC3339, v)
}

// CancelReferenceRequest identifies the reference to cancel.
type CancelReferenceRequest struct {
	Reference string `json:"reference" binding:"required"`
}

func (r CancelReferenceRequest) ResolveReference() (string, error) {
	v := strings.TrimSpace(r.Reference)
	if v == "" {
		return "", ErrMissingReference
	}
	return v, nil
}

// SimulatePaymentRequest triggers the sandbox payment emulation.
type SimulatePaymentRequest struct {
	Reference string `json:"reference" binding:"required"`
	Amount    string `json:"amount" binding:"required"`
}

func (r SimulatePaymentRequest) Resolve() (string, decimal.Decimal, error) {
	reference := strings.TrimSpace(r.Reference)
	if reference == "" {
		return "", decimal.Decimal{}, ErrMissingReference
	}
	amount, err := decimal.NewFromString(strings.TrimSpace(r.Amount))
	if err != nil || !amount.IsPositive() {
		return "", decimal.Decimal{}, ErrInvalidAmountValue
	}
	return reference, amount, nil
}
