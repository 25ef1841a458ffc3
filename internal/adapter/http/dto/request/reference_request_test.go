package request

import (
	"errors"
	"testing"
	"time"
)

func TestGenerateReferenceRequest_ToInput(t *testing.T) {
	r := GenerateReferenceRequest{
		Amount:      " 100.00 ",
		Description: " order #1 ",
		Expiry:      "2030-01-01 00:00:00",
		UserID:      "user-1",
		OrderID:     "order-9",
	}

	in, err := r.ToInput()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if in.Amount.String() != "100" {
		t.Fatalf("expected amount 100, got %s", in.Amount)
	}
	if in.Description != "order #1" {
		t.Fatalf("expected trimmed description, got %q", in.Description)
	}
	if in.Expiry == nil || !in.Expiry.Equal(time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected expiry: %v", in.Expiry)
	}
	if in.UserID != "user-1" || in.OrderID != "order-9" {
		t.Fatalf("correlation ids lost: %+v", in)
	}
}

func TestGenerateReferenceRequest_ToInput_RFC3339Expiry(t *testing.T) {
	r := GenerateReferenceRequest{Amount: "10", Expiry: "2030-06-15T12:00:00Z"}
	in, err := r.ToInput()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if in.Expiry == nil || in.Expiry.Hour() != 12 {
		t.Fatalf("unexpected expiry: %v", in.Expiry)
	}
}

func TestGenerateReferenceRequest_ToInput_Invalid(t *testing.T) {
	cases := []struct {
		name string
		req  GenerateReferenceRequest
		want error
	}{
		{name: "empty amount", req: GenerateReferenceRequest{Amount: "  "}, want: ErrInvalidAmountValue},
		{name: "non-numeric amount", req: GenerateReferenceRequest{Amount: "abc"}, want: ErrInvalidAmountValue},
		{name: "zero amount", req: GenerateReferenceRequest{Amount: "0"}, want: ErrInvalidAmountValue},
		{name: "negative amount", req: GenerateReferenceRequest{Amount: "-5"}, want: ErrInvalidAmountValue},
		{name: "bad expiry", req: GenerateReferenceRequest{Amount: "10", Expiry: "tomorrow"}, want: ErrInvalidExpiryValue},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := tc.req.ToInput(); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestCancelReferenceRequest_ResolveReference(t *testing.T) {
	if _, err := (CancelReferenceRequest{Reference: "  "}).ResolveReference(); !errors.Is(err, ErrMissingReference) {
		t.Fatalf("expected ErrMissingReference, got %v", err)
	}
	ref, err := (CancelReferenceRequest{Reference: " ref-1 "}).ResolveReference()
	if err != nil || ref != "ref-1" {
		t.Fatalf("unexpected result: %q %v", ref, err)
	}
}

func TestSimulatePaymentRequest_Resolve(t *testing.T) {
	ref, amount, err := (SimulatePaymentRequest{Reference: "ref-1", Amount: "100.00"}).Resolve()
	if err != nil || ref != "ref-1" || amount.String() != "100" {
		t.Fatalf("unexpected result: %q %s %v", ref, amount, err)
	}

	if _, _, err := (SimulatePaymentRequest{Reference: "", Amount: "1"}).Resolve(); !errors.Is(err, ErrMissingReference) {
		t.Fatalf("expected ErrMissingReference, got %v", err)
	}
	if _, _, err := (SimulatePaymentRequest{Reference: "ref-1", Amount: "x"}).Resolve(); !errors.Is(err, ErrInvalidAmountValue) {
		t.Fatalf("expected ErrInvalidAmountValue, got %v", err)
	}
}
