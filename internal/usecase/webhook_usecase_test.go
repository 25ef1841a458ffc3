package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"github.com/babulhossenshuvo/kyamipay/internal/domain/entities"
	"github.com/babulhossenshuvo/kyamipay/internal/usecase/interfaces"
	mock_interfaces "github.com/babulhossenshuvo/kyamipay/internal/usecase/interfaces/mocks"
)

func newWebhookFixture(t *testing.T) (*WebhookUseCase, *mock_interfaces.MockITransactionRepository, *mock_interfaces.MockIWebhookVerifier, *mock_interfaces.MockIPaymentEventPublisher) {
	t.Helper()
	ctrl := gomock.NewController(t)
	repo := mock_interfaces.NewMockITransactionRepository(ctrl)
	verifier := mock_interfaces.NewMockIWebhookVerifier(ctrl)
	publisher := mock_interfaces.NewMockIPaymentEventPublisher(ctrl)
	return NewWebhookUseCase(repo, verifier, publisher), repo, verifier, publisher
}

func TestWebhookUseCase_Process_MalformedPayload(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{name: "not json", raw: `{`},
		{name: "missing amount", raw: `{"reference":"123456789012345"}`},
		{name: "missing reference", raw: `{"amount":"100.00"}`},
		{name: "blank reference", raw: `{"reference":"  ","amount":"100.00"}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			// No repo/verifier expectations: storage must not be touched.
			uc, _, _, _ := newWebhookFixture(t)
			ack := uc.Process(context.Background(), json.RawMessage(tc.raw), "")
			if ack.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", ack.Code)
			}
		})
	}
}

func TestWebhookUseCase_Process_BadSignature(t *testing.T) {
	uc, _, verifier, _ := newWebhookFixture(t)
	verifier.EXPECT().SecretConfigured().Return(true)
	verifier.EXPECT().Verify(gomock.Any(), "wrong").Return(false)

	ack := uc.Process(context.Background(), json.RawMessage(`{"reference":"ref-1","amount":"100.00"}`), "wrong")
	if ack.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", ack.Code)
	}
}

func TestWebhookUseCase_Process_UnknownReferenceStillAcks(t *testing.T) {
	uc, repo, verifier, _ := newWebhookFixture(t)
	verifier.EXPECT().SecretConfigured().Return(false)
	repo.EXPECT().GetByReference(gomock.Any(), "ref-1").Return(entities.Transaction{}, nil)

	ack := uc.Process(context.Background(), json.RawMessage(`{"reference":"ref-1","amount":"100.00"}`), "")
	if ack.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", ack.Code)
	}
}

func TestWebhookUseCase_Process_ConfirmsPayment(t *testing.T) {
	uc, repo, verifier, publisher := newWebhookFixture(t)
	raw := json.RawMessage(`{"reference":"123456789012345","amount":"100.00"}`)

	verifier.EXPECT().SecretConfigured().Return(true)
	verifier.EXPECT().Verify(gomock.Any(), "sig").Return(true)
	repo.EXPECT().GetByReference(gomock.Any(), "123456789012345").Return(entities.Transaction{
		Reference: "123456789012345",
		Status:    entities.StatusPending,
	}, nil)
	repo.EXPECT().UpdateStatus(gomock.Any(), gomock.Any(), entities.StatusPending).DoAndReturn(
		func(_ context.Context, tx entities.Transaction, _ entities.TransactionStatus) (entities.Transaction, error) {
			if tx.Status != entities.StatusPaid {
				t.Fatalf("expected paid write, got %s", tx.Status)
			}
			if tx.PaidAt == nil {
				t.Fatal("expected paid_at set")
			}
			return tx, nil
		})
	publisher.EXPECT().PublishPaymentConfirmed(gomock.Any(), gomock.Any()).Do(
		func(_ context.Context, ev interfaces.PaymentConfirmedEvent) {
			if ev.Transaction.Reference != "123456789012345" {
				t.Fatalf("unexpected event transaction: %+v", ev.Transaction)
			}
			if ev.Payload["amount"] != "100.00" {
				t.Fatalf("unexpected event payload: %+v", ev.Payload)
			}
		}).Times(1)

	ack := uc.Process(context.Background(), raw, "sig")
	if ack.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", ack.Code)
	}
}

func TestWebhookUseCase_Process_DuplicateDeliveryEmitsNoSecondEvent(t *testing.T) {
	uc, repo, verifier, _ := newWebhookFixture(t)
	paidAt := time.Now().UTC()

	verifier.EXPECT().SecretConfigured().Return(false)
	repo.EXPECT().GetByReference(gomock.Any(), "ref-1").Return(entities.Transaction{
		Reference: "ref-1",
		Status:    entities.StatusPaid,
		PaidAt:    &paidAt,
	}, nil)

	ack := uc.Process(context.Background(), json.RawMessage(`{"reference":"ref-1","amount":"100.00"}`), "")
	if ack.Code != http.StatusOK {
		t.Fatalf("expected 200 for duplicate, got %d", ack.Code)
	}
}

func TestWebhookUseCase_Process_ConcurrentConfirmationAcksWithoutEvent(t *testing.T) {
	uc, repo, verifier, _ := newWebhookFixture(t)

	verifier.EXPECT().SecretConfigured().Return(false)
	repo.EXPECT().GetByReference(gomock.Any(), "ref-1").Return(entities.Transaction{
		Reference: "ref-1",
		Status:    entities.StatusPending,
	}, nil)
	repo.EXPECT().UpdateStatus(gomock.Any(), gomock.Any(), entities.StatusPending).Return(entities.Transaction{}, interfaces.ErrStatusConflict)

	ack := uc.Process(context.Background(), json.RawMessage(`{"reference":"ref-1","amount":"100.00"}`), "")
	if ack.Code != http.StatusOK {
		t.Fatalf("expected 200 after losing the race, got %d", ack.Code)
	}
}

func TestWebhookUseCase_Process_TerminalRecordAcks(t *testing.T) {
	uc, repo, verifier, _ := newWebhookFixture(t)

	verifier.EXPECT().SecretConfigured().Return(false)
	repo.EXPECT().GetByReference(gomock.Any(), "ref-1").Return(entities.Transaction{
		Reference: "ref-1",
		Status:    entities.StatusCancelled,
	}, nil)

	ack := uc.Process(context.Background(), json.RawMessage(`{"reference":"ref-1","amount":"100.00"}`), "")
	if ack.Code != http.StatusOK {
		t.Fatalf("expected 200 for terminal record, got %d", ack.Code)
	}
}

func TestWebhookUseCase_Process_InternalErrors(t *testing.T) {
	t.Run("lookup failure", func(t *testing.T) {
		uc, repo, verifier, _ := newWebhookFixture(t)
		verifier.EXPECT().SecretConfigured().Return(false)
		repo.EXPECT().GetByReference(gomock.Any(), "ref-1").Return(entities.Transaction{}, errors.New("dynamodb down"))

		ack := uc.Process(context.Background(), json.RawMessage(`{"reference":"ref-1","amount":"100.00"}`), "")
		if ack.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", ack.Code)
		}
		if ack.Message != "Internal server error" {
			t.Fatalf("internal detail must not leak, got %q", ack.Message)
		}
	})

	t.Run("persist failure", func(t *testing.T) {
		uc, repo, verifier, _ := newWebhookFixture(t)
		verifier.EXPECT().SecretConfigured().Return(false)
		repo.EXPECT().GetByReference(gomock.Any(), "ref-1").Return(entities.Transaction{Reference: "ref-1", Status: entities.StatusPending}, nil)
		repo.EXPECT().UpdateStatus(gomock.Any(), gomock.Any(), entities.StatusPending).Return(entities.Transaction{}, errors.New("dynamodb down"))

		ack := uc.Process(context.Background(), json.RawMessage(`{"reference":"ref-1","amount":"100.00"}`), "")
		if ack.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", ack.Code)
		}
	})
}
