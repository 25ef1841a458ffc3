package usecase

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/babulhossenshuvo/kyamipay/internal/domain/entities"
	"github.com/babulhossenshuvo/kyamipay/internal/usecase/interfaces"
)

var (
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrInvalidReference    = errors.New("invalid reference")
	ErrInvalidExpiry       = errors.New("expiry must be in the future")
	ErrInvalidStatus       = errors.New("invalid transaction status")
	ErrInvalidUser         = errors.New("invalid user id")
	ErrInvalidOrder        = errors.New("invalid order id")
)

// GenerateReferenceInput carries caller input for reference creation.
// Metadata, UserID and OrderID are opaque correlation data.
type GenerateReferenceInput struct {
	Amount      decimal.Decimal
	Description string
	Expiry      *time.Time
	Metadata    map[string]interface{}
	UserID      string
	OrderID     string
}

// IReferenceUseCase implements the payment-reference lifecycle operations.

type IReferenceUseCase interface {
	Generate(ctx context.Context, in GenerateReferenceInput) (entities.Transaction, error)
	CheckStatus(ctx context.Context, reference string) (entities.Transaction, error)
	Cancel(ctx context.Context, reference string) error
	List(ctx context.Context, status entities.TransactionStatus) ([]entities.Transaction, error)
	ListByUser(ctx context.Context, userID string) ([]entities.Transaction, error)
	ListByOrder(ctx context.Context, orderID string) ([]entities.Transaction, error)
	Simulate(ctx context.Context, reference string, amount decimal.Decimal) error
}

type ReferenceUseCase struct {
	repo      interfaces.ITransactionRepository
	gateway   interfaces.IPaymentGateway
	publisher interfaces.IPaymentEventPublisher

	currency    string
	expiryHours int
}

var _ IReferenceUseCase = (*ReferenceUseCase)(nil)

func NewReferenceUseCase(repo interfaces.ITransactionRepository, gateway interfaces.IPaymentGateway, publisher interfaces.IPaymentEventPublisher, currency string, expiryHours int) *ReferenceUseCase {
	return &ReferenceUseCase{
		repo:        repo,
		gateway:     gateway,
		publisher:   publisher,
		currency:    currency,
		expiryHours: expiryHours,
	}
}

// Generate creates a reference at the gateway and persists the local record.
//
// The gateway call comes first: on gateway failure nothing is persisted and
// the error propagates. On the inverse partial failure (gateway succeeded,
// local persistence failed) the external side effect cannot be undone, so
// the transaction built from the gateway response is still returned to the
// caller and a ReconciliationRequired signal is published for the operator
// to recreate the missing record.
func (u *ReferenceUseCase) Generate(ctx context.Context, in GenerateReferenceInput) (entities.Transaction, error) {
	if !in.Amount.IsPositive() {
		return entities.Transaction{}, ErrInvalidAmount
	}
	now := time.Now().UTC()
	if in.Expiry != nil && !in.Expiry.After(now) {
		return entities.Transaction{}, ErrInvalidExpiry
	}
	if u.gateway == nil {
		return entities.Transaction{}, errors.New("payment gateway not configured")
	}
	if u.repo == nil {
		return entities.Transaction{}, errors.New("transaction repository not configured")
	}

	log.Printf("[kpay][usecase] generate start amount=%s order_id=%s", in.Amount.StringFixed(2), in.OrderID)
	ref, err := u.gateway.GenerateReference(ctx, in.Amount, in.Description, in.Expiry)
	if err != nil {
		log.Printf("[kpay][usecase] generate gateway failed err=%v", err)
		return entities.Transaction{}, err
	}

	tx := entities.Transaction{
		Reference:      ref.Reference,
		Entity:         ref.Entity,
		Amount:         in.Amount,
		Price:          ref.Price,
		Description:    in.Description,
		Status:         entities.StatusPending,
		Currency:       u.currency,
		CreatedAt:      now,
		ExpiresAt:      u.resolveExpiry(ref, in, now),
		Metadata:       in.Metadata,
		APIResponseRaw: ref.Raw,
		UserID:         in.UserID,
		OrderID:        in.OrderID,
	}

	created, err := u.repo.Create(ctx, tx)
	if err != nil {
		log.Printf("[kpay][usecase] generate persisted failed reference=%s err=%v", ref.Reference, err)
		if u.publisher != nil {
			u.publisher.PublishReconciliationRequired(ctx, interfaces.ReconciliationRequiredEvent{
				ID:         uuid.NewString(),
				Reference:  ref,
				Cause:      err,
				OccurredAt: time.Now().UTC(),
			})
		}
		// The gateway reference exists; hand it to the caller anyway.
		return tx, nil
	}

	log.Printf("[kpay][usecase] generate success reference=%s status=%s", created.Reference, created.Status)
	return created, nil
}

// CheckStatus returns the local record, polling the gateway first when the
// reference is still pending.
func (u *ReferenceUseCase) CheckStatus(ctx context.Context, reference string) (entities.Transaction, error) {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return entities.Transaction{}, ErrInvalidReference
	}

	tx, err := u.repo.GetByReference(ctx, reference)
	if err != nil {
		return entities.Transaction{}, err
	}
	if tx.Reference == "" {
		return entities.Transaction{}, ErrTransactionNotFound
	}

	if !tx.IsPending() {
		return tx, nil
	}

	info, err := u.gateway.CheckPayment(ctx, reference)
	if err != nil {
		log.Printf("[kpay][usecase] check gateway failed reference=%s err=%v", reference, err)
		return entities.Transaction{}, err
	}
	if info == nil {
		return tx, nil
	}

	return u.confirmPayment(ctx, tx, info.Raw)
}

// Cancel requests cancellation at the gateway and mirrors it locally. The
// gateway is the primary effect: a missing local record is not an error.
func (u *ReferenceUseCase) Cancel(ctx context.Context, reference string) error {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return ErrInvalidReference
	}

	if err := u.gateway.CancelReference(ctx, reference); err != nil {
		log.Printf("[kpay][usecase] cancel gateway failed reference=%s err=%v", reference, err)
		return err
	}

	tx, err := u.repo.GetByReference(ctx, reference)
	if err != nil {
		return err
	}
	if tx.Reference == "" {
		log.Printf("[kpay][usecase] cancel succeeded at gateway for untracked reference=%s", reference)
		return nil
	}

	prev := tx.Status
	changed, err := tx.Apply(entities.MarkCancelled())
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}

	if _, err := u.repo.UpdateStatus(ctx, tx, prev); err != nil {
		return err
	}
	log.Printf("[kpay][usecase] cancel success reference=%s", reference)
	return nil
}

// List returns local transactions for a status. For the paid status it first
// reconciles against the gateway's paid-reference listing so confirmations
// missed by both webhook and polling still land.
func (u *ReferenceUseCase) List(ctx context.Context, status entities.TransactionStatus) ([]entities.Transaction, error) {
	if !entities.ValidStatus(status) {
		return nil, ErrInvalidStatus
	}

	if status == entities.StatusPaid {
		if err := u.reconcilePaid(ctx); err != nil {
			log.Printf("[kpay][usecase] list reconcile failed err=%v", err)
		}
	}

	return u.repo.ListByStatus(ctx, status)
}

// ListByUser returns every transaction created for a user.
func (u *ReferenceUseCase) ListByUser(ctx context.Context, userID string) ([]entities.Transaction, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrInvalidUser
	}
	return u.repo.ListByUser(ctx, userID)
}

// ListByOrder returns every transaction created for an order.
func (u *ReferenceUseCase) ListByOrder(ctx context.Context, orderID string) ([]entities.Transaction, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return nil, ErrInvalidOrder
	}
	return u.repo.ListByOrder(ctx, orderID)
}

// Simulate triggers the gateway's payment-emulation hook. The gateway itself
// refuses outside sandbox mode.
func (u *ReferenceUseCase) Simulate(ctx context.Context, reference string, amount decimal.Decimal) error {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return ErrInvalidReference
	}
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	return u.gateway.SimulatePayment(ctx, reference, amount)
}

func (u *ReferenceUseCase) reconcilePaid(ctx context.Context) error {
	payments, err := u.gateway.ListPaidReferences(ctx)
	if err != nil {
		return err
	}

	for _, p := range payments {
		if p.Reference == "" {
			continue
		}
		tx, err := u.repo.GetByReference(ctx, p.Reference)
		if err != nil {
			return err
		}
		if tx.Reference == "" || !tx.IsPending() {
			continue
		}
		if _, err := u.confirmPayment(ctx, tx, p.Raw); err != nil {
			return err
		}
	}
	return nil
}

// confirmPayment applies markPaid and persists it behind the conditional
// status update. Losing the race to a concurrent webhook delivery is not an
// error: the stored record is reloaded and no second event is emitted.
func (u *ReferenceUseCase) confirmPayment(ctx context.Context, tx entities.Transaction, payload []byte) (entities.Transaction, error) {
	changed, err := tx.Apply(entities.MarkPaid(payload))
	if err != nil {
		return entities.Transaction{}, err
	}
	if !changed {
		return tx, nil
	}

	updated, err := u.repo.UpdateStatus(ctx, tx, entities.StatusPending)
	if err != nil {
		if errors.Is(err, interfaces.ErrStatusConflict) {
			log.Printf("[kpay][usecase] confirm lost race reference=%s, reloading", tx.Reference)
			return u.repo.GetByReference(ctx, tx.Reference)
		}
		return entities.Transaction{}, err
	}

	if u.publisher != nil {
		u.publisher.PublishPaymentConfirmed(ctx, interfaces.PaymentConfirmedEvent{
			ID:          uuid.NewString(),
			Transaction: updated,
			Payload:     updated.APIResponse,
			OccurredAt:  time.Now().UTC(),
		})
	}
	return updated, nil
}

func (u *ReferenceUseCase) resolveExpiry(ref interfaces.ReferenceInfo, in GenerateReferenceInput, now time.Time) *time.Time {
	if ref.Expiry != nil {
		return ref.Expiry
	}
	if in.Expiry != nil {
		return in.Expiry
	}
	expiry := now.Add(time.Duration(u.expiryHours) * time.Hour)
	return &expiry
}
