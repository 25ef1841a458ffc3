package interfaces

import (
	"context"
	"errors"

	"github.com/babulhossenshuvo/kyamipay/internal/domain/entities"
)

// ErrStatusConflict is returned by UpdateStatus when the stored status no
// longer matches the expected one, i.e. a concurrent writer already applied
// a transition for the same reference. Callers treat it as a duplicate
// delivery, not a failure.
var ErrStatusConflict = errors.New("transaction status conflict")

// ITransactionRepository abstracts durable storage for Transaction records.
//
// Lookup is always by the gateway-assigned unique reference. GetByReference
// returns a zero-value Transaction (empty Reference) and a nil error when no
// record exists; absence is a domain condition, not a storage failure.
type ITransactionRepository interface {
	Create(ctx context.Context, tx entities.Transaction) (entities.Transaction, error)
	GetByReference(ctx context.Context, reference string) (entities.Transaction, error)

	// UpdateStatus persists tx only if the stored record is still in the
	// expected status. This conditional write is the per-reference exclusive
	// section that serializes webhook and polling mutations.
	UpdateStatus(ctx context.Context, tx entities.Transaction, expected entities.TransactionStatus) (entities.Transaction, error)

	ListByStatus(ctx context.Context, status entities.TransactionStatus) ([]entities.Transaction, error)
	ListByUser(ctx context.Context, userID string) ([]entities.Transaction, error)
	ListByOrder(ctx context.Context, orderID string) ([]entities.Transaction, error)
}
