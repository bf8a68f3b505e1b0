package sales

import (
	"context"
	"time"

	"vistapos/internal/core/id"
	"vistapos/internal/domain"
)

// ListFilter extends the common filter with sale-specific options.
type ListFilter struct {
	domain.ListFilter

	ClientID *id.ID
	Status   *Status
	DateFrom *time.Time
	DateTo   *time.Time
}

// Repository defines persistence for the sale aggregate.
type Repository interface {
	// Create inserts the sale header and its lines
	Create(ctx context.Context, sale *Sale) error

	// GetByID retrieves a sale with its lines
	GetByID(ctx context.Context, saleID id.ID) (*Sale, error)

	// GetForUpdate retrieves the sale header under a row lock, serializing
	// concurrent payment operations against the same sale. Must run inside
	// a transaction.
	GetForUpdate(ctx context.Context, saleID id.ID) (*Sale, error)

	// UpdateStatus persists the reconciler's derived status
	UpdateStatus(ctx context.Context, saleID id.ID, status Status) error

	// List retrieves sale headers (without lines) with filtering
	List(ctx context.Context, filter ListFilter) (domain.ListResult[*Sale], error)
}

// PaymentRepository defines persistence for the append-only payment
// ledger. There is deliberately no update or delete.
type PaymentRepository interface {
	// Create inserts a ledger entry
	Create(ctx context.Context, entry *PaymentEntry) error

	// ListBySale returns all entries for a sale, oldest first
	ListBySale(ctx context.Context, saleID id.ID) ([]*PaymentEntry, error)

	// ListByClient returns entries recorded against a client's sales
	ListByClient(ctx context.Context, clientID id.ID, filter domain.ListFilter) (domain.ListResult[*PaymentEntry], error)
}
