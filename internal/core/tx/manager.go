// Package tx defines the transaction boundary the domain services use.
// The pgx implementation lives in infrastructure/storage/postgres;
// tests substitute a passthrough.
package tx

import "context"

// Manager runs a function inside a database transaction. fn's error
// rolls the transaction back, nil commits it. A call made while a
// transaction is already open on the context joins that transaction,
// which is how CreateSale spans the sale repo, the stock service and
// the payment ledger atomically.
type Manager interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// ReadOnlyManager extends Manager for query-only work. Writes inside
// ReadOnly fail at the database.
type ReadOnlyManager interface {
	Manager

	ReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}
