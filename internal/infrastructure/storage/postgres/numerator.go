package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"vistapos/pkg/numerator"
)

// Compile-time check.
var _ numerator.Querier = (*NumeratorQuerier)(nil)

// NumeratorQuerier adapts TxManager for the numerator service, so number
// generation participates in the caller's transaction when one is active.
type NumeratorQuerier struct {
	txManager *TxManager
}

// NewNumeratorQuerier creates a numerator querier.
func NewNumeratorQuerier(txManager *TxManager) *NumeratorQuerier {
	return &NumeratorQuerier{txManager: txManager}
}

func (q *NumeratorQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return q.txManager.GetQuerier(ctx).QueryRow(ctx, sql, args...)
}
