package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"vistapos/internal/core/apperror"
	"vistapos/internal/core/id"
	"vistapos/internal/domain/catalogs/item"
	"vistapos/internal/domain/stock"
)

// Compile-time check.
var _ stock.Repository = (*StockRepo)(nil)

// StockRepo implements stock.Repository against the item catalog table.
// Both mutations are single statements, so concurrent callers hitting the
// same row serialize on the row lock and the floor-at-zero arithmetic
// stays correct without a read-modify-write cycle.
type StockRepo struct {
	txManager *TxManager
}

// NewStockRepo creates a new stock repository.
func NewStockRepo(txManager *TxManager) *StockRepo {
	return &StockRepo{txManager: txManager}
}

// Decrement reduces stock by qty, clamping at zero.
func (r *StockRepo) Decrement(ctx context.Context, itemID id.ID, qty int) (int, item.Type, error) {
	querier := r.txManager.GetQuerier(ctx)

	var (
		stockAfter int
		itemType   item.Type
	)
	err := querier.QueryRow(ctx, `
		UPDATE cat_stock_items
		SET stock = GREATEST(stock - $1, 0),
		    version = version + 1
		WHERE id = $2
		RETURNING stock, item_type
	`, qty, itemID).Scan(&stockAfter, &itemType)

	if err == pgx.ErrNoRows {
		return 0, "", apperror.NewNotFound("item", itemID.String())
	}
	if err != nil {
		return 0, "", err
	}

	return stockAfter, itemType, nil
}

// Increment raises stock by qty.
func (r *StockRepo) Increment(ctx context.Context, itemID id.ID, qty int) (int, item.Type, error) {
	querier := r.txManager.GetQuerier(ctx)

	var (
		stockAfter int
		itemType   item.Type
	)
	err := querier.QueryRow(ctx, `
		UPDATE cat_stock_items
		SET stock = stock + $1,
		    version = version + 1
		WHERE id = $2
		RETURNING stock, item_type
	`, qty, itemID).Scan(&stockAfter, &itemType)

	if err == pgx.ErrNoRows {
		return 0, "", apperror.NewNotFound("item", itemID.String())
	}
	if err != nil {
		return 0, "", err
	}

	return stockAfter, itemType, nil
}

// GetLevel returns the current stock level.
func (r *StockRepo) GetLevel(ctx context.Context, itemID id.ID) (int, error) {
	querier := r.txManager.GetQuerier(ctx)

	var level int
	err := querier.QueryRow(ctx, `
		SELECT stock FROM cat_stock_items WHERE id = $1
	`, itemID).Scan(&level)

	if err == pgx.ErrNoRows {
		return 0, apperror.NewNotFound("item", itemID.String())
	}
	if err != nil {
		return 0, err
	}

	return level, nil
}
