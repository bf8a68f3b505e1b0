package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"

	"vistapos/internal/core/id"
	"vistapos/internal/domain/stock"
)

// Compile-time check.
var _ stock.EventRepository = (*StockEventRepo)(nil)

// StockEventRepo is the transactional outbox for stock-changed events.
// Enqueue runs inside the caller's transaction; FetchPending locks rows
// with SKIP LOCKED so concurrent relays never double-process.
type StockEventRepo struct {
	txManager *TxManager
}

// NewStockEventRepo creates a new stock event repository.
func NewStockEventRepo(txManager *TxManager) *StockEventRepo {
	return &StockEventRepo{txManager: txManager}
}

// Enqueue inserts a pending event into the outbox.
func (r *StockEventRepo) Enqueue(ctx context.Context, event *stock.Event) error {
	querier := r.txManager.GetQuerier(ctx)

	_, err := querier.Exec(ctx, `
		INSERT INTO sys_stock_events (id, item_id, item_type, delta, stock_after, reason, status, attempts, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, event.ID, event.ItemID, event.ItemType, event.Delta, event.StockAfter,
		event.Reason, event.Status, event.Attempts, event.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert stock event: %w", err)
	}

	return nil
}

// FetchPending locks and returns up to limit pending events. Fresh
// events sort before ones that already failed a delivery, so a retrying
// event cannot starve the rest of the queue.
func (r *StockEventRepo) FetchPending(ctx context.Context, limit int) ([]*stock.Event, error) {
	querier := r.txManager.GetQuerier(ctx)

	var events []*stock.Event
	err := pgxscan.Select(ctx, querier, &events, `
		SELECT id, item_id, item_type, delta, stock_after, reason, status, attempts, last_error, created_at, processed_at
		FROM sys_stock_events
		WHERE status = $1
		ORDER BY attempts, created_at
		LIMIT $2
		FOR UPDATE SKIP LOCKED
	`, stock.EventStatusPending, limit)
	if err != nil {
		return nil, fmt.Errorf("fetch pending stock events: %w", err)
	}

	return events, nil
}

// MarkProcessed flags an event as delivered.
func (r *StockEventRepo) MarkProcessed(ctx context.Context, eventID id.ID) error {
	querier := r.txManager.GetQuerier(ctx)

	_, err := querier.Exec(ctx, `
		UPDATE sys_stock_events
		SET status = $1, processed_at = $2
		WHERE id = $3
	`, stock.EventStatusProcessed, time.Now().UTC(), eventID)
	if err != nil {
		return fmt.Errorf("mark stock event processed: %w", err)
	}

	return nil
}

// MarkFailed records a delivery failure. After five attempts the event
// stops being retried.
func (r *StockEventRepo) MarkFailed(ctx context.Context, eventID id.ID, reason string) error {
	querier := r.txManager.GetQuerier(ctx)

	_, err := querier.Exec(ctx, `
		UPDATE sys_stock_events
		SET attempts = attempts + 1,
		    last_error = $1,
		    status = CASE WHEN attempts + 1 >= 5 THEN $2 ELSE status END
		WHERE id = $3
	`, reason, stock.EventStatusFailed, eventID)
	if err != nil {
		return fmt.Errorf("mark stock event failed: %w", err)
	}

	return nil
}
