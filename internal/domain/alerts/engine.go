package alerts

import (
	"context"

	"vistapos/internal/core/apperror"
	"vistapos/internal/core/id"
	"vistapos/internal/core/tx"
	"vistapos/internal/domain"
	"vistapos/internal/domain/catalogs/item"
	"vistapos/internal/domain/stock"
	"vistapos/pkg/logger"
)

// Engine reacts to stock-changed events: it classifies the new level and
// upserts or archives the item's notification accordingly.
type Engine struct {
	repo      Repository
	items     item.Repository
	txManager tx.Manager
}

func NewEngine(repo Repository, items item.Repository, txManager tx.Manager) *Engine {
	return &Engine{
		repo:      repo,
		items:     items,
		txManager: txManager,
	}
}

// HandleStockEvent evaluates one stock-changed event. The whole
// evaluation runs in a transaction holding an item-keyed lock, so
// concurrent events for the same item cannot create duplicate
// notifications.
func (e *Engine) HandleStockEvent(ctx context.Context, event *stock.Event) error {
	it, err := e.items.GetByID(ctx, event.ItemID)
	if err != nil {
		if apperror.IsNotFound(err) {
			// Item removed after the event was queued. Nothing to alert on.
			logger.Debug(ctx, "stock event for missing item skipped", "item_id", event.ItemID)
			return nil
		}
		return err
	}

	minimum, critical := it.Thresholds()
	severity, needed := Classify(event.StockAfter, minimum, critical)

	return e.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		// A row lock alone cannot serialize two writers racing to create
		// the first notification for an item, so take an item-keyed lock
		// before looking up the active row.
		if err := e.repo.LockItem(ctx, event.ItemID, event.ItemType); err != nil {
			return err
		}

		active, err := e.repo.GetActiveForUpdate(ctx, event.ItemID, event.ItemType)
		if err != nil && !apperror.IsNotFound(err) {
			return err
		}
		hasActive := err == nil

		switch {
		case !needed && hasActive:
			// Stock recovered: the alert no longer applies.
			active.Archived = true
			active.UpdatedAt = event.CreatedAt
			if err := e.repo.Update(ctx, active); err != nil {
				return err
			}
			logger.Info(ctx, "notification archived",
				"item_id", event.ItemID, "stock", event.StockAfter)

		case !needed:
			// Healthy stock, no alert: nothing to do.

		case !hasActive:
			n := NewNotification(event.ItemID, event.ItemType, severity, it.Name, event.StockAfter)
			if err := e.repo.Create(ctx, n); err != nil {
				return err
			}
			logger.Info(ctx, "notification created",
				"item_id", event.ItemID, "severity", severity, "stock", event.StockAfter)

		case active.Severity != severity:
			// Same document, new severity. Creating a second row would
			// break the one-active-per-item invariant.
			active.apply(severity, it.Name, event.StockAfter)
			if err := e.repo.Update(ctx, active); err != nil {
				return err
			}
			logger.Info(ctx, "notification updated",
				"item_id", event.ItemID, "severity", severity, "stock", event.StockAfter)

		default:
			// Same severity: no-op.
		}

		return nil
	})
}

// MarkRead resolves a notification by marking it read ("keep"). Repeated
// calls are no-ops.
func (e *Engine) MarkRead(ctx context.Context, notificationID id.ID) error {
	return e.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		n, err := e.repo.GetByID(ctx, notificationID)
		if err != nil {
			return err
		}
		if n.Read {
			return nil
		}
		n.Read = true
		return e.repo.Update(ctx, n)
	})
}

// RemoveItem resolves a notification by soft-deleting the underlying item
// and archiving the notification ("remove"). Idempotent: repeating the
// call against an already-archived notification or already-deleted item
// succeeds without effect.
func (e *Engine) RemoveItem(ctx context.Context, notificationID id.ID) error {
	return e.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		n, err := e.repo.GetByID(ctx, notificationID)
		if err != nil {
			return err
		}

		if err := e.items.SetDeletionMark(ctx, n.ItemID, true); err != nil && !apperror.IsNotFound(err) {
			return err
		}

		if n.Archived {
			return nil
		}
		n.Archived = true
		return e.repo.Update(ctx, n)
	})
}

// List exposes notifications to the presentation layer.
func (e *Engine) List(ctx context.Context, filter ListFilter) (domain.ListResult[*Notification], error) {
	return e.repo.List(ctx, filter)
}

// CountActive returns the active notification count.
func (e *Engine) CountActive(ctx context.Context) (int64, error) {
	return e.repo.CountActive(ctx)
}
