package stock

import (
	"context"
	"time"

	"vistapos/internal/core/id"
	"vistapos/internal/core/tx"
	"vistapos/pkg/logger"
)

// EventHandler consumes stock-changed events drained from the outbox.
type EventHandler interface {
	HandleStockEvent(ctx context.Context, event *Event) error
}

// Relay polls the outbox and drives pending events through a handler.
// Multiple relays can run concurrently: FetchPending skips locked rows.
type Relay struct {
	events    EventRepository
	handler   EventHandler
	txManager tx.Manager
	batchSize int
	interval  time.Duration
}

func NewRelay(events EventRepository, handler EventHandler, txManager tx.Manager, batchSize int, interval time.Duration) *Relay {
	if batchSize <= 0 {
		batchSize = 100
	}
	if interval <= 0 {
		interval = 500 * time.Millisecond
	}
	return &Relay{
		events:    events,
		handler:   handler,
		txManager: txManager,
		batchSize: batchSize,
		interval:  interval,
	}
}

// Run polls until the context is cancelled.
func (r *Relay) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := r.ProcessBatch(ctx); err != nil {
				logger.Error(ctx, "stock event batch failed", "error", err)
			}
		}
	}
}

// ProcessBatch drains up to batchSize pending events, one transaction
// per event. A handler failure rolls back only that event's transaction;
// the connection could be in an aborted state at that point, so the
// failure is recorded in a fresh transaction and the event waits for the
// next tick instead of blocking its neighbors.
func (r *Relay) ProcessBatch(ctx context.Context) (int, error) {
	processed := 0
	failed := make(map[id.ID]struct{})

	for processed+len(failed) < r.batchSize {
		var event *Event
		err := r.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
			events, err := r.events.FetchPending(ctx, 1)
			if err != nil {
				return err
			}
			if len(events) == 0 {
				return nil
			}
			event = events[0]
			if _, seen := failed[event.ID]; seen {
				return nil
			}
			if err := r.handler.HandleStockEvent(ctx, event); err != nil {
				return err
			}
			return r.events.MarkProcessed(ctx, event.ID)
		})

		if event == nil {
			if err != nil {
				return processed, err
			}
			// Outbox drained.
			break
		}
		if _, seen := failed[event.ID]; seen {
			// Only events that already failed this batch remain.
			break
		}
		if err != nil {
			logger.Warn(ctx, "stock event handling failed",
				"event_id", event.ID,
				"item_id", event.ItemID,
				"error", err,
			)
			failed[event.ID] = struct{}{}
			markErr := r.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
				return r.events.MarkFailed(ctx, event.ID, err.Error())
			})
			if markErr != nil {
				return processed, markErr
			}
			continue
		}
		processed++
	}

	if processed > 0 {
		logger.Debug(ctx, "stock events processed", "count", processed)
	}
	return processed, nil
}
