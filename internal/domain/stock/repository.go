package stock

import (
	"context"

	"vistapos/internal/core/id"
	"vistapos/internal/domain/catalogs/item"
)

// Repository defines the atomic stock mutations. Implementations must
// perform the arithmetic in a single statement so that concurrent
// decrements never produce a negative count.
type Repository interface {
	// Decrement reduces stock by qty, clamping at zero, and returns the
	// resulting stock level along with the item type.
	Decrement(ctx context.Context, itemID id.ID, qty int) (stockAfter int, itemType item.Type, err error)

	// Increment raises stock by qty and returns the resulting level.
	Increment(ctx context.Context, itemID id.ID, qty int) (stockAfter int, itemType item.Type, err error)

	// GetLevel returns the current stock level for an item.
	GetLevel(ctx context.Context, itemID id.ID) (int, error)
}

// EventRepository is the transactional outbox for stock-changed events.
type EventRepository interface {
	// Enqueue inserts a pending event. Must run inside the caller's
	// transaction so the event commits with the stock change.
	Enqueue(ctx context.Context, event *Event) error

	// FetchPending locks and returns up to limit pending events, fresh
	// events before previously failed ones. Rows are locked with
	// SKIP LOCKED so concurrent relays do not process the same event
	// twice.
	FetchPending(ctx context.Context, limit int) ([]*Event, error)

	// MarkProcessed flags an event as delivered.
	MarkProcessed(ctx context.Context, eventID id.ID) error

	// MarkFailed records a delivery failure for later retry.
	MarkFailed(ctx context.Context, eventID id.ID, reason string) error
}
