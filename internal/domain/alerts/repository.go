package alerts

import (
	"context"

	"vistapos/internal/core/id"
	"vistapos/internal/domain"
	"vistapos/internal/domain/catalogs/item"
)

// ListFilter extends the common filter with notification options.
type ListFilter struct {
	domain.ListFilter

	// ActiveOnly keeps unread, unarchived notifications
	ActiveOnly bool

	// IncludeArchived adds archived notifications to the result
	IncludeArchived bool

	Severity *Severity
}

// Repository defines persistence for notifications.
type Repository interface {
	Create(ctx context.Context, n *Notification) error

	GetByID(ctx context.Context, notificationID id.ID) (*Notification, error)

	// LockItem takes a transaction-scoped lock keyed by (itemID, itemType),
	// serializing concurrent upserts for the same item even when no
	// notification row exists yet. Must run inside a transaction; the lock
	// releases on commit or rollback.
	LockItem(ctx context.Context, itemID id.ID, itemType item.Type) error

	// GetActiveForUpdate returns the active notification for an item
	// under a row lock, or a NotFoundError when none exists. Must run
	// inside a transaction after LockItem.
	GetActiveForUpdate(ctx context.Context, itemID id.ID, itemType item.Type) (*Notification, error)

	Update(ctx context.Context, n *Notification) error

	List(ctx context.Context, filter ListFilter) (domain.ListResult[*Notification], error)

	// CountActive returns the number of active notifications, for the
	// badge on the notifications view.
	CountActive(ctx context.Context) (int64, error)
}
