package item

import (
	"context"

	"vistapos/internal/core/id"
	"vistapos/internal/domain"
)

// Repository defines persistence operations for the StockItem catalog.
type Repository interface {
	// Create inserts a new item
	Create(ctx context.Context, item *StockItem) error

	// GetByID retrieves an item by ID
	GetByID(ctx context.Context, itemID id.ID) (*StockItem, error)

	// GetByCode retrieves an item by its unique code
	GetByCode(ctx context.Context, code string) (*StockItem, error)

	// Update modifies an existing item (with optimistic locking)
	Update(ctx context.Context, item *StockItem) error

	// SetDeletionMark sets or clears the soft-delete mark
	SetDeletionMark(ctx context.Context, itemID id.ID, marked bool) error

	// List retrieves items with filtering and pagination
	List(ctx context.Context, filter ListFilter) (domain.ListResult[*StockItem], error)

	// Exists checks if an item with the given ID exists
	Exists(ctx context.Context, itemID id.ID) (bool, error)
}

// ListFilter extends the common filter with item-specific options.
type ListFilter struct {
	domain.ListFilter

	// Type restricts results to products or frames
	Type *Type

	// LowStockOnly keeps only items at or below their effective minimum
	LowStockOnly bool
}
