// Package item provides the StockItem catalog: products and frames backed
// by an on-hand stock count and low-stock thresholds.
package item

import (
	"context"

	"vistapos/internal/core/apperror"
	"vistapos/internal/core/entity"
	"vistapos/internal/core/types"
)

// Type distinguishes the two stock-backed catalogs.
type Type string

const (
	TypeProduct Type = "product"
	TypeFrame   Type = "frame"
)

// Global threshold defaults, applied when an item does not define its own.
const (
	DefaultProductMinimum  = 5
	DefaultProductCritical = 2
	DefaultFrameMinimum    = 3
	DefaultFrameCritical   = 1
)

// StockItem represents a product or frame with an on-hand stock count.
// Stock is clamped at zero and never goes negative.
type StockItem struct {
	entity.Catalog

	// Type is product or frame
	Type Type `db:"item_type" json:"itemType"`

	// Stock is the current on-hand quantity
	Stock int `db:"stock" json:"stock"`

	// StockMinimum triggers a low-stock alert when stock falls to or below it.
	// Zero means "use the global default for the item type".
	StockMinimum int `db:"stock_minimum" json:"stockMinimum"`

	// StockCritical triggers a critical-stock alert.
	// Zero means "use the global default for the item type".
	StockCritical int `db:"stock_critical" json:"stockCritical"`

	// Price is the default unit price
	Price types.Money `db:"price" json:"price"`

	// Description is an optional detailed description
	Description *string `db:"description" json:"description,omitempty"`
}

// New creates a new StockItem.
func New(itemType Type, code, name string) *StockItem {
	return &StockItem{
		Catalog: entity.NewCatalog(code, name),
		Type:    itemType,
		Price:   types.Zero(),
	}
}

// Validate implements entity.Validatable.
func (i *StockItem) Validate(ctx context.Context) error {
	if err := i.Catalog.Validate(ctx); err != nil {
		return err
	}

	if !isValidType(i.Type) {
		return apperror.NewValidation("invalid item type").
			WithDetail("field", "itemType").
			WithDetail("value", string(i.Type))
	}

	if i.Stock < 0 {
		return apperror.NewValidation("stock cannot be negative").
			WithDetail("field", "stock")
	}

	if i.StockMinimum < 0 || i.StockCritical < 0 {
		return apperror.NewValidation("stock thresholds cannot be negative").
			WithDetail("field", "stockMinimum")
	}

	if i.Price.IsNegative() {
		return apperror.NewValidation("price cannot be negative").
			WithDetail("field", "price")
	}

	return nil
}

// Thresholds returns the effective minimum and critical thresholds,
// falling back to the global defaults for the item type.
func (i *StockItem) Thresholds() (minimum, critical int) {
	minimum = i.StockMinimum
	critical = i.StockCritical

	if minimum <= 0 {
		if i.Type == TypeFrame {
			minimum = DefaultFrameMinimum
		} else {
			minimum = DefaultProductMinimum
		}
	}
	if critical <= 0 {
		if i.Type == TypeFrame {
			critical = DefaultFrameCritical
		} else {
			critical = DefaultProductCritical
		}
	}
	return minimum, critical
}

func isValidType(t Type) bool {
	return t == TypeProduct || t == TypeFrame
}
