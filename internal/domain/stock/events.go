package stock

import (
	"time"

	"vistapos/internal/core/id"
	"vistapos/internal/domain/catalogs/item"
)

// EventStatus tracks outbox delivery state.
type EventStatus string

const (
	EventStatusPending   EventStatus = "pending"
	EventStatusProcessed EventStatus = "processed"
	EventStatusFailed    EventStatus = "failed"
)

// ChangeReason records why a stock level moved.
type ChangeReason string

const (
	ReasonSale       ChangeReason = "sale"
	ReasonRestock    ChangeReason = "restock"
	ReasonAdjustment ChangeReason = "adjustment"
	ReasonRemoval    ChangeReason = "removal"
)

// Event is a stock-changed record written in the same transaction as the
// stock mutation itself. A relay drains pending events and feeds them to
// the alert engine, so alert evaluation never blocks a sale.
type Event struct {
	ID          id.ID        `db:"id" json:"id"`
	ItemID      id.ID        `db:"item_id" json:"itemId"`
	ItemType    item.Type    `db:"item_type" json:"itemType"`
	Delta       int          `db:"delta" json:"delta"`
	StockAfter  int          `db:"stock_after" json:"stockAfter"`
	Reason      ChangeReason `db:"reason" json:"reason"`
	Status      EventStatus  `db:"status" json:"status"`
	Attempts    int          `db:"attempts" json:"attempts"`
	LastError   *string      `db:"last_error" json:"lastError,omitempty"`
	CreatedAt   time.Time    `db:"created_at" json:"createdAt"`
	ProcessedAt *time.Time   `db:"processed_at" json:"processedAt,omitempty"`
}

// NewEvent creates a pending stock event.
func NewEvent(itemID id.ID, itemType item.Type, delta, stockAfter int, reason ChangeReason) *Event {
	return &Event{
		ID:         id.New(),
		ItemID:     itemID,
		ItemType:   itemType,
		Delta:      delta,
		StockAfter: stockAfter,
		Reason:     reason,
		Status:     EventStatusPending,
		CreatedAt:  time.Now().UTC(),
	}
}
