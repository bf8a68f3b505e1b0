// Package alerts implements the stock alert engine: severity
// classification of stock levels and deduplicated notifications with an
// at-most-one-active-per-item invariant.
package alerts

import (
	"fmt"
	"time"

	"vistapos/internal/core/id"
	"vistapos/internal/domain/catalogs/item"
)

// Severity classifies how urgent a stock level is.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityDanger  Severity = "danger"
)

// Notification is a low-stock alert for a single item. At most one
// notification per (itemID, itemType) may be active (unread and
// unarchived) at a time.
type Notification struct {
	ID        id.ID     `db:"id" json:"id"`
	ItemID    id.ID     `db:"item_id" json:"itemId"`
	ItemType  item.Type `db:"item_type" json:"itemType"`
	Severity  Severity  `db:"severity" json:"severity"`
	Title     string    `db:"title" json:"title"`
	Message   string    `db:"message" json:"message"`
	Read      bool      `db:"read" json:"read"`
	Archived  bool      `db:"archived" json:"archived"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// NewNotification creates an active notification.
func NewNotification(itemID id.ID, itemType item.Type, severity Severity, itemName string, stock int) *Notification {
	now := time.Now().UTC()
	n := &Notification{
		ID:        id.New(),
		ItemID:    itemID,
		ItemType:  itemType,
		CreatedAt: now,
		UpdatedAt: now,
	}
	n.apply(severity, itemName, stock)
	return n
}

// IsActive reports whether the notification still demands attention.
func (n *Notification) IsActive() bool {
	return !n.Read && !n.Archived
}

// apply sets severity, title and message for the given stock level and
// reactivates the notification.
func (n *Notification) apply(severity Severity, itemName string, stock int) {
	n.Severity = severity
	n.Read = false
	n.UpdatedAt = time.Now().UTC()

	switch severity {
	case SeverityDanger:
		n.Title = "Out of stock"
		n.Message = fmt.Sprintf("%s is out of stock", itemName)
	case SeverityWarning:
		n.Title = "Critical stock"
		n.Message = fmt.Sprintf("%s is down to %d units", itemName, stock)
	default:
		n.Title = "Low stock"
		n.Message = fmt.Sprintf("%s is running low (%d units)", itemName, stock)
	}
}

// Classify maps a stock level to a severity using the item's effective
// thresholds. The second return is false when the level needs no alert.
func Classify(stock int, minimum, critical int) (Severity, bool) {
	switch {
	case stock == 0:
		return SeverityDanger, true
	case stock <= critical:
		return SeverityWarning, true
	case stock <= minimum:
		return SeverityInfo, true
	default:
		return "", false
	}
}
