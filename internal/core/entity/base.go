// Package entity provides the base types catalogs and documents build on.
package entity

import (
	"context"
	"time"

	"vistapos/internal/core/id"
)

// Validatable is implemented by entities that check their own
// invariants. Validation never touches the database.
type Validatable interface {
	Validate(ctx context.Context) error
}

// BaseEntity holds the fields every persisted entity has: a UUIDv7
// primary key, a soft-delete mark, and a version counter for
// optimistic locking.
type BaseEntity struct {
	ID           id.ID `db:"id" json:"id"`
	DeletionMark bool  `db:"deletion_mark" json:"deletionMark"`
	Version      int   `db:"version" json:"version"`
}

// NewBaseEntity creates a BaseEntity with a generated ID at version 1.
func NewBaseEntity() BaseEntity {
	return BaseEntity{
		ID:      id.New(),
		Version: 1,
	}
}

// Touch increments the optimistic-lock version.
func (b *BaseEntity) Touch() {
	b.Version++
}

// BaseDocument extends BaseEntity with timestamps and the user stamps
// business documents carry.
type BaseDocument struct {
	BaseEntity

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
	CreatedBy string    `db:"created_by" json:"createdBy,omitempty"`
	UpdatedBy string    `db:"updated_by" json:"updatedBy,omitempty"`
}

// NewBaseDocument creates a BaseDocument with generated ID and timestamps.
func NewBaseDocument() BaseDocument {
	now := time.Now().UTC()
	return BaseDocument{
		BaseEntity: NewBaseEntity(),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// Touch bumps the version and the updated timestamp.
func (b *BaseDocument) Touch() {
	b.UpdatedAt = time.Now().UTC()
	b.BaseEntity.Touch()
}

// BaseCatalog is BaseEntity for reference data. Catalogs carry no
// per-row user stamps.
type BaseCatalog struct {
	BaseEntity
}

// NewBaseCatalog creates a BaseCatalog with a generated ID.
func NewBaseCatalog() BaseCatalog {
	return BaseCatalog{BaseEntity: NewBaseEntity()}
}
