package entity

import (
	"context"

	"vistapos/internal/core/apperror"
)

// Catalog is the base for reference data: stock items and clients.
// Code is the human-readable unique identifier (PRD-00001), Name is
// what the UI shows.
type Catalog struct {
	BaseCatalog

	Code string `db:"code" json:"code"`
	Name string `db:"name" json:"name"`
}

// NewCatalog creates a Catalog with a generated ID.
func NewCatalog(code, name string) Catalog {
	return Catalog{
		BaseCatalog: NewBaseCatalog(),
		Code:        code,
		Name:        name,
	}
}

// Validate implements Validatable. Code may be empty at creation, the
// services assign one from the numerator before saving.
func (c *Catalog) Validate(ctx context.Context) error {
	if c.Name == "" {
		return apperror.NewValidation("name is required").
			WithDetail("field", "name")
	}
	return nil
}
