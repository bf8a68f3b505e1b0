// Package client provides the client catalog. Sales reference clients by
// ID; walk-in sales carry no client at all.
package client

import (
	"context"

	"vistapos/internal/core/apperror"
	"vistapos/internal/core/entity"
	"vistapos/internal/core/id"
)

// Client represents a registered customer.
type Client struct {
	entity.Catalog

	// Phone is the contact phone number
	Phone string `db:"phone" json:"phone"`

	// Email is an optional contact email
	Email *string `db:"email" json:"email,omitempty"`

	// Agreement marks clients covered by a company agreement. Sales
	// created for such clients snapshot the agreement fields.
	Agreement bool `db:"agreement" json:"agreement"`

	// AgreementCompanyID references the covering company when Agreement is set
	AgreementCompanyID *id.ID `db:"agreement_company_id" json:"agreementCompanyId,omitempty"`
}

// New creates a new Client.
func New(code, name string) *Client {
	return &Client{
		Catalog: entity.NewCatalog(code, name),
	}
}

// Validate implements entity.Validatable.
func (c *Client) Validate(ctx context.Context) error {
	if err := c.Catalog.Validate(ctx); err != nil {
		return err
	}

	if c.Agreement && c.AgreementCompanyID == nil {
		return apperror.NewValidation("agreement clients require a company").
			WithDetail("field", "agreementCompanyId")
	}

	return nil
}
