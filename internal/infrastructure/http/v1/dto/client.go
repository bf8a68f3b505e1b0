package dto

import (
	"vistapos/internal/core/apperror"
	"vistapos/internal/core/id"
	"vistapos/internal/domain/catalogs/client"
)

// --- Request DTOs ---

// CreateClientRequest is the request body for registering a client.
type CreateClientRequest struct {
	Code               string  `json:"code"`
	Name               string  `json:"name" binding:"required"`
	Phone              string  `json:"phone"`
	Email              *string `json:"email" binding:"omitempty,email"`
	Agreement          bool    `json:"agreement"`
	AgreementCompanyID *string `json:"agreementCompanyId" binding:"omitempty,uuid"`
}

// ToInput converts DTO to service input.
func (r *CreateClientRequest) ToInput() (client.CreateInput, error) {
	companyID, err := parseOptionalID(r.AgreementCompanyID, "agreementCompanyId")
	if err != nil {
		return client.CreateInput{}, err
	}
	return client.CreateInput{
		Code:               r.Code,
		Name:               r.Name,
		Phone:              r.Phone,
		Email:              r.Email,
		Agreement:          r.Agreement,
		AgreementCompanyID: companyID,
	}, nil
}

// UpdateClientRequest is the request body for updating a client.
// Omitted fields keep their current value.
type UpdateClientRequest struct {
	Name               *string `json:"name"`
	Phone              *string `json:"phone"`
	Email              *string `json:"email" binding:"omitempty,email"`
	Agreement          *bool   `json:"agreement"`
	AgreementCompanyID *string `json:"agreementCompanyId" binding:"omitempty,uuid"`
	Version            int     `json:"version" binding:"required,min=1"`
}

// ToInput converts DTO to service input.
func (r *UpdateClientRequest) ToInput() (client.UpdateInput, error) {
	companyID, err := parseOptionalID(r.AgreementCompanyID, "agreementCompanyId")
	if err != nil {
		return client.UpdateInput{}, err
	}
	return client.UpdateInput{
		Name:               r.Name,
		Phone:              r.Phone,
		Email:              r.Email,
		Agreement:          r.Agreement,
		AgreementCompanyID: companyID,
		Version:            r.Version,
	}, nil
}

func parseOptionalID(raw *string, field string) (*id.ID, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	parsed, err := id.Parse(*raw)
	if err != nil {
		return nil, apperror.NewValidation("invalid id format").WithDetail("field", field)
	}
	return &parsed, nil
}
