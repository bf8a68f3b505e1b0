package dto

import (
	"time"

	"vistapos/internal/core/apperror"
	"vistapos/internal/core/id"
	"vistapos/internal/domain/sales"
)

// --- Request DTOs ---

// SaleLineRequest is a single line of a sale.
type SaleLineRequest struct {
	ItemID          string  `json:"itemId" binding:"required,uuid"`
	Quantity        int     `json:"quantity" binding:"required,min=1"`
	UnitPrice       *string `json:"unitPrice"`
	DiscountPercent string  `json:"discountPercent"`
}

// CreateSaleRequest is the request body for creating a sale.
type CreateSaleRequest struct {
	ClientID       *string           `json:"clientId" binding:"omitempty,uuid"`
	Date           time.Time         `json:"date"`
	Lines          []SaleLineRequest `json:"lineItems" binding:"required,min=1,dive"`
	InitialDeposit string            `json:"initialDeposit"`
	Notes          string            `json:"notes"`
}

// ToInput converts DTO to service input.
func (r *CreateSaleRequest) ToInput() (sales.CreateInput, error) {
	clientID, err := parseOptionalID(r.ClientID, "clientId")
	if err != nil {
		return sales.CreateInput{}, err
	}

	lines := make([]sales.LineInput, 0, len(r.Lines))
	for i, line := range r.Lines {
		itemID, err := id.Parse(line.ItemID)
		if err != nil {
			return sales.CreateInput{}, apperror.NewValidation("invalid item id").
				WithDetail("line", i+1)
		}
		lines = append(lines, sales.LineInput{
			ItemID:          itemID,
			Quantity:        line.Quantity,
			UnitPrice:       line.UnitPrice,
			DiscountPercent: line.DiscountPercent,
		})
	}

	return sales.CreateInput{
		ClientID:       clientID,
		Date:           r.Date,
		Lines:          lines,
		InitialDeposit: r.InitialDeposit,
		Notes:          r.Notes,
	}, nil
}

// SaleListRequest extends list parameters with sale filters.
type SaleListRequest struct {
	ListRequest
	ClientID string     `form:"clientId" binding:"omitempty,uuid"`
	Status   string     `form:"status"`
	DateFrom *time.Time `form:"dateFrom" time_format:"2006-01-02"`
	DateTo   *time.Time `form:"dateTo" time_format:"2006-01-02"`
}

// ToFilter converts query parameters into a sales list filter.
func (r *SaleListRequest) ToFilter() (sales.ListFilter, error) {
	filter := sales.ListFilter{ListFilter: r.ListRequest.ToFilter()}
	if filter.OrderBy == "name" {
		filter.OrderBy = "-date"
	}

	if r.ClientID != "" {
		clientID, err := id.Parse(r.ClientID)
		if err != nil {
			return filter, apperror.NewValidation("invalid client id")
		}
		filter.ClientID = &clientID
	}
	if r.Status != "" {
		status := sales.Status(r.Status)
		filter.Status = &status
	}
	filter.DateFrom = r.DateFrom
	filter.DateTo = r.DateTo
	return filter, nil
}

// --- Response DTOs ---

// SaleResponse pairs a sale with its reconciled balance.
type SaleResponse struct {
	Sale    *sales.Sale   `json:"sale"`
	Balance sales.Balance `json:"balance"`
}
