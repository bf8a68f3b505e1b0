package dto

import (
	"time"

	"vistapos/internal/core/id"
	"vistapos/internal/domain/sales"
)

// --- Request DTOs ---

// RecordPaymentRequest is the request body for recording a payment or deposit.
type RecordPaymentRequest struct {
	Amount      string       `json:"amount" binding:"required"`
	Description string       `json:"description"`
	Method      sales.Method `json:"method"`
	Date        time.Time    `json:"date"`
}

// ToInput converts DTO to service input.
func (r *RecordPaymentRequest) ToInput(saleID id.ID) sales.RecordInput {
	return sales.RecordInput{
		SaleID:      saleID,
		Amount:      r.Amount,
		Description: r.Description,
		Method:      r.Method,
		Date:        r.Date,
	}
}

// --- Response DTOs ---

// PaymentResponse pairs a recorded entry with the resulting balance.
type PaymentResponse struct {
	Entry   *sales.PaymentEntry `json:"entry"`
	Balance sales.Balance       `json:"balance"`
}
