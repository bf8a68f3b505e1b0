// Package sales implements the sale ledger, the payment ledger, and the
// balance reconciler. The three live in one package because they share the
// Sale aggregate: payments recompute sale status, and sale creation writes
// the initial deposit into the payment ledger.
package sales

import (
	"context"
	"time"

	"vistapos/internal/core/apperror"
	"vistapos/internal/core/entity"
	"vistapos/internal/core/id"
	"vistapos/internal/core/types"
	"vistapos/internal/domain/catalogs/item"
)

// Status is the derived payment state of a sale. It is persisted as a
// cache of the reconciler's output, never an independent source of truth.
type Status string

const (
	StatusPending   Status = "pending"
	StatusPartial   Status = "partial"
	StatusPaid      Status = "paid"
	StatusCancelled Status = "cancelled"
)

// rank orders the non-cancelled statuses for monotonicity checks.
func (s Status) rank() int {
	switch s {
	case StatusPending:
		return 0
	case StatusPartial:
		return 1
	case StatusPaid:
		return 2
	default:
		return -1
	}
}

// LineItem is a sale position. Subtotal is computed once at creation and
// stored; the sale total is immutable afterwards.
type LineItem struct {
	LineNumber      int           `db:"line_number" json:"lineNumber"`
	ItemType        item.Type     `db:"item_type" json:"itemType"`
	ItemID          id.ID         `db:"item_id" json:"itemId"`
	ItemName        string        `db:"item_name" json:"itemName"`
	Quantity        int           `db:"quantity" json:"quantity"`
	UnitPrice       types.Money   `db:"unit_price" json:"unitPrice"`
	DiscountPercent types.Percent `db:"discount_percent" json:"discountPercent"`
	Subtotal        types.Money   `db:"subtotal" json:"subtotal"`
}

// ComputeSubtotal returns quantity x unitPrice reduced by the discount,
// rounded to minor units.
func (li *LineItem) ComputeSubtotal() types.Money {
	gross := li.UnitPrice.Mul(types.NewMoney(float64(li.Quantity)))
	return types.RoundMoney(types.ApplyDiscount(gross, li.DiscountPercent))
}

// Validate checks a single line item.
func (li *LineItem) Validate() error {
	if id.IsNil(li.ItemID) {
		return apperror.NewValidation("line item requires an item").
			WithDetail("line", li.LineNumber)
	}
	if li.Quantity < 1 {
		return apperror.NewValidation("line item quantity must be at least 1").
			WithDetail("line", li.LineNumber).
			WithDetail("quantity", li.Quantity)
	}
	if li.UnitPrice.IsNegative() {
		return apperror.NewValidation("line item unit price cannot be negative").
			WithDetail("line", li.LineNumber)
	}
	hundred := types.NewMoney(100)
	if li.DiscountPercent.IsNegative() || li.DiscountPercent.GreaterThan(hundred) {
		return apperror.NewValidation("discount must be between 0 and 100").
			WithDetail("line", li.LineNumber)
	}
	return nil
}

// Sale is the aggregate root of the sale ledger. Line items are embedded
// and have no lifecycle of their own.
type Sale struct {
	entity.BaseDocument

	// Number is the human-readable document number (e.g. SALE-2026-00042)
	Number string `db:"number" json:"number"`

	// Date is the business date of the sale
	Date time.Time `db:"date" json:"date"`

	// ClientID is nil for walk-in sales
	ClientID *id.ID `db:"client_id" json:"clientId,omitempty"`

	// ClientName is snapshotted at creation for display and search
	ClientName string `db:"client_name" json:"clientName"`

	// Total is the sum of line subtotals, immutable after creation
	Total types.Money `db:"total" json:"total"`

	// InitialDeposit is the amount paid at creation time
	InitialDeposit types.Money `db:"initial_deposit" json:"initialDeposit"`

	// Status is the cached reconciler output
	Status Status `db:"status" json:"status"`

	// Agreement fields are copied from the client at creation time
	AgreementFlag      bool   `db:"agreement_flag" json:"agreementFlag"`
	AgreementCompanyID *id.ID `db:"agreement_company_id" json:"agreementCompanyId,omitempty"`

	Notes string `db:"notes" json:"notes"`

	// Lines are loaded separately from the sale header
	Lines []LineItem `db:"-" json:"lineItems"`
}

// New creates a sale skeleton with generated ID and timestamps.
func New(date time.Time, clientID *id.ID) *Sale {
	return &Sale{
		BaseDocument:   entity.NewBaseDocument(),
		Date:           date,
		ClientID:       clientID,
		Total:          types.Zero(),
		InitialDeposit: types.Zero(),
		Status:         StatusPending,
	}
}

// IsWalkIn reports whether the sale has no associated client.
func (s *Sale) IsWalkIn() bool {
	return s.ClientID == nil || id.IsNil(*s.ClientID)
}

// ComputeTotal recalculates every line subtotal and the sale total.
func (s *Sale) ComputeTotal() {
	total := types.Zero()
	for i := range s.Lines {
		s.Lines[i].LineNumber = i + 1
		s.Lines[i].Subtotal = s.Lines[i].ComputeSubtotal()
		total = total.Add(s.Lines[i].Subtotal)
	}
	s.Total = total
}

// Validate implements entity.Validatable.
func (s *Sale) Validate(ctx context.Context) error {
	if len(s.Lines) == 0 {
		return apperror.NewValidation("sale requires at least one line item").
			WithDetail("field", "lineItems")
	}

	for i := range s.Lines {
		if err := s.Lines[i].Validate(); err != nil {
			return err
		}
	}

	if s.InitialDeposit.IsNegative() {
		return apperror.NewValidation("initial deposit cannot be negative").
			WithDetail("field", "initialDeposit")
	}
	if s.InitialDeposit.GreaterThan(s.Total) {
		return apperror.NewValidation("initial deposit cannot exceed the sale total").
			WithDetail("field", "initialDeposit").
			WithDetail("total", s.Total.String()).
			WithDetail("initialDeposit", s.InitialDeposit.String())
	}

	// Walk-in sales are settled in full at the counter.
	if s.IsWalkIn() && !s.InitialDeposit.Equal(s.Total) {
		return apperror.NewValidation("walk-in sales must be paid in full at creation").
			WithDetail("total", s.Total.String()).
			WithDetail("initialDeposit", s.InitialDeposit.String())
	}

	return nil
}

// IsCancelled reports whether the sale is in its terminal state.
func (s *Sale) IsCancelled() bool {
	return s.Status == StatusCancelled
}
