package sales

import (
	"time"

	"vistapos/internal/core/apperror"
	"vistapos/internal/core/id"
	"vistapos/internal/core/types"
)

// InitialDepositDescription marks the ledger entry written for a sale's
// initial deposit. The reconciler excludes entries with this exact
// description from TotalPaid because the same amount is already carried on
// the sale record itself.
const InitialDepositDescription = "Initial deposit"

// EntryKind separates deposits (partial payments) from payments
// (conventionally full settlement). The two are mechanically identical.
type EntryKind string

const (
	KindDeposit EntryKind = "deposit"
	KindPayment EntryKind = "payment"
)

// Method is the payment method as recorded at the counter.
type Method string

const (
	MethodCash     Method = "cash"
	MethodCard     Method = "card"
	MethodTransfer Method = "transfer"
	MethodOther    Method = "other"
)

// PaymentEntry is an append-only ledger record against a sale. Entries are
// never updated or deleted.
type PaymentEntry struct {
	ID          id.ID       `db:"id" json:"id"`
	SaleID      id.ID       `db:"sale_id" json:"saleId"`
	ClientID    *id.ID      `db:"client_id" json:"clientId,omitempty"`
	Kind        EntryKind   `db:"kind" json:"kind"`
	Amount      types.Money `db:"amount" json:"amount"`
	Description string      `db:"description" json:"description"`
	Method      Method      `db:"method" json:"method"`
	Date        time.Time   `db:"date" json:"date"`
	CreatedAt   time.Time   `db:"created_at" json:"createdAt"`
	CreatedBy   string      `db:"created_by" json:"createdBy,omitempty"`
}

// NewEntry creates a ledger entry with generated ID.
func NewEntry(kind EntryKind, saleID id.ID, amount types.Money) *PaymentEntry {
	now := time.Now().UTC()
	return &PaymentEntry{
		ID:        id.New(),
		SaleID:    saleID,
		Kind:      kind,
		Amount:    amount,
		Method:    MethodCash,
		Date:      now,
		CreatedAt: now,
	}
}

// IsInitialDeposit reports whether this entry mirrors the deposit embedded
// in the sale record.
func (e *PaymentEntry) IsInitialDeposit() bool {
	return e.Description == InitialDepositDescription
}

// Validate checks entry invariants.
func (e *PaymentEntry) Validate() error {
	if id.IsNil(e.SaleID) {
		return apperror.NewValidation("payment entry requires a sale").
			WithDetail("field", "saleId")
	}
	if e.Kind != KindDeposit && e.Kind != KindPayment {
		return apperror.NewValidation("invalid entry kind").
			WithDetail("field", "kind").
			WithDetail("value", string(e.Kind))
	}
	if !e.Amount.IsPositive() {
		return apperror.NewValidation("amount must be positive").
			WithDetail("field", "amount").
			WithDetail("value", e.Amount.String())
	}
	return nil
}
