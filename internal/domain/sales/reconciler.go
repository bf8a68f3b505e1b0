package sales

import (
	"vistapos/internal/core/types"
)

// Reconciler derives the authoritative balance and status of a sale from
// the sale record and its ledger entries. It holds no state: every read
// path goes through it instead of trusting the cached status column.
type Reconciler struct{}

func NewReconciler() *Reconciler {
	return &Reconciler{}
}

// TotalPaid is the initial deposit carried on the sale plus every ledger
// entry except the mirror entry written for that same deposit. Counting
// both would double the deposit.
func (r *Reconciler) TotalPaid(sale *Sale, entries []*PaymentEntry) types.Money {
	paid := sale.InitialDeposit
	for _, e := range entries {
		if e.IsInitialDeposit() {
			continue
		}
		paid = paid.Add(e.Amount)
	}
	return paid
}

// Outstanding is total minus TotalPaid. It can be negative only if data
// was written bypassing the overpayment check.
func (r *Reconciler) Outstanding(sale *Sale, entries []*PaymentEntry) types.Money {
	return sale.Total.Sub(r.TotalPaid(sale, entries))
}

// DerivedStatus computes the sale status. Cancelled is sticky: once a sale
// is cancelled no payment activity revives it.
func (r *Reconciler) DerivedStatus(sale *Sale, entries []*PaymentEntry) Status {
	if sale.Status == StatusCancelled {
		return StatusCancelled
	}

	paid := r.TotalPaid(sale, entries)
	outstanding := sale.Total.Sub(paid)

	switch {
	case outstanding.LessThanOrEqual(types.Zero()):
		return StatusPaid
	case paid.IsPositive():
		return StatusPartial
	default:
		return StatusPending
	}
}

// Balance bundles the reconciler outputs for a single sale.
type Balance struct {
	TotalPaid   types.Money `json:"totalPaid"`
	Outstanding types.Money `json:"outstanding"`
	Status      Status      `json:"status"`
}

// Reconcile computes all three outputs in one pass.
func (r *Reconciler) Reconcile(sale *Sale, entries []*PaymentEntry) Balance {
	paid := r.TotalPaid(sale, entries)
	return Balance{
		TotalPaid:   paid,
		Outstanding: sale.Total.Sub(paid),
		Status:      r.DerivedStatus(sale, entries),
	}
}
