package sales

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vistapos/internal/core/id"
	"vistapos/internal/core/types"
)

func saleWithDeposit(total, deposit string) *Sale {
	clientID := id.New()
	s := New(time.Now(), &clientID)
	s.Total = types.MustMoney(total)
	s.InitialDeposit = types.MustMoney(deposit)
	return s
}

func entry(amount string) *PaymentEntry {
	return NewEntry(KindPayment, id.New(), types.MustMoney(amount))
}

func TestTotalPaid_SkipsInitialDepositMirrorEntry(t *testing.T) {
	r := NewReconciler()
	sale := saleWithDeposit("100.00", "30.00")

	// The ledger holds the mirror entry for the deposit plus one real payment.
	mirror := entry("30.00")
	mirror.Description = InitialDepositDescription
	entries := []*PaymentEntry{mirror, entry("20.00")}

	paid := r.TotalPaid(sale, entries)
	assert.True(t, paid.Equal(types.MustMoney("50.00")),
		"expected 50.00, got %s", paid.String())
}

func TestOutstanding_PlusTotalPaidEqualsTotal(t *testing.T) {
	r := NewReconciler()
	sale := saleWithDeposit("250.00", "50.00")
	entries := []*PaymentEntry{entry("75.50"), entry("10.25")}

	paid := r.TotalPaid(sale, entries)
	outstanding := r.Outstanding(sale, entries)

	assert.True(t, paid.Add(outstanding).Equal(sale.Total),
		"paid %s + outstanding %s != total %s", paid, outstanding, sale.Total)
}

func TestDerivedStatus(t *testing.T) {
	r := NewReconciler()

	tests := []struct {
		name    string
		total   string
		deposit string
		amounts []string
		want    Status
	}{
		{"no payments", "100.00", "0", nil, StatusPending},
		{"deposit only", "100.00", "30.00", nil, StatusPartial},
		{"partial payment", "100.00", "0", []string{"40.00"}, StatusPartial},
		{"exactly settled", "100.00", "30.00", []string{"70.00"}, StatusPaid},
		{"zero total", "0", "0", nil, StatusPaid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sale := saleWithDeposit(tt.total, tt.deposit)
			var entries []*PaymentEntry
			for _, a := range tt.amounts {
				entries = append(entries, entry(a))
			}
			assert.Equal(t, tt.want, r.DerivedStatus(sale, entries))
		})
	}
}

func TestDerivedStatus_CancelledIsSticky(t *testing.T) {
	r := NewReconciler()
	sale := saleWithDeposit("100.00", "100.00")
	sale.Status = StatusCancelled

	// Fully paid, but cancellation wins.
	assert.Equal(t, StatusCancelled, r.DerivedStatus(sale, nil))
}

// A 100.00 sale with a 30.00 deposit followed by a 70.00 payment ends up
// paid with nothing outstanding.
func TestReconcile_DepositThenSettlement(t *testing.T) {
	r := NewReconciler()
	sale := saleWithDeposit("100.00", "30.00")

	balance := r.Reconcile(sale, nil)
	require.Equal(t, StatusPartial, balance.Status)
	require.True(t, balance.Outstanding.Equal(types.MustMoney("70.00")))

	balance = r.Reconcile(sale, []*PaymentEntry{entry("70.00")})
	assert.Equal(t, StatusPaid, balance.Status)
	assert.True(t, balance.TotalPaid.Equal(sale.Total))
	assert.True(t, balance.Outstanding.IsZero())
}

func TestStatusRank_Monotonic(t *testing.T) {
	assert.Less(t, StatusPending.rank(), StatusPartial.rank())
	assert.Less(t, StatusPartial.rank(), StatusPaid.rank())
}
