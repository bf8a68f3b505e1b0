package sales

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vistapos/internal/core/apperror"
	"vistapos/internal/core/id"
	"vistapos/internal/core/types"
	"vistapos/internal/domain"
)

// passthroughTxManager runs fn directly, without a real transaction.
type passthroughTxManager struct{}

func (passthroughTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type memSaleRepo struct {
	sales map[id.ID]*Sale
}

func newMemSaleRepo(sales ...*Sale) *memSaleRepo {
	r := &memSaleRepo{sales: make(map[id.ID]*Sale)}
	for _, s := range sales {
		r.sales[s.ID] = s
	}
	return r
}

func (r *memSaleRepo) Create(ctx context.Context, sale *Sale) error {
	r.sales[sale.ID] = sale
	return nil
}

func (r *memSaleRepo) GetByID(ctx context.Context, saleID id.ID) (*Sale, error) {
	s, ok := r.sales[saleID]
	if !ok {
		return nil, apperror.NewNotFound("sale", saleID.String())
	}
	return s, nil
}

func (r *memSaleRepo) GetForUpdate(ctx context.Context, saleID id.ID) (*Sale, error) {
	return r.GetByID(ctx, saleID)
}

func (r *memSaleRepo) UpdateStatus(ctx context.Context, saleID id.ID, status Status) error {
	s, ok := r.sales[saleID]
	if !ok {
		return apperror.NewNotFound("sale", saleID.String())
	}
	s.Status = status
	return nil
}

func (r *memSaleRepo) List(ctx context.Context, filter ListFilter) (domain.ListResult[*Sale], error) {
	var items []*Sale
	for _, s := range r.sales {
		items = append(items, s)
	}
	return domain.ListResult[*Sale]{Items: items, TotalCount: int64(len(items))}, nil
}

type memPaymentRepo struct {
	entries []*PaymentEntry
}

func (r *memPaymentRepo) Create(ctx context.Context, entry *PaymentEntry) error {
	r.entries = append(r.entries, entry)
	return nil
}

func (r *memPaymentRepo) ListBySale(ctx context.Context, saleID id.ID) ([]*PaymentEntry, error) {
	var out []*PaymentEntry
	for _, e := range r.entries {
		if e.SaleID == saleID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *memPaymentRepo) ListByClient(ctx context.Context, clientID id.ID, filter domain.ListFilter) (domain.ListResult[*PaymentEntry], error) {
	var out []*PaymentEntry
	for _, e := range r.entries {
		if e.ClientID != nil && *e.ClientID == clientID {
			out = append(out, e)
		}
	}
	return domain.ListResult[*PaymentEntry]{Items: out, TotalCount: int64(len(out))}, nil
}

func newTestPaymentService(sales ...*Sale) (*PaymentService, *memSaleRepo, *memPaymentRepo) {
	saleRepo := newMemSaleRepo(sales...)
	paymentRepo := &memPaymentRepo{}
	return NewPaymentService(saleRepo, paymentRepo, passthroughTxManager{}), saleRepo, paymentRepo
}

func TestRecordDeposit_UpdatesStatus(t *testing.T) {
	ctx := context.Background()
	sale := saleWithDeposit("100.00", "0")
	svc, _, _ := newTestPaymentService(sale)

	entry, balance, err := svc.RecordDeposit(ctx, RecordInput{
		SaleID: sale.ID,
		Amount: "30.00",
	})
	require.NoError(t, err)
	assert.Equal(t, KindDeposit, entry.Kind)
	assert.Equal(t, StatusPartial, balance.Status)
	assert.True(t, balance.Outstanding.Equal(types.MustMoney("70.00")))
	assert.Equal(t, StatusPartial, sale.Status, "status cache refreshed")
}

func TestRecordPayment_SettlesSale(t *testing.T) {
	ctx := context.Background()
	sale := saleWithDeposit("100.00", "30.00")
	sale.Status = StatusPartial
	svc, _, _ := newTestPaymentService(sale)

	_, balance, err := svc.RecordPayment(ctx, RecordInput{
		SaleID: sale.ID,
		Amount: "70.00",
		Method: MethodCard,
	})
	require.NoError(t, err)
	assert.Equal(t, StatusPaid, balance.Status)
	assert.True(t, balance.Outstanding.IsZero())
}

func TestRecord_RejectsOverpayment(t *testing.T) {
	ctx := context.Background()
	sale := saleWithDeposit("100.00", "30.00")
	svc, _, payments := newTestPaymentService(sale)

	_, _, err := svc.RecordPayment(ctx, RecordInput{
		SaleID: sale.ID,
		Amount: "70.01",
	})
	require.Error(t, err)
	assert.True(t, apperror.IsOverpayment(err))
	assert.Empty(t, payments.entries, "no entry written on rejection")
}

func TestRecord_RejectsCancelledSale(t *testing.T) {
	ctx := context.Background()
	sale := saleWithDeposit("100.00", "0")
	sale.Status = StatusCancelled
	svc, _, _ := newTestPaymentService(sale)

	_, _, err := svc.RecordPayment(ctx, RecordInput{
		SaleID: sale.ID,
		Amount: "10.00",
	})
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeSaleCancelled, appErr.Code)
}

func TestRecord_RejectsReservedDescription(t *testing.T) {
	ctx := context.Background()
	sale := saleWithDeposit("100.00", "0")
	svc, _, _ := newTestPaymentService(sale)

	_, _, err := svc.RecordPayment(ctx, RecordInput{
		SaleID:      sale.ID,
		Amount:      "10.00",
		Description: InitialDepositDescription,
	})
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestRecord_RejectsBadAmounts(t *testing.T) {
	ctx := context.Background()
	sale := saleWithDeposit("100.00", "0")
	svc, _, _ := newTestPaymentService(sale)

	for _, amount := range []string{"", "abc", "0", "-5.00"} {
		_, _, err := svc.RecordPayment(ctx, RecordInput{SaleID: sale.ID, Amount: amount})
		assert.Error(t, err, "amount %q", amount)
	}
}

// Sequential replay of two concurrent 60.00 payments against a 100.00
// sale: the row lock serializes them, so the second sees outstanding
// 40.00 and is rejected.
func TestRecord_SecondPaymentSeesFirstLedgerState(t *testing.T) {
	ctx := context.Background()
	sale := saleWithDeposit("100.00", "0")
	svc, _, _ := newTestPaymentService(sale)

	_, balance, err := svc.RecordPayment(ctx, RecordInput{SaleID: sale.ID, Amount: "60.00"})
	require.NoError(t, err)
	require.True(t, balance.Outstanding.Equal(types.MustMoney("40.00")))

	_, _, err = svc.RecordPayment(ctx, RecordInput{SaleID: sale.ID, Amount: "60.00"})
	require.Error(t, err)
	assert.True(t, apperror.IsOverpayment(err))

	final, err := svc.Balance(ctx, sale.ID)
	require.NoError(t, err)
	assert.True(t, final.TotalPaid.Equal(types.MustMoney("60.00")))
}

func TestBalance_ReconcilesOnDemand(t *testing.T) {
	ctx := context.Background()
	sale := saleWithDeposit("200.00", "50.00")
	svc, _, _ := newTestPaymentService(sale)

	_, _, err := svc.RecordPayment(ctx, RecordInput{SaleID: sale.ID, Amount: "100.00", Date: time.Now()})
	require.NoError(t, err)

	balance, err := svc.Balance(ctx, sale.ID)
	require.NoError(t, err)
	assert.True(t, balance.TotalPaid.Equal(types.MustMoney("150.00")))
	assert.True(t, balance.Outstanding.Equal(types.MustMoney("50.00")))
	assert.Equal(t, StatusPartial, balance.Status)
}
