package sales

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vistapos/internal/core/apperror"
	"vistapos/internal/core/id"
	"vistapos/internal/core/types"
	"vistapos/internal/domain"
	"vistapos/internal/domain/catalogs/client"
	"vistapos/internal/domain/catalogs/item"
	"vistapos/internal/domain/stock"
	"vistapos/pkg/numerator"
)

// --- mocks ---

type memItemRepo struct {
	items map[id.ID]*item.StockItem
}

func newMemItemRepo(items ...*item.StockItem) *memItemRepo {
	r := &memItemRepo{items: make(map[id.ID]*item.StockItem)}
	for _, it := range items {
		r.items[it.ID] = it
	}
	return r
}

func (r *memItemRepo) Create(ctx context.Context, it *item.StockItem) error {
	r.items[it.ID] = it
	return nil
}

func (r *memItemRepo) GetByID(ctx context.Context, itemID id.ID) (*item.StockItem, error) {
	it, ok := r.items[itemID]
	if !ok {
		return nil, apperror.NewNotFound("item", itemID.String())
	}
	return it, nil
}

func (r *memItemRepo) GetByCode(ctx context.Context, code string) (*item.StockItem, error) {
	for _, it := range r.items {
		if it.Code == code {
			return it, nil
		}
	}
	return nil, apperror.NewNotFound("item", code)
}

func (r *memItemRepo) Update(ctx context.Context, it *item.StockItem) error {
	r.items[it.ID] = it
	return nil
}

func (r *memItemRepo) SetDeletionMark(ctx context.Context, itemID id.ID, marked bool) error {
	it, ok := r.items[itemID]
	if !ok {
		return apperror.NewNotFound("item", itemID.String())
	}
	it.DeletionMark = marked
	return nil
}

func (r *memItemRepo) List(ctx context.Context, filter item.ListFilter) (domain.ListResult[*item.StockItem], error) {
	return domain.ListResult[*item.StockItem]{}, nil
}

func (r *memItemRepo) Exists(ctx context.Context, itemID id.ID) (bool, error) {
	_, ok := r.items[itemID]
	return ok, nil
}

type memClientRepo struct {
	clients map[id.ID]*client.Client
}

func newMemClientRepo(clients ...*client.Client) *memClientRepo {
	r := &memClientRepo{clients: make(map[id.ID]*client.Client)}
	for _, cl := range clients {
		r.clients[cl.ID] = cl
	}
	return r
}

func (r *memClientRepo) Create(ctx context.Context, cl *client.Client) error {
	r.clients[cl.ID] = cl
	return nil
}

func (r *memClientRepo) GetByID(ctx context.Context, clientID id.ID) (*client.Client, error) {
	cl, ok := r.clients[clientID]
	if !ok {
		return nil, apperror.NewNotFound("client", clientID.String())
	}
	return cl, nil
}

func (r *memClientRepo) GetByCode(ctx context.Context, code string) (*client.Client, error) {
	for _, cl := range r.clients {
		if cl.Code == code {
			return cl, nil
		}
	}
	return nil, apperror.NewNotFound("client", code)
}

func (r *memClientRepo) Update(ctx context.Context, cl *client.Client) error {
	r.clients[cl.ID] = cl
	return nil
}

func (r *memClientRepo) SetDeletionMark(ctx context.Context, clientID id.ID, marked bool) error {
	cl, ok := r.clients[clientID]
	if !ok {
		return apperror.NewNotFound("client", clientID.String())
	}
	cl.DeletionMark = marked
	return nil
}

func (r *memClientRepo) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*client.Client], error) {
	return domain.ListResult[*client.Client]{}, nil
}

func (r *memClientRepo) Exists(ctx context.Context, clientID id.ID) (bool, error) {
	_, ok := r.clients[clientID]
	return ok, nil
}

// memStockRepo mirrors the clamping semantics of the SQL implementation.
type memStockRepo struct {
	items *memItemRepo
}

func (r *memStockRepo) Decrement(ctx context.Context, itemID id.ID, qty int) (int, item.Type, error) {
	it, ok := r.items.items[itemID]
	if !ok {
		return 0, "", apperror.NewNotFound("item", itemID.String())
	}
	it.Stock -= qty
	if it.Stock < 0 {
		it.Stock = 0
	}
	return it.Stock, it.Type, nil
}

func (r *memStockRepo) Increment(ctx context.Context, itemID id.ID, qty int) (int, item.Type, error) {
	it, ok := r.items.items[itemID]
	if !ok {
		return 0, "", apperror.NewNotFound("item", itemID.String())
	}
	it.Stock += qty
	return it.Stock, it.Type, nil
}

func (r *memStockRepo) GetLevel(ctx context.Context, itemID id.ID) (int, error) {
	it, ok := r.items.items[itemID]
	if !ok {
		return 0, apperror.NewNotFound("item", itemID.String())
	}
	return it.Stock, nil
}

type memEventRepo struct {
	events []*stock.Event
}

func (r *memEventRepo) Enqueue(ctx context.Context, event *stock.Event) error {
	r.events = append(r.events, event)
	return nil
}

func (r *memEventRepo) FetchPending(ctx context.Context, limit int) ([]*stock.Event, error) {
	return nil, nil
}

func (r *memEventRepo) MarkProcessed(ctx context.Context, eventID id.ID) error { return nil }

func (r *memEventRepo) MarkFailed(ctx context.Context, eventID id.ID, reason string) error {
	return nil
}

// seqRow and seqQuerier emulate the sys_sequences UPSERT used by the
// numerator.
type seqRow struct{ val int64 }

func (r *seqRow) Scan(dest ...any) error {
	if ptr, ok := dest[0].(*int64); ok {
		*ptr = r.val
	}
	return nil
}

type seqQuerier struct {
	mu  sync.Mutex
	cur int64
}

func (q *seqQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.cur++
	return &seqRow{val: q.cur}
}

type saleFixture struct {
	service  *Service
	sales    *memSaleRepo
	payments *memPaymentRepo
	items    *memItemRepo
	events   *memEventRepo
	client   *client.Client
	item     *item.StockItem
}

func newSaleFixture(t *testing.T) *saleFixture {
	t.Helper()

	it := item.New(item.TypeProduct, "PRD-00001", "Progressive lenses")
	it.Stock = 10
	it.Price = types.MustMoney("50.00")

	cl := client.New("CLI-00001", "Jordan Reyes")

	itemRepo := newMemItemRepo(it)
	clientRepo := newMemClientRepo(cl)
	saleRepo := newMemSaleRepo()
	paymentRepo := &memPaymentRepo{}
	events := &memEventRepo{}

	stockService := stock.NewService(&memStockRepo{items: itemRepo}, events, passthroughTxManager{})
	num := numerator.New(&seqQuerier{})

	service := NewService(saleRepo, paymentRepo, itemRepo, clientRepo, stockService, passthroughTxManager{}, num)

	return &saleFixture{
		service:  service,
		sales:    saleRepo,
		payments: paymentRepo,
		items:    itemRepo,
		events:   events,
		client:   cl,
		item:     it,
	}
}

// --- tests ---

func TestCreate_SaleWithDeposit(t *testing.T) {
	ctx := context.Background()
	f := newSaleFixture(t)

	sale, err := f.service.Create(ctx, CreateInput{
		ClientID: &f.client.ID,
		Lines: []LineInput{
			{ItemID: f.item.ID, Quantity: 2},
		},
		InitialDeposit: "30.00",
	})
	require.NoError(t, err)

	assert.True(t, sale.Total.Equal(types.MustMoney("100.00")))
	assert.Equal(t, StatusPartial, sale.Status)
	assert.Equal(t, f.client.Name, sale.ClientName)
	assert.NotEmpty(t, sale.Number)

	// Stock dropped and a sale-reason event was queued.
	assert.Equal(t, 8, f.item.Stock)
	require.Len(t, f.events.events, 1)
	assert.Equal(t, stock.ReasonSale, f.events.events[0].Reason)

	// The deposit got its mirror entry in the payment ledger.
	require.Len(t, f.payments.entries, 1)
	entry := f.payments.entries[0]
	assert.True(t, entry.IsInitialDeposit())
	assert.True(t, entry.Amount.Equal(types.MustMoney("30.00")))
}

func TestCreate_WalkInRequiresFullPayment(t *testing.T) {
	ctx := context.Background()
	f := newSaleFixture(t)

	_, err := f.service.Create(ctx, CreateInput{
		Lines:          []LineInput{{ItemID: f.item.ID, Quantity: 1}},
		InitialDeposit: "20.00",
	})
	require.Error(t, err)

	sale, err := f.service.Create(ctx, CreateInput{
		Lines:          []LineInput{{ItemID: f.item.ID, Quantity: 1}},
		InitialDeposit: "50.00",
	})
	require.NoError(t, err)
	assert.Equal(t, "Walk-in", sale.ClientName)
	assert.Equal(t, StatusPaid, sale.Status)
	assert.True(t, sale.IsWalkIn())
}

func TestCreate_UsesCatalogPriceAndDiscount(t *testing.T) {
	ctx := context.Background()
	f := newSaleFixture(t)

	customPrice := "40.00"
	sale, err := f.service.Create(ctx, CreateInput{
		ClientID: &f.client.ID,
		Lines: []LineInput{
			{ItemID: f.item.ID, Quantity: 1},
			{ItemID: f.item.ID, Quantity: 2, UnitPrice: &customPrice, DiscountPercent: "10"},
		},
	})
	require.NoError(t, err)

	// 50.00 + 2*40.00*0.9 = 122.00
	assert.True(t, sale.Total.Equal(types.MustMoney("122.00")))
	assert.Equal(t, StatusPending, sale.Status)
	assert.True(t, sale.Lines[0].UnitPrice.Equal(types.MustMoney("50.00")))
}

func TestCreate_RejectsQuantityBeyondStock(t *testing.T) {
	ctx := context.Background()
	f := newSaleFixture(t)

	_, err := f.service.Create(ctx, CreateInput{
		ClientID: &f.client.ID,
		Lines:    []LineInput{{ItemID: f.item.ID, Quantity: 11}},
	})
	require.Error(t, err)
	assert.Equal(t, 10, f.item.Stock, "stock untouched")
	assert.Empty(t, f.sales.sales)
}

func TestCreate_UnknownClient(t *testing.T) {
	ctx := context.Background()
	f := newSaleFixture(t)

	unknown := id.New()
	_, err := f.service.Create(ctx, CreateInput{
		ClientID: &unknown,
		Lines:    []LineInput{{ItemID: f.item.ID, Quantity: 1}},
	})
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestCreate_NoDepositEntryForZeroDeposit(t *testing.T) {
	ctx := context.Background()
	f := newSaleFixture(t)

	_, err := f.service.Create(ctx, CreateInput{
		ClientID: &f.client.ID,
		Lines:    []LineInput{{ItemID: f.item.ID, Quantity: 1}},
	})
	require.NoError(t, err)
	assert.Empty(t, f.payments.entries)
}

func TestCancel(t *testing.T) {
	ctx := context.Background()
	f := newSaleFixture(t)

	sale, err := f.service.Create(ctx, CreateInput{
		ClientID: &f.client.ID,
		Lines:    []LineInput{{ItemID: f.item.ID, Quantity: 2}},
	})
	require.NoError(t, err)
	stockAfterSale := f.item.Stock

	cancelled, err := f.service.Cancel(ctx, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, cancelled.Status)

	// Stock is not restored on cancellation.
	assert.Equal(t, stockAfterSale, f.item.Stock)

	// Idempotent.
	again, err := f.service.Cancel(ctx, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, again.Status)
}

func TestGetByID_ReconcilesFresh(t *testing.T) {
	ctx := context.Background()
	f := newSaleFixture(t)

	created, err := f.service.Create(ctx, CreateInput{
		ClientID:       &f.client.ID,
		Lines:          []LineInput{{ItemID: f.item.ID, Quantity: 2}},
		InitialDeposit: "30.00",
		Date:           time.Now(),
	})
	require.NoError(t, err)

	// A payment recorded directly in the ledger shows up in the balance
	// even though nothing touched the cached status column.
	extra := NewEntry(KindPayment, created.ID, types.MustMoney("70.00"))
	require.NoError(t, f.payments.Create(ctx, extra))

	sale, balance, err := f.service.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, balance.TotalPaid.Equal(sale.Total))
	assert.Equal(t, StatusPaid, balance.Status)
}

func TestCancel_PaidSaleRejected(t *testing.T) {
	ctx := context.Background()
	f := newSaleFixture(t)

	// Walk-in sales are paid in full at creation.
	sale, err := f.service.Create(ctx, CreateInput{
		Lines:          []LineInput{{ItemID: f.item.ID, Quantity: 1}},
		InitialDeposit: "50.00",
	})
	require.NoError(t, err)
	require.Equal(t, StatusPaid, sale.Status)

	_, err = f.service.Cancel(ctx, sale.ID)
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeConflict, appErr.Code)

	got, _, err := f.service.GetByID(ctx, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusPaid, got.Status)
}
