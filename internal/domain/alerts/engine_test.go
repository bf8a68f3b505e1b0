package alerts

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vistapos/internal/core/apperror"
	"vistapos/internal/core/id"
	"vistapos/internal/domain"
	"vistapos/internal/domain/catalogs/item"
	"vistapos/internal/domain/stock"
)

type passthroughTxManager struct{}

func (passthroughTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type memNotificationRepo struct {
	notifications map[id.ID]*Notification

	// ops records repository calls in order, for lock ordering checks.
	ops []string
}

func newMemNotificationRepo() *memNotificationRepo {
	return &memNotificationRepo{notifications: make(map[id.ID]*Notification)}
}

func (r *memNotificationRepo) Create(ctx context.Context, n *Notification) error {
	r.ops = append(r.ops, "create")
	r.notifications[n.ID] = n
	return nil
}

func (r *memNotificationRepo) GetByID(ctx context.Context, notificationID id.ID) (*Notification, error) {
	n, ok := r.notifications[notificationID]
	if !ok {
		return nil, apperror.NewNotFound("notification", notificationID.String())
	}
	return n, nil
}

func (r *memNotificationRepo) LockItem(ctx context.Context, itemID id.ID, itemType item.Type) error {
	r.ops = append(r.ops, "lock")
	return nil
}

func (r *memNotificationRepo) GetActiveForUpdate(ctx context.Context, itemID id.ID, itemType item.Type) (*Notification, error) {
	r.ops = append(r.ops, "get")
	for _, n := range r.notifications {
		if n.ItemID == itemID && n.ItemType == itemType && n.IsActive() {
			return n, nil
		}
	}
	return nil, apperror.NewNotFound("notification", itemID.String())
}

func (r *memNotificationRepo) Update(ctx context.Context, n *Notification) error {
	r.notifications[n.ID] = n
	return nil
}

func (r *memNotificationRepo) List(ctx context.Context, filter ListFilter) (domain.ListResult[*Notification], error) {
	var items []*Notification
	for _, n := range r.notifications {
		items = append(items, n)
	}
	return domain.ListResult[*Notification]{Items: items, TotalCount: int64(len(items))}, nil
}

func (r *memNotificationRepo) CountActive(ctx context.Context) (int64, error) {
	var count int64
	for _, n := range r.notifications {
		if n.IsActive() {
			count++
		}
	}
	return count, nil
}

func (r *memNotificationRepo) active(itemID id.ID) *Notification {
	for _, n := range r.notifications {
		if n.ItemID == itemID && n.IsActive() {
			return n
		}
	}
	return nil
}

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
	var items []*item.StockItem
	for _, it := range r.items {
		items = append(items, it)
	}
	return domain.ListResult[*item.StockItem]{Items: items, TotalCount: int64(len(items))}, nil
}

func (r *memItemRepo) Exists(ctx context.Context, itemID id.ID) (bool, error) {
	_, ok := r.items[itemID]
	return ok, nil
}

func newTestEngine(items ...*item.StockItem) (*Engine, *memNotificationRepo, *memItemRepo) {
	notifications := newMemNotificationRepo()
	itemRepo := newMemItemRepo(items...)
	return NewEngine(notifications, itemRepo, passthroughTxManager{}), notifications, itemRepo
}

func testItem(stock int) *item.StockItem {
	it := item.New(item.TypeProduct, "PRD-00001", "Progressive lenses")
	it.Stock = stock
	return it
}

func event(it *item.StockItem, stockAfter int) *stock.Event {
	return stock.NewEvent(it.ID, it.Type, -1, stockAfter, stock.ReasonSale)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		stock    int
		minimum  int
		critical int
		want     Severity
		needed   bool
	}{
		{"zero is danger", 0, 5, 2, SeverityDanger, true},
		{"at critical", 2, 5, 2, SeverityWarning, true},
		{"below critical", 1, 5, 2, SeverityWarning, true},
		{"at minimum", 5, 5, 2, SeverityInfo, true},
		{"between critical and minimum", 3, 5, 2, SeverityInfo, true},
		{"above minimum", 6, 5, 2, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			severity, needed := Classify(tt.stock, tt.minimum, tt.critical)
			assert.Equal(t, tt.needed, needed)
			assert.Equal(t, tt.want, severity)
		})
	}
}

func TestHandleStockEvent_CreatesNotification(t *testing.T) {
	ctx := context.Background()
	it := testItem(4)
	engine, notifications, _ := newTestEngine(it)

	// Product defaults: minimum 5, critical 2. Stock 4 is low.
	require.NoError(t, engine.HandleStockEvent(ctx, event(it, 4)))

	n := notifications.active(it.ID)
	require.NotNil(t, n)
	assert.Equal(t, SeverityInfo, n.Severity)
	assert.Contains(t, n.Message, it.Name)
}

func TestHandleStockEvent_LocksItemBeforeLookup(t *testing.T) {
	ctx := context.Background()
	it := testItem(4)
	engine, notifications, _ := newTestEngine(it)

	// First event for an item: no notification row exists yet, so the
	// item-keyed lock is the only thing serializing concurrent creates.
	require.NoError(t, engine.HandleStockEvent(ctx, event(it, 4)))
	assert.Equal(t, []string{"lock", "get", "create"}, notifications.ops)

	// Follow-up events still lock before touching the row.
	notifications.ops = nil
	require.NoError(t, engine.HandleStockEvent(ctx, event(it, 3)))
	assert.Equal(t, []string{"lock", "get"}, notifications.ops)
}

func TestHandleStockEvent_UpdatesInPlaceOnSeverityChange(t *testing.T) {
	ctx := context.Background()
	it := testItem(2)
	engine, notifications, _ := newTestEngine(it)

	require.NoError(t, engine.HandleStockEvent(ctx, event(it, 2)))
	first := notifications.active(it.ID)
	require.NotNil(t, first)
	require.Equal(t, SeverityWarning, first.Severity)

	// Stock hits zero: same document escalates to danger, no second row.
	require.NoError(t, engine.HandleStockEvent(ctx, event(it, 0)))

	assert.Len(t, notifications.notifications, 1)
	current := notifications.active(it.ID)
	require.NotNil(t, current)
	assert.Equal(t, first.ID, current.ID)
	assert.Equal(t, SeverityDanger, current.Severity)
}

func TestHandleStockEvent_SameSeverityIsNoOp(t *testing.T) {
	ctx := context.Background()
	it := testItem(4)
	engine, notifications, _ := newTestEngine(it)

	require.NoError(t, engine.HandleStockEvent(ctx, event(it, 4)))
	before := notifications.active(it.ID)
	updatedAt := before.UpdatedAt

	require.NoError(t, engine.HandleStockEvent(ctx, event(it, 3)))

	assert.Len(t, notifications.notifications, 1)
	assert.Equal(t, updatedAt, notifications.active(it.ID).UpdatedAt)
}

func TestHandleStockEvent_ArchivesOnRecovery(t *testing.T) {
	ctx := context.Background()
	it := testItem(1)
	engine, notifications, _ := newTestEngine(it)

	require.NoError(t, engine.HandleStockEvent(ctx, event(it, 1)))
	require.NotNil(t, notifications.active(it.ID))

	// Restocked well above the minimum.
	restock := stock.NewEvent(it.ID, it.Type, 20, 21, stock.ReasonRestock)
	require.NoError(t, engine.HandleStockEvent(ctx, restock))

	assert.Nil(t, notifications.active(it.ID))
	count, err := notifications.CountActive(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestHandleStockEvent_MissingItemIsSkipped(t *testing.T) {
	ctx := context.Background()
	engine, notifications, _ := newTestEngine()

	ev := stock.NewEvent(id.New(), item.TypeProduct, -1, 0, stock.ReasonSale)
	require.NoError(t, engine.HandleStockEvent(ctx, ev))
	assert.Empty(t, notifications.notifications)
}

func TestHandleStockEvent_RespectsCustomThresholds(t *testing.T) {
	ctx := context.Background()
	it := testItem(4)
	it.StockMinimum = 2
	it.StockCritical = 1
	engine, notifications, _ := newTestEngine(it)

	// 4 units is healthy for this item even though it is below the
	// product default minimum.
	require.NoError(t, engine.HandleStockEvent(ctx, event(it, 4)))
	assert.Nil(t, notifications.active(it.ID))
}

func TestMarkRead_Idempotent(t *testing.T) {
	ctx := context.Background()
	it := testItem(0)
	engine, notifications, _ := newTestEngine(it)

	require.NoError(t, engine.HandleStockEvent(ctx, event(it, 0)))
	n := notifications.active(it.ID)
	require.NotNil(t, n)

	require.NoError(t, engine.MarkRead(ctx, n.ID))
	assert.True(t, n.Read)

	require.NoError(t, engine.MarkRead(ctx, n.ID))
	assert.True(t, n.Read)
}

func TestRemoveItem_SoftDeletesAndArchives(t *testing.T) {
	ctx := context.Background()
	it := testItem(0)
	engine, notifications, items := newTestEngine(it)

	require.NoError(t, engine.HandleStockEvent(ctx, event(it, 0)))
	n := notifications.active(it.ID)
	require.NotNil(t, n)

	require.NoError(t, engine.RemoveItem(ctx, n.ID))
	assert.True(t, n.Archived)
	assert.True(t, items.items[it.ID].DeletionMark)

	// Second call is a no-op.
	require.NoError(t, engine.RemoveItem(ctx, n.ID))
	assert.True(t, n.Archived)
}
