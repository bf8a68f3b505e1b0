package stock

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vistapos/internal/core/apperror"
	"vistapos/internal/core/id"
	"vistapos/internal/domain/catalogs/item"
)

type passthroughTxManager struct{}

func (passthroughTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// memStockRepo clamps at zero the way the SQL implementation does with
// GREATEST(stock - qty, 0).
type memStockRepo struct {
	levels map[id.ID]int
}

func newMemStockRepo() *memStockRepo {
	return &memStockRepo{levels: make(map[id.ID]int)}
}

func (r *memStockRepo) Decrement(ctx context.Context, itemID id.ID, qty int) (int, item.Type, error) {
	level, ok := r.levels[itemID]
	if !ok {
		return 0, "", apperror.NewNotFound("item", itemID.String())
	}
	level -= qty
	if level < 0 {
		level = 0
	}
	r.levels[itemID] = level
	return level, item.TypeProduct, nil
}

func (r *memStockRepo) Increment(ctx context.Context, itemID id.ID, qty int) (int, item.Type, error) {
	level, ok := r.levels[itemID]
	if !ok {
		return 0, "", apperror.NewNotFound("item", itemID.String())
	}
	level += qty
	r.levels[itemID] = level
	return level, item.TypeProduct, nil
}

func (r *memStockRepo) GetLevel(ctx context.Context, itemID id.ID) (int, error) {
	level, ok := r.levels[itemID]
	if !ok {
		return 0, apperror.NewNotFound("item", itemID.String())
	}
	return level, nil
}

type memEventRepo struct {
	events []*Event
}

func (r *memEventRepo) Enqueue(ctx context.Context, event *Event) error {
	r.events = append(r.events, event)
	return nil
}

func (r *memEventRepo) FetchPending(ctx context.Context, limit int) ([]*Event, error) {
	var pending []*Event
	for _, e := range r.events {
		if e.Status == EventStatusPending {
			pending = append(pending, e)
		}
	}
	// Fresh events first, the way the SQL ORDER BY attempts, created_at
	// sorts them.
	sort.SliceStable(pending, func(i, j int) bool {
		return pending[i].Attempts < pending[j].Attempts
	})
	if len(pending) > limit {
		pending = pending[:limit]
	}
	return pending, nil
}

func (r *memEventRepo) MarkProcessed(ctx context.Context, eventID id.ID) error {
	for _, e := range r.events {
		if e.ID == eventID {
			e.Status = EventStatusProcessed
		}
	}
	return nil
}

func (r *memEventRepo) MarkFailed(ctx context.Context, eventID id.ID, reason string) error {
	for _, e := range r.events {
		if e.ID == eventID {
			e.Attempts++
			e.LastError = &reason
			if e.Attempts >= 5 {
				e.Status = EventStatusFailed
			}
		}
	}
	return nil
}

func newTestService(itemID id.ID, level int) (*Service, *memStockRepo, *memEventRepo) {
	repo := newMemStockRepo()
	repo.levels[itemID] = level
	events := &memEventRepo{}
	return NewService(repo, events, passthroughTxManager{}), repo, events
}

func TestDecrement(t *testing.T) {
	ctx := context.Background()
	itemID := id.New()
	svc, _, events := newTestService(itemID, 10)

	after, err := svc.Decrement(ctx, itemID, 3, ReasonSale)
	require.NoError(t, err)
	assert.Equal(t, 7, after)

	require.Len(t, events.events, 1)
	ev := events.events[0]
	assert.Equal(t, -3, ev.Delta)
	assert.Equal(t, 7, ev.StockAfter)
	assert.Equal(t, ReasonSale, ev.Reason)
	assert.Equal(t, EventStatusPending, ev.Status)
}

func TestDecrement_ClampsAtZero(t *testing.T) {
	ctx := context.Background()
	itemID := id.New()
	svc, repo, _ := newTestService(itemID, 2)

	// Selling more than on hand is not an error, the level floors at zero.
	after, err := svc.Decrement(ctx, itemID, 5, ReasonSale)
	require.NoError(t, err)
	assert.Equal(t, 0, after)
	assert.Equal(t, 0, repo.levels[itemID])

	// And again from zero.
	after, err = svc.Decrement(ctx, itemID, 1, ReasonSale)
	require.NoError(t, err)
	assert.Equal(t, 0, after)
}

func TestDecrement_RejectsNonPositiveQuantity(t *testing.T) {
	ctx := context.Background()
	itemID := id.New()
	svc, _, events := newTestService(itemID, 10)

	_, err := svc.Decrement(ctx, itemID, 0, ReasonSale)
	assert.Error(t, err)
	_, err = svc.Decrement(ctx, itemID, -1, ReasonSale)
	assert.Error(t, err)
	assert.Empty(t, events.events)
}

func TestRestock(t *testing.T) {
	ctx := context.Background()
	itemID := id.New()
	svc, _, events := newTestService(itemID, 1)

	after, err := svc.Restock(ctx, itemID, 20)
	require.NoError(t, err)
	assert.Equal(t, 21, after)

	require.Len(t, events.events, 1)
	assert.Equal(t, ReasonRestock, events.events[0].Reason)
	assert.Equal(t, 20, events.events[0].Delta)
}

func TestAdjust(t *testing.T) {
	ctx := context.Background()
	itemID := id.New()
	svc, _, events := newTestService(itemID, 10)

	after, err := svc.Adjust(ctx, itemID, -4)
	require.NoError(t, err)
	assert.Equal(t, 6, after)

	after, err = svc.Adjust(ctx, itemID, 2)
	require.NoError(t, err)
	assert.Equal(t, 8, after)

	_, err = svc.Adjust(ctx, itemID, 0)
	assert.Error(t, err)

	require.Len(t, events.events, 2)
	assert.Equal(t, ReasonAdjustment, events.events[0].Reason)
	assert.Equal(t, -4, events.events[0].Delta)
}

func TestDecrement_UnknownItem(t *testing.T) {
	ctx := context.Background()
	svc, _, events := newTestService(id.New(), 10)

	_, err := svc.Decrement(ctx, id.New(), 1, ReasonSale)
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
	assert.Empty(t, events.events)
}
