package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"vistapos/internal/core/apperror"
	"vistapos/internal/core/id"
	"vistapos/internal/domain"
	"vistapos/internal/domain/alerts"
	"vistapos/internal/domain/catalogs/item"
)

const notificationsTable = "sys_notifications"

// Compile-time check.
var _ alerts.Repository = (*NotificationRepo)(nil)

// NotificationRepo implements alerts.Repository.
type NotificationRepo struct {
	txManager  *TxManager
	selectCols []string
}

// NewNotificationRepo creates a new notification repository.
func NewNotificationRepo(txManager *TxManager) *NotificationRepo {
	return &NotificationRepo{
		txManager:  txManager,
		selectCols: ExtractDBColumns[alerts.Notification](),
	}
}

func (r *NotificationRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func (r *NotificationRepo) baseSelect() squirrel.SelectBuilder {
	return r.builder().
		Select(r.selectCols...).
		From(notificationsTable)
}

// Create inserts a notification.
func (r *NotificationRepo) Create(ctx context.Context, n *alerts.Notification) error {
	data := StructToMap(n)

	filteredData := make(map[string]any, len(r.selectCols))
	for _, col := range r.selectCols {
		if val, ok := data[col]; ok {
			filteredData[col] = val
		}
	}

	q := r.builder().
		Insert(notificationsTable).
		SetMap(filteredData)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}

	return nil
}

// GetByID retrieves a notification.
func (r *NotificationRepo) GetByID(ctx context.Context, notificationID id.ID) (*alerts.Notification, error) {
	n := &alerts.Notification{}

	q := r.baseSelect().
		Where(squirrel.Eq{"id": notificationID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, n, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("notification", notificationID.String())
		}
		return nil, fmt.Errorf("get notification: %w", err)
	}

	return n, nil
}

// LockItem takes a transaction-scoped advisory lock keyed by the item.
// A FOR UPDATE lock only serializes writers when a row already exists;
// the advisory lock also covers the first-notification race.
func (r *NotificationRepo) LockItem(ctx context.Context, itemID id.ID, itemType item.Type) error {
	querier := r.txManager.GetQuerier(ctx)
	_, err := querier.Exec(ctx,
		"SELECT pg_advisory_xact_lock(hashtext($1 || ':' || $2))",
		itemID.String(), string(itemType),
	)
	if err != nil {
		return fmt.Errorf("lock item: %w", err)
	}
	return nil
}

// GetActiveForUpdate returns the active notification for an item under a
// row lock. Callers serialize on LockItem first; the row lock then keeps
// the row stable for the rest of the transaction.
func (r *NotificationRepo) GetActiveForUpdate(ctx context.Context, itemID id.ID, itemType item.Type) (*alerts.Notification, error) {
	n := &alerts.Notification{}

	q := r.baseSelect().
		Where(squirrel.Eq{"item_id": itemID}).
		Where(squirrel.Eq{"item_type": itemType}).
		Where(squirrel.Eq{"read": false}).
		Where(squirrel.Eq{"archived": false}).
		Limit(1).
		Suffix("FOR UPDATE")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, n, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("notification", itemID.String())
		}
		return nil, fmt.Errorf("get active notification: %w", err)
	}

	return n, nil
}

// Update persists notification changes.
func (r *NotificationRepo) Update(ctx context.Context, n *alerts.Notification) error {
	data := StructToMap(n)

	filteredData := make(map[string]any, len(r.selectCols))
	for _, col := range r.selectCols {
		if col == "id" || col == "created_at" {
			continue
		}
		if val, ok := data[col]; ok {
			filteredData[col] = val
		}
	}

	q := r.builder().
		Update(notificationsTable).
		SetMap(filteredData).
		Where(squirrel.Eq{"id": n.ID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	result, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update notification: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NewNotFound("notification", n.ID.String())
	}

	return nil
}

// List retrieves notifications with filtering.
func (r *NotificationRepo) List(ctx context.Context, filter alerts.ListFilter) (domain.ListResult[*alerts.Notification], error) {
	result := domain.ListResult[*alerts.Notification]{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	q := r.baseSelect()

	if filter.ActiveOnly {
		q = q.Where(squirrel.Eq{"read": false}).
			Where(squirrel.Eq{"archived": false})
	} else if !filter.IncludeArchived {
		q = q.Where(squirrel.Eq{"archived": false})
	}

	if filter.Severity != nil {
		q = q.Where(squirrel.Eq{"severity": *filter.Severity})
	}

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		q = q.Where(squirrel.Or{
			squirrel.ILike{"title": pattern},
			squirrel.ILike{"message": pattern},
		})
	}

	countQ := r.builder().Select("COUNT(*)").FromSelect(q, "sub")
	countSQL, countArgs, err := countQ.ToSql()
	if err != nil {
		return result, fmt.Errorf("build count: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count: %w", err)
	}

	orderBy, err := ParseOrderBy(filter.OrderBy, r.selectCols, "created_at DESC")
	if err != nil {
		return result, err
	}
	q = q.OrderBy(orderBy)

	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return result, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Select(ctx, querier, &result.Items, sql, args...); err != nil {
		return result, fmt.Errorf("list notifications: %w", err)
	}

	return result, nil
}

// CountActive returns the number of active notifications.
func (r *NotificationRepo) CountActive(ctx context.Context) (int64, error) {
	querier := r.txManager.GetQuerier(ctx)

	var count int64
	err := querier.QueryRow(ctx, `
		SELECT COUNT(*) FROM sys_notifications
		WHERE read = false AND archived = false
	`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count active notifications: %w", err)
	}

	return count, nil
}
