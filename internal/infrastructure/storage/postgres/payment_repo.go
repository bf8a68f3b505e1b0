package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"vistapos/internal/core/id"
	"vistapos/internal/domain"
	"vistapos/internal/domain/sales"
)

const paymentsTable = "reg_payments"

// Compile-time check.
var _ sales.PaymentRepository = (*PaymentRepo)(nil)

// PaymentRepo implements sales.PaymentRepository. The table is append-only:
// no update or delete statements exist here on purpose.
type PaymentRepo struct {
	txManager  *TxManager
	selectCols []string
}

// NewPaymentRepo creates a new payment repository.
func NewPaymentRepo(txManager *TxManager) *PaymentRepo {
	return &PaymentRepo{
		txManager:  txManager,
		selectCols: ExtractDBColumns[sales.PaymentEntry](),
	}
}

func (r *PaymentRepo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// Create inserts a ledger entry.
func (r *PaymentRepo) Create(ctx context.Context, entry *sales.PaymentEntry) error {
	data := StructToMap(entry)

	filteredData := make(map[string]any, len(r.selectCols))
	for _, col := range r.selectCols {
		if val, ok := data[col]; ok {
			filteredData[col] = val
		}
	}

	q := r.builder().
		Insert(paymentsTable).
		SetMap(filteredData)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert payment entry: %w", err)
	}

	return nil
}

// ListBySale returns all entries for a sale, oldest first.
func (r *PaymentRepo) ListBySale(ctx context.Context, saleID id.ID) ([]*sales.PaymentEntry, error) {
	q := r.builder().
		Select(r.selectCols...).
		From(paymentsTable).
		Where(squirrel.Eq{"sale_id": saleID}).
		OrderBy("created_at", "id")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var entries []*sales.PaymentEntry
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Select(ctx, querier, &entries, sql, args...); err != nil {
		return nil, fmt.Errorf("list payments by sale: %w", err)
	}

	return entries, nil
}

// ListByClient returns entries recorded against a client's sales.
func (r *PaymentRepo) ListByClient(ctx context.Context, clientID id.ID, filter domain.ListFilter) (domain.ListResult[*sales.PaymentEntry], error) {
	result := domain.ListResult[*sales.PaymentEntry]{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	q := r.builder().
		Select(r.selectCols...).
		From(paymentsTable).
		Where(squirrel.Eq{"client_id": clientID})

	countQ := r.builder().Select("COUNT(*)").FromSelect(q, "sub")
	countSQL, countArgs, err := countQ.ToSql()
	if err != nil {
		return result, fmt.Errorf("build count: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count: %w", err)
	}

	q = q.OrderBy("date DESC", "created_at DESC")

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
		return result, fmt.Errorf("list payments by client: %w", err)
	}

	return result, nil
}
