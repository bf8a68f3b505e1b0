package catalog_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"vistapos/internal/domain"
	"vistapos/internal/domain/catalogs/item"
	"vistapos/internal/infrastructure/storage/postgres"
)

const itemTable = "cat_stock_items"

// ItemRepo implements item.Repository.
type ItemRepo struct {
	*BaseCatalogRepo[*item.StockItem]
}

// NewItemRepo creates a new stock item repository.
func NewItemRepo(txManager *postgres.TxManager) *ItemRepo {
	return &ItemRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txManager,
			itemTable,
			postgres.ExtractDBColumns[item.StockItem](),
			func() *item.StockItem { return &item.StockItem{} },
		),
	}
}

// List retrieves items with item-specific filtering. LowStockOnly compares
// against the per-item thresholds with the global defaults as fallback.
func (r *ItemRepo) List(ctx context.Context, filter item.ListFilter) (domain.ListResult[*item.StockItem], error) {
	q := r.listQuery(filter.ListFilter)

	if filter.Type != nil {
		q = q.Where(squirrel.Eq{"item_type": *filter.Type})
	}

	if filter.LowStockOnly {
		q = q.Where(squirrel.Expr(
			`stock <= CASE
				WHEN stock_minimum > 0 THEN stock_minimum
				WHEN item_type = 'frame' THEN ?
				ELSE ?
			END`,
			item.DefaultFrameMinimum, item.DefaultProductMinimum,
		))
	}

	return r.runList(ctx, q, filter.ListFilter)
}
