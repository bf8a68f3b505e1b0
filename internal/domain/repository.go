// Package domain holds types shared across the business packages.
package domain

import "vistapos/internal/core/id"

// ListFilter is the common shape of list queries: substring search,
// explicit IDs, soft-delete visibility, ordering and paging.
type ListFilter struct {
	Search string
	IDs    []id.ID

	// IncludeDeleted also returns soft-deleted rows.
	IncludeDeleted bool

	// OrderBy names a column; a "-" prefix sorts descending.
	OrderBy string

	Limit  int
	Offset int
}

// DefaultListFilter returns the defaults used when a request sets
// nothing: 50 rows, ordered by name.
func DefaultListFilter() ListFilter {
	return ListFilter{
		Limit:   50,
		OrderBy: "name",
	}
}

// ListResult is one page of results with the total match count.
type ListResult[T any] struct {
	Items      []T   `json:"items"`
	TotalCount int64 `json:"totalCount"`
	Limit      int   `json:"limit"`
	Offset     int   `json:"offset"`
}
