package postgres

import (
	"strings"

	"vistapos/internal/core/apperror"
)

// ParseOrderBy translates an API sort expression ("field", "+field",
// "-field") into a SQL ORDER BY clause. The field must be one of the
// allowed column names; anything else is rejected so user input never
// reaches the query verbatim. Empty input falls back to the given
// default clause.
func ParseOrderBy(orderBy string, allowed []string, fallback string) (string, error) {
	if orderBy == "" {
		return fallback, nil
	}

	direction := "ASC"
	field := orderBy
	if strings.HasPrefix(orderBy, "-") {
		direction = "DESC"
		field = strings.TrimPrefix(orderBy, "-")
	} else if strings.HasPrefix(orderBy, "+") {
		field = strings.TrimPrefix(orderBy, "+")
	}

	field = strings.TrimSpace(field)
	if field == "" {
		return "", apperror.NewValidation("invalid orderBy").WithDetail("orderBy", orderBy)
	}

	for _, col := range allowed {
		if field == col {
			return field + " " + direction, nil
		}
	}
	return "", apperror.NewValidation("invalid orderBy").WithDetail("orderBy", orderBy).WithDetail("field", field)
}
