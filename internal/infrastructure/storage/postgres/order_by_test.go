package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vistapos/internal/core/apperror"
)

func TestParseOrderBy(t *testing.T) {
	allowed := []string{"id", "date", "number", "status"}

	cases := []struct {
		name    string
		orderBy string
		want    string
	}{
		{"empty uses fallback", "", "date DESC"},
		{"bare field ascends", "number", "number ASC"},
		{"plus prefix ascends", "+number", "number ASC"},
		{"minus prefix descends", "-date", "date DESC"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseOrderBy(tc.orderBy, allowed, "date DESC")
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseOrderBy_RejectsUnknownField(t *testing.T) {
	allowed := []string{"id", "date"}

	for _, orderBy := range []string{
		"total",
		"-total",
		"-",
		"date; select pg_sleep(10) --",
		"date DESC, number",
	} {
		_, err := ParseOrderBy(orderBy, allowed, "date DESC")
		require.Error(t, err, "orderBy %q", orderBy)
		appErr, ok := apperror.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperror.CodeValidation, appErr.Code)
	}
}
