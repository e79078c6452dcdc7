package storage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildOrderQuery_NoFilter(t *testing.T) {
	sql, args := buildOrderQuery(1, OrderQuery{})

	assert.Contains(t, sql, "WHERE o.client_id = ?")
	assert.NotContains(t, sql, "LIKE")
	assert.NotContains(t, sql, "o.id = ?")
	assert.Contains(t, sql, "ORDER BY o.created_at DESC")
	assert.Equal(t, []interface{}{int64(1)}, args)
}

func TestBuildOrderQuery_NumericTerm(t *testing.T) {
	sql, args := buildOrderQuery(1, OrderQuery{SearchTerm: "42"})

	assert.Contains(t, sql, "AND o.id = ?")
	assert.NotContains(t, sql, "LIKE")
	assert.Equal(t, []interface{}{int64(1), int64(42)}, args)
}

func TestBuildOrderQuery_SubstringTerm(t *testing.T) {
	sql, args := buildOrderQuery(1, OrderQuery{SearchTerm: "Pizza"})

	assert.Contains(t, sql, "LOWER(os.name) LIKE ?")
	assert.Contains(t, sql, "LOWER(r.name) LIKE ?")
	require.Len(t, args, 3)
	// Lowercased and wrapped for substring matching
	assert.Equal(t, "%pizza%", args[1])
	assert.Equal(t, "%pizza%", args[2])
}

func TestBuildOrderQuery_TrimsTerm(t *testing.T) {
	// Surrounding whitespace must not defeat the numeric parse
	sql, args := buildOrderQuery(1, OrderQuery{SearchTerm: "  7  "})

	assert.Contains(t, sql, "AND o.id = ?")
	assert.Equal(t, []interface{}{int64(1), int64(7)}, args)

	// All-whitespace collapses to no filter
	sql, args = buildOrderQuery(1, OrderQuery{SearchTerm: "   "})
	assert.NotContains(t, sql, "AND")
	assert.Len(t, args, 1)
}

func TestBuildOrderQuery_MixedTermIsSubstring(t *testing.T) {
	// "12b" does not parse as an integer, so it falls through to name matching
	sql, args := buildOrderQuery(1, OrderQuery{SearchTerm: "12b"})

	assert.Contains(t, sql, "LIKE")
	assert.NotContains(t, sql, "o.id = ?")
	assert.Len(t, args, 3)
}

func TestBuildOrderQuery_SortFields(t *testing.T) {
	tests := []struct {
		name      string
		sort      SortField
		ascending bool
		orderBy   string
	}{
		{"date descending", SortByDate, false, "ORDER BY o.created_at DESC"},
		{"date ascending", SortByDate, true, "ORDER BY o.created_at ASC"},
		{"id descending", SortByOrderID, false, "ORDER BY o.id DESC"},
		{"id ascending", SortByOrderID, true, "ORDER BY o.id ASC"},
		{"total descending", SortByTotal, false, "ORDER BY o.total_amount_cents DESC"},
		{"total ascending", SortByTotal, true, "ORDER BY o.total_amount_cents ASC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, _ := buildOrderQuery(1, OrderQuery{Sort: tt.sort, Ascending: tt.ascending})
			assert.True(t, strings.HasSuffix(sql, tt.orderBy), "got %q", sql)
		})
	}
}

func TestBuildOrderQuery_UnknownSortFallsBackToDate(t *testing.T) {
	sql, _ := buildOrderQuery(1, OrderQuery{Sort: SortField("nope")})
	assert.Contains(t, sql, "ORDER BY o.created_at DESC")
}

func TestBuildOrderQuery_TermNeverInterpolated(t *testing.T) {
	hostile := "'; DROP TABLE orders; --"
	sql, args := buildOrderQuery(1, OrderQuery{SearchTerm: hostile})

	assert.NotContains(t, sql, "DROP TABLE")
	require.Len(t, args, 3)
	assert.Equal(t, "%"+strings.ToLower(hostile)+"%", args[1])
}
