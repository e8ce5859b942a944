package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaginationNormalize(t *testing.T) {
	p := PaginationParams{Page: -3, Limit: 0, Order: "sideways"}
	p.Normalize()

	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 10, p.Limit)
	assert.Equal(t, "createdAt", p.SortBy)
	assert.Equal(t, "desc", p.Order)

	// Limit is capped
	p = PaginationParams{Page: 2, Limit: 500, Order: "asc"}
	p.Normalize()
	assert.Equal(t, 100, p.Limit)
	assert.Equal(t, "asc", p.Order)
}

func TestPaginationSkip(t *testing.T) {
	p := PaginationParams{Page: 3, Limit: 10}
	assert.Equal(t, int64(20), p.GetSkip())

	p = PaginationParams{Page: 1, Limit: 25}
	assert.Equal(t, int64(0), p.GetSkip())
}

func TestNewPaginatedResponse(t *testing.T) {
	params := PaginationParams{Page: 2, Limit: 10}
	resp := NewPaginatedResponse([]string{"a", "b"}, 25, params)

	assert.Equal(t, int64(25), resp.Total)
	assert.Equal(t, 3, resp.TotalPages)
	assert.True(t, resp.HasNext)
	assert.True(t, resp.HasPrevious)

	last := NewPaginatedResponse([]string{"x"}, 25, PaginationParams{Page: 3, Limit: 10})
	assert.False(t, last.HasNext)
	assert.True(t, last.HasPrevious)
}
