package pagination_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	model "content-service/internal/domain/models"
	"content-service/internal/domain/pagination"
)

func TestCompute(t *testing.T) {
	tests := []struct {
		name     string
		page     int
		limit    int
		total    int
		returned int
		want     model.PaginationMeta
	}{
		{
			name: "middle page", page: 2, limit: 10, total: 25, returned: 10,
			want: model.PaginationMeta{CurrentPage: 2, PerPage: 10, From: 11, To: 20, TotalPages: 3, TotalDocs: 25},
		},
		{
			name: "partial last page", page: 3, limit: 10, total: 25, returned: 5,
			want: model.PaginationMeta{CurrentPage: 3, PerPage: 10, From: 21, To: 25, TotalPages: 3, TotalDocs: 25},
		},
		{
			name: "single page", page: 1, limit: 10, total: 4, returned: 4,
			want: model.PaginationMeta{CurrentPage: 1, PerPage: 10, From: 1, To: 4, TotalPages: 1, TotalDocs: 4},
		},
		{
			name: "empty result", page: 1, limit: 10, total: 0, returned: 0,
			want: model.PaginationMeta{CurrentPage: 1, PerPage: 10, From: 1, To: 0, TotalPages: 0, TotalDocs: 0},
		},
		{
			name: "past last page", page: 5, limit: 10, total: 25, returned: 0,
			want: model.PaginationMeta{CurrentPage: 5, PerPage: 10, From: 41, To: 40, TotalPages: 3, TotalDocs: 25},
		},
		{
			name: "exact multiple", page: 2, limit: 5, total: 10, returned: 5,
			want: model.PaginationMeta{CurrentPage: 2, PerPage: 5, From: 6, To: 10, TotalPages: 2, TotalDocs: 10},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := pagination.Compute(tt.page, tt.limit, tt.total, tt.returned)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCompute_TotalPagesProperties(t *testing.T) {
	for limit := 1; limit <= 12; limit++ {
		for total := 0; total <= 60; total++ {
			meta := pagination.Compute(1, limit, total, min(total, limit))
			assert.GreaterOrEqual(t, meta.TotalPages, 0)
			assert.Equal(t, total == 0, meta.TotalPages == 0, "limit=%d total=%d", limit, total)
			assert.GreaterOrEqual(t, meta.TotalPages*limit, total)
			assert.Less(t, (meta.TotalPages-1)*limit, max(total, 1))
		}
	}
}

func TestCompute_PagesBeyondLastAreEmptyRanges(t *testing.T) {
	for limit := 1; limit <= 7; limit++ {
		for total := 0; total <= 30; total++ {
			last := pagination.Compute(1, limit, total, 0).TotalPages
			for page := last + 1; page <= last+3; page++ {
				meta := pagination.Compute(page, limit, total, 0)
				assert.Equal(t, meta.From-1, meta.To)
				assert.Greater(t, meta.From, total)
				assert.Equal(t, last, meta.TotalPages)
				assert.Equal(t, total, meta.TotalDocs)
			}
		}
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name      string
		page      int
		limit     int
		wantPage  int
		wantLimit int
	}{
		{name: "valid", page: 3, limit: 20, wantPage: 3, wantLimit: 20},
		{name: "zero page", page: 0, limit: 20, wantPage: pagination.DefaultPage, wantLimit: 20},
		{name: "negative page", page: -4, limit: 20, wantPage: pagination.DefaultPage, wantLimit: 20},
		{name: "zero limit", page: 2, limit: 0, wantPage: 2, wantLimit: pagination.DefaultLimit},
		{name: "negative limit", page: 2, limit: -1, wantPage: 2, wantLimit: pagination.DefaultLimit},
		{name: "limit above max", page: 1, limit: 1000, wantPage: 1, wantLimit: pagination.MaxLimit},
		{name: "page above max", page: math.MaxInt, limit: 10, wantPage: pagination.MaxPage, wantLimit: 10},
		{name: "page at max", page: pagination.MaxPage, limit: 1000, wantPage: pagination.MaxPage, wantLimit: pagination.MaxLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, limit := pagination.Normalize(tt.page, tt.limit)
			assert.Equal(t, tt.wantPage, page)
			assert.Equal(t, tt.wantLimit, limit)
		})
	}
}

func TestOffset(t *testing.T) {
	assert.Equal(t, 0, pagination.Offset(1, 10))
	assert.Equal(t, 10, pagination.Offset(2, 10))
	assert.Equal(t, 40, pagination.Offset(5, 10))
}

func TestCompute_HugePageStaysEmptyAndPositive(t *testing.T) {
	for _, limit := range []int{1, pagination.DefaultLimit, pagination.MaxLimit, 1000} {
		page, l := pagination.Normalize(math.MaxInt, limit)

		offset := pagination.Offset(page, l)
		assert.Positive(t, offset, "limit %d", limit)

		meta := pagination.Compute(page, l, 25, 0)
		assert.Equal(t, page, meta.CurrentPage)
		assert.Positive(t, meta.From, "limit %d", limit)
		assert.Equal(t, meta.From-1, meta.To, "limit %d", limit)
		assert.Equal(t, 25, meta.TotalDocs)
		assert.Equal(t, (25+l-1)/l, meta.TotalPages)
	}
}
