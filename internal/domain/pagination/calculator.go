// Package pagination computes page metadata for offset/limit listings.
package pagination

import (
	"math"

	model "content-service/internal/domain/models"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
	// MaxPage keeps (page-1)*MaxLimit+MaxLimit within int.
	MaxPage = math.MaxInt/MaxLimit - 1
)

// Normalize replaces out-of-range arguments with defaults so that a listing
// request is always satisfiable.
func Normalize(page, limit int) (int, int) {
	if page < 1 {
		page = DefaultPage
	}
	if page > MaxPage {
		page = MaxPage
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return page, limit
}

// Offset returns the number of rows preceding the given page.
func Offset(page, limit int) int {
	return (page - 1) * limit
}

// Compute builds the metadata for a page that returned returnedCount rows out
// of totalCount matching rows. page and limit must already be normalized.
func Compute(page, limit, totalCount, returnedCount int) model.PaginationMeta {
	totalPages := 0
	if totalCount > 0 {
		totalPages = (totalCount + limit - 1) / limit
	}

	from := Offset(page, limit) + 1
	to := from - 1
	if returnedCount > 0 {
		to = from + returnedCount - 1
	}

	return model.PaginationMeta{
		CurrentPage: page,
		PerPage:     limit,
		From:        from,
		To:          to,
		TotalPages:  totalPages,
		TotalDocs:   totalCount,
	}
}
