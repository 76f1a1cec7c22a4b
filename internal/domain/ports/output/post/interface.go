package post_repository

import (
	"context"

	model "content-service/internal/domain/models"
)

//go:generate mockery --name Repository --dir . --output ../../../../../mocks/post --outpkg mocks --filename PostRepository.go
type Repository interface {
	// Create stores title and body verbatim and returns the stored row.
	Create(ctx context.Context, post *model.Post) (*model.Post, error)
	// Search returns one page of matching posts ordered by id and the number
	// of posts matching the same predicate regardless of the page bounds.
	Search(ctx context.Context, filters model.PostFilters) ([]*model.Post, int, error)
	// AggregateTags returns tag names per post for exactly the given ids, in
	// link order. Every requested id has an entry, possibly empty.
	AggregateTags(ctx context.Context, postIDs []int64) (map[int64][]string, error)
}
