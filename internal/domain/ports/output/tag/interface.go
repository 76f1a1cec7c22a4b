package tag_repository

import (
	"context"

	model "content-service/internal/domain/models"
)

//go:generate mockery --name Repository --dir . --output ../../../../../mocks/tag --outpkg mocks --filename TagRepository.go
type Repository interface {
	// EnsureTags makes every name exist exactly once and returns the id of
	// each distinct name. Duplicate names, existing names and lost insert
	// races are not errors.
	EnsureTags(ctx context.Context, names []string) (map[string]int64, error)
	FindByNames(ctx context.Context, names []string) ([]*model.Tag, error)
}
