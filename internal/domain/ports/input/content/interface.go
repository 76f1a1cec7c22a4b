package content_service

import (
	"context"

	model "content-service/internal/domain/models"
)

//go:generate mockery --name Service --dir . --output ../../../../../mocks/content --outpkg mocks --filename ContentService.go
type Service interface {
	CreateUser(ctx context.Context, user *model.CreateUserDTO) (*model.User, error)
	CreatePostWithTags(ctx context.Context, post *model.CreatePostDTO) (*model.PostWithTags, error)
	ListPosts(ctx context.Context, query model.ListPostsQuery) (*model.PaginatedPosts, error)
}
