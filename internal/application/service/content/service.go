package content_service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"content-service/internal/domain/custom_errors"
	model "content-service/internal/domain/models"
	"content-service/internal/domain/pagination"
	content_service "content-service/internal/domain/ports/input/content"
	output "content-service/internal/domain/ports/output"
)

type ContentService struct {
	uow     output.UnitOfWork
	log     output.Logger
	metrics output.MetricsProvider
}

func NewContentService(uow output.UnitOfWork, log output.Logger, metrics output.MetricsProvider) content_service.Service {
	return &ContentService{
		uow:     uow,
		log:     log,
		metrics: metrics,
	}
}

func (s *ContentService) CreateUser(ctx context.Context, user *model.CreateUserDTO) (*model.User, error) {
	if user == nil || strings.TrimSpace(user.Username) == "" || strings.TrimSpace(user.FirstName) == "" {
		s.log.Debug("Rejected user without username or first name")
		return nil, custom_errors.ErrValidation
	}

	tx, err := s.uow.Begin(ctx)
	if err != nil {
		s.metrics.IncrementUserOperations("create", false)
		return nil, s.boundaryError("begin create user", err)
	}
	committed := false
	defer s.rollbackUnlessCommitted(ctx, tx, &committed)

	created, err := tx.UserRepository().Create(ctx, &model.User{
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	})
	if err != nil {
		s.metrics.IncrementUserOperations("create", false)
		return nil, s.boundaryError("create user", err, slog.String("username", user.Username))
	}

	if err := tx.Commit(ctx); err != nil {
		s.metrics.IncrementUserOperations("create", false)
		return nil, s.boundaryError("commit create user", err)
	}
	committed = true

	s.metrics.IncrementUserOperations("create", true)
	s.log.Info("User created", slog.Int64("user_id", created.ID))
	return created, nil
}

func (s *ContentService) CreatePostWithTags(ctx context.Context, post *model.CreatePostDTO) (*model.PostWithTags, error) {
	if err := validatePost(post); err != nil {
		s.log.Debug("Rejected post", slog.String("error", err.Error()))
		return nil, custom_errors.ErrValidation
	}
	names := uniqueNames(post.Tags)

	tx, err := s.uow.Begin(ctx)
	if err != nil {
		s.metrics.IncrementPostOperations("create", false)
		return nil, s.boundaryError("begin create post", err)
	}
	committed := false
	defer s.rollbackUnlessCommitted(ctx, tx, &committed)

	createdPost, err := tx.PostRepository().Create(ctx, &model.Post{
		CreatedBy: post.CreatedBy,
		Title:     post.Title,
		Body:      post.Body,
	})
	if err != nil {
		s.metrics.IncrementPostOperations("create", false)
		return nil, s.boundaryError("create post", err)
	}

	if len(names) > 0 {
		ids, err := tx.TagRepository().EnsureTags(ctx, names)
		if err != nil {
			s.metrics.IncrementPostOperations("create", false)
			return nil, s.boundaryError("ensure tags", err, slog.Int64("post_id", createdPost.ID))
		}

		tagIDs := make([]int64, 0, len(names))
		for _, name := range names {
			id, ok := ids[name]
			if !ok {
				s.metrics.IncrementPostOperations("create", false)
				return nil, s.boundaryError("resolve tag", custom_errors.ErrTagNotResolved, slog.String("tag", name))
			}
			tagIDs = append(tagIDs, id)
		}

		if err := tx.AssociationRepository().Link(ctx, createdPost.ID, tagIDs); err != nil {
			s.metrics.IncrementPostOperations("create", false)
			return nil, s.boundaryError("link tags", err, slog.Int64("post_id", createdPost.ID))
		}
	}

	if err := tx.Commit(ctx); err != nil {
		s.metrics.IncrementPostOperations("create", false)
		return nil, s.boundaryError("commit create post", err, slog.Int64("post_id", createdPost.ID))
	}
	committed = true

	s.metrics.IncrementPostOperations("create", true)
	s.log.Info("Post created",
		slog.Int64("post_id", createdPost.ID),
		slog.Int("tags", len(names)))
	return &model.PostWithTags{Post: createdPost, Tags: names}, nil
}

func (s *ContentService) ListPosts(ctx context.Context, query model.ListPostsQuery) (*model.PaginatedPosts, error) {
	page, limit := pagination.Normalize(query.Page, query.Limit)

	tx, err := s.uow.BeginReadOnly(ctx)
	if err != nil {
		s.metrics.IncrementPostOperations("list", false)
		return nil, s.boundaryError("begin list posts", err)
	}
	committed := false
	defer s.rollbackUnlessCommitted(ctx, tx, &committed)

	posts, total, err := tx.PostRepository().Search(ctx, model.PostFilters{
		Search: query.Search,
		Offset: pagination.Offset(page, limit),
		Limit:  limit,
	})
	if err != nil {
		s.metrics.IncrementPostOperations("list", false)
		return nil, s.boundaryError("search posts", err, slog.String("search", query.Search))
	}

	records := make([]*model.PostWithTags, 0, len(posts))
	if len(posts) > 0 {
		ids := make([]int64, 0, len(posts))
		for _, p := range posts {
			ids = append(ids, p.ID)
		}
		tags, err := tx.PostRepository().AggregateTags(ctx, ids)
		if err != nil {
			s.metrics.IncrementPostOperations("list", false)
			return nil, s.boundaryError("aggregate tags", err)
		}
		for _, p := range posts {
			names := tags[p.ID]
			if names == nil {
				names = []string{}
			}
			records = append(records, &model.PostWithTags{Post: p, Tags: names})
		}
	}

	if err := tx.Commit(ctx); err != nil {
		s.metrics.IncrementPostOperations("list", false)
		return nil, s.boundaryError("commit list posts", err)
	}
	committed = true

	s.metrics.IncrementPostOperations("list", true)
	return &model.PaginatedPosts{
		Records: records,
		Meta:    pagination.Compute(page, limit, total, len(records)),
	}, nil
}

func (s *ContentService) rollbackUnlessCommitted(ctx context.Context, tx output.Transaction, committed *bool) {
	if *committed {
		return
	}
	if err := tx.Rollback(ctx); err != nil {
		s.log.Error("Failed to rollback transaction", slog.String("error", err.Error()))
	}
}

// boundaryError logs the storage cause and collapses it into the error kinds
// callers may act on.
func (s *ContentService) boundaryError(step string, err error, attrs ...any) error {
	attrs = append(attrs, slog.String("step", step), slog.String("error", err.Error()))
	if errors.Is(err, custom_errors.ErrConnectionTimeout) {
		s.log.Warn("Storage resource unavailable", attrs...)
		return custom_errors.ErrResourceUnavailable
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		s.log.Warn("Request context ended", attrs...)
		return custom_errors.ErrResourceUnavailable
	}
	s.log.Error("Storage failure", attrs...)
	return custom_errors.ErrStorageFailure
}

func validatePost(post *model.CreatePostDTO) error {
	if post == nil {
		return errors.New("post is nil")
	}
	if strings.TrimSpace(post.Title) == "" {
		return errors.New("title is empty")
	}
	if post.CreatedBy != nil && *post.CreatedBy < 1 {
		return errors.New("creator id is not positive")
	}
	for _, name := range post.Tags {
		if strings.TrimSpace(name) == "" {
			return errors.New("tag name is empty")
		}
	}
	return nil
}

// uniqueNames drops repeated tag names, keeping first occurrences in order.
func uniqueNames(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}
