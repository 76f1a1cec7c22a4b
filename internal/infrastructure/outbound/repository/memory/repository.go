package memory

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"content-service/internal/domain/custom_errors"
	model "content-service/internal/domain/models"
)

type UserRepository struct {
	tx *Transaction
}

func (r *UserRepository) Create(ctx context.Context, user *model.User) (*model.User, error) {
	if err := r.tx.checkWritable(); err != nil {
		return nil, custom_errors.ErrUserCreateFailed
	}
	s := r.tx.state
	if _, exists := s.usernames[user.Username]; exists {
		r.tx.store.log.Debug("Username already exists", slog.String("username", user.Username))
		return nil, custom_errors.ErrUsernameTaken
	}

	created := &model.User{
		ID:        s.nextUserID,
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	}
	s.nextUserID++
	s.users[created.ID] = created
	s.usernames[created.Username] = created.ID
	return created, nil
}

type PostRepository struct {
	tx *Transaction
}

func (r *PostRepository) Create(ctx context.Context, post *model.Post) (*model.Post, error) {
	if err := r.tx.checkWritable(); err != nil {
		return nil, custom_errors.ErrPostCreateFailed
	}
	s := r.tx.state
	if post.CreatedBy != nil {
		if _, ok := s.users[*post.CreatedBy]; !ok {
			return nil, custom_errors.ErrCreatorNotFound
		}
	}

	created := &model.Post{
		ID:        s.nextPostID,
		CreatedBy: post.CreatedBy,
		Title:     post.Title,
		Body:      post.Body,
	}
	s.nextPostID++
	s.posts[created.ID] = created
	return created, nil
}

func (r *PostRepository) Search(ctx context.Context, filters model.PostFilters) ([]*model.Post, int, error) {
	if err := r.tx.checkOpen(); err != nil {
		return nil, 0, custom_errors.ErrPostSearchFailed
	}

	if filters.Offset < 0 {
		filters.Offset = 0
	}
	if filters.Limit < 0 {
		filters.Limit = 0
	}

	needle := strings.ToLower(filters.Search)
	matched := make([]*model.Post, 0)
	for _, p := range r.tx.state.posts {
		if needle == "" ||
			strings.Contains(strings.ToLower(p.Title), needle) ||
			strings.Contains(strings.ToLower(p.Body), needle) {
			matched = append(matched, p)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })

	total := len(matched)
	if filters.Offset >= total {
		return []*model.Post{}, total, nil
	}
	end := filters.Offset + filters.Limit
	if end > total || end < filters.Offset {
		end = total
	}
	return matched[filters.Offset:end], total, nil
}

func (r *PostRepository) AggregateTags(ctx context.Context, postIDs []int64) (map[int64][]string, error) {
	if err := r.tx.checkOpen(); err != nil {
		return nil, custom_errors.ErrPostTagsAggregate
	}
	s := r.tx.state
	result := make(map[int64][]string, len(postIDs))
	for _, id := range postIDs {
		result[id] = []string{}
	}
	for _, link := range s.links {
		names, ok := result[link.PostID]
		if !ok {
			continue
		}
		tag, ok := s.tags[link.TagID]
		if !ok {
			return nil, custom_errors.ErrPostTagsAggregate
		}
		result[link.PostID] = append(names, tag.Name)
	}
	return result, nil
}

type TagRepository struct {
	tx *Transaction
}

func (r *TagRepository) EnsureTags(ctx context.Context, names []string) (map[string]int64, error) {
	if len(names) == 0 {
		return map[string]int64{}, nil
	}
	if err := r.tx.checkWritable(); err != nil {
		return nil, custom_errors.ErrTagUpsertFailed
	}
	s := r.tx.state
	ids := make(map[string]int64, len(names))
	for _, name := range names {
		if _, seen := ids[name]; seen {
			continue
		}
		id, exists := s.tagsByName[name]
		if !exists {
			id = s.nextTagID
			s.nextTagID++
			s.tags[id] = &model.Tag{ID: id, Name: name}
			s.tagsByName[name] = id
		}
		ids[name] = id
	}
	return ids, nil
}

func (r *TagRepository) FindByNames(ctx context.Context, names []string) ([]*model.Tag, error) {
	if err := r.tx.checkOpen(); err != nil {
		return nil, custom_errors.ErrTagQueryFailed
	}
	s := r.tx.state
	tags := make([]*model.Tag, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		if id, ok := s.tagsByName[name]; ok {
			tags = append(tags, s.tags[id])
		}
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i].ID < tags[j].ID })
	return tags, nil
}

type AssociationRepository struct {
	tx *Transaction
}

func (r *AssociationRepository) Link(ctx context.Context, postID int64, tagIDs []int64) error {
	if len(tagIDs) == 0 {
		return nil
	}
	if err := r.tx.checkWritable(); err != nil {
		return custom_errors.ErrAssociationLink
	}
	if err := r.tx.store.injectedLinkFailure(); err != nil {
		r.tx.store.log.Debug("Injected link failure", slog.Int64("post_id", postID))
		return err
	}

	s := r.tx.state
	if _, ok := s.posts[postID]; !ok {
		return custom_errors.ErrAssociationMissing
	}
	for _, tagID := range tagIDs {
		if _, ok := s.tags[tagID]; !ok {
			return custom_errors.ErrAssociationMissing
		}
	}

	for _, tagID := range tagIDs {
		pair := model.PostTag{PostID: postID, TagID: tagID}
		if _, exists := s.linkSet[pair]; exists {
			continue
		}
		s.linkSet[pair] = struct{}{}
		s.links = append(s.links, pair)
	}
	return nil
}
