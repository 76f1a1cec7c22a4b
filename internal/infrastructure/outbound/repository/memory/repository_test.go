package memory_test

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"content-service/internal/domain/custom_errors"
	model "content-service/internal/domain/models"
	ports "content-service/internal/domain/ports/output"
	"content-service/internal/infrastructure/logger"
	"content-service/internal/infrastructure/outbound/repository/memory"
)

func setupStore(t *testing.T) (*memory.Store, ports.UnitOfWork) {
	t.Helper()
	store := memory.NewStore(4, 50*time.Millisecond, logger.New("test"))
	return store, memory.NewUnitOfWork(store)
}

func begin(t *testing.T, uow ports.UnitOfWork) ports.Transaction {
	t.Helper()
	tx, err := uow.Begin(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { _ = tx.Rollback(context.Background()) })
	return tx
}

func TestTagRepository_EnsureTags(t *testing.T) {
	store, uow := setupStore(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		names []string
		want  int
	}{
		{name: "new names", names: []string{"go", "sql"}, want: 2},
		{name: "existing names", names: []string{"go", "sql"}, want: 2},
		{name: "duplicates in input", names: []string{"go", "go", "db"}, want: 2},
		{name: "empty input", names: nil, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := begin(t, uow)
			ids, err := tx.TagRepository().EnsureTags(ctx, tt.names)
			require.NoError(t, err)
			assert.Len(t, ids, tt.want)
			for _, name := range tt.names {
				assert.NotZero(t, ids[name])
			}
			require.NoError(t, tx.Commit(ctx))
		})
	}

	for _, name := range []string{"go", "sql", "db"} {
		assert.Equal(t, 1, store.CountTagsNamed(name))
	}
}

func TestTagRepository_EnsureTagsReturnsSameIDs(t *testing.T) {
	_, uow := setupStore(t)
	ctx := context.Background()

	tx := begin(t, uow)
	first, err := tx.TagRepository().EnsureTags(ctx, []string{"a", "b"})
	require.NoError(t, err)
	require.NoError(t, tx.Commit(ctx))

	tx = begin(t, uow)
	second, err := tx.TagRepository().EnsureTags(ctx, []string{"b", "a"})
	require.NoError(t, err)
	require.NoError(t, tx.Commit(ctx))

	assert.Equal(t, first, second)
}

func TestTagRepository_FindByNames(t *testing.T) {
	_, uow := setupStore(t)
	ctx := context.Background()

	tx := begin(t, uow)
	_, err := tx.TagRepository().EnsureTags(ctx, []string{"tag1", "tag2", "tag3"})
	require.NoError(t, err)

	tags, err := tx.TagRepository().FindByNames(ctx, []string{"tag1", "missing", "tag3"})
	require.NoError(t, err)
	require.Len(t, tags, 2)
	assert.Equal(t, "tag1", tags[0].Name)
	assert.Equal(t, "tag3", tags[1].Name)
}

func TestAssociationRepository_Link(t *testing.T) {
	store, uow := setupStore(t)
	ctx := context.Background()

	tx := begin(t, uow)
	post, err := tx.PostRepository().Create(ctx, &model.Post{Title: "t", Body: "b"})
	require.NoError(t, err)
	ids, err := tx.TagRepository().EnsureTags(ctx, []string{"x", "y"})
	require.NoError(t, err)

	require.NoError(t, tx.AssociationRepository().Link(ctx, post.ID, []int64{ids["x"], ids["y"]}))
	require.NoError(t, tx.AssociationRepository().Link(ctx, post.ID, []int64{ids["y"], ids["x"]}))
	require.NoError(t, tx.Commit(ctx))

	assert.Equal(t, 2, store.CountLinks(post.ID))

	tx = begin(t, uow)
	tags, err := tx.PostRepository().AggregateTags(ctx, []int64{post.ID})
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y"}, tags[post.ID])
}

func TestAssociationRepository_LinkMissingRows(t *testing.T) {
	_, uow := setupStore(t)
	ctx := context.Background()

	tx := begin(t, uow)
	post, err := tx.PostRepository().Create(ctx, &model.Post{Title: "t", Body: "b"})
	require.NoError(t, err)

	err = tx.AssociationRepository().Link(ctx, post.ID, []int64{999})
	assert.ErrorIs(t, err, custom_errors.ErrAssociationMissing)

	err = tx.AssociationRepository().Link(ctx, 12345, []int64{})
	assert.NoError(t, err)
}

func TestPostRepository_Search(t *testing.T) {
	_, uow := setupStore(t)
	ctx := context.Background()

	tx := begin(t, uow)
	for _, p := range []model.Post{
		{Title: "Hello world", Body: "first"},
		{Title: "Other", Body: "says HELLO too"},
		{Title: "Nothing", Body: "here"},
	} {
		_, err := tx.PostRepository().Create(ctx, &p)
		require.NoError(t, err)
	}
	require.NoError(t, tx.Commit(ctx))

	tests := []struct {
		name      string
		filters   model.PostFilters
		wantIDs   []int64
		wantTotal int
	}{
		{name: "case insensitive match", filters: model.PostFilters{Search: "hello", Limit: 10}, wantIDs: []int64{1, 2}, wantTotal: 2},
		{name: "no match", filters: model.PostFilters{Search: "xyz", Limit: 10}, wantIDs: []int64{}, wantTotal: 0},
		{name: "empty search", filters: model.PostFilters{Limit: 2}, wantIDs: []int64{1, 2}, wantTotal: 3},
		{name: "second page", filters: model.PostFilters{Offset: 2, Limit: 2}, wantIDs: []int64{3}, wantTotal: 3},
		{name: "offset past end", filters: model.PostFilters{Offset: 10, Limit: 2}, wantIDs: []int64{}, wantTotal: 3},
		{name: "offset near max int", filters: model.PostFilters{Offset: math.MaxInt - 1, Limit: 100}, wantIDs: []int64{}, wantTotal: 3},
		{name: "negative offset", filters: model.PostFilters{Offset: -5, Limit: 2}, wantIDs: []int64{1, 2}, wantTotal: 3},
		{name: "negative limit", filters: model.PostFilters{Limit: -1}, wantIDs: []int64{}, wantTotal: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx, err := uow.BeginReadOnly(ctx)
			require.NoError(t, err)
			defer tx.Rollback(ctx)

			posts, total, err := tx.PostRepository().Search(ctx, tt.filters)
			require.NoError(t, err)
			assert.Equal(t, tt.wantTotal, total)
			got := make([]int64, 0, len(posts))
			for _, p := range posts {
				got = append(got, p.ID)
			}
			assert.Equal(t, tt.wantIDs, got)
		})
	}
}

func TestPostRepository_CreateUnknownCreator(t *testing.T) {
	_, uow := setupStore(t)
	ctx := context.Background()

	tx := begin(t, uow)
	creator := int64(42)
	_, err := tx.PostRepository().Create(ctx, &model.Post{CreatedBy: &creator, Title: "t", Body: "b"})
	assert.ErrorIs(t, err, custom_errors.ErrCreatorNotFound)
}

func TestPostRepository_AggregateTags(t *testing.T) {
	_, uow := setupStore(t)
	ctx := context.Background()

	tx := begin(t, uow)
	tagged, err := tx.PostRepository().Create(ctx, &model.Post{Title: "a", Body: "b"})
	require.NoError(t, err)
	bare, err := tx.PostRepository().Create(ctx, &model.Post{Title: "c", Body: "d"})
	require.NoError(t, err)
	ids, err := tx.TagRepository().EnsureTags(ctx, []string{"z", "a"})
	require.NoError(t, err)
	require.NoError(t, tx.AssociationRepository().Link(ctx, tagged.ID, []int64{ids["z"], ids["a"]}))

	tags, err := tx.PostRepository().AggregateTags(ctx, []int64{tagged.ID, bare.ID})
	require.NoError(t, err)
	assert.Equal(t, []string{"z", "a"}, tags[tagged.ID])
	assert.NotNil(t, tags[bare.ID])
	assert.Empty(t, tags[bare.ID])
}

func TestUserRepository_Create(t *testing.T) {
	_, uow := setupStore(t)
	ctx := context.Background()

	tx := begin(t, uow)
	user, err := tx.UserRepository().Create(ctx, &model.User{Username: "alice", FirstName: "Alice"})
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.Nil(t, user.LastName)

	_, err = tx.UserRepository().Create(ctx, &model.User{Username: "alice", FirstName: "Other"})
	assert.ErrorIs(t, err, custom_errors.ErrUsernameTaken)
}

func TestUnitOfWork_RollbackDiscardsWrites(t *testing.T) {
	store, uow := setupStore(t)
	ctx := context.Background()

	tx, err := uow.Begin(ctx)
	require.NoError(t, err)
	_, err = tx.TagRepository().EnsureTags(ctx, []string{"gone"})
	require.NoError(t, err)
	require.NoError(t, tx.Rollback(ctx))
	require.NoError(t, tx.Rollback(ctx))

	assert.Equal(t, 0, store.CountTagsNamed("gone"))
}

func TestUnitOfWork_ReadOnlyRejectsWrites(t *testing.T) {
	_, uow := setupStore(t)
	ctx := context.Background()

	tx, err := uow.BeginReadOnly(ctx)
	require.NoError(t, err)
	defer tx.Rollback(ctx)

	_, err = tx.TagRepository().EnsureTags(ctx, []string{"x"})
	assert.Error(t, err)
}

func TestUnitOfWork_AcquireTimeout(t *testing.T) {
	store := memory.NewStore(1, 20*time.Millisecond, logger.New("test"))
	uow := memory.NewUnitOfWork(store)
	ctx := context.Background()

	held, err := uow.BeginReadOnly(ctx)
	require.NoError(t, err)

	_, err = uow.Begin(ctx)
	assert.ErrorIs(t, err, custom_errors.ErrConnectionTimeout)

	require.NoError(t, held.Commit(ctx))
	tx, err := uow.Begin(ctx)
	require.NoError(t, err)
	require.NoError(t, tx.Rollback(ctx))
}
