package post_repository_postgres

import (
	"context"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"

	"content-service/internal/domain/custom_errors"
	model "content-service/internal/domain/models"
	ports "content-service/internal/domain/ports/output"
	"content-service/internal/infrastructure/outbound/repository/postgres/db"
)

type PostRepository struct {
	log     ports.Logger
	db      db.PgDB
	metrics ports.MetricsProvider
}

func NewPostRepository(db db.PgDB, log ports.Logger, metrics ports.MetricsProvider) *PostRepository {
	return &PostRepository{db: db, log: log, metrics: metrics}
}

func (p *PostRepository) Create(ctx context.Context, post *model.Post) (*model.Post, error) {
	start := time.Now()
	p.log.Debug("Creating new post", slog.Any("created_by", post.CreatedBy), slog.String("title", post.Title))

	args := pgx.NamedArgs{
		"created_by": post.CreatedBy,
		"title":      post.Title,
		"body":       post.Body,
	}

	query := `
		INSERT INTO posts (created_by, title, body)
		VALUES (@created_by, @title, @body)
		RETURNING id, created_by, title, body`

	var createdPost model.Post
	err := p.db.QueryRow(ctx, query, args).Scan(
		&createdPost.ID,
		&createdPost.CreatedBy,
		&createdPost.Title,
		&createdPost.Body,
	)
	if err != nil {
		p.metrics.IncrementDatabaseQueries("post_create", false)
		p.metrics.RecordDatabaseQueryDuration("post_create", time.Since(start))
		p.log.Error("Error creating post",
			slog.String("constraint", db.ConstraintName(err)),
			slog.String("error", err.Error()))
		switch {
		case db.IsForeignKeyViolation(err):
			return nil, custom_errors.ErrCreatorNotFound
		case db.IsTimeout(err):
			return nil, custom_errors.ErrConnectionTimeout
		default:
			return nil, custom_errors.ErrPostCreateFailed
		}
	}

	p.metrics.IncrementDatabaseQueries("post_create", true)
	p.metrics.RecordDatabaseQueryDuration("post_create", time.Since(start))
	p.log.Debug("Successfully created post", slog.Int64("id", createdPost.ID))
	return &createdPost, nil
}

// searchCondition is shared by the page and the count query so that both
// apply the same predicate.
func searchCondition(search string, args pgx.NamedArgs) string {
	if search == "" {
		return ""
	}
	args["pattern"] = db.ContainsPattern(search)
	return ` WHERE (p.title ILIKE @pattern ESCAPE '\' OR p.body ILIKE @pattern ESCAPE '\')`
}

func (p *PostRepository) Search(ctx context.Context, filters model.PostFilters) ([]*model.Post, int, error) {
	start := time.Now()
	if filters.Offset < 0 {
		filters.Offset = 0
	}
	if filters.Limit < 0 {
		filters.Limit = 0
	}
	p.log.Debug("Searching posts",
		slog.String("search", filters.Search),
		slog.Int("offset", filters.Offset),
		slog.Int("limit", filters.Limit))

	args := pgx.NamedArgs{}
	condition := searchCondition(filters.Search, args)

	countQuery := `SELECT COUNT(*) FROM posts p` + condition
	var total int
	if err := p.db.QueryRow(ctx, countQuery, args).Scan(&total); err != nil {
		p.metrics.IncrementDatabaseQueries("post_search", false)
		p.metrics.RecordDatabaseQueryDuration("post_search", time.Since(start))
		p.log.Error("Error counting posts", slog.String("error", err.Error()))
		return nil, 0, p.searchError(err)
	}

	posts := make([]*model.Post, 0, filters.Limit)
	if total == 0 || filters.Offset >= total {
		p.metrics.IncrementDatabaseQueries("post_search", true)
		p.metrics.RecordDatabaseQueryDuration("post_search", time.Since(start))
		p.log.Debug("No posts on requested page", slog.Int("total", total))
		return posts, total, nil
	}

	pageArgs := pgx.NamedArgs{"limit": filters.Limit, "offset": filters.Offset}
	for k, v := range args {
		pageArgs[k] = v
	}
	pageQuery := `SELECT p.id, p.created_by, p.title, p.body FROM posts p` + condition +
		` ORDER BY p.id ASC LIMIT @limit OFFSET @offset`

	rows, err := p.db.Query(ctx, pageQuery, pageArgs)
	if err != nil {
		p.metrics.IncrementDatabaseQueries("post_search", false)
		p.metrics.RecordDatabaseQueryDuration("post_search", time.Since(start))
		p.log.Error("Error listing posts", slog.String("error", err.Error()))
		return nil, 0, p.searchError(err)
	}
	defer rows.Close()

	for rows.Next() {
		var post model.Post
		if err := rows.Scan(&post.ID, &post.CreatedBy, &post.Title, &post.Body); err != nil {
			p.metrics.IncrementDatabaseQueries("post_search", false)
			p.metrics.RecordDatabaseQueryDuration("post_search", time.Since(start))
			p.log.Error("Error scanning post during Search", slog.String("error", err.Error()))
			return nil, 0, custom_errors.ErrDatabaseScan
		}
		posts = append(posts, &post)
	}
	if err := rows.Err(); err != nil {
		p.metrics.IncrementDatabaseQueries("post_search", false)
		p.metrics.RecordDatabaseQueryDuration("post_search", time.Since(start))
		p.log.Error("Error iterating rows during Search", slog.String("error", err.Error()))
		return nil, 0, p.searchError(err)
	}

	p.metrics.IncrementDatabaseQueries("post_search", true)
	p.metrics.RecordDatabaseQueryDuration("post_search", time.Since(start))
	p.log.Debug("Searched posts", slog.Int("returned", len(posts)), slog.Int("total", total))
	return posts, total, nil
}

func (p *PostRepository) searchError(err error) error {
	if db.IsTimeout(err) {
		return custom_errors.ErrConnectionTimeout
	}
	return custom_errors.ErrPostSearchFailed
}

// AggregateTags runs one join over the associations of exactly postIDs, so
// the cost is bounded by the page size rather than by the corpus.
func (p *PostRepository) AggregateTags(ctx context.Context, postIDs []int64) (map[int64][]string, error) {
	start := time.Now()
	result := make(map[int64][]string, len(postIDs))
	for _, id := range postIDs {
		result[id] = []string{}
	}
	if len(postIDs) == 0 {
		return result, nil
	}

	query := `
		SELECT pt.post_id, t.name
		FROM posts_tags pt
		INNER JOIN tags t ON t.id = pt.tag_id
		WHERE pt.post_id = ANY(@post_ids)
		ORDER BY pt.post_id, pt.seq`

	rows, err := p.db.Query(ctx, query, pgx.NamedArgs{"post_ids": postIDs})
	if err != nil {
		p.metrics.IncrementDatabaseQueries("post_aggregate_tags", false)
		p.metrics.RecordDatabaseQueryDuration("post_aggregate_tags", time.Since(start))
		p.log.Error("Error aggregating tags", slog.String("error", err.Error()))
		if db.IsTimeout(err) {
			return nil, custom_errors.ErrConnectionTimeout
		}
		return nil, custom_errors.ErrPostTagsAggregate
	}
	defer rows.Close()

	for rows.Next() {
		var (
			postID int64
			name   string
		)
		if err := rows.Scan(&postID, &name); err != nil {
			p.metrics.IncrementDatabaseQueries("post_aggregate_tags", false)
			p.metrics.RecordDatabaseQueryDuration("post_aggregate_tags", time.Since(start))
			p.log.Error("Error scanning aggregated tag", slog.String("error", err.Error()))
			return nil, custom_errors.ErrDatabaseScan
		}
		result[postID] = append(result[postID], name)
	}
	if err := rows.Err(); err != nil {
		p.metrics.IncrementDatabaseQueries("post_aggregate_tags", false)
		p.metrics.RecordDatabaseQueryDuration("post_aggregate_tags", time.Since(start))
		p.log.Error("Error iterating aggregated tags", slog.String("error", err.Error()))
		return nil, custom_errors.ErrPostTagsAggregate
	}

	p.metrics.IncrementDatabaseQueries("post_aggregate_tags", true)
	p.metrics.RecordDatabaseQueryDuration("post_aggregate_tags", time.Since(start))
	return result, nil
}
