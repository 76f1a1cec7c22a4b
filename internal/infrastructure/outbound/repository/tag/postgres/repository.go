package tag_repository_postgres

import (
	"context"
	"log/slog"
	"slices"
	"time"

	"github.com/jackc/pgx/v5"

	"content-service/internal/domain/custom_errors"
	model "content-service/internal/domain/models"
	ports "content-service/internal/domain/ports/output"
	"content-service/internal/infrastructure/outbound/repository/postgres/db"
)

type TagRepository struct {
	log     ports.Logger
	db      db.PgDB
	metrics ports.MetricsProvider
}

func NewTagRepository(db db.PgDB, log ports.Logger, metrics ports.MetricsProvider) *TagRepository {
	return &TagRepository{db: db, log: log, metrics: metrics}
}

func (t *TagRepository) FindByNames(ctx context.Context, names []string) ([]*model.Tag, error) {
	start := time.Now()
	if len(names) == 0 {
		return []*model.Tag{}, nil
	}

	query := `SELECT id, name FROM tags WHERE name = ANY(@names) ORDER BY id`
	args := pgx.NamedArgs{"names": names}

	rows, err := t.db.Query(ctx, query, args)
	if err != nil {
		t.metrics.IncrementDatabaseQueries("tag_find_by_names", false)
		t.metrics.RecordDatabaseQueryDuration("tag_find_by_names", time.Since(start))
		t.log.Error("Error finding tags by names", slog.String("error", err.Error()))
		return nil, custom_errors.ErrTagQueryFailed
	}
	defer rows.Close()

	tags := make([]*model.Tag, 0, len(names))
	for rows.Next() {
		var tag model.Tag
		if err := rows.Scan(&tag.ID, &tag.Name); err != nil {
			t.metrics.IncrementDatabaseQueries("tag_find_by_names", false)
			t.metrics.RecordDatabaseQueryDuration("tag_find_by_names", time.Since(start))
			t.log.Error("Error scanning tag row", slog.String("error", err.Error()))
			return nil, custom_errors.ErrDatabaseScan
		}
		tags = append(tags, &tag)
	}
	if err := rows.Err(); err != nil {
		t.metrics.IncrementDatabaseQueries("tag_find_by_names", false)
		t.metrics.RecordDatabaseQueryDuration("tag_find_by_names", time.Since(start))
		t.log.Error("Error iterating tag rows", slog.String("error", err.Error()))
		return nil, custom_errors.ErrTagQueryFailed
	}

	t.metrics.IncrementDatabaseQueries("tag_find_by_names", true)
	t.metrics.RecordDatabaseQueryDuration("tag_find_by_names", time.Since(start))
	return tags, nil
}

// EnsureTags inserts the missing names with ON CONFLICT DO NOTHING and then
// resolves all ids with one lookup. A concurrent insert of the same name
// makes our insert a no-op once the other transaction commits, and the
// lookup then sees the winner's row. Names are inserted in sorted order so
// that overlapping batches wait on each other instead of deadlocking.
func (t *TagRepository) EnsureTags(ctx context.Context, names []string) (map[string]int64, error) {
	start := time.Now()
	distinct := distinctNames(names)
	if len(distinct) == 0 {
		return map[string]int64{}, nil
	}
	t.log.Debug("Ensuring tags", slog.Int("requested", len(names)), slog.Int("distinct", len(distinct)))

	batch := &pgx.Batch{}
	query := `INSERT INTO tags (name) VALUES (@name) ON CONFLICT (name) DO NOTHING`
	for _, name := range distinct {
		batch.Queue(query, pgx.NamedArgs{"name": name})
	}

	if err := t.execUpserts(ctx, batch, len(distinct)); err != nil {
		t.metrics.IncrementTagOperations("ensure", false)
		t.metrics.RecordDatabaseQueryDuration("tag_ensure", time.Since(start))
		return nil, err
	}

	tags, err := t.FindByNames(ctx, distinct)
	if err != nil {
		t.metrics.IncrementTagOperations("ensure", false)
		t.metrics.RecordDatabaseQueryDuration("tag_ensure", time.Since(start))
		return nil, err
	}

	ids := make(map[string]int64, len(tags))
	for _, tag := range tags {
		ids[tag.Name] = tag.ID
	}
	for _, name := range distinct {
		if _, ok := ids[name]; !ok {
			t.metrics.IncrementTagOperations("ensure", false)
			t.metrics.RecordDatabaseQueryDuration("tag_ensure", time.Since(start))
			t.log.Error("Tag missing after upsert", slog.String("name", name))
			return nil, custom_errors.ErrTagNotResolved
		}
	}

	t.metrics.IncrementTagOperations("ensure", true)
	t.metrics.RecordDatabaseQueryDuration("tag_ensure", time.Since(start))
	return ids, nil
}

func (t *TagRepository) execUpserts(ctx context.Context, batch *pgx.Batch, n int) error {
	br := t.db.SendBatch(ctx, batch)
	defer func(br pgx.BatchResults) {
		err := br.Close()
		if err != nil {
			t.log.Debug("Batch close after tag upsert returned error", slog.String("error", err.Error()))
		}
	}(br)

	for i := 0; i < n; i++ {
		if _, err := br.Exec(); err != nil {
			t.log.Error("Error upserting tag", slog.String("error", err.Error()))
			if db.IsTimeout(err) {
				return custom_errors.ErrConnectionTimeout
			}
			return custom_errors.ErrTagUpsertFailed
		}
	}
	return nil
}

// distinctNames returns the unique names in ascending byte order.
func distinctNames(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	slices.Sort(out)
	return out
}
