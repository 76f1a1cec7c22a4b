package association_repository_postgres

import (
	"context"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"

	"content-service/internal/domain/custom_errors"
	ports "content-service/internal/domain/ports/output"
	"content-service/internal/infrastructure/outbound/repository/postgres/db"
)

type AssociationRepository struct {
	log     ports.Logger
	db      db.PgDB
	metrics ports.MetricsProvider
}

func NewAssociationRepository(db db.PgDB, log ports.Logger, metrics ports.MetricsProvider) *AssociationRepository {
	return &AssociationRepository{db: db, log: log, metrics: metrics}
}

// Link queues one insert per tag id. Existing pairs hit ON CONFLICT and are
// skipped without aborting the surrounding transaction.
func (a *AssociationRepository) Link(ctx context.Context, postID int64, tagIDs []int64) error {
	start := time.Now()
	if len(tagIDs) == 0 {
		return nil
	}
	a.log.Debug("Linking tags to post", slog.Int64("post_id", postID), slog.Int("tags_count", len(tagIDs)))

	batch := &pgx.Batch{}
	query := `
		INSERT INTO posts_tags (post_id, tag_id)
		VALUES (@post_id, @tag_id)
		ON CONFLICT (post_id, tag_id) DO NOTHING`

	for _, tagID := range tagIDs {
		batch.Queue(query, pgx.NamedArgs{
			"post_id": postID,
			"tag_id":  tagID,
		})
	}

	br := a.db.SendBatch(ctx, batch)
	defer func(br pgx.BatchResults) {
		err := br.Close()
		if err != nil {
			a.log.Debug("Batch close after link returned error", slog.String("error", err.Error()), slog.Int64("post_id", postID))
		}
	}(br)

	linked := 0
	for range tagIDs {
		tag, err := br.Exec()
		if err != nil {
			a.metrics.IncrementTagOperations("link", false)
			a.metrics.RecordDatabaseQueryDuration("association_link", time.Since(start))
			a.log.Error("Error linking tag to post",
				slog.Int64("post_id", postID),
				slog.String("constraint", db.ConstraintName(err)),
				slog.String("error", err.Error()))
			switch {
			case db.IsForeignKeyViolation(err):
				return custom_errors.ErrAssociationMissing
			case db.IsTimeout(err):
				return custom_errors.ErrConnectionTimeout
			default:
				return custom_errors.ErrAssociationLink
			}
		}
		linked += int(tag.RowsAffected())
	}

	a.metrics.IncrementTagOperations("link", true)
	a.metrics.RecordDatabaseQueryDuration("association_link", time.Since(start))
	a.log.Debug("Linked tags to post",
		slog.Int64("post_id", postID),
		slog.Int("inserted", linked),
		slog.Int("skipped", len(tagIDs)-linked))
	return nil
}
