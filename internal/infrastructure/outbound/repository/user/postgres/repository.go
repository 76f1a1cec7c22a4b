package user_repository_postgres

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

type UserRepository struct {
	log     ports.Logger
	db      db.PgDB
	metrics ports.MetricsProvider
}

func NewUserRepository(db db.PgDB, log ports.Logger, metrics ports.MetricsProvider) *UserRepository {
	return &UserRepository{db: db, log: log, metrics: metrics}
}

func (u *UserRepository) Create(ctx context.Context, user *model.User) (*model.User, error) {
	start := time.Now()
	u.log.Debug("Creating user", slog.String("username", user.Username))

	query := `
		INSERT INTO users (username, first_name, last_name)
		VALUES (@username, @first_name, @last_name)
		RETURNING id, username, first_name, last_name`

	args := pgx.NamedArgs{
		"username":   user.Username,
		"first_name": user.FirstName,
		"last_name":  user.LastName,
	}

	var created model.User
	err := u.db.QueryRow(ctx, query, args).Scan(
		&created.ID,
		&created.Username,
		&created.FirstName,
		&created.LastName,
	)
	if err != nil {
		u.metrics.IncrementDatabaseQueries("user_create", false)
		u.metrics.RecordDatabaseQueryDuration("user_create", time.Since(start))
		if db.IsUniqueViolation(err) {
			u.log.Debug("Username already taken",
				slog.String("username", user.Username),
				slog.String("constraint", db.ConstraintName(err)))
			return nil, custom_errors.ErrUsernameTaken
		}
		u.log.Error("Error creating user", slog.String("username", user.Username), slog.String("error", err.Error()))
		if db.IsTimeout(err) {
			return nil, custom_errors.ErrConnectionTimeout
		}
		return nil, custom_errors.ErrUserCreateFailed
	}

	u.metrics.IncrementDatabaseQueries("user_create", true)
	u.metrics.RecordDatabaseQueryDuration("user_create", time.Since(start))
	u.log.Debug("Successfully created user", slog.Int64("id", created.ID))
	return &created, nil
}
