package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"content-service/internal/domain/custom_errors"
	ports "content-service/internal/domain/ports/output"
	association_repository "content-service/internal/domain/ports/output/association"
	post_repository "content-service/internal/domain/ports/output/post"
	tag_repository "content-service/internal/domain/ports/output/tag"
	user_repository "content-service/internal/domain/ports/output/user"
	association_repository_postgres "content-service/internal/infrastructure/outbound/repository/association/postgres"
	post_repository_postgres "content-service/internal/infrastructure/outbound/repository/post/postgres"
	tag_repository_postgres "content-service/internal/infrastructure/outbound/repository/tag/postgres"
	user_repository_postgres "content-service/internal/infrastructure/outbound/repository/user/postgres"
)

var (
	readWriteTx = pgx.TxOptions{IsoLevel: pgx.ReadCommitted, AccessMode: pgx.ReadWrite}
	readOnlyTx  = pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly}
)

type PostgresUnitOfWork struct {
	pool           *pgxpool.Pool
	acquireTimeout time.Duration
	log            ports.Logger
	metrics        ports.MetricsProvider
}

func NewPostgresUOW(pool *pgxpool.Pool, acquireTimeout time.Duration, log ports.Logger, metrics ports.MetricsProvider) ports.UnitOfWork {
	return &PostgresUnitOfWork{pool: pool, acquireTimeout: acquireTimeout, log: log, metrics: metrics}
}

func (uow *PostgresUnitOfWork) Begin(ctx context.Context) (ports.Transaction, error) {
	return uow.begin(ctx, readWriteTx)
}

// BeginReadOnly opens a repeatable-read snapshot so that every query of a
// listing observes the same committed state.
func (uow *PostgresUnitOfWork) BeginReadOnly(ctx context.Context) (ports.Transaction, error) {
	return uow.begin(ctx, readOnlyTx)
}

func (uow *PostgresUnitOfWork) begin(ctx context.Context, opts pgx.TxOptions) (ports.Transaction, error) {
	conn, err := uow.acquire(ctx)
	if err != nil {
		return nil, err
	}

	tx, err := conn.BeginTx(ctx, opts)
	if err != nil {
		conn.Release()
		uow.log.Error("Failed to begin transaction", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %v", custom_errors.ErrTransactionBegin, err)
	}

	return &PostgresTransaction{tx: tx, conn: conn, uow: uow}, nil
}

// acquire bounds only the wait for a free connection; the transaction itself
// runs under the caller's context.
func (uow *PostgresUnitOfWork) acquire(ctx context.Context) (*pgxpool.Conn, error) {
	acquireCtx, cancel := context.WithTimeout(ctx, uow.acquireTimeout)
	defer cancel()

	conn, err := uow.pool.Acquire(acquireCtx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			stat := uow.pool.Stat()
			uow.log.Warn("Connection pool exhausted",
				slog.Duration("acquire_timeout", uow.acquireTimeout),
				slog.Int("acquired", int(stat.AcquiredConns())),
				slog.Int("max", int(stat.MaxConns())))
			return nil, custom_errors.ErrConnectionTimeout
		}
		uow.log.Error("Failed to acquire connection", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %v", custom_errors.ErrConnectionAcquire, err)
	}

	uow.metrics.SetActiveConnections(int(uow.pool.Stat().AcquiredConns()))
	return conn, nil
}

type PostgresTransaction struct {
	tx       pgx.Tx
	conn     *pgxpool.Conn
	uow      *PostgresUnitOfWork
	released bool
}

func (t *PostgresTransaction) Commit(ctx context.Context) error {
	defer t.release()
	if err := t.tx.Commit(ctx); err != nil {
		t.uow.metrics.IncrementTransactions("commit_failed")
		t.uow.log.Error("Failed to commit transaction", slog.String("error", err.Error()))
		return fmt.Errorf("%w: %v", custom_errors.ErrTransactionCommit, err)
	}
	t.uow.metrics.IncrementTransactions("commit")
	return nil
}

func (t *PostgresTransaction) Rollback(ctx context.Context) error {
	defer t.release()
	if err := t.tx.Rollback(ctx); err != nil {
		if errors.Is(err, pgx.ErrTxClosed) {
			return nil
		}
		t.uow.log.Error("Failed to rollback transaction", slog.String("error", err.Error()))
		return err
	}
	t.uow.metrics.IncrementTransactions("rollback")
	return nil
}

func (t *PostgresTransaction) release() {
	if t.released {
		return
	}
	t.released = true
	t.conn.Release()
	t.uow.metrics.SetActiveConnections(int(t.uow.pool.Stat().AcquiredConns()))
}

func (t *PostgresTransaction) UserRepository() user_repository.Repository {
	return user_repository_postgres.NewUserRepository(t.tx, t.uow.log, t.uow.metrics)
}

func (t *PostgresTransaction) PostRepository() post_repository.Repository {
	return post_repository_postgres.NewPostRepository(t.tx, t.uow.log, t.uow.metrics)
}

func (t *PostgresTransaction) TagRepository() tag_repository.Repository {
	return tag_repository_postgres.NewTagRepository(t.tx, t.uow.log, t.uow.metrics)
}

func (t *PostgresTransaction) AssociationRepository() association_repository.Repository {
	return association_repository_postgres.NewAssociationRepository(t.tx, t.uow.log, t.uow.metrics)
}
