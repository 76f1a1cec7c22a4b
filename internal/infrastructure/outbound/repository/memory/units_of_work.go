package memory

import (
	"context"
	"log/slog"

	"content-service/internal/domain/custom_errors"
	ports "content-service/internal/domain/ports/output"
	association_repository "content-service/internal/domain/ports/output/association"
	post_repository "content-service/internal/domain/ports/output/post"
	tag_repository "content-service/internal/domain/ports/output/tag"
	user_repository "content-service/internal/domain/ports/output/user"
)

type UnitOfWork struct {
	store *Store
}

func NewUnitOfWork(store *Store) ports.UnitOfWork {
	return &UnitOfWork{store: store}
}

func (u *UnitOfWork) Begin(ctx context.Context) (ports.Transaction, error) {
	if err := u.store.acquire(ctx); err != nil {
		u.store.log.Warn("Failed to acquire memory slot", slog.String("error", err.Error()))
		return nil, err
	}
	u.store.writeMu.Lock()
	return &Transaction{store: u.store, state: u.store.snapshot(), writable: true}, nil
}

func (u *UnitOfWork) BeginReadOnly(ctx context.Context) (ports.Transaction, error) {
	if err := u.store.acquire(ctx); err != nil {
		u.store.log.Warn("Failed to acquire memory slot", slog.String("error", err.Error()))
		return nil, err
	}
	return &Transaction{store: u.store, state: u.store.snapshot()}, nil
}

type Transaction struct {
	store    *Store
	state    *state
	writable bool
	done     bool
}

func (t *Transaction) Commit(ctx context.Context) error {
	if t.done {
		return custom_errors.ErrTransactionCommit
	}
	if t.writable {
		t.store.publish(t.state)
	}
	t.finish()
	return nil
}

func (t *Transaction) Rollback(ctx context.Context) error {
	if t.done {
		return nil
	}
	t.finish()
	return nil
}

func (t *Transaction) finish() {
	t.done = true
	if t.writable {
		t.store.writeMu.Unlock()
	}
	t.store.release()
}

func (t *Transaction) UserRepository() user_repository.Repository {
	return &UserRepository{tx: t}
}

func (t *Transaction) PostRepository() post_repository.Repository {
	return &PostRepository{tx: t}
}

func (t *Transaction) TagRepository() tag_repository.Repository {
	return &TagRepository{tx: t}
}

func (t *Transaction) AssociationRepository() association_repository.Repository {
	return &AssociationRepository{tx: t}
}

func (t *Transaction) checkWritable() error {
	if t.done {
		return custom_errors.ErrDatabaseQuery
	}
	if !t.writable {
		t.store.log.Error("Write attempted in read-only transaction")
		return custom_errors.ErrDatabaseQuery
	}
	return nil
}

func (t *Transaction) checkOpen() error {
	if t.done {
		return custom_errors.ErrDatabaseQuery
	}
	return nil
}
