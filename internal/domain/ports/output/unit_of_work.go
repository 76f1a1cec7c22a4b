package ports

import (
	"context"

	association_repository "content-service/internal/domain/ports/output/association"
	post_repository "content-service/internal/domain/ports/output/post"
	tag_repository "content-service/internal/domain/ports/output/tag"
	user_repository "content-service/internal/domain/ports/output/user"
)

// UnitOfWork hands out transactions. Both Begin variants block until a
// connection is free or the implementation's acquisition timeout elapses, in
// which case the error matches custom_errors.ErrConnectionTimeout.
//
//go:generate mockery --name UnitOfWork --dir . --output ../../../../mocks/uow --outpkg mocks --filename UnitOfWork.go
type UnitOfWork interface {
	Begin(ctx context.Context) (Transaction, error)
	BeginReadOnly(ctx context.Context) (Transaction, error)
}

// Transaction exposes repositories bound to one transaction. Rollback after
// Commit is a no-op.
//
//go:generate mockery --name Transaction --dir . --output ../../../../mocks/uow --outpkg mocks --filename Transaction.go
type Transaction interface {
	UserRepository() user_repository.Repository
	PostRepository() post_repository.Repository
	TagRepository() tag_repository.Repository
	AssociationRepository() association_repository.Repository
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}
