package association_repository

import "context"

//go:generate mockery --name Repository --dir . --output ../../../../../mocks/association --outpkg mocks --filename AssociationRepository.go
type Repository interface {
	// Link inserts one association per tag id in order. Pairs that already
	// exist are skipped. Any other failure fails the whole call.
	Link(ctx context.Context, postID int64, tagIDs []int64) error
}
