package custom_errors

import "errors"

// Boundary errors. ContentService returns only these.
var (
	ErrValidation          = errors.New("validation failed")
	ErrResourceUnavailable = errors.New("storage resource unavailable, retry later")
	ErrStorageFailure      = errors.New("storage failure")
)

// Storage layer errors. They carry no detail beyond the failing step; the
// underlying cause is logged where it occurs.
var (
	ErrDatabaseQuery      = errors.New("database query failed")
	ErrDatabaseScan       = errors.New("database scan failed")
	ErrTransactionBegin   = errors.New("failed to begin transaction")
	ErrTransactionCommit  = errors.New("failed to commit transaction")
	ErrConnectionAcquire  = errors.New("failed to acquire database connection")
	ErrConnectionTimeout  = errors.New("timed out acquiring database connection")
	ErrPostCreateFailed   = errors.New("failed to create post")
	ErrPostSearchFailed   = errors.New("failed to search posts")
	ErrPostTagsAggregate  = errors.New("failed to aggregate post tags")
	ErrTagUpsertFailed    = errors.New("failed to upsert tags")
	ErrTagQueryFailed     = errors.New("failed to query tags")
	ErrTagNotResolved     = errors.New("tag could not be resolved after upsert")
	ErrAssociationLink    = errors.New("failed to link tags to post")
	ErrAssociationMissing = errors.New("post or tag referenced by association does not exist")
	ErrUserCreateFailed   = errors.New("failed to create user")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrCreatorNotFound    = errors.New("post creator does not exist")
)

// IsRetryable reports whether the caller may retry the failed operation as is.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrResourceUnavailable) || errors.Is(err, ErrConnectionTimeout)
}
