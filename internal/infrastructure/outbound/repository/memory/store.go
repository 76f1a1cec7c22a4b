package memory

import (
	"context"
	"sync"
	"time"

	"content-service/internal/domain/custom_errors"
	model "content-service/internal/domain/models"
	ports "content-service/internal/domain/ports/output"
)

type state struct {
	users      map[int64]*model.User
	usernames  map[string]int64
	posts      map[int64]*model.Post
	tags       map[int64]*model.Tag
	tagsByName map[string]int64
	links      []model.PostTag
	linkSet    map[model.PostTag]struct{}

	nextUserID int64
	nextPostID int64
	nextTagID  int64
}

func newState() *state {
	return &state{
		users:      make(map[int64]*model.User),
		usernames:  make(map[string]int64),
		posts:      make(map[int64]*model.Post),
		tags:       make(map[int64]*model.Tag),
		tagsByName: make(map[string]int64),
		linkSet:    make(map[model.PostTag]struct{}),
		nextUserID: 1,
		nextPostID: 1,
		nextTagID:  1,
	}
}

// clone copies the maps and slices; rows are immutable once stored so the
// pointers are shared.
func (s *state) clone() *state {
	c := &state{
		users:      make(map[int64]*model.User, len(s.users)),
		usernames:  make(map[string]int64, len(s.usernames)),
		posts:      make(map[int64]*model.Post, len(s.posts)),
		tags:       make(map[int64]*model.Tag, len(s.tags)),
		tagsByName: make(map[string]int64, len(s.tagsByName)),
		links:      make([]model.PostTag, len(s.links)),
		linkSet:    make(map[model.PostTag]struct{}, len(s.linkSet)),
		nextUserID: s.nextUserID,
		nextPostID: s.nextPostID,
		nextTagID:  s.nextTagID,
	}
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.usernames {
		c.usernames[k] = v
	}
	for k, v := range s.posts {
		c.posts[k] = v
	}
	for k, v := range s.tags {
		c.tags[k] = v
	}
	for k, v := range s.tagsByName {
		c.tagsByName[k] = v
	}
	copy(c.links, s.links)
	for k := range s.linkSet {
		c.linkSet[k] = struct{}{}
	}
	return c
}

// Store keeps committed state in memory. Write transactions work on a
// private copy that replaces the committed state on Commit, and run one at
// a time. A bounded set of slots stands in for the connection pool.
type Store struct {
	mu      sync.RWMutex
	current *state

	writeMu sync.Mutex
	slots   chan struct{}

	acquireTimeout time.Duration
	log            ports.Logger

	failMu      sync.Mutex
	linkFailure error
}

func NewStore(poolSize int, acquireTimeout time.Duration, log ports.Logger) *Store {
	if poolSize < 1 {
		poolSize = 1
	}
	return &Store{
		current:        newState(),
		slots:          make(chan struct{}, poolSize),
		acquireTimeout: acquireTimeout,
		log:            log,
	}
}

func (s *Store) acquire(ctx context.Context) error {
	timer := time.NewTimer(s.acquireTimeout)
	defer timer.Stop()

	select {
	case s.slots <- struct{}{}:
		return nil
	case <-timer.C:
		return custom_errors.ErrConnectionTimeout
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Store) release() {
	<-s.slots
}

func (s *Store) snapshot() *state {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.clone()
}

func (s *Store) publish(next *state) {
	s.mu.Lock()
	s.current = next
	s.mu.Unlock()
}

// SimulateLinkFailure makes every Link call fail with err until it is reset
// with nil.
func (s *Store) SimulateLinkFailure(err error) {
	s.failMu.Lock()
	defer s.failMu.Unlock()
	s.linkFailure = err
}

func (s *Store) injectedLinkFailure() error {
	s.failMu.Lock()
	defer s.failMu.Unlock()
	return s.linkFailure
}

// CountLinks returns the number of committed associations for postID.
func (s *Store) CountLinks(postID int64) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, link := range s.current.links {
		if link.PostID == postID {
			n++
		}
	}
	return n
}

// CountTagsNamed returns the number of committed tag rows called name.
func (s *Store) CountTagsNamed(name string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, tag := range s.current.tags {
		if tag.Name == name {
			n++
		}
	}
	return n
}
