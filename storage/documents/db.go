// Package documents implements the domain repositories over the JSON documents of a core.Store.
package documents

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/trezcool/learnerair/core"
	"github.com/trezcool/learnerair/core/activity"
	"github.com/trezcool/learnerair/core/announcement"
	"github.com/trezcool/learnerair/core/homework"
	"github.com/trezcool/learnerair/core/session"
	"github.com/trezcool/learnerair/core/user"
)

// DB guards each document with its own lock so that read-modify-write cycles do not lose updates.
// Writers in other processes are not guarded against: the last write wins.
type DB struct {
	store  core.Store
	cipher *user.Cipher

	users         sync.RWMutex
	sessions      sync.RWMutex
	announcements sync.RWMutex
	homeworks     sync.RWMutex
	completions   sync.RWMutex
	activities    sync.RWMutex
}

// NewDB returns a DB over store. cipher encrypts the passwords of the seeded users.
func NewDB(store core.Store, cipher *user.Cipher) *DB {
	return &DB{store: store, cipher: cipher}
}

// Seed initializes every missing document with its seed.
func (db *DB) Seed(ctx context.Context) error {
	if _, err := NewUserRepository(db).QueryAllUsers(ctx); err != nil {
		return errors.Wrap(err, "seeding users")
	}
	if _, err := (&sessionRepository{db: db}).view(ctx); err != nil {
		return errors.Wrap(err, "seeding sessions")
	}
	if _, err := NewAnnouncementRepository(db).QueryAllAnnouncements(ctx); err != nil {
		return errors.Wrap(err, "seeding announcements")
	}
	hwRepo := NewHomeworkRepository(db)
	if _, err := hwRepo.QueryAllHomeworks(ctx); err != nil {
		return errors.Wrap(err, "seeding homeworks")
	}
	if _, err := hwRepo.QueryAllCompletions(ctx); err != nil {
		return errors.Wrap(err, "seeding homework completions")
	}
	if _, err := NewActivityRepository(db).QueryAllActivities(ctx); err != nil {
		return errors.Wrap(err, "seeding activities")
	}
	return nil
}

// view reads a document under the read lock of mu. A missing document is seeded under its write lock.
func view[T any](ctx context.Context, mu *sync.RWMutex, store core.Store, key string, seed func() (T, error)) (T, error) {
	mu.RLock()
	doc, err := core.Read[T](ctx, store, key)
	mu.RUnlock()
	if err == nil || !errors.Is(err, core.ErrKeyNotFound) {
		return doc, err
	}

	mu.Lock()
	defer mu.Unlock()
	return readOrSeed(ctx, store, key, seed)
}

// readOrSeed is core.ReadOrSeed with a seed only computed when the document is missing.
func readOrSeed[T any](ctx context.Context, store core.Store, key string, seed func() (T, error)) (T, error) {
	doc, err := core.Read[T](ctx, store, key)
	if err == nil || !errors.Is(err, core.ErrKeyNotFound) {
		return doc, err
	}
	s, err := seed()
	if err != nil {
		return doc, err
	}
	return core.ReadOrSeed(ctx, store, key, s)
}

func seedOf[T any](v T) func() (T, error) {
	return func() (T, error) { return v, nil }
}

// interface compliance checks
var (
	_ user.Repository         = (*userRepository)(nil)
	_ session.Repository      = (*sessionRepository)(nil)
	_ activity.Repository     = (*activityRepository)(nil)
	_ homework.Repository     = (*homeworkRepository)(nil)
	_ announcement.Repository = (*announcementRepository)(nil)
)
