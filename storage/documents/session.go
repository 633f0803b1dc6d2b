package documents

import (
	"context"

	"github.com/trezcool/learnerair/core"
	"github.com/trezcool/learnerair/core/session"
	"github.com/trezcool/learnerair/core/user"
)

type sessionRepository struct {
	db *DB
}

func NewSessionRepository(db *DB) session.Repository {
	return &sessionRepository{db: db}
}

// read must be called with the sessions write lock held.
func (repo *sessionRepository) read(ctx context.Context) (map[string]session.Session, error) {
	return nonNilSessions(readOrSeed(ctx, repo.db.store, core.KeySessions, seedOf(map[string]session.Session{})))
}

func (repo *sessionRepository) view(ctx context.Context) (map[string]session.Session, error) {
	return nonNilSessions(view(ctx, &repo.db.sessions, repo.db.store, core.KeySessions, seedOf(map[string]session.Session{})))
}

func nonNilSessions(sessions map[string]session.Session, err error) (map[string]session.Session, error) {
	if sessions == nil {
		sessions = make(map[string]session.Session)
	}
	return sessions, err
}

func (repo *sessionRepository) write(ctx context.Context, sessions map[string]session.Session) error {
	return core.Write(ctx, repo.db.store, core.KeySessions, sessions)
}

func (repo *sessionRepository) SaveSession(ctx context.Context, sess session.Session) error {
	repo.db.sessions.Lock()
	defer repo.db.sessions.Unlock()

	sessions, err := repo.read(ctx)
	if err != nil {
		return err
	}
	sessions[sess.ID] = sess
	return repo.write(ctx, sessions)
}

func (repo *sessionRepository) GetSession(ctx context.Context, id string) (session.Session, error) {
	sessions, err := repo.view(ctx)
	if err != nil {
		return session.Session{}, err
	}
	if sess, ok := sessions[id]; ok {
		return sess, nil
	}
	return session.Session{}, session.ErrNotFound
}

func (repo *sessionRepository) DeleteSession(ctx context.Context, id string) error {
	repo.db.sessions.Lock()
	defer repo.db.sessions.Unlock()

	sessions, err := repo.read(ctx)
	if err != nil {
		return err
	}
	if _, ok := sessions[id]; !ok {
		return nil
	}
	delete(sessions, id)
	return repo.write(ctx, sessions)
}

func (repo *sessionRepository) RefreshUserSessions(ctx context.Context, usr user.User) error {
	return repo.update(ctx, usr.ID, func(sessions map[string]session.Session, id string) {
		sess := sessions[id]
		sess.User = usr
		sessions[id] = sess
	})
}

func (repo *sessionRepository) DeleteUserSessions(ctx context.Context, userID string) error {
	return repo.update(ctx, userID, func(sessions map[string]session.Session, id string) {
		delete(sessions, id)
	})
}

// update applies fn to every session of userID, and writes back only when there was any.
func (repo *sessionRepository) update(ctx context.Context, userID string, fn func(map[string]session.Session, string)) error {
	repo.db.sessions.Lock()
	defer repo.db.sessions.Unlock()

	sessions, err := repo.read(ctx)
	if err != nil {
		return err
	}
	var ids []string
	for id, sess := range sessions {
		if sess.User.ID == userID {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil
	}
	for _, id := range ids {
		fn(sessions, id)
	}
	return repo.write(ctx, sessions)
}
