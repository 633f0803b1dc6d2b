// Package session authenticates users and keeps track of who is logged in.
package session

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/learnerair/core"
	"github.com/trezcool/learnerair/core/user"
)

var (
	// errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotFound           = core.NewNotFoundError("session")
)

// Session is a logged in user, stripped of their password. Sessions do not expire.
type Session struct {
	ID        string    `json:"id"`
	User      user.User `json:"user"`
	CreatedAt time.Time `json:"createdAt"`
}

type (
	Repository interface {
		SaveSession(ctx context.Context, sess Session) error
		// GetSession returns ErrNotFound when there is no session with that id.
		GetSession(ctx context.Context, id string) (Session, error)
		DeleteSession(ctx context.Context, id string) error
		// RefreshUserSessions replaces the user held by every session of usr.
		RefreshUserSessions(ctx context.Context, usr user.User) error
		DeleteUserSessions(ctx context.Context, userID string) error
	}

	// Users looks up the users allowed to log in.
	Users interface {
		GetByUsername(ctx context.Context, uname string) (user.User, error)
	}

	Service struct {
		repo  Repository
		users Users
	}
)

var _ user.Observer = (*Service)(nil) // interface compliance check

func NewService(repo Repository, users Users) *Service {
	return &Service{repo: repo, users: users}
}

// Login matches username (case-insensitively) and password against the stored users.
// On success a new session is persisted; on failure existing sessions are left untouched.
func (svc *Service) Login(ctx context.Context, username, password string) (Session, error) {
	usr, err := svc.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Cause(err) == user.ErrNotFound {
			return Session{}, ErrInvalidCredentials
		}
		return Session{}, errors.Wrap(err, "finding user by username")
	}
	if err := usr.CheckPassword(password); err != nil {
		return Session{}, ErrInvalidCredentials
	}

	sess := Session{
		ID:        uuid.New().String(),
		User:      usr.Public(),
		CreatedAt: time.Now().UTC(),
	}
	if err := svc.repo.SaveSession(ctx, sess); err != nil {
		return Session{}, errors.Wrap(err, "saving session")
	}
	return sess, nil
}

// Logout clears the session identified by id. Logging out twice is not an error.
func (svc *Service) Logout(ctx context.Context, id string) error {
	return svc.repo.DeleteSession(ctx, id)
}

// Current returns the session identified by id, or nil when there is none.
func (svc *Service) Current(ctx context.Context, id string) (*Session, error) {
	sess, err := svc.repo.GetSession(ctx, id)
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &sess, nil
}

func (svc *Service) UserUpdated(ctx context.Context, usr user.User) error {
	return svc.repo.RefreshUserSessions(ctx, usr.Public())
}

func (svc *Service) UserDeleted(ctx context.Context, id string) error {
	return svc.repo.DeleteUserSessions(ctx, id)
}

// HasPermission reports whether the session's user holds perm. There is no permission without a session.
func HasPermission(sess *Session, perm user.Permission) bool {
	if sess == nil {
		return false
	}
	return sess.User.HasPermission(perm)
}

// HasAnyPermission reports whether the session's user holds at least one of perms.
func HasAnyPermission(sess *Session, perms ...user.Permission) bool {
	return sess != nil && sess.User.HasAnyPermission(perms...)
}
