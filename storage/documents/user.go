package documents

import (
	"context"
	"strings"
	"time"

	"github.com/trezcool/learnerair/core"
	"github.com/trezcool/learnerair/core/user"
)

// userRecord is the stored shape of a user. Unlike user.User's JSON, it keeps the password material.
type userRecord struct {
	ID             string            `json:"id"`
	Username       string            `json:"username"`
	FullName       string            `json:"fullName"`
	Role           string            `json:"role"`
	Permissions    []user.Permission `json:"permissions,omitempty"`
	YearGroup      string            `json:"yearGroup,omitempty"`
	Class          string            `json:"class,omitempty"`
	PasswordHash   []byte            `json:"passwordHash"`
	PasswordCipher string            `json:"passwordCipher,omitempty"`
	CreatedAt      time.Time         `json:"createdAt"`
	UpdatedAt      time.Time         `json:"updatedAt"`
}

func newUserRecord(usr user.User) userRecord {
	rec := userRecord{
		ID:             usr.ID,
		Username:       usr.Username,
		FullName:       usr.FullName,
		Role:           usr.RoleName(),
		YearGroup:      usr.YearGroup(),
		Class:          usr.Class(),
		PasswordHash:   usr.PasswordHash,
		PasswordCipher: usr.PasswordCipher,
		CreatedAt:      usr.CreatedAt,
		UpdatedAt:      usr.UpdatedAt,
	}
	if usr.IsTeacher() {
		rec.Permissions = usr.Permissions()
	}
	return rec
}

func (rec userRecord) toUser() (user.User, error) {
	role, err := user.NewRole(rec.Role, rec.Permissions, rec.YearGroup, rec.Class)
	if err != nil {
		return user.User{}, err
	}
	return user.User{
		ID:             rec.ID,
		Username:       rec.Username,
		FullName:       rec.FullName,
		Role:           role,
		PasswordHash:   rec.PasswordHash,
		PasswordCipher: rec.PasswordCipher,
		CreatedAt:      rec.CreatedAt,
		UpdatedAt:      rec.UpdatedAt,
	}, nil
}

type userRepository struct {
	db *DB
}

func NewUserRepository(db *DB) user.Repository {
	return &userRepository{db: db}
}

func (repo *userRepository) seed() ([]userRecord, error) {
	users, err := user.Seed(repo.db.cipher)
	if err != nil {
		return nil, err
	}
	recs := make([]userRecord, 0, len(users))
	for _, usr := range users {
		recs = append(recs, newUserRecord(usr))
	}
	return recs, nil
}

// read must be called with the users write lock held.
func (repo *userRepository) read(ctx context.Context) ([]userRecord, error) {
	return readOrSeed(ctx, repo.db.store, core.KeyUsers, repo.seed)
}

func (repo *userRepository) view(ctx context.Context) ([]userRecord, error) {
	return view(ctx, &repo.db.users, repo.db.store, core.KeyUsers, repo.seed)
}

func (repo *userRepository) write(ctx context.Context, recs []userRecord) error {
	return core.Write(ctx, repo.db.store, core.KeyUsers, recs)
}

func (repo *userRepository) query(ctx context.Context) ([]user.User, error) {
	recs, err := repo.view(ctx)
	if err != nil {
		return nil, err
	}
	users := make([]user.User, 0, len(recs))
	for _, rec := range recs {
		usr, err := rec.toUser()
		if err != nil {
			return nil, &core.StorageError{Op: "decode", Key: core.KeyUsers, Err: err}
		}
		users = append(users, usr)
	}
	return users, nil
}

func (repo *userRepository) CheckUsernameUniqueness(ctx context.Context, username string, excludedIDs ...string) error {
	recs, err := repo.view(ctx)
	if err != nil {
		return err
	}
	if usernameTaken(recs, username, excludedIDs...) {
		return user.ErrUsernameExists
	}
	return nil
}

func (repo *userRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	repo.db.users.Lock()
	defer repo.db.users.Unlock()

	recs, err := repo.read(ctx)
	if err != nil {
		return user.User{}, err
	}
	if usernameTaken(recs, usr.Username) {
		return user.User{}, user.ErrUsernameExists
	}
	if err := repo.write(ctx, append(recs, newUserRecord(usr))); err != nil {
		return user.User{}, err
	}
	return usr, nil
}

func (repo *userRepository) QueryAllUsers(ctx context.Context) ([]user.User, error) {
	return repo.query(ctx)
}

func (repo *userRepository) GetUserByID(ctx context.Context, id string) (user.User, error) {
	users, err := repo.query(ctx)
	if err != nil {
		return user.User{}, err
	}
	for _, usr := range users {
		if usr.ID == id {
			return usr, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (repo *userRepository) GetUserByUsername(ctx context.Context, username string) (user.User, error) {
	users, err := repo.query(ctx)
	if err != nil {
		return user.User{}, err
	}
	for _, usr := range users {
		if strings.EqualFold(usr.Username, username) {
			return usr, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (repo *userRepository) UpdateUser(ctx context.Context, usr user.User) (user.User, error) {
	repo.db.users.Lock()
	defer repo.db.users.Unlock()

	recs, err := repo.read(ctx)
	if err != nil {
		return user.User{}, err
	}
	for i := range recs {
		if recs[i].ID == usr.ID {
			recs[i] = newUserRecord(usr)
			if err := repo.write(ctx, recs); err != nil {
				return user.User{}, err
			}
			return usr, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (repo *userRepository) DeleteUser(ctx context.Context, id string) error {
	repo.db.users.Lock()
	defer repo.db.users.Unlock()

	recs, err := repo.read(ctx)
	if err != nil {
		return err
	}
	for i := range recs {
		if recs[i].ID == id {
			return repo.write(ctx, append(recs[:i], recs[i+1:]...))
		}
	}
	return user.ErrNotFound
}

func usernameTaken(recs []userRecord, username string, excludedIDs ...string) bool {
	for _, rec := range recs {
		if strings.EqualFold(rec.Username, username) && !isExcluded(rec.ID, excludedIDs) {
			return true
		}
	}
	return false
}

func isExcluded(id string, excludedIDs []string) bool {
	for _, excl := range excludedIDs {
		if id == excl {
			return true
		}
	}
	return false
}
