package user

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/learnerair/core"
)

var (
	// errors
	ErrNotFound       = core.NewNotFoundError("user")
	ErrUsernameExists = errors.New("a user with this username already exists")
	ErrImmutableUser  = errors.New("this account cannot be deleted or demoted")
)

type (
	Repository interface {
		// CheckUsernameUniqueness does a case-insensitive lookup of username among all users but excludedIDs.
		CheckUsernameUniqueness(ctx context.Context, username string, excludedIDs ...string) error
		CreateUser(ctx context.Context, usr User) (User, error)
		QueryAllUsers(ctx context.Context) ([]User, error)
		GetUserByID(ctx context.Context, id string) (User, error)
		// GetUserByUsername does a case-insensitive match on username.
		GetUserByUsername(ctx context.Context, username string) (User, error)
		UpdateUser(ctx context.Context, usr User) (User, error)
		DeleteUser(ctx context.Context, id string) error
	}

	// Observer is notified of changes made to users.
	Observer interface {
		UserUpdated(ctx context.Context, usr User) error
		UserDeleted(ctx context.Context, id string) error
	}

	Service struct {
		repo      Repository
		cipher    *Cipher
		validate  *validator.Validate
		observers []Observer
	}
)

func NewService(repo Repository, cipher *Cipher, validate *validator.Validate) *Service {
	return &Service{repo: repo, cipher: cipher, validate: validate}
}

// Observe registers obs to be notified of user updates and deletions.
func (svc *Service) Observe(obs Observer) {
	svc.observers = append(svc.observers, obs)
}

func (svc *Service) checkUniqueness(ctx context.Context, uname string, exclIDs ...string) error {
	if err := svc.repo.CheckUsernameUniqueness(ctx, uname, exclIDs...); err != nil {
		if err == ErrUsernameExists {
			return core.NewValidationError(err, core.FieldError{Field: "username", Error: err.Error()})
		}
		return err
	}
	return nil
}

func (svc *Service) setPassword(usr *User, pwd string) error {
	if err := usr.SetPassword(pwd); err != nil {
		return errors.Wrap(err, "hashing password")
	}
	enc, err := svc.cipher.Encrypt(pwd)
	if err != nil {
		return errors.Wrap(err, "encrypting password")
	}
	usr.PasswordCipher = enc
	return nil
}

func (svc *Service) Create(ctx context.Context, nu NewUser) (User, error) {
	if err := nu.Validate(svc.validate); err != nil {
		return User{}, err
	}
	if err := svc.checkUniqueness(ctx, nu.Username); err != nil {
		return User{}, err
	}

	role, err := NewRole(nu.Role, nu.Permissions, nu.YearGroup, nu.Class)
	if err != nil {
		return User{}, err
	}
	now := time.Now().UTC()
	usr := User{
		ID:        uuid.New().String(),
		Username:  nu.Username,
		FullName:  nu.FullName,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := svc.setPassword(&usr, nu.Password); err != nil {
		return User{}, err
	}

	usr, err = svc.repo.CreateUser(ctx, usr)
	if err == ErrUsernameExists { // lost a race against another create
		return User{}, core.NewValidationError(err, core.FieldError{Field: "username", Error: err.Error()})
	}
	return usr, errors.Wrap(err, "creating user")
}

func (svc *Service) QueryAll(ctx context.Context) ([]User, error) {
	return svc.repo.QueryAllUsers(ctx)
}

func (svc *Service) GetByID(ctx context.Context, id string) (User, error) {
	return svc.repo.GetUserByID(ctx, id)
}

func (svc *Service) GetByUsername(ctx context.Context, uname string) (User, error) {
	return svc.repo.GetUserByUsername(ctx, core.CleanString(uname))
}

func (svc *Service) Query(ctx context.Context, filter QueryFilter, orderings []core.Ordering) ([]User, error) {
	users, err := svc.repo.QueryAllUsers(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "querying users")
	}
	filter.Clean()
	if !filter.IsEmpty() {
		users = FilterUsers(users, filter)
	}
	OrderUsers(users, orderings)
	return users, nil
}

// GetStudent returns the student identified by id; other roles are not found.
func (svc *Service) GetStudent(ctx context.Context, id string) (User, error) {
	usr, err := svc.repo.GetUserByID(ctx, id)
	if err != nil {
		return User{}, err
	}
	if !usr.IsStudent() {
		return User{}, ErrNotFound
	}
	return usr, nil
}

func (svc *Service) Students(ctx context.Context, filter StudentFilter) ([]User, error) {
	users, err := svc.repo.QueryAllUsers(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "querying users")
	}
	return FilterStudents(users, filter), nil
}

func (svc *Service) StudentFacets(ctx context.Context) (Facets, error) {
	users, err := svc.repo.QueryAllUsers(ctx)
	if err != nil {
		return Facets{}, errors.Wrap(err, "querying users")
	}
	return StudentFacets(users), nil
}

func (svc *Service) Update(ctx context.Context, id string, uu UpdateUser) (User, error) {
	usr, err := svc.repo.GetUserByID(ctx, id)
	if err != nil {
		return User{}, err
	}
	if err := uu.Validate(svc.validate, usr); err != nil {
		return User{}, err
	}
	if usr.IsBootstrap() && uu.ChangesRole(usr) {
		return User{}, ErrImmutableUser
	}
	if uu.Username != usr.Username {
		if err := svc.checkUniqueness(ctx, uu.Username, usr.ID); err != nil {
			return User{}, err
		}
	}

	roleName := usr.RoleName()
	if uu.Role != "" {
		roleName = uu.Role
	}
	perms := usr.Permissions()
	if uu.Permissions != nil {
		perms = *uu.Permissions
	}
	yearGroup, class := usr.YearGroup(), usr.Class()
	if uu.YearGroup != nil {
		yearGroup = core.CleanString(*uu.YearGroup)
	}
	if uu.Class != nil {
		class = core.CleanString(*uu.Class)
	}
	role, err := NewRole(roleName, perms, yearGroup, class)
	if err != nil {
		return User{}, err
	}

	usr.Username = uu.Username
	usr.FullName = uu.FullName
	usr.Role = role
	usr.UpdatedAt = time.Now().UTC()
	if uu.Password != "" {
		if err := svc.setPassword(&usr, uu.Password); err != nil {
			return User{}, err
		}
	}

	usr, err = svc.repo.UpdateUser(ctx, usr)
	if err != nil {
		return User{}, errors.Wrap(err, "updating user")
	}
	for _, obs := range svc.observers {
		if err := obs.UserUpdated(ctx, usr); err != nil {
			return usr, errors.Wrap(err, "notifying user update")
		}
	}
	return usr, nil
}

// ResetPassword sets a new password without going through the password policy.
func (svc *Service) ResetPassword(ctx context.Context, id, pwd string) error {
	usr, err := svc.repo.GetUserByID(ctx, id)
	if err != nil {
		return err
	}
	if err := svc.setPassword(&usr, pwd); err != nil {
		return err
	}
	usr.UpdatedAt = time.Now().UTC()
	_, err = svc.repo.UpdateUser(ctx, usr)
	return errors.Wrap(err, "updating user")
}

func (svc *Service) Delete(ctx context.Context, id string) error {
	if id == BootstrapID {
		return ErrImmutableUser
	}
	if err := svc.repo.DeleteUser(ctx, id); err != nil {
		return err
	}
	for _, obs := range svc.observers {
		if err := obs.UserDeleted(ctx, id); err != nil {
			return errors.Wrap(err, "notifying user deletion")
		}
	}
	return nil
}

// Credentials reveals the login information of the user identified by id.
func (svc *Service) Credentials(ctx context.Context, id string) (Credentials, error) {
	usr, err := svc.repo.GetUserByID(ctx, id)
	if err != nil {
		return Credentials{}, err
	}
	creds := Credentials{ID: usr.ID, Username: usr.Username, FullName: usr.FullName}
	if usr.PasswordCipher != "" {
		if creds.Password, err = svc.cipher.Decrypt(usr.PasswordCipher); err != nil {
			return Credentials{}, errors.Wrap(err, "decrypting password")
		}
	}
	return creds, nil
}
