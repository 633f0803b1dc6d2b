// Package testutil gathers helpers shared by the test suites.
package testutil

import (
	"context"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/learnerair/core"
	"github.com/trezcool/learnerair/core/activity"
	"github.com/trezcool/learnerair/core/announcement"
	"github.com/trezcool/learnerair/core/user"
	"github.com/trezcool/learnerair/storage/documents"
	"github.com/trezcool/learnerair/storage/kv/inmem"
)

const CredentialsKey = "test-credentials-key"

var ErrBrokenStore = errors.New("store is broken")

// T is the part of testing.T the helpers need; ginkgo's GinkgoT() satisfies it too.
type T interface {
	Helper()
	Fatalf(format string, args ...interface{})
}

// NewCipher returns the cipher used by the test suites.
func NewCipher(t T) *user.Cipher {
	cipher, err := user.NewCipher(CredentialsKey)
	if err != nil {
		t.Helper()
		t.Fatalf("NewCipher() failed: %v", err)
	}
	return cipher
}

// NewValidate returns a validator with every custom validation registered.
func NewValidate() *validator.Validate {
	validate, _ := NewValidation()
	return validate
}

// NewValidation returns a validator with every custom validation registered, along with its translator.
func NewValidation() (*validator.Validate, ut.Translator) {
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	activity.InitValidators(validate, translator)
	announcement.InitValidators(validate, translator)
	return validate, translator
}

// OpenDB returns a seeded documents DB over a fresh in-memory store.
func OpenDB(t T) *documents.DB {
	db := documents.NewDB(inmem.NewStore(), NewCipher(t))
	if err := db.Seed(context.Background()); err != nil {
		t.Fatalf("OpenDB() failed: %v", err)
	}
	return db
}

func CreateUser(
	t T,
	repo user.Repository,
	cipher *user.Cipher,
	fullName, uname, pwd string,
	role user.Role,
	createdAt ...time.Time,
) user.User {
	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	usr := user.User{
		ID:        uname + "-id",
		Username:  uname,
		FullName:  fullName,
		Role:      role,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("CreateUser() failed: %v", err)
		}
		enc, err := cipher.Encrypt(pwd)
		if err != nil {
			t.Fatalf("CreateUser() failed: %v", err)
		}
		usr.PasswordCipher = enc
	}
	usr, err := repo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

// GetUser returns a user that must exist.
func GetUser(t T, repo user.Repository, id string) user.User {
	usr, err := repo.GetUserByID(context.Background(), id)
	if err != nil {
		t.Fatalf("GetUser(%q) failed: %v", id, err)
	}
	return usr
}

// BrokenStore reads from an in-memory store but fails every write.
type BrokenStore struct {
	*inmem.Store
	FailReads bool
}

func NewBrokenStore() *BrokenStore {
	return &BrokenStore{Store: inmem.NewStore()}
}

func (s *BrokenStore) Get(ctx context.Context, key string) ([]byte, error) {
	if s.FailReads {
		return nil, ErrBrokenStore
	}
	return s.Store.Get(ctx, key)
}

func (s *BrokenStore) Set(context.Context, string, []byte) error {
	return ErrBrokenStore
}

func (s *BrokenStore) Delete(context.Context, string) error {
	return ErrBrokenStore
}
