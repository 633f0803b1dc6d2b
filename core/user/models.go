package user

import (
	"encoding/json"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/trezcool/learnerair/core"
)

// Bootstrap headteacher account: it can never be deleted nor demoted.
const (
	BootstrapID       = "1"
	BootstrapUsername = "Learnerair"
	BootstrapPassword = "LEARNERAIR"
)

type User struct {
	ID             string
	Username       string
	FullName       string
	Role           Role
	PasswordHash   []byte
	PasswordCipher string
	CreatedAt      time.Time // UTC
	UpdatedAt      time.Time // UTC
}

// userJSON is the public, password-free shape of a User.
type userJSON struct {
	ID          string       `json:"id"`
	Username    string       `json:"username"`
	FullName    string       `json:"fullName"`
	Role        string       `json:"role"`
	Permissions []Permission `json:"permissions"`
	YearGroup   string       `json:"yearGroup,omitempty"`
	Class       string       `json:"class,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

func (u User) MarshalJSON() ([]byte, error) {
	return json.Marshal(userJSON{
		ID:          u.ID,
		Username:    u.Username,
		FullName:    u.FullName,
		Role:        roleName(u.Role),
		Permissions: u.Permissions(),
		YearGroup:   u.YearGroup(),
		Class:       u.Class(),
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	})
}

func (u *User) UnmarshalJSON(data []byte) error {
	var uj userJSON
	if err := json.Unmarshal(data, &uj); err != nil {
		return err
	}
	role, err := NewRole(uj.Role, uj.Permissions, uj.YearGroup, uj.Class)
	if err != nil {
		return err
	}
	*u = User{
		ID:        uj.ID,
		Username:  uj.Username,
		FullName:  uj.FullName,
		Role:      role,
		CreatedAt: uj.CreatedAt,
		UpdatedAt: uj.UpdatedAt,
	}
	return nil
}

func (u *User) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

func (u *User) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(pwd))
}

// Public returns a copy of the user stripped of any password material.
func (u User) Public() User {
	u.PasswordHash = nil
	u.PasswordCipher = ""
	return u
}

func (u User) RoleName() string { return roleName(u.Role) }

func (u User) Permissions() []Permission {
	if u.Role == nil {
		return []Permission{}
	}
	return u.Role.Permissions()
}

func (u User) HasPermission(perm Permission) bool {
	for _, p := range u.Permissions() {
		if p == perm {
			return true
		}
	}
	return false
}

// HasAnyPermission reports whether the user holds at least one of perms.
func (u User) HasAnyPermission(perms ...Permission) bool {
	for _, p := range perms {
		if u.HasPermission(p) {
			return true
		}
	}
	return false
}

func (u User) IsHeadteacher() bool {
	_, ok := u.Role.(Headteacher)
	return ok
}

func (u User) IsTeacher() bool {
	_, ok := u.Role.(Teacher)
	return ok
}

func (u User) IsStudent() bool {
	_, ok := u.Role.(Student)
	return ok
}

func (u User) IsStaff() bool { return IsStaff(u.Role) }

func (u User) CanModerate() bool { return CanModerate(u.Role) }

func (u User) IsBootstrap() bool { return u.ID == BootstrapID }

func (u User) YearGroup() string {
	if s, ok := u.Role.(Student); ok {
		return s.YearGroup
	}
	return ""
}

func (u User) Class() string {
	if s, ok := u.Role.(Student); ok {
		return s.Class
	}
	return ""
}

// NewUser contains information needed to create a new User.
type NewUser struct {
	Username    string       `json:"username" validate:"required,min=3,alphanum_"`
	FullName    string       `json:"fullName" validate:"required"`
	Password    string       `json:"password" validate:"required"`
	Role        string       `json:"role" validate:"required,role"`
	Permissions []Permission `json:"permissions" validate:"omitempty,permissions"`
	YearGroup   string       `json:"yearGroup"`
	Class       string       `json:"class"`
}

func (nu *NewUser) Validate(validate *validator.Validate) error {
	nu.Username = core.CleanString(nu.Username)
	nu.FullName = core.CleanString(nu.FullName)
	nu.Role = core.CleanString(nu.Role, true /* lower */)
	nu.YearGroup = core.CleanString(nu.YearGroup)
	nu.Class = core.CleanString(nu.Class)
	return validate.Struct(nu)
}

// UpdateUser defines what information may be provided to modify an existing User.
// Empty (or nil) fields are left unchanged.
type UpdateUser struct {
	Username    string        `json:"username" validate:"omitempty,min=3,alphanum_"`
	FullName    string        `json:"fullName"`
	Password    string        `json:"password"`
	Role        string        `json:"role" validate:"omitempty,role"`
	Permissions *[]Permission `json:"permissions" validate:"omitempty,permissions"`
	YearGroup   *string       `json:"yearGroup"`
	Class       *string       `json:"class"`
}

func (uu *UpdateUser) Validate(validate *validator.Validate, origUsr User) error {
	uu.Role = core.CleanString(uu.Role, true /* lower */)
	if uname := core.CleanString(uu.Username); uname != "" {
		uu.Username = uname
	} else {
		uu.Username = origUsr.Username
	}
	if name := core.CleanString(uu.FullName); name != "" {
		uu.FullName = name
	} else {
		uu.FullName = origUsr.FullName
	}
	return validate.Struct(uu)
}

// ChangesRole reports whether applying uu to usr would change their role or permissions.
func (uu UpdateUser) ChangesRole(usr User) bool {
	if uu.Role != "" && uu.Role != usr.RoleName() {
		return true
	}
	if uu.Permissions != nil && !samePermissions(NormalizePermissions(*uu.Permissions), usr.Permissions()) {
		return true
	}
	return false
}

// TouchesAccount reports whether uu changes anything besides the full name and the password.
func (uu UpdateUser) TouchesAccount(usr User) bool {
	return uu.ChangesRole(usr) ||
		(uu.Username != "" && uu.Username != usr.Username) ||
		uu.YearGroup != nil ||
		uu.Class != nil
}

func samePermissions(a, b []Permission) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Credentials is the revealed login information of a User.
type Credentials struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
}

type QueryFilter struct {
	Search    string   `query:"search"`
	Roles     []string `query:"role"`
	YearGroup string   `query:"yearGroup"`
	Class     string   `query:"class"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Search == "" && len(qf.Roles) == 0 && qf.YearGroup == "" && qf.Class == ""
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.YearGroup = core.CleanString(qf.YearGroup)
	qf.Class = core.CleanString(qf.Class)
}

// StudentFilter narrows down the students list.
type StudentFilter struct {
	Search    string `query:"search"`
	YearGroup string `query:"yearGroup"`
	Class     string `query:"class"`
}

// Facets are the distinct year groups and classes students belong to.
type Facets struct {
	YearGroups []string `json:"yearGroups"`
	Classes    []string `json:"classes"`
}
