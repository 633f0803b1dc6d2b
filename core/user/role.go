package user

import "github.com/pkg/errors"

// Permissions
const (
	PermAddUsers            Permission = "add_users"
	PermViewAllUsers        Permission = "view_all_users"
	PermManagePermissions   Permission = "manage_permissions"
	PermSetHomework         Permission = "set_homework"
	PermViewUserCredentials Permission = "view_user_credentials"
	PermSetSanctions        Permission = "set_sanctions"
	PermSetRewards          Permission = "set_rewards"
	PermMakeAnnouncements   Permission = "make_announcements"
	PermDeleteHomework      Permission = "delete_homework"
)

// Roles
const (
	RoleHeadteacher = "headteacher"
	RoleTeacher     = "teacher"
	RoleStudent     = "student"
)

var (
	AllPermissions = []Permission{
		PermAddUsers,
		PermViewAllUsers,
		PermManagePermissions,
		PermSetHomework,
		PermViewUserCredentials,
		PermSetSanctions,
		PermSetRewards,
		PermMakeAnnouncements,
		PermDeleteHomework,
	}
	AllRoles = []string{RoleHeadteacher, RoleTeacher, RoleStudent}

	permissionRank = func() map[Permission]int {
		rank := make(map[Permission]int, len(AllPermissions))
		for i, p := range AllPermissions {
			rank[p] = i
		}
		return rank
	}()

	errUnknownRole = errors.New("unknown role")
)

// Permission is a fine-grained capability flag, independent of the role.
type Permission string

func (p Permission) IsValid() bool {
	_, ok := permissionRank[p]
	return ok
}

// NormalizePermissions drops unknown and duplicate permissions and sorts the rest in AllPermissions order.
func NormalizePermissions(perms []Permission) []Permission {
	seen := make([]bool, len(AllPermissions))
	for _, p := range perms {
		if i, ok := permissionRank[p]; ok {
			seen[i] = true
		}
	}
	normalized := make([]Permission, 0, len(perms))
	for i, ok := range seen {
		if ok {
			normalized = append(normalized, AllPermissions[i])
		}
	}
	return normalized
}

// Role is one of Headteacher, Teacher or Student.
type Role interface {
	Name() string
	Permissions() []Permission
	isRole()
}

// Headteacher holds every permission.
type Headteacher struct{}

// Teacher holds the permissions explicitly granted to them.
type Teacher struct {
	Granted []Permission
}

// Student holds no permission, but belongs to a year group and a class.
type Student struct {
	YearGroup string
	Class     string
}

func (Headteacher) Name() string { return RoleHeadteacher }
func (Teacher) Name() string     { return RoleTeacher }
func (Student) Name() string     { return RoleStudent }

func (Headteacher) Permissions() []Permission {
	perms := make([]Permission, len(AllPermissions))
	copy(perms, AllPermissions)
	return perms
}

func (r Teacher) Permissions() []Permission { return NormalizePermissions(r.Granted) }

func (Student) Permissions() []Permission { return []Permission{} }

func (Headteacher) isRole() {}
func (Teacher) isRole()     {}
func (Student) isRole()     {}

// NewRole builds the Role named `name`, keeping only the data that role carries.
func NewRole(name string, perms []Permission, yearGroup, class string) (Role, error) {
	switch name {
	case RoleHeadteacher:
		return Headteacher{}, nil
	case RoleTeacher:
		return Teacher{Granted: NormalizePermissions(perms)}, nil
	case RoleStudent:
		return Student{YearGroup: yearGroup, Class: class}, nil
	default:
		return nil, errors.Wrap(errUnknownRole, name)
	}
}

// IsStaff reports whether the role belongs to the school staff.
func IsStaff(r Role) bool {
	switch r.(type) {
	case Headteacher, Teacher:
		return true
	default:
		return false
	}
}

// CanModerate reports whether the role may edit or delete content authored by others.
func CanModerate(r Role) bool {
	_, ok := r.(Headteacher)
	return ok
}

func roleName(r Role) string {
	if r == nil {
		return ""
	}
	return r.Name()
}
