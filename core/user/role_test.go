package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePermissions(t *testing.T) {
	tests := []struct {
		name  string
		perms []Permission
		want  []Permission
	}{
		{name: "nil", want: []Permission{}},
		{name: "unknown dropped", perms: []Permission{"lol", PermSetRewards}, want: []Permission{PermSetRewards}},
		{
			name:  "duplicates dropped & sorted",
			perms: []Permission{PermMakeAnnouncements, PermAddUsers, PermMakeAnnouncements},
			want:  []Permission{PermAddUsers, PermMakeAnnouncements},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizePermissions(tt.perms))
		})
	}
}

func TestNewRole(t *testing.T) {
	t.Run("headteacher holds every permission", func(t *testing.T) {
		r, err := NewRole(RoleHeadteacher, []Permission{PermSetRewards}, "10", "10A")
		require.NoError(t, err)
		assert.Equal(t, Headteacher{}, r)
		assert.Equal(t, AllPermissions, r.Permissions())
		assert.True(t, IsStaff(r))
		assert.True(t, CanModerate(r))
	})

	t.Run("teacher keeps granted permissions only", func(t *testing.T) {
		r, err := NewRole(RoleTeacher, []Permission{PermSetRewards, PermSetHomework}, "10", "10A")
		require.NoError(t, err)
		assert.Equal(t, Teacher{Granted: []Permission{PermSetHomework, PermSetRewards}}, r)
		assert.True(t, IsStaff(r))
		assert.False(t, CanModerate(r))
	})

	t.Run("student holds no permission", func(t *testing.T) {
		r, err := NewRole(RoleStudent, AllPermissions, "10", "10A")
		require.NoError(t, err)
		assert.Equal(t, Student{YearGroup: "10", Class: "10A"}, r)
		assert.Empty(t, r.Permissions())
		assert.False(t, IsStaff(r))
	})

	t.Run("unknown role", func(t *testing.T) {
		_, err := NewRole("janitor", nil, "", "")
		assert.Error(t, err)
	})
}

func TestUser_permissions(t *testing.T) {
	teacher := User{Role: Teacher{Granted: []Permission{PermSetRewards}}}
	assert.True(t, teacher.HasPermission(PermSetRewards))
	assert.False(t, teacher.HasPermission(PermSetSanctions))
	assert.True(t, teacher.HasAnyPermission(PermSetSanctions, PermSetRewards))
	assert.False(t, teacher.HasAnyPermission())

	var nobody User
	assert.Empty(t, nobody.Permissions())
	assert.False(t, nobody.IsStaff())
	assert.Equal(t, "", nobody.RoleName())
}

func TestUpdateUser_ChangesRole(t *testing.T) {
	head := User{ID: BootstrapID, Username: BootstrapUsername, Role: Headteacher{}}
	perms := func(p ...Permission) *[]Permission { return &p }

	assert.False(t, UpdateUser{}.ChangesRole(head))
	assert.False(t, UpdateUser{Role: RoleHeadteacher}.ChangesRole(head))
	assert.False(t, UpdateUser{Permissions: perms(AllPermissions...)}.ChangesRole(head))
	assert.True(t, UpdateUser{Role: RoleTeacher}.ChangesRole(head))
	assert.True(t, UpdateUser{Permissions: perms(PermSetRewards)}.ChangesRole(head))

	class := "10B"
	student := User{Username: "emma", Role: Student{YearGroup: "10", Class: "10A"}}
	assert.False(t, UpdateUser{Username: "emma"}.TouchesAccount(student))
	assert.True(t, UpdateUser{Username: "emma2"}.TouchesAccount(student))
	assert.True(t, UpdateUser{Class: &class}.TouchesAccount(student))
}
