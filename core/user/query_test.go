package user

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/learnerair/core"
)

func queryUsers() (head, teacher, emma, liam, zoe User) {
	t0 := time.Date(2023, 9, 1, 0, 0, 0, 0, time.UTC)
	head = User{ID: "1", Username: "Learnerair", FullName: "Head Teacher", Role: Headteacher{}, CreatedAt: t0}
	teacher = User{ID: "2", Username: "teacher1", FullName: "John Smith", Role: Teacher{}, CreatedAt: t0.Add(time.Hour)}
	emma = User{ID: "3", Username: "student1", FullName: "Emma Johnson", Role: Student{YearGroup: "10", Class: "10A"}, CreatedAt: t0.Add(2 * time.Hour)}
	liam = User{ID: "4", Username: "liam", FullName: "Liam Brown", Role: Student{YearGroup: "10", Class: "10B"}, CreatedAt: t0.Add(3 * time.Hour)}
	zoe = User{ID: "5", Username: "zoe", FullName: "Zoe Adams", Role: Student{YearGroup: "9", Class: "9A"}, CreatedAt: t0.Add(4 * time.Hour)}
	return
}

func TestFilterUsers(t *testing.T) {
	head, teacher, emma, liam, zoe := queryUsers()
	users := []User{head, teacher, emma, liam, zoe}

	tests := []struct {
		name   string
		filter QueryFilter
		want   []User
	}{
		{name: "search full name", filter: QueryFilter{Search: "JOHN"}, want: []User{teacher, emma}},
		{name: "search username", filter: QueryFilter{Search: "teacher1"}, want: []User{teacher}},
		{name: "roles", filter: QueryFilter{Roles: []string{RoleHeadteacher, RoleTeacher}}, want: []User{head, teacher}},
		{name: "year group", filter: QueryFilter{YearGroup: "10"}, want: []User{emma, liam}},
		{name: "class", filter: QueryFilter{Class: "9A"}, want: []User{zoe}},
		{name: "combined", filter: QueryFilter{Search: "o", Roles: []string{RoleStudent}, YearGroup: "10"}, want: []User{emma, liam}},
		{name: "nothing", filter: QueryFilter{Search: "lol"}, want: []User{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FilterUsers(users, tt.filter))
		})
	}
}

func TestOrderUsers(t *testing.T) {
	head, teacher, emma, liam, zoe := queryUsers()

	tests := []struct {
		name      string
		orderings []core.Ordering
		want      []User
	}{
		{name: "default (username)", want: []User{head, liam, emma, teacher, zoe}},
		{name: "-createdAt", orderings: []core.Ordering{{Field: "createdAt"}}, want: []User{zoe, liam, emma, teacher, head}},
		{
			name:      "role,-fullName",
			orderings: []core.Ordering{{Field: "role", Ascending: true}, {Field: "fullName"}},
			want:      []User{head, zoe, liam, emma, teacher},
		},
		{name: "unknown field", orderings: []core.Ordering{{Field: "lol"}}, want: []User{zoe, emma, head, liam, teacher}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := []User{zoe, emma, head, liam, teacher}
			OrderUsers(users, tt.orderings)
			assert.Equal(t, tt.want, users)
		})
	}
}

func TestFilterStudents(t *testing.T) {
	head, teacher, emma, liam, zoe := queryUsers()
	users := []User{head, teacher, zoe, liam, emma}

	assert.Equal(t, []User{emma, liam, zoe}, FilterStudents(users, StudentFilter{}))
	assert.Equal(t, []User{emma, liam}, FilterStudents(users, StudentFilter{YearGroup: " 10 "}))
	assert.Equal(t, []User{liam}, FilterStudents(users, StudentFilter{Class: "10B"}))
	assert.Equal(t, []User{zoe}, FilterStudents(users, StudentFilter{Search: "adams"}))
	assert.Equal(t, []User{}, FilterStudents(users, StudentFilter{Search: "smith"}))

	assert.Equal(t, Facets{YearGroups: []string{"10", "9"}, Classes: []string{"10A", "10B", "9A"}}, StudentFacets(users))
}
