package user

import (
	"sort"
	"strings"

	"github.com/trezcool/learnerair/core"
)

var orderingComparators = core.Comparators[User]{
	"username": func(a, b User) int { return strings.Compare(strings.ToLower(a.Username), strings.ToLower(b.Username)) },
	"fullName": func(a, b User) int { return strings.Compare(a.FullName, b.FullName) },
	"role":     func(a, b User) int { return strings.Compare(a.RoleName(), b.RoleName()) },
	"createdAt": func(a, b User) int {
		switch {
		case a.CreatedAt.Before(b.CreatedAt):
			return -1
		case a.CreatedAt.After(b.CreatedAt):
			return 1
		}
		return 0
	},
}

// FilterUsers applies AND operation on available QueryFilter fields.
// QueryFilter.Search does a case-insensitive match on one of User.FullName or User.Username.
func FilterUsers(users []User, filter QueryFilter) []User {
	filtered := make([]User, 0, len(users))
	for _, u := range users {
		if filter.Search != "" && !core.ContainsFold(u.FullName, filter.Search) && !core.ContainsFold(u.Username, filter.Search) {
			continue
		}
		if len(filter.Roles) > 0 && !hasAnyRole(u, filter.Roles) {
			continue
		}
		if filter.YearGroup != "" && u.YearGroup() != filter.YearGroup {
			continue
		}
		if filter.Class != "" && u.Class() != filter.Class {
			continue
		}
		filtered = append(filtered, u)
	}
	return filtered
}

func hasAnyRole(usr User, roles []string) bool {
	for _, r := range roles {
		if usr.RoleName() == r {
			return true
		}
	}
	return false
}

// OrderUsers sorts users by the given orderings. Users are ordered by username when none is given.
func OrderUsers(users []User, orderings []core.Ordering) {
	if len(orderings) == 0 {
		orderings = []core.Ordering{{Field: "username", Ascending: true}}
	}
	core.SortBy(users, orderings, orderingComparators)
}

// FilterStudents keeps the students matching filter, sorted by full name.
func FilterStudents(users []User, filter StudentFilter) []User {
	students := FilterUsers(users, QueryFilter{
		Roles:     []string{RoleStudent},
		YearGroup: core.CleanString(filter.YearGroup),
		Class:     core.CleanString(filter.Class),
	})
	if search := core.CleanString(filter.Search); search != "" {
		matched := students[:0]
		for _, s := range students {
			if core.ContainsFold(s.FullName, search) {
				matched = append(matched, s)
			}
		}
		students = matched
	}
	sort.SliceStable(students, func(i, j int) bool { return students[i].FullName < students[j].FullName })
	return students
}

// StudentFacets returns the distinct, sorted year groups and classes of the students in users.
func StudentFacets(users []User) Facets {
	years := make(map[string]struct{})
	classes := make(map[string]struct{})
	for _, u := range users {
		if !u.IsStudent() {
			continue
		}
		if yg := u.YearGroup(); yg != "" {
			years[yg] = struct{}{}
		}
		if c := u.Class(); c != "" {
			classes[c] = struct{}{}
		}
	}
	return Facets{YearGroups: sortedKeys(years), Classes: sortedKeys(classes)}
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
