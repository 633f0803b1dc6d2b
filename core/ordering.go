package core

import "sort"

type Ordering struct {
	Field     string
	Ascending bool
}

func (ord Ordering) String() string {
	direction := "DESC"
	if ord.Ascending {
		direction = "ASC"
	}
	return ord.Field + " " + direction
}

// Comparators maps a field name to a three-way comparison of two items on that field.
type Comparators[T any] map[string]func(a, b T) int

// SortBy stable-sorts items by the given orderings, first ordering first.
// Orderings on unknown fields are ignored.
func SortBy[T any](items []T, orderings []Ordering, cmps Comparators[T]) {
	if len(orderings) == 0 {
		return
	}
	sort.SliceStable(items, func(i, j int) bool {
		for _, ord := range orderings {
			cmp, ok := cmps[ord.Field]
			if !ok {
				continue
			}
			c := cmp(items[i], items[j])
			if c == 0 {
				continue
			}
			if ord.Ascending {
				return c < 0
			}
			return c > 0
		}
		return false
	})
}
