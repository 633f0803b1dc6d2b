package homework

import (
	"time"

	"github.com/trezcool/learnerair/core"
)

// Seed returns the initial homework, due 1, 3 and 5 days after now.
func Seed(now time.Time) []Homework {
	due := func(days int) string { return now.AddDate(0, 0, days).Format(core.DateLayout) }
	return []Homework{
		{ID: "1", Title: "Math - Algebra Problems", Description: "Sets 4-6 on page 128", Subject: "Math", DueDate: due(1), CreatedAt: now},
		{ID: "2", Title: "English - Essay", Description: "Comparison of themes", Subject: "English", DueDate: due(3), CreatedAt: now},
		{ID: "3", Title: "Science - Lab Report", Description: "Write up of chemistry experiment", Subject: "Science", DueDate: due(5), CreatedAt: now},
	}
}
