package announcement

// Seed returns the initial announcements, most recent first.
func Seed() []Announcement {
	return []Announcement{
		{
			ID:    "1",
			Title: "School Closure - Staff Training Day",
			Content: "Please be informed that the school will be closed on Friday, September 20th for a staff training day. " +
				"Classes will resume as normal on Monday, September 23rd. Thank you for your understanding.",
			Date:     "2023-09-12",
			Author:   "Head Teacher",
			AuthorID: "1",
			Target:   TargetAll,
		},
		{
			ID:    "2",
			Title: "Science Fair Registration Open",
			Content: "Registration for the annual Science Fair is now open! Students interested in participating should register by October 5th. " +
				"For more details, please see the Science Department or check the school website.",
			Date:     "2023-09-10",
			Author:   "Ms. Davis",
			AuthorID: "2",
			Target:   TargetStudents,
		},
		{
			ID:    "3",
			Title: "Year 10 Parents Evening",
			Content: "A reminder that Year 10 Parents Evening will be held next Thursday from 4:30pm to 7:00pm in the main hall. " +
				"Appointment schedules have been sent home with students.",
			Date:           "2023-09-05",
			Author:         "Head Teacher",
			AuthorID:       "1",
			Target:         TargetYear,
			TargetSpecific: "10",
		},
	}
}
