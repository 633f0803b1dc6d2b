package activity

import "github.com/google/uuid"

// Seed returns the initial ledger: a few activities given by the seeded teacher to the seeded student.
func Seed() []Activity {
	return []Activity{
		{
			ID:          uuid.New().String(),
			StudentID:   "3",
			Type:        TypeReward,
			Description: "Outstanding contribution in science class",
			Points:      5,
			TeacherID:   "2",
			TeacherName: "John Smith",
			Date:        "2023-09-15",
		},
		{
			ID:           uuid.New().String(),
			StudentID:    "3",
			Type:         TypeSanction,
			Description:  "Late submission of homework",
			Points:       2,
			SanctionType: "Late homework",
			TeacherID:    "2",
			TeacherName:  "John Smith",
			Date:         "2023-09-10",
		},
		{
			ID:          uuid.New().String(),
			StudentID:   "3",
			Type:        TypeReward,
			Description: "Helping a classmate with math problems",
			Points:      3,
			TeacherID:   "2",
			TeacherName: "John Smith",
			Date:        "2023-09-05",
		},
	}
}
