package homework

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/learnerair/core"
)

// Attachment references a file by name only; file contents are not stored.
type Attachment struct {
	ID   string `json:"id"`
	Name string `json:"name" validate:"required"`
	Type string `json:"type"`
}

type Homework struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Subject     string       `json:"subject"`
	Class       string       `json:"class,omitempty"`
	DueDate     string       `json:"dueDate"` // yyyy-mm-dd
	Attachments []Attachment `json:"attachments,omitempty"`
	AuthorID    string       `json:"authorId,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
}

// VisibleTo reports whether the homework is assigned to the students of class.
// Homework without a class is assigned to everyone.
func (hw Homework) VisibleTo(class string) bool {
	return hw.Class == "" || hw.Class == class
}

// NewHomework contains information needed to set a new Homework.
type NewHomework struct {
	Title       string       `json:"title" validate:"required"`
	Description string       `json:"description"`
	Subject     string       `json:"subject" validate:"required"`
	Class       string       `json:"class"`
	DueDate     string       `json:"dueDate" validate:"required,date"`
	Attachments []Attachment `json:"attachments" validate:"omitempty,dive"`
}

func (nh *NewHomework) Validate(validate *validator.Validate) error {
	nh.Title = core.CleanString(nh.Title)
	nh.Description = core.CleanString(nh.Description)
	nh.Subject = core.CleanString(nh.Subject)
	nh.Class = core.CleanString(nh.Class)
	nh.DueDate = core.CleanString(nh.DueDate)
	for i := range nh.Attachments {
		nh.Attachments[i].Name = core.CleanString(nh.Attachments[i].Name)
	}
	return validate.Struct(nh)
}

// Completion records that a student completed a homework. (StudentID, HomeworkID) is unique.
type Completion struct {
	StudentID   string    `json:"studentId"`
	HomeworkID  string    `json:"homeworkId"`
	CompletedAt time.Time `json:"completedAt"`
}

// Assignment is a Homework as seen by a student.
type Assignment struct {
	Homework
	Completed bool `json:"completed"`
}

type Query struct {
	Class string `query:"class"`
}
