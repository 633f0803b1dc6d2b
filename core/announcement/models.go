package announcement

import (
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/learnerair/core"
	"github.com/trezcool/learnerair/core/user"
)

// Targets
const (
	TargetAll      = "all"
	TargetTeachers = "teachers"
	TargetStudents = "students"
	TargetYear     = "year"
	TargetClass    = "class"
)

var AllTargets = []string{TargetAll, TargetTeachers, TargetStudents, TargetYear, TargetClass}

type Announcement struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	Content        string `json:"content"`
	Date           string `json:"date"` // yyyy-mm-dd
	Author         string `json:"author"`
	AuthorID       string `json:"authorId"`
	Target         string `json:"target"`
	TargetSpecific string `json:"targetSpecific,omitempty"`
}

// VisibleTo reports whether usr is among the announcement's audience. Staff see every announcement.
func (a Announcement) VisibleTo(usr user.User) bool {
	if usr.IsStaff() {
		return true
	}
	switch a.Target {
	case TargetAll, TargetStudents:
		return true
	case TargetYear:
		return a.TargetSpecific == usr.YearGroup()
	case TargetClass:
		return a.TargetSpecific == usr.Class()
	default: // TargetTeachers
		return false
	}
}

// Editable reports whether usr may edit or delete the announcement.
func (a Announcement) Editable(usr user.User) bool {
	return a.AuthorID == usr.ID || usr.CanModerate()
}

// NewAnnouncement contains information needed to publish an Announcement.
// It is also used to edit one.
type NewAnnouncement struct {
	Title          string `json:"title" validate:"required"`
	Content        string `json:"content" validate:"required"`
	Target         string `json:"target" validate:"required,target"`
	TargetSpecific string `json:"targetSpecific"`
}

func (na *NewAnnouncement) Validate(validate *validator.Validate) error {
	na.Title = core.CleanString(na.Title)
	na.Content = core.CleanString(na.Content)
	na.Target = core.CleanString(na.Target, true /* lower */)
	na.TargetSpecific = core.CleanString(na.TargetSpecific)
	if na.Target == "" {
		na.Target = TargetAll
	}
	if !(na.Target == TargetYear || na.Target == TargetClass) {
		na.TargetSpecific = ""
	}
	return validate.Struct(na)
}

type Query struct {
	Search string `query:"search"`
}
