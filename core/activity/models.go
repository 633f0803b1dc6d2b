package activity

import (
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/learnerair/core"
	"github.com/trezcool/learnerair/core/user"
)

// Activity types
const (
	TypeReward   = "reward"
	TypeSanction = "sanction"
	TypeAll      = "all"
)

// Activity is a reward or a sanction given to a student.
type Activity struct {
	ID           string `json:"id"`
	StudentID    string `json:"studentId"`
	Type         string `json:"type"`
	Description  string `json:"description"`
	Points       int    `json:"points"`
	SanctionType string `json:"sanctionType,omitempty"`
	TeacherID    string `json:"teacherId"`
	TeacherName  string `json:"teacherName"`
	Date         string `json:"date"` // yyyy-mm-dd
}

func (a Activity) IsReward() bool { return a.Type == TypeReward }

// RequiredPermission is the permission needed to give or remove an activity of type typ.
func RequiredPermission(typ string) user.Permission {
	if typ == TypeReward {
		return user.PermSetRewards
	}
	return user.PermSetSanctions
}

// NewActivity contains information needed to record a new Activity.
type NewActivity struct {
	StudentID    string `json:"studentId" validate:"required"`
	Type         string `json:"type" validate:"required,oneof=reward sanction"`
	Description  string `json:"description" validate:"required"`
	Points       int    `json:"points" validate:"min=0,max=100"`
	SanctionType string `json:"sanctionType"`
	Date         string `json:"date" validate:"omitempty,date"`
}

func (na *NewActivity) Validate(validate *validator.Validate) error {
	na.StudentID = core.CleanString(na.StudentID)
	na.Type = core.CleanString(na.Type, true /* lower */)
	na.Description = core.CleanString(na.Description)
	na.SanctionType = core.CleanString(na.SanctionType)
	na.Date = core.CleanString(na.Date)
	return validate.Struct(na)
}

// Entry is an Activity enriched with the student it was given to.
type Entry struct {
	Activity
	StudentName string `json:"studentName"`
	YearGroup   string `json:"yearGroup,omitempty"`
	Class       string `json:"class,omitempty"`
}

// Filter narrows down ledger entries. All fields AND together; an empty field does not constrain.
type Filter struct {
	Type      string `query:"type" json:"type" validate:"omitempty,oneof=all reward sanction"`
	Date      string `query:"date" json:"date" validate:"omitempty,date"`
	YearGroup string `query:"yearGroup" json:"yearGroup"`
	Class     string `query:"class" json:"class"`
}

func (f *Filter) Validate(validate *validator.Validate) error {
	f.Type = core.CleanString(f.Type, true /* lower */)
	f.Date = core.CleanString(f.Date)
	f.YearGroup = core.CleanString(f.YearGroup)
	f.Class = core.CleanString(f.Class)
	return validate.Struct(f)
}

func (f Filter) Match(e Entry) bool {
	if f.Type != "" && f.Type != TypeAll && e.Type != f.Type {
		return false
	}
	if f.Date != "" && e.Date != f.Date {
		return false
	}
	if f.YearGroup != "" && e.YearGroup != f.YearGroup {
		return false
	}
	if f.Class != "" && e.Class != f.Class {
		return false
	}
	return true
}

// Counts holds the number of rewards and sanctions of a group.
type Counts struct {
	Rewards   int `json:"rewards"`
	Sanctions int `json:"sanctions"`
}

// Stats is the aggregation of a set of ledger entries.
type Stats struct {
	TotalRewards   int               `json:"totalRewards"`
	TotalSanctions int               `json:"totalSanctions"`
	RewardPoints   int               `json:"rewardPoints"`
	SanctionPoints int               `json:"sanctionPoints"`
	YearGroups     map[string]Counts `json:"yearGroups"`
	Classes        map[string]Counts `json:"classes"`
	SanctionTypes  map[string]int    `json:"sanctionTypes"`
}

// Totals are the points a student earned through rewards and lost through sanctions.
type Totals struct {
	Rewards        int `json:"rewards"`
	Sanctions      int `json:"sanctions"`
	RewardPoints   int `json:"rewardPoints"`
	SanctionPoints int `json:"sanctionPoints"`
}
