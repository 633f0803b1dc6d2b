// Package activity records the rewards and sanctions given to students, and aggregates them.
package activity

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/learnerair/core"
	"github.com/trezcool/learnerair/core/user"
)

var (
	NowFunc = time.Now // mockable

	// errors
	ErrNotFound = core.NewNotFoundError("activity")
)

type (
	Repository interface {
		// QueryAllActivities returns the whole ledger, most recent first.
		QueryAllActivities(ctx context.Context) ([]Activity, error)
		GetActivityByID(ctx context.Context, id string) (Activity, error)
		// PrependActivity adds act at the front of the ledger.
		PrependActivity(ctx context.Context, act Activity) error
		// DeleteActivity removes exactly the activity identified by id.
		DeleteActivity(ctx context.Context, id string) error
	}

	// Students looks up the students activities are given to.
	Students interface {
		GetStudent(ctx context.Context, id string) (user.User, error)
		QueryAll(ctx context.Context) ([]user.User, error)
	}

	Ledger struct {
		repo     Repository
		students Students
		validate *validator.Validate
	}
)

func NewLedger(repo Repository, students Students, validate *validator.Validate) *Ledger {
	return &Ledger{repo: repo, students: students, validate: validate}
}

// Add records a new activity given by teacher, at the front of the ledger.
func (l *Ledger) Add(ctx context.Context, na NewActivity, teacher user.User) (Activity, error) {
	if err := na.Validate(l.validate); err != nil {
		return Activity{}, err
	}
	if !teacher.HasPermission(RequiredPermission(na.Type)) {
		return Activity{}, core.ErrPermissionDenied
	}
	if _, err := l.students.GetStudent(ctx, na.StudentID); err != nil {
		return Activity{}, errors.Wrap(err, "finding student")
	}

	act := Activity{
		ID:          uuid.New().String(),
		StudentID:   na.StudentID,
		Type:        na.Type,
		Description: na.Description,
		Points:      na.Points,
		TeacherID:   teacher.ID,
		TeacherName: teacher.FullName,
		Date:        na.Date,
	}
	if act.Type == TypeSanction {
		act.SanctionType = na.SanctionType
	}
	if act.Date == "" {
		act.Date = NowFunc().Format(core.DateLayout)
	}

	if err := l.repo.PrependActivity(ctx, act); err != nil {
		return Activity{}, errors.Wrap(err, "saving activity")
	}
	return act, nil
}

func (l *Ledger) Get(ctx context.Context, id string) (Activity, error) {
	return l.repo.GetActivityByID(ctx, id)
}

// Delete removes the activity identified by id, if by holds the permission matching its type.
func (l *Ledger) Delete(ctx context.Context, id string, by user.User) error {
	act, err := l.repo.GetActivityByID(ctx, id)
	if err != nil {
		return err
	}
	if !by.HasPermission(RequiredPermission(act.Type)) {
		return core.ErrPermissionDenied
	}
	return l.repo.DeleteActivity(ctx, id)
}

// ForStudent returns the activities of a student, most recent first.
func (l *Ledger) ForStudent(ctx context.Context, studentID string) ([]Activity, error) {
	all, err := l.repo.QueryAllActivities(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "querying activities")
	}
	acts := make([]Activity, 0)
	for _, a := range all {
		if a.StudentID == studentID {
			acts = append(acts, a)
		}
	}
	return acts, nil
}

// List returns the ledger entries matching filter, most recent first.
func (l *Ledger) List(ctx context.Context, filter Filter) ([]Entry, error) {
	if err := filter.Validate(l.validate); err != nil {
		return nil, err
	}
	all, err := l.repo.QueryAllActivities(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "querying activities")
	}
	users, err := l.students.QueryAll(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "querying users")
	}

	entries := make([]Entry, 0, len(all))
	for _, e := range Enrich(all, users) {
		if filter.Match(e) {
			entries = append(entries, e)
		}
	}
	return entries, nil
}

// Stats returns the ledger entries matching filter along with their aggregation.
func (l *Ledger) Stats(ctx context.Context, filter Filter) ([]Entry, Stats, error) {
	entries, err := l.List(ctx, filter)
	if err != nil {
		return nil, Stats{}, err
	}
	return entries, Aggregate(entries), nil
}

// Enrich joins activities with the students they were given to.
func Enrich(acts []Activity, users []user.User) []Entry {
	byID := make(map[string]user.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	entries := make([]Entry, 0, len(acts))
	for _, a := range acts {
		e := Entry{Activity: a}
		if student, ok := byID[a.StudentID]; ok {
			e.StudentName = student.FullName
			e.YearGroup = student.YearGroup()
			e.Class = student.Class()
		}
		entries = append(entries, e)
	}
	return entries
}
