// Package homework manages the homework set by teachers and its completion by students.
package homework

import (
	"context"
	"sort"
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
	ErrNotFound = core.NewNotFoundError("homework")
)

type (
	Repository interface {
		QueryAllHomeworks(ctx context.Context) ([]Homework, error)
		GetHomeworkByID(ctx context.Context, id string) (Homework, error)
		CreateHomework(ctx context.Context, hw Homework) (Homework, error)
		DeleteHomework(ctx context.Context, id string) error

		QueryAllCompletions(ctx context.Context) ([]Completion, error)
		// SaveCompletion stores c unless (c.StudentID, c.HomeworkID) is already complete, and returns the stored one.
		SaveCompletion(ctx context.Context, c Completion) (Completion, error)
		DeleteHomeworkCompletions(ctx context.Context, homeworkID string) error
	}

	Service struct {
		repo     Repository
		validate *validator.Validate
	}
)

func NewService(repo Repository, validate *validator.Validate) *Service {
	return &Service{repo: repo, validate: validate}
}

func (svc *Service) Create(ctx context.Context, nh NewHomework, author user.User) (Homework, error) {
	if !author.HasPermission(user.PermSetHomework) {
		return Homework{}, core.ErrPermissionDenied
	}
	if err := nh.Validate(svc.validate); err != nil {
		return Homework{}, err
	}

	for i := range nh.Attachments {
		if nh.Attachments[i].ID == "" {
			nh.Attachments[i].ID = uuid.New().String()
		}
	}
	hw := Homework{
		ID:          uuid.New().String(),
		Title:       nh.Title,
		Description: nh.Description,
		Subject:     nh.Subject,
		Class:       nh.Class,
		DueDate:     nh.DueDate,
		Attachments: nh.Attachments,
		AuthorID:    author.ID,
		CreatedAt:   NowFunc().UTC(),
	}
	hw, err := svc.repo.CreateHomework(ctx, hw)
	return hw, errors.Wrap(err, "creating homework")
}

func (svc *Service) Get(ctx context.Context, id string) (Homework, error) {
	return svc.repo.GetHomeworkByID(ctx, id)
}

// List returns the homework visible to q.Class (all of it without a class), soonest due first.
func (svc *Service) List(ctx context.Context, q Query) ([]Homework, error) {
	all, err := svc.repo.QueryAllHomeworks(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "querying homeworks")
	}
	hws := make([]Homework, 0, len(all))
	for _, hw := range all {
		if q.Class == "" || hw.VisibleTo(q.Class) {
			hws = append(hws, hw)
		}
	}
	sort.SliceStable(hws, func(i, j int) bool { return hws[i].DueDate < hws[j].DueDate })
	return hws, nil
}

// Delete removes a homework along with its completions.
func (svc *Service) Delete(ctx context.Context, id string, by user.User) error {
	if !by.HasPermission(user.PermDeleteHomework) {
		return core.ErrPermissionDenied
	}
	if err := svc.repo.DeleteHomework(ctx, id); err != nil {
		return err
	}
	return errors.Wrap(svc.repo.DeleteHomeworkCompletions(ctx, id), "deleting completions")
}

// MarkComplete records that student completed the homework. Marking it twice is not an error.
func (svc *Service) MarkComplete(ctx context.Context, student user.User, homeworkID string) (Completion, error) {
	if !student.IsStudent() {
		return Completion{}, core.ErrPermissionDenied
	}
	hw, err := svc.repo.GetHomeworkByID(ctx, homeworkID)
	if err != nil {
		return Completion{}, err
	}
	if !hw.VisibleTo(student.Class()) {
		return Completion{}, ErrNotFound
	}
	c, err := svc.repo.SaveCompletion(ctx, Completion{
		StudentID:   student.ID,
		HomeworkID:  homeworkID,
		CompletedAt: NowFunc().UTC(),
	})
	return c, errors.Wrap(err, "saving completion")
}

func (svc *Service) IsComplete(ctx context.Context, studentID, homeworkID string) (bool, error) {
	completions, err := svc.repo.QueryAllCompletions(ctx)
	if err != nil {
		return false, errors.Wrap(err, "querying completions")
	}
	for _, c := range completions {
		if c.StudentID == studentID && c.HomeworkID == homeworkID {
			return true, nil
		}
	}
	return false, nil
}

// CompletionsForStudent maps the ids of the homework a student completed to true.
func (svc *Service) CompletionsForStudent(ctx context.Context, studentID string) (map[string]bool, error) {
	completions, err := svc.repo.QueryAllCompletions(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "querying completions")
	}
	done := make(map[string]bool)
	for _, c := range completions {
		if c.StudentID == studentID {
			done[c.HomeworkID] = true
		}
	}
	return done, nil
}

func (svc *Service) CompletionsForHomework(ctx context.Context, homeworkID string) ([]Completion, error) {
	if _, err := svc.repo.GetHomeworkByID(ctx, homeworkID); err != nil {
		return nil, err
	}
	completions, err := svc.repo.QueryAllCompletions(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "querying completions")
	}
	matched := make([]Completion, 0)
	for _, c := range completions {
		if c.HomeworkID == homeworkID {
			matched = append(matched, c)
		}
	}
	return matched, nil
}

// ForStudent returns the homework assigned to student's class, flagged with its completion.
// A student without a class only gets the homework set for everyone.
func (svc *Service) ForStudent(ctx context.Context, student user.User) ([]Assignment, error) {
	hws, err := svc.List(ctx, Query{})
	if err != nil {
		return nil, err
	}
	done, err := svc.CompletionsForStudent(ctx, student.ID)
	if err != nil {
		return nil, err
	}
	assignments := make([]Assignment, 0, len(hws))
	for _, hw := range hws {
		if !hw.VisibleTo(student.Class()) {
			continue
		}
		assignments = append(assignments, Assignment{Homework: hw, Completed: done[hw.ID]})
	}
	return assignments, nil
}
