package documents

import (
	"context"

	"github.com/trezcool/learnerair/core"
	"github.com/trezcool/learnerair/core/homework"
)

type homeworkRepository struct {
	db *DB
}

func NewHomeworkRepository(db *DB) homework.Repository {
	return &homeworkRepository{db: db}
}

func seedHomeworks() ([]homework.Homework, error) {
	return homework.Seed(homework.NowFunc().UTC()), nil
}

func (repo *homeworkRepository) readHomeworks(ctx context.Context) ([]homework.Homework, error) {
	return readOrSeed(ctx, repo.db.store, core.KeyHomeworks, seedHomeworks)
}

func (repo *homeworkRepository) readCompletions(ctx context.Context) ([]homework.Completion, error) {
	return nonNilCompletions(readOrSeed(ctx, repo.db.store, core.KeyHomeworkCompletions, seedOf([]homework.Completion{})))
}

func nonNilCompletions(completions []homework.Completion, err error) ([]homework.Completion, error) {
	if completions == nil {
		completions = []homework.Completion{}
	}
	return completions, err
}

func (repo *homeworkRepository) QueryAllHomeworks(ctx context.Context) ([]homework.Homework, error) {
	return view(ctx, &repo.db.homeworks, repo.db.store, core.KeyHomeworks, seedHomeworks)
}

func (repo *homeworkRepository) GetHomeworkByID(ctx context.Context, id string) (homework.Homework, error) {
	hws, err := repo.QueryAllHomeworks(ctx)
	if err != nil {
		return homework.Homework{}, err
	}
	for _, hw := range hws {
		if hw.ID == id {
			return hw, nil
		}
	}
	return homework.Homework{}, homework.ErrNotFound
}

func (repo *homeworkRepository) CreateHomework(ctx context.Context, hw homework.Homework) (homework.Homework, error) {
	repo.db.homeworks.Lock()
	defer repo.db.homeworks.Unlock()

	hws, err := repo.readHomeworks(ctx)
	if err != nil {
		return homework.Homework{}, err
	}
	if err := core.Write(ctx, repo.db.store, core.KeyHomeworks, append(hws, hw)); err != nil {
		return homework.Homework{}, err
	}
	return hw, nil
}

func (repo *homeworkRepository) DeleteHomework(ctx context.Context, id string) error {
	repo.db.homeworks.Lock()
	defer repo.db.homeworks.Unlock()

	hws, err := repo.readHomeworks(ctx)
	if err != nil {
		return err
	}
	for i := range hws {
		if hws[i].ID == id {
			return core.Write(ctx, repo.db.store, core.KeyHomeworks, append(hws[:i], hws[i+1:]...))
		}
	}
	return homework.ErrNotFound
}

func (repo *homeworkRepository) QueryAllCompletions(ctx context.Context) ([]homework.Completion, error) {
	return nonNilCompletions(view(ctx, &repo.db.completions, repo.db.store, core.KeyHomeworkCompletions, seedOf([]homework.Completion{})))
}

func (repo *homeworkRepository) SaveCompletion(ctx context.Context, c homework.Completion) (homework.Completion, error) {
	repo.db.completions.Lock()
	defer repo.db.completions.Unlock()

	completions, err := repo.readCompletions(ctx)
	if err != nil {
		return homework.Completion{}, err
	}
	for _, done := range completions {
		if done.StudentID == c.StudentID && done.HomeworkID == c.HomeworkID {
			return done, nil
		}
	}
	if err := core.Write(ctx, repo.db.store, core.KeyHomeworkCompletions, append(completions, c)); err != nil {
		return homework.Completion{}, err
	}
	return c, nil
}

func (repo *homeworkRepository) DeleteHomeworkCompletions(ctx context.Context, homeworkID string) error {
	repo.db.completions.Lock()
	defer repo.db.completions.Unlock()

	completions, err := repo.readCompletions(ctx)
	if err != nil {
		return err
	}
	kept := completions[:0]
	for _, c := range completions {
		if c.HomeworkID != homeworkID {
			kept = append(kept, c)
		}
	}
	if len(kept) == len(completions) {
		return nil
	}
	return core.Write(ctx, repo.db.store, core.KeyHomeworkCompletions, kept)
}
