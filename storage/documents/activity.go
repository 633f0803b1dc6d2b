package documents

import (
	"context"

	"github.com/trezcool/learnerair/core"
	"github.com/trezcool/learnerair/core/activity"
)

type activityRepository struct {
	db *DB
}

func NewActivityRepository(db *DB) activity.Repository {
	return &activityRepository{db: db}
}

func seedActivities() ([]activity.Activity, error) { return activity.Seed(), nil }

func (repo *activityRepository) read(ctx context.Context) ([]activity.Activity, error) {
	return readOrSeed(ctx, repo.db.store, core.KeyStudentActivities, seedActivities)
}

func (repo *activityRepository) QueryAllActivities(ctx context.Context) ([]activity.Activity, error) {
	return view(ctx, &repo.db.activities, repo.db.store, core.KeyStudentActivities, seedActivities)
}

func (repo *activityRepository) GetActivityByID(ctx context.Context, id string) (activity.Activity, error) {
	acts, err := repo.QueryAllActivities(ctx)
	if err != nil {
		return activity.Activity{}, err
	}
	for _, act := range acts {
		if act.ID == id {
			return act, nil
		}
	}
	return activity.Activity{}, activity.ErrNotFound
}

func (repo *activityRepository) PrependActivity(ctx context.Context, act activity.Activity) error {
	repo.db.activities.Lock()
	defer repo.db.activities.Unlock()

	acts, err := repo.read(ctx)
	if err != nil {
		return err
	}
	return core.Write(ctx, repo.db.store, core.KeyStudentActivities, append([]activity.Activity{act}, acts...))
}

func (repo *activityRepository) DeleteActivity(ctx context.Context, id string) error {
	repo.db.activities.Lock()
	defer repo.db.activities.Unlock()

	acts, err := repo.read(ctx)
	if err != nil {
		return err
	}
	for i := range acts {
		if acts[i].ID == id {
			return core.Write(ctx, repo.db.store, core.KeyStudentActivities, append(acts[:i], acts[i+1:]...))
		}
	}
	return activity.ErrNotFound
}
