package documents

import (
	"context"

	"github.com/trezcool/learnerair/core"
	"github.com/trezcool/learnerair/core/announcement"
)

type announcementRepository struct {
	db *DB
}

func NewAnnouncementRepository(db *DB) announcement.Repository {
	return &announcementRepository{db: db}
}

func seedAnnouncements() ([]announcement.Announcement, error) { return announcement.Seed(), nil }

func (repo *announcementRepository) read(ctx context.Context) ([]announcement.Announcement, error) {
	return readOrSeed(ctx, repo.db.store, core.KeyAnnouncements, seedAnnouncements)
}

func (repo *announcementRepository) write(ctx context.Context, anns []announcement.Announcement) error {
	return core.Write(ctx, repo.db.store, core.KeyAnnouncements, anns)
}

func (repo *announcementRepository) QueryAllAnnouncements(ctx context.Context) ([]announcement.Announcement, error) {
	return view(ctx, &repo.db.announcements, repo.db.store, core.KeyAnnouncements, seedAnnouncements)
}

func (repo *announcementRepository) GetAnnouncementByID(ctx context.Context, id string) (announcement.Announcement, error) {
	anns, err := repo.QueryAllAnnouncements(ctx)
	if err != nil {
		return announcement.Announcement{}, err
	}
	for _, a := range anns {
		if a.ID == id {
			return a, nil
		}
	}
	return announcement.Announcement{}, announcement.ErrNotFound
}

func (repo *announcementRepository) PrependAnnouncement(ctx context.Context, a announcement.Announcement) error {
	repo.db.announcements.Lock()
	defer repo.db.announcements.Unlock()

	anns, err := repo.read(ctx)
	if err != nil {
		return err
	}
	return repo.write(ctx, append([]announcement.Announcement{a}, anns...))
}

func (repo *announcementRepository) UpdateAnnouncement(ctx context.Context, a announcement.Announcement) (announcement.Announcement, error) {
	repo.db.announcements.Lock()
	defer repo.db.announcements.Unlock()

	anns, err := repo.read(ctx)
	if err != nil {
		return announcement.Announcement{}, err
	}
	for i := range anns {
		if anns[i].ID == a.ID {
			anns[i] = a
			return a, repo.write(ctx, anns)
		}
	}
	return announcement.Announcement{}, announcement.ErrNotFound
}

func (repo *announcementRepository) DeleteAnnouncement(ctx context.Context, id string) error {
	repo.db.announcements.Lock()
	defer repo.db.announcements.Unlock()

	anns, err := repo.read(ctx)
	if err != nil {
		return err
	}
	for i := range anns {
		if anns[i].ID == id {
			return repo.write(ctx, append(anns[:i], anns[i+1:]...))
		}
	}
	return announcement.ErrNotFound
}
