// Package announcement publishes announcements to the whole school or to parts of it.
package announcement

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
	ErrNotFound = core.NewNotFoundError("announcement")
)

type (
	Repository interface {
		// QueryAllAnnouncements returns every announcement, most recent first.
		QueryAllAnnouncements(ctx context.Context) ([]Announcement, error)
		GetAnnouncementByID(ctx context.Context, id string) (Announcement, error)
		PrependAnnouncement(ctx context.Context, a Announcement) error
		UpdateAnnouncement(ctx context.Context, a Announcement) (Announcement, error)
		DeleteAnnouncement(ctx context.Context, id string) error
	}

	Service struct {
		repo     Repository
		validate *validator.Validate
	}
)

func NewService(repo Repository, validate *validator.Validate) *Service {
	return &Service{repo: repo, validate: validate}
}

func (svc *Service) Create(ctx context.Context, na NewAnnouncement, author user.User) (Announcement, error) {
	if !author.HasPermission(user.PermMakeAnnouncements) {
		return Announcement{}, core.ErrPermissionDenied
	}
	if err := na.Validate(svc.validate); err != nil {
		return Announcement{}, err
	}
	a := Announcement{
		ID:             uuid.New().String(),
		Title:          na.Title,
		Content:        na.Content,
		Date:           NowFunc().Format(core.DateLayout),
		Author:         author.FullName,
		AuthorID:       author.ID,
		Target:         na.Target,
		TargetSpecific: na.TargetSpecific,
	}
	if err := svc.repo.PrependAnnouncement(ctx, a); err != nil {
		return Announcement{}, errors.Wrap(err, "saving announcement")
	}
	return a, nil
}

func (svc *Service) Get(ctx context.Context, id string) (Announcement, error) {
	return svc.repo.GetAnnouncementByID(ctx, id)
}

// List returns the announcements visible to viewer whose title or content contains q.Search.
func (svc *Service) List(ctx context.Context, viewer user.User, q Query) ([]Announcement, error) {
	all, err := svc.repo.QueryAllAnnouncements(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "querying announcements")
	}
	search := core.CleanString(q.Search)
	visible := make([]Announcement, 0, len(all))
	for _, a := range all {
		if !a.VisibleTo(viewer) {
			continue
		}
		if search != "" && !core.ContainsFold(a.Title, search) && !core.ContainsFold(a.Content, search) {
			continue
		}
		visible = append(visible, a)
	}
	return visible, nil
}

// Update edits an announcement; only its author or a moderator may do so.
func (svc *Service) Update(ctx context.Context, id string, na NewAnnouncement, by user.User) (Announcement, error) {
	a, err := svc.repo.GetAnnouncementByID(ctx, id)
	if err != nil {
		return Announcement{}, err
	}
	if !a.Editable(by) {
		return Announcement{}, core.ErrPermissionDenied
	}
	if err := na.Validate(svc.validate); err != nil {
		return Announcement{}, err
	}
	a.Title = na.Title
	a.Content = na.Content
	a.Target = na.Target
	a.TargetSpecific = na.TargetSpecific

	a, err = svc.repo.UpdateAnnouncement(ctx, a)
	return a, errors.Wrap(err, "updating announcement")
}

// Delete removes an announcement; only its author or a moderator may do so.
func (svc *Service) Delete(ctx context.Context, id string, by user.User) error {
	a, err := svc.repo.GetAnnouncementByID(ctx, id)
	if err != nil {
		return err
	}
	if !a.Editable(by) {
		return core.ErrPermissionDenied
	}
	return svc.repo.DeleteAnnouncement(ctx, id)
}
