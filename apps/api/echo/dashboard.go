package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/learnerair/core/activity"
	"github.com/trezcool/learnerair/core/announcement"
	"github.com/trezcool/learnerair/core/homework"
	"github.com/trezcool/learnerair/core/user"
)

const (
	dashboardActivities    = 5
	dashboardAnnouncements = 3
)

type dashboardApi struct {
	users         *user.Service
	ledger        *activity.Ledger
	homeworks     *homework.Service
	announcements *announcement.Service
}

func registerDashboardAPI(g *echo.Group, auth []echo.MiddlewareFunc, opts Options) {
	api := dashboardApi{
		users:         opts.UserSvc,
		ledger:        opts.Ledger,
		homeworks:     opts.HomeworkSvc,
		announcements: opts.AnnouncementSvc,
	}
	g.GET("/dashboard", api.summary, auth...)
}

func (api *dashboardApi) summary(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	if usr.IsStudent() {
		return api.studentSummary(ctx, usr)
	}
	return api.staffSummary(ctx, usr)
}

func (api *dashboardApi) studentSummary(ctx echo.Context, student user.User) error {
	c := ctx.Request().Context()

	assignments, err := api.homeworks.ForStudent(c, student)
	if err != nil {
		return errors.Wrap(err, "querying student homework")
	}
	acts, err := api.ledger.ForStudent(c, student.ID)
	if err != nil {
		return errors.Wrap(err, "querying student activities")
	}
	totals := activity.StudentTotals(acts)
	if len(acts) > dashboardActivities {
		acts = acts[:dashboardActivities]
	}
	return ctx.JSON(http.StatusOK, StudentDashboard{
		Homeworks:        assignments,
		RecentActivities: acts,
		Totals:           totals,
	})
}

func (api *dashboardApi) staffSummary(ctx echo.Context, viewer user.User) error {
	c := ctx.Request().Context()

	users, err := api.users.QueryAll(c)
	if err != nil {
		return errors.Wrap(err, "querying users")
	}
	counts := make(map[string]int, len(user.AllRoles))
	for _, r := range user.AllRoles {
		counts[r] = 0
	}
	for _, u := range users {
		counts[u.RoleName()]++
	}

	anns, err := api.announcements.List(c, viewer, announcement.Query{})
	if err != nil {
		return errors.Wrap(err, "querying announcements")
	}
	if len(anns) > dashboardAnnouncements {
		anns = anns[:dashboardAnnouncements]
	}

	_, stats, err := api.ledger.Stats(c, activity.Filter{})
	if err != nil {
		return errors.Wrap(err, "aggregating activities")
	}
	return ctx.JSON(http.StatusOK, StaffDashboard{
		Users:         counts,
		Announcements: anns,
		Stats:         stats,
	})
}

type (
	StudentDashboard struct {
		Homeworks        []homework.Assignment `json:"homeworks"`
		RecentActivities []activity.Activity   `json:"recentActivities"`
		Totals           activity.Totals       `json:"totals"`
	}

	StaffDashboard struct {
		Users         map[string]int              `json:"users"`
		Announcements []announcement.Announcement `json:"announcements"`
		Stats         activity.Stats              `json:"stats"`
	}
)
