package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/learnerair/core/activity"
	"github.com/trezcool/learnerair/core/user"
)

type studentApi struct {
	svc    *user.Service
	ledger *activity.Ledger
}

func registerStudentAPI(g *echo.Group, auth []echo.MiddlewareFunc, svc *user.Service, ledger *activity.Ledger) {
	api := studentApi{svc: svc, ledger: ledger}

	sg := g.Group("/students", auth...)
	sg.GET("", api.query, staffMiddleware())
	sg.GET("/facets", api.facets, staffMiddleware())
	sg.GET("/:id", api.profile)
	sg.POST("/:id/activities", api.addActivity, permissionMiddleware(user.PermSetRewards, user.PermSetSanctions))
}

func (api *studentApi) query(ctx echo.Context) error {
	filter := new(user.StudentFilter)
	if err := ctx.Bind(filter); err != nil {
		return errors.Wrap(err, "binding to StudentFilter")
	}
	students, err := api.svc.Students(ctx.Request().Context(), *filter)
	if err != nil {
		return errors.Wrap(err, "querying students")
	}
	return ctx.JSON(http.StatusOK, students)
}

func (api *studentApi) facets(ctx echo.Context) error {
	facets, err := api.svc.StudentFacets(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying student facets")
	}
	return ctx.JSON(http.StatusOK, facets)
}

// profile is open to staff and to the student themselves.
func (api *studentApi) profile(ctx echo.Context) error {
	ctxUsr, err := getContextUser(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	id := ctx.Param("id")
	if !(ctxUsr.IsStaff() || ctxUsr.ID == id) {
		return errHttpNotFound
	}

	student, err := api.svc.GetStudent(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "finding student")
	}
	acts, err := api.ledger.ForStudent(ctx.Request().Context(), student.ID)
	if err != nil {
		return errors.Wrap(err, "querying student activities")
	}
	return ctx.JSON(http.StatusOK, StudentProfile{
		Student:    student.Public(),
		Activities: acts,
		Totals:     activity.StudentTotals(acts),
	})
}

func (api *studentApi) addActivity(ctx echo.Context) error {
	var data activity.NewActivity
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewActivity")
	}
	data.StudentID = ctx.Param("id")

	ctxUsr, err := getContextUser(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	act, err := api.ledger.Add(ctx.Request().Context(), data, ctxUsr)
	if err != nil {
		return errors.Wrap(err, "adding activity")
	}
	return ctx.JSON(http.StatusCreated, act)
}

type StudentProfile struct {
	Student    user.User           `json:"student"`
	Activities []activity.Activity `json:"activities"`
	Totals     activity.Totals     `json:"totals"`
}
