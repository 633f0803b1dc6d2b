package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/learnerair/core/homework"
	"github.com/trezcool/learnerair/core/user"
)

type homeworkApi struct {
	svc *homework.Service
}

func registerHomeworkAPI(g *echo.Group, auth []echo.MiddlewareFunc, svc *homework.Service) {
	api := homeworkApi{svc: svc}

	hg := g.Group("/homeworks", auth...)
	hg.GET("", api.query)
	hg.POST("", api.create, permissionMiddleware(user.PermSetHomework))
	hg.DELETE("/:id", api.destroy, permissionMiddleware(user.PermDeleteHomework))
	hg.POST("/:id/complete", api.complete, studentMiddleware())
	hg.GET("/:id/completions", api.completions, permissionMiddleware(user.PermSetHomework))
}

// query lists the homework of the student's class, flagged with completion, for students;
// and every homework (optionally of a class) for staff.
func (api *homeworkApi) query(ctx echo.Context) error {
	ctxUsr, err := getContextUser(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	if ctxUsr.IsStudent() {
		assignments, err := api.svc.ForStudent(ctx.Request().Context(), ctxUsr)
		if err != nil {
			return errors.Wrap(err, "querying student homework")
		}
		return ctx.JSON(http.StatusOK, assignments)
	}

	q := new(homework.Query)
	if err := ctx.Bind(q); err != nil {
		return errors.Wrap(err, "binding to Query")
	}
	hws, err := api.svc.List(ctx.Request().Context(), *q)
	if err != nil {
		return errors.Wrap(err, "querying homework")
	}
	return ctx.JSON(http.StatusOK, hws)
}

func (api *homeworkApi) create(ctx echo.Context) error {
	var data homework.NewHomework
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewHomework")
	}
	ctxUsr, err := getContextUser(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	hw, err := api.svc.Create(ctx.Request().Context(), data, ctxUsr)
	if err != nil {
		return errors.Wrap(err, "creating homework")
	}
	return ctx.JSON(http.StatusCreated, hw)
}

func (api *homeworkApi) destroy(ctx echo.Context) error {
	ctxUsr, err := getContextUser(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id"), ctxUsr); err != nil {
		return errors.Wrap(err, "deleting homework")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *homeworkApi) complete(ctx echo.Context) error {
	ctxUsr, err := getContextUser(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	c, err := api.svc.MarkComplete(ctx.Request().Context(), ctxUsr, ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "completing homework")
	}
	return ctx.JSON(http.StatusOK, c)
}

func (api *homeworkApi) completions(ctx echo.Context) error {
	completions, err := api.svc.CompletionsForHomework(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "querying completions")
	}
	return ctx.JSON(http.StatusOK, completions)
}
