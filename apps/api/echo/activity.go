package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/learnerair/core/activity"
	"github.com/trezcool/learnerair/core/user"
)

type activityApi struct {
	ledger *activity.Ledger
}

func registerActivityAPI(g *echo.Group, auth []echo.MiddlewareFunc, ledger *activity.Ledger) {
	api := activityApi{ledger: ledger}

	lg := g.Group("/activities", auth...)
	lg.GET("", api.query, staffMiddleware())
	lg.DELETE("/:id", api.destroy, permissionMiddleware(user.PermSetRewards, user.PermSetSanctions))
}

func (api *activityApi) query(ctx echo.Context) error {
	filter := new(activity.Filter)
	if err := ctx.Bind(filter); err != nil {
		return errors.Wrap(err, "binding to Filter")
	}
	entries, stats, err := api.ledger.Stats(ctx.Request().Context(), *filter)
	if err != nil {
		return errors.Wrap(err, "querying activities")
	}
	return ctx.JSON(http.StatusOK, LedgerResponse{Activities: entries, Stats: stats})
}

func (api *activityApi) destroy(ctx echo.Context) error {
	ctxUsr, err := getContextUser(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	if err := api.ledger.Delete(ctx.Request().Context(), ctx.Param("id"), ctxUsr); err != nil {
		return errors.Wrap(err, "deleting activity")
	}
	return ctx.NoContent(http.StatusNoContent)
}

type LedgerResponse struct {
	Activities []activity.Entry `json:"activities"`
	Stats      activity.Stats   `json:"stats"`
}
