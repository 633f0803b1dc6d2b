package echoapi

import (
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/learnerair/core"
	"github.com/trezcool/learnerair/core/session"
	"github.com/trezcool/learnerair/core/user"
)

var (
	errUsrNotFoundInCtx = errors.New("user object not found in echo.Context")
	contextObjectKey    = "object"
)

type userApi struct {
	svc     *user.Service
	sessSvc *session.Service
}

func registerUserAPI(g *echo.Group, auth []echo.MiddlewareFunc, svc *user.Service, sessSvc *session.Service) {
	api := userApi{svc: svc, sessSvc: sessSvc}

	// un-authed endpoints
	ag := g.Group("/auth")
	ag.POST("/login", api.login)

	// authed endpoints
	ag.POST("/logout", api.logout, auth...)
	ag.GET("/session", api.currentSession, auth...)

	ug := g.Group("/users", auth...)
	ug.GET("", api.query, permissionMiddleware(user.PermViewAllUsers))
	ug.POST("", api.create, permissionMiddleware(user.PermAddUsers))
	ug.GET("/roles", api.queryRoles, staffMiddleware())

	// detail endpoints
	dg := ug.Group("/:id", ctxUserOrPermissionMiddleware(api.svc, user.PermViewAllUsers))
	dg.GET("", api.retrieve)
	dg.PUT("", api.update)
	dg.DELETE("", api.destroy, permissionMiddleware(user.PermAddUsers))
	dg.GET("/credentials", api.credentials, permissionMiddleware(user.PermViewUserCredentials))
}

// Handlers

func (api *userApi) login(ctx echo.Context) error {
	var data LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginRequest")
	}
	if err := data.Validate(ctx.Echo().Validator); err != nil {
		return err
	}

	sess, err := api.sessSvc.Login(ctx.Request().Context(), data.Username, data.Password)
	if err != nil {
		return errors.Wrap(err, "logging in")
	}
	token, err := GenerateToken(GetSessionClaims(sess))
	if err != nil {
		return errors.Wrap(err, "generating token")
	}
	return ctx.JSON(http.StatusOK, LoginResponse{Token: token, User: sess.User})
}

func (api *userApi) logout(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context session")
	}
	if err := api.sessSvc.Logout(ctx.Request().Context(), sess.ID); err != nil {
		return errors.Wrap(err, "logging out")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *userApi) currentSession(ctx echo.Context) error {
	sess, err := getContextSession(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context session")
	}
	return ctx.JSON(http.StatusOK, sess)
}

func (api *userApi) create(ctx echo.Context) error {
	var data user.NewUser
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewUser")
	}

	// only permission managers may grant permissions, a headteacher holding all of them
	ctxUsr, err := getContextUser(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	grants := len(data.Permissions) > 0 || core.CleanString(data.Role, true) == user.RoleHeadteacher
	if grants && !ctxUsr.HasPermission(user.PermManagePermissions) {
		return errHttpForbidden
	}

	usr, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating user")
	}
	return ctx.JSON(http.StatusCreated, usr)
}

func (api *userApi) query(ctx echo.Context) error {
	filter := new(user.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []user.User{})
	}
	users, err := api.svc.Query(ctx.Request().Context(), *filter, bindUserOrderings(ctx))
	if err != nil {
		return errors.Wrap(err, "querying users")
	}
	return ctx.JSON(http.StatusOK, users)
}

func (api *userApi) queryRoles(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, RolesResponse{Roles: user.AllRoles, Permissions: user.AllPermissions})
}

func (api *userApi) retrieve(ctx echo.Context) error {
	usr, ok := ctx.Get(contextObjectKey).(user.User)
	if !ok {
		return errors.Wrap(errUsrNotFoundInCtx, "retrieving object from context")
	}
	return ctx.JSON(http.StatusOK, usr)
}

func (api *userApi) update(ctx echo.Context) error {
	usr, ok := ctx.Get(contextObjectKey).(user.User)
	if !ok {
		return errors.Wrap(errUsrNotFoundInCtx, "retrieving object from context")
	}

	var data user.UpdateUser
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateUser")
	}
	data.Role = core.CleanString(data.Role, true /* lower */)

	ctxUsr, err := getContextUser(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	// users may change their own full name & password; everything else is for user managers
	if (usr.ID != ctxUsr.ID || data.TouchesAccount(usr)) && !ctxUsr.HasPermission(user.PermAddUsers) {
		return errHttpForbidden
	}
	if data.ChangesRole(usr) && !ctxUsr.HasPermission(user.PermManagePermissions) {
		return errHttpForbidden
	}

	usr, err = api.svc.Update(ctx.Request().Context(), usr.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating user")
	}
	return ctx.JSON(http.StatusOK, usr)
}

func (api *userApi) destroy(ctx echo.Context) error {
	usr, ok := ctx.Get(contextObjectKey).(user.User)
	if !ok {
		return errors.Wrap(errUsrNotFoundInCtx, "retrieving object from context")
	}

	// Say No to Suicide! ctxUser cannot delete themselves
	ctxUsr, err := getContextUser(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	if usr.ID == ctxUsr.ID {
		return errCannotSelfErase
	}

	if err := api.svc.Delete(ctx.Request().Context(), usr.ID); err != nil {
		return errors.Wrap(err, "deleting user")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *userApi) credentials(ctx echo.Context) error {
	creds, err := api.svc.Credentials(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "revealing credentials")
	}
	return ctx.JSON(http.StatusOK, creds)
}

// ctxUserOrPermissionMiddleware loads the user identified by the `id` path param, for themselves or holders of perm.
// Other users get a 404 rather than a 403, so as not to leak which ids exist.
func ctxUserOrPermissionMiddleware(svc *user.Service, perm user.Permission) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			ctxUsr, err := getContextUser(ctx)
			if err != nil {
				return errors.Wrap(err, "getting context user")
			}

			if ctx.Param("id") == ctxUsr.ID || ctxUsr.HasPermission(perm) {
				if usr, err := svc.GetByID(ctx.Request().Context(), ctx.Param("id")); err == nil {
					ctx.Set(contextObjectKey, usr.Public())
					return next(ctx)
				} else if !core.IsNotFound(err) {
					return errors.Wrap(err, "finding user by ID")
				}
			}
			return errHttpNotFound
		}
	}
}

type (
	LoginRequest struct {
		Username string `json:"username" validate:"required"`
		Password string `json:"password" validate:"required"`
	}

	LoginResponse struct {
		Token string    `json:"token"`
		User  user.User `json:"user"`
	}

	RolesResponse struct {
		Roles       []string          `json:"roles"`
		Permissions []user.Permission `json:"permissions"`
	}
)

func (lr *LoginRequest) Validate(validate echo.Validator) error {
	lr.Username = core.CleanString(lr.Username)
	return validate.Validate(lr)
}

// structValidator plugs go-playground's validator into echo.
type structValidator struct {
	validate *validator.Validate
}

func (sv *structValidator) Validate(i interface{}) error {
	return sv.validate.Struct(i)
}

// bindUserOrderings reads `?ordering=fullName,-createdAt`; a leading "-" sorts descending.
func bindUserOrderings(ctx echo.Context) []core.Ordering {
	var orderings []core.Ordering
	for _, field := range strings.Split(ctx.QueryParam("ordering"), ",") {
		field = strings.TrimSpace(field)
		desc := strings.HasPrefix(field, "-")
		if field = strings.TrimPrefix(field, "-"); field == "" {
			continue
		}
		orderings = append(orderings, core.Ordering{Field: field, Ascending: !desc})
	}
	return orderings
}
