package echoapi

import (
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/trezcool/learnerair/core"
	"github.com/trezcool/learnerair/core/session"
	"github.com/trezcool/learnerair/core/user"
)

var (
	// appJWTConfig is the default JWT auth middleware config.
	appJWTConfig = middleware.JWTConfig{
		SigningKey:    []byte(core.Conf.SecretKey),
		SigningMethod: middleware.AlgorithmHS256,
		ContextKey:    "userToken",
		Claims:        new(Claims),
	}
	contextSessionKey = "session"
)

// Claims represents the authorization claims transmitted via a JWT.
// The token id (jti) is the id of the session it was issued for.
type Claims struct {
	jwt.StandardClaims
	Username    string            `json:"username,omitempty"`
	Role        string            `json:"role,omitempty"`
	Permissions []user.Permission `json:"permissions,omitempty"`
}

func GetSessionClaims(sess session.Session) *Claims {
	now := time.Now()
	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Id:        sess.ID,
			Issuer:    core.Conf.AppName,
			Subject:   sess.User.ID,
			ExpiresAt: now.Add(core.Conf.Server.JWTExpirationDelta).Unix(),
			IssuedAt:  now.Unix(),
		},
		Username:    sess.User.Username,
		Role:        sess.User.RoleName(),
		Permissions: sess.User.Permissions(),
	}
}

// GenerateToken generates a signed JWT token string representing the session Claims.
func GenerateToken(claims *Claims) (string, error) {
	method := jwt.GetSigningMethod(appJWTConfig.SigningMethod)
	token := jwt.NewWithClaims(method, claims)

	ss, err := token.SignedString(appJWTConfig.SigningKey)
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}
	return ss, nil
}

func getContextClaims(ctx echo.Context) (Claims, error) {
	if token, ok := ctx.Get(appJWTConfig.ContextKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			return *claims, nil
		}
	}
	return Claims{}, errUnauthorized
}

func getContextSession(ctx echo.Context) (*session.Session, error) {
	if sess, ok := ctx.Get(contextSessionKey).(*session.Session); ok && sess != nil {
		return sess, nil
	}
	return nil, errUnauthorized
}

func getContextUser(ctx echo.Context) (user.User, error) {
	sess, err := getContextSession(ctx)
	if err != nil {
		return user.User{}, err
	}
	return sess.User, nil
}

// sessionMiddleware only lets through tokens whose session is still open, and loads it in the context.
func sessionMiddleware(svc *session.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return errors.Wrap(err, "getting context claims")
			}
			sess, err := svc.Current(ctx.Request().Context(), claims.Id)
			if err != nil {
				return errors.Wrap(err, "getting current session")
			}
			if sess == nil || sess.User.ID != claims.Subject {
				return errSessionExpired
			}
			ctx.Set(contextSessionKey, sess)
			return next(ctx)
		}
	}
}
