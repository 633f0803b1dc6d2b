package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/trezcool/learnerair/core"
	"github.com/trezcool/learnerair/core/activity"
	"github.com/trezcool/learnerair/core/announcement"
	"github.com/trezcool/learnerair/core/homework"
	"github.com/trezcool/learnerair/core/session"
	"github.com/trezcool/learnerair/core/user"
)

type (
	Options struct {
		Conf            *core.Config
		Logger          core.Logger
		UserSvc         *user.Service
		SessionSvc      *session.Service
		Ledger          *activity.Ledger
		HomeworkSvc     *homework.Service
		AnnouncementSvc *announcement.Service
		Validate        *validator.Validate
		Translator      ut.Translator
	}

	Server struct {
		opts     Options
		app      *echo.Echo
		errors   chan error
		shutdown chan os.Signal
	}
)

func NewServer(opts Options) *Server {
	if opts.Conf == nil {
		opts.Conf = core.Conf
	}
	s := &Server{
		opts:     opts,
		app:      echo.New(),
		errors:   make(chan error, 1),
		shutdown: make(chan os.Signal, 1),
	}
	s.setup()
	return s
}

func (s *Server) setup() {
	conf := s.opts.Conf

	s.app.HideBanner = true
	s.app.Pre(middleware.RemoveTrailingSlash())
	if !conf.Server.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.Validator = &structValidator{validate: s.opts.Validate}
	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.opts.Logger, s.opts.Translator, s.signalShutdown)
	s.app.Debug = conf.Debug && !conf.TestMode

	s.app.GET("/", home)

	v1 := s.app.Group("/v1")
	auth := []echo.MiddlewareFunc{
		middleware.JWTWithConfig(appJWTConfig),
		sessionMiddleware(s.opts.SessionSvc),
	}

	registerUserAPI(v1, auth, s.opts.UserSvc, s.opts.SessionSvc)
	registerStudentAPI(v1, auth, s.opts.UserSvc, s.opts.Ledger)
	registerActivityAPI(v1, auth, s.opts.Ledger)
	registerAnnouncementAPI(v1, auth, s.opts.AnnouncementSvc)
	registerHomeworkAPI(v1, auth, s.opts.HomeworkSvc)
	registerDashboardAPI(v1, auth, s.opts)
}

// Start listens until the server is shut down. Listening errors are sent on Errors().
func (s *Server) Start() {
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)
	if err := s.app.Start(s.opts.Conf.Server.Address); err != nil && err != http.ErrServerClosed {
		s.errors <- err
	}
}

func (s *Server) Errors() <-chan error {
	return s.errors
}

func (s *Server) ShutdownSignal() <-chan os.Signal {
	return s.shutdown
}

// signalShutdown asks for a graceful shutdown, unless one is already pending.
func (s *Server) signalShutdown() {
	select {
	case s.shutdown <- syscall.SIGTERM:
	default:
	}
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *Server) Close() error {
	return s.app.Close()
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to Learnerair API!")
}
