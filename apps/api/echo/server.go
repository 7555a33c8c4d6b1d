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

	"github.com/elimuhub/elimu/core"
	"github.com/elimuhub/elimu/core/identity"
	"github.com/elimuhub/elimu/core/progress"
	"github.com/elimuhub/elimu/core/subject"
	"github.com/elimuhub/elimu/core/user"
	"github.com/elimuhub/elimu/core/week"
)

type (
	// ServerDeps regroups this server's dependencies.
	ServerDeps struct {
		Conf       *core.Config
		Logger     core.Logger
		Provider   identity.Provider
		ProfileSvc *user.Service
		SubjectSvc *subject.Service
		WeekSvc    *week.Service
		ProgSvc    *progress.Service
		MailSvc    core.EmailService
		Validate   *validator.Validate
		Translator ut.Translator
	}

	Server struct {
		deps     ServerDeps
		app      *echo.Echo
		errors   chan error
		shutdown chan os.Signal
	}
)

func NewServer(deps ServerDeps) *Server {
	s := &Server{
		deps:     deps,
		app:      echo.New(),
		errors:   make(chan error, 1),
		shutdown: make(chan os.Signal, 1),
	}
	signal.Notify(s.shutdown, syscall.SIGINT, syscall.SIGTERM)
	s.setup()
	return s
}

func (s *Server) setup() {
	conf := s.deps.Conf

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !conf.TestMode {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.deps.Logger, s.deps.Translator, s.SignalShutdown)
	s.app.Debug = conf.Debug
	s.app.HideBanner = true

	s.app.GET("/health", health)

	auth := authRequired(s.deps.Provider)
	admin := adminRequired(s.deps.ProfileSvc)

	registerAccountAPI(s.app, auth, s.deps)
	registerSubjectAPI(s.app, auth, admin, s.deps)
	registerWeekAPI(s.app, auth, admin, s.deps)
	registerProgressAPI(s.app, auth, s.deps)
}

func (s *Server) Start() {
	if err := s.app.Start(s.deps.Conf.Addr()); err != nil && err != http.ErrServerClosed {
		s.errors <- err
	}
}

// Errors receives the server's fatal listen errors.
func (s *Server) Errors() <-chan error {
	return s.errors
}

// ShutdownSignal receives OS signals and internally requested shutdowns.
func (s *Server) ShutdownSignal() <-chan os.Signal {
	return s.shutdown
}

// SignalShutdown requests a graceful shutdown; used on integrity errors.
func (s *Server) SignalShutdown() {
	s.shutdown <- syscall.SIGTERM
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

func health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, echo.Map{"status": "ok"})
}
