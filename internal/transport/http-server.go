package transport

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-playground/validator"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/academic-hub/academic-hub-back/internal/config"
	"github.com/academic-hub/academic-hub-back/internal/db"
	"github.com/academic-hub/academic-hub-back/internal/service"
)

type (
	CustomValidator struct {
		validator *validator.Validate
	}

	HTTPServer struct {
		echo        *echo.Echo
		db          *gorm.DB
		tokens      *service.Token
		auth        *service.Auth
		subjects    *service.Subjects
		goals       *service.Goals
		tutorials   *service.Tutorials
		ideas       *service.Ideas
		stats       *service.Stats
		logger      *zap.SugaredLogger
		publicPaths map[string]bool
	}

	HTTPServerParams struct {
		fx.In

		Lifecycle fx.Lifecycle
		Config    *config.Config
		DB        *gorm.DB
		Tokens    *service.Token
		Auth      *service.Auth
		Subjects  *service.Subjects
		Goals     *service.Goals
		Tutorials *service.Tutorials
		Ideas     *service.Ideas
		Stats     *service.Stats
		Logger    *zap.SugaredLogger
	}
)

func NewHTTPServer(p HTTPServerParams) *HTTPServer {
	instance := buildServer(p)

	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				listen := p.Config.Host + ":" + p.Config.Port
				if err := instance.echo.Start(listen); err != nil && err != http.ErrServerClosed {
					instance.echo.Logger.Fatal("shutting down the server")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			p.Logger.Info("Stopping HTTP server.")
			return instance.echo.Shutdown(ctx)
		},
	})

	return instance
}

func buildServer(p HTTPServerParams) *HTTPServer {
	e := echo.New()
	e.HideBanner = true

	instance := HTTPServer{
		db:        p.DB,
		tokens:    p.Tokens,
		auth:      p.Auth,
		subjects:  p.Subjects,
		goals:     p.Goals,
		tutorials: p.Tutorials,
		ideas:     p.Ideas,
		stats:     p.Stats,
		logger:    p.Logger,
		publicPaths: map[string]bool{
			"/ping":                               true,
			"/api/auth/register":                  true,
			"/api/auth/login":                     true,
			"/api/auth/forgotpassword":            true,
			"/api/auth/resetpassword/:resettoken": true,
		},
	}
	instance.setup(e)
	instance.echo = e

	return &instance
}

func (s *HTTPServer) setup(e *echo.Echo) {
	e.Validator = &CustomValidator{validator: validator.New()}
	e.HTTPErrorHandler = NewHTTPErrorHandler(s.logger)

	e.Use(middleware.CORS())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: func() string { return uuid.New().String() },
	}))
	e.Use(requestLoggerMiddleware(s.logger))
	e.Use(middleware.Recover())
	e.Use(newGlobalRateLimiter().Middleware())
	e.Use(s.AuthMiddleware)

	e.GET("/ping", func(c echo.Context) error { return c.String(http.StatusOK, "pong") })

	authLimiter := newAuthRateLimiter().Middleware()

	authG := e.Group("/api/auth")
	authG.POST("/register", s.Register, authLimiter)
	authG.POST("/login", s.Login, authLimiter)
	authG.GET("/me", s.Me)
	authG.PUT("/updatedetails", s.UpdateDetails)
	authG.PUT("/updatepassword", s.UpdatePassword)
	authG.POST("/forgotpassword", s.ForgotPassword, authLimiter)
	authG.PUT("/resetpassword/:resettoken", s.ResetPassword)

	subjectG := e.Group("/api/subjects")
	subjectG.GET("", s.SubjectList)
	subjectG.GET("/:id", s.SubjectGet)
	subjectG.POST("", s.SubjectCreate)
	subjectG.PUT("/:id", s.SubjectUpdate)
	subjectG.DELETE("/:id", s.SubjectDelete)
	subjectG.PUT("/:id/progress", s.SubjectProgress)

	goalG := e.Group("/api/goals")
	goalG.GET("", s.GoalList)
	goalG.GET("/:id", s.GoalGet)
	goalG.POST("", s.GoalCreate)
	goalG.PUT("/:id", s.GoalUpdate)
	goalG.DELETE("/:id", s.GoalDelete)
	goalG.PUT("/:id/toggle", s.GoalToggle)

	tutorialG := e.Group("/api/tutorials")
	tutorialG.GET("", s.TutorialList)
	tutorialG.GET("/:id", s.TutorialGet)
	tutorialG.POST("", s.TutorialCreate)
	tutorialG.PUT("/:id", s.TutorialUpdate)
	tutorialG.DELETE("/:id", s.TutorialDelete)
	tutorialG.PUT("/:id/toggle", s.TutorialToggle)

	ideaG := e.Group("/api/ideas")
	ideaG.GET("", s.IdeaList)
	ideaG.GET("/:id", s.IdeaGet)
	ideaG.POST("", s.IdeaCreate)
	ideaG.PUT("/:id", s.IdeaUpdate)
	ideaG.DELETE("/:id", s.IdeaDelete)

	e.GET("/api/stats/summary", s.StatsSummary)
	e.GET("/api/search", s.SearchAll)

	echo.NotFoundHandler = func(c echo.Context) error {
		return c.JSON(http.StatusNotFound, Envelope{Success: false, Message: "Route not found"})
	}
}

////////

func (cv *CustomValidator) Validate(i interface{}) error {
	if err := cv.validator.Struct(i); err != nil {
		return err
	}
	return nil
}

func BindAndValidate(c echo.Context, v interface{}) error {
	if err := c.Bind(v); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if err := c.Validate(v); err != nil {
		return err
	}
	return nil
}

func GetUserFromContext(c echo.Context) (*db.User, error) {
	user, ok := c.Get("user").(*db.User)
	if !ok || user == nil {
		return nil, errors.New("no user found in context")
	}
	return user, nil
}

func GetAndParseParam(c echo.Context, name string) (uint64, error) {
	value := c.Param(name)
	if value == "" {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid path param '"+name+"'")
	}
	parsed, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid path param '"+name+"'")
	}
	return parsed, nil
}

func respond(c echo.Context, status int, data interface{}) error {
	return c.JSON(status, Envelope{Success: true, Data: data})
}

func respondList(c echo.Context, data interface{}, count int) error {
	return c.JSON(http.StatusOK, Envelope{Success: true, Data: data, Count: &count})
}
