package router

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/anonto42/userposts/internal/handlers"
	"github.com/anonto42/userposts/internal/metrics"
	"github.com/anonto42/userposts/internal/repositories"
	"github.com/anonto42/userposts/internal/views"
	"github.com/anonto42/userposts/validators"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// Deps carries everything SetupRoutes wires into the handlers.
type Deps struct {
	DB          *gorm.DB
	Health      handlers.Pinger
	Metrics     *metrics.Metrics // nil disables /metrics and request counting
	Logger      *slog.Logger
	ServiceName string
}

// New returns an echo instance with renderer, validator and error handler
// installed. Middleware and routes are added by the caller.
func New(logger *slog.Logger, m *metrics.Metrics) (*echo.Echo, error) {
	renderer, err := views.New()
	if err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = renderer
	e.Validator = validators.NewValidator()
	e.HTTPErrorHandler = handlers.NewErrorHandler(logger, m)
	return e, nil
}

// SetupRoutes migrates the schema and configures all application routes.
func SetupRoutes(e *echo.Echo, deps Deps) error {
	if err := repositories.AutoMigrate(deps.DB); err != nil {
		return fmt.Errorf("failed to auto migrate models: %w", err)
	}
	deps.Logger.Info("schema migrations completed")

	if deps.Metrics != nil {
		e.Use(deps.Metrics.Middleware())
		e.GET("/metrics", echo.WrapHandler(deps.Metrics.Handler()))
	}

	healthHandler := handlers.NewHealthHandler(deps.Health, deps.ServiceName)
	e.GET("/health", healthHandler.HealthCheck)
	e.GET("/", func(c echo.Context) error {
		return c.Redirect(http.StatusSeeOther, "/users")
	})

	// --- Initialize Repositories ---
	userRepo := repositories.NewGormUserRepository(deps.DB)
	postRepo := repositories.NewGormPostRepository(deps.DB)

	site := e.Group("")

	userHandler := handlers.NewUserHandler(userRepo, deps.Metrics)
	userHandler.RegisterUserRoutes(site)

	postHandler := handlers.NewPostHandler(postRepo, userRepo, deps.Metrics)
	postHandler.RegisterPostRoutes(site)

	deps.Logger.Info("routes configured", slog.Int("count", len(e.Routes())))
	return nil
}
