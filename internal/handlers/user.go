package handlers

import (
	"net/http"

	"github.com/anonto42/userposts/internal/metrics"
	"github.com/anonto42/userposts/internal/models"
	"github.com/anonto42/userposts/internal/repositories"
	"github.com/anonto42/userposts/internal/views"
	"github.com/labstack/echo/v4"
)

// UserHandler handles HTTP requests related to users
type UserHandler struct {
	userRepository repositories.UserRepository
	metrics        *metrics.Metrics
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userRepo repositories.UserRepository, m *metrics.Metrics) *UserHandler {
	return &UserHandler{userRepository: userRepo, metrics: m}
}

// RegisterUserRoutes registers user-related routes
func (h *UserHandler) RegisterUserRoutes(g *echo.Group) {
	g.GET("/users", h.ListUsers)
	g.GET("/user/new", h.NewUserForm)
	g.POST("/user/new", h.CreateUser)
}

// ListUsers renders every user.
func (h *UserHandler) ListUsers(c echo.Context) error {
	users, err := h.userRepository.GetUsers(c.Request().Context())
	if err != nil {
		return err
	}
	return c.Render(http.StatusOK, views.TemplateUsers, views.UsersPage{Users: users})
}

// NewUserForm renders the empty registration form.
func (h *UserHandler) NewUserForm(c echo.Context) error {
	return c.Render(http.StatusOK, views.TemplateNewUser, nil)
}

// CreateUser inserts the submitted user and redirects to the list. A taken
// username or email is returned as is and ends up as a 500.
func (h *UserHandler) CreateUser(c echo.Context) error {
	var req models.CreateUserRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user := &models.User{
		Username: req.Username,
		Email:    req.Email,
	}
	if err := h.userRepository.CreateUser(c.Request().Context(), user); err != nil {
		return err
	}
	h.metrics.UserCreated()

	return c.Redirect(http.StatusSeeOther, "/users")
}
