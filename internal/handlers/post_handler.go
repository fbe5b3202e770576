package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/anonto42/userposts/internal/metrics"
	"github.com/anonto42/userposts/internal/models"
	"github.com/anonto42/userposts/internal/repositories"
	"github.com/anonto42/userposts/internal/views"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// PostHandler handles HTTP requests related to posts
type PostHandler struct {
	postRepository repositories.PostRepository
	userRepository repositories.UserRepository
	metrics        *metrics.Metrics
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(postRepo repositories.PostRepository, userRepo repositories.UserRepository, m *metrics.Metrics) *PostHandler {
	return &PostHandler{
		postRepository: postRepo,
		userRepository: userRepo,
		metrics:        m,
	}
}

// RegisterPostRoutes registers post-related routes
func (h *PostHandler) RegisterPostRoutes(g *echo.Group) {
	g.GET("/user/:user_id/posts", h.GetUserPosts)
	g.GET("/post/new", h.NewPostForm)
	g.POST("/post/new", h.CreatePost)
}

// GetUserPosts renders a user together with their posts. An unknown or
// non-numeric user_id is a 404.
func (h *PostHandler) GetUserPosts(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("user_id"), 10, 64)
	if err != nil || id == 0 {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}

	ctx := c.Request().Context()
	user, err := h.userRepository.GetUserByID(ctx, uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		}
		return err
	}

	posts, err := h.postRepository.GetPostsByUserID(ctx, user.ID)
	if err != nil {
		return err
	}
	return c.Render(http.StatusOK, views.TemplatePosts, views.UserPostsPage{User: user, Posts: posts})
}

// NewPostForm renders the empty post form with every user as a possible author.
func (h *PostHandler) NewPostForm(c echo.Context) error {
	users, err := h.userRepository.GetUsers(c.Request().Context())
	if err != nil {
		return err
	}
	return c.Render(http.StatusOK, views.TemplateNewPost, views.NewPostPage{Users: users})
}

// CreatePost inserts the submitted post and redirects to its author's posts.
// A user_id naming no user is returned as is and ends up as a 500.
func (h *PostHandler) CreatePost(c echo.Context) error {
	var req models.CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	post := &models.Post{
		Title:   req.Title,
		Content: req.Content,
		UserID:  req.UserID,
	}
	if err := h.postRepository.CreatePost(c.Request().Context(), post); err != nil {
		return err
	}
	h.metrics.PostCreated()

	return c.Redirect(http.StatusSeeOther, fmt.Sprintf("/user/%d/posts", post.UserID))
}
