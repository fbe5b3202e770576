// Package views renders the server-side HTML pages. Templates are embedded in
// the binary and parsed once, each page together with the shared base layout.
package views

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/anonto42/userposts/internal/models"
	"github.com/labstack/echo/v4"
)

//go:embed templates/*.html
var templateFS embed.FS

// Template names accepted by Renderer.Render.
const (
	TemplateUsers   = "users.html"
	TemplateNewUser = "new_user.html"
	TemplatePosts   = "posts.html"
	TemplateNewPost = "new_post.html"
	TemplateError   = "error.html"
)

var pages = []string{TemplateUsers, TemplateNewUser, TemplatePosts, TemplateNewPost, TemplateError}

// UsersPage is the data for TemplateUsers.
type UsersPage struct {
	Users []models.User
}

// UserPostsPage is the data for TemplatePosts.
type UserPostsPage struct {
	User  *models.User
	Posts []models.Post
}

// NewPostPage is the data for TemplateNewPost; Users fills the owner select.
type NewPostPage struct {
	Users []models.User
}

// ErrorPage is the data for TemplateError.
type ErrorPage struct {
	Status  int
	Message string
}

// Renderer implements echo.Renderer.
type Renderer struct {
	templates map[string]*template.Template
}

// New parses every page against base.html.
func New() (*Renderer, error) {
	r := &Renderer{templates: make(map[string]*template.Template, len(pages))}
	for _, page := range pages {
		t, err := template.New(page).ParseFS(templateFS, "templates/base.html", "templates/"+page)
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", page, err)
		}
		r.templates[page] = t
	}
	return r, nil
}

func (r *Renderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	t, ok := r.templates[name]
	if !ok {
		return fmt.Errorf("template %q not found", name)
	}
	return t.ExecuteTemplate(w, "base", data)
}
