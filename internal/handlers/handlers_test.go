package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/anonto42/userposts/internal/metrics"
	"github.com/anonto42/userposts/internal/models"
	"github.com/anonto42/userposts/internal/router"
	"github.com/anonto42/userposts/pkg/config"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakePinger struct{ err error }

func (p fakePinger) Ping(context.Context) error { return p.err }

// newTestServer wires the full application on a throwaway SQLite file.
func newTestServer(t *testing.T, health fakePinger) (*echo.Echo, *gorm.DB) {
	t.Helper()

	db, err := config.OpenSQLite(filepath.Join(t.TempDir(), "app.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	m := metrics.New()

	e, err := router.New(logger, m)
	require.NoError(t, err)
	require.NoError(t, router.SetupRoutes(e, router.Deps{
		DB:          db,
		Health:      health,
		Metrics:     m,
		Logger:      logger,
		ServiceName: "userposts-test",
	}))
	return e, db
}

func get(e *echo.Echo, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func postForm(e *echo.Echo, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func countRows(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}

func createUser(t *testing.T, e *echo.Echo, username, email string) {
	t.Helper()
	rec := postForm(e, "/user/new", url.Values{"username": {username}, "email": {email}})
	require.Equal(t, http.StatusSeeOther, rec.Code, rec.Body.String())
}

func TestListUsers_Empty(t *testing.T) {
	e, _ := newTestServer(t, fakePinger{})

	rec := get(e, "/users")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "No users yet.")
}

func TestNewUserForm(t *testing.T) {
	e, _ := newTestServer(t, fakePinger{})

	rec := get(e, "/user/new")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `name="username"`)
	assert.Contains(t, rec.Body.String(), `name="email"`)
}

func TestCreateUser(t *testing.T) {
	e, db := newTestServer(t, fakePinger{})

	rec := postForm(e, "/user/new", url.Values{"username": {"alice"}, "email": {"a@x.com"}})

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/users", rec.Header().Get(echo.HeaderLocation))

	list := get(e, "/users")
	assert.Equal(t, http.StatusOK, list.Code)
	assert.Equal(t, 1, strings.Count(list.Body.String(), "alice"))
	assert.EqualValues(t, 1, countRows(t, db, &models.User{}))
}

func TestCreateUser_DuplicateUsername(t *testing.T) {
	e, db := newTestServer(t, fakePinger{})
	createUser(t, e, "alice", "a@x.com")

	rec := postForm(e, "/user/new", url.Values{"username": {"alice"}, "email": {"other@x.com"}})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.EqualValues(t, 1, countRows(t, db, &models.User{}))

	metricsBody := get(e, "/metrics").Body.String()
	assert.Contains(t, metricsBody, `userposts_constraint_violations_total{kind="unique"} 1`)
	assert.Contains(t, metricsBody, "userposts_users_created_total 1")
}

func TestCreateUser_MalformedRequest(t *testing.T) {
	tests := []struct {
		name string
		form url.Values
	}{
		{name: "missing email", form: url.Values{"username": {"alice"}}},
		{name: "missing username", form: url.Values{"email": {"a@x.com"}}},
		{name: "empty username", form: url.Values{"username": {""}, "email": {"a@x.com"}}},
		{name: "no fields", form: url.Values{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, db := newTestServer(t, fakePinger{})

			rec := postForm(e, "/user/new", tt.form)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Zero(t, countRows(t, db, &models.User{}))
		})
	}
}

func TestGetUserPosts_NotFound(t *testing.T) {
	e, _ := newTestServer(t, fakePinger{})

	for _, path := range []string{"/user/999/posts", "/user/abc/posts", "/user/0/posts"} {
		t.Run(path, func(t *testing.T) {
			rec := get(e, path)

			assert.Equal(t, http.StatusNotFound, rec.Code)
			assert.Contains(t, rec.Body.String(), "User not found")
		})
	}
}

func TestGetUserPosts_NoPosts(t *testing.T) {
	e, _ := newTestServer(t, fakePinger{})
	createUser(t, e, "alice", "a@x.com")

	rec := get(e, "/user/1/posts")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Posts by alice")
	assert.Contains(t, rec.Body.String(), "No posts yet.")
}

func TestNewPostForm_ListsUsers(t *testing.T) {
	e, _ := newTestServer(t, fakePinger{})
	createUser(t, e, "alice", "a@x.com")
	createUser(t, e, "bob", "b@x.com")

	rec := get(e, "/post/new")

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `<option value="1">alice</option>`)
	assert.Contains(t, body, `<option value="2">bob</option>`)
}

func TestCreatePost(t *testing.T) {
	e, db := newTestServer(t, fakePinger{})
	createUser(t, e, "alice", "a@x.com")

	rec := postForm(e, "/post/new", url.Values{"title": {"Hi"}, "content": {"Body"}, "user_id": {"1"}})

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/user/1/posts", rec.Header().Get(echo.HeaderLocation))
	assert.EqualValues(t, 1, countRows(t, db, &models.Post{}))
}

func TestCreatePost_UnknownUser(t *testing.T) {
	e, db := newTestServer(t, fakePinger{})

	rec := postForm(e, "/post/new", url.Values{"title": {"Hi"}, "content": {"Body"}, "user_id": {"999"}})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Zero(t, countRows(t, db, &models.Post{}))
	assert.Contains(t, get(e, "/metrics").Body.String(),
		`userposts_constraint_violations_total{kind="foreign_key"} 1`)
}

func TestCreatePost_MalformedRequest(t *testing.T) {
	tests := []struct {
		name string
		form url.Values
	}{
		{name: "missing title", form: url.Values{"content": {"Body"}, "user_id": {"1"}}},
		{name: "missing content", form: url.Values{"title": {"Hi"}, "user_id": {"1"}}},
		{name: "missing user_id", form: url.Values{"title": {"Hi"}, "content": {"Body"}}},
		{name: "non-numeric user_id", form: url.Values{"title": {"Hi"}, "content": {"Body"}, "user_id": {"abc"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, db := newTestServer(t, fakePinger{})
			createUser(t, e, "alice", "a@x.com")

			rec := postForm(e, "/post/new", tt.form)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Zero(t, countRows(t, db, &models.Post{}))
		})
	}
}

func TestEndToEnd(t *testing.T) {
	e, _ := newTestServer(t, fakePinger{})

	rec := postForm(e, "/user/new", url.Values{"username": {"alice"}, "email": {"a@x.com"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)

	users := get(e, rec.Header().Get(echo.HeaderLocation))
	require.Equal(t, http.StatusOK, users.Code)
	require.Contains(t, users.Body.String(), "alice")
	require.Contains(t, users.Body.String(), `href="/user/1/posts"`)

	rec = postForm(e, "/post/new", url.Values{"title": {"Hi"}, "content": {"Body"}, "user_id": {"1"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)

	posts := get(e, rec.Header().Get(echo.HeaderLocation))
	require.Equal(t, http.StatusOK, posts.Code)
	body := posts.Body.String()
	assert.Equal(t, 1, strings.Count(body, "<article>"))
	assert.Contains(t, body, "<h2>Hi</h2>")
	assert.Contains(t, body, "<p>Body</p>")
}

func TestRootRedirectsToUsers(t *testing.T) {
	e, _ := newTestServer(t, fakePinger{})

	rec := get(e, "/")

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/users", rec.Header().Get(echo.HeaderLocation))
}

func TestUnknownRoute(t *testing.T) {
	e, _ := newTestServer(t, fakePinger{})

	rec := get(e, "/nope")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "404")
}

func TestHealthCheck(t *testing.T) {
	tests := []struct {
		name       string
		pingErr    error
		wantStatus int
		wantDB     string
	}{
		{name: "database up", wantStatus: http.StatusOK, wantDB: "up"},
		{name: "database down", pingErr: errors.New("connection refused"), wantStatus: http.StatusServiceUnavailable, wantDB: "down"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, _ := newTestServer(t, fakePinger{err: tt.pingErr})

			rec := get(e, "/health")

			assert.Equal(t, tt.wantStatus, rec.Code)
			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantDB, body["database"])
			assert.Equal(t, "userposts-test", body["service"])
		})
	}
}
