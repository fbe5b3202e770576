package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/anonto42/userposts/internal/metrics"
	"github.com/anonto42/userposts/internal/repositories"
	"github.com/anonto42/userposts/internal/views"
	"github.com/labstack/echo/v4"
)

// NewErrorHandler returns the echo.HTTPErrorHandler that turns any error a
// handler returned into a status and an error page. Errors that are not an
// *echo.HTTPError, store constraint violations included, become a plain 500.
func NewErrorHandler(logger *slog.Logger, m *metrics.Metrics) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		message := http.StatusText(status)

		var he *echo.HTTPError
		if errors.As(err, &he) {
			status = he.Code
			message = http.StatusText(status)
			if s, ok := he.Message.(string); ok && status < http.StatusInternalServerError {
				message = s
			}
		}

		if kind := repositories.ConstraintKind(err); kind != "" {
			m.ConstraintViolation(kind)
			logger.Warn("constraint violation",
				slog.String("kind", kind),
				slog.String("path", c.Path()),
				slog.String("error", err.Error()),
			)
		} else if status >= http.StatusInternalServerError {
			logger.Error("request failed",
				slog.String("path", c.Path()),
				slog.String("error", err.Error()),
			)
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.Render(status, views.TemplateError, views.ErrorPage{Status: status, Message: message})
		}
		if err != nil {
			logger.Error("writing error response", slog.String("error", err.Error()))
		}
	}
}
