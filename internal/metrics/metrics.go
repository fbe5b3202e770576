// Package metrics exposes Prometheus counters for record creation, store
// constraint rejections and served requests.
package metrics

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "userposts"

type Metrics struct {
	registry             *prometheus.Registry
	usersCreated         prometheus.Counter
	postsCreated         prometheus.Counter
	constraintViolations *prometheus.CounterVec
	httpRequests         *prometheus.CounterVec
}

// New registers all collectors on a private registry, so several instances
// (one per test server) never collide.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		usersCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "users_created_total",
			Help:      "Users successfully inserted.",
		}),
		postsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "posts_created_total",
			Help:      "Posts successfully inserted.",
		}),
		constraintViolations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "constraint_violations_total",
			Help:      "Inserts rejected by a store constraint.",
		}, []string{"kind"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.usersCreated,
		m.postsCreated,
		m.constraintViolations,
		m.httpRequests,
	)
	return m
}

// A nil *Metrics is valid and records nothing.

func (m *Metrics) UserCreated() {
	if m != nil {
		m.usersCreated.Inc()
	}
}

func (m *Metrics) PostCreated() {
	if m != nil {
		m.postsCreated.Inc()
	}
}

// ConstraintViolation counts a rejected insert; kind is "unique" or "foreign_key".
func (m *Metrics) ConstraintViolation(kind string) {
	if m != nil && kind != "" {
		m.constraintViolations.WithLabelValues(kind).Inc()
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Middleware counts every request under its route template, so
// /user/1/posts and /user/2/posts share one series.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)

			status := c.Response().Status
			if err != nil {
				var he *echo.HTTPError
				if errors.As(err, &he) {
					status = he.Code
				} else {
					status = http.StatusInternalServerError
				}
			}
			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			m.httpRequests.WithLabelValues(c.Request().Method, route, strconv.Itoa(status)).Inc()
			return err
		}
	}
}
