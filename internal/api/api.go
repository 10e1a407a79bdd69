// Package api exposes the report store over HTTP.
package api

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cityfix/cityfix-go/internal/conf"
	"github.com/cityfix/cityfix-go/internal/datastore"
	"github.com/cityfix/cityfix-go/internal/errors"
	"github.com/cityfix/cityfix-go/internal/geocode"
	"github.com/cityfix/cityfix-go/internal/logging"
	"github.com/cityfix/cityfix-go/internal/observability"
	"github.com/cityfix/cityfix-go/internal/report"
	"github.com/cityfix/cityfix-go/internal/security"
)

// Controller manages the API routes and handlers.
type Controller struct {
	Echo     *echo.Echo
	Group    *echo.Group
	Store    *report.Store
	DS       datastore.Interface
	Settings *conf.Settings
	Geocoder *geocode.Client
	Gate     *security.Gate
	Metrics  *observability.Metrics

	logger *slog.Logger
}

// Option is a functional option for configuring the Controller.
type Option func(*Controller)

// WithGeocoder sets the reverse geocoding client. Without one, report
// submissions with coordinates but no location text use the coordinate
// fallback string.
func WithGeocoder(client *geocode.Client) Option {
	return func(c *Controller) {
		c.Geocoder = client
	}
}

// WithMetrics sets the shared metrics instance and enables /metrics.
func WithMetrics(m *observability.Metrics) Option {
	return func(c *Controller) {
		c.Metrics = m
	}
}

// WithLogger overrides the API logger; used by tests.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// New creates the API controller and registers all routes.
func New(settings *conf.Settings, store *report.Store, ds datastore.Interface, gate *security.Gate, opts ...Option) *Controller {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())

	c := &Controller{
		Echo:     e,
		Store:    store,
		DS:       ds,
		Settings: settings,
		Gate:     gate,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		levelVar := new(slog.LevelVar)
		if settings.Main.Debug {
			levelVar.Set(slog.LevelDebug)
		}
		logger, _, err := logging.NewFileLogger(settings.ResolveLogPath("api.log"), "api", levelVar)
		if err != nil {
			logger = logging.NewDiscardLogger("api")
		}
		c.logger = logger
	}

	c.initRoutes()
	return c
}

func (c *Controller) initRoutes() {
	c.Group = c.Echo.Group("/api/v1")

	c.Group.POST("/reports", c.SubmitReport)
	c.Group.GET("/reports", c.ListReports)
	c.Group.GET("/reports/mine", c.ListMyReports)
	c.Group.GET("/reports/track/:code", c.TrackReport)
	c.Group.GET("/reports/resolved", c.ListResolvedReports)
	c.Group.GET("/stats", c.GetStatistics)

	c.Group.POST("/admin/login", c.AdminLogin)
	c.Group.POST("/admin/logout", c.AdminLogout, c.requireAdmin)
	c.Group.PATCH("/admin/reports/:id/status", c.UpdateReportStatus, c.requireAdmin)

	if c.Metrics != nil {
		c.Echo.GET("/metrics", echo.WrapHandler(
			promhttp.HandlerFor(c.Metrics.Registry(), promhttp.HandlerOpts{})))
	}
}

// Start runs the HTTP server on the configured address.
func (c *Controller) Start() error {
	addr := fmt.Sprintf("%s:%d", c.Settings.Server.Host, c.Settings.Server.Port)
	c.logger.Info("starting API server", "addr", addr)
	return c.Echo.Start(addr)
}

// requireAdmin rejects requests without an active admin session.
func (c *Controller) requireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		if !c.Gate.Active() {
			return ctx.JSON(http.StatusUnauthorized, errorResponse{Error: "admin login required"})
		}
		return next(ctx)
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

// handleError maps categorized errors onto HTTP responses. Every error is
// surfaced once as a user-visible notice; none are fatal.
func (c *Controller) handleError(ctx echo.Context, err error) error {
	status := http.StatusInternalServerError
	switch {
	case errors.IsValidation(err):
		status = http.StatusBadRequest
	case errors.IsNotFound(err):
		status = http.StatusNotFound
	case errors.IsImageDecode(err):
		status = http.StatusUnprocessableEntity
	case errors.IsImageSource(err):
		status = http.StatusBadRequest
	case errors.IsPersistence(err):
		status = http.StatusServiceUnavailable
	}

	var ee *errors.EnhancedError
	if errors.As(err, &ee) {
		c.logger.Error("request failed",
			"path", ctx.Path(), "category", ee.GetCategory(), "error", err)
	} else {
		c.logger.Error("request failed", "path", ctx.Path(), "error", err)
	}
	return ctx.JSON(status, errorResponse{Error: err.Error()})
}

// persistenceNotice is included in responses whose mutation succeeded in
// memory but could not be written durably.
const persistenceNotice = "report saved in memory only: durable storage is currently unavailable"
