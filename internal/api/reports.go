package api

import (
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/cityfix/cityfix-go/internal/datastore"
	"github.com/cityfix/cityfix-go/internal/errors"
	"github.com/cityfix/cityfix-go/internal/geocode"
	"github.com/cityfix/cityfix-go/internal/imagenorm"
	"github.com/cityfix/cityfix-go/internal/report"
)

// ReporterIDHeader carries the per-device reporter identity. When absent
// the server falls back to its own stable device id, matching the
// original single-device deployment.
const ReporterIDHeader = "X-Reporter-ID"

// submitRequest is the JSON body of POST /reports. Multipart submissions
// carry the same fields as form values plus a "photo" file part.
type submitRequest struct {
	Title        string              `json:"title" form:"title"`
	Description  string              `json:"description" form:"description"`
	LocationText string              `json:"locationText" form:"locationText"`
	Coordinates  *report.Coordinates `json:"coordinates,omitempty"`
	Latitude     *float64            `json:"-" form:"latitude"`
	Longitude    *float64            `json:"-" form:"longitude"`
}

// reportResponse wraps a report, optionally carrying a notice when the
// durable write was skipped.
type reportResponse struct {
	Report *report.Report `json:"report"`
	Notice string         `json:"notice,omitempty"`
}

// SubmitReport handles POST /api/v1/reports.
func (c *Controller) SubmitReport(ctx echo.Context) error {
	var req submitRequest
	if err := ctx.Bind(&req); err != nil {
		return c.handleError(ctx, errors.New(err).
			Category(errors.CategoryValidation).
			Component("api").
			Build())
	}
	if req.Coordinates == nil && req.Latitude != nil && req.Longitude != nil {
		req.Coordinates = &report.Coordinates{Latitude: *req.Latitude, Longitude: *req.Longitude}
	}

	photoURL, err := c.normalizeUploadedPhoto(ctx)
	if err != nil {
		return c.handleError(ctx, err)
	}

	reporterID, err := c.reporterID(ctx)
	if err != nil {
		return c.handleError(ctx, err)
	}

	locationText := strings.TrimSpace(req.LocationText)
	if locationText == "" && req.Coordinates != nil {
		locationText = c.resolveLocation(ctx, req.Coordinates)
	}

	created, err := c.Store.Create(report.Draft{
		Title:        req.Title,
		Description:  req.Description,
		LocationText: locationText,
		Coordinates:  req.Coordinates,
		PhotoURL:     photoURL,
		ReporterID:   reporterID,
	})
	if err != nil && !errors.IsPersistence(err) {
		return c.handleError(ctx, err)
	}

	if c.Metrics != nil {
		c.Metrics.ReportsCreated.Inc()
	}

	resp := reportResponse{Report: created}
	if err != nil {
		resp.Notice = persistenceNotice
	}
	ctx.Response().Header().Set(ReporterIDHeader, reporterID)
	return ctx.JSON(http.StatusCreated, resp)
}

// ListReports handles GET /api/v1/reports.
func (c *Controller) ListReports(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, c.Store.ListAll())
}

// ListMyReports handles GET /api/v1/reports/mine.
func (c *Controller) ListMyReports(ctx echo.Context) error {
	reporterID, err := c.reporterID(ctx)
	if err != nil {
		return c.handleError(ctx, err)
	}
	reports := c.Store.ListByReporter(reporterID)
	if reports == nil {
		reports = []report.Report{}
	}
	ctx.Response().Header().Set(ReporterIDHeader, reporterID)
	return ctx.JSON(http.StatusOK, reports)
}

// TrackReport handles GET /api/v1/reports/track/:code.
func (c *Controller) TrackReport(ctx echo.Context) error {
	found, err := c.Store.FindByQueryNumber(ctx.Param("code"))
	if err != nil {
		return c.handleError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, found)
}

// ListResolvedReports handles GET /api/v1/reports/resolved.
func (c *Controller) ListResolvedReports(ctx echo.Context) error {
	resolved := c.Store.ResolvedReports()
	if resolved == nil {
		resolved = []report.Report{}
	}
	return ctx.JSON(http.StatusOK, resolved)
}

// GetStatistics handles GET /api/v1/stats.
func (c *Controller) GetStatistics(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, c.Store.GetStatistics())
}

// normalizeUploadedPhoto runs an optional multipart "photo" part through
// the normalizer and returns its data URL, or "" when no photo was sent.
func (c *Controller) normalizeUploadedPhoto(ctx echo.Context) (string, error) {
	file, err := ctx.FormFile("photo")
	if err != nil {
		// No multipart photo part; JSON submissions land here.
		return "", nil
	}

	src, err := file.Open()
	if err != nil {
		return "", errors.New(err).
			Category(errors.CategoryImageSource).
			Component("api").
			Build()
	}
	defer src.Close()

	raw, err := io.ReadAll(io.LimitReader(src, imagenorm.MaxInputBytes+1))
	if err != nil {
		return "", errors.New(err).
			Category(errors.CategoryImageSource).
			Component("api").
			Build()
	}

	normalized, err := imagenorm.Normalize(raw, file.Filename)
	if err != nil {
		if c.Metrics != nil {
			reason := "decode"
			if errors.IsValidation(err) {
				reason = "validation"
			}
			c.Metrics.ImageRejected.WithLabelValues(reason).Inc()
		}
		return "", err
	}
	if c.Metrics != nil {
		c.Metrics.ImageNormalized.Inc()
	}
	return normalized.DataURL(), nil
}

// resolveLocation turns coordinates into a display address, falling back
// to the coordinate string when geocoding is unavailable or fails.
func (c *Controller) resolveLocation(ctx echo.Context, coords *report.Coordinates) string {
	if c.Metrics != nil {
		c.Metrics.GeocodeLookups.Inc()
	}
	if c.Geocoder == nil {
		if c.Metrics != nil {
			c.Metrics.GeocodeFallbacks.Inc()
		}
		return geocode.FallbackCoordinates(coords.Latitude, coords.Longitude)
	}

	address, err := c.Geocoder.Reverse(ctx.Request().Context(), coords.Latitude, coords.Longitude)
	if err != nil {
		if c.Metrics != nil {
			c.Metrics.GeocodeFallbacks.Inc()
		}
		return geocode.FallbackCoordinates(coords.Latitude, coords.Longitude)
	}
	return address
}

func (c *Controller) reporterID(ctx echo.Context) (string, error) {
	if id := strings.TrimSpace(ctx.Request().Header.Get(ReporterIDHeader)); id != "" {
		return id, nil
	}
	id, err := datastore.EnsureReporterID(c.DS)
	if err != nil {
		return "", errors.New(err).
			Category(errors.CategoryPersistence).
			Component("api").
			Build()
	}
	return id, nil
}
