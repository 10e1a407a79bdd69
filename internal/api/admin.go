package api

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/cityfix/cityfix-go/internal/errors"
	"github.com/cityfix/cityfix-go/internal/imagenorm"
	"github.com/cityfix/cityfix-go/internal/report"
)

type loginRequest struct {
	Password string `json:"password" form:"password"`
}

type statusUpdateRequest struct {
	Status string `json:"status" form:"status"`
	Notes  string `json:"notes" form:"notes"`
}

// AdminLogin handles POST /api/v1/admin/login.
func (c *Controller) AdminLogin(ctx echo.Context) error {
	var req loginRequest
	if err := ctx.Bind(&req); err != nil {
		return c.handleError(ctx, errors.New(err).
			Category(errors.CategoryValidation).
			Component("api").
			Build())
	}

	if err := c.Gate.Login(req.Password); err != nil {
		if errors.IsValidation(err) {
			c.logger.Warn("admin login rejected")
			return ctx.JSON(http.StatusUnauthorized, errorResponse{Error: "invalid password"})
		}
		return c.handleError(ctx, err)
	}

	c.logger.Info("admin login accepted")
	return ctx.JSON(http.StatusOK, map[string]bool{"admin": true})
}

// AdminLogout handles POST /api/v1/admin/logout.
func (c *Controller) AdminLogout(ctx echo.Context) error {
	if err := c.Gate.Logout(); err != nil {
		return c.handleError(ctx, err)
	}
	return ctx.JSON(http.StatusOK, map[string]bool{"admin": false})
}

// UpdateReportStatus handles PATCH /api/v1/admin/reports/:id/status.
// Multipart requests may attach a "resolutionImage" file part; it is
// normalized and replaces both the resolution and display photos.
func (c *Controller) UpdateReportStatus(ctx echo.Context) error {
	var req statusUpdateRequest
	if err := ctx.Bind(&req); err != nil {
		return c.handleError(ctx, errors.New(err).
			Category(errors.CategoryValidation).
			Component("api").
			Build())
	}

	resolutionImage, err := c.normalizeResolutionImage(ctx)
	if err != nil {
		return c.handleError(ctx, err)
	}

	updated, err := c.Store.UpdateStatus(ctx.Param("id"), report.Status(req.Status), req.Notes, resolutionImage)
	if err != nil && !errors.IsPersistence(err) {
		return c.handleError(ctx, err)
	}

	if c.Metrics != nil {
		c.Metrics.StatusUpdates.WithLabelValues(req.Status).Inc()
	}

	resp := reportResponse{Report: updated}
	if err != nil {
		resp.Notice = persistenceNotice
	}
	return ctx.JSON(http.StatusOK, resp)
}

func (c *Controller) normalizeResolutionImage(ctx echo.Context) (string, error) {
	file, err := ctx.FormFile("resolutionImage")
	if err != nil {
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
		return "", err
	}
	return normalized.DataURL(), nil
}
