package handler

import (
	"net/http"

	"github.com/Astemirdum/library-management/library/internal/model"
	"github.com/labstack/echo/v4"
)

// DashboardStats godoc
// @Summary counters and recent loans for the dashboard
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.DashboardStats
// @Router /api/dashboard/stats [get]
func (h *Handler) DashboardStats(c echo.Context) error {
	stats, err := h.svc.DashboardStats(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}

// Report godoc
// @Summary lending report for a date range
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param start_date query string false "YYYY-MM-DD"
// @Param end_date query string false "YYYY-MM-DD"
// @Success 200 {object} model.Report
// @Failure 422 {object} errs.ErrorResponse
// @Router /api/reports/summary [get]
func (h *Handler) Report(c echo.Context) error {
	var req model.ReportRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	rng, err := h.svc.ReportRange(req)
	if err != nil {
		return err
	}
	rep, err := h.svc.Report(c.Request().Context(), rng)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rep)
}
