package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-booking/internal/service"
	"github.com/iliyamo/restaurant-booking/internal/utils"
)

// DashboardHandler serves the analytics cards and trend charts.
// ?period= takes 7d, 30d or 90d and falls back to 7d.
type DashboardHandler struct {
	Analytics *service.AnalyticsService
}

func NewDashboardHandler(a *service.AnalyticsService) *DashboardHandler {
	return &DashboardHandler{Analytics: a}
}

func (h *DashboardHandler) Dashboard(c echo.Context) error {
	loc, err := queryUint(c, "location_id")
	if err != nil {
		return respondError(c, err)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	d, err := h.Analytics.Dashboard(ctx, c.QueryParam("period"), loc)
	if err != nil {
		return respondError(c, err)
	}
	return utils.JSONSuccess(c, http.StatusOK, d)
}

func (h *DashboardHandler) Trends(c echo.Context) error {
	loc, err := queryUint(c, "location_id")
	if err != nil {
		return respondError(c, err)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	t, err := h.Analytics.Trends(ctx, c.QueryParam("period"), loc)
	if err != nil {
		return respondError(c, err)
	}
	return utils.JSONSuccess(c, http.StatusOK, t)
}
