package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-booking/internal/utils"
)

// Health is the liveness probe.
func Health(c echo.Context) error {
	return utils.JSONSuccess(c, http.StatusOK, echo.Map{"status": "ok"})
}
