// Package handler exposes the booking services over HTTP. Every response
// uses the envelope written by utils.JSONSuccess and utils.JSONError.
package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-booking/internal/booking"
	"github.com/iliyamo/restaurant-booking/internal/repository"
	"github.com/iliyamo/restaurant-booking/internal/service"
	"github.com/iliyamo/restaurant-booking/internal/utils"
)

const requestTimeout = 5 * time.Second

func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), requestTimeout)
}

// pathID parses a positive integer path parameter.
func pathID(c echo.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, booking.Invalid(name, "must be a positive integer")
	}
	return id, nil
}

// queryUint parses an optional non-negative integer query parameter.
func queryUint(c echo.Context, name string) (uint64, error) {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, booking.Invalid(name, "must be a non-negative integer")
	}
	return n, nil
}

func queryInt(c echo.Context, name string, def int) (int, error) {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, booking.Invalid(name, "must be an integer")
	}
	return n, nil
}

// respondError maps service and repository errors onto HTTP statuses.
func respondError(c echo.Context, err error) error {
	var ve *booking.ValidationError
	var full *service.SlotFullError
	switch {
	case errors.As(err, &ve):
		return utils.JSONErrorData(c, http.StatusBadRequest, ve.Error(), echo.Map{"field": ve.Field})
	case errors.As(err, &full):
		return utils.JSONErrorData(c, http.StatusConflict, "the selected time is fully booked", echo.Map{
			"alternative_slots": full.Availability.AlternativeSlots,
		})
	case errors.Is(err, repository.ErrSlotFull):
		return utils.JSONError(c, http.StatusConflict, "the selected time is fully booked")
	case errors.Is(err, repository.ErrBookingNotFound),
		errors.Is(err, repository.ErrLocationNotFound),
		errors.Is(err, repository.ErrTableNotFound),
		errors.Is(err, repository.ErrCustomerNotFound),
		errors.Is(err, repository.ErrUserNotFound):
		return utils.JSONError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrLocationClosed):
		return utils.JSONError(c, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, repository.ErrConflict), errors.Is(err, repository.ErrEmailExists):
		return utils.JSONError(c, http.StatusConflict, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return utils.JSONError(c, http.StatusGatewayTimeout, "request timed out")
	}
	c.Logger().Errorf("%s %s: %v", c.Request().Method, c.Path(), err)
	return utils.JSONError(c, http.StatusInternalServerError, "internal error")
}

func badRequest(c echo.Context, msg string) error {
	return utils.JSONError(c, http.StatusBadRequest, msg)
}
