package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-booking/internal/booking"
	"github.com/iliyamo/restaurant-booking/internal/service"
	"github.com/iliyamo/restaurant-booking/internal/utils"
)

// CustomerHandler serves the guest profiles derived from booking history.
type CustomerHandler struct {
	Customers *service.CustomerService
}

func NewCustomerHandler(s *service.CustomerService) *CustomerHandler {
	return &CustomerHandler{Customers: s}
}

func (h *CustomerHandler) List(c echo.Context) error {
	f := booking.CustomerFilter{Status: c.QueryParam("status"), Search: c.QueryParam("search")}
	ctx, cancel := reqCtx(c)
	defer cancel()
	list, err := h.Customers.List(ctx, f)
	if err != nil {
		return respondError(c, err)
	}
	return utils.JSONSuccess(c, http.StatusOK, list)
}

func (h *CustomerHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	cu, err := h.Customers.Get(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	return utils.JSONSuccess(c, http.StatusOK, cu)
}

// Update changes status, notes, preferences or tags. Absent fields are kept.
func (h *CustomerHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var u service.CustomerUpdate
	if err := c.Bind(&u); err != nil {
		return badRequest(c, "invalid body")
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	cu, err := h.Customers.Update(ctx, id, u)
	if err != nil {
		return respondError(c, err)
	}
	return utils.JSONSuccess(c, http.StatusOK, cu)
}

// Rebuild recomputes every profile from the bookings.
func (h *CustomerHandler) Rebuild(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	n, err := h.Customers.Rebuild(ctx)
	if err != nil {
		return respondError(c, err)
	}
	return utils.JSONSuccess(c, http.StatusOK, echo.Map{"customers": n})
}
