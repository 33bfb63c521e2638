package handler

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-booking/internal/service"
	"github.com/iliyamo/restaurant-booking/internal/utils"
)

const maxLayoutBytes = 1 << 20

// VenueHandler manages locations and floor plans.
type VenueHandler struct {
	Venues *service.VenueService
}

func NewVenueHandler(v *service.VenueService) *VenueHandler {
	return &VenueHandler{Venues: v}
}

// ListLocations returns every location, inactive and private included.
func (h *VenueHandler) ListLocations(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	locs, err := h.Venues.ListLocations(ctx, false)
	if err != nil {
		return respondError(c, err)
	}
	return utils.JSONSuccess(c, http.StatusOK, locs)
}

func (h *VenueHandler) CreateLocation(c echo.Context) error {
	var in service.LocationInput
	if err := c.Bind(&in); err != nil {
		return badRequest(c, "invalid body")
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	l, err := h.Venues.CreateLocation(ctx, in)
	if err != nil {
		return respondError(c, err)
	}
	return utils.JSONSuccess(c, http.StatusCreated, l)
}

func (h *VenueHandler) UpdateLocation(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var in service.LocationInput
	if err := c.Bind(&in); err != nil {
		return badRequest(c, "invalid body")
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	l, err := h.Venues.UpdateLocation(ctx, id, in)
	if err != nil {
		return respondError(c, err)
	}
	return utils.JSONSuccess(c, http.StatusOK, l)
}

func (h *VenueHandler) DeleteLocation(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Venues.DeleteLocation(ctx, id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *VenueHandler) Tables(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	ts, err := h.Venues.Tables(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	return utils.JSONSuccess(c, http.StatusOK, ts)
}

// SaveLayout replaces the floor plan of a location. The body is either an
// array of tables or {"tables": [...]}.
func (h *VenueHandler) SaveLayout(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	raw, err := io.ReadAll(io.LimitReader(c.Request().Body, maxLayoutBytes))
	if err != nil {
		return badRequest(c, "unreadable body")
	}
	tables, err := service.ParseLayout(raw)
	if err != nil {
		return respondError(c, err)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	saved, err := h.Venues.SaveLayout(ctx, id, tables)
	if err != nil {
		return respondError(c, err)
	}
	return utils.JSONSuccess(c, http.StatusOK, saved)
}

func (h *VenueHandler) UpdateTableStatus(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	var req statusReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Venues.UpdateTableStatus(ctx, id, req.Status); err != nil {
		return respondError(c, err)
	}
	return utils.JSONSuccess(c, http.StatusOK, echo.Map{"id": id, "status": req.Status})
}
