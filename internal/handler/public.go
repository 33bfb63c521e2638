package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-booking/internal/service"
	"github.com/iliyamo/restaurant-booking/internal/utils"
)

// PublicHandler backs the booking widget. None of its routes need a session.
type PublicHandler struct {
	Bookings *service.BookingService
	Venues   *service.VenueService
}

func NewPublicHandler(bookings *service.BookingService, venues *service.VenueService) *PublicHandler {
	return &PublicHandler{Bookings: bookings, Venues: venues}
}

// Locations lists the locations that take bookings.
func (h *PublicHandler) Locations(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	locs, err := h.Venues.ListLocations(ctx, true)
	if err != nil {
		return respondError(c, err)
	}
	return utils.JSONSuccess(c, http.StatusOK, locs)
}

// Slots returns the availability grid for one location and day.
func (h *PublicHandler) Slots(c echo.Context) error {
	return slots(c, h.Bookings)
}

// Book takes a reservation from a guest. The slot capacity is enforced.
func (h *PublicHandler) Book(c echo.Context) error {
	var in service.BookingInput
	if err := c.Bind(&in); err != nil {
		return badRequest(c, "invalid body")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()
	b, err := h.Bookings.Book(ctx, in)
	if err != nil {
		return respondError(c, err)
	}
	return utils.JSONSuccess(c, http.StatusCreated, b)
}

// slots is shared by the widget and the portal. A missing date means today.
func slots(c echo.Context, svc *service.BookingService) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	party, err := queryInt(c, "party_size", 2)
	if err != nil {
		return respondError(c, err)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	avail, err := svc.GetTimeSlots(ctx, id, c.QueryParam("date"), party, c.QueryParam("time"))
	if err != nil {
		return respondError(c, err)
	}
	return utils.JSONSuccess(c, http.StatusOK, avail)
}
