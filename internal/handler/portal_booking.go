package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-booking/internal/booking"
	"github.com/iliyamo/restaurant-booking/internal/model"
	"github.com/iliyamo/restaurant-booking/internal/repository"
	"github.com/iliyamo/restaurant-booking/internal/service"
	"github.com/iliyamo/restaurant-booking/internal/utils"
)

// BookingHandler serves the staff booking screens.
type BookingHandler struct {
	Bookings *service.BookingService
}

func NewBookingHandler(bookings *service.BookingService) *BookingHandler {
	return &BookingHandler{Bookings: bookings}
}

type statusReq struct {
	Status string `json:"status"`
}

type bulkStatusReq struct {
	IDs    []uint64 `json:"ids"`
	Status string   `json:"status"`
}

type idsReq struct {
	IDs []uint64 `json:"ids"`
}

// parseStatus treats "" and "all" as no status clause.
func parseStatus(raw string) (model.BookingStatus, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, "all") {
		return "", nil
	}
	st, ok := model.ParseStatus(raw)
	if !ok {
		return "", &booking.ValidationError{Field: "status", Value: raw, Msg: "unknown status"}
	}
	return st, nil
}

// parseFilter reads the filter clauses shared by the list and the calendar.
func parseFilter(c echo.Context) (booking.Filter, error) {
	var f booking.Filter
	var err error
	if f.Status, err = parseStatus(c.QueryParam("status")); err != nil {
		return f, err
	}
	if f.LocationID, err = queryUint(c, "location_id"); err != nil {
		return f, err
	}
	for _, p := range []struct {
		name string
		dst  *string
	}{{"date_from", &f.DateFrom}, {"date_to", &f.DateTo}} {
		raw := strings.TrimSpace(c.QueryParam(p.name))
		if raw == "" {
			continue
		}
		d, ok := booking.ParseDate(raw)
		if !ok {
			return f, &booking.ValidationError{Field: p.name, Value: raw, Msg: "unrecognized date"}
		}
		*p.dst = d
	}
	f.Search = strings.TrimSpace(c.QueryParam("search"))
	return f, nil
}

// List returns one page of bookings with the status summary.
func (h *BookingHandler) List(c echo.Context) error {
	f, err := parseFilter(c)
	if err != nil {
		return respondError(c, err)
	}
	page, err := queryInt(c, "page", 1)
	if err != nil {
		return respondError(c, err)
	}
	size, err := queryInt(c, "page_size", booking.DefaultPageSize)
	if err != nil {
		return respondError(c, err)
	}
	q := service.ListQuery{
		Filter:    f,
		Page:      page,
		PageSize:  size,
		SortBy:    c.QueryParam("sort_by"),
		SortOrder: booking.ParseOrder(c.QueryParam("sort_order")),
	}

	ctx, cancel := reqCtx(c)
	defer cancel()
	res, err := h.Bookings.GetBookings(ctx, q)
	if err != nil {
		return respondError(c, err)
	}
	return utils.JSONSuccess(c, http.StatusOK, res)
}

// Create adds a booking on behalf of a guest. Staff may overbook.
func (h *BookingHandler) Create(c echo.Context) error {
	var in service.BookingInput
	if err := c.Bind(&in); err != nil {
		return badRequest(c, "invalid body")
	}
	if strings.TrimSpace(in.Source) == "" {
		in.Source = model.SourcePortal
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	b, err := h.Bookings.Add(ctx, in)
	if err != nil {
		return respondError(c, err)
	}
	return utils.JSONSuccess(c, http.StatusCreated, b)
}

func (h *BookingHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	b, err := h.Bookings.Get(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	if b == nil {
		return respondError(c, repository.ErrBookingNotFound)
	}
	return utils.JSONSuccess(c, http.StatusOK, b)
}

// UpdateStatus sets the status named in the body.
func (h *BookingHandler) UpdateStatus(c echo.Context) error {
	var req statusReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	st, ok := model.ParseStatus(req.Status)
	if !ok {
		return respondError(c, &booking.ValidationError{Field: "status", Value: req.Status, Msg: "unknown status"})
	}
	return h.transition(c, st)
}

func (h *BookingHandler) Confirm(c echo.Context) error {
	return h.transition(c, model.StatusConfirmed)
}

func (h *BookingHandler) Cancel(c echo.Context) error {
	return h.transition(c, model.StatusCancelled)
}

func (h *BookingHandler) Complete(c echo.Context) error {
	return h.transition(c, model.StatusCompleted)
}

// transition updates the status and answers with the stored booking.
func (h *BookingHandler) transition(c echo.Context, st model.BookingStatus) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	ok, err := h.Bookings.UpdateStatus(ctx, id, st)
	if err != nil {
		return respondError(c, err)
	}
	if !ok {
		return respondError(c, repository.ErrBookingNotFound)
	}
	b, err := h.Bookings.Get(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	return utils.JSONSuccess(c, http.StatusOK, b)
}

func (h *BookingHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	ok, err := h.Bookings.Delete(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	if !ok {
		return respondError(c, repository.ErrBookingNotFound)
	}
	return c.NoContent(http.StatusNoContent)
}

// BulkStatus applies one status to many bookings. Failed items are
// reported next to the success count.
func (h *BookingHandler) BulkStatus(c echo.Context) error {
	var req bulkStatusReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if len(req.IDs) == 0 {
		return badRequest(c, "ids must not be empty")
	}
	st, ok := model.ParseStatus(req.Status)
	if !ok {
		return respondError(c, &booking.ValidationError{Field: "status", Value: req.Status, Msg: "unknown status"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	res, err := h.Bookings.BulkUpdateStatus(ctx, req.IDs, st)
	if err != nil {
		return respondError(c, err)
	}
	return utils.JSONSuccess(c, http.StatusOK, res)
}

// Reminders queues a reminder e-mail for each booking.
func (h *BookingHandler) Reminders(c echo.Context) error {
	var req idsReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if len(req.IDs) == 0 {
		return badRequest(c, "ids must not be empty")
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	return utils.JSONSuccess(c, http.StatusOK, h.Bookings.BulkSendReminders(ctx, req.IDs))
}

// Calendar groups a month of bookings by day. Month and year default to
// the current ones in the booking timezone.
func (h *BookingHandler) Calendar(c echo.Context) error {
	now := h.Bookings.Today()
	month, err := queryInt(c, "month", int(now.Month()))
	if err != nil {
		return respondError(c, err)
	}
	year, err := queryInt(c, "year", now.Year())
	if err != nil {
		return respondError(c, err)
	}
	f, err := parseFilter(c)
	if err != nil {
		return respondError(c, err)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	days, err := h.Bookings.GetCalendarData(ctx, month, year, f)
	if err != nil {
		return respondError(c, err)
	}
	return utils.JSONSuccess(c, http.StatusOK, days)
}

func (h *BookingHandler) Slots(c echo.Context) error {
	return slots(c, h.Bookings)
}

// Stats reports one location's figures for a day, today by default.
func (h *BookingHandler) Stats(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, err)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()
	st, err := h.Bookings.GetLocationStats(ctx, id, c.QueryParam("date"))
	if err != nil {
		return respondError(c, err)
	}
	return utils.JSONSuccess(c, http.StatusOK, st)
}
