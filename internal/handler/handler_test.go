package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/restaurant-booking/internal/booking"
	"github.com/iliyamo/restaurant-booking/internal/model"
	"github.com/iliyamo/restaurant-booking/internal/repository"
	"github.com/iliyamo/restaurant-booking/internal/service"
)

func newContext(target string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestRespondError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
		body string
	}{
		{"validation", booking.Invalid("date", "unrecognized date"), http.StatusBadRequest, `"field":"date"`},
		{"slot full", &service.SlotFullError{}, http.StatusConflict, `"alternative_slots"`},
		{"wrapped not found", fmt.Errorf("get: %w", repository.ErrBookingNotFound), http.StatusNotFound, `"success":false`},
		{"closed", service.ErrLocationClosed, http.StatusUnprocessableEntity, `"message"`},
		{"duplicate", repository.ErrEmailExists, http.StatusConflict, `"message"`},
		{"timeout", context.DeadlineExceeded, http.StatusGatewayTimeout, "timed out"},
		{"other", errors.New("boom"), http.StatusInternalServerError, "internal error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newContext("/")
			require.NoError(t, respondError(c, tt.err))
			assert.Equal(t, tt.code, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.body)
			assert.NotContains(t, rec.Body.String(), "boom")
		})
	}
}

func TestParseFilter(t *testing.T) {
	c, _ := newContext("/?status=All&location_id=3&date_from=05/01/2024&date_to=2024-05-31&search=+ada+")
	f, err := parseFilter(c)
	require.NoError(t, err)
	assert.Equal(t, booking.Filter{LocationID: 3, DateFrom: "2024-05-01", DateTo: "2024-05-31", Search: "ada"}, f)

	c, _ = newContext("/?status=Confirmed")
	f, err = parseFilter(c)
	require.NoError(t, err)
	assert.Equal(t, model.StatusConfirmed, f.Status)

	for _, q := range []string{"status=seated", "location_id=-1", "date_to=someday"} {
		c, _ = newContext("/?" + q)
		_, err = parseFilter(c)
		var ve *booking.ValidationError
		assert.ErrorAs(t, err, &ve, q)
	}
}

func TestQueryHelpers(t *testing.T) {
	c, _ := newContext("/?page=3&size=x")
	n, err := queryInt(c, "page", 1)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = queryInt(c, "missing", 7)
	require.NoError(t, err)
	assert.Equal(t, 7, n)

	_, err = queryInt(c, "size", 1)
	assert.Error(t, err)

	c.SetParamNames("id")
	c.SetParamValues("0")
	_, err = pathID(c, "id")
	assert.Error(t, err)
	c.SetParamValues("12")
	id, err := pathID(c, "id")
	require.NoError(t, err)
	assert.Equal(t, uint64(12), id)
}
