package queue

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/restaurant-booking/internal/model"
)

type mockNotifier struct{ mock.Mock }

func (m *mockNotifier) Notify(ctx context.Context, ev BookingEvent) error {
	return m.Called(ctx, ev).Error(0)
}

func sampleBooking() model.Booking {
	return model.Booking{
		ID:            12,
		Reference:     "3f2a9c1e-0000-4000-8000-000000000000",
		Status:        model.StatusConfirmed,
		BookingDate:   "2024-05-01",
		BookingTime:   "19:30",
		PartySize:     4,
		LocationID:    2,
		LocationName:  "Harbour",
		CustomerName:  "Ada Lovelace",
		CustomerEmail: "ada@example.com",
	}
}

func TestNewBookingEvent(t *testing.T) {
	at := time.Date(2024, 4, 30, 10, 0, 0, 0, time.UTC)
	ev := NewBookingEvent(EventStatusChanged, sampleBooking(), model.StatusPending, at)

	assert.NotEmpty(t, ev.MessageID)
	assert.Equal(t, "confirmed", ev.Status)
	assert.Equal(t, "pending", ev.PreviousStatus)
	assert.Equal(t, "2024-04-30T10:00:00Z", ev.OccurredAt)
	assert.Equal(t, "Your booking is now confirmed", ev.Subject())
	assert.Contains(t, ev.Body(), "changed from pending to confirmed")
	assert.Contains(t, ev.LogLine(), "booking.status_changed | booking_id=12")

	created := NewBookingEvent(EventCreated, sampleBooking(), "", at)
	assert.Equal(t, "We received your booking 3F2A9C1E", created.Subject())
	assert.NotContains(t, created.LogLine(), "previous=")
}

func TestConsumer_HandleMessage(t *testing.T) {
	at := time.Date(2024, 4, 30, 10, 0, 0, 0, time.UTC)
	ev := NewBookingEvent(EventReminder, sampleBooking(), "", at)
	body, err := json.Marshal(ev)
	require.NoError(t, err)

	t.Run("journals and notifies", func(t *testing.T) {
		journal := filepath.Join(t.TempDir(), "logs", "booking.log")
		n := &mockNotifier{}
		n.On("Notify", mock.Anything, ev).Return(nil)

		c := NewConsumer(n, journal)
		require.NoError(t, c.HandleMessage(context.Background(), body))
		require.NoError(t, c.HandleMessage(context.Background(), body))

		raw, err := os.ReadFile(journal)
		require.NoError(t, err)
		assert.Equal(t, 2, strings.Count(string(raw), "booking.reminder"))
		n.AssertNumberOfCalls(t, "Notify", 2)
	})

	t.Run("notifier failure does not reject", func(t *testing.T) {
		n := &mockNotifier{}
		n.On("Notify", mock.Anything, mock.Anything).Return(errors.New("smtp down"))
		c := NewConsumer(n, "")
		assert.NoError(t, c.HandleMessage(context.Background(), body))
	})

	t.Run("malformed body", func(t *testing.T) {
		c := NewConsumer(nil, "")
		assert.Error(t, c.HandleMessage(context.Background(), []byte("{not json")))
		assert.Error(t, c.HandleMessage(context.Background(), []byte(`{"booking_id":1}`)))
	})
}
