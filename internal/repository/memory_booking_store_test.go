package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/restaurant-booking/internal/booking"
	"github.com/iliyamo/restaurant-booking/internal/model"
)

func newBooking(date, at string) *model.Booking {
	return &model.Booking{
		Status:      model.StatusPending,
		BookingDate: date,
		BookingTime: at,
		PartySize:   2,
		LocationID:  1,
	}
}

func TestMemoryBookingStore_IDsNeverReused(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryBookingStore()

	var last uint64
	for i := 0; i < 5; i++ {
		b := newBooking("2024-05-01", "18:00")
		require.NoError(t, s.Create(ctx, b))
		assert.Greater(t, b.ID, last)
		last = b.ID
	}

	require.NoError(t, s.Delete(ctx, last))
	b := newBooking("2024-05-01", "18:00")
	require.NoError(t, s.Create(ctx, b))
	assert.Equal(t, last+1, b.ID)
}

func TestMemoryBookingStore_NotFound(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryBookingStore()
	require.NoError(t, s.Create(ctx, newBooking("2024-05-01", "18:00")))

	_, err := s.Get(ctx, 42)
	assert.ErrorIs(t, err, ErrBookingNotFound)
	assert.ErrorIs(t, s.Delete(ctx, 42), ErrBookingNotFound)
	assert.ErrorIs(t, s.UpdateStatus(ctx, 42, model.StatusConfirmed, time.Now()), ErrBookingNotFound)

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestMemoryBookingStore_UpdateStatusAndFind(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryBookingStore()
	a := newBooking("2024-05-01", "18:00")
	b := newBooking("2024-05-02", "19:00")
	require.NoError(t, s.Create(ctx, a))
	require.NoError(t, s.Create(ctx, b))

	at := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, s.UpdateStatus(ctx, b.ID, model.StatusConfirmed, at))

	got, err := s.Get(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusConfirmed, got.Status)
	assert.Equal(t, at, got.UpdatedAt)

	found, err := s.Find(ctx, booking.Filter{Status: model.StatusPending})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, a.ID, found[0].ID)

	ok, err := s.Exists(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMemoryBookingStore_CreateWithinCapacity(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryBookingStore()

	for i := 0; i < 3; i++ {
		require.NoError(t, s.CreateWithinCapacity(ctx, newBooking("2024-05-01", "18:00"), 3))
	}
	assert.ErrorIs(t, s.CreateWithinCapacity(ctx, newBooking("2024-05-01", "18:00"), 3), ErrSlotFull)

	// another slot is unaffected
	require.NoError(t, s.CreateWithinCapacity(ctx, newBooking("2024-05-01", "18:30"), 3))

	// cancelling frees a place
	require.NoError(t, s.UpdateStatus(ctx, 1, model.StatusCancelled, time.Now()))
	require.NoError(t, s.CreateWithinCapacity(ctx, newBooking("2024-05-01", "18:00"), 3))
}

func TestMemoryBookingStore_ConcurrentBookingsRespectCapacity(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryBookingStore()

	const capacity = 12
	var wg sync.WaitGroup
	var mu sync.Mutex
	accepted, rejected := 0, 0
	for i := 0; i < 40; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.CreateWithinCapacity(ctx, newBooking("2024-05-01", "18:00"), capacity)
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				accepted++
			} else {
				assert.ErrorIs(t, err, ErrSlotFull)
				rejected++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, capacity, accepted)
	assert.Equal(t, 40-capacity, rejected)
}

func TestFilterClause(t *testing.T) {
	cond, args := filterClause(booking.Filter{})
	assert.Equal(t, "1=1", cond)
	assert.Empty(t, args)

	cond, args = filterClause(booking.Filter{
		Status:     model.StatusPending,
		LocationID: 3,
		DateFrom:   "2024-05-01",
		DateTo:     "2024-05-31",
		Search:     " 50%_Off ",
	})
	assert.Equal(t, "status = ? AND location_id = ? AND booking_date >= ? AND booking_date <= ? AND "+
		"LOWER(CONCAT_WS(' ', customer_name, customer_email, customer_phone)) LIKE ? ESCAPE '!'", cond)
	assert.Equal(t, []any{"pending", uint64(3), "2024-05-01", "2024-05-31", "%50!%!_off%"}, args)
}
