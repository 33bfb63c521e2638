package service

import (
	"context"
	"fmt"
	"time"

	"github.com/iliyamo/restaurant-booking/internal/booking"
	"github.com/iliyamo/restaurant-booking/internal/config"
)

// AnalyticsService builds the dashboard cards and trend charts.
type AnalyticsService struct {
	store    BookingStore
	currency string
	tz       *time.Location
	now      func() time.Time
}

func NewAnalyticsService(store BookingStore, cfg config.BookingConfig) *AnalyticsService {
	tz := cfg.Timezone
	if tz == nil {
		tz = time.UTC
	}
	return &AnalyticsService{store: store, currency: cfg.Currency, tz: tz, now: time.Now}
}

// Dashboard compares the period ending today with the period before it.
// locationID 0 covers every location.
func (a *AnalyticsService) Dashboard(ctx context.Context, period string, locationID uint64) (*booking.Dashboard, error) {
	days := booking.ParsePeriod(period)
	end := a.now().In(a.tz)
	from, to := booking.Window(end, days)
	prevFrom, prevTo := booking.Window(end.AddDate(0, 0, -days), days)

	all, err := a.store.Find(ctx, booking.Filter{LocationID: locationID, DateFrom: prevFrom, DateTo: to})
	if err != nil {
		return nil, fmt.Errorf("find bookings: %w", err)
	}
	current := booking.Apply(all, booking.Filter{DateFrom: from, DateTo: to})
	previous := booking.Apply(all, booking.Filter{DateFrom: prevFrom, DateTo: prevTo})

	d := booking.BuildDashboard(current, previous, a.currency)
	d.Period, d.From, d.To = days, from, to
	return &d, nil
}

// Trends returns daily bookings, guests and revenue for the period ending
// today.
func (a *AnalyticsService) Trends(ctx context.Context, period string, locationID uint64) (*booking.TrendSeries, error) {
	days := booking.ParsePeriod(period)
	end := a.now().In(a.tz)
	from, to := booking.Window(end, days)
	bs, err := a.store.Find(ctx, booking.Filter{LocationID: locationID, DateFrom: from, DateTo: to})
	if err != nil {
		return nil, fmt.Errorf("find bookings: %w", err)
	}
	ts := booking.BuildTrend(bs, end, days)
	return &ts, nil
}
