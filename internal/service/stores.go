// Package service holds the application services. Each one is built once
// in main with its collaborators passed in explicitly.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/iliyamo/restaurant-booking/internal/booking"
	"github.com/iliyamo/restaurant-booking/internal/model"
	"github.com/iliyamo/restaurant-booking/internal/repository"
)

// BookingStore is satisfied by repository.BookingRepo and
// repository.MemoryBookingStore.
type BookingStore interface {
	Create(ctx context.Context, b *model.Booking) error
	CreateWithinCapacity(ctx context.Context, b *model.Booking, slotCapacity int) error
	Get(ctx context.Context, id uint64) (*model.Booking, error)
	Exists(ctx context.Context, id uint64) (bool, error)
	UpdateStatus(ctx context.Context, id uint64, status model.BookingStatus, at time.Time) error
	Delete(ctx context.Context, id uint64) error
	Find(ctx context.Context, f booking.Filter) ([]model.Booking, error)
	Count(ctx context.Context) (int, error)
}

type LocationStore interface {
	Create(ctx context.Context, l *model.Location) error
	Get(ctx context.Context, id uint64) (*model.Location, error)
	List(ctx context.Context, activeOnly bool) ([]model.Location, error)
	Update(ctx context.Context, l *model.Location) error
	Delete(ctx context.Context, id uint64) error
}

type TableStore interface {
	ListByLocation(ctx context.Context, locationID uint64) ([]model.Table, error)
	CountByLocation(ctx context.Context, locationID uint64) (int, error)
	SaveLayout(ctx context.Context, locationID uint64, tables []model.Table) ([]model.Table, error)
	UpdateStatus(ctx context.Context, id uint64, status string) error
}

type CustomerStore interface {
	List(ctx context.Context) ([]model.Customer, error)
	Get(ctx context.Context, id uint64) (*model.Customer, error)
	Upsert(ctx context.Context, c *model.Customer) error
	UpdateProfile(ctx context.Context, c *model.Customer) error
}

// VenueInfo is what the booking core needs to know about a location.
// Known is false when the location store has no such row; an unknown
// location still gets the default capacity.
type VenueInfo struct {
	Name     string
	Capacity int
	Active   bool
	Known    bool
}

// Venue resolves locations and their table counts for the booking core.
type Venue interface {
	Location(ctx context.Context, id uint64) (VenueInfo, error)
	TableCount(ctx context.Context, locationID uint64) (int, error)
}

// NewVenue returns a Venue backed by the given stores. Either store may be
// nil: without a location store every id is a known, unnamed, active venue
// of defaultCapacity seats, and without a table store it has no tables.
func NewVenue(locations LocationStore, tables TableStore, defaultCapacity int) Venue {
	return storeVenue{locations: locations, tables: tables, defaultCapacity: defaultCapacity}
}

type storeVenue struct {
	locations       LocationStore
	tables          TableStore
	defaultCapacity int
}

func (v storeVenue) Location(ctx context.Context, id uint64) (VenueInfo, error) {
	fallback := VenueInfo{Capacity: v.defaultCapacity, Active: true}
	if v.locations == nil {
		fallback.Known = true
		return fallback, nil
	}
	l, err := v.locations.Get(ctx, id)
	if errors.Is(err, repository.ErrLocationNotFound) {
		return fallback, nil
	}
	if err != nil {
		return VenueInfo{}, err
	}
	info := VenueInfo{Name: l.Name, Capacity: l.Capacity, Active: l.Status == model.LocationActive, Known: true}
	if info.Capacity <= 0 {
		info.Capacity = v.defaultCapacity
	}
	return info, nil
}

func (v storeVenue) TableCount(ctx context.Context, locationID uint64) (int, error) {
	if v.tables == nil {
		return 0, nil
	}
	return v.tables.CountByLocation(ctx, locationID)
}
