package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/iliyamo/restaurant-booking/internal/booking"
	"github.com/iliyamo/restaurant-booking/internal/model"
)

// MemoryBookingStore keeps bookings in process memory. It is the fallback
// store used when no database is provisioned. Every operation works on a
// single row under one mutex, so concurrent writers never lose updates and
// the capacity check of CreateWithinCapacity is atomic with its insert.
// Ids come from a counter that only grows, so a deleted id is never
// handed out again.
type MemoryBookingStore struct {
	mu     sync.RWMutex
	rows   map[uint64]model.Booking
	lastID uint64
}

func NewMemoryBookingStore() *MemoryBookingStore {
	return &MemoryBookingStore{rows: make(map[uint64]model.Booking)}
}

func (s *MemoryBookingStore) insertLocked(b *model.Booking) {
	s.lastID++
	b.ID = s.lastID
	s.rows[b.ID] = *b
}

// Create stores b and assigns its id.
func (s *MemoryBookingStore) Create(_ context.Context, b *model.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.insertLocked(b)
	return nil
}

// CreateWithinCapacity stores b only if its slot holds fewer than
// slotCapacity active bookings; otherwise it returns ErrSlotFull.
func (s *MemoryBookingStore) CreateWithinCapacity(_ context.Context, b *model.Booking, slotCapacity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	taken := 0
	for _, r := range s.rows {
		if r.Active() && r.LocationID == b.LocationID && r.BookingDate == b.BookingDate && r.BookingTime == b.BookingTime {
			taken++
		}
	}
	if taken >= slotCapacity {
		return ErrSlotFull
	}
	s.insertLocked(b)
	return nil
}

// Get returns a copy of the booking with id.
func (s *MemoryBookingStore) Get(_ context.Context, id uint64) (*model.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.rows[id]
	if !ok {
		return nil, ErrBookingNotFound
	}
	return &b, nil
}

func (s *MemoryBookingStore) Exists(_ context.Context, id uint64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.rows[id]
	return ok, nil
}

func (s *MemoryBookingStore) UpdateStatus(_ context.Context, id uint64, status model.BookingStatus, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.rows[id]
	if !ok {
		return ErrBookingNotFound
	}
	b.Status = status
	b.UpdatedAt = at
	s.rows[id] = b
	return nil
}

func (s *MemoryBookingStore) Delete(_ context.Context, id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[id]; !ok {
		return ErrBookingNotFound
	}
	delete(s.rows, id)
	return nil
}

// Find returns the bookings matching f ordered by id.
func (s *MemoryBookingStore) Find(_ context.Context, f booking.Filter) ([]model.Booking, error) {
	s.mu.RLock()
	out := make([]model.Booking, 0, len(s.rows))
	for _, b := range s.rows {
		if f.Match(b) {
			out = append(out, b)
		}
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryBookingStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rows), nil
}
