package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/iliyamo/restaurant-booking/internal/booking"
	"github.com/iliyamo/restaurant-booking/internal/model"
)

// MemoryCustomerStore is the in-process counterpart of CustomerRepo.
type MemoryCustomerStore struct {
	mu     sync.RWMutex
	rows   map[uint64]model.Customer
	byKey  map[string]uint64
	lastID uint64
}

func NewMemoryCustomerStore() *MemoryCustomerStore {
	return &MemoryCustomerStore{rows: make(map[uint64]model.Customer), byKey: make(map[string]uint64)}
}

func (s *MemoryCustomerStore) List(_ context.Context) ([]model.Customer, error) {
	s.mu.RLock()
	out := make([]model.Customer, 0, len(s.rows))
	for _, c := range s.rows {
		out = append(out, c)
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *MemoryCustomerStore) Get(_ context.Context, id uint64) (*model.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.rows[id]
	if !ok {
		return nil, ErrCustomerNotFound
	}
	return &c, nil
}

func (s *MemoryCustomerStore) Upsert(_ context.Context, c *model.Customer) error {
	key := booking.ProfileKey(*c)
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.byKey[key]
	if !ok {
		s.lastID++
		id = s.lastID
		s.byKey[key] = id
	}
	c.ID = id
	c.UpdatedAt = time.Now().UTC()
	s.rows[id] = *c
	return nil
}

func (s *MemoryCustomerStore) UpdateProfile(_ context.Context, c *model.Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.rows[c.ID]
	if !ok {
		return ErrCustomerNotFound
	}
	cur.Status = c.Status
	cur.Notes = c.Notes
	cur.Preferences = c.Preferences
	cur.Tags = c.Tags
	cur.UpdatedAt = time.Now().UTC()
	s.rows[c.ID] = cur
	return nil
}
