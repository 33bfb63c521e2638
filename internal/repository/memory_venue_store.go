package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/iliyamo/restaurant-booking/internal/model"
)

// MemoryLocationStore is the in-process counterpart of LocationRepo.
type MemoryLocationStore struct {
	mu     sync.RWMutex
	rows   map[uint64]model.Location
	lastID uint64
	now    func() time.Time
}

func NewMemoryLocationStore() *MemoryLocationStore {
	return &MemoryLocationStore{rows: make(map[uint64]model.Location), now: time.Now}
}

func (s *MemoryLocationStore) Create(_ context.Context, l *model.Location) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastID++
	l.ID = s.lastID
	l.CreatedAt = s.now().UTC()
	l.UpdatedAt = l.CreatedAt
	s.rows[l.ID] = *l
	return nil
}

func (s *MemoryLocationStore) Get(_ context.Context, id uint64) (*model.Location, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.rows[id]
	if !ok {
		return nil, ErrLocationNotFound
	}
	return &l, nil
}

func (s *MemoryLocationStore) List(_ context.Context, activeOnly bool) ([]model.Location, error) {
	s.mu.RLock()
	out := make([]model.Location, 0, len(s.rows))
	for _, l := range s.rows {
		if activeOnly && l.Status != model.LocationActive {
			continue
		}
		out = append(out, l)
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

func (s *MemoryLocationStore) Update(_ context.Context, l *model.Location) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	old, ok := s.rows[l.ID]
	if !ok {
		return ErrLocationNotFound
	}
	l.CreatedAt = old.CreatedAt
	l.UpdatedAt = s.now().UTC()
	s.rows[l.ID] = *l
	return nil
}

func (s *MemoryLocationStore) Delete(_ context.Context, id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[id]; !ok {
		return ErrLocationNotFound
	}
	delete(s.rows, id)
	return nil
}

// MemoryTableStore is the in-process counterpart of TableRepo.
type MemoryTableStore struct {
	mu     sync.RWMutex
	rows   map[uint64]model.Table
	lastID uint64
}

func NewMemoryTableStore() *MemoryTableStore {
	return &MemoryTableStore{rows: make(map[uint64]model.Table)}
}

func (s *MemoryTableStore) ListByLocation(_ context.Context, locationID uint64) ([]model.Table, error) {
	s.mu.RLock()
	out := make([]model.Table, 0)
	for _, t := range s.rows {
		if t.LocationID == locationID {
			out = append(out, t)
		}
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if out[i].Label != out[j].Label {
			return out[i].Label < out[j].Label
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *MemoryTableStore) CountByLocation(ctx context.Context, locationID uint64) (int, error) {
	ts, err := s.ListByLocation(ctx, locationID)
	return len(ts), err
}

// SaveLayout replaces the tables of a location atomically.
func (s *MemoryTableStore) SaveLayout(_ context.Context, locationID uint64, tables []model.Table) ([]model.Table, error) {
	seen := map[string]bool{}
	ids := map[uint64]bool{}
	for _, t := range tables {
		k := strings.ToLower(t.Label)
		if seen[k] || (t.ID != 0 && ids[t.ID]) {
			return nil, ErrConflict
		}
		seen[k] = true
		ids[t.ID] = true
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	owned := map[uint64]bool{}
	for id, t := range s.rows {
		if t.LocationID == locationID {
			owned[id] = true
			delete(s.rows, id)
		}
	}
	out := make([]model.Table, 0, len(tables))
	for _, t := range tables {
		t.LocationID = locationID
		if !owned[t.ID] {
			s.lastID++
			t.ID = s.lastID
		}
		s.rows[t.ID] = t
		out = append(out, t)
	}
	return out, nil
}

func (s *MemoryTableStore) UpdateStatus(_ context.Context, id uint64, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.rows[id]
	if !ok {
		return ErrTableNotFound
	}
	t.Status = status
	s.rows[id] = t
	return nil
}
