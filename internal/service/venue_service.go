package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/iliyamo/restaurant-booking/internal/booking"
	"github.com/iliyamo/restaurant-booking/internal/model"
)

// LocationInput is the body of location create and update requests.
type LocationInput struct {
	Name     string `json:"name"`
	Address  string `json:"address"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	Capacity int    `json:"capacity"`
	Status   string `json:"status"`
}

// VenueService manages locations and their floor plans.
type VenueService struct {
	locations       LocationStore
	tables          TableStore
	defaultCapacity int
}

func NewVenueService(locations LocationStore, tables TableStore, defaultCapacity int) *VenueService {
	return &VenueService{locations: locations, tables: tables, defaultCapacity: defaultCapacity}
}

func (s *VenueService) toLocation(in LocationInput) (*model.Location, error) {
	l := &model.Location{
		Name:     strings.TrimSpace(in.Name),
		Address:  strings.TrimSpace(in.Address),
		Phone:    strings.TrimSpace(in.Phone),
		Email:    strings.ToLower(strings.TrimSpace(in.Email)),
		Capacity: in.Capacity,
		Status:   strings.ToLower(strings.TrimSpace(in.Status)),
	}
	if l.Name == "" {
		return nil, booking.Invalid("name", "is required")
	}
	if l.Capacity < 0 {
		return nil, booking.Invalid("capacity", "must not be negative")
	}
	if l.Capacity == 0 {
		l.Capacity = s.defaultCapacity
	}
	if l.Status == "" {
		l.Status = model.LocationActive
	}
	if !model.ValidLocationStatus(l.Status) {
		return nil, &booking.ValidationError{Field: "status", Value: in.Status, Msg: "must be active, inactive or private"}
	}
	return l, nil
}

func (s *VenueService) CreateLocation(ctx context.Context, in LocationInput) (*model.Location, error) {
	l, err := s.toLocation(in)
	if err != nil {
		return nil, err
	}
	if err := s.locations.Create(ctx, l); err != nil {
		return nil, fmt.Errorf("create location: %w", err)
	}
	return l, nil
}

func (s *VenueService) UpdateLocation(ctx context.Context, id uint64, in LocationInput) (*model.Location, error) {
	l, err := s.toLocation(in)
	if err != nil {
		return nil, err
	}
	l.ID = id
	if err := s.locations.Update(ctx, l); err != nil {
		return nil, err
	}
	return s.locations.Get(ctx, id)
}

func (s *VenueService) DeleteLocation(ctx context.Context, id uint64) error {
	return s.locations.Delete(ctx, id)
}

func (s *VenueService) GetLocation(ctx context.Context, id uint64) (*model.Location, error) {
	return s.locations.Get(ctx, id)
}

// ListLocations returns every location, or only active ones for guests.
func (s *VenueService) ListLocations(ctx context.Context, activeOnly bool) ([]model.Location, error) {
	return s.locations.List(ctx, activeOnly)
}

// EnsureDefaultLocation creates a location when none exists and returns
// the full list.
func (s *VenueService) EnsureDefaultLocation(ctx context.Context, name string) ([]model.Location, error) {
	ls, err := s.locations.List(ctx, false)
	if err != nil || len(ls) > 0 {
		return ls, err
	}
	if _, err := s.CreateLocation(ctx, LocationInput{Name: name}); err != nil {
		return nil, err
	}
	return s.locations.List(ctx, false)
}

func (s *VenueService) Tables(ctx context.Context, locationID uint64) ([]model.Table, error) {
	if _, err := s.locations.Get(ctx, locationID); err != nil {
		return nil, err
	}
	return s.tables.ListByLocation(ctx, locationID)
}

// ParseLayout decodes a floor plan sent either as a bare array of tables
// or as {"tables": [...]}.
func ParseLayout(raw []byte) ([]model.Table, error) {
	var tables []model.Table
	if err := json.Unmarshal(raw, &tables); err == nil {
		return tables, nil
	}
	var wrapped struct {
		Tables *[]model.Table `json:"tables"`
	}
	if err := json.Unmarshal(raw, &wrapped); err != nil || wrapped.Tables == nil {
		return nil, booking.Invalid("layout", "malformed layout payload")
	}
	return *wrapped.Tables, nil
}

// ValidateLayout checks a floor plan and fills default shape and status.
// Labels must be unique per location regardless of case.
func ValidateLayout(tables []model.Table) ([]model.Table, error) {
	out := make([]model.Table, 0, len(tables))
	seen := make(map[string]bool, len(tables))
	ids := make(map[uint64]bool, len(tables))
	for i, t := range tables {
		t.Label = strings.TrimSpace(t.Label)
		field := fmt.Sprintf("tables[%d]", i)
		switch {
		case t.Label == "":
			return nil, booking.Invalid(field+".label", "is required")
		case seen[strings.ToLower(t.Label)]:
			return nil, &booking.ValidationError{Field: field + ".label", Value: t.Label, Msg: "is used twice"}
		case t.ID != 0 && ids[t.ID]:
			return nil, &booking.ValidationError{Field: field + ".id", Value: fmt.Sprint(t.ID), Msg: "is used twice"}
		case t.Capacity <= 0:
			return nil, booking.Invalid(field+".capacity", "must be positive")
		case t.Width <= 0 || t.Height <= 0:
			return nil, booking.Invalid(field+".size", "width and height must be positive")
		}
		seen[strings.ToLower(t.Label)] = true
		if t.ID != 0 {
			ids[t.ID] = true
		}

		if t.Shape == "" {
			t.Shape = model.ShapeSquare
		}
		if !model.ValidTableShape(t.Shape) {
			return nil, &booking.ValidationError{Field: field + ".shape", Value: t.Shape, Msg: "unknown shape"}
		}
		if t.Status == "" {
			t.Status = model.TableAvailable
		}
		if !model.ValidTableStatus(t.Status) {
			return nil, &booking.ValidationError{Field: field + ".status", Value: t.Status, Msg: "unknown status"}
		}
		out = append(out, t)
	}
	return out, nil
}

// SaveLayout validates tables and replaces the floor plan of a location.
func (s *VenueService) SaveLayout(ctx context.Context, locationID uint64, tables []model.Table) ([]model.Table, error) {
	if _, err := s.locations.Get(ctx, locationID); err != nil {
		return nil, err
	}
	valid, err := ValidateLayout(tables)
	if err != nil {
		return nil, err
	}
	return s.tables.SaveLayout(ctx, locationID, valid)
}

func (s *VenueService) UpdateTableStatus(ctx context.Context, id uint64, status string) error {
	status = strings.ToLower(strings.TrimSpace(status))
	if !model.ValidTableStatus(status) {
		return &booking.ValidationError{Field: "status", Value: status, Msg: "unknown status"}
	}
	return s.tables.UpdateStatus(ctx, id, status)
}
