package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/iliyamo/restaurant-booking/internal/booking"
	"github.com/iliyamo/restaurant-booking/internal/model"
)

// CustomerUpdate carries the staff-maintained fields. Nil fields are left
// unchanged.
type CustomerUpdate struct {
	Status      *string   `json:"status"`
	Notes       *string   `json:"notes"`
	Preferences *[]string `json:"preferences"`
	Tags        *[]string `json:"tags"`
}

// CustomerService keeps guest profiles in step with booking history.
type CustomerService struct {
	customers CustomerStore
	bookings  BookingStore
}

func NewCustomerService(customers CustomerStore, bookings BookingStore) *CustomerService {
	return &CustomerService{customers: customers, bookings: bookings}
}

// Rebuild recomputes every profile from the bookings, keeping status,
// notes, preferences and tags of profiles that already exist. It returns
// the number of profiles written.
func (s *CustomerService) Rebuild(ctx context.Context) (int, error) {
	bs, err := s.bookings.Find(ctx, booking.Filter{})
	if err != nil {
		return 0, fmt.Errorf("find bookings: %w", err)
	}
	existing, err := s.customers.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list customers: %w", err)
	}
	byKey := make(map[string]model.Customer, len(existing))
	for _, c := range existing {
		byKey[booking.ProfileKey(c)] = c
	}

	n := 0
	for _, derived := range booking.BuildProfiles(bs) {
		c := derived
		if old, ok := byKey[booking.ProfileKey(derived)]; ok {
			c = booking.MergeProfile(old, derived)
		}
		if err := s.customers.Upsert(ctx, &c); err != nil {
			return n, fmt.Errorf("upsert customer: %w", err)
		}
		n++
	}
	return n, nil
}

func (s *CustomerService) List(ctx context.Context, f booking.CustomerFilter) ([]model.Customer, error) {
	all, err := s.customers.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.Customer, 0, len(all))
	for _, c := range all {
		if f.Match(c) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *CustomerService) Get(ctx context.Context, id uint64) (*model.Customer, error) {
	return s.customers.Get(ctx, id)
}

// Update changes the staff-maintained fields of a profile.
func (s *CustomerService) Update(ctx context.Context, id uint64, u CustomerUpdate) (*model.Customer, error) {
	c, err := s.customers.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if u.Status != nil {
		st := strings.ToLower(strings.TrimSpace(*u.Status))
		if !model.ValidCustomerStatus(st) {
			return nil, &booking.ValidationError{Field: "status", Value: *u.Status, Msg: "must be regular, vip or blacklist"}
		}
		c.Status = st
	}
	if u.Notes != nil {
		c.Notes = strings.TrimSpace(*u.Notes)
	}
	if u.Preferences != nil {
		c.Preferences = cleanList(*u.Preferences)
	}
	if u.Tags != nil {
		c.Tags = cleanList(*u.Tags)
	}
	if err := s.customers.UpdateProfile(ctx, c); err != nil {
		return nil, err
	}
	return s.customers.Get(ctx, id)
}

// cleanList trims entries and drops empty and repeated ones.
func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" || seen[strings.ToLower(v)] {
			continue
		}
		seen[strings.ToLower(v)] = true
		out = append(out, v)
	}
	return out
}
