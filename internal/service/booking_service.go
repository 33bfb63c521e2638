package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/restaurant-booking/internal/booking"
	"github.com/iliyamo/restaurant-booking/internal/config"
	"github.com/iliyamo/restaurant-booking/internal/model"
	"github.com/iliyamo/restaurant-booking/internal/queue"
	"github.com/iliyamo/restaurant-booking/internal/repository"
)

// ErrLocationClosed is returned when a guest books an inactive location.
var ErrLocationClosed = errors.New("location is not accepting bookings")

// SlotFullError reports a rejected public booking together with the
// availability of its date, so the caller can offer alternatives.
type SlotFullError struct {
	Availability booking.SlotAvailability
}

func (e *SlotFullError) Error() string { return repository.ErrSlotFull.Error() }
func (e *SlotFullError) Unwrap() error { return repository.ErrSlotFull }

// BookingInput is the payload accepted by Add and Book. The guest name is
// either CustomerName or FirstName and LastName joined.
type BookingInput struct {
	FirstName       string  `json:"first_name"`
	LastName        string  `json:"last_name"`
	CustomerName    string  `json:"customer_name"`
	Email           string  `json:"email"`
	Phone           string  `json:"phone"`
	Date            string  `json:"date"`
	Time            string  `json:"time"`
	PartySize       int     `json:"party_size"`
	LocationID      uint64  `json:"location_id"`
	TableNumber     string  `json:"table_number"`
	SpecialRequests string  `json:"special_requests"`
	TotalAmount     float64 `json:"total_amount"`
	Source          string  `json:"source"`
}

func (in BookingInput) name() string {
	if n := strings.TrimSpace(in.CustomerName); n != "" {
		return n
	}
	return strings.TrimSpace(strings.TrimSpace(in.FirstName) + " " + strings.TrimSpace(in.LastName))
}

// ListQuery is a filtered, sorted and paginated booking list request.
type ListQuery = booking.Query

// BulkError is the failure of one item of a bulk operation.
type BulkError struct {
	ID      uint64 `json:"id"`
	Message string `json:"message"`
}

// BulkResult reports a bulk operation. Items that succeeded stay applied
// whatever happened to the others.
type BulkResult struct {
	SuccessCount int         `json:"success_count"`
	Errors       []BulkError `json:"errors"`
}

func (r *BulkResult) fail(id uint64, msg string) {
	r.Errors = append(r.Errors, BulkError{ID: id, Message: msg})
}

// BookingService is the booking core: lifecycle, listing, calendar,
// availability and per-location statistics.
type BookingService struct {
	store     BookingStore
	venue     Venue
	publisher Publisher
	cfg       config.BookingConfig
	now       func() time.Time
}

func NewBookingService(store BookingStore, venue Venue, publisher Publisher, cfg config.BookingConfig) *BookingService {
	if publisher == nil {
		publisher = NoopPublisher{}
	}
	if cfg.Timezone == nil {
		cfg.Timezone = time.UTC
	}
	cfg.Slots = cfg.Slots.WithDefaults()
	return &BookingService{store: store, venue: venue, publisher: publisher, cfg: cfg, now: time.Now}
}

// Today is the current time in the booking timezone.
func (s *BookingService) Today() time.Time { return s.now().In(s.cfg.Timezone) }

func (s *BookingService) normalizer() booking.Normalizer {
	return booking.Normalizer{Strict: s.cfg.StrictInput, DefaultTime: s.cfg.DefaultTime, Now: s.Today}
}

func (s *BookingService) build(ctx context.Context, in BookingInput) (*model.Booking, VenueInfo, error) {
	n := s.normalizer()
	date, err := n.Date(in.Date)
	if err != nil {
		return nil, VenueInfo{}, err
	}
	at, err := n.Time(in.Time)
	if err != nil {
		return nil, VenueInfo{}, err
	}
	if snapped, onGrid := s.cfg.Slots.Snap(at); !onGrid {
		if s.cfg.StrictInput {
			return nil, VenueInfo{}, &booking.ValidationError{Field: "time", Value: in.Time, Msg: "is not on the slot grid"}
		}
		at = snapped
	}
	if in.PartySize <= 0 {
		return nil, VenueInfo{}, booking.Invalid("party_size", "must be a positive integer")
	}
	if in.TotalAmount < 0 {
		return nil, VenueInfo{}, booking.Invalid("total_amount", "must not be negative")
	}
	info, err := s.venue.Location(ctx, in.LocationID)
	if err != nil {
		return nil, VenueInfo{}, fmt.Errorf("resolve location: %w", err)
	}

	source := strings.TrimSpace(in.Source)
	if source == "" {
		source = model.SourcePortal
	}
	ts := s.now().UTC()
	return &model.Booking{
		Reference:       uuid.NewString(),
		Status:          model.StatusPending,
		BookingDate:     date,
		BookingTime:     at,
		PartySize:       in.PartySize,
		LocationID:      in.LocationID,
		LocationName:    info.Name,
		TableNumber:     strings.TrimSpace(in.TableNumber),
		CustomerName:    in.name(),
		CustomerEmail:   strings.ToLower(strings.TrimSpace(in.Email)),
		CustomerPhone:   strings.TrimSpace(in.Phone),
		SpecialRequests: strings.TrimSpace(in.SpecialRequests),
		TotalAmount:     booking.Round2(in.TotalAmount),
		Source:          source,
		CreatedAt:       ts,
		UpdatedAt:       ts,
	}, info, nil
}

// Add stores a new pending booking. It is the staff path and does not
// check slot capacity.
func (s *BookingService) Add(ctx context.Context, in BookingInput) (*model.Booking, error) {
	b, _, err := s.build(ctx, in)
	if err != nil {
		return nil, err
	}
	if err := s.store.Create(ctx, b); err != nil {
		return nil, fmt.Errorf("create booking: %w", err)
	}
	s.publish(ctx, queue.EventCreated, *b, "")
	return b, nil
}

// Book is the guest path. The time must be a slot of the booking window,
// the date must not be in the past, and the slot's capacity is enforced
// atomically with the insert.
func (s *BookingService) Book(ctx context.Context, in BookingInput) (*model.Booking, error) {
	if strings.TrimSpace(in.Source) == "" {
		in.Source = model.SourceWidget
	}
	b, info, err := s.build(ctx, in)
	if err != nil {
		return nil, err
	}
	if b.CustomerName == "" {
		return nil, booking.Invalid("customer_name", "is required")
	}
	if b.CustomerEmail == "" && b.CustomerPhone == "" {
		return nil, booking.Invalid("email", "an e-mail address or phone number is required")
	}
	if !info.Known {
		return nil, repository.ErrLocationNotFound
	}
	if !info.Active {
		return nil, ErrLocationClosed
	}
	if b.BookingDate < s.Today().Format(booking.DateLayout) {
		return nil, booking.Invalid("date", "must not be in the past")
	}
	if !s.cfg.Slots.Contains(b.BookingTime) {
		return nil, booking.Invalid("time", "is not a bookable slot")
	}

	capacity := booking.SlotCapacity(info.Capacity, b.PartySize, s.cfg.Slots.MinParties)
	if err := s.store.CreateWithinCapacity(ctx, b, capacity); err != nil {
		if errors.Is(err, repository.ErrSlotFull) {
			av, aerr := s.GetTimeSlots(ctx, b.LocationID, b.BookingDate, b.PartySize, b.BookingTime)
			if aerr != nil {
				return nil, err
			}
			return nil, &SlotFullError{Availability: *av}
		}
		return nil, fmt.Errorf("create booking: %w", err)
	}
	s.publish(ctx, queue.EventCreated, *b, "")
	return b, nil
}

// Get returns nil without error when id is unknown.
func (s *BookingService) Get(ctx context.Context, id uint64) (*model.Booking, error) {
	b, err := s.store.Get(ctx, id)
	if errors.Is(err, repository.ErrBookingNotFound) {
		return nil, nil
	}
	return b, err
}

func (s *BookingService) Exists(ctx context.Context, id uint64) (bool, error) {
	return s.store.Exists(ctx, id)
}

// UpdateStatus reports false when id is unknown.
func (s *BookingService) UpdateStatus(ctx context.Context, id uint64, status model.BookingStatus) (bool, error) {
	if !status.Valid() {
		return false, &booking.ValidationError{Field: "status", Value: string(status), Msg: "unknown status"}
	}
	prev, err := s.Get(ctx, id)
	if err != nil || prev == nil {
		return false, err
	}
	at := s.now().UTC()
	if err := s.store.UpdateStatus(ctx, id, status, at); err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("update status: %w", err)
	}
	if prev.Status != status {
		cur := *prev
		cur.Status = status
		cur.UpdatedAt = at
		s.publish(ctx, queue.EventStatusChanged, cur, prev.Status)
	}
	return true, nil
}

func (s *BookingService) Confirm(ctx context.Context, id uint64) (bool, error) {
	return s.UpdateStatus(ctx, id, model.StatusConfirmed)
}

func (s *BookingService) Cancel(ctx context.Context, id uint64) (bool, error) {
	return s.UpdateStatus(ctx, id, model.StatusCancelled)
}

func (s *BookingService) Complete(ctx context.Context, id uint64) (bool, error) {
	return s.UpdateStatus(ctx, id, model.StatusCompleted)
}

// Delete removes the booking permanently. It reports false when id is
// unknown.
func (s *BookingService) Delete(ctx context.Context, id uint64) (bool, error) {
	err := s.store.Delete(ctx, id)
	if errors.Is(err, repository.ErrBookingNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("delete booking: %w", err)
	}
	return true, nil
}

// GetBookings runs a list query. The summary spans every status.
func (s *BookingService) GetBookings(ctx context.Context, q ListQuery) (*booking.Result, error) {
	all, err := s.store.Find(ctx, q.Filter.WithoutStatus())
	if err != nil {
		return nil, fmt.Errorf("find bookings: %w", err)
	}
	res := booking.Run(all, q)
	return &res, nil
}

// GetCalendarData groups the month's bookings matching f by date. Date
// bounds in f narrow the month further.
func (s *BookingService) GetCalendarData(ctx context.Context, month, year int, f booking.Filter) (map[string]booking.CalendarDay, error) {
	from, to, err := booking.MonthRange(month, year)
	if err != nil {
		return nil, err
	}
	if f.DateFrom < from {
		f.DateFrom = from
	}
	if f.DateTo == "" || f.DateTo > to {
		f.DateTo = to
	}
	bs, err := s.store.Find(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("find bookings: %w", err)
	}
	return booking.GroupByDate(bs), nil
}

// GetTimeSlots computes the availability of a location on date for a
// party. requested is optional; an unparseable one is ignored.
func (s *BookingService) GetTimeSlots(ctx context.Context, locationID uint64, date string, partySize int, requested string) (*booking.SlotAvailability, error) {
	d, err := s.normalizer().Date(date)
	if err != nil {
		return nil, err
	}
	if partySize <= 0 {
		partySize = 2
	}
	req := ""
	if strings.TrimSpace(requested) != "" {
		if t, ok := booking.ParseTime(requested); ok {
			req = t
		} else if s.cfg.StrictInput {
			return nil, &booking.ValidationError{Field: "time", Value: requested, Msg: "unrecognized time"}
		}
	}
	info, err := s.venue.Location(ctx, locationID)
	if err != nil {
		return nil, fmt.Errorf("resolve location: %w", err)
	}
	bs, err := s.store.Find(ctx, booking.Filter{LocationID: locationID, DateFrom: d, DateTo: d})
	if err != nil {
		return nil, fmt.Errorf("find bookings: %w", err)
	}
	av := booking.GenerateSlots(d, bs, info.Capacity, partySize, req, s.cfg.Slots)
	return &av, nil
}

// GetLocationStats aggregates one location's bookings on date.
func (s *BookingService) GetLocationStats(ctx context.Context, locationID uint64, date string) (*booking.LocationStats, error) {
	d, err := s.normalizer().Date(date)
	if err != nil {
		return nil, err
	}
	bs, err := s.store.Find(ctx, booking.Filter{LocationID: locationID, DateFrom: d, DateTo: d})
	if err != nil {
		return nil, fmt.Errorf("find bookings: %w", err)
	}
	tables, err := s.venue.TableCount(ctx, locationID)
	if err != nil {
		return nil, fmt.Errorf("count tables: %w", err)
	}
	st := booking.ComputeLocationStats(bs, tables, s.cfg.Currency)
	st.Date = d
	st.LocationID = locationID
	return &st, nil
}

// BulkUpdateStatus applies status to each id independently.
func (s *BookingService) BulkUpdateStatus(ctx context.Context, ids []uint64, status model.BookingStatus) (BulkResult, error) {
	res := BulkResult{Errors: []BulkError{}}
	if !status.Valid() {
		return res, &booking.ValidationError{Field: "status", Value: string(status), Msg: "unknown status"}
	}
	for _, id := range ids {
		ok, err := s.UpdateStatus(ctx, id, status)
		switch {
		case err != nil:
			res.fail(id, err.Error())
		case !ok:
			res.fail(id, repository.ErrBookingNotFound.Error())
		default:
			res.SuccessCount++
		}
	}
	return res, nil
}

// BulkSendReminders queues a reminder for each id that has an e-mail
// address and is not cancelled.
func (s *BookingService) BulkSendReminders(ctx context.Context, ids []uint64) BulkResult {
	res := BulkResult{Errors: []BulkError{}}
	for _, id := range ids {
		b, err := s.Get(ctx, id)
		switch {
		case err != nil:
			res.fail(id, err.Error())
			continue
		case b == nil:
			res.fail(id, repository.ErrBookingNotFound.Error())
			continue
		case b.Status == model.StatusCancelled:
			res.fail(id, "booking is cancelled")
			continue
		case b.CustomerEmail == "":
			res.fail(id, "booking has no e-mail address")
			continue
		}
		ev := queue.NewBookingEvent(queue.EventReminder, *b, "", s.now())
		if err := s.publisher.Publish(ctx, ev); err != nil {
			res.fail(id, "reminder not queued: "+err.Error())
			continue
		}
		res.SuccessCount++
	}
	return res
}

// SeedDemo fills an empty store with demo bookings for locations and
// returns how many were created.
func (s *BookingService) SeedDemo(ctx context.Context, locations []model.Location) (int, error) {
	n, err := s.store.Count(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		return 0, nil
	}
	ts := s.now().UTC()
	created := 0
	for _, b := range booking.DemoBookings(s.Today(), locations, s.cfg.Slots) {
		b.Reference = uuid.NewString()
		b.CreatedAt, b.UpdatedAt = ts, ts
		if err := s.store.Create(ctx, &b); err != nil {
			return created, fmt.Errorf("seed booking: %w", err)
		}
		created++
	}
	return created, nil
}

// publish logs and swallows publisher failures; the booking is already
// stored.
func (s *BookingService) publish(ctx context.Context, t queue.EventType, b model.Booking, prev model.BookingStatus) {
	ev := queue.NewBookingEvent(t, b, prev, s.now())
	if err := s.publisher.Publish(ctx, ev); err != nil {
		log.Printf("booking: publish %s booking_id=%d failed: %v", t, b.ID, err)
	}
}
