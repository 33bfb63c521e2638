// Package queue defines the booking notification payload and the consumer
// that turns queued events into e-mails and journal lines.
package queue

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/restaurant-booking/internal/model"
)

// EventType doubles as the AMQP message type.
type EventType string

const (
	EventCreated       EventType = "booking.created"
	EventStatusChanged EventType = "booking.status_changed"
	EventReminder      EventType = "booking.reminder"
)

// BookingEvent carries enough of a booking for the consumer to write the
// guest without going back to the database.
type BookingEvent struct {
	MessageID      string    `json:"message_id"`
	Type           EventType `json:"type"`
	BookingID      uint64    `json:"booking_id"`
	Reference      string    `json:"reference"`
	Status         string    `json:"status"`
	PreviousStatus string    `json:"previous_status,omitempty"`
	LocationID     uint64    `json:"location_id"`
	LocationName   string    `json:"location_name"`
	BookingDate    string    `json:"booking_date"`
	BookingTime    string    `json:"booking_time"`
	PartySize      int       `json:"party_size"`
	CustomerName   string    `json:"customer_name"`
	CustomerEmail  string    `json:"customer_email"`
	CustomerPhone  string    `json:"customer_phone"`
	OccurredAt     string    `json:"occurred_at"`
}

// NewBookingEvent snapshots b. previous is empty except for status changes.
func NewBookingEvent(t EventType, b model.Booking, previous model.BookingStatus, at time.Time) BookingEvent {
	return BookingEvent{
		MessageID:      uuid.NewString(),
		Type:           t,
		BookingID:      b.ID,
		Reference:      b.Reference,
		Status:         string(b.Status),
		PreviousStatus: string(previous),
		LocationID:     b.LocationID,
		LocationName:   b.LocationName,
		BookingDate:    b.BookingDate,
		BookingTime:    b.BookingTime,
		PartySize:      b.PartySize,
		CustomerName:   b.CustomerName,
		CustomerEmail:  b.CustomerEmail,
		CustomerPhone:  b.CustomerPhone,
		OccurredAt:     at.UTC().Format(time.RFC3339),
	}
}

// Subject is the e-mail subject line for the event.
func (e BookingEvent) Subject() string {
	switch e.Type {
	case EventCreated:
		return "We received your booking " + e.shortRef()
	case EventReminder:
		return "Reminder: your table on " + e.BookingDate
	default:
		return fmt.Sprintf("Your booking is now %s", e.Status)
	}
}

// Body is the plain text e-mail body.
func (e BookingEvent) Body() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Hi %s,\n\n", strings.TrimSpace(e.CustomerName))
	switch e.Type {
	case EventCreated:
		sb.WriteString("Thank you for your booking. We will confirm it shortly.\n\n")
	case EventReminder:
		sb.WriteString("This is a friendly reminder of your upcoming booking.\n\n")
	default:
		fmt.Fprintf(&sb, "The status of your booking changed from %s to %s.\n\n", e.PreviousStatus, e.Status)
	}
	fmt.Fprintf(&sb, "Reference: %s\n", e.Reference)
	if e.LocationName != "" {
		fmt.Fprintf(&sb, "Location:  %s\n", e.LocationName)
	}
	fmt.Fprintf(&sb, "Date:      %s\n", e.BookingDate)
	fmt.Fprintf(&sb, "Time:      %s\n", e.BookingTime)
	fmt.Fprintf(&sb, "Guests:    %d\n", e.PartySize)
	return sb.String()
}

// LogLine is the single-line journal form of the event.
func (e BookingEvent) LogLine() string {
	line := fmt.Sprintf("[%s] %s | booking_id=%d | ref=%s | status=%s",
		e.OccurredAt, e.Type, e.BookingID, e.Reference, e.Status)
	if e.PreviousStatus != "" {
		line += " | previous=" + e.PreviousStatus
	}
	return line + fmt.Sprintf(" | location=%q | when=%s %s | party=%d | customer=%q\n",
		e.LocationName, e.BookingDate, e.BookingTime, e.PartySize, e.CustomerName)
}

func (e BookingEvent) shortRef() string {
	if len(e.Reference) > 8 {
		return strings.ToUpper(e.Reference[:8])
	}
	return strings.ToUpper(e.Reference)
}
