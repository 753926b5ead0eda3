package entity

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusReserved  BookingStatus = "reserved"
	BookingStatusCheckedIn BookingStatus = "checked_in"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

type Booking struct {
	Base
	CourtID     uuid.UUID     `db:"court_id"`
	CustomerID  uuid.UUID     `db:"customer_id"`
	PriceUnitID uuid.UUID     `db:"price_unit_id"`
	Date        time.Time     `db:"play_date"`
	Start       Clock         `db:"start_minute"`
	End         Clock         `db:"end_minute"`
	Status      BookingStatus `db:"status"`
	CancelledAt *time.Time    `db:"cancelled_at"`
}

func (b *Booking) Interval() Interval {
	return Interval{Start: b.Start, End: b.End}
}

// HoldsSlot reports whether the booking still claims its time slot.
func (b *Booking) HoldsSlot() bool {
	return b.Status != BookingStatusCancelled
}

// EndsAt returns the absolute end time of the booking in loc.
func (b *Booking) EndsAt(loc *time.Location) time.Time {
	y, m, d := b.Date.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc).Add(time.Duration(b.End) * time.Minute)
}

var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusReserved:  {BookingStatusCheckedIn, BookingStatusCancelled},
	BookingStatusCheckedIn: {BookingStatusCompleted, BookingStatusCancelled},
}

// CanTransition reports whether the booking lifecycle allows from -> to.
func (s BookingStatus) CanTransition(to BookingStatus) bool {
	for _, next := range bookingTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}
