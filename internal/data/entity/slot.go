package entity

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Slot is a committed interval: the claim a non-cancelled booking holds on
// a court for part of one day.
type Slot struct {
	BaseSimple
	BookingID uuid.UUID `db:"booking_id"`
	CourtID   uuid.UUID `db:"court_id"`
	Date      time.Time `db:"play_date"`
	Start     Clock     `db:"start_minute"`
	End       Clock     `db:"end_minute"`
}

func (s *Slot) Interval() Interval {
	return Interval{Start: s.Start, End: s.End}
}

// SlotKey identifies the independent critical section of one court on one day.
type SlotKey struct {
	CourtID uuid.UUID
	Date    time.Time
}

func (k SlotKey) String() string {
	return fmt.Sprintf("%s|%s", k.CourtID, k.Date.Format("2006-01-02"))
}
