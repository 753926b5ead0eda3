package entity

import (
	"fmt"
	"strconv"
	"strings"
)

// Clock is a wall-clock time of day in minutes since midnight.
// 1440 (24:00) is valid only as an exclusive end bound.
type Clock int

const (
	Midnight  Clock = 0
	EndOfDay  Clock = 24 * 60
	clockSpan       = "HH:MM"
)

func ParseClock(s string) (Clock, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 || len(parts[0]) != 2 || len(parts[1]) != 2 {
		return 0, fmt.Errorf("invalid time %q, expected %s", s, clockSpan)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid hour in %q: %w", s, err)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid minute in %q: %w", s, err)
	}
	if m < 0 || m > 59 || h < 0 || h > 24 || (h == 24 && m != 0) {
		return 0, fmt.Errorf("invalid time %q, out of range", s)
	}
	return Clock(h*60 + m), nil
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

// Interval is a half-open [Start, End) range of a single day.
type Interval struct {
	Start Clock
	End   Clock
}

func (iv Interval) Minutes() int {
	return int(iv.End - iv.Start)
}

// Overlaps reports whether two half-open intervals share any minute.
// Back-to-back intervals (a.End == b.Start) do not overlap.
func (iv Interval) Overlaps(other Interval) bool {
	return iv.Start < other.End && other.Start < iv.End
}

// Within reports whether iv lies entirely inside window.
func (iv Interval) Within(window Interval) bool {
	return iv.Start >= window.Start && iv.End <= window.End
}

func (iv Interval) String() string {
	return iv.Start.String() + "-" + iv.End.String()
}
