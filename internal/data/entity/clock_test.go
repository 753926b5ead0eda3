package entity

import "testing"

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		want    Clock
		wantErr bool
	}{
		{"00:00", 0, false},
		{"07:30", 450, false},
		{"23:59", 1439, false},
		{"24:00", EndOfDay, false},
		{"24:01", 0, true},
		{"7:30", 0, true},
		{"12:60", 0, true},
		{"ab:cd", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseClock(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("got %d, want %d", got, tt.want)
			}
			if got.String() != tt.in {
				t.Fatalf("String() = %q, want %q", got.String(), tt.in)
			}
		})
	}
}

func TestIntervalOverlaps(t *testing.T) {
	iv := func(a, b Clock) Interval { return Interval{Start: a, End: b} }

	tests := []struct {
		name string
		a, b Interval
		want bool
	}{
		{"identical", iv(600, 660), iv(600, 660), true},
		{"partial", iv(600, 660), iv(630, 690), true},
		{"contained", iv(600, 720), iv(630, 660), true},
		{"back to back", iv(600, 660), iv(660, 720), false},
		{"back to back reversed", iv(660, 720), iv(600, 660), false},
		{"disjoint", iv(600, 660), iv(700, 760), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Overlaps(tt.b); got != tt.want {
				t.Fatalf("Overlaps = %v, want %v", got, tt.want)
			}
			if got := tt.b.Overlaps(tt.a); got != tt.want {
				t.Fatalf("Overlaps is not symmetric")
			}
		})
	}
}

func TestBookingStatusTransitions(t *testing.T) {
	if !BookingStatusReserved.CanTransition(BookingStatusCheckedIn) {
		t.Error("reserved -> checked_in should be allowed")
	}
	if !BookingStatusCheckedIn.CanTransition(BookingStatusCompleted) {
		t.Error("checked_in -> completed should be allowed")
	}
	if BookingStatusCompleted.CanTransition(BookingStatusCancelled) {
		t.Error("completed -> cancelled should be refused")
	}
	if BookingStatusCancelled.CanTransition(BookingStatusReserved) {
		t.Error("cancelled is terminal")
	}
}
