package usecase

import (
	"context"
	"errors"
	"testing"

	"court-booking/internal/dto/request"

	"github.com/google/uuid"
)

func TestCreateCourtNeedsArea(t *testing.T) {
	f := newFixture(t, nil)
	_, err := f.svc.Court.CreateCourt(context.Background(), &request.CreateCourtRequest{
		AreaID: uuid.NewString(),
		Name:   "Court 2",
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListAreasGroupsCourts(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	area, err := f.svc.Court.CreateArea(ctx, &request.CreateCourtAreaRequest{Name: "Hall B"})
	if err != nil {
		t.Fatalf("create area: %v", err)
	}
	for i, name := range []string{"Court 3", "Court 4"} {
		if _, err := f.svc.Court.CreateCourt(ctx, &request.CreateCourtRequest{AreaID: area.ID, Name: name, Position: i}); err != nil {
			t.Fatalf("create court: %v", err)
		}
	}

	areas, err := f.svc.Court.ListAreas(ctx)
	if err != nil {
		t.Fatalf("list areas: %v", err)
	}
	if len(areas) != 2 {
		t.Fatalf("areas = %d, want 2", len(areas))
	}
	for _, a := range areas {
		want := 1
		if a.ID == area.ID {
			want = 2
		}
		if len(a.Courts) != want {
			t.Errorf("area %s courts = %d, want %d", a.Name, len(a.Courts), want)
		}
	}
}

func TestDeactivatedCourtRejectsBookings(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	off := false
	if _, err := f.svc.Court.UpdateCourt(ctx, f.court.ID.String(), &request.UpdateCourtRequest{IsActive: &off}); err != nil {
		t.Fatalf("update court: %v", err)
	}

	_, err := f.svc.Booking.CreateBooking(ctx, f.bookingRequest("10:00", "11:00"))
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetAvailability(t *testing.T) {
	f := newFixture(t, nil)
	booked := f.book(t, "10:00", "12:00")

	resp, err := f.svc.Court.GetAvailability(context.Background(), f.court.ID.String(), &request.AvailabilityRequest{Date: testDate})
	if err != nil {
		t.Fatalf("availability: %v", err)
	}
	if resp.OpenFrom != "06:00" || resp.OpenTo != "23:00" {
		t.Fatalf("window = %s-%s", resp.OpenFrom, resp.OpenTo)
	}
	if len(resp.Intervals) != 3 {
		t.Fatalf("intervals = %+v", resp.Intervals)
	}
	mid := resp.Intervals[1]
	if mid.Free || mid.BookingID == nil || *mid.BookingID != booked.String() {
		t.Fatalf("booked block = %+v", mid)
	}
	if mid.StartTime != "10:00" || mid.EndTime != "12:00" {
		t.Fatalf("booked block = %s-%s", mid.StartTime, mid.EndTime)
	}
}
