package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"court-booking/internal/data/entity"
	"court-booking/internal/dto/request"
	"court-booking/pkg/events"

	"github.com/google/uuid"
)

func TestCreateBookingUnknownOrInactiveReferences(t *testing.T) {
	f := newFixture(t, nil)

	retired := f.priceUnit
	retired.ID = uuid.New()
	retired.Name = "Retired"
	retired.IsActive = false
	f.store.priceUnits[retired.ID] = retired

	closed := f.court
	closed.ID = uuid.New()
	closed.IsActive = false
	f.store.courts[closed.ID] = closed

	tests := []struct {
		name   string
		mutate func(r *request.CreateBookingRequest)
		want   error
	}{
		{"unknown customer", func(r *request.CreateBookingRequest) { r.CustomerID = uuid.NewString() }, ErrNotFound},
		{"inactive court", func(r *request.CreateBookingRequest) { r.CourtID = closed.ID.String() }, ErrNotFound},
		{"retired price unit", func(r *request.CreateBookingRequest) { r.PriceUnitID = retired.ID.String() }, ErrNotFound},
		{"bad court id", func(r *request.CreateBookingRequest) { r.CourtID = "court-1" }, ErrValidation},
		{"bad date", func(r *request.CreateBookingRequest) { r.Date = "10-03-2025" }, ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := f.bookingRequest("10:00", "11:00")
			tt.mutate(req)
			_, err := f.svc.Booking.CreateBooking(context.Background(), req)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestCreateBookingPublishesEvent(t *testing.T) {
	f := newFixture(t, nil)
	f.book(t, "10:00", "11:00")

	if n := f.events.count(events.BookingCreated); n != 1 {
		t.Fatalf("booking.created events = %d, want 1", n)
	}
}

func TestCancelBookingIsIdempotent(t *testing.T) {
	f := newFixture(t, nil)
	id := f.book(t, "10:00", "11:00")

	first, err := f.svc.Booking.CancelBooking(context.Background(), id.String())
	if err != nil {
		t.Fatalf("first cancel: %v", err)
	}
	second, err := f.svc.Booking.CancelBooking(context.Background(), id.String())
	if err != nil {
		t.Fatalf("second cancel: %v", err)
	}

	if first.Status != entity.BookingStatusCancelled || second.Status != entity.BookingStatusCancelled {
		t.Fatalf("statuses = %s, %s", first.Status, second.Status)
	}
	if f.slotCount() != 0 {
		t.Fatal("slot still held after cancel")
	}
	if n := f.events.count(events.BookingCancelled); n != 1 {
		t.Fatalf("booking.cancelled events = %d, want 1", n)
	}
}

func TestCancelBookingNotFound(t *testing.T) {
	f := newFixture(t, nil)
	_, err := f.svc.Booking.CancelBooking(context.Background(), uuid.NewString())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCompletedBookingCannotBeCancelled(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	id := f.book(t, "10:00", "11:00")

	if _, err := f.svc.Booking.CheckIn(ctx, id.String()); err != nil {
		t.Fatalf("check in: %v", err)
	}
	if _, err := f.svc.Booking.Complete(ctx, id.String()); err != nil {
		t.Fatalf("complete: %v", err)
	}

	_, err := f.svc.Booking.CancelBooking(ctx, id.String())
	if !errors.Is(err, ErrInvalidStateTransition) {
		t.Fatalf("expected ErrInvalidStateTransition, got %v", err)
	}
	if f.slotCount() != 1 {
		t.Fatal("completed booking lost its slot")
	}
}

func TestBookingStatusAdvances(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	id := f.book(t, "10:00", "11:00")

	if _, err := f.svc.Booking.Complete(ctx, id.String()); !errors.Is(err, ErrInvalidStateTransition) {
		t.Fatalf("complete from reserved: expected ErrInvalidStateTransition, got %v", err)
	}

	resp, err := f.svc.Booking.CheckIn(ctx, id.String())
	if err != nil {
		t.Fatalf("check in: %v", err)
	}
	if resp.Status != entity.BookingStatusCheckedIn {
		t.Fatalf("status = %s, want checked_in", resp.Status)
	}

	if _, err := f.svc.Booking.CheckIn(ctx, id.String()); !errors.Is(err, ErrInvalidStateTransition) {
		t.Fatalf("second check in: expected ErrInvalidStateTransition, got %v", err)
	}
}

func TestCancelCheckedInBookingFreesSlot(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	id := f.book(t, "10:00", "11:00")

	if _, err := f.svc.Booking.CheckIn(ctx, id.String()); err != nil {
		t.Fatalf("check in: %v", err)
	}
	if _, err := f.svc.Booking.CancelBooking(ctx, id.String()); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if f.slotCount() != 0 {
		t.Fatal("slot still held after cancel")
	}
}

func TestCancelDropsUnpaidInvoice(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	bookingID, invoiceID := f.invoice(t, "10:00", "11:00")

	if _, err := f.svc.Booking.CancelBooking(ctx, bookingID.String()); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	if _, err := f.svc.Invoice.GetInvoice(ctx, invoiceID.String()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected unpaid invoice to be gone, got %v", err)
	}
}

func TestCancelRefundsPaidInvoice(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	bookingID, invoiceID := f.invoice(t, "10:00", "11:00")

	if _, err := f.svc.Settlement.Settle(ctx, invoiceID.String(), cashFor("50000")); err != nil {
		t.Fatalf("settle: %v", err)
	}
	if _, err := f.svc.Booking.CancelBooking(ctx, bookingID.String()); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	inv, err := f.svc.Invoice.GetInvoice(ctx, invoiceID.String())
	if err != nil {
		t.Fatalf("get invoice: %v", err)
	}
	if inv.Status != entity.InvoiceStatusRefunded {
		t.Fatalf("status = %s, want refunded", inv.Status)
	}
	if inv.RefundReason == nil || *inv.RefundReason != entity.RefundReasonBookingCancelled {
		t.Fatalf("refund reason = %v", inv.RefundReason)
	}
	if n := f.events.count(events.InvoiceRefunded); n != 1 {
		t.Fatalf("invoice.refunded events = %d, want 1", n)
	}
}

func TestListBookingsFiltersByStatus(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	f.book(t, "08:00", "09:00")
	cancelled := f.book(t, "09:00", "10:00")
	f.book(t, "10:00", "11:00")

	if _, err := f.svc.Booking.CancelBooking(ctx, cancelled.String()); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	resp, err := f.svc.Booking.ListBookings(ctx, &request.ListBookingsRequest{
		PaginatedRequest: request.PaginatedRequest{Page: 1, PerPage: 10},
		CourtID:          f.court.ID.String(),
		Status:           string(entity.BookingStatusReserved),
	})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(resp.Data) != 2 {
		t.Fatalf("items = %d, want 2", len(resp.Data))
	}
	for _, b := range resp.Data {
		if b.ID == cancelled.String() {
			t.Fatal("cancelled booking listed as reserved")
		}
	}
}

func TestAutoCompleteFinishesEndedCheckedInBookings(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	ended := f.book(t, "08:00", "09:00")
	running := f.book(t, "09:00", "11:00")
	reserved := f.book(t, "06:00", "07:00")
	for _, id := range []uuid.UUID{ended, running} {
		if _, err := f.svc.Booking.CheckIn(ctx, id.String()); err != nil {
			t.Fatalf("check in: %v", err)
		}
	}

	now := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
	n, err := f.svc.Booking.AutoComplete(ctx, now)
	if err != nil {
		t.Fatalf("auto complete: %v", err)
	}
	if n != 1 {
		t.Fatalf("completed = %d, want 1", n)
	}

	want := map[uuid.UUID]entity.BookingStatus{
		ended:    entity.BookingStatusCompleted,
		running:  entity.BookingStatusCheckedIn,
		reserved: entity.BookingStatusReserved,
	}
	for id, status := range want {
		b, err := f.svc.Booking.GetBooking(ctx, id.String())
		if err != nil {
			t.Fatalf("get booking: %v", err)
		}
		if b.Status != status {
			t.Errorf("booking %s status = %s, want %s", id, b.Status, status)
		}
	}
}
