package usecase

import (
	"context"
	"errors"
	"testing"

	"court-booking/internal/dto/request"
	"court-booking/pkg/utils"

	"github.com/google/uuid"
)

func TestCreatePriceUnitDefaultsIncrementAndAudits(t *testing.T) {
	f := newFixture(t, nil)
	admin := uuid.New()
	ctx := utils.SetUserContext(context.Background(), admin, "admin")

	pu, err := f.svc.PriceUnit.Create(ctx, &request.CreatePriceUnitRequest{Name: "  Weekend ", Rate: "75000"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if pu.Name != "Weekend" {
		t.Errorf("name = %q, want trimmed", pu.Name)
	}
	if pu.IncrementMinutes != 60 {
		t.Errorf("increment = %d, want 60", pu.IncrementMinutes)
	}
	if pu.CreatedBy != admin.String() || pu.UpdatedBy != admin.String() {
		t.Errorf("audit = %s/%s, want %s", pu.CreatedBy, pu.UpdatedBy, admin)
	}
}

func TestPriceUnitNamesAreUnique(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	_, err := f.svc.PriceUnit.Create(ctx, &request.CreatePriceUnitRequest{Name: "regular", Rate: "1000"})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for taken name, got %v", err)
	}

	other, err := f.svc.PriceUnit.Create(ctx, &request.CreatePriceUnitRequest{Name: "Night", Rate: "60000", IncrementMinutes: 30})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	_, err = f.svc.PriceUnit.Update(ctx, other.ID, &request.UpdatePriceUnitRequest{Name: "Regular", Rate: "60000"})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation on rename, got %v", err)
	}

	// keeping its own name is fine
	if _, err := f.svc.PriceUnit.Update(ctx, other.ID, &request.UpdatePriceUnitRequest{Name: "Night", Rate: "65000"}); err != nil {
		t.Fatalf("update: %v", err)
	}
}

func TestReferencedPriceUnitMustBeRetired(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	f.book(t, "10:00", "11:00")

	err := f.svc.PriceUnit.Delete(ctx, f.priceUnit.ID.String())
	if !errors.Is(err, ErrInvalidStateTransition) {
		t.Fatalf("expected ErrInvalidStateTransition, got %v", err)
	}

	retired, err := f.svc.PriceUnit.Retire(ctx, f.priceUnit.ID.String())
	if err != nil {
		t.Fatalf("retire: %v", err)
	}
	if retired.IsActive || retired.RetiredAt == nil {
		t.Fatalf("retired unit = %+v", retired)
	}

	active, err := f.svc.PriceUnit.List(ctx, true)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(active) != 0 {
		t.Fatalf("active units = %d, want 0", len(active))
	}

	// a retired unit cannot price new bookings
	_, err = f.svc.Booking.CreateBooking(ctx, f.bookingRequest("12:00", "13:00"))
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteUnusedPriceUnit(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	if err := f.svc.PriceUnit.Delete(ctx, f.priceUnit.ID.String()); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := f.svc.PriceUnit.Get(ctx, f.priceUnit.ID.String()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
