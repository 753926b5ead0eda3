package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"court-booking/internal/data/entity"
	"court-booking/internal/dto/request"
	"court-booking/pkg/lock"
	"court-booking/pkg/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const testDate = "2025-03-10"

type fixture struct {
	store  *memStore
	locker *lock.KeyedMutex
	config *utils.Config
	svc    *Service
	slots  *SlotAllocator
	events *recordingPublisher

	customer  entity.Customer
	court     entity.Court
	priceUnit entity.PriceUnit
}

func testConfig() *utils.Config {
	return &utils.Config{
		Lock: utils.LockConfig{
			Driver:  "memory",
			Timeout: 2 * time.Second,
			Retries: 2,
			Backoff: time.Millisecond,
		},
		Booking: utils.BookingConfig{OpenFrom: "06:00", OpenTo: "23:00"},
		Billing: utils.BillingConfig{AmountScale: 2, DefaultIncrementMinutes: 60},
	}
}

func newFixture(t *testing.T, processor PaymentProcessor) *fixture {
	t.Helper()

	f := &fixture{
		store:  newMemStore(),
		config: testConfig(),
		events: &recordingPublisher{},
	}
	f.locker = lock.NewKeyedMutex(f.config.Lock.Timeout)

	repo := f.store.repository()
	svc, err := NewService(repo, f.config, f.locker, f.events, processor, zap.NewNop())
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	f.svc = svc
	f.slots, err = NewSlotAllocator(repo, f.locker, f.config, zap.NewNop())
	if err != nil {
		t.Fatalf("new slot allocator: %v", err)
	}

	phone := "0812000111"
	f.customer = entity.Customer{ID: uuid.New(), FullName: "Budi Santoso", Phone: &phone}
	f.store.customers[f.customer.ID] = f.customer

	area := entity.CourtArea{Base: entity.Base{ID: uuid.New()}, Name: "Hall A"}
	f.store.areas[area.ID] = area

	f.court = entity.Court{Base: entity.Base{ID: uuid.New()}, AreaID: area.ID, Name: "Court 1", IsActive: true}
	f.store.courts[f.court.ID] = f.court

	f.priceUnit = entity.PriceUnit{
		Base:             entity.Base{ID: uuid.New()},
		Name:             "Regular",
		Rate:             decimal.NewFromInt(50000),
		IncrementMinutes: 60,
		IsActive:         true,
	}
	f.store.priceUnits[f.priceUnit.ID] = f.priceUnit

	return f
}

func (f *fixture) bookingRequest(start, end string) *request.CreateBookingRequest {
	return &request.CreateBookingRequest{
		CustomerID:  f.customer.ID.String(),
		CourtID:     f.court.ID.String(),
		PriceUnitID: f.priceUnit.ID.String(),
		Date:        testDate,
		StartTime:   start,
		EndTime:     end,
	}
}

// book creates a booking and fails the test on error.
func (f *fixture) book(t *testing.T, start, end string) uuid.UUID {
	t.Helper()
	resp, err := f.svc.Booking.CreateBooking(context.Background(), f.bookingRequest(start, end))
	if err != nil {
		t.Fatalf("create booking %s-%s: %v", start, end, err)
	}
	return uuid.MustParse(resp.ID)
}

// invoice books start-end and generates its invoice.
func (f *fixture) invoice(t *testing.T, start, end string) (uuid.UUID, uuid.UUID) {
	t.Helper()
	bookingID := f.book(t, start, end)
	inv, err := f.svc.Invoice.GenerateInvoice(context.Background(), &request.GenerateInvoiceRequest{BookingID: bookingID.String()})
	if err != nil {
		t.Fatalf("generate invoice: %v", err)
	}
	return bookingID, uuid.MustParse(inv.ID)
}

func (f *fixture) slotCount() int {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	return len(f.store.slots)
}

func (f *fixture) key() entity.SlotKey {
	date, _ := utils.ParseDate(testDate)
	return entity.SlotKey{CourtID: f.court.ID, Date: date}
}

type recordingPublisher struct {
	mu   sync.Mutex
	keys []string
}

func (p *recordingPublisher) Publish(_ context.Context, key string, _ any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.keys = append(p.keys, key)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) count(key string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, k := range p.keys {
		if k == key {
			n++
		}
	}
	return n
}
