package usecase

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"court-booking/internal/data/entity"
	"court-booking/internal/data/repository"
	"court-booking/pkg/utils"

	"github.com/google/uuid"
)

// memStore is an in-memory stand-in for the database. Every repository view
// shares it and returns copies, so callers only change state through Update.
type memStore struct {
	mu sync.Mutex

	users      map[uuid.UUID]entity.User
	sessions   map[uuid.UUID]entity.Session
	customers  map[uuid.UUID]entity.Customer
	areas      map[uuid.UUID]entity.CourtArea
	courts     map[uuid.UUID]entity.Court
	priceUnits map[uuid.UUID]entity.PriceUnit
	bookings   map[uuid.UUID]entity.Booking
	slots      map[uuid.UUID]entity.Slot
	invoices   map[uuid.UUID]entity.Invoice
	attempts   []entity.PaymentAttemptRecord
	accounts   map[uuid.UUID]entity.BankAccount
	counters   map[string]int64

	// hideSlots makes FindOverlapping blind while Create still enforces the
	// exclusion, like a commit from another instance racing the check.
	hideSlots bool
}

func newMemStore() *memStore {
	return &memStore{
		users:      make(map[uuid.UUID]entity.User),
		sessions:   make(map[uuid.UUID]entity.Session),
		customers:  make(map[uuid.UUID]entity.Customer),
		areas:      make(map[uuid.UUID]entity.CourtArea),
		courts:     make(map[uuid.UUID]entity.Court),
		priceUnits: make(map[uuid.UUID]entity.PriceUnit),
		bookings:   make(map[uuid.UUID]entity.Booking),
		slots:      make(map[uuid.UUID]entity.Slot),
		invoices:   make(map[uuid.UUID]entity.Invoice),
		accounts:   make(map[uuid.UUID]entity.BankAccount),
		counters:   make(map[string]int64),
	}
}

// repository returns a set without a transaction runner; WithTx runs inline.
func (m *memStore) repository() *repository.Repository {
	return &repository.Repository{
		User:           memUsers{m},
		Session:        memSessions{m},
		Customer:       memCustomers{m},
		CourtArea:      memAreas{m},
		Court:          memCourts{m},
		PriceUnit:      memPriceUnits{m},
		Booking:        memBookings{m},
		Slot:           memSlots{m},
		Invoice:        memInvoices{m},
		PaymentAttempt: memAttempts{m},
		BankAccount:    memAccounts{m},
	}
}

var errMemNotFound = errors.New("not found")

// ---- users / sessions / customers ----

type memUsers struct{ m *memStore }

func (r memUsers) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	u, ok := r.m.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

type memSessions struct{ m *memStore }

func (r memSessions) FindValidSession(_ context.Context, token uuid.UUID) (*entity.Session, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, s := range r.m.sessions {
		if s.Token == token && s.RevokedAt == nil && s.ExpiresAt.After(time.Now()) {
			return &s, nil
		}
	}
	return nil, nil
}

type memCustomers struct{ m *memStore }

func (r memCustomers) FindByID(_ context.Context, id uuid.UUID) (*entity.Customer, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	c, ok := r.m.customers[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

// ---- courts ----

type memAreas struct{ m *memStore }

func (r memAreas) Create(_ context.Context, area *entity.CourtArea) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	r.m.areas[area.ID] = *area
	return nil
}

func (r memAreas) FindByID(_ context.Context, id uuid.UUID) (*entity.CourtArea, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	a, ok := r.m.areas[id]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (r memAreas) FindAll(_ context.Context) ([]*entity.CourtArea, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*entity.CourtArea
	for _, a := range r.m.areas {
		a := a
		out = append(out, &a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type memCourts struct{ m *memStore }

func (r memCourts) Create(_ context.Context, court *entity.Court) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	r.m.courts[court.ID] = *court
	return nil
}

func (r memCourts) FindByID(_ context.Context, id uuid.UUID) (*entity.Court, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	c, ok := r.m.courts[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r memCourts) FindAll(_ context.Context) ([]*entity.Court, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*entity.Court
	for _, c := range r.m.courts {
		c := c
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Position != out[j].Position {
			return out[i].Position < out[j].Position
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (r memCourts) Update(_ context.Context, court *entity.Court) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.courts[court.ID]; !ok {
		return errMemNotFound
	}
	r.m.courts[court.ID] = *court
	return nil
}

// ---- price units ----

type memPriceUnits struct{ m *memStore }

func (r memPriceUnits) Create(_ context.Context, pu *entity.PriceUnit) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, other := range r.m.priceUnits {
		if strings.EqualFold(other.Name, pu.Name) {
			return repository.ErrDuplicate
		}
	}
	r.m.priceUnits[pu.ID] = *pu
	return nil
}

func (r memPriceUnits) FindByID(_ context.Context, id uuid.UUID) (*entity.PriceUnit, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	pu, ok := r.m.priceUnits[id]
	if !ok {
		return nil, nil
	}
	return &pu, nil
}

func (r memPriceUnits) FindByName(_ context.Context, name string) (*entity.PriceUnit, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, pu := range r.m.priceUnits {
		if strings.EqualFold(pu.Name, name) {
			return &pu, nil
		}
	}
	return nil, nil
}

func (r memPriceUnits) FindAll(_ context.Context, activeOnly bool) ([]*entity.PriceUnit, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*entity.PriceUnit
	for _, pu := range r.m.priceUnits {
		if activeOnly && !pu.IsActive {
			continue
		}
		pu := pu
		out = append(out, &pu)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r memPriceUnits) Update(_ context.Context, pu *entity.PriceUnit) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.priceUnits[pu.ID]; !ok {
		return errMemNotFound
	}
	r.m.priceUnits[pu.ID] = *pu
	return nil
}

func (r memPriceUnits) Delete(_ context.Context, id uuid.UUID) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, b := range r.m.bookings {
		if b.PriceUnitID == id {
			return repository.ErrReferenced
		}
	}
	delete(r.m.priceUnits, id)
	return nil
}

func (r memPriceUnits) IsReferenced(_ context.Context, id uuid.UUID) (bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, b := range r.m.bookings {
		if b.PriceUnitID == id {
			return true, nil
		}
	}
	return false, nil
}

// ---- bookings and slots ----

type memBookings struct{ m *memStore }

func (r memBookings) Create(_ context.Context, booking *entity.Booking) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	r.m.bookings[booking.ID] = *booking
	return nil
}

func (r memBookings) FindByID(_ context.Context, id uuid.UUID) (*entity.Booking, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	b, ok := r.m.bookings[id]
	if !ok {
		return nil, nil
	}
	return &b, nil
}

func (r memBookings) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	return r.FindByID(ctx, id)
}

func (r memBookings) match(b entity.Booking, f repository.BookingFilter) bool {
	if f.CourtID != nil && b.CourtID != *f.CourtID {
		return false
	}
	if f.CustomerID != nil && b.CustomerID != *f.CustomerID {
		return false
	}
	if f.Date != nil && !b.Date.Equal(*f.Date) {
		return false
	}
	if f.Status != nil && b.Status != *f.Status {
		return false
	}
	return true
}

func (r memBookings) List(_ context.Context, filter repository.BookingFilter, limit, offset int) ([]*entity.Booking, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*entity.Booking
	for _, b := range r.m.bookings {
		if r.match(b, filter) {
			b := b
			out = append(out, &b)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].Start < out[j].Start
	})
	return page(out, limit, offset), nil
}

func (r memBookings) Count(_ context.Context, filter repository.BookingFilter) (int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var n int64
	for _, b := range r.m.bookings {
		if r.match(b, filter) {
			n++
		}
	}
	return n, nil
}

func (r memBookings) UpdateStatus(_ context.Context, booking *entity.Booking) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	b, ok := r.m.bookings[booking.ID]
	if !ok {
		return errMemNotFound
	}
	b.Status = booking.Status
	b.CancelledAt = booking.CancelledAt
	b.UpdatedAt = booking.UpdatedAt
	r.m.bookings[booking.ID] = b
	return nil
}

func (r memBookings) FindCheckedInEndedBy(_ context.Context, day time.Time, minute entity.Clock) ([]*entity.Booking, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*entity.Booking
	for _, b := range r.m.bookings {
		if b.Status != entity.BookingStatusCheckedIn {
			continue
		}
		if b.Date.Before(day) || (b.Date.Equal(day) && b.End <= minute) {
			b := b
			out = append(out, &b)
		}
	}
	return out, nil
}

type memSlots struct{ m *memStore }

func sameKey(s entity.Slot, key entity.SlotKey) bool {
	return s.CourtID == key.CourtID && s.Date.Equal(key.Date)
}

func (r memSlots) Create(_ context.Context, slot *entity.Slot) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	key := entity.SlotKey{CourtID: slot.CourtID, Date: slot.Date}
	for _, s := range r.m.slots {
		if sameKey(s, key) && s.Interval().Overlaps(slot.Interval()) {
			return repository.ErrOverlap
		}
	}
	r.m.slots[slot.ID] = *slot
	return nil
}

func (r memSlots) FindOverlapping(_ context.Context, key entity.SlotKey, iv entity.Interval) (*entity.Slot, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if r.m.hideSlots {
		return nil, nil
	}
	for _, s := range r.m.slots {
		if sameKey(s, key) && s.Interval().Overlaps(iv) {
			return &s, nil
		}
	}
	return nil, nil
}

func (r memSlots) ListByKey(_ context.Context, key entity.SlotKey) ([]*entity.Slot, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*entity.Slot
	for _, s := range r.m.slots {
		if sameKey(s, key) {
			s := s
			out = append(out, &s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out, nil
}

func (r memSlots) DeleteByBookingID(_ context.Context, bookingID uuid.UUID) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for id, s := range r.m.slots {
		if s.BookingID == bookingID {
			delete(r.m.slots, id)
		}
	}
	return nil
}

// ---- invoices ----

type memInvoices struct{ m *memStore }

func (r memInvoices) Create(_ context.Context, invoice *entity.Invoice) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, inv := range r.m.invoices {
		if inv.BookingID == invoice.BookingID && inv.Status != entity.InvoiceStatusRefunded {
			return repository.ErrDuplicate
		}
		if inv.Number == invoice.Number {
			return repository.ErrDuplicate
		}
	}
	r.m.invoices[invoice.ID] = *invoice
	return nil
}

func (r memInvoices) FindByID(_ context.Context, id uuid.UUID) (*entity.Invoice, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	inv, ok := r.m.invoices[id]
	if !ok {
		return nil, nil
	}
	return &inv, nil
}

func (r memInvoices) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	return r.FindByID(ctx, id)
}

func (r memInvoices) FindActiveByBooking(_ context.Context, bookingID uuid.UUID) (*entity.Invoice, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, inv := range r.m.invoices {
		if inv.BookingID == bookingID && inv.Status != entity.InvoiceStatusRefunded {
			return &inv, nil
		}
	}
	return nil, nil
}

func (r memInvoices) FindActiveByBookingForUpdate(ctx context.Context, bookingID uuid.UUID) (*entity.Invoice, error) {
	return r.FindActiveByBooking(ctx, bookingID)
}

func (r memInvoices) match(inv entity.Invoice, f repository.InvoiceFilter) bool {
	if f.Status != nil && inv.Status != *f.Status {
		return false
	}
	if f.From != nil && inv.InvoiceDate.Before(*f.From) {
		return false
	}
	if f.To != nil && inv.InvoiceDate.After(*f.To) {
		return false
	}
	return true
}

func (r memInvoices) List(_ context.Context, filter repository.InvoiceFilter, limit, offset int) ([]*entity.Invoice, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*entity.Invoice
	for _, inv := range r.m.invoices {
		if r.match(inv, filter) {
			inv := inv
			out = append(out, &inv)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return page(out, limit, offset), nil
}

func (r memInvoices) Count(_ context.Context, filter repository.InvoiceFilter) (int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var n int64
	for _, inv := range r.m.invoices {
		if r.match(inv, filter) {
			n++
		}
	}
	return n, nil
}

func (r memInvoices) Update(_ context.Context, invoice *entity.Invoice) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.invoices[invoice.ID]; !ok {
		return errMemNotFound
	}
	r.m.invoices[invoice.ID] = *invoice
	return nil
}

func (r memInvoices) Delete(_ context.Context, id uuid.UUID) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	delete(r.m.invoices, id)
	return nil
}

func (r memInvoices) NextNumber(_ context.Context, day time.Time) (string, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	k := day.Format(utils.DateLayout)
	r.m.counters[k]++
	return utils.FormatInvoiceNumber(day, r.m.counters[k]), nil
}

type memAttempts struct{ m *memStore }

func (r memAttempts) Create(_ context.Context, rec *entity.PaymentAttemptRecord) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	r.m.attempts = append(r.m.attempts, *rec)
	return nil
}

func (r memAttempts) FindByInvoiceID(_ context.Context, invoiceID uuid.UUID) ([]*entity.PaymentAttemptRecord, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*entity.PaymentAttemptRecord
	for _, a := range r.m.attempts {
		if a.InvoiceID == invoiceID {
			a := a
			out = append(out, &a)
		}
	}
	return out, nil
}

// ---- bank accounts ----

type memAccounts struct{ m *memStore }

func (r memAccounts) Create(_ context.Context, acct *entity.BankAccount) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	r.m.accounts[acct.ID] = *acct
	return nil
}

func (r memAccounts) FindByID(_ context.Context, id uuid.UUID) (*entity.BankAccount, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	a, ok := r.m.accounts[id]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (r memAccounts) list(owner entity.BankAccountOwner, supplierID *uuid.UUID) []*entity.BankAccount {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	var out []*entity.BankAccount
	for _, a := range r.m.accounts {
		if a.Owner != owner || !sameSupplier(a.SupplierID, supplierID) {
			continue
		}
		a := a
		out = append(out, &a)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].IsDefault && !out[j].IsDefault })
	return out
}

func (r memAccounts) FindStoreAccounts(_ context.Context) ([]*entity.BankAccount, error) {
	return r.list(entity.BankAccountOwnerStore, nil), nil
}

func (r memAccounts) FindSupplierAccounts(_ context.Context, supplierID uuid.UUID) ([]*entity.BankAccount, error) {
	return r.list(entity.BankAccountOwnerSupplier, &supplierID), nil
}

func (r memAccounts) Update(_ context.Context, acct *entity.BankAccount) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.accounts[acct.ID]; !ok {
		return errMemNotFound
	}
	r.m.accounts[acct.ID] = *acct
	return nil
}

func (r memAccounts) ClearDefault(_ context.Context, owner entity.BankAccountOwner, supplierID *uuid.UUID) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for id, a := range r.m.accounts {
		if a.Owner == owner && sameSupplier(a.SupplierID, supplierID) {
			a.IsDefault = false
			r.m.accounts[id] = a
		}
	}
	return nil
}

func sameSupplier(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func page[T any](items []T, limit, offset int) []T {
	if limit <= 0 {
		return items
	}
	if offset >= len(items) {
		return nil
	}
	end := min(offset+limit, len(items))
	return items[offset:end]
}
