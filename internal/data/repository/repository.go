package repository

import (
	"context"

	"court-booking/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// TxFunc runs fn with repositories bound to a single transaction.
type TxFunc func(ctx context.Context, fn func(tx *Repository) error) error

type Repository struct {
	User           UserRepository
	Session        SessionRepository
	Customer       CustomerRepository
	CourtArea      CourtAreaRepository
	Court          CourtRepository
	PriceUnit      PriceUnitRepository
	Booking        BookingRepository
	Slot           SlotRepository
	Invoice        InvoiceRepository
	PaymentAttempt PaymentAttemptRepository
	BankAccount    BankAccountRepository

	RunInTx TxFunc
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	repo := newRepositorySet(db, log)
	repo.RunInTx = func(ctx context.Context, fn func(tx *Repository) error) error {
		return database.WithTx(ctx, db, func(tx pgx.Tx) error {
			return fn(newRepositorySet(tx, log))
		})
	}
	return repo
}

func newRepositorySet(q database.Querier, log *zap.Logger) *Repository {
	return &Repository{
		User:           NewUserRepository(q, log),
		Session:        NewSessionRepository(q, log),
		Customer:       NewCustomerRepository(q, log),
		CourtArea:      NewCourtAreaRepository(q, log),
		Court:          NewCourtRepository(q, log),
		PriceUnit:      NewPriceUnitRepository(q, log),
		Booking:        NewBookingRepository(q, log),
		Slot:           NewSlotRepository(q, log),
		Invoice:        NewInvoiceRepository(q, log),
		PaymentAttempt: NewPaymentAttemptRepository(q, log),
		BankAccount:    NewBankAccountRepository(q, log),
	}
}

// WithTx runs fn atomically. Repositories without a transaction runner
// (in-memory sets) run fn directly.
func (r *Repository) WithTx(ctx context.Context, fn func(tx *Repository) error) error {
	if r.RunInTx == nil {
		return fn(r)
	}
	return r.RunInTx(ctx, fn)
}
