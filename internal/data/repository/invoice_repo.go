package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"court-booking/internal/data/entity"
	"court-booking/pkg/database"
	"court-booking/pkg/utils"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// InvoiceFilter narrows ListInvoices. From and To bound invoice_date inclusively.
type InvoiceFilter struct {
	Status *entity.InvoiceStatus
	From   *time.Time
	To     *time.Time
}

type InvoiceRepository interface {
	// Create fails with ErrDuplicate when the booking already has a
	// non-refunded invoice.
	Create(ctx context.Context, invoice *entity.Invoice) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Invoice, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Invoice, error)
	// FindActiveByBooking returns the booking's non-refunded invoice, if any.
	FindActiveByBooking(ctx context.Context, bookingID uuid.UUID) (*entity.Invoice, error)
	FindActiveByBookingForUpdate(ctx context.Context, bookingID uuid.UUID) (*entity.Invoice, error)
	// List returns every match when limit is not positive.
	List(ctx context.Context, filter InvoiceFilter, limit, offset int) ([]*entity.Invoice, error)
	Count(ctx context.Context, filter InvoiceFilter) (int64, error)
	Update(ctx context.Context, invoice *entity.Invoice) error
	Delete(ctx context.Context, id uuid.UUID) error

	// NextNumber allocates the next human invoice number for day.
	NextNumber(ctx context.Context, day time.Time) (string, error)
}

type invoiceRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewInvoiceRepository(db database.Querier, log *zap.Logger) InvoiceRepository {
	return &invoiceRepository{
		db:  db,
		log: log.With(zap.String("repository", "invoice")),
	}
}

const invoiceColumns = `id, number, booking_id, invoice_date, amount, billed_units, status,
		customer_id, customer_name, customer_phone, customer_email, court_id, court_name,
		payment_method, bank_account_id, refund_reason, paid_at, refunded_at,
		created_at, updated_at`

func scanInvoice(row pgx.Row) (*entity.Invoice, error) {
	var inv entity.Invoice
	err := row.Scan(
		&inv.ID,
		&inv.Number,
		&inv.BookingID,
		&inv.InvoiceDate,
		&inv.Amount,
		&inv.BilledUnits,
		&inv.Status,
		&inv.CustomerID,
		&inv.CustomerName,
		&inv.CustomerPhone,
		&inv.CustomerEmail,
		&inv.CourtID,
		&inv.CourtName,
		&inv.PaymentMethod,
		&inv.BankAccountID,
		&inv.RefundReason,
		&inv.PaidAt,
		&inv.RefundedAt,
		&inv.CreatedAt,
		&inv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *invoiceRepository) Create(ctx context.Context, inv *entity.Invoice) error {
	query := `
		INSERT INTO invoices (` + invoiceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
		        $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
	`

	_, err := r.db.Exec(ctx, query,
		inv.ID,
		inv.Number,
		inv.BookingID,
		inv.InvoiceDate,
		inv.Amount,
		inv.BilledUnits,
		inv.Status,
		inv.CustomerID,
		inv.CustomerName,
		inv.CustomerPhone,
		inv.CustomerEmail,
		inv.CourtID,
		inv.CourtName,
		inv.PaymentMethod,
		inv.BankAccountID,
		inv.RefundReason,
		inv.PaidAt,
		inv.RefundedAt,
		inv.CreatedAt,
		inv.UpdatedAt,
	)
	if err != nil {
		err = classify(err)
		if !errors.Is(err, ErrDuplicate) {
			r.log.Error("Failed to create invoice",
				zap.Error(err),
				zap.String("booking_id", inv.BookingID.String()),
			)
		}
		return fmt.Errorf("create invoice for booking %s: %w", inv.BookingID.String(), err)
	}

	return nil
}

func (r *invoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	return r.findOne(ctx, `WHERE id = $1`, id)
}

func (r *invoiceRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	return r.findOne(ctx, `WHERE id = $1 FOR UPDATE`, id)
}

func (r *invoiceRepository) FindActiveByBooking(ctx context.Context, bookingID uuid.UUID) (*entity.Invoice, error) {
	return r.findOne(ctx, `WHERE booking_id = $1 AND status <> 'refunded'`, bookingID)
}

func (r *invoiceRepository) FindActiveByBookingForUpdate(ctx context.Context, bookingID uuid.UUID) (*entity.Invoice, error) {
	return r.findOne(ctx, `WHERE booking_id = $1 AND status <> 'refunded' FOR UPDATE`, bookingID)
}

func (r *invoiceRepository) findOne(ctx context.Context, where string, id uuid.UUID) (*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices ` + where

	inv, err := scanInvoice(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find invoice",
			zap.Error(err),
			zap.String("where", where),
			zap.String("id", id.String()),
		)
		return nil, fmt.Errorf("find invoice %s: %w", id.String(), classify(err))
	}

	return inv, nil
}

func invoiceWhere(filter InvoiceFilter) (string, []any) {
	var conds []string
	var args []any
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if filter.Status != nil {
		add("status = $%d", *filter.Status)
	}
	if filter.From != nil {
		add("invoice_date >= $%d", *filter.From)
	}
	if filter.To != nil {
		add("invoice_date <= $%d", *filter.To)
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (r *invoiceRepository) List(ctx context.Context, filter InvoiceFilter, limit, offset int) ([]*entity.Invoice, error) {
	where, args := invoiceWhere(filter)
	query := `SELECT ` + invoiceColumns + ` FROM invoices` + where + ` ORDER BY invoice_date, number`
	if limit > 0 {
		args = append(args, limit, offset)
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to list invoices", zap.Error(err))
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()

	var invoices []*entity.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			r.log.Error("Failed to scan invoice row", zap.Error(err))
			return nil, fmt.Errorf("scan invoice row: %w", err)
		}
		invoices = append(invoices, inv)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate invoice rows: %w", err)
	}

	return invoices, nil
}

func (r *invoiceRepository) Count(ctx context.Context, filter InvoiceFilter) (int64, error) {
	where, args := invoiceWhere(filter)

	var count int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM invoices`+where, args...).Scan(&count); err != nil {
		r.log.Error("Database error counting invoices", zap.Error(err))
		return 0, fmt.Errorf("count invoices: %w", err)
	}

	return count, nil
}

func (r *invoiceRepository) Update(ctx context.Context, inv *entity.Invoice) error {
	query := `
		UPDATE invoices
		SET status = $2, payment_method = $3, bank_account_id = $4,
		    refund_reason = $5, paid_at = $6, refunded_at = $7, updated_at = $8
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		inv.ID,
		inv.Status,
		inv.PaymentMethod,
		inv.BankAccountID,
		inv.RefundReason,
		inv.PaidAt,
		inv.RefundedAt,
		inv.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to update invoice",
			zap.Error(err),
			zap.String("invoice_id", inv.ID.String()),
		)
		return fmt.Errorf("update invoice %s: %w", inv.ID.String(), classify(err))
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("invoice %s not found", inv.ID.String())
	}

	return nil
}

func (r *invoiceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM invoices WHERE id = $1`, id)
	if err != nil {
		r.log.Error("Failed to delete invoice",
			zap.Error(err),
			zap.String("invoice_id", id.String()),
		)
		return fmt.Errorf("delete invoice %s: %w", id.String(), classify(err))
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("invoice %s not found", id.String())
	}

	return nil
}

func (r *invoiceRepository) NextNumber(ctx context.Context, day time.Time) (string, error) {
	query := `
		INSERT INTO invoice_counters (day, last_seq)
		VALUES ($1, 1)
		ON CONFLICT (day) DO UPDATE SET last_seq = invoice_counters.last_seq + 1
		RETURNING last_seq
	`

	var seq int64
	if err := r.db.QueryRow(ctx, query, day).Scan(&seq); err != nil {
		r.log.Error("Failed to allocate invoice number", zap.Error(err))
		return "", fmt.Errorf("allocate invoice number for %s: %w", day.Format(utils.DateLayout), classify(err))
	}

	return utils.FormatInvoiceNumber(day, seq), nil
}
