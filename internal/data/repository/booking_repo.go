package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"court-booking/internal/data/entity"
	"court-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// BookingFilter narrows ListBookings. Nil fields do not filter.
type BookingFilter struct {
	CourtID    *uuid.UUID
	CustomerID *uuid.UUID
	Date       *time.Time
	Status     *entity.BookingStatus
}

type BookingRepository interface {
	Create(ctx context.Context, booking *entity.Booking) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	// FindByIDForUpdate locks the booking row until the transaction ends.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	List(ctx context.Context, filter BookingFilter, limit, offset int) ([]*entity.Booking, error)
	Count(ctx context.Context, filter BookingFilter) (int64, error)
	UpdateStatus(ctx context.Context, booking *entity.Booking) error

	// FindCheckedInEndedBy returns checked-in bookings that finished on or
	// before minute on day, or on any earlier day.
	FindCheckedInEndedBy(ctx context.Context, day time.Time, minute entity.Clock) ([]*entity.Booking, error)
}

type bookingRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewBookingRepository(db database.Querier, log *zap.Logger) BookingRepository {
	return &bookingRepository{
		db:  db,
		log: log.With(zap.String("repository", "booking")),
	}
}

const bookingColumns = `id, court_id, customer_id, price_unit_id, play_date, start_minute, end_minute,
		status, cancelled_at, created_at, updated_at`

func scanBooking(row pgx.Row) (*entity.Booking, error) {
	var b entity.Booking
	err := row.Scan(
		&b.ID,
		&b.CourtID,
		&b.CustomerID,
		&b.PriceUnitID,
		&b.Date,
		&b.Start,
		&b.End,
		&b.Status,
		&b.CancelledAt,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *bookingRepository) Create(ctx context.Context, booking *entity.Booking) error {
	query := `
		INSERT INTO bookings (` + bookingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.db.Exec(ctx, query,
		booking.ID,
		booking.CourtID,
		booking.CustomerID,
		booking.PriceUnitID,
		booking.Date,
		int(booking.Start),
		int(booking.End),
		booking.Status,
		booking.CancelledAt,
		booking.CreatedAt,
		booking.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create booking",
			zap.Error(err),
			zap.String("booking_id", booking.ID.String()),
			zap.String("court_id", booking.CourtID.String()),
		)
		return fmt.Errorf("create booking %s: %w", booking.ID.String(), classify(err))
	}

	return nil
}

func (r *bookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	return r.findByID(ctx, id, "")
}

func (r *bookingRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	return r.findByID(ctx, id, " FOR UPDATE")
}

func (r *bookingRepository) findByID(ctx context.Context, id uuid.UUID, suffix string) (*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1` + suffix

	booking, err := scanBooking(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking by ID",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return nil, fmt.Errorf("find booking by ID %s: %w", id.String(), classify(err))
	}

	return booking, nil
}

func bookingWhere(filter BookingFilter) (string, []any) {
	var conds []string
	var args []any
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if filter.CourtID != nil {
		add("court_id = $%d", *filter.CourtID)
	}
	if filter.CustomerID != nil {
		add("customer_id = $%d", *filter.CustomerID)
	}
	if filter.Date != nil {
		add("play_date = $%d", *filter.Date)
	}
	if filter.Status != nil {
		add("status = $%d", *filter.Status)
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (r *bookingRepository) List(ctx context.Context, filter BookingFilter, limit, offset int) ([]*entity.Booking, error) {
	where, args := bookingWhere(filter)
	args = append(args, limit, offset)
	query := fmt.Sprintf(`SELECT %s FROM bookings%s ORDER BY play_date DESC, start_minute LIMIT $%d OFFSET $%d`,
		bookingColumns, where, len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to list bookings",
			zap.Error(err),
			zap.Int("limit", limit),
			zap.Int("offset", offset),
		)
		return nil, fmt.Errorf("list bookings limit %d offset %d: %w", limit, offset, err)
	}
	defer rows.Close()

	return collectBookings(rows)
}

func (r *bookingRepository) Count(ctx context.Context, filter BookingFilter) (int64, error) {
	where, args := bookingWhere(filter)
	query := `SELECT COUNT(*) FROM bookings` + where

	var count int64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		r.log.Error("Database error counting bookings", zap.Error(err))
		return 0, fmt.Errorf("count bookings: %w", err)
	}

	return count, nil
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, booking *entity.Booking) error {
	query := `
		UPDATE bookings
		SET status = $2, cancelled_at = $3, updated_at = $4
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		booking.ID,
		booking.Status,
		booking.CancelledAt,
		booking.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to update booking status",
			zap.Error(err),
			zap.String("booking_id", booking.ID.String()),
			zap.String("status", string(booking.Status)),
		)
		return fmt.Errorf("update booking %s status: %w", booking.ID.String(), classify(err))
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("booking %s not found", booking.ID.String())
	}

	return nil
}

func (r *bookingRepository) FindCheckedInEndedBy(ctx context.Context, day time.Time, minute entity.Clock) ([]*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE status = $1
		  AND (play_date < $2 OR (play_date = $2 AND end_minute <= $3))
		ORDER BY play_date, end_minute
	`

	rows, err := r.db.Query(ctx, query, entity.BookingStatusCheckedIn, day, int(minute))
	if err != nil {
		r.log.Error("Failed to find finished bookings", zap.Error(err))
		return nil, fmt.Errorf("find checked-in bookings ended by %s %s: %w",
			day.Format("2006-01-02"), minute, err)
	}
	defer rows.Close()

	return collectBookings(rows)
}

func collectBookings(rows pgx.Rows) ([]*entity.Booking, error) {
	var bookings []*entity.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking row: %w", err)
		}
		bookings = append(bookings, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate booking rows: %w", err)
	}

	return bookings, nil
}
