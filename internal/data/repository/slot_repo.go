package repository

import (
	"context"
	"errors"
	"fmt"

	"court-booking/internal/data/entity"
	"court-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// SlotRepository stores committed intervals. The court_slots exclusion
// constraint rejects overlapping rows for the same court and day, so Create
// fails with ErrOverlap even when two writers race past FindOverlapping.
type SlotRepository interface {
	Create(ctx context.Context, slot *entity.Slot) error
	// FindOverlapping returns one committed interval on key that overlaps iv,
	// locking it for the rest of the transaction.
	FindOverlapping(ctx context.Context, key entity.SlotKey, iv entity.Interval) (*entity.Slot, error)
	ListByKey(ctx context.Context, key entity.SlotKey) ([]*entity.Slot, error)
	DeleteByBookingID(ctx context.Context, bookingID uuid.UUID) error
}

type slotRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewSlotRepository(db database.Querier, log *zap.Logger) SlotRepository {
	return &slotRepository{
		db:  db,
		log: log.With(zap.String("repository", "slot")),
	}
}

func (r *slotRepository) Create(ctx context.Context, slot *entity.Slot) error {
	query := `
		INSERT INTO court_slots (id, booking_id, court_id, play_date, start_minute, end_minute, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.Exec(ctx, query,
		slot.ID,
		slot.BookingID,
		slot.CourtID,
		slot.Date,
		int(slot.Start),
		int(slot.End),
		slot.CreatedAt,
	)
	if err != nil {
		err = classify(err)
		if errors.Is(err, ErrOverlap) {
			r.log.Info("Slot rejected by exclusion constraint",
				zap.String("court_id", slot.CourtID.String()),
				zap.String("interval", slot.Interval().String()),
			)
		} else {
			r.log.Error("Failed to create slot",
				zap.Error(err),
				zap.String("booking_id", slot.BookingID.String()),
			)
		}
		return fmt.Errorf("create slot for booking %s: %w", slot.BookingID.String(), err)
	}

	return nil
}

func (r *slotRepository) FindOverlapping(ctx context.Context, key entity.SlotKey, iv entity.Interval) (*entity.Slot, error) {
	query := `
		SELECT id, booking_id, court_id, play_date, start_minute, end_minute, created_at
		FROM court_slots
		WHERE court_id = $1
		  AND play_date = $2
		  AND start_minute < $4
		  AND end_minute > $3
		ORDER BY start_minute
		LIMIT 1
		FOR UPDATE
	`

	var s entity.Slot
	err := r.db.QueryRow(ctx, query, key.CourtID, key.Date, int(iv.Start), int(iv.End)).Scan(
		&s.ID,
		&s.BookingID,
		&s.CourtID,
		&s.Date,
		&s.Start,
		&s.End,
		&s.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to check overlapping slots",
			zap.Error(err),
			zap.String("key", key.String()),
		)
		return nil, fmt.Errorf("find overlapping slot %s %s: %w", key, iv, classify(err))
	}

	return &s, nil
}

func (r *slotRepository) ListByKey(ctx context.Context, key entity.SlotKey) ([]*entity.Slot, error) {
	query := `
		SELECT id, booking_id, court_id, play_date, start_minute, end_minute, created_at
		FROM court_slots
		WHERE court_id = $1 AND play_date = $2
		ORDER BY start_minute
	`

	rows, err := r.db.Query(ctx, query, key.CourtID, key.Date)
	if err != nil {
		r.log.Error("Failed to list slots",
			zap.Error(err),
			zap.String("key", key.String()),
		)
		return nil, fmt.Errorf("list slots %s: %w", key, err)
	}
	defer rows.Close()

	var slots []*entity.Slot
	for rows.Next() {
		var s entity.Slot
		if err := rows.Scan(&s.ID, &s.BookingID, &s.CourtID, &s.Date, &s.Start, &s.End, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan slot row: %w", err)
		}
		slots = append(slots, &s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate slot rows: %w", err)
	}

	return slots, nil
}

// DeleteByBookingID is a no-op when the booking holds no slot.
func (r *slotRepository) DeleteByBookingID(ctx context.Context, bookingID uuid.UUID) error {
	query := `DELETE FROM court_slots WHERE booking_id = $1`

	if _, err := r.db.Exec(ctx, query, bookingID); err != nil {
		r.log.Error("Failed to delete slot",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
		)
		return fmt.Errorf("delete slot for booking %s: %w", bookingID.String(), classify(err))
	}

	return nil
}
