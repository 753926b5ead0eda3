package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"court-booking/internal/data/entity"
	"court-booking/internal/data/repository"
	"court-booking/pkg/lock"
	"court-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ClaimFunc persists the owner of a slot inside the reservation transaction,
// after the overlap check passed, and returns the owning booking id.
type ClaimFunc func(ctx context.Context, tx *repository.Repository) (uuid.UUID, error)

// SlotBlock is one piece of a court's day: either free or held by a booking.
type SlotBlock struct {
	entity.Interval
	BookingID *uuid.UUID
}

func (b SlotBlock) Free() bool { return b.BookingID == nil }

// SlotAllocator hands out non-overlapping intervals per (court, date).
//
// The check and the insert run under a keyed lock for the (court, date) pair
// and inside one transaction. The court_slots exclusion constraint backs the
// lock up across instances.
type SlotAllocator struct {
	repo    *repository.Repository
	locker  lock.Locker
	window  entity.Interval
	retries int
	backoff time.Duration
	log     *zap.Logger
}

func NewSlotAllocator(repo *repository.Repository, locker lock.Locker, config *utils.Config, log *zap.Logger) (*SlotAllocator, error) {
	window, err := operatingWindow(config.Booking)
	if err != nil {
		return nil, err
	}

	return &SlotAllocator{
		repo:    repo,
		locker:  locker,
		window:  window,
		retries: config.Lock.Retries,
		backoff: config.Lock.Backoff,
		log:     log.With(zap.String("service", "slot_allocator")),
	}, nil
}

func operatingWindow(cfg utils.BookingConfig) (entity.Interval, error) {
	from, err := entity.ParseClock(cfg.OpenFrom)
	if err != nil {
		return entity.Interval{}, fmt.Errorf("parse OPEN_FROM: %w", err)
	}
	to, err := entity.ParseClock(cfg.OpenTo)
	if err != nil {
		return entity.Interval{}, fmt.Errorf("parse OPEN_TO: %w", err)
	}
	if from >= to {
		return entity.Interval{}, fmt.Errorf("operating window %s-%s is empty", cfg.OpenFrom, cfg.OpenTo)
	}
	return entity.Interval{Start: from, End: to}, nil
}

// Window returns the operating hours every reservation must fit in.
func (a *SlotAllocator) Window() entity.Interval {
	return a.window
}

// CheckRange rejects empty, reversed or out-of-hours intervals.
func (a *SlotAllocator) CheckRange(iv entity.Interval) error {
	if iv.Start >= iv.End {
		return fmt.Errorf("%w: start %s must be before end %s", ErrInvalidRange, iv.Start, iv.End)
	}
	if iv.End > entity.EndOfDay {
		return fmt.Errorf("%w: %s crosses midnight", ErrInvalidRange, iv)
	}
	if !iv.Within(a.window) {
		return fmt.Errorf("%w: %s is outside operating hours %s", ErrInvalidRange, iv, a.window)
	}
	return nil
}

// TryReserve commits iv on key for the booking written by claim. It returns
// a *ConflictError when a non-cancelled booking already overlaps iv, and
// ErrBusy when the key stayed locked through every retry.
func (a *SlotAllocator) TryReserve(ctx context.Context, key entity.SlotKey, iv entity.Interval, claim ClaimFunc) (*entity.Slot, error) {
	if err := a.CheckRange(iv); err != nil {
		return nil, err
	}

	for attempt := 0; ; attempt++ {
		slot, err := a.reserveOnce(ctx, key, iv, claim)
		if err == nil {
			return slot, nil
		}
		if !errors.Is(err, lock.ErrTimeout) && !errors.Is(err, repository.ErrRetryable) {
			return nil, err
		}

		if attempt >= a.retries {
			a.log.Warn("Slot key stayed busy",
				zap.String("key", key.String()),
				zap.Int("attempts", attempt+1),
				zap.Error(err),
			)
			return nil, fmt.Errorf("reserve %s %s: %w", key, iv, ErrBusy)
		}

		// linear backoff
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(time.Duration(attempt+1) * a.backoff):
		}
	}
}

func (a *SlotAllocator) reserveOnce(ctx context.Context, key entity.SlotKey, iv entity.Interval, claim ClaimFunc) (*entity.Slot, error) {
	release, err := a.locker.Acquire(ctx, key.String())
	if err != nil {
		return nil, err
	}
	defer release()

	var slot *entity.Slot
	err = a.repo.WithTx(ctx, func(tx *repository.Repository) error {
		existing, err := tx.Slot.FindOverlapping(ctx, key, iv)
		if err != nil {
			return err
		}
		if existing != nil {
			return &ConflictError{BookingID: existing.BookingID}
		}

		bookingID, err := claim(ctx, tx)
		if err != nil {
			return err
		}

		slot = &entity.Slot{
			BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: time.Now()},
			BookingID:  bookingID,
			CourtID:    key.CourtID,
			Date:       key.Date,
			Start:      iv.Start,
			End:        iv.End,
		}
		return tx.Slot.Create(ctx, slot)
	})

	if errors.Is(err, repository.ErrOverlap) {
		// Another instance committed between our check and insert. The
		// transaction is gone, so look up the winner on the pool.
		conflict := &ConflictError{}
		if winner, ferr := a.repo.Slot.FindOverlapping(ctx, key, iv); ferr == nil && winner != nil {
			conflict.BookingID = winner.BookingID
		}
		return nil, conflict
	}
	if err != nil {
		return nil, err
	}

	return slot, nil
}

// Release frees the interval held by bookingID. It runs on tx so that the
// slot disappears together with the booking status change.
func (a *SlotAllocator) Release(ctx context.Context, tx *repository.Repository, bookingID uuid.UUID) error {
	if err := tx.Slot.DeleteByBookingID(ctx, bookingID); err != nil {
		return fmt.Errorf("release slot of booking %s: %w", bookingID, err)
	}
	return nil
}

// Availability splits the operating window of key into ordered free and
// occupied blocks.
func (a *SlotAllocator) Availability(ctx context.Context, key entity.SlotKey) ([]SlotBlock, error) {
	slots, err := a.repo.Slot.ListByKey(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("list slots %s: %w", key, err)
	}

	var blocks []SlotBlock
	cursor := a.window.Start
	for _, s := range slots {
		start, end := max(s.Start, a.window.Start), min(s.End, a.window.End)
		if start >= end {
			continue
		}
		if cursor < start {
			blocks = append(blocks, SlotBlock{Interval: entity.Interval{Start: cursor, End: start}})
		}
		id := s.BookingID
		blocks = append(blocks, SlotBlock{Interval: entity.Interval{Start: start, End: end}, BookingID: &id})
		cursor = max(cursor, end)
	}
	if cursor < a.window.End {
		blocks = append(blocks, SlotBlock{Interval: entity.Interval{Start: cursor, End: a.window.End}})
	}

	return blocks, nil
}
