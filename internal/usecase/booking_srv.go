package usecase

import (
	"context"
	"fmt"
	"time"

	"court-booking/internal/data/entity"
	"court-booking/internal/data/repository"
	"court-booking/internal/dto/request"
	"court-booking/internal/dto/response"
	"court-booking/pkg/events"
	"court-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type BookingService interface {
	CreateBooking(ctx context.Context, req *request.CreateBookingRequest) (*response.BookingResponse, error)
	GetBooking(ctx context.Context, bookingID string) (*response.BookingResponse, error)
	ListBookings(ctx context.Context, req *request.ListBookingsRequest) (*response.PaginatedResponse[response.BookingResponse], error)
	CancelBooking(ctx context.Context, bookingID string) (*response.BookingResponse, error)

	// Admin status advances
	CheckIn(ctx context.Context, bookingID string) (*response.BookingResponse, error)
	Complete(ctx context.Context, bookingID string) (*response.BookingResponse, error)

	// AutoComplete completes every checked-in booking whose end is at or
	// before now. It returns how many bookings were completed.
	AutoComplete(ctx context.Context, now time.Time) (int, error)
}

type bookingService struct {
	repo   *repository.Repository
	slots  *SlotAllocator
	events events.Publisher
	log    *zap.Logger
}

func NewBookingService(repo *repository.Repository, slots *SlotAllocator, pub events.Publisher, log *zap.Logger) BookingService {
	return &bookingService{
		repo:   repo,
		slots:  slots,
		events: pub,
		log:    log.With(zap.String("service", "booking")),
	}
}

func (s *bookingService) CreateBooking(ctx context.Context, req *request.CreateBookingRequest) (*response.BookingResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create booking validation failed", zap.Any("errors", errs))
		return nil, validationError(errs)
	}

	customerID, err := parseID("customer", req.CustomerID)
	if err != nil {
		return nil, err
	}
	courtID, err := parseID("court", req.CourtID)
	if err != nil {
		return nil, err
	}
	priceUnitID, err := parseID("price unit", req.PriceUnitID)
	if err != nil {
		return nil, err
	}

	date, err := utils.ParseDate(req.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid date %s", ErrValidation, req.Date)
	}
	iv, err := parseInterval(req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}
	if err := s.slots.CheckRange(iv); err != nil {
		return nil, err
	}

	customer, err := s.repo.Customer.FindByID(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("find customer: %w", err)
	}
	if customer == nil {
		return nil, notFound("customer", customerID)
	}

	court, err := s.repo.Court.FindByID(ctx, courtID)
	if err != nil {
		return nil, fmt.Errorf("find court: %w", err)
	}
	if court == nil || !court.IsActive {
		return nil, notFound("court", courtID)
	}

	priceUnit, err := s.repo.PriceUnit.FindByID(ctx, priceUnitID)
	if err != nil {
		return nil, fmt.Errorf("find price unit: %w", err)
	}
	if priceUnit == nil || !priceUnit.IsActive {
		return nil, notFound("price unit", priceUnitID)
	}

	now := time.Now()
	booking := &entity.Booking{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		CourtID:     courtID,
		CustomerID:  customerID,
		PriceUnitID: priceUnitID,
		Date:        date,
		Start:       iv.Start,
		End:         iv.End,
		Status:      entity.BookingStatusReserved,
	}

	key := entity.SlotKey{CourtID: courtID, Date: date}
	_, err = s.slots.TryReserve(ctx, key, iv, func(ctx context.Context, tx *repository.Repository) (uuid.UUID, error) {
		if err := tx.Booking.Create(ctx, booking); err != nil {
			return uuid.Nil, err
		}
		return booking.ID, nil
	})
	if err != nil {
		s.log.Info("Booking not reserved",
			zap.Error(err),
			zap.String("court_id", courtID.String()),
			zap.String("date", req.Date),
			zap.String("interval", iv.String()),
		)
		return nil, fmt.Errorf("create booking: %w", err)
	}

	s.log.Info("Booking created",
		zap.String("booking_id", booking.ID.String()),
		zap.String("court_id", courtID.String()),
		zap.String("customer_id", customerID.String()),
		zap.String("date", req.Date),
		zap.String("interval", iv.String()),
	)

	resp := response.BookingToResponse(booking)
	publish(ctx, s.events, s.log, events.BookingCreated, resp)
	return &resp, nil
}

func (s *bookingService) GetBooking(ctx context.Context, bookingID string) (*response.BookingResponse, error) {
	id, err := parseID("booking", bookingID)
	if err != nil {
		return nil, err
	}

	booking, err := s.repo.Booking.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get booking: %w", err)
	}
	if booking == nil {
		return nil, notFound("booking", id)
	}

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

func (s *bookingService) ListBookings(ctx context.Context, req *request.ListBookingsRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, validationError(errs)
	}

	var filter repository.BookingFilter
	if req.CourtID != "" {
		id, err := parseID("court", req.CourtID)
		if err != nil {
			return nil, err
		}
		filter.CourtID = &id
	}
	if req.CustomerID != "" {
		id, err := parseID("customer", req.CustomerID)
		if err != nil {
			return nil, err
		}
		filter.CustomerID = &id
	}
	if req.Date != "" {
		d, err := utils.ParseDate(req.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid date %s", ErrValidation, req.Date)
		}
		filter.Date = &d
	}
	if req.Status != "" {
		status := entity.BookingStatus(req.Status)
		filter.Status = &status
	}

	bookings, err := s.repo.Booking.List(ctx, filter, req.Limit(), req.Offset())
	if err != nil {
		s.log.Error("Failed to list bookings", zap.Error(err))
		return nil, fmt.Errorf("list bookings: %w", err)
	}

	total, err := s.repo.Booking.Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("count bookings: %w", err)
	}

	items := make([]response.BookingResponse, len(bookings))
	for i, b := range bookings {
		items[i] = response.BookingToResponse(b)
	}

	return response.NewPaginatedResponse(items, req.Page, req.Limit(), total), nil
}

// CancelBooking is idempotent. It frees the slot and settles the invoice in
// the same transaction: an unpaid invoice is dropped, a paid one refunded.
func (s *bookingService) CancelBooking(ctx context.Context, bookingID string) (*response.BookingResponse, error) {
	id, err := parseID("booking", bookingID)
	if err != nil {
		return nil, err
	}

	var (
		booking   *entity.Booking
		refunded  *entity.Invoice
		cancelled bool
	)
	err = s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		// booking first, then invoice
		b, err := tx.Booking.FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if b == nil {
			return notFound("booking", id)
		}
		booking = b

		if b.Status == entity.BookingStatusCancelled {
			return nil
		}
		if !b.Status.CanTransition(entity.BookingStatusCancelled) {
			return fmt.Errorf("%w: cannot cancel %s booking", ErrInvalidStateTransition, b.Status)
		}

		now := time.Now()
		b.Status = entity.BookingStatusCancelled
		b.CancelledAt = &now
		b.UpdatedAt = now
		if err := tx.Booking.UpdateStatus(ctx, b); err != nil {
			return err
		}
		if err := s.slots.Release(ctx, tx, b.ID); err != nil {
			return err
		}

		inv, err := tx.Invoice.FindActiveByBookingForUpdate(ctx, b.ID)
		if err != nil {
			return err
		}
		switch {
		case inv == nil:
		case inv.Status == entity.InvoiceStatusPaid:
			reason := entity.RefundReasonBookingCancelled
			inv.Status = entity.InvoiceStatusRefunded
			inv.RefundReason = &reason
			inv.RefundedAt = &now
			inv.UpdatedAt = now
			if err := tx.Invoice.Update(ctx, inv); err != nil {
				return err
			}
			refunded = inv
		default:
			if err := tx.Invoice.Delete(ctx, inv.ID); err != nil {
				return err
			}
		}

		cancelled = true
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("cancel booking %s: %w", id, err)
	}

	resp := response.BookingToResponse(booking)
	if cancelled {
		s.log.Info("Booking cancelled",
			zap.String("booking_id", id.String()),
			zap.Bool("refunded", refunded != nil),
		)
		publish(ctx, s.events, s.log, events.BookingCancelled, resp)
		if refunded != nil {
			publish(ctx, s.events, s.log, events.InvoiceRefunded, response.InvoiceToResponse(refunded, nil))
		}
	}

	return &resp, nil
}

func (s *bookingService) CheckIn(ctx context.Context, bookingID string) (*response.BookingResponse, error) {
	return s.advance(ctx, bookingID, entity.BookingStatusCheckedIn)
}

func (s *bookingService) Complete(ctx context.Context, bookingID string) (*response.BookingResponse, error) {
	return s.advance(ctx, bookingID, entity.BookingStatusCompleted)
}

func (s *bookingService) advance(ctx context.Context, bookingID string, to entity.BookingStatus) (*response.BookingResponse, error) {
	id, err := parseID("booking", bookingID)
	if err != nil {
		return nil, err
	}

	var booking *entity.Booking
	err = s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		b, err := tx.Booking.FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if b == nil {
			return notFound("booking", id)
		}
		if !b.Status.CanTransition(to) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidStateTransition, b.Status, to)
		}

		b.Status = to
		b.UpdatedAt = time.Now()
		booking = b
		return tx.Booking.UpdateStatus(ctx, b)
	})
	if err != nil {
		return nil, fmt.Errorf("move booking %s to %s: %w", id, to, err)
	}

	s.log.Info("Booking status changed",
		zap.String("booking_id", id.String()),
		zap.String("status", string(to)),
	)

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

func (s *bookingService) AutoComplete(ctx context.Context, now time.Time) (int, error) {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	minute := entity.Clock(now.Hour()*60 + now.Minute())

	finished, err := s.repo.Booking.FindCheckedInEndedBy(ctx, day, minute)
	if err != nil {
		return 0, fmt.Errorf("find finished bookings: %w", err)
	}

	completed := 0
	for _, b := range finished {
		if _, err := s.Complete(ctx, b.ID.String()); err != nil {
			// someone else moved it in the meantime
			s.log.Warn("Auto-complete skipped booking",
				zap.String("booking_id", b.ID.String()),
				zap.Error(err),
			)
			continue
		}
		completed++
	}

	return completed, nil
}

func parseInterval(start, end string) (entity.Interval, error) {
	from, err := entity.ParseClock(start)
	if err != nil {
		return entity.Interval{}, fmt.Errorf("%w: %v", ErrInvalidRange, err)
	}
	to, err := entity.ParseClock(end)
	if err != nil {
		return entity.Interval{}, fmt.Errorf("%w: %v", ErrInvalidRange, err)
	}
	return entity.Interval{Start: from, End: to}, nil
}
