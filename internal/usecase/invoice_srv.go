package usecase

import (
	"context"
	"errors"
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

type InvoiceService interface {
	// GenerateInvoice returns the booking's existing non-refunded invoice
	// unchanged, or creates one.
	GenerateInvoice(ctx context.Context, req *request.GenerateInvoiceRequest) (*response.InvoiceResponse, error)
	GetInvoice(ctx context.Context, invoiceID string) (*response.InvoiceResponse, error)
	GetInvoiceByBooking(ctx context.Context, bookingID string) (*response.InvoiceResponse, error)
	ListInvoices(ctx context.Context, req *request.ListInvoicesRequest) (*response.PaginatedResponse[response.InvoiceResponse], error)
}

type invoiceService struct {
	repo   *repository.Repository
	scale  int32
	events events.Publisher
	now    func() time.Time
	log    *zap.Logger
}

func NewInvoiceService(repo *repository.Repository, config *utils.Config, pub events.Publisher, log *zap.Logger) InvoiceService {
	return &invoiceService{
		repo:   repo,
		scale:  config.Billing.AmountScale,
		events: pub,
		now:    time.Now,
		log:    log.With(zap.String("service", "invoice")),
	}
}

func (s *invoiceService) GenerateInvoice(ctx context.Context, req *request.GenerateInvoiceRequest) (*response.InvoiceResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, validationError(errs)
	}

	bookingID, err := parseID("booking", req.BookingID)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.Invoice.FindActiveByBooking(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("find invoice of booking %s: %w", bookingID, err)
	}
	if existing != nil {
		return s.toResponse(ctx, existing)
	}

	var created *entity.Invoice
	err = s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		// The booking row lock serializes generation with cancellation and
		// with concurrent generation for the same booking.
		booking, err := tx.Booking.FindByIDForUpdate(ctx, bookingID)
		if err != nil {
			return err
		}
		if booking == nil {
			return notFound("booking", bookingID)
		}
		if booking.Status == entity.BookingStatusCancelled {
			return fmt.Errorf("booking %s: %w", bookingID, ErrBookingAlreadyCancelled)
		}

		current, err := tx.Invoice.FindActiveByBooking(ctx, bookingID)
		if err != nil {
			return err
		}
		if current != nil {
			existing = current
			return nil
		}

		inv, err := s.build(ctx, tx, booking)
		if err != nil {
			return err
		}
		if err := tx.Invoice.Create(ctx, inv); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return ErrDuplicateInvoice
			}
			return err
		}
		created = inv
		return nil
	})

	if errors.Is(err, ErrDuplicateInvoice) {
		existing, err = s.repo.Invoice.FindActiveByBooking(ctx, bookingID)
		if err == nil && existing == nil {
			err = ErrDuplicateInvoice
		}
	}
	if err != nil {
		return nil, fmt.Errorf("generate invoice for booking %s: %w", bookingID, err)
	}

	if created == nil {
		return s.toResponse(ctx, existing)
	}

	s.log.Info("Invoice generated",
		zap.String("invoice_id", created.ID.String()),
		zap.String("number", created.Number),
		zap.String("booking_id", bookingID.String()),
		zap.String("amount", created.Amount.String()),
		zap.Int("billed_units", created.BilledUnits),
	)

	resp := response.InvoiceToResponse(created, nil)
	publish(ctx, s.events, s.log, events.InvoiceGenerated, resp)
	return &resp, nil
}

// build prices the booking and snapshots the customer and court as they are now.
func (s *invoiceService) build(ctx context.Context, tx *repository.Repository, booking *entity.Booking) (*entity.Invoice, error) {
	priceUnit, err := tx.PriceUnit.FindByID(ctx, booking.PriceUnitID)
	if err != nil {
		return nil, err
	}
	if priceUnit == nil {
		return nil, notFound("price unit", booking.PriceUnitID)
	}

	customer, err := tx.Customer.FindByID(ctx, booking.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, notFound("customer", booking.CustomerID)
	}

	court, err := tx.Court.FindByID(ctx, booking.CourtID)
	if err != nil {
		return nil, err
	}
	if court == nil {
		return nil, notFound("court", booking.CourtID)
	}

	now := s.now()
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	number, err := tx.Invoice.NextNumber(ctx, day)
	if err != nil {
		return nil, err
	}

	amount, units := entity.ChargeFor(priceUnit, booking.Interval(), s.scale)

	return &entity.Invoice{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Number:        number,
		BookingID:     booking.ID,
		InvoiceDate:   day,
		Amount:        amount,
		BilledUnits:   units,
		Status:        entity.InvoiceStatusPending,
		CustomerID:    customer.ID,
		CustomerName:  customer.FullName,
		CustomerPhone: customer.Phone,
		CustomerEmail: customer.Email,
		CourtID:       court.ID,
		CourtName:     court.Name,
	}, nil
}

func (s *invoiceService) GetInvoice(ctx context.Context, invoiceID string) (*response.InvoiceResponse, error) {
	id, err := parseID("invoice", invoiceID)
	if err != nil {
		return nil, err
	}

	inv, err := s.repo.Invoice.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	if inv == nil {
		return nil, notFound("invoice", id)
	}

	return s.toResponse(ctx, inv)
}

func (s *invoiceService) GetInvoiceByBooking(ctx context.Context, bookingID string) (*response.InvoiceResponse, error) {
	id, err := parseID("booking", bookingID)
	if err != nil {
		return nil, err
	}

	inv, err := s.repo.Invoice.FindActiveByBooking(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get invoice of booking: %w", err)
	}
	if inv == nil {
		return nil, notFound("invoice for booking", id)
	}

	return s.toResponse(ctx, inv)
}

func (s *invoiceService) ListInvoices(ctx context.Context, req *request.ListInvoicesRequest) (*response.PaginatedResponse[response.InvoiceResponse], error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, validationError(errs)
	}

	filter, err := invoiceFilter(req.Status, req.From, req.To)
	if err != nil {
		return nil, err
	}

	invoices, err := s.repo.Invoice.List(ctx, filter, req.Limit(), req.Offset())
	if err != nil {
		s.log.Error("Failed to list invoices", zap.Error(err))
		return nil, fmt.Errorf("list invoices: %w", err)
	}

	total, err := s.repo.Invoice.Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("count invoices: %w", err)
	}

	items := make([]response.InvoiceResponse, len(invoices))
	for i, inv := range invoices {
		items[i] = response.InvoiceToResponse(inv, nil)
	}

	return response.NewPaginatedResponse(items, req.Page, req.Limit(), total), nil
}

func (s *invoiceService) toResponse(ctx context.Context, inv *entity.Invoice) (*response.InvoiceResponse, error) {
	attempts, err := s.repo.PaymentAttempt.FindByInvoiceID(ctx, inv.ID)
	if err != nil {
		return nil, fmt.Errorf("load payment attempts: %w", err)
	}

	resp := response.InvoiceToResponse(inv, attempts)
	return &resp, nil
}

func invoiceFilter(status, from, to string) (repository.InvoiceFilter, error) {
	var filter repository.InvoiceFilter
	if status != "" {
		st := entity.InvoiceStatus(status)
		filter.Status = &st
	}
	if from != "" {
		d, err := utils.ParseDate(from)
		if err != nil {
			return filter, fmt.Errorf("%w: invalid from date %s", ErrValidation, from)
		}
		filter.From = &d
	}
	if to != "" {
		d, err := utils.ParseDate(to)
		if err != nil {
			return filter, fmt.Errorf("%w: invalid to date %s", ErrValidation, to)
		}
		filter.To = &d
	}
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return filter, fmt.Errorf("%w: to date %s is before from date %s", ErrValidation, to, from)
	}
	return filter, nil
}
