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
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PaymentDecision is the processor's verdict on one attempt.
type PaymentDecision struct {
	Approved bool
	Reason   string
}

// PaymentProcessor authorizes a settlement attempt with whatever sits behind
// the method (cash drawer, bank, e-wallet gateway). An error means the
// processor could not decide; the invoice is left untouched.
type PaymentProcessor interface {
	Authorize(ctx context.Context, invoice *entity.Invoice, attempt entity.PaymentAttempt) (PaymentDecision, error)
}

// AcceptingProcessor approves every attempt. Staff confirm payment at the
// counter before settling.
type AcceptingProcessor struct{}

func (AcceptingProcessor) Authorize(context.Context, *entity.Invoice, entity.PaymentAttempt) (PaymentDecision, error) {
	return PaymentDecision{Approved: true}, nil
}

type SettlementService interface {
	Settle(ctx context.Context, invoiceID string, req *request.SettleInvoiceRequest) (*response.InvoiceResponse, error)
	Refund(ctx context.Context, invoiceID string, req *request.RefundInvoiceRequest) (*response.InvoiceResponse, error)
}

type settlementService struct {
	repo      *repository.Repository
	processor PaymentProcessor
	events    events.Publisher
	log       *zap.Logger
}

func NewSettlementService(repo *repository.Repository, processor PaymentProcessor, pub events.Publisher, log *zap.Logger) SettlementService {
	if processor == nil {
		processor = AcceptingProcessor{}
	}
	return &settlementService{
		repo:      repo,
		processor: processor,
		events:    pub,
		log:       log.With(zap.String("service", "settlement")),
	}
}

// Settle runs one attempt against a pending or failed invoice. Only the full
// amount is accepted. A declined attempt leaves the invoice failed and is
// returned without error so the caller can show the status.
func (s *settlementService) Settle(ctx context.Context, invoiceID string, req *request.SettleInvoiceRequest) (*response.InvoiceResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Settle validation failed", zap.Any("errors", errs))
		return nil, validationError(errs)
	}

	id, err := parseID("invoice", invoiceID)
	if err != nil {
		return nil, err
	}
	tendered, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid amount %s", ErrValidation, req.Amount)
	}

	var accountID *uuid.UUID
	if req.BankAccountID != nil && *req.BankAccountID != "" {
		parsed, err := parseID("bank account", *req.BankAccountID)
		if err != nil {
			return nil, err
		}
		accountID = &parsed
	}
	attempt, err := entity.NewPaymentAttempt(entity.PaymentMethod(req.Method), accountID, req.Reference)
	if err != nil {
		return nil, fmt.Errorf("settle invoice %s: %w", id, err)
	}

	inv, err := s.repo.Invoice.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find invoice: %w", err)
	}
	if inv == nil {
		return nil, notFound("invoice", id)
	}
	if !inv.Settleable() {
		return nil, fmt.Errorf("%w: invoice %s is %s", ErrInvalidStateTransition, id, inv.Status)
	}

	if bank, ok := attempt.(entity.BankPayment); ok {
		acct, err := s.repo.BankAccount.FindByID(ctx, bank.AccountID)
		if err != nil {
			return nil, fmt.Errorf("find bank account: %w", err)
		}
		if acct == nil || !acct.IsActive {
			return nil, notFound("bank account", bank.AccountID)
		}
	}

	if !tendered.Equal(inv.Amount) {
		s.record(ctx, entity.NewAttemptRecord(inv.ID, attempt, tendered, entity.AttemptOutcomeRejected, "amount mismatch"))
		return nil, fmt.Errorf("%w: tendered %s, invoice %s is %s",
			ErrAmountMismatch, tendered, inv.Number, inv.Amount)
	}

	decision, err := s.processor.Authorize(ctx, inv, attempt)
	if err != nil {
		s.log.Error("Payment processor failed",
			zap.Error(err),
			zap.String("invoice_id", id.String()),
			zap.String("method", string(attempt.Method())),
		)
		return nil, fmt.Errorf("authorize payment for invoice %s: %w", id, err)
	}

	var settled *entity.Invoice
	err = s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		// booking first, then invoice, same order as cancellation
		booking, err := tx.Booking.FindByIDForUpdate(ctx, inv.BookingID)
		if err != nil {
			return err
		}
		if booking == nil || booking.Status == entity.BookingStatusCancelled {
			return ErrBookingAlreadyCancelled
		}

		current, err := tx.Invoice.FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if current == nil {
			return notFound("invoice", id)
		}
		if !current.Settleable() {
			return fmt.Errorf("%w: invoice %s is %s", ErrInvalidStateTransition, id, current.Status)
		}

		now := time.Now()
		method := attempt.Method()
		current.PaymentMethod = &method
		current.UpdatedAt = now

		outcome := entity.AttemptOutcomeFailed
		if decision.Approved {
			outcome = entity.AttemptOutcomePaid
			current.Status = entity.InvoiceStatusPaid
			current.PaidAt = &now
			current.BankAccountID = nil
			if bank, ok := attempt.(entity.BankPayment); ok {
				current.BankAccountID = &bank.AccountID
			}
		} else {
			current.Status = entity.InvoiceStatusFailed
		}

		if err := tx.Invoice.Update(ctx, current); err != nil {
			return err
		}
		if err := tx.PaymentAttempt.Create(ctx, entity.NewAttemptRecord(id, attempt, tendered, outcome, decision.Reason)); err != nil {
			return err
		}

		settled = current
		return nil
	})
	if errors.Is(err, ErrBookingAlreadyCancelled) {
		s.record(ctx, entity.NewAttemptRecord(id, attempt, tendered, entity.AttemptOutcomeRejected, "booking cancelled"))
	}
	if err != nil {
		return nil, fmt.Errorf("settle invoice %s: %w", id, err)
	}

	s.log.Info("Invoice settlement attempt",
		zap.String("invoice_id", id.String()),
		zap.String("method", string(attempt.Method())),
		zap.String("status", string(settled.Status)),
		zap.String("amount", tendered.String()),
	)

	attempts, err := s.repo.PaymentAttempt.FindByInvoiceID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load payment attempts: %w", err)
	}
	resp := response.InvoiceToResponse(settled, attempts)

	key := events.InvoicePaid
	if settled.Status == entity.InvoiceStatusFailed {
		key = events.InvoiceFailed
	}
	publish(ctx, s.events, s.log, key, resp)

	return &resp, nil
}

// Refund reverses a paid invoice. The booking and its slot are left alone.
func (s *settlementService) Refund(ctx context.Context, invoiceID string, req *request.RefundInvoiceRequest) (*response.InvoiceResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, validationError(errs)
	}

	id, err := parseID("invoice", invoiceID)
	if err != nil {
		return nil, err
	}

	var refunded *entity.Invoice
	err = s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		inv, err := tx.Invoice.FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if inv == nil {
			return notFound("invoice", id)
		}
		if inv.Status != entity.InvoiceStatusPaid {
			return fmt.Errorf("%w: cannot refund %s invoice", ErrInvalidStateTransition, inv.Status)
		}

		now := time.Now()
		reason := req.Reason
		inv.Status = entity.InvoiceStatusRefunded
		inv.RefundReason = &reason
		inv.RefundedAt = &now
		inv.UpdatedAt = now
		refunded = inv
		return tx.Invoice.Update(ctx, inv)
	})
	if err != nil {
		return nil, fmt.Errorf("refund invoice %s: %w", id, err)
	}

	s.log.Info("Invoice refunded",
		zap.String("invoice_id", id.String()),
		zap.String("reason", req.Reason),
	)

	resp := response.InvoiceToResponse(refunded, nil)
	publish(ctx, s.events, s.log, events.InvoiceRefunded, resp)
	return &resp, nil
}

// record appends a rejected attempt outside any transaction. Losing it is
// logged, not returned: the caller already has the real error.
func (s *settlementService) record(ctx context.Context, rec *entity.PaymentAttemptRecord) {
	if err := s.repo.PaymentAttempt.Create(ctx, rec); err != nil {
		s.log.Warn("Failed to record rejected payment attempt",
			zap.Error(err),
			zap.String("invoice_id", rec.InvoiceID.String()),
		)
	}
}
