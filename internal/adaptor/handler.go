package adaptor

import (
	"context"
	"errors"
	"net/http"

	"court-booking/internal/usecase"
	"court-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Handler struct {
	Booking     *BookingHandler
	Invoice     *InvoiceHandler
	PriceUnit   *PriceUnitHandler
	Court       *CourtHandler
	BankAccount *BankAccountHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Booking:     NewBookingHandler(service.Booking, log),
		Invoice:     NewInvoiceHandler(service.Invoice, service.Settlement, service.Export, log),
		PriceUnit:   NewPriceUnitHandler(service.PriceUnit, log),
		Court:       NewCourtHandler(service.Court, log),
		BankAccount: NewBankAccountHandler(service.BankAccount, log),
	}
}

// handleServiceError maps usecase errors onto HTTP statuses.
func handleServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	var conflict *usecase.ConflictError

	switch {
	case errors.As(err, &conflict):
		log.Info(operation+" failed - slot taken", zap.Error(err))
		var data map[string]string
		if conflict.BookingID != uuid.Nil {
			data = map[string]string{"conflicting_booking_id": conflict.BookingID.String()}
		}
		utils.ResponseConflict(w, err.Error(), data)

	case errors.Is(err, usecase.ErrValidation),
		errors.Is(err, usecase.ErrInvalidRange),
		errors.Is(err, usecase.ErrMissingBankAccount):
		log.Warn(operation+" validation failed", zap.Error(err))
		utils.ResponseBadRequest(w, err.Error(), nil)

	case errors.Is(err, usecase.ErrNotFound):
		log.Warn(operation+" failed - not found", zap.Error(err))
		utils.ResponseNotFound(w, err.Error())

	case errors.Is(err, usecase.ErrInvalidStateTransition),
		errors.Is(err, usecase.ErrBookingAlreadyCancelled),
		errors.Is(err, usecase.ErrDuplicateInvoice):
		log.Warn(operation+" failed - invalid state", zap.Error(err))
		utils.ResponseConflict(w, err.Error(), nil)

	case errors.Is(err, usecase.ErrAmountMismatch):
		log.Warn(operation+" failed - amount mismatch", zap.Error(err))
		utils.ResponseUnprocessable(w, err.Error())

	case errors.Is(err, usecase.ErrBusy):
		log.Warn(operation+" failed - busy", zap.Error(err))
		utils.ResponseBusy(w, "Court is busy, please retry")

	case errors.Is(err, context.Canceled):
		log.Info(operation+" cancelled by client", zap.Error(err))

	default:
		log.Error("Failed to "+operation, zap.Error(err))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
