package usecase

import (
	"errors"
	"fmt"

	"court-booking/internal/data/entity"
	"court-booking/pkg/utils"

	"github.com/google/uuid"
)

var (
	ErrValidation              = errors.New("validation failed")
	ErrInvalidRange            = errors.New("invalid time range")
	ErrConflict                = errors.New("slot conflict")
	ErrBusy                    = errors.New("slot busy, try again")
	ErrNotFound                = errors.New("not found")
	ErrInvalidStateTransition  = errors.New("invalid state transition")
	ErrDuplicateInvoice        = errors.New("duplicate invoice")
	ErrMissingBankAccount      = entity.ErrMissingBankAccount
	ErrAmountMismatch          = errors.New("amount mismatch")
	ErrBookingAlreadyCancelled = errors.New("booking already cancelled")
)

// ConflictError names the booking that already holds an overlapping interval.
// BookingID is uuid.Nil when the overlap was only detected by the store.
type ConflictError struct {
	BookingID uuid.UUID
}

func (e *ConflictError) Error() string {
	if e.BookingID == uuid.Nil {
		return ErrConflict.Error()
	}
	return fmt.Sprintf("%s with booking %s", ErrConflict, e.BookingID)
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

func validationError(errs map[string]string) error {
	return fmt.Errorf("%w: %s", ErrValidation, utils.FormatValidationErrors(errs))
}

func notFound(what string, id any) error {
	return fmt.Errorf("%s %v: %w", what, id, ErrNotFound)
}

func parseID(what, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: invalid %s ID format %s", ErrValidation, what, raw)
	}
	return id, nil
}
