package usecase

import (
	"context"

	"court-booking/internal/data/repository"
	"court-booking/pkg/events"
	"court-booking/pkg/lock"
	"court-booking/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Booking     BookingService
	Invoice     InvoiceService
	Settlement  SettlementService
	PriceUnit   PriceUnitService
	Court       CourtService
	BankAccount BankAccountService
	Export      ExportService
}

func NewService(repo *repository.Repository, config *utils.Config, locker lock.Locker, pub events.Publisher, processor PaymentProcessor, log *zap.Logger) (*Service, error) {
	slots, err := NewSlotAllocator(repo, locker, config, log)
	if err != nil {
		return nil, err
	}

	return &Service{
		Booking:     NewBookingService(repo, slots, pub, log),
		Invoice:     NewInvoiceService(repo, config, pub, log),
		Settlement:  NewSettlementService(repo, processor, pub, log),
		PriceUnit:   NewPriceUnitService(repo, config, log),
		Court:       NewCourtService(repo, slots, log),
		BankAccount: NewBankAccountService(repo, log),
		Export:      NewExportService(repo, log),
	}, nil
}

// publish sends an event after the state change committed. Failures are
// logged only: the broker is not part of the transaction.
func publish(ctx context.Context, pub events.Publisher, log *zap.Logger, key string, payload any) {
	if pub == nil {
		return
	}
	if err := pub.Publish(ctx, key, payload); err != nil {
		log.Warn("Failed to publish event",
			zap.String("event", key),
			zap.Error(err),
		)
	}
}
