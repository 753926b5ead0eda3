package repository

import (
	"context"
	"fmt"

	"court-booking/internal/data/entity"
	"court-booking/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PaymentAttemptRepository is the append-only settlement log.
type PaymentAttemptRepository interface {
	Create(ctx context.Context, rec *entity.PaymentAttemptRecord) error
	FindByInvoiceID(ctx context.Context, invoiceID uuid.UUID) ([]*entity.PaymentAttemptRecord, error)
}

type paymentAttemptRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewPaymentAttemptRepository(db database.Querier, log *zap.Logger) PaymentAttemptRepository {
	return &paymentAttemptRepository{
		db:  db,
		log: log.With(zap.String("repository", "payment_attempt")),
	}
}

func (r *paymentAttemptRepository) Create(ctx context.Context, rec *entity.PaymentAttemptRecord) error {
	query := `
		INSERT INTO payment_attempts (id, invoice_id, method, amount, bank_account_id,
		                              reference, outcome, reason, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.Exec(ctx, query,
		rec.ID,
		rec.InvoiceID,
		rec.Method,
		rec.Amount,
		rec.BankAccountID,
		rec.Reference,
		rec.Outcome,
		rec.Reason,
		rec.CreatedAt,
	)
	if err != nil {
		r.log.Error("Failed to record payment attempt",
			zap.Error(err),
			zap.String("invoice_id", rec.InvoiceID.String()),
			zap.String("method", string(rec.Method)),
		)
		return fmt.Errorf("record payment attempt for invoice %s: %w", rec.InvoiceID.String(), classify(err))
	}

	return nil
}

func (r *paymentAttemptRepository) FindByInvoiceID(ctx context.Context, invoiceID uuid.UUID) ([]*entity.PaymentAttemptRecord, error) {
	query := `
		SELECT id, invoice_id, method, amount, bank_account_id, reference, outcome, reason, created_at
		FROM payment_attempts
		WHERE invoice_id = $1
		ORDER BY created_at
	`

	rows, err := r.db.Query(ctx, query, invoiceID)
	if err != nil {
		r.log.Error("Failed to list payment attempts",
			zap.Error(err),
			zap.String("invoice_id", invoiceID.String()),
		)
		return nil, fmt.Errorf("list payment attempts for invoice %s: %w", invoiceID.String(), err)
	}
	defer rows.Close()

	var records []*entity.PaymentAttemptRecord
	for rows.Next() {
		var rec entity.PaymentAttemptRecord
		if err := rows.Scan(
			&rec.ID,
			&rec.InvoiceID,
			&rec.Method,
			&rec.Amount,
			&rec.BankAccountID,
			&rec.Reference,
			&rec.Outcome,
			&rec.Reason,
			&rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan payment attempt row: %w", err)
		}
		records = append(records, &rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate payment attempt rows: %w", err)
	}

	return records, nil
}
