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

// CustomerRepository is read-only: customers belong to the identity subsystem.
type CustomerRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error)
}

type customerRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewCustomerRepository(db database.Querier, log *zap.Logger) CustomerRepository {
	return &customerRepository{
		db:  db,
		log: log.With(zap.String("repository", "customer")),
	}
}

func (r *customerRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	query := `
		SELECT id, full_name, phone, email
		FROM customers
		WHERE id = $1 AND deleted_at IS NULL
	`

	var c entity.Customer
	err := r.db.QueryRow(ctx, query, id).Scan(&c.ID, &c.FullName, &c.Phone, &c.Email)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find customer by ID",
			zap.Error(err),
			zap.String("customer_id", id.String()),
		)
		return nil, fmt.Errorf("find customer by ID %s: %w", id.String(), err)
	}

	return &c, nil
}
