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

type PriceUnitRepository interface {
	Create(ctx context.Context, pu *entity.PriceUnit) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.PriceUnit, error)
	FindByName(ctx context.Context, name string) (*entity.PriceUnit, error)
	FindAll(ctx context.Context, activeOnly bool) ([]*entity.PriceUnit, error)
	Update(ctx context.Context, pu *entity.PriceUnit) error
	Delete(ctx context.Context, id uuid.UUID) error

	// IsReferenced reports whether any booking was priced with the unit.
	IsReferenced(ctx context.Context, id uuid.UUID) (bool, error)
}

type priceUnitRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewPriceUnitRepository(db database.Querier, log *zap.Logger) PriceUnitRepository {
	return &priceUnitRepository{
		db:  db,
		log: log.With(zap.String("repository", "price_unit")),
	}
}

const priceUnitColumns = `id, name, rate, increment_minutes, is_active, retired_at,
		created_at, updated_at, created_by, updated_by`

func scanPriceUnit(row pgx.Row) (*entity.PriceUnit, error) {
	var pu entity.PriceUnit
	err := row.Scan(
		&pu.ID,
		&pu.Name,
		&pu.Rate,
		&pu.IncrementMinutes,
		&pu.IsActive,
		&pu.RetiredAt,
		&pu.CreatedAt,
		&pu.UpdatedAt,
		&pu.CreatedBy,
		&pu.UpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &pu, nil
}

func (r *priceUnitRepository) Create(ctx context.Context, pu *entity.PriceUnit) error {
	query := `
		INSERT INTO price_units (` + priceUnitColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.Exec(ctx, query,
		pu.ID,
		pu.Name,
		pu.Rate,
		pu.IncrementMinutes,
		pu.IsActive,
		pu.RetiredAt,
		pu.CreatedAt,
		pu.UpdatedAt,
		pu.CreatedBy,
		pu.UpdatedBy,
	)
	if err != nil {
		r.log.Error("Failed to create price unit",
			zap.Error(err),
			zap.String("name", pu.Name),
		)
		return fmt.Errorf("create price unit %s: %w", pu.Name, classify(err))
	}

	return nil
}

func (r *priceUnitRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.PriceUnit, error) {
	query := `SELECT ` + priceUnitColumns + ` FROM price_units WHERE id = $1`

	pu, err := scanPriceUnit(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find price unit by ID",
			zap.Error(err),
			zap.String("price_unit_id", id.String()),
		)
		return nil, fmt.Errorf("find price unit by ID %s: %w", id.String(), err)
	}

	return pu, nil
}

// FindByName matches case-insensitively, the same way the unique index does.
func (r *priceUnitRepository) FindByName(ctx context.Context, name string) (*entity.PriceUnit, error) {
	query := `SELECT ` + priceUnitColumns + ` FROM price_units WHERE lower(name) = lower($1)`

	pu, err := scanPriceUnit(r.db.QueryRow(ctx, query, name))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find price unit by name",
			zap.Error(err),
			zap.String("name", name),
		)
		return nil, fmt.Errorf("find price unit by name %s: %w", name, err)
	}

	return pu, nil
}

func (r *priceUnitRepository) FindAll(ctx context.Context, activeOnly bool) ([]*entity.PriceUnit, error) {
	query := `
		SELECT ` + priceUnitColumns + `
		FROM price_units
		WHERE ($1 = false OR is_active)
		ORDER BY name
	`

	rows, err := r.db.Query(ctx, query, activeOnly)
	if err != nil {
		r.log.Error("Failed to get price units", zap.Error(err))
		return nil, fmt.Errorf("find all price units: %w", err)
	}
	defer rows.Close()

	var units []*entity.PriceUnit
	for rows.Next() {
		pu, err := scanPriceUnit(rows)
		if err != nil {
			r.log.Error("Failed to scan price unit row", zap.Error(err))
			return nil, fmt.Errorf("scan price unit row: %w", err)
		}
		units = append(units, pu)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate price unit rows: %w", err)
	}

	return units, nil
}

func (r *priceUnitRepository) Update(ctx context.Context, pu *entity.PriceUnit) error {
	query := `
		UPDATE price_units
		SET name = $2, rate = $3, increment_minutes = $4, is_active = $5,
		    retired_at = $6, updated_at = $7, updated_by = $8
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		pu.ID,
		pu.Name,
		pu.Rate,
		pu.IncrementMinutes,
		pu.IsActive,
		pu.RetiredAt,
		pu.UpdatedAt,
		pu.UpdatedBy,
	)
	if err != nil {
		r.log.Error("Failed to update price unit",
			zap.Error(err),
			zap.String("price_unit_id", pu.ID.String()),
		)
		return fmt.Errorf("update price unit %s: %w", pu.ID.String(), classify(err))
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("price unit %s not found", pu.ID.String())
	}

	return nil
}

func (r *priceUnitRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM price_units WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("delete price unit %s: %w", id.String(), ErrReferenced)
		}
		r.log.Error("Failed to delete price unit",
			zap.Error(err),
			zap.String("price_unit_id", id.String()),
		)
		return fmt.Errorf("delete price unit %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("price unit %s not found", id.String())
	}

	r.log.Info("Price unit deleted", zap.String("price_unit_id", id.String()))
	return nil
}

func (r *priceUnitRepository) IsReferenced(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM bookings WHERE price_unit_id = $1)`

	var referenced bool
	if err := r.db.QueryRow(ctx, query, id).Scan(&referenced); err != nil {
		r.log.Error("Failed to check price unit references",
			zap.Error(err),
			zap.String("price_unit_id", id.String()),
		)
		return false, fmt.Errorf("check price unit %s references: %w", id.String(), err)
	}

	return referenced, nil
}
