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

type CourtAreaRepository interface {
	Create(ctx context.Context, area *entity.CourtArea) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.CourtArea, error)
	FindAll(ctx context.Context) ([]*entity.CourtArea, error)
}

type courtAreaRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewCourtAreaRepository(db database.Querier, log *zap.Logger) CourtAreaRepository {
	return &courtAreaRepository{
		db:  db,
		log: log.With(zap.String("repository", "court_area")),
	}
}

func (r *courtAreaRepository) Create(ctx context.Context, area *entity.CourtArea) error {
	query := `
		INSERT INTO court_areas (id, name, created_at, updated_at, created_by, updated_by)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.Exec(ctx, query,
		area.ID,
		area.Name,
		area.CreatedAt,
		area.UpdatedAt,
		area.CreatedBy,
		area.UpdatedBy,
	)
	if err != nil {
		r.log.Error("Failed to create court area",
			zap.Error(err),
			zap.String("name", area.Name),
		)
		return fmt.Errorf("create court area %s: %w", area.Name, classify(err))
	}

	return nil
}

func (r *courtAreaRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.CourtArea, error) {
	query := `
		SELECT id, name, created_at, updated_at, created_by, updated_by
		FROM court_areas
		WHERE id = $1
	`

	var area entity.CourtArea
	err := r.db.QueryRow(ctx, query, id).Scan(
		&area.ID,
		&area.Name,
		&area.CreatedAt,
		&area.UpdatedAt,
		&area.CreatedBy,
		&area.UpdatedBy,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find court area by ID",
			zap.Error(err),
			zap.String("area_id", id.String()),
		)
		return nil, fmt.Errorf("find court area by ID %s: %w", id.String(), err)
	}

	return &area, nil
}

// FindAll returns areas by name, without their courts.
func (r *courtAreaRepository) FindAll(ctx context.Context) ([]*entity.CourtArea, error) {
	query := `
		SELECT id, name, created_at, updated_at, created_by, updated_by
		FROM court_areas
		ORDER BY name
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.log.Error("Failed to get court areas", zap.Error(err))
		return nil, fmt.Errorf("find all court areas: %w", err)
	}
	defer rows.Close()

	var areas []*entity.CourtArea
	for rows.Next() {
		var area entity.CourtArea
		if err := rows.Scan(
			&area.ID,
			&area.Name,
			&area.CreatedAt,
			&area.UpdatedAt,
			&area.CreatedBy,
			&area.UpdatedBy,
		); err != nil {
			r.log.Error("Failed to scan court area row", zap.Error(err))
			return nil, fmt.Errorf("scan court area row: %w", err)
		}
		areas = append(areas, &area)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate court area rows: %w", err)
	}

	return areas, nil
}
