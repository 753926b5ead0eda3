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

type CourtRepository interface {
	Create(ctx context.Context, court *entity.Court) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Court, error)
	// FindAll returns every court ordered by area then position.
	FindAll(ctx context.Context) ([]*entity.Court, error)
	Update(ctx context.Context, court *entity.Court) error
}

type courtRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewCourtRepository(db database.Querier, log *zap.Logger) CourtRepository {
	return &courtRepository{
		db:  db,
		log: log.With(zap.String("repository", "court")),
	}
}

const courtColumns = `id, area_id, name, position, is_active, created_at, updated_at, created_by, updated_by`

func scanCourt(row pgx.Row) (*entity.Court, error) {
	var c entity.Court
	err := row.Scan(
		&c.ID,
		&c.AreaID,
		&c.Name,
		&c.Position,
		&c.IsActive,
		&c.CreatedAt,
		&c.UpdatedAt,
		&c.CreatedBy,
		&c.UpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *courtRepository) Create(ctx context.Context, court *entity.Court) error {
	query := `
		INSERT INTO courts (` + courtColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.Exec(ctx, query,
		court.ID,
		court.AreaID,
		court.Name,
		court.Position,
		court.IsActive,
		court.CreatedAt,
		court.UpdatedAt,
		court.CreatedBy,
		court.UpdatedBy,
	)
	if err != nil {
		r.log.Error("Failed to create court",
			zap.Error(err),
			zap.String("name", court.Name),
		)
		return fmt.Errorf("create court %s: %w", court.Name, classify(err))
	}

	return nil
}

func (r *courtRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Court, error) {
	query := `SELECT ` + courtColumns + ` FROM courts WHERE id = $1`

	court, err := scanCourt(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find court by ID",
			zap.Error(err),
			zap.String("court_id", id.String()),
		)
		return nil, fmt.Errorf("find court by ID %s: %w", id.String(), err)
	}

	return court, nil
}

func (r *courtRepository) FindAll(ctx context.Context) ([]*entity.Court, error) {
	query := `SELECT ` + courtColumns + ` FROM courts ORDER BY area_id, position, name`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.log.Error("Failed to get courts", zap.Error(err))
		return nil, fmt.Errorf("find all courts: %w", err)
	}
	defer rows.Close()

	var courts []*entity.Court
	for rows.Next() {
		court, err := scanCourt(rows)
		if err != nil {
			r.log.Error("Failed to scan court row", zap.Error(err))
			return nil, fmt.Errorf("scan court row: %w", err)
		}
		courts = append(courts, court)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate court rows: %w", err)
	}

	return courts, nil
}

func (r *courtRepository) Update(ctx context.Context, court *entity.Court) error {
	query := `
		UPDATE courts
		SET area_id = $2, name = $3, position = $4, is_active = $5,
		    updated_at = $6, updated_by = $7
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		court.ID,
		court.AreaID,
		court.Name,
		court.Position,
		court.IsActive,
		court.UpdatedAt,
		court.UpdatedBy,
	)
	if err != nil {
		r.log.Error("Failed to update court",
			zap.Error(err),
			zap.String("court_id", court.ID.String()),
		)
		return fmt.Errorf("update court %s: %w", court.ID.String(), classify(err))
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("court %s not found", court.ID.String())
	}

	return nil
}
