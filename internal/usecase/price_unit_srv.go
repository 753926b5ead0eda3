package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"court-booking/internal/data/entity"
	"court-booking/internal/data/repository"
	"court-booking/internal/dto/request"
	"court-booking/internal/dto/response"
	"court-booking/pkg/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type PriceUnitService interface {
	Create(ctx context.Context, req *request.CreatePriceUnitRequest) (*response.PriceUnitResponse, error)
	Update(ctx context.Context, priceUnitID string, req *request.UpdatePriceUnitRequest) (*response.PriceUnitResponse, error)
	// Retire deactivates the unit. Bookings already priced with it keep it.
	Retire(ctx context.Context, priceUnitID string) (*response.PriceUnitResponse, error)
	// Delete removes an unreferenced unit; referenced ones must be retired.
	Delete(ctx context.Context, priceUnitID string) error
	Get(ctx context.Context, priceUnitID string) (*response.PriceUnitResponse, error)
	List(ctx context.Context, activeOnly bool) ([]response.PriceUnitResponse, error)
}

type priceUnitService struct {
	repo             *repository.Repository
	defaultIncrement int
	log              *zap.Logger
}

func NewPriceUnitService(repo *repository.Repository, config *utils.Config, log *zap.Logger) PriceUnitService {
	increment := config.Billing.DefaultIncrementMinutes
	if increment <= 0 {
		increment = 60
	}
	return &priceUnitService{
		repo:             repo,
		defaultIncrement: increment,
		log:              log.With(zap.String("service", "price_unit")),
	}
}

func (s *priceUnitService) Create(ctx context.Context, req *request.CreatePriceUnitRequest) (*response.PriceUnitResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create price unit validation failed", zap.Any("errors", errs))
		return nil, validationError(errs)
	}

	name := strings.TrimSpace(req.Name)
	rate, err := decimal.NewFromString(req.Rate)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid rate %s", ErrValidation, req.Rate)
	}
	if err := s.ensureNameFree(ctx, name, uuid.Nil); err != nil {
		return nil, err
	}

	increment := req.IncrementMinutes
	if increment == 0 {
		increment = s.defaultIncrement
	}

	now := time.Now()
	actor := utils.ActorFromContext(ctx)
	pu := &entity.PriceUnit{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Audit:            entity.Audit{CreatedBy: actor, UpdatedBy: actor},
		Name:             name,
		Rate:             rate,
		IncrementMinutes: increment,
		IsActive:         true,
	}

	if err := s.repo.PriceUnit.Create(ctx, pu); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, nameTaken(name)
		}
		return nil, fmt.Errorf("create price unit: %w", err)
	}

	s.log.Info("Price unit created",
		zap.String("price_unit_id", pu.ID.String()),
		zap.String("name", pu.Name),
		zap.String("rate", pu.Rate.String()),
		zap.String("actor", actor),
	)

	resp := response.PriceUnitToResponse(pu)
	return &resp, nil
}

func (s *priceUnitService) Update(ctx context.Context, priceUnitID string, req *request.UpdatePriceUnitRequest) (*response.PriceUnitResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, validationError(errs)
	}

	pu, err := s.find(ctx, priceUnitID)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	rate, err := decimal.NewFromString(req.Rate)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid rate %s", ErrValidation, req.Rate)
	}
	if err := s.ensureNameFree(ctx, name, pu.ID); err != nil {
		return nil, err
	}

	pu.Name = name
	pu.Rate = rate
	if req.IncrementMinutes > 0 {
		pu.IncrementMinutes = req.IncrementMinutes
	}
	if req.IsActive != nil {
		pu.IsActive = *req.IsActive
		if pu.IsActive {
			pu.RetiredAt = nil
		} else if pu.RetiredAt == nil {
			now := time.Now()
			pu.RetiredAt = &now
		}
	}
	pu.UpdatedAt = time.Now()
	pu.UpdatedBy = utils.ActorFromContext(ctx)

	if err := s.repo.PriceUnit.Update(ctx, pu); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, nameTaken(name)
		}
		return nil, fmt.Errorf("update price unit: %w", err)
	}

	s.log.Info("Price unit updated",
		zap.String("price_unit_id", pu.ID.String()),
		zap.String("actor", pu.UpdatedBy),
	)

	resp := response.PriceUnitToResponse(pu)
	return &resp, nil
}

func (s *priceUnitService) Retire(ctx context.Context, priceUnitID string) (*response.PriceUnitResponse, error) {
	pu, err := s.find(ctx, priceUnitID)
	if err != nil {
		return nil, err
	}

	if pu.IsActive {
		now := time.Now()
		pu.IsActive = false
		pu.RetiredAt = &now
		pu.UpdatedAt = now
		pu.UpdatedBy = utils.ActorFromContext(ctx)
		if err := s.repo.PriceUnit.Update(ctx, pu); err != nil {
			return nil, fmt.Errorf("retire price unit: %w", err)
		}
		s.log.Info("Price unit retired", zap.String("price_unit_id", pu.ID.String()))
	}

	resp := response.PriceUnitToResponse(pu)
	return &resp, nil
}

func (s *priceUnitService) Delete(ctx context.Context, priceUnitID string) error {
	pu, err := s.find(ctx, priceUnitID)
	if err != nil {
		return err
	}

	referenced, err := s.repo.PriceUnit.IsReferenced(ctx, pu.ID)
	if err != nil {
		return fmt.Errorf("delete price unit: %w", err)
	}
	if referenced {
		return fmt.Errorf("%w: price unit %s is used by bookings, retire it instead", ErrInvalidStateTransition, pu.Name)
	}

	if err := s.repo.PriceUnit.Delete(ctx, pu.ID); err != nil {
		if errors.Is(err, repository.ErrReferenced) {
			return fmt.Errorf("%w: price unit %s is used by bookings, retire it instead", ErrInvalidStateTransition, pu.Name)
		}
		return fmt.Errorf("delete price unit: %w", err)
	}

	return nil
}

func (s *priceUnitService) Get(ctx context.Context, priceUnitID string) (*response.PriceUnitResponse, error) {
	pu, err := s.find(ctx, priceUnitID)
	if err != nil {
		return nil, err
	}

	resp := response.PriceUnitToResponse(pu)
	return &resp, nil
}

func (s *priceUnitService) List(ctx context.Context, activeOnly bool) ([]response.PriceUnitResponse, error) {
	units, err := s.repo.PriceUnit.FindAll(ctx, activeOnly)
	if err != nil {
		s.log.Error("Failed to list price units", zap.Error(err))
		return nil, fmt.Errorf("list price units: %w", err)
	}

	items := make([]response.PriceUnitResponse, len(units))
	for i, pu := range units {
		items[i] = response.PriceUnitToResponse(pu)
	}
	return items, nil
}

func (s *priceUnitService) find(ctx context.Context, priceUnitID string) (*entity.PriceUnit, error) {
	id, err := parseID("price unit", priceUnitID)
	if err != nil {
		return nil, err
	}

	pu, err := s.repo.PriceUnit.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find price unit: %w", err)
	}
	if pu == nil {
		return nil, notFound("price unit", id)
	}
	return pu, nil
}

func (s *priceUnitService) ensureNameFree(ctx context.Context, name string, self uuid.UUID) error {
	if name == "" || len(name) > entity.PriceUnitNameMaxLen {
		return fmt.Errorf("%w: name must be 1-%d characters", ErrValidation, entity.PriceUnitNameMaxLen)
	}

	other, err := s.repo.PriceUnit.FindByName(ctx, name)
	if err != nil {
		return fmt.Errorf("check price unit name: %w", err)
	}
	if other != nil && other.ID != self {
		return nameTaken(name)
	}
	return nil
}

func nameTaken(name string) error {
	return fmt.Errorf("%w: price unit name %q already exists", ErrValidation, name)
}
