package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"court-booking/internal/data/entity"
	"court-booking/internal/data/repository"
	"court-booking/internal/dto/request"
	"court-booking/internal/dto/response"
	"court-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CourtService interface {
	CreateArea(ctx context.Context, req *request.CreateCourtAreaRequest) (*response.CourtAreaResponse, error)
	// ListAreas returns every area with its courts ordered by position.
	ListAreas(ctx context.Context) ([]response.CourtAreaResponse, error)
	CreateCourt(ctx context.Context, req *request.CreateCourtRequest) (*response.CourtResponse, error)
	UpdateCourt(ctx context.Context, courtID string, req *request.UpdateCourtRequest) (*response.CourtResponse, error)
	GetCourt(ctx context.Context, courtID string) (*response.CourtResponse, error)
	GetAvailability(ctx context.Context, courtID string, req *request.AvailabilityRequest) (*response.AvailabilityResponse, error)
}

type courtService struct {
	repo  *repository.Repository
	slots *SlotAllocator
	log   *zap.Logger
}

func NewCourtService(repo *repository.Repository, slots *SlotAllocator, log *zap.Logger) CourtService {
	return &courtService{
		repo:  repo,
		slots: slots,
		log:   log.With(zap.String("service", "court")),
	}
}

func (s *courtService) CreateArea(ctx context.Context, req *request.CreateCourtAreaRequest) (*response.CourtAreaResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, validationError(errs)
	}

	now := time.Now()
	actor := utils.ActorFromContext(ctx)
	area := &entity.CourtArea{
		Base:  entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		Audit: entity.Audit{CreatedBy: actor, UpdatedBy: actor},
		Name:  strings.TrimSpace(req.Name),
	}

	if err := s.repo.CourtArea.Create(ctx, area); err != nil {
		return nil, fmt.Errorf("create court area: %w", err)
	}

	s.log.Info("Court area created",
		zap.String("area_id", area.ID.String()),
		zap.String("name", area.Name),
	)

	resp := response.CourtAreaToResponse(area)
	return &resp, nil
}

func (s *courtService) ListAreas(ctx context.Context) ([]response.CourtAreaResponse, error) {
	areas, err := s.repo.CourtArea.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list court areas: %w", err)
	}

	courts, err := s.repo.Court.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list courts: %w", err)
	}

	byArea := make(map[uuid.UUID][]entity.Court, len(areas))
	for _, c := range courts {
		byArea[c.AreaID] = append(byArea[c.AreaID], *c)
	}

	items := make([]response.CourtAreaResponse, len(areas))
	for i, a := range areas {
		a.Courts = byArea[a.ID]
		items[i] = response.CourtAreaToResponse(a)
	}
	return items, nil
}

func (s *courtService) CreateCourt(ctx context.Context, req *request.CreateCourtRequest) (*response.CourtResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, validationError(errs)
	}

	areaID, err := parseID("court area", req.AreaID)
	if err != nil {
		return nil, err
	}
	if err := s.ensureArea(ctx, areaID); err != nil {
		return nil, err
	}

	now := time.Now()
	actor := utils.ActorFromContext(ctx)
	court := &entity.Court{
		Base:     entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		Audit:    entity.Audit{CreatedBy: actor, UpdatedBy: actor},
		AreaID:   areaID,
		Name:     strings.TrimSpace(req.Name),
		Position: req.Position,
		IsActive: true,
	}

	if err := s.repo.Court.Create(ctx, court); err != nil {
		return nil, fmt.Errorf("create court: %w", err)
	}

	s.log.Info("Court created",
		zap.String("court_id", court.ID.String()),
		zap.String("area_id", areaID.String()),
		zap.String("name", court.Name),
	)

	resp := response.CourtToResponse(court)
	return &resp, nil
}

func (s *courtService) UpdateCourt(ctx context.Context, courtID string, req *request.UpdateCourtRequest) (*response.CourtResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, validationError(errs)
	}

	court, err := s.find(ctx, courtID)
	if err != nil {
		return nil, err
	}

	if req.AreaID != "" {
		areaID, err := parseID("court area", req.AreaID)
		if err != nil {
			return nil, err
		}
		if err := s.ensureArea(ctx, areaID); err != nil {
			return nil, err
		}
		court.AreaID = areaID
	}
	if name := strings.TrimSpace(req.Name); name != "" {
		court.Name = name
	}
	if req.Position != nil {
		court.Position = *req.Position
	}
	if req.IsActive != nil {
		court.IsActive = *req.IsActive
	}
	court.UpdatedAt = time.Now()
	court.UpdatedBy = utils.ActorFromContext(ctx)

	if err := s.repo.Court.Update(ctx, court); err != nil {
		return nil, fmt.Errorf("update court: %w", err)
	}

	s.log.Info("Court updated",
		zap.String("court_id", court.ID.String()),
		zap.Bool("is_active", court.IsActive),
	)

	resp := response.CourtToResponse(court)
	return &resp, nil
}

func (s *courtService) GetCourt(ctx context.Context, courtID string) (*response.CourtResponse, error) {
	court, err := s.find(ctx, courtID)
	if err != nil {
		return nil, err
	}

	resp := response.CourtToResponse(court)
	return &resp, nil
}

func (s *courtService) GetAvailability(ctx context.Context, courtID string, req *request.AvailabilityRequest) (*response.AvailabilityResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, validationError(errs)
	}

	court, err := s.find(ctx, courtID)
	if err != nil {
		return nil, err
	}
	date, err := utils.ParseDate(req.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid date %s", ErrValidation, req.Date)
	}

	blocks, err := s.slots.Availability(ctx, entity.SlotKey{CourtID: court.ID, Date: date})
	if err != nil {
		return nil, fmt.Errorf("court availability: %w", err)
	}

	window := s.slots.Window()
	resp := &response.AvailabilityResponse{
		CourtID:   court.ID.String(),
		Date:      req.Date,
		OpenFrom:  window.Start.String(),
		OpenTo:    window.End.String(),
		Intervals: make([]response.AvailabilityBlock, len(blocks)),
	}
	for i, b := range blocks {
		block := response.AvailabilityBlock{
			StartTime: b.Start.String(),
			EndTime:   b.End.String(),
			Free:      b.Free(),
		}
		if b.BookingID != nil {
			id := b.BookingID.String()
			block.BookingID = &id
		}
		resp.Intervals[i] = block
	}

	return resp, nil
}

func (s *courtService) find(ctx context.Context, courtID string) (*entity.Court, error) {
	id, err := parseID("court", courtID)
	if err != nil {
		return nil, err
	}

	court, err := s.repo.Court.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find court: %w", err)
	}
	if court == nil {
		return nil, notFound("court", id)
	}
	return court, nil
}

func (s *courtService) ensureArea(ctx context.Context, areaID uuid.UUID) error {
	area, err := s.repo.CourtArea.FindByID(ctx, areaID)
	if err != nil {
		return fmt.Errorf("find court area: %w", err)
	}
	if area == nil {
		return notFound("court area", areaID)
	}
	return nil
}
