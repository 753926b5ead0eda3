package adaptor

import (
	"encoding/json"
	"net/http"

	"court-booking/internal/dto/request"
	"court-booking/internal/usecase"
	"court-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type CourtHandler struct {
	service usecase.CourtService
	log     *zap.Logger
}

func NewCourtHandler(service usecase.CourtService, log *zap.Logger) *CourtHandler {
	return &CourtHandler{
		service: service,
		log:     log.With(zap.String("handler", "court")),
	}
}

// ListAreas handles GET /api/court-areas
func (h *CourtHandler) ListAreas(w http.ResponseWriter, r *http.Request) {
	areas, err := h.service.ListAreas(r.Context())
	if err != nil {
		handleServiceError(w, h.log, err, "list court areas")
		return
	}

	utils.ResponseSuccess(w, "success", areas)
}

// GetCourt handles GET /api/courts/{id}
func (h *CourtHandler) GetCourt(w http.ResponseWriter, r *http.Request) {
	court, err := h.service.GetCourt(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "get court")
		return
	}

	utils.ResponseSuccess(w, "success", court)
}

// GetAvailability handles GET /api/courts/{id}/availability?date=YYYY-MM-DD
func (h *CourtHandler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	req := &request.AvailabilityRequest{Date: r.URL.Query().Get("date")}

	availability, err := h.service.GetAvailability(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		handleServiceError(w, h.log, err, "get court availability")
		return
	}

	utils.ResponseSuccess(w, "success", availability)
}

// ==================== ADMIN METHODS ====================

// CreateArea handles POST /api/admin/court-areas
func (h *CourtHandler) CreateArea(w http.ResponseWriter, r *http.Request) {
	var req request.CreateCourtAreaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	area, err := h.service.CreateArea(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create court area")
		return
	}

	utils.ResponseCreated(w, "Court area created", area)
}

// CreateCourt handles POST /api/admin/courts
func (h *CourtHandler) CreateCourt(w http.ResponseWriter, r *http.Request) {
	var req request.CreateCourtRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	court, err := h.service.CreateCourt(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create court")
		return
	}

	utils.ResponseCreated(w, "Court created", court)
}

// UpdateCourt handles PUT /api/admin/courts/{id}
func (h *CourtHandler) UpdateCourt(w http.ResponseWriter, r *http.Request) {
	var req request.UpdateCourtRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	court, err := h.service.UpdateCourt(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update court")
		return
	}

	utils.ResponseSuccess(w, "Court updated", court)
}
