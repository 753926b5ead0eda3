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

type PriceUnitHandler struct {
	service usecase.PriceUnitService
	log     *zap.Logger
}

func NewPriceUnitHandler(service usecase.PriceUnitService, log *zap.Logger) *PriceUnitHandler {
	return &PriceUnitHandler{
		service: service,
		log:     log.With(zap.String("handler", "price_unit")),
	}
}

// ListActive handles GET /api/price-units
func (h *PriceUnitHandler) ListActive(w http.ResponseWriter, r *http.Request) {
	units, err := h.service.List(r.Context(), true)
	if err != nil {
		handleServiceError(w, h.log, err, "list price units")
		return
	}

	utils.ResponseSuccess(w, "success", units)
}

// ==================== ADMIN METHODS ====================

// ListAll handles GET /api/admin/price-units
func (h *PriceUnitHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	units, err := h.service.List(r.Context(), false)
	if err != nil {
		handleServiceError(w, h.log, err, "list price units")
		return
	}

	utils.ResponseSuccess(w, "success", units)
}

// Get handles GET /api/admin/price-units/{id}
func (h *PriceUnitHandler) Get(w http.ResponseWriter, r *http.Request) {
	unit, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "get price unit")
		return
	}

	utils.ResponseSuccess(w, "success", unit)
}

// Create handles POST /api/admin/price-units
func (h *PriceUnitHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreatePriceUnitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	unit, err := h.service.Create(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create price unit")
		return
	}

	utils.ResponseCreated(w, "Price unit created", unit)
}

// Update handles PUT /api/admin/price-units/{id}
func (h *PriceUnitHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req request.UpdatePriceUnitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	unit, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update price unit")
		return
	}

	utils.ResponseSuccess(w, "Price unit updated", unit)
}

// Retire handles PUT /api/admin/price-units/{id}/retire
func (h *PriceUnitHandler) Retire(w http.ResponseWriter, r *http.Request) {
	unit, err := h.service.Retire(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "retire price unit")
		return
	}

	utils.ResponseSuccess(w, "Price unit retired", unit)
}

// Delete handles DELETE /api/admin/price-units/{id}
func (h *PriceUnitHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, h.log, err, "delete price unit")
		return
	}

	utils.ResponseSuccess(w, "Price unit deleted", nil)
}
