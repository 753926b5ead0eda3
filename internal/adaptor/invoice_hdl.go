package adaptor

import (
	"encoding/json"
	"fmt"
	"net/http"

	"court-booking/internal/data/entity"
	"court-booking/internal/dto/request"
	"court-booking/internal/usecase"
	"court-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type InvoiceHandler struct {
	invoices   usecase.InvoiceService
	settlement usecase.SettlementService
	export     usecase.ExportService
	log        *zap.Logger
}

func NewInvoiceHandler(invoices usecase.InvoiceService, settlement usecase.SettlementService, export usecase.ExportService, log *zap.Logger) *InvoiceHandler {
	return &InvoiceHandler{
		invoices:   invoices,
		settlement: settlement,
		export:     export,
		log:        log.With(zap.String("handler", "invoice")),
	}
}

// GenerateInvoice handles POST /api/invoices
func (h *InvoiceHandler) GenerateInvoice(w http.ResponseWriter, r *http.Request) {
	var req request.GenerateInvoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	invoice, err := h.invoices.GenerateInvoice(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "generate invoice")
		return
	}

	utils.ResponseSuccess(w, "success", invoice)
}

// GetInvoice handles GET /api/invoices/{id}
func (h *InvoiceHandler) GetInvoice(w http.ResponseWriter, r *http.Request) {
	invoice, err := h.invoices.GetInvoice(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "get invoice")
		return
	}

	utils.ResponseSuccess(w, "success", invoice)
}

// GetInvoiceByBooking handles GET /api/bookings/{id}/invoice
func (h *InvoiceHandler) GetInvoiceByBooking(w http.ResponseWriter, r *http.Request) {
	invoice, err := h.invoices.GetInvoiceByBooking(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "get invoice by booking")
		return
	}

	utils.ResponseSuccess(w, "success", invoice)
}

// Settle handles POST /api/invoices/{id}/settle
func (h *InvoiceHandler) Settle(w http.ResponseWriter, r *http.Request) {
	var req request.SettleInvoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	invoice, err := h.settlement.Settle(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "settle invoice")
		return
	}

	message := "Invoice paid"
	if invoice.Status == entity.InvoiceStatusFailed {
		message = "Payment declined"
	}
	utils.ResponseSuccess(w, message, invoice)
}

// ==================== ADMIN METHODS ====================

// ListInvoices handles GET /api/admin/invoices?status=&from=&to=&page=&per_page=
func (h *InvoiceHandler) ListInvoices(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := &request.ListInvoicesRequest{
		PaginatedRequest: request.PaginatedRequest{
			Page:    utils.ParseInt(query.Get("page"), 1),
			PerPage: utils.ParseInt(query.Get("per_page"), 10),
		},
		Status: query.Get("status"),
		From:   query.Get("from"),
		To:     query.Get("to"),
	}

	invoices, err := h.invoices.ListInvoices(r.Context(), req)
	if err != nil {
		handleServiceError(w, h.log, err, "list invoices")
		return
	}

	utils.ResponseSuccess(w, "success", invoices)
}

// Refund handles POST /api/admin/invoices/{id}/refund
func (h *InvoiceHandler) Refund(w http.ResponseWriter, r *http.Request) {
	var req request.RefundInvoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	invoice, err := h.settlement.Refund(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "refund invoice")
		return
	}

	utils.ResponseSuccess(w, "Invoice refunded", invoice)
}

// Export handles GET /api/admin/invoices/export?from=&to=
func (h *InvoiceHandler) Export(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := &request.ExportInvoicesRequest{
		From: query.Get("from"),
		To:   query.Get("to"),
	}

	buf, filename, err := h.export.ExportInvoices(r.Context(), req)
	if err != nil {
		handleServiceError(w, h.log, err, "export invoices")
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.log.Warn("Failed to stream export", zap.Error(err))
	}
}
