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

type BankAccountHandler struct {
	service usecase.BankAccountService
	log     *zap.Logger
}

func NewBankAccountHandler(service usecase.BankAccountService, log *zap.Logger) *BankAccountHandler {
	return &BankAccountHandler{
		service: service,
		log:     log.With(zap.String("handler", "bank_account")),
	}
}

// ListStore handles GET /api/admin/bank-accounts
func (h *BankAccountHandler) ListStore(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.service.ListStoreAccounts(r.Context())
	if err != nil {
		handleServiceError(w, h.log, err, "list store bank accounts")
		return
	}

	utils.ResponseSuccess(w, "success", accounts)
}

// CreateStore handles POST /api/admin/bank-accounts
func (h *BankAccountHandler) CreateStore(w http.ResponseWriter, r *http.Request) {
	var req request.CreateBankAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	account, err := h.service.CreateStoreAccount(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create store bank account")
		return
	}

	utils.ResponseCreated(w, "Bank account created", account)
}

// ListSupplier handles GET /api/admin/suppliers/{supplierID}/bank-accounts
func (h *BankAccountHandler) ListSupplier(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.service.ListSupplierAccounts(r.Context(), chi.URLParam(r, "supplierID"))
	if err != nil {
		handleServiceError(w, h.log, err, "list supplier bank accounts")
		return
	}

	utils.ResponseSuccess(w, "success", accounts)
}

// CreateSupplier handles POST /api/admin/suppliers/{supplierID}/bank-accounts
func (h *BankAccountHandler) CreateSupplier(w http.ResponseWriter, r *http.Request) {
	var req request.CreateBankAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	account, err := h.service.CreateSupplierAccount(r.Context(), chi.URLParam(r, "supplierID"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create supplier bank account")
		return
	}

	utils.ResponseCreated(w, "Bank account created", account)
}

// SetDefault handles PUT /api/admin/bank-accounts/{id}/default
func (h *BankAccountHandler) SetDefault(w http.ResponseWriter, r *http.Request) {
	account, err := h.service.SetDefault(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "set default bank account")
		return
	}

	utils.ResponseSuccess(w, "Default bank account set", account)
}

// Deactivate handles PUT /api/admin/bank-accounts/{id}/deactivate
func (h *BankAccountHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	account, err := h.service.Deactivate(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "deactivate bank account")
		return
	}

	utils.ResponseSuccess(w, "Bank account deactivated", account)
}
