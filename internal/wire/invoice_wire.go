package wire

import (
	"court-booking/internal/adaptor"
	"court-booking/internal/data/repository"
	"court-booking/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireInvoice(r chi.Router, invoiceHandler *adaptor.InvoiceHandler, repo *repository.Repository, log *zap.Logger) {
	// ==================== PROTECTED ROUTES (require auth) ====================
	r.Route("/api/invoices", func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, log))

		r.Post("/", invoiceHandler.GenerateInvoice)
		r.Get("/{id}", invoiceHandler.GetInvoice)
		r.Post("/{id}/settle", invoiceHandler.Settle)
	})

	// ==================== ADMIN ROUTES ====================
	r.Route("/api/admin/invoices", func(r chi.Router) {
		r.Use(adminOnly(repo, log)...)

		r.Get("/", invoiceHandler.ListInvoices)
		r.Get("/export", invoiceHandler.Export)
		r.Post("/{id}/refund", invoiceHandler.Refund)
	})
}
