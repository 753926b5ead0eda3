package wire

import (
	"court-booking/internal/adaptor"
	"court-booking/internal/data/repository"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireBankAccount(r chi.Router, bankHandler *adaptor.BankAccountHandler, repo *repository.Repository, log *zap.Logger) {
	// ==================== ADMIN ROUTES ====================
	r.Route("/api/admin/bank-accounts", func(r chi.Router) {
		r.Use(adminOnly(repo, log)...)

		r.Get("/", bankHandler.ListStore)
		r.Post("/", bankHandler.CreateStore)
		r.Put("/{id}/default", bankHandler.SetDefault)
		r.Put("/{id}/deactivate", bankHandler.Deactivate)
	})

	r.Route("/api/admin/suppliers/{supplierID}/bank-accounts", func(r chi.Router) {
		r.Use(adminOnly(repo, log)...)

		r.Get("/", bankHandler.ListSupplier)
		r.Post("/", bankHandler.CreateSupplier)
	})
}
