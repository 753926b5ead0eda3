package wire

import (
	"court-booking/internal/adaptor"
	"court-booking/internal/data/repository"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wirePriceUnit(r chi.Router, priceUnitHandler *adaptor.PriceUnitHandler, repo *repository.Repository, log *zap.Logger) {
	// ==================== PUBLIC ROUTES ====================
	r.Get("/api/price-units", priceUnitHandler.ListActive)

	// ==================== ADMIN ROUTES ====================
	r.Route("/api/admin/price-units", func(r chi.Router) {
		r.Use(adminOnly(repo, log)...)

		r.Get("/", priceUnitHandler.ListAll)
		r.Post("/", priceUnitHandler.Create)
		r.Get("/{id}", priceUnitHandler.Get)
		r.Put("/{id}", priceUnitHandler.Update)
		r.Put("/{id}/retire", priceUnitHandler.Retire)
		r.Delete("/{id}", priceUnitHandler.Delete)
	})
}
