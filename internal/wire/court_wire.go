package wire

import (
	"court-booking/internal/adaptor"
	"court-booking/internal/data/repository"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireCourt(r chi.Router, courtHandler *adaptor.CourtHandler, repo *repository.Repository, log *zap.Logger) {
	// ==================== PUBLIC ROUTES ====================
	r.Get("/api/court-areas", courtHandler.ListAreas)
	r.Get("/api/courts/{id}", courtHandler.GetCourt)
	r.Get("/api/courts/{id}/availability", courtHandler.GetAvailability)

	// ==================== ADMIN ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(adminOnly(repo, log)...)

		r.Post("/api/admin/court-areas", courtHandler.CreateArea)
		r.Post("/api/admin/courts", courtHandler.CreateCourt)
		r.Put("/api/admin/courts/{id}", courtHandler.UpdateCourt)
	})
}
