package wire

import (
	"court-booking/internal/adaptor"
	"court-booking/internal/data/repository"
	"court-booking/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireBooking(
	r chi.Router,
	bookingHandler *adaptor.BookingHandler,
	invoiceHandler *adaptor.InvoiceHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	// ==================== PROTECTED ROUTES (require auth) ====================
	r.Route("/api/bookings", func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, log))

		r.Post("/", bookingHandler.CreateBooking)
		r.Get("/", bookingHandler.ListBookings)
		r.Get("/{id}", bookingHandler.GetBooking)
		r.Put("/{id}/cancel", bookingHandler.CancelBooking)
		r.Get("/{id}/invoice", invoiceHandler.GetInvoiceByBooking)
	})

	// ==================== ADMIN ROUTES ====================
	r.Route("/api/admin/bookings", func(r chi.Router) {
		r.Use(adminOnly(repo, log)...)

		r.Put("/{id}/check-in", bookingHandler.CheckIn)
		r.Put("/{id}/complete", bookingHandler.Complete)
	})
}
