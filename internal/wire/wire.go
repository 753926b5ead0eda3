package wire

import (
	"net/http"

	"court-booking/internal/adaptor"
	"court-booking/internal/data/repository"
	"court-booking/internal/usecase"
	"court-booking/pkg/middleware"
	"court-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

type App struct {
	Router  *chi.Mux
	Service *usecase.Service
}

// Wiring builds the HTTP router on top of an already assembled service layer.
func Wiring(repo *repository.Repository, service *usecase.Service, config *utils.Config, logger *zap.Logger) *App {
	handler := adaptor.NewHandler(service, logger)
	router := setupRouter(handler, repo, config, logger)

	return &App{
		Router:  router,
		Service: service,
	}
}

func setupRouter(
	handler *adaptor.Handler,
	repo *repository.Repository,
	config *utils.Config,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))

	wireCourt(r, handler.Court, repo, logger)
	wirePriceUnit(r, handler.PriceUnit, repo, logger)
	wireBooking(r, handler.Booking, handler.Invoice, repo, logger)
	wireInvoice(r, handler.Invoice, repo, logger)
	wireBankAccount(r, handler.BankAccount, repo, logger)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		utils.ResponseSuccess(w, "OK", map[string]string{"app": config.App.Name})
	})

	return r
}

// adminOnly is session auth followed by the admin role check.
func adminOnly(repo *repository.Repository, log *zap.Logger) []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		middleware.AuthSession(repo.Session, log),
		middleware.Admin(repo.User, log),
	}
}
