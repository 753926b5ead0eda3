package wire

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"court-booking/internal/data/repository"
	"court-booking/internal/usecase"
	"court-booking/pkg/lock"
	"court-booking/pkg/utils"

	"go.uber.org/zap"
)

func newTestApp(t *testing.T) *App {
	t.Helper()

	config := &utils.Config{
		App:     utils.AppConfig{Name: "court-booking"},
		Lock:    utils.LockConfig{Timeout: time.Second},
		Booking: utils.BookingConfig{OpenFrom: "06:00", OpenTo: "23:00"},
		Billing: utils.BillingConfig{AmountScale: 2, DefaultIncrementMinutes: 60},
	}
	repo := &repository.Repository{}
	service, err := usecase.NewService(repo, config, lock.NewKeyedMutex(time.Second), nil, nil, zap.NewNop())
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return Wiring(repo, service, config, zap.NewNop())
}

func TestHealth(t *testing.T) {
	app := newTestApp(t)

	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if rec.Header().Get("Content-Type") != "application/json" {
		t.Fatalf("content type = %q", rec.Header().Get("Content-Type"))
	}
}

func TestProtectedRoutesRequireSession(t *testing.T) {
	app := newTestApp(t)

	routes := []struct{ method, path string }{
		{http.MethodPost, "/api/bookings"},
		{http.MethodGet, "/api/bookings"},
		{http.MethodPut, "/api/bookings/0b3c1f0e-0000-4000-8000-000000000000/cancel"},
		{http.MethodPost, "/api/invoices"},
		{http.MethodPost, "/api/invoices/0b3c1f0e-0000-4000-8000-000000000000/settle"},
		{http.MethodPost, "/api/admin/price-units"},
		{http.MethodPut, "/api/admin/bookings/0b3c1f0e-0000-4000-8000-000000000000/check-in"},
		{http.MethodGet, "/api/admin/invoices/export"},
		{http.MethodGet, "/api/admin/bank-accounts"},
	}

	for _, rt := range routes {
		t.Run(rt.method+" "+rt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			app.Router.ServeHTTP(rec, httptest.NewRequest(rt.method, rt.path, nil))
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("status = %d, want 401", rec.Code)
			}
		})
	}
}
