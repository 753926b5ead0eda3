package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"court-booking/internal/data/entity"
	"court-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type stubSessions struct {
	sessions map[uuid.UUID]*entity.Session
}

func (s stubSessions) FindValidSession(_ context.Context, token uuid.UUID) (*entity.Session, error) {
	return s.sessions[token], nil
}

type stubUsers struct {
	users map[uuid.UUID]*entity.User
}

func (s stubUsers) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	return s.users[id], nil
}

func TestAuthSessionHeaderParsing(t *testing.T) {
	token := uuid.New()
	userID := uuid.New()
	sessions := stubSessions{sessions: map[uuid.UUID]*entity.Session{
		token: {UserID: userID, Token: token, ExpiresAt: time.Now().Add(time.Hour)},
	}}

	var seen uuid.UUID
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = utils.GetUserIDFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})
	h := AuthSession(sessions, zap.NewNop())(next)

	tests := []struct {
		name   string
		header string
		code   int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"no scheme", token.String(), http.StatusUnauthorized},
		{"wrong scheme", "Basic " + token.String(), http.StatusUnauthorized},
		{"not a uuid", "Bearer abc", http.StatusUnauthorized},
		{"unknown session", "Bearer " + uuid.NewString(), http.StatusUnauthorized},
		{"valid", "Bearer " + token.String(), http.StatusNoContent},
		{"lowercase scheme", "bearer " + token.String(), http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = uuid.Nil
			req := httptest.NewRequest(http.MethodGet, "/api/bookings", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tt.code {
				t.Fatalf("status = %d, want %d", rec.Code, tt.code)
			}
			if tt.code == http.StatusNoContent && seen != userID {
				t.Fatalf("user in context = %s, want %s", seen, userID)
			}
		})
	}
}

func TestAdminRequiresActiveAdmin(t *testing.T) {
	admin := &entity.User{Base: entity.Base{ID: uuid.New()}, Role: entity.RoleAdmin, IsActive: true}
	staff := &entity.User{Base: entity.Base{ID: uuid.New()}, Role: entity.RoleStaff, IsActive: true}
	disabled := &entity.User{Base: entity.Base{ID: uuid.New()}, Role: entity.RoleAdmin, IsActive: false}
	users := stubUsers{users: map[uuid.UUID]*entity.User{admin.ID: admin, staff.ID: staff, disabled.ID: disabled}}

	h := Admin(users, zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if role, _ := utils.GetRoleFromContext(r.Context()); role != string(entity.RoleAdmin) {
			t.Errorf("role = %s, want admin", role)
		}
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name string
		user *entity.User
		code int
	}{
		{"admin", admin, http.StatusNoContent},
		{"staff", staff, http.StatusForbidden},
		{"disabled admin", disabled, http.StatusForbidden},
		{"anonymous", nil, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/admin/price-units", nil)
			if tt.user != nil {
				req = req.WithContext(utils.SetUserContext(req.Context(), tt.user.ID, string(entity.RoleStaff)))
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != tt.code {
				t.Fatalf("status = %d, want %d", rec.Code, tt.code)
			}
		})
	}
}
