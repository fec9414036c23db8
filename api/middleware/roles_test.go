package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ratewise/store-ratings-backend/internal/auth"
	pkgerrors "github.com/ratewise/store-ratings-backend/pkg/errors"
	"github.com/ratewise/store-ratings-backend/pkg/enums"
)

type stubRoleFetcher struct {
	roles map[uuid.UUID]enums.Role
}

func (s *stubRoleFetcher) RoleOf(ctx context.Context, id uuid.UUID) (enums.Role, error) {
	if role, ok := s.roles[id]; ok {
		return role, nil
	}
	return "", pkgerrors.Wrap(pkgerrors.CodeUnauthorized, gorm.ErrRecordNotFound, "user no longer exists")
}

func requestWithIdentity(id uuid.UUID) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	ctx := WithIdentity(req.Context(), &auth.Identity{ID: id, Email: "x@example.com"})
	return req.WithContext(ctx)
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireRole_noIdentity(t *testing.T) {
	handler := RequireRole(enums.RoleAdmin, &stubRoleFetcher{}, nil)(okHandler())

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestRequireRole_mismatch(t *testing.T) {
	id := uuid.New()
	fetcher := &stubRoleFetcher{roles: map[uuid.UUID]enums.Role{id: enums.RoleUser}}
	handler := RequireRole(enums.RoleAdmin, fetcher, nil)(okHandler())

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, requestWithIdentity(id))
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
}

func TestRequireRole_match(t *testing.T) {
	id := uuid.New()
	fetcher := &stubRoleFetcher{roles: map[uuid.UUID]enums.Role{id: enums.RoleOwner}}
	handler := RequireRole(enums.RoleOwner, fetcher, nil)(okHandler())

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, requestWithIdentity(id))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestRequireRole_deletedUser(t *testing.T) {
	handler := RequireRole(enums.RoleAdmin, &stubRoleFetcher{}, nil)(okHandler())

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, requestWithIdentity(uuid.New()))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}
