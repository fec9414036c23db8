package middleware

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/ratewise/store-ratings-backend/api/responses"
	pkgerrors "github.com/ratewise/store-ratings-backend/pkg/errors"
	"github.com/ratewise/store-ratings-backend/pkg/enums"
	"github.com/ratewise/store-ratings-backend/pkg/logger"
)

// RoleFetcher reads a user's current role from storage.
type RoleFetcher interface {
	RoleOf(ctx context.Context, id uuid.UUID) (enums.Role, error)
}

// RequireRole gates a route on the caller's stored role. The role is read
// from the database on every request, never from the token, so demotions
// apply to tokens that are still unexpired.
func RequireRole(role enums.Role, roles RoleFetcher, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := IdentityFromContext(r.Context())
			if !ok {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			current, err := roles.RoleOf(r.Context(), identity.ID)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			if current != role {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, fmt.Sprintf("%s only", role)))
				return
			}

			ctx := r.Context()
			if logg != nil {
				ctx = logg.WithActorRole(ctx, string(current))
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
