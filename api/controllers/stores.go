package controllers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/ratewise/store-ratings-backend/api/middleware"
	"github.com/ratewise/store-ratings-backend/api/responses"
	"github.com/ratewise/store-ratings-backend/api/validators"
	"github.com/ratewise/store-ratings-backend/internal/stores"
	"github.com/ratewise/store-ratings-backend/pkg/logger"
)

type storeBrowser interface {
	PublicList(ctx context.Context, query string, viewer uuid.UUID) ([]stores.StoreSummary, error)
	Detail(ctx context.Context, id, viewer uuid.UUID) (*stores.StoreDetail, error)
}

// viewerID returns the authenticated caller's ID, or uuid.Nil for
// anonymous requests.
func viewerID(r *http.Request) uuid.UUID {
	if identity, ok := middleware.IdentityFromContext(r.Context()); ok {
		return identity.ID
	}
	return uuid.Nil
}

// ListStores returns all stores with aggregates, name-ordered. Signed-in
// callers additionally see their own rating per store.
func ListStores(svc storeBrowser, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.PublicList(r.Context(), validators.QueryString(r, "q"), viewerID(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"stores": list})
	}
}

// GetStore returns one store's aggregates and latest ratings.
func GetStore(svc storeBrowser, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.UUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		detail, err := svc.Detail(r.Context(), id, viewerID(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"store": detail})
	}
}
