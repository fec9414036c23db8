package controllers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/ratewise/store-ratings-backend/api/responses"
	"github.com/ratewise/store-ratings-backend/api/validators"
	"github.com/ratewise/store-ratings-backend/internal/stores"
	"github.com/ratewise/store-ratings-backend/pkg/logger"
)

type storeOwner interface {
	OwnerList(ctx context.Context, ownerID uuid.UUID) ([]stores.StoreSummary, error)
	OwnerCreate(ctx context.Context, ownerID uuid.UUID, input stores.CreateStoreInput) (*stores.StoreDTO, error)
	OwnerRatings(ctx context.Context, ownerID, storeID uuid.UUID) ([]stores.RatingEntry, error)
}

type ownerCreateStoreRequest struct {
	Name    string  `json:"name" validate:"required,min=1,max=120"`
	Email   *string `json:"email,omitempty" validate:"omitempty,email"`
	Address *string `json:"address,omitempty" validate:"omitempty,max=400"`
}

// OwnerListStores lists the caller's stores with aggregates.
func OwnerListStores(svc storeOwner, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, err := requireIdentity(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.OwnerList(r.Context(), identity.ID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"stores": list})
	}
}

// OwnerCreateStore creates a store owned by the caller. Ownership is
// forced to the authenticated account regardless of the payload.
func OwnerCreateStore(svc storeOwner, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, err := requireIdentity(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req ownerCreateStoreRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store, err := svc.OwnerCreate(r.Context(), identity.ID, stores.CreateStoreInput{
			Name:    req.Name,
			Email:   req.Email,
			Address: req.Address,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{"store": store})
	}
}

// OwnerStoreRatings lists the latest ratings for one of the caller's stores.
func OwnerStoreRatings(svc storeOwner, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, err := requireIdentity(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		storeID, err := validators.UUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ratings, err := svc.OwnerRatings(r.Context(), identity.ID, storeID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"ratings": ratings})
	}
}
