package controllers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/ratewise/store-ratings-backend/api/responses"
	"github.com/ratewise/store-ratings-backend/api/validators"
	"github.com/ratewise/store-ratings-backend/internal/ratings"
	"github.com/ratewise/store-ratings-backend/pkg/logger"
)

type ratingSubmitter interface {
	Submit(ctx context.Context, userID, storeID uuid.UUID, value int) (*ratings.RatingDTO, error)
}

type submitRatingRequest struct {
	Rating int `json:"rating" validate:"required,min=1,max=5"`
}

// SubmitRating records or replaces the caller's rating for a store.
func SubmitRating(svc ratingSubmitter, logg *logger.Logger) http.HandlerFunc {
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

		var req submitRatingRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rating, err := svc.Submit(r.Context(), identity.ID, storeID, req.Rating)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{"rating": rating})
	}
}
