package ratings

import (
	"time"

	"github.com/google/uuid"

	"github.com/ratewise/store-ratings-backend/pkg/db/models"
)

// RatingDTO is the transport representation of a submitted rating.
type RatingDTO struct {
	ID        uuid.UUID `json:"id"`
	StoreID   uuid.UUID `json:"store_id"`
	UserID    uuid.UUID `json:"user_id"`
	Rating    int       `json:"rating"`
	CreatedAt time.Time `json:"created_at"`
}

// FromModel maps a persistence model into the transport DTO.
func FromModel(rating *models.Rating) RatingDTO {
	return RatingDTO{
		ID:        rating.ID,
		StoreID:   rating.StoreID,
		UserID:    rating.UserID,
		Rating:    rating.Rating,
		CreatedAt: rating.CreatedAt,
	}
}
