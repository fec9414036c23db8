package stores

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ratewise/store-ratings-backend/pkg/db/models"
)

// StoreDTO is the bare store representation without rating aggregates.
type StoreDTO struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	Email     *string    `json:"email,omitempty"`
	Address   *string    `json:"address,omitempty"`
	OwnerID   *uuid.UUID `json:"owner_id,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// StoreSummary is a store plus its rating aggregates. UserRating is the
// requesting user's own rating and stays nil for anonymous callers.
type StoreSummary struct {
	StoreDTO
	AverageRating float64 `json:"average_rating"`
	RatingsCount  int64   `json:"ratings_count"`
	UserRating    *int    `json:"user_rating,omitempty"`
}

// RatingEntry is one rating row shown on a store detail or owner listing.
type RatingEntry struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	UserName  string    `json:"user_name"`
	UserEmail string    `json:"user_email"`
	Rating    int       `json:"rating"`
	CreatedAt time.Time `json:"created_at"`
}

// StoreDetail is a summary together with the latest ratings.
type StoreDetail struct {
	StoreSummary
	RecentRatings []RatingEntry `json:"recent_ratings"`
}

// CreateStoreDTO carries persistence fields for a new store.
type CreateStoreDTO struct {
	Name    string
	Email   *string
	Address *string
	OwnerID *uuid.UUID
}

// ToModel builds the persistence model, assigning the ID and lowercasing
// the contact email.
func (dto CreateStoreDTO) ToModel() *models.Store {
	email := dto.Email
	if email != nil {
		lowered := strings.ToLower(strings.TrimSpace(*email))
		email = &lowered
	}
	return &models.Store{
		ID:      uuid.New(),
		Name:    strings.TrimSpace(dto.Name),
		Email:   email,
		Address: dto.Address,
		OwnerID: dto.OwnerID,
	}
}

// FromModel maps a persistence model into the transport DTO.
func FromModel(store *models.Store) StoreDTO {
	return StoreDTO{
		ID:        store.ID,
		Name:      store.Name,
		Email:     store.Email,
		Address:   store.Address,
		OwnerID:   store.OwnerID,
		CreatedAt: store.CreatedAt,
	}
}
