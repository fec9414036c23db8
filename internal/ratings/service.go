package ratings

import (
	"context"

	"github.com/google/uuid"

	apperrors "github.com/ratewise/store-ratings-backend/pkg/errors"
)

const (
	// MinRating and MaxRating bound the accepted star values.
	MinRating = 1
	MaxRating = 5
)

// StoreLookup checks store existence before a rating is accepted.
type StoreLookup interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

// Service implements rating submission.
type Service struct {
	repo   *Repository
	stores StoreLookup
}

// NewService wires the ratings service.
func NewService(repo *Repository, stores StoreLookup) *Service {
	return &Service{repo: repo, stores: stores}
}

// Submit records the user's rating for a store. Submitting again replaces
// the previous value; a user never holds more than one rating per store.
func (s *Service) Submit(ctx context.Context, userID, storeID uuid.UUID, value int) (*RatingDTO, error) {
	if value < MinRating || value > MaxRating {
		return nil, apperrors.New(apperrors.CodeValidation, "rating must be an integer between 1 and 5")
	}

	exists, err := s.stores.Exists(ctx, storeID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDependency, err, "check store")
	}
	if !exists {
		return nil, apperrors.New(apperrors.CodeNotFound, "store not found")
	}

	rating, err := s.repo.Upsert(ctx, userID, storeID, value)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDependency, err, "save rating")
	}

	dto := FromModel(rating)
	return &dto, nil
}
