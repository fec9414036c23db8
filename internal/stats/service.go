package stats

import (
	"context"

	apperrors "github.com/ratewise/store-ratings-backend/pkg/errors"
)

// Counter reports the size of one entity table.
type Counter interface {
	Count(ctx context.Context) (int64, error)
}

// Totals is the admin dashboard headline block.
type Totals struct {
	TotalUsers   int64 `json:"total_users"`
	TotalStores  int64 `json:"total_stores"`
	TotalRatings int64 `json:"total_ratings"`
}

// Service aggregates platform-wide counts for the admin dashboard.
type Service struct {
	users   Counter
	stores  Counter
	ratings Counter
}

// NewService wires the stats service.
func NewService(users, stores, ratings Counter) *Service {
	return &Service{users: users, stores: stores, ratings: ratings}
}

// Totals returns the current user, store and rating counts.
func (s *Service) Totals(ctx context.Context) (*Totals, error) {
	totalUsers, err := s.users.Count(ctx)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDependency, err, "count users")
	}
	totalStores, err := s.stores.Count(ctx)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDependency, err, "count stores")
	}
	totalRatings, err := s.ratings.Count(ctx)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDependency, err, "count ratings")
	}

	return &Totals{
		TotalUsers:   totalUsers,
		TotalStores:  totalStores,
		TotalRatings: totalRatings,
	}, nil
}
