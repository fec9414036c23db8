package stores

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/ratewise/store-ratings-backend/internal/users"
	apperrors "github.com/ratewise/store-ratings-backend/pkg/errors"
	"github.com/ratewise/store-ratings-backend/pkg/enums"
)

const (
	// RecentRatingsLimit bounds the rating feed on a store detail page.
	RecentRatingsLimit = 10
	// OwnerRatingsLimit bounds the owner's per-store rating listing.
	OwnerRatingsLimit = 100
)

// OwnerDirectory resolves store owners against the user directory.
type OwnerDirectory interface {
	// OwnerByEmail returns the ID of the owner-role user registered under
	// the email, or gorm.ErrRecordNotFound.
	OwnerByEmail(ctx context.Context, email string) (uuid.UUID, error)
	// RoleByID returns the user's current role.
	RoleByID(ctx context.Context, id uuid.UUID) (enums.Role, error)
}

// CreateStoreInput carries the fields an owner provides for their own store.
type CreateStoreInput struct {
	Name    string
	Email   *string
	Address *string
}

// AdminCreateStoreInput additionally lets an administrator assign an owner,
// by ID or by email.
type AdminCreateStoreInput struct {
	CreateStoreInput
	OwnerID    *uuid.UUID
	OwnerEmail *string
}

// Service implements store listing, creation and owner views.
type Service struct {
	repo   *Repository
	owners OwnerDirectory
}

// NewService wires the stores service.
func NewService(repo *Repository, owners OwnerDirectory) *Service {
	return &Service{repo: repo, owners: owners}
}

// PublicList returns every store with aggregates, ordered by name. The
// viewer's own rating is attached when the caller is authenticated.
func (s *Service) PublicList(ctx context.Context, query string, viewer uuid.UUID) ([]StoreSummary, error) {
	rows, err := s.repo.ListSummaries(ctx, SummaryFilter{
		Query:       query,
		ViewerID:    viewer,
		OrderByName: true,
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDependency, err, "list stores")
	}
	return toSummaries(rows), nil
}

// Detail returns one store's aggregates plus its latest ratings.
func (s *Service) Detail(ctx context.Context, id, viewer uuid.UUID) (*StoreDetail, error) {
	row, err := s.repo.SummaryByID(ctx, id, viewer)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.CodeNotFound, "store not found")
		}
		return nil, apperrors.Wrap(apperrors.CodeDependency, err, "load store")
	}

	ratings, err := s.repo.RatingsForStore(ctx, id, RecentRatingsLimit)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDependency, err, "load store ratings")
	}

	detail := &StoreDetail{
		StoreSummary:  toSummary(*row),
		RecentRatings: toRatingEntries(ratings),
	}
	return detail, nil
}

// AdminList returns stores with aggregates for the admin dashboard,
// newest first and capped.
func (s *Service) AdminList(ctx context.Context, query string) ([]StoreSummary, error) {
	rows, err := s.repo.ListSummaries(ctx, SummaryFilter{
		Query: query,
		Limit: AdminListLimit,
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDependency, err, "list stores")
	}
	return toSummaries(rows), nil
}

// AdminCreate creates a store, optionally assigned to an owner. The
// assignee must currently hold the owner role.
func (s *Service) AdminCreate(ctx context.Context, input AdminCreateStoreInput) (*StoreDTO, error) {
	ownerID := input.OwnerID
	if ownerID == nil && input.OwnerEmail != nil && *input.OwnerEmail != "" {
		id, err := s.owners.OwnerByEmail(ctx, *input.OwnerEmail)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.New(apperrors.CodeValidation, "owner_email must belong to a user with the owner role")
			}
			return nil, apperrors.Wrap(apperrors.CodeDependency, err, "resolve owner")
		}
		ownerID = &id
	}

	if ownerID != nil {
		role, err := s.owners.RoleByID(ctx, *ownerID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.New(apperrors.CodeValidation, "invalid owner")
			}
			return nil, apperrors.Wrap(apperrors.CodeDependency, err, "resolve owner")
		}
		if role != enums.RoleOwner {
			return nil, apperrors.New(apperrors.CodeValidation, "invalid owner")
		}
	}

	store, err := s.repo.Create(ctx, CreateStoreDTO{
		Name:    input.Name,
		Email:   input.Email,
		Address: input.Address,
		OwnerID: ownerID,
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDependency, err, "create store")
	}

	dto := FromModel(store)
	return &dto, nil
}

// OwnerCreate creates a store owned by the calling owner.
func (s *Service) OwnerCreate(ctx context.Context, ownerID uuid.UUID, input CreateStoreInput) (*StoreDTO, error) {
	store, err := s.repo.Create(ctx, CreateStoreDTO{
		Name:    input.Name,
		Email:   input.Email,
		Address: input.Address,
		OwnerID: &ownerID,
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDependency, err, "create store")
	}

	dto := FromModel(store)
	return &dto, nil
}

// OwnerList returns the owner's stores with aggregates, newest first.
func (s *Service) OwnerList(ctx context.Context, ownerID uuid.UUID) ([]StoreSummary, error) {
	rows, err := s.repo.ListSummaries(ctx, SummaryFilter{OwnerID: &ownerID})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDependency, err, "list owner stores")
	}
	return toSummaries(rows), nil
}

// OwnerRatings lists the latest ratings for one of the owner's stores.
// A store that does not exist or belongs to someone else is rejected the
// same way, so the endpoint does not leak store existence.
func (s *Service) OwnerRatings(ctx context.Context, ownerID, storeID uuid.UUID) ([]RatingEntry, error) {
	owned, err := s.repo.IsOwnedBy(ctx, storeID, ownerID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDependency, err, "check store ownership")
	}
	if !owned {
		return nil, apperrors.New(apperrors.CodeForbidden, "not your store")
	}

	rows, err := s.repo.RatingsForStore(ctx, storeID, OwnerRatingsLimit)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDependency, err, "load store ratings")
	}
	return toRatingEntries(rows), nil
}

// OwnerStats aggregates ratings across the owner's stores for the admin
// user detail view.
func (s *Service) OwnerStats(ctx context.Context, ownerID uuid.UUID) (*users.OwnerStats, error) {
	avg, count, perStore, err := s.repo.OwnerRollup(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	stats := &users.OwnerStats{
		AverageRating: roundAverage(avg),
		RatingsCount:  count,
		Stores:        make([]users.OwnerStoreStat, 0, len(perStore)),
	}
	for _, row := range perStore {
		stats.Stores = append(stats.Stores, users.OwnerStoreStat{
			StoreID:       row.ID,
			Name:          row.Name,
			AverageRating: roundAverage(row.AverageRating),
			RatingsCount:  row.RatingsCount,
		})
	}
	return stats, nil
}

// roundAverage rounds a raw rating mean to two decimal places without
// binary-float drift.
func roundAverage(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

func toSummary(row summaryRow) StoreSummary {
	summary := StoreSummary{
		StoreDTO: StoreDTO{
			ID:        row.ID,
			Name:      row.Name,
			CreatedAt: row.CreatedAt,
		},
		AverageRating: roundAverage(row.AverageRating),
		RatingsCount:  row.RatingsCount,
	}
	if row.Email.Valid {
		summary.Email = &row.Email.String
	}
	if row.Address.Valid {
		summary.Address = &row.Address.String
	}
	if row.OwnerID.Valid {
		if parsed, err := uuid.Parse(row.OwnerID.String); err == nil {
			summary.OwnerID = &parsed
		}
	}
	if row.UserRating.Valid {
		rating := int(row.UserRating.Int64)
		summary.UserRating = &rating
	}
	return summary
}

func toSummaries(rows []summaryRow) []StoreSummary {
	out := make([]StoreSummary, 0, len(rows))
	for _, row := range rows {
		out = append(out, toSummary(row))
	}
	return out
}

func toRatingEntries(rows []ratingRow) []RatingEntry {
	out := make([]RatingEntry, 0, len(rows))
	for _, row := range rows {
		out = append(out, RatingEntry{
			ID:        row.ID,
			UserID:    row.UserID,
			UserName:  row.UserName,
			UserEmail: row.UserEmail,
			Rating:    row.Rating,
			CreatedAt: row.CreatedAt,
		})
	}
	return out
}
