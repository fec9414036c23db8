package users

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ratewise/store-ratings-backend/pkg/config"
	"github.com/ratewise/store-ratings-backend/pkg/db"
	apperrors "github.com/ratewise/store-ratings-backend/pkg/errors"
	"github.com/ratewise/store-ratings-backend/pkg/enums"
	"github.com/ratewise/store-ratings-backend/pkg/security"
)

// OwnerStoreStat is one store's rating rollup within an owner summary.
type OwnerStoreStat struct {
	StoreID       uuid.UUID `json:"store_id"`
	Name          string    `json:"name"`
	AverageRating float64   `json:"average_rating"`
	RatingsCount  int64     `json:"ratings_count"`
}

// OwnerStats aggregates ratings across every store an owner holds.
type OwnerStats struct {
	AverageRating float64          `json:"average_rating"`
	RatingsCount  int64            `json:"ratings_count"`
	Stores        []OwnerStoreStat `json:"stores"`
}

// OwnerStatsSource supplies the per-owner rating rollup shown on the
// admin user detail page.
type OwnerStatsSource interface {
	OwnerStats(ctx context.Context, ownerID uuid.UUID) (*OwnerStats, error)
}

// UserDetail is the admin-facing view of a single user. OwnerStats is
// populated only when the user currently holds the owner role.
type UserDetail struct {
	UserDTO
	OwnerStats *OwnerStats `json:"owner_stats,omitempty"`
}

// CreateUserInput carries the fields an administrator provides when
// provisioning an account with an explicit role.
type CreateUserInput struct {
	Name     string
	Email    string
	Password string
	Address  *string
	Role     string
}

// Service implements user management on top of the repository.
type Service struct {
	repo       *Repository
	ownerStats OwnerStatsSource
	passwords  config.PasswordConfig
}

// NewService wires the users service.
func NewService(repo *Repository, ownerStats OwnerStatsSource, passwords config.PasswordConfig) *Service {
	return &Service{repo: repo, ownerStats: ownerStats, passwords: passwords}
}

// Create provisions a user with the requested role. Unlike public signup,
// the caller picks the role, so it is validated here.
func (s *Service) Create(ctx context.Context, input CreateUserInput) (*UserDTO, error) {
	role, err := enums.ParseRole(input.Role)
	if err != nil {
		return nil, apperrors.New(apperrors.CodeValidation, "role must be one of user, admin, owner")
	}
	if err := security.ValidatePassword(input.Password); err != nil {
		return nil, err
	}

	hash, err := security.HashPassword(input.Password, s.passwords)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "hash password")
	}

	user, err := s.repo.Create(ctx, CreateUserDTO{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hash,
		Address:      input.Address,
		Role:         role,
	})
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, apperrors.New(apperrors.CodeConflict, "email already registered")
		}
		return nil, apperrors.Wrap(apperrors.CodeDependency, err, "create user")
	}

	dto := FromModel(user)
	return &dto, nil
}

// List returns users for the admin dashboard, optionally filtered by a
// free-text query and a role.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]UserDTO, error) {
	if filter.Role != "" {
		if _, err := enums.ParseRole(filter.Role); err != nil {
			return nil, apperrors.New(apperrors.CodeValidation, "role must be one of user, admin, owner")
		}
	}

	users, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDependency, err, "list users")
	}

	out := make([]UserDTO, 0, len(users))
	for i := range users {
		out = append(out, FromModel(&users[i]))
	}
	return out, nil
}

// Detail loads a single user and, for owners, attaches their rating rollup.
func (s *Service) Detail(ctx context.Context, id uuid.UUID) (*UserDetail, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.CodeNotFound, "user not found")
		}
		return nil, apperrors.Wrap(apperrors.CodeDependency, err, "load user")
	}

	detail := &UserDetail{UserDTO: FromModel(user)}
	if user.Role == enums.RoleOwner && s.ownerStats != nil {
		stats, err := s.ownerStats.OwnerStats(ctx, user.ID)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.CodeDependency, err, "load owner stats")
		}
		detail.OwnerStats = stats
	}
	return detail, nil
}

// RoleOf returns the user's current role straight from storage.
func (s *Service) RoleOf(ctx context.Context, id uuid.UUID) (enums.Role, error) {
	role, err := s.repo.RoleByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", apperrors.New(apperrors.CodeUnauthorized, "user no longer exists")
		}
		return "", apperrors.Wrap(apperrors.CodeDependency, err, "load role")
	}
	return role, nil
}

