package users

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ratewise/store-ratings-backend/pkg/db/models"
	"github.com/ratewise/store-ratings-backend/pkg/enums"
)

// ListFilter narrows the administrative user listing.
type ListFilter struct {
	Query string
	Role  string
	Limit int
}

// DefaultListLimit caps administrative listings; there is no pagination cursor.
const DefaultListLimit = 200

// Repository exposes user-related persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a users repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new user and returns the persisted model.
func (r *Repository) Create(ctx context.Context, dto CreateUserDTO) (*models.User, error) {
	user := dto.ToModel()
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// FindByEmail retrieves the user matching the provided email, case-insensitively.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	normalized := strings.ToLower(strings.TrimSpace(email))
	if err := r.db.WithContext(ctx).Where("email = ?", normalized).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// EmailExists reports whether any user is registered under the email,
// ignoring letter case.
func (r *Repository) EmailExists(ctx context.Context, email string) (bool, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("email = ?", normalized).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// OwnerByEmail returns the ID of the owner-role user registered under the
// email, or gorm.ErrRecordNotFound when no such owner exists.
func (r *Repository) OwnerByEmail(ctx context.Context, email string) (uuid.UUID, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	var user models.User
	err := r.db.WithContext(ctx).
		Select("id").
		Where("email = ? AND role = ?", normalized, enums.RoleOwner).
		First(&user).Error
	if err != nil {
		return uuid.Nil, err
	}
	return user.ID, nil
}

// FindByID loads a user by their UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// RoleByID fetches the user's current role. Privileged checks call this on
// every request instead of trusting anything token-derived.
func (r *Repository) RoleByID(ctx context.Context, id uuid.UUID) (enums.Role, error) {
	var role string
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		Pluck("role", &role).Error
	if err != nil {
		return "", err
	}
	if role == "" {
		return "", gorm.ErrRecordNotFound
	}
	return enums.Role(role), nil
}

// UpdatePasswordHash replaces the user's stored password hash.
func (r *Repository) UpdatePasswordHash(ctx context.Context, id uuid.UUID, hash string) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		UpdateColumn("password_hash", hash).Error
}

// List returns users matching the filter, newest first, capped at the limit.
func (r *Repository) List(ctx context.Context, filter ListFilter) ([]models.User, error) {
	limit := filter.Limit
	if limit <= 0 || limit > DefaultListLimit {
		limit = DefaultListLimit
	}

	query := r.db.WithContext(ctx).Model(&models.User{})
	if q := strings.TrimSpace(filter.Query); q != "" {
		pattern := "%" + strings.ToLower(q) + "%"
		query = query.Where(
			"LOWER(name) LIKE ? OR LOWER(email) LIKE ? OR LOWER(COALESCE(address, '')) LIKE ?",
			pattern, pattern, pattern,
		)
	}
	if role := strings.TrimSpace(filter.Role); role != "" {
		query = query.Where("role = ?", role)
	}

	var users []models.User
	if err := query.Order("created_at DESC").Limit(limit).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// Count returns the total number of users.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.User{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
