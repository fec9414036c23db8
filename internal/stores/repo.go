package stores

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ratewise/store-ratings-backend/pkg/db/models"
)

// AdminListLimit caps the admin store listing; there is no pagination cursor.
const AdminListLimit = 200

// SummaryFilter narrows the aggregated store listing.
type SummaryFilter struct {
	// Query matches name, email and address, case-insensitively.
	Query string
	// OwnerID restricts the listing to one owner's stores.
	OwnerID *uuid.UUID
	// ViewerID selects whose rating surfaces as user_rating. uuid.Nil
	// (anonymous) never matches a rating row.
	ViewerID uuid.UUID
	// OrderByName sorts ascending by name; the default is newest first.
	OrderByName bool
	Limit       int
}

// summaryRow mirrors the aggregate query's column list.
type summaryRow struct {
	ID            uuid.UUID
	Name          string
	Email         sql.NullString
	Address       sql.NullString
	OwnerID       sql.NullString
	CreatedAt     time.Time
	AverageRating float64
	RatingsCount  int64
	UserRating    sql.NullInt64
}

type ratingRow struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	UserName  string
	UserEmail string
	Rating    int
	CreatedAt time.Time
}

type ownerStoreRow struct {
	ID            uuid.UUID
	Name          string
	AverageRating float64
	RatingsCount  int64
}

// Repository exposes store persistence including rating aggregates.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a stores repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new store.
func (r *Repository) Create(ctx context.Context, dto CreateStoreDTO) (*models.Store, error) {
	store := dto.ToModel()
	if err := r.db.WithContext(ctx).Create(store).Error; err != nil {
		return nil, err
	}
	return store, nil
}

// FindByID loads a store by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Store, error) {
	var store models.Store
	if err := r.db.WithContext(ctx).First(&store, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &store, nil
}

// Exists reports whether a store with the ID is present.
func (r *Repository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Store{}).
		Where("id = ?", id).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

const summarySelect = `
SELECT
  s.id, s.name, s.email, s.address, s.owner_id, s.created_at,
  COALESCE(AVG(r.rating), 0) AS average_rating,
  COUNT(r.id) AS ratings_count,
  MAX(rv.rating) AS user_rating
FROM stores s
LEFT JOIN ratings r ON r.store_id = s.id
LEFT JOIN ratings rv ON rv.store_id = s.id AND rv.user_id = ?`

const summaryGroup = `
GROUP BY s.id, s.name, s.email, s.address, s.owner_id, s.created_at`

// ListSummaries returns stores with their rating aggregates. The second
// join contributes at most one row per store because (user_id, store_id)
// is unique, so it never skews the average.
func (r *Repository) ListSummaries(ctx context.Context, filter SummaryFilter) ([]summaryRow, error) {
	var sb strings.Builder
	sb.WriteString(summarySelect)
	args := []any{filter.ViewerID}

	var conditions []string
	if q := strings.TrimSpace(filter.Query); q != "" {
		pattern := "%" + strings.ToLower(q) + "%"
		conditions = append(conditions,
			"(LOWER(s.name) LIKE ? OR LOWER(COALESCE(s.email, '')) LIKE ? OR LOWER(COALESCE(s.address, '')) LIKE ?)")
		args = append(args, pattern, pattern, pattern)
	}
	if filter.OwnerID != nil {
		conditions = append(conditions, "s.owner_id = ?")
		args = append(args, *filter.OwnerID)
	}
	if len(conditions) > 0 {
		sb.WriteString("\nWHERE ")
		sb.WriteString(strings.Join(conditions, " AND "))
	}

	sb.WriteString(summaryGroup)
	if filter.OrderByName {
		sb.WriteString("\nORDER BY s.name ASC")
	} else {
		sb.WriteString("\nORDER BY s.created_at DESC")
	}
	if filter.Limit > 0 {
		sb.WriteString("\nLIMIT ?")
		args = append(args, filter.Limit)
	}

	var rows []summaryRow
	if err := r.db.WithContext(ctx).Raw(sb.String(), args...).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// SummaryByID returns one store's aggregates, or gorm.ErrRecordNotFound.
func (r *Repository) SummaryByID(ctx context.Context, id, viewer uuid.UUID) (*summaryRow, error) {
	query := summarySelect + "\nWHERE s.id = ?" + summaryGroup

	var rows []summaryRow
	if err := r.db.WithContext(ctx).Raw(query, viewer, id).Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &rows[0], nil
}

const storeRatingsQuery = `
SELECT r.id, r.user_id, u.name AS user_name, u.email AS user_email, r.rating, r.created_at
FROM ratings r
JOIN users u ON u.id = r.user_id
WHERE r.store_id = ?
ORDER BY r.created_at DESC
LIMIT ?`

// RatingsForStore returns the store's latest ratings with rater identity.
func (r *Repository) RatingsForStore(ctx context.Context, storeID uuid.UUID, limit int) ([]ratingRow, error) {
	var rows []ratingRow
	err := r.db.WithContext(ctx).Raw(storeRatingsQuery, storeID, limit).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// IsOwnedBy reports whether the store belongs to the owner.
func (r *Repository) IsOwnedBy(ctx context.Context, storeID, ownerID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Store{}).
		Where("id = ? AND owner_id = ?", storeID, ownerID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

const ownerTotalsQuery = `
SELECT
  COALESCE(AVG(r.rating), 0) AS average_rating,
  COUNT(r.id) AS ratings_count
FROM stores s
LEFT JOIN ratings r ON r.store_id = s.id
WHERE s.owner_id = ?`

const ownerStoresQuery = `
SELECT
  s.id, s.name,
  COALESCE(AVG(r.rating), 0) AS average_rating,
  COUNT(r.id) AS ratings_count
FROM stores s
LEFT JOIN ratings r ON r.store_id = s.id
WHERE s.owner_id = ?
GROUP BY s.id, s.name, s.created_at
ORDER BY s.created_at DESC`

// OwnerRollup aggregates ratings across an owner's stores, overall and
// broken down per store.
func (r *Repository) OwnerRollup(ctx context.Context, ownerID uuid.UUID) (float64, int64, []ownerStoreRow, error) {
	var totals struct {
		AverageRating float64
		RatingsCount  int64
	}
	if err := r.db.WithContext(ctx).Raw(ownerTotalsQuery, ownerID).Scan(&totals).Error; err != nil {
		return 0, 0, nil, err
	}

	var perStore []ownerStoreRow
	if err := r.db.WithContext(ctx).Raw(ownerStoresQuery, ownerID).Scan(&perStore).Error; err != nil {
		return 0, 0, nil, err
	}
	return totals.AverageRating, totals.RatingsCount, perStore, nil
}

// Count returns the total number of stores.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Store{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
