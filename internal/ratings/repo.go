package ratings

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ratewise/store-ratings-backend/pkg/db/models"
)

// Repository persists ratings.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a ratings repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Upsert inserts a rating or, when the user has already rated the store,
// replaces the value and refreshes the timestamp. The write is a single
// statement so concurrent submissions cannot produce two rows.
func (r *Repository) Upsert(ctx context.Context, userID, storeID uuid.UUID, value int) (*models.Rating, error) {
	rating := &models.Rating{
		ID:        uuid.New(),
		StoreID:   storeID,
		UserID:    userID,
		Rating:    value,
		CreatedAt: time.Now().UTC(),
	}

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "store_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"rating", "created_at"}),
	}).Create(rating).Error
	if err != nil {
		return nil, err
	}

	// The conflict path keeps the existing row's ID, so reload the
	// canonical row instead of trusting the inserted model.
	var stored models.Rating
	err = r.db.WithContext(ctx).
		Where("user_id = ? AND store_id = ?", userID, storeID).
		First(&stored).Error
	if err != nil {
		return nil, err
	}
	return &stored, nil
}

// FindByUserAndStore returns the user's rating for the store, if any.
func (r *Repository) FindByUserAndStore(ctx context.Context, userID, storeID uuid.UUID) (*models.Rating, error) {
	var rating models.Rating
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND store_id = ?", userID, storeID).
		First(&rating).Error
	if err != nil {
		return nil, err
	}
	return &rating, nil
}

// Count returns the total number of ratings.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Rating{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
