package models

import (
	"time"

	"github.com/google/uuid"
)

// Rating holds one row per (user, store) pair. A repeat submission overwrites
// the value and refreshes CreatedAt, which doubles as the last-update time.
type Rating struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	StoreID   uuid.UUID `gorm:"column:store_id;type:uuid;not null;uniqueIndex:idx_ratings_user_store,priority:2"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_ratings_user_store,priority:1"`
	Rating    int       `gorm:"column:rating;not null"`
	CreatedAt time.Time `gorm:"column:created_at"`
}
