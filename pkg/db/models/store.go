package models

import (
	"time"

	"github.com/google/uuid"
)

// Store is a ratable storefront. OwnerID must reference a user whose role is
// "owner" at assignment time; a later role change is not re-checked.
type Store struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Name      string     `gorm:"column:name;not null"`
	Email     *string    `gorm:"column:email"`
	Address   *string    `gorm:"column:address"`
	OwnerID   *uuid.UUID `gorm:"column:owner_id;type:uuid;index"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
