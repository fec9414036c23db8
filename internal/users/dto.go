package users

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ratewise/store-ratings-backend/pkg/db/models"
	"github.com/ratewise/store-ratings-backend/pkg/enums"
)

// UserDTO exposes safe user data in API responses.
type UserDTO struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Address   *string    `json:"address,omitempty"`
	Role      enums.Role `json:"role"`
	CreatedAt time.Time  `json:"created_at"`
}

// CreateUserDTO holds creation-time data for a new user. Email is normalized
// to lower case so the unique index acts case-insensitively.
type CreateUserDTO struct {
	Name         string
	Email        string
	PasswordHash string
	Address      *string
	Role         enums.Role
}

// FromModel maps the persisted user into a DTO.
func FromModel(m *models.User) UserDTO {
	return UserDTO{
		ID:        m.ID,
		Name:      m.Name,
		Email:     m.Email,
		Address:   m.Address,
		Role:      m.Role,
		CreatedAt: m.CreatedAt,
	}
}

// ToModel prepares the GORM model from creation DTO, supplying defaults.
func (c CreateUserDTO) ToModel() *models.User {
	role := c.Role
	if role == "" {
		role = enums.RoleUser
	}
	return &models.User{
		ID:           uuid.New(),
		Name:         c.Name,
		Email:        strings.ToLower(strings.TrimSpace(c.Email)),
		PasswordHash: c.PasswordHash,
		Address:      c.Address,
		Role:         role,
	}
}
