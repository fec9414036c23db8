package auth

import (
	"time"

	"github.com/google/uuid"

	"github.com/ratewise/store-ratings-backend/pkg/enums"
)

// SignupRequest is the public registration payload. The role is never
// client-controlled; every signup lands as a regular user.
type SignupRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=120"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// SigninRequest is the credential payload for token issuance.
type SigninRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ChangePasswordRequest rotates the caller's password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=6,nefield=CurrentPassword"`
}

// Identity is the authenticated principal attached to a request. It
// deliberately carries no role; privileged checks read the role from
// storage at decision time.
type Identity struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

// Profile is the caller-facing account view returned by signin, signup
// and the whoami endpoint.
type Profile struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Address   *string    `json:"address,omitempty"`
	Role      enums.Role `json:"role"`
	CreatedAt time.Time  `json:"created_at"`
}

// AuthResponse pairs an account view with a fresh token.
type AuthResponse struct {
	User  Profile `json:"user"`
	Token string  `json:"token"`
}

// ChangePasswordResponse confirms the rotation and hands back a fresh token.
type ChangePasswordResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}
