package auth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ratewise/store-ratings-backend/internal/users"
	pkgauth "github.com/ratewise/store-ratings-backend/pkg/auth"
	"github.com/ratewise/store-ratings-backend/pkg/config"
	"github.com/ratewise/store-ratings-backend/pkg/db"
	"github.com/ratewise/store-ratings-backend/pkg/db/models"
	apperrors "github.com/ratewise/store-ratings-backend/pkg/errors"
	"github.com/ratewise/store-ratings-backend/pkg/security"
)

// invalidCredentials is returned for unknown emails and wrong passwords
// alike so signin cannot be used to enumerate accounts.
var invalidCredentials = apperrors.New(apperrors.CodeUnauthorized, "invalid credentials")

// Service implements signup, signin, token resolution and password rotation.
type Service struct {
	users     *users.Repository
	jwt       config.JWTConfig
	passwords config.PasswordConfig
	now       func() time.Time
}

// NewService wires the auth service.
func NewService(repo *users.Repository, jwt config.JWTConfig, passwords config.PasswordConfig) *Service {
	return &Service{users: repo, jwt: jwt, passwords: passwords, now: time.Now}
}

// Signup registers a regular user account and signs them in.
func (s *Service) Signup(ctx context.Context, req SignupRequest) (*AuthResponse, error) {
	if err := security.ValidatePassword(req.Password); err != nil {
		return nil, err
	}

	exists, err := s.users.EmailExists(ctx, req.Email)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDependency, err, "check email")
	}
	if exists {
		return nil, apperrors.New(apperrors.CodeConflict, "email already registered")
	}

	hash, err := security.HashPassword(req.Password, s.passwords)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "hash password")
	}

	user, err := s.users.Create(ctx, users.CreateUserDTO{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
	})
	if err != nil {
		// The existence check raced a concurrent signup.
		if db.IsUniqueViolation(err, "") {
			return nil, apperrors.New(apperrors.CodeConflict, "email already registered")
		}
		return nil, apperrors.Wrap(apperrors.CodeDependency, err, "create user")
	}

	return s.respondWithToken(user)
}

// Signin exchanges valid credentials for a token.
func (s *Service) Signin(ctx context.Context, req SigninRequest) (*AuthResponse, error) {
	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, invalidCredentials
		}
		return nil, apperrors.Wrap(apperrors.CodeDependency, err, "load user")
	}

	ok, err := security.VerifyPassword(req.Password, user.PasswordHash)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "verify password")
	}
	if !ok {
		return nil, invalidCredentials
	}

	return s.respondWithToken(user)
}

// Me returns the caller's account view.
func (s *Service) Me(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.CodeUnauthorized, "user no longer exists")
		}
		return nil, apperrors.Wrap(apperrors.CodeDependency, err, "load user")
	}

	profile := toProfile(user)
	return &profile, nil
}

// ChangePassword rotates the caller's password after re-proving the
// current one, and hands back a fresh token.
func (s *Service) ChangePassword(ctx context.Context, userID uuid.UUID, req ChangePasswordRequest) (*ChangePasswordResponse, error) {
	if req.NewPassword == req.CurrentPassword {
		return nil, apperrors.New(apperrors.CodeValidation, "new password must differ from the current password")
	}
	if err := security.ValidatePassword(req.NewPassword); err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.CodeNotFound, "user not found")
		}
		return nil, apperrors.Wrap(apperrors.CodeDependency, err, "load user")
	}

	ok, err := security.VerifyPassword(req.CurrentPassword, user.PasswordHash)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "verify password")
	}
	if !ok {
		return nil, apperrors.New(apperrors.CodeUnauthorized, "current password is incorrect")
	}

	hash, err := security.HashPassword(req.NewPassword, s.passwords)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "hash password")
	}
	if err := s.users.UpdatePasswordHash(ctx, userID, hash); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeDependency, err, "update password")
	}

	token, err := s.mint(user)
	if err != nil {
		return nil, err
	}
	return &ChangePasswordResponse{Message: "password updated", Token: token}, nil
}

// Resolve validates a bearer token and loads the live identity behind it.
// Deleted accounts fail resolution even while their tokens are unexpired.
func (s *Service) Resolve(ctx context.Context, token string) (*Identity, error) {
	claims, err := pkgauth.ParseToken(s.jwt, token)
	if err != nil {
		return nil, apperrors.New(apperrors.CodeUnauthorized, "invalid or expired token")
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.CodeUnauthorized, "user no longer exists")
		}
		return nil, apperrors.Wrap(apperrors.CodeDependency, err, "load user")
	}

	return &Identity{ID: user.ID, Name: user.Name, Email: user.Email}, nil
}

func (s *Service) mint(user *models.User) (string, error) {
	token, err := pkgauth.MintToken(s.jwt, s.now(), pkgauth.TokenPayload{
		UserID: user.ID,
		Email:  user.Email,
	})
	if err != nil {
		return "", apperrors.Wrap(apperrors.CodeInternal, err, "mint token")
	}
	return token, nil
}

func (s *Service) respondWithToken(user *models.User) (*AuthResponse, error) {
	token, err := s.mint(user)
	if err != nil {
		return nil, err
	}
	return &AuthResponse{User: toProfile(user), Token: token}, nil
}

func toProfile(user *models.User) Profile {
	return Profile{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Address:   user.Address,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
	}
}
