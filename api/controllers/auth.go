package controllers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/ratewise/store-ratings-backend/api/middleware"
	"github.com/ratewise/store-ratings-backend/api/responses"
	"github.com/ratewise/store-ratings-backend/api/validators"
	"github.com/ratewise/store-ratings-backend/internal/auth"
	pkgerrors "github.com/ratewise/store-ratings-backend/pkg/errors"
	"github.com/ratewise/store-ratings-backend/pkg/logger"
)

type authService interface {
	Signup(ctx context.Context, req auth.SignupRequest) (*auth.AuthResponse, error)
	Signin(ctx context.Context, req auth.SigninRequest) (*auth.AuthResponse, error)
	Me(ctx context.Context, userID uuid.UUID) (*auth.Profile, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, req auth.ChangePasswordRequest) (*auth.ChangePasswordResponse, error)
}

func requireIdentity(r *http.Request) (*auth.Identity, error) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials")
	}
	return identity, nil
}

// AuthSignup registers a new account. The role is always "user"; elevated
// accounts are provisioned by administrators.
func AuthSignup(svc authService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req auth.SignupRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		resp, err := svc.Signup(r.Context(), req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, resp)
	}
}

// AuthSignin exchanges credentials for a token.
func AuthSignin(svc authService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req auth.SigninRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		resp, err := svc.Signin(r.Context(), req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, resp)
	}
}

// AuthMe returns the caller's account view.
func AuthMe(svc authService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, err := requireIdentity(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		profile, err := svc.Me(r.Context(), identity.ID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"user": profile})
	}
}

// AuthChangePassword rotates the caller's password.
func AuthChangePassword(svc authService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, err := requireIdentity(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req auth.ChangePasswordRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		resp, err := svc.ChangePassword(r.Context(), identity.ID, req)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, resp)
	}
}
