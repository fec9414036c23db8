package controllers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/ratewise/store-ratings-backend/api/responses"
	"github.com/ratewise/store-ratings-backend/api/validators"
	"github.com/ratewise/store-ratings-backend/internal/stats"
	"github.com/ratewise/store-ratings-backend/internal/stores"
	"github.com/ratewise/store-ratings-backend/internal/users"
	pkgerrors "github.com/ratewise/store-ratings-backend/pkg/errors"
	"github.com/ratewise/store-ratings-backend/pkg/logger"
)

type statsService interface {
	Totals(ctx context.Context) (*stats.Totals, error)
}

type userAdmin interface {
	Create(ctx context.Context, input users.CreateUserInput) (*users.UserDTO, error)
	List(ctx context.Context, filter users.ListFilter) ([]users.UserDTO, error)
	Detail(ctx context.Context, id uuid.UUID) (*users.UserDetail, error)
}

type storeAdmin interface {
	AdminList(ctx context.Context, query string) ([]stores.StoreSummary, error)
	AdminCreate(ctx context.Context, input stores.AdminCreateStoreInput) (*stores.StoreDTO, error)
}

type adminCreateUserRequest struct {
	Name     string  `json:"name" validate:"required,min=1,max=120"`
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=6"`
	Address  *string `json:"address,omitempty" validate:"omitempty,max=400"`
	Role     string  `json:"role,omitempty" validate:"omitempty,oneof=user admin owner"`
}

type adminCreateStoreRequest struct {
	Name       string  `json:"name" validate:"required,min=1,max=120"`
	Email      *string `json:"email,omitempty" validate:"omitempty,email"`
	Address    *string `json:"address,omitempty" validate:"omitempty,max=400"`
	OwnerID    *string `json:"owner_id,omitempty" validate:"omitempty,uuid"`
	OwnerEmail *string `json:"owner_email,omitempty" validate:"omitempty,email"`
}

// AdminStats returns platform-wide totals.
func AdminStats(svc statsService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		totals, err := svc.Totals(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, totals)
	}
}

// AdminListUsers lists users with optional q and role filters.
func AdminListUsers(svc userAdmin, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.List(r.Context(), users.ListFilter{
			Query: validators.QueryString(r, "q"),
			Role:  validators.QueryString(r, "role"),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"users": list})
	}
}

// AdminGetUser returns one user, with an owner rating rollup for owners.
func AdminGetUser(svc userAdmin, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.UUIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		detail, err := svc.Detail(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"user": detail})
	}
}

// AdminCreateUser provisions an account with an explicit role.
func AdminCreateUser(svc userAdmin, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req adminCreateUserRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		role := req.Role
		if role == "" {
			role = "user"
		}

		user, err := svc.Create(r.Context(), users.CreateUserInput{
			Name:     req.Name,
			Email:    req.Email,
			Password: req.Password,
			Address:  req.Address,
			Role:     role,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{"user": user})
	}
}

// AdminListStores lists stores with aggregates, newest first.
func AdminListStores(svc storeAdmin, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.AdminList(r.Context(), validators.QueryString(r, "q"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"stores": list})
	}
}

// AdminCreateStore creates a store, optionally assigning an owner by ID
// or email.
func AdminCreateStore(svc storeAdmin, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req adminCreateStoreRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := stores.AdminCreateStoreInput{
			CreateStoreInput: stores.CreateStoreInput{
				Name:    req.Name,
				Email:   req.Email,
				Address: req.Address,
			},
			OwnerEmail: req.OwnerEmail,
		}
		if req.OwnerID != nil {
			parsed, err := uuid.Parse(*req.OwnerID)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "owner_id must be a UUID"))
				return
			}
			input.OwnerID = &parsed
		}

		store, err := svc.AdminCreate(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{"store": store})
	}
}
