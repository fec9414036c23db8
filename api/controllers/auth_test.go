package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/ratewise/store-ratings-backend/api/middleware"
	"github.com/ratewise/store-ratings-backend/internal/auth"
	pkgerrors "github.com/ratewise/store-ratings-backend/pkg/errors"
	"github.com/ratewise/store-ratings-backend/pkg/types"
)

type stubAuthService struct {
	signupResp *auth.AuthResponse
	signinResp *auth.AuthResponse
	profile    *auth.Profile
	changeResp *auth.ChangePasswordResponse
	err        error
}

func (s stubAuthService) Signup(ctx context.Context, req auth.SignupRequest) (*auth.AuthResponse, error) {
	return s.signupResp, s.err
}

func (s stubAuthService) Signin(ctx context.Context, req auth.SigninRequest) (*auth.AuthResponse, error) {
	return s.signinResp, s.err
}

func (s stubAuthService) Me(ctx context.Context, userID uuid.UUID) (*auth.Profile, error) {
	return s.profile, s.err
}

func (s stubAuthService) ChangePassword(ctx context.Context, userID uuid.UUID, req auth.ChangePasswordRequest) (*auth.ChangePasswordResponse, error) {
	return s.changeResp, s.err
}

func jsonBody(t *testing.T, payload any) *bytes.Reader {
	t.Helper()
	raw, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	return bytes.NewReader(raw)
}

func authedRequest(method, target string, body *bytes.Reader, identity *auth.Identity) *http.Request {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, body)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if identity != nil {
		req = req.WithContext(middleware.WithIdentity(req.Context(), identity))
	}
	return req
}

func TestAuthSignupSuccess(t *testing.T) {
	resp := &auth.AuthResponse{
		User:  auth.Profile{ID: uuid.New(), Name: "New User", Email: "new@example.com", Role: "user"},
		Token: "token-value",
	}
	handler := AuthSignup(stubAuthService{signupResp: resp}, nil)

	req := authedRequest(http.MethodPost, "/auth/signup", jsonBody(t, map[string]string{
		"name":     "New User",
		"email":    "new@example.com",
		"password": "hunter22",
	}), nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", rec.Code)
	}

	var envelope struct {
		Data auth.AuthResponse `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Token != "token-value" {
		t.Fatalf("expected token in response, got %+v", envelope.Data)
	}
}

func TestAuthSignupRejectsShortPassword(t *testing.T) {
	handler := AuthSignup(stubAuthService{}, nil)

	req := authedRequest(http.MethodPost, "/auth/signup", jsonBody(t, map[string]string{
		"name":     "New User",
		"email":    "new@example.com",
		"password": "tiny",
	}), nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestAuthSigninInvalidCredentials(t *testing.T) {
	handler := AuthSignin(stubAuthService{err: pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")}, nil)

	req := authedRequest(http.MethodPost, "/auth/signin", jsonBody(t, map[string]string{
		"email":    "new@example.com",
		"password": "wrongpass",
	}), nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}

	var envelope types.ErrorEnvelope
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Error.Message != "invalid credentials" {
		t.Fatalf("unexpected message %q", envelope.Error.Message)
	}
}

func TestAuthMeRequiresIdentity(t *testing.T) {
	handler := AuthMe(stubAuthService{}, nil)

	req := authedRequest(http.MethodGet, "/auth/me", nil, nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}
}

func TestAuthMeReturnsProfile(t *testing.T) {
	id := uuid.New()
	profile := &auth.Profile{ID: id, Name: "Someone", Email: "me@example.com", Role: "user"}
	handler := AuthMe(stubAuthService{profile: profile}, nil)

	req := authedRequest(http.MethodGet, "/auth/me", nil, &auth.Identity{ID: id, Email: "me@example.com"})
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}

	var envelope struct {
		Data struct {
			User auth.Profile `json:"user"`
		} `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.User.ID != id {
		t.Fatalf("expected id %s got %s", id, envelope.Data.User.ID)
	}
}

func TestAuthChangePasswordRejectsReusedPassword(t *testing.T) {
	handler := AuthChangePassword(stubAuthService{}, nil)

	req := authedRequest(http.MethodPost, "/auth/change-password", jsonBody(t, map[string]string{
		"current_password": "samepass",
		"new_password":     "samepass",
	}), &auth.Identity{ID: uuid.New()})
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestAuthChangePasswordSuccess(t *testing.T) {
	handler := AuthChangePassword(stubAuthService{
		changeResp: &auth.ChangePasswordResponse{Message: "password updated", Token: "fresh-token"},
	}, nil)

	req := authedRequest(http.MethodPost, "/auth/change-password", jsonBody(t, map[string]string{
		"current_password": "oldpass1",
		"new_password":     "newpass1",
	}), &auth.Identity{ID: uuid.New()})
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}

	var envelope struct {
		Data auth.ChangePasswordResponse `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Token != "fresh-token" {
		t.Fatalf("expected fresh token, got %+v", envelope.Data)
	}
}
