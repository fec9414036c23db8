package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/ratewise/store-ratings-backend/internal/auth"
	"github.com/ratewise/store-ratings-backend/internal/ratings"
	pkgerrors "github.com/ratewise/store-ratings-backend/pkg/errors"
)

type stubRatingSubmitter struct {
	dto       *ratings.RatingDTO
	err       error
	lastUser  uuid.UUID
	lastStore uuid.UUID
	lastValue int
}

func (s *stubRatingSubmitter) Submit(ctx context.Context, userID, storeID uuid.UUID, value int) (*ratings.RatingDTO, error) {
	s.lastUser = userID
	s.lastStore = storeID
	s.lastValue = value
	return s.dto, s.err
}

func TestSubmitRatingSuccess(t *testing.T) {
	userID := uuid.New()
	storeID := uuid.New()
	svc := &stubRatingSubmitter{dto: &ratings.RatingDTO{ID: uuid.New(), UserID: userID, StoreID: storeID, Rating: 4}}
	handler := SubmitRating(svc, nil)

	req := requestWithRouteID(
		authedRequest(http.MethodPost, "/stores/"+storeID.String()+"/ratings",
			jsonBody(t, map[string]int{"rating": 4}),
			&auth.Identity{ID: userID}),
		storeID.String(),
	)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", rec.Code)
	}
	if svc.lastUser != userID || svc.lastStore != storeID || svc.lastValue != 4 {
		t.Fatalf("unexpected submit args: user=%s store=%s value=%d", svc.lastUser, svc.lastStore, svc.lastValue)
	}

	var envelope struct {
		Data struct {
			Rating ratings.RatingDTO `json:"rating"`
		} `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Rating.Rating != 4 {
		t.Fatalf("expected rating 4, got %d", envelope.Data.Rating.Rating)
	}
}

func TestSubmitRatingRequiresIdentity(t *testing.T) {
	handler := SubmitRating(&stubRatingSubmitter{}, nil)

	storeID := uuid.New()
	req := requestWithRouteID(
		authedRequest(http.MethodPost, "/stores/"+storeID.String()+"/ratings", jsonBody(t, map[string]int{"rating": 4}), nil),
		storeID.String(),
	)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}
}

func TestSubmitRatingRejectsOutOfRange(t *testing.T) {
	for _, value := range []int{0, 6} {
		handler := SubmitRating(&stubRatingSubmitter{}, nil)

		storeID := uuid.New()
		req := requestWithRouteID(
			authedRequest(http.MethodPost, "/stores/"+storeID.String()+"/ratings",
				jsonBody(t, map[string]int{"rating": value}),
				&auth.Identity{ID: uuid.New()}),
			storeID.String(),
		)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for rating %d got %d", value, rec.Code)
		}
	}
}

func TestSubmitRatingUnknownStore(t *testing.T) {
	handler := SubmitRating(&stubRatingSubmitter{err: pkgerrors.New(pkgerrors.CodeNotFound, "store not found")}, nil)

	storeID := uuid.New()
	req := requestWithRouteID(
		authedRequest(http.MethodPost, "/stores/"+storeID.String()+"/ratings",
			jsonBody(t, map[string]int{"rating": 3}),
			&auth.Identity{ID: uuid.New()}),
		storeID.String(),
	)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rec.Code)
	}
}
