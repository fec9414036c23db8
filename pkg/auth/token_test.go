package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/ratewise/store-ratings-backend/pkg/config"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:   "secret",
		Issuer:   "store-ratings",
		TokenTTL: 7 * 24 * time.Hour,
	}
}

func TestMintAndParseToken(t *testing.T) {
	cfg := testJWTConfig()
	now := time.Now().UTC()
	userID := uuid.New()

	token, err := MintToken(cfg, now, TokenPayload{UserID: userID, Email: "a@b.test"})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	claims, err := ParseToken(cfg, token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}

	if claims.UserID != userID {
		t.Fatalf("expected user_id %s, got %s", userID, claims.UserID)
	}
	if claims.Email != "a@b.test" {
		t.Fatalf("unexpected email %q", claims.Email)
	}
	if claims.Issuer != cfg.Issuer {
		t.Fatalf("unexpected issuer %q", claims.Issuer)
	}
	if got := claims.ExpiresAt.Time.Sub(claims.IssuedAt.Time); got != cfg.TokenTTL {
		t.Fatalf("expected TTL %v, got %v", cfg.TokenTTL, got)
	}
}

func TestParseTokenRejectsExpired(t *testing.T) {
	cfg := testJWTConfig()
	issued := time.Now().UTC().Add(-cfg.TokenTTL - time.Minute)

	token, err := MintToken(cfg, issued, TokenPayload{UserID: uuid.New(), Email: "old@b.test"})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	if _, err := ParseToken(cfg, token); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	cfg := testJWTConfig()
	token, err := MintToken(cfg, time.Now().UTC(), TokenPayload{UserID: uuid.New(), Email: "a@b.test"})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	other := cfg
	other.Secret = "different"
	if _, err := ParseToken(other, token); err == nil {
		t.Fatal("expected token signed with another secret to be rejected")
	}
}

func TestMintTokenValidation(t *testing.T) {
	now := time.Now().UTC()

	cfg := testJWTConfig()
	cfg.Secret = ""
	if _, err := MintToken(cfg, now, TokenPayload{UserID: uuid.New(), Email: "a@b.test"}); err == nil {
		t.Fatal("expected error without secret")
	}

	cfg = testJWTConfig()
	cfg.TokenTTL = 0
	if _, err := MintToken(cfg, now, TokenPayload{UserID: uuid.New(), Email: "a@b.test"}); err == nil {
		t.Fatal("expected error without TTL")
	}

	cfg = testJWTConfig()
	if _, err := MintToken(cfg, now, TokenPayload{UserID: uuid.New()}); err == nil {
		t.Fatal("expected error without email")
	}
}
