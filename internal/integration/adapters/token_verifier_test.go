package adapters

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	domainerror "github.com/building-ledger/backend/internal/domain/error"
)

const testSecret = "verifier-test-secret"

func signToken(t *testing.T, secret string, claims AccessClaims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return signed
}

func accessClaims(userID uuid.UUID) AccessClaims {
	now := time.Now().UTC()
	return AccessClaims{
		UserID:    userID.String(),
		Role:      "resident",
		TokenType: "access",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(15 * time.Minute)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
}

func TestVerifyAccessToken(t *testing.T) {
	verifier := NewTokenVerifier(testSecret)
	ctx := context.Background()

	t.Run("accepts a valid token", func(t *testing.T) {
		userID := uuid.New()
		token := signToken(t, testSecret, accessClaims(userID))

		claims, err := verifier.VerifyAccessToken(ctx, token)
		if err != nil {
			t.Fatalf("expected token to verify, got %v", err)
		}
		if claims.UserID != userID {
			t.Errorf("expected user %s, got %s", userID, claims.UserID)
		}
		if claims.Role != "resident" {
			t.Errorf("expected role resident, got %s", claims.Role)
		}
	})

	t.Run("rejects a token without expiry", func(t *testing.T) {
		claims := accessClaims(uuid.New())
		claims.ExpiresAt = nil
		token := signToken(t, testSecret, claims)

		_, err := verifier.VerifyAccessToken(ctx, token)
		if !errors.Is(err, domainerror.ErrInvalidToken) {
			t.Fatalf("expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("rejects an expired token", func(t *testing.T) {
		claims := accessClaims(uuid.New())
		claims.ExpiresAt = jwt.NewNumericDate(time.Now().UTC().Add(-time.Minute))
		token := signToken(t, testSecret, claims)

		_, err := verifier.VerifyAccessToken(ctx, token)
		if !errors.Is(err, domainerror.ErrInvalidToken) {
			t.Fatalf("expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("rejects a non-access token type", func(t *testing.T) {
		claims := accessClaims(uuid.New())
		claims.TokenType = "refresh"
		token := signToken(t, testSecret, claims)

		_, err := verifier.VerifyAccessToken(ctx, token)
		if !errors.Is(err, domainerror.ErrInvalidToken) {
			t.Fatalf("expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("rejects a token signed with another secret", func(t *testing.T) {
		token := signToken(t, "some-other-secret", accessClaims(uuid.New()))

		_, err := verifier.VerifyAccessToken(ctx, token)
		if !errors.Is(err, domainerror.ErrInvalidToken) {
			t.Fatalf("expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("rejects a malformed user id", func(t *testing.T) {
		claims := accessClaims(uuid.New())
		claims.UserID = "not-a-uuid"
		token := signToken(t, testSecret, claims)

		_, err := verifier.VerifyAccessToken(ctx, token)
		if !errors.Is(err, domainerror.ErrInvalidToken) {
			t.Fatalf("expected ErrInvalidToken, got %v", err)
		}
	})
}
