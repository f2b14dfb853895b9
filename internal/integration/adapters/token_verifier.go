package adapters

import (
	"context"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/building-ledger/backend/internal/application/adapter"
	domainerror "github.com/building-ledger/backend/internal/domain/error"
)

const tokenTypeAccess = "access"

// AccessClaims represents the claims carried by identity-service tokens.
type AccessClaims struct {
	UserID    string `json:"user_id"`
	Role      string `json:"role"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// tokenVerifier implements the adapter.TokenVerifier interface with a
// shared HMAC secret.
type tokenVerifier struct {
	secret []byte
}

// NewTokenVerifier creates a new token verifier instance.
func NewTokenVerifier(secret string) adapter.TokenVerifier {
	return &tokenVerifier{secret: []byte(secret)}
}

// VerifyAccessToken validates an access token and returns its claims.
func (v *tokenVerifier) VerifyAccessToken(_ context.Context, tokenString string) (*adapter.TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AccessClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domainerror.ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*AccessClaims)
	if !ok || !token.Valid {
		return nil, domainerror.ErrInvalidToken
	}
	if claims.TokenType != tokenTypeAccess {
		return nil, fmt.Errorf("%w: expected access token", domainerror.ErrInvalidToken)
	}
	// jwt/v5 treats a missing exp claim as valid, but the identity
	// service always stamps one, so its absence means a forged token.
	if claims.ExpiresAt == nil {
		return nil, fmt.Errorf("%w: missing expiry", domainerror.ErrInvalidToken)
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid user id", domainerror.ErrInvalidToken)
	}

	return &adapter.TokenClaims{
		UserID:    userID,
		Role:      claims.Role,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
