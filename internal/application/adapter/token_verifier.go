package adapter

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TokenClaims carries the identity extracted from a bearer token.
type TokenClaims struct {
	UserID    uuid.UUID
	Role      string
	ExpiresAt time.Time
}

// TokenVerifier validates bearer tokens issued by the identity service.
// The ledger never issues tokens, it only verifies them.
type TokenVerifier interface {
	VerifyAccessToken(ctx context.Context, token string) (*TokenClaims, error)
}
