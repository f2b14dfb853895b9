package error

import "errors"

// Auth errors surfaced by the request middleware. Session management is
// owned by the identity service; the ledger only validates bearer tokens.
var (
	// ErrInvalidToken is returned when the bearer token fails validation.
	// A missing token never reaches the verifier; the middleware answers
	// it directly with ErrCodeMissingToken.
	ErrInvalidToken = errors.New("invalid authentication token")
)

// AuthErrorCode defines error codes for authentication errors.
type AuthErrorCode string

const (
	ErrCodeMissingToken AuthErrorCode = "AUTH-010001"
	ErrCodeInvalidToken AuthErrorCode = "AUTH-010002"
	ErrCodeRateLimited  AuthErrorCode = "AUTH-010003"
)
