package identity

import (
	"context"
	"time"
)

// Token is the verified identity extracted from a provider credential.
// It is produced per request and never persisted.
type Token struct {
	UID   string
	Email string
	Name  string
}

// Provider is the external identity provider surface this service consumes.
// Token and cookie validity are owned entirely by the provider; the server
// keeps no session table.
type Provider interface {
	// VerifyIDToken exchanges a bearer ID token for the caller's identity.
	VerifyIDToken(ctx context.Context, idToken string) (*Token, error)

	// MintSessionCookie derives a long-lived session cookie value from a
	// still-valid ID token.
	MintSessionCookie(ctx context.Context, idToken string, ttl time.Duration) (string, error)

	// VerifySessionCookie validates a session cookie value, optionally
	// checking the provider's revocation state.
	VerifySessionCookie(ctx context.Context, cookie string, checkRevoked bool) (*Token, error)

	// SetUserClaims propagates app metadata into the provider. Callers treat
	// failures as non-fatal.
	SetUserClaims(ctx context.Context, uid string, claims map[string]any) error

	// RevokeRefreshTokens invalidates all outstanding sessions for a uid.
	RevokeRefreshTokens(ctx context.Context, uid string) error
}
