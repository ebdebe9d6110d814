// Package identitytest provides an in-memory identity.Provider for tests.
package identitytest

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/hirehub/server/internal/identity"
)

const cookiePrefix = "session-for:"

var (
	ErrInvalidToken  = errors.New("identitytest: invalid id token")
	ErrInvalidCookie = errors.New("identitytest: invalid session cookie")
	ErrRevoked       = errors.New("identitytest: session revoked")
)

// Fake maps bearer tokens to identities and mints reversible cookie values.
// Failure modes are toggled per call site by the test.
type Fake struct {
	mu      sync.Mutex
	tokens  map[string]identity.Token // bearer token -> identity
	claims  map[string]map[string]any // uid -> last propagated claims
	revoked map[string]bool

	FailMint   bool
	FailClaims bool
	FailRevoke bool
}

func New() *Fake {
	return &Fake{
		tokens:  map[string]identity.Token{},
		claims:  map[string]map[string]any{},
		revoked: map[string]bool{},
	}
}

// AddToken registers a valid bearer token for the given identity.
func (f *Fake) AddToken(bearer string, tok identity.Token) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens[bearer] = tok
}

func (f *Fake) Claims(uid string) map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.claims[uid]
}

func (f *Fake) Revoked(uid string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.revoked[uid]
}

func (f *Fake) VerifyIDToken(_ context.Context, idToken string) (*identity.Token, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	tok, ok := f.tokens[idToken]
	if !ok {
		return nil, ErrInvalidToken
	}
	out := tok
	return &out, nil
}

func (f *Fake) MintSessionCookie(_ context.Context, idToken string, _ time.Duration) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailMint {
		return "", errors.New("identitytest: mint failed")
	}
	if _, ok := f.tokens[idToken]; !ok {
		return "", ErrInvalidToken
	}
	return cookiePrefix + idToken, nil
}

func (f *Fake) VerifySessionCookie(_ context.Context, cookie string, checkRevoked bool) (*identity.Token, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	bearer, ok := strings.CutPrefix(cookie, cookiePrefix)
	if !ok {
		return nil, ErrInvalidCookie
	}
	tok, ok := f.tokens[bearer]
	if !ok {
		return nil, ErrInvalidCookie
	}
	if checkRevoked && f.revoked[tok.UID] {
		return nil, ErrRevoked
	}
	out := tok
	return &out, nil
}

func (f *Fake) SetUserClaims(_ context.Context, uid string, claims map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailClaims {
		return errors.New("identitytest: claims propagation failed")
	}
	f.claims[uid] = claims
	return nil
}

func (f *Fake) RevokeRefreshTokens(_ context.Context, uid string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailRevoke {
		return errors.New("identitytest: revoke failed")
	}
	f.revoked[uid] = true
	return nil
}
