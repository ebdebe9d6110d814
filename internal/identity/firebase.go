package identity

import (
	"context"
	"time"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

type FirebaseProvider struct {
	client *auth.Client
}

// NewFirebaseProvider builds a provider from a service-account file, or from
// application-default credentials when credentialsFile is empty.
func NewFirebaseProvider(ctx context.Context, credentialsFile string) (*FirebaseProvider, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	app, err := firebase.NewApp(ctx, nil, opts...)
	if err != nil {
		return nil, err
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, err
	}
	return &FirebaseProvider{client: client}, nil
}

func (p *FirebaseProvider) VerifyIDToken(ctx context.Context, idToken string) (*Token, error) {
	t, err := p.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, err
	}
	return tokenFromClaims(t), nil
}

func (p *FirebaseProvider) MintSessionCookie(ctx context.Context, idToken string, ttl time.Duration) (string, error) {
	return p.client.SessionCookie(ctx, idToken, ttl)
}

func (p *FirebaseProvider) VerifySessionCookie(ctx context.Context, cookie string, checkRevoked bool) (*Token, error) {
	var (
		t   *auth.Token
		err error
	)
	if checkRevoked {
		t, err = p.client.VerifySessionCookieAndCheckRevoked(ctx, cookie)
	} else {
		t, err = p.client.VerifySessionCookie(ctx, cookie)
	}
	if err != nil {
		return nil, err
	}
	return tokenFromClaims(t), nil
}

func (p *FirebaseProvider) SetUserClaims(ctx context.Context, uid string, claims map[string]any) error {
	return p.client.SetCustomUserClaims(ctx, uid, claims)
}

func (p *FirebaseProvider) RevokeRefreshTokens(ctx context.Context, uid string) error {
	return p.client.RevokeRefreshTokens(ctx, uid)
}

func tokenFromClaims(t *auth.Token) *Token {
	out := &Token{UID: t.UID}
	if v, ok := t.Claims["email"].(string); ok {
		out.Email = v
	}
	if v, ok := t.Claims["name"].(string); ok {
		out.Name = v
	}
	return out
}
