package config

import (
	"context"
	"os"

	"github.com/hirehub/server/internal/identity"
)

var IdentityProvider *identity.FirebaseProvider

// InitFirebase initializes the Firebase Admin client once per process.
// Calling it again is a no-op.
func InitFirebase(ctx context.Context) error {
	if IdentityProvider != nil {
		return nil
	}

	credFile := os.Getenv("FIREBASE_CREDENTIALS")
	if credFile == "" {
		credFile = "service-account.json"
	}
	if _, err := os.Stat(credFile); err != nil {
		// Fall back to application-default credentials.
		credFile = ""
	}

	p, err := identity.NewFirebaseProvider(ctx, credFile)
	if err != nil {
		return err
	}
	IdentityProvider = p
	return nil
}
