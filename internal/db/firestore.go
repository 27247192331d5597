package db

import (
	"context"
	"encoding/base64"
	"fmt"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"

	"github.com/naveensing575/next-pay-flow/internal/config"
)

// Clients bundles the Firebase-backed clients the application shares across
// requests. A single instance is constructed at startup and injected into
// repositories and middleware; there is no package-level singleton.
type Clients struct {
	Firestore *firestore.Client
	Auth      *auth.Client
}

// InitFirestore initializes the Firebase Admin SDK and returns the Firestore
// and Auth clients. Credentials are resolved from a service-account file path,
// a base64-encoded service-account JSON blob, or Application Default
// Credentials, in that order.
func InitFirestore(ctx context.Context, appConfig *config.Config) (*Clients, error) {
	if appConfig == nil {
		return nil, fmt.Errorf("InitFirestore: appConfig cannot be nil")
	}

	var opts []option.ClientOption
	if appConfig.GoogleApplicationCredentials != "" {
		opts = append(opts, option.WithCredentialsFile(appConfig.GoogleApplicationCredentials))
	} else if appConfig.FirebaseServiceAccountJSONBase64 != "" {
		decoded, err := base64.StdEncoding.DecodeString(appConfig.FirebaseServiceAccountJSONBase64)
		if err != nil {
			return nil, fmt.Errorf("failed to decode FIREBASE_SERVICE_ACCOUNT_JSON_BASE64: %w", err)
		}
		opts = append(opts, option.WithCredentialsJSON(decoded))
	}
	// With no explicit credentials, the SDK falls back to ADC, which is the
	// expected setup on GCP runtimes.

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: appConfig.FirebaseProjectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("firebase.NewApp: %w", err)
	}

	fsClient, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("app.Firestore: %w", err)
	}

	authClient, err := app.Auth(ctx)
	if err != nil {
		fsClient.Close()
		return nil, fmt.Errorf("app.Auth: %w", err)
	}

	return &Clients{Firestore: fsClient, Auth: authClient}, nil
}

// Close releases the Firestore connection.
func (c *Clients) Close() error {
	if c == nil || c.Firestore == nil {
		return nil
	}
	return c.Firestore.Close()
}
