package database

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"github.com/rs/zerolog"
	"github.com/techincepto/portal-backend/internal/config"
	"google.golang.org/api/option"
)

// Firebase bundles the clients the portal needs from one Firebase app.
type Firebase struct {
	App       *firebase.App
	Firestore *firestore.Client
	Auth      *auth.Client
}

// NewFirebase initializes the Firebase app from a credentials file, inline JSON
// credentials or application default credentials, in that order.
func NewFirebase(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Firebase, error) {
	var opts []option.ClientOption
	switch {
	case cfg.FirebaseCredentialsFile != "":
		opts = append(opts, option.WithCredentialsFile(cfg.FirebaseCredentialsFile))
	case cfg.FirebaseCredentialsJSON != "":
		opts = append(opts, option.WithCredentialsJSON([]byte(cfg.FirebaseCredentialsJSON)))
	default:
		log.Warn().Msg("No explicit Firebase credentials, using application default credentials")
	}

	var fbCfg *firebase.Config
	if cfg.FirebaseProjectID != "" {
		fbCfg = &firebase.Config{ProjectID: cfg.FirebaseProjectID}
	}

	app, err := firebase.NewApp(ctx, fbCfg, opts...)
	if err != nil {
		return nil, fmt.Errorf("init firebase app: %w", err)
	}

	fs, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("init firestore: %w", err)
	}

	authClient, err := app.Auth(ctx)
	if err != nil {
		fs.Close()
		return nil, fmt.Errorf("init auth: %w", err)
	}

	log.Info().
		Str("project_id", cfg.FirebaseProjectID).
		Msg("Firebase connected")

	return &Firebase{App: app, Firestore: fs, Auth: authClient}, nil
}

// Close releases the Firestore connection.
func (f *Firebase) Close() error {
	return f.Firestore.Close()
}
