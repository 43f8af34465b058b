package repository

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/quakeboard/api/internal/platform/config"
	firestoreclient "github.com/quakeboard/api/internal/platform/firestore"
	"github.com/quakeboard/api/internal/platform/sqlite"
)

// OpenPreferenceStore builds the preference backend selected by cfg. The
// returned close func releases the underlying connection.
func OpenPreferenceStore(ctx context.Context, cfg config.Config, logger zerolog.Logger) (PreferenceStore, func() error, error) {
	switch cfg.PreferencesBackend {
	case config.BackendFirestore:
		client, credsSource, err := firestoreclient.New(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		if err := firestoreclient.Ping(ctx, client); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("firestore ping: %w", err)
		}
		logger.Info().
			Str("project", cfg.FirebaseProjectID).
			Str("creds", credsSource).
			Msg("connected to Firestore")
		return NewFirestorePreferenceRepository(client), client.Close, nil

	default:
		db, err := sqlite.Open(cfg.PreferencesPath)
		if err != nil {
			return nil, nil, err
		}
		repo, err := NewSQLitePreferenceRepository(ctx, db)
		if err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		logger.Info().Str("path", cfg.PreferencesPath).Msg("opened sqlite preferences")
		return repo, db.Close, nil
	}
}
