package repository

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/quakeboard/api/pkg/model"
)

// FirestorePreferenceRepository handles Firestore read/write for preferences.
type FirestorePreferenceRepository struct {
	client *firestore.Client
}

func NewFirestorePreferenceRepository(client *firestore.Client) *FirestorePreferenceRepository {
	return &FirestorePreferenceRepository{client: client}
}

func (r *FirestorePreferenceRepository) Get(ctx context.Context, key string) (string, error) {
	snap, err := r.client.Collection("preferences").Doc(key).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return "", ErrPreferenceNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get preference %s: %w", key, err)
	}
	var pref model.Preference
	if err := snap.DataTo(&pref); err != nil {
		return "", fmt.Errorf("decode preference %s: %w", key, err)
	}
	return pref.Value, nil
}

func (r *FirestorePreferenceRepository) Set(ctx context.Context, key, value string) error {
	pref := model.Preference{Key: key, Value: value, UpdatedAt: time.Now().UTC()}
	if _, err := r.client.Collection("preferences").Doc(key).Set(ctx, pref); err != nil {
		return fmt.Errorf("save preference %s: %w", key, err)
	}
	return nil
}
