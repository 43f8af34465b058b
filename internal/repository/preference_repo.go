package repository

import (
	"context"
	"errors"
)

// ErrPreferenceNotFound is returned when no value is stored under a key.
var ErrPreferenceNotFound = errors.New("preference not found")

// PreferenceStore is a small key-value store for user preferences.
type PreferenceStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}
