package theme

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/quakeboard/api/internal/repository"
)

// Key is the preference key the theme is stored under.
const Key = "theme"

// Theme is the dashboard colour scheme.
type Theme string

const (
	Light Theme = "light"
	Dark  Theme = "dark"
)

// Parse accepts "light" or "dark", case-insensitively.
func Parse(raw string) (Theme, error) {
	switch t := Theme(strings.ToLower(strings.TrimSpace(raw))); t {
	case Light, Dark:
		return t, nil
	default:
		return "", fmt.Errorf("invalid theme %q", raw)
	}
}

// Opposite returns the other theme.
func (t Theme) Opposite() Theme {
	if t == Dark {
		return Light
	}
	return Dark
}

// Service reads and writes the theme preference.
type Service struct {
	store  repository.PreferenceStore
	logger zerolog.Logger
}

func NewService(store repository.PreferenceStore, logger zerolog.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// Get returns the stored theme. Absent or unrecognised values read as Light.
func (s *Service) Get(ctx context.Context) (Theme, error) {
	raw, err := s.store.Get(ctx, Key)
	if errors.Is(err, repository.ErrPreferenceNotFound) {
		return Light, nil
	}
	if err != nil {
		return "", err
	}
	t, err := Parse(raw)
	if err != nil {
		s.logger.Warn().Str("value", raw).Msg("ignoring unrecognised stored theme")
		return Light, nil
	}
	return t, nil
}

// Set stores t.
func (s *Service) Set(ctx context.Context, t Theme) error {
	if _, err := Parse(string(t)); err != nil {
		return err
	}
	return s.store.Set(ctx, Key, string(t))
}

// Toggle flips the stored theme and returns the new value.
func (s *Service) Toggle(ctx context.Context) (Theme, error) {
	current, err := s.Get(ctx)
	if err != nil {
		return "", err
	}
	next := current.Opposite()
	if err := s.Set(ctx, next); err != nil {
		return "", err
	}
	s.logger.Info().Str("from", string(current)).Str("to", string(next)).Msg("theme toggled")
	return next, nil
}
