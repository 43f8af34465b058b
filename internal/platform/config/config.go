package config

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"
)

// Preference backends.
const (
	BackendSQLite    = "sqlite"
	BackendFirestore = "firestore"
)

// Config holds runtime configuration loaded from environment variables.
type Config struct {
	USGSAPIURL     string        `envconfig:"USGS_API_URL"`
	Port           string        `envconfig:"PORT" default:"8080"`
	GinMode        string        `envconfig:"GIN_MODE" default:"release"`
	AllowedOrigins string        `envconfig:"ALLOWED_ORIGINS"`
	LogLevel       string        `envconfig:"LOG_LEVEL" default:"info"`
	PageSize       int           `envconfig:"PAGE_SIZE" default:"12"`
	SessionTTL     time.Duration `envconfig:"SESSION_TTL" default:"30m"`
	FetchOnStart   bool          `envconfig:"FETCH_ON_START" default:"true"`

	PreferencesBackend string `envconfig:"PREFERENCES_BACKEND" default:"sqlite"`
	PreferencesPath    string `envconfig:"PREFERENCES_PATH" default:"data/preferences.db"`

	FirebaseProjectID   string `envconfig:"FIREBASE_PROJECT_ID"`
	FirebaseCredsBase64 string `envconfig:"FIREBASE_CREDS_BASE64"`
	FirebaseCredsFile   string `envconfig:"FIREBASE_CREDS_FILE"`
}

// Load reads environment variables into a Config with sensible defaults.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("process environment: %w", err)
	}
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) normalize() {
	c.USGSAPIURL = strings.TrimSpace(c.USGSAPIURL)
	c.AllowedOrigins = strings.TrimSpace(c.AllowedOrigins)
	c.PreferencesBackend = strings.ToLower(strings.TrimSpace(c.PreferencesBackend))
	c.FirebaseProjectID = strings.TrimSpace(c.FirebaseProjectID)
	c.FirebaseCredsBase64 = strings.TrimSpace(c.FirebaseCredsBase64)
	c.FirebaseCredsFile = strings.TrimSpace(c.FirebaseCredsFile)
}

// Validate ensures required fields are present.
func (c Config) Validate() error {
	if c.USGSAPIURL == "" {
		return errors.New("USGS_API_URL is required")
	}
	if c.Port == "" {
		return errors.New("PORT is required")
	}
	if c.PageSize <= 0 {
		return fmt.Errorf("PAGE_SIZE must be positive, got %d", c.PageSize)
	}
	if _, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel)); err != nil {
		return fmt.Errorf("invalid LOG_LEVEL %q: %w", c.LogLevel, err)
	}

	switch c.PreferencesBackend {
	case BackendSQLite:
		if c.PreferencesPath == "" {
			return errors.New("PREFERENCES_PATH is required for the sqlite backend")
		}
	case BackendFirestore:
		if c.FirebaseProjectID == "" {
			return errors.New("FIREBASE_PROJECT_ID is required")
		}
		if c.FirebaseCredsBase64 == "" && c.FirebaseCredsFile == "" {
			return errors.New("provide FIREBASE_CREDS_BASE64 or FIREBASE_CREDS_FILE for Firestore auth")
		}
	default:
		return fmt.Errorf("unsupported PREFERENCES_BACKEND: %s", c.PreferencesBackend)
	}
	return nil
}

// Level returns the parsed log level, falling back to info.
func (c Config) Level() zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil || c.LogLevel == "" {
		return zerolog.InfoLevel
	}
	return lvl
}

// Origins splits ALLOWED_ORIGINS on commas.
func (c Config) Origins() []string {
	var origins []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// Addr returns the HTTP listen address.
func (c Config) Addr() string {
	return ":" + c.Port
}

// LogSummary writes the effective configuration, without secrets.
func (c Config) LogSummary(logger zerolog.Logger) {
	logger.Info().
		Str("feed_url", c.USGSAPIURL).
		Str("port", c.Port).
		Str("gin_mode", c.GinMode).
		Int("page_size", c.PageSize).
		Dur("session_ttl", c.SessionTTL).
		Bool("fetch_on_start", c.FetchOnStart).
		Str("preferences_backend", c.PreferencesBackend).
		Msg("configuration loaded")
}

// FirebaseCredentialsJSON returns the service account JSON bytes and the source used.
func (c Config) FirebaseCredentialsJSON() ([]byte, string, error) {
	if c.FirebaseCredsBase64 != "" {
		decoded, err := base64.StdEncoding.DecodeString(c.FirebaseCredsBase64)
		if err != nil {
			return nil, "base64", fmt.Errorf("decode FIREBASE_CREDS_BASE64: %w", err)
		}
		return decoded, "base64", nil
	}
	if c.FirebaseCredsFile != "" {
		data, err := os.ReadFile(c.FirebaseCredsFile)
		if err != nil {
			return nil, "file", fmt.Errorf("read FIREBASE_CREDS_FILE: %w", err)
		}
		return data, "file", nil
	}
	return nil, "", errors.New("no firebase credentials found")
}
