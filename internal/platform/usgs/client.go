package usgs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"github.com/quakeboard/api/pkg/model"
	"github.com/quakeboard/api/pkg/util"
)

// ErrorKind classifies why a fetch failed. It is kept for logs and metrics
// only; dashboard state sees just the message.
type ErrorKind string

const (
	KindTransport ErrorKind = "transport"
	KindStatus    ErrorKind = "status"
	KindParse     ErrorKind = "parse"
)

// FetchError is returned by Client.Fetch for every failure.
type FetchError struct {
	Kind       ErrorKind
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	switch e.Kind {
	case KindStatus:
		return "Failed to fetch earthquake data"
	case KindParse:
		return "Failed to parse earthquake data"
	default:
		return "Failed to fetch"
	}
}

func (e *FetchError) Unwrap() error { return e.Err }

// KindOf returns the kind of a FetchError, or "" for other errors.
func KindOf(err error) ErrorKind {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return ""
}

// Client fetches the earthquake feed from one configured URL.
type Client struct {
	url  string
	http *resty.Client
}

// New creates a feed client. A nil httpClient uses http.DefaultClient, so no
// timeout is imposed beyond the caller's context.
func New(url string, httpClient *http.Client, logger zerolog.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	rc := resty.NewWithClient(httpClient).
		SetHeader("Accept", "application/geo+json, application/json").
		SetRetryCount(0).
		SetLogger(restyLogger{logger: logger.With().Str("component", "usgs").Logger()})
	return &Client{url: url, http: rc}
}

// URL returns the configured feed endpoint.
func (c *Client) URL() string { return c.url }

// Fetch issues exactly one GET and parses the body. There is no retry.
func (c *Client) Fetch(ctx context.Context) (*model.FeatureCollection, error) {
	resp, err := c.http.R().SetContext(ctx).Get(c.url)
	if err != nil {
		return nil, &FetchError{Kind: KindTransport, Err: fmt.Errorf("fetch %s: %w", c.url, err)}
	}
	if !resp.IsSuccess() {
		return nil, &FetchError{
			Kind:       KindStatus,
			StatusCode: resp.StatusCode(),
			Err:        fmt.Errorf("unexpected status %d for %s", resp.StatusCode(), c.url),
		}
	}
	return decodeCollection(resp.Body())
}

func decodeCollection(body []byte) (*model.FeatureCollection, error) {
	var doc model.GeoJSONCollection
	if err := json.Unmarshal(bytes.TrimSpace(body), &doc); err != nil {
		return nil, &FetchError{Kind: KindParse, Err: fmt.Errorf("decode response: %w", err)}
	}
	collection := model.FromGeoJSON(doc)
	collection.Fingerprint = util.HashCollection(collection.Features)
	return collection, nil
}

type restyLogger struct {
	logger zerolog.Logger
}

func (l restyLogger) Errorf(format string, v ...interface{}) { l.logger.Error().Msgf(format, v...) }
func (l restyLogger) Warnf(format string, v ...interface{})  { l.logger.Warn().Msgf(format, v...) }
func (l restyLogger) Debugf(format string, v ...interface{}) { l.logger.Debug().Msgf(format, v...) }
