package quakes

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/quakeboard/api/internal/platform/usgs"
	"github.com/quakeboard/api/pkg/model"
)

// ErrSuperseded is returned by Complete when a newer refresh was issued
// before this one resolved; its result is discarded.
var ErrSuperseded = errors.New("refresh superseded by a newer request")

// Fetcher abstracts the feed client so the store can be tested without network calls.
type Fetcher interface {
	Fetch(ctx context.Context) (*model.FeatureCollection, error)
}

// Status is the wire name of a fetch state.
type Status string

const (
	StatusIdle      Status = "idle"
	StatusLoading   Status = "loading"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// FetchState is one of NotStarted, Loading, Loaded or Failed.
type FetchState interface {
	Status() Status
	fetchState()
}

// NotStarted: no refresh was ever issued.
type NotStarted struct{}

// Loading: a refresh is in flight. Stale holds the previous collection, if any;
// surfaces should not render it.
type Loading struct {
	RequestID uint64
	Stale     *model.FeatureCollection
}

// Loaded: the latest refresh succeeded.
type Loaded struct {
	RequestID  uint64
	Collection *model.FeatureCollection
	FetchedAt  time.Time
}

// Failed: the latest refresh failed. Stale is the last good collection, kept
// untouched.
type Failed struct {
	RequestID uint64
	Message   string
	Stale     *model.FeatureCollection
	FailedAt  time.Time
}

func (NotStarted) Status() Status { return StatusIdle }
func (Loading) Status() Status    { return StatusLoading }
func (Loaded) Status() Status     { return StatusSucceeded }
func (Failed) Status() Status     { return StatusFailed }

func (NotStarted) fetchState() {}
func (Loading) fetchState()    {}
func (Loaded) fetchState()     {}
func (Failed) fetchState()     {}

// Renderable returns the collection surfaces may derive from in state s:
// the loaded collection, or the stale one after a failure. Loading and
// NotStarted render nothing.
func Renderable(s FetchState) *model.FeatureCollection {
	switch st := s.(type) {
	case Loaded:
		return st.Collection
	case Failed:
		return st.Stale
	default:
		return nil
	}
}

// ErrorMessage returns the failure message of s, or "".
func ErrorMessage(s FetchState) string {
	if f, ok := s.(Failed); ok {
		return f.Message
	}
	return ""
}

// Snapshot is a consistent read of the store.
type Snapshot struct {
	State   FetchState
	Version uint64
}

// FeedStore owns the fetch lifecycle and the last collection. Each refresh is
// tagged with a monotonic request ID; only the result of the most recently
// issued request is applied.
type FeedStore struct {
	fetcher Fetcher
	logger  zerolog.Logger
	now     func() time.Time

	mu      sync.RWMutex
	state   FetchState
	latest  uint64
	version uint64
	last    *model.FeatureCollection
}

// NewFeedStore creates a store in the NotStarted state.
func NewFeedStore(fetcher Fetcher, logger zerolog.Logger) *FeedStore {
	return &FeedStore{
		fetcher: fetcher,
		logger:  logger,
		now:     time.Now,
		state:   NotStarted{},
	}
}

// State returns the current fetch state.
func (s *FeedStore) State() FetchState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Snapshot returns the state together with its version. The version changes
// on every transition.
func (s *FeedStore) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{State: s.state, Version: s.version}
}

// Begin issues a new request ID and moves to Loading.
func (s *FeedStore) Begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest++
	s.version++
	s.state = Loading{RequestID: s.latest, Stale: s.last}
	return s.latest
}

// Complete performs the fetch for request id and applies its outcome unless a
// newer request was issued meanwhile.
func (s *FeedStore) Complete(ctx context.Context, id uint64) error {
	start := s.now()
	collection, err := s.fetcher.Fetch(ctx)
	feedFetchDuration.Observe(s.now().Sub(start).Seconds())

	outcome := "ok"
	if err != nil {
		outcome = string(usgs.KindOf(err))
		if outcome == "" {
			outcome = string(usgs.KindTransport)
		}
	}
	feedFetchesTotal.WithLabelValues(outcome).Inc()

	s.mu.Lock()
	defer s.mu.Unlock()

	if id != s.latest {
		feedStaleDiscardsTotal.Inc()
		s.logger.Warn().
			Uint64("request_id", id).
			Uint64("latest_id", s.latest).
			Msg("discarding stale feed response")
		return ErrSuperseded
	}

	s.version++
	if err != nil {
		s.state = Failed{RequestID: id, Message: err.Error(), Stale: s.last, FailedAt: s.now().UTC()}
		s.logger.Error().Err(err).Uint64("request_id", id).Str("kind", outcome).Msg("feed fetch failed")
		return err
	}

	changed := s.last == nil || s.last.Fingerprint != collection.Fingerprint
	s.last = collection
	s.state = Loaded{RequestID: id, Collection: collection, FetchedAt: s.now().UTC()}
	feedFeatures.Set(float64(collection.Len()))
	s.logger.Info().
		Uint64("request_id", id).
		Int("features", collection.Len()).
		Bool("changed", changed).
		Msg("feed loaded")
	return nil
}

// Refresh runs a full fetch synchronously and returns its request ID.
func (s *FeedStore) Refresh(ctx context.Context) (uint64, error) {
	id := s.Begin()
	return id, s.Complete(ctx, id)
}

// RefreshAsync starts a fetch in the background and returns immediately. The
// fetch is detached from ctx cancellation so it outlives the HTTP request
// that triggered it.
func (s *FeedStore) RefreshAsync(ctx context.Context) uint64 {
	id := s.Begin()
	go func() {
		_ = s.Complete(context.WithoutCancel(ctx), id)
	}()
	return id
}
