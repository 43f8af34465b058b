package quakes

import (
	"context"
	"sync"
	"time"

	"github.com/quakeboard/api/pkg/model"
)

var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func quake(id string, mag float64, place string, ago time.Duration) model.Feature {
	return model.Feature{
		ID:           id,
		Title:        "M " + id + " - " + place,
		Place:        place,
		Magnitude:    mag,
		HasMagnitude: true,
		OccurredAt:   testNow.Add(-ago).UnixMilli(),
		UpdatedAt:    testNow.Add(-ago).UnixMilli(),
	}
}

func manyQuakes(n int) []model.Feature {
	out := make([]model.Feature, n)
	for i := range out {
		out[i] = quake(string(rune('a'+i%26))+string(rune('0'+i/26)), float64(i%7), "Somewhere, Testland", time.Duration(i)*time.Minute)
	}
	return out
}

// stubFetcher returns queued results in order; calls block on gate when set.
type stubFetcher struct {
	mu      sync.Mutex
	results []stubResult
	calls   int
}

type stubResult struct {
	collection *model.FeatureCollection
	err        error
	gate       chan struct{}
}

func (s *stubFetcher) Fetch(ctx context.Context) (*model.FeatureCollection, error) {
	s.mu.Lock()
	r := s.results[s.calls]
	s.calls++
	s.mu.Unlock()

	if r.gate != nil {
		select {
		case <-r.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return r.collection, r.err
}

func collectionOf(features ...model.Feature) *model.FeatureCollection {
	return &model.FeatureCollection{Features: features, Fingerprint: "fp-" + string(rune('0'+len(features)))}
}
