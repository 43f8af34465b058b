package quakes

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quakeboard/api/internal/platform/usgs"
)

func loadedStore(t *testing.T, results ...stubResult) *FeedStore {
	t.Helper()
	store := NewFeedStore(&stubFetcher{results: results}, zerolog.Nop())
	_, err := store.Refresh(context.Background())
	require.NoError(t, err)
	return store
}

func TestSession_PaginationAndReset(t *testing.T) {
	store := loadedStore(t, stubResult{collection: collectionOf(manyQuakes(30)...)})
	s := newSession("s1", store, 12, func() time.Time { return testNow })

	view := s.View()
	assert.Equal(t, StatusSucceeded, view.Status)
	assert.Equal(t, 30, view.TotalCount)
	assert.Equal(t, 30, view.FilteredCount)
	assert.Equal(t, 12, view.VisibleCount)
	assert.True(t, view.HasMore)

	view = s.SignalSentinel()
	assert.Equal(t, 24, view.VisibleCount)

	// Changing filters resets the window before the new view is produced.
	spec := DefaultFilterSpec()
	spec.Magnitude = MagnitudeRange{Min: 0, Max: 3, Bounded: true}
	view = s.SetFilters(spec)
	assert.Equal(t, 12, view.VisibleCount)
	assert.Less(t, view.FilteredCount, 30)
	assert.Equal(t, []string{"magnitude:0-3"}, view.ActiveFilters)

	s.SignalSentinel()
	view = s.SetSearch("somewhere")
	assert.Equal(t, 12, view.VisibleCount)
	assert.Equal(t, "somewhere", view.Query)

	view = s.ClearFilters()
	assert.Equal(t, 30, view.FilteredCount)
	assert.Equal(t, "somewhere", view.Query)
	assert.Empty(t, view.ActiveFilters)
}

func TestSession_ScenarioView(t *testing.T) {
	store := loadedStore(t, stubResult{collection: collectionOf(scenario()...)})
	s := newSession("s1", store, 12, func() time.Time { return testNow })

	spec := DefaultFilterSpec()
	spec.Magnitude = StrongAndAbove
	spec.Period = PeriodDay
	view := s.SetFilters(spec)

	require.Len(t, view.Items, 1)
	assert.Equal(t, "tokyo", view.Items[0].ID)
	assert.False(t, view.HasMore)
}

func TestSession_LoadingSuppressesItems(t *testing.T) {
	store := loadedStore(t, stubResult{collection: collectionOf(scenario()...)})
	s := newSession("s1", store, 12, func() time.Time { return testNow })
	require.Len(t, s.View().Items, 3)

	store.Begin()
	view := s.View()
	assert.Equal(t, StatusLoading, view.Status)
	assert.Empty(t, view.Items)
	assert.Zero(t, view.TotalCount)
}

func TestSession_FailedRendersStaleWithError(t *testing.T) {
	store := loadedStore(t,
		stubResult{collection: collectionOf(scenario()...)},
		stubResult{err: &usgs.FetchError{Kind: usgs.KindStatus, StatusCode: 503}},
	)
	s := newSession("s1", store, 12, func() time.Time { return testNow })
	_, err := store.Refresh(context.Background())
	require.Error(t, err)

	view := s.View()
	assert.Equal(t, StatusFailed, view.Status)
	assert.Equal(t, "Failed to fetch earthquake data", view.Error)
	assert.Len(t, view.Items, 3)
}

func TestSession_NewDataKeepsWindow(t *testing.T) {
	store := loadedStore(t,
		stubResult{collection: collectionOf(manyQuakes(30)...)},
		stubResult{collection: collectionOf(manyQuakes(40)...)},
	)
	s := newSession("s1", store, 12, func() time.Time { return testNow })
	s.SignalSentinel()

	_, err := store.Refresh(context.Background())
	require.NoError(t, err)

	view := s.View()
	assert.Equal(t, 40, view.FilteredCount)
	assert.Equal(t, 24, view.VisibleCount)
}

func TestSessions_CreateGetDeleteSweep(t *testing.T) {
	store := NewFeedStore(&stubFetcher{}, zerolog.Nop())
	reg := NewSessions(store, 12, time.Minute, zerolog.Nop())
	now := testNow
	reg.now = func() time.Time { return now }

	a := reg.Create()
	b := reg.Create()
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, 2, reg.Len())

	got, ok := reg.Get(a.ID)
	require.True(t, ok)
	assert.Same(t, a, got)
	assert.Equal(t, StatusIdle, got.View().Status)

	now = now.Add(45 * time.Second)
	b.View()

	now = now.Add(30 * time.Second)
	assert.Equal(t, 1, reg.Sweep())
	_, ok = reg.Get(a.ID)
	assert.False(t, ok)

	assert.True(t, reg.Delete(b.ID))
	assert.False(t, reg.Delete(b.ID))
	assert.Zero(t, reg.Len())
}
