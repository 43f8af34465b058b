package http

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quakeboard/api/internal/business/quakes"
	"github.com/quakeboard/api/internal/business/theme"
	"github.com/quakeboard/api/internal/platform/sqlite"
	"github.com/quakeboard/api/internal/platform/usgs"
	"github.com/quakeboard/api/internal/repository"
	"github.com/quakeboard/api/pkg/model"
)

type fetchFunc func(ctx context.Context) (*model.FeatureCollection, error)

func (f fetchFunc) Fetch(ctx context.Context) (*model.FeatureCollection, error) { return f(ctx) }

func testFeatures() []model.Feature {
	now := time.Now()
	at := func(d time.Duration) int64 { return now.Add(-d).UnixMilli() }
	return []model.Feature{
		{ID: "tokyo", Title: "M 6.2 - 10km N of Tokyo, Japan", Place: "10km N of Tokyo, Japan", Magnitude: 6.2, HasMagnitude: true, OccurredAt: at(2 * time.Hour), DepthKm: 35},
		{ID: "reno", Title: "M 1.1 - 5km E of Reno, Nevada", Place: "5km E of Reno, Nevada", Magnitude: 1.1, HasMagnitude: true, OccurredAt: at(3 * time.Hour), DepthKm: 4},
		{ID: "santiago", Title: "M 4.8 - near Santiago, Chile", Place: "near Santiago, Chile", Magnitude: 4.8, HasMagnitude: true, OccurredAt: at(40 * time.Hour), DepthKm: 80},
	}
}

type testEnv struct {
	router http.Handler
	store  *quakes.FeedStore
}

func newTestEnv(t *testing.T, fetch fetchFunc) testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := sqlite.Open(filepath.Join(t.TempDir(), "prefs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	prefs, err := repository.NewSQLitePreferenceRepository(context.Background(), db)
	require.NoError(t, err)

	store := quakes.NewFeedStore(fetch, zerolog.Nop())
	sessions := quakes.NewSessions(store, 2, time.Hour, zerolog.Nop())
	themes := theme.NewService(prefs, zerolog.Nop())
	return testEnv{
		router: NewRouter(store, sessions, themes, zerolog.Nop(), []string{"https://dash.test"}),
		store:  store,
	}
}

func loadedEnv(t *testing.T) testEnv {
	t.Helper()
	env := newTestEnv(t, func(context.Context) (*model.FeatureCollection, error) {
		return &model.FeatureCollection{Features: testFeatures(), Fingerprint: "abc"}, nil
	})
	_, err := env.store.Refresh(context.Background())
	require.NoError(t, err)
	return env
}

func (e testEnv) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

type listResponse struct {
	Status        string          `json:"status"`
	Error         string          `json:"error"`
	TotalCount    int             `json:"totalCount"`
	FilteredCount int             `json:"filteredCount"`
	Items         []model.Feature `json:"items"`
}

func TestHealthz(t *testing.T) {
	env := newTestEnv(t, nil)
	rec := env.do(t, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCORS(t *testing.T) {
	env := newTestEnv(t, nil)
	req := httptest.NewRequest(http.MethodOptions, "/api/feed", nil)
	req.Header.Set("Origin", "https://dash.test")
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://dash.test", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestListEarthquakes_Filters(t *testing.T) {
	env := loadedEnv(t)

	rec := env.do(t, http.MethodGet, "/api/earthquakes?magnitude=5%2B&period=24h", "")
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[listResponse](t, rec)
	assert.Equal(t, "succeeded", resp.Status)
	assert.Equal(t, 3, resp.TotalCount)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "tokyo", resp.Items[0].ID)

	rec = env.do(t, http.MethodGet, "/api/earthquakes?sortBy=magnitude-asc&limit=2", "")
	resp = decode[listResponse](t, rec)
	require.Len(t, resp.Items, 2)
	assert.Equal(t, "reno", resp.Items[0].ID)
	assert.Equal(t, "santiago", resp.Items[1].ID)

	rec = env.do(t, http.MethodGet, "/api/earthquakes?q=chile", "")
	resp = decode[listResponse](t, rec)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "santiago", resp.Items[0].ID)
}

func TestListEarthquakes_BadParams(t *testing.T) {
	env := loadedEnv(t)
	for _, target := range []string{
		"/api/earthquakes?magnitude=huge",
		"/api/earthquakes?period=2w",
		"/api/earthquakes?sortBy=depth",
		"/api/earthquakes?limit=-1",
	} {
		rec := env.do(t, http.MethodGet, target, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
	}
}

func TestListEarthquakes_BeforeFirstFetch(t *testing.T) {
	env := newTestEnv(t, nil)
	rec := env.do(t, http.MethodGet, "/api/earthquakes", "")
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[listResponse](t, rec)
	assert.Equal(t, "idle", resp.Status)
	assert.Empty(t, resp.Items)

	rec = env.do(t, http.MethodGet, "/api/stats", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRefreshFailureKeepsStaleData(t *testing.T) {
	calls := 0
	env := newTestEnv(t, func(context.Context) (*model.FeatureCollection, error) {
		calls++
		if calls == 1 {
			return &model.FeatureCollection{Features: testFeatures()}, nil
		}
		return nil, &usgs.FetchError{Kind: usgs.KindStatus, StatusCode: 502}
	})

	rec := env.do(t, http.MethodPost, "/api/feed/refresh?wait=true", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/feed/refresh?wait=true", "")
	require.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "Failed to fetch earthquake data")

	rec = env.do(t, http.MethodGet, "/api/earthquakes", "")
	resp := decode[listResponse](t, rec)
	assert.Equal(t, "failed", resp.Status)
	assert.Equal(t, "Failed to fetch earthquake data", resp.Error)
	assert.Len(t, resp.Items, 3)
}

func TestRefreshAsync(t *testing.T) {
	env := loadedEnv(t)
	rec := env.do(t, http.MethodPost, "/api/feed/refresh", "")
	assert.Equal(t, http.StatusAccepted, rec.Code)

	require.Eventually(t, func() bool {
		return env.store.State().Status() == quakes.StatusSucceeded
	}, time.Second, 5*time.Millisecond)

	rec = env.do(t, http.MethodGet, "/api/feed", "")
	require.Equal(t, http.StatusOK, rec.Code)
	feed := decode[map[string]any](t, rec)
	assert.Equal(t, "succeeded", feed["status"])
	assert.EqualValues(t, 3, feed["count"])
	assert.EqualValues(t, 2, feed["requestId"])
}

func TestStatsChartsAndMap(t *testing.T) {
	env := loadedEnv(t)

	rec := env.do(t, http.MethodGet, "/api/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)
	stats := decode[quakes.Statistics](t, rec)
	assert.Equal(t, 3, stats.TotalCount)
	assert.Equal(t, 6.2, stats.HighestMagnitude)

	rec = env.do(t, http.MethodGet, "/api/charts", "")
	require.Equal(t, http.StatusOK, rec.Code)
	charts := decode[quakes.Charts](t, rec)
	assert.Len(t, charts.Magnitudes, 6)
	assert.Len(t, charts.Depths, 3)
	assert.Len(t, charts.Regions, 3)

	rec = env.do(t, http.MethodGet, "/api/map?location=japan", "")
	require.Equal(t, http.StatusOK, rec.Code)
	m := decode[struct {
		Markers []quakes.Marker `json:"markers"`
	}](t, rec)
	require.Len(t, m.Markers, 1)
	assert.Equal(t, "#ef4444", m.Markers[0].Color)
}

func TestExportCSV(t *testing.T) {
	env := loadedEnv(t)
	rec := env.do(t, http.MethodGet, "/api/earthquakes/export?sortBy=magnitude", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))

	rows, err := csv.NewReader(rec.Body).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "severity", rows[0][2])
	assert.Equal(t, []string{"6.2", "CRITICAL", "10km N of Tokyo, Japan", "Japan"}, rows[1][1:5])
}

func TestSessionLifecycle(t *testing.T) {
	env := loadedEnv(t)

	rec := env.do(t, http.MethodPost, "/api/sessions", "")
	require.Equal(t, http.StatusCreated, rec.Code)
	view := decode[quakes.View](t, rec)
	require.NotEmpty(t, view.SessionID)
	assert.Equal(t, 2, view.VisibleCount)
	assert.True(t, view.HasMore)

	base := "/api/sessions/" + view.SessionID
	view = decode[quakes.View](t, env.do(t, http.MethodPost, base+"/sentinel", ""))
	assert.Equal(t, 3, view.VisibleCount)
	assert.False(t, view.HasMore)

	rec = env.do(t, http.MethodPut, base+"/filters", `{"magnitudeRange":"4-7"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	view = decode[quakes.View](t, rec)
	assert.Equal(t, 2, view.FilteredCount)
	assert.Equal(t, 2, view.VisibleCount)
	assert.Equal(t, []string{"magnitude:4-7"}, view.ActiveFilters)

	view = decode[quakes.View](t, env.do(t, http.MethodPut, base+"/search", `{"query":"tokyo"}`))
	assert.Equal(t, 1, view.FilteredCount)

	view = decode[quakes.View](t, env.do(t, http.MethodDelete, base+"/filters", ""))
	assert.Equal(t, "tokyo", view.Query)
	assert.Empty(t, view.ActiveFilters)

	rec = env.do(t, http.MethodPut, base+"/filters", `{"timePeriod":"fortnight"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	assert.Equal(t, http.StatusNoContent, env.do(t, http.MethodDelete, base, "").Code)
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, base, "").Code)
}

func TestThemeEndpoints(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(t, http.MethodGet, "/api/theme", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"theme":"light"}`, rec.Body.String())

	rec = env.do(t, http.MethodPost, "/api/theme/toggle", "")
	assert.JSONEq(t, `{"theme":"dark"}`, rec.Body.String())

	rec = env.do(t, http.MethodPut, "/api/theme", `{"theme":"light"}`)
	assert.JSONEq(t, `{"theme":"light"}`, rec.Body.String())

	rec = env.do(t, http.MethodPut, "/api/theme", `{"theme":"neon"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
