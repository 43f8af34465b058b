package cmd

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListCommandFiltersFeed(t *testing.T) {
	now := time.Now()
	body := map[string]any{
		"type": "FeatureCollection",
		"features": []map[string]any{
			{"id": "tokyo", "properties": map[string]any{"mag": 6.2, "place": "10km N of Tokyo, Japan", "time": now.Add(-2 * time.Hour).UnixMilli()}},
			{"id": "reno", "properties": map[string]any{"mag": 1.1, "place": "5km E of Reno, Nevada", "time": now.Add(-3 * time.Hour).UnixMilli()}},
			{"id": "santiago", "properties": map[string]any{"mag": 4.8, "place": "near Santiago, Chile", "time": now.Add(-40 * time.Hour).UnixMilli()}},
		},
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(body)
	}))
	defer srv.Close()

	t.Setenv("USGS_API_URL", "")
	t.Setenv("PREFERENCES_BACKEND", "sqlite")
	t.Setenv("PREFERENCES_PATH", t.TempDir()+"/prefs.db")
	t.Setenv("LOG_LEVEL", "info")
	t.Setenv("PAGE_SIZE", "12")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"list", "--url", srv.URL, "-o", "json", "--magnitude", "5+", "--period", "24h"})
	require.NoError(t, rootCmd.Execute())

	var got struct {
		VisibleCount int `json:"visibleCount"`
		TotalCount   int `json:"totalCount"`
		Items        []struct {
			ID string `json:"id"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &got), out.String())
	assert.Equal(t, 1, got.TotalCount)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "tokyo", got.Items[0].ID)
}
