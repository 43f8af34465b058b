package quakes

import (
	"math"

	"github.com/quakeboard/api/pkg/model"
)

// Marker is one circle on the map view.
type Marker struct {
	ID         string  `json:"id"`
	Latitude   float64 `json:"lat"`
	Longitude  float64 `json:"lng"`
	Radius     float64 `json:"radius"`
	Color      string  `json:"color"`
	Magnitude  float64 `json:"magnitude"`
	Title      string  `json:"title"`
	Place      string  `json:"place"`
	OccurredAt int64   `json:"occurredAt"`
	DetailURL  string  `json:"detailUrl,omitempty"`
}

// MarkerColor maps a magnitude to the marker fill colour.
func MarkerColor(mag float64) string {
	switch {
	case mag >= 5:
		return "#ef4444"
	case mag >= 3:
		return "#f59e42"
	case mag >= 2:
		return "#fbbf24"
	case mag >= 1:
		return "#34d399"
	default:
		return "#60a5fa"
	}
}

// MarkerRadius scales a magnitude to a circle radius in pixels, never below 4.
func MarkerRadius(mag float64) float64 {
	return math.Max(4, mag*2.5)
}

// BuildMarkers converts features to map markers, preserving order.
func BuildMarkers(features []model.Feature) []Marker {
	markers := make([]Marker, 0, len(features))
	for _, f := range features {
		markers = append(markers, Marker{
			ID:         f.ID,
			Latitude:   f.Latitude,
			Longitude:  f.Longitude,
			Radius:     MarkerRadius(f.Magnitude),
			Color:      MarkerColor(f.Magnitude),
			Magnitude:  f.Magnitude,
			Title:      f.Title,
			Place:      f.Place,
			OccurredAt: f.OccurredAt,
			DetailURL:  f.DetailURL,
		})
	}
	return markers
}
