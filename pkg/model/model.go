package model

import "time"

// Feature is one seismic event as served to dashboard surfaces.
// Optional upstream fields are defaulted once at ingestion (see FromGeoJSON).
type Feature struct {
	ID           string  `json:"id"`
	Title        string  `json:"title"`
	Place        string  `json:"place"`
	Magnitude    float64 `json:"magnitude"`
	HasMagnitude bool    `json:"hasMagnitude"`
	OccurredAt   int64   `json:"occurredAt"` // ms since epoch
	UpdatedAt    int64   `json:"updatedAt"`  // ms since epoch
	Longitude    float64 `json:"longitude"`
	Latitude     float64 `json:"latitude"`
	DepthKm      float64 `json:"depthKm"`
	DetailURL    string  `json:"detailUrl,omitempty"`

	// Detail attributes, carried through for display only.
	MagType      string   `json:"magType,omitempty"`
	Network      string   `json:"network,omitempty"`
	Status       string   `json:"status,omitempty"`
	Significance int      `json:"significance,omitempty"`
	Stations     *int     `json:"stations,omitempty"`
	RMS          *float64 `json:"rms,omitempty"`
	Felt         *int     `json:"felt,omitempty"`
}

// OccurredTime returns the occurrence timestamp as a UTC time.
func (f Feature) OccurredTime() time.Time {
	return time.UnixMilli(f.OccurredAt).UTC()
}

// CollectionMetadata mirrors the feed's metadata block when present.
type CollectionMetadata struct {
	Title     string `json:"title,omitempty"`
	Generated int64  `json:"generated,omitempty"`
	Count     int    `json:"count,omitempty"`
}

// FeatureCollection is the full result of one successful fetch. It is never
// mutated after construction; a later fetch replaces it wholesale.
type FeatureCollection struct {
	Metadata    CollectionMetadata `json:"metadata"`
	Features    []Feature          `json:"features"`
	Fingerprint string             `json:"fingerprint,omitempty"`
}

// Len reports the number of features, treating a nil collection as empty.
func (c *FeatureCollection) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Features)
}

// Items returns the features of c, or nil for a nil collection.
func (c *FeatureCollection) Items() []Feature {
	if c == nil {
		return nil
	}
	return c.Features
}
