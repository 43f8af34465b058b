package model

// GeoJSONCollection is the wire shape of the upstream feed.
type GeoJSONCollection struct {
	Type     string             `json:"type"`
	Metadata CollectionMetadata `json:"metadata"`
	Features []GeoJSONFeature   `json:"features"`
}

// GeoJSONFeature is one wire feature. Every property is optional upstream.
type GeoJSONFeature struct {
	ID         string            `json:"id"`
	Properties GeoJSONProperties `json:"properties"`
	Geometry   *GeoJSONGeometry  `json:"geometry"`
}

// GeoJSONProperties holds the USGS property block.
type GeoJSONProperties struct {
	Mag     *float64 `json:"mag"`
	Place   *string  `json:"place"`
	Title   *string  `json:"title"`
	Time    *int64   `json:"time"`
	Updated *int64   `json:"updated"`
	URL     *string  `json:"url"`
	MagType *string  `json:"magType"`
	Net     *string  `json:"net"`
	Status  *string  `json:"status"`
	Sig     *int     `json:"sig"`
	Nst     *int     `json:"nst"`
	RMS     *float64 `json:"rms"`
	Felt    *int     `json:"felt"`
}

// GeoJSONGeometry holds [lon, lat, depth]; depth may be missing.
type GeoJSONGeometry struct {
	Type        string     `json:"type"`
	Coordinates []*float64 `json:"coordinates"`
}

// FromGeoJSON converts the wire collection into typed features. Absent
// magnitude, place and depth default to zero values here so downstream code
// never has to nil-check.
func FromGeoJSON(doc GeoJSONCollection) *FeatureCollection {
	features := make([]Feature, 0, len(doc.Features))
	for _, wf := range doc.Features {
		features = append(features, featureFromWire(wf))
	}
	return &FeatureCollection{
		Metadata: doc.Metadata,
		Features: features,
	}
}

func featureFromWire(wf GeoJSONFeature) Feature {
	p := wf.Properties
	f := Feature{
		ID:        wf.ID,
		Title:     derefString(p.Title),
		Place:     derefString(p.Place),
		DetailURL: derefString(p.URL),
		MagType:   derefString(p.MagType),
		Network:   derefString(p.Net),
		Status:    derefString(p.Status),
		Stations:  p.Nst,
		RMS:       p.RMS,
		Felt:      p.Felt,
	}
	if p.Mag != nil {
		f.Magnitude = *p.Mag
		f.HasMagnitude = true
	}
	if p.Time != nil {
		f.OccurredAt = *p.Time
	}
	if p.Updated != nil {
		f.UpdatedAt = *p.Updated
	}
	if p.Sig != nil {
		f.Significance = *p.Sig
	}
	if wf.Geometry != nil {
		coords := wf.Geometry.Coordinates
		f.Longitude = coordAt(coords, 0)
		f.Latitude = coordAt(coords, 1)
		f.DepthKm = coordAt(coords, 2)
	}
	return f
}

func coordAt(coords []*float64, i int) float64 {
	if i >= len(coords) || coords[i] == nil {
		return 0
	}
	return *coords[i]
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
