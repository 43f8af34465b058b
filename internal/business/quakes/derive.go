package quakes

import (
	"sort"
	"strings"
	"time"

	"github.com/quakeboard/api/pkg/model"
	"github.com/quakeboard/api/pkg/util"
)

// Derive applies search, filters and sort to items using the current time
// for the period cutoff.
func Derive(items []model.Feature, query string, spec FilterSpec) []model.Feature {
	return DeriveAt(items, query, spec, time.Now())
}

// DeriveAt is Derive with an explicit "now". It never mutates items and
// always returns a fresh slice (possibly empty, never nil).
//
// Steps run in a fixed order: search, magnitude, period, location, sort.
// Ties in the sort key keep input order.
func DeriveAt(items []model.Feature, query string, spec FilterSpec, now time.Time) []model.Feature {
	q := strings.ToLower(strings.TrimSpace(query))
	loc := strings.ToLower(strings.TrimSpace(spec.Location))

	var cutoff int64
	window, hasWindow := spec.Period.Window()
	if hasWindow {
		cutoff = now.Add(-window).UnixMilli()
	}

	out := make([]model.Feature, 0, len(items))
	for _, f := range items {
		if q != "" && !matchesSearch(f, q) {
			continue
		}
		if !spec.Magnitude.Contains(f.Magnitude) {
			continue
		}
		if hasWindow && f.OccurredAt < cutoff {
			continue
		}
		if loc != "" && !strings.Contains(strings.ToLower(f.Place), loc) {
			continue
		}
		out = append(out, f)
	}

	sortFeatures(out, spec.SortBy, spec.SortOrder)
	return out
}

// matchesSearch reports whether the lower-cased query occurs in the title,
// the place or the magnitude text. Features without a magnitude have no
// magnitude text.
func matchesSearch(f model.Feature, q string) bool {
	if util.ContainsFold(f.Title, q) || util.ContainsFold(f.Place, q) {
		return true
	}
	return f.HasMagnitude && strings.Contains(util.MagnitudeText(f.Magnitude), q)
}

func sortFeatures(items []model.Feature, key SortKey, order SortOrder) {
	if key == "" {
		key = SortByTime
	}
	if order == "" {
		order = defaultOrder(key)
	}
	desc := order == Descending

	var less func(a, b model.Feature) bool
	switch key {
	case SortByMagnitude:
		less = func(a, b model.Feature) bool { return a.Magnitude < b.Magnitude }
	case SortByLocation:
		less = func(a, b model.Feature) bool { return strings.ToLower(a.Place) < strings.ToLower(b.Place) }
	default:
		less = func(a, b model.Feature) bool { return a.OccurredAt < b.OccurredAt }
	}

	sort.SliceStable(items, func(i, j int) bool {
		if desc {
			return less(items[j], items[i])
		}
		return less(items[i], items[j])
	})
}
