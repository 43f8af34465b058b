package quakes

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// MagnitudeRange selects features by magnitude. The zero value means "all".
type MagnitudeRange struct {
	Min       float64
	Max       float64
	Bounded   bool // [Min, Max)
	OpenEnded bool // >= Min
}

// AllMagnitudes matches every feature.
var AllMagnitudes = MagnitudeRange{}

// StrongAndAbove is the distinguished "5+" bucket.
var StrongAndAbove = MagnitudeRange{Min: 5, OpenEnded: true}

// IsAll reports whether the range imposes no constraint.
func (r MagnitudeRange) IsAll() bool {
	return !r.Bounded && !r.OpenEnded
}

// Contains reports whether mag falls inside the range.
func (r MagnitudeRange) Contains(mag float64) bool {
	switch {
	case r.OpenEnded:
		return mag >= r.Min
	case r.Bounded:
		return r.Min <= mag && mag < r.Max
	default:
		return true
	}
}

func (r MagnitudeRange) String() string {
	switch {
	case r.OpenEnded:
		return formatBound(r.Min) + "+"
	case r.Bounded:
		return formatBound(r.Min) + "-" + formatBound(r.Max)
	default:
		return "all"
	}
}

func formatBound(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ParseMagnitudeRange accepts "all", "" , "a-b" and "a+".
func ParseMagnitudeRange(raw string) (MagnitudeRange, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, "all") {
		return AllMagnitudes, nil
	}
	if strings.HasSuffix(raw, "+") {
		floor, err := strconv.ParseFloat(strings.TrimSuffix(raw, "+"), 64)
		if err != nil {
			return MagnitudeRange{}, fmt.Errorf("invalid magnitude range %q", raw)
		}
		return MagnitudeRange{Min: floor, OpenEnded: true}, nil
	}
	lo, hi, ok := strings.Cut(raw, "-")
	if !ok {
		return MagnitudeRange{}, fmt.Errorf("invalid magnitude range %q", raw)
	}
	lower, err := strconv.ParseFloat(strings.TrimSpace(lo), 64)
	if err != nil {
		return MagnitudeRange{}, fmt.Errorf("invalid magnitude range %q", raw)
	}
	upper, err := strconv.ParseFloat(strings.TrimSpace(hi), 64)
	if err != nil || upper <= lower {
		return MagnitudeRange{}, fmt.Errorf("invalid magnitude range %q", raw)
	}
	return MagnitudeRange{Min: lower, Max: upper, Bounded: true}, nil
}

// TimePeriod is a lookback window measured from "now". Empty means all time.
type TimePeriod string

const (
	PeriodAll     TimePeriod = "all"
	PeriodHour    TimePeriod = "1h"
	Period6Hours  TimePeriod = "6h"
	Period12Hours TimePeriod = "12h"
	PeriodDay     TimePeriod = "24h"
	PeriodWeek    TimePeriod = "7d"
	PeriodMonth   TimePeriod = "30d"
)

var periodWindows = map[TimePeriod]time.Duration{
	PeriodHour:    time.Hour,
	Period6Hours:  6 * time.Hour,
	Period12Hours: 12 * time.Hour,
	PeriodDay:     24 * time.Hour,
	PeriodWeek:    7 * 24 * time.Hour,
	PeriodMonth:   30 * 24 * time.Hour,
}

// Window returns the lookback duration; ok is false for "all".
func (p TimePeriod) Window() (time.Duration, bool) {
	w, ok := periodWindows[p]
	return w, ok
}

// IsAll reports whether the period imposes no constraint.
func (p TimePeriod) IsAll() bool {
	_, ok := periodWindows[p]
	return !ok
}

// ParseTimePeriod accepts "all", "" and the fixed window table.
func ParseTimePeriod(raw string) (TimePeriod, error) {
	p := TimePeriod(strings.ToLower(strings.TrimSpace(raw)))
	if p == "" || p == PeriodAll {
		return PeriodAll, nil
	}
	if _, ok := periodWindows[p]; !ok {
		return "", fmt.Errorf("invalid time period %q", raw)
	}
	return p, nil
}

// SortKey selects the field the derived sequence is ordered by.
type SortKey string

const (
	SortByTime      SortKey = "time"
	SortByMagnitude SortKey = "magnitude"
	SortByLocation  SortKey = "location"
)

// SortOrder is the sort direction.
type SortOrder string

const (
	Ascending  SortOrder = "asc"
	Descending SortOrder = "desc"
)

// ParseSort parses a sort selector and an optional explicit order. The
// selector accepts the dashboard's compound forms ("time-asc",
// "magnitude-asc"); a compound suffix wins over order.
func ParseSort(by, order string) (SortKey, SortOrder, error) {
	by = strings.ToLower(strings.TrimSpace(by))
	order = strings.ToLower(strings.TrimSpace(order))

	key := SortKey(by)
	dir := SortOrder(order)
	if base, suffix, ok := strings.Cut(by, "-"); ok {
		key, dir = SortKey(base), SortOrder(suffix)
	}

	switch key {
	case "":
		key = SortByTime
	case SortByTime, SortByMagnitude, SortByLocation:
	default:
		return "", "", fmt.Errorf("invalid sort key %q", by)
	}

	switch dir {
	case "":
		dir = defaultOrder(key)
	case Ascending, Descending:
	default:
		return "", "", fmt.Errorf("invalid sort order %q", order)
	}
	return key, dir, nil
}

func defaultOrder(key SortKey) SortOrder {
	if key == SortByLocation {
		return Ascending
	}
	return Descending
}

// FilterSpec is the structured set of magnitude/time/location/sort criteria.
type FilterSpec struct {
	Magnitude MagnitudeRange
	Period    TimePeriod
	Location  string
	SortBy    SortKey
	SortOrder SortOrder
}

// DefaultFilterSpec returns all-time, all-magnitude, newest first.
func DefaultFilterSpec() FilterSpec {
	return FilterSpec{
		Magnitude: AllMagnitudes,
		Period:    PeriodAll,
		SortBy:    SortByTime,
		SortOrder: Descending,
	}
}

// IsDefault reports whether no filter or non-default sort is active.
func (f FilterSpec) IsDefault() bool {
	return f == DefaultFilterSpec()
}

// FilterParams is the string form used by HTTP and the CLI.
type FilterParams struct {
	MagnitudeRange string `json:"magnitudeRange" form:"magnitude"`
	TimePeriod     string `json:"timePeriod" form:"period"`
	Location       string `json:"location" form:"location"`
	SortBy         string `json:"sortBy" form:"sortBy"`
	SortOrder      string `json:"sortOrder" form:"sortOrder"`
}

// Spec validates the params and builds a FilterSpec.
func (p FilterParams) Spec() (FilterSpec, error) {
	mag, err := ParseMagnitudeRange(p.MagnitudeRange)
	if err != nil {
		return FilterSpec{}, err
	}
	period, err := ParseTimePeriod(p.TimePeriod)
	if err != nil {
		return FilterSpec{}, err
	}
	key, order, err := ParseSort(p.SortBy, p.SortOrder)
	if err != nil {
		return FilterSpec{}, err
	}
	return FilterSpec{
		Magnitude: mag,
		Period:    period,
		Location:  p.Location,
		SortBy:    key,
		SortOrder: order,
	}, nil
}

// Params renders f back to its string form.
func (f FilterSpec) Params() FilterParams {
	period := f.Period
	if period == "" {
		period = PeriodAll
	}
	return FilterParams{
		MagnitudeRange: f.Magnitude.String(),
		TimePeriod:     string(period),
		Location:       f.Location,
		SortBy:         string(f.SortBy),
		SortOrder:      string(f.SortOrder),
	}
}

// ActiveFilters lists the non-default filter chips shown above the list.
func (f FilterSpec) ActiveFilters() []string {
	var chips []string
	if !f.Magnitude.IsAll() {
		chips = append(chips, "magnitude:"+f.Magnitude.String())
	}
	if !f.Period.IsAll() {
		chips = append(chips, "period:"+string(f.Period))
	}
	if loc := strings.TrimSpace(f.Location); loc != "" {
		chips = append(chips, "location:"+loc)
	}
	return chips
}
