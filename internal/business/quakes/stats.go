package quakes

import (
	"math"
	"time"

	"github.com/quakeboard/api/pkg/model"
	"github.com/quakeboard/api/pkg/util"
)

// MagnitudeBuckets counts features by the summary's four classes.
type MagnitudeBuckets struct {
	Micro    int `json:"micro"`    // < 2
	Minor    int `json:"minor"`    // [2, 4)
	Moderate int `json:"moderate"` // [4, 5)
	Strong   int `json:"strong"`   // >= 5
}

// Statistics is the dashboard summary block.
type Statistics struct {
	TotalCount       int              `json:"totalCount"`
	HighestMagnitude float64          `json:"highestMagnitude"`
	LowestMagnitude  float64          `json:"lowestMagnitude"`
	AverageMagnitude float64          `json:"averageMagnitude"`
	Buckets          MagnitudeBuckets `json:"buckets"`
	UniqueRegions    int              `json:"uniqueRegions"`
	MostRecentAt     int64            `json:"mostRecentAt,omitempty"`
	HoursSinceLast   int              `json:"hoursSinceLast"`
	MinutesSinceLast int              `json:"minutesSinceLast"`
}

// AggregateStatistics reduces features into dashboard stats. Missing
// magnitudes count as 0.
func AggregateStatistics(features []model.Feature, now time.Time) Statistics {
	stats := Statistics{TotalCount: len(features)}
	if len(features) == 0 {
		return stats
	}

	highest := math.Inf(-1)
	lowest := math.Inf(1)
	var sum float64
	var mostRecent int64
	regions := make(map[string]struct{})

	for _, f := range features {
		mag := f.Magnitude
		sum += mag
		highest = math.Max(highest, mag)
		lowest = math.Min(lowest, mag)

		switch {
		case mag < 2:
			stats.Buckets.Micro++
		case mag < 4:
			stats.Buckets.Minor++
		case mag < 5:
			stats.Buckets.Moderate++
		default:
			stats.Buckets.Strong++
		}

		regions[util.Region(f.Place)] = struct{}{}
		if f.OccurredAt > mostRecent {
			mostRecent = f.OccurredAt
		}
	}

	stats.HighestMagnitude = highest
	stats.LowestMagnitude = lowest
	stats.AverageMagnitude = math.Round(sum/float64(len(features))*100) / 100
	stats.UniqueRegions = len(regions)
	stats.MostRecentAt = mostRecent

	since := now.UnixMilli() - mostRecent
	if since < 0 {
		since = 0
	}
	elapsed := time.Duration(since) * time.Millisecond
	stats.HoursSinceLast = int(elapsed / time.Hour)
	stats.MinutesSinceLast = int((elapsed % time.Hour) / time.Minute)
	return stats
}

// Severity is the coarse risk class used by the CLI and CSV export.
type Severity int

const (
	SeverityLow Severity = iota
	SeverityModerate
	SeverityHigh
	SeverityCritical
)

func (s Severity) String() string {
	return [...]string{"LOW", "MODERATE", "HIGH", "CRITICAL"}[s]
}

// SeverityOf buckets a magnitude into a Severity.
func SeverityOf(mag float64) Severity {
	switch {
	case mag >= 6.0:
		return SeverityCritical
	case mag >= 4.5:
		return SeverityHigh
	case mag >= 2.5:
		return SeverityModerate
	default:
		return SeverityLow
	}
}
