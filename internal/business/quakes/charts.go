package quakes

import (
	"math"
	"sort"

	"github.com/quakeboard/api/pkg/model"
	"github.com/quakeboard/api/pkg/util"
)

// TopRegionLimit caps the regions chart.
const TopRegionLimit = 10

// HistogramBin is one magnitude class of the distribution chart.
type HistogramBin struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// DepthPoint is one point of the depth-vs-magnitude scatter.
type DepthPoint struct {
	ID        string  `json:"id"`
	Magnitude float64 `json:"magnitude"`
	DepthKm   float64 `json:"depthKm"`
	Place     string  `json:"place"`
}

// DailyCount is one UTC day of the activity time series.
type DailyCount struct {
	Date          string  `json:"date"`
	Count         int     `json:"count"`
	MovingAverage float64 `json:"movingAverage"`
}

// RegionCount is one row of the top regions chart.
type RegionCount struct {
	Region string `json:"region"`
	Count  int    `json:"count"`
}

// Charts bundles every chart series of the dashboard.
type Charts struct {
	Magnitudes []HistogramBin `json:"magnitudes"`
	Depths     []DepthPoint   `json:"depths"`
	Daily      []DailyCount   `json:"daily"`
	Regions    []RegionCount  `json:"regions"`
}

var histogramLabels = [...]string{"0-1", "1-2", "2-3", "3-4", "4-5", "5+"}

// BuildCharts computes all chart series from features.
func BuildCharts(features []model.Feature) Charts {
	return Charts{
		Magnitudes: MagnitudeHistogram(features),
		Depths:     DepthScatter(features),
		Daily:      DailySeries(features),
		Regions:    TopRegions(features, TopRegionLimit),
	}
}

// MagnitudeHistogram counts features per whole-magnitude class. Missing
// magnitudes land in 0-1 and negative ones are clamped there too.
func MagnitudeHistogram(features []model.Feature) []HistogramBin {
	bins := make([]HistogramBin, len(histogramLabels))
	for i, label := range histogramLabels {
		bins[i].Label = label
	}
	last := len(bins) - 1
	for _, f := range features {
		idx := int(math.Floor(f.Magnitude))
		if idx < 0 {
			idx = 0
		}
		if idx > last {
			idx = last
		}
		bins[idx].Count++
	}
	return bins
}

// DepthScatter plots depth against magnitude for features that report a
// magnitude.
func DepthScatter(features []model.Feature) []DepthPoint {
	points := make([]DepthPoint, 0, len(features))
	for _, f := range features {
		if !f.HasMagnitude {
			continue
		}
		points = append(points, DepthPoint{
			ID:        f.ID,
			Magnitude: f.Magnitude,
			DepthKm:   f.DepthKm,
			Place:     f.Place,
		})
	}
	return points
}

// DailySeries counts events per UTC day in ascending date order. Each day
// also carries the mean of itself and up to two preceding days that had
// events.
func DailySeries(features []model.Feature) []DailyCount {
	counts := make(map[string]int)
	for _, f := range features {
		counts[f.OccurredTime().Format("2006-01-02")]++
	}

	days := make([]string, 0, len(counts))
	for day := range counts {
		days = append(days, day)
	}
	sort.Strings(days)

	series := make([]DailyCount, len(days))
	for i, day := range days {
		series[i] = DailyCount{Date: day, Count: counts[day]}

		start := max(0, i-2)
		sum := 0
		for j := start; j <= i; j++ {
			sum += counts[days[j]]
		}
		avg := float64(sum) / float64(i-start+1)
		series[i].MovingAverage = math.Round(avg*100) / 100
	}
	return series
}

// TopRegions returns the limit most frequent regions, ties broken by name.
func TopRegions(features []model.Feature, limit int) []RegionCount {
	counts := make(map[string]int)
	for _, f := range features {
		counts[util.Region(f.Place)]++
	}

	regions := make([]RegionCount, 0, len(counts))
	for region, count := range counts {
		regions = append(regions, RegionCount{Region: region, Count: count})
	}
	sort.Slice(regions, func(i, j int) bool {
		if regions[i].Count != regions[j].Count {
			return regions[i].Count > regions[j].Count
		}
		return regions[i].Region < regions[j].Region
	})

	if limit > 0 && len(regions) > limit {
		regions = regions[:limit]
	}
	return regions
}
