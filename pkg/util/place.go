package util

import (
	"regexp"
	"strconv"
	"strings"
)

// UnknownRegion labels places with no usable region token.
const UnknownRegion = "Unknown"

var multiSpacePattern = regexp.MustCompile(`\s+`)

// Region extracts the region/country token from a feed place string,
// e.g. "10km N of Tokyo, Japan" -> "Japan". Places without a comma yield the
// whole trimmed place; empty places yield UnknownRegion.
func Region(place string) string {
	idx := strings.LastIndex(place, ",")
	region := place
	if idx >= 0 {
		region = place[idx+1:]
	}
	region = strings.TrimSpace(multiSpacePattern.ReplaceAllString(region, " "))
	if region == "" {
		return UnknownRegion
	}
	return region
}

// MagnitudeText renders a magnitude the way the dashboard prints it: the
// shortest decimal form ("4.8", "5", "0.25").
func MagnitudeText(mag float64) string {
	return strconv.FormatFloat(mag, 'f', -1, 64)
}

// ContainsFold reports whether needle occurs in haystack ignoring case.
// The needle is expected to be lower-cased and trimmed already.
func ContainsFold(haystack, needle string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(haystack), needle)
}
