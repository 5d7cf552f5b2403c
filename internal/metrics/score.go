package metrics

import (
	"strconv"
	"strings"
)

// Unavailable is the display sentinel for a metric that has no
// contributing data. It is rendered literally in leaderboard cells and
// sorts below every numeric score.
const Unavailable = "-"

// FormatScore renders a 0-100 score with one decimal place, the fixed
// display precision for every leaderboard column.
func FormatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

// ParseScore parses a formatted score cell back to a float64. The
// second return is false for the Unavailable sentinel and for anything
// else that does not parse as a number; callers treat those as the
// lowest possible value, not as errors.
func ParseScore(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" || s == Unavailable {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
