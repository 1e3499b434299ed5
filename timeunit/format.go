package timeunit

import (
	"math"
	"strings"
	"time"

	"github.com/xuenqlve/rangekit/errors"
)

const (
	osdLayout     = "2006-01-02T15:04:05.000Z"
	displayLayout = "2006-01-02 15:04:05.000"

	// DefaultInvalidDisplay is shown for times that cannot be formatted.
	DefaultInvalidDisplay = "Unknown"
)

func fromEpochSeconds(epochSeconds float64) time.Time {
	if math.IsNaN(epochSeconds) || math.IsInf(epochSeconds, 0) {
		epochSeconds = 0
	}
	return time.UnixMilli(int64(math.Round(epochSeconds * float64(MillisecondsInSecond)))).UTC()
}

func toEpochSeconds(t time.Time) float64 {
	return float64(t.UnixMilli()) / float64(MillisecondsInSecond)
}

// ToOSDTime formats epoch seconds as an ISO-8601 UTC string with
// millisecond precision. NaN is treated as the start of the epoch.
func ToOSDTime(epochSeconds float64) string {
	return fromEpochSeconds(epochSeconds).Format(osdLayout)
}

// ToEpochSeconds parses an ISO-8601 time string. The empty string is 0.
func ToEpochSeconds(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return 0, errors.Annotatef(err, "parse time %s", s)
	}
	return toEpochSeconds(t), nil
}

func StartOfHour(epochSeconds float64) float64 {
	return toEpochSeconds(fromEpochSeconds(epochSeconds).Truncate(time.Hour))
}

// FormatForDisplay 1 => "1970-01-01 00:00:01.000"
func FormatForDisplay(epochSeconds float64) string {
	return fromEpochSeconds(epochSeconds).Format(displayLayout)
}

// FormatStringForDisplay reformats an ISO-8601 UTC string for display and
// returns invalid when the string is empty or malformed.
func FormatStringForDisplay(s, invalid string) string {
	if s == "" {
		return invalid
	}
	date, clock, ok := strings.Cut(s, "T")
	if !ok || strings.Contains(clock, "T") {
		return invalid
	}
	return date + " " + strings.TrimSuffix(clock, "Z")
}

// IsStale reports whether epochSeconds lies further than staleMillis from now.
func IsStale(epochSeconds float64, staleMillis int64, now time.Time) bool {
	delta := math.Abs(epochSeconds*float64(MillisecondsInSecond) - float64(now.UnixMilli()))
	return delta > float64(staleMillis)
}
