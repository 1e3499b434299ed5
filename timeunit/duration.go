package timeunit

import (
	"math"
	"strconv"
	"strings"

	"github.com/sosodev/duration"
	"github.com/xuenqlve/rangekit/errors"
)

// 年按 365 天、月按 30 天折算
const (
	daysInYear  = 365
	daysInMonth = 30
)

// DurationToMilliseconds parses an ISO-8601 duration such as "PT1.60S",
// "P1DT2H" or "P1Y2M" into milliseconds. A leading "-" negates it.
func DurationToMilliseconds(s string) (float64, error) {
	body, negative := strings.CutPrefix(s, "-")
	if !strings.HasPrefix(body, "P") || body == "P" || strings.HasSuffix(body, "T") {
		return 0, invalidDuration(s)
	}
	d, err := duration.Parse(body)
	if err != nil {
		return 0, errors.NewRangeError(errors.ErrCodeDuration, errors.Annotatef(err, "invalid duration %s", strconv.Quote(s)))
	}

	days := d.Years*daysInYear + d.Months*daysInMonth + d.Weeks*7 + d.Days
	total := days*float64(MillisecondsInDay) +
		d.Hours*float64(MillisecondsInHour) +
		d.Minutes*float64(MillisecondsInMinute) +
		d.Seconds*float64(MillisecondsInSecond)
	if negative {
		total = -total
	}
	// 修正 0.1+0.2 之类的浮点误差
	return math.Round(total*1e6) / 1e6, nil
}

func invalidDuration(s string) error {
	return errors.NewRangeErrorMessage(errors.ErrCodeDuration, "invalid duration "+strconv.Quote(s))
}

// DurationToSeconds "PT1.60S" => 1.6
func DurationToSeconds(s string) (float64, error) {
	millis, err := DurationToMilliseconds(s)
	if err != nil {
		return 0, err
	}
	return millis / float64(MillisecondsInSecond), nil
}

// SecondsToDuration 25000 => "PT25000S"
func SecondsToDuration(seconds float64) string {
	return "PT" + strconv.FormatFloat(seconds, 'f', -1, 64) + "S"
}
