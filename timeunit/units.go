package timeunit

import (
	"fmt"
	"strings"
)

const (
	MillisecondsInSecond int64 = 1000
	MillisecondsInMinute       = 60 * MillisecondsInSecond
	MillisecondsInHour         = 60 * MillisecondsInMinute
	MillisecondsInDay          = 24 * MillisecondsInHour
	MillisecondsInWeek         = 7 * MillisecondsInDay
	MillisecondsInYear         = 52 * MillisecondsInWeek
)

// maxThreshold keeps every unit when no precision limit is given.
const maxThreshold = 9999

// TimeUnits is a duration decomposed into calendar-free units.
type TimeUnits struct {
	Days         int64 `json:"days"`
	Hours        int64 `json:"hours"`
	Minutes      int64 `json:"minutes"`
	Seconds      int64 `json:"seconds"`
	Milliseconds int64 `json:"milliseconds"`
}

// Split 把毫秒数拆分为天、时、分、秒、毫秒
func Split(millis int64) TimeUnits {
	return TimeUnits{
		Days:         millis / MillisecondsInDay,
		Hours:        millis % MillisecondsInDay / MillisecondsInHour,
		Minutes:      millis % MillisecondsInHour / MillisecondsInMinute,
		Seconds:      millis % MillisecondsInMinute / MillisecondsInSecond,
		Milliseconds: millis % MillisecondsInSecond,
	}
}

// String renders the non-zero units, e.g. "1 day 2 hours 3 minutes".
// Milliseconds are only rendered when includeMillis is set.
func (u TimeUnits) String(includeMillis bool) string {
	parts := make([]string, 0, 5)
	add := func(units int64, name string) {
		if units <= 0 {
			return
		}
		if units > 1 {
			name += "s"
		}
		parts = append(parts, fmt.Sprintf("%d %s", units, name))
	}
	add(u.Days, "day")
	add(u.Hours, "hour")
	add(u.Minutes, "minute")
	add(u.Seconds, "second")
	if includeMillis {
		add(u.Milliseconds, "millisecond")
	}
	return strings.Join(parts, " ")
}

// FirstSignificantIndex returns 1 for days, 2 for hours, 3 for minutes,
// 4 for seconds and 5 when only milliseconds (or nothing) remain.
func FirstSignificantIndex(u TimeUnits) int {
	switch {
	case u.Days > 0:
		return 1
	case u.Hours > 0:
		return 2
	case u.Minutes > 0:
		return 3
	case u.Seconds > 0:
		return 4
	}
	return 5
}

// Truncate zeroes every unit beyond maxUnits counted from the first
// significant one. maxUnits <= 0 keeps all units.
func Truncate(u TimeUnits, maxUnits int) TimeUnits {
	threshold := maxThreshold
	if maxUnits > 0 {
		threshold = maxUnits + FirstSignificantIndex(u)
	}
	keep := func(v int64, level int) int64 {
		if threshold >= level {
			return v
		}
		return 0
	}
	return TimeUnits{
		Days:         keep(u.Days, 2),
		Hours:        keep(u.Hours, 3),
		Minutes:      keep(u.Minutes, 4),
		Seconds:      keep(u.Seconds, 5),
		Milliseconds: keep(u.Milliseconds, 6),
	}
}

func MillisToTimeRemaining(millis int64, maxPrecision int, includeMillis bool) string {
	units := Split(millis)
	if maxPrecision > 0 {
		units = Truncate(units, maxPrecision)
	}
	return units.String(includeMillis)
}

// MillisToStringWithMaxPrecision 3660001ms 精度 2 => "1 hour 1 minute"
func MillisToStringWithMaxPrecision(millis int64, maxPrecision int) string {
	return Truncate(Split(millis), maxPrecision).String(false)
}
