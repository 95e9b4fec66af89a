package domain

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Accepted timestamp layouts. Layouts without a zone are read as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
	"2006-01",
	"2006",
}

// maxEpochMillis is the widest instant a JSON client can express, 1e8 days
// either side of the epoch.
const maxEpochMillis = 8.64e15

// ParseTimestamp reads a caller-supplied instant given as text and normalizes
// it to UTC with second precision. Digits alone are read as a year, never as
// epoch milliseconds; see ParseEpochMillis for numeric input.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrInvalidTimestamp
	}

	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return NormalizeTime(t), nil
		}
	}
	return time.Time{}, ErrInvalidTimestamp
}

// NormalizeTime converts t to UTC and drops sub-second precision.
func NormalizeTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Second)
}

// ParseEpochMillis reads a JSON number literal as milliseconds since the Unix
// epoch.
func ParseEpochMillis(literal string) (time.Time, error) {
	ms, err := strconv.ParseFloat(strings.TrimSpace(literal), 64)
	if err != nil || math.IsNaN(ms) || math.IsInf(ms, 0) || math.Abs(ms) > maxEpochMillis {
		return time.Time{}, ErrInvalidTimestamp
	}
	return NormalizeTime(time.UnixMilli(int64(ms))), nil
}
