package domain_test

import (
	"errors"
	"testing"
	"time"

	"weighttracker/internal/domain"
)

func TestParseTimestamp(t *testing.T) {
	want := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)
	tests := []struct {
		name string
		in   string
		want time.Time
	}{
		{"rfc3339 zulu", "2024-01-15T10:30:00Z", want},
		{"fractional seconds dropped", "2024-01-15T10:30:00.987Z", want},
		{"offset normalized", "2024-01-15T12:30:00+02:00", want},
		{"space separated", "2024-01-15 10:30:00", want},
		{"no zone means utc", "2024-01-15T10:30:00", want},
		{"minutes only", "2024-01-15T10:30", want},
		{"date only", "2024-01-15", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)},
		{"year and month", "2024-01", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{"year only", "2024", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := domain.ParseTimestamp(tc.in)
			if err != nil {
				t.Fatalf("ParseTimestamp(%q): %v", tc.in, err)
			}
			if !got.Equal(tc.want) || got.Location() != time.UTC {
				t.Errorf("ParseTimestamp(%q) = %v; want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestParseTimestamp_Invalid(t *testing.T) {
	for _, in := range []string{"", "   ", "yesterday", "2024-13-01", "2024-02-30T00:00:00Z", "Infinity", "1e20", "1705314600000", "20240115", "-5"} {
		if _, err := domain.ParseTimestamp(in); !errors.Is(err, domain.ErrInvalidTimestamp) {
			t.Errorf("ParseTimestamp(%q) err = %v; want ErrInvalidTimestamp", in, err)
		}
	}
}

func TestParseEpochMillis(t *testing.T) {
	want := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)
	for _, in := range []string{"1705314600000", "1705314600500.7", "1.7053146e12"} {
		got, err := domain.ParseEpochMillis(in)
		if err != nil {
			t.Fatalf("ParseEpochMillis(%q): %v", in, err)
		}
		if !got.Equal(want) || got.Location() != time.UTC {
			t.Errorf("ParseEpochMillis(%q) = %v; want %v", in, got, want)
		}
	}

	for _, in := range []string{"", "1e20", "2024-01-15", "NaN"} {
		if _, err := domain.ParseEpochMillis(in); !errors.Is(err, domain.ErrInvalidTimestamp) {
			t.Errorf("ParseEpochMillis(%q) err = %v; want ErrInvalidTimestamp", in, err)
		}
	}
}

func TestNormalizeTime(t *testing.T) {
	loc := time.FixedZone("X", -5*3600)
	got := domain.NormalizeTime(time.Date(2024, 1, 15, 5, 30, 0, 999_999_999, loc))
	want := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)
	if !got.Equal(want) || got.Nanosecond() != 0 {
		t.Errorf("NormalizeTime = %v; want %v", got, want)
	}
}
