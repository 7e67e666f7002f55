package chrono

import (
	"testing"
	"time"

	"farescan-backend/lib/timezone"

	"github.com/stretchr/testify/require"
)

func TestParseFlexibleEpoch(t *testing.T) {
	got, ok := ParseFlexible(float64(1735689600), "2025-01-01")
	require.True(t, ok)
	require.Equal(t, int64(1735689600), got.Unix())
}

func TestParseFlexibleDatetime(t *testing.T) {
	got, ok := ParseFlexible("2025-03-14 22:30:00", "2025-01-01")
	require.True(t, ok)
	require.Equal(t, 2025, got.Year())
	require.Equal(t, time.March, got.Month())
	require.Equal(t, 14, got.Day())
	require.Equal(t, 22, got.Hour())
	require.Equal(t, 30, got.Minute())
}

func TestParseFlexibleBareClock(t *testing.T) {
	testCases := []struct {
		value          string
		hour, min, sec int
	}{
		{"8:05", 8, 5, 0},
		{"23:59", 23, 59, 0},
		{"07:15:30", 7, 15, 30},
	}
	for _, test := range testCases {
		got, ok := ParseFlexible(test.value, "2025-06-20")
		require.True(t, ok, test.value)
		require.Equal(t, 2025, got.Year())
		require.Equal(t, time.June, got.Month())
		require.Equal(t, 20, got.Day())
		require.Equal(t, test.hour, got.Hour())
		require.Equal(t, test.min, got.Minute())
		require.Equal(t, test.sec, got.Second())
	}
}

func TestParseFlexibleGarbage(t *testing.T) {
	for _, value := range []any{nil, "soon", "25:99", "", map[string]any{}, true} {
		_, ok := ParseFlexible(value, "2025-06-20")
		require.False(t, ok, "%v should not parse", value)
	}
}

func TestDurationLabel(t *testing.T) {
	day := time.Date(2025, 6, 20, 0, 0, 0, 0, timezone.Location)

	label := DurationLabel(day.Add(8*time.Hour), day.Add(12*time.Hour+30*time.Minute))
	require.Equal(t, "4h 30m", label)
}

func TestDurationLabelMidnightRollover(t *testing.T) {
	day := time.Date(2025, 6, 20, 0, 0, 0, 0, timezone.Location)

	// departs 08:00, arrives 02:00 "the same day": the arrival is
	// actually next morning, so the span is 18h, not negative
	label := DurationLabel(day.Add(8*time.Hour), day.Add(2*time.Hour))
	require.Equal(t, "18h 0m", label)
}
