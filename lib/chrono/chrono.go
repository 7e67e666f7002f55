// chrono turns the heterogeneous time shapes found in trip payloads
// into concrete timestamps. Depending on the endpoint version the
// upstream mixes epoch seconds, full datetime strings and bare clock
// times, so parsing is defensive rather than schema-strict.
package chrono

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"farescan-backend/lib/timezone"
)

const DateLayout = "2006-01-02"

var datetimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

var clockPattern = regexp.MustCompile(`^(\d{1,2}):(\d{2})(?::(\d{2}))?$`)

// ParseFlexible resolves a loosely-typed time value against a
// reference date (used for bare clock times). It reports false for
// anything it cannot make sense of and never panics on malformed
// input.
func ParseFlexible(value any, refDate string) (time.Time, bool) {
	switch v := value.(type) {
	case float64:
		return time.Unix(int64(v), 0).In(timezone.Location), true
	case int64:
		return time.Unix(v, 0).In(timezone.Location), true
	case int:
		return time.Unix(int64(v), 0).In(timezone.Location), true
	case json.Number:
		sec, err := v.Int64()
		if err != nil {
			return time.Time{}, false
		}
		return time.Unix(sec, 0).In(timezone.Location), true
	case string:
		return parseString(v, refDate)
	}
	return time.Time{}, false
}

func parseString(value, refDate string) (time.Time, bool) {
	for _, layout := range datetimeLayouts {
		t, err := time.ParseInLocation(layout, value, timezone.Location)
		if err == nil {
			return t, true
		}
	}

	m := clockPattern.FindStringSubmatch(value)
	if m == nil {
		return time.Time{}, false
	}
	day, err := time.ParseInLocation(DateLayout, refDate, timezone.Location)
	if err != nil {
		return time.Time{}, false
	}

	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	second := 0
	if m[3] != "" {
		second, _ = strconv.Atoi(m[3])
	}
	if hour > 23 || minute > 59 || second > 59 {
		return time.Time{}, false
	}
	return day.Add(time.Duration(hour)*time.Hour +
		time.Duration(minute)*time.Minute +
		time.Duration(second)*time.Second), true
}

// DurationLabel formats the span between departure and arrival as
// "<h>h <m>m". An arrival clock earlier than departure is assumed to
// have rolled past midnight once; multi-day trips are not labeled.
func DurationLabel(departure, arrival time.Time) string {
	if arrival.Before(departure) {
		arrival = arrival.Add(24 * time.Hour)
	}
	d := arrival.Sub(departure)
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	return fmt.Sprintf("%dh %dm", hours, minutes)
}
