package timeutil

import (
	"strings"
	"time"
)

// DisplayLayout is the default human-readable start time format.
const DisplayLayout = "Jan 2, 2006 3:04 PM MST"

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// ParseTimestamp parses an ISO-8601 timestamp. Values without a zone are read as UTC.
// Empty or unparseable input yields the zero time and false.
func ParseTimestamp(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// ResolveLocation returns a location for a tz string, or UTC if empty or invalid.
func ResolveLocation(tz string) *time.Location {
	if tz == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return time.UTC
	}
	return loc
}

// FormatLocal renders t in loc using layout. Zero times render as "".
func FormatLocal(t time.Time, loc *time.Location, layout string) string {
	if t.IsZero() {
		return ""
	}
	if loc == nil {
		loc = time.UTC
	}
	if layout == "" {
		layout = DisplayLayout
	}
	return t.In(loc).Format(layout)
}

// FormatISO renders t as RFC 3339 in UTC. Zero times render as "".
func FormatISO(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
