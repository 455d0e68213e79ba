package wekan

import (
	"fmt"
	"time"
)

// isoLayouts covers the timestamp shapes the Wekan server emits: RFC 3339
// with or without fractional seconds, with a "Z" suffix or a numeric offset.
var isoLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
}

// ParseISODate parses an ISO-8601 timestamp into a timezone-aware time.
// Timestamps without an offset are taken as UTC.
func ParseISODate(value string) (time.Time, error) {
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("parse iso date %q: unsupported format", value)
}

// FormatISODate renders a time the way the server does: UTC, millisecond
// precision, "Z" suffix. ParseISODate(FormatISODate(t)) reproduces t to
// the millisecond.
func FormatISODate(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z")
}
