// Package timeconv converts timestamps between UTC and named zones, leaving
// unparseable input untouched.
package timeconv

import (
	"time"
)

var layouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ToZone reads value as UTC when it carries no offset and renders it in zone.
func ToZone(value, zone string) string {
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return value
	}
	t, ok := parse(value, time.UTC)
	if !ok {
		return value
	}
	return t.In(loc).Format(time.RFC3339)
}

// FromZone reads value in zone when it carries no offset and renders it in UTC.
func FromZone(value, zone string) string {
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return value
	}
	t, ok := parse(value, loc)
	if !ok {
		return value
	}
	return t.UTC().Format(time.RFC3339)
}

// Parse accepts the same layouts as ToZone and reads naive values in loc.
func Parse(value string, loc *time.Location) (time.Time, error) {
	var lastErr error
	for _, layout := range layouts {
		t, err := time.ParseInLocation(layout, value, loc)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

func parse(value string, loc *time.Location) (time.Time, bool) {
	t, err := Parse(value, loc)
	return t, err == nil
}
