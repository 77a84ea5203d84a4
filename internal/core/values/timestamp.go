package values

import (
	"fmt"
	"strings"
	"time"
)

const (
	// SecondLayout is the canonical second-precision timestamp form.
	SecondLayout = "2006-01-02T15:04:05Z"
	// MilliLayout is the canonical millisecond-precision timestamp form.
	MilliLayout = "2006-01-02T15:04:05.000Z"
	// DateLayout is the calendar date form.
	DateLayout = "2006-01-02"
)

// Accepted ISO-8601 shapes. Offset-less values are read as UTC.
var timestampLayouts = []struct {
	layout  string
	hasZone bool
}{
	{time.RFC3339Nano, true},
	{"2006-01-02T15:04:05.999999999-0700", true},
	{"2006-01-02 15:04:05.999999999Z07:00", true},
	{"2006-01-02T15:04Z07:00", true},
	{"2006-01-02T15:04:05.999999999", false},
	{"2006-01-02 15:04:05.999999999", false},
	{"2006-01-02T15:04", false},
	{DateLayout, false},
}

// ParseTimestamp parses an ISO-8601 string. The returned flag reports whether
// the input carried fractional seconds.
func ParseTimestamp(s string) (time.Time, bool, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false, fmt.Errorf("empty timestamp")
	}
	for _, l := range timestampLayouts {
		var (
			t   time.Time
			err error
		)
		if l.hasZone {
			t, err = time.Parse(l.layout, s)
		} else {
			t, err = time.ParseInLocation(l.layout, s, time.UTC)
		}
		if err == nil {
			return t.UTC(), hasFraction(s), nil
		}
	}
	return time.Time{}, false, fmt.Errorf("unrecognized timestamp %q", s)
}

// hasFraction reports whether the time-of-day part contains a fractional second.
func hasFraction(s string) bool {
	if len(s) <= len(DateLayout) {
		return false
	}
	return strings.Contains(s[len(DateLayout):], ".")
}

// FormatTimestamp renders t in canonical UTC form with a trailing Z.
func FormatTimestamp(t time.Time, millis bool) string {
	if millis {
		return t.UTC().Format(MilliLayout)
	}
	return t.UTC().Format(SecondLayout)
}

// CanonicalTimestamp converts v into canonical form, preserving millisecond
// or second precision from the input.
func CanonicalTimestamp(v interface{}) (string, bool) {
	s, ok := v.(string)
	if !ok {
		return "", false
	}
	t, millis, err := ParseTimestamp(s)
	if err != nil {
		return "", false
	}
	return FormatTimestamp(t, millis), true
}

// ParseDate accepts YYYY-MM-DD or a full timestamp, returning the UTC calendar day.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.ParseInLocation(DateLayout, s, time.UTC); err == nil {
		return t, nil
	}
	t, _, err := ParseTimestamp(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("unrecognized date %q", s)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

// CanonicalDate converts v into YYYY-MM-DD.
func CanonicalDate(v interface{}) (string, bool) {
	s, ok := v.(string)
	if !ok {
		return "", false
	}
	t, err := ParseDate(s)
	if err != nil {
		return "", false
	}
	return t.Format(DateLayout), true
}

// Instant parses either a timestamp or a date, for ordering comparisons.
func Instant(v interface{}) (time.Time, bool) {
	s, ok := v.(string)
	if !ok {
		return time.Time{}, false
	}
	t, _, err := ParseTimestamp(s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
