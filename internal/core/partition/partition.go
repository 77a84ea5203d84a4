package partition

import (
	"fmt"
	"strings"
	"time"
)

// UnknownType is the type segment used when an event has no resolved type.
const UnknownType = "unknown"

// Key returns the storage partition for an event:
// year=YYYY/month=MM/day=DD/type=T, derived from the event's own UTC timestamp.
// The same event always maps to the same partition.
func Key(eventType string, ts time.Time) string {
	ts = ts.UTC()
	return fmt.Sprintf("year=%04d/month=%02d/day=%02d/type=%s",
		ts.Year(), int(ts.Month()), ts.Day(), segment(eventType))
}

// ObjectKey is the full object path of an event record inside a partition.
func ObjectKey(partitionKey, eventID, ext string) string {
	return partitionKey + "/" + eventID + "." + strings.TrimPrefix(ext, ".")
}

// segment keeps a type identifier from escaping its path segment.
func segment(eventType string) string {
	t := strings.TrimSpace(eventType)
	if t == "" {
		return UnknownType
	}
	return strings.NewReplacer("/", "_", "=", "_").Replace(t)
}
