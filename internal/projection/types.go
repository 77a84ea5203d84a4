package projection

import (
	"time"

	v1 "github.com/tripline/eventgate/internal/api/v1"
)

// PartitionQueryRequest selects one partition of one class.
type PartitionQueryRequest struct {
	Class v1.Destination
	Type  string
	Date  string // YYYY-MM-DD, UTC
	Limit int    // default 100
}

// EventStatusResponse reports where an event currently lives.
type EventStatusResponse struct {
	EventID     string         `json:"event_id"`
	Type        string         `json:"type"`
	Partition   string         `json:"partition"`
	Destination v1.Destination `json:"destination"`

	// Pending is true while the raw record has not been through strict validation yet.
	Pending bool `json:"pending"`

	RawSeq     int64       `json:"raw_seq"`
	RecordedAt time.Time   `json:"recorded_at"`
	Record     v1.RawEvent `json:"record"`
	Errors     []v1.Entry  `json:"errors"`
	Warnings   []v1.Entry  `json:"warnings"`
}

// PartitionQueryResponse lists the events of one partition.
type PartitionQueryResponse struct {
	Class     v1.Destination        `json:"class"`
	Partition string                `json:"partition"`
	Count     int                   `json:"count"`
	Events    []EventStatusResponse `json:"events"`
}
