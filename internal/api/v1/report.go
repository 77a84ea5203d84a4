package v1

import "fmt"

// GlobalField is the field name used for cross-field or whole-event entries.
const GlobalField = "*"

// Reason is a machine-readable report code.
type Reason string

const (
	ReasonMissingRequiredField Reason = "missing_required_field"
	ReasonInvalidFieldFormat   Reason = "invalid_field_format"
	ReasonInvalidEnumValue     Reason = "invalid_enum_value"
	ReasonUnknownEventType     Reason = "unknown_event_type"

	ReasonUnexpectedField      Reason = "unexpected_field"
	ReasonTimestampSubstituted Reason = "timestamp_substituted"
	ReasonTimestampInFuture    Reason = "timestamp_in_future"
	ReasonTimestampStale       Reason = "timestamp_stale"
)

// Severity distinguishes blocking entries from informational ones.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Entry is a single report line.
type Entry struct {
	Field   string `json:"field"`
	Reason  Reason `json:"reason"`
	Message string `json:"message"`
}

func (e Entry) String() string {
	return fmt.Sprintf("%s: %s (%s)", e.Field, e.Message, e.Reason)
}

// Report is the ordered result of one validation pass.
// It has zero errors if and only if the event is routed as accepted.
type Report struct {
	Errors   []Entry `json:"errors"`
	Warnings []Entry `json:"warnings"`
}

// NewReport returns an empty report whose lists serialize as [] rather than null.
func NewReport() *Report {
	return &Report{
		Errors:   []Entry{},
		Warnings: []Entry{},
	}
}

// Add appends an entry with the given severity.
func (r *Report) Add(sev Severity, field string, reason Reason, format string, args ...interface{}) {
	e := Entry{Field: field, Reason: reason, Message: fmt.Sprintf(format, args...)}
	if sev == SeverityError {
		r.Errors = append(r.Errors, e)
		return
	}
	r.Warnings = append(r.Warnings, e)
}

// AddError appends a blocking entry.
func (r *Report) AddError(field string, reason Reason, format string, args ...interface{}) {
	r.Add(SeverityError, field, reason, format, args...)
}

// AddWarning appends an informational entry.
func (r *Report) AddWarning(field string, reason Reason, format string, args ...interface{}) {
	r.Add(SeverityWarning, field, reason, format, args...)
}

// Valid reports whether the report carries no errors.
func (r *Report) Valid() bool {
	return len(r.Errors) == 0
}

// HasError reports whether an error with reason exists, optionally restricted to field.
func (r *Report) HasError(reason Reason, field string) bool {
	return hasEntry(r.Errors, reason, field)
}

// HasWarning reports whether a warning with reason exists, optionally restricted to field.
func (r *Report) HasWarning(reason Reason, field string) bool {
	return hasEntry(r.Warnings, reason, field)
}

// CountErrors returns the number of errors carrying reason.
func (r *Report) CountErrors(reason Reason) int {
	n := 0
	for _, e := range r.Errors {
		if e.Reason == reason {
			n++
		}
	}
	return n
}

func hasEntry(entries []Entry, reason Reason, field string) bool {
	for _, e := range entries {
		if e.Reason != reason {
			continue
		}
		if field == "" || e.Field == field {
			return true
		}
	}
	return false
}
