// Package validate produces the validation report for a normalized event.
package validate

import (
	"sort"
	"strings"
	"time"

	v1 "github.com/tripline/eventgate/internal/api/v1"
	"github.com/tripline/eventgate/internal/core/values"
	"github.com/tripline/eventgate/internal/normalize"
	"github.com/tripline/eventgate/internal/resolve"
	"github.com/tripline/eventgate/internal/schema"
)

const (
	DefaultFutureSkew = time.Hour
	DefaultStaleAfter = 30 * 24 * time.Hour
)

// Input is everything the validator needs about one event.
type Input struct {
	Type       resolve.TypeResult
	Timestamp  resolve.TimestampResult
	Normalized *normalize.Result
}

// Validator runs every check unconditionally so a single report carries all
// reasons for a rejection.
type Validator struct {
	futureSkew time.Duration
	staleAfter time.Duration
}

// Option configures a Validator.
type Option func(*Validator)

// WithFutureSkew sets how far ahead of now a timestamp may be before a tolerant
// pass warns about it. Zero disables the check.
func WithFutureSkew(d time.Duration) Option {
	return func(v *Validator) { v.futureSkew = d }
}

// WithStaleAfter sets how old a timestamp may be before a tolerant pass warns
// about it. Zero disables the check.
func WithStaleAfter(d time.Duration) Option {
	return func(v *Validator) { v.staleAfter = d }
}

// New returns a Validator with default clock-skew limits.
func New(opts ...Option) *Validator {
	v := &Validator{
		futureSkew: DefaultFutureSkew,
		staleAfter: DefaultStaleAfter,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate builds the report for in. now is only consulted in tolerant mode.
func (v *Validator) Validate(in Input, mode v1.Mode, now time.Time) *v1.Report {
	report := v1.NewReport()
	desc := in.Type.Descriptor
	payload := in.Normalized.Payload

	checkRequired(report, desc, payload, in.Timestamp)
	checkFormats(report, desc, in.Normalized, mode)
	checkEnums(report, in.Normalized, mode)
	checkRules(report, desc, in.Normalized)
	checkType(report, in.Type, mode)
	checkUnexpected(report, desc, payload)
	if mode == v1.ModeTolerant {
		v.checkClock(report, in.Timestamp, payload, now)
	}
	return report
}

// softSeverity is the severity of format and enum problems. Tolerant passes
// keep the record for the strict pass instead of bouncing it at the edge.
func softSeverity(mode v1.Mode) v1.Severity {
	if mode == v1.ModeTolerant {
		return v1.SeverityWarning
	}
	return v1.SeverityError
}

func checkRequired(report *v1.Report, desc *schema.Descriptor, payload v1.RawEvent, ts resolve.TimestampResult) {
	if !ts.Resolved() {
		report.AddError(v1.FieldTimestamp, v1.ReasonMissingRequiredField, "required field %q is missing", v1.FieldTimestamp)
	}
	if desc == nil {
		return
	}
	for _, name := range desc.Required() {
		if !payload.Has(name) {
			report.AddError(name, v1.ReasonMissingRequiredField, "required field %q is missing", name)
		}
	}
}

func checkFormats(report *v1.Report, desc *schema.Descriptor, res *normalize.Result, mode v1.Mode) {
	for _, u := range res.Unresolved {
		if u.Reason != v1.ReasonInvalidFieldFormat {
			continue
		}
		sev := softSeverity(mode)
		if u.Field == v1.FieldTimestamp {
			// Canonical events always carry a parseable ts.
			sev = v1.SeverityError
		}
		report.Add(sev, u.Field, v1.ReasonInvalidFieldFormat, "field %q is not a valid %s: %v", u.Field, u.Kind, u.Value)
	}

	if desc == nil {
		return
	}
	for _, f := range desc.Fields {
		val, ok := res.Payload[f.Name]
		if !ok || val == nil || res.IsUnresolved(f.Name) {
			continue
		}
		if !normalize.Conforms(f.Kind, f.Enum, val) {
			report.Add(softSeverity(mode), f.Name, v1.ReasonInvalidFieldFormat, "field %q is not a valid %s: %v", f.Name, f.Kind, val)
		}
	}
}

func checkEnums(report *v1.Report, res *normalize.Result, mode v1.Mode) {
	for _, u := range res.Unresolved {
		if u.Reason != v1.ReasonInvalidEnumValue {
			continue
		}
		report.Add(softSeverity(mode), u.Field, v1.ReasonInvalidEnumValue, "field %q has value %v outside its allowed set", u.Field, u.Value)
	}
}

func checkRules(report *v1.Report, desc *schema.Descriptor, res *normalize.Result) {
	if desc == nil {
		return
	}
	for _, rule := range desc.Rules {
		if anyUnresolved(res, rule.Fields) {
			continue
		}
		violation, violated := rule.Evaluate(res.Payload)
		if !violated {
			continue
		}
		sev := v1.SeverityWarning
		if violation.Fatal {
			sev = v1.SeverityError
		}
		report.Add(sev, violation.Field, violation.Reason, "%s", violation.Message)
	}
}

func anyUnresolved(res *normalize.Result, fields []string) bool {
	for _, f := range fields {
		if res.IsUnresolved(f) {
			return true
		}
	}
	return false
}

func checkType(report *v1.Report, t resolve.TypeResult, mode v1.Mode) {
	if t.Known() {
		return
	}
	sev := v1.SeverityError
	if mode == v1.ModeTolerant {
		sev = v1.SeverityWarning
	}
	if t.Type == "" {
		report.Add(sev, v1.FieldType, v1.ReasonUnknownEventType, "event type could not be determined")
		return
	}
	report.Add(sev, v1.FieldType, v1.ReasonUnknownEventType, "event type %q is not registered", t.Type)
}

func checkUnexpected(report *v1.Report, desc *schema.Descriptor, payload v1.RawEvent) {
	if desc == nil {
		return
	}
	var extra []string
	for name := range payload {
		if v1.IsSystemField(name) || desc.Declares(name) {
			continue
		}
		extra = append(extra, name)
	}
	sort.Strings(extra)
	for _, name := range extra {
		report.AddWarning(name, v1.ReasonUnexpectedField, "field %q is not declared for %s", name, desc.Type)
	}
}

func (v *Validator) checkClock(report *v1.Report, ts resolve.TimestampResult, payload v1.RawEvent, now time.Time) {
	if ts.Substituted() {
		report.AddWarning(v1.FieldTimestamp, v1.ReasonTimestampSubstituted, "no timestamp found; processing time used")
		return
	}

	s, _ := payload.String(v1.FieldTimestamp)
	t, ok := values.Instant(strings.TrimSpace(s))
	if !ok {
		return
	}
	if v.futureSkew > 0 && t.After(now.Add(v.futureSkew)) {
		report.AddWarning(v1.FieldTimestamp, v1.ReasonTimestampInFuture, "timestamp %s is ahead of processing time", s)
	}
	if v.staleAfter > 0 && t.Before(now.Add(-v.staleAfter)) {
		report.AddWarning(v1.FieldTimestamp, v1.ReasonTimestampStale, "timestamp %s is older than %s", s, v.staleAfter)
	}
}
