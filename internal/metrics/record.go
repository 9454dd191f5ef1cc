// Package metrics computes health and performance metrics over the build
// history of a single job.
//
// Every function in this package is a pure computation over an in-memory
// snapshot of records. Absent results ("no data") are returned as nil and
// are never errors.
package metrics

import (
	"time"
)

type Outcome string

const (
	OutcomeSuccess  Outcome = "success"
	OutcomeUnstable Outcome = "unstable"
	OutcomeFailure  Outcome = "failure"
)

// Record is one build run as seen by the metrics engine.
type Record struct {
	ID        int64
	Outcome   Outcome
	Complete  bool
	StartTime time.Time
	// Duration is only meaningful once Complete is true. Zero means the run
	// did no measurable work.
	Duration time.Duration
	// Trace is nil when the run did not record step-level detail.
	Trace []TraceNode
}

type Predicate func(Record) bool

// Extractor measures a record in milliseconds.
type Extractor func(Record) int64

func filter(records []Record, keep Predicate) []Record {
	filtered := make([]Record, 0, len(records))
	for _, r := range records {
		if keep(r) {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// measurements materializes the positive measurements of the records kept
// by preFilter.
func measurements(records []Record, preFilter Predicate, durationOf Extractor) []DurationMeasurement {
	measured := make([]DurationMeasurement, 0, len(records))
	for _, r := range records {
		if !preFilter(r) {
			continue
		}
		d := durationOf(r)
		if d <= 0 {
			continue
		}
		measured = append(measured, DurationMeasurement{Record: r, Duration: Duration(d)})
	}
	return measured
}
