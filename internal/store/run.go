package store

import (
	"time"

	"github.com/haatos/simple-ci-metrics/internal/metrics"
)

type RunStatus string

const (
	StatusRunning  RunStatus = "running"
	StatusSuccess  RunStatus = "success"
	StatusUnstable RunStatus = "unstable"
	StatusFailure  RunStatus = "failure"
	StatusAborted  RunStatus = "aborted"
)

func (s RunStatus) Valid() bool {
	switch s {
	case StatusRunning, StatusSuccess, StatusUnstable, StatusFailure, StatusAborted:
		return true
	}
	return false
}

// Final reports whether s is a status a run can be completed with.
func (s RunStatus) Final() bool {
	return s.Valid() && s != StatusRunning
}

type Run struct {
	RunID     int64      `json:"run_id"`
	RunJobID  int64      `json:"run_job_id"`
	Status    RunStatus  `json:"status"`
	StartedOn Timestamp  `json:"started_on"`
	EndedOn   *Timestamp `json:"ended_on"`
}

func (r *Run) Complete() bool {
	return r.EndedOn != nil
}

// Duration is the wall-clock duration of a completed run, or 0 while it is
// still running.
func (r *Run) Duration() time.Duration {
	if r.EndedOn == nil {
		return 0
	}
	return r.EndedOn.Sub(r.StartedOn.Time)
}

// Outcome maps a final status onto the outcome the metrics engine
// classifies. Aborted runs count as failures.
func (s RunStatus) Outcome() metrics.Outcome {
	switch s {
	case StatusSuccess:
		return metrics.OutcomeSuccess
	case StatusUnstable:
		return metrics.OutcomeUnstable
	default:
		return metrics.OutcomeFailure
	}
}

// ImportedRun is a run and its step trace as read from a history file.
type ImportedRun struct {
	Status    RunStatus
	StartedOn time.Time
	EndedOn   *time.Time
	Steps     []ImportedStep
}

type ImportedStep struct {
	Name      string
	Kind      StepKind
	StartedOn time.Time
}
