package store

type StepKind string

const (
	KindCheckout StepKind = "checkout"
	KindStep     StepKind = "step"
)

func (k StepKind) Valid() bool {
	return k == KindCheckout || k == KindStep
}

// Step is one timed node of a run's execution trace. A step lasts until the
// next step of the same run starts.
type Step struct {
	StepID    int64     `json:"step_id"`
	StepRunID int64     `json:"step_run_id"`
	Seq       int64     `json:"seq"`
	Name      string    `json:"name"`
	Kind      StepKind  `json:"kind"`
	StartedOn Timestamp `json:"started_on"`
}
