package metrics

import (
	"slices"

	"github.com/jonboulle/clockwork"
)

// JobMetrics computes the named metrics of one job over a snapshot of its
// build history. Results are recomputed on every call.
type JobMetrics struct {
	records []Record
	clock   clockwork.Clock
}

// NewJobMetrics copies records, in any order, into a snapshot ordered most
// recent first. clock provides "now" for time-weighted rates.
func NewJobMetrics(records []Record, clock clockwork.Clock) *JobMetrics {
	snapshot := slices.Clone(records)
	slices.SortStableFunc(snapshot, func(a, b Record) int {
		return b.StartTime.Compare(a.StartTime)
	})
	return &JobMetrics{records: snapshot, clock: clock}
}

func (m *JobMetrics) Records() []Record {
	return slices.Clone(m.records)
}

func (m *JobMetrics) AvgDuration() *Duration {
	return AverageDuration(m.records, Completed, RunDuration)
}

func (m *JobMetrics) MinDuration() *DurationMeasurement {
	return FindExtremal(m.records, Completed, RunDuration, Min)
}

func (m *JobMetrics) MaxDuration() *DurationMeasurement {
	return FindExtremal(m.records, Completed, RunDuration, Max)
}

func (m *JobMetrics) StdevDuration() *Duration {
	return m.stdev(Completed, RunDuration)
}

func (m *JobMetrics) AvgSuccessDuration() *Duration {
	return AverageDuration(m.records, Success, RunDuration)
}

func (m *JobMetrics) MinSuccessDuration() *DurationMeasurement {
	return FindExtremal(m.records, Success, RunDuration, Min)
}

func (m *JobMetrics) MaxSuccessDuration() *DurationMeasurement {
	return FindExtremal(m.records, Success, RunDuration, Max)
}

func (m *JobMetrics) StdevSuccessDuration() *Duration {
	return m.stdev(Success, RunDuration)
}

func (m *JobMetrics) AvgCheckoutDuration() *Duration {
	return AverageDuration(m.records, Completed, RunCheckoutDuration)
}

func (m *JobMetrics) MinCheckoutDuration() *DurationMeasurement {
	return FindExtremal(m.records, Completed, RunCheckoutDuration, Min)
}

func (m *JobMetrics) MaxCheckoutDuration() *DurationMeasurement {
	return FindExtremal(m.records, Completed, RunCheckoutDuration, Max)
}

func (m *JobMetrics) SuccessRate() *Rate {
	return SimpleRate(m.records, Completed, Success)
}

func (m *JobMetrics) FailureRate() *Rate {
	return SimpleRate(m.records, Completed, NotSuccess)
}

func (m *JobMetrics) UnstableRate() *Rate {
	return SimpleRate(m.records, Completed, Unstable)
}

func (m *JobMetrics) SuccessTimeRate() *Rate {
	return TimeWeightedRate(m.records, Completed, Success, m.clock.Now())
}

func (m *JobMetrics) FailureTimeRate() *Rate {
	return TimeWeightedRate(m.records, Completed, NotSuccess, m.clock.Now())
}

// stdev reports no data, unlike StdevDuration, when nothing is measured.
func (m *JobMetrics) stdev(preFilter Predicate, durationOf Extractor) *Duration {
	if len(measurements(m.records, preFilter, durationOf)) == 0 {
		return nil
	}
	d := StdevDuration(m.records, preFilter, durationOf)
	return &d
}
