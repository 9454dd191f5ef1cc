package service

import (
	"github.com/haatos/simple-ci-metrics/internal/metrics"
	"github.com/haatos/simple-ci-metrics/internal/store"
)

// recordsFromRuns joins runs with their steps into records for the metrics
// engine. steps must be grouped by run and ordered within each run.
func recordsFromRuns(runs []store.Run, steps []store.Step) []metrics.Record {
	traces := make(map[int64][]metrics.TraceNode)
	for _, s := range steps {
		traces[s.StepRunID] = append(traces[s.StepRunID], metrics.TraceNode{
			StartTime: s.StartedOn.Time,
			Checkout:  s.Kind == store.KindCheckout,
		})
	}

	records := make([]metrics.Record, len(runs))
	for i, r := range runs {
		records[i] = metrics.Record{
			ID:        r.RunID,
			Complete:  r.Complete(),
			StartTime: r.StartedOn.Time,
			Duration:  r.Duration(),
			Trace:     traces[r.RunID],
		}
		if r.Complete() {
			records[i].Outcome = r.Status.Outcome()
		}
	}
	return records
}
