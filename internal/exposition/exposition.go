// Package exposition renders job metrics in the Prometheus exposition
// format. Each metric becomes a gauge family labelled by job; metrics
// without data produce no sample.
//
// The job is carried in the ci_job label: a job label would clash with the
// one Prometheus attaches to every scraped target.
package exposition

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"unicode"

	"github.com/haatos/simple-ci-metrics/internal/metrics"
	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
)

const (
	namespace = "simpleci_job"
	jobLabel  = "ci_job"
)

type Job struct {
	Name    string
	Metrics *metrics.JobMetrics
}

// Families builds one gauge family per metric, plus the number of runs in
// each job's history. Jobs are sampled in name order; no jobs produce no
// families.
func Families(jobs []Job) []*dto.MetricFamily {
	jobs = slices.Clone(jobs)
	slices.SortFunc(jobs, func(a, b Job) int {
		return strings.Compare(a.Name, b.Name)
	})

	runs := newGaugeFamily(namespace+"_runs", "Number of runs in the job's history")
	families := make(map[string]*dto.MetricFamily)
	order := make([]string, 0)

	for _, j := range jobs {
		runs.Metric = append(runs.Metric, gauge(j.Name, float64(len(j.Metrics.Records()))))

		for _, v := range j.Metrics.Values() {
			if !v.HasData() {
				continue
			}
			name := MetricName(v)
			mf, ok := families[name]
			if !ok {
				mf = newGaugeFamily(name, v.DisplayName)
				families[name] = mf
				order = append(order, name)
			}
			mf.Metric = append(mf.Metric, gauge(j.Name, sampleValue(v)))
		}
	}

	result := make([]*dto.MetricFamily, 0, len(order)+1)
	if len(runs.Metric) > 0 {
		result = append(result, runs)
	}
	for _, name := range order {
		result = append(result, families[name])
	}
	slices.SortFunc(result, func(a, b *dto.MetricFamily) int {
		return strings.Compare(a.GetName(), b.GetName())
	})
	return result
}

// MetricName derives the exposed name of a metric from its symbol, e.g.
// avgDuration becomes simpleci_job_avg_duration_seconds.
func MetricName(v metrics.Value) string {
	suffix := "_ratio"
	if v.Kind == metrics.KindDuration {
		suffix = "_seconds"
	}
	return namespace + "_" + snakeCase(v.Symbol) + suffix
}

// Write encodes families to w in format. The text format is used when format
// is empty.
func Write(w io.Writer, families []*dto.MetricFamily, format expfmt.Format) error {
	if format == "" {
		format = expfmt.NewFormat(expfmt.TypeTextPlain)
	}
	enc := expfmt.NewEncoder(w, format)
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return fmt.Errorf("encode %s: %w", mf.GetName(), err)
		}
	}
	if closer, ok := enc.(expfmt.Closer); ok {
		return closer.Close()
	}
	return nil
}

func sampleValue(v metrics.Value) float64 {
	if v.Kind == metrics.KindDuration {
		return v.Float64() / 1000
	}
	return v.Float64()
}

func newGaugeFamily(name, help string) *dto.MetricFamily {
	return &dto.MetricFamily{
		Name: ptr(name),
		Help: ptr(help),
		Type: dto.MetricType_GAUGE.Enum(),
	}
}

func gauge(job string, value float64) *dto.Metric {
	return &dto.Metric{
		Label: []*dto.LabelPair{{Name: ptr(jobLabel), Value: ptr(job)}},
		Gauge: &dto.Gauge{Value: ptr(value)},
	}
}

func snakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}

func ptr[T any](v T) *T {
	return &v
}
