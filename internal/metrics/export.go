package metrics

import (
	"strconv"
	"strings"
)

// Export is the flat, serializable form of a job's metrics. Metrics without
// data are exported as zero.
type Export struct {
	AvgCheckoutDuration  int64   `json:"avgCheckoutDuration"`
	AvgDuration          int64   `json:"avgDuration"`
	AvgSuccessDuration   int64   `json:"avgSuccessDuration"`
	MaxCheckoutDuration  int64   `json:"maxCheckoutDuration"`
	MaxDuration          int64   `json:"maxDuration"`
	MaxSuccessDuration   int64   `json:"maxSuccessDuration"`
	MinCheckoutDuration  int64   `json:"minCheckoutDuration"`
	MinDuration          int64   `json:"minDuration"`
	MinSuccessDuration   int64   `json:"minSuccessDuration"`
	StdevDuration        int64   `json:"stdevDuration"`
	StdevSuccessDuration int64   `json:"stdevSuccessDuration"`
	SuccessRate          float64 `json:"successRate"`
	FailureRate          float64 `json:"failureRate"`
	UnstableRate         float64 `json:"unstableRate"`
	SuccessTimeRate      float64 `json:"successTimeRate"`
	FailureTimeRate      float64 `json:"failureTimeRate"`
}

func (m *JobMetrics) Export() Export {
	return Export{
		AvgCheckoutDuration:  durationOrZero(m.AvgCheckoutDuration()),
		AvgDuration:          durationOrZero(m.AvgDuration()),
		AvgSuccessDuration:   durationOrZero(m.AvgSuccessDuration()),
		MaxCheckoutDuration:  measurementOrZero(m.MaxCheckoutDuration()),
		MaxDuration:          measurementOrZero(m.MaxDuration()),
		MaxSuccessDuration:   measurementOrZero(m.MaxSuccessDuration()),
		MinCheckoutDuration:  measurementOrZero(m.MinCheckoutDuration()),
		MinDuration:          measurementOrZero(m.MinDuration()),
		MinSuccessDuration:   measurementOrZero(m.MinSuccessDuration()),
		StdevDuration:        durationOrZero(m.StdevDuration()),
		StdevSuccessDuration: durationOrZero(m.StdevSuccessDuration()),
		SuccessRate:          rateOrZero(m.SuccessRate()),
		FailureRate:          rateOrZero(m.FailureRate()),
		UnstableRate:         rateOrZero(m.UnstableRate()),
		SuccessTimeRate:      rateOrZero(m.SuccessTimeRate()),
		FailureTimeRate:      rateOrZero(m.FailureTimeRate()),
	}
}

func durationOrZero(d *Duration) int64 {
	if d == nil {
		return 0
	}
	return d.Milliseconds()
}

func measurementOrZero(dm *DurationMeasurement) int64 {
	if dm == nil {
		return 0
	}
	return dm.Duration.Milliseconds()
}

func rateOrZero(r *Rate) float64 {
	if r == nil {
		return 0
	}
	return r.Float64()
}

const noData = "N/A"

// Column is a metric rendered for a list view: Text is shown to users and
// Data is the raw value used for sorting.
type Column struct {
	Symbol      string `json:"symbol"`
	DisplayName string `json:"displayName"`
	Text        string `json:"text"`
	Data        string `json:"data"`
	RunID       *int64 `json:"runId,omitempty"`
}

func (m *JobMetrics) Columns() []Column {
	values := m.Values()
	columns := make([]Column, len(values))
	for i, v := range values {
		columns[i] = v.Column()
	}
	return columns
}

func (v Value) Column() Column {
	c := Column{Symbol: v.Symbol, DisplayName: v.DisplayName, Text: noData}
	switch {
	case v.Duration != nil:
		c.Text = v.Duration.String()
		c.Data = strconv.FormatInt(v.Duration.Milliseconds(), 10)
	case v.Rate != nil:
		c.Text = v.Rate.String()
		c.Data = rateData(v.Rate.Float64())
	case v.Kind == KindRate:
		c.Data = "0.0"
	default:
		c.Data = "0"
	}
	if v.Run != nil {
		id := v.Run.ID
		c.RunID = &id
	}
	return c
}

func rateData(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
