package metrics

type Kind string

const (
	KindDuration Kind = "duration"
	KindRate     Kind = "rate"
)

// Value is the result of one named metric. Exactly one of Duration and Rate
// is set when the metric has data; both are nil otherwise. Run is the record
// an extremal metric was taken from.
type Value struct {
	Symbol      string
	DisplayName string
	Kind        Kind
	Duration    *Duration
	Rate        *Rate
	Run         *Record
}

func (v Value) HasData() bool {
	return v.Duration != nil || v.Rate != nil
}

// Float64 returns the raw metric value, milliseconds for durations, and 0
// when there is no data.
func (v Value) Float64() float64 {
	switch {
	case v.Duration != nil:
		return float64(v.Duration.Milliseconds())
	case v.Rate != nil:
		return v.Rate.Float64()
	default:
		return 0
	}
}

type definition struct {
	symbol      string
	displayName string
	kind        Kind
	compute     func(*JobMetrics, *Value)
}

func durationMetric(symbol, displayName string, f func(*JobMetrics) *Duration) definition {
	return definition{symbol, displayName, KindDuration, func(m *JobMetrics, v *Value) {
		v.Duration = f(m)
	}}
}

func measurementMetric(symbol, displayName string, f func(*JobMetrics) *DurationMeasurement) definition {
	return definition{symbol, displayName, KindDuration, func(m *JobMetrics, v *Value) {
		if dm := f(m); dm != nil {
			v.Duration = &dm.Duration
			v.Run = &dm.Record
		}
	}}
}

func rateMetric(symbol, displayName string, f func(*JobMetrics) *Rate) definition {
	return definition{symbol, displayName, KindRate, func(m *JobMetrics, v *Value) {
		v.Rate = f(m)
	}}
}

var definitions = []definition{
	durationMetric("avgDuration", "Average duration", (*JobMetrics).AvgDuration),
	durationMetric("avgSuccessDuration", "Average success duration", (*JobMetrics).AvgSuccessDuration),
	durationMetric("avgCheckoutDuration", "Average checkout duration", (*JobMetrics).AvgCheckoutDuration),
	measurementMetric("minDuration", "Shortest run", (*JobMetrics).MinDuration),
	measurementMetric("minSuccessDuration", "Shortest successful run", (*JobMetrics).MinSuccessDuration),
	measurementMetric("minCheckoutDuration", "Shortest checkout", (*JobMetrics).MinCheckoutDuration),
	measurementMetric("maxDuration", "Longest run", (*JobMetrics).MaxDuration),
	measurementMetric("maxSuccessDuration", "Longest successful run", (*JobMetrics).MaxSuccessDuration),
	measurementMetric("maxCheckoutDuration", "Longest checkout", (*JobMetrics).MaxCheckoutDuration),
	durationMetric("stdevDuration", "Duration standard deviation", (*JobMetrics).StdevDuration),
	durationMetric("stdevSuccessDuration", "Success duration standard deviation", (*JobMetrics).StdevSuccessDuration),
	rateMetric("successRate", "Success rate", (*JobMetrics).SuccessRate),
	rateMetric("failureRate", "Failure rate", (*JobMetrics).FailureRate),
	rateMetric("unstableRate", "Unstable rate", (*JobMetrics).UnstableRate),
	rateMetric("successTimeRate", "Success time rate", (*JobMetrics).SuccessTimeRate),
	rateMetric("failureTimeRate", "Failure time rate", (*JobMetrics).FailureTimeRate),
}

// Symbols lists the names of every metric, in display order.
func Symbols() []string {
	symbols := make([]string, len(definitions))
	for i, d := range definitions {
		symbols[i] = d.symbol
	}
	return symbols
}

// Values computes every named metric.
func (m *JobMetrics) Values() []Value {
	values := make([]Value, len(definitions))
	for i, d := range definitions {
		values[i] = Value{Symbol: d.symbol, DisplayName: d.displayName, Kind: d.kind}
		d.compute(m, &values[i])
	}
	return values
}

// Value computes the metric named symbol.
func (m *JobMetrics) Value(symbol string) (Value, bool) {
	for _, d := range definitions {
		if d.symbol == symbol {
			v := Value{Symbol: d.symbol, DisplayName: d.displayName, Kind: d.kind}
			d.compute(m, &v)
			return v, true
		}
	}
	return Value{}, false
}
