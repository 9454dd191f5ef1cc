package metrics

import "time"

// TraceNode is one timed step of a run, in execution order.
type TraceNode struct {
	StartTime time.Time
	Checkout  bool
}

// CheckoutDuration returns the total milliseconds spent in checkout steps. A
// checkout step lasts until the next node of the trace starts; a checkout
// that ends the trace counts for nothing. Every checkout occurrence is
// summed. Timestamps are not validated.
func CheckoutDuration(trace []TraceNode) int64 {
	var total int64
	for i, node := range trace {
		if !node.Checkout || i+1 == len(trace) {
			continue
		}
		total += trace[i+1].StartTime.UnixMilli() - node.StartTime.UnixMilli()
	}
	return total
}
