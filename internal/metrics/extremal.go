package metrics

type Pick int

const (
	Min Pick = iota
	Max
)

func (p Pick) prefers(candidate, best Duration) bool {
	if p == Max {
		return candidate > best
	}
	return candidate < best
}

// DurationMeasurement pairs a record with the duration measured on it.
type DurationMeasurement struct {
	Record   Record
	Duration Duration
}

// FindExtremal returns the record with the smallest or largest positive
// duration among the records kept by preFilter, or nil when there is none.
// Which record wins a tie is unspecified.
func FindExtremal(records []Record, preFilter Predicate, durationOf Extractor, pick Pick) *DurationMeasurement {
	measured := measurements(records, preFilter, durationOf)
	if len(measured) == 0 {
		return nil
	}

	best := measured[0]
	for _, m := range measured[1:] {
		if pick.prefers(m.Duration, best.Duration) {
			best = m
		}
	}
	return &best
}
