package metrics

import (
	"fmt"
	"slices"
	"time"
)

// Rate is a ratio between 0 and 1.
type Rate float64

func (r Rate) Float64() float64 {
	return float64(r)
}

func (r Rate) String() string {
	return fmt.Sprintf("%.2f%%", float64(r)*100)
}

func newRate(v float64) *Rate {
	r := Rate(v)
	return &r
}

// SimpleRate returns the share of the records kept by preFilter that match
// classifier, or nil when preFilter keeps nothing.
func SimpleRate(records []Record, preFilter, classifier Predicate) *Rate {
	var total, matched int
	for _, r := range records {
		if !preFilter(r) {
			continue
		}
		total++
		if classifier(r) {
			matched++
		}
	}
	if total == 0 {
		return nil
	}
	return newRate(float64(matched) / float64(total))
}

// TimeWeightedRate returns the share of wall-clock time, from the start of
// the oldest kept run until now, during which the most recent run matched
// classifier. Each run owns the interval from its own start to the start of
// the next newer run; the newest run owns the interval until now.
//
// records must be ordered most recent first.
func TimeWeightedRate(records []Record, preFilter, classifier Predicate, now time.Time) *Rate {
	chronological := filter(records, preFilter)
	if len(chronological) == 0 {
		return nil
	}
	slices.Reverse(chronological)

	start := chronological[0].StartTime.UnixMilli()
	end := now.UnixMilli()
	if end <= start {
		if classifier(chronological[len(chronological)-1]) {
			return newRate(1)
		}
		return newRate(0)
	}

	var matched int64
	for i, r := range chronological {
		segmentEnd := end
		if i+1 < len(chronological) {
			segmentEnd = chronological[i+1].StartTime.UnixMilli()
		}
		if classifier(r) {
			matched += segmentEnd - r.StartTime.UnixMilli()
		}
	}

	return newRate(float64(matched) / float64(end-start))
}
