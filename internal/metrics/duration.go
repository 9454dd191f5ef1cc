package metrics

import (
	"fmt"
	"strconv"
)

const (
	msPerSecond = 1000
	msPerMinute = 60 * msPerSecond
	msPerHour   = 60 * msPerMinute
	msPerDay    = 24 * msPerHour
	msPerMonth  = 30 * msPerDay
	msPerYear   = 365 * msPerDay
)

// Duration is an aggregated duration in milliseconds.
type Duration int64

func (d Duration) Milliseconds() int64 {
	return int64(d)
}

// String renders d as a time span using its two largest units, e.g.
// "2 min 3 sec" or "1.1 sec". The smaller unit is dropped once the larger
// one reaches 10.
func (d Duration) String() string {
	rest := int64(d)
	years := rest / msPerYear
	rest %= msPerYear
	months := rest / msPerMonth
	rest %= msPerMonth
	days := rest / msPerDay
	rest %= msPerDay
	hours := rest / msPerHour
	rest %= msPerHour
	minutes := rest / msPerMinute
	rest %= msPerMinute
	seconds := rest / msPerSecond
	millis := rest % msPerSecond

	switch {
	case years > 0:
		return timeSpan(years, yearLabel(years), monthLabel(months))
	case months > 0:
		return timeSpan(months, monthLabel(months), dayLabel(days))
	case days > 0:
		return timeSpan(days, dayLabel(days), hourLabel(hours))
	case hours > 0:
		return timeSpan(hours, hourLabel(hours), minuteLabel(minutes))
	case minutes > 0:
		return timeSpan(minutes, minuteLabel(minutes), secondLabel(seconds))
	case seconds >= 10:
		return secondLabel(seconds)
	case seconds >= 1:
		return fractionalSecondLabel(float64(seconds) + float64(millis/100)/10)
	case millis >= 100:
		return fractionalSecondLabel(float64(millis/10) / 100)
	default:
		return fmt.Sprintf("%d ms", millis)
	}
}

func timeSpan(big int64, bigLabel, smallLabel string) string {
	if big < 10 {
		return bigLabel + " " + smallLabel
	}
	return bigLabel
}

func yearLabel(n int64) string   { return fmt.Sprintf("%d yr", n) }
func monthLabel(n int64) string  { return fmt.Sprintf("%d mo", n) }
func hourLabel(n int64) string   { return fmt.Sprintf("%d hr", n) }
func minuteLabel(n int64) string { return fmt.Sprintf("%d min", n) }
func secondLabel(n int64) string { return fmt.Sprintf("%d sec", n) }

func dayLabel(n int64) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}

func fractionalSecondLabel(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + " sec"
}

// AverageDuration returns the truncated mean of the positive durations of
// the records kept by preFilter, or nil when there is none.
func AverageDuration(records []Record, preFilter Predicate, durationOf Extractor) *Duration {
	avg, ok := Average(durationValues(records, preFilter, durationOf))
	if !ok {
		return nil
	}
	d := Duration(int64(avg))
	return &d
}

// StdevDuration returns the truncated population standard deviation of the
// positive durations of the records kept by preFilter. It is 0 when there is
// none.
func StdevDuration(records []Record, preFilter Predicate, durationOf Extractor) Duration {
	return Duration(int64(StandardDeviation(durationValues(records, preFilter, durationOf))))
}

func durationValues(records []Record, preFilter Predicate, durationOf Extractor) []int64 {
	measured := measurements(records, preFilter, durationOf)
	values := make([]int64, len(measured))
	for i, m := range measured {
		values[i] = m.Duration.Milliseconds()
	}
	return values
}
