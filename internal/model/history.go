package model

import "time"

// Measurement is one historical coverage reading for a label.
type Measurement struct {
	Time     time.Time `json:"time"`
	Coverage float64   `json:"coverage"`
}

// Ledger is the append-only coverage time series, keyed by storage label.
// Entries within a label are ordered by append time (chronological). The
// whole ledger is persisted as a single JSON object.
type Ledger map[string][]Measurement

// Append records one measurement for label, creating the series when the
// label has never been measured. Existing entries are never rewritten.
func (l Ledger) Append(label string, coverage float64, at time.Time) {
	l[label] = append(l[label], Measurement{Time: at, Coverage: coverage})
}

// Latest returns the last appended measurement for label.
func (l Ledger) Latest(label string) (Measurement, bool) {
	series := l[label]
	if len(series) == 0 {
		return Measurement{}, false
	}

	return series[len(series)-1], true
}

// Labels returns the tracked label names in unspecified order.
func (l Ledger) Labels() []string {
	labels := make([]string, 0, len(l))
	for label := range l {
		labels = append(labels, label)
	}

	return labels
}

// TrendDirection summarizes where a label's coverage is heading.
type TrendDirection int

// Available TrendDirection values.
const (
	TrendStable TrendDirection = iota
	TrendUp
	TrendDown
)

func (d TrendDirection) String() string {
	switch d {
	case TrendUp:
		return "up"
	case TrendDown:
		return "down"
	default:
		return "stable"
	}
}

// trendBand is the dead zone around zero within which a coverage move still
// counts as stable.
const trendBand = 0.5

// Trend compares the last two measurements of a series. Fewer than two
// measurements, or a move within ±0.5 percentage points, is stable.
func Trend(series []Measurement) TrendDirection {
	if len(series) < 2 {
		return TrendStable
	}

	delta := series[len(series)-1].Coverage - series[len(series)-2].Coverage

	switch {
	case delta > trendBand:
		return TrendUp
	case delta < -trendBand:
		return TrendDown
	default:
		return TrendStable
	}
}
