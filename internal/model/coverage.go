// Package model defines the data structures shared by the coverage pipeline.
package model

import (
	"fmt"
	"math"
)

// Round3 rounds a percentage to three decimal places, half away from zero.
// Every percentage in the system passes through this before being stored,
// compared, or rendered, so two snapshots built from the same counts are
// byte-identical once encoded.
func Round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

// Snapshot is a single point-in-time coverage measurement.
type Snapshot struct {
	Total    int     `json:"total"`
	Covered  int     `json:"covered"`
	Coverage float64 `json:"coverage"`
}

// NewSnapshot builds a Snapshot from raw element counts. The percentage is
// always recomputed from the counts, never copied out of a report. A report
// with zero instrumentable elements has no meaningful percentage and is
// rejected rather than producing NaN.
func NewSnapshot(total, covered int) (Snapshot, error) {
	if total < 0 || covered < 0 {
		return Snapshot{}, fmt.Errorf("negative element counts: total=%d covered=%d", total, covered)
	}

	if covered > total {
		return Snapshot{}, fmt.Errorf("covered elements (%d) exceed total elements (%d)", covered, total)
	}

	if total == 0 {
		return Snapshot{}, fmt.Errorf("report contains no instrumentable elements")
	}

	return Snapshot{
		Total:    total,
		Covered:  covered,
		Coverage: Round3(100 * float64(covered) / float64(total)),
	}, nil
}

// IsZero reports whether the snapshot is the zero value, which stands in for
// a label with no recorded baseline.
func (s Snapshot) IsZero() bool {
	return s.Total == 0 && s.Covered == 0 && s.Coverage == 0
}

// Snapshots maps a storage label to its current measurement. It is produced
// fresh on every run; rendering order follows the configured report order,
// never the map.
type Snapshots map[string]Snapshot
