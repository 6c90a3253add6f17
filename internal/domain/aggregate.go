// Package domain implements the coverage pipeline: parsing and aggregating
// reports, comparing snapshots against baselines, and maintaining the
// historical ledger.
package domain

import (
	"fmt"
	"log/slog"

	"github.com/striebwj/coverage-checker/internal/adapter"
	m "github.com/striebwj/coverage-checker/internal/model"
)

// ParseAll parses every configured report in list order and keys the results
// by storage label. The first parse failure aborts the whole aggregation;
// there is never a partial result.
func ParseAll(parser adapter.ReportParser, reports []m.ReportConfig) (m.Snapshots, error) {
	snapshots := make(m.Snapshots, len(reports))

	for _, report := range reports {
		snapshot, err := parser.Parse(report.File)
		if err != nil {
			return nil, fmt.Errorf("parse report %q: %w", report.Label, err)
		}

		slog.Info("parsed coverage report",
			"label", report.Label,
			"file", report.File,
			"coverage", snapshot.Coverage,
		)

		snapshots[report.Label] = snapshot
	}

	return snapshots, nil
}

// SumCoverages folds a set of snapshots into one global snapshot. The
// percentage is recomputed from the summed counts, never averaged across
// entries, so per-entry rounding cannot skew the global figure.
func SumCoverages(snapshots m.Snapshots) (m.Snapshot, error) {
	if len(snapshots) == 0 {
		return m.Snapshot{}, fmt.Errorf("no snapshots to sum")
	}

	var total, covered int

	for _, snapshot := range snapshots {
		total += snapshot.Total
		covered += snapshot.Covered
	}

	return m.NewSnapshot(total, covered)
}

// sumBaselines folds baseline snapshots into a global baseline. Labels with
// no recorded baseline contribute nothing; when no label has one, the global
// baseline is the zero snapshot rather than an error.
func sumBaselines(baselines m.Snapshots) m.Snapshot {
	var total, covered int

	for _, baseline := range baselines {
		total += baseline.Total
		covered += baseline.Covered
	}

	if total == 0 {
		return m.Snapshot{}
	}

	global, err := m.NewSnapshot(total, covered)
	if err != nil {
		return m.Snapshot{}
	}

	return global
}
