package model

import "fmt"

// ReportConfig describes one tracked coverage report. The list of configured
// reports defines the universe of storage labels the pipeline will ever
// produce; it is read-only to the core.
type ReportConfig struct {
	// File is the path (or glob) of the clover XML report to parse.
	File string `mapstructure:"file" yaml:"file"`
	// Label is the unique storage key: snapshots persist as <label>.json and
	// the history ledger is keyed by it.
	Label string `mapstructure:"label" yaml:"label"`
	// Name is the human-facing label used in comments and badges. Optional;
	// defaults to Label.
	Name string `mapstructure:"name" yaml:"name,omitempty"`
	// Badge is the filename of the SVG badge to regenerate on update.
	// Optional; empty means no badge for this report.
	Badge string `mapstructure:"badge" yaml:"badge,omitempty"`
}

// DisplayName returns the label to show in human-facing output.
func (r ReportConfig) DisplayName() string {
	if r.Name != "" {
		return r.Name
	}

	return r.Label
}

// ValidateReports checks that the configured report list can drive a run:
// at least one entry, file and label set everywhere, labels unique.
func ValidateReports(reports []ReportConfig) error {
	if len(reports) == 0 {
		return fmt.Errorf("no coverage reports configured")
	}

	seen := make(map[string]struct{}, len(reports))

	for i, report := range reports {
		if report.File == "" {
			return fmt.Errorf("report %d: file is required", i)
		}

		if report.Label == "" {
			return fmt.Errorf("report %d (%s): label is required", i, report.File)
		}

		if _, dup := seen[report.Label]; dup {
			return fmt.Errorf("report %d: duplicate label %q", i, report.Label)
		}

		seen[report.Label] = struct{}{}
	}

	return nil
}
