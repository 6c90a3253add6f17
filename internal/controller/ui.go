// Package controller provides output adapters for displaying coverage
// results.
package controller

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	m "github.com/striebwj/coverage-checker/internal/model"
)

// StatusRow is one line of the local status table.
type StatusRow struct {
	Name     string
	Snapshot m.Snapshot
}

// HistoryRow is one label's view of the persisted history.
type HistoryRow struct {
	Label  string
	Name   string
	Latest m.Snapshot
	Series []m.Measurement
	Trend  m.TrendDirection
}

// UI defines the interface for displaying coverage output. Implementations
// can use different output methods (simple text, TUI, etc).
type UI interface {
	DisplayStatus(ctx context.Context, rows []StatusRow) error
	DisplayReport(ctx context.Context, message string) error
	DisplayHistory(ctx context.Context, rows []HistoryRow) error
}

// NewUI picks the UI implementation for the current output: interactive
// history browsing on a terminal, plain tables otherwise.
func NewUI(cmd *cobra.Command, tty bool) UI {
	simple := NewSimpleUI(cmd)
	if tty {
		return NewTUI(simple, os.Stdout)
	}

	return simple
}

// IsTTY reports whether f is attached to a terminal.
func IsTTY(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}

	return info.Mode()&os.ModeCharDevice != 0
}
