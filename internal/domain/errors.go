package domain

import (
	"errors"

	"github.com/striebwj/coverage-checker/internal/adapter"
)

// Sentinel errors for the coverage pipeline. Callers match them with
// errors.Is; every failure surfaced by a workflow wraps exactly one of
// these. Parser failures are produced by the adapter layer and re-exported
// here so callers only need one package for matching.
var (
	// ErrReportNotFound means a configured report glob matched no files.
	ErrReportNotFound = adapter.ErrReportNotFound

	// ErrMalformedReport means a report file exists but its structure or
	// counts are unusable (missing nodes, zero total elements).
	ErrMalformedReport = adapter.ErrMalformedReport

	// ErrBaselineFetch means a baseline or history object could not be read
	// from the storage branch for a reason other than absence.
	ErrBaselineFetch = errors.New("baseline fetch failed")

	// ErrStoreWrite means the storage branch could not be written, committed
	// or pushed.
	ErrStoreWrite = errors.New("store write failed")

	// ErrNotification means the pull request comment could not be listed,
	// created or updated.
	ErrNotification = errors.New("notification failed")

	// ErrBadgeFetch means the badge endpoint returned something other than
	// the rendered image.
	ErrBadgeFetch = errors.New("badge fetch failed")

	// ErrCoverageDropped is the business outcome of a check run in which at
	// least one comparison measured lower coverage than its baseline. The
	// comparison message is still posted; the run then fails with this.
	ErrCoverageDropped = errors.New("coverage dropped below baseline")
)
