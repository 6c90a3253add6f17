// Package adapter provides the collaborators the coverage pipeline talks to:
// report files on disk, the storage branch, the GitHub API and the badge
// endpoint.
package adapter

import (
	"encoding/xml"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	m "github.com/striebwj/coverage-checker/internal/model"
)

// ErrReportNotFound means a report glob matched no files.
var ErrReportNotFound = errors.New("coverage report not found")

// ErrMalformedReport means a report file exists but cannot yield a coverage
// figure: unparsable XML, a missing node in the expected tree, or zero
// instrumentable elements.
var ErrMalformedReport = errors.New("malformed coverage report")

// ReportParser extracts a coverage snapshot from a report file.
type ReportParser interface {
	Parse(pattern string) (m.Snapshot, error)
}

// CloverParser reads clover-style XML coverage reports.
type CloverParser struct{}

// NewCloverParser creates a new CloverParser.
func NewCloverParser() *CloverParser {
	return &CloverParser{}
}

// The clover document tree is walked defensively: every level is a pointer
// so an absent node or attribute is detected instead of decaying to zero.
type cloverDocument struct {
	XMLName xml.Name       `xml:"coverage"`
	Project *cloverProject `xml:"project"`
}

type cloverProject struct {
	Metrics *cloverMetrics `xml:"metrics"`
}

type cloverMetrics struct {
	Elements        *int `xml:"elements,attr"`
	CoveredElements *int `xml:"coveredelements,attr"`
}

// Parse resolves pattern to a report file and extracts its project metrics.
// When the glob matches several files the lexicographically first one wins,
// so repeated runs over the same tree stay deterministic.
func (p *CloverParser) Parse(pattern string) (m.Snapshot, error) {
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return m.Snapshot{}, fmt.Errorf("invalid report pattern %q: %w", pattern, err)
	}

	if len(matches) == 0 {
		return m.Snapshot{}, fmt.Errorf("%w: pattern %q matched no files", ErrReportNotFound, pattern)
	}

	sort.Strings(matches)
	path := matches[0]

	data, err := os.ReadFile(path)
	if err != nil {
		return m.Snapshot{}, fmt.Errorf("%w: read %s: %s", ErrReportNotFound, path, err)
	}

	var doc cloverDocument
	if err := xml.Unmarshal(data, &doc); err != nil {
		return m.Snapshot{}, fmt.Errorf("%w: decode %s: %s", ErrMalformedReport, path, err)
	}

	if doc.Project == nil {
		return m.Snapshot{}, fmt.Errorf("%w: %s has no <project> node", ErrMalformedReport, path)
	}

	if doc.Project.Metrics == nil {
		return m.Snapshot{}, fmt.Errorf("%w: %s has no <metrics> node", ErrMalformedReport, path)
	}

	metrics := doc.Project.Metrics
	if metrics.Elements == nil || metrics.CoveredElements == nil {
		return m.Snapshot{}, fmt.Errorf("%w: %s metrics are missing element counts", ErrMalformedReport, path)
	}

	snapshot, err := m.NewSnapshot(*metrics.Elements, *metrics.CoveredElements)
	if err != nil {
		return m.Snapshot{}, fmt.Errorf("%w: %s: %s", ErrMalformedReport, path, err)
	}

	return snapshot, nil
}
