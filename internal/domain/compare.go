package domain

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	m "github.com/striebwj/coverage-checker/internal/model"
)

// sectionDivider separates per-report sections in the combined message.
const sectionDivider = "\n\n---\n\n"

// Comparison is the outcome of measuring one snapshot against its baseline.
type Comparison struct {
	Name    string
	Old     m.Snapshot
	New     m.Snapshot
	Message string
}

// Failed reports whether this comparison fails the gate. Only a strict drop
// fails; equal coverage passes, so ties favor the change.
func (c Comparison) Failed() bool {
	return c.New.Coverage < c.Old.Coverage
}

// Delta returns the signed coverage change, rounded to three decimals.
func (c Comparison) Delta() float64 {
	return m.Round3(c.New.Coverage - c.Old.Coverage)
}

// Compare measures current coverage against its baseline and renders the
// section for the combined report. A zero baseline stands for a label that
// has never been recorded; it always passes.
func Compare(name string, old, current m.Snapshot) Comparison {
	comparison := Comparison{Name: name, Old: old, New: current}

	var status string

	switch {
	case old.IsZero():
		status = fmt.Sprintf("🆕 No baseline recorded yet; current coverage is %.3f%%.", current.Coverage)
	case comparison.Failed():
		status = fmt.Sprintf("❌ Coverage dropped: %.3f%% (%+.3f)", current.Coverage, comparison.Delta())
	default:
		status = fmt.Sprintf("✅ Coverage: %.3f%% (%+.3f)", current.Coverage, comparison.Delta())
	}

	var section strings.Builder

	fmt.Fprintf(&section, "### %s\n\n", name)
	section.WriteString(status)
	section.WriteString("\n\n")
	section.WriteString(renderComparisonTable(old, current))

	comparison.Message = section.String()

	return comparison
}

// renderComparisonTable renders the baseline/current table as GitHub-flavored
// markdown.
func renderComparisonTable(old, current m.Snapshot) string {
	var buf bytes.Buffer

	table := tablewriter.NewWriter(&buf)
	table.SetHeader([]string{"", "Baseline", "Current"})
	table.SetBorders(tablewriter.Border{Left: true, Top: false, Right: true, Bottom: false})
	table.SetCenterSeparator("|")
	table.SetAutoFormatHeaders(false)

	table.Append([]string{"Coverage", fmt.Sprintf("%.3f%%", old.Coverage), fmt.Sprintf("%.3f%%", current.Coverage)})
	table.Append([]string{"Total lines", strconv.Itoa(old.Total), strconv.Itoa(current.Total)})
	table.Append([]string{"Covered lines", strconv.Itoa(old.Covered), strconv.Itoa(current.Covered)})

	table.Render()

	return buf.String()
}

// RenderComparisons joins all sections into the single message posted on the
// pull request, in report-then-global order.
func RenderComparisons(comparisons []Comparison) string {
	sections := make([]string, 0, len(comparisons))
	for _, comparison := range comparisons {
		sections = append(sections, comparison.Message)
	}

	return strings.Join(sections, sectionDivider)
}

// AnyFailed reports whether at least one comparison fails the gate.
func AnyFailed(comparisons []Comparison) bool {
	for _, comparison := range comparisons {
		if comparison.Failed() {
			return true
		}
	}

	return false
}
