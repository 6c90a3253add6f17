package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "github.com/striebwj/coverage-checker/internal/model"
)

// fakeParser returns canned snapshots per pattern and records call order.
type fakeParser struct {
	snapshots map[string]m.Snapshot
	errs      map[string]error
	calls     []string
}

func (f *fakeParser) Parse(pattern string) (m.Snapshot, error) {
	f.calls = append(f.calls, pattern)

	if err := f.errs[pattern]; err != nil {
		return m.Snapshot{}, err
	}

	return f.snapshots[pattern], nil
}

func mustSnapshot(t *testing.T, total, covered int) m.Snapshot {
	t.Helper()

	snapshot, err := m.NewSnapshot(total, covered)
	require.NoError(t, err)

	return snapshot
}

func TestParseAll(t *testing.T) {
	parser := &fakeParser{
		snapshots: map[string]m.Snapshot{
			"unit.xml":        mustSnapshot(t, 100, 90),
			"integration.xml": mustSnapshot(t, 200, 160),
		},
	}

	reports := []m.ReportConfig{
		{File: "unit.xml", Label: "unit"},
		{File: "integration.xml", Label: "integration"},
	}

	snapshots, err := ParseAll(parser, reports)
	require.NoError(t, err)

	assert.Equal(t, []string{"unit.xml", "integration.xml"}, parser.calls, "reports parse in config order")
	assert.Len(t, snapshots, 2)
	assert.InDelta(t, 90.0, snapshots["unit"].Coverage, 1e-9)
	assert.InDelta(t, 80.0, snapshots["integration"].Coverage, 1e-9)
}

func TestParseAllFailsFast(t *testing.T) {
	parseErr := errors.New("boom")

	parser := &fakeParser{
		snapshots: map[string]m.Snapshot{
			"unit.xml": mustSnapshot(t, 100, 90),
		},
		errs: map[string]error{"broken.xml": parseErr},
	}

	reports := []m.ReportConfig{
		{File: "unit.xml", Label: "unit"},
		{File: "broken.xml", Label: "broken"},
		{File: "never.xml", Label: "never"},
	}

	snapshots, err := ParseAll(parser, reports)
	require.ErrorIs(t, err, parseErr)

	assert.Nil(t, snapshots, "no partial aggregation")
	assert.Equal(t, []string{"unit.xml", "broken.xml"}, parser.calls, "parsing stops at the first failure")
}

func TestSumCoverages(t *testing.T) {
	snapshots := m.Snapshots{
		"a": mustSnapshot(t, 100, 90),
		"b": mustSnapshot(t, 50, 20),
	}

	global, err := SumCoverages(snapshots)
	require.NoError(t, err)

	assert.Equal(t, 150, global.Total)
	assert.Equal(t, 110, global.Covered)
	assert.InDelta(t, 73.333, global.Coverage, 1e-9)
}

// Three entries whose rounded per-entry percentages would average to a
// different figure than the sum-based recompute.
func TestSumCoveragesRecomputesFromSumsNotAverages(t *testing.T) {
	snapshots := m.Snapshots{
		"a": mustSnapshot(t, 3, 2),   // 66.667
		"b": mustSnapshot(t, 7, 5),   // 71.429
		"c": mustSnapshot(t, 900, 9), // 1.000
	}

	global, err := SumCoverages(snapshots)
	require.NoError(t, err)

	// (2+5+9)/(3+7+900) = 16/910 = 1.758%; the average of the three
	// percentages would be 46.365%.
	assert.Equal(t, 910, global.Total)
	assert.Equal(t, 16, global.Covered)
	assert.InDelta(t, 1.758, global.Coverage, 1e-9)
}

func TestSumCoveragesEmptyIsError(t *testing.T) {
	_, err := SumCoverages(m.Snapshots{})
	require.Error(t, err)
}

func TestSumBaselines(t *testing.T) {
	baselines := m.Snapshots{
		"a": mustSnapshot(t, 100, 90),
		"b": {}, // never recorded
	}

	global := sumBaselines(baselines)
	assert.Equal(t, 100, global.Total)
	assert.InDelta(t, 90.0, global.Coverage, 1e-9)

	assert.True(t, sumBaselines(m.Snapshots{"a": {}, "b": {}}).IsZero(), "all-absent baselines sum to the zero snapshot")
}
