package controller

import (
	"bytes"
	"context"
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// SimpleUI implements UI using cobra Command's Println.
type SimpleUI struct {
	cmd *cobra.Command
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd}
}

// DisplayStatus prints the per-report coverage table.
func (s *SimpleUI) DisplayStatus(ctx context.Context, rows []StatusRow) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var buf bytes.Buffer

	table := tablewriter.NewWriter(&buf)
	table.SetHeader([]string{"Report", "Coverage", "Covered", "Total"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT,
	})

	for _, row := range rows {
		table.Append([]string{
			row.Name,
			fmt.Sprintf("%.3f%%", row.Snapshot.Coverage),
			fmt.Sprintf("%d", row.Snapshot.Covered),
			fmt.Sprintf("%d", row.Snapshot.Total),
		})
	}

	table.Render()
	s.cmd.Printf("\n%s", buf.String())

	return nil
}

// DisplayReport prints the combined comparison message as-is.
func (s *SimpleUI) DisplayReport(ctx context.Context, message string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.cmd.Println(message)

	return nil
}

// DisplayHistory prints one line per measurement, grouped by report.
func (s *SimpleUI) DisplayHistory(ctx context.Context, rows []HistoryRow) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if len(rows) == 0 {
		s.cmd.Println("No coverage history recorded yet.")
		return nil
	}

	var buf bytes.Buffer

	table := tablewriter.NewWriter(&buf)
	table.SetHeader([]string{"Report", "Recorded", "Coverage", "Trend"})
	table.SetBorder(false)
	table.SetCenterSeparator("")

	for _, row := range rows {
		for i, measurement := range row.Series {
			// The trend column only makes sense on the latest measurement.
			trend := ""
			if i == len(row.Series)-1 {
				trend = row.Trend.String()
			}

			table.Append([]string{
				row.Name,
				measurement.Time.Format("2006-01-02 15:04"),
				fmt.Sprintf("%.3f%%", measurement.Coverage),
				trend,
			})
		}
	}

	table.Render()
	s.cmd.Printf("\n%s", buf.String())

	return nil
}
