package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/striebwj/coverage-checker/internal/domain"
)

// historyCmd represents the history command.
var historyCmd = newHistoryCmd()

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Browse the coverage history stored in the storage branch",
		Long:  "Read the persisted history ledger and the latest snapshots from the storage branch and browse them per report, with a trend direction over the last two measurements.",
		Args:  cobra.ExactArgs(0),
		RunE: func(_ *cobra.Command, _ []string) error {
			reports, err := loadReports()
			if err != nil {
				return err
			}

			if _, _, err := repositoryOwnerName(); err != nil {
				return err
			}

			return workflow.History(context.Background(), domain.HistoryArgs{Reports: reports})
		},
	}

	return cmd
}

func init() {
	rootCmd.AddCommand(historyCmd)
}
