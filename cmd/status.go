package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/striebwj/coverage-checker/internal/domain"
)

// statusCmd represents the status command.
var statusCmd = newStatusCmd()

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Parse the configured reports and show current coverage",
		Long:  "Parse the configured coverage reports locally and render the per-report and global coverage figures. No remote access.",
		Args:  cobra.ExactArgs(0),
		RunE: func(_ *cobra.Command, _ []string) error {
			reports, err := loadReports()
			if err != nil {
				return err
			}

			return workflow.Status(context.Background(), domain.StatusArgs{Reports: reports})
		},
	}

	return cmd
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
