package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/striebwj/coverage-checker/internal/domain"
)

// updateCmd represents the update command.
var updateCmd = newUpdateCmd()

func newUpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Publish current coverage as the new baseline",
		Long: `Parse the configured coverage reports and push them to the storage branch:
one JSON snapshot per report, a regenerated badge per configured badge file,
and the appended history ledger, all in a single commit. The branch is created
as an orphan on first use.`,
		Args: cobra.ExactArgs(0),
		RunE: func(_ *cobra.Command, _ []string) error {
			reports, err := loadReports()
			if err != nil {
				return err
			}

			if storageRemoteURL() == "" {
				return fmt.Errorf("no storage remote: set %s or %s", storageRemoteKey, githubRepositoryKey)
			}

			return workflow.Update(context.Background(), domain.UpdateArgs{Reports: reports})
		},
	}

	return cmd
}

func init() {
	rootCmd.AddCommand(updateCmd)
}
