package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/striebwj/coverage-checker/internal/domain"
)

var checkPRFlag int

// checkCmd represents the check command.
var checkCmd = newCheckCmd()

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Compare current coverage against the stored baseline",
		Long: `Parse the configured coverage reports, fetch each report's baseline from the
storage branch, and post the pass/fail comparison as a single managed comment
on the pull request. The command exits non-zero when any report's coverage
dropped below its baseline.`,
		Args: cobra.ExactArgs(0),
		RunE: func(_ *cobra.Command, _ []string) error {
			reports, err := loadReports()
			if err != nil {
				return err
			}

			if _, _, err := repositoryOwnerName(); err != nil {
				return err
			}

			pullRequest, err := pullRequestNumber(checkPRFlag)
			if err != nil {
				return err
			}

			return workflow.Check(context.Background(), domain.CheckArgs{
				Reports:     reports,
				PullRequest: pullRequest,
			})
		},
	}

	cmd.Flags().IntVar(&checkPRFlag, "pr", 0, "pull request number to comment on (default: parsed from GITHUB_REF)")

	return cmd
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
