// Package cmd provides the root command and CLI setup for coverage-checker.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/striebwj/coverage-checker/internal/adapter"
	"github.com/striebwj/coverage-checker/internal/controller"
	"github.com/striebwj/coverage-checker/internal/domain"
)

var parser adapter.ReportParser
var baselineStore adapter.ObjectGetter
var storeOpener adapter.StoreOpener
var badgeClient adapter.BadgeClient
var notifier adapter.Notifier
var workflow domain.Workflow
var ui controller.UI

// verboseFlag switches the log file to debug level.
var verboseFlag bool

func init() {
	configureRootFlags(rootCmd)

	// Initialize shared dependencies.
	ui = controller.NewUI(rootCmd, controller.IsTTY(os.Stdout))
	parser = adapter.NewCloverParser()

	ctx := context.Background()
	token := viper.GetString(githubTokenKey)

	client, err := adapter.NewGitHubClient(ctx, token, viper.GetString(githubAPIURLKey))
	cobra.CheckErr(err)

	// Owner and name stay empty when running purely locally; the commands
	// that need the remote validate the configuration before using it.
	owner, name, _ := repositoryOwnerName()
	branch := viper.GetString(storageBranchKey)

	baselineStore = adapter.NewContentsStore(client, owner, name, branch)
	storeOpener = adapter.NewBranchStoreOpener(
		storageRemoteURL(),
		branch,
		adapter.NewTokenAuth(token),
		viper.GetString(gitAuthorNameKey),
		viper.GetString(gitAuthorEmailKey),
	)
	badgeClient = adapter.NewShieldsClient(viper.GetString(badgeURLKey))
	notifier = adapter.NewCommentNotifier(client, owner, name)

	workflow = domain.NewWorkflow(parser, baselineStore, storeOpener, badgeClient, notifier, ui)
}

const rootLongDescription = `coverage-checker is a continuous-integration coverage gate. It parses clover
XML coverage reports, keeps a historical baseline in a dedicated branch of the
same repository, compares new coverage against that baseline and reports the
verdict as a pull request comment.

Reports are configured in ` + configFileName + `; the GITHUB_TOKEN and
GITHUB_REPOSITORY environment variables follow the usual CI conventions.`

// rootCmd represents the base command when called without any subcommands.
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "coverage-checker",
		Short: "CI coverage gate backed by a storage branch",
		Long:  rootLongDescription,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			configureLogger("", viper.GetBool(logVerboseKey))
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	return cmd
}

func configureRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().BoolVarP(&verboseFlag, verboseFlagName, "v", viper.GetBool(logVerboseKey), "log at debug level")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(verboseFlagName), logVerboseKey)
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
