package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	m "github.com/striebwj/coverage-checker/internal/model"
)

// starterConfig is the shape of the generated coverage.yaml.
type starterConfig struct {
	Reports []m.ReportConfig `yaml:"reports"`
	Storage struct {
		Branch string `yaml:"branch"`
	} `yaml:"storage"`
	Badge struct {
		URL string `yaml:"url"`
	} `yaml:"badge"`
}

// initCmd represents the init command.
var initCmd = newInitCmd()

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Generate a default " + configFileName + " configuration file",
		Long: `Create a ` + configFileName + ` in the current working directory with one example
report entry so it can be edited manually.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			targetPath := filepath.Join(configFolderPath, configFileName)

			if _, err := os.Stat(targetPath); err == nil {
				return fmt.Errorf("%s already exists", targetPath)
			}

			starter := starterConfig{
				Reports: []m.ReportConfig{
					{
						File:  "coverage.xml",
						Label: "unit",
						Name:  "Unit tests",
						Badge: "unit.svg",
					},
				},
			}
			starter.Storage.Branch = defaultStorageBranch
			starter.Badge.URL = defaultBadgeURL

			data, err := yaml.Marshal(starter)
			if err != nil {
				return fmt.Errorf("encode starter config: %w", err)
			}

			if err := os.WriteFile(targetPath, data, 0o644); err != nil {
				return fmt.Errorf("failed to write config file: %w", err)
			}

			cmd.Printf("Wrote %s\n", targetPath)

			return nil
		},
	}
}

func init() {
	rootCmd.AddCommand(initCmd)
}
