package cmd

import (
	"log/slog"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "github.com/striebwj/coverage-checker/internal/model"
)

// setConfig sets a viper key for the duration of a test.
func setConfig(t *testing.T, key string, value any) {
	t.Helper()

	previous := viper.Get(key)
	viper.Set(key, value)
	t.Cleanup(func() { viper.Set(key, previous) })
}

func TestConfigConstants(t *testing.T) {
	assert.Equal(t, "coverage", configBaseName)
	assert.Equal(t, "coverage.yaml", configFileName)
	assert.Equal(t, ".", configFolderPath)
	assert.Equal(t, "reports", reportsKey)
	assert.Equal(t, "coverage", defaultStorageBranch)
	assert.Equal(t, "https://img.shields.io", defaultBadgeURL)
	assert.Equal(t, "COVERAGE", envPrefix)
}

func TestParseSlogLevel(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  slog.Level
	}{
		{"empty uses default", "", slog.LevelWarn},
		{"debug", "debug", slog.LevelDebug},
		{"info", "info", slog.LevelInfo},
		{"warn", "warn", slog.LevelWarn},
		{"warning alias", "warning", slog.LevelWarn},
		{"error", "error", slog.LevelError},
		{"mixed case", "DeBuG", slog.LevelDebug},
		{"numeric", "-4", slog.LevelDebug},
		{"garbage uses default", "loud", slog.LevelWarn},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseSlogLevel(tt.value, slog.LevelWarn))
		})
	}
}

func TestLoadReports(t *testing.T) {
	setConfig(t, reportsKey, []map[string]any{
		{"file": "coverage.xml", "label": "unit", "name": "Unit tests", "badge": "unit.svg"},
		{"file": "it.xml", "label": "integration"},
	})

	reports, err := loadReports()
	require.NoError(t, err)
	require.Len(t, reports, 2)

	assert.Equal(t, m.ReportConfig{File: "coverage.xml", Label: "unit", Name: "Unit tests", Badge: "unit.svg"}, reports[0])
	assert.Equal(t, "integration", reports[1].DisplayName())
}

func TestLoadReports_DuplicateLabel(t *testing.T) {
	setConfig(t, reportsKey, []map[string]any{
		{"file": "a.xml", "label": "unit"},
		{"file": "b.xml", "label": "unit"},
	})

	_, err := loadReports()
	assert.ErrorContains(t, err, "unit")
}

func TestRepositoryOwnerName(t *testing.T) {
	tests := []struct {
		name       string
		repository string
		remote     string
		wantOwner  string
		wantName   string
		wantErr    bool
	}{
		{"from github.repository", "acme/widgets", "", "acme", "widgets", false},
		{"strips .git suffix", "acme/widgets.git", "", "acme", "widgets", false},
		{"invalid repository", "widgets", "", "", "", true},
		{"from https remote", "", "https://github.com/acme/widgets.git", "acme", "widgets", false},
		{"from ssh remote", "", "git@github.com:acme/widgets.git", "acme", "widgets", false},
		{"nothing configured", "", "", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setConfig(t, githubRepositoryKey, tt.repository)
			setConfig(t, storageRemoteKey, tt.remote)

			owner, name, err := repositoryOwnerName()
			if tt.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantOwner, owner)
			assert.Equal(t, tt.wantName, name)
		})
	}
}

func TestStorageRemoteURL(t *testing.T) {
	t.Run("explicit remote wins", func(t *testing.T) {
		setConfig(t, storageRemoteKey, "git@github.com:acme/widgets.git")
		setConfig(t, githubRepositoryKey, "acme/widgets")

		assert.Equal(t, "git@github.com:acme/widgets.git", storageRemoteURL())
	})

	t.Run("derived from repository", func(t *testing.T) {
		setConfig(t, storageRemoteKey, "")
		setConfig(t, githubRepositoryKey, "acme/widgets")

		assert.Equal(t, "https://github.com/acme/widgets.git", storageRemoteURL())
	})

	t.Run("unconfigured", func(t *testing.T) {
		setConfig(t, storageRemoteKey, "")
		setConfig(t, githubRepositoryKey, "")

		assert.Empty(t, storageRemoteURL())
	})
}

func TestPullRequestNumber(t *testing.T) {
	t.Run("flag wins over environment", func(t *testing.T) {
		t.Setenv("GITHUB_REF", "refs/pull/42/merge")

		number, err := pullRequestNumber(7)
		require.NoError(t, err)
		assert.Equal(t, 7, number)
	})

	t.Run("merge ref", func(t *testing.T) {
		t.Setenv("GITHUB_REF", "refs/pull/42/merge")

		number, err := pullRequestNumber(0)
		require.NoError(t, err)
		assert.Equal(t, 42, number)
	})

	t.Run("head ref", func(t *testing.T) {
		t.Setenv("GITHUB_REF", "refs/pull/9/head")

		number, err := pullRequestNumber(0)
		require.NoError(t, err)
		assert.Equal(t, 9, number)
	})

	t.Run("branch ref", func(t *testing.T) {
		t.Setenv("GITHUB_REF", "refs/heads/main")

		_, err := pullRequestNumber(0)
		assert.ErrorContains(t, err, "pull request number")
	})

	t.Run("no ref at all", func(t *testing.T) {
		t.Setenv("GITHUB_REF", "")

		_, err := pullRequestNumber(0)
		assert.Error(t, err)
	})
}
