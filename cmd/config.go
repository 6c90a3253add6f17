package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	giturls "github.com/whilp/git-urls"
	"gopkg.in/natefinch/lumberjack.v2"

	m "github.com/striebwj/coverage-checker/internal/model"
)

const (
	configBaseName   = "coverage"
	configFileName   = configBaseName + ".yaml"
	configFolderPath = "."

	reportsKey = "reports"

	githubTokenKey      = "github.token"
	githubRepositoryKey = "github.repository"
	githubAPIURLKey     = "github.api_url"

	storageBranchKey = "storage.branch"
	storageRemoteKey = "storage.remote"

	gitAuthorNameKey  = "git.author_name"
	gitAuthorEmailKey = "git.author_email"

	badgeURLKey = "badge.url"

	verboseFlagName = "verbose"

	defaultStorageBranch  = "coverage"
	defaultBadgeURL       = "https://img.shields.io"
	defaultGitAuthorName  = "coverage-checker"
	defaultGitAuthorEmail = "coverage-checker@users.noreply.github.com"

	envPrefix = "COVERAGE"

	logFilenameKey   = "log.filename"
	logLevelKey      = "log.level"
	logVerboseKey    = "log.verbose"
	logMaxSizeKey    = "log.max_size"
	logMaxBackupsKey = "log.max_backups"
	logMaxAgeKey     = "log.max_age"
	logCompressKey   = "log.compress"

	defaultLogFilename   = ".coverage-checker.log"
	defaultLogLevel      = int(slog.LevelInfo)
	defaultLogVerbose    = false
	defaultLogMaxSize    = 10
	defaultLogMaxBackups = 3
	defaultLogMaxAge     = 28
	defaultLogCompress   = true
)

var globalLogger *slog.Logger

func init() {
	// CI tools get run locally too; a .env is a convenience, not a requirement.
	_ = godotenv.Load()

	viper.SetConfigName(configBaseName)
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configFolderPath)
	viper.SetConfigFile(filepath.Join(configFolderPath, configFileName))
	viper.AutomaticEnv()
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	viper.SetDefault(storageBranchKey, defaultStorageBranch)
	viper.SetDefault(badgeURLKey, defaultBadgeURL)
	viper.SetDefault(gitAuthorNameKey, defaultGitAuthorName)
	viper.SetDefault(gitAuthorEmailKey, defaultGitAuthorEmail)

	// The conventional CI variables work without the COVERAGE prefix.
	_ = viper.BindEnv(githubTokenKey, "GITHUB_TOKEN")
	_ = viper.BindEnv(githubRepositoryKey, "GITHUB_REPOSITORY")

	// Logging defaults (used by config/env and as fallbacks for flags).
	viper.SetDefault(logFilenameKey, defaultLogFilename)
	viper.SetDefault(logLevelKey, defaultLogLevel)
	viper.SetDefault(logVerboseKey, defaultLogVerbose)
	viper.SetDefault(logMaxSizeKey, defaultLogMaxSize)
	viper.SetDefault(logMaxBackupsKey, defaultLogMaxBackups)
	viper.SetDefault(logMaxAgeKey, defaultLogMaxAge)
	viper.SetDefault(logCompressKey, defaultLogCompress)

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return
		}

		return
	}
}

func parseSlogLevel(value string, defaultLevel slog.Level) slog.Level {
	level := strings.ToLower(strings.TrimSpace(value))
	if level == "" {
		return defaultLevel
	}

	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}

	// Allow numeric slog levels as well (e.g. -4 for debug).
	if n, err := strconv.Atoi(level); err == nil {
		return slog.Level(n)
	}

	return defaultLevel
}

// configureLogger configures the global slog logger.
//
// By default it logs at Info; if verbose is true it logs at Debug.
func configureLogger(logPath string, verbose bool) {
	if strings.TrimSpace(logPath) == "" {
		logPath = viper.GetString(logFilenameKey)
	}

	if strings.TrimSpace(logPath) == "" {
		logPath = defaultLogFilename
	}

	var logLevel slog.Level
	if verbose {
		logLevel = slog.LevelDebug
	} else {
		logLevel = parseSlogLevel(viper.GetString(logLevelKey), slog.LevelInfo)
	}

	logWriter := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    viper.GetInt(logMaxSizeKey),
		MaxBackups: viper.GetInt(logMaxBackupsKey),
		MaxAge:     viper.GetInt(logMaxAgeKey),
		Compress:   viper.GetBool(logCompressKey),
	}

	handler := slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		AddSource: true,
		Level:     logLevel,
	})

	globalLogger = slog.New(handler)
	slog.SetDefault(globalLogger)
}

// loadReports reads and validates the configured report list.
func loadReports() ([]m.ReportConfig, error) {
	var reports []m.ReportConfig
	if err := viper.UnmarshalKey(reportsKey, &reports); err != nil {
		return nil, fmt.Errorf("invalid reports configuration: %w", err)
	}

	if err := m.ValidateReports(reports); err != nil {
		return nil, err
	}

	return reports, nil
}

// repositoryOwnerName resolves the owner/name pair of the repository, from
// github.repository or, failing that, from the storage remote URL.
func repositoryOwnerName() (string, string, error) {
	if repo := viper.GetString(githubRepositoryKey); repo != "" {
		owner, name, ok := strings.Cut(repo, "/")
		if !ok || owner == "" || name == "" {
			return "", "", fmt.Errorf("invalid %s %q: want owner/name", githubRepositoryKey, repo)
		}

		return owner, strings.TrimSuffix(name, ".git"), nil
	}

	if remote := viper.GetString(storageRemoteKey); remote != "" {
		u, err := giturls.Parse(remote)
		if err != nil {
			return "", "", fmt.Errorf("invalid %s %q: %w", storageRemoteKey, remote, err)
		}

		path := strings.TrimSuffix(strings.TrimPrefix(u.Path, "/"), ".git")

		owner, name, ok := strings.Cut(path, "/")
		if !ok || owner == "" || name == "" {
			return "", "", fmt.Errorf("cannot derive owner/name from %s %q", storageRemoteKey, remote)
		}

		return owner, name, nil
	}

	return "", "", fmt.Errorf("%s is not configured", githubRepositoryKey)
}

// storageRemoteURL resolves the remote the storage branch is pushed to.
func storageRemoteURL() string {
	if remote := viper.GetString(storageRemoteKey); remote != "" {
		return remote
	}

	if repo := viper.GetString(githubRepositoryKey); repo != "" {
		return fmt.Sprintf("https://github.com/%s.git", repo)
	}

	return ""
}

var pullRefPattern = regexp.MustCompile(`^refs/pull/(\d+)/(?:merge|head)$`)

// pullRequestNumber resolves the pull request to comment on: the --pr flag
// when given, otherwise the GITHUB_REF the CI run was triggered with.
func pullRequestNumber(flagValue int) (int, error) {
	if flagValue > 0 {
		return flagValue, nil
	}

	ref := os.Getenv("GITHUB_REF")

	matches := pullRefPattern.FindStringSubmatch(ref)
	if matches == nil {
		return 0, fmt.Errorf("cannot determine pull request number: pass --pr or run on a pull request (GITHUB_REF=%q)", ref)
	}

	return strconv.Atoi(matches[1])
}
