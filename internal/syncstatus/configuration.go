package syncstatus

import (
	"strings"
	"time"
)

const (
	defaultRepositoryPathConstant    = "."
	defaultRemoteNameConstant        = "origin"
	defaultHistoryLimitConstant      = 5
	defaultExpectedRemoteURLConstant = "https://github.com/Luciuswang/douyin-treasure.git"
	defaultFatalMarkerConstant       = "fatal"
	defaultPushHelperConstant        = "commit_and_push.bat"
	defaultPullHelperConstant        = "update_code.bat"
	defaultColorModeConstant         = "auto"
	configurationKeySeparator        = "."
	repositoryPathKeyConstant        = "repository_path"
	remoteKeyConstant                = "remote"
	branchCandidatesKeyConstant      = "branch_candidates"
	historyLimitKeyConstant          = "history_limit"
	expectedRemoteURLKeyConstant     = "expected_remote_url"
	fatalMarkerKeyConstant           = "fatal_marker"
	fetchKeyConstant                 = "fetch"
	pushHelperKeyConstant            = "push_helper"
	pullHelperKeyConstant            = "pull_helper"
	colorKeyConstant                 = "color"
	commandTimeoutKeyConstant        = "command_timeout"
)

var defaultBranchCandidates = []string{"main", "master"}

// CommandConfiguration captures configuration values for the status report.
type CommandConfiguration struct {
	RepositoryPath    string        `mapstructure:"repository_path"`
	RemoteName        string        `mapstructure:"remote"`
	BranchCandidates  []string      `mapstructure:"branch_candidates"`
	HistoryLimit      int           `mapstructure:"history_limit"`
	ExpectedRemoteURL string        `mapstructure:"expected_remote_url"`
	FatalMarker       string        `mapstructure:"fatal_marker"`
	Fetch             bool          `mapstructure:"fetch"`
	PushHelper        string        `mapstructure:"push_helper"`
	PullHelper        string        `mapstructure:"pull_helper"`
	Color             string        `mapstructure:"color"`
	CommandTimeout    time.Duration `mapstructure:"command_timeout"`
}

// DefaultCommandConfiguration provides baseline configuration values for the status report.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		RepositoryPath:    defaultRepositoryPathConstant,
		RemoteName:        defaultRemoteNameConstant,
		BranchCandidates:  append([]string(nil), defaultBranchCandidates...),
		HistoryLimit:      defaultHistoryLimitConstant,
		ExpectedRemoteURL: defaultExpectedRemoteURLConstant,
		FatalMarker:       defaultFatalMarkerConstant,
		Fetch:             true,
		PushHelper:        defaultPushHelperConstant,
		PullHelper:        defaultPullHelperConstant,
		Color:             defaultColorModeConstant,
		CommandTimeout:    0,
	}
}

// DefaultConfigurationValues exposes the defaults as viper keys nested under prefix.
func DefaultConfigurationValues(prefix string) map[string]any {
	defaults := DefaultCommandConfiguration()
	qualify := func(key string) string {
		trimmedPrefix := strings.TrimSpace(prefix)
		if len(trimmedPrefix) == 0 {
			return key
		}
		return trimmedPrefix + configurationKeySeparator + key
	}

	return map[string]any{
		qualify(repositoryPathKeyConstant):    defaults.RepositoryPath,
		qualify(remoteKeyConstant):            defaults.RemoteName,
		qualify(branchCandidatesKeyConstant):  defaults.BranchCandidates,
		qualify(historyLimitKeyConstant):      defaults.HistoryLimit,
		qualify(expectedRemoteURLKeyConstant): defaults.ExpectedRemoteURL,
		qualify(fatalMarkerKeyConstant):       defaults.FatalMarker,
		qualify(fetchKeyConstant):             defaults.Fetch,
		qualify(pushHelperKeyConstant):        defaults.PushHelper,
		qualify(pullHelperKeyConstant):        defaults.PullHelper,
		qualify(colorKeyConstant):             defaults.Color,
		qualify(commandTimeoutKeyConstant):    defaults.CommandTimeout.String(),
	}
}

// Sanitize trims values and replaces empty or out-of-range entries with defaults.
// ExpectedRemoteURL stays empty when configured empty, which disables the remote hint and comparison.
func (configuration CommandConfiguration) Sanitize() CommandConfiguration {
	defaults := DefaultCommandConfiguration()
	sanitized := configuration

	sanitized.RepositoryPath = valueOrDefault(configuration.RepositoryPath, defaults.RepositoryPath)
	sanitized.RemoteName = valueOrDefault(configuration.RemoteName, defaults.RemoteName)
	sanitized.BranchCandidates = sanitizeCandidates(configuration.BranchCandidates)
	if len(sanitized.BranchCandidates) == 0 {
		sanitized.BranchCandidates = defaults.BranchCandidates
	}
	if sanitized.HistoryLimit <= 0 {
		sanitized.HistoryLimit = defaults.HistoryLimit
	}
	sanitized.ExpectedRemoteURL = strings.TrimSpace(configuration.ExpectedRemoteURL)
	sanitized.FatalMarker = valueOrDefault(configuration.FatalMarker, defaults.FatalMarker)
	sanitized.PushHelper = valueOrDefault(configuration.PushHelper, defaults.PushHelper)
	sanitized.PullHelper = valueOrDefault(configuration.PullHelper, defaults.PullHelper)
	sanitized.Color = strings.ToLower(valueOrDefault(configuration.Color, defaults.Color))
	if sanitized.CommandTimeout < 0 {
		sanitized.CommandTimeout = 0
	}

	return sanitized
}

func valueOrDefault(value string, fallback string) string {
	trimmed := strings.TrimSpace(value)
	if len(trimmed) == 0 {
		return fallback
	}
	return trimmed
}

func sanitizeCandidates(raw []string) []string {
	sanitized := make([]string, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for _, candidate := range raw {
		trimmed := strings.TrimSpace(candidate)
		if len(trimmed) == 0 {
			continue
		}
		if _, duplicate := seen[trimmed]; duplicate {
			continue
		}
		seen[trimmed] = struct{}{}
		sanitized = append(sanitized, trimmed)
	}
	return sanitized
}
