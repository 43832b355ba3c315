package execshell

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

const testRepositoryPathConstant = "/workspace/repo"

func TestCommandMessageFormatterDescribesStatusQueries(t *testing.T) {
	formatter := CommandMessageFormatter{}

	testCases := []struct {
		name            string
		arguments       []string
		workingDir      string
		build           func(command ShellCommand) string
		expectedMessage string
	}{
		{
			name:            "remote_listing_start",
			arguments:       []string{"remote", "-v"},
			workingDir:      testRepositoryPathConstant,
			build:           formatter.BuildStartedMessage,
			expectedMessage: "Listing remotes in /workspace/repo",
		},
		{
			name:       "remote_listing_success_counts_entries",
			arguments:  []string{"remote", "-v"},
			workingDir: testRepositoryPathConstant,
			build: func(command ShellCommand) string {
				return formatter.BuildSuccessMessage(command, ExecutionResult{StandardOutput: "origin\tgit@github.com:owner/repo.git (fetch)\norigin\tgit@github.com:owner/repo.git (push)\n"})
			},
			expectedMessage: "Listed 2 remote entries in /workspace/repo",
		},
		{
			name:       "current_branch_success",
			arguments:  []string{"branch", "--show-current"},
			workingDir: testRepositoryPathConstant,
			build: func(command ShellCommand) string {
				return formatter.BuildSuccessMessage(command, ExecutionResult{StandardOutput: "main\n"})
			},
			expectedMessage: "Current branch in /workspace/repo is main",
		},
		{
			name:       "current_branch_detached",
			arguments:  []string{"branch", "--show-current"},
			workingDir: testRepositoryPathConstant,
			build: func(command ShellCommand) string {
				return formatter.BuildSuccessMessage(command, ExecutionResult{})
			},
			expectedMessage: "/workspace/repo is in a detached HEAD state",
		},
		{
			name:            "recent_history_start",
			arguments:       []string{"log", "--oneline", "-5"},
			workingDir:      testRepositoryPathConstant,
			build:           formatter.BuildStartedMessage,
			expectedMessage: "Reading the last 5 commits of HEAD in /workspace/repo",
		},
		{
			name:            "commit_range_start",
			arguments:       []string{"log", "origin/main..HEAD", "--oneline"},
			workingDir:      testRepositoryPathConstant,
			build:           formatter.BuildStartedMessage,
			expectedMessage: "Comparing HEAD with origin/main in /workspace/repo",
		},
		{
			name:       "commit_range_failure",
			arguments:  []string{"log", "HEAD..origin/main", "--oneline"},
			workingDir: testRepositoryPathConstant,
			build: func(command ShellCommand) string {
				return formatter.BuildFailureMessage(command, ExecutionResult{ExitCode: 128, StandardError: "fatal: ambiguous argument\n"})
			},
			expectedMessage: "Failed to compare origin/main with HEAD in /workspace/repo (exit code 128: fatal: ambiguous argument)",
		},
		{
			name:            "working_tree_status_start",
			arguments:       []string{"status", "--short"},
			workingDir:      testRepositoryPathConstant,
			build:           formatter.BuildStartedMessage,
			expectedMessage: "Reviewing working tree status in /workspace/repo",
		},
		{
			name:            "branch_summary_start",
			arguments:       []string{"status", "-sb"},
			workingDir:      "",
			build:           formatter.BuildStartedMessage,
			expectedMessage: "Summarizing branch tracking state in current directory",
		},
		{
			name:            "fetch_start",
			arguments:       []string{"fetch", "origin"},
			workingDir:      testRepositoryPathConstant,
			build:           formatter.BuildStartedMessage,
			expectedMessage: "Fetching from origin in /workspace/repo",
		},
		{
			name:       "fetch_execution_failure",
			arguments:  []string{"fetch"},
			workingDir: testRepositoryPathConstant,
			build: func(command ShellCommand) string {
				return formatter.BuildExecutionFailureMessage(command, errors.New("signal: killed"))
			},
			expectedMessage: "Unable to fetch from all remotes in /workspace/repo: signal: killed",
		},
		{
			name:            "unknown_subcommand_uses_generic_label",
			arguments:       []string{"rev-parse", "HEAD"},
			workingDir:      testRepositoryPathConstant,
			build:           formatter.BuildStartedMessage,
			expectedMessage: "Running git rev-parse HEAD (in /workspace/repo)",
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			command := ShellCommand{
				Name: CommandGit,
				Details: CommandDetails{
					Arguments:        testCase.arguments,
					WorkingDirectory: testCase.workingDir,
				},
			}
			require.Equal(t, testCase.expectedMessage, testCase.build(command))
		})
	}
}

func TestExtractLogLimitSupportsMaxCount(t *testing.T) {
	formatter := CommandMessageFormatter{}
	require.Equal(t, 12, formatter.extractLogLimit([]string{"--oneline", "--max-count=12"}))
	require.Equal(t, gitLogNumericLimitSentinelConstant, formatter.extractLogLimit([]string{"--oneline"}))
}
