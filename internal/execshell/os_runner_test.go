package execshell_test

import (
	"context"
	"os/exec"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/syncstatus/internal/execshell"
)

func requireGitExecutable(testInstance *testing.T) {
	testInstance.Helper()
	if _, lookupError := exec.LookPath(string(execshell.CommandGit)); lookupError != nil {
		testInstance.Skip("git executable not available")
	}
}

func TestOSCommandRunnerCapturesStandardOutput(testInstance *testing.T) {
	requireGitExecutable(testInstance)

	runner := execshell.NewOSCommandRunner()
	result, runError := runner.Run(context.Background(), execshell.ShellCommand{
		Name:    execshell.CommandGit,
		Details: execshell.CommandDetails{Arguments: []string{"--version"}},
	})

	require.NoError(testInstance, runError)
	require.Equal(testInstance, 0, result.ExitCode)
	require.True(testInstance, strings.HasPrefix(result.StandardOutput, "git version"))
}

func TestOSCommandRunnerReportsExitCodeInWorkingDirectory(testInstance *testing.T) {
	requireGitExecutable(testInstance)

	temporaryDirectory := testInstance.TempDir()
	runner := execshell.NewOSCommandRunner()
	result, runError := runner.Run(context.Background(), execshell.ShellCommand{
		Name: execshell.CommandGit,
		Details: execshell.CommandDetails{
			Arguments:            []string{"status", "--short"},
			WorkingDirectory:     temporaryDirectory,
			EnvironmentVariables: map[string]string{"GIT_CEILING_DIRECTORIES": temporaryDirectory},
		},
	})

	require.NoError(testInstance, runError)
	require.NotEqual(testInstance, 0, result.ExitCode)
	require.Contains(testInstance, strings.ToLower(result.StandardError), "not a git repository")
}
