package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const (
	testSearchPathEnvironmentConstant = "SYNCSTATUS_CONFIG_SEARCH_PATH"
	testOverrideConfigurationConstant = "common:\n  log_format: console\ntools:\n  status:\n    remote: upstream\n    history_limit: 3\n    command_timeout: 45s\n"
)

func TestInitializeConfigurationAppliesLayeredOverrides(testInstance *testing.T) {
	configurationDirectory := testInstance.TempDir()
	require.NoError(testInstance, os.WriteFile(filepath.Join(configurationDirectory, "config.yaml"), []byte(testOverrideConfigurationConstant), 0o600))
	testInstance.Setenv(testSearchPathEnvironmentConstant, configurationDirectory)
	testInstance.Setenv("SYNCSTATUS_TOOLS_STATUS_BRANCH_CANDIDATES", "trunk,main")
	testInstance.Setenv("SYNCSTATUS_TOOLS_STATUS_FETCH", "false")

	application := NewApplication()
	rootCommand := application.rootCommand
	require.NoError(testInstance, rootCommand.PersistentFlags().Set(colorFlagNameConstant, "NEVER"))
	require.NoError(testInstance, rootCommand.PersistentFlags().Set(logLevelFlagNameConstant, "debug"))
	require.NoError(testInstance, rootCommand.PersistentFlags().Set(repositoryFlagNameConstant, "/work/project"))

	require.NoError(testInstance, application.initializeConfiguration(rootCommand))

	statusConfiguration := application.configuration.Tools.Status
	require.Equal(testInstance, "upstream", statusConfiguration.RemoteName)
	require.Equal(testInstance, 3, statusConfiguration.HistoryLimit)
	require.Equal(testInstance, 45*time.Second, statusConfiguration.CommandTimeout)
	require.Equal(testInstance, []string{"trunk", "main"}, statusConfiguration.BranchCandidates)
	require.False(testInstance, statusConfiguration.Fetch)
	require.Equal(testInstance, "never", statusConfiguration.Color)
	require.Equal(testInstance, "https://github.com/Luciuswang/douyin-treasure.git", statusConfiguration.ExpectedRemoteURL)

	require.Equal(testInstance, "debug", application.configuration.Common.LogLevel)
	require.True(testInstance, application.humanReadableLoggingEnabled())
	require.NotNil(testInstance, application.consoleLogger)

	repositoryPath, repositoryPathAvailable := application.commandContextAccessor.RepositoryPath(rootCommand.Context())
	require.True(testInstance, repositoryPathAvailable)
	require.Equal(testInstance, "/work/project", repositoryPath)

	configurationFilePath, configurationFileAvailable := application.commandContextAccessor.ConfigurationFilePath(rootCommand.Context())
	require.True(testInstance, configurationFileAvailable)
	require.Equal(testInstance, filepath.Join(configurationDirectory, "config.yaml"), configurationFilePath)
}

func TestConfigurationSearchPathOverrideReplacesDefaultLocations(testInstance *testing.T) {
	workingDirectory := testInstance.TempDir()
	require.NoError(testInstance, os.WriteFile(filepath.Join(workingDirectory, "config.yaml"), []byte("tools:\n  status:\n    history_limit: 42\n"), 0o600))
	testInstance.Chdir(workingDirectory)
	overrideDirectory := testInstance.TempDir()
	testInstance.Setenv(testSearchPathEnvironmentConstant, overrideDirectory)

	require.Equal(testInstance, []string{overrideDirectory}, resolveConfigurationSearchPaths())

	application := NewApplication()
	require.NoError(testInstance, application.InitializeForCommand(""))
	require.Equal(testInstance, 5, application.configuration.Tools.Status.HistoryLimit)

	require.Empty(testInstance, application.configurationMetadata.ConfigFileUsed)
}

func TestConfigurationSearchPathsDefaultToWorkingAndUserDirectories(testInstance *testing.T) {
	testInstance.Setenv(testSearchPathEnvironmentConstant, "")

	searchPaths := resolveConfigurationSearchPaths()
	require.NotEmpty(testInstance, searchPaths)
	require.Equal(testInstance, ".", searchPaths[0])
}

func TestInitializeConfigurationRejectsInvalidFlagChoices(testInstance *testing.T) {
	application := NewApplication()
	persistentFlags := application.rootCommand.PersistentFlags()

	require.Error(testInstance, persistentFlags.Set(colorFlagNameConstant, "sometimes"))
	require.Error(testInstance, persistentFlags.Set(logFormatFlagNameConstant, "xml"))
	require.Error(testInstance, persistentFlags.Set(logLevelFlagNameConstant, "trace"))
}

func TestApplicationExecuteRunsReport(testInstance *testing.T) {
	testCases := []struct {
		name      string
		arguments func(repositoryPath string) []string
	}{
		{
			name: "root_command",
			arguments: func(repositoryPath string) []string {
				return []string{"--repository", repositoryPath, "--log-level", "error"}
			},
		},
		{
			name: "status_alias",
			arguments: func(repositoryPath string) []string {
				return []string{"status", "--repository", repositoryPath, "--log-level", "error"}
			},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subTest *testing.T) {
			subTest.Setenv(testSearchPathEnvironmentConstant, subTest.TempDir())
			repositoryPath := subTest.TempDir()

			application := NewApplication()
			outputBuffer := &bytes.Buffer{}
			application.rootCommand.SetOut(outputBuffer)
			application.rootCommand.SetArgs(testCase.arguments(repositoryPath))

			require.NoError(subTest, application.Execute())
			require.Contains(subTest, outputBuffer.String(), "Git local and remote sync status check\n")
			require.Contains(subTest, outputBuffer.String(), "[error] Git repository not initialized!\nRun first: git init\n")
		})
	}
}

func TestApplicationExecuteRejectsPositionalArguments(testInstance *testing.T) {
	testInstance.Setenv(testSearchPathEnvironmentConstant, testInstance.TempDir())

	application := NewApplication()
	application.rootCommand.SetOut(&bytes.Buffer{})
	application.rootCommand.SetArgs([]string{"unexpected"})

	require.Error(testInstance, application.Execute())
}
