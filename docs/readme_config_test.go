package docs_test

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/temirov/syncstatus/internal/syncstatus"
	"github.com/temirov/syncstatus/internal/utils"
)

const (
	readmeFileNameConstant           = "README.md"
	yamlFenceStartConstant           = "```yaml"
	yamlFenceEndConstant             = "```"
	configHeaderMarkerConstant       = "# config.yaml"
	readmeSnippetFileNameConstant    = "config.yaml"
	parentDirectoryReferenceConstant = ".."
	missingHeaderMessageConstant     = "README example missing config header marker"
	missingStartFenceMessageConstant = "README example missing yaml fence start"
	missingEndFenceMessageConstant   = "README example missing yaml fence end"
	statusConfigurationKeyConstant   = "tools.status"
	searchPathEnvironmentConstant    = "SYNCSTATUS_CONFIG_SEARCH_PATH"
)

type readmeApplicationConfiguration struct {
	Common map[string]any `yaml:"common"`
	Tools  struct {
		Status map[string]any `yaml:"status"`
	} `yaml:"tools"`
}

type decodedApplicationConfiguration struct {
	Tools struct {
		Status syncstatus.CommandConfiguration `mapstructure:"status"`
	} `mapstructure:"tools"`
}

func TestReadmeConfigurationMatchesDefaults(testInstance *testing.T) {
	snippetContent := readReadmeConfigurationSnippet(testInstance)

	var readmeConfiguration readmeApplicationConfiguration
	require.NoError(testInstance, yaml.Unmarshal([]byte(snippetContent), &readmeConfiguration))
	require.Contains(testInstance, readmeConfiguration.Common, "log_level")
	require.Contains(testInstance, readmeConfiguration.Common, "log_format")

	documentedKeys := make([]string, 0, len(readmeConfiguration.Tools.Status))
	for key := range readmeConfiguration.Tools.Status {
		documentedKeys = append(documentedKeys, key)
	}
	supportedKeys := make([]string, 0)
	for key := range syncstatus.DefaultConfigurationValues("") {
		supportedKeys = append(supportedKeys, key)
	}
	sort.Strings(documentedKeys)
	sort.Strings(supportedKeys)
	require.Equal(testInstance, supportedKeys, documentedKeys)

	snippetDirectory := testInstance.TempDir()
	snippetPath := filepath.Join(snippetDirectory, readmeSnippetFileNameConstant)
	require.NoError(testInstance, os.WriteFile(snippetPath, []byte(snippetContent), 0o600))

	loader := utils.NewConfigurationLoader("config", "yaml", "TESTSYNCSTATUSDOCS", []string{snippetDirectory})
	var decoded decodedApplicationConfiguration
	_, loadError := loader.LoadConfiguration(snippetPath, syncstatus.DefaultConfigurationValues(statusConfigurationKeyConstant), &decoded)
	require.NoError(testInstance, loadError)
	require.Equal(testInstance, syncstatus.DefaultCommandConfiguration(), decoded.Tools.Status.Sanitize())
}

func TestReadmeDocumentsConfigurationSearchPathOverride(testInstance *testing.T) {
	workingDirectory, workingDirectoryError := os.Getwd()
	require.NoError(testInstance, workingDirectoryError)

	contentBytes, readError := os.ReadFile(filepath.Join(workingDirectory, parentDirectoryReferenceConstant, readmeFileNameConstant))
	require.NoError(testInstance, readError)
	require.Contains(testInstance, string(contentBytes), searchPathEnvironmentConstant)
}

func readReadmeConfigurationSnippet(testInstance *testing.T) string {
	testInstance.Helper()
	workingDirectory, workingDirectoryError := os.Getwd()
	require.NoError(testInstance, workingDirectoryError)

	readmePath := filepath.Join(workingDirectory, parentDirectoryReferenceConstant, readmeFileNameConstant)
	contentBytes, readError := os.ReadFile(readmePath)
	require.NoError(testInstance, readError)

	contentText := string(contentBytes)
	headerIndex := strings.Index(contentText, configHeaderMarkerConstant)
	require.NotEqual(testInstance, -1, headerIndex, missingHeaderMessageConstant)

	fenceStartIndex := strings.LastIndex(contentText[:headerIndex], yamlFenceStartConstant)
	require.NotEqual(testInstance, -1, fenceStartIndex, missingStartFenceMessageConstant)

	remainingText := contentText[headerIndex:]
	fenceEndRelativeIndex := strings.Index(remainingText, yamlFenceEndConstant)
	require.NotEqual(testInstance, -1, fenceEndRelativeIndex, missingEndFenceMessageConstant)
	fenceEndIndex := headerIndex + fenceEndRelativeIndex

	return strings.TrimSpace(contentText[fenceStartIndex+len(yamlFenceStartConstant) : fenceEndIndex])
}
