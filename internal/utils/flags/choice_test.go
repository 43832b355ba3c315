package flags_test

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/temirov/syncstatus/internal/utils/flags"
)

func TestFormatChoiceUsage(testInstance *testing.T) {
	testCases := []struct {
		name          string
		defaultChoice string
		choices       []string
		description   string
		expected      string
	}{
		{
			name:          "highlights_default",
			defaultChoice: "auto",
			choices:       []string{"auto", "always", "never"},
			description:   "Colorize section headings.",
			expected:      "`<AUTO|always|never>` Colorize section headings.",
		},
		{
			name:          "skips_duplicates_and_blanks",
			defaultChoice: "console",
			choices:       []string{"structured", " ", "Console", "console"},
			expected:      "`<structured|CONSOLE>`",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			require.Equal(testInstance, testCase.expected, flags.FormatChoiceUsage(testCase.defaultChoice, testCase.choices, testCase.description))
		})
	}
}

func TestChoiceValue(testInstance *testing.T) {
	selected := "auto"
	flagSet := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flagSet.Var(flags.NewChoiceValue(&selected, []string{"auto", "always", "never"}), "color", "usage")

	require.NoError(testInstance, flagSet.Parse([]string{"--color", " NEVER "}))
	require.Equal(testInstance, "never", selected)

	parseError := flagSet.Parse([]string{"--color", "sometimes"})
	require.Error(testInstance, parseError)
	require.Contains(testInstance, parseError.Error(), "expected one of auto, always, never")
	require.Equal(testInstance, "never", selected)
}
