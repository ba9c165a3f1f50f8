package flags

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFormatChoiceUsage(t *testing.T) {
	testCases := []struct {
		name           string
		defaultChoice  string
		choices        []string
		description    string
		expectedOutput string
	}{
		{
			name:           "DefaultFirstChoice",
			defaultChoice:  "structured",
			choices:        []string{"structured", "console"},
			description:    "Select the log output encoding.",
			expectedOutput: "`<STRUCTURED|console>` Select the log output encoding.",
		},
		{
			name:           "DefaultSecondChoice",
			defaultChoice:  "console",
			choices:        []string{"structured", "console"},
			description:    "Select the log output encoding.",
			expectedOutput: "`<structured|CONSOLE>` Select the log output encoding.",
		},
		{
			name:           "EmptyDescription",
			defaultChoice:  "info",
			choices:        []string{"debug", "info", "warn", "error"},
			description:    "",
			expectedOutput: "`<debug|INFO|warn|error>`",
		},
		{
			name:           "DuplicateChoicesIgnored",
			defaultChoice:  "warn",
			choices:        []string{"warn", "warn", "error", "error"},
			description:    "Minimum severity to emit.",
			expectedOutput: "`<WARN|error>` Minimum severity to emit.",
		},
		{
			name:           "WhitespaceTrimmed",
			defaultChoice:  "console",
			choices:        []string{" console ", " structured "},
			description:    "Select the log output encoding.",
			expectedOutput: "`<CONSOLE|structured>` Select the log output encoding.",
		},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			actual := FormatChoiceUsage(testCase.defaultChoice, testCase.choices, testCase.description)
			require.Equal(t, testCase.expectedOutput, actual)
		})
	}
}
