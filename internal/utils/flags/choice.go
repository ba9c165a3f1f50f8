package flags

import (
	"fmt"
	"strings"
)

const choiceSeparatorConstant = "|"

// FormatChoiceUsage builds a usage string listing the accepted values for a
// flag, with the default value capitalized inside the placeholder.
func FormatChoiceUsage(defaultChoice string, choices []string, description string) string {
	placeholder := formatChoicePlaceholder(defaultChoice, choices)
	trimmedDescription := strings.TrimSpace(description)
	if len(trimmedDescription) == 0 {
		return fmt.Sprintf("`%s`", placeholder)
	}
	return fmt.Sprintf("`%s` %s", placeholder, trimmedDescription)
}

func formatChoicePlaceholder(defaultChoice string, choices []string) string {
	normalizedDefault := strings.ToLower(strings.TrimSpace(defaultChoice))

	displayedChoices := make([]string, 0, len(choices))
	seenChoices := make(map[string]struct{}, len(choices))
	for _, choice := range choices {
		trimmedChoice := strings.TrimSpace(choice)
		if len(trimmedChoice) == 0 {
			continue
		}

		normalizedChoice := strings.ToLower(trimmedChoice)
		if _, alreadyListed := seenChoices[normalizedChoice]; alreadyListed {
			continue
		}
		seenChoices[normalizedChoice] = struct{}{}

		if normalizedChoice == normalizedDefault {
			displayedChoices = append(displayedChoices, strings.ToUpper(trimmedChoice))
			continue
		}
		displayedChoices = append(displayedChoices, trimmedChoice)
	}

	return "<" + strings.Join(displayedChoices, choiceSeparatorConstant) + ">"
}
