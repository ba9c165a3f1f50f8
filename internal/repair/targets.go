package repair

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	targetsPathRequiredMessageConstant = "branch targets path must be provided"
	targetsEmptyMessageConstant        = "branch targets file must define at least one branch"
	targetsLoadErrorTemplateConstant   = "failed to load branch targets: %w"
	targetsParseErrorTemplateConstant  = "failed to parse branch targets: %w"
)

// Sentinel errors for branch target loading.
var (
	ErrTargetsPathRequired = errors.New(targetsPathRequiredMessageConstant)
	ErrTargetsEmpty        = errors.New(targetsEmptyMessageConstant)
)

type targetsDocument struct {
	Targets []BranchTarget `yaml:"targets"`
}

// LoadBranchTargets reads a YAML document listing the branches to repair.
func LoadBranchTargets(targetsFilePath string) ([]BranchTarget, error) {
	trimmedTargetsFilePath := strings.TrimSpace(targetsFilePath)
	if len(trimmedTargetsFilePath) == 0 {
		return nil, ErrTargetsPathRequired
	}

	targetsData, readError := os.ReadFile(trimmedTargetsFilePath)
	if readError != nil {
		return nil, fmt.Errorf(targetsLoadErrorTemplateConstant, readError)
	}

	document := targetsDocument{}
	if unmarshalError := yaml.Unmarshal(targetsData, &document); unmarshalError != nil {
		return nil, fmt.Errorf(targetsParseErrorTemplateConstant, unmarshalError)
	}

	sanitizedTargets := sanitizeTargets(document.Targets)
	if len(sanitizedTargets) == 0 {
		return nil, ErrTargetsEmpty
	}

	return sanitizedTargets, nil
}
