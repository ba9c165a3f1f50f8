package repair

import "strings"

const (
	defaultRemoteNameConstant        = "origin"
	defaultBaseBranchConstant        = "main"
	defaultCleanBranchSuffixConstant = "-clean"
	defaultConflictFileConstant      = "Cargo.lock"
	defaultCandidateLimitConstant    = 10
	defaultCommandTimeoutSeconds     = 30
)

// BranchTarget names a branch to repair.
//
// SeedCommit is retained from historical configurations for operator
// reference; the selector chooses the replayed commit from remote history.
type BranchTarget struct {
	Branch     string `mapstructure:"branch" yaml:"branch"`
	SeedCommit string `mapstructure:"seed_commit" yaml:"seed_commit"`
}

// CommandConfiguration captures persisted configuration for branch repair.
type CommandConfiguration struct {
	RepositoryPath        string         `mapstructure:"repository"`
	RemoteName            string         `mapstructure:"remote"`
	BaseBranch            string         `mapstructure:"base_branch"`
	CleanBranchSuffix     string         `mapstructure:"clean_branch_suffix"`
	ConflictFilePath      string         `mapstructure:"conflict_file"`
	CandidateLimit        int            `mapstructure:"candidate_limit"`
	CommandTimeoutSeconds int            `mapstructure:"command_timeout_seconds"`
	IncludeKeywords       []string       `mapstructure:"include_keywords"`
	ExcludeKeywords       []string       `mapstructure:"exclude_keywords"`
	DryRun                bool           `mapstructure:"dry_run"`
	Targets               []BranchTarget `mapstructure:"targets"`
}

// DefaultCommandConfiguration returns baseline configuration values for branch repair.
func DefaultCommandConfiguration() CommandConfiguration {
	keywordPolicy := DefaultKeywordSelectionPolicy()
	return CommandConfiguration{
		RemoteName:            defaultRemoteNameConstant,
		BaseBranch:            defaultBaseBranchConstant,
		CleanBranchSuffix:     defaultCleanBranchSuffixConstant,
		ConflictFilePath:      defaultConflictFileConstant,
		CandidateLimit:        defaultCandidateLimitConstant,
		CommandTimeoutSeconds: defaultCommandTimeoutSeconds,
		IncludeKeywords:       keywordPolicy.IncludeKeywords,
		ExcludeKeywords:       keywordPolicy.ExcludeKeywords,
	}
}

// DefaultConfigurationValues exposes baseline repair settings keyed beneath the
// provided configuration section for the configuration loader.
func DefaultConfigurationValues(configurationKey string) map[string]any {
	defaults := DefaultCommandConfiguration()
	return map[string]any{
		configurationKey + ".remote":                  defaults.RemoteName,
		configurationKey + ".base_branch":             defaults.BaseBranch,
		configurationKey + ".clean_branch_suffix":     defaults.CleanBranchSuffix,
		configurationKey + ".conflict_file":           defaults.ConflictFilePath,
		configurationKey + ".candidate_limit":         defaults.CandidateLimit,
		configurationKey + ".command_timeout_seconds": defaults.CommandTimeoutSeconds,
		configurationKey + ".include_keywords":        defaults.IncludeKeywords,
		configurationKey + ".exclude_keywords":        defaults.ExcludeKeywords,
	}
}

// Sanitize trims configured values, drops empty targets, and restores defaults for missing settings.
func (configuration CommandConfiguration) Sanitize() CommandConfiguration {
	sanitized := configuration
	sanitized.RepositoryPath = strings.TrimSpace(configuration.RepositoryPath)
	sanitized.RemoteName = fallbackIfEmpty(configuration.RemoteName, defaultRemoteNameConstant)
	sanitized.BaseBranch = fallbackIfEmpty(configuration.BaseBranch, defaultBaseBranchConstant)
	sanitized.CleanBranchSuffix = fallbackIfEmpty(configuration.CleanBranchSuffix, defaultCleanBranchSuffixConstant)
	sanitized.ConflictFilePath = fallbackIfEmpty(configuration.ConflictFilePath, defaultConflictFileConstant)

	if configuration.CandidateLimit <= 0 {
		sanitized.CandidateLimit = defaultCandidateLimitConstant
	}
	if configuration.CommandTimeoutSeconds <= 0 {
		sanitized.CommandTimeoutSeconds = defaultCommandTimeoutSeconds
	}

	sanitized.Targets = sanitizeTargets(configuration.Targets)
	return sanitized
}

func sanitizeTargets(targets []BranchTarget) []BranchTarget {
	sanitizedTargets := make([]BranchTarget, 0, len(targets))
	for _, target := range targets {
		trimmedBranch := strings.TrimSpace(target.Branch)
		if len(trimmedBranch) == 0 {
			continue
		}
		sanitizedTargets = append(sanitizedTargets, BranchTarget{
			Branch:     trimmedBranch,
			SeedCommit: strings.TrimSpace(target.SeedCommit),
		})
	}
	if len(sanitizedTargets) == 0 {
		return nil
	}
	return sanitizedTargets
}

func fallbackIfEmpty(value string, fallbackValue string) string {
	trimmedValue := strings.TrimSpace(value)
	if len(trimmedValue) == 0 {
		return fallbackValue
	}
	return trimmedValue
}
