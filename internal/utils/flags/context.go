// Package flags provides helpers for binding standardized execution flags to Cobra commands.
package flags

const (
	// DryRunFlagName exposes the shared dry-run flag name.
	DryRunFlagName = "dry-run"
	// DryRunFlagUsage describes the shared dry-run flag purpose.
	DryRunFlagUsage = "Preview repairs without mutating branches"
	// RemoteFlagName exposes the shared remote flag name.
	RemoteFlagName = "remote"
	// RemoteFlagUsage describes the shared remote flag purpose.
	RemoteFlagUsage = "Remote name to target"
	// RepositoryFlagName exposes the shared repository path flag name.
	RepositoryFlagName = "repository"
	// RepositoryFlagUsage describes the shared repository path flag purpose.
	RepositoryFlagUsage = "Path to the git repository to operate on"
	// TargetsFlagName exposes the shared branch targets file flag name.
	TargetsFlagName = "targets"
	// TargetsFlagUsage describes the shared branch targets file flag purpose.
	TargetsFlagUsage = "Path to a YAML file listing branches to repair"
)
