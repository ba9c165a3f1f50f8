package repair

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/forgefix/prmend/internal/gitrepo"
)

const (
	repositoryManagerMissingMessageConstant = "repository manager not configured"
	commitSelectorMissingMessageConstant    = "commit selector not configured"
	conflictResolverMissingMessageConstant  = "conflict resolver not configured"
	repairRepositoryRequiredMessage         = "repository path must be provided"
	repairTargetsRequiredMessageConstant    = "at least one branch target must be provided"
	remoteReferenceTemplateConstant         = "%s/%s"
	cleanBranchNameTemplateConstant         = "%s%s"
	baseCheckoutFailureTemplateConstant     = "failed to checkout base branch %q: %w"
	candidateListFailureTemplateConstant    = "listing remote commits failed: %v"
	noCandidateMessageConstant              = "no commit subject matched the selection keywords"
	branchCreationFailureReasonTemplate     = "creating scratch branch failed: %v"
	replayFailureReasonTemplateConstant     = "replaying commit failed: %v"
	publishFailureReasonTemplateConstant    = "publishing rebuilt branch failed: %v"
	logMessageRepairStartedConstant         = "repairing branch"
	logMessageRepairPlannedConstant         = "dry run: branch repair planned"
	logMessageRepairSucceededConstant       = "branch repaired"
	logMessageRepairFailedConstant          = "branch repair failed"
	logMessageSeedCommitRecordedConstant    = "seed commit recorded for operator reference only"
	logMessageConflictRetryConstant         = "cherry-pick conflicted, attempting lockfile resolution"
	logMessageBestEffortStepFailedConstant  = "best-effort step failed"
	logFieldBranchConstant                  = "branch"
	logFieldCleanBranchConstant             = "clean_branch"
	logFieldSeedCommitConstant              = "seed_commit"
	logFieldSelectedCommitConstant          = "selected_commit"
	logFieldCommitSubjectConstant           = "subject"
	logFieldStatusConstant                  = "status"
	logFieldReasonConstant                  = "reason"
	logFieldStepConstant                    = "step"
	logFieldPolicyConstant                  = "policy"
	stepNameDeleteScratchBranchConstant     = "delete scratch branch"
	stepNameCreateScratchBranchConstant     = "create scratch branch"
	stepNameAbortCherryPickConstant         = "abort cherry-pick"
	stepNameCheckoutBaseBranchConstant      = "checkout base branch"
	stepNameCherryPickConstant              = "cherry-pick"
	stepNameResolveConflictsConstant        = "resolve conflicts"
	stepNameCheckoutTargetBranchConstant    = "checkout target branch"
	stepNameResetToScratchBranchConstant    = "reset to scratch branch"
	stepNameForcePushConstant               = "force push"
)

// Sentinel construction and validation errors.
var (
	ErrRepositoryManagerNotConfigured = errors.New(repositoryManagerMissingMessageConstant)
	ErrCommitSelectorNotConfigured    = errors.New(commitSelectorMissingMessageConstant)
	ErrConflictResolverNotConfigured  = errors.New(conflictResolverMissingMessageConstant)
	ErrRepairRepositoryRequired       = errors.New(repairRepositoryRequiredMessage)
	ErrRepairTargetsRequired          = errors.New(repairTargetsRequiredMessageConstant)
)

// RepositoryWorkspace describes the git operations the repair service performs.
type RepositoryWorkspace interface {
	CheckoutBranch(executionContext context.Context, repositoryPath string, branchName string) error
	CreateBranch(executionContext context.Context, repositoryPath string, branchName string, startPoint string) error
	DeleteBranch(executionContext context.Context, repositoryPath string, branchName string) error
	ListRecentCommits(executionContext context.Context, repositoryPath string, reference string, limit int) ([]gitrepo.Commit, error)
	CherryPick(executionContext context.Context, repositoryPath string, commitHash string) error
	AbortCherryPick(executionContext context.Context, repositoryPath string) error
	ResetHard(executionContext context.Context, repositoryPath string, reference string) error
	ForcePush(executionContext context.Context, repositoryPath string, remoteName string, branchName string) error
}

// ServiceDependencies enumerates external collaborators required for branch repair.
type ServiceDependencies struct {
	Logger            *zap.Logger
	RepositoryManager RepositoryWorkspace
	CommitSelector    CommitSelector
	ConflictResolver  ConflictResolver
}

// RepairOptions configures a repair run.
type RepairOptions struct {
	RepositoryPath    string
	RemoteName        string
	BaseBranch        string
	CleanBranchSuffix string
	CandidateLimit    int
	CommandTimeout    time.Duration
	DryRun            bool
	Targets           []BranchTarget
}

// RepairStatus classifies the outcome of repairing a single branch.
type RepairStatus string

// Branch repair outcomes.
const (
	RepairStatusRepaired        RepairStatus = "repaired"
	RepairStatusPlanned         RepairStatus = "planned"
	RepairStatusSelectionFailed RepairStatus = "selection_failed"
	RepairStatusReplayFailed    RepairStatus = "replay_failed"
	RepairStatusPublishFailed   RepairStatus = "publish_failed"
)

// BranchRepairResult captures the outcome of repairing one branch.
type BranchRepairResult struct {
	Branch         string
	Status         RepairStatus
	SelectedCommit gitrepo.Commit
	FailureReason  string
}

// RepairSummary aggregates per-branch outcomes for a repair run.
type RepairSummary struct {
	Results []BranchRepairResult
}

// RepairedCount reports how many branches were rebuilt and published.
func (summary RepairSummary) RepairedCount() int {
	repairedCount := 0
	for _, result := range summary.Results {
		if result.Status == RepairStatusRepaired {
			repairedCount++
		}
	}
	return repairedCount
}

// Service coordinates branch repair operations through git.
type Service struct {
	logger            *zap.Logger
	repositoryManager RepositoryWorkspace
	commitSelector    CommitSelector
	conflictResolver  ConflictResolver
}

// NewService constructs a Service from the provided dependencies.
func NewService(dependencies ServiceDependencies) (*Service, error) {
	if dependencies.RepositoryManager == nil {
		return nil, ErrRepositoryManagerNotConfigured
	}
	if dependencies.CommitSelector == nil {
		return nil, ErrCommitSelectorNotConfigured
	}
	if dependencies.ConflictResolver == nil {
		return nil, ErrConflictResolverNotConfigured
	}

	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{
		logger:            logger,
		repositoryManager: dependencies.RepositoryManager,
		commitSelector:    dependencies.CommitSelector,
		conflictResolver:  dependencies.ConflictResolver,
	}, nil
}

// Repair rebuilds every configured branch and reports per-branch outcomes.
//
// A failing branch never stops the run; the error return is reserved for
// invalid options and context cancellation.
func (service *Service) Repair(executionContext context.Context, options RepairOptions) (RepairSummary, error) {
	normalizedOptions, validationError := normalizeRepairOptions(options)
	if validationError != nil {
		return RepairSummary{}, validationError
	}

	if !normalizedOptions.DryRun {
		if baseError := service.stepTimeout(executionContext, normalizedOptions.CommandTimeout, func(stepContext context.Context) error {
			return service.repositoryManager.CheckoutBranch(stepContext, normalizedOptions.RepositoryPath, normalizedOptions.BaseBranch)
		}); baseError != nil {
			return RepairSummary{}, fmt.Errorf(baseCheckoutFailureTemplateConstant, normalizedOptions.BaseBranch, baseError)
		}
	}

	summary := RepairSummary{Results: make([]BranchRepairResult, 0, len(normalizedOptions.Targets))}
	for _, target := range normalizedOptions.Targets {
		if contextError := executionContext.Err(); contextError != nil {
			return summary, contextError
		}

		result := service.repairBranch(executionContext, normalizedOptions, target)
		summary.Results = append(summary.Results, result)
	}

	return summary, nil
}

func (service *Service) repairBranch(executionContext context.Context, options RepairOptions, target BranchTarget) BranchRepairResult {
	cleanBranchName := fmt.Sprintf(cleanBranchNameTemplateConstant, target.Branch, options.CleanBranchSuffix)
	remoteReference := fmt.Sprintf(remoteReferenceTemplateConstant, options.RemoteName, target.Branch)

	service.logger.Info(
		logMessageRepairStartedConstant,
		zap.String(logFieldBranchConstant, target.Branch),
		zap.String(logFieldCleanBranchConstant, cleanBranchName),
	)
	if len(target.SeedCommit) > 0 {
		service.logger.Debug(
			logMessageSeedCommitRecordedConstant,
			zap.String(logFieldBranchConstant, target.Branch),
			zap.String(logFieldSeedCommitConstant, target.SeedCommit),
		)
	}

	selectedCommit, selectionFailure := service.selectCommit(executionContext, options, remoteReference)
	if len(selectionFailure) > 0 {
		return service.recordFailure(target.Branch, RepairStatusSelectionFailed, gitrepo.Commit{}, selectionFailure)
	}

	if options.DryRun {
		service.logger.Info(
			logMessageRepairPlannedConstant,
			zap.String(logFieldBranchConstant, target.Branch),
			zap.String(logFieldSelectedCommitConstant, selectedCommit.Hash),
			zap.String(logFieldCommitSubjectConstant, selectedCommit.Subject),
		)
		return BranchRepairResult{Branch: target.Branch, Status: RepairStatusPlanned, SelectedCommit: selectedCommit}
	}

	cleanupScratchBranch := service.prepareCleanup(executionContext, options, cleanBranchName)
	defer cleanupScratchBranch()

	if creationFailure := service.createScratchBranch(executionContext, options, cleanBranchName); len(creationFailure) > 0 {
		return service.recordFailure(target.Branch, RepairStatusReplayFailed, selectedCommit, creationFailure)
	}

	if replayFailure := service.replayCommit(executionContext, options, selectedCommit); len(replayFailure) > 0 {
		return service.recordFailure(target.Branch, RepairStatusReplayFailed, selectedCommit, replayFailure)
	}

	if publishFailure := service.publishBranch(executionContext, options, target.Branch, cleanBranchName); len(publishFailure) > 0 {
		return service.recordFailure(target.Branch, RepairStatusPublishFailed, selectedCommit, publishFailure)
	}

	service.logger.Info(
		logMessageRepairSucceededConstant,
		zap.String(logFieldBranchConstant, target.Branch),
		zap.String(logFieldSelectedCommitConstant, selectedCommit.Hash),
	)
	return BranchRepairResult{Branch: target.Branch, Status: RepairStatusRepaired, SelectedCommit: selectedCommit}
}

func (service *Service) selectCommit(executionContext context.Context, options RepairOptions, remoteReference string) (gitrepo.Commit, string) {
	var candidates []gitrepo.Commit
	listError := service.stepTimeout(executionContext, options.CommandTimeout, func(stepContext context.Context) error {
		listedCommits, listingError := service.repositoryManager.ListRecentCommits(stepContext, options.RepositoryPath, remoteReference, options.CandidateLimit)
		if listingError != nil {
			return listingError
		}
		candidates = listedCommits
		return nil
	})
	if listError != nil {
		return gitrepo.Commit{}, fmt.Sprintf(candidateListFailureTemplateConstant, listError)
	}

	selectedCommit, commitFound := service.commitSelector.SelectCommit(candidates)
	if !commitFound {
		return gitrepo.Commit{}, noCandidateMessageConstant
	}
	return selectedCommit, ""
}

func (service *Service) createScratchBranch(executionContext context.Context, options RepairOptions, cleanBranchName string) string {
	// A stale scratch branch from an earlier run may not exist.
	service.executeStep(executionContext, options, stepNameDeleteScratchBranchConstant, StepBestEffort, func(stepContext context.Context) error {
		return service.repositoryManager.DeleteBranch(stepContext, options.RepositoryPath, cleanBranchName)
	})

	creationError := service.executeStep(executionContext, options, stepNameCreateScratchBranchConstant, StepRequired, func(stepContext context.Context) error {
		return service.repositoryManager.CreateBranch(stepContext, options.RepositoryPath, cleanBranchName, options.BaseBranch)
	})
	if creationError != nil {
		return fmt.Sprintf(branchCreationFailureReasonTemplate, creationError)
	}
	return ""
}

func (service *Service) replayCommit(executionContext context.Context, options RepairOptions, selectedCommit gitrepo.Commit) string {
	cherryPickError := service.executeStep(executionContext, options, stepNameCherryPickConstant, StepRequired, func(stepContext context.Context) error {
		return service.repositoryManager.CherryPick(stepContext, options.RepositoryPath, selectedCommit.Hash)
	})
	if cherryPickError == nil {
		return ""
	}

	service.logger.Warn(
		logMessageConflictRetryConstant,
		zap.String(logFieldSelectedCommitConstant, selectedCommit.Hash),
		zap.Error(cherryPickError),
	)

	resolutionError := service.executeStep(executionContext, options, stepNameResolveConflictsConstant, StepRequired, func(stepContext context.Context) error {
		return service.conflictResolver.Resolve(stepContext, options.RepositoryPath)
	})
	if resolutionError == nil {
		return ""
	}

	service.executeStep(executionContext, options, stepNameAbortCherryPickConstant, StepBestEffort, func(stepContext context.Context) error {
		return service.repositoryManager.AbortCherryPick(stepContext, options.RepositoryPath)
	})
	return fmt.Sprintf(replayFailureReasonTemplateConstant, resolutionError)
}

func (service *Service) publishBranch(executionContext context.Context, options RepairOptions, branchName string, cleanBranchName string) string {
	if checkoutError := service.executeStep(executionContext, options, stepNameCheckoutTargetBranchConstant, StepRequired, func(stepContext context.Context) error {
		return service.repositoryManager.CheckoutBranch(stepContext, options.RepositoryPath, branchName)
	}); checkoutError != nil {
		return fmt.Sprintf(publishFailureReasonTemplateConstant, checkoutError)
	}

	if resetError := service.executeStep(executionContext, options, stepNameResetToScratchBranchConstant, StepRequired, func(stepContext context.Context) error {
		return service.repositoryManager.ResetHard(stepContext, options.RepositoryPath, cleanBranchName)
	}); resetError != nil {
		return fmt.Sprintf(publishFailureReasonTemplateConstant, resetError)
	}

	if pushError := service.executeStep(executionContext, options, stepNameForcePushConstant, StepRequired, func(stepContext context.Context) error {
		return service.repositoryManager.ForcePush(stepContext, options.RepositoryPath, options.RemoteName, branchName)
	}); pushError != nil {
		return fmt.Sprintf(publishFailureReasonTemplateConstant, pushError)
	}

	return ""
}

// prepareCleanup returns a function that returns the repository to the base
// branch and removes the scratch branch. It runs on every exit path of a
// branch repair, including failures.
func (service *Service) prepareCleanup(executionContext context.Context, options RepairOptions, cleanBranchName string) func() {
	return func() {
		service.executeStep(executionContext, options, stepNameCheckoutBaseBranchConstant, StepBestEffort, func(stepContext context.Context) error {
			return service.repositoryManager.CheckoutBranch(stepContext, options.RepositoryPath, options.BaseBranch)
		})
		service.executeStep(executionContext, options, stepNameDeleteScratchBranchConstant, StepBestEffort, func(stepContext context.Context) error {
			return service.repositoryManager.DeleteBranch(stepContext, options.RepositoryPath, cleanBranchName)
		})
	}
}

// executeStep runs one git step with the per-command timeout. Failures of
// best-effort steps are logged and suppressed; required step failures are
// returned to the caller.
func (service *Service) executeStep(executionContext context.Context, options RepairOptions, stepName string, policy StepPolicy, step func(stepContext context.Context) error) error {
	stepError := service.stepTimeout(executionContext, options.CommandTimeout, step)
	if stepError == nil {
		return nil
	}
	if policy.IsRequired() {
		return stepError
	}
	service.logger.Debug(
		logMessageBestEffortStepFailedConstant,
		zap.String(logFieldStepConstant, stepName),
		zap.String(logFieldPolicyConstant, policy.String()),
		zap.Error(stepError),
	)
	return nil
}

func (service *Service) recordFailure(branchName string, status RepairStatus, selectedCommit gitrepo.Commit, failureReason string) BranchRepairResult {
	service.logger.Warn(
		logMessageRepairFailedConstant,
		zap.String(logFieldBranchConstant, branchName),
		zap.String(logFieldStatusConstant, string(status)),
		zap.String(logFieldReasonConstant, failureReason),
	)
	return BranchRepairResult{
		Branch:         branchName,
		Status:         status,
		SelectedCommit: selectedCommit,
		FailureReason:  failureReason,
	}
}

func (service *Service) stepTimeout(executionContext context.Context, timeout time.Duration, step func(stepContext context.Context) error) error {
	if timeout <= 0 {
		return step(executionContext)
	}
	stepContext, cancelStep := context.WithTimeout(executionContext, timeout)
	defer cancelStep()
	return step(stepContext)
}

func normalizeRepairOptions(options RepairOptions) (RepairOptions, error) {
	normalized := options
	normalized.RepositoryPath = strings.TrimSpace(options.RepositoryPath)
	if len(normalized.RepositoryPath) == 0 {
		return RepairOptions{}, ErrRepairRepositoryRequired
	}

	normalized.RemoteName = fallbackIfEmpty(options.RemoteName, defaultRemoteNameConstant)
	normalized.BaseBranch = fallbackIfEmpty(options.BaseBranch, defaultBaseBranchConstant)
	normalized.CleanBranchSuffix = fallbackIfEmpty(options.CleanBranchSuffix, defaultCleanBranchSuffixConstant)
	if normalized.CandidateLimit <= 0 {
		normalized.CandidateLimit = defaultCandidateLimitConstant
	}
	if normalized.CommandTimeout <= 0 {
		normalized.CommandTimeout = time.Duration(defaultCommandTimeoutSeconds) * time.Second
	}

	normalized.Targets = sanitizeTargets(options.Targets)
	if len(normalized.Targets) == 0 {
		return RepairOptions{}, ErrRepairTargetsRequired
	}

	return normalized, nil
}
