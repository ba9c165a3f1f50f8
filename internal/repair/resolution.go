package repair

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

const (
	conflictWorkspaceMissingMessageConstant = "conflict workspace not configured"
	lockfilePathMissingMessageConstant      = "lockfile path must be provided"
	resolutionContinueFailureTemplate       = "cherry-pick did not complete after resolving %s: %w"
	logMessageAcceptIncomingFailedConstant  = "could not take incoming lockfile version"
	logMessageStageFailedConstant           = "could not stage resolved lockfile"
	logFieldLockfilePathConstant            = "lockfile"
	logFieldRepositoryConstant              = "repository"
)

// Sentinel construction errors for LockfileConflictResolver.
var (
	ErrConflictWorkspaceNotConfigured = errors.New(conflictWorkspaceMissingMessageConstant)
	ErrLockfilePathMissing            = errors.New(lockfilePathMissingMessageConstant)
)

// ConflictWorkspace describes the git operations needed to resolve a conflicted cherry-pick.
type ConflictWorkspace interface {
	AcceptIncomingVersion(executionContext context.Context, repositoryPath string, filePath string) error
	StagePath(executionContext context.Context, repositoryPath string, filePath string) error
	ContinueCherryPick(executionContext context.Context, repositoryPath string) error
}

// ConflictResolver attempts to complete a conflicted cherry-pick.
type ConflictResolver interface {
	Resolve(executionContext context.Context, repositoryPath string) error
}

// LockfileConflictResolver resolves cherry-pick conflicts by taking the incoming
// version of a single lockfile and continuing the cherry-pick.
//
// Taking the incoming side and staging it are best-effort steps so that a
// conflict confined to other paths still reaches the continue attempt, which
// decides whether the resolution succeeded.
type LockfileConflictResolver struct {
	workspace    ConflictWorkspace
	lockfilePath string
	logger       *zap.Logger
}

// NewLockfileConflictResolver constructs a resolver for the named lockfile.
func NewLockfileConflictResolver(workspace ConflictWorkspace, lockfilePath string, logger *zap.Logger) (*LockfileConflictResolver, error) {
	if workspace == nil {
		return nil, ErrConflictWorkspaceNotConfigured
	}
	trimmedLockfilePath := strings.TrimSpace(lockfilePath)
	if len(trimmedLockfilePath) == 0 {
		return nil, ErrLockfilePathMissing
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LockfileConflictResolver{
		workspace:    workspace,
		lockfilePath: trimmedLockfilePath,
		logger:       logger,
	}, nil
}

// Resolve takes the incoming lockfile version, stages it, and continues the cherry-pick.
func (resolver *LockfileConflictResolver) Resolve(executionContext context.Context, repositoryPath string) error {
	if acceptError := resolver.workspace.AcceptIncomingVersion(executionContext, repositoryPath, resolver.lockfilePath); acceptError != nil {
		resolver.logger.Debug(
			logMessageAcceptIncomingFailedConstant,
			zap.String(logFieldRepositoryConstant, repositoryPath),
			zap.String(logFieldLockfilePathConstant, resolver.lockfilePath),
			zap.Error(acceptError),
		)
	}

	if stageError := resolver.workspace.StagePath(executionContext, repositoryPath, resolver.lockfilePath); stageError != nil {
		resolver.logger.Debug(
			logMessageStageFailedConstant,
			zap.String(logFieldRepositoryConstant, repositoryPath),
			zap.String(logFieldLockfilePathConstant, resolver.lockfilePath),
			zap.Error(stageError),
		)
	}

	if continueError := resolver.workspace.ContinueCherryPick(executionContext, repositoryPath); continueError != nil {
		return fmt.Errorf(resolutionContinueFailureTemplate, resolver.lockfilePath, continueError)
	}

	return nil
}
