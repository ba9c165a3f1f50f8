package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/forgefix/prmend/internal/execshell"
)

const (
	gitExecutorMissingMessageConstant      = "git executor not configured"
	repositoryPathRequiredMessageConstant  = "repository path must be provided"
	branchNameRequiredMessageConstant      = "branch name must be provided"
	referenceRequiredMessageConstant       = "reference must be provided"
	commitHashRequiredMessageConstant      = "commit hash must be provided"
	filePathRequiredMessageConstant        = "file path must be provided"
	remoteNameRequiredMessageConstant      = "remote name must be provided"
	commitLimitInvalidMessageConstant      = "commit limit must be positive"
	requiredValueMessageConstant           = "value required"
	gitCheckoutSubcommandConstant          = "checkout"
	gitBranchSubcommandConstant            = "branch"
	gitLogSubcommandConstant               = "log"
	gitCherryPickSubcommandConstant        = "cherry-pick"
	gitAddSubcommandConstant               = "add"
	gitResetSubcommandConstant             = "reset"
	gitPushSubcommandConstant              = "push"
	gitCreateBranchFlagConstant            = "-b"
	gitForceDeleteFlagConstant             = "-D"
	gitContinueFlagConstant                = "--continue"
	gitAbortFlagConstant                   = "--abort"
	gitTheirsFlagConstant                  = "--theirs"
	gitHardFlagConstant                    = "--hard"
	gitForceFlagConstant                   = "--force"
	gitPathspecSeparatorConstant           = "--"
	gitLogCountFlagTemplateConstant        = "-%d"
	gitLogFormatFlagConstant               = "--format=%H%x09%s"
	gitNoEditorEnvironmentNameConstant     = "GIT_EDITOR"
	gitNoEditorEnvironmentValueConstant    = "true"
	commitLineFieldSeparatorConstant       = "\t"
	commitLineFieldCountConstant           = 2
	checkoutFailureTemplateConstant        = "failed to checkout %q: %w"
	branchCreationFailureTemplateConstant  = "failed to create branch %q: %w"
	branchDeletionFailureTemplateConstant  = "failed to delete branch %q: %w"
	listCommitsFailureTemplateConstant     = "failed to list commits of %q: %w"
	cherryPickFailureTemplateConstant      = "failed to cherry-pick %q: %w"
	cherryPickContinueFailureConstant      = "failed to continue cherry-pick: %w"
	cherryPickAbortFailureConstant         = "failed to abort cherry-pick: %w"
	acceptIncomingFailureTemplateConstant  = "failed to accept incoming version of %q: %w"
	stagePathFailureTemplateConstant       = "failed to stage %q: %w"
	resetHardFailureTemplateConstant       = "failed to reset to %q: %w"
	forcePushFailureTemplateConstant       = "failed to force-push %q to %q: %w"
	malformedCommitLineTemplateConstant    = "malformed commit line %s"
)

// GitExecutor describes the git execution capability required by RepositoryManager.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// Sentinel validation errors.
var (
	ErrGitExecutorNotConfigured = errors.New(gitExecutorMissingMessageConstant)
	ErrRepositoryPathRequired   = errors.New(repositoryPathRequiredMessageConstant)
	ErrBranchNameRequired       = errors.New(branchNameRequiredMessageConstant)
	ErrReferenceRequired        = errors.New(referenceRequiredMessageConstant)
	ErrCommitHashRequired       = errors.New(commitHashRequiredMessageConstant)
	ErrFilePathRequired         = errors.New(filePathRequiredMessageConstant)
	ErrRemoteNameRequired       = errors.New(remoteNameRequiredMessageConstant)
	ErrCommitLimitInvalid       = errors.New(commitLimitInvalidMessageConstant)
)

// Commit pairs a commit hash with its subject line.
type Commit struct {
	Hash    string
	Subject string
}

// RepositoryManager performs branch and history operations against a git repository.
type RepositoryManager struct {
	gitExecutor GitExecutor
}

// NewRepositoryManager constructs a RepositoryManager around the provided executor.
func NewRepositoryManager(gitExecutor GitExecutor) (*RepositoryManager, error) {
	if gitExecutor == nil {
		return nil, ErrGitExecutorNotConfigured
	}
	return &RepositoryManager{gitExecutor: gitExecutor}, nil
}

// CheckoutBranch switches the repository to the named branch.
func (manager *RepositoryManager) CheckoutBranch(executionContext context.Context, repositoryPath string, branchName string) error {
	trimmedRepositoryPath, trimmedBranchName, validationError := validatePathAndBranch(repositoryPath, branchName)
	if validationError != nil {
		return validationError
	}

	_, executionError := manager.gitExecutor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitCheckoutSubcommandConstant, trimmedBranchName},
		WorkingDirectory: trimmedRepositoryPath,
	})
	if executionError != nil {
		return fmt.Errorf(checkoutFailureTemplateConstant, trimmedBranchName, executionError)
	}
	return nil
}

// CreateBranch creates and checks out a branch, optionally from an explicit start point.
func (manager *RepositoryManager) CreateBranch(executionContext context.Context, repositoryPath string, branchName string, startPoint string) error {
	trimmedRepositoryPath, trimmedBranchName, validationError := validatePathAndBranch(repositoryPath, branchName)
	if validationError != nil {
		return validationError
	}

	arguments := []string{gitCheckoutSubcommandConstant, gitCreateBranchFlagConstant, trimmedBranchName}
	trimmedStartPoint := strings.TrimSpace(startPoint)
	if len(trimmedStartPoint) > 0 {
		arguments = append(arguments, trimmedStartPoint)
	}

	_, executionError := manager.gitExecutor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        arguments,
		WorkingDirectory: trimmedRepositoryPath,
	})
	if executionError != nil {
		return fmt.Errorf(branchCreationFailureTemplateConstant, trimmedBranchName, executionError)
	}
	return nil
}

// DeleteBranch force-deletes a local branch.
func (manager *RepositoryManager) DeleteBranch(executionContext context.Context, repositoryPath string, branchName string) error {
	trimmedRepositoryPath, trimmedBranchName, validationError := validatePathAndBranch(repositoryPath, branchName)
	if validationError != nil {
		return validationError
	}

	_, executionError := manager.gitExecutor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitBranchSubcommandConstant, gitForceDeleteFlagConstant, trimmedBranchName},
		WorkingDirectory: trimmedRepositoryPath,
	})
	if executionError != nil {
		return fmt.Errorf(branchDeletionFailureTemplateConstant, trimmedBranchName, executionError)
	}
	return nil
}

// ListRecentCommits returns the newest commits reachable from the reference, newest first.
func (manager *RepositoryManager) ListRecentCommits(executionContext context.Context, repositoryPath string, reference string, limit int) ([]Commit, error) {
	trimmedRepositoryPath := strings.TrimSpace(repositoryPath)
	if len(trimmedRepositoryPath) == 0 {
		return nil, ErrRepositoryPathRequired
	}
	trimmedReference := strings.TrimSpace(reference)
	if len(trimmedReference) == 0 {
		return nil, ErrReferenceRequired
	}
	if limit <= 0 {
		return nil, ErrCommitLimitInvalid
	}

	executionResult, executionError := manager.gitExecutor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments: []string{
			gitLogSubcommandConstant,
			fmt.Sprintf(gitLogCountFlagTemplateConstant, limit),
			gitLogFormatFlagConstant,
			trimmedReference,
		},
		WorkingDirectory: trimmedRepositoryPath,
	})
	if executionError != nil {
		return nil, fmt.Errorf(listCommitsFailureTemplateConstant, trimmedReference, executionError)
	}

	return parseCommitLines(executionResult.StandardOutput)
}

// CherryPick applies the named commit onto the current branch.
func (manager *RepositoryManager) CherryPick(executionContext context.Context, repositoryPath string, commitHash string) error {
	trimmedRepositoryPath := strings.TrimSpace(repositoryPath)
	if len(trimmedRepositoryPath) == 0 {
		return ErrRepositoryPathRequired
	}
	trimmedCommitHash := strings.TrimSpace(commitHash)
	if len(trimmedCommitHash) == 0 {
		return ErrCommitHashRequired
	}

	_, executionError := manager.gitExecutor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitCherryPickSubcommandConstant, trimmedCommitHash},
		WorkingDirectory: trimmedRepositoryPath,
	})
	if executionError != nil {
		return fmt.Errorf(cherryPickFailureTemplateConstant, trimmedCommitHash, executionError)
	}
	return nil
}

// ContinueCherryPick resumes an in-progress cherry-pick after conflicts were staged.
func (manager *RepositoryManager) ContinueCherryPick(executionContext context.Context, repositoryPath string) error {
	trimmedRepositoryPath := strings.TrimSpace(repositoryPath)
	if len(trimmedRepositoryPath) == 0 {
		return ErrRepositoryPathRequired
	}

	_, executionError := manager.gitExecutor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitCherryPickSubcommandConstant, gitContinueFlagConstant},
		WorkingDirectory: trimmedRepositoryPath,
		EnvironmentVariables: map[string]string{
			gitNoEditorEnvironmentNameConstant: gitNoEditorEnvironmentValueConstant,
		},
	})
	if executionError != nil {
		return fmt.Errorf(cherryPickContinueFailureConstant, executionError)
	}
	return nil
}

// AbortCherryPick abandons an in-progress cherry-pick and restores the previous state.
func (manager *RepositoryManager) AbortCherryPick(executionContext context.Context, repositoryPath string) error {
	trimmedRepositoryPath := strings.TrimSpace(repositoryPath)
	if len(trimmedRepositoryPath) == 0 {
		return ErrRepositoryPathRequired
	}

	_, executionError := manager.gitExecutor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitCherryPickSubcommandConstant, gitAbortFlagConstant},
		WorkingDirectory: trimmedRepositoryPath,
	})
	if executionError != nil {
		return fmt.Errorf(cherryPickAbortFailureConstant, executionError)
	}
	return nil
}

// AcceptIncomingVersion resolves a conflicted path by taking the incoming side.
func (manager *RepositoryManager) AcceptIncomingVersion(executionContext context.Context, repositoryPath string, filePath string) error {
	trimmedRepositoryPath, trimmedFilePath, validationError := validatePathAndFile(repositoryPath, filePath)
	if validationError != nil {
		return validationError
	}

	_, executionError := manager.gitExecutor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitCheckoutSubcommandConstant, gitTheirsFlagConstant, gitPathspecSeparatorConstant, trimmedFilePath},
		WorkingDirectory: trimmedRepositoryPath,
	})
	if executionError != nil {
		return fmt.Errorf(acceptIncomingFailureTemplateConstant, trimmedFilePath, executionError)
	}
	return nil
}

// StagePath adds the named path to the index.
func (manager *RepositoryManager) StagePath(executionContext context.Context, repositoryPath string, filePath string) error {
	trimmedRepositoryPath, trimmedFilePath, validationError := validatePathAndFile(repositoryPath, filePath)
	if validationError != nil {
		return validationError
	}

	_, executionError := manager.gitExecutor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitAddSubcommandConstant, gitPathspecSeparatorConstant, trimmedFilePath},
		WorkingDirectory: trimmedRepositoryPath,
	})
	if executionError != nil {
		return fmt.Errorf(stagePathFailureTemplateConstant, trimmedFilePath, executionError)
	}
	return nil
}

// ResetHard moves the current branch to the reference and discards local changes.
func (manager *RepositoryManager) ResetHard(executionContext context.Context, repositoryPath string, reference string) error {
	trimmedRepositoryPath := strings.TrimSpace(repositoryPath)
	if len(trimmedRepositoryPath) == 0 {
		return ErrRepositoryPathRequired
	}
	trimmedReference := strings.TrimSpace(reference)
	if len(trimmedReference) == 0 {
		return ErrReferenceRequired
	}

	_, executionError := manager.gitExecutor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitResetSubcommandConstant, gitHardFlagConstant, trimmedReference},
		WorkingDirectory: trimmedRepositoryPath,
	})
	if executionError != nil {
		return fmt.Errorf(resetHardFailureTemplateConstant, trimmedReference, executionError)
	}
	return nil
}

// ForcePush overwrites the remote branch with the local branch state.
func (manager *RepositoryManager) ForcePush(executionContext context.Context, repositoryPath string, remoteName string, branchName string) error {
	trimmedRepositoryPath, trimmedBranchName, validationError := validatePathAndBranch(repositoryPath, branchName)
	if validationError != nil {
		return validationError
	}
	trimmedRemoteName := strings.TrimSpace(remoteName)
	if len(trimmedRemoteName) == 0 {
		return ErrRemoteNameRequired
	}

	_, executionError := manager.gitExecutor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitPushSubcommandConstant, gitForceFlagConstant, trimmedRemoteName, trimmedBranchName},
		WorkingDirectory: trimmedRepositoryPath,
	})
	if executionError != nil {
		return fmt.Errorf(forcePushFailureTemplateConstant, trimmedBranchName, trimmedRemoteName, executionError)
	}
	return nil
}

func validatePathAndBranch(repositoryPath string, branchName string) (string, string, error) {
	trimmedRepositoryPath := strings.TrimSpace(repositoryPath)
	if len(trimmedRepositoryPath) == 0 {
		return "", "", ErrRepositoryPathRequired
	}
	trimmedBranchName := strings.TrimSpace(branchName)
	if len(trimmedBranchName) == 0 {
		return "", "", ErrBranchNameRequired
	}
	return trimmedRepositoryPath, trimmedBranchName, nil
}

func validatePathAndFile(repositoryPath string, filePath string) (string, string, error) {
	trimmedRepositoryPath := strings.TrimSpace(repositoryPath)
	if len(trimmedRepositoryPath) == 0 {
		return "", "", ErrRepositoryPathRequired
	}
	trimmedFilePath := strings.TrimSpace(filePath)
	if len(trimmedFilePath) == 0 {
		return "", "", ErrFilePathRequired
	}
	return trimmedRepositoryPath, trimmedFilePath, nil
}

func parseCommitLines(logOutput string) ([]Commit, error) {
	trimmedOutput := strings.TrimSpace(logOutput)
	if len(trimmedOutput) == 0 {
		return nil, nil
	}

	outputLines := strings.Split(trimmedOutput, "\n")
	commits := make([]Commit, 0, len(outputLines))
	for _, outputLine := range outputLines {
		normalizedLine := strings.TrimRight(outputLine, "\r")
		if len(strings.TrimSpace(normalizedLine)) == 0 {
			continue
		}

		lineFields := strings.SplitN(normalizedLine, commitLineFieldSeparatorConstant, commitLineFieldCountConstant)
		commitHash := strings.TrimSpace(lineFields[0])
		if len(commitHash) == 0 {
			return nil, fmt.Errorf(malformedCommitLineTemplateConstant, strconv.Quote(normalizedLine))
		}

		commitSubject := ""
		if len(lineFields) == commitLineFieldCountConstant {
			commitSubject = strings.TrimSpace(lineFields[1])
		}

		commits = append(commits, Commit{Hash: commitHash, Subject: commitSubject})
	}

	return commits, nil
}
