package repair_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/forgefix/prmend/internal/repair"
)

const (
	testResolutionRepositoryPathConstant = "/srv/checkouts/service"
	testResolutionLockfileConstant       = "Cargo.lock"
)

type fakeConflictWorkspace struct {
	acceptError    error
	stageError     error
	continueError  error
	acceptedPaths  []string
	stagedPaths    []string
	continueCalled int
}

func (workspace *fakeConflictWorkspace) AcceptIncomingVersion(executionContext context.Context, repositoryPath string, filePath string) error {
	workspace.acceptedPaths = append(workspace.acceptedPaths, filePath)
	return workspace.acceptError
}

func (workspace *fakeConflictWorkspace) StagePath(executionContext context.Context, repositoryPath string, filePath string) error {
	workspace.stagedPaths = append(workspace.stagedPaths, filePath)
	return workspace.stageError
}

func (workspace *fakeConflictWorkspace) ContinueCherryPick(executionContext context.Context, repositoryPath string) error {
	workspace.continueCalled++
	return workspace.continueError
}

func TestNewLockfileConflictResolverValidation(testInstance *testing.T) {
	resolver, creationError := repair.NewLockfileConflictResolver(nil, testResolutionLockfileConstant, zap.NewNop())
	require.ErrorIs(testInstance, creationError, repair.ErrConflictWorkspaceNotConfigured)
	require.Nil(testInstance, resolver)

	resolver, creationError = repair.NewLockfileConflictResolver(&fakeConflictWorkspace{}, "  ", zap.NewNop())
	require.ErrorIs(testInstance, creationError, repair.ErrLockfilePathMissing)
	require.Nil(testInstance, resolver)
}

func TestLockfileConflictResolverResolve(testInstance *testing.T) {
	continueFailure := errors.New("unresolved conflicts remain")

	testCases := []struct {
		name        string
		workspace   *fakeConflictWorkspace
		expectError bool
	}{
		{
			name:      "resolution_succeeds",
			workspace: &fakeConflictWorkspace{},
		},
		{
			name: "accept_and_stage_failures_are_tolerated",
			workspace: &fakeConflictWorkspace{
				acceptError: errors.New("pathspec did not match"),
				stageError:  errors.New("nothing to add"),
			},
		},
		{
			name:        "continue_failure_propagates",
			workspace:   &fakeConflictWorkspace{continueError: continueFailure},
			expectError: true,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			resolver, creationError := repair.NewLockfileConflictResolver(testCase.workspace, testResolutionLockfileConstant, zap.NewNop())
			require.NoError(testInstance, creationError)

			resolutionError := resolver.Resolve(context.Background(), testResolutionRepositoryPathConstant)

			require.Equal(testInstance, []string{testResolutionLockfileConstant}, testCase.workspace.acceptedPaths)
			require.Equal(testInstance, []string{testResolutionLockfileConstant}, testCase.workspace.stagedPaths)
			require.Equal(testInstance, 1, testCase.workspace.continueCalled)

			if testCase.expectError {
				require.ErrorIs(testInstance, resolutionError, continueFailure)
				return
			}
			require.NoError(testInstance, resolutionError)
		})
	}
}
