package gitrepo_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/forgefix/prmend/internal/execshell"
	"github.com/forgefix/prmend/internal/gitrepo"
)

const (
	testRepositoryPathConstant = "/srv/checkouts/service"
	testBranchNameConstant     = "feature/add-server-components-tests"
	testCleanBranchNameConstant = "feature/add-server-components-tests-clean"
	testRemoteNameConstant     = "origin"
	testCommitHashConstant     = "7c503781f0f1"
	testLockfileNameConstant   = "Cargo.lock"
)

type stubGitExecutor struct {
	executionResult  execshell.ExecutionResult
	executionError   error
	recordedDetails  []execshell.CommandDetails
}

func (executor *stubGitExecutor) ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	executor.recordedDetails = append(executor.recordedDetails, details)
	return executor.executionResult, executor.executionError
}

func TestNewRepositoryManagerValidation(testInstance *testing.T) {
	manager, creationError := gitrepo.NewRepositoryManager(nil)
	require.ErrorIs(testInstance, creationError, gitrepo.ErrGitExecutorNotConfigured)
	require.Nil(testInstance, manager)
}

func TestRepositoryManagerCommandArguments(testInstance *testing.T) {
	testCases := []struct {
		name              string
		invoke            func(manager *gitrepo.RepositoryManager, executionContext context.Context) error
		expectedArguments []string
	}{
		{
			name: "checkout_branch",
			invoke: func(manager *gitrepo.RepositoryManager, executionContext context.Context) error {
				return manager.CheckoutBranch(executionContext, testRepositoryPathConstant, testBranchNameConstant)
			},
			expectedArguments: []string{"checkout", testBranchNameConstant},
		},
		{
			name: "create_branch_from_start_point",
			invoke: func(manager *gitrepo.RepositoryManager, executionContext context.Context) error {
				return manager.CreateBranch(executionContext, testRepositoryPathConstant, testCleanBranchNameConstant, "main")
			},
			expectedArguments: []string{"checkout", "-b", testCleanBranchNameConstant, "main"},
		},
		{
			name: "create_branch_from_head",
			invoke: func(manager *gitrepo.RepositoryManager, executionContext context.Context) error {
				return manager.CreateBranch(executionContext, testRepositoryPathConstant, testCleanBranchNameConstant, "")
			},
			expectedArguments: []string{"checkout", "-b", testCleanBranchNameConstant},
		},
		{
			name: "delete_branch",
			invoke: func(manager *gitrepo.RepositoryManager, executionContext context.Context) error {
				return manager.DeleteBranch(executionContext, testRepositoryPathConstant, testCleanBranchNameConstant)
			},
			expectedArguments: []string{"branch", "-D", testCleanBranchNameConstant},
		},
		{
			name: "cherry_pick",
			invoke: func(manager *gitrepo.RepositoryManager, executionContext context.Context) error {
				return manager.CherryPick(executionContext, testRepositoryPathConstant, testCommitHashConstant)
			},
			expectedArguments: []string{"cherry-pick", testCommitHashConstant},
		},
		{
			name: "continue_cherry_pick",
			invoke: func(manager *gitrepo.RepositoryManager, executionContext context.Context) error {
				return manager.ContinueCherryPick(executionContext, testRepositoryPathConstant)
			},
			expectedArguments: []string{"cherry-pick", "--continue"},
		},
		{
			name: "abort_cherry_pick",
			invoke: func(manager *gitrepo.RepositoryManager, executionContext context.Context) error {
				return manager.AbortCherryPick(executionContext, testRepositoryPathConstant)
			},
			expectedArguments: []string{"cherry-pick", "--abort"},
		},
		{
			name: "accept_incoming_version",
			invoke: func(manager *gitrepo.RepositoryManager, executionContext context.Context) error {
				return manager.AcceptIncomingVersion(executionContext, testRepositoryPathConstant, testLockfileNameConstant)
			},
			expectedArguments: []string{"checkout", "--theirs", "--", testLockfileNameConstant},
		},
		{
			name: "stage_path",
			invoke: func(manager *gitrepo.RepositoryManager, executionContext context.Context) error {
				return manager.StagePath(executionContext, testRepositoryPathConstant, testLockfileNameConstant)
			},
			expectedArguments: []string{"add", "--", testLockfileNameConstant},
		},
		{
			name: "reset_hard",
			invoke: func(manager *gitrepo.RepositoryManager, executionContext context.Context) error {
				return manager.ResetHard(executionContext, testRepositoryPathConstant, testCleanBranchNameConstant)
			},
			expectedArguments: []string{"reset", "--hard", testCleanBranchNameConstant},
		},
		{
			name: "force_push",
			invoke: func(manager *gitrepo.RepositoryManager, executionContext context.Context) error {
				return manager.ForcePush(executionContext, testRepositoryPathConstant, testRemoteNameConstant, testBranchNameConstant)
			},
			expectedArguments: []string{"push", "--force", testRemoteNameConstant, testBranchNameConstant},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			executor := &stubGitExecutor{}
			manager, creationError := gitrepo.NewRepositoryManager(executor)
			require.NoError(testInstance, creationError)

			invocationError := testCase.invoke(manager, context.Background())
			require.NoError(testInstance, invocationError)

			require.Len(testInstance, executor.recordedDetails, 1)
			require.Equal(testInstance, testCase.expectedArguments, executor.recordedDetails[0].Arguments)
			require.Equal(testInstance, testRepositoryPathConstant, executor.recordedDetails[0].WorkingDirectory)
		})
	}
}

func TestRepositoryManagerValidationErrors(testInstance *testing.T) {
	executor := &stubGitExecutor{}
	manager, creationError := gitrepo.NewRepositoryManager(executor)
	require.NoError(testInstance, creationError)

	executionContext := context.Background()

	require.ErrorIs(testInstance, manager.CheckoutBranch(executionContext, "", testBranchNameConstant), gitrepo.ErrRepositoryPathRequired)
	require.ErrorIs(testInstance, manager.CheckoutBranch(executionContext, testRepositoryPathConstant, "  "), gitrepo.ErrBranchNameRequired)
	require.ErrorIs(testInstance, manager.CherryPick(executionContext, testRepositoryPathConstant, ""), gitrepo.ErrCommitHashRequired)
	require.ErrorIs(testInstance, manager.AcceptIncomingVersion(executionContext, testRepositoryPathConstant, ""), gitrepo.ErrFilePathRequired)
	require.ErrorIs(testInstance, manager.ForcePush(executionContext, testRepositoryPathConstant, " ", testBranchNameConstant), gitrepo.ErrRemoteNameRequired)

	_, listError := manager.ListRecentCommits(executionContext, testRepositoryPathConstant, "origin/"+testBranchNameConstant, 0)
	require.ErrorIs(testInstance, listError, gitrepo.ErrCommitLimitInvalid)

	require.Empty(testInstance, executor.recordedDetails)
}

func TestRepositoryManagerListRecentCommits(testInstance *testing.T) {
	executor := &stubGitExecutor{
		executionResult: execshell.ExecutionResult{
			StandardOutput: "7c503781\tfeat: add server component tests\n69f2d0a2\tUpdate Cargo.lock\n1a2b3c4d\t\n",
		},
	}
	manager, creationError := gitrepo.NewRepositoryManager(executor)
	require.NoError(testInstance, creationError)

	commits, listError := manager.ListRecentCommits(context.Background(), testRepositoryPathConstant, "origin/"+testBranchNameConstant, 10)
	require.NoError(testInstance, listError)
	require.Equal(testInstance, []gitrepo.Commit{
		{Hash: "7c503781", Subject: "feat: add server component tests"},
		{Hash: "69f2d0a2", Subject: "Update Cargo.lock"},
		{Hash: "1a2b3c4d", Subject: ""},
	}, commits)

	require.Len(testInstance, executor.recordedDetails, 1)
	require.Equal(testInstance, []string{"log", "-10", "--format=%H%x09%s", "origin/" + testBranchNameConstant}, executor.recordedDetails[0].Arguments)
}

func TestRepositoryManagerPropagatesExecutorFailures(testInstance *testing.T) {
	executorFailure := errors.New("git exited with code 1")
	executor := &stubGitExecutor{executionError: executorFailure}
	manager, creationError := gitrepo.NewRepositoryManager(executor)
	require.NoError(testInstance, creationError)

	cherryPickError := manager.CherryPick(context.Background(), testRepositoryPathConstant, testCommitHashConstant)
	require.ErrorIs(testInstance, cherryPickError, executorFailure)
}
