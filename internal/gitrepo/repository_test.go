package gitrepo_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/prflow/internal/execshell"
	"github.com/temirov/prflow/internal/gitrepo"
)

const (
	testRepositoryPathConstant = "/tmp/example"
	testRemoteNameConstant     = "origin"
	testBranchNameConstant     = "feature/login"
)

type stubGitExecutor struct {
	recordedDetails []execshell.CommandDetails
	result          execshell.ExecutionResult
	executionError  error
}

func (executor *stubGitExecutor) ExecuteGit(_ context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	executor.recordedDetails = append(executor.recordedDetails, details)
	return executor.result, executor.executionError
}

func commandFailure() error {
	return execshell.CommandFailedError{
		Command: execshell.ShellCommand{Name: execshell.CommandGit},
		Result:  execshell.ExecutionResult{ExitCode: 128},
	}
}

func TestNewRepositoryManagerRequiresExecutor(testInstance *testing.T) {
	manager, creationError := gitrepo.NewRepositoryManager(nil)
	require.ErrorIs(testInstance, creationError, gitrepo.ErrExecutorNotConfigured)
	require.Nil(testInstance, manager)
}

func TestConfirmToolAvailability(testInstance *testing.T) {
	testCases := []struct {
		name           string
		executionError error
		expectError    bool
	}{
		{name: "git_available"},
		{name: "git_missing", executionError: errors.New("executable not found"), expectError: true},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			executor := &stubGitExecutor{executionError: testCase.executionError}
			manager, creationError := gitrepo.NewRepositoryManager(executor)
			require.NoError(testInstance, creationError)

			availabilityError := manager.ConfirmToolAvailability(context.Background())
			if testCase.expectError {
				require.Error(testInstance, availabilityError)
				return
			}
			require.NoError(testInstance, availabilityError)
			require.Equal(testInstance, []string{"--version"}, executor.recordedDetails[0].Arguments)
		})
	}
}

func TestIsInsideWorkTree(testInstance *testing.T) {
	testCases := []struct {
		name            string
		standardOutput  string
		executionError  error
		expectedInside  bool
		expectHardError bool
	}{
		{name: "inside_work_tree", standardOutput: "true\n", expectedInside: true},
		{name: "outside_work_tree", executionError: commandFailure(), expectedInside: false},
		{name: "runner_failure", executionError: errors.New("spawn failed"), expectHardError: true},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			executor := &stubGitExecutor{
				result:         execshell.ExecutionResult{StandardOutput: testCase.standardOutput},
				executionError: testCase.executionError,
			}
			manager, creationError := gitrepo.NewRepositoryManager(executor)
			require.NoError(testInstance, creationError)

			insideWorkTree, inspectionError := manager.IsInsideWorkTree(context.Background(), testRepositoryPathConstant)
			if testCase.expectHardError {
				require.Error(testInstance, inspectionError)
				return
			}
			require.NoError(testInstance, inspectionError)
			require.Equal(testInstance, testCase.expectedInside, insideWorkTree)
		})
	}
}

func TestGetCurrentBranch(testInstance *testing.T) {
	testCases := []struct {
		name           string
		standardOutput string
		expectedBranch string
		expectedError  error
	}{
		{name: "branch_checked_out", standardOutput: testBranchNameConstant + "\n", expectedBranch: testBranchNameConstant},
		{name: "detached_head", standardOutput: "HEAD\n", expectedError: gitrepo.ErrDetachedHead},
		{name: "empty_output", standardOutput: "", expectedError: gitrepo.ErrDetachedHead},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			executor := &stubGitExecutor{result: execshell.ExecutionResult{StandardOutput: testCase.standardOutput}}
			manager, creationError := gitrepo.NewRepositoryManager(executor)
			require.NoError(testInstance, creationError)

			branchName, resolutionError := manager.GetCurrentBranch(context.Background(), testRepositoryPathConstant)
			if testCase.expectedError != nil {
				require.ErrorIs(testInstance, resolutionError, testCase.expectedError)
				return
			}
			require.NoError(testInstance, resolutionError)
			require.Equal(testInstance, testCase.expectedBranch, branchName)
			require.Equal(testInstance, []string{"rev-parse", "--abbrev-ref", "HEAD"}, executor.recordedDetails[0].Arguments)
		})
	}
}

func TestCheckCleanWorktree(testInstance *testing.T) {
	testCases := []struct {
		name           string
		standardOutput string
		expectedClean  bool
	}{
		{name: "clean_worktree", standardOutput: "\n", expectedClean: true},
		{name: "dirty_worktree", standardOutput: " M service.go\n?? notes.txt\n", expectedClean: false},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			executor := &stubGitExecutor{result: execshell.ExecutionResult{StandardOutput: testCase.standardOutput}}
			manager, creationError := gitrepo.NewRepositoryManager(executor)
			require.NoError(testInstance, creationError)

			cleanWorktree, inspectionError := manager.CheckCleanWorktree(context.Background(), testRepositoryPathConstant)
			require.NoError(testInstance, inspectionError)
			require.Equal(testInstance, testCase.expectedClean, cleanWorktree)
			require.Equal(testInstance, []string{"status", "--porcelain"}, executor.recordedDetails[0].Arguments)
		})
	}
}

func TestStageAllChangesAndCreateCommit(testInstance *testing.T) {
	executor := &stubGitExecutor{}
	manager, creationError := gitrepo.NewRepositoryManager(executor)
	require.NoError(testInstance, creationError)

	require.NoError(testInstance, manager.StageAllChanges(context.Background(), testRepositoryPathConstant))
	require.NoError(testInstance, manager.CreateCommit(context.Background(), testRepositoryPathConstant, "Add login"))

	require.Equal(testInstance, []string{"add", "--all"}, executor.recordedDetails[0].Arguments)
	require.Equal(testInstance, []string{"commit", "-m", "Add login"}, executor.recordedDetails[1].Arguments)
	require.Equal(testInstance, testRepositoryPathConstant, executor.recordedDetails[1].WorkingDirectory)
}

func TestGetUpstreamBranch(testInstance *testing.T) {
	testCases := []struct {
		name             string
		standardOutput   string
		executionError   error
		expectedUpstream string
		expectedFound    bool
		expectHardError  bool
	}{
		{name: "upstream_configured", standardOutput: "origin/feature/login\n", expectedUpstream: "origin/feature/login", expectedFound: true},
		{name: "upstream_missing", executionError: commandFailure()},
		{name: "runner_failure", executionError: errors.New("spawn failed"), expectHardError: true},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			executor := &stubGitExecutor{
				result:         execshell.ExecutionResult{StandardOutput: testCase.standardOutput},
				executionError: testCase.executionError,
			}
			manager, creationError := gitrepo.NewRepositoryManager(executor)
			require.NoError(testInstance, creationError)

			upstreamBranch, upstreamFound, resolutionError := manager.GetUpstreamBranch(context.Background(), testRepositoryPathConstant)
			if testCase.expectHardError {
				require.Error(testInstance, resolutionError)
				return
			}
			require.NoError(testInstance, resolutionError)
			require.Equal(testInstance, testCase.expectedFound, upstreamFound)
			require.Equal(testInstance, testCase.expectedUpstream, upstreamBranch)
		})
	}
}

func TestCountCommitsAhead(testInstance *testing.T) {
	testCases := []struct {
		name           string
		standardOutput string
		expectedCount  int
		expectError    bool
	}{
		{name: "three_commits_ahead", standardOutput: "3\n", expectedCount: 3},
		{name: "in_sync", standardOutput: "0\n", expectedCount: 0},
		{name: "unparsable_count", standardOutput: "many\n", expectError: true},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			executor := &stubGitExecutor{result: execshell.ExecutionResult{StandardOutput: testCase.standardOutput}}
			manager, creationError := gitrepo.NewRepositoryManager(executor)
			require.NoError(testInstance, creationError)

			aheadCount, countError := manager.CountCommitsAhead(context.Background(), testRepositoryPathConstant, "origin/feature/login")
			if testCase.expectError {
				require.Error(testInstance, countError)
				return
			}
			require.NoError(testInstance, countError)
			require.Equal(testInstance, testCase.expectedCount, aheadCount)
			require.Equal(testInstance, []string{"rev-list", "--count", "origin/feature/login..HEAD"}, executor.recordedDetails[0].Arguments)
		})
	}
}

func TestPushBranch(testInstance *testing.T) {
	testCases := []struct {
		name              string
		establishUpstream bool
		expectedArguments []string
	}{
		{name: "push_with_upstream", establishUpstream: true, expectedArguments: []string{"push", "--set-upstream", testRemoteNameConstant, testBranchNameConstant}},
		{name: "push_existing_upstream", expectedArguments: []string{"push"}},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			executor := &stubGitExecutor{}
			manager, creationError := gitrepo.NewRepositoryManager(executor)
			require.NoError(testInstance, creationError)

			pushError := manager.PushBranch(context.Background(), testRepositoryPathConstant, testRemoteNameConstant, testBranchNameConstant, testCase.establishUpstream)
			require.NoError(testInstance, pushError)
			require.Equal(testInstance, testCase.expectedArguments, executor.recordedDetails[0].Arguments)
		})
	}
}

func TestGetRemoteURLTrimsOutput(testInstance *testing.T) {
	executor := &stubGitExecutor{result: execshell.ExecutionResult{StandardOutput: "git@github.com:octocat/example.git\n"}}
	manager, creationError := gitrepo.NewRepositoryManager(executor)
	require.NoError(testInstance, creationError)

	remoteURL, resolutionError := manager.GetRemoteURL(context.Background(), testRepositoryPathConstant, testRemoteNameConstant)
	require.NoError(testInstance, resolutionError)
	require.Equal(testInstance, "git@github.com:octocat/example.git", remoteURL)
	require.Equal(testInstance, []string{"remote", "get-url", testRemoteNameConstant}, executor.recordedDetails[0].Arguments)
}

func TestGitInvocationsDisableTerminalPrompts(testInstance *testing.T) {
	executor := &stubGitExecutor{result: execshell.ExecutionResult{StandardOutput: "true\n"}}
	manager, creationError := gitrepo.NewRepositoryManager(executor)
	require.NoError(testInstance, creationError)

	_, inspectionError := manager.IsInsideWorkTree(context.Background(), testRepositoryPathConstant)
	require.NoError(testInstance, inspectionError)
	require.Equal(testInstance, "0", executor.recordedDetails[0].EnvironmentVariables["GIT_TERMINAL_PROMPT"])
}
