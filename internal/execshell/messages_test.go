package execshell

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	testMessagesWorkingDirectoryConstant = "/tmp/example"
)

func TestCommandMessageFormatterDescribesKnownCommands(testInstance *testing.T) {
	formatter := CommandMessageFormatter{}

	testCases := []struct {
		name            string
		command         ShellCommand
		result          ExecutionResult
		expectedStart   string
		expectedSuccess string
	}{
		{
			name: "worktree_probe",
			command: ShellCommand{
				Name:    CommandGit,
				Details: CommandDetails{Arguments: []string{"rev-parse", "--is-inside-work-tree"}, WorkingDirectory: testMessagesWorkingDirectoryConstant},
			},
			expectedStart:   "Analyzing repository at /tmp/example",
			expectedSuccess: "/tmp/example is a Git repository",
		},
		{
			name: "current_branch",
			command: ShellCommand{
				Name:    CommandGit,
				Details: CommandDetails{Arguments: []string{"rev-parse", "--abbrev-ref", "HEAD"}, WorkingDirectory: testMessagesWorkingDirectoryConstant},
			},
			result:          ExecutionResult{StandardOutput: "feature/login\n"},
			expectedStart:   "Identifying current branch in /tmp/example",
			expectedSuccess: "Current branch in /tmp/example is feature/login",
		},
		{
			name: "upstream_missing",
			command: ShellCommand{
				Name:    CommandGit,
				Details: CommandDetails{Arguments: []string{"rev-parse", "--abbrev-ref", "--symbolic-full-name", "@{u}"}, WorkingDirectory: testMessagesWorkingDirectoryConstant},
			},
			expectedStart:   "Checking upstream branch configuration in /tmp/example",
			expectedSuccess: "No upstream branch configured in /tmp/example",
		},
		{
			name: "commit",
			command: ShellCommand{
				Name:    CommandGit,
				Details: CommandDetails{Arguments: []string{"commit", "-m", "add login form"}, WorkingDirectory: testMessagesWorkingDirectoryConstant},
			},
			expectedStart:   "Creating commit in /tmp/example with message \"add login form\"",
			expectedSuccess: "Created commit in /tmp/example with message \"add login form\"",
		},
		{
			name: "push_with_upstream",
			command: ShellCommand{
				Name:    CommandGit,
				Details: CommandDetails{Arguments: []string{"push", "--set-upstream", "origin", "feature/login"}, WorkingDirectory: testMessagesWorkingDirectoryConstant},
			},
			expectedStart:   "Pushing feature/login to origin from /tmp/example",
			expectedSuccess: "Pushed feature/login to origin from /tmp/example",
		},
		{
			name: "pull_request_create",
			command: ShellCommand{
				Name:    CommandGitHub,
				Details: CommandDetails{Arguments: []string{"pr", "create", "--base", "main", "--head", "feature/login", "--title", "Add login"}},
			},
			expectedStart:   "Creating pull request \"Add login\" from feature/login into main",
			expectedSuccess: "Created pull request \"Add login\" from feature/login into main",
		},
		{
			name: "tool_probe",
			command: ShellCommand{
				Name:    CommandGitHub,
				Details: CommandDetails{Arguments: []string{"--version"}},
			},
			expectedStart:   "Checking availability of gh",
			expectedSuccess: "gh is available",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			require.Equal(testInstance, testCase.expectedStart, formatter.BuildStartedMessage(testCase.command))

			successCommand := testCase.command
			successMessage := formatter.buildMessage(successCommand, testCase.result, nil, messageStageSuccess)
			require.Equal(testInstance, testCase.expectedSuccess, successMessage)
		})
	}
}

func TestCommandMessageFormatterFailureIncludesStandardError(testInstance *testing.T) {
	formatter := CommandMessageFormatter{}
	command := ShellCommand{
		Name:    CommandGit,
		Details: CommandDetails{Arguments: []string{"push"}, WorkingDirectory: testMessagesWorkingDirectoryConstant},
	}
	result := ExecutionResult{ExitCode: 1, StandardError: "rejected"}

	failureMessage := formatter.BuildFailureMessage(command, result)
	require.Contains(testInstance, failureMessage, "exit code 1")
	require.Contains(testInstance, failureMessage, "rejected")
}

func TestCommandMessageFormatterFallsBackToGenericLabel(testInstance *testing.T) {
	formatter := CommandMessageFormatter{}
	command := ShellCommand{
		Name:    CommandGit,
		Details: CommandDetails{Arguments: []string{"stash"}, WorkingDirectory: testMessagesWorkingDirectoryConstant},
	}

	require.Equal(testInstance, "Running git stash (in /tmp/example)", formatter.BuildStartedMessage(command))
}
