package prcreate

import (
	"context"

	"github.com/temirov/prflow/internal/execshell"
	"github.com/temirov/prflow/internal/githubcli"
)

// WorkflowExecutor exposes the subset of shell execution used by the create command.
type WorkflowExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
	ExecuteGitHubCLI(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// GitRepositoryManager exposes repository-level git operations.
type GitRepositoryManager interface {
	ConfirmToolAvailability(executionContext context.Context) error
	IsInsideWorkTree(executionContext context.Context, repositoryPath string) (bool, error)
	GetCurrentBranch(executionContext context.Context, repositoryPath string) (string, error)
	CheckCleanWorktree(executionContext context.Context, repositoryPath string) (bool, error)
	StageAllChanges(executionContext context.Context, repositoryPath string) error
	CreateCommit(executionContext context.Context, repositoryPath string, commitMessage string) error
	GetUpstreamBranch(executionContext context.Context, repositoryPath string) (string, bool, error)
	CountCommitsAhead(executionContext context.Context, repositoryPath string, upstreamBranch string) (int, error)
	PushBranch(executionContext context.Context, repositoryPath string, remoteName string, branchName string, establishUpstream bool) error
	GetRemoteURL(executionContext context.Context, repositoryPath string, remoteName string) (string, error)
}

// GitHubOperations exposes the GitHub CLI operations used by the create command.
type GitHubOperations interface {
	ConfirmToolAvailability(executionContext context.Context) error
	ResolveRepoMetadata(executionContext context.Context, repositoryPath string) (githubcli.RepositoryMetadata, error)
	ListPullRequestsForBranch(executionContext context.Context, repositoryPath string, headBranch string) ([]githubcli.PullRequest, error)
	CreatePullRequest(executionContext context.Context, repositoryPath string, options githubcli.PullRequestCreateOptions) (string, error)
}

// MetadataPrompter collects interactive input for the workflow.
type MetadataPrompter interface {
	ReadRequiredLine(prompt string) (string, error)
	ReadLineWithDefault(prompt string, defaultValue string) (string, error)
	ReadMultiLine(prompt string) (string, error)
	ReadList(prompt string, defaults []string) ([]string, error)
	Confirm(prompt string) (bool, error)
}
