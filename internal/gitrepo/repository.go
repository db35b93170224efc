package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/temirov/prflow/internal/execshell"
)

const (
	executorNotConfiguredMessageConstant    = "git executor not configured"
	detachedHeadMessageConstant             = "repository is in a detached HEAD state"
	requiredValueMessageConstant            = "value required"
	gitVersionFlagConstant                  = "--version"
	gitRevParseSubcommandConstant           = "rev-parse"
	gitRevListSubcommandConstant            = "rev-list"
	gitStatusSubcommandConstant             = "status"
	gitAddSubcommandConstant                = "add"
	gitCommitSubcommandConstant             = "commit"
	gitPushSubcommandConstant               = "push"
	gitRemoteSubcommandConstant             = "remote"
	gitRemoteGetURLSubcommandConstant       = "get-url"
	gitInsideWorkTreeFlagConstant           = "--is-inside-work-tree"
	gitAbbrevRefFlagConstant                = "--abbrev-ref"
	gitSymbolicFullNameFlagConstant         = "--symbolic-full-name"
	gitUpstreamReferenceConstant            = "@{u}"
	gitHeadReferenceConstant                = "HEAD"
	gitPorcelainFlagConstant                = "--porcelain"
	gitAddAllFlagConstant                   = "--all"
	gitMessageFlagConstant                  = "-m"
	gitCountFlagConstant                    = "--count"
	gitSetUpstreamFlagConstant              = "--set-upstream"
	gitAheadRangeTemplateConstant           = "%s..HEAD"
	insideWorkTreeAffirmativeOutputConstant = "true"
	toolProbeFailureTemplateConstant        = "git is not available: %w"
	currentBranchFailureTemplateConstant    = "failed to resolve current branch: %w"
	worktreeStatusFailureTemplateConstant   = "failed to inspect worktree status: %w"
	stageChangesFailureTemplateConstant     = "failed to stage changes: %w"
	createCommitFailureTemplateConstant     = "failed to create commit: %w"
	aheadCountFailureTemplateConstant       = "failed to count unpushed commits: %w"
	aheadCountParseFailureTemplateConstant  = "failed to parse unpushed commit count %q: %w"
	pushBranchFailureTemplateConstant       = "failed to push branch: %w"
	remoteURLFailureTemplateConstant        = "failed to read remote %q: %w"
	gitTerminalPromptEnvironmentName        = "GIT_TERMINAL_PROMPT"
	gitTerminalPromptEnvironmentDisable     = "0"
)

// ErrExecutorNotConfigured indicates the manager was constructed without an executor.
var ErrExecutorNotConfigured = errors.New(executorNotConfiguredMessageConstant)

// ErrDetachedHead indicates no branch is checked out in the repository.
var ErrDetachedHead = errors.New(detachedHeadMessageConstant)

// GitCommandExecutor is the minimal interface required from execshell.ShellExecutor.
type GitCommandExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// RepositoryManager coordinates git invocations for a single repository.
type RepositoryManager struct {
	executor GitCommandExecutor
}

// NewRepositoryManager constructs a RepositoryManager around the provided executor.
func NewRepositoryManager(executor GitCommandExecutor) (*RepositoryManager, error) {
	if executor == nil {
		return nil, ErrExecutorNotConfigured
	}
	return &RepositoryManager{executor: executor}, nil
}

// ConfirmToolAvailability verifies the git executable is installed and reachable.
func (manager *RepositoryManager) ConfirmToolAvailability(executionContext context.Context) error {
	_, executionError := manager.executeGit(executionContext, execshell.CommandDetails{
		Arguments: []string{gitVersionFlagConstant},
	})
	if executionError != nil {
		return fmt.Errorf(toolProbeFailureTemplateConstant, executionError)
	}
	return nil
}

// IsInsideWorkTree reports whether the supplied directory lives inside a git work tree.
func (manager *RepositoryManager) IsInsideWorkTree(executionContext context.Context, repositoryPath string) (bool, error) {
	executionResult, executionError := manager.executeGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitRevParseSubcommandConstant, gitInsideWorkTreeFlagConstant},
		WorkingDirectory: repositoryPath,
	})
	if executionError != nil {
		failedError := execshell.CommandFailedError{}
		if errors.As(executionError, &failedError) {
			return false, nil
		}
		return false, executionError
	}

	return strings.TrimSpace(executionResult.StandardOutput) == insideWorkTreeAffirmativeOutputConstant, nil
}

// GetCurrentBranch resolves the branch currently checked out in the repository.
func (manager *RepositoryManager) GetCurrentBranch(executionContext context.Context, repositoryPath string) (string, error) {
	executionResult, executionError := manager.executeGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitRevParseSubcommandConstant, gitAbbrevRefFlagConstant, gitHeadReferenceConstant},
		WorkingDirectory: repositoryPath,
	})
	if executionError != nil {
		return "", fmt.Errorf(currentBranchFailureTemplateConstant, executionError)
	}

	branchName := strings.TrimSpace(executionResult.StandardOutput)
	if len(branchName) == 0 || strings.EqualFold(branchName, gitHeadReferenceConstant) {
		return "", ErrDetachedHead
	}
	return branchName, nil
}

// CheckCleanWorktree reports whether the repository has no uncommitted modifications.
func (manager *RepositoryManager) CheckCleanWorktree(executionContext context.Context, repositoryPath string) (bool, error) {
	executionResult, executionError := manager.executeGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitStatusSubcommandConstant, gitPorcelainFlagConstant},
		WorkingDirectory: repositoryPath,
	})
	if executionError != nil {
		return false, fmt.Errorf(worktreeStatusFailureTemplateConstant, executionError)
	}

	return len(strings.TrimSpace(executionResult.StandardOutput)) == 0, nil
}

// StageAllChanges stages every outstanding modification in the repository.
func (manager *RepositoryManager) StageAllChanges(executionContext context.Context, repositoryPath string) error {
	_, executionError := manager.executeGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitAddSubcommandConstant, gitAddAllFlagConstant},
		WorkingDirectory: repositoryPath,
	})
	if executionError != nil {
		return fmt.Errorf(stageChangesFailureTemplateConstant, executionError)
	}
	return nil
}

// CreateCommit records staged changes under the supplied commit message.
func (manager *RepositoryManager) CreateCommit(executionContext context.Context, repositoryPath string, commitMessage string) error {
	_, executionError := manager.executeGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitCommitSubcommandConstant, gitMessageFlagConstant, commitMessage},
		WorkingDirectory: repositoryPath,
	})
	if executionError != nil {
		return fmt.Errorf(createCommitFailureTemplateConstant, executionError)
	}
	return nil
}

// GetUpstreamBranch resolves the tracking branch for the current branch when one is configured.
func (manager *RepositoryManager) GetUpstreamBranch(executionContext context.Context, repositoryPath string) (string, bool, error) {
	executionResult, executionError := manager.executeGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitRevParseSubcommandConstant, gitAbbrevRefFlagConstant, gitSymbolicFullNameFlagConstant, gitUpstreamReferenceConstant},
		WorkingDirectory: repositoryPath,
	})
	if executionError != nil {
		failedError := execshell.CommandFailedError{}
		if errors.As(executionError, &failedError) {
			return "", false, nil
		}
		return "", false, executionError
	}

	upstreamBranch := strings.TrimSpace(executionResult.StandardOutput)
	if len(upstreamBranch) == 0 {
		return "", false, nil
	}
	return upstreamBranch, true, nil
}

// CountCommitsAhead reports how many local commits are missing from the upstream branch.
func (manager *RepositoryManager) CountCommitsAhead(executionContext context.Context, repositoryPath string, upstreamBranch string) (int, error) {
	executionResult, executionError := manager.executeGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitRevListSubcommandConstant, gitCountFlagConstant, fmt.Sprintf(gitAheadRangeTemplateConstant, upstreamBranch)},
		WorkingDirectory: repositoryPath,
	})
	if executionError != nil {
		return 0, fmt.Errorf(aheadCountFailureTemplateConstant, executionError)
	}

	countText := strings.TrimSpace(executionResult.StandardOutput)
	aheadCount, parseError := strconv.Atoi(countText)
	if parseError != nil {
		return 0, fmt.Errorf(aheadCountParseFailureTemplateConstant, countText, parseError)
	}
	return aheadCount, nil
}

// PushBranch publishes the branch to the remote, optionally creating the tracking branch.
func (manager *RepositoryManager) PushBranch(executionContext context.Context, repositoryPath string, remoteName string, branchName string, establishUpstream bool) error {
	arguments := []string{gitPushSubcommandConstant}
	if establishUpstream {
		arguments = append(arguments, gitSetUpstreamFlagConstant, remoteName, branchName)
	}

	_, executionError := manager.executeGit(executionContext, execshell.CommandDetails{
		Arguments:        arguments,
		WorkingDirectory: repositoryPath,
	})
	if executionError != nil {
		return fmt.Errorf(pushBranchFailureTemplateConstant, executionError)
	}
	return nil
}

// GetRemoteURL reads the textual URL configured for the supplied remote.
func (manager *RepositoryManager) GetRemoteURL(executionContext context.Context, repositoryPath string, remoteName string) (string, error) {
	executionResult, executionError := manager.executeGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitRemoteSubcommandConstant, gitRemoteGetURLSubcommandConstant, remoteName},
		WorkingDirectory: repositoryPath,
	})
	if executionError != nil {
		return "", fmt.Errorf(remoteURLFailureTemplateConstant, remoteName, executionError)
	}
	return strings.TrimSpace(executionResult.StandardOutput), nil
}

func (manager *RepositoryManager) executeGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	if details.EnvironmentVariables == nil {
		details.EnvironmentVariables = map[string]string{}
	}
	details.EnvironmentVariables[gitTerminalPromptEnvironmentName] = gitTerminalPromptEnvironmentDisable
	return manager.executor.ExecuteGit(executionContext, details)
}
