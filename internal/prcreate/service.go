package prcreate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/temirov/prflow/internal/githubcli"
	"github.com/temirov/prflow/internal/gitrepo"
)

const (
	repositoryManagerNotConfiguredMessageConstant = "repository manager not configured"
	githubClientNotConfiguredMessageConstant      = "github client not configured"
	prompterNotConfiguredMessageConstant          = "prompter not configured"
	outputWriterNotConfiguredMessageConstant      = "output writer not configured"
	notInsideRepositoryMessageConstant            = "current directory is not inside a git repository"
	commitMessageRequiredMessageConstant          = "commit message required"
	pullRequestTitleRequiredMessageConstant       = "pull request title required"
	pullRequestAlreadyExistsMessageConstant       = "an open pull request already exists for this branch"
	fallbackBaseBranchConstant                    = "main"
	commitMessagePromptConstant                   = "Commit message: "
	basePromptTemplateConstant                    = "Base branch [%s]: "
	titlePromptConstant                           = "Title: "
	descriptionPromptConstant                     = "Description (finish with Ctrl-D):\n"
	reviewersPromptConstant                       = "Reviewers (comma-separated): "
	reviewersPromptWithDefaultTemplateConstant    = "Reviewers (comma-separated) [%s]: "
	labelsPromptConstant                          = "Labels (comma-separated): "
	labelsPromptWithDefaultTemplateConstant       = "Labels (comma-separated) [%s]: "
	draftPromptConstant                           = "Create as draft? [y/N]: "
	dirtyWorktreeNoticeConstant                   = "Uncommitted changes detected.\n"
	committedNoticeTemplateConstant               = "Committed changes on %s.\n"
	publishingBranchNoticeTemplateConstant        = "Publishing %s to %s.\n"
	pushingCommitsNoticeTemplateConstant          = "Pushing %d commit(s) to %s.\n"
	branchInSyncNoticeConstant                    = "Branch is in sync with its upstream.\n"
	existingPullRequestNoticeTemplateConstant     = "Pull request #%d already open: %s\n"
	targetRepositoryNoticeTemplateConstant        = "Preparing pull request for %s.\n"
	createdNoticeTemplateConstant                 = "Created pull request: %s\n"
	viewHintConstant                              = "Run 'gh pr view --web' to open it in a browser.\n"
	listDefaultSeparatorConstant                  = ", "
)

// Service dependency validation errors.
var (
	ErrRepositoryManagerNotConfigured = errors.New(repositoryManagerNotConfiguredMessageConstant)
	ErrGitHubClientNotConfigured      = errors.New(githubClientNotConfiguredMessageConstant)
	ErrPrompterNotConfigured          = errors.New(prompterNotConfiguredMessageConstant)
	ErrOutputWriterNotConfigured      = errors.New(outputWriterNotConfiguredMessageConstant)
)

// Workflow errors surfaced to the command.
var (
	ErrNotInsideRepository      = errors.New(notInsideRepositoryMessageConstant)
	ErrCommitMessageRequired    = errors.New(commitMessageRequiredMessageConstant)
	ErrPullRequestTitleRequired = errors.New(pullRequestTitleRequiredMessageConstant)
	ErrPullRequestAlreadyExists = errors.New(pullRequestAlreadyExistsMessageConstant)
)

// Dependencies aggregates the collaborators required by the service.
type Dependencies struct {
	RepositoryManager GitRepositoryManager
	GitHubClient      GitHubOperations
	Prompter          MetadataPrompter
	Output            io.Writer
}

// Service executes the pull request creation workflow.
type Service struct {
	configuration     CommandConfiguration
	repositoryManager GitRepositoryManager
	githubClient      GitHubOperations
	prompter          MetadataPrompter
	outputWriter      io.Writer
}

// NewService validates the dependencies and constructs a Service.
func NewService(configuration CommandConfiguration, dependencies Dependencies) (*Service, error) {
	if dependencies.RepositoryManager == nil {
		return nil, ErrRepositoryManagerNotConfigured
	}
	if dependencies.GitHubClient == nil {
		return nil, ErrGitHubClientNotConfigured
	}
	if dependencies.Prompter == nil {
		return nil, ErrPrompterNotConfigured
	}
	if dependencies.Output == nil {
		return nil, ErrOutputWriterNotConfigured
	}

	return &Service{
		configuration:     configuration.sanitize(),
		repositoryManager: dependencies.RepositoryManager,
		githubClient:      dependencies.GitHubClient,
		prompter:          dependencies.Prompter,
		outputWriter:      dependencies.Output,
	}, nil
}

// Run walks the workflow for the repository at the supplied path.
//
// Completed steps are not rolled back when a later step fails; a commit
// created before a rejected push stays in place.
func (service *Service) Run(executionContext context.Context, repositoryPath string) error {
	currentBranch, preflightError := service.runPreflight(executionContext, repositoryPath)
	if preflightError != nil {
		return preflightError
	}

	if commitError := service.commitOutstandingChanges(executionContext, repositoryPath, currentBranch); commitError != nil {
		return commitError
	}

	if syncError := service.synchronizeBranch(executionContext, repositoryPath, currentBranch); syncError != nil {
		return syncError
	}

	if guardError := service.ensureNoOpenPullRequest(executionContext, repositoryPath, currentBranch); guardError != nil {
		return guardError
	}

	service.reportTargetRepository(executionContext, repositoryPath)

	creationOptions, metadataError := service.collectMetadata(executionContext, repositoryPath, currentBranch)
	if metadataError != nil {
		return metadataError
	}

	pullRequestURL, creationError := service.githubClient.CreatePullRequest(executionContext, repositoryPath, creationOptions)
	if creationError != nil {
		return creationError
	}

	fmt.Fprintf(service.outputWriter, createdNoticeTemplateConstant, pullRequestURL)
	fmt.Fprint(service.outputWriter, viewHintConstant)
	return nil
}

func (service *Service) runPreflight(executionContext context.Context, repositoryPath string) (string, error) {
	if availabilityError := service.repositoryManager.ConfirmToolAvailability(executionContext); availabilityError != nil {
		return "", availabilityError
	}
	if availabilityError := service.githubClient.ConfirmToolAvailability(executionContext); availabilityError != nil {
		return "", availabilityError
	}

	insideWorkTree, inspectionError := service.repositoryManager.IsInsideWorkTree(executionContext, repositoryPath)
	if inspectionError != nil {
		return "", inspectionError
	}
	if !insideWorkTree {
		return "", ErrNotInsideRepository
	}

	return service.repositoryManager.GetCurrentBranch(executionContext, repositoryPath)
}

func (service *Service) commitOutstandingChanges(executionContext context.Context, repositoryPath string, currentBranch string) error {
	cleanWorktree, inspectionError := service.repositoryManager.CheckCleanWorktree(executionContext, repositoryPath)
	if inspectionError != nil {
		return inspectionError
	}
	if cleanWorktree {
		return nil
	}

	fmt.Fprint(service.outputWriter, dirtyWorktreeNoticeConstant)

	commitMessage, promptError := service.prompter.ReadRequiredLine(commitMessagePromptConstant)
	if promptError != nil {
		if errors.Is(promptError, ErrRequiredValueMissing) {
			return ErrCommitMessageRequired
		}
		return promptError
	}

	if stagingError := service.repositoryManager.StageAllChanges(executionContext, repositoryPath); stagingError != nil {
		return stagingError
	}
	if commitError := service.repositoryManager.CreateCommit(executionContext, repositoryPath, commitMessage); commitError != nil {
		return commitError
	}

	fmt.Fprintf(service.outputWriter, committedNoticeTemplateConstant, currentBranch)
	return nil
}

func (service *Service) synchronizeBranch(executionContext context.Context, repositoryPath string, currentBranch string) error {
	upstreamBranch, upstreamFound, resolutionError := service.repositoryManager.GetUpstreamBranch(executionContext, repositoryPath)
	if resolutionError != nil {
		return resolutionError
	}

	if !upstreamFound {
		fmt.Fprintf(service.outputWriter, publishingBranchNoticeTemplateConstant, currentBranch, service.configuration.Remote)
		return service.repositoryManager.PushBranch(executionContext, repositoryPath, service.configuration.Remote, currentBranch, true)
	}

	aheadCount, countError := service.repositoryManager.CountCommitsAhead(executionContext, repositoryPath, upstreamBranch)
	if countError != nil {
		return countError
	}
	if aheadCount == 0 {
		fmt.Fprint(service.outputWriter, branchInSyncNoticeConstant)
		return nil
	}

	fmt.Fprintf(service.outputWriter, pushingCommitsNoticeTemplateConstant, aheadCount, upstreamBranch)
	return service.repositoryManager.PushBranch(executionContext, repositoryPath, service.configuration.Remote, currentBranch, false)
}

func (service *Service) ensureNoOpenPullRequest(executionContext context.Context, repositoryPath string, currentBranch string) error {
	openPullRequests, listError := service.githubClient.ListPullRequestsForBranch(executionContext, repositoryPath, currentBranch)
	if listError != nil {
		return listError
	}
	if len(openPullRequests) == 0 {
		return nil
	}

	existingPullRequest := openPullRequests[0]
	fmt.Fprintf(service.outputWriter, existingPullRequestNoticeTemplateConstant, existingPullRequest.Number, existingPullRequest.URL)
	return ErrPullRequestAlreadyExists
}

// reportTargetRepository names the owner/repository the pull request targets.
// Failures here are cosmetic and never interrupt the workflow.
func (service *Service) reportTargetRepository(executionContext context.Context, repositoryPath string) {
	remoteURL, remoteError := service.repositoryManager.GetRemoteURL(executionContext, repositoryPath, service.configuration.Remote)
	if remoteError != nil {
		return
	}
	parsedRemote, parseError := gitrepo.ParseRemoteURL(remoteURL)
	if parseError != nil {
		return
	}
	fmt.Fprintf(service.outputWriter, targetRepositoryNoticeTemplateConstant, parsedRemote.NameWithOwner())
}

func (service *Service) collectMetadata(executionContext context.Context, repositoryPath string, currentBranch string) (githubcli.PullRequestCreateOptions, error) {
	baseBranchDefault := service.resolveBaseBranchDefault(executionContext, repositoryPath)

	baseBranch, basePromptError := service.prompter.ReadLineWithDefault(fmt.Sprintf(basePromptTemplateConstant, baseBranchDefault), baseBranchDefault)
	if basePromptError != nil {
		return githubcli.PullRequestCreateOptions{}, basePromptError
	}

	pullRequestTitle, titlePromptError := service.prompter.ReadRequiredLine(titlePromptConstant)
	if titlePromptError != nil {
		if errors.Is(titlePromptError, ErrRequiredValueMissing) {
			return githubcli.PullRequestCreateOptions{}, ErrPullRequestTitleRequired
		}
		return githubcli.PullRequestCreateOptions{}, titlePromptError
	}

	pullRequestBody, bodyPromptError := service.prompter.ReadMultiLine(descriptionPromptConstant)
	if bodyPromptError != nil {
		return githubcli.PullRequestCreateOptions{}, bodyPromptError
	}

	reviewers, reviewersPromptError := service.prompter.ReadList(listPrompt(reviewersPromptConstant, reviewersPromptWithDefaultTemplateConstant, service.configuration.Reviewers), service.configuration.Reviewers)
	if reviewersPromptError != nil {
		return githubcli.PullRequestCreateOptions{}, reviewersPromptError
	}

	labels, labelsPromptError := service.prompter.ReadList(listPrompt(labelsPromptConstant, labelsPromptWithDefaultTemplateConstant, service.configuration.Labels), service.configuration.Labels)
	if labelsPromptError != nil {
		return githubcli.PullRequestCreateOptions{}, labelsPromptError
	}

	draft := service.configuration.Draft
	if !draft {
		confirmedDraft, draftPromptError := service.prompter.Confirm(draftPromptConstant)
		if draftPromptError != nil {
			return githubcli.PullRequestCreateOptions{}, draftPromptError
		}
		draft = confirmedDraft
	}

	return githubcli.PullRequestCreateOptions{
		Title:      pullRequestTitle,
		Body:       pullRequestBody,
		BaseBranch: baseBranch,
		HeadBranch: currentBranch,
		Reviewers:  reviewers,
		Labels:     labels,
		Draft:      draft,
	}, nil
}

// resolveBaseBranchDefault prefers the configured base branch, then the
// repository default branch reported by gh, then the conventional fallback.
func (service *Service) resolveBaseBranchDefault(executionContext context.Context, repositoryPath string) string {
	if len(service.configuration.BaseBranch) > 0 {
		return service.configuration.BaseBranch
	}

	repositoryMetadata, metadataError := service.githubClient.ResolveRepoMetadata(executionContext, repositoryPath)
	if metadataError == nil && len(strings.TrimSpace(repositoryMetadata.DefaultBranch)) > 0 {
		return strings.TrimSpace(repositoryMetadata.DefaultBranch)
	}

	return fallbackBaseBranchConstant
}

func listPrompt(plainPrompt string, defaultTemplate string, defaults []string) string {
	if len(defaults) == 0 {
		return plainPrompt
	}
	return fmt.Sprintf(defaultTemplate, strings.Join(defaults, listDefaultSeparatorConstant))
}
