package githubcli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/temirov/prflow/internal/execshell"
)

const (
	repoSubcommandConstant                  = "repo"
	viewSubcommandConstant                  = "view"
	pullRequestSubcommandConstant           = "pr"
	listSubcommandConstant                  = "list"
	createSubcommandConstant                = "create"
	versionFlagConstant                     = "--version"
	jsonFlagConstant                        = "--json"
	headFlagConstant                        = "--head"
	stateFlagConstant                       = "--state"
	baseFlagConstant                        = "--base"
	titleFlagConstant                       = "--title"
	bodyFlagConstant                        = "--body"
	reviewerFlagConstant                    = "--reviewer"
	labelFlagConstant                       = "--label"
	draftFlagConstant                       = "--draft"
	titleFieldNameConstant                  = "title"
	baseBranchFieldNameConstant             = "base_branch"
	headBranchFieldNameConstant             = "head_branch"
	requiredValueMessageConstant            = "value required"
	executorNotConfiguredMessageConstant    = "github cli executor not configured"
	toolUnavailableTemplateConstant         = "gh is not available: %w"
	pullRequestJSONFieldsConstant           = "number,title,url,baseRefName"
	repoViewJSONFieldsConstant              = "defaultBranchRef,nameWithOwner,description"
	operationErrorMessageTemplateConstant   = "%s operation failed"
	operationErrorWithCauseTemplateConstant = "%s operation failed: %s"
	responseDecodingErrorTemplateConstant   = "%s response decoding failed: %s"
	invalidInputErrorTemplateConstant       = "%s: %s"
	repositoryMetadataOperationNameConstant = OperationName("ResolveRepoMetadata")
	listPullRequestsOperationNameConstant   = OperationName("ListPullRequestsForBranch")
	createPullRequestOperationNameConstant  = OperationName("CreatePullRequest")
	pullRequestStateOpenConstant            = "open"
	missingPullRequestURLMessageConstant    = "gh pr create produced no pull request url"
)

// OperationName describes a named GitHub CLI workflow supported by the client.
type OperationName string

// RepositoryMetadata contains key details resolved from GitHub.
type RepositoryMetadata struct {
	NameWithOwner string
	Description   string
	DefaultBranch string
}

// PullRequest represents minimal PR details returned by GitHub CLI.
type PullRequest struct {
	Number      int
	Title       string
	URL         string
	BaseRefName string
}

// PullRequestCreateOptions captures the metadata passed to gh pr create.
type PullRequestCreateOptions struct {
	Title      string
	Body       string
	BaseBranch string
	HeadBranch string
	Reviewers  []string
	Labels     []string
	Draft      bool
}

// GitHubCommandExecutor is the minimal interface required from execshell.ShellExecutor.
type GitHubCommandExecutor interface {
	ExecuteGitHubCLI(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// Client coordinates GitHub CLI invocations through execshell.
type Client struct {
	executor GitHubCommandExecutor
}

var (
	// ErrExecutorNotConfigured indicates the client was constructed without an executor.
	ErrExecutorNotConfigured = errors.New(executorNotConfiguredMessageConstant)
)

// InvalidInputError surfaces validation issues for operation inputs.
type InvalidInputError struct {
	FieldName string
	Message   string
}

// Error describes the invalid input.
func (inputError InvalidInputError) Error() string {
	return fmt.Sprintf(invalidInputErrorTemplateConstant, inputError.FieldName, inputError.Message)
}

// OperationError wraps execution issues for GitHub CLI operations.
type OperationError struct {
	Operation OperationName
	Cause     error
}

// Error describes the operation failure.
func (operationError OperationError) Error() string {
	if operationError.Cause == nil {
		return fmt.Sprintf(operationErrorMessageTemplateConstant, operationError.Operation)
	}
	return fmt.Sprintf(operationErrorWithCauseTemplateConstant, operationError.Operation, operationError.Cause)
}

// Unwrap exposes the underlying cause.
func (operationError OperationError) Unwrap() error {
	return operationError.Cause
}

// ResponseDecodingError indicates JSON decoding failures.
type ResponseDecodingError struct {
	Operation OperationName
	Cause     error
}

// Error describes the decoding failure.
func (decodingError ResponseDecodingError) Error() string {
	return fmt.Sprintf(responseDecodingErrorTemplateConstant, decodingError.Operation, decodingError.Cause)
}

// Unwrap exposes the underlying JSON error.
func (decodingError ResponseDecodingError) Unwrap() error {
	return decodingError.Cause
}

// NewClient constructs a GitHub CLI client.
func NewClient(executor GitHubCommandExecutor) (*Client, error) {
	if executor == nil {
		return nil, ErrExecutorNotConfigured
	}
	return &Client{executor: executor}, nil
}

// ConfirmToolAvailability verifies the gh executable is installed and reachable.
func (client *Client) ConfirmToolAvailability(executionContext context.Context) error {
	commandDetails := execshell.CommandDetails{
		Arguments: []string{versionFlagConstant},
	}

	_, executionError := client.executor.ExecuteGitHubCLI(executionContext, commandDetails)
	if executionError != nil {
		return fmt.Errorf(toolUnavailableTemplateConstant, executionError)
	}
	return nil
}

// ResolveRepoMetadata retrieves canonical metadata for the repository in the
// supplied directory using gh repo view.
func (client *Client) ResolveRepoMetadata(executionContext context.Context, repositoryPath string) (RepositoryMetadata, error) {
	commandDetails := execshell.CommandDetails{
		Arguments: []string{
			repoSubcommandConstant,
			viewSubcommandConstant,
			jsonFlagConstant,
			repoViewJSONFieldsConstant,
		},
		WorkingDirectory: repositoryPath,
	}

	executionResult, executionError := client.executor.ExecuteGitHubCLI(executionContext, commandDetails)
	if executionError != nil {
		return RepositoryMetadata{}, OperationError{Operation: repositoryMetadataOperationNameConstant, Cause: executionError}
	}

	var response struct {
		NameWithOwner    string `json:"nameWithOwner"`
		Description      string `json:"description"`
		DefaultBranchRef struct {
			Name string `json:"name"`
		} `json:"defaultBranchRef"`
	}

	decodingError := json.Unmarshal([]byte(executionResult.StandardOutput), &response)
	if decodingError != nil {
		return RepositoryMetadata{}, ResponseDecodingError{Operation: repositoryMetadataOperationNameConstant, Cause: decodingError}
	}

	return RepositoryMetadata{
		NameWithOwner: response.NameWithOwner,
		Description:   response.Description,
		DefaultBranch: response.DefaultBranchRef.Name,
	}, nil
}

// ListPullRequestsForBranch enumerates open pull requests whose head is the
// supplied branch using gh pr list.
func (client *Client) ListPullRequestsForBranch(executionContext context.Context, repositoryPath string, headBranch string) ([]PullRequest, error) {
	if len(strings.TrimSpace(headBranch)) == 0 {
		return nil, InvalidInputError{FieldName: headBranchFieldNameConstant, Message: requiredValueMessageConstant}
	}

	commandDetails := execshell.CommandDetails{
		Arguments: []string{
			pullRequestSubcommandConstant,
			listSubcommandConstant,
			headFlagConstant,
			headBranch,
			stateFlagConstant,
			pullRequestStateOpenConstant,
			jsonFlagConstant,
			pullRequestJSONFieldsConstant,
		},
		WorkingDirectory: repositoryPath,
	}

	executionResult, executionError := client.executor.ExecuteGitHubCLI(executionContext, commandDetails)
	if executionError != nil {
		return nil, OperationError{Operation: listPullRequestsOperationNameConstant, Cause: executionError}
	}

	var response []struct {
		Number      int    `json:"number"`
		Title       string `json:"title"`
		URL         string `json:"url"`
		BaseRefName string `json:"baseRefName"`
	}

	decodingError := json.Unmarshal([]byte(executionResult.StandardOutput), &response)
	if decodingError != nil {
		return nil, ResponseDecodingError{Operation: listPullRequestsOperationNameConstant, Cause: decodingError}
	}

	pullRequests := make([]PullRequest, 0, len(response))
	for _, pullRequestEntry := range response {
		pullRequests = append(pullRequests, PullRequest{
			Number:      pullRequestEntry.Number,
			Title:       pullRequestEntry.Title,
			URL:         pullRequestEntry.URL,
			BaseRefName: pullRequestEntry.BaseRefName,
		})
	}

	return pullRequests, nil
}

// CreatePullRequest opens a pull request using gh pr create and returns its URL.
//
// Optional metadata contributes command flags only when values are present, so
// an empty reviewer or label list leaves the corresponding flag out entirely.
func (client *Client) CreatePullRequest(executionContext context.Context, repositoryPath string, options PullRequestCreateOptions) (string, error) {
	if len(strings.TrimSpace(options.Title)) == 0 {
		return "", InvalidInputError{FieldName: titleFieldNameConstant, Message: requiredValueMessageConstant}
	}
	if len(strings.TrimSpace(options.BaseBranch)) == 0 {
		return "", InvalidInputError{FieldName: baseBranchFieldNameConstant, Message: requiredValueMessageConstant}
	}
	if len(strings.TrimSpace(options.HeadBranch)) == 0 {
		return "", InvalidInputError{FieldName: headBranchFieldNameConstant, Message: requiredValueMessageConstant}
	}

	arguments := []string{
		pullRequestSubcommandConstant,
		createSubcommandConstant,
		titleFlagConstant,
		options.Title,
		bodyFlagConstant,
		options.Body,
		baseFlagConstant,
		options.BaseBranch,
		headFlagConstant,
		options.HeadBranch,
	}
	for _, reviewerName := range options.Reviewers {
		trimmedReviewer := strings.TrimSpace(reviewerName)
		if len(trimmedReviewer) == 0 {
			continue
		}
		arguments = append(arguments, reviewerFlagConstant, trimmedReviewer)
	}
	for _, labelName := range options.Labels {
		trimmedLabel := strings.TrimSpace(labelName)
		if len(trimmedLabel) == 0 {
			continue
		}
		arguments = append(arguments, labelFlagConstant, trimmedLabel)
	}
	if options.Draft {
		arguments = append(arguments, draftFlagConstant)
	}

	commandDetails := execshell.CommandDetails{
		Arguments:        arguments,
		WorkingDirectory: repositoryPath,
	}

	executionResult, executionError := client.executor.ExecuteGitHubCLI(executionContext, commandDetails)
	if executionError != nil {
		return "", OperationError{Operation: createPullRequestOperationNameConstant, Cause: executionError}
	}

	pullRequestURL := extractPullRequestURL(executionResult.StandardOutput)
	if len(pullRequestURL) == 0 {
		return "", OperationError{
			Operation: createPullRequestOperationNameConstant,
			Cause:     errors.New(missingPullRequestURLMessageConstant),
		}
	}
	return pullRequestURL, nil
}

// extractPullRequestURL returns the last non-empty stdout line, which gh pr
// create prints as the created pull request URL.
func extractPullRequestURL(standardOutput string) string {
	outputLines := strings.Split(strings.TrimSpace(standardOutput), "\n")
	for lineIndex := len(outputLines) - 1; lineIndex >= 0; lineIndex-- {
		candidateLine := strings.TrimSpace(outputLines[lineIndex])
		if len(candidateLine) > 0 {
			return candidateLine
		}
	}
	return ""
}
