package prcreate

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/prflow/internal/execshell"
	"github.com/temirov/prflow/internal/githubcli"
	"github.com/temirov/prflow/internal/gitrepo"
	"github.com/temirov/prflow/internal/ui"
)

const (
	commandNameConstant             = "create"
	commandShortDescriptionConstant = "Create a GitHub pull request from the current branch"
	commandLongDescriptionConstant  = "Commit outstanding changes, push the current branch, collect pull request metadata interactively, and open the pull request through the GitHub CLI."
	remoteFlagNameConstant          = "remote"
	remoteFlagDescriptionConstant   = "Git remote the branch is published to"
	baseFlagNameConstant            = "base"
	baseFlagDescriptionConstant     = "Base branch the pull request targets"
	draftFlagNameConstant           = "draft"
	draftFlagDescriptionConstant    = "Create the pull request as a draft"
)

// LoggerProvider supplies a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider supplies the effective create command configuration.
type ConfigurationProvider func() CommandConfiguration

// HumanReadableLoggingProvider reports whether console-oriented command event
// messages should accompany structured logs.
type HumanReadableLoggingProvider func() bool

// CommandBuilder assembles the create cobra command with configurable dependencies.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	ConfigurationProvider        ConfigurationProvider
	HumanReadableLoggingProvider HumanReadableLoggingProvider
	Executor                     WorkflowExecutor
}

// Build constructs the cobra command for the pull request creation workflow.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandNameConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		RunE:  builder.run,
	}

	command.Flags().String(remoteFlagNameConstant, "", remoteFlagDescriptionConstant)
	command.Flags().String(baseFlagNameConstant, "", baseFlagDescriptionConstant)
	command.Flags().Bool(draftFlagNameConstant, false, draftFlagDescriptionConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, _ []string) error {
	configuration := builder.resolveConfiguration()
	if command.Flags().Changed(remoteFlagNameConstant) {
		remoteValue, _ := command.Flags().GetString(remoteFlagNameConstant)
		configuration.Remote = remoteValue
	}
	if command.Flags().Changed(baseFlagNameConstant) {
		baseValue, _ := command.Flags().GetString(baseFlagNameConstant)
		configuration.BaseBranch = baseValue
	}
	if command.Flags().Changed(draftFlagNameConstant) {
		draftValue, _ := command.Flags().GetBool(draftFlagNameConstant)
		configuration.Draft = draftValue
	}

	logger := builder.resolveLogger()
	executor, executorError := builder.resolveExecutor(logger)
	if executorError != nil {
		return executorError
	}

	repositoryManager, managerError := gitrepo.NewRepositoryManager(executor)
	if managerError != nil {
		return managerError
	}
	githubClient, clientError := githubcli.NewClient(executor)
	if clientError != nil {
		return clientError
	}

	prompter := NewIOMetadataPrompter(command.InOrStdin(), command.OutOrStdout())

	service, serviceError := NewService(configuration, Dependencies{
		RepositoryManager: repositoryManager,
		GitHubClient:      githubClient,
		Prompter:          prompter,
		Output:            command.OutOrStdout(),
	})
	if serviceError != nil {
		return serviceError
	}

	return service.Run(command.Context(), "")
}

func (builder *CommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultCommandConfiguration()
	}
	return builder.ConfigurationProvider()
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}
	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

func (builder *CommandBuilder) resolveExecutor(logger *zap.Logger) (WorkflowExecutor, error) {
	if builder.Executor != nil {
		return builder.Executor, nil
	}

	var observers []execshell.CommandEventObserver
	if builder.HumanReadableLoggingProvider != nil && builder.HumanReadableLoggingProvider() {
		observers = append(observers, ui.NewConsoleCommandEventLogger(logger))
	}
	return execshell.NewShellExecutor(logger, execshell.NewOSCommandRunner(), observers...)
}
