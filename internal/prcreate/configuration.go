package prcreate

import "strings"

const (
	remoteConfigurationKeyConstant     = "remote"
	baseBranchConfigurationKeyConstant = "base_branch"
	draftConfigurationKeyConstant      = "draft"
	reviewersConfigurationKeyConstant  = "reviewers"
	labelsConfigurationKeyConstant     = "labels"
	configurationKeySeparatorConstant  = "."
	defaultRemoteNameConstant          = "origin"
)

// CommandConfiguration captures persistent settings for the create command.
type CommandConfiguration struct {
	Remote     string   `mapstructure:"remote"`
	BaseBranch string   `mapstructure:"base_branch"`
	Draft      bool     `mapstructure:"draft"`
	Reviewers  []string `mapstructure:"reviewers"`
	Labels     []string `mapstructure:"labels"`
}

// DefaultCommandConfiguration returns baseline configuration values for the create command.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		Remote:     defaultRemoteNameConstant,
		BaseBranch: "",
		Draft:      false,
		Reviewers:  nil,
		Labels:     nil,
	}
}

// DefaultConfigurationValues produces Viper defaults for the create command.
func DefaultConfigurationValues(rootKey string) map[string]any {
	defaults := DefaultCommandConfiguration()
	return map[string]any{
		rootKey + configurationKeySeparatorConstant + remoteConfigurationKeyConstant:     defaults.Remote,
		rootKey + configurationKeySeparatorConstant + baseBranchConfigurationKeyConstant: defaults.BaseBranch,
		rootKey + configurationKeySeparatorConstant + draftConfigurationKeyConstant:      defaults.Draft,
		rootKey + configurationKeySeparatorConstant + reviewersConfigurationKeyConstant:  defaults.Reviewers,
		rootKey + configurationKeySeparatorConstant + labelsConfigurationKeyConstant:     defaults.Labels,
	}
}

// sanitize trims whitespace and applies defaults to unset configuration values.
func (configuration CommandConfiguration) sanitize() CommandConfiguration {
	sanitized := configuration

	sanitized.Remote = strings.TrimSpace(configuration.Remote)
	if len(sanitized.Remote) == 0 {
		sanitized.Remote = defaultRemoteNameConstant
	}
	sanitized.BaseBranch = strings.TrimSpace(configuration.BaseBranch)
	sanitized.Reviewers = sanitizeList(configuration.Reviewers)
	sanitized.Labels = sanitizeList(configuration.Labels)

	return sanitized
}

func sanitizeList(raw []string) []string {
	sanitized := make([]string, 0, len(raw))
	for index := range raw {
		trimmed := strings.TrimSpace(raw[index])
		if len(trimmed) == 0 {
			continue
		}
		sanitized = append(sanitized, trimmed)
	}
	return sanitized
}
