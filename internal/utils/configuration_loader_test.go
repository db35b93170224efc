package utils_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/temirov/prflow/internal/utils"
)

const (
	testConfigurationNameConstant     = "config"
	testConfigurationTypeConstant     = "yaml"
	testEnvironmentPrefixConstant     = "PRFLOWTEST"
	testConfigurationFileNameConstant = "config.yaml"
)

type testToolConfiguration struct {
	Remote    string   `mapstructure:"remote"`
	Base      string   `mapstructure:"base"`
	Reviewers []string `mapstructure:"reviewers"`
}

type testConfiguration struct {
	Common struct {
		LogLevel string `mapstructure:"log_level"`
	} `mapstructure:"common"`
	Tools struct {
		Create testToolConfiguration `mapstructure:"create"`
	} `mapstructure:"tools"`
}

func writeConfigurationFixture(testInstance *testing.T, document map[string]any) string {
	testInstance.Helper()

	serialized, marshalError := yaml.Marshal(document)
	require.NoError(testInstance, marshalError)

	configurationPath := filepath.Join(testInstance.TempDir(), testConfigurationFileNameConstant)
	require.NoError(testInstance, os.WriteFile(configurationPath, serialized, 0o600))
	return configurationPath
}

func TestLoadConfigurationMergesFileAndDefaults(testInstance *testing.T) {
	configurationPath := writeConfigurationFixture(testInstance, map[string]any{
		"common": map[string]any{"log_level": "debug"},
		"tools": map[string]any{
			"create": map[string]any{"remote": "upstream"},
		},
	})

	loader := utils.NewConfigurationLoader(
		testConfigurationNameConstant,
		testConfigurationTypeConstant,
		testEnvironmentPrefixConstant,
		[]string{"."},
	)

	defaults := map[string]any{
		"common.log_level":    "info",
		"tools.create.remote": "origin",
		"tools.create.base":   "main",
	}

	var configuration testConfiguration
	metadata, loadError := loader.LoadConfiguration(configurationPath, defaults, &configuration)
	require.NoError(testInstance, loadError)
	require.Equal(testInstance, configurationPath, metadata.ConfigFileUsed)
	require.Equal(testInstance, "debug", configuration.Common.LogLevel)
	require.Equal(testInstance, "upstream", configuration.Tools.Create.Remote)
	require.Equal(testInstance, "main", configuration.Tools.Create.Base)
}

func TestLoadConfigurationAcceptsCommaSeparatedLists(testInstance *testing.T) {
	configurationPath := writeConfigurationFixture(testInstance, map[string]any{
		"tools": map[string]any{
			"create": map[string]any{"reviewers": "alice,bob"},
		},
	})

	loader := utils.NewConfigurationLoader(
		testConfigurationNameConstant,
		testConfigurationTypeConstant,
		testEnvironmentPrefixConstant,
		[]string{"."},
	)

	var configuration testConfiguration
	_, loadError := loader.LoadConfiguration(configurationPath, map[string]any{}, &configuration)
	require.NoError(testInstance, loadError)
	require.Equal(testInstance, []string{"alice", "bob"}, configuration.Tools.Create.Reviewers)
}

func TestLoadConfigurationToleratesMissingFile(testInstance *testing.T) {
	loader := utils.NewConfigurationLoader(
		testConfigurationNameConstant,
		testConfigurationTypeConstant,
		testEnvironmentPrefixConstant,
		[]string{testInstance.TempDir()},
	)

	var configuration testConfiguration
	metadata, loadError := loader.LoadConfiguration("", map[string]any{"common.log_level": "warn"}, &configuration)
	require.NoError(testInstance, loadError)
	require.Empty(testInstance, metadata.ConfigFileUsed)
	require.Equal(testInstance, "warn", configuration.Common.LogLevel)
}
