package cli_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/forgefix/prmend/cmd/cli"
	"github.com/forgefix/prmend/internal/repair"
)

const (
	testConfigurationFileNameConstant = "config.yaml"
	testRepairCommandNameConstant     = "repair"
	testHelpFlagConstant              = "--help"
	testConfigFlagConstant            = "--config"
)

func writeApplicationConfiguration(testInstance *testing.T, contents string) string {
	testInstance.Helper()
	configurationPath := filepath.Join(testInstance.TempDir(), testConfigurationFileNameConstant)
	require.NoError(testInstance, os.WriteFile(configurationPath, []byte(contents), 0o644))
	return configurationPath
}

func TestNewApplicationRegistersRepairCommand(testInstance *testing.T) {
	application := cli.NewApplication()

	repairCommand, _, lookupError := application.RootCommand().Find([]string{testRepairCommandNameConstant})
	require.NoError(testInstance, lookupError)
	require.Equal(testInstance, testRepairCommandNameConstant, repairCommand.Name())
}

func TestApplicationRootHelpExecution(testInstance *testing.T) {
	application := cli.NewApplication()

	outputBuffer := &bytes.Buffer{}
	application.RootCommand().SetOut(outputBuffer)
	application.RootCommand().SetErr(outputBuffer)
	application.RootCommand().SetArgs([]string{testHelpFlagConstant})

	require.NoError(testInstance, application.Execute())
	require.Contains(testInstance, outputBuffer.String(), testRepairCommandNameConstant)
}

func TestApplicationLoadsConfigurationFile(testInstance *testing.T) {
	configurationPath := writeApplicationConfiguration(testInstance, `common:
  log_level: debug
  log_format: console
repair:
  repository: /srv/checkouts/service
  targets:
    - branch: feature/retry-handling
`)

	application := cli.NewApplication()

	outputBuffer := &bytes.Buffer{}
	application.RootCommand().SetOut(outputBuffer)
	application.RootCommand().SetErr(outputBuffer)
	application.RootCommand().SetArgs([]string{testConfigFlagConstant, configurationPath})

	require.NoError(testInstance, application.Execute())
}

func TestApplicationRejectsInvalidLogLevel(testInstance *testing.T) {
	application := cli.NewApplication()

	outputBuffer := &bytes.Buffer{}
	application.RootCommand().SetOut(outputBuffer)
	application.RootCommand().SetErr(outputBuffer)
	application.RootCommand().SetArgs([]string{"--log-level", "verbose"})

	executionError := application.Execute()
	require.Error(testInstance, executionError)
	require.ErrorContains(testInstance, executionError, "unable to create logger")
}

func TestEmbeddedDefaultConfiguration(testInstance *testing.T) {
	embeddedConfiguration, configurationType := cli.EmbeddedDefaultConfiguration()
	require.NotEmpty(testInstance, embeddedConfiguration)
	require.Equal(testInstance, "yaml", configurationType)

	viperInstance := viper.New()
	viperInstance.SetConfigType(configurationType)
	require.NoError(testInstance, viperInstance.ReadConfig(bytes.NewReader(embeddedConfiguration)))

	applicationConfiguration := cli.ApplicationConfiguration{}
	require.NoError(testInstance, viperInstance.Unmarshal(&applicationConfiguration))

	require.Equal(testInstance, "info", applicationConfiguration.Common.LogLevel)
	require.Equal(testInstance, "structured", applicationConfiguration.Common.LogFormat)
	require.Equal(testInstance, "/workspace", applicationConfiguration.Repair.RepositoryPath)
	require.Equal(testInstance, []repair.BranchTarget{
		{Branch: "feature/add-server-components-tests", SeedCommit: "7c50378"},
		{Branch: "feature/add-integration-tests", SeedCommit: "69f2d0a"},
	}, applicationConfiguration.Repair.Targets)
}
