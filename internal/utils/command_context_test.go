package utils_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/forgefix/prmend/internal/utils"
)

const testContextConfigurationFilePathConstant = "/etc/prmend/config.yaml"

func TestCommandContextAccessorRoundTrip(testInstance *testing.T) {
	accessor := utils.NewCommandContextAccessor()

	contextWithValues := accessor.WithConfigurationFilePath(context.Background(), testContextConfigurationFilePathConstant)

	configurationFilePath, configurationFilePathAvailable := accessor.ConfigurationFilePath(contextWithValues)
	require.True(testInstance, configurationFilePathAvailable)
	require.Equal(testInstance, testContextConfigurationFilePathConstant, configurationFilePath)
}

func TestCommandContextAccessorMissingValues(testInstance *testing.T) {
	accessor := utils.NewCommandContextAccessor()

	configurationFilePath, configurationFilePathAvailable := accessor.ConfigurationFilePath(context.Background())
	require.False(testInstance, configurationFilePathAvailable)
	require.Empty(testInstance, configurationFilePath)

	nilContextPath, nilContextAvailable := accessor.ConfigurationFilePath(nil)
	require.False(testInstance, nilContextAvailable)
	require.Empty(testInstance, nilContextPath)
}
