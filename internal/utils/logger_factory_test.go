package utils_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"syscall"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/forgefix/prmend/internal/utils"
)

const (
	testLoggerMessageConstant      = "repair run diagnostics"
	testCapitalInfoLevelConstant   = "INFO"
	testInvalidLogSettingConstant  = "verbose"
	testUnsupportedLevelTemplate   = "unsupported log level"
	testUnsupportedFormatTemplate  = "unsupported log format"
	testStderrCaptureFailureReason = "stderr capture pipe"
)

// captureLoggerOutput builds a logger while stderr is redirected and returns
// everything the logger emitted.
func captureLoggerOutput(testInstance *testing.T, logLevel utils.LogLevel, logFormat utils.LogFormat) string {
	testInstance.Helper()

	pipeReader, pipeWriter, pipeError := os.Pipe()
	require.NoError(testInstance, pipeError, testStderrCaptureFailureReason)

	originalStderr := os.Stderr
	os.Stderr = pipeWriter
	logger, creationError := utils.NewLoggerFactory().CreateLogger(logLevel, logFormat)
	os.Stderr = originalStderr

	require.NoError(testInstance, creationError)
	require.NotNil(testInstance, logger)

	logger.Info(testLoggerMessageConstant)
	if syncError := logger.Sync(); syncError != nil {
		require.True(testInstance, errors.Is(syncError, syscall.ENOTSUP) || errors.Is(syncError, syscall.EINVAL))
	}

	require.NoError(testInstance, pipeWriter.Close())
	capturedOutput, readError := io.ReadAll(pipeReader)
	require.NoError(testInstance, readError)
	require.NoError(testInstance, pipeReader.Close())

	return string(bytes.TrimSpace(capturedOutput))
}

func TestLoggerFactoryStructuredFormatEmitsJSON(testInstance *testing.T) {
	loggerOutput := captureLoggerOutput(testInstance, utils.LogLevelInfo, utils.LogFormatStructured)

	require.Contains(testInstance, loggerOutput, testLoggerMessageConstant)
	require.True(testInstance, json.Valid([]byte(loggerOutput)))
}

func TestLoggerFactoryConsoleFormatEmitsReadableLines(testInstance *testing.T) {
	loggerOutput := captureLoggerOutput(testInstance, utils.LogLevelInfo, utils.LogFormatConsole)

	require.Contains(testInstance, loggerOutput, testLoggerMessageConstant)
	require.Contains(testInstance, loggerOutput, testCapitalInfoLevelConstant)
	require.False(testInstance, json.Valid([]byte(loggerOutput)))
}

func TestLoggerFactoryLevelFiltering(testInstance *testing.T) {
	loggerOutput := captureLoggerOutput(testInstance, utils.LogLevelError, utils.LogFormatStructured)

	require.Empty(testInstance, loggerOutput)
}

func TestLoggerFactoryRejectsUnsupportedSettings(testInstance *testing.T) {
	testCases := []struct {
		name            string
		logLevel        utils.LogLevel
		logFormat       utils.LogFormat
		expectedMessage string
	}{
		{
			name:            "unsupported_level",
			logLevel:        utils.LogLevel(testInvalidLogSettingConstant),
			logFormat:       utils.LogFormatStructured,
			expectedMessage: testUnsupportedLevelTemplate,
		},
		{
			name:            "unsupported_format",
			logLevel:        utils.LogLevelInfo,
			logFormat:       utils.LogFormat(testInvalidLogSettingConstant),
			expectedMessage: testUnsupportedFormatTemplate,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			logger, creationError := utils.NewLoggerFactory().CreateLogger(testCase.logLevel, testCase.logFormat)
			require.Error(testInstance, creationError)
			require.ErrorContains(testInstance, creationError, testCase.expectedMessage)
			require.Nil(testInstance, logger)
		})
	}
}
