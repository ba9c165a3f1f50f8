package ui_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/forgefix/prmend/internal/execshell"
	"github.com/forgefix/prmend/internal/ui"
)

const (
	testEventWorkingDirectoryConstant = "/srv/checkouts/service"
	testEventStandardErrorConstant    = "merge conflict in Cargo.lock"
)

func buildEventTestCommand() execshell.ShellCommand {
	return execshell.ShellCommand{
		Name: execshell.CommandGit,
		Details: execshell.CommandDetails{
			Arguments:        []string{"cherry-pick", "7c50378"},
			WorkingDirectory: testEventWorkingDirectoryConstant,
		},
	}
}

func TestConsoleCommandEventLoggerMessages(testInstance *testing.T) {
	command := buildEventTestCommand()

	testCases := []struct {
		name            string
		emitEvent       func(eventLogger *ui.ConsoleCommandEventLogger)
		expectedLevel   zapcore.Level
		expectedMessage string
	}{
		{
			name: "command_started",
			emitEvent: func(eventLogger *ui.ConsoleCommandEventLogger) {
				eventLogger.CommandStarted(command)
			},
			expectedLevel:   zapcore.InfoLevel,
			expectedMessage: "▶ git cherry-pick 7c50378 (in /srv/checkouts/service)",
		},
		{
			name: "command_succeeded",
			emitEvent: func(eventLogger *ui.ConsoleCommandEventLogger) {
				eventLogger.CommandCompleted(command, execshell.ExecutionResult{ExitCode: 0})
			},
			expectedLevel:   zapcore.InfoLevel,
			expectedMessage: "✓ git cherry-pick 7c50378 (in /srv/checkouts/service)",
		},
		{
			name: "command_failed",
			emitEvent: func(eventLogger *ui.ConsoleCommandEventLogger) {
				eventLogger.CommandCompleted(command, execshell.ExecutionResult{ExitCode: 1, StandardError: testEventStandardErrorConstant})
			},
			expectedLevel:   zapcore.WarnLevel,
			expectedMessage: "⚠ git cherry-pick 7c50378 (in /srv/checkouts/service) exited with code 1: merge conflict in Cargo.lock",
		},
		{
			name: "command_execution_failed",
			emitEvent: func(eventLogger *ui.ConsoleCommandEventLogger) {
				eventLogger.CommandExecutionFailed(command, errors.New("context deadline exceeded"))
			},
			expectedLevel:   zapcore.ErrorLevel,
			expectedMessage: "✗ git cherry-pick 7c50378 (in /srv/checkouts/service) could not run: context deadline exceeded",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			observedCore, observedLogs := observer.New(zapcore.InfoLevel)
			eventLogger := ui.NewConsoleCommandEventLogger(zap.New(observedCore))

			testCase.emitEvent(eventLogger)

			loggedEntries := observedLogs.All()
			require.Len(testInstance, loggedEntries, 1)
			require.Equal(testInstance, testCase.expectedLevel, loggedEntries[0].Level)
			require.Equal(testInstance, testCase.expectedMessage, loggedEntries[0].Message)
		})
	}
}

func TestConsoleCommandEventLoggerNilLogger(testInstance *testing.T) {
	eventLogger := ui.NewConsoleCommandEventLogger(nil)
	require.NotPanics(testInstance, func() {
		eventLogger.CommandStarted(buildEventTestCommand())
	})
}
