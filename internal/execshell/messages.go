package execshell

import (
	"fmt"
	"strings"
)

type messageStage int

const (
	messageStageStart messageStage = iota
	messageStageSuccess
	messageStageFailure
	messageStageExecutionFailure
)

const (
	genericStartTemplateConstant            = "Running %s"
	genericSuccessTemplateConstant          = "Completed %s"
	genericFailureTemplateConstant          = "%s failed with exit code %d%s"
	genericExecutionFailureTemplateConstant = "%s failed: %s"
	standardErrorSuffixTemplateConstant     = ": %s"
	unknownFailureMessageConstant           = "unknown error"
	emptyStringConstant                     = ""
	defaultWorkingDirectoryLabelConstant    = "current directory"
	fallbackUnknownValueLabelConstant       = "unknown"
)

const (
	gitCheckoutSubcommandNameConstant   = "checkout"
	gitBranchSubcommandNameConstant     = "branch"
	gitLogSubcommandNameConstant        = "log"
	gitCherryPickSubcommandNameConstant = "cherry-pick"
	gitAddSubcommandNameConstant        = "add"
	gitResetSubcommandNameConstant      = "reset"
	gitPushSubcommandNameConstant       = "push"
	gitDeleteFlagConstant               = "-D"
	gitCreateBranchFlagConstant         = "-b"
	gitContinueFlagConstant             = "--continue"
	gitAbortFlagConstant                = "--abort"
	gitForceFlagConstant                = "--force"
	gitTheirsFlagConstant               = "--theirs"
)

const (
	gitCheckoutStartTemplateConstant           = "Switching %s to %s"
	gitCheckoutSuccessTemplateConstant         = "%s now on %s"
	gitCheckoutFailureTemplateConstant         = "Failed to switch %s to %s (exit code %d%s)"
	gitCheckoutTheirsStartTemplateConstant     = "Accepting incoming version of %s in %s"
	gitCheckoutTheirsSuccessTemplateConstant   = "Accepted incoming version of %s in %s"
	gitCheckoutTheirsFailureTemplateConstant   = "Failed to accept incoming version of %s in %s (exit code %d%s)"
	gitBranchCreationStartTemplateConstant     = "Creating branch %s in %s"
	gitBranchCreationSuccessTemplateConstant   = "Created branch %s in %s"
	gitBranchCreationFailureTemplateConstant   = "Failed to create branch %s in %s (exit code %d%s)"
	gitBranchDeletionStartTemplateConstant     = "Removing local branch %s in %s"
	gitBranchDeletionSuccessTemplateConstant   = "Removed local branch %s in %s"
	gitBranchDeletionFailureTemplateConstant   = "Failed to remove local branch %s in %s (exit code %d%s)"
	gitLogStartTemplateConstant                = "Reading history of %s in %s"
	gitLogSuccessTemplateConstant              = "Read history of %s in %s"
	gitLogFailureTemplateConstant              = "Failed to read history of %s in %s (exit code %d%s)"
	gitCherryPickStartTemplateConstant         = "Replaying commit %s in %s"
	gitCherryPickSuccessTemplateConstant       = "Replayed commit %s in %s"
	gitCherryPickFailureTemplateConstant       = "Failed to replay commit %s in %s (exit code %d%s)"
	gitCherryPickContinueStartTemplateConstant = "Continuing replay in %s"
	gitCherryPickContinueSuccessConstant       = "Replay continued in %s"
	gitCherryPickContinueFailureConstant       = "Failed to continue replay in %s (exit code %d%s)"
	gitCherryPickAbortStartTemplateConstant    = "Aborting replay in %s"
	gitCherryPickAbortSuccessConstant          = "Replay aborted in %s"
	gitCherryPickAbortFailureConstant          = "Failed to abort replay in %s (exit code %d%s)"
	gitAddStartTemplateConstant                = "Staging %s in %s"
	gitAddSuccessTemplateConstant              = "Staged %s in %s"
	gitAddFailureTemplateConstant              = "Failed to stage %s in %s (exit code %d%s)"
	gitResetStartTemplateConstant              = "Resetting %s to %s"
	gitResetSuccessTemplateConstant            = "Reset %s to %s"
	gitResetFailureTemplateConstant            = "Failed to reset %s to %s (exit code %d%s)"
	gitPushStartTemplateConstant               = "Pushing %s to %s from %s"
	gitPushSuccessTemplateConstant             = "Pushed %s to %s from %s"
	gitPushFailureTemplateConstant             = "Failed to push %s to %s from %s (exit code %d%s)"
)

// CommandMessageFormatter builds human-readable messages for command lifecycle events.
type CommandMessageFormatter struct{}

// BuildStartedMessage formats the message describing a command about to run.
func (formatter CommandMessageFormatter) BuildStartedMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageStart)
}

// BuildSuccessMessage formats the message describing a completed command with a zero exit code.
func (formatter CommandMessageFormatter) BuildSuccessMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageSuccess)
}

// BuildFailureMessage formats the message describing a command that returned a non-zero exit code.
func (formatter CommandMessageFormatter) BuildFailureMessage(command ShellCommand, result ExecutionResult) string {
	return formatter.buildMessage(command, result, nil, messageStageFailure)
}

// BuildExecutionFailureMessage formats the message describing an unexpected execution failure.
func (formatter CommandMessageFormatter) BuildExecutionFailureMessage(command ShellCommand, failure error) string {
	return formatter.buildMessage(command, ExecutionResult{}, failure, messageStageExecutionFailure)
}

func (formatter CommandMessageFormatter) buildMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	if command.Name != CommandGit || len(command.Details.Arguments) == 0 {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}

	subcommand := strings.TrimSpace(command.Details.Arguments[0])
	switch subcommand {
	case gitCheckoutSubcommandNameConstant:
		return formatter.describeCheckoutMessage(command, result, failure, stage)
	case gitBranchSubcommandNameConstant:
		return formatter.describeBranchMessage(command, result, failure, stage)
	case gitLogSubcommandNameConstant:
		return formatter.describeLogMessage(command, result, failure, stage)
	case gitCherryPickSubcommandNameConstant:
		return formatter.describeCherryPickMessage(command, result, failure, stage)
	case gitAddSubcommandNameConstant:
		return formatter.describeAddMessage(command, result, failure, stage)
	case gitResetSubcommandNameConstant:
		return formatter.describeResetMessage(command, result, failure, stage)
	case gitPushSubcommandNameConstant:
		return formatter.describePushMessage(command, result, failure, stage)
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeCheckoutMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	arguments := command.Details.Arguments
	workingDirectory := formatter.describeWorkingDirectory(command)

	if containsArgument(arguments, gitTheirsFlagConstant) {
		targetPath := formatter.ensureValue(formatter.lastNonFlagArgument(arguments[1:]))
		switch stage {
		case messageStageStart:
			return fmt.Sprintf(gitCheckoutTheirsStartTemplateConstant, targetPath, workingDirectory)
		case messageStageSuccess:
			return fmt.Sprintf(gitCheckoutTheirsSuccessTemplateConstant, targetPath, workingDirectory)
		case messageStageFailure:
			return fmt.Sprintf(gitCheckoutTheirsFailureTemplateConstant, targetPath, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
		case messageStageExecutionFailure:
			return formatter.buildGenericMessage(command, result, failure, stage)
		}
	}

	branchName := formatter.ensureValue(formatter.lastNonFlagArgument(arguments[1:]))
	for argumentIndex, argument := range arguments {
		if strings.TrimSpace(argument) == gitCreateBranchFlagConstant && argumentIndex+1 < len(arguments) {
			branchName = formatter.ensureValue(arguments[argumentIndex+1])
			break
		}
	}
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(gitCheckoutStartTemplateConstant, workingDirectory, branchName)
	case messageStageSuccess:
		return fmt.Sprintf(gitCheckoutSuccessTemplateConstant, workingDirectory, branchName)
	case messageStageFailure:
		return fmt.Sprintf(gitCheckoutFailureTemplateConstant, workingDirectory, branchName, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeBranchMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	arguments := command.Details.Arguments
	workingDirectory := formatter.describeWorkingDirectory(command)
	branchName := formatter.ensureValue(formatter.lastNonFlagArgument(arguments[1:]))

	if containsArgument(arguments, gitDeleteFlagConstant) {
		switch stage {
		case messageStageStart:
			return fmt.Sprintf(gitBranchDeletionStartTemplateConstant, branchName, workingDirectory)
		case messageStageSuccess:
			return fmt.Sprintf(gitBranchDeletionSuccessTemplateConstant, branchName, workingDirectory)
		case messageStageFailure:
			return fmt.Sprintf(gitBranchDeletionFailureTemplateConstant, branchName, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
		case messageStageExecutionFailure:
			return formatter.buildGenericMessage(command, result, failure, stage)
		}
	}

	switch stage {
	case messageStageStart:
		return fmt.Sprintf(gitBranchCreationStartTemplateConstant, branchName, workingDirectory)
	case messageStageSuccess:
		return fmt.Sprintf(gitBranchCreationSuccessTemplateConstant, branchName, workingDirectory)
	case messageStageFailure:
		return fmt.Sprintf(gitBranchCreationFailureTemplateConstant, branchName, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeLogMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	workingDirectory := formatter.describeWorkingDirectory(command)
	reference := formatter.ensureValue(formatter.lastNonFlagArgument(command.Details.Arguments[1:]))
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(gitLogStartTemplateConstant, reference, workingDirectory)
	case messageStageSuccess:
		return fmt.Sprintf(gitLogSuccessTemplateConstant, reference, workingDirectory)
	case messageStageFailure:
		return fmt.Sprintf(gitLogFailureTemplateConstant, reference, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeCherryPickMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	arguments := command.Details.Arguments
	workingDirectory := formatter.describeWorkingDirectory(command)

	if containsArgument(arguments, gitContinueFlagConstant) {
		switch stage {
		case messageStageStart:
			return fmt.Sprintf(gitCherryPickContinueStartTemplateConstant, workingDirectory)
		case messageStageSuccess:
			return fmt.Sprintf(gitCherryPickContinueSuccessConstant, workingDirectory)
		case messageStageFailure:
			return fmt.Sprintf(gitCherryPickContinueFailureConstant, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
		case messageStageExecutionFailure:
			return formatter.buildGenericMessage(command, result, failure, stage)
		}
	}

	if containsArgument(arguments, gitAbortFlagConstant) {
		switch stage {
		case messageStageStart:
			return fmt.Sprintf(gitCherryPickAbortStartTemplateConstant, workingDirectory)
		case messageStageSuccess:
			return fmt.Sprintf(gitCherryPickAbortSuccessConstant, workingDirectory)
		case messageStageFailure:
			return fmt.Sprintf(gitCherryPickAbortFailureConstant, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
		case messageStageExecutionFailure:
			return formatter.buildGenericMessage(command, result, failure, stage)
		}
	}

	commitReference := formatter.ensureValue(formatter.lastNonFlagArgument(arguments[1:]))
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(gitCherryPickStartTemplateConstant, commitReference, workingDirectory)
	case messageStageSuccess:
		return fmt.Sprintf(gitCherryPickSuccessTemplateConstant, commitReference, workingDirectory)
	case messageStageFailure:
		return fmt.Sprintf(gitCherryPickFailureTemplateConstant, commitReference, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeAddMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	workingDirectory := formatter.describeWorkingDirectory(command)
	targetPath := formatter.ensureValue(formatter.lastNonFlagArgument(command.Details.Arguments[1:]))
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(gitAddStartTemplateConstant, targetPath, workingDirectory)
	case messageStageSuccess:
		return fmt.Sprintf(gitAddSuccessTemplateConstant, targetPath, workingDirectory)
	case messageStageFailure:
		return fmt.Sprintf(gitAddFailureTemplateConstant, targetPath, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeResetMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	workingDirectory := formatter.describeWorkingDirectory(command)
	targetReference := formatter.ensureValue(formatter.lastNonFlagArgument(command.Details.Arguments[1:]))
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(gitResetStartTemplateConstant, workingDirectory, targetReference)
	case messageStageSuccess:
		return fmt.Sprintf(gitResetSuccessTemplateConstant, workingDirectory, targetReference)
	case messageStageFailure:
		return fmt.Sprintf(gitResetFailureTemplateConstant, workingDirectory, targetReference, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describePushMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	workingDirectory := formatter.describeWorkingDirectory(command)
	arguments := command.Details.Arguments
	remoteName := formatter.ensureValue(formatter.firstNonFlagArgument(arguments[1:]))
	branchReference := formatter.ensureValue(formatter.lastNonFlagArgument(arguments[1:]))
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(gitPushStartTemplateConstant, branchReference, remoteName, workingDirectory)
	case messageStageSuccess:
		return fmt.Sprintf(gitPushSuccessTemplateConstant, branchReference, remoteName, workingDirectory)
	case messageStageFailure:
		return fmt.Sprintf(gitPushFailureTemplateConstant, branchReference, remoteName, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) buildGenericMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	commandLabel := formatCommandLabel(command)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(genericStartTemplateConstant, commandLabel)
	case messageStageSuccess:
		return fmt.Sprintf(genericSuccessTemplateConstant, commandLabel)
	case messageStageFailure:
		return fmt.Sprintf(genericFailureTemplateConstant, commandLabel, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(genericExecutionFailureTemplateConstant, commandLabel, formatter.describeFailure(failure))
	default:
		return emptyStringConstant
	}
}

func (formatter CommandMessageFormatter) formatStandardErrorSuffix(standardError string) string {
	trimmedStandardError := strings.TrimSpace(standardError)
	if len(trimmedStandardError) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(standardErrorSuffixTemplateConstant, trimmedStandardError)
}

func (formatter CommandMessageFormatter) describeWorkingDirectory(command ShellCommand) string {
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return defaultWorkingDirectoryLabelConstant
	}
	return trimmedWorkingDirectory
}

func (formatter CommandMessageFormatter) describeFailure(failure error) string {
	if failure == nil {
		return unknownFailureMessageConstant
	}
	return failure.Error()
}

func (formatter CommandMessageFormatter) ensureValue(value string) string {
	trimmed := strings.TrimSpace(value)
	if len(trimmed) == 0 {
		return fallbackUnknownValueLabelConstant
	}
	return trimmed
}

func (formatter CommandMessageFormatter) firstNonFlagArgument(arguments []string) string {
	for _, argument := range arguments {
		trimmed := strings.TrimSpace(argument)
		if len(trimmed) == 0 || strings.HasPrefix(trimmed, "-") {
			continue
		}
		return trimmed
	}
	return emptyStringConstant
}

func (formatter CommandMessageFormatter) lastNonFlagArgument(arguments []string) string {
	for index := len(arguments) - 1; index >= 0; index-- {
		trimmed := strings.TrimSpace(arguments[index])
		if len(trimmed) == 0 || strings.HasPrefix(trimmed, "-") {
			continue
		}
		return trimmed
	}
	return emptyStringConstant
}

func containsArgument(arguments []string, value string) bool {
	for _, argument := range arguments {
		if strings.TrimSpace(argument) == value {
			return true
		}
	}
	return false
}
