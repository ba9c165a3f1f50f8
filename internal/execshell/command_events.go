package execshell

// CommandEventObserver is notified about the lifecycle of each executed
// command: before it starts, after it produces a result, and when execution
// could not produce a result at all.
type CommandEventObserver interface {
	CommandStarted(command ShellCommand)
	CommandCompleted(command ShellCommand, result ExecutionResult)
	CommandExecutionFailed(command ShellCommand, failure error)
}
