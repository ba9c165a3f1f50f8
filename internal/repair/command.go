package repair

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/forgefix/prmend/internal/execshell"
	"github.com/forgefix/prmend/internal/gitrepo"
	"github.com/forgefix/prmend/internal/ui"
	"github.com/forgefix/prmend/internal/utils"
	"github.com/forgefix/prmend/internal/utils/flags"
	pathutils "github.com/forgefix/prmend/internal/utils/path"
)

const (
	commandUseConstant              = "repair"
	commandShortDescriptionConstant = "Rebuild broken pull request branches"
	commandLongDescriptionConstant  = "repair recreates each configured branch from the base branch, cherry-picks the most suitable commit from the remote branch history, resolves lockfile conflicts by taking the incoming version, and force-pushes the rebuilt branch over the original."

	shellExecutorCreationErrorTemplateConstant     = "unable to construct shell executor: %w"
	repositoryManagerCreationErrorTemplateConstant = "unable to construct repository manager: %w"
	conflictResolverCreationErrorTemplateConstant  = "unable to construct conflict resolver: %w"
	repositoryResolutionErrorTemplateConstant      = "unable to resolve repository path: %w"

	summaryResultLineTemplateConstant    = "%s %s (%s)\n"
	summaryFailureLineTemplateConstant   = "%s %s: %s\n"
	summaryRunTotalsTemplateConstant     = "repaired %d of %d branches\n"
	summaryPlannedCommitLabelTemplate    = "would replay %s"
	summaryReplayedCommitLabelTemplate   = "replayed %s"
	logMessageUsingConfigurationConstant = "using configuration file"
	logMessageRepairRunFailedConstant    = "repair run did not complete"
	logFieldConfigurationPathConstant    = "path"
)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// CommandExecutor executes git commands on behalf of the repair command.
type CommandExecutor interface {
	gitrepo.GitExecutor
}

// BranchRepairExecutor runs a configured branch repair.
type BranchRepairExecutor interface {
	Repair(executionContext context.Context, options RepairOptions) (RepairSummary, error)
}

// ServiceProvider constructs a repair executor from dependencies.
type ServiceProvider func(dependencies ServiceDependencies) (BranchRepairExecutor, error)

// CommandBuilder assembles the repair Cobra command.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	Executor                     CommandExecutor
	ServiceProvider              ServiceProvider
	HumanReadableLoggingProvider func() bool
	ConfigurationProvider        func() CommandConfiguration
	SummaryWriter                io.Writer

	dryRunFlagValue bool
}

// Build constructs the repair command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:           commandUseConstant,
		Short:         commandShortDescriptionConstant,
		Long:          commandLongDescriptionConstant,
		SilenceErrors: true,
		SilenceUsage:  true,
		Args:          cobra.NoArgs,
		RunE:          builder.runRepair,
	}

	command.Flags().String(flags.RepositoryFlagName, "", flags.RepositoryFlagUsage)
	command.Flags().String(flags.RemoteFlagName, "", flags.RemoteFlagUsage)
	command.Flags().String(flags.TargetsFlagName, "", flags.TargetsFlagUsage)
	flags.AddToggleFlag(command.Flags(), &builder.dryRunFlagValue, flags.DryRunFlagName, "", false, flags.DryRunFlagUsage)

	return command, nil
}

func (builder *CommandBuilder) runRepair(command *cobra.Command, arguments []string) error {
	configuration := builder.resolveConfiguration()
	options, optionsError := builder.parseOptions(command, configuration)
	if optionsError != nil {
		return optionsError
	}

	logger := builder.resolveLogger()

	contextAccessor := utils.NewCommandContextAccessor()
	if configurationFilePath, available := contextAccessor.ConfigurationFilePath(command.Context()); available {
		logger.Debug(logMessageUsingConfigurationConstant, zap.String(logFieldConfigurationPathConstant, configurationFilePath))
	}

	executor, executorError := builder.resolveExecutor(logger)
	if executorError != nil {
		return executorError
	}

	repositoryManager, managerError := gitrepo.NewRepositoryManager(executor)
	if managerError != nil {
		return fmt.Errorf(repositoryManagerCreationErrorTemplateConstant, managerError)
	}

	commitSelector := NewKeywordCommitSelector(KeywordSelectionPolicy{
		IncludeKeywords: configuration.IncludeKeywords,
		ExcludeKeywords: configuration.ExcludeKeywords,
	})

	conflictResolver, resolverError := NewLockfileConflictResolver(repositoryManager, configuration.ConflictFilePath, logger)
	if resolverError != nil {
		return fmt.Errorf(conflictResolverCreationErrorTemplateConstant, resolverError)
	}

	service, serviceError := builder.resolveService(ServiceDependencies{
		Logger:            logger,
		RepositoryManager: repositoryManager,
		CommitSelector:    commitSelector,
		ConflictResolver:  conflictResolver,
	})
	if serviceError != nil {
		return serviceError
	}

	summary, repairError := service.Repair(command.Context(), options)
	builder.writeSummary(command, summary, options)

	// Per-branch failures are recorded in the summary; a run-level failure is
	// logged without failing the process so scripted drivers keep going.
	if repairError != nil {
		logger.Error(logMessageRepairRunFailedConstant, zap.Error(repairError))
	}
	return nil
}

func (builder *CommandBuilder) parseOptions(command *cobra.Command, configuration CommandConfiguration) (RepairOptions, error) {
	repositoryPathInput := configuration.RepositoryPath
	if flagValue, flagError := command.Flags().GetString(flags.RepositoryFlagName); flagError == nil && len(strings.TrimSpace(flagValue)) > 0 {
		repositoryPathInput = flagValue
	}

	repositoryPath, repositoryError := pathutils.NewRepositoryPathResolver().Resolve(repositoryPathInput)
	if repositoryError != nil {
		return RepairOptions{}, fmt.Errorf(repositoryResolutionErrorTemplateConstant, repositoryError)
	}

	remoteName := configuration.RemoteName
	if flagValue, flagError := command.Flags().GetString(flags.RemoteFlagName); flagError == nil && len(strings.TrimSpace(flagValue)) > 0 {
		remoteName = flagValue
	}

	targets := configuration.Targets
	if targetsFilePath, flagError := command.Flags().GetString(flags.TargetsFlagName); flagError == nil && len(strings.TrimSpace(targetsFilePath)) > 0 {
		loadedTargets, loadError := LoadBranchTargets(targetsFilePath)
		if loadError != nil {
			return RepairOptions{}, loadError
		}
		targets = loadedTargets
	}

	dryRun := configuration.DryRun
	if command.Flags().Changed(flags.DryRunFlagName) {
		dryRun = builder.dryRunFlagValue
	}

	return RepairOptions{
		RepositoryPath:    repositoryPath,
		RemoteName:        remoteName,
		BaseBranch:        configuration.BaseBranch,
		CleanBranchSuffix: configuration.CleanBranchSuffix,
		CandidateLimit:    configuration.CandidateLimit,
		CommandTimeout:    time.Duration(configuration.CommandTimeoutSeconds) * time.Second,
		DryRun:            dryRun,
		Targets:           targets,
	}, nil
}

func (builder *CommandBuilder) writeSummary(command *cobra.Command, summary RepairSummary, options RepairOptions) {
	summaryWriter := builder.SummaryWriter
	if summaryWriter == nil {
		summaryWriter = utils.NewFlushingWriter(command.OutOrStdout())
	}
	if summaryWriter == nil {
		return
	}

	for _, result := range summary.Results {
		switch result.Status {
		case RepairStatusRepaired:
			fmt.Fprintf(summaryWriter, summaryResultLineTemplateConstant, result.Status, result.Branch, fmt.Sprintf(summaryReplayedCommitLabelTemplate, result.SelectedCommit.Hash))
		case RepairStatusPlanned:
			fmt.Fprintf(summaryWriter, summaryResultLineTemplateConstant, result.Status, result.Branch, fmt.Sprintf(summaryPlannedCommitLabelTemplate, result.SelectedCommit.Hash))
		default:
			fmt.Fprintf(summaryWriter, summaryFailureLineTemplateConstant, result.Status, result.Branch, result.FailureReason)
		}
	}
	fmt.Fprintf(summaryWriter, summaryRunTotalsTemplateConstant, summary.RepairedCount(), len(options.Targets))
}

func (builder *CommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider != nil {
		return builder.ConfigurationProvider().Sanitize()
	}
	return DefaultCommandConfiguration().Sanitize()
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider != nil {
		if logger := builder.LoggerProvider(); logger != nil {
			return logger
		}
	}
	return zap.NewNop()
}

func (builder *CommandBuilder) resolveHumanReadableLogging() bool {
	if builder.HumanReadableLoggingProvider != nil {
		return builder.HumanReadableLoggingProvider()
	}
	return false
}

func (builder *CommandBuilder) resolveExecutor(logger *zap.Logger) (CommandExecutor, error) {
	if builder.Executor != nil {
		return builder.Executor, nil
	}

	humanReadableLogging := builder.resolveHumanReadableLogging()
	shellExecutor, executorError := execshell.NewShellExecutor(logger, execshell.NewOSCommandRunner(), humanReadableLogging)
	if executorError != nil {
		return nil, fmt.Errorf(shellExecutorCreationErrorTemplateConstant, executorError)
	}
	if humanReadableLogging {
		shellExecutor.AddObserver(ui.NewConsoleCommandEventLogger(logger))
	}
	return shellExecutor, nil
}

func (builder *CommandBuilder) resolveService(dependencies ServiceDependencies) (BranchRepairExecutor, error) {
	if builder.ServiceProvider != nil {
		return builder.ServiceProvider(dependencies)
	}
	service, serviceError := NewService(dependencies)
	if serviceError != nil {
		return nil, serviceError
	}
	return service, nil
}
