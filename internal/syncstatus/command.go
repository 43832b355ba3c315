package syncstatus

import (
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/syncstatus/internal/execshell"
	"github.com/temirov/syncstatus/internal/repos/dependencies"
	"github.com/temirov/syncstatus/internal/repos/shared"
	"github.com/temirov/syncstatus/internal/ui"
	"github.com/temirov/syncstatus/internal/utils"
	pathutils "github.com/temirov/syncstatus/internal/utils/path"
)

const (
	commandUseConstant              = "status"
	commandShortDescriptionConstant = "Report local and remote sync status of a repository"
	commandLongDescriptionConstant  = "status prints the remotes, current branch, recent history, working tree state, fetch output and the commits not yet pushed or pulled for a repository."
)

// LoggerProvider yields a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// CommandBuilder assembles the status command.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	ConsoleLoggerProvider        LoggerProvider
	GitExecutor                  shared.GitExecutor
	FileSystem                   shared.FileSystem
	PathResolver                 *pathutils.RepositoryPathResolver
	HumanReadableLoggingProvider func() bool
	ConfigurationProvider        func() CommandConfiguration
}

// Build constructs the status command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   commandUseConstant,
		Short: commandShortDescriptionConstant,
		Long:  commandLongDescriptionConstant,
		Args:  cobra.NoArgs,
		RunE:  builder.run,
	}

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	configuration := builder.resolveConfiguration()

	repositoryPath := configuration.RepositoryPath
	contextAccessor := utils.NewCommandContextAccessor()
	if contextRepositoryPath, exists := contextAccessor.RepositoryPath(command.Context()); exists {
		if len(strings.TrimSpace(contextRepositoryPath)) > 0 {
			repositoryPath = contextRepositoryPath
		}
	}

	resolvedRepositoryPath, resolveError := builder.resolvePathResolver().Resolve(repositoryPath)
	if resolveError != nil {
		return resolveError
	}

	colorMode, colorModeError := ui.ParseColorMode(configuration.Color)
	if colorModeError != nil {
		return colorModeError
	}

	logger := builder.resolveLogger()
	observers := make([]execshell.CommandEventObserver, 0, 1)
	if builder.HumanReadableLoggingProvider != nil && builder.HumanReadableLoggingProvider() {
		observers = append(observers, ui.NewConsoleCommandEventLogger(builder.resolveConsoleLogger()))
	}

	gitExecutor, executorError := dependencies.ResolveGitExecutor(builder.GitExecutor, logger, observers...)
	if executorError != nil {
		return executorError
	}

	repositoryManager, managerError := dependencies.ResolveGitRepositoryManager(gitExecutor)
	if managerError != nil {
		return managerError
	}

	outputWriter := command.OutOrStdout()
	service, serviceCreationError := NewService(Dependencies{
		RepositoryManager: repositoryManager,
		FileSystem:        builder.FileSystem,
		Logger:            logger,
		Output:            outputWriter,
		Styler:            ui.NewSectionStyler(outputWriter, colorMode),
	})
	if serviceCreationError != nil {
		return serviceCreationError
	}

	options := OptionsFromConfiguration(configuration)
	options.RepositoryPath = resolvedRepositoryPath

	_, runError := service.Run(command.Context(), options)
	return runError
}

func (builder *CommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultCommandConfiguration()
	}
	return builder.ConfigurationProvider().Sanitize()
}

func (builder *CommandBuilder) resolvePathResolver() *pathutils.RepositoryPathResolver {
	if builder.PathResolver != nil {
		return builder.PathResolver
	}
	return pathutils.NewRepositoryPathResolver()
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	return resolveProvidedLogger(builder.LoggerProvider)
}

func (builder *CommandBuilder) resolveConsoleLogger() *zap.Logger {
	return resolveProvidedLogger(builder.ConsoleLoggerProvider)
}

func resolveProvidedLogger(provider LoggerProvider) *zap.Logger {
	if provider == nil {
		return zap.NewNop()
	}
	logger := provider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
