package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/temirov/syncstatus/internal/syncstatus"
	"github.com/temirov/syncstatus/internal/ui"
	"github.com/temirov/syncstatus/internal/utils"
	flagutils "github.com/temirov/syncstatus/internal/utils/flags"
)

const (
	applicationNameConstant                    = "git-sync-status"
	applicationShortDescriptionConstant        = "Report Git local and remote sync status"
	applicationLongDescriptionConstant         = "git-sync-status checks the remotes, current branch, recent history and working tree of a repository, fetches the remote and lists the commits that are not yet pushed or pulled."
	configFileFlagNameConstant                 = "config"
	configFileFlagUsageConstant                = "Optional path to a configuration file (YAML or JSON)."
	logLevelFlagNameConstant                   = "log-level"
	logLevelFlagUsageConstant                  = "Override the configured log level."
	logFormatFlagNameConstant                  = "log-format"
	logFormatFlagUsageConstant                 = "Override the configured log format."
	repositoryFlagNameConstant                 = "repository"
	repositoryFlagUsageConstant                = "Repository to inspect instead of the configured repository path."
	colorFlagNameConstant                      = "color"
	colorFlagUsageConstant                     = "Override when report sections are colorized."
	versionFlagNameConstant                    = "version"
	versionFlagUsageConstant                   = "Print the application version and exit."
	versionOutputTemplateConstant              = "%s version: %s\n"
	developmentVersionConstant                 = "dev"
	develVersionMarkerConstant                 = "(devel)"
	commonConfigurationKeyConstant             = "common"
	commonLogLevelConfigKeyConstant            = commonConfigurationKeyConstant + ".log_level"
	commonLogFormatConfigKeyConstant           = commonConfigurationKeyConstant + ".log_format"
	toolsConfigurationKeyConstant              = "tools"
	statusConfigurationKeyConstant             = toolsConfigurationKeyConstant + ".status"
	environmentPrefixConstant                  = "SYNCSTATUS"
	configurationSearchPathEnvironmentConstant = "SYNCSTATUS_CONFIG_SEARCH_PATH"
	configurationNameConstant                  = "config"
	configurationTypeConstant                  = "yaml"
	configurationDirectoryNameConstant         = "git-sync-status"
	defaultConfigurationSearchPathConstant     = "."
	configurationInitializedMessageConstant    = "configuration initialized"
	configurationLogLevelFieldConstant         = "log_level"
	configurationLogFormatFieldConstant        = "log_format"
	configurationFileFieldConstant             = "config_file"
	configurationLoadErrorTemplateConstant     = "unable to load configuration: %w"
	loggerCreationErrorTemplateConstant        = "unable to create logger: %w"
	loggerSyncErrorTemplateConstant            = "unable to flush logger: %w"
	statusCommandBuildErrorTemplateConstant    = "unable to build status command: %w"
	unknownCommandErrorTemplateConstant        = "unknown command %q"
	rootCommandDebugMessageConstant            = "git-sync-status diagnostics"
	logFieldCommandNameConstant                = "command_name"
	logFieldRepositoryConstant                 = "repository"
	loggerNotInitializedMessageConstant        = "logger not initialized"
	statusCommandNotInitializedMessageConstant = "status command not initialized"
)

// ApplicationConfiguration describes the persisted configuration for the CLI entrypoint.
type ApplicationConfiguration struct {
	Common ApplicationCommonConfiguration `mapstructure:"common"`
	Tools  ApplicationToolsConfiguration  `mapstructure:"tools"`
}

// ApplicationCommonConfiguration stores logging configuration shared across commands.
type ApplicationCommonConfiguration struct {
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

// ApplicationToolsConfiguration holds configuration for CLI commands.
type ApplicationToolsConfiguration struct {
	Status syncstatus.CommandConfiguration `mapstructure:"status"`
}

// Application wires the Cobra root command, configuration loader, and structured logger.
type Application struct {
	rootCommand            *cobra.Command
	statusCommand          *cobra.Command
	configurationLoader    *utils.ConfigurationLoader
	loggerFactory          *utils.LoggerFactory
	logger                 *zap.Logger
	consoleLogger          *zap.Logger
	configuration          ApplicationConfiguration
	configurationMetadata  utils.LoadedConfiguration
	configurationFilePath  string
	logLevelFlagValue      string
	logFormatFlagValue     string
	repositoryFlagValue    string
	colorFlagValue         string
	versionRequested       bool
	buildError             error
	versionResolver        func(context.Context) string
	exitFunction           func(int)
	commandContextAccessor utils.CommandContextAccessor
}

// NewApplication assembles a fully wired CLI application instance.
func NewApplication() *Application {
	configurationLoader := utils.NewConfigurationLoader(
		configurationNameConstant,
		configurationTypeConstant,
		environmentPrefixConstant,
		resolveConfigurationSearchPaths(),
	)
	configurationLoader.SetEmbeddedConfiguration(EmbeddedDefaultConfiguration())

	application := &Application{
		configurationLoader:    configurationLoader,
		loggerFactory:          utils.NewLoggerFactory(),
		logger:                 zap.NewNop(),
		consoleLogger:          zap.NewNop(),
		versionResolver:        resolveBuildVersion,
		exitFunction:           os.Exit,
		commandContextAccessor: utils.NewCommandContextAccessor(),
	}

	cobraCommand := &cobra.Command{
		Use:           applicationNameConstant,
		Short:         applicationShortDescriptionConstant,
		Long:          applicationLongDescriptionConstant,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(command *cobra.Command, arguments []string) error {
			if application.versionRequested {
				application.printVersion(command)
				return nil
			}
			return application.initializeConfiguration(command)
		},
		RunE: func(command *cobra.Command, arguments []string) error {
			return application.runRootCommand(command, arguments)
		},
	}

	cobraCommand.SetContext(context.Background())
	persistentFlags := cobraCommand.PersistentFlags()
	persistentFlags.StringVar(&application.configurationFilePath, configFileFlagNameConstant, "", configFileFlagUsageConstant)
	persistentFlags.Var(
		flagutils.NewChoiceValue(&application.logLevelFlagValue, utils.SupportedLogLevels()),
		logLevelFlagNameConstant,
		flagutils.FormatChoiceUsage(string(utils.LogLevelInfo), utils.SupportedLogLevels(), logLevelFlagUsageConstant),
	)
	persistentFlags.Var(
		flagutils.NewChoiceValue(&application.logFormatFlagValue, utils.SupportedLogFormats()),
		logFormatFlagNameConstant,
		flagutils.FormatChoiceUsage(string(utils.LogFormatStructured), utils.SupportedLogFormats(), logFormatFlagUsageConstant),
	)
	persistentFlags.StringVar(&application.repositoryFlagValue, repositoryFlagNameConstant, "", repositoryFlagUsageConstant)
	persistentFlags.Var(
		flagutils.NewChoiceValue(&application.colorFlagValue, ui.SupportedColorModes()),
		colorFlagNameConstant,
		flagutils.FormatChoiceUsage(string(ui.ColorModeAuto), ui.SupportedColorModes(), colorFlagUsageConstant),
	)
	cobraCommand.Flags().BoolVar(&application.versionRequested, versionFlagNameConstant, false, versionFlagUsageConstant)

	statusBuilder := syncstatus.CommandBuilder{
		LoggerProvider: func() *zap.Logger {
			return application.logger
		},
		ConsoleLoggerProvider: func() *zap.Logger {
			return application.consoleLogger
		},
		HumanReadableLoggingProvider: application.humanReadableLoggingEnabled,
		ConfigurationProvider: func() syncstatus.CommandConfiguration {
			return application.configuration.Tools.Status
		},
	}
	statusCommand, statusBuildError := statusBuilder.Build()
	if statusBuildError != nil {
		application.buildError = fmt.Errorf(statusCommandBuildErrorTemplateConstant, statusBuildError)
	} else {
		cobraCommand.AddCommand(statusCommand)
		application.statusCommand = statusCommand
	}

	application.rootCommand = cobraCommand

	return application
}

// Execute runs the configured Cobra command hierarchy and ensures logger flushing.
func (application *Application) Execute() error {
	if application.buildError != nil {
		return application.buildError
	}
	executionError := application.rootCommand.Execute()
	if syncError := application.flushLogger(); syncError != nil {
		return fmt.Errorf(loggerSyncErrorTemplateConstant, syncError)
	}
	return executionError
}

// Execute builds a fresh application instance and executes the root command hierarchy.
func Execute() error {
	return NewApplication().Execute()
}

// InitializeForCommand loads configuration and builds loggers as if the named command were executed.
// An empty name selects the root command.
func (application *Application) InitializeForCommand(commandUse string) error {
	command := application.rootCommand
	trimmedUse := strings.TrimSpace(commandUse)
	if len(trimmedUse) > 0 && trimmedUse != application.rootCommand.Name() {
		command = nil
		for _, subcommand := range application.rootCommand.Commands() {
			if subcommand.Name() == trimmedUse {
				command = subcommand
				break
			}
		}
		if command == nil {
			return fmt.Errorf(unknownCommandErrorTemplateConstant, trimmedUse)
		}
	}

	if command.Context() == nil {
		command.SetContext(context.Background())
	}
	return application.initializeConfiguration(command)
}

func (application *Application) initializeConfiguration(command *cobra.Command) error {
	defaultValues := map[string]any{
		commonLogLevelConfigKeyConstant:  string(utils.LogLevelInfo),
		commonLogFormatConfigKeyConstant: string(utils.LogFormatStructured),
	}
	for configurationKey, configurationValue := range syncstatus.DefaultConfigurationValues(statusConfigurationKeyConstant) {
		defaultValues[configurationKey] = configurationValue
	}

	loadedConfiguration, loadError := application.configurationLoader.LoadConfiguration(application.configurationFilePath, defaultValues, &application.configuration)
	if loadError != nil {
		return fmt.Errorf(configurationLoadErrorTemplateConstant, loadError)
	}

	application.configurationMetadata = loadedConfiguration

	if application.persistentFlagChanged(command, logLevelFlagNameConstant) {
		application.configuration.Common.LogLevel = application.logLevelFlagValue
	}

	if application.persistentFlagChanged(command, logFormatFlagNameConstant) {
		application.configuration.Common.LogFormat = application.logFormatFlagValue
	}

	if application.persistentFlagChanged(command, colorFlagNameConstant) {
		application.configuration.Tools.Status.Color = application.colorFlagValue
	}

	loggerOutputs, loggerCreationError := application.loggerFactory.CreateLoggerOutputs(
		utils.LogLevel(strings.ToLower(strings.TrimSpace(application.configuration.Common.LogLevel))),
		utils.LogFormat(strings.ToLower(strings.TrimSpace(application.configuration.Common.LogFormat))),
	)
	if loggerCreationError != nil {
		return fmt.Errorf(loggerCreationErrorTemplateConstant, loggerCreationError)
	}

	application.logger = loggerOutputs.DiagnosticLogger
	application.consoleLogger = loggerOutputs.ConsoleLogger

	application.logger.Debug(
		configurationInitializedMessageConstant,
		zap.String(configurationLogLevelFieldConstant, application.configuration.Common.LogLevel),
		zap.String(configurationLogFormatFieldConstant, application.configuration.Common.LogFormat),
		zap.String(configurationFileFieldConstant, application.configurationMetadata.ConfigFileUsed),
	)

	if command != nil {
		updatedContext := application.commandContextAccessor.WithConfigurationFilePath(
			command.Context(),
			application.configurationMetadata.ConfigFileUsed,
		)
		if application.persistentFlagChanged(command, repositoryFlagNameConstant) {
			updatedContext = application.commandContextAccessor.WithRepositoryPath(updatedContext, application.repositoryFlagValue)
		}
		command.SetContext(updatedContext)
		if rootCommand := command.Root(); rootCommand != nil {
			rootCommand.SetContext(updatedContext)
		}
	}

	return nil
}

func (application *Application) humanReadableLoggingEnabled() bool {
	logFormatValue := strings.TrimSpace(application.configuration.Common.LogFormat)
	return strings.EqualFold(logFormatValue, string(utils.LogFormatConsole))
}

func (application *Application) runRootCommand(command *cobra.Command, arguments []string) error {
	if application.versionRequested {
		return nil
	}
	if application.logger == nil {
		return errors.New(loggerNotInitializedMessageConstant)
	}
	if application.statusCommand == nil || application.statusCommand.RunE == nil {
		return errors.New(statusCommandNotInitializedMessageConstant)
	}

	repositoryPath, _ := application.commandContextAccessor.RepositoryPath(command.Context())
	application.logger.Debug(
		rootCommandDebugMessageConstant,
		zap.String(logFieldCommandNameConstant, command.Name()),
		zap.String(logFieldRepositoryConstant, repositoryPath),
	)

	application.statusCommand.SetContext(command.Context())
	application.statusCommand.SetOut(command.OutOrStdout())
	return application.statusCommand.RunE(application.statusCommand, arguments)
}

func (application *Application) printVersion(command *cobra.Command) {
	version := developmentVersionConstant
	if application.versionResolver != nil {
		if resolvedVersion := strings.TrimSpace(application.versionResolver(command.Context())); len(resolvedVersion) > 0 {
			version = resolvedVersion
		}
	}
	fmt.Fprintf(command.OutOrStdout(), versionOutputTemplateConstant, applicationNameConstant, version)
	if application.exitFunction != nil {
		application.exitFunction(0)
	}
}

func (application *Application) flushLogger() error {
	for _, logger := range []*zap.Logger{application.logger, application.consoleLogger} {
		if syncError := application.syncLoggerInstance(logger); syncError != nil {
			return syncError
		}
	}
	return nil
}

func (application *Application) syncLoggerInstance(logger *zap.Logger) error {
	if logger == nil {
		return nil
	}

	syncError := logger.Sync()
	switch {
	case syncError == nil:
		return nil
	case errors.Is(syncError, syscall.ENOTSUP):
		return nil
	case errors.Is(syncError, syscall.EINVAL):
		return nil
	case errors.Is(syncError, syscall.ENOTTY):
		return nil
	default:
		return syncError
	}
}

func (application *Application) persistentFlagChanged(command *cobra.Command, flagName string) bool {
	if command == nil {
		return false
	}

	flagSetsToInspect := []*pflag.FlagSet{
		command.PersistentFlags(),
		command.InheritedFlags(),
	}

	rootCommand := command.Root()
	if rootCommand != nil {
		flagSetsToInspect = append(flagSetsToInspect, rootCommand.PersistentFlags())
	}

	for _, flagSet := range flagSetsToInspect {
		if flagSet == nil {
			continue
		}

		if flagSet.Changed(flagName) {
			return true
		}
	}

	return false
}

// resolveConfigurationSearchPaths returns only the override directory when
// SYNCSTATUS_CONFIG_SEARCH_PATH is set.
func resolveConfigurationSearchPaths() []string {
	if overridePath := strings.TrimSpace(os.Getenv(configurationSearchPathEnvironmentConstant)); len(overridePath) > 0 {
		return []string{overridePath}
	}
	searchPaths := []string{defaultConfigurationSearchPathConstant}
	if userConfigurationDirectory, directoryError := os.UserConfigDir(); directoryError == nil {
		searchPaths = append(searchPaths, filepath.Join(userConfigurationDirectory, configurationDirectoryNameConstant))
	}
	return searchPaths
}

func resolveBuildVersion(context.Context) string {
	buildInformation, available := debug.ReadBuildInfo()
	if !available {
		return developmentVersionConstant
	}
	mainVersion := strings.TrimSpace(buildInformation.Main.Version)
	if len(mainVersion) == 0 || mainVersion == develVersionMarkerConstant {
		return developmentVersionConstant
	}
	return mainVersion
}
