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
	commandLabelTemplateConstant            = "%s%s"
	workingDirectorySuffixTemplateConstant  = " (in %s)"
	commandArgumentsJoinSeparatorConstant   = " "
	standardErrorSuffixTemplateConstant     = ": %s"
	unknownFailureMessageConstant           = "unknown error"
	emptyStringConstant                     = ""
	defaultWorkingDirectoryLabelConstant    = "current directory"
	fallbackUnknownValueLabelConstant       = "unknown"
	revisionRangeSeparatorConstant          = ".."
)

const (
	gitRemoteSubcommandNameConstant    = "remote"
	gitRemoteVerboseFlagConstant       = "-v"
	gitBranchSubcommandNameConstant    = "branch"
	gitShowCurrentFlagConstant         = "--show-current"
	gitLogSubcommandNameConstant       = "log"
	gitStatusSubcommandNameConstant    = "status"
	gitStatusBranchFlagConstant        = "-sb"
	gitFetchSubcommandNameConstant     = "fetch"
	gitFetchAllRemotesLabelConstant    = "all remotes"
	gitLogLimitFlagPrefixConstant      = "-"
	gitLogDefaultRevisionConstant      = "HEAD"
	gitLogOnelineFlagConstant          = "--oneline"
	gitLogMaxCountFlagPrefixConstant   = "--max-count="
	gitLogNumericLimitSentinelConstant = -1
)

const (
	gitRemoteListStartTemplateConstant              = "Listing remotes in %s"
	gitRemoteListSuccessTemplateConstant            = "Listed %d remote entries in %s"
	gitRemoteListFailureTemplateConstant            = "Failed to list remotes in %s (exit code %d%s)"
	gitRemoteListExecutionFailureTemplateConstant   = "Unable to list remotes in %s: %s"
	gitCurrentBranchStartTemplateConstant           = "Identifying current branch in %s"
	gitCurrentBranchSuccessTemplateConstant         = "Current branch in %s is %s"
	gitCurrentBranchDetachedSuccessTemplateConstant = "%s is in a detached HEAD state"
	gitCurrentBranchFailureTemplateConstant         = "Failed to identify current branch in %s (exit code %d%s)"
	gitCurrentBranchExecutionTemplateConstant       = "Unable to identify current branch in %s: %s"
	gitHistoryStartTemplateConstant                 = "Reading the last %d commits of %s in %s"
	gitHistorySuccessTemplateConstant               = "Read %d commits of %s in %s"
	gitHistoryFailureTemplateConstant               = "Failed to read history of %s in %s (exit code %d%s)"
	gitHistoryExecutionFailureTemplateConstant      = "Unable to read history of %s in %s: %s"
	gitRangeStartTemplateConstant                   = "Comparing %s with %s in %s"
	gitRangeSuccessTemplateConstant                 = "Found %d commits in %s that are not in %s (in %s)"
	gitRangeFailureTemplateConstant                 = "Failed to compare %s with %s in %s (exit code %d%s)"
	gitRangeExecutionFailureTemplateConstant        = "Unable to compare %s with %s in %s: %s"
	gitStatusStartTemplateConstant                  = "Reviewing working tree status in %s"
	gitStatusSuccessTemplateConstant                = "Collected working tree status for %s"
	gitStatusFailureTemplateConstant                = "Failed to review working tree status in %s (exit code %d%s)"
	gitStatusExecutionFailureTemplateConstant       = "Unable to review working tree status in %s: %s"
	gitBranchSummaryStartTemplateConstant           = "Summarizing branch tracking state in %s"
	gitBranchSummarySuccessTemplateConstant         = "Summarized branch tracking state in %s"
	gitBranchSummaryFailureTemplateConstant         = "Failed to summarize branch tracking state in %s (exit code %d%s)"
	gitBranchSummaryExecutionTemplateConstant       = "Unable to summarize branch tracking state in %s: %s"
	gitFetchStartTemplateConstant                   = "Fetching from %s in %s"
	gitFetchSuccessTemplateConstant                 = "Fetched from %s in %s"
	gitFetchFailureTemplateConstant                 = "Failed to fetch from %s in %s (exit code %d%s)"
	gitFetchExecutionFailureTemplateConstant        = "Unable to fetch from %s in %s: %s"
)

// CommandMessageFormatter builds human-readable messages for command lifecycle events.
type CommandMessageFormatter struct{}

// BuildStartedMessage formats the message describing a command about to run.
func (formatter CommandMessageFormatter) BuildStartedMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageStart)
}

// BuildSuccessMessage formats the message describing a completed command with a zero exit code.
func (formatter CommandMessageFormatter) BuildSuccessMessage(command ShellCommand, result ExecutionResult) string {
	return formatter.buildMessage(command, result, nil, messageStageSuccess)
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
	case gitRemoteSubcommandNameConstant:
		if containsArgument(command.Details.Arguments, gitRemoteVerboseFlagConstant) {
			return formatter.describeGitRemoteListMessage(command, result, failure, stage)
		}
	case gitBranchSubcommandNameConstant:
		if containsArgument(command.Details.Arguments, gitShowCurrentFlagConstant) {
			return formatter.describeGitCurrentBranchMessage(command, result, failure, stage)
		}
	case gitLogSubcommandNameConstant:
		return formatter.describeGitLogMessage(command, result, failure, stage)
	case gitStatusSubcommandNameConstant:
		if containsArgument(command.Details.Arguments, gitStatusBranchFlagConstant) {
			return formatter.describeGitBranchSummaryMessage(command, result, failure, stage)
		}
		return formatter.describeGitStatusMessage(command, result, failure, stage)
	case gitFetchSubcommandNameConstant:
		return formatter.describeGitFetchMessage(command, result, failure, stage)
	}

	return formatter.buildGenericMessage(command, result, failure, stage)
}

func (formatter CommandMessageFormatter) describeGitRemoteListMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	workingDirectory := formatter.describeWorkingDirectory(command)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(gitRemoteListStartTemplateConstant, workingDirectory)
	case messageStageSuccess:
		return fmt.Sprintf(gitRemoteListSuccessTemplateConstant, countLines(result.StandardOutput), workingDirectory)
	case messageStageFailure:
		return fmt.Sprintf(gitRemoteListFailureTemplateConstant, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	default:
		return fmt.Sprintf(gitRemoteListExecutionFailureTemplateConstant, workingDirectory, formatter.describeFailure(failure))
	}
}

func (formatter CommandMessageFormatter) describeGitCurrentBranchMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	workingDirectory := formatter.describeWorkingDirectory(command)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(gitCurrentBranchStartTemplateConstant, workingDirectory)
	case messageStageSuccess:
		trimmed := strings.TrimSpace(result.StandardOutput)
		if len(trimmed) == 0 {
			return fmt.Sprintf(gitCurrentBranchDetachedSuccessTemplateConstant, workingDirectory)
		}
		return fmt.Sprintf(gitCurrentBranchSuccessTemplateConstant, workingDirectory, trimmed)
	case messageStageFailure:
		return fmt.Sprintf(gitCurrentBranchFailureTemplateConstant, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	default:
		return fmt.Sprintf(gitCurrentBranchExecutionTemplateConstant, workingDirectory, formatter.describeFailure(failure))
	}
}

func (formatter CommandMessageFormatter) describeGitLogMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	workingDirectory := formatter.describeWorkingDirectory(command)
	revision := formatter.extractRevision(command.Details.Arguments[1:])

	if rangeStart, rangeEnd, isRange := strings.Cut(revision, revisionRangeSeparatorConstant); isRange {
		excluded := formatter.ensureValue(rangeStart)
		included := formatter.ensureValue(rangeEnd)
		switch stage {
		case messageStageStart:
			return fmt.Sprintf(gitRangeStartTemplateConstant, included, excluded, workingDirectory)
		case messageStageSuccess:
			return fmt.Sprintf(gitRangeSuccessTemplateConstant, countLines(result.StandardOutput), included, excluded, workingDirectory)
		case messageStageFailure:
			return fmt.Sprintf(gitRangeFailureTemplateConstant, included, excluded, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
		default:
			return fmt.Sprintf(gitRangeExecutionFailureTemplateConstant, included, excluded, workingDirectory, formatter.describeFailure(failure))
		}
	}

	if len(revision) == 0 {
		revision = gitLogDefaultRevisionConstant
	}
	switch stage {
	case messageStageStart:
		limit := formatter.extractLogLimit(command.Details.Arguments[1:])
		if limit == gitLogNumericLimitSentinelConstant {
			return formatter.buildGenericMessage(command, result, failure, stage)
		}
		return fmt.Sprintf(gitHistoryStartTemplateConstant, limit, revision, workingDirectory)
	case messageStageSuccess:
		return fmt.Sprintf(gitHistorySuccessTemplateConstant, countLines(result.StandardOutput), revision, workingDirectory)
	case messageStageFailure:
		return fmt.Sprintf(gitHistoryFailureTemplateConstant, revision, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	default:
		return fmt.Sprintf(gitHistoryExecutionFailureTemplateConstant, revision, workingDirectory, formatter.describeFailure(failure))
	}
}

func (formatter CommandMessageFormatter) describeGitStatusMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	workingDirectory := formatter.describeWorkingDirectory(command)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(gitStatusStartTemplateConstant, workingDirectory)
	case messageStageSuccess:
		return fmt.Sprintf(gitStatusSuccessTemplateConstant, workingDirectory)
	case messageStageFailure:
		return fmt.Sprintf(gitStatusFailureTemplateConstant, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	default:
		return fmt.Sprintf(gitStatusExecutionFailureTemplateConstant, workingDirectory, formatter.describeFailure(failure))
	}
}

func (formatter CommandMessageFormatter) describeGitBranchSummaryMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	workingDirectory := formatter.describeWorkingDirectory(command)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(gitBranchSummaryStartTemplateConstant, workingDirectory)
	case messageStageSuccess:
		return fmt.Sprintf(gitBranchSummarySuccessTemplateConstant, workingDirectory)
	case messageStageFailure:
		return fmt.Sprintf(gitBranchSummaryFailureTemplateConstant, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	default:
		return fmt.Sprintf(gitBranchSummaryExecutionTemplateConstant, workingDirectory, formatter.describeFailure(failure))
	}
}

func (formatter CommandMessageFormatter) describeGitFetchMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	workingDirectory := formatter.describeWorkingDirectory(command)
	remoteName := formatter.extractRevision(command.Details.Arguments[1:])
	if len(remoteName) == 0 {
		remoteName = gitFetchAllRemotesLabelConstant
	}

	switch stage {
	case messageStageStart:
		return fmt.Sprintf(gitFetchStartTemplateConstant, remoteName, workingDirectory)
	case messageStageSuccess:
		return fmt.Sprintf(gitFetchSuccessTemplateConstant, remoteName, workingDirectory)
	case messageStageFailure:
		return fmt.Sprintf(gitFetchFailureTemplateConstant, remoteName, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	default:
		return fmt.Sprintf(gitFetchExecutionFailureTemplateConstant, remoteName, workingDirectory, formatter.describeFailure(failure))
	}
}

func (formatter CommandMessageFormatter) buildGenericMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	commandLabel := formatter.formatCommandLabel(command)
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

func (formatter CommandMessageFormatter) formatCommandLabel(command ShellCommand) string {
	commandLabel := string(command.Name)
	if len(command.Details.Arguments) > 0 {
		commandLabel = fmt.Sprintf("%s %s", commandLabel, strings.Join(command.Details.Arguments, commandArgumentsJoinSeparatorConstant))
	}
	workingDirectorySuffix := formatter.formatWorkingDirectorySuffix(command)
	return fmt.Sprintf(commandLabelTemplateConstant, commandLabel, workingDirectorySuffix)
}

func (formatter CommandMessageFormatter) formatWorkingDirectorySuffix(command ShellCommand) string {
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(workingDirectorySuffixTemplateConstant, trimmedWorkingDirectory)
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

// extractRevision returns the first argument that is not a flag.
func (formatter CommandMessageFormatter) extractRevision(arguments []string) string {
	for _, argument := range arguments {
		trimmed := strings.TrimSpace(argument)
		if len(trimmed) == 0 || strings.HasPrefix(trimmed, "-") {
			continue
		}
		return trimmed
	}
	return emptyStringConstant
}

// extractLogLimit understands both "-5" and "--max-count=5".
func (formatter CommandMessageFormatter) extractLogLimit(arguments []string) int {
	for _, argument := range arguments {
		trimmed := strings.TrimSpace(argument)
		if trimmed == gitLogOnelineFlagConstant {
			continue
		}
		candidate := emptyStringConstant
		switch {
		case strings.HasPrefix(trimmed, gitLogMaxCountFlagPrefixConstant):
			candidate = strings.TrimPrefix(trimmed, gitLogMaxCountFlagPrefixConstant)
		case strings.HasPrefix(trimmed, gitLogLimitFlagPrefixConstant) && !strings.HasPrefix(trimmed, "--"):
			candidate = strings.TrimPrefix(trimmed, gitLogLimitFlagPrefixConstant)
		default:
			continue
		}
		if limit, parsed := parseIntegerArgument(candidate); parsed {
			return limit
		}
	}
	return gitLogNumericLimitSentinelConstant
}

func containsArgument(arguments []string, value string) bool {
	for _, argument := range arguments {
		if strings.TrimSpace(argument) == value {
			return true
		}
	}
	return false
}

func parseIntegerArgument(argument string) (int, bool) {
	if len(argument) == 0 {
		return 0, false
	}
	value := 0
	for _, character := range argument {
		if character < '0' || character > '9' {
			return 0, false
		}
		value = value*10 + int(character-'0')
	}
	return value, true
}

func countLines(output string) int {
	count := 0
	for _, line := range strings.Split(output, "\n") {
		if len(strings.TrimSpace(line)) > 0 {
			count++
		}
	}
	return count
}
