package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/temirov/syncstatus/internal/execshell"
)

const (
	remoteSubcommandConstant             = "remote"
	remoteVerboseFlagConstant            = "-v"
	branchSubcommandConstant             = "branch"
	showCurrentFlagConstant              = "--show-current"
	logSubcommandConstant                = "log"
	onelineFlagConstant                  = "--oneline"
	logLimitFlagTemplateConstant         = "-%d"
	statusSubcommandConstant             = "status"
	shortFlagConstant                    = "--short"
	shortBranchFlagConstant              = "-sb"
	fetchSubcommandConstant              = "fetch"
	revisionRangeTemplateConstant        = "%s..%s"
	remoteBranchTemplateConstant         = "%s/%s"
	terminalPromptEnvironmentConstant    = "GIT_TERMINAL_PROMPT"
	terminalPromptDisabledValueConstant  = "0"
	lineSeparatorConstant                = "\n"
	carriageReturnConstant               = "\r"
	requiredValueMessageConstant         = "value required"
	positiveValueMessageConstant         = "must be positive"
	invalidInputErrorTemplateConstant    = "%s: %s"
	operationErrorTemplateConstant       = "%s operation failed: %v"
	executorNotConfiguredMessageConstant = "git executor not configured"
	repositoryPathFieldNameConstant      = "repository_path"
	remoteNameFieldNameConstant          = "remote_name"
	historyLimitFieldNameConstant        = "history_limit"
	revisionFieldNameConstant            = "revision"
	listRemotesOperationNameConstant     = OperationName("ListRemotes")
	currentBranchOperationNameConstant   = OperationName("GetCurrentBranch")
	recentCommitsOperationNameConstant   = OperationName("ListRecentCommits")
	workingTreeOperationNameConstant     = OperationName("ListWorkingTreeChanges")
	fetchOperationNameConstant           = OperationName("Fetch")
	branchSummaryOperationNameConstant   = OperationName("GetBranchSummary")
	commitRangeOperationNameConstant     = OperationName("ListCommitRange")
	headRevisionConstant                 = "HEAD"
)

// HeadRevision names the checked-out commit.
const HeadRevision = headRevisionConstant

// ErrGitExecutorNotConfigured indicates the manager was created without an executor.
var ErrGitExecutorNotConfigured = errors.New(executorNotConfiguredMessageConstant)

// OperationName identifies a repository query.
type OperationName string

// GitCommandExecutor runs git with the provided details.
type GitCommandExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// InvalidInputError surfaces validation issues for query inputs.
type InvalidInputError struct {
	FieldName string
	Message   string
}

// Error describes the invalid input.
func (inputError InvalidInputError) Error() string {
	return fmt.Sprintf(invalidInputErrorTemplateConstant, inputError.FieldName, inputError.Message)
}

// OperationError wraps the execshell error of a failed query.
type OperationError struct {
	Operation OperationName
	Cause     error
}

// Error describes the failed query.
func (operationError OperationError) Error() string {
	return fmt.Sprintf(operationErrorTemplateConstant, operationError.Operation, operationError.Cause)
}

// Unwrap exposes the execshell error.
func (operationError OperationError) Unwrap() error {
	return operationError.Cause
}

// RepositoryManager answers questions about a single repository by running git inside it.
type RepositoryManager struct {
	executor GitCommandExecutor
}

// NewRepositoryManager constructs a RepositoryManager.
func NewRepositoryManager(executor GitCommandExecutor) (*RepositoryManager, error) {
	if executor == nil {
		return nil, ErrGitExecutorNotConfigured
	}
	return &RepositoryManager{executor: executor}, nil
}

// ListRemotes returns the lines of `git remote -v`.
func (manager *RepositoryManager) ListRemotes(executionContext context.Context, repositoryPath string) ([]string, error) {
	return manager.queryLines(executionContext, listRemotesOperationNameConstant, repositoryPath, remoteSubcommandConstant, remoteVerboseFlagConstant)
}

// GetCurrentBranch returns the checked-out branch name, or an empty string on a detached HEAD.
func (manager *RepositoryManager) GetCurrentBranch(executionContext context.Context, repositoryPath string) (string, error) {
	result, queryError := manager.query(executionContext, currentBranchOperationNameConstant, repositoryPath, nil, branchSubcommandConstant, showCurrentFlagConstant)
	if queryError != nil {
		return "", queryError
	}
	return strings.TrimSpace(result.StandardOutput), nil
}

// ListRecentCommits returns up to limit one-line commit summaries, most recent first.
func (manager *RepositoryManager) ListRecentCommits(executionContext context.Context, repositoryPath string, limit int) ([]string, error) {
	if limit <= 0 {
		return nil, InvalidInputError{FieldName: historyLimitFieldNameConstant, Message: positiveValueMessageConstant}
	}
	return manager.queryLines(
		executionContext,
		recentCommitsOperationNameConstant,
		repositoryPath,
		logSubcommandConstant,
		onelineFlagConstant,
		fmt.Sprintf(logLimitFlagTemplateConstant, limit),
	)
}

// ListWorkingTreeChanges returns the entries of `git status --short`. The two status
// columns of each entry are preserved.
func (manager *RepositoryManager) ListWorkingTreeChanges(executionContext context.Context, repositoryPath string) ([]string, error) {
	return manager.queryLines(executionContext, workingTreeOperationNameConstant, repositoryPath, statusSubcommandConstant, shortFlagConstant)
}

// Fetch updates the remote-tracking references of remoteName with terminal prompts disabled.
// The execution result is returned even when git fails so callers can classify its standard error.
func (manager *RepositoryManager) Fetch(executionContext context.Context, repositoryPath string, remoteName string) (execshell.ExecutionResult, error) {
	trimmedRemoteName := strings.TrimSpace(remoteName)
	if len(trimmedRemoteName) == 0 {
		return execshell.ExecutionResult{}, InvalidInputError{FieldName: remoteNameFieldNameConstant, Message: requiredValueMessageConstant}
	}

	environment := map[string]string{terminalPromptEnvironmentConstant: terminalPromptDisabledValueConstant}
	return manager.query(executionContext, fetchOperationNameConstant, repositoryPath, environment, fetchSubcommandConstant, trimmedRemoteName)
}

// GetBranchSummary returns the lines of `git status -sb`, starting with the ahead/behind header.
func (manager *RepositoryManager) GetBranchSummary(executionContext context.Context, repositoryPath string) ([]string, error) {
	return manager.queryLines(executionContext, branchSummaryOperationNameConstant, repositoryPath, statusSubcommandConstant, shortBranchFlagConstant)
}

// ListCommitRange returns one-line summaries of commits reachable from toRevision but not fromRevision.
func (manager *RepositoryManager) ListCommitRange(executionContext context.Context, repositoryPath string, fromRevision string, toRevision string) ([]string, error) {
	trimmedFrom := strings.TrimSpace(fromRevision)
	trimmedTo := strings.TrimSpace(toRevision)
	if len(trimmedFrom) == 0 || len(trimmedTo) == 0 {
		return nil, InvalidInputError{FieldName: revisionFieldNameConstant, Message: requiredValueMessageConstant}
	}
	return manager.queryLines(
		executionContext,
		commitRangeOperationNameConstant,
		repositoryPath,
		logSubcommandConstant,
		fmt.Sprintf(revisionRangeTemplateConstant, trimmedFrom, trimmedTo),
		onelineFlagConstant,
	)
}

// RemoteBranchReference joins a remote and branch into a remote-tracking reference such as origin/main.
func RemoteBranchReference(remoteName string, branchName string) string {
	return fmt.Sprintf(remoteBranchTemplateConstant, strings.TrimSpace(remoteName), strings.TrimSpace(branchName))
}

func (manager *RepositoryManager) queryLines(executionContext context.Context, operation OperationName, repositoryPath string, arguments ...string) ([]string, error) {
	result, queryError := manager.query(executionContext, operation, repositoryPath, nil, arguments...)
	if queryError != nil {
		return nil, queryError
	}
	return SplitOutputLines(result.StandardOutput), nil
}

func (manager *RepositoryManager) query(executionContext context.Context, operation OperationName, repositoryPath string, environment map[string]string, arguments ...string) (execshell.ExecutionResult, error) {
	trimmedRepositoryPath := strings.TrimSpace(repositoryPath)
	if len(trimmedRepositoryPath) == 0 {
		return execshell.ExecutionResult{}, InvalidInputError{FieldName: repositoryPathFieldNameConstant, Message: requiredValueMessageConstant}
	}

	result, executionError := manager.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:            arguments,
		WorkingDirectory:     trimmedRepositoryPath,
		EnvironmentVariables: environment,
	})
	if executionError != nil {
		return result, OperationError{Operation: operation, Cause: executionError}
	}
	return result, nil
}

// SplitOutputLines splits command output into lines, dropping blank lines and trailing
// whitespace while keeping leading indentation.
func SplitOutputLines(output string) []string {
	rawLines := strings.Split(strings.ReplaceAll(output, carriageReturnConstant+lineSeparatorConstant, lineSeparatorConstant), lineSeparatorConstant)
	lines := make([]string, 0, len(rawLines))
	for _, rawLine := range rawLines {
		trimmedLine := strings.TrimRight(rawLine, " \t"+carriageReturnConstant)
		if len(strings.TrimSpace(trimmedLine)) == 0 {
			continue
		}
		lines = append(lines, trimmedLine)
	}
	return lines
}
