package syncstatus

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/temirov/syncstatus/internal/execshell"
	"github.com/temirov/syncstatus/internal/gitrepo"
	"github.com/temirov/syncstatus/internal/repos/dependencies"
	"github.com/temirov/syncstatus/internal/repos/shared"
	"github.com/temirov/syncstatus/internal/ui"
	"github.com/temirov/syncstatus/internal/utils"
)

const (
	bannerRuleCharacterConstant           = "="
	bannerRuleWidthConstant               = 50
	reportTitleConstant                   = "Git local and remote sync status check"
	reportCompleteConstant                = "Check complete!"
	repositoryMissingMessageConstant      = "[error] Git repository not initialized!"
	repositoryMissingHintConstant         = "Run first: git init"
	remoteSectionHeadingConstant          = "[1] Remote configuration:"
	branchSectionHeadingConstant          = "[2] Current branch:"
	historySectionHeadingTemplate         = "[3] Recent commit history (last %d):"
	workingTreeSectionHeadingConstant     = "[4] Working tree status:"
	fetchSectionHeadingConstant           = "[5] Fetching remote updates..."
	summarySectionHeadingConstant         = "[6] Local and remote branch comparison:"
	unpushedSectionHeadingConstant        = "[7] Local commits not pushed:"
	unpulledSectionHeadingConstant        = "[8] Remote commits not pulled:"
	noRemoteWarningConstant               = "  [warning] no remote configured"
	expectedRemoteHintTemplate            = "  expected repository: %s"
	remoteMismatchWarningTemplate         = "  [warning] %s points to %s, expected %s"
	indentedLineTemplate                  = "  %s"
	workingTreeCleanConstant              = "  working tree clean, no uncommitted changes"
	fetchSkippedConstant                  = "  fetch skipped"
	noUnpushedCommitsConstant             = "  no unpushed commits"
	noUnpulledCommitsConstant             = "  no unpulled commits"
	hintsHeadingConstant                  = "Hints:"
	pushHintTemplate                      = "- If there are unpushed commits, run: %s"
	pullHintTemplate                      = "- If there are unpulled commits, run: %s"
	repositoryPathRequiredMessageConstant = "repository path must be provided"
	managerMissingMessageConstant         = "repository manager not configured"
	reportWriteErrorTemplateConstant      = "unable to write sync status report: %w"
	repositoryStatErrorTemplateConstant   = "unable to inspect repository metadata: %w"
	queryFailedLogMessageConstant         = "git query failed; showing default text"
	fetchFatalLogMessageConstant          = "fetch reported a fatal error; standard error suppressed"
	fetchFailedLogMessageConstant         = "fetch could not be executed"
	candidateFailedLogMessageConstant     = "remote branch candidate unavailable; trying next"
	candidatesExhaustedLogMessageConstant = "no remote branch candidate could be compared"
	reportCompletedLogMessageConstant     = "sync status report completed"
	repositoryMissingLogMessageConstant   = "repository metadata directory not found"
	repositoryPathLogFieldConstant        = "repository_path"
	operationLogFieldConstant             = "operation"
	remoteReferenceLogFieldConstant       = "remote_reference"
	standardErrorLogFieldConstant         = "standard_error"
	unpushedCountLogFieldConstant         = "unpushed_commits"
	unpulledCountLogFieldConstant         = "unpulled_commits"
	cleanLogFieldConstant                 = "clean"
	comparedBranchLogFieldConstant        = "compared_remote_branch"
	unpushedOperationConstant             = "unpushed"
	unpulledOperationConstant             = "unpulled"
	remotesOperationConstant              = "remotes"
	branchOperationConstant               = "current_branch"
	historyOperationConstant              = "history"
	workingTreeOperationConstant          = "working_tree"
	summaryOperationConstant              = "branch_summary"
)

// ErrRepositoryPathRequired indicates the repository path option was empty.
var ErrRepositoryPathRequired = errors.New(repositoryPathRequiredMessageConstant)

// ErrRepositoryManagerNotConfigured indicates the repository manager dependency was missing.
var ErrRepositoryManagerNotConfigured = errors.New(managerMissingMessageConstant)

// RepositoryInspector exposes the git queries the report needs.
type RepositoryInspector interface {
	ListRemotes(executionContext context.Context, repositoryPath string) ([]string, error)
	GetCurrentBranch(executionContext context.Context, repositoryPath string) (string, error)
	ListRecentCommits(executionContext context.Context, repositoryPath string, limit int) ([]string, error)
	ListWorkingTreeChanges(executionContext context.Context, repositoryPath string) ([]string, error)
	Fetch(executionContext context.Context, repositoryPath string, remoteName string) (execshell.ExecutionResult, error)
	GetBranchSummary(executionContext context.Context, repositoryPath string) ([]string, error)
	ListCommitRange(executionContext context.Context, repositoryPath string, fromRevision string, toRevision string) ([]string, error)
}

// Dependencies enumerates the collaborators of the report.
type Dependencies struct {
	RepositoryManager RepositoryInspector
	FileSystem        shared.FileSystem
	Logger            *zap.Logger
	Output            io.Writer
	Styler            *ui.SectionStyler
}

// Options configures a single report run.
type Options struct {
	RepositoryPath    string
	RemoteName        string
	BranchCandidates  []string
	HistoryLimit      int
	ExpectedRemoteURL string
	FatalMarker       string
	Fetch             bool
	PushHelper        string
	PullHelper        string
	CommandTimeout    time.Duration
}

// OptionsFromConfiguration converts sanitized configuration into report options.
func OptionsFromConfiguration(configuration CommandConfiguration) Options {
	sanitized := configuration.Sanitize()
	return Options{
		RepositoryPath:    sanitized.RepositoryPath,
		RemoteName:        sanitized.RemoteName,
		BranchCandidates:  sanitized.BranchCandidates,
		HistoryLimit:      sanitized.HistoryLimit,
		ExpectedRemoteURL: sanitized.ExpectedRemoteURL,
		FatalMarker:       sanitized.FatalMarker,
		Fetch:             sanitized.Fetch,
		PushHelper:        sanitized.PushHelper,
		PullHelper:        sanitized.PullHelper,
		CommandTimeout:    sanitized.CommandTimeout,
	}
}

// Report summarizes what the printed report showed.
type Report struct {
	RepositoryPath        string
	RepositoryInitialized bool
	Remotes               []string
	CurrentBranch         string
	RecentCommits         []string
	WorkingTreeEntries    []string
	Clean                 bool
	FetchMessage          string
	BranchSummary         []string
	UnpushedCommits       []string
	UnpulledCommits       []string
	ComparedRemoteBranch  string
}

// Service prints the sync status report.
type Service struct {
	repositoryManager RepositoryInspector
	fileSystem        shared.FileSystem
	logger            *zap.Logger
	output            io.Writer
	styler            *ui.SectionStyler
}

// NewService constructs a Service. Missing optional collaborators fall back to
// the OS filesystem, a no-op logger, standard output and plain styling.
func NewService(serviceDependencies Dependencies) (*Service, error) {
	if serviceDependencies.RepositoryManager == nil {
		return nil, ErrRepositoryManagerNotConfigured
	}

	logger := serviceDependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	output := serviceDependencies.Output
	if output == nil {
		output = os.Stdout
	}
	styler := serviceDependencies.Styler
	if styler == nil {
		styler = ui.NewSectionStyler(output, ui.ColorModeNever)
	}

	return &Service{
		repositoryManager: serviceDependencies.RepositoryManager,
		fileSystem:        dependencies.ResolveFileSystem(serviceDependencies.FileSystem),
		logger:            logger,
		output:            output,
		styler:            styler,
	}, nil
}

// Run prints the report for options.RepositoryPath. A missing .git entry prints an
// error and returns a Report with RepositoryInitialized unset and a nil error.
func (service *Service) Run(executionContext context.Context, options Options) (Report, error) {
	normalizedOptions, optionsError := normalizeOptions(options)
	if optionsError != nil {
		return Report{}, optionsError
	}

	outputWriter := utils.NewFlushingWriter(service.output)
	reporter := shared.NewWriterReporter(outputWriter)
	report := Report{RepositoryPath: normalizedOptions.RepositoryPath}
	repositoryField := zap.String(repositoryPathLogFieldConstant, normalizedOptions.RepositoryPath)

	service.printBanner(reporter, reportTitleConstant)
	reporter.Println()

	initialized, statError := service.repositoryInitialized(normalizedOptions.RepositoryPath)
	if statError != nil {
		return report, statError
	}
	if !initialized {
		service.logger.Info(repositoryMissingLogMessageConstant, repositoryField)
		reporter.Println(service.styler.Error(repositoryMissingMessageConstant))
		reporter.Println(repositoryMissingHintConstant)
		return report, service.writeError(outputWriter)
	}
	report.RepositoryInitialized = true

	service.reportRemotes(executionContext, reporter, normalizedOptions, &report)
	service.reportCurrentBranch(executionContext, reporter, normalizedOptions, &report)
	service.reportHistory(executionContext, reporter, normalizedOptions, &report)
	service.reportWorkingTree(executionContext, reporter, normalizedOptions, &report)
	service.reportFetch(executionContext, reporter, normalizedOptions, &report)
	service.reportBranchSummary(executionContext, reporter, normalizedOptions, &report)
	service.reportUnpushed(executionContext, reporter, normalizedOptions, &report)
	service.reportUnpulled(executionContext, reporter, normalizedOptions, &report)
	service.printClosing(reporter, normalizedOptions)

	service.logger.Info(
		reportCompletedLogMessageConstant,
		repositoryField,
		zap.Bool(cleanLogFieldConstant, report.Clean),
		zap.Int(unpushedCountLogFieldConstant, len(report.UnpushedCommits)),
		zap.Int(unpulledCountLogFieldConstant, len(report.UnpulledCommits)),
		zap.String(comparedBranchLogFieldConstant, report.ComparedRemoteBranch),
	)

	return report, service.writeError(outputWriter)
}

func (service *Service) repositoryInitialized(repositoryPath string) (bool, error) {
	_, statError := service.fileSystem.Stat(filepath.Join(repositoryPath, shared.GitMetadataDirectoryNameConstant))
	if statError == nil {
		return true, nil
	}
	if errors.Is(statError, fs.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf(repositoryStatErrorTemplateConstant, statError)
}

func (service *Service) reportRemotes(executionContext context.Context, reporter shared.Reporter, options Options, report *Report) {
	reporter.Println(service.styler.Heading(remoteSectionHeadingConstant))
	defer reporter.Println()

	remotes, queryError := withTimeout(executionContext, options.CommandTimeout, func(invocationContext context.Context) ([]string, error) {
		return service.repositoryManager.ListRemotes(invocationContext, options.RepositoryPath)
	})
	if queryError != nil {
		service.logQueryFailure(remotesOperationConstant, options, queryError)
	}
	report.Remotes = remotes

	if len(remotes) == 0 {
		reporter.Println(service.styler.Warning(noRemoteWarningConstant))
		if len(options.ExpectedRemoteURL) > 0 {
			reporter.Printf(expectedRemoteHintTemplate+"\n", options.ExpectedRemoteURL)
		}
		return
	}

	for _, remoteLine := range remotes {
		reporter.Println(remoteLine)
	}

	if mismatchWarning, mismatched := remoteMismatch(remotes, options); mismatched {
		reporter.Println(service.styler.Warning(mismatchWarning))
	}
}

func (service *Service) reportCurrentBranch(executionContext context.Context, reporter shared.Reporter, options Options, report *Report) {
	reporter.Println(service.styler.Heading(branchSectionHeadingConstant))
	defer reporter.Println()

	branchName, queryError := withTimeout(executionContext, options.CommandTimeout, func(invocationContext context.Context) (string, error) {
		return service.repositoryManager.GetCurrentBranch(invocationContext, options.RepositoryPath)
	})
	if queryError != nil {
		service.logQueryFailure(branchOperationConstant, options, queryError)
		return
	}

	report.CurrentBranch = branchName
	if len(branchName) > 0 {
		reporter.Printf(indentedLineTemplate+"\n", branchName)
	}
}

func (service *Service) reportHistory(executionContext context.Context, reporter shared.Reporter, options Options, report *Report) {
	reporter.Println(service.styler.Heading(fmt.Sprintf(historySectionHeadingTemplate, options.HistoryLimit)))
	defer reporter.Println()

	commits, queryError := withTimeout(executionContext, options.CommandTimeout, func(invocationContext context.Context) ([]string, error) {
		return service.repositoryManager.ListRecentCommits(invocationContext, options.RepositoryPath, options.HistoryLimit)
	})
	if queryError != nil {
		service.logQueryFailure(historyOperationConstant, options, queryError)
		return
	}

	report.RecentCommits = commits
	printIndented(reporter, commits)
}

func (service *Service) reportWorkingTree(executionContext context.Context, reporter shared.Reporter, options Options, report *Report) {
	reporter.Println(service.styler.Heading(workingTreeSectionHeadingConstant))
	defer reporter.Println()

	entries, queryError := withTimeout(executionContext, options.CommandTimeout, func(invocationContext context.Context) ([]string, error) {
		return service.repositoryManager.ListWorkingTreeChanges(invocationContext, options.RepositoryPath)
	})
	if queryError != nil {
		service.logQueryFailure(workingTreeOperationConstant, options, queryError)
	}

	report.WorkingTreeEntries = entries
	report.Clean = len(entries) == 0
	if report.Clean {
		reporter.Println(service.styler.Success(workingTreeCleanConstant))
		return
	}
	printIndented(reporter, entries)
}

func (service *Service) reportFetch(executionContext context.Context, reporter shared.Reporter, options Options, report *Report) {
	reporter.Println(service.styler.Heading(fetchSectionHeadingConstant))
	defer reporter.Println()

	if !options.Fetch {
		reporter.Println(fetchSkippedConstant)
		return
	}

	result, fetchError := withTimeout(executionContext, options.CommandTimeout, func(invocationContext context.Context) (execshell.ExecutionResult, error) {
		return service.repositoryManager.Fetch(invocationContext, options.RepositoryPath, options.RemoteName)
	})

	var executionError execshell.CommandExecutionError
	if errors.As(fetchError, &executionError) {
		service.logger.Warn(fetchFailedLogMessageConstant, zap.String(repositoryPathLogFieldConstant, options.RepositoryPath), zap.Error(fetchError))
		return
	}

	standardError := strings.TrimSpace(result.StandardError)
	if len(standardError) == 0 {
		return
	}
	if containsFatalMarker(standardError, options.FatalMarker) {
		service.logger.Warn(
			fetchFatalLogMessageConstant,
			zap.String(repositoryPathLogFieldConstant, options.RepositoryPath),
			zap.String(standardErrorLogFieldConstant, standardError),
		)
		return
	}

	report.FetchMessage = standardError
	printIndented(reporter, gitrepo.SplitOutputLines(standardError))
}

func (service *Service) reportBranchSummary(executionContext context.Context, reporter shared.Reporter, options Options, report *Report) {
	reporter.Println(service.styler.Heading(summarySectionHeadingConstant))
	defer reporter.Println()

	summary, queryError := withTimeout(executionContext, options.CommandTimeout, func(invocationContext context.Context) ([]string, error) {
		return service.repositoryManager.GetBranchSummary(invocationContext, options.RepositoryPath)
	})
	if queryError != nil {
		service.logQueryFailure(summaryOperationConstant, options, queryError)
		return
	}

	report.BranchSummary = summary
	printIndented(reporter, summary)
}

func (service *Service) reportUnpushed(executionContext context.Context, reporter shared.Reporter, options Options, report *Report) {
	reporter.Println(service.styler.Heading(unpushedSectionHeadingConstant))
	defer reporter.Println()

	commits, remoteReference := service.compareWithCandidates(executionContext, options, unpushedOperationConstant, func(remoteReference string) (string, string) {
		return remoteReference, gitrepo.HeadRevision
	})
	report.UnpushedCommits = commits
	if len(remoteReference) > 0 {
		report.ComparedRemoteBranch = remoteReference
	}

	if len(commits) == 0 {
		reporter.Println(noUnpushedCommitsConstant)
		return
	}
	printIndented(reporter, commits)
}

func (service *Service) reportUnpulled(executionContext context.Context, reporter shared.Reporter, options Options, report *Report) {
	reporter.Println(service.styler.Heading(unpulledSectionHeadingConstant))
	defer reporter.Println()

	commits, remoteReference := service.compareWithCandidates(executionContext, options, unpulledOperationConstant, func(remoteReference string) (string, string) {
		return gitrepo.HeadRevision, remoteReference
	})
	report.UnpulledCommits = commits
	if len(report.ComparedRemoteBranch) == 0 {
		report.ComparedRemoteBranch = remoteReference
	}

	if len(commits) == 0 {
		reporter.Println(noUnpulledCommitsConstant)
		return
	}
	printIndented(reporter, commits)
}

// compareWithCandidates tries each branch candidate in order. Any failure moves on to
// the next candidate; when every candidate fails the result is empty.
func (service *Service) compareWithCandidates(executionContext context.Context, options Options, operation string, revisions func(remoteReference string) (string, string)) ([]string, string) {
	for _, candidate := range options.BranchCandidates {
		remoteReference := gitrepo.RemoteBranchReference(options.RemoteName, candidate)
		fromRevision, toRevision := revisions(remoteReference)

		commits, rangeError := withTimeout(executionContext, options.CommandTimeout, func(invocationContext context.Context) ([]string, error) {
			return service.repositoryManager.ListCommitRange(invocationContext, options.RepositoryPath, fromRevision, toRevision)
		})
		if rangeError != nil {
			service.logger.Debug(
				candidateFailedLogMessageConstant,
				zap.String(operationLogFieldConstant, operation),
				zap.String(remoteReferenceLogFieldConstant, remoteReference),
				zap.Error(rangeError),
			)
			continue
		}
		return commits, remoteReference
	}

	service.logger.Debug(candidatesExhaustedLogMessageConstant, zap.String(operationLogFieldConstant, operation), zap.Strings(remoteReferenceLogFieldConstant, options.BranchCandidates))
	return nil, ""
}

func (service *Service) printBanner(reporter shared.Reporter, text string) {
	rule := strings.Repeat(bannerRuleCharacterConstant, bannerRuleWidthConstant)
	reporter.Println(service.styler.Banner(rule))
	reporter.Println(service.styler.Banner(text))
	reporter.Println(service.styler.Banner(rule))
}

func (service *Service) printClosing(reporter shared.Reporter, options Options) {
	service.printBanner(reporter, reportCompleteConstant)
	reporter.Println()
	reporter.Println(hintsHeadingConstant)
	reporter.Println(service.styler.Hint(fmt.Sprintf(pushHintTemplate, options.PushHelper)))
	reporter.Println(service.styler.Hint(fmt.Sprintf(pullHintTemplate, options.PullHelper)))
}

func (service *Service) logQueryFailure(operation string, options Options, queryError error) {
	service.logger.Debug(
		queryFailedLogMessageConstant,
		zap.String(operationLogFieldConstant, operation),
		zap.String(repositoryPathLogFieldConstant, options.RepositoryPath),
		zap.Error(queryError),
	)
}

func (service *Service) writeError(outputWriter *utils.FlushingWriter) error {
	if writeError := outputWriter.Err(); writeError != nil {
		return fmt.Errorf(reportWriteErrorTemplateConstant, writeError)
	}
	return nil
}

func normalizeOptions(options Options) (Options, error) {
	repositoryPath, pathError := shared.NewRepositoryPath(options.RepositoryPath)
	if pathError != nil {
		return Options{}, ErrRepositoryPathRequired
	}

	defaults := DefaultCommandConfiguration()
	normalized := options
	normalized.RepositoryPath = repositoryPath.String()

	if remoteName, remoteError := shared.NewRemoteName(options.RemoteName); remoteError == nil {
		normalized.RemoteName = remoteName.String()
	} else {
		normalized.RemoteName = defaults.RemoteName
	}

	normalized.BranchCandidates = make([]string, 0, len(options.BranchCandidates))
	for _, candidate := range sanitizeCandidates(options.BranchCandidates) {
		branchName, branchError := shared.NewBranchName(candidate)
		if branchError != nil {
			continue
		}
		normalized.BranchCandidates = append(normalized.BranchCandidates, branchName.String())
	}
	if len(normalized.BranchCandidates) == 0 {
		normalized.BranchCandidates = defaults.BranchCandidates
	}

	if normalized.HistoryLimit <= 0 {
		normalized.HistoryLimit = defaults.HistoryLimit
	}
	normalized.ExpectedRemoteURL = strings.TrimSpace(options.ExpectedRemoteURL)
	normalized.FatalMarker = valueOrDefault(options.FatalMarker, defaults.FatalMarker)
	normalized.PushHelper = valueOrDefault(options.PushHelper, defaults.PushHelper)
	normalized.PullHelper = valueOrDefault(options.PullHelper, defaults.PullHelper)
	if normalized.CommandTimeout < 0 {
		normalized.CommandTimeout = 0
	}

	return normalized, nil
}

func remoteMismatch(remoteLines []string, options Options) (string, bool) {
	if len(options.ExpectedRemoteURL) == 0 {
		return "", false
	}
	expectedRemote, expectedError := gitrepo.ParseRemoteURL(options.ExpectedRemoteURL)
	if expectedError != nil {
		return "", false
	}

	fetchURL, found := gitrepo.FetchURL(gitrepo.ParseRemoteListing(remoteLines), options.RemoteName)
	if !found {
		return "", false
	}
	actualRemote, actualError := gitrepo.ParseRemoteURL(fetchURL)
	if actualError != nil || actualRemote.SameRepository(expectedRemote) {
		return "", false
	}

	return fmt.Sprintf(remoteMismatchWarningTemplate, options.RemoteName, fetchURL, options.ExpectedRemoteURL), true
}

func containsFatalMarker(standardError string, fatalMarker string) bool {
	return strings.Contains(strings.ToLower(standardError), strings.ToLower(fatalMarker))
}

func printIndented(reporter shared.Reporter, lines []string) {
	for _, line := range lines {
		reporter.Printf(indentedLineTemplate+"\n", line)
	}
}

// withTimeout bounds a single git invocation when timeout is positive.
func withTimeout[T any](executionContext context.Context, timeout time.Duration, invocation func(context.Context) (T, error)) (T, error) {
	if executionContext == nil {
		executionContext = context.Background()
	}
	if timeout <= 0 {
		return invocation(executionContext)
	}
	invocationContext, cancel := context.WithTimeout(executionContext, timeout)
	defer cancel()
	return invocation(invocationContext)
}
