package pathutils

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

const (
	currentDirectoryPathConstant             = "."
	repositoryPathResolutionTemplateConstant = "unable to resolve repository path %q: %w"
)

// ErrHomeDirectoryUnavailable indicates a tilde path was supplied but no home directory could be determined.
var ErrHomeDirectoryUnavailable = errors.New("home directory unavailable")

// AbsolutePathFunc converts a path to its absolute form.
type AbsolutePathFunc func(string) (string, error)

// RepositoryPathResolver turns a user-supplied repository location into a clean absolute path.
type RepositoryPathResolver struct {
	homeExpander *HomeExpander
	absolutePath AbsolutePathFunc
}

// NewRepositoryPathResolver constructs a resolver backed by the operating system.
func NewRepositoryPathResolver() *RepositoryPathResolver {
	return NewRepositoryPathResolverWithDependencies(nil, nil)
}

// NewRepositoryPathResolverWithDependencies constructs a resolver with substitutable collaborators.
func NewRepositoryPathResolverWithDependencies(homeExpander *HomeExpander, absolutePath AbsolutePathFunc) *RepositoryPathResolver {
	if homeExpander == nil {
		homeExpander = NewHomeExpander()
	}
	if absolutePath == nil {
		absolutePath = filepath.Abs
	}
	return &RepositoryPathResolver{homeExpander: homeExpander, absolutePath: absolutePath}
}

// Resolve trims the candidate, defaults empty input to the working directory,
// expands a leading tilde and returns the cleaned absolute path.
func (resolver *RepositoryPathResolver) Resolve(candidatePath string) (string, error) {
	if resolver == nil {
		resolver = NewRepositoryPathResolver()
	}

	trimmedCandidate := strings.TrimSpace(candidatePath)
	if len(trimmedCandidate) == 0 {
		trimmedCandidate = currentDirectoryPathConstant
	}

	expandedCandidate := resolver.homeExpander.Expand(trimmedCandidate)
	if strings.HasPrefix(expandedCandidate, tildeSymbolConstant) && (expandedCandidate == tildeSymbolConstant || isTildeSeparatorPrefix(expandedCandidate)) {
		return "", fmt.Errorf(repositoryPathResolutionTemplateConstant, candidatePath, ErrHomeDirectoryUnavailable)
	}

	absoluteCandidate, absoluteError := resolver.absolutePath(expandedCandidate)
	if absoluteError != nil {
		return "", fmt.Errorf(repositoryPathResolutionTemplateConstant, candidatePath, absoluteError)
	}

	return filepath.Clean(absoluteCandidate), nil
}

func isTildeSeparatorPrefix(candidatePath string) bool {
	return strings.HasPrefix(candidatePath, tildeForwardSlashPrefixConstant) || strings.HasPrefix(candidatePath, tildeWithPathSeparatorPrefix)
}
