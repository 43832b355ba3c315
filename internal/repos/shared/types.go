package shared

import (
	"context"
	"errors"
	"io/fs"
	"strings"
	"unicode"

	"github.com/temirov/syncstatus/internal/execshell"
)

const (
	// OriginRemoteNameConstant identifies the default upstream remote.
	OriginRemoteNameConstant = "origin"
	// GitMetadataDirectoryNameConstant names the directory marking a repository root.
	GitMetadataDirectoryNameConstant = ".git"
)

var (
	// ErrRepositoryPathRequired indicates an empty repository path.
	ErrRepositoryPathRequired = errors.New("repository path required")
	// ErrRepositoryPathInvalid indicates a repository path containing control characters.
	ErrRepositoryPathInvalid = errors.New("repository path contains control characters")
	// ErrRemoteNameRequired indicates an empty remote name.
	ErrRemoteNameRequired = errors.New("remote name required")
	// ErrBranchNameRequired indicates an empty branch name.
	ErrBranchNameRequired = errors.New("branch name required")
	// ErrReferenceNameInvalid indicates a remote or branch name git would reject as a revision component.
	ErrReferenceNameInvalid = errors.New("reference name contains whitespace or range syntax")
)

// RepositoryPath is a validated filesystem location of a repository.
type RepositoryPath struct {
	value string
}

// NewRepositoryPath trims the input and rejects empty values and values containing control characters.
func NewRepositoryPath(raw string) (RepositoryPath, error) {
	trimmed := strings.TrimSpace(raw)
	if len(trimmed) == 0 {
		return RepositoryPath{}, ErrRepositoryPathRequired
	}
	if strings.IndexFunc(trimmed, unicode.IsControl) != -1 {
		return RepositoryPath{}, ErrRepositoryPathInvalid
	}
	return RepositoryPath{value: trimmed}, nil
}

// String returns the path.
func (path RepositoryPath) String() string {
	return path.value
}

// RemoteName is a validated git remote name.
type RemoteName struct {
	value string
}

// NewRemoteName trims the input and validates it as a reference component.
func NewRemoteName(raw string) (RemoteName, error) {
	trimmed, validationError := validateReferenceComponent(raw, ErrRemoteNameRequired)
	if validationError != nil {
		return RemoteName{}, validationError
	}
	return RemoteName{value: trimmed}, nil
}

// String returns the remote name.
func (name RemoteName) String() string {
	return name.value
}

// BranchName is a validated git branch name.
type BranchName struct {
	value string
}

// NewBranchName trims the input and validates it as a reference component.
func NewBranchName(raw string) (BranchName, error) {
	trimmed, validationError := validateReferenceComponent(raw, ErrBranchNameRequired)
	if validationError != nil {
		return BranchName{}, validationError
	}
	return BranchName{value: trimmed}, nil
}

// String returns the branch name.
func (name BranchName) String() string {
	return name.value
}

func validateReferenceComponent(raw string, emptyError error) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if len(trimmed) == 0 {
		return "", emptyError
	}
	if strings.IndexFunc(trimmed, unicode.IsSpace) != -1 || strings.Contains(trimmed, "..") || strings.HasPrefix(trimmed, "-") {
		return "", ErrReferenceNameInvalid
	}
	return trimmed, nil
}

// FileSystem exposes filesystem operations required by repository services.
type FileSystem interface {
	Stat(path string) (fs.FileInfo, error)
}

// GitExecutor exposes the subset of shell execution used by repository services.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}
