// Package gitrepo runs the read-only git queries behind the sync status report.
//
// RepositoryManager issues one git invocation per query and returns the output
// split into lines. The package also parses `git remote -v` listings and
// ssh/https remote URLs so remotes can be compared with an expected location.
package gitrepo
