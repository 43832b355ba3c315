// Package cli constructs the git-sync-status command-line interface, wiring the
// Cobra command hierarchy, configuration loader, and structured logging
// primitives. The root command runs the sync status report; the status
// subcommand is an alias for it.
package cli
