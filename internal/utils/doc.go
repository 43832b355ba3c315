// Package utils exposes reusable helpers consumed by the CLI entrypoint and commands.
//
// It houses ConfigurationLoader and LoggerFactory abstractions that integrate
// Viper, environment variables, and zap logging, together with the writer and
// context helpers the status command relies on.
package utils
