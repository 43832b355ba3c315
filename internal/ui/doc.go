// Package ui provides helpers for formatting human-readable console output.
//
// ConsoleCommandEventLogger turns git invocation lifecycle events into short
// progress lines, and SectionStyler colors report headings and warnings when
// the destination is a terminal.
package ui
