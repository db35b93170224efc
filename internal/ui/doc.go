// Package ui provides helpers for formatting human-readable console output.
//
// The helpers translate shell command lifecycle events into concise messages
// so that workflow feedback remains actionable for CLI users while detailed
// telemetry continues to flow through structured loggers.
package ui
