// Package cli wires the prflow root command, configuration loading, and
// structured logging around the pull request creation workflow.
package cli
