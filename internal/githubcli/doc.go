// Package githubcli wraps GitHub CLI invocations behind typed operations.
//
// The client shells out to gh through execshell and translates command output
// into structured results. Callers receive typed errors distinguishing
// validation problems, execution failures, and response decoding issues.
package githubcli
