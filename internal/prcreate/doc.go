// Package prcreate implements the interactive pull request creation workflow.
//
// The service walks one linear sequence: preflight checks for git and gh,
// current branch resolution, committing outstanding changes on request,
// pushing when the branch is ahead or untracked, collecting pull request
// metadata from the terminal, and invoking gh pr create.
package prcreate
