// Package gitrepo provides repository-level git operations built on execshell.
//
// RepositoryManager wraps the git subcommands the PR creation workflow relies
// on (worktree status, branch resolution, staging, committing, pushing), and
// the remote URL helpers translate between textual remotes and structured
// owner/repository representations.
package gitrepo
