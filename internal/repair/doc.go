// Package repair rebuilds broken pull request branches from clean history.
//
// For each configured branch the service creates a scratch branch from the
// base branch, cherry-picks the most suitable commit from the remote branch
// history, resolves lockfile conflicts by taking the incoming side, and
// force-pushes the rebuilt branch over the original.
package repair
