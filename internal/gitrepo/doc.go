// Package gitrepo contains helpers for manipulating Git repositories.
//
// It exposes RepositoryManager for branch lifecycle, history inspection, and
// cherry-pick operations consumed by the repair service.
package gitrepo
