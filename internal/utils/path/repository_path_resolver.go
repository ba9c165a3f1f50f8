package pathutils

import (
	"errors"
	"path/filepath"
	"strings"
)

const repositoryPathMissingMessageConstant = "repository path is required"

// ErrRepositoryPathMissing reports an empty repository path input.
var ErrRepositoryPathMissing = errors.New(repositoryPathMissingMessageConstant)

// RepositoryPathResolver normalizes a repository path input consistently across commands.
type RepositoryPathResolver struct {
	homeExpander *HomeExpander
}

// NewRepositoryPathResolver constructs a RepositoryPathResolver with default behavior.
func NewRepositoryPathResolver() *RepositoryPathResolver {
	return NewRepositoryPathResolverWithExpander(nil)
}

// NewRepositoryPathResolverWithExpander constructs a RepositoryPathResolver using the provided expander.
func NewRepositoryPathResolverWithExpander(homeExpander *HomeExpander) *RepositoryPathResolver {
	resolvedExpander := homeExpander
	if resolvedExpander == nil {
		resolvedExpander = NewHomeExpander()
	}
	return &RepositoryPathResolver{homeExpander: resolvedExpander}
}

// Resolve trims whitespace, expands the user's home directory, and absolutizes the path.
func (resolver *RepositoryPathResolver) Resolve(candidatePath string) (string, error) {
	trimmedCandidate := strings.TrimSpace(candidatePath)
	if len(trimmedCandidate) == 0 {
		return "", ErrRepositoryPathMissing
	}

	expander := NewHomeExpander()
	if resolver != nil && resolver.homeExpander != nil {
		expander = resolver.homeExpander
	}

	expandedPath := expander.Expand(trimmedCandidate)
	absolutePath, absoluteError := filepath.Abs(filepath.Clean(expandedPath))
	if absoluteError != nil {
		return filepath.Clean(expandedPath), nil
	}
	return absolutePath, nil
}
