package pathutils

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const tildePrefixConstant = "~"

// HomeDirectoryProvider resolves the current user's home directory path.
type HomeDirectoryProvider func() (string, error)

// HomeExpander rewrites leading tilde shortcuts into absolute home paths so
// repository locations from configuration files resolve the way a shell would.
type HomeExpander struct {
	provider      HomeDirectoryProvider
	homeDirectory string
	lookupError   error
	lookupOnce    sync.Once
}

// NewHomeExpander constructs a HomeExpander backed by the operating system lookup.
func NewHomeExpander() *HomeExpander {
	return NewHomeExpanderWithProvider(os.UserHomeDir)
}

// NewHomeExpanderWithProvider constructs a HomeExpander with a custom home directory lookup.
func NewHomeExpanderWithProvider(provider HomeDirectoryProvider) *HomeExpander {
	if provider == nil {
		provider = os.UserHomeDir
	}
	return &HomeExpander{provider: provider}
}

// Expand resolves a leading tilde to the user's home directory. Paths without
// a tilde prefix, and tildes naming other users, pass through unchanged.
func (expander *HomeExpander) Expand(candidatePath string) string {
	if expander == nil || len(candidatePath) == 0 {
		return candidatePath
	}
	if !strings.HasPrefix(candidatePath, tildePrefixConstant) {
		return candidatePath
	}

	homeDirectory := expander.lookupHomeDirectory()
	if len(homeDirectory) == 0 {
		return candidatePath
	}

	switch {
	case candidatePath == tildePrefixConstant:
		return homeDirectory
	case strings.HasPrefix(candidatePath, tildePrefixConstant+"/"):
		return filepath.Join(homeDirectory, candidatePath[len(tildePrefixConstant)+1:])
	case strings.HasPrefix(candidatePath, tildePrefixConstant+string(os.PathSeparator)):
		return filepath.Join(homeDirectory, candidatePath[len(tildePrefixConstant)+1:])
	default:
		return candidatePath
	}
}

func (expander *HomeExpander) lookupHomeDirectory() string {
	expander.lookupOnce.Do(func() {
		expander.homeDirectory, expander.lookupError = expander.provider()
	})
	if expander.lookupError != nil {
		return ""
	}
	return expander.homeDirectory
}
