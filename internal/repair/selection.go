package repair

import (
	"strings"

	"github.com/forgefix/prmend/internal/gitrepo"
)

// Default keyword sets for choosing which commit carries the meaningful change.
var (
	defaultIncludeKeywords = []string{"test", "feat:", "add"}
	defaultExcludeKeywords = []string{"cargo.lock", "format"}
)

// CommitSelector chooses the commit to replay from a list of candidates ordered newest first.
type CommitSelector interface {
	SelectCommit(candidates []gitrepo.Commit) (gitrepo.Commit, bool)
}

// KeywordSelectionPolicy configures subject matching for KeywordCommitSelector.
type KeywordSelectionPolicy struct {
	IncludeKeywords []string
	ExcludeKeywords []string
}

// DefaultKeywordSelectionPolicy returns the baseline include and exclude keyword sets.
func DefaultKeywordSelectionPolicy() KeywordSelectionPolicy {
	return KeywordSelectionPolicy{
		IncludeKeywords: append([]string{}, defaultIncludeKeywords...),
		ExcludeKeywords: append([]string{}, defaultExcludeKeywords...),
	}
}

// KeywordCommitSelector selects the newest commit whose subject matches the keyword policy.
type KeywordCommitSelector struct {
	includeKeywords []string
	excludeKeywords []string
}

// NewKeywordCommitSelector constructs a selector from the provided policy, falling back to defaults for empty keyword sets.
func NewKeywordCommitSelector(policy KeywordSelectionPolicy) *KeywordCommitSelector {
	includeKeywords := normalizeKeywords(policy.IncludeKeywords)
	if len(includeKeywords) == 0 {
		includeKeywords = normalizeKeywords(defaultIncludeKeywords)
	}
	excludeKeywords := normalizeKeywords(policy.ExcludeKeywords)

	return &KeywordCommitSelector{
		includeKeywords: includeKeywords,
		excludeKeywords: excludeKeywords,
	}
}

// SelectCommit returns the first candidate whose subject contains an include
// keyword and none of the exclude keywords. Matching is case-insensitive.
func (selector *KeywordCommitSelector) SelectCommit(candidates []gitrepo.Commit) (gitrepo.Commit, bool) {
	for _, candidate := range candidates {
		loweredSubject := strings.ToLower(candidate.Subject)
		if !containsAnyKeyword(loweredSubject, selector.includeKeywords) {
			continue
		}
		if containsAnyKeyword(loweredSubject, selector.excludeKeywords) {
			continue
		}
		return candidate, true
	}
	return gitrepo.Commit{}, false
}

func containsAnyKeyword(subject string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(subject, keyword) {
			return true
		}
	}
	return false
}

func normalizeKeywords(keywords []string) []string {
	normalized := make([]string, 0, len(keywords))
	seen := make(map[string]struct{}, len(keywords))
	for _, keyword := range keywords {
		loweredKeyword := strings.ToLower(strings.TrimSpace(keyword))
		if len(loweredKeyword) == 0 {
			continue
		}
		if _, exists := seen[loweredKeyword]; exists {
			continue
		}
		normalized = append(normalized, loweredKeyword)
		seen[loweredKeyword] = struct{}{}
	}
	if len(normalized) == 0 {
		return nil
	}
	return normalized
}
