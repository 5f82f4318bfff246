package sources

import (
	"context"
	"strings"

	"opspilot/types"
)

// Source produces candidate leads from one social platform. Implementations
// bound their own timeouts, return an empty slice (not an error) when nothing
// matched, and may error on transport or auth failure — the pipeline isolates
// a failing source so the others still run.
type Source interface {
	Name() string
	Enabled() bool
	Fetch(ctx context.Context, keywords []string, limit int) ([]*types.Lead, error)
}

// MatchesKeywords reports whether text contains any of the keywords,
// case-insensitively. Used as a cheap pre-filter before the classifier.
func MatchesKeywords(text string, keywords []string) bool {
	lower := strings.ToLower(text)
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}
