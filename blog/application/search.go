package application

import (
	"strings"

	"github.com/dfryer1193/bitacora/blog/domain"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// searchMatcher does case-insensitive substring matching over title and content.
// Text is NFC-normalised before folding so that "á" typed as one or two code points compares equal.
type searchMatcher struct {
	term string
}

// newSearchMatcher returns nil when the trimmed term is empty, meaning "match everything".
// The untrimmed term is what gets matched.
func newSearchMatcher(term string) *searchMatcher {
	if strings.TrimSpace(term) == "" {
		return nil
	}
	return &searchMatcher{term: fold(term)}
}

func (m *searchMatcher) matches(p domain.Post) bool {
	if m == nil {
		return true
	}
	return strings.Contains(fold(p.Title), m.term) || strings.Contains(fold(p.Content), m.term)
}

// fold creates a Caser per call; Casers keep state and must not be shared
func fold(s string) string {
	return cases.Fold().String(norm.NFC.String(s))
}
