package ingest

import (
	"strings"

	"github.com/samber/lo"
)

// DefaultMaxGroups caps how many groups one article may be linked to.
const DefaultMaxGroups = 3

// SanitizeSuggestions trims names and descriptions, drops empty names,
// removes case-insensitive duplicates keeping the first, and keeps at most
// max entries.
func SanitizeSuggestions(in []Suggestion, max int) []Suggestion {
	trimmed := lo.FilterMap(in, func(s Suggestion, _ int) (Suggestion, bool) {
		s.Name = strings.Join(strings.Fields(s.Name), " ")
		s.Description = strings.TrimSpace(s.Description)
		return s, s.Name != ""
	})
	unique := lo.UniqBy(trimmed, func(s Suggestion) string {
		return strings.ToLower(s.Name)
	})
	if max > 0 && len(unique) > max {
		unique = unique[:max]
	}
	return unique
}
