// Package moderate decides which messages should be removed from chat.
package moderate

import "strings"

// DefaultBanned is the banned term list used when none is configured.
var DefaultBanned = []string{"badword1", "badword2"}

// ShouldDelete reports the first term in banned which appears in content.
// Matching is a case-sensitive substring search with no regard for word
// boundaries, so "badword1" matches "superbadword123".
// Empty terms never match.
func ShouldDelete(content string, banned []string) (string, bool) {
	for _, term := range banned {
		if term == "" {
			continue
		}
		if strings.Contains(content, term) {
			return term, true
		}
	}
	return "", false
}
