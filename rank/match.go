package rank

import (
	"strings"

	"github.com/poiesic/internmatch/core"
)

// isWildcard reports whether a filter value disables its boost.
func isWildcard(value string) bool {
	return value == "" || strings.EqualFold(value, core.AnyFilter)
}

// locationMatches reports whether the requested location is a
// case-insensitive substring of the item's location.
func locationMatches(requested, itemLocation string) bool {
	if isWildcard(requested) {
		return false
	}
	return strings.Contains(strings.ToLower(itemLocation), strings.ToLower(requested))
}

// durationMatches compares durations after stripping the literal word
// "months" and surrounding whitespace from both sides. The remaining
// comparison is a plain substring check, so "3" matches inside "13";
// that looseness is intentional and pinned by downstream behavior.
func durationMatches(requested, itemDuration string) bool {
	if isWildcard(requested) {
		return false
	}
	return strings.Contains(stripMonths(itemDuration), stripMonths(requested))
}

func stripMonths(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(strings.ToLower(s), "months", ""))
}

// stipendMatches reports whether the item's normalized stipend falls within
// the requested bounds, inclusive. There is no wildcard: callers encode
// "any" as [0, a very large max] and "unpaid only" as [0, 0].
func stipendMatches(stipend core.Stipend, min, max int) bool {
	value := NormalizeStipend(stipend)
	return value >= min && value <= max
}
