package rank

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/poiesic/internmatch/core"
)

// Stipend strings in the wild look like "10,000 per month", "5,000 - 8,000
// per month", or "Unpaid". After stripping thousands separators, a leading
// hyphenated pair (spaces around the hyphen allowed) is a range; otherwise
// the first whitespace-delimited token must be a plain integer.
var stipendRangeRe = regexp.MustCompile(`^(\d+)\s*-\s*(\d+)`)

// NormalizeStipend reduces a heterogeneous stipend value to a single
// comparable integer. It is a total function: any malformed input maps to 0,
// because one bad catalog field must never abort ranking of the whole
// catalog.
//
//   - numeric values are truncated toward zero
//   - "unpaid" (case-insensitive) is 0
//   - a range ("5000-8000 per month") averages the bounds with integer
//     division
//   - otherwise the leading integer token is used
func NormalizeStipend(s core.Stipend) int {
	if s.Numeric {
		return int(s.Value)
	}

	raw := strings.TrimSpace(s.Raw)
	if strings.EqualFold(raw, "unpaid") {
		return 0
	}

	raw = strings.ReplaceAll(raw, ",", "")

	if m := stipendRangeRe.FindStringSubmatch(raw); m != nil {
		low, err1 := strconv.Atoi(m[1])
		high, err2 := strconv.Atoi(m[2])
		if err1 != nil || err2 != nil {
			return 0
		}
		return (low + high) / 2
	}

	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return 0
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0
	}
	return n
}
