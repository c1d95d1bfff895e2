package core

import (
	"encoding/binary"
	"encoding/json"
	"strconv"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a content-derived fingerprint for embedding inputs.
// Identical text always produces the same ID.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// ItemID identifies a catalog item. Source files may carry it as either a
// JSON string or a JSON number; numbers are coerced to their decimal form.
type ItemID string

// UnmarshalJSON accepts both string and numeric ids.
func (id *ItemID) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ItemID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = ItemID(n.String())
	return nil
}

// Stipend holds a compensation value as it appears in the catalog source.
// It is either a raw free-form string ("5000-8000 per month", "Unpaid") or
// a plain number. Normalization to a comparable integer happens in the
// rank package, never here.
type Stipend struct {
	Raw     string
	Value   float64
	Numeric bool
}

// UnmarshalJSON accepts both string and numeric stipend values.
func (s *Stipend) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = Stipend{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var raw string
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		*s = Stipend{Raw: raw}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*s = Stipend{Value: v, Numeric: true}
	return nil
}

// MarshalJSON preserves the source representation.
func (s Stipend) MarshalJSON() ([]byte, error) {
	if s.Numeric {
		return json.Marshal(s.Value)
	}
	return json.Marshal(s.Raw)
}

// String renders the stipend for display.
func (s Stipend) String() string {
	if s.Numeric {
		return strconv.FormatFloat(s.Value, 'f', -1, 64)
	}
	return s.Raw
}

// Internship is a single catalog item. It is immutable for the duration of
// a ranking run; the ranking core only ever reads it.
type Internship struct {
	ID           ItemID  `json:"internship_id"`
	Title        string  `json:"title"`
	Organization string  `json:"organization"`
	Location     string  `json:"location"`
	Duration     string  `json:"duration"`
	Stipend      Stipend `json:"stipend"`
	Description  string  `json:"description,omitempty"`
	Skills       string  `json:"skills,omitempty"`
	ApplyBy      string  `json:"apply_by"`
}

// EmbeddingText builds the text that is embedded for this item.
// Field order and separator are fixed; a stored vector is only valid for
// exactly this concatenation. Missing optional fields contribute an empty
// string.
func (i *Internship) EmbeddingText() string {
	return i.Title + " " + i.Organization + " " + i.Description + " " + i.Skills
}

// EmbeddingEntry is one persisted vector cache record, keyed by item id.
// Once written, the vector is never recomputed or mutated; only new ids
// trigger new entries.
type EmbeddingEntry struct {
	ItemID      string
	Fingerprint ID // IDFromContent of the embedded text at build time
	Model       string
	Vector      []float32
	InsertedAt  time.Time
}

// AnyFilter is the wildcard value that disables a location or duration filter.
const AnyFilter = "any"

// FilterCriteria carries the structured preferences for one ranking call.
// Location and Duration compare case-insensitively; AnyFilter (or the empty
// string) disables the corresponding boost. The stipend bounds are always
// evaluated: min=0, max=0 matches unpaid items only.
type FilterCriteria struct {
	Location   string
	Duration   string
	StipendMin int
	StipendMax int
}

// ScoredInternship pairs a catalog item with its adjusted score.
type ScoredInternship struct {
	Internship *Internship
	Score      float64
}

// Tier is the three-way confidence classification of a ranking batch.
type Tier int

const (
	// TierNoResults means the best score fell below the suggestion threshold.
	TierNoResults Tier = iota + 1
	// TierSuggestion means weak matches are shown anyway.
	TierSuggestion
	// TierResults means a confident match.
	TierResults
)

func (t Tier) String() string {
	switch t {
	case TierNoResults:
		return "no_results"
	case TierSuggestion:
		return "suggestion"
	case TierResults:
		return "results"
	default:
		return "unknown"
	}
}

// RankingOutcome is the result of one ranking call. Items is empty when
// Tier is TierNoResults, and holds the top-K scored items otherwise,
// ordered by score descending with catalog order breaking ties.
type RankingOutcome struct {
	Tier  Tier
	Items []ScoredInternship
}
