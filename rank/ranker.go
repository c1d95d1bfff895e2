package rank

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/poiesic/internmatch/ai"
	"github.com/poiesic/internmatch/core"
)

// Boost magnitudes and tier thresholds. Downstream behavior pins these
// constants; do not tune them casually.
const (
	locationBoost = 0.15
	durationBoost = 0.05
	stipendBoost  = 0.10

	suggestionThreshold = 0.30
	resultsThreshold    = 0.45
)

// DefaultTopK is the number of items returned when the caller passes a
// non-positive top-K.
const DefaultTopK = 3

// Ranker scores a fixed catalog snapshot against free-text queries.
// It owns no mutable state: the catalog and matrix are read-only after
// construction, so a Ranker is safe for concurrent use.
type Ranker struct {
	catalog  []core.Internship
	matrix   [][]float32
	embedder ai.Embedder
	now      func() time.Time
	logger   *slog.Logger
}

// Option configures a Ranker.
type Option func(*Ranker) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Ranker) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// WithClock sets the time source used for deadline recency.
// Default is time.Now. Tests use this to pin "today".
func WithClock(now func() time.Time) Option {
	return func(r *Ranker) error {
		if now == nil {
			now = time.Now
		}
		r.now = now
		return nil
	}
}

// NewRanker creates a ranker over a catalog snapshot and its similarity
// matrix. The matrix must hold one embedding row per catalog item, in
// catalog order, all rows of equal dimension; a dimension disagreement is
// a configuration error and fails construction.
func NewRanker(catalog []core.Internship, matrix [][]float32, embedder ai.Embedder, opts ...Option) (*Ranker, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if len(matrix) != len(catalog) {
		return nil, fmt.Errorf("%w: %d rows for %d items", ErrMatrixShape, len(matrix), len(catalog))
	}
	for i := 1; i < len(matrix); i++ {
		if len(matrix[i]) != len(matrix[0]) {
			return nil, fmt.Errorf("%w: row %d has dimension %d, row 0 has %d",
				core.ErrDimensionMismatch, i, len(matrix[i]), len(matrix[0]))
		}
	}

	r := &Ranker{
		catalog:  catalog,
		matrix:   matrix,
		embedder: embedder,
		now:      time.Now,
		logger:   slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}

	return r, nil
}

// Rank scores every catalog item against the query, applies filter boosts,
// and returns the top-K items with a confidence tier.
func (r *Ranker) Rank(ctx context.Context, query string, criteria core.FilterCriteria, topK int) (*core.RankingOutcome, error) {
	return r.RankWithMonitor(ctx, query, criteria, topK, nil)
}

// RankWithMonitor ranks with monitoring. The monitor receives callbacks at
// each stage of the scoring process.
func (r *Ranker) RankWithMonitor(ctx context.Context, query string, criteria core.FilterCriteria, topK int, monitor RankMonitor) (*core.RankingOutcome, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}
	if topK <= 0 {
		topK = DefaultTopK
	}

	monitor.Start(query)

	if len(r.catalog) == 0 {
		outcome := &core.RankingOutcome{Tier: core.TierNoResults, Items: []core.ScoredInternship{}}
		monitor.Finish(outcome)
		return outcome, nil
	}

	// 1. Embed the query.
	queryVector, err := r.embedder.EmbedText(ctx, query)
	if err != nil {
		r.logger.Error("error generating embedding for query", "query", query, "err", err)
		return nil, err
	}
	if len(queryVector) != len(r.matrix[0]) {
		return nil, fmt.Errorf("%w: query dimension %d, catalog dimension %d",
			core.ErrDimensionMismatch, len(queryVector), len(r.matrix[0]))
	}
	monitor.AfterQueryEmbedding(queryVector)

	// 2. Base similarity plus additive boosts, one score per item.
	today := r.now()
	scored := make([]core.ScoredInternship, len(r.catalog))
	for i := range r.catalog {
		item := &r.catalog[i]
		similarity := Cosine(queryVector, r.matrix[i])
		score := similarity

		if locationMatches(criteria.Location, item.Location) {
			score += locationBoost
		}
		if durationMatches(criteria.Duration, item.Duration) {
			score += durationBoost
		}
		if stipendMatches(item.Stipend, criteria.StipendMin, criteria.StipendMax) {
			score += stipendBoost
		}
		score += RecencyBoost(item.ApplyBy, today)

		monitor.ItemScored(item.ID, similarity, score)
		scored[i] = core.ScoredInternship{Internship: item, Score: score}
	}

	// 3. Stable sort keeps catalog order for equal scores.
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	if len(scored) > topK {
		scored = scored[:topK]
	}

	// 4. Classify by the best adjusted score among the selected items.
	best := scored[0].Score
	tier := classifyTier(best)
	outcome := &core.RankingOutcome{Tier: tier, Items: scored}
	if tier == core.TierNoResults {
		outcome.Items = []core.ScoredInternship{}
	}

	r.logger.Debug("ranking complete", "query", query, "tier", tier.String(), "best", best)
	monitor.Finish(outcome)

	return outcome, nil
}

// classifyTier maps the best adjusted score in a batch to a confidence tier.
func classifyTier(best float64) core.Tier {
	switch {
	case best < suggestionThreshold:
		return core.TierNoResults
	case best < resultsThreshold:
		return core.TierSuggestion
	default:
		return core.TierResults
	}
}
