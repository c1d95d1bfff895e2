package rank

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/poiesic/internmatch/ai/mock"
	"github.com/poiesic/internmatch/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// vec2 builds a unit 2-d vector whose cosine against [1, 0] is c.
func vec2(c float64) []float32 {
	return []float32{float32(c), float32(math.Sqrt(1 - c*c))}
}

// fixedQueryEmbedder returns the same vector for every query.
func fixedQueryEmbedder(v []float32) *mock.MockEmbedder {
	m := mock.NewMockEmbedder()
	m.EmbedTextFunc = func(_ context.Context, _ string) ([]float32, error) {
		return v, nil
	}
	return m
}

func noFilter() core.FilterCriteria {
	// A stipend window no test item falls into keeps the stipend boost off.
	return core.FilterCriteria{
		Location:   core.AnyFilter,
		Duration:   core.AnyFilter,
		StipendMin: 900000,
		StipendMax: 999999,
	}
}

func TestClassifyTier(t *testing.T) {
	assert.Equal(t, core.TierNoResults, classifyTier(0))
	assert.Equal(t, core.TierNoResults, classifyTier(0.29))
	assert.Equal(t, core.TierSuggestion, classifyTier(0.30))
	assert.Equal(t, core.TierSuggestion, classifyTier(0.44))
	assert.Equal(t, core.TierResults, classifyTier(0.45))
	assert.Equal(t, core.TierResults, classifyTier(0.90))

	// Boosts can push the adjusted score past 1.0; still a confident result.
	assert.Equal(t, core.TierResults, classifyTier(1.40))
}

func TestNewRanker_Validation(t *testing.T) {
	catalog := []core.Internship{{ID: "1", Title: "A", Organization: "Org"}}

	t.Run("nil embedder", func(t *testing.T) {
		_, err := NewRanker(catalog, [][]float32{{1, 0}}, nil)
		assert.ErrorIs(t, err, ErrEmbedderRequired)
	})

	t.Run("row count mismatch", func(t *testing.T) {
		_, err := NewRanker(catalog, [][]float32{}, mock.NewMockEmbedder())
		assert.ErrorIs(t, err, ErrMatrixShape)
	})

	t.Run("ragged matrix", func(t *testing.T) {
		two := append(catalog, core.Internship{ID: "2", Title: "B", Organization: "Org"})
		_, err := NewRanker(two, [][]float32{{1, 0}, {1, 0, 0}}, mock.NewMockEmbedder())
		assert.ErrorIs(t, err, core.ErrDimensionMismatch)
	})
}

func TestRank_EmptyCatalog(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	ranker, err := NewRanker(nil, nil, embedder)
	require.NoError(t, err)

	outcome, err := ranker.Rank(context.Background(), "backend internship", noFilter(), 0)
	require.NoError(t, err)
	assert.Equal(t, core.TierNoResults, outcome.Tier)
	assert.Empty(t, outcome.Items)
	assert.Equal(t, 0, embedder.CallCount(), "empty catalog should not spend an embedding call")
}

func TestRank_BoostsAreAdditive(t *testing.T) {
	catalog := []core.Internship{
		{
			ID:           "full-match",
			Title:        "Data Science Intern",
			Organization: "Acme",
			Location:     "Bengaluru, India",
			Duration:     "6 Months",
			Stipend:      core.Stipend{Raw: "10000 per month"},
		},
		{
			ID:           "location-only",
			Title:        "Data Science Intern",
			Organization: "Beta",
			Location:     "Bengaluru",
			Duration:     "3 months",
			Stipend:      core.Stipend{Raw: "2000"},
		},
	}
	matrix := [][]float32{{1, 0}, {1, 0}}

	ranker, err := NewRanker(catalog, matrix, fixedQueryEmbedder([]float32{1, 0}))
	require.NoError(t, err)

	criteria := core.FilterCriteria{
		Location:   "bengaluru",
		Duration:   "6",
		StipendMin: 5000,
		StipendMax: 20000,
	}
	outcome, err := ranker.Rank(context.Background(), "data science", criteria, 2)
	require.NoError(t, err)
	require.Len(t, outcome.Items, 2)

	assert.Equal(t, core.ItemID("full-match"), outcome.Items[0].Internship.ID)
	assert.InDelta(t, 1.0+0.15+0.05+0.10, outcome.Items[0].Score, 1e-6)
	assert.Equal(t, core.ItemID("location-only"), outcome.Items[1].Internship.ID)
	assert.InDelta(t, 1.0+0.15, outcome.Items[1].Score, 1e-6)
	assert.Equal(t, core.TierResults, outcome.Tier)
}

func TestRank_RecencyBoostUsesClock(t *testing.T) {
	today := time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)
	catalog := []core.Internship{
		{
			ID:           "closing-soon",
			Title:        "UX Intern",
			Organization: "Acme",
			Stipend:      core.Stipend{Raw: "Unpaid"},
			ApplyBy:      "11-Mar-2025", // ten days out
		},
	}

	ranker, err := NewRanker(catalog, [][]float32{{1, 0}}, fixedQueryEmbedder([]float32{1, 0}),
		WithClock(func() time.Time { return today }))
	require.NoError(t, err)

	criteria := noFilter()
	criteria.StipendMin = 5000 // unpaid item stays outside the window
	outcome, err := ranker.Rank(context.Background(), "ux", criteria, 1)
	require.NoError(t, err)
	require.Len(t, outcome.Items, 1)
	assert.InDelta(t, 1.0+0.10*20.0/30.0, outcome.Items[0].Score, 1e-6)
}

func TestRank_TopKAndTieStability(t *testing.T) {
	catalog := []core.Internship{
		{ID: "a", Title: "A", Organization: "Org"},
		{ID: "b", Title: "B", Organization: "Org"},
		{ID: "c", Title: "C", Organization: "Org"},
		{ID: "d", Title: "D", Organization: "Org"},
		{ID: "e", Title: "E", Organization: "Org"},
	}
	// a and b share an identical row: an exact tie resolved by catalog order.
	matrix := [][]float32{vec2(0.9), vec2(0.9), vec2(0.5), vec2(0.4), vec2(0.1)}

	ranker, err := NewRanker(catalog, matrix, fixedQueryEmbedder([]float32{1, 0}))
	require.NoError(t, err)

	outcome, err := ranker.Rank(context.Background(), "anything", noFilter(), 0)
	require.NoError(t, err)
	require.Len(t, outcome.Items, DefaultTopK)

	assert.Equal(t, core.ItemID("a"), outcome.Items[0].Internship.ID)
	assert.Equal(t, core.ItemID("b"), outcome.Items[1].Internship.ID)
	assert.Equal(t, core.ItemID("c"), outcome.Items[2].Internship.ID)
	assert.Equal(t, outcome.Items[0].Score, outcome.Items[1].Score)
	assert.Equal(t, core.TierResults, outcome.Tier)
}

func TestRank_NoResultsTierDropsItems(t *testing.T) {
	catalog := []core.Internship{
		{ID: "far", Title: "Mechanical Intern", Organization: "Org"},
	}
	// Orthogonal to the query, so base similarity is zero and no boost applies.
	ranker, err := NewRanker(catalog, [][]float32{{0, 1}}, fixedQueryEmbedder([]float32{1, 0}))
	require.NoError(t, err)

	outcome, err := ranker.Rank(context.Background(), "graphic design", noFilter(), 3)
	require.NoError(t, err)
	assert.Equal(t, core.TierNoResults, outcome.Tier)
	assert.Empty(t, outcome.Items)
}

func TestRank_SuggestionTier(t *testing.T) {
	catalog := []core.Internship{
		{ID: "weak", Title: "Content Intern", Organization: "Org"},
	}
	ranker, err := NewRanker(catalog, [][]float32{vec2(0.35)}, fixedQueryEmbedder([]float32{1, 0}))
	require.NoError(t, err)

	outcome, err := ranker.Rank(context.Background(), "writing", noFilter(), 3)
	require.NoError(t, err)
	assert.Equal(t, core.TierSuggestion, outcome.Tier)
	require.Len(t, outcome.Items, 1)
	assert.InDelta(t, 0.35, outcome.Items[0].Score, 1e-3)
}

func TestRank_QueryDimensionMismatch(t *testing.T) {
	catalog := []core.Internship{
		{ID: "1", Title: "A", Organization: "Org"},
	}
	ranker, err := NewRanker(catalog, [][]float32{{1, 0}}, fixedQueryEmbedder([]float32{1, 0, 0}))
	require.NoError(t, err)

	_, err = ranker.Rank(context.Background(), "query", noFilter(), 3)
	assert.ErrorIs(t, err, core.ErrDimensionMismatch)
}

func TestRank_EmbedderErrorPropagates(t *testing.T) {
	wantErr := errors.New("embedding host unreachable")
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(_ context.Context, _ string) ([]float32, error) {
		return nil, wantErr
	}

	catalog := []core.Internship{{ID: "1", Title: "A", Organization: "Org"}}
	ranker, err := NewRanker(catalog, [][]float32{{1, 0}}, embedder)
	require.NoError(t, err)

	_, err = ranker.Rank(context.Background(), "query", noFilter(), 3)
	assert.ErrorIs(t, err, wantErr)
}

func TestRank_Deterministic(t *testing.T) {
	catalog := []core.Internship{
		{ID: "a", Title: "A", Organization: "Org", Location: "Pune"},
		{ID: "b", Title: "B", Organization: "Org", Location: "Delhi"},
		{ID: "c", Title: "C", Organization: "Org", Location: "Remote"},
	}
	matrix := [][]float32{vec2(0.7), vec2(0.6), vec2(0.8)}

	ranker, err := NewRanker(catalog, matrix, fixedQueryEmbedder([]float32{1, 0}))
	require.NoError(t, err)

	criteria := core.FilterCriteria{Location: "remote", Duration: core.AnyFilter, StipendMax: 999999}
	first, err := ranker.Rank(context.Background(), "same query", criteria, 3)
	require.NoError(t, err)
	second, err := ranker.Rank(context.Background(), "same query", criteria, 3)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

type recordingMonitor struct {
	started    bool
	queryDim   int
	scoredIDs  []core.ItemID
	similarity map[core.ItemID]float64
	adjusted   map[core.ItemID]float64
	finished   bool
}

func (m *recordingMonitor) Start(_ string)                  { m.started = true }
func (m *recordingMonitor) AfterQueryEmbedding(v []float32) { m.queryDim = len(v) }
func (m *recordingMonitor) ItemScored(id core.ItemID, similarity, adjusted float64) {
	if m.similarity == nil {
		m.similarity = map[core.ItemID]float64{}
		m.adjusted = map[core.ItemID]float64{}
	}
	m.scoredIDs = append(m.scoredIDs, id)
	m.similarity[id] = similarity
	m.adjusted[id] = adjusted
}
func (m *recordingMonitor) Finish(_ *core.RankingOutcome) { m.finished = true }

func TestRankWithMonitor(t *testing.T) {
	catalog := []core.Internship{
		{ID: "boosted", Title: "A", Organization: "Org", Location: "Pune"},
		{ID: "plain", Title: "B", Organization: "Org", Location: "Delhi"},
	}
	matrix := [][]float32{vec2(0.6), vec2(0.6)}

	ranker, err := NewRanker(catalog, matrix, fixedQueryEmbedder([]float32{1, 0}))
	require.NoError(t, err)

	monitor := &recordingMonitor{}
	criteria := core.FilterCriteria{Location: "pune", Duration: core.AnyFilter, StipendMin: 900000, StipendMax: 999999}
	_, err = ranker.RankWithMonitor(context.Background(), "query", criteria, 3, monitor)
	require.NoError(t, err)

	assert.True(t, monitor.started)
	assert.True(t, monitor.finished)
	assert.Equal(t, 2, monitor.queryDim)
	assert.Equal(t, []core.ItemID{"boosted", "plain"}, monitor.scoredIDs)
	assert.InDelta(t, monitor.similarity["boosted"]+0.15, monitor.adjusted["boosted"], 1e-9)
	assert.InDelta(t, monitor.similarity["plain"], monitor.adjusted["plain"], 1e-9)
}
