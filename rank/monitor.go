package rank

import "github.com/poiesic/internmatch/core"

// RankMonitor provides hooks to observe the ranking process.
// Implement this interface to track intermediate scores during a ranking call.
type RankMonitor interface {
	Start(query string)
	AfterQueryEmbedding(vector []float32)
	ItemScored(id core.ItemID, similarity, adjusted float64)
	Finish(outcome *core.RankingOutcome)
}

// noopMonitor is a no-op implementation of RankMonitor
type noopMonitor struct{}

var _ RankMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                               {}
func (n *noopMonitor) AfterQueryEmbedding(_ []float32)              {}
func (n *noopMonitor) ItemScored(_ core.ItemID, _, _ float64)       {}
func (n *noopMonitor) Finish(_ *core.RankingOutcome)                {}
