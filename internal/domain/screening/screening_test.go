package screening

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/ayush-docknet/internal/domain/research"
)

func TestSelection(t *testing.T) {
	var s Selection
	assert.True(t, s.Add("a"))
	assert.False(t, s.Add("a"))
	assert.True(t, s.Toggle("b"))
	assert.True(t, s.Toggle("c"))
	assert.False(t, s.Toggle("b"))
	assert.Equal(t, []string{"a", "c"}, s.IDs())
	assert.True(t, s.Remove("a"))
	assert.False(t, s.Remove("a"))
	assert.Equal(t, []string{"c"}, s.IDs())
	assert.True(t, s.Contains("c"))
	assert.Equal(t, 1, s.Len())

	ids := NewSelection("x", "y", "x").IDs()
	assert.Equal(t, []string{"x", "y"}, ids)
	ids[0] = "mutated"
	assert.Empty(t, (&Selection{}).IDs())
}

var hits = []research.TargetHit{
	{ID: "1", Compound: "Curcumin", Target: "COX-2", Probability: 0.92},
	{ID: "2", Compound: "Curcumin", Target: "IL-6", Probability: 0.79},
	{ID: "3", Compound: "Demethoxycurcumin", Target: "COX-2", Probability: 0.87},
	{ID: "4", Compound: "Turmerone", Target: "Acetylcholinesterase", Probability: 0.62},
	{ID: "5", Compound: "Turmerone", Target: "GABAA receptor", Probability: 0.7},
}

func TestFilterTargets(t *testing.T) {
	got := FilterTargets(hits, DefaultTargetThreshold)
	require.Len(t, got, 4)
	assert.Equal(t, "5", got[3].ID, "threshold is inclusive")

	assert.Empty(t, FilterTargets(hits, 0.95))
	assert.Len(t, FilterTargets(hits, 0), 5)
}

func TestSelectTargets(t *testing.T) {
	got := SelectTargets(hits, NewSelection("3", "1"))
	require.Len(t, got, 2)
	assert.Equal(t, "1", got[0].ID)
}

func TestSummarizeTargets(t *testing.T) {
	s := SummarizeTargets(hits)
	assert.Equal(t, 5, s.Hits)
	assert.Equal(t, 4, s.UniqueTargets)
	assert.Equal(t, 3, s.UniqueCompounds)
	assert.InDelta(t, 0.78, s.AverageProbability, 1e-9)

	assert.Equal(t, TargetSummary{}, SummarizeTargets(nil))
}

func TestSummarizeDescriptors(t *testing.T) {
	s := SummarizeDescriptors([]research.Descriptor{
		{LipinskiPass: true},
		{LipinskiPass: true, Toxicophore: true},
		{PAINSFlag: true, Toxicophore: true},
	})
	assert.Equal(t, DescriptorSummary{Total: 3, LipinskiPass: 2, LipinskiFail: 1, Toxic: 2, PAINS: 1}, s)
}

var docking = []research.DockingResult{
	{ID: "1", Score: -9.2, Rank: 1},
	{ID: "2", Score: -8.9, Rank: 2},
	{ID: "3", Score: -8.5, Rank: 3},
	{ID: "4", Score: -8.7, Rank: 2},
}

func TestSummarizeDocking(t *testing.T) {
	s := SummarizeDocking(docking)
	assert.Equal(t, 4, s.Jobs)
	assert.Equal(t, -9.2, s.BestScore)
	assert.InDelta(t, -8.825, s.AverageScore, 1e-9)
	require.NotNil(t, s.Top)
	assert.Equal(t, "1", s.Top.ID)

	empty := SummarizeDocking(nil)
	assert.Nil(t, empty.Top)
}

func TestSortDocking(t *testing.T) {
	byScore := SortDocking(docking, SortByScore)
	assert.Equal(t, []string{"1", "2", "4", "3"}, ids(byScore))

	byRank := SortDocking(docking, SortByRank)
	assert.Equal(t, []string{"1", "2", "4", "3"}, ids(byRank))

	assert.Equal(t, "1", docking[0].ID)
	assert.Equal(t, "3", docking[2].ID, "input is not reordered")
}

func ids(rs []research.DockingResult) []string {
	out := make([]string, 0, len(rs))
	for _, r := range rs {
		out = append(out, r.ID)
	}
	return out
}

func TestDockingJobCount(t *testing.T) {
	assert.Equal(t, 8, DockingJobCount(2, 2, 2))
	assert.Equal(t, 0, DockingJobCount(2, 0, 2))
}

func TestSummarizeNetwork(t *testing.T) {
	g := research.NetworkGraph{
		Nodes: make([]research.NetworkNode, 6),
		Edges: make([]research.NetworkEdge, 9),
		Hubs: []research.HubTarget{
			{Target: "IL-6", Degree: 7},
			{Target: "COX-2", Degree: 12},
			{Target: "STAT3", Degree: 8, Betweenness: 0.35},
			{Target: "X", Degree: 8, Betweenness: 0.5},
		},
	}
	s := SummarizeNetwork(g, 3)
	assert.Equal(t, 6, s.Nodes)
	assert.Equal(t, 9, s.Edges)
	require.Len(t, s.TopHubs, 3)
	assert.Equal(t, "COX-2", s.TopHubs[0].Target)
	assert.Equal(t, "X", s.TopHubs[1].Target)
	assert.Equal(t, "IL-6", g.Hubs[0].Target)
}
