package screening

import (
	"sort"

	"github.com/turtacn/ayush-docknet/internal/domain/research"
)

// DefaultTargetThreshold is the minimum interaction probability shown by
// default.
const DefaultTargetThreshold = 0.7

// FilterTargets keeps hits whose probability is at least threshold.
func FilterTargets(hits []research.TargetHit, threshold float64) []research.TargetHit {
	out := make([]research.TargetHit, 0, len(hits))
	for _, h := range hits {
		if h.Probability >= threshold {
			out = append(out, h)
		}
	}
	return out
}

// SelectTargets returns the hits whose id is in sel, in hit order.
func SelectTargets(hits []research.TargetHit, sel *Selection) []research.TargetHit {
	out := make([]research.TargetHit, 0, sel.Len())
	for _, h := range hits {
		if sel.Contains(h.ID) {
			out = append(out, h)
		}
	}
	return out
}

// SelectAdmet returns the results whose compound id is in sel.
func SelectAdmet(results []research.AdmetResult, sel *Selection) []research.AdmetResult {
	out := make([]research.AdmetResult, 0, sel.Len())
	for _, r := range results {
		if sel.Contains(r.CompoundID) {
			r.Selected = true
			out = append(out, r)
		}
	}
	return out
}

// SelectedCompounds returns the compounds flagged Selected.
func SelectedCompounds(compounds []research.Compound) []research.Compound {
	out := make([]research.Compound, 0, len(compounds))
	for _, c := range compounds {
		if c.Selected {
			out = append(out, c)
		}
	}
	return out
}

// CompoundIDs returns the ids of compounds in order.
func CompoundIDs(compounds []research.Compound) []string {
	ids := make([]string, 0, len(compounds))
	for _, c := range compounds {
		ids = append(ids, c.ID)
	}
	return ids
}

// DescriptorSummary backs the descriptor dashboard tiles.
type DescriptorSummary struct {
	Total        int `json:"total"`
	LipinskiPass int `json:"lipinskiPass"`
	LipinskiFail int `json:"lipinskiFail"`
	Toxic        int `json:"toxic"`
	PAINS        int `json:"pains"`
}

func SummarizeDescriptors(ds []research.Descriptor) DescriptorSummary {
	s := DescriptorSummary{Total: len(ds)}
	for _, d := range ds {
		if d.LipinskiPass {
			s.LipinskiPass++
		} else {
			s.LipinskiFail++
		}
		if d.Toxicophore {
			s.Toxic++
		}
		if d.PAINSFlag {
			s.PAINS++
		}
	}
	return s
}

// TargetSummary backs the target prediction tiles.
type TargetSummary struct {
	Hits               int     `json:"hits"`
	UniqueTargets      int     `json:"uniqueTargets"`
	UniqueCompounds    int     `json:"uniqueCompounds"`
	AverageProbability float64 `json:"averageProbability"`
}

func SummarizeTargets(hits []research.TargetHit) TargetSummary {
	s := TargetSummary{Hits: len(hits)}
	if len(hits) == 0 {
		return s
	}
	targets := map[string]struct{}{}
	compounds := map[string]struct{}{}
	var sum float64
	for _, h := range hits {
		targets[h.Target] = struct{}{}
		compounds[h.Compound] = struct{}{}
		sum += h.Probability
	}
	s.UniqueTargets = len(targets)
	s.UniqueCompounds = len(compounds)
	s.AverageProbability = sum / float64(len(hits))
	return s
}

// DockingSummary backs the docking results tiles.  Best is the lowest score.
type DockingSummary struct {
	Jobs         int                     `json:"jobs"`
	BestScore    float64                 `json:"bestScore"`
	AverageScore float64                 `json:"averageScore"`
	Top          *research.DockingResult `json:"top,omitempty"`
}

func SummarizeDocking(results []research.DockingResult) DockingSummary {
	s := DockingSummary{Jobs: len(results)}
	if len(results) == 0 {
		return s
	}
	best := results[0]
	var sum float64
	for _, r := range results {
		sum += r.Score
		if r.Score < best.Score {
			best = r
		}
	}
	s.BestScore = best.Score
	s.AverageScore = sum / float64(len(results))
	s.Top = &best
	return s
}

// SortKey orders docking results.
type SortKey string

const (
	SortByScore SortKey = "score"
	SortByRank  SortKey = "rank"
)

// SortDocking returns a copy of results ordered ascending by key.  Unknown
// keys sort by score.  The sort is stable.
func SortDocking(results []research.DockingResult, key SortKey) []research.DockingResult {
	out := append([]research.DockingResult(nil), results...)
	less := func(i, j int) bool { return out[i].Score < out[j].Score }
	if key == SortByRank {
		less = func(i, j int) bool { return out[i].Rank < out[j].Rank }
	}
	sort.SliceStable(out, less)
	return out
}

// DockingJobCount is compounds × targets × engines.
func DockingJobCount(compounds, targets, engines int) int {
	if compounds <= 0 || targets <= 0 || engines <= 0 {
		return 0
	}
	return compounds * targets * engines
}

// NetworkSummary backs the network visualisation tiles.
type NetworkSummary struct {
	Nodes    int                  `json:"nodes"`
	Edges    int                  `json:"edges"`
	TopHubs  []research.HubTarget `json:"topHubs"`
	Pathways int                  `json:"pathways"`
}

// SummarizeNetwork counts nodes and edges and returns up to topN hubs by
// degree, ties broken by betweenness.
func SummarizeNetwork(g research.NetworkGraph, topN int) NetworkSummary {
	hubs := append([]research.HubTarget(nil), g.Hubs...)
	sort.SliceStable(hubs, func(i, j int) bool {
		if hubs[i].Degree != hubs[j].Degree {
			return hubs[i].Degree > hubs[j].Degree
		}
		return hubs[i].Betweenness > hubs[j].Betweenness
	})
	if topN >= 0 && len(hubs) > topN {
		hubs = hubs[:topN]
	}
	return NetworkSummary{
		Nodes:    len(g.Nodes),
		Edges:    len(g.Edges),
		TopHubs:  hubs,
		Pathways: len(g.Pathways),
	}
}
