package neo4j

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/turtacn/ayush-docknet/internal/domain/research"
	"github.com/turtacn/ayush-docknet/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/ayush-docknet/pkg/errors"
)

var _ research.NetworkAnalysisService = (*NetworkService)(nil)

// Reference holds the interaction tables the graph is built from.
type Reference struct {
	Hits     []research.TargetHit
	Hubs     []research.HubTarget // pathway memberships by target
	Pathways []research.PathwayEnrichment
}

// Every Build writes its nodes under a fresh run id so concurrent builds
// never share nodes.
const (
	cypherMergeNodes = `
UNWIND $plants AS plant
MERGE (:Plant {name: plant, run: $run})
WITH count(*) AS _
UNWIND $compounds AS compound
MERGE (:Compound {name: compound, run: $run})
WITH count(*) AS _
UNWIND $targets AS target
MERGE (:Target {name: target, run: $run})`

	cypherMergeContains = `
UNWIND $edges AS e
MATCH (p:Plant {name: e.from, run: $run}), (c:Compound {name: e.to, run: $run})
MERGE (p)-[r:CONTAINS]->(c)
SET r.weight = e.weight`

	cypherMergeBinds = `
UNWIND $edges AS e
MATCH (c:Compound {name: e.from, run: $run}), (t:Target {name: e.to, run: $run})
MERGE (c)-[r:BINDS]->(t)
SET r.weight = e.weight`

	cypherHubs = `
MATCH (t:Target {run: $run})
OPTIONAL MATCH (c:Compound {run: $run})-[r:BINDS]->(t)
RETURN t.name AS target, count(r) AS degree
ORDER BY degree DESC, target ASC`

	cypherDeleteRun = `
MATCH (n {run: $run})
DETACH DELETE n`
)

// NetworkService implements research.NetworkAnalysisService on Neo4j.
type NetworkService struct {
	driver *Driver
	ref    Reference
	keep   bool
	newRun func() string
	logger logging.Logger
}

type NetworkOption func(*NetworkService)

// WithKeepGraphs leaves each run's nodes in the database after Build.
func WithKeepGraphs(keep bool) NetworkOption {
	return func(s *NetworkService) { s.keep = keep }
}

// NewNetworkService builds graphs from ref.
func NewNetworkService(d *Driver, ref Reference, log logging.Logger, opts ...NetworkOption) *NetworkService {
	if log == nil {
		log = logging.NewNopLogger()
	}
	s := &NetworkService{driver: d, ref: ref, newRun: uuid.NewString, logger: log.Named("network")}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Build writes the plant-compound-target graph of req and reads hub degrees
// back.  Betweenness is reported as the share of requested compounds bound
// to the hub.
func (s *NetworkService) Build(ctx context.Context, req research.NetworkRequest) (research.NetworkGraph, error) {
	if len(req.Compounds) == 0 || len(req.Targets) == 0 {
		return research.NetworkGraph{}, errors.Validation("network", "compounds and targets are required")
	}
	run := s.newRun()
	graph, contains, binds := s.layout(req)

	_, err := s.driver.ExecuteWrite(ctx, func(tx Transaction) (any, error) {
		params := map[string]any{"run": run, "plants": req.Plants, "compounds": req.Compounds, "targets": req.Targets}
		if _, err := tx.Run(ctx, cypherMergeNodes, params); err != nil {
			return nil, err
		}
		if _, err := tx.Run(ctx, cypherMergeContains, map[string]any{"run": run, "edges": contains}); err != nil {
			return nil, err
		}
		if _, err := tx.Run(ctx, cypherMergeBinds, map[string]any{"run": run, "edges": binds}); err != nil {
			return nil, err
		}
		return nil, nil
	})
	if err != nil {
		return research.NetworkGraph{}, errors.ServiceUnavailable(research.ServiceNetwork, err)
	}

	out, err := s.driver.ExecuteRead(ctx, func(tx Transaction) (any, error) {
		res, err := tx.Run(ctx, cypherHubs, map[string]any{"run": run})
		if err != nil {
			return nil, err
		}
		return CollectRecords(ctx, res, s.hubFromRecord(len(req.Compounds)))
	})
	if err != nil {
		return research.NetworkGraph{}, errors.ServiceUnavailable(research.ServiceNetwork, err)
	}
	graph.Hubs, _ = out.([]research.HubTarget)

	if !s.keep {
		if _, err := s.driver.ExecuteWrite(ctx, func(tx Transaction) (any, error) {
			return tx.Run(ctx, cypherDeleteRun, map[string]any{"run": run})
		}); err != nil {
			s.logger.Warn("Failed to delete network run", logging.String("run", run), logging.Err(err))
		}
	}

	s.logger.Info("Network built",
		logging.String("run", run),
		logging.Int("nodes", len(graph.Nodes)),
		logging.Int("edges", len(graph.Edges)),
		logging.Int("hubs", len(graph.Hubs)))
	return graph, nil
}

// layout computes the graph written for req together with the CONTAINS and
// BINDS edge parameters.
func (s *NetworkService) layout(req research.NetworkRequest) (g research.NetworkGraph, contains, binds []map[string]any) {
	compounds := make(map[string]bool, len(req.Compounds))
	targets := make(map[string]bool, len(req.Targets))

	for _, p := range req.Plants {
		g.Nodes = append(g.Nodes, research.NetworkNode{ID: p, Kind: research.NodePlant})
	}
	for _, c := range req.Compounds {
		compounds[c] = true
		g.Nodes = append(g.Nodes, research.NetworkNode{ID: c, Kind: research.NodeCompound})
		for _, p := range req.Plants {
			g.Edges = append(g.Edges, research.NetworkEdge{From: p, To: c, Weight: 1})
			contains = append(contains, edgeParam(p, c, 1))
		}
	}
	for _, t := range req.Targets {
		targets[t] = true
		g.Nodes = append(g.Nodes, research.NetworkNode{ID: t, Kind: research.NodeTarget})
	}
	for _, h := range s.ref.Hits {
		if compounds[h.Compound] && targets[h.Target] && h.Probability >= req.Threshold {
			g.Edges = append(g.Edges, research.NetworkEdge{From: h.Compound, To: h.Target, Weight: h.Probability})
			binds = append(binds, edgeParam(h.Compound, h.Target, h.Probability))
		}
	}
	g.Pathways = append([]research.PathwayEnrichment(nil), s.ref.Pathways...)
	sort.SliceStable(g.Pathways, func(i, j int) bool { return g.Pathways[i].PValue < g.Pathways[j].PValue })
	return g, contains, binds
}

func edgeParam(from, to string, weight float64) map[string]any {
	return map[string]any{"from": from, "to": to, "weight": weight}
}

func (s *NetworkService) hubFromRecord(compounds int) func(*neo4j.Record) (research.HubTarget, error) {
	pathways := make(map[string][]string, len(s.ref.Hubs))
	for _, h := range s.ref.Hubs {
		pathways[h.Target] = h.Pathways
	}
	return func(rec *neo4j.Record) (research.HubTarget, error) {
		name, _ := rec.Get("target")
		degree, _ := rec.Get("degree")
		target, ok := name.(string)
		if !ok {
			return research.HubTarget{}, fmt.Errorf("hub record: target is %T", name)
		}
		n, ok := degree.(int64)
		if !ok {
			return research.HubTarget{}, fmt.Errorf("hub record: degree is %T", degree)
		}
		h := research.HubTarget{
			Target:   target,
			Degree:   int(n),
			Pathways: append([]string(nil), pathways[target]...),
		}
		if compounds > 0 {
			h.Betweenness = float64(n) / float64(compounds)
		}
		return h, nil
	}
}
