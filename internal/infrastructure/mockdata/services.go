package mockdata

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/turtacn/ayush-docknet/internal/domain/research"
	apperrors "github.com/turtacn/ayush-docknet/pkg/errors"
)

var (
	_ research.PhytochemicalDatabase  = (*Backend)(nil)
	_ research.DescriptorCalculator   = (*Backend)(nil)
	_ research.ToxicophoreAdvisor     = (*Backend)(nil)
	_ research.PredictionService      = (*Backend)(nil)
	_ research.DockingService         = (*Backend)(nil)
	_ research.NetworkAnalysisService = (*Backend)(nil)
)

// errInjected marks a failure configured with WithUnavailable.
var errInjected = errors.New("mock backend offline")

// Backend serves the catalogs through every collaborator contract.  Each
// call waits for the configured latency first.
type Backend struct {
	mu          sync.RWMutex
	latency     time.Duration
	unavailable map[string]bool
}

// Option configures a Backend.
type Option func(*Backend)

// WithLatency sets the artificial delay before each result.
func WithLatency(d time.Duration) Option {
	return func(b *Backend) { b.latency = d }
}

// WithUnavailable makes the named services fail with ServiceUnavailable.
func WithUnavailable(services ...string) Option {
	return func(b *Backend) {
		for _, s := range services {
			b.unavailable[s] = true
		}
	}
}

// NewBackend returns a Backend with no latency unless configured.
func NewBackend(opts ...Option) *Backend {
	b := &Backend{unavailable: make(map[string]bool)}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// SetLatency changes the delay at runtime, e.g. on config reload.
func (b *Backend) SetLatency(d time.Duration) {
	b.mu.Lock()
	b.latency = d
	b.mu.Unlock()
}

// Collaborators binds b to every service slot except the exporter.
func (b *Backend) Collaborators() research.Collaborators {
	return research.Collaborators{
		Phytochemicals: b,
		Descriptors:    b,
		Toxicophore:    b,
		Prediction:     b,
		Docking:        b,
		Network:        b,
	}
}

func (b *Backend) wait(ctx context.Context, service string) error {
	b.mu.RLock()
	d, down := b.latency, b.unavailable[service]
	b.mu.RUnlock()

	if down {
		return apperrors.ServiceUnavailable(service, errInjected)
	}
	if d <= 0 {
		if err := ctx.Err(); err != nil {
			return apperrors.ServiceUnavailable(service, err)
		}
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return apperrors.ServiceUnavailable(service, ctx.Err())
	case <-t.C:
		return nil
	}
}

// Lookup returns the phytochemical catalog for any plant.
func (b *Backend) Lookup(ctx context.Context, plantName, plantPart string, databases research.DatabaseFlags) ([]research.Compound, error) {
	if strings.TrimSpace(plantName) == "" {
		return nil, apperrors.Validation("plantName", "plant name is required")
	}
	if !databases.Any() {
		return nil, apperrors.Validation("databases", "select at least one database")
	}
	if err := b.wait(ctx, research.ServicePhytochemicals); err != nil {
		return nil, err
	}
	return Phytochemicals(), nil
}

// Compute returns catalog descriptors for the compounds it knows by name and
// the whole descriptor table when it knows none of them.
func (b *Backend) Compute(ctx context.Context, compounds []research.Compound) ([]research.Descriptor, error) {
	if err := b.wait(ctx, research.ServiceDescriptors); err != nil {
		return nil, err
	}
	names := make(map[string]bool, len(compounds))
	for _, c := range compounds {
		names[c.Name] = true
	}
	return filterOrAll(descriptors, func(d research.Descriptor) bool { return names[d.Name] }), nil
}

// Variants returns the candidates for the given compound ids, or all of them
// when ids is empty.
func (b *Backend) Variants(ctx context.Context, compoundIDs []string) ([]research.ToxicCandidate, error) {
	if err := b.wait(ctx, research.ServiceToxicophore); err != nil {
		return nil, err
	}
	ids := set(compoundIDs)
	out := make([]research.ToxicCandidate, 0, len(toxicCandidates))
	for _, c := range toxicCandidates {
		if len(ids) == 0 || ids[c.CompoundID] {
			c.Variants = append([]research.StructuralVariant(nil), c.Variants...)
			out = append(out, c)
		}
	}
	return out, nil
}

// RunAdmet returns the ADMET profiles of the known compounds among ids.
func (b *Backend) RunAdmet(ctx context.Context, compoundIDs []string) ([]research.AdmetResult, error) {
	if err := b.wait(ctx, research.ServiceAdmet); err != nil {
		return nil, err
	}
	ids := set(compoundIDs)
	return filterOrAll(admetResults, func(r research.AdmetResult) bool { return ids[r.CompoundID] }), nil
}

// RunTargetPrediction returns the hits of the known compounds among ids.
func (b *Backend) RunTargetPrediction(ctx context.Context, compoundIDs []string) ([]research.TargetHit, error) {
	if err := b.wait(ctx, research.ServiceTargets); err != nil {
		return nil, err
	}
	names := make(map[string]bool, len(compoundIDs))
	for _, id := range compoundIDs {
		if n, ok := compoundName(id); ok {
			names[n] = true
		}
	}
	return filterOrAll(targetHits, func(h research.TargetHit) bool { return names[h.Compound] }), nil
}

// Run returns the docking results matching the requested grid.
func (b *Backend) Run(ctx context.Context, compoundIDs, targetIDs, engineIDs []string) ([]research.DockingResult, error) {
	if len(compoundIDs) == 0 || len(targetIDs) == 0 || len(engineIDs) == 0 {
		return nil, apperrors.Validation("docking", "compounds, targets and engines are all required")
	}
	if err := b.wait(ctx, research.ServiceDocking); err != nil {
		return nil, err
	}
	compounds := map[string]bool{}
	for _, id := range compoundIDs {
		if n, ok := compoundName(id); ok {
			compounds[n] = true
		}
	}
	targets := set(targetIDs)
	engineNames := map[string]bool{}
	for _, id := range engineIDs {
		engineNames[strings.ToUpper(id)] = true
	}
	return filterOrAll(dockingResults, func(r research.DockingResult) bool {
		return compounds[r.Compound] && targets[r.Target] && engineNames[r.Engine]
	}), nil
}

// Build assembles a plant-compound-target graph from the target hits that
// clear req.Threshold.
func (b *Backend) Build(ctx context.Context, req research.NetworkRequest) (research.NetworkGraph, error) {
	if err := b.wait(ctx, research.ServiceNetwork); err != nil {
		return research.NetworkGraph{}, err
	}
	return BuildGraph(req, targetHits), nil
}

// BuildGraph links every plant to every compound with weight 1 and every
// compound to each hit target at or above the threshold, weighted by
// probability.  Hubs are restricted to the requested targets.
func BuildGraph(req research.NetworkRequest, hits []research.TargetHit) research.NetworkGraph {
	var g research.NetworkGraph
	compounds := set(req.Compounds)
	targets := set(req.Targets)

	for _, p := range req.Plants {
		g.Nodes = append(g.Nodes, research.NetworkNode{ID: p, Kind: research.NodePlant})
	}
	for _, c := range req.Compounds {
		g.Nodes = append(g.Nodes, research.NetworkNode{ID: c, Kind: research.NodeCompound})
		for _, p := range req.Plants {
			g.Edges = append(g.Edges, research.NetworkEdge{From: p, To: c, Weight: 1})
		}
	}
	for _, t := range req.Targets {
		g.Nodes = append(g.Nodes, research.NetworkNode{ID: t, Kind: research.NodeTarget})
	}
	for _, h := range hits {
		if compounds[h.Compound] && targets[h.Target] && h.Probability >= req.Threshold {
			g.Edges = append(g.Edges, research.NetworkEdge{From: h.Compound, To: h.Target, Weight: h.Probability})
		}
	}
	for _, h := range hubs {
		if targets[h.Target] {
			h.Pathways = append([]string(nil), h.Pathways...)
			g.Hubs = append(g.Hubs, h)
		}
	}
	g.Pathways = Pathways()
	return g
}

func compoundName(id string) (string, bool) {
	for _, c := range phytochemicals {
		if c.ID == id {
			return c.Name, true
		}
	}
	for _, d := range descriptors {
		if d.CompoundID == id {
			return d.Name, true
		}
	}
	return "", false
}

func set(ids []string) map[string]bool {
	m := make(map[string]bool, len(ids))
	for _, id := range ids {
		m[id] = true
	}
	return m
}

// filterOrAll keeps the items matching keep, or returns a copy of all of
// them when nothing matches.
func filterOrAll[T any](items []T, keep func(T) bool) []T {
	var out []T
	for _, it := range items {
		if keep(it) {
			out = append(out, it)
		}
	}
	if len(out) == 0 {
		return append([]T(nil), items...)
	}
	return out
}
