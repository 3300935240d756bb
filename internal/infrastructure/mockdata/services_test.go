package mockdata

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/ayush-docknet/internal/domain/project"
	"github.com/turtacn/ayush-docknet/internal/domain/research"
	"github.com/turtacn/ayush-docknet/pkg/errors"
)

func TestBackend_Lookup(t *testing.T) {
	b := NewBackend()
	got, err := b.Lookup(context.Background(), "Curcuma longa", "Rhizome", DefaultDatabases())
	require.NoError(t, err)
	assert.Len(t, got, 8)
	assert.Equal(t, "Curcumin", got[0].Name)

	_, err = b.Lookup(context.Background(), "Curcuma longa", "Rhizome", research.DatabaseFlags{})
	assert.True(t, errors.IsValidation(err))
	_, err = b.Lookup(context.Background(), " ", "Rhizome", DefaultDatabases())
	assert.True(t, errors.IsValidation(err))
}

func TestBackend_LatencyHonoursContext(t *testing.T) {
	b := NewBackend(WithLatency(time.Hour))
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := b.RunAdmet(ctx, []string{"1"})
	require.Error(t, err)
	assert.True(t, errors.IsServiceUnavailable(err))
	assert.Less(t, time.Since(start), time.Minute)
}

func TestBackend_CancelledContextWithoutLatency(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewBackend().RunTargetPrediction(ctx, nil)
	assert.True(t, errors.IsServiceUnavailable(err))
}

func TestBackend_WithUnavailable(t *testing.T) {
	b := NewBackend(WithUnavailable(research.ServiceDocking))
	_, err := b.Run(context.Background(), []string{"1"}, []string{"COX-2"}, []string{"placer"})
	require.Error(t, err)
	assert.True(t, errors.IsServiceUnavailable(err))
	assert.Contains(t, err.Error(), research.ServiceDocking)

	_, err = b.RunAdmet(context.Background(), nil)
	assert.NoError(t, err)
}

func TestBackend_Compute(t *testing.T) {
	b := NewBackend()
	got, err := b.Compute(context.Background(), []research.Compound{{Name: "Curcumin"}, {Name: "Turmerone"}})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.True(t, project.NewDescriptorData(got).HasToxic())

	all, err := b.Compute(context.Background(), SampleUpload())
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestBackend_Variants(t *testing.T) {
	b := NewBackend()
	got, err := b.Variants(context.Background(), []string{"9"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Nitro group", got[0].ToxicGroup)
	_, ok := got[0].Variant("v2")
	assert.True(t, ok)

	all, _ := b.Variants(context.Background(), nil)
	assert.Len(t, all, 2)
}

func TestBackend_RunTargetPrediction(t *testing.T) {
	got, err := NewBackend().RunTargetPrediction(context.Background(), []string{"2"})
	require.NoError(t, err)
	require.Len(t, got, 3)
	for _, h := range got {
		assert.Equal(t, "Demethoxycurcumin", h.Compound)
	}
}

func TestBackend_RunDocking(t *testing.T) {
	setup := DefaultDockingSetup()
	got, err := NewBackend().Run(context.Background(), setup.Compounds, setup.Targets, setup.Engines)
	require.NoError(t, err)
	assert.Len(t, got, setup.JobCount())

	one, err := NewBackend().Run(context.Background(), []string{"1"}, []string{"COX-2"}, []string{"placer"})
	require.NoError(t, err)
	require.Len(t, one, 1)
	assert.Equal(t, -9.2, one[0].Score)

	_, err = NewBackend().Run(context.Background(), nil, []string{"COX-2"}, []string{"placer"})
	assert.True(t, errors.IsValidation(err))
}

func TestBuildGraph(t *testing.T) {
	req := DefaultNetworkSetup().Request()
	g := BuildGraph(req, TargetHits())

	// 1 plant + 2 compounds + 3 targets
	assert.Len(t, g.Nodes, 6)
	// 2 plant edges + Curcumin→{COX-2,NF-κB,TNF-α} + Demethoxycurcumin→{COX-2,NF-κB}
	assert.Len(t, g.Edges, 7)
	assert.Len(t, g.Hubs, 3)
	assert.Len(t, g.Pathways, 5)

	req.Threshold = 0.9
	assert.Len(t, BuildGraph(req, TargetHits()).Edges, 3)
}

func TestSeedProjects_AreValid(t *testing.T) {
	s := project.NewStore()
	seeded, err := s.Seed(SeedProjects()...)
	require.NoError(t, err)
	require.Len(t, seeded, 2)
	assert.Equal(t, 7, seeded[0].CurrentStep)
	assert.Equal(t, project.StatusCompleted, seeded[1].Status)
}

func TestSampleUpload(t *testing.T) {
	up := SampleUpload()
	require.Len(t, up, 5)
	assert.Equal(t, "Compound 1", up[0].Name)
	assert.Equal(t, "CC(=O)Oc1ccccc1C(=O)O", up[1].SMILES)
}
