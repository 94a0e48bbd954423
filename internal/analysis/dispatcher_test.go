package analysis_test

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/ppicrawl/internal/analysis"
	"github.com/jonesrussell/ppicrawl/internal/logger"
	"github.com/jonesrussell/ppicrawl/internal/store"
)

func testArtifacts(n int) []store.Artifact {
	artifacts := make([]store.Artifact, 0, n)
	for i := 0; i < n; i++ {
		artifacts = append(artifacts, store.Artifact{
			ID: string(rune('a' + i)),
		})
	}
	return artifacts
}

func TestDispatcher_ProcessesEveryArtifactOnce(t *testing.T) {
	t.Parallel()

	var calls atomic.Int64
	d := analysis.NewDispatcher(4, logger.NewNoOp())

	results := d.Run(context.Background(), testArtifacts(20),
		func(_ context.Context, a store.Artifact) analysis.Result {
			calls.Add(1)
			return analysis.Result{ArtifactID: a.ID}
		})

	require.Len(t, results, 20)
	require.EqualValues(t, 20, calls.Load())

	seen := map[string]bool{}
	for _, r := range results {
		require.False(t, seen[r.ArtifactID], "artifact %s analyzed twice", r.ArtifactID)
		seen[r.ArtifactID] = true
	}
}

func TestDispatcher_CancellationStopsSubmission(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	d := analysis.NewDispatcher(2, logger.NewNoOp())
	results := d.Run(ctx, testArtifacts(10),
		func(_ context.Context, a store.Artifact) analysis.Result {
			return analysis.Result{ArtifactID: a.ID}
		})

	require.Empty(t, results)
}

func TestDispatcher_DefaultsWorkerCount(t *testing.T) {
	t.Parallel()

	d := analysis.NewDispatcher(0, logger.NewNoOp())
	results := d.Run(context.Background(), testArtifacts(3),
		func(_ context.Context, a store.Artifact) analysis.Result {
			return analysis.Result{ArtifactID: a.ID}
		})
	require.Len(t, results, 3)
}
