package analysis

import (
	"context"
	"fmt"
	"strings"

	"github.com/jonesrussell/ppicrawl/internal/config"
	"github.com/jonesrussell/ppicrawl/internal/logger"
	"github.com/jonesrussell/ppicrawl/internal/metrics"
	"github.com/jonesrussell/ppicrawl/internal/store"
)

// Analyzer runs the analysis phase: it lists stored artifacts, skips
// the ones already analyzed, fans the rest out to the worker pool and
// aggregates the results.
type Analyzer struct {
	cfg        config.AnalysisConfig
	targets    []config.Target
	store      *store.Store
	extractor  *Extractor
	locator    *Locator
	aggregator *Aggregator
	dispatcher *Dispatcher
	summary    *metrics.Summary
	logger     logger.Interface
}

// New creates an analyzer wired to the given detector and store.
func New(
	cfg config.AnalysisConfig,
	targets []config.Target,
	st *store.Store,
	detector TableDetector,
	summary *metrics.Summary,
	log logger.Interface,
) *Analyzer {
	return &Analyzer{
		cfg:        cfg,
		targets:    targets,
		store:      st,
		extractor:  NewExtractor(detector, cfg, log),
		locator:    NewLocator(cfg),
		aggregator: NewAggregator(cfg.DataDir, targets),
		dispatcher: NewDispatcher(cfg.Workers, log),
		summary:    summary,
		logger:     log.WithComponent("analyzer"),
	}
}

// Run analyzes all pending artifacts and writes the outputs. An
// individual artifact failure is recorded and never aborts the run.
func (a *Analyzer) Run(ctx context.Context) error {
	artifacts, err := a.store.List()
	if err != nil {
		return fmt.Errorf("failed to list artifacts: %w", err)
	}

	pending := a.pending(artifacts)
	a.logger.Info("starting analysis",
		"artifacts", len(artifacts),
		"pending", len(pending),
		"workers", a.cfg.Workers)
	if len(pending) == 0 {
		return nil
	}

	results := a.dispatcher.Run(ctx, pending, a.analyzeOne)
	for i := range results {
		a.collect(&results[i])
	}

	path, err := a.aggregator.WriteConsolidated(results)
	if err != nil {
		return fmt.Errorf("failed to write consolidated output: %w", err)
	}
	a.logger.Info("analysis finished", "output", path, "analyzed", len(results))
	return ctx.Err()
}

// pending filters out artifacts that already have a table dump,
// unless a forced re-analysis was requested.
func (a *Analyzer) pending(artifacts []store.Artifact) []store.Artifact {
	if a.cfg.Force {
		return artifacts
	}
	pending := make([]store.Artifact, 0, len(artifacts))
	for _, artifact := range artifacts {
		if a.aggregator.HasTableCSV(artifact.MonthDir(), artifact.ID) {
			a.logger.Debug("already analyzed, skipping", "artifact", artifact.ID)
			continue
		}
		pending = append(pending, artifact)
	}
	return pending
}

// analyzeOne is the worker task for a single artifact.
func (a *Analyzer) analyzeOne(ctx context.Context, artifact store.Artifact) Result {
	result := Result{
		ArtifactID: artifact.ID,
		SourcePath: artifact.Path,
		MonthDir:   artifact.MonthDir(),
	}

	meta, err := ReadMetadata(artifact.Path)
	result.Metadata = meta
	if err != nil {
		a.logger.Warn("metadata read incomplete", "artifact", artifact.ID, "error", err)
	}

	grid, err := a.extractor.Extract(ctx, artifact.Path)
	if err != nil {
		result.Err = err.Error()
		return result
	}
	result.Grid = grid
	result.Values = a.locator.Extract(grid, a.targets)
	return result
}

// collect updates the summary and writes the per-artifact table dump.
func (a *Analyzer) collect(r *Result) {
	if !r.OK() {
		a.summary.AddAnalysisFailed()
		a.logger.Warn("analysis failed", "artifact", r.ArtifactID, "error", r.Err)
		return
	}

	a.summary.AddAnalysisSucceeded()
	if err := a.aggregator.WriteTableCSV(r); err != nil {
		a.logger.Error("failed to write table dump", "artifact", r.ArtifactID, "error", err)
	}

	missing := 0
	var names []string
	for _, t := range a.targets {
		if v, ok := r.Values[t.Name]; !ok || !v.Found {
			missing++
			names = append(names, t.Name)
		}
	}
	if missing > 0 {
		a.summary.AddValuesNotFound(missing)
		a.logger.Info("values not found",
			"artifact", r.ArtifactID, "targets", strings.Join(names, ","))
	}
}
