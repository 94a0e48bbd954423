// Package common provides shared dependency construction for the CLI
// commands.
package common

import (
	"fmt"
	"os"

	"github.com/jonesrussell/ppicrawl/internal/analysis"
	"github.com/jonesrussell/ppicrawl/internal/config"
	"github.com/jonesrussell/ppicrawl/internal/logger"
	"github.com/jonesrussell/ppicrawl/internal/metrics"
	"github.com/jonesrussell/ppicrawl/internal/scraper"
	"github.com/jonesrussell/ppicrawl/internal/store"
)

// CommandDeps holds the dependencies every command starts from.
type CommandDeps struct {
	Config  *config.Config
	Logger  logger.Interface
	Summary *metrics.Summary
}

// NewCommandDeps loads the configuration and builds the logger and a
// fresh run summary.
func NewCommandDeps() (*CommandDeps, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.New(&cfg.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	return &CommandDeps{
		Config:  cfg,
		Logger:  log,
		Summary: metrics.NewSummary(),
	}, nil
}

// NewScraper builds the download phase: the store is opened, the
// dedup index rebuilt from disk and the HTTP client configured.
func (d *CommandDeps) NewScraper() (*scraper.Scraper, error) {
	st, err := store.New(d.Config.Scraper.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open artifact store: %w", err)
	}
	index, err := st.Scan()
	if err != nil {
		return nil, fmt.Errorf("failed to rebuild dedup index: %w", err)
	}

	client := scraper.NewClient(d.Config.Scraper)
	return scraper.New(d.Config.Scraper, client, st, index, d.Summary, d.Logger), nil
}

// NewAnalyzer builds the analysis phase around the configured external
// table detector.
func (d *CommandDeps) NewAnalyzer() (*analysis.Analyzer, error) {
	st, err := store.New(d.Config.Scraper.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open artifact store: %w", err)
	}

	detector := analysis.NewCommandDetector(d.Config.Analysis.DetectorCommand, d.Logger)
	return analysis.New(
		d.Config.Analysis,
		d.Config.Targets,
		st,
		detector,
		d.Summary,
		d.Logger,
	), nil
}

// RenderSummary finalizes the run summary and prints it.
func (d *CommandDeps) RenderSummary() {
	d.Summary.Finalize()
	d.Summary.Render(os.Stdout)
}
