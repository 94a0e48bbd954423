// Package run implements the run command, executing the download and
// analysis phases back to back.
package run

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	cmdcommon "github.com/jonesrussell/ppicrawl/cmd/common"
)

// Command returns the run command for use in the root command.
func Command() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Download new reports, then analyze everything pending",
		Long: `Execute the full pipeline: first walk the report listing and
download new images, then analyze every stored image that has no
results yet. Both phases share one run summary.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := cmdcommon.NewCommandDeps()
			if err != nil {
				return fmt.Errorf("failed to initialize dependencies: %w", err)
			}

			runErr := Pipeline(cmd.Context(), deps)
			deps.RenderSummary()
			return runErr
		},
	}
}

// Pipeline runs the scrape phase followed by the analysis phase. A
// scrape failure does not block analysis of what is already on disk.
func Pipeline(ctx context.Context, deps *cmdcommon.CommandDeps) error {
	s, err := deps.NewScraper()
	if err != nil {
		return err
	}
	scrapeErr := s.Run(ctx)
	if scrapeErr != nil {
		deps.Logger.Error("scrape phase failed", "error", scrapeErr)
	}

	a, err := deps.NewAnalyzer()
	if err != nil {
		return err
	}
	if err := a.Run(ctx); err != nil {
		return err
	}
	return scrapeErr
}
