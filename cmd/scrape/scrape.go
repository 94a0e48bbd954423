// Package scrape implements the scrape command for downloading report
// images from the paginated listing.
package scrape

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	cmdcommon "github.com/jonesrussell/ppicrawl/cmd/common"
	"github.com/jonesrussell/ppicrawl/internal/config"
)

// Command returns the scrape command for use in the root command.
func Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Download new report images",
		Long: `Walk the report listing page by page and download every image
not yet present in the output directory. Already downloaded reports
are skipped without touching the site.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := cmdcommon.NewCommandDeps()
			if err != nil {
				return fmt.Errorf("failed to initialize dependencies: %w", err)
			}

			s, err := deps.NewScraper()
			if err != nil {
				return err
			}

			runErr := s.Run(cmd.Context())
			deps.RenderSummary()
			return runErr
		},
	}

	// Flag defaults mirror the viper defaults: a bound flag's default
	// wins over viper.SetDefault even when the flag is not passed.
	cmd.Flags().Int("max-pages", config.DefaultMaxPages, "number of listing pages to visit")
	cmd.Flags().String("output-dir", "imagens", "directory for downloaded images")
	bind(cmd, "scraper.max_pages", "max-pages")
	bind(cmd, "scraper.output_dir", "output-dir")

	return cmd
}

func bind(cmd *cobra.Command, key, flag string) {
	if err := viper.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
		panic(fmt.Sprintf("failed to bind %s flag: %v", flag, err))
	}
}
