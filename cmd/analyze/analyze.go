// Package analyze implements the analyze command for extracting price
// values from downloaded report images.
package analyze

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	cmdcommon "github.com/jonesrussell/ppicrawl/cmd/common"
)

// Command returns the analyze command for use in the root command.
func Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Extract values from downloaded report images",
		Long: `Run the table detector over every downloaded report image that
has not been analyzed yet and write the located price values into the
consolidated CSV. Individual failures are recorded, never fatal.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := cmdcommon.NewCommandDeps()
			if err != nil {
				return fmt.Errorf("failed to initialize dependencies: %w", err)
			}

			a, err := deps.NewAnalyzer()
			if err != nil {
				return err
			}

			runErr := a.Run(cmd.Context())
			deps.RenderSummary()
			return runErr
		},
	}

	// Flag defaults mirror the viper defaults: a bound flag's default
	// wins over viper.SetDefault even when the flag is not passed.
	cmd.Flags().Int("workers", 0, "analysis pool size (0 = number of CPU cores)")
	cmd.Flags().Bool("force", false, "re-analyze images that already have results")
	cmd.Flags().String("data-dir", "dados", "directory for CSV output")
	bind(cmd, "analysis.workers", "workers")
	bind(cmd, "analysis.force", "force")
	bind(cmd, "analysis.data_dir", "data-dir")

	return cmd
}

func bind(cmd *cobra.Command, key, flag string) {
	if err := viper.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
		panic(fmt.Sprintf("failed to bind %s flag: %v", flag, err))
	}
}
