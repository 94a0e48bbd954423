// Package schedule implements the schedule command, running the full
// pipeline on a cron expression until interrupted.
package schedule

import (
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	cmdcommon "github.com/jonesrussell/ppicrawl/cmd/common"
	cmdrun "github.com/jonesrussell/ppicrawl/cmd/run"
)

// Command returns the schedule command for use in the root command.
func Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Run the pipeline on a cron schedule",
		Long: `Start a scheduler that runs the full download and analysis
pipeline on the configured cron expression. The scheduler runs
continuously until interrupted with Ctrl+C.`,
		RunE: runSchedule,
	}

	cmd.Flags().String("cron", "30 9 * * 1-5", "cron expression for pipeline runs")
	if err := viper.BindPFlag("schedule.cron", cmd.Flags().Lookup("cron")); err != nil {
		panic(fmt.Sprintf("failed to bind cron flag: %v", err))
	}

	return cmd
}

func runSchedule(cmd *cobra.Command, _ []string) error {
	deps, err := cmdcommon.NewCommandDeps()
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}

	expr := viper.GetString("schedule.cron")
	scheduler := cron.New()

	_, err = scheduler.AddFunc(expr, func() {
		// Each run gets fresh dependencies: the dedup index is rebuilt
		// from disk and the summary starts at zero.
		runDeps, depsErr := cmdcommon.NewCommandDeps()
		if depsErr != nil {
			deps.Logger.Error("failed to initialize scheduled run", "error", depsErr)
			return
		}
		if pipeErr := cmdrun.Pipeline(cmd.Context(), runDeps); pipeErr != nil {
			runDeps.Logger.Error("scheduled run failed", "error", pipeErr)
		}
		runDeps.RenderSummary()
	})
	if err != nil {
		return fmt.Errorf("invalid cron expression %q: %w", expr, err)
	}

	deps.Logger.Info("scheduler started", "cron", expr)
	scheduler.Start()

	<-cmd.Context().Done()
	deps.Logger.Info("shutdown signal received")

	// Stop scheduling and wait for an in-flight run to finish.
	<-scheduler.Stop().Done()
	deps.Logger.Info("scheduler stopped")
	return nil
}
