// Package cmd implements the command-line interface for ppicrawl.
// It provides the root command and subcommands for downloading and
// analyzing fuel price report images.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jonesrussell/ppicrawl/cmd/analyze"
	cmdrun "github.com/jonesrussell/ppicrawl/cmd/run"
	"github.com/jonesrussell/ppicrawl/cmd/schedule"
	"github.com/jonesrussell/ppicrawl/cmd/scrape"
	"github.com/jonesrussell/ppicrawl/internal/config"
)

var (
	// cfgFile holds the path to the configuration file.
	cfgFile string

	// Debug enables debug mode for all commands.
	Debug bool

	// rootCmd represents the root command for the ppicrawl CLI.
	rootCmd = &cobra.Command{
		Use:   "ppicrawl",
		Short: "Download and analyze PPI fuel price reports",
		Long: `ppicrawl walks the Abicom PPI report listing, downloads each
report image exactly once and extracts the configured price values
from the detected tables into consolidated CSV output.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
)

// Execute runs the root command.
func Execute() error {
	// Load .env file early so environment variables are available
	_ = godotenv.Load()

	// Parse flags early to get the debug flag before creating the logger
	_ = rootCmd.ParseFlags(os.Args[1:])

	if err := initConfig(); err != nil {
		return fmt.Errorf("failed to initialize configuration: %w", err)
	}

	// Interrupts cancel the command context; every phase honors it.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return rootCmd.ExecuteContext(ctx)
}

// init initializes the root command and its subcommands.
func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"",
		"config file (default is ./config.yaml or ./config/config.yaml)",
	)
	rootCmd.PersistentFlags().BoolVar(&Debug, "debug", false, "enable debug mode")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("ppicrawl version %s\n", viper.GetString("app.version"))
		},
	})

	rootCmd.AddCommand(scrape.Command())
	rootCmd.AddCommand(analyze.Command())
	rootCmd.AddCommand(cmdrun.Command())
	rootCmd.AddCommand(schedule.Command())
}

// initConfig reads in the config file and environment variables if set.
func initConfig() error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("./config")
	}

	// Environment variables take precedence over defaults.
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults()

	// The config file is optional: defaults plus environment variables
	// are enough to run against the production site.
	if err := viper.ReadInConfig(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: config file not found: %v (using defaults)\n", err)
	}

	if err := bindCommandLineFlags(); err != nil {
		return err
	}
	if err := bindAppEnvVars(); err != nil {
		return err
	}

	setupDevelopmentLogging()

	return nil
}

// bindCommandLineFlags binds command-line flags to Viper.
func bindCommandLineFlags() error {
	if err := viper.BindPFlag("app.debug", rootCmd.PersistentFlags().Lookup("debug")); err != nil {
		return fmt.Errorf("failed to bind debug flag: %w", err)
	}
	return nil
}

// bindAppEnvVars binds application and logger environment variables to
// config keys.
func bindAppEnvVars() error {
	if err := viper.BindEnv("app.environment", "APP_ENV"); err != nil {
		return fmt.Errorf("failed to bind APP_ENV: %w", err)
	}
	if err := viper.BindEnv("app.debug", "APP_DEBUG"); err != nil {
		return fmt.Errorf("failed to bind APP_DEBUG: %w", err)
	}
	if err := viper.BindEnv("logger.level", "LOG_LEVEL"); err != nil {
		return fmt.Errorf("failed to bind LOG_LEVEL: %w", err)
	}
	if err := viper.BindEnv("logger.encoding", "LOG_FORMAT"); err != nil {
		return fmt.Errorf("failed to bind LOG_FORMAT: %w", err)
	}
	if err := viper.BindEnv("scraper.base_url", "PPI_BASE_URL"); err != nil {
		return fmt.Errorf("failed to bind PPI_BASE_URL: %w", err)
	}
	if err := viper.BindEnv("scraper.output_dir", "PPI_OUTPUT_DIR"); err != nil {
		return fmt.Errorf("failed to bind PPI_OUTPUT_DIR: %w", err)
	}
	if err := viper.BindEnv("analysis.data_dir", "PPI_DATA_DIR"); err != nil {
		return fmt.Errorf("failed to bind PPI_DATA_DIR: %w", err)
	}
	return nil
}

// setupDevelopmentLogging configures development logging based on the
// environment and debug flag.
func setupDevelopmentLogging() {
	debugFlag := Debug || viper.GetBool("app.debug")
	isDev := viper.GetString("app.environment") == "development"

	if debugFlag {
		viper.Set("logger.level", "debug")
	}
	if isDev {
		viper.Set("logger.development", true)
		viper.Set("logger.encoding", "console")
	}

	Debug = debugFlag
}

// setDefaults sets default configuration values.
func setDefaults() {
	// App defaults - production safe
	viper.SetDefault("app", map[string]any{
		"name":        "ppicrawl",
		"version":     "1.0.0",
		"environment": "production",
		"debug":       false,
	})

	// Logger defaults - production safe
	viper.SetDefault("logger", map[string]any{
		"level":       "info",
		"development": false,
		"encoding":    "json",
	})

	// Scraper defaults match the production report site.
	viper.SetDefault("scraper", map[string]any{
		"base_url":            config.DefaultBaseURL,
		"start_page":          1,
		"max_pages":           config.DefaultMaxPages,
		"output_dir":          "imagens",
		"user_agent":          config.DefaultUserAgent,
		"request_timeout":     "30s",
		"download_timeout":    "60s",
		"retry_count":         config.DefaultRetryCount,
		"retry_wait":          "2s",
		"retry_max_wait":      "10s",
		"delay_between_posts": "1s",
		"delay_between_pages": "2s",
		"image_extensions":    config.DefaultImageExtensions(),
		"icon_patterns":       config.DefaultIconPatterns(),
		"min_image_area":      config.DefaultMinImageArea,
	})

	// Analysis defaults
	viper.SetDefault("analysis", map[string]any{
		"workers":          0,
		"force":            false,
		"data_dir":         "dados",
		"detector_command": []string{"ppi-detect"},
		"max_dimension":    config.DefaultMaxDimension,
		"header_row":       config.DefaultHeaderRow,
		"fuel_column":      config.DefaultFuelColumn,
		"metric_column":    config.DefaultMetricColumn,
		"fuzzy_distance":   config.DefaultFuzzyDistance,
	})

	// Schedule defaults: weekdays at 09:30, reports publish mornings.
	viper.SetDefault("schedule", map[string]any{
		"cron": "30 9 * * 1-5",
	})
}
