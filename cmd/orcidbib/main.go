// Package main provides the orcidbib CLI entry point.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/matsen/orcidbib/internal/config"
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

var (
	// humanOutput controls whether to use human-readable output
	humanOutput bool
	verbose     bool
	configPath  string
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		// SilenceErrors is set, so cobra errors (bad flags etc.) are printed here
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "orcidbib",
	Short: "Keep a site bibliography in sync with ORCID",
	Long: `orcidbib builds a BibTeX bibliography from an ORCID record.

It lists the researcher's works on ORCID, resolves each DOI to BibTeX through
doi.org, repairs encoding damage into LaTeX escapes, and writes a consolidated
references.bib plus one .bib file per publication. The consolidated file acts
as a 24 hour cache.

After the site is rendered, 'orcidbib postprocess' bolds the author's surname
in the publications page and copies the .bib files next to it.

Commands print JSON to stdout by default; use --human for text.
Progress is logged to stderr.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Load .env file if present (for ORCIDBIB_* overrides)
	_ = godotenv.Load()

	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug detail")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultFile, "Path to config file")
	rootCmd.Version = Version
}

// newLogger builds the stderr logger shared by the pipelines.
func newLogger() *log.Logger {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		Level:           level,
		ReportTimestamp: true,
	})
}

// mustLoadConfig loads the config file and environment overrides, exits on error.
func mustLoadConfig() *config.Config {
	cfg, err := config.Load(configPath)
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}
	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	if err := cfg.Validate(); err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	return cfg
}
