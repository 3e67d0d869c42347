package main

import (
	"time"

	"github.com/matsen/orcidbib/internal/cache"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(statusCmd)
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether the cached bibliography is fresh",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

// StatusResult is the response for the status command.
type StatusResult struct {
	cache.State
	ORCIDID string `json:"orcid_id"`
	Window  string `json:"window"`
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	state := cache.Status(cfg.BibFile, cfg.CacheWindow(), time.Now())

	if humanOutput {
		switch {
		case !state.Exists:
			outputHuman("%s does not exist; next fetch will download\n", state.Path)
		case state.Fresh:
			outputHuman("%s is fresh (age %s, expires %s)\n",
				state.Path, formatAge(state.Age), state.ExpiresAt.Local().Format(time.RFC3339))
		default:
			outputHuman("%s is stale (age %s); next fetch will download\n", state.Path, formatAge(state.Age))
		}
		return nil
	}

	return outputJSON(StatusResult{
		State:   state,
		ORCIDID: cfg.ORCIDID,
		Window:  cfg.CacheWindow().String(),
	})
}
