package main

import (
	"os"

	"github.com/matsen/orcidbib/internal/reference"
	"github.com/matsen/orcidbib/internal/storage"
	"github.com/spf13/cobra"
)

var (
	listSince int
	listLimit int
	listDOI   string
)

func init() {
	listCmd.Flags().IntVar(&listSince, "since", 0, "Only publications from this year on")
	listCmd.Flags().IntVar(&listLimit, "limit", 0, "Maximum number of results (0 = all)")
	listCmd.Flags().StringVar(&listDOI, "doi", "", "Show only the entry for this DOI")
	rootCmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List publications from the last refresh",
	Long: `List publications recorded by the last refresh, newest first.

Reads the JSONL manifest written by 'orcidbib fetch' into a throwaway SQLite
database under cache_dir and queries it. Publications without a year sort last
and are excluded by --since. With --doi, only that publication is shown and
the command exits 1 if the last refresh did not write it.`,
	Args: cobra.NoArgs,
	RunE: runList,
}

// ListResult is the response for the list command.
type ListResult struct {
	Total        int             `json:"total"`
	Publications []storage.Entry `json:"publications"`
}

func runList(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()

	if err := os.MkdirAll(cfg.CacheDir, 0755); err != nil {
		exitWithError(ExitError, "creating cache directory: %v", err)
	}

	db, err := storage.OpenDB(cfg.DBPath())
	if err != nil {
		exitWithError(ExitError, "opening database: %v", err)
	}
	defer db.Close()

	if _, err := db.RebuildFromJSONL(cfg.ManifestFile); err != nil {
		exitWithError(ExitError, "rebuilding from %s: %v", cfg.ManifestFile, err)
	}
	total, err := db.Count()
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}

	var entries []storage.Entry
	if listDOI != "" {
		e, err := db.GetByDOI(reference.NormalizeDOI(listDOI))
		if err != nil {
			exitWithError(ExitError, "looking up %s: %v", listDOI, err)
		}
		if e == nil {
			exitWithError(ExitError, "%s is not in the last refresh", listDOI)
		}
		entries = []storage.Entry{*e}
	} else {
		entries, err = db.List(storage.ListFilters{SinceYear: listSince, Limit: listLimit})
		if err != nil {
			exitWithError(ExitError, "listing: %v", err)
		}
	}
	if entries == nil {
		entries = []storage.Entry{}
	}

	if humanOutput {
		if len(entries) == 0 {
			outputHuman("No publications recorded (run 'orcidbib fetch')\n")
			return nil
		}
		for _, e := range entries {
			outputHuman("%-5s %s  %s\n", formatYear(e.Year), e.DOI, e.File)
		}
		outputHuman("\n%d of %d %s\n", len(entries), total, pluralize(total, "publication"))
		return nil
	}

	return outputJSON(ListResult{Total: total, Publications: entries})
}
