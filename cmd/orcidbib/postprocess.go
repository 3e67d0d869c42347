package main

import (
	"github.com/matsen/orcidbib/internal/postprocess"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(postprocessCmd)
}

var postprocessCmd = &cobra.Command{
	Use:   "postprocess",
	Short: "Touch up the rendered publications page",
	Long: `Touch up the rendered publications page.

Looks for <site_dir>/<page_file>, then <page_file>. Bolds highlight_author in
every citation entry (div.csl-entry) and copies the per-publication .bib files
into the page's directory so download links resolve. The page is rewritten
only when something changed. A missing page is not an error.`,
	Args: cobra.NoArgs,
	RunE: runPostprocess,
}

func runPostprocess(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()

	p := postprocess.New(
		postprocess.WithLogger(newLogger()),
		postprocess.WithPageCandidates(cfg.PageCandidates()...),
		postprocess.WithAuthor(cfg.HighlightAuthor),
		postprocess.WithBibDir(cfg.BibDir),
	)

	report, err := p.Run()
	if err != nil {
		exitWithError(ExitError, "post-processing: %v", err)
	}

	if humanOutput {
		if !report.Found {
			outputHuman("No publications page found, nothing to do\n")
			return nil
		}
		state := "unchanged"
		if report.Changed {
			state = "updated"
		}
		outputHuman("%s %s\n", report.Page, state)
		outputHuman("Copied %d .bib %s to %s\n", report.Copied, pluralize(report.Copied, "file"), report.CopyDir)
		return nil
	}
	return outputJSON(report)
}
