package postprocess

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
)

// DefaultAuthor is the surname bolded when none is configured.
const DefaultAuthor = "Maus"

// Processor runs the post-render steps against a built site.
type Processor struct {
	logger     *log.Logger
	candidates []string
	author     string
	bibDir     string
}

// Option configures a Processor.
type Option func(*Processor)

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(p *Processor) {
		p.logger = l
	}
}

// WithPageCandidates sets where to look for the rendered page, in order.
func WithPageCandidates(paths ...string) Option {
	return func(p *Processor) {
		p.candidates = paths
	}
}

// WithAuthor sets the surname to bold.
func WithAuthor(author string) Option {
	return func(p *Processor) {
		p.author = author
	}
}

// WithBibDir sets the directory holding per-publication .bib files.
func WithBibDir(dir string) Option {
	return func(p *Processor) {
		p.bibDir = dir
	}
}

// New creates a Processor for the default site layout.
func New(opts ...Option) *Processor {
	p := &Processor{
		logger: log.Default(),
		candidates: []string{
			filepath.Join("_site", "publications.html"),
			"publications.html",
		},
		author: DefaultAuthor,
		bibDir: filepath.Join("assets", "bib"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Report describes what a Run did.
type Report struct {
	Page    string `json:"page,omitempty"`
	Found   bool   `json:"found"`
	Changed bool   `json:"changed"`
	Copied  int    `json:"copied"`
	CopyDir string `json:"copy_dir,omitempty"`
}

// Run bolds the author in the rendered page and copies the .bib files beside
// it. A missing page is not an error; there is simply nothing to do.
func (p *Processor) Run() (*Report, error) {
	page, ok := FindPage(p.candidates)
	if !ok {
		p.logger.Info("Post-process: publications page not found, nothing to do")
		return &Report{}, nil
	}
	report := &Report{Page: page, Found: true}

	data, err := os.ReadFile(page)
	if err != nil {
		return report, fmt.Errorf("reading %s: %w", page, err)
	}

	updated := HighlightAuthor(string(data), p.author)
	if updated != string(data) {
		info, err := os.Stat(page)
		if err != nil {
			return report, fmt.Errorf("stat %s: %w", page, err)
		}
		if err := os.WriteFile(page, []byte(updated), info.Mode().Perm()); err != nil {
			return report, fmt.Errorf("writing %s: %w", page, err)
		}
		report.Changed = true
		p.logger.Infof("Post-process: highlighted %s in %s", p.author, page)
	} else {
		p.logger.Debug("Post-process: page unchanged", "page", page)
	}

	report.CopyDir = filepath.Join(filepath.Dir(page), p.mirrorDir())
	n, err := CopyBibFiles(p.bibDir, report.CopyDir)
	report.Copied = n
	if err != nil {
		if errors.Is(err, ErrSourceMissing) {
			p.logger.Warnf("Post-process: %v", err)
			return report, nil
		}
		return report, err
	}
	if n > 0 {
		p.logger.Infof("Post-process: copied %d .bib files to %s", n, report.CopyDir)
	}
	return report, nil
}

// mirrorDir is the bib directory's path relative to the page's directory.
// An absolute bib directory falls back to the default layout.
func (p *Processor) mirrorDir() string {
	if p.bibDir != "" && !filepath.IsAbs(p.bibDir) {
		return filepath.Clean(p.bibDir)
	}
	return filepath.Join("assets", "bib")
}
