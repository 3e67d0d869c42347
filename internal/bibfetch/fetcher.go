// Package bibfetch refreshes the on-disk bibliography from ORCID and doi.org.
package bibfetch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/matsen/orcidbib/internal/cache"
	"github.com/matsen/orcidbib/internal/doi"
	"github.com/matsen/orcidbib/internal/latex"
	"github.com/matsen/orcidbib/internal/orcid"
	"github.com/matsen/orcidbib/internal/reference"
	"github.com/matsen/orcidbib/internal/storage"
	"golang.org/x/time/rate"
)

// DefaultDelay paces successful resolver requests.
const DefaultDelay = 200 * time.Millisecond

// entrySeparator joins citations in the consolidated file.
const entrySeparator = "\n\n"

// Registry lists the works attached to an ORCID iD.
type Registry interface {
	FetchWorks(ctx context.Context, orcidID string) (*orcid.WorksResponse, error)
}

// Resolver returns the raw citation body for a DOI.
type Resolver interface {
	FetchBibTeX(ctx context.Context, doi string) ([]byte, error)
}

// Fetcher writes a consolidated bibliography plus one file per DOI.
type Fetcher struct {
	registry Registry
	resolver Resolver
	logger   *log.Logger

	bibDir       string
	bibFile      string
	manifestFile string
	window       time.Duration
	delay        time.Duration
	now          func() time.Time
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithLogger sets the logger for progress and failure messages.
func WithLogger(l *log.Logger) Option {
	return func(f *Fetcher) {
		f.logger = l
	}
}

// WithBibDir sets the directory for individual citation files.
func WithBibDir(dir string) Option {
	return func(f *Fetcher) {
		f.bibDir = dir
	}
}

// WithBibFile sets the consolidated bibliography path.
func WithBibFile(path string) Option {
	return func(f *Fetcher) {
		f.bibFile = path
	}
}

// WithManifest sets the JSONL manifest path. An empty path disables the manifest.
func WithManifest(path string) Option {
	return func(f *Fetcher) {
		f.manifestFile = path
	}
}

// WithCacheWindow sets how long the consolidated file stays fresh.
func WithCacheWindow(d time.Duration) Option {
	return func(f *Fetcher) {
		f.window = d
	}
}

// WithDelay sets the minimum spacing between successful resolver requests.
// Zero disables pacing.
func WithDelay(d time.Duration) Option {
	return func(f *Fetcher) {
		f.delay = d
	}
}

// WithClock replaces time.Now (for testing).
func WithClock(now func() time.Time) Option {
	return func(f *Fetcher) {
		f.now = now
	}
}

// New creates a Fetcher with the default asset layout.
func New(registry Registry, resolver Resolver, opts ...Option) *Fetcher {
	f := &Fetcher{
		registry: registry,
		resolver: resolver,
		logger:   log.Default(),
		bibDir:   filepath.Join("assets", "bib"),
		bibFile:  filepath.Join("assets", "references.bib"),
		window:   cache.DefaultWindow,
		delay:    DefaultDelay,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Result summarizes a Run or Refresh.
type Result struct {
	RunID    string    `json:"run_id,omitempty"`
	Cached   bool      `json:"cached"`
	BibFile  string    `json:"bib_file"`
	Found    int       `json:"found"`
	Written  int       `json:"written"`
	Files    []string  `json:"files,omitempty"`
	Failures []Failure `json:"failures,omitempty"`

	// Document is the consolidated bibliography as written.
	Document string `json:"-"`
}

// Run refreshes the bibliography unless the consolidated file is still fresh.
// force skips the freshness check.
func (f *Fetcher) Run(ctx context.Context, orcidID string, force bool) (*Result, error) {
	if err := f.ensureDirectories(); err != nil {
		return nil, err
	}

	if !force && cache.IsFresh(f.bibFile, f.window, f.now()) {
		f.logger.Infof("CACHE HIT: %s is valid. Skipping download.", f.bibFile)
		return &Result{Cached: true, BibFile: f.bibFile}, nil
	}

	return f.Refresh(ctx, orcidID)
}

// Refresh fetches every publication of orcidID and rewrites the bibliography.
//
// A registry failure aborts before any citation is written; the consolidated
// file is created empty if it did not exist and ErrRegistry is returned. A
// resolver failure only skips that DOI.
func (f *Fetcher) Refresh(ctx context.Context, orcidID string) (*Result, error) {
	res := &Result{
		RunID:   uuid.NewString(),
		BibFile: f.bibFile,
	}
	logger := f.logger.With("run", res.RunID[:8])

	if err := f.ensureDirectories(); err != nil {
		return res, err
	}

	logger.Infof("Fetching publications for ORCID iD: %s...", orcidID)
	works, err := f.registry.FetchWorks(ctx, orcidID)
	if err != nil {
		logger.Errorf("Error: %v", err)
		if perr := f.ensurePlaceholder(); perr != nil {
			logger.Errorf("creating placeholder %s: %v", f.bibFile, perr)
		}
		return res, fmt.Errorf("%w: %w", ErrRegistry, err)
	}

	pubs := orcid.ExtractPublications(works)
	reference.Sort(pubs)
	res.Found = len(pubs)

	fetchedAt := f.now().UTC()

	logger.Infof("Downloading BibTeX for %d publications...", len(pubs))

	var entries []string
	var manifest []storage.Entry
	for _, pub := range pubs {
		if !pub.HasYear() {
			logger.Debug("no publication year, sorted last", "doi", pub.DOI)
		}
		text, err := f.fetchOne(ctx, pub.DOI)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return res, ctxErr
			}
			logger.Errorf("  Failed %s: %v", pub.DOI, err)
			res.Failures = append(res.Failures, Failure{DOI: pub.DOI, Error: err.Error()})
			continue
		}

		path := filepath.Join(f.bibDir, doi.FileName(pub.DOI))
		if err := os.WriteFile(path, []byte(text), 0644); err != nil {
			logger.Errorf("  Failed %s: %v", pub.DOI, err)
			res.Failures = append(res.Failures, Failure{DOI: pub.DOI, Error: err.Error()})
			continue
		}
		logger.Debug("wrote citation", "doi", pub.DOI, "file", path)

		entries = append(entries, text)
		res.Files = append(res.Files, path)
		manifest = append(manifest, storage.Entry{
			DOI:       pub.DOI,
			Year:      pub.Year,
			File:      path,
			RunID:     res.RunID,
			FetchedAt: fetchedAt,
		})

		if err := pause(ctx, f.delay); err != nil {
			return res, err
		}
	}

	res.Document = strings.Join(entries, entrySeparator)
	if err := os.WriteFile(f.bibFile, []byte(res.Document), 0644); err != nil {
		return res, fmt.Errorf("writing %s: %w", f.bibFile, err)
	}
	res.Written = len(entries)

	if f.manifestFile != "" {
		if err := storage.WriteAll(f.manifestFile, manifest); err != nil {
			logger.Warnf("writing manifest %s: %v", f.manifestFile, err)
		}
	}

	logger.Infof("Done! Saved to %s", f.bibFile)
	return res, nil
}

// fetchOne downloads, decodes, and repairs a single citation.
func (f *Fetcher) fetchOne(ctx context.Context, id string) (string, error) {
	body, err := f.resolver.FetchBibTeX(ctx, id)
	if err != nil {
		return "", err
	}
	text, err := doi.DecodeBody(body)
	if err != nil {
		return "", fmt.Errorf("decoding citation: %w", err)
	}
	return latex.Repair(text), nil
}

func (f *Fetcher) ensureDirectories() error {
	if err := os.MkdirAll(f.bibDir, 0755); err != nil {
		return fmt.Errorf("creating %s: %w", f.bibDir, err)
	}
	if err := os.MkdirAll(filepath.Dir(f.bibFile), 0755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(f.bibFile), err)
	}
	return nil
}

// ensurePlaceholder creates an empty consolidated file if none exists so the
// site build never sees a missing bibliography.
func (f *Fetcher) ensurePlaceholder() error {
	_, err := os.Stat(f.bibFile)
	if err == nil {
		return nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(f.bibFile), 0755); err != nil {
		return err
	}
	return os.WriteFile(f.bibFile, nil, 0644)
}

// pause blocks for delay after a successful request, or until ctx is done.
func pause(ctx context.Context, delay time.Duration) error {
	return newLimiter(delay).Wait(ctx)
}

// newLimiter allows one request per delay. The bucket starts empty so the
// first Wait already blocks for a full interval.
func newLimiter(delay time.Duration) *rate.Limiter {
	if delay <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	l := rate.NewLimiter(rate.Every(delay), 1)
	l.Allow()
	return l
}
