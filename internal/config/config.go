// Package config handles orcidbib configuration.
//
// Every setting has a built-in default, so the tool runs with no config file.
// An orcidbib.yml in the working directory overrides defaults, and ORCIDBIB_*
// environment variables (optionally from .env) override the file.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/matsen/orcidbib/internal/doi"
	"github.com/matsen/orcidbib/internal/orcid"
	"gopkg.in/yaml.v3"
)

// Config holds every tunable of the fetch and post-process pipelines.
type Config struct {
	ORCIDID string `yaml:"orcid_id" json:"orcid_id"`

	BibDir       string `yaml:"bib_dir" json:"bib_dir"`             // Per-publication .bib files
	BibFile      string `yaml:"bib_file" json:"bib_file"`           // Consolidated bibliography; also the cache token
	ManifestFile string `yaml:"manifest_file" json:"manifest_file"` // JSONL record of the last refresh
	CacheDir     string `yaml:"cache_dir" json:"cache_dir"`         // Ephemeral SQLite lives here

	CacheHours   int           `yaml:"cache_hours" json:"cache_hours"`
	RequestDelay time.Duration `yaml:"request_delay" json:"request_delay"` // Pause after each downloaded citation
	HTTPTimeout  time.Duration `yaml:"http_timeout" json:"http_timeout"`   // Per-request timeout for ORCID and doi.org

	ORCIDAPI    string `yaml:"orcid_api" json:"orcid_api"`
	DOIResolver string `yaml:"doi_resolver" json:"doi_resolver"`

	HighlightAuthor string `yaml:"highlight_author" json:"highlight_author"`
	SiteDir         string `yaml:"site_dir" json:"site_dir"`
	PageFile        string `yaml:"page_file" json:"page_file"`
}

const (
	// DefaultFile is the config file looked up in the working directory.
	DefaultFile = "orcidbib.yml"

	DefaultORCIDID      = "0000-0002-7385-4723"
	DefaultAssetsDir    = "assets"
	DefaultCacheHours   = 24
	DefaultRequestDelay = 200 * time.Millisecond
	DefaultHTTPTimeout  = 30 * time.Second
	DefaultAuthor       = "Maus"
	DefaultSiteDir      = "_site"
	DefaultPageFile     = "publications.html"
	DBFile              = "publications.db"
)

// Environment variable names.
const (
	EnvORCIDID    = "ORCIDBIB_ORCID_ID"
	EnvCacheHours = "ORCIDBIB_CACHE_HOURS"
	EnvAuthor     = "ORCIDBIB_AUTHOR"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		ORCIDID:         DefaultORCIDID,
		BibDir:          filepath.Join(DefaultAssetsDir, "bib"),
		BibFile:         filepath.Join(DefaultAssetsDir, "references.bib"),
		ManifestFile:    filepath.Join(DefaultAssetsDir, "references.jsonl"),
		CacheDir:        filepath.Join(".orcidbib", "cache"),
		CacheHours:      DefaultCacheHours,
		RequestDelay:    DefaultRequestDelay,
		HTTPTimeout:     DefaultHTTPTimeout,
		ORCIDAPI:        orcid.BaseURL,
		DOIResolver:     doi.BaseURL,
		HighlightAuthor: DefaultAuthor,
		SiteDir:         DefaultSiteDir,
		PageFile:        DefaultPageFile,
	}
}

// Load reads the YAML file at path on top of the defaults.
// A missing file is not an error; the defaults are returned.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.BibDir = ExpandPath(cfg.BibDir)
	cfg.BibFile = ExpandPath(cfg.BibFile)
	cfg.ManifestFile = ExpandPath(cfg.ManifestFile)
	cfg.CacheDir = ExpandPath(cfg.CacheDir)
	cfg.SiteDir = ExpandPath(cfg.SiteDir)

	return cfg, nil
}

// ApplyEnv overrides fields from environment variables read through getenv.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if v := getenv(EnvORCIDID); v != "" {
		c.ORCIDID = v
	}
	if v := getenv(EnvAuthor); v != "" {
		c.HighlightAuthor = v
	}
	if v := getenv(EnvCacheHours); v != "" {
		hours, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not an integer", ErrInvalidConfig, EnvCacheHours, v)
		}
		c.CacheHours = hours
	}
	return nil
}

// Validate checks that the configuration can drive a run.
func (c *Config) Validate() error {
	if err := orcid.ValidateID(c.ORCIDID); err != nil {
		return fmt.Errorf("%w: orcid_id: %v", ErrInvalidConfig, err)
	}
	if c.CacheHours <= 0 {
		return fmt.Errorf("%w: cache_hours must be positive, got %d", ErrInvalidConfig, c.CacheHours)
	}
	if c.RequestDelay < 0 {
		return fmt.Errorf("%w: request_delay must not be negative, got %s", ErrInvalidConfig, c.RequestDelay)
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("%w: http_timeout must be positive, got %s", ErrInvalidConfig, c.HTTPTimeout)
	}
	if c.BibDir == "" || c.BibFile == "" {
		return fmt.Errorf("%w: bib_dir and bib_file are required", ErrInvalidConfig)
	}
	return nil
}

// MarshalJSON writes durations the way they are written in YAML ("200ms")
// rather than as integer nanoseconds.
func (c Config) MarshalJSON() ([]byte, error) {
	type plain Config
	return json.Marshal(struct {
		plain
		RequestDelay string `json:"request_delay"`
		HTTPTimeout  string `json:"http_timeout"`
	}{
		plain:        plain(c),
		RequestDelay: c.RequestDelay.String(),
		HTTPTimeout:  c.HTTPTimeout.String(),
	})
}

// CacheWindow is the freshness window of the consolidated bibliography.
func (c *Config) CacheWindow() time.Duration {
	return time.Duration(c.CacheHours) * time.Hour
}

// DBPath returns the path of the ephemeral publications database.
func (c *Config) DBPath() string {
	return filepath.Join(c.CacheDir, DBFile)
}

// PageCandidates lists where the rendered publications page may be, in lookup order.
func (c *Config) PageCandidates() []string {
	return []string{
		filepath.Join(c.SiteDir, c.PageFile),
		c.PageFile,
	}
}

// ExpandPath expands ~ to the user's home directory.
// Returns the original path unchanged if it doesn't start with ~.
func ExpandPath(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path // Return original if we can't get home directory
	}

	return filepath.Join(home, path[1:])
}
