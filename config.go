package lexgraph

import (
	"path/filepath"
	"time"
)

// Config holds all configuration for the lexgraph engine.
type Config struct {
	// DataDir is the directory where corpus, matrix, and export artifacts
	// are written. Defaults to "data" in the working directory.
	DataDir string `json:"data_dir"`

	// DBPath is the full path to the page-cache SQLite database.
	// If empty, defaults to <DataDir>/cache.db.
	DBPath string `json:"db_path"`

	// BaseURL is the root of the legal-text site articles are fetched from.
	BaseURL string `json:"base_url"`

	// FetchDelay is the politeness delay between page fetches.
	FetchDelay time.Duration `json:"fetch_delay"`

	// AllRefs selects the reference inclusion policy. When true every link
	// is kept except glossary links and footnote anchors (over-collecting;
	// unresolved targets are dropped at adjacency resolution). When false
	// only links back into the same law source are kept.
	AllRefs bool `json:"all_refs"`

	// Damping is the PageRank damping factor.
	Damping float64 `json:"damping"`

	// MaxIter bounds the iterative centrality computations.
	MaxIter int `json:"max_iter"`

	// Tol is the per-node convergence tolerance for iterative measures.
	Tol float64 `json:"tol"`
}

// DefaultConfig returns a Config with the defaults used throughout.
func DefaultConfig() Config {
	return Config{
		DataDir:    "data",
		BaseURL:    "https://www.brocardi.it",
		FetchDelay: 500 * time.Millisecond,
		AllRefs:    true,
		Damping:    0.85,
		MaxIter:    100,
		Tol:        1e-6,
	}
}

// validate reports whether the configuration values are usable.
func (c *Config) validate() error {
	if c.Damping <= 0 || c.Damping >= 1 {
		return ErrInvalidConfig
	}
	if c.MaxIter <= 0 || c.Tol <= 0 {
		return ErrInvalidConfig
	}
	if c.BaseURL == "" {
		return ErrInvalidConfig
	}
	return nil
}

// resolveDBPath computes the final page-cache database path.
func (c *Config) resolveDBPath() string {
	if c.DBPath != "" {
		return c.DBPath
	}
	dir := c.DataDir
	if dir == "" {
		dir = "data"
	}
	return filepath.Join(dir, "cache.db")
}

// corpusPath returns the persisted corpus file for a source, or the
// concatenated corpus when source is "all".
func (c *Config) corpusPath(source string) string {
	dir := c.DataDir
	if dir == "" {
		dir = "data"
	}
	return filepath.Join(dir, "dataset", source+".json")
}

// failureLogPath returns the append-only log of failed sources.
func (c *Config) failureLogPath() string {
	dir := c.DataDir
	if dir == "" {
		dir = "data"
	}
	return filepath.Join(dir, "errors.txt")
}
