package corpus

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Loader produces the article records for a single law source.
type Loader func(source string) ([]ArticleRecord, error)

// FailureLog is an append-only, line-oriented file of source identifiers
// that failed during corpus assembly.
type FailureLog struct {
	path string
}

// NewFailureLog returns a failure log backed by the file at path. The file
// is created lazily on first append.
func NewFailureLog(path string) *FailureLog {
	return &FailureLog{path: path}
}

// Append records a failed source identifier.
func (l *FailureLog) Append(source string) error {
	if dir := filepath.Dir(l.path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating failure log directory: %w", err)
		}
	}
	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("opening failure log: %w", err)
	}
	defer f.Close()
	if _, err := f.WriteString(source + "\n"); err != nil {
		return fmt.Errorf("appending to failure log: %w", err)
	}
	return nil
}

// Sources reads back the recorded source identifiers. A missing log file
// reads as empty.
func (l *FailureLog) Sources() ([]string, error) {
	f, err := os.Open(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening failure log: %w", err)
	}
	defer f.Close()

	var sources []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if line := sc.Text(); line != "" {
			sources = append(sources, line)
		}
	}
	return sources, sc.Err()
}

// Builder assembles a corpus across sources with per-source failure
// isolation: a failing loader skips that source entirely (no partial
// records are admitted) and processing continues with the next one.
type Builder struct {
	log    *FailureLog // nil disables persistence of failures
	failed []string
}

// NewBuilder creates a builder. failureLog may be nil.
func NewBuilder(failureLog *FailureLog) *Builder {
	return &Builder{log: failureLog}
}

// Build invokes the loader for each source in order, appending records in
// source order and preserving per-source internal order. No deduplication
// happens across sources; duplicate identifiers are reported but retained,
// and adjacency resolution later picks the first-seen row.
func (b *Builder) Build(sources []string, load Loader) Corpus {
	var c Corpus
	seen := make(map[string]int)

	for _, source := range sources {
		records, err := load(source)
		if err != nil {
			slog.Warn("corpus: source failed, skipping", "source", source, "error", err)
			b.failed = append(b.failed, source)
			if b.log != nil {
				if lerr := b.log.Append(source); lerr != nil {
					slog.Warn("corpus: recording failure", "source", source, "error", lerr)
				}
			}
			continue
		}

		for _, rec := range records {
			if first, ok := seen[rec.Identifier]; ok {
				slog.Warn("corpus: duplicate identifier",
					"identifier", rec.Identifier, "first_index", first, "index", len(c))
			} else {
				seen[rec.Identifier] = len(c)
			}
			c = append(c, rec)
		}
		slog.Info("corpus: source stored", "source", source, "articles", len(records))
	}
	return c
}

// Failed returns the sources that failed during the last Build calls, in
// encounter order.
func (b *Builder) Failed() []string {
	return b.failed
}
