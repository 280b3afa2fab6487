// Package corpus assembles per-article records into the ordered collection
// the adjacency matrix is built from.
package corpus

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ArticleRecord is a single addressable unit of legal text. Identifier is
// the canonical node key (a path such as "/costituzione/titolo-i/art-1.html");
// Name is display-only and not guaranteed unique. References holds raw
// outgoing reference identifiers that may or may not exist in the corpus.
//
// The JSON field for Identifier is "link", matching the persisted corpus
// format.
type ArticleRecord struct {
	Name       string   `json:"name"`
	Hierarchy  []string `json:"hierarchy"`
	Text       string   `json:"text"`
	References []string `json:"references"`
	Identifier string   `json:"link"`
}

// NewArticleRecord validates the required fields and derives the hierarchy
// from the identifier. Hierarchy is the identifier's path segments with the
// source and leaf segments dropped, outer to inner, order preserved.
func NewArticleRecord(name, identifier, text string, references []string) (ArticleRecord, error) {
	if name == "" {
		return ArticleRecord{}, fmt.Errorf("article %q: empty name", identifier)
	}
	if !strings.HasPrefix(identifier, "/") {
		return ArticleRecord{}, fmt.Errorf("article %q: identifier must be a path", identifier)
	}
	if references == nil {
		references = []string{}
	}
	return ArticleRecord{
		Name:       name,
		Hierarchy:  hierarchyOf(identifier),
		Text:       text,
		References: references,
		Identifier: identifier,
	}, nil
}

// hierarchyOf splits "/source/book/title/art-n.html" into ["book", "title"].
func hierarchyOf(identifier string) []string {
	parts := strings.Split(identifier, "/")
	if len(parts) <= 3 {
		return []string{}
	}
	return parts[2 : len(parts)-1]
}

// Corpus is the ordered collection of article records. Insertion order is
// irrelevant to graph semantics but fixes adjacency row and column indexing:
// index position is node identity for the matrix representation.
type Corpus []ArticleRecord

// IndexByIdentifier maps each identifier to its first-seen row index.
// Duplicate identifiers keep the first occurrence so that adjacency
// resolution stays deterministic.
func (c Corpus) IndexByIdentifier() map[string]int {
	index := make(map[string]int, len(c))
	for i, rec := range c {
		if _, ok := index[rec.Identifier]; !ok {
			index[rec.Identifier] = i
		}
	}
	return index
}

// Filter retains exactly the records whose identifier starts with at least
// one of the allowed prefixes. Matching is plain prefix matching, not
// segment aware: "/cost" matches "/costituzione" and "/costituzionale"
// alike, so callers must supply prefixes specific enough for their intent.
// The result is a fresh corpus re-indexed contiguously from zero.
func Filter(c Corpus, prefixes []string) Corpus {
	out := make(Corpus, 0, len(c))
	for _, rec := range c {
		for _, p := range prefixes {
			if strings.HasPrefix(rec.Identifier, p) {
				out = append(out, rec)
				break
			}
		}
	}
	return out
}

// Save writes the corpus as a JSON array of records, creating parent
// directories as needed. One file per source; the concatenated corpus is
// conventionally saved as "all.json".
func (c Corpus) Save(path string) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating corpus directory: %w", err)
		}
	}
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding corpus: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing corpus: %w", err)
	}
	return nil
}

// Load reads a corpus previously written by Save.
func Load(path string) (Corpus, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("corpus %s: %w", path, os.ErrNotExist)
		}
		return nil, fmt.Errorf("reading corpus: %w", err)
	}
	var c Corpus
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decoding corpus %s: %w", path, err)
	}
	return c, nil
}
