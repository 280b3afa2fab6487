// Package lexgraph builds citation graphs over bodies of legal text: it
// ingests articles from a legal-text site (or gazette PDFs), extracts
// cross-references, assembles a directed adjacency matrix, and computes
// centrality measures over it.
package lexgraph

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/pmarcenaro/lexgraph/corpus"
	"github.com/pmarcenaro/lexgraph/extract"
	"github.com/pmarcenaro/lexgraph/fetch"
	"github.com/pmarcenaro/lexgraph/graph"
	"github.com/pmarcenaro/lexgraph/store"
)

// Engine is the main entry point for the citation graph pipeline.
type Engine interface {
	// Sources discovers the law source identifiers available on the site.
	Sources(ctx context.Context) ([]string, error)

	// BuildCorpus fetches the given sources (cache first, then HTTP),
	// persists one corpus file per source plus the concatenated corpus,
	// and returns the combined collection. Sources that fail to load are
	// skipped and recorded in the failure log.
	BuildCorpus(ctx context.Context, sources []string) (corpus.Corpus, error)

	// BuildPDFSource reads a locally saved gazette PDF as a law source
	// and persists its corpus file alongside the fetched sources.
	BuildPDFSource(path, source string) ([]corpus.ArticleRecord, error)

	// LoadCorpus reads back a corpus persisted by BuildCorpus. Use source
	// "all" for the concatenated corpus.
	LoadCorpus(source string) (corpus.Corpus, error)

	// Metrics builds the adjacency matrix over the corpus, optionally
	// restricted to identifiers matching the given prefixes, and computes
	// the centrality measures for every node.
	Metrics(c corpus.Corpus, prefixes []string) ([]graph.Row, *graph.Matrix, error)

	// FailedSources reads back the persistent failure log.
	FailedSources() ([]string, error)

	// Store returns the underlying page cache for diagnostic access.
	Store() *store.Store

	// Close cleanly shuts down the engine.
	Close() error
}

// engine is the concrete implementation of Engine.
type engine struct {
	cfg    Config
	store  *store.Store
	client *fetch.Client
	flog   *corpus.FailureLog
}

// New creates an engine with the given configuration.
func New(cfg Config) (Engine, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	s, err := store.New(cfg.resolveDBPath())
	if err != nil {
		return nil, fmt.Errorf("opening page cache: %w", err)
	}

	return &engine{
		cfg:    cfg,
		store:  s,
		client: fetch.NewClient(cfg.BaseURL, cfg.FetchDelay),
		flog:   corpus.NewFailureLog(cfg.failureLogPath()),
	}, nil
}

func (e *engine) Sources(ctx context.Context) ([]string, error) {
	return e.client.Sources(ctx)
}

func (e *engine) BuildCorpus(ctx context.Context, sources []string) (corpus.Corpus, error) {
	if len(sources) == 0 {
		return nil, ErrNoSources
	}

	b := corpus.NewBuilder(e.flog)
	load := func(source string) ([]corpus.ArticleRecord, error) {
		records, err := e.loadSource(ctx, source)
		if err != nil {
			return nil, err
		}
		if err := corpus.Corpus(records).Save(e.cfg.corpusPath(source)); err != nil {
			return nil, err
		}
		return records, nil
	}

	c := b.Build(sources, load)
	if err := c.Save(e.cfg.corpusPath("all")); err != nil {
		return nil, err
	}
	slog.Info("corpus built",
		"sources", len(sources), "failed", len(b.Failed()), "articles", len(c))
	return c, nil
}

// loadSource materializes one source's article records, preferring cached
// page snapshots over live fetches. Freshly fetched pages are cached for
// the next build.
func (e *engine) loadSource(ctx context.Context, source string) ([]corpus.ArticleRecord, error) {
	articles, err := e.cachedArticles(ctx, source)
	if err != nil {
		return nil, err
	}
	if len(articles) == 0 {
		fetched, missing, err := e.client.Source(ctx, source)
		if err != nil {
			if serr := e.store.SetSourceStatus(ctx, source, store.StatusFailed); serr != nil {
				slog.Warn("recording source failure", "source", source, "error", serr)
			}
			return nil, err
		}
		for _, a := range fetched {
			if err := e.store.PutPage(ctx, source, a.Identifier, a.RawHTML); err != nil {
				return nil, err
			}
		}
		if err := e.store.SetSourceStatus(ctx, source, store.StatusComplete); err != nil {
			return nil, err
		}
		if len(missing) > 0 {
			slog.Warn("source has missing articles", "source", source, "missing", len(missing))
		}
		articles = fetched
	}
	return e.articleRecords(source, articles)
}

// cachedArticles reparses the snapshots cached for a source. Snapshots that
// no longer parse are skipped.
func (e *engine) cachedArticles(ctx context.Context, source string) ([]fetch.Article, error) {
	pages, err := e.store.Pages(ctx, source)
	if err != nil {
		return nil, err
	}
	var articles []fetch.Article
	for _, p := range pages {
		a, err := fetch.ParseArticleBytes(p.HTML, p.Path)
		if err != nil {
			slog.Warn("cached page not parsable", "path", p.Path, "error", err)
			continue
		}
		articles = append(articles, a)
	}
	if len(articles) > 0 {
		slog.Info("source served from cache", "source", source, "articles", len(articles))
	}
	return articles, nil
}

// articleRecords runs text cleaning and reference selection over raw
// articles and validates them into corpus records.
func (e *engine) articleRecords(source string, articles []fetch.Article) ([]corpus.ArticleRecord, error) {
	records := make([]corpus.ArticleRecord, 0, len(articles))
	for _, a := range articles {
		text, refs := extract.Extract(source, a.RawBody, a.Links, e.cfg.AllRefs)
		rec, err := corpus.NewArticleRecord(a.Name, a.Identifier, text, refs)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

func (e *engine) BuildPDFSource(path, source string) ([]corpus.ArticleRecord, error) {
	articles, err := fetch.LoadPDF(path, source)
	if err != nil {
		return nil, err
	}
	records, err := e.articleRecords(source, articles)
	if err != nil {
		return nil, err
	}
	if err := corpus.Corpus(records).Save(e.cfg.corpusPath(source)); err != nil {
		return nil, err
	}
	return records, nil
}

func (e *engine) LoadCorpus(source string) (corpus.Corpus, error) {
	c, err := corpus.Load(e.cfg.corpusPath(source))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrCorpusNotFound, source)
		}
		return nil, err
	}
	return c, nil
}

func (e *engine) Metrics(c corpus.Corpus, prefixes []string) ([]graph.Row, *graph.Matrix, error) {
	if len(prefixes) > 0 {
		c = corpus.Filter(c, prefixes)
	}
	m := graph.Build(c)
	rows, err := graph.Compute(m, c, graph.Options{
		Damping: e.cfg.Damping,
		MaxIter: e.cfg.MaxIter,
		Tol:     e.cfg.Tol,
	})
	if err != nil {
		return nil, nil, err
	}
	return rows, m, nil
}

func (e *engine) FailedSources() ([]string, error) {
	return e.flog.Sources()
}

func (e *engine) Store() *store.Store {
	return e.store
}

func (e *engine) Close() error {
	return e.store.Close()
}
