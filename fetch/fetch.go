// Package fetch retrieves raw article content and turns it into the
// per-article tuples the corpus builder consumes. It is the ingestion
// collaborator of the pipeline: everything downstream of it works on
// already-materialized content.
package fetch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/pmarcenaro/lexgraph/extract"
)

// Article is the raw content of a single article page: the display name,
// the path-like identifier, the body text, and the anchors found in the
// body. RawHTML keeps the full page for snapshot caching.
type Article struct {
	Name       string
	Identifier string
	RawBody    string
	Links      []extract.Link
	RawHTML    []byte
}

// Client fetches pages from the legal-text site with a politeness delay
// between requests.
type Client struct {
	base  string
	http  *http.Client
	delay time.Duration
}

// NewClient creates a client rooted at base (e.g. "https://www.brocardi.it").
func NewClient(base string, delay time.Duration) *Client {
	return &Client{
		base:  base,
		http:  &http.Client{Timeout: 30 * time.Second},
		delay: delay,
	}
}

// get fetches a single site path, honouring the context.
func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path, nil)
	if err != nil {
		return nil, fmt.Errorf("building request for %s: %w", path, err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: status %d", path, resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, nil
}

// pause sleeps for the politeness delay unless the context ends first.
func (c *Client) pause(ctx context.Context) error {
	if c.delay <= 0 {
		return nil
	}
	t := time.NewTimer(c.delay)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Sources discovers the law source identifiers from the site-wide listing.
func (c *Client) Sources(ctx context.Context) ([]string, error) {
	page, err := c.get(ctx, "/fonti.html")
	if err != nil {
		return nil, err
	}
	return parseSourceList(bytes.NewReader(page))
}

// ArticlePaths lists the article page paths of a source by walking its
// index page and each section ("book") page.
func (c *Client) ArticlePaths(ctx context.Context, source string) ([]string, error) {
	index, err := c.get(ctx, "/"+source+"/")
	if err != nil {
		return nil, err
	}
	books, err := parseSourceIndex(bytes.NewReader(index))
	if err != nil {
		return nil, err
	}

	var articles []string
	for _, book := range books {
		if err := c.pause(ctx); err != nil {
			return nil, err
		}
		page, err := c.get(ctx, book)
		if err != nil {
			return nil, err
		}
		found, err := parseArticleList(bytes.NewReader(page), source)
		if err != nil {
			return nil, err
		}
		articles = append(articles, found...)
	}
	slog.Info("fetch: article links scraped", "source", source, "articles", len(articles))
	return articles, nil
}

// Source fetches every article of a law source. Individual missing or
// unparsable article pages are recorded and skipped, mirroring the
// behaviour of the upstream site where single pages go missing; a failure
// to list the articles at all is an error for the whole source.
func (c *Client) Source(ctx context.Context, source string) ([]Article, []string, error) {
	paths, err := c.ArticlePaths(ctx, source)
	if err != nil {
		return nil, nil, fmt.Errorf("listing %s articles: %w", source, err)
	}

	var (
		articles []Article
		missing  []string
	)
	for _, path := range paths {
		if err := c.pause(ctx); err != nil {
			return nil, nil, err
		}
		page, err := c.get(ctx, path)
		if err != nil {
			if ctx.Err() != nil {
				return nil, nil, ctx.Err()
			}
			slog.Warn("fetch: article not found", "path", path, "error", err)
			missing = append(missing, path)
			continue
		}
		a, err := ParseArticleBytes(page, path)
		if err != nil {
			slog.Warn("fetch: article not parsable", "path", path, "error", err)
			missing = append(missing, path)
			continue
		}
		articles = append(articles, a)
	}
	slog.Info("fetch: article contents scraped",
		"source", source, "articles", len(articles), "missing", len(missing))
	return articles, missing, nil
}

// ParseArticleBytes parses a raw article page into an Article with the
// given identifier, keeping the original bytes for caching.
func ParseArticleBytes(page []byte, identifier string) (Article, error) {
	name, body, links, err := ParseArticle(bytes.NewReader(page))
	if err != nil {
		return Article{}, err
	}
	return Article{
		Name:       name,
		Identifier: identifier,
		RawBody:    body,
		Links:      links,
		RawHTML:    page,
	}, nil
}
