package fetch

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"

	"github.com/pmarcenaro/lexgraph/extract"
)

// Markup markers of the article pages being scraped.
const (
	articleHeaderClass = "hbox-header"
	articleBodyClass   = "corpoDelTesto"
	sourceIndexClass   = "section_content content-box content-ext-guide"
	sourceListClass    = "content-box content-ext-guide"
)

// ParseArticle extracts the article name, the raw body text, and the body's
// anchors from an article page. A page without a body container yields an
// empty body and no links; a page without a header is an error, since the
// name is a required record field.
func ParseArticle(r io.Reader) (name, body string, links []extract.Link, err error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", "", nil, fmt.Errorf("parse html: %w", err)
	}

	header := findElement(doc, "h1", articleHeaderClass)
	if header == nil {
		return "", "", nil, fmt.Errorf("article page has no %q header", articleHeaderClass)
	}
	name = strings.TrimSpace(textContent(header))

	bodyNode := findElement(doc, "div", articleBodyClass)
	if bodyNode == nil {
		return name, "", nil, nil
	}
	return name, textContent(bodyNode), collectLinks(bodyNode), nil
}

// parseSourceIndex returns the section ("book") links of a law source's
// index page.
func parseSourceIndex(r io.Reader) ([]string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	content := findElement(doc, "div", sourceIndexClass)
	if content == nil {
		return nil, fmt.Errorf("source index has no %q container", sourceIndexClass)
	}

	var books []string
	for _, l := range collectLinks(content) {
		if l.Href != "" {
			books = append(books, l.Href)
		}
	}
	return books, nil
}

// parseArticleList returns the article page paths linked from a book page,
// keeping only html pages that belong to the given source.
func parseArticleList(r io.Reader, source string) ([]string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	prefix := "/" + source
	var articles []string
	for _, l := range collectLinks(doc) {
		if strings.HasSuffix(l.Href, "html") && strings.HasPrefix(l.Href, prefix) {
			articles = append(articles, l.Href)
		}
	}
	return articles, nil
}

// parseSourceList returns the law source identifiers linked from the
// site-wide source listing page.
func parseSourceList(r io.Reader) ([]string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	content := findElement(doc, "div", sourceListClass)
	if content == nil {
		return nil, fmt.Errorf("source list has no %q container", sourceListClass)
	}

	var sources []string
	for _, l := range collectLinks(content) {
		// Source links look like "/codice-civile/"; strip the slashes.
		if strings.HasPrefix(l.Href, "/") && strings.HasSuffix(l.Href, "/") && len(l.Href) > 2 {
			sources = append(sources, l.Href[1:len(l.Href)-1])
		}
	}
	return sources, nil
}

// findElement returns the first element with the given tag carrying the
// exact class attribute, depth first.
func findElement(n *html.Node, tag, class string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag && attr(n, "class") == class {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, tag, class); found != nil {
			return found
		}
	}
	return nil
}

// textContent concatenates all text nodes under n.
func textContent(n *html.Node) string {
	var buf strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return buf.String()
}

// collectLinks gathers every anchor under n, pairing each href with the
// anchor text as markup context.
func collectLinks(n *html.Node) []extract.Link {
	var links []extract.Link
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			if href := attr(n, "href"); href != "" {
				links = append(links, extract.Link{
					Href:    href,
					Context: strings.TrimSpace(textContent(n)),
				})
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return links
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
