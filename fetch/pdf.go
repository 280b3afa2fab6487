package fetch

import (
	"bytes"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
)

// articleHeading marks the start of an article in gazette text. Headings
// sit at the start of a line ("Art. 1", "Articolo 12-bis"), which keeps
// mid-sentence citations from being taken for section breaks.
var articleHeading = regexp.MustCompile(`(?m)^\s*Art(?:icolo)?\.?\s+(\d+(?:-[a-z]+)?)\b\.?`)

// LoadPDF reads a locally saved gazette PDF and splits its text into one
// Article per detected heading. PDF sources have no hyperlink markup, so
// outgoing references are recovered from the prose with DetectTextRefs and
// identifiers live in the synthetic "/<source>/art-<n>" namespace.
func LoadPDF(path, source string) ([]Article, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening pdf %s: %w", path, err)
	}
	defer f.Close()

	plain, err := r.GetPlainText()
	if err != nil {
		return nil, fmt.Errorf("extracting pdf text: %w", err)
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plain); err != nil {
		return nil, fmt.Errorf("reading pdf text: %w", err)
	}

	articles := SplitArticles(buf.String(), source)
	if len(articles) == 0 {
		return nil, fmt.Errorf("pdf %s: no article headings found", path)
	}
	slog.Info("fetch: pdf source loaded", "path", path, "source", source, "articles", len(articles))
	return articles, nil
}

// SplitArticles cuts gazette text at article headings. Each segment keeps
// its heading as the article name; text before the first heading (the
// preamble) is discarded.
func SplitArticles(text, source string) []Article {
	locs := articleHeading.FindAllStringSubmatchIndex(text, -1)
	articles := make([]Article, 0, len(locs))

	for i, loc := range locs {
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		segment := text[loc[0]:end]
		number := strings.ToLower(text[loc[2]:loc[3]])
		body := strings.TrimSpace(segment[loc[1]-loc[0]:])

		// References to the article's own heading are not citations;
		// DetectTextRefs runs on the body only, after the heading.
		articles = append(articles, Article{
			Name:       strings.TrimSpace(text[loc[0]:loc[1]]),
			Identifier: articleIdentifier(source, number),
			RawBody:    body,
			Links:      DetectTextRefs(source, body),
		})
	}
	return articles
}
