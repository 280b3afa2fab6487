// Package extract turns a raw article body into cleaned text and a list of
// normalized outgoing reference identifiers.
package extract

import (
	"regexp"
	"strings"
)

// Link is a single anchor found in an article body: the target href and the
// markup context it appeared in (usually the anchor text).
type Link struct {
	Href    string
	Context string
}

const (
	// glossaryPrefix marks links into the legal dictionary; these are
	// definitions, never citations.
	glossaryPrefix = "/dizionario"

	// footnotePrefix marks in-page footnote anchors.
	footnotePrefix = "#nota_"
)

var (
	// Bracketed editorial annotations, optionally preceded by a space.
	reBracket = regexp.MustCompile(`\s?\[[^\]]*\]`)

	// Parenthetical annotations such as repeal notes and date markers.
	reParen = regexp.MustCompile(`\([^)]*\)`)

	// Newlines and space runs collapse to a single space.
	reSpace = regexp.MustCompile(`\s+`)
)

// Clean strips editorial noise from article text: bracketed and
// parenthetical annotations are removed, and all whitespace runs collapse
// to a single space. Clean is idempotent: Clean(Clean(s)) == Clean(s).
func Clean(text string) string {
	text = reBracket.ReplaceAllString(text, "")
	text = reParen.ReplaceAllString(text, "")
	text = reSpace.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// References selects outgoing reference identifiers from an article's raw
// link list.
//
// With allRefs true, every link is kept except glossary links and in-page
// footnote anchors. This over-collects: targets pointing at other sources
// stay in the set, and adjacency resolution later drops the ones that do
// not exist in the corpus. With allRefs false, only links back into the
// same source (prefix "/<sourceID>/") are kept, trading cross-source
// citations for a guaranteed-resolvable set.
func References(sourceID string, links []Link, allRefs bool) []string {
	refs := make([]string, 0, len(links))
	samePrefix := "/" + sourceID + "/"
	for _, l := range links {
		if l.Href == "" {
			continue
		}
		if allRefs {
			if strings.HasPrefix(l.Href, glossaryPrefix) || strings.HasPrefix(l.Href, footnotePrefix) {
				continue
			}
			refs = append(refs, l.Href)
		} else if strings.HasPrefix(l.Href, samePrefix) {
			refs = append(refs, l.Href)
		}
	}
	return refs
}

// Extract cleans the raw body and selects references in one call.
func Extract(sourceID, rawBody string, links []Link, allRefs bool) (string, []string) {
	return Clean(rawBody), References(sourceID, links, allRefs)
}
