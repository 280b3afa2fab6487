package fetch

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/pmarcenaro/lexgraph/extract"
)

// Cross-reference patterns for plain-text sources. Gazette PDFs carry no
// hyperlinks, so citations have to be recovered from the prose itself.
var textRefPatterns = []*regexp.Regexp{
	// "art. 5", "articolo 12", "Art. 2-bis"
	regexp.MustCompile(`(?i)\bart(?:icolo)?\.?\s+(\d+(?:-[a-z]+)?)`),
	// "artt. 5 e 6" — the first number of a plural citation
	regexp.MustCompile(`(?i)\bartt\.?\s+(\d+(?:-[a-z]+)?)`),
}

// DetectTextRefs scans prose for article citations and returns them as
// links into the synthetic identifier namespace of the given source
// ("/<source>/art-<n>"). Duplicate targets are kept once, first occurrence
// wins.
func DetectTextRefs(source, text string) []extract.Link {
	seen := make(map[string]bool)
	var links []extract.Link
	for _, re := range textRefPatterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			target := articleIdentifier(source, m[1])
			if seen[target] {
				continue
			}
			seen[target] = true
			links = append(links, extract.Link{
				Href:    target,
				Context: strings.TrimSpace(m[0]),
			})
		}
	}
	return links
}

// articleIdentifier builds the synthetic identifier for article n of a
// plain-text source.
func articleIdentifier(source, n string) string {
	return fmt.Sprintf("/%s/art-%s", source, strings.ToLower(n))
}
