package fetch

import (
	"strings"
	"testing"
)

const articlePage = `<html><body>
<h1 class="hbox-header"> Art. 2043 Risarcimento per fatto illecito </h1>
<div class="corpoDelTesto">
Qualunque fatto doloso o colposo [<a href="/codice-civile/libro-quarto/art-1223.html">1223</a>]
obbliga colui che ha commesso il fatto a risarcire il danno
(<a href="/dizionario/danno.html">danno</a>).
<a href="#nota_1">nota</a>
</div>
</body></html>`

func TestParseArticle(t *testing.T) {
	name, body, links, err := ParseArticle(strings.NewReader(articlePage))
	if err != nil {
		t.Fatalf("ParseArticle: %v", err)
	}
	if name != "Art. 2043 Risarcimento per fatto illecito" {
		t.Errorf("name = %q", name)
	}
	if !strings.Contains(body, "obbliga colui che ha commesso il fatto") {
		t.Errorf("body missing article text: %q", body)
	}
	if len(links) != 3 {
		t.Fatalf("got %d links, want 3", len(links))
	}
	if links[0].Href != "/codice-civile/libro-quarto/art-1223.html" {
		t.Errorf("first link = %q", links[0].Href)
	}
	if links[0].Context != "1223" {
		t.Errorf("first link context = %q", links[0].Context)
	}
}

func TestParseArticleMissingHeader(t *testing.T) {
	page := `<html><body><div class="corpoDelTesto">text</div></body></html>`
	if _, _, _, err := ParseArticle(strings.NewReader(page)); err == nil {
		t.Fatal("expected error for page without header")
	}
}

func TestParseArticleMissingBody(t *testing.T) {
	page := `<html><body><h1 class="hbox-header">Art. 1</h1></body></html>`
	name, body, links, err := ParseArticle(strings.NewReader(page))
	if err != nil {
		t.Fatalf("ParseArticle: %v", err)
	}
	if name != "Art. 1" {
		t.Errorf("name = %q", name)
	}
	if body != "" || links != nil {
		t.Errorf("expected empty body and no links, got %q / %v", body, links)
	}
}

func TestParseSourceIndex(t *testing.T) {
	page := `<html><body>
<div class="section_content content-box content-ext-guide">
<a href="/codice-civile/libro-primo/">Libro Primo</a>
<a href="/codice-civile/libro-secondo/">Libro Secondo</a>
</div>
</body></html>`
	books, err := parseSourceIndex(strings.NewReader(page))
	if err != nil {
		t.Fatalf("parseSourceIndex: %v", err)
	}
	want := []string{"/codice-civile/libro-primo/", "/codice-civile/libro-secondo/"}
	if len(books) != len(want) {
		t.Fatalf("got %d books, want %d", len(books), len(want))
	}
	for i := range want {
		if books[i] != want[i] {
			t.Errorf("book %d = %q, want %q", i, books[i], want[i])
		}
	}
}

func TestParseArticleList(t *testing.T) {
	page := `<html><body>
<a href="/codice-civile/libro-primo/art-1.html">Art. 1</a>
<a href="/codice-civile/libro-primo/art-2.html">Art. 2</a>
<a href="/codice-penale/art-1.html">other source</a>
<a href="/codice-civile/libro-primo/">not an article</a>
</body></html>`
	articles, err := parseArticleList(strings.NewReader(page), "codice-civile")
	if err != nil {
		t.Fatalf("parseArticleList: %v", err)
	}
	if len(articles) != 2 {
		t.Fatalf("got %d articles, want 2: %v", len(articles), articles)
	}
	if articles[0] != "/codice-civile/libro-primo/art-1.html" {
		t.Errorf("first article = %q", articles[0])
	}
}

func TestParseSourceList(t *testing.T) {
	page := `<html><body>
<div class="content-box content-ext-guide">
<a href="/codice-civile/">Codice Civile</a>
<a href="/codice-penale/">Codice Penale</a>
<a href="/fonti.html">not a source</a>
</div>
</body></html>`
	sources, err := parseSourceList(strings.NewReader(page))
	if err != nil {
		t.Fatalf("parseSourceList: %v", err)
	}
	if len(sources) != 2 || sources[0] != "codice-civile" || sources[1] != "codice-penale" {
		t.Errorf("sources = %v", sources)
	}
}
