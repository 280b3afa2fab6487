package graph

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/pmarcenaro/lexgraph/corpus"
)

func record(t *testing.T, name, identifier string, refs ...string) corpus.ArticleRecord {
	t.Helper()
	rec, err := corpus.NewArticleRecord(name, identifier, "testo", refs)
	if err != nil {
		t.Fatalf("NewArticleRecord(%q): %v", identifier, err)
	}
	return rec
}

func TestBuildDropsUnresolvedReferences(t *testing.T) {
	c := corpus.Corpus{
		record(t, "A", "/a", "/b", "/z"), // /z does not exist anywhere
		record(t, "B", "/b", "/a"),
		record(t, "C", "/c"),
	}

	m := Build(c)
	want := [][]float64{
		{0, 1, 0},
		{1, 0, 0},
		{0, 0, 0},
	}
	if !reflect.DeepEqual(m.Rows(), want) {
		t.Errorf("matrix = %v, want %v", m.Rows(), want)
	}
}

func TestBuildSelfReference(t *testing.T) {
	c := corpus.Corpus{
		record(t, "A", "/a", "/a"),
		record(t, "B", "/b"),
	}
	m := Build(c)
	if m.At(0, 0) != 1 {
		t.Error("self-reference must be recorded as-is")
	}
}

func TestBuildDuplicateIdentifierFirstMatch(t *testing.T) {
	c := corpus.Corpus{
		record(t, "X", "/dup"),
		record(t, "X bis", "/dup"),
		record(t, "Y", "/y", "/dup"),
	}
	m := Build(c)
	if m.At(2, 0) != 1 {
		t.Error("reference to duplicated identifier must resolve to the first-seen row")
	}
	if m.At(2, 1) != 0 {
		t.Error("reference must not also resolve to the later duplicate row")
	}
}

func TestMatrixSaveLoadRoundTrip(t *testing.T) {
	c := corpus.Corpus{
		record(t, "A", "/a", "/b"),
		record(t, "B", "/b", "/a", "/b"),
	}
	m := Build(c)

	path := filepath.Join(t.TempDir(), "matrix", "adjacency.bin")
	if err := m.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := LoadMatrix(path)
	if err != nil {
		t.Fatalf("LoadMatrix: %v", err)
	}
	if loaded.Size() != m.Size() || !reflect.DeepEqual(loaded.Rows(), m.Rows()) {
		t.Errorf("round trip mismatch: %v vs %v", loaded.Rows(), m.Rows())
	}
}

func TestLoadMatrixRejectsForeignFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "not-a-matrix.bin")
	if err := os.WriteFile(path, []byte("JUNKDATA"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadMatrix(path); err == nil {
		t.Error("expected error for unrecognized matrix format")
	}
}
