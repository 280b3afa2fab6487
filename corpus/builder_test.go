package corpus

import (
	"errors"
	"fmt"
	"path/filepath"
	"reflect"
	"testing"
)

// loaderFor returns a Loader serving canned records per source, failing for
// sources listed in fail.
func loaderFor(t *testing.T, perSource map[string][]ArticleRecord, fail map[string]bool) Loader {
	t.Helper()
	return func(source string) ([]ArticleRecord, error) {
		if fail[source] {
			return nil, fmt.Errorf("fetching %s: connection refused", source)
		}
		records, ok := perSource[source]
		if !ok {
			return nil, errors.New("unknown source")
		}
		return records, nil
	}
}

func TestBuildPreservesOrder(t *testing.T) {
	perSource := map[string][]ArticleRecord{
		"a": {
			mustRecord(t, "A1", "/a/t/art-1.html"),
			mustRecord(t, "A2", "/a/t/art-2.html"),
		},
		"b": {
			mustRecord(t, "B1", "/b/t/art-1.html"),
		},
	}

	b := NewBuilder(nil)
	c := b.Build([]string{"a", "b"}, loaderFor(t, perSource, nil))

	wantIDs := []string{"/a/t/art-1.html", "/a/t/art-2.html", "/b/t/art-1.html"}
	if len(c) != len(wantIDs) {
		t.Fatalf("corpus size %d, want %d", len(c), len(wantIDs))
	}
	for i, id := range wantIDs {
		if c[i].Identifier != id {
			t.Errorf("corpus[%d].Identifier = %q, want %q", i, c[i].Identifier, id)
		}
	}
	if len(b.Failed()) != 0 {
		t.Errorf("unexpected failures: %v", b.Failed())
	}
}

func TestBuildPartialFailure(t *testing.T) {
	perSource := map[string][]ArticleRecord{
		"a": {mustRecord(t, "A1", "/a/t/art-1.html")},
		"c": {mustRecord(t, "C1", "/c/t/art-1.html")},
	}
	fail := map[string]bool{"b": true}

	logPath := filepath.Join(t.TempDir(), "errors.txt")
	flog := NewFailureLog(logPath)

	b := NewBuilder(flog)
	c := b.Build([]string{"a", "b", "c"}, loaderFor(t, perSource, fail))

	if len(c) != 2 {
		t.Fatalf("corpus size %d, want 2 (failed source skipped entirely)", len(c))
	}
	if c[0].Identifier != "/a/t/art-1.html" || c[1].Identifier != "/c/t/art-1.html" {
		t.Errorf("unexpected corpus contents: %v", c)
	}

	if got := b.Failed(); !reflect.DeepEqual(got, []string{"b"}) {
		t.Errorf("Failed() = %v, want [b]", got)
	}

	logged, err := flog.Sources()
	if err != nil {
		t.Fatalf("reading failure log: %v", err)
	}
	if !reflect.DeepEqual(logged, []string{"b"}) {
		t.Errorf("failure log = %v, want exactly [b]", logged)
	}
}

func TestFailureLogAppends(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "errors.txt")
	flog := NewFailureLog(logPath)

	for _, s := range []string{"x", "y"} {
		if err := flog.Append(s); err != nil {
			t.Fatalf("Append(%q): %v", s, err)
		}
	}
	got, err := flog.Sources()
	if err != nil {
		t.Fatalf("Sources: %v", err)
	}
	if !reflect.DeepEqual(got, []string{"x", "y"}) {
		t.Errorf("Sources() = %v, want [x y]", got)
	}
}

func TestBuildRetainsDuplicateIdentifiers(t *testing.T) {
	perSource := map[string][]ArticleRecord{
		"a": {mustRecord(t, "A1", "/shared/t/art-1.html")},
		"b": {mustRecord(t, "B1", "/shared/t/art-1.html")},
	}

	b := NewBuilder(nil)
	c := b.Build([]string{"a", "b"}, loaderFor(t, perSource, nil))

	// No deduplication across sources: both records are retained.
	if len(c) != 2 {
		t.Fatalf("corpus size %d, want 2", len(c))
	}
	if c.IndexByIdentifier()["/shared/t/art-1.html"] != 0 {
		t.Error("duplicate identifier must resolve to the first-seen index")
	}
}
