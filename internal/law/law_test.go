package law

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ppiankov/sentinel/internal/cache"
	"github.com/ppiankov/sentinel/internal/model"
)

func TestDefaultCatalog(t *testing.T) {
	c := DefaultCatalog()
	if c.Len() != 8 {
		t.Fatalf("Expected 8 records, got %d", c.Len())
	}

	for _, q := range []string{"27", "Section 27", "  section   27 "} {
		rec, ok := c.BySection(q)
		if !ok {
			t.Fatalf("BySection(%q) not found", q)
		}
		if rec.Title != "Agreement in restraint of trade" {
			t.Errorf("BySection(%q) = %q", q, rec.Title)
		}
	}
	if _, ok := c.BySection("999"); ok {
		t.Error("unexpected match for unknown section")
	}
}

func TestCatalogIsImmutable(t *testing.T) {
	c := DefaultCatalog()
	all := c.All()
	all[0].Title = "changed"

	rec, _ := c.BySection("10")
	if rec.Title == "changed" {
		t.Error("All must return a copy")
	}
}

func TestLoadCatalog(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "laws.json")
	content := `[{"section": "Section 1", "act": "Test Act", "title": "Short title", "text": "t", "summary": "s"}]`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	c, err := LoadCatalog(path)
	if err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}
	if c.Len() != 1 {
		t.Errorf("Expected 1 record, got %d", c.Len())
	}
}

func TestLoadCatalogFallsBack(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.json")
	_ = os.WriteFile(bad, []byte(`[{"title": "no section"}]`), 0644)
	empty := filepath.Join(dir, "empty.json")
	_ = os.WriteFile(empty, []byte(`[]`), 0644)

	for _, path := range []string{bad, empty, filepath.Join(dir, "missing.json")} {
		c, err := LoadCatalog(path)
		if err == nil {
			t.Errorf("%s: expected error", path)
		}
		if c == nil || c.Len() != DefaultCatalog().Len() {
			t.Errorf("%s: expected default catalog", path)
		}
	}
}

func TestFindRelevantLaw(t *testing.T) {
	r := NewLexicalRetriever(DefaultCatalog())
	ctx := context.Background()

	tests := []struct {
		text    string
		section string
	}{
		{"The Employee shall not compete and agrees to a restraint of trade.", "Section 27"},
		{"Copyright in all deliverables is assigned to the Client.", "Section 64"},
		{"The Employee shall pay liquidated penalty as compensation for breach.", "Section 74"},
	}

	for _, tt := range tests {
		rec, err := r.FindRelevantLaw(ctx, tt.text)
		if err != nil {
			t.Fatalf("FindRelevantLaw: %v", err)
		}
		if rec == nil {
			t.Fatalf("%q: expected a match", tt.text)
		}
		if rec.Section != tt.section {
			t.Errorf("%q: got %s, want %s", tt.text, rec.Section, tt.section)
		}
		if rec.RelevanceScore == nil || *rec.RelevanceScore <= 0 || *rec.RelevanceScore > 1 {
			t.Errorf("%q: relevance score out of range: %v", tt.text, rec.RelevanceScore)
		}
	}
}

func TestFindRelevantLawNoMatch(t *testing.T) {
	r := NewLexicalRetriever(DefaultCatalog())

	rec, err := r.FindRelevantLaw(context.Background(), "Lorem ipsum dolor sit amet.")
	if err != nil {
		t.Fatal(err)
	}
	if rec != nil {
		t.Errorf("Expected nil, got %+v", rec)
	}
}

func TestFindRelevantLawCancelled(t *testing.T) {
	r := NewLexicalRetriever(DefaultCatalog())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := r.FindRelevantLaw(ctx, "restraint of trade"); err == nil {
		t.Error("Expected context error")
	}
}

func TestFindRelevantLawUsesMemo(t *testing.T) {
	memo := cache.NewMemoryCache(time.Minute, time.Minute)
	r := NewLexicalRetriever(DefaultCatalog(), WithMemo(memo, time.Minute))
	ctx := context.Background()
	text := "Copyright in all deliverables is assigned to the Client."

	first, err := r.FindRelevantLaw(ctx, text)
	if err != nil || first == nil {
		t.Fatalf("first lookup: %+v, %v", first, err)
	}
	if memo.Len() != 1 {
		t.Errorf("Expected one memo entry, got %d", memo.Len())
	}

	// A planted entry proves the second lookup is served from the memo
	planted := memoEntry{Law: &model.LawRecord{Section: "Section 0", Act: "Memo Act"}}
	if err := cache.SetJSON(memo, cache.CacheKey("law", text), planted, time.Minute); err != nil {
		t.Fatal(err)
	}
	second, err := r.FindRelevantLaw(ctx, text)
	if err != nil {
		t.Fatal(err)
	}
	if second == nil || second.Section != "Section 0" {
		t.Errorf("Expected memoized record, got %+v", second)
	}

	// Misses are memoized as well
	if _, err := r.FindRelevantLaw(ctx, "Lorem ipsum dolor sit amet."); err != nil {
		t.Fatal(err)
	}
	if memo.Len() != 2 {
		t.Errorf("Expected two memo entries, got %d", memo.Len())
	}
}

func TestFindRelevantLaws(t *testing.T) {
	r := NewLexicalRetriever(DefaultCatalog())

	laws, err := r.FindRelevantLaws(context.Background(), "agreement restraint void", 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(laws) == 0 || len(laws) > 3 {
		t.Fatalf("Expected 1-3 records, got %d", len(laws))
	}
	for i := 1; i < len(laws); i++ {
		if *laws[i].RelevanceScore > *laws[i-1].RelevanceScore {
			t.Errorf("records not sorted by relevance: %v", laws)
		}
	}

	none, _ := r.FindRelevantLaws(context.Background(), "restraint", 0)
	if len(none) != 0 {
		t.Errorf("k=0 should return nothing, got %d", len(none))
	}
}

func TestTokenize(t *testing.T) {
	got := tokenize("The Agreements and the agreement, shall NOT restrain trade!")
	want := []string{"agreement", "restrain", "trade"}
	if len(got) != len(want) {
		t.Fatalf("tokenize = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d = %q, want %q", i, got[i], want[i])
		}
	}
}
