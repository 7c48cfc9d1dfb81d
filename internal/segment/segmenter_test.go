package segment

import (
	"strings"
	"testing"

	"github.com/ppiankov/sentinel/internal/rules"
)

func newTestSegmenter(t *testing.T) *Segmenter {
	t.Helper()
	s, err := New(rules.Default().Segmentation)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func TestSplitDecimalClauses(t *testing.T) {
	s := newTestSegmenter(t)
	text := `1. Definitions The terms used in this agreement have the meanings below.
2. Employment The Company employs the Employee as a software engineer.
3. Compensation The Employee shall receive a monthly salary of fifty thousand rupees.`

	res := s.Split(text)
	if res.Strategy != "decimal-clause" {
		t.Errorf("strategy = %q, want decimal-clause", res.Strategy)
	}
	if len(res.Clauses) != 3 {
		t.Fatalf("got %d clauses, want 3: %+v", len(res.Clauses), res.Clauses)
	}
	for i, c := range res.Clauses {
		if c.Index != i+1 {
			t.Errorf("clause %d index = %d", i, c.Index)
		}
	}
	if !strings.HasPrefix(res.Clauses[1].Text, "2. Employment") {
		t.Errorf("clause 2 = %q", res.Clauses[1].Text)
	}
}

func TestSplitSubclausePrecedence(t *testing.T) {
	s := newTestSegmenter(t)
	text := "1.1 Scope The consultant provides advisory services to the client. " +
		"1.2 Term The engagement lasts for twelve months from signing. " +
		"1.3 Fees The client pays the agreed fee within thirty days of invoice."

	res := s.Split(text)
	if res.Strategy != "decimal-subclause" {
		t.Fatalf("strategy = %q, want decimal-subclause", res.Strategy)
	}
	if len(res.Clauses) != 3 {
		t.Fatalf("got %d clauses", len(res.Clauses))
	}
	if num, ok := ClauseNumber(res.Clauses[2].Text); !ok || num != "1.3" {
		t.Errorf("ClauseNumber = %q, %v", num, ok)
	}
}

func TestSplitArticles(t *testing.T) {
	s := newTestSegmenter(t)
	text := "Article 1 The parties to this agreement are named in the schedule. " +
		"Article 2 The Supplier shall deliver goods within the agreed timelines. " +
		"Article 3 Payment shall be made within thirty days of delivery of goods."

	res := s.Split(text)
	if res.Strategy != "article" {
		t.Fatalf("strategy = %q, want article", res.Strategy)
	}
	if len(res.Clauses) != 3 {
		t.Fatalf("got %d clauses", len(res.Clauses))
	}
}

func TestSplitFallsBackToSentences(t *testing.T) {
	s := newTestSegmenter(t)
	// Only two numbered markers: structural segmentation must not win
	text := "1. Parties This agreement is made between the Company and the Employee. " +
		"2. Duties The Employee shall perform the duties assigned from time to time. " +
		"Provided that the duties remain reasonable and lawful in all respects. " +
		"Salary is paid on the last working day of every calendar month."

	res := s.Split(text)
	if res.Strategy != StrategySentences {
		t.Fatalf("strategy = %q, want %q", res.Strategy, StrategySentences)
	}
	if len(res.Clauses) != 2 {
		t.Fatalf("got %d clauses, want 2: %+v", len(res.Clauses), res.Clauses)
	}
	if !strings.HasSuffix(res.Clauses[0].Text, "reasonable and lawful in all respects.") {
		t.Errorf("boundary phrase should close the first clause: %q", res.Clauses[0].Text)
	}
	if !strings.HasPrefix(res.Clauses[1].Text, "Salary is paid") {
		t.Errorf("second clause = %q", res.Clauses[1].Text)
	}
}

func TestSentencesFlushOnLength(t *testing.T) {
	r := rules.Default().Segmentation
	r.MaxClauseLength = 60
	s, err := New(r)
	if err != nil {
		t.Fatal(err)
	}

	text := "The employee agrees to the following working arrangement. " +
		"Work starts at nine in the morning on weekdays only. " +
		"Overtime is compensated at the statutory rate for all staff."

	clauses := s.Segment(text)
	if len(clauses) != 2 {
		t.Fatalf("got %d clauses, want 2: %q", len(clauses), clauses)
	}
}

func TestFilterDropsNoise(t *testing.T) {
	s := newTestSegmenter(t)
	candidates := []string{
		"too short",
		"Page 3 of the employment agreement between the parties",
		"CONFIDENTIAL",
		"12345 67890 12345 67890 12345 67890 12345 ab",
		"The Employee shall keep all company information confidential.",
	}

	kept := s.filter(candidates)
	if len(kept) != 1 {
		t.Fatalf("kept %d candidates, want 1: %q", len(kept), kept)
	}
	if !strings.HasPrefix(kept[0], "The Employee") {
		t.Errorf("kept = %q", kept[0])
	}
}

func TestNormalize(t *testing.T) {
	got := Normalize("  1 . 1   Scope\n\n of\twork  ")
	if got != "1.1 Scope of work" {
		t.Errorf("Normalize = %q", got)
	}
}

func TestSegmentIsIdempotentOnMinimalClause(t *testing.T) {
	s := newTestSegmenter(t)
	clause := "The Employee shall give thirty days written notice before resigning."

	first := s.Segment(clause)
	if len(first) != 1 || first[0] != clause {
		t.Fatalf("first pass = %q", first)
	}
	second := s.Segment(first[0])
	if len(second) != 1 || second[0] != first[0] {
		t.Errorf("second pass = %q, want %q", second, first)
	}
}

func TestSegmentRunOnShortTextYieldsNothing(t *testing.T) {
	s := newTestSegmenter(t)

	for _, text := range []string{"", "   ", "signed and sealed"} {
		res := s.Split(text)
		if len(res.Clauses) != 0 {
			t.Errorf("%q: got %d clauses, want 0", text, len(res.Clauses))
		}
		if res.Strategy != StrategyNone {
			t.Errorf("%q: strategy = %q", text, res.Strategy)
		}
	}
}

func TestClauseNumber(t *testing.T) {
	tests := []struct {
		text string
		want string
		ok   bool
	}{
		{"1.1 Non-Compete", "1.1", true},
		{"  7. Notice", "7", true},
		{"Article 3", "", false},
	}
	for _, tt := range tests {
		got, ok := ClauseNumber(tt.text)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ClauseNumber(%q) = %q, %v", tt.text, got, ok)
		}
	}
}

func TestNewRejectsBadNoisePattern(t *testing.T) {
	r := rules.Default().Segmentation
	r.NoisePatterns = []string{"("}
	if _, err := New(r); err == nil {
		t.Fatal("expected compile error")
	}
}

func TestDecimalMarkerIgnoresCase(t *testing.T) {
	var decimal Matcher
	for _, m := range DefaultMatchers() {
		if m.Name == "decimal-clause" {
			decimal = m
		}
	}
	if decimal.Pattern == nil {
		t.Fatal("decimal-clause matcher missing")
	}

	text := "Payment is due within 30. days of invoice. 2. Notice Either party may give notice."
	if got := len(decimal.Pattern.FindAllStringSubmatchIndex(text, -1)); got != 2 {
		t.Errorf("got %d decimal markers, want 2 (lower-case letters count)", got)
	}
}
