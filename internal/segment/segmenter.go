// Package segment splits normalized contract text into ordered clauses.
package segment

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ppiankov/sentinel/internal/model"
	"github.com/ppiankov/sentinel/internal/rules"
)

// Strategy names the segmentation approach that produced a result
const (
	StrategySentences = "sentences"
	StrategyNone      = "none"
)

var (
	whitespaceRe  = regexp.MustCompile(`\s+`)
	splitNumberRe = regexp.MustCompile(`(\d+)\s*\.\s*(\d+)`)
	clauseNumRe   = regexp.MustCompile(`^(\d+(?:\.\d+)?)`)
)

// Matcher is one structural numbering pattern. Group 1 must start at the
// clause marker.
type Matcher struct {
	Name    string
	Pattern *regexp.Regexp
}

// DefaultMatchers returns the structural matchers in precedence order.
// The first matcher with enough matches wins; later ones are not tried.
// All patterns are case-insensitive, so the letter after a decimal marker
// may be lower case: "30. days" counts as a clause marker.
func DefaultMatchers() []Matcher {
	return []Matcher{
		{Name: "decimal-subclause", Pattern: regexp.MustCompile(`(?i)(?:^|\s)(\d+\.\d+\.?\s+[A-Z])`)},
		{Name: "decimal-clause", Pattern: regexp.MustCompile(`(?i)(?:^|\s)(\d+\.\s+[A-Z])`)},
		{Name: "article", Pattern: regexp.MustCompile(`(?i)(?:^|\s)(Article\s+\d+)`)},
		{Name: "clause", Pattern: regexp.MustCompile(`(?i)(?:^|\s)(Clause\s+\d+)`)},
		{Name: "section", Pattern: regexp.MustCompile(`(?i)(?:^|\s)(Section\s+\d+)`)},
	}
}

// Result is the outcome of segmenting one document
type Result struct {
	Clauses  []model.Clause
	Strategy string // Matcher name, StrategySentences, or StrategyNone
}

// Segmenter turns document text into clauses. It holds no mutable state and
// is safe for concurrent use.
type Segmenter struct {
	rules    rules.SegmentationRules
	matchers []Matcher
	noise    []*regexp.Regexp
}

// New creates a segmenter from segmentation rules. Noise patterns are
// matched case-insensitively.
func New(r rules.SegmentationRules) (*Segmenter, error) {
	noise := make([]*regexp.Regexp, 0, len(r.NoisePatterns))
	for _, p := range r.NoisePatterns {
		re, err := regexp.Compile("(?i)" + p)
		if err != nil {
			return nil, err
		}
		noise = append(noise, re)
	}
	return &Segmenter{
		rules:    r,
		matchers: DefaultMatchers(),
		noise:    noise,
	}, nil
}

// Split segments text and reports which strategy won
func (s *Segmenter) Split(text string) Result {
	text = Normalize(text)
	if text == "" {
		return Result{Strategy: StrategyNone}
	}

	candidates, strategy := s.structural(text)
	if len(candidates) < s.rules.MinStructuralMatches {
		candidates = s.sentences(text)
		strategy = StrategySentences
	}

	kept := s.filter(candidates)
	if len(kept) == 0 {
		return Result{Strategy: StrategyNone}
	}

	clauses := make([]model.Clause, len(kept))
	for i, c := range kept {
		clauses[i] = model.Clause{Index: i + 1, Text: c}
	}
	return Result{Clauses: clauses, Strategy: strategy}
}

// Segment returns the clause strings of text in document order
func (s *Segmenter) Segment(text string) []string {
	res := s.Split(text)
	out := make([]string, len(res.Clauses))
	for i, c := range res.Clauses {
		out[i] = c.Text
	}
	return out
}

// Clauses returns the 1-indexed clauses of text
func (s *Segmenter) Clauses(text string) []model.Clause {
	return s.Split(text).Clauses
}

// Normalize collapses whitespace and repairs split decimal numbers ("1 . 1")
func Normalize(text string) string {
	text = whitespaceRe.ReplaceAllString(text, " ")
	text = splitNumberRe.ReplaceAllString(text, "${1}.${2}")
	return strings.TrimSpace(text)
}

// ClauseNumber returns the leading clause label ("1" or "1.1"), if any
func ClauseNumber(text string) (string, bool) {
	m := clauseNumRe.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return "", false
	}
	return m[1], true
}

// structural tries each matcher in order and cuts text at its markers
func (s *Segmenter) structural(text string) ([]string, string) {
	for _, m := range s.matchers {
		locs := m.Pattern.FindAllStringSubmatchIndex(text, -1)
		if len(locs) < s.rules.MinStructuralMatches {
			continue
		}

		clauses := make([]string, 0, len(locs))
		for i, loc := range locs {
			start := loc[2]
			end := len(text)
			if i+1 < len(locs) {
				end = locs[i+1][2]
			}
			clauses = append(clauses, strings.TrimSpace(text[start:end]))
		}
		return clauses, m.Name
	}
	return nil, ""
}

// sentences splits on terminal punctuation and greedily regroups sentences
// until the buffer is too long or a boundary phrase closes it
func (s *Segmenter) sentences(text string) []string {
	var clauses []string
	var buf strings.Builder

	for _, sentence := range splitSentences(text) {
		if buf.Len() > 0 {
			buf.WriteByte(' ')
		}
		buf.WriteString(sentence)

		if utf8.RuneCountInString(buf.String()) > s.rules.MaxClauseLength ||
			s.rules.BoundaryPhrases.Match(strings.ToLower(sentence)) {
			clauses = append(clauses, buf.String())
			buf.Reset()
		}
	}
	if buf.Len() > 0 {
		clauses = append(clauses, buf.String())
	}
	return clauses
}

// splitSentences cuts after '.', '!' or '?' when followed by whitespace and
// an upper-case letter
func splitSentences(text string) []string {
	var out []string
	start := 0

	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '.', '!', '?':
		default:
			continue
		}

		j := i + 1
		for j < len(text) && isSpace(text[j]) {
			j++
		}
		if j == i+1 || j >= len(text) {
			continue
		}
		r, _ := utf8.DecodeRuneInString(text[j:])
		if !unicode.IsUpper(r) {
			continue
		}

		if sentence := strings.TrimSpace(text[start : i+1]); sentence != "" {
			out = append(out, sentence)
		}
		start = j
		i = j - 1
	}

	if tail := strings.TrimSpace(text[start:]); tail != "" {
		out = append(out, tail)
	}
	return out
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\f' || b == '\v'
}

// filter drops short, noisy and mostly non-alphabetic candidates
func (s *Segmenter) filter(candidates []string) []string {
	kept := make([]string, 0, len(candidates))
	for _, c := range candidates {
		c = strings.TrimSpace(c)
		total := utf8.RuneCountInString(c)
		if total < s.rules.MinClauseLength {
			continue
		}
		if s.isNoise(c) {
			continue
		}
		if float64(alphaCount(c)) < float64(total)*s.rules.MinAlphaRatio {
			continue
		}
		kept = append(kept, c)
	}
	return kept
}

func (s *Segmenter) isNoise(c string) bool {
	for _, re := range s.noise {
		if re.MatchString(c) {
			return true
		}
	}
	return false
}

func alphaCount(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsLetter(r) {
			n++
		}
	}
	return n
}
