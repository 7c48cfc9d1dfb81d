package rules

import (
	"strings"
	"unicode"

	"github.com/ppiankov/sentinel/internal/model"
)

// shortTermLen is the length at or below which a term must match a whole word.
// Without it "ip" would match "relationship" and "nda" would match "calendar".
const shortTermLen = 3

// Terms is an ordered keyword list. Matching is case-insensitive; callers pass
// text that is already lowercased.
type Terms []string

// Match reports whether any term occurs in lower
func (t Terms) Match(lower string) bool {
	_, ok := t.First(lower)
	return ok
}

// First returns the first term, in list order, that occurs in lower
func (t Terms) First(lower string) (string, bool) {
	for _, term := range t {
		if ContainsTerm(lower, term) {
			return term, true
		}
	}
	return "", false
}

// Count returns how many distinct terms occur in lower
func (t Terms) Count(lower string) int {
	count := 0
	for _, term := range t {
		if ContainsTerm(lower, term) {
			count++
		}
	}
	return count
}

// ContainsTerm reports whether term occurs in lower. Short terms only match
// on word boundaries; longer terms are plain substring matches.
func ContainsTerm(lower, term string) bool {
	term = strings.ToLower(term)
	if term == "" {
		return false
	}
	if len(term) > shortTermLen {
		return strings.Contains(lower, term)
	}

	offset := 0
	for {
		idx := strings.Index(lower[offset:], term)
		if idx < 0 {
			return false
		}
		start := offset + idx
		end := start + len(term)
		if isBoundary(lower, start-1) && isBoundary(lower, end) {
			return true
		}
		offset = start + 1
	}
}

func isBoundary(s string, i int) bool {
	if i < 0 || i >= len(s) {
		return true
	}
	r := rune(s[i])
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

// Phrases is an ordered indicator list where the first match wins
type Phrases []PhraseSeverity

// First returns the first indicator, in list order, that occurs in lower
func (p Phrases) First(lower string) (PhraseSeverity, bool) {
	for _, ps := range p {
		if ContainsTerm(lower, ps.Phrase) {
			return ps, true
		}
	}
	return PhraseSeverity{}, false
}

// PhraseSeverity pairs an indicator phrase with the severity it implies
type PhraseSeverity struct {
	Phrase   string         `yaml:"phrase"`
	Severity model.Severity `yaml:"severity"`
}
