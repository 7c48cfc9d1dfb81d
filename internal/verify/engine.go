// Package verify checks a clause against the statutory violation rules.
package verify

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/ppiankov/sentinel/internal/model"
	"github.com/ppiankov/sentinel/internal/rules"
)

var percentRe = regexp.MustCompile(`(\d+)\s*(?:%|percent)`)

// Detector is one independent violation check over lowercased clause text.
// Check returns nil when the clause does not breach the rule.
type Detector struct {
	Name    string
	Kind    model.ViolationKind
	Section string // Label added to applicable sections when the detector fires
	Check   func(lower string) *model.Violation
}

// Engine runs every detector, in order, over a clause
type Engine struct {
	detectors      []Detector
	severityScores map[model.ViolationKind]float64
	thresholds     rules.Thresholds
}

// NewEngine creates a rule engine from a rule set
func NewEngine(rs *rules.RuleSet) *Engine {
	return &Engine{
		detectors:      Detectors(rs),
		severityScores: rs.Scoring.SeverityScores,
		thresholds:     rs.Scoring.Thresholds,
	}
}

// Detectors returns the violation detectors in execution order
func Detectors(rs *rules.RuleSet) []Detector {
	d := rs.Detectors
	amountRe := amountPattern(d.Penalty.CurrencyUnitSuffix)

	return []Detector{
		{
			Name:    "non-compete",
			Kind:    model.ViolationNonCompete,
			Section: d.NonCompete.Section,
			Check: func(lower string) *model.Violation {
				if !d.NonCompete.Keywords.Match(lower) || d.NonCompete.Exceptions.Match(lower) {
					return nil
				}
				return violation(model.ViolationNonCompete, d.NonCompete.Finding)
			},
		},
		{
			Name:    "unlawful-object",
			Kind:    model.ViolationUnlawfulObject,
			Section: d.Unlawful.Section,
			Check: func(lower string) *model.Violation {
				if !d.Unlawful.Keywords.Match(lower) {
					return nil
				}
				return violation(model.ViolationUnlawfulObject, d.Unlawful.Finding)
			},
		},
		{
			Name:    "excessive-penalty",
			Kind:    model.ViolationExcessivePenalty,
			Section: d.Penalty.Section,
			Check: func(lower string) *model.Violation {
				if !d.Penalty.Keywords.Match(lower) {
					return nil
				}
				excessive := anyPercentAbove(lower, d.Penalty.MaxPercent)
				absolute := d.Penalty.AbsolutePhrases.Match(lower) && amountRe.MatchString(lower)
				if !excessive && !absolute {
					return nil
				}
				return violation(model.ViolationExcessivePenalty, d.Penalty.Finding)
			},
		},
		{
			Name:    "ip-overreach",
			Kind:    model.ViolationIPOverreach,
			Section: d.IPOverreach.Section,
			Check: func(lower string) *model.Violation {
				if !d.IPOverreach.Keywords.Match(lower) || !d.IPOverreach.Overreach.Match(lower) {
					return nil
				}
				return violation(model.ViolationIPOverreach, d.IPOverreach.Finding)
			},
		},
		{
			Name:    "unfair-terms",
			Kind:    model.ViolationUnfairTerms,
			Section: d.UnfairTerms.Section,
			Check: func(lower string) *model.Violation {
				if !d.UnfairTerms.Keywords.Match(lower) {
					return nil
				}
				return violation(model.ViolationUnfairTerms, d.UnfairTerms.Finding)
			},
		},
		{
			Name: "clarity",
			Kind: model.ViolationVagueTerms,
			Check: func(lower string) *model.Violation {
				if len([]rune(strings.TrimSpace(lower))) < d.Clarity.MinLength {
					return violation(model.ViolationVagueTerms, d.Clarity.Short)
				}
				if d.Clarity.VagueQualifier.Count(lower) >= d.Clarity.MinVague {
					return violation(model.ViolationVagueTerms, d.Clarity.Vague)
				}
				return nil
			},
		},
	}
}

// Verify checks one clause. The law record, when present, only contributes
// its section label; it never changes which detectors fire.
func (e *Engine) Verify(text string, law *model.LawRecord) model.LegalCheck {
	lower := strings.ToLower(text)

	violations := []model.Violation{}
	sections := []string{}
	isValid := true
	maxScore := 0.0

	for _, det := range e.detectors {
		v := det.Check(lower)
		if v == nil {
			continue
		}
		violations = append(violations, *v)
		if det.Section != "" {
			sections = appendUnique(sections, det.Section)
		}
		if v.Severity.AtLeast(model.SeverityHigh) {
			isValid = false
		}
		if score := e.severityScores[v.Kind]; score > maxScore {
			maxScore = score
		}
	}

	if law != nil && law.Section != "" {
		sections = appendUnique(sections, lawLabel(law))
	}

	return model.LegalCheck{
		IsValid:            isValid,
		Violations:         violations,
		RiskLevel:          e.thresholds.Level(maxScore),
		ApplicableSections: sections,
		TotalViolations:    len(violations),
	}
}

func violation(kind model.ViolationKind, f rules.Finding) *model.Violation {
	return &model.Violation{
		Kind:           kind,
		Severity:       f.Severity,
		LawReference:   f.LawReference,
		Description:    f.Description,
		Recommendation: f.Recommendation,
	}
}

// amountPattern matches a number followed by one of the currency units
func amountPattern(units rules.Terms) *regexp.Regexp {
	quoted := make([]string, 0, len(units))
	for _, u := range units {
		quoted = append(quoted, regexp.QuoteMeta(strings.ToLower(u)))
	}
	if len(quoted) == 0 {
		return regexp.MustCompile(`$^`)
	}
	return regexp.MustCompile(fmt.Sprintf(`(\d+)\s*(?:%s)`, strings.Join(quoted, "|")))
}

func anyPercentAbove(lower string, ceiling int) bool {
	for _, m := range percentRe.FindAllStringSubmatch(lower, -1) {
		pct, err := strconv.Atoi(m[1])
		if err != nil {
			// Digit runs too long for int are certainly above any ceiling
			return true
		}
		if pct > ceiling {
			return true
		}
	}
	return false
}

// lawLabel normalizes a law record section to the "Section N" form
func lawLabel(law *model.LawRecord) string {
	if strings.HasPrefix(strings.ToLower(law.Section), "section") {
		return law.Section
	}
	return "Section " + law.Section
}

func appendUnique(list []string, s string) []string {
	for _, existing := range list {
		if existing == s {
			return list
		}
	}
	return append(list, s)
}
