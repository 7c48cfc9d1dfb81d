// Package deviation compares clauses against a fairness standard. A deviation
// is a departure from fair terms and is reported whether or not the clause is
// also unlawful.
package deviation

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/ppiankov/sentinel/internal/model"
	"github.com/ppiankov/sentinel/internal/rules"
)

var (
	percentRe = regexp.MustCompile(`(\d+)\s*(?:%|percent)`)
	lakhRe    = regexp.MustCompile(`(\d+)\s*(?:lakh|lakhs)`)
)

// DurationMatcher extracts one unit of duration. Matchers are tried in
// order and each contributes only its first match.
type DurationMatcher struct {
	Unit     string
	Pattern  *regexp.Regexp
	ToMonths func(n int) float64
}

// DurationMatchers returns the duration matchers in precedence order
func DurationMatchers() []DurationMatcher {
	return []DurationMatcher{
		{Unit: "months", Pattern: regexp.MustCompile(`(\d+)\s*months?`), ToMonths: func(n int) float64 { return float64(n) }},
		{Unit: "years", Pattern: regexp.MustCompile(`(\d+)\s*years?`), ToMonths: func(n int) float64 { return float64(n) * 12 }},
		{Unit: "days", Pattern: regexp.MustCompile(`(\d+)\s*days?`), ToMonths: func(n int) float64 { return float64(n) / 30 }},
	}
}

// Engine runs the deviation sub-checks. The fairness standard is fixed at
// construction and only read afterwards.
type Engine struct {
	rules     rules.DeviationRules
	standard  model.FairnessStandard
	durations []DurationMatcher
}

// NewEngine creates a deviation engine
func NewEngine(rs *rules.RuleSet, standard model.FairnessStandard) *Engine {
	return &Engine{
		rules:     rs.Deviation,
		standard:  standard,
		durations: DurationMatchers(),
	}
}

// Standard returns the fairness standard the engine compares against
func (e *Engine) Standard() model.FairnessStandard {
	return e.standard
}

// Check compares one clause against the fairness standard
func (e *Engine) Check(text string) model.DeviationCheck {
	lower := strings.ToLower(text)

	checks := []func(string) *model.Deviation{
		e.checkDuration,
		e.checkPenalty,
		e.checkIPScope,
		e.checkTermination,
	}

	deviations := []model.Deviation{}
	severity := model.SeverityNone
	for _, check := range checks {
		if d := check(lower); d != nil {
			deviations = append(deviations, *d)
			severity = model.MaxSeverity(severity, d.Severity)
		}
	}

	return model.DeviationCheck{
		HasDeviation:    len(deviations) > 0,
		Deviations:      deviations,
		Severity:        severity,
		TotalDeviations: len(deviations),
		FairStandard:    e.standard.Name,
	}
}

// checkDuration interprets the first duration of each unit as a notice
// period or non-compete term. The first unit producing a finding wins.
func (e *Engine) checkDuration(lower string) *model.Deviation {
	isNotice := e.rules.NoticeKeywords.Match(lower)
	isNonCompete := e.rules.NonCompeteKeywords.Match(lower)
	if !isNotice && !isNonCompete {
		return nil
	}

	for _, m := range e.durations {
		n, ok := firstInt(m.Pattern, lower)
		if !ok {
			continue
		}
		actual := fmt.Sprintf("%d %s", n, m.Unit)

		if isNotice && m.Unit == "days" {
			fair := e.standard.NoticePeriodDays
			if float64(n) > float64(fair)*e.rules.NoticeToleranceFactor {
				return &model.Deviation{
					Kind:              model.DeviationExcessiveNotice,
					Severity:          model.SeverityMedium,
					ActualValue:       actual,
					FairStandardValue: fmt.Sprintf("%d days", fair),
					Description:       fmt.Sprintf("Notice period of %d days exceeds fair standard of %d days.", n, fair),
				}
			}
		}

		if isNonCompete && m.ToMonths(n) > float64(e.standard.NonCompeteMonths) {
			fair := fmt.Sprintf("%d months", e.standard.NonCompeteMonths)
			if e.standard.NonCompeteMonths == 0 {
				fair = "0 (invalid in India)"
			}
			return &model.Deviation{
				Kind:              model.DeviationNonCompeteDuration,
				Severity:          model.SeverityCritical,
				ActualValue:       actual,
				FairStandardValue: fair,
				Description:       "Non-compete clauses are generally unenforceable in India regardless of duration.",
			}
		}
	}
	return nil
}

func (e *Engine) checkPenalty(lower string) *model.Deviation {
	if !e.rules.PenaltyKeywords.Match(lower) {
		return nil
	}

	if pct, ok := firstInt(percentRe, lower); ok {
		fair := e.standard.PenaltyPercentage
		if float64(pct) > float64(fair)*e.rules.PenaltyToleranceFactor {
			return &model.Deviation{
				Kind:              model.DeviationExcessivePenalty,
				Severity:          model.SeverityHigh,
				ActualValue:       fmt.Sprintf("%d%%", pct),
				FairStandardValue: fmt.Sprintf("≤%d%%", fair),
				Description:       fmt.Sprintf("Penalty of %d%% significantly exceeds fair standard of %d%%.", pct, fair),
			}
		}
	}

	if lakhs, ok := firstInt(lakhRe, lower); ok && lakhs >= e.rules.FixedPenaltyLakhs {
		return &model.Deviation{
			Kind:              model.DeviationHighFixedPenalty,
			Severity:          model.SeverityMedium,
			ActualValue:       fmt.Sprintf("%d lakhs", lakhs),
			FairStandardValue: "Reasonable compensation only",
			Description:       "High fixed penalty amount may be deemed excessive by courts.",
		}
	}
	return nil
}

func (e *Engine) checkIPScope(lower string) *model.Deviation {
	if !e.rules.IPKeywords.Match(lower) {
		return nil
	}
	hit, ok := e.rules.IPPhrases.First(lower)
	if !ok {
		return nil
	}
	return &model.Deviation{
		Kind:              model.DeviationIPScope,
		Severity:          hit.Severity,
		ActualValue:       fmt.Sprintf("Contains '%s'", hit.Phrase),
		FairStandardValue: "Work-related IP created during employment only",
		Description:       fmt.Sprintf("IP clause is overly broad - includes '%s'.", hit.Phrase),
	}
}

func (e *Engine) checkTermination(lower string) *model.Deviation {
	if !e.rules.TerminationKeywords.Match(lower) {
		return nil
	}
	hit, ok := e.rules.TerminationPhrases.First(lower)
	if !ok {
		return nil
	}
	return &model.Deviation{
		Kind:              model.DeviationUnfairTermination,
		Severity:          hit.Severity,
		ActualValue:       fmt.Sprintf("Contains '%s'", hit.Phrase),
		FairStandardValue: "Termination with cause and notice",
		Description:       fmt.Sprintf("Termination clause allows '%s' which may be unfair to employee.", hit.Phrase),
	}
}

// Score returns the report-only deviation score: severity points summed
// and capped at 100
func (e *Engine) Score(deviations []model.Deviation) float64 {
	return DeviationScore(deviations, e.rules.ScorePoints)
}

// DeviationScore sums points per deviation severity, capped at 100
func DeviationScore(deviations []model.Deviation, points map[model.Severity]float64) float64 {
	total := 0.0
	for _, d := range deviations {
		total += points[d.Severity]
	}
	return math.Min(total, 100)
}

// firstInt returns the integer captured by the first match of re
func firstInt(re *regexp.Regexp, s string) (int, bool) {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return math.MaxInt32, true
	}
	return n, true
}
