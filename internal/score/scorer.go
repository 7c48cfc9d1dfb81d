package score

import (
	"fmt"
	"math"

	"github.com/ppiankov/sentinel/internal/model"
	"github.com/ppiankov/sentinel/internal/rules"
)

// Scorer combines legal, deviation and frequency sub-scores into a clause
// risk score and aggregates clause scores for a document
type Scorer struct {
	rules rules.ScoringRules
}

// NewScorer creates a new scorer
func NewScorer(rs *rules.RuleSet) *Scorer {
	return &Scorer{rules: rs.Scoring}
}

// Score calculates the clause risk score and its diagnostic signals.
// The result depends only on the two finding lists.
func (s *Scorer) Score(check model.LegalCheck, dev model.DeviationCheck) model.RiskScore {
	w := s.rules.Weights

	// 1. Legal invalidity (50%)
	legal, legalSignal := s.calculateLegal(check.Violations)

	// 2. Deviation severity (30%)
	deviation, deviationSignal := s.calculateDeviation(dev.Deviations)

	// 3. Frequency (20%)
	frequency, frequencySignal := s.calculateFrequency(len(check.Violations), len(dev.Deviations))

	total := legal*w.Legal + deviation*w.Deviation + frequency*w.Frequency
	total = round2(clamp(total, 0, 100))

	return model.RiskScore{
		Score:   total,
		Level:   s.Level(total),
		Signals: []model.Signal{legalSignal, deviationSignal, frequencySignal},
	}
}

// Level maps a 0-100 score to its risk level
func (s *Scorer) Level(score float64) model.RiskLevel {
	return s.rules.Thresholds.Level(score)
}

// calculateLegal returns the highest per-kind severity score (0-100 points)
func (s *Scorer) calculateLegal(violations []model.Violation) (float64, model.Signal) {
	max := 0.0
	critical := 0
	for _, v := range violations {
		if score := s.rules.SeverityScores[v.Kind]; score > max {
			max = score
		}
		if v.Severity == model.SeverityCritical {
			critical++
		}
	}

	score := max
	boosted := false
	if critical > 1 {
		score = math.Min(score*s.rules.CriticalBoost, 100)
		boosted = true
	}

	description := "No legal violations"
	if len(violations) > 0 {
		description = fmt.Sprintf("%d violation(s), highest severity score %.0f", len(violations), max)
		if boosted {
			description += fmt.Sprintf(", boosted for %d critical", critical)
		}
	}

	return score, model.Signal{
		Type:        model.SignalLegalInvalidity,
		Value:       score,
		Weight:      s.rules.Weights.Legal,
		Description: description,
		Data: map[string]interface{}{
			"violations":     len(violations),
			"critical":       critical,
			"max_type_score": max,
			"boost":          s.rules.CriticalBoost,
			"boosted":        boosted,
			"score":          score,
			"formula":        "max(type_score); if critical > 1: min(max * boost, 100)",
		},
	}
}

// calculateDeviation sums severity points across deviations (0-100 points)
func (s *Scorer) calculateDeviation(deviations []model.Deviation) (float64, model.Signal) {
	sum := 0.0
	bySeverity := map[string]int{}
	for _, d := range deviations {
		sum += s.rules.DeviationPoints[d.Severity]
		bySeverity[d.Severity.String()]++
	}
	score := math.Min(sum, 100)

	description := "No deviations from the fairness standard"
	if len(deviations) > 0 {
		description = fmt.Sprintf("%d deviation(s) totalling %.0f points", len(deviations), sum)
	}

	return score, model.Signal{
		Type:        model.SignalDeviation,
		Value:       score,
		Weight:      s.rules.Weights.Deviation,
		Description: description,
		Data: map[string]interface{}{
			"deviations":  len(deviations),
			"by_severity": bySeverity,
			"points":      sum,
			"score":       score,
			"formula":     "min(sum(severity_points), 100)",
		},
	}
}

// calculateFrequency scores the raw number of findings (0-100 points)
func (s *Scorer) calculateFrequency(violations, deviations int) (float64, model.Signal) {
	issues := violations + deviations
	score := math.Min(s.rules.FrequencyPointsPerIssue*float64(issues), 100)

	return score, model.Signal{
		Type:        model.SignalFrequency,
		Value:       score,
		Weight:      s.rules.Weights.Frequency,
		Description: fmt.Sprintf("%d finding(s)", issues),
		Data: map[string]interface{}{
			"violations":       violations,
			"deviations":       deviations,
			"points_per_issue": s.rules.FrequencyPointsPerIssue,
			"score":            score,
			"formula":          "min(points_per_issue * (violations + deviations), 100)",
		},
	}
}

// Aggregate computes the document risk. The overall score is the mean of
// clause scores but the level is that of the worst clause, so one severe
// clause is never averaged away.
func (s *Scorer) Aggregate(scores []model.RiskScore) model.DocumentRisk {
	risk := model.DocumentRisk{
		RiskLevel:    model.RiskLow,
		TotalClauses: len(scores),
	}
	if len(scores) == 0 {
		return risk
	}

	sum := 0.0
	for _, sc := range scores {
		sum += sc.Score
		switch sc.Level {
		case model.RiskCritical:
			risk.CriticalCount++
		case model.RiskHigh:
			risk.HighCount++
		case model.RiskMedium:
			risk.MediumCount++
		default:
			risk.LowCount++
		}
		if sc.Level.Rank() > risk.RiskLevel.Rank() {
			risk.RiskLevel = sc.Level
		}
	}
	risk.OverallScore = round2(sum / float64(len(scores)))
	return risk
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
