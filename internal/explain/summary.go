package explain

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ppiankov/sentinel/internal/model"
)

// maxTopClauses bounds the risky-clause list in a contract summary
const maxTopClauses = 5

// SummarizeContract builds the rule-based overview of a whole document
func SummarizeContract(analyses []model.ClauseAnalysis, risk model.DocumentRisk) model.ContractSummary {
	summary := model.ContractSummary{
		ViolationCounts: map[model.ViolationKind]int{},
		DeviationCounts: map[model.DeviationKind]int{},
		TopRiskyClauses: []model.ClauseRef{},
	}

	var risky []model.ClauseRef
	for _, a := range analyses {
		for _, v := range a.LegalCheck.Violations {
			summary.ViolationCounts[v.Kind]++
			summary.TotalViolations++
		}
		for _, d := range a.Deviation.Deviations {
			summary.DeviationCounts[d.Kind]++
			summary.TotalDeviations++
		}
		if !a.LegalCheck.IsValid {
			summary.InvalidClauses++
		}
		if a.Risk.Score > 0 {
			risky = append(risky, model.ClauseRef{
				ClauseID: a.Index,
				Score:    a.Risk.Score,
				Level:    a.Risk.Level,
				Reason:   clauseReason(a),
			})
		}
	}

	sort.SliceStable(risky, func(i, j int) bool {
		if risky[i].Score != risky[j].Score {
			return risky[i].Score > risky[j].Score
		}
		return risky[i].ClauseID < risky[j].ClauseID
	})
	if len(risky) > maxTopClauses {
		risky = risky[:maxTopClauses]
	}
	if risky != nil {
		summary.TopRiskyClauses = risky
	}

	summary.Overview = overview(summary, risk)
	return summary
}

// clauseReason picks the most informative finding description for a clause
func clauseReason(a model.ClauseAnalysis) string {
	var best *model.Violation
	for i := range a.LegalCheck.Violations {
		v := &a.LegalCheck.Violations[i]
		if best == nil || v.Severity.Rank() > best.Severity.Rank() {
			best = v
		}
	}
	if best != nil {
		return best.Description
	}
	if len(a.Deviation.Deviations) > 0 {
		return a.Deviation.Deviations[0].Description
	}
	return ""
}

func overview(s model.ContractSummary, risk model.DocumentRisk) string {
	var b strings.Builder

	fmt.Fprintf(&b, "The contract was split into %d clause(s) with an overall risk score of %.2f/100 (%s).",
		risk.TotalClauses, risk.OverallScore, risk.RiskLevel)

	if s.TotalViolations == 0 && s.TotalDeviations == 0 {
		b.WriteString(" No statutory violations or deviations from the fairness standard were detected.")
		return b.String()
	}

	fmt.Fprintf(&b, " Found %d legal violation(s) and %d deviation(s) from the fairness standard.",
		s.TotalViolations, s.TotalDeviations)

	if s.InvalidClauses > 0 {
		fmt.Fprintf(&b, " %d clause(s) contain high or critical violations and may be unenforceable.", s.InvalidClauses)
	}
	if risk.CriticalCount > 0 {
		fmt.Fprintf(&b, " %d clause(s) are rated critical.", risk.CriticalCount)
	}
	if len(s.ViolationCounts) > 0 {
		b.WriteString(" Most common issue: ")
		b.WriteString(mostCommon(s.ViolationCounts))
		b.WriteString(".")
	}
	return b.String()
}

// mostCommon returns the most frequent violation kind, ties broken by name
func mostCommon(counts map[model.ViolationKind]int) string {
	var best model.ViolationKind
	bestN := -1
	for kind, n := range counts {
		if n > bestN || (n == bestN && kind < best) {
			best, bestN = kind, n
		}
	}
	return strings.ReplaceAll(string(best), "_", " ")
}
