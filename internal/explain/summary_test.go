package explain

import (
	"strings"
	"testing"

	"github.com/ppiankov/sentinel/internal/model"
)

func analysis(index int, score float64, level model.RiskLevel, vs []model.Violation, ds []model.Deviation) model.ClauseAnalysis {
	valid := true
	for _, v := range vs {
		if v.Severity.AtLeast(model.SeverityHigh) {
			valid = false
		}
	}
	return model.ClauseAnalysis{
		Clause:     model.Clause{Index: index},
		LegalCheck: model.LegalCheck{IsValid: valid, Violations: vs, TotalViolations: len(vs)},
		Deviation:  model.DeviationCheck{Deviations: ds, TotalDeviations: len(ds)},
		Risk:       model.RiskScore{Score: score, Level: level},
	}
}

func TestSummarizeContract(t *testing.T) {
	analyses := []model.ClauseAnalysis{
		analysis(1, 0, model.RiskLow, nil, nil),
		analysis(2, 49, model.RiskMedium,
			[]model.Violation{{Kind: model.ViolationNonCompete, Severity: model.SeverityCritical, Description: "Non-compete clause detected."}},
			[]model.Deviation{{Kind: model.DeviationNonCompeteDuration, Severity: model.SeverityCritical}}),
		analysis(3, 36.6, model.RiskMedium,
			[]model.Violation{{Kind: model.ViolationUnfairTerms, Severity: model.SeverityMedium, Description: "One-sided."}},
			[]model.Deviation{{Kind: model.DeviationUnfairTermination, Severity: model.SeverityMedium}}),
		analysis(4, 49, model.RiskMedium,
			[]model.Violation{{Kind: model.ViolationUnfairTerms, Severity: model.SeverityMedium, Description: "One-sided again."}},
			nil),
	}
	risk := model.DocumentRisk{OverallScore: 33.65, RiskLevel: model.RiskMedium, MediumCount: 3, LowCount: 1, TotalClauses: 4}

	s := SummarizeContract(analyses, risk)

	if s.TotalViolations != 3 || s.TotalDeviations != 2 {
		t.Errorf("totals = %d/%d", s.TotalViolations, s.TotalDeviations)
	}
	if s.ViolationCounts[model.ViolationUnfairTerms] != 2 || s.ViolationCounts[model.ViolationNonCompete] != 1 {
		t.Errorf("violation counts = %v", s.ViolationCounts)
	}
	if s.DeviationCounts[model.DeviationNonCompeteDuration] != 1 {
		t.Errorf("deviation counts = %v", s.DeviationCounts)
	}
	if s.InvalidClauses != 1 {
		t.Errorf("invalid clauses = %d", s.InvalidClauses)
	}

	// Clause 1 scores zero and is excluded; ties sort by clause index
	wantOrder := []int{2, 4, 3}
	if len(s.TopRiskyClauses) != len(wantOrder) {
		t.Fatalf("top clauses = %+v", s.TopRiskyClauses)
	}
	for i, id := range wantOrder {
		if s.TopRiskyClauses[i].ClauseID != id {
			t.Errorf("top[%d] = %d, want %d", i, s.TopRiskyClauses[i].ClauseID, id)
		}
	}
	if s.TopRiskyClauses[0].Reason != "Non-compete clause detected." {
		t.Errorf("reason = %q", s.TopRiskyClauses[0].Reason)
	}

	for _, want := range []string{"4 clause(s)", "33.65/100 (medium)", "3 legal violation(s) and 2 deviation(s)", "Most common issue: unfair terms."} {
		if !strings.Contains(s.Overview, want) {
			t.Errorf("overview %q missing %q", s.Overview, want)
		}
	}
}

func TestSummarizeContractCapsTopClauses(t *testing.T) {
	var analyses []model.ClauseAnalysis
	for i := 1; i <= 8; i++ {
		analyses = append(analyses, analysis(i, float64(i*10), model.RiskMedium, nil,
			[]model.Deviation{{Kind: model.DeviationExcessiveNotice, Severity: model.SeverityMedium, Description: "Long notice."}}))
	}

	s := SummarizeContract(analyses, model.DocumentRisk{TotalClauses: 8})
	if len(s.TopRiskyClauses) != maxTopClauses {
		t.Fatalf("got %d top clauses", len(s.TopRiskyClauses))
	}
	if s.TopRiskyClauses[0].ClauseID != 8 || s.TopRiskyClauses[4].ClauseID != 4 {
		t.Errorf("order = %+v", s.TopRiskyClauses)
	}
	if s.TopRiskyClauses[0].Reason != "Long notice." {
		t.Errorf("deviation description should be the fallback reason, got %q", s.TopRiskyClauses[0].Reason)
	}
}

func TestSummarizeContractClean(t *testing.T) {
	s := SummarizeContract([]model.ClauseAnalysis{analysis(1, 0, model.RiskLow, nil, nil)},
		model.DocumentRisk{RiskLevel: model.RiskLow, TotalClauses: 1})

	if !strings.Contains(s.Overview, "No statutory violations") {
		t.Errorf("overview = %q", s.Overview)
	}
	if s.TopRiskyClauses == nil || len(s.TopRiskyClauses) != 0 {
		t.Errorf("top clauses should be an empty list, got %#v", s.TopRiskyClauses)
	}
}
