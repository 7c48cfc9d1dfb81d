package verify

import (
	"testing"

	"github.com/ppiankov/sentinel/internal/model"
	"github.com/ppiankov/sentinel/internal/rules"
)

func newTestEngine() *Engine {
	return NewEngine(rules.Default())
}

func kinds(check model.LegalCheck) []model.ViolationKind {
	out := make([]model.ViolationKind, len(check.Violations))
	for i, v := range check.Violations {
		out[i] = v.Kind
	}
	return out
}

func hasKind(check model.LegalCheck, kind model.ViolationKind) bool {
	for _, v := range check.Violations {
		if v.Kind == kind {
			return true
		}
	}
	return false
}

func TestVerifyDetectors(t *testing.T) {
	e := newTestEngine()

	tests := []struct {
		name      string
		text      string
		want      []model.ViolationKind
		wantValid bool
		wantLevel model.RiskLevel
	}{
		{
			name:      "non-compete",
			text:      "The Employee shall not engage in any competing business for two years after leaving.",
			want:      []model.ViolationKind{model.ViolationNonCompete},
			wantValid: false,
			wantLevel: model.RiskCritical,
		},
		{
			name:      "non-compete with goodwill exception",
			text:      "The Seller agrees not to compete with the Buyer as part of the transfer of goodwill.",
			want:      []model.ViolationKind{},
			wantValid: true,
			wantLevel: model.RiskLow,
		},
		{
			name:      "unlawful object",
			text:      "The parties will structure payments to evade the applicable tax authorities.",
			want:      []model.ViolationKind{model.ViolationUnlawfulObject},
			wantValid: false,
			wantLevel: model.RiskCritical,
		},
		{
			name:      "absolute payment with amount",
			text:      "On breach the Employee shall pay liquidated damages of 5 lakh rupees to the Company.",
			want:      []model.ViolationKind{model.ViolationExcessivePenalty},
			wantValid: false,
			wantLevel: model.RiskHigh,
		},
		{
			name:      "penalty within ceiling",
			text:      "A penalty of 10% of the monthly fee applies to late delivery of the goods.",
			want:      []model.ViolationKind{},
			wantValid: true,
			wantLevel: model.RiskLow,
		},
		{
			name:      "ip overreach",
			text:      "All intellectual property in any work created by the Employee, including personal projects, vests in the Company.",
			want:      []model.ViolationKind{model.ViolationIPOverreach},
			wantValid: true,
			wantLevel: model.RiskHigh,
		},
		{
			name:      "ip keyword needs whole word",
			text:      "The relationship between the parties is perpetual and worldwide in its goodwill.",
			want:      []model.ViolationKind{},
			wantValid: true,
			wantLevel: model.RiskLow,
		},
		{
			name:      "vague qualifiers",
			text:      "The Company will respond within a reasonable time and act as appropriate in each case.",
			want:      []model.ViolationKind{model.ViolationVagueTerms},
			wantValid: true,
			wantLevel: model.RiskMedium,
		},
		{
			name:      "short clause",
			text:      "Salary: TBD.",
			want:      []model.ViolationKind{model.ViolationVagueTerms},
			wantValid: true,
			wantLevel: model.RiskMedium,
		},
		{
			name:      "clean clause",
			text:      "The Employee shall be paid a monthly salary on the last working day of each month.",
			want:      []model.ViolationKind{},
			wantValid: true,
			wantLevel: model.RiskLow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			check := e.Verify(tt.text, nil)
			got := kinds(check)
			if len(got) != len(tt.want) {
				t.Fatalf("violations = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("violation %d = %s, want %s", i, got[i], tt.want[i])
				}
			}
			if check.IsValid != tt.wantValid {
				t.Errorf("IsValid = %v, want %v", check.IsValid, tt.wantValid)
			}
			if check.RiskLevel != tt.wantLevel {
				t.Errorf("RiskLevel = %s, want %s", check.RiskLevel, tt.wantLevel)
			}
			if check.TotalViolations != len(check.Violations) {
				t.Errorf("TotalViolations = %d, len = %d", check.TotalViolations, len(check.Violations))
			}
		})
	}
}

func TestVerifyNonCompeteSaleOfBusinessException(t *testing.T) {
	e := newTestEngine()
	text := "Employee agrees not to compete with Company for 2 years after termination, except in the context of sale of business."

	check := e.Verify(text, nil)
	if hasKind(check, model.ViolationNonCompete) {
		t.Error("non-compete detector must not fire when the sale-of-business exception is present")
	}
}

func TestVerifySoleDiscretionWithoutNotice(t *testing.T) {
	e := newTestEngine()
	check := e.Verify("Company may terminate this agreement at its sole discretion without notice.", nil)

	if !hasKind(check, model.ViolationUnfairTerms) {
		t.Fatalf("expected unfair terms violation, got %v", kinds(check))
	}
	for _, v := range check.Violations {
		if v.Kind == model.ViolationUnfairTerms && v.Severity != model.SeverityMedium {
			t.Errorf("unfair terms severity = %s, want medium", v.Severity)
		}
	}
	if !check.IsValid {
		t.Error("a medium violation alone keeps the clause valid")
	}
	if check.RiskLevel != model.RiskLow {
		t.Errorf("RiskLevel = %s, want low (unfair terms have no type score)", check.RiskLevel)
	}
}

func TestVerifyPenaltyPercentage(t *testing.T) {
	e := newTestEngine()
	check := e.Verify("The Employee agrees to a penalty of 50% of annual salary upon early exit.", nil)

	if !hasKind(check, model.ViolationExcessivePenalty) {
		t.Fatalf("expected excessive penalty, got %v", kinds(check))
	}
	if check.Violations[0].Severity != model.SeverityHigh {
		t.Errorf("severity = %s, want high", check.Violations[0].Severity)
	}
	if check.IsValid {
		t.Error("high violation must make the clause invalid")
	}
}

func TestVerifyMultipleViolationsKeepOrder(t *testing.T) {
	e := newTestEngine()
	text := "The Company may at its sole discretion impose a penalty of 40% and the Employee shall not engage in any similar business."

	got := kinds(e.Verify(text, nil))
	want := []model.ViolationKind{model.ViolationNonCompete, model.ViolationExcessivePenalty, model.ViolationUnfairTerms}
	if len(got) != len(want) {
		t.Fatalf("violations = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("violation %d = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestVerifyApplicableSections(t *testing.T) {
	e := newTestEngine()
	law := &model.LawRecord{Section: "Section 27", Act: "Indian Contract Act, 1872"}

	check := e.Verify("The Employee shall not engage in any competing business anywhere in India.", law)
	if len(check.ApplicableSections) != 1 || check.ApplicableSections[0] != "Section 27" {
		t.Errorf("sections = %v, want [Section 27]", check.ApplicableSections)
	}

	check = e.Verify("Payment terms are set out in the attached commercial schedule.", &model.LawRecord{Section: "10"})
	if len(check.ApplicableSections) != 1 || check.ApplicableSections[0] != "Section 10" {
		t.Errorf("sections = %v, want [Section 10]", check.ApplicableSections)
	}
}

func TestVerifyLawNeverChangesDetection(t *testing.T) {
	e := newTestEngine()
	text := "The Employee shall keep all business records for the duration of employment."

	without := e.Verify(text, nil)
	with := e.Verify(text, &model.LawRecord{Section: "Section 23"})
	if len(without.Violations) != len(with.Violations) || without.RiskLevel != with.RiskLevel {
		t.Errorf("law record changed detection: %+v vs %+v", without, with)
	}
}

func TestDetectorsNeverPanic(t *testing.T) {
	e := newTestEngine()
	inputs := []string{"", " ", "%%%%", "99999999999999999999999% penalty", "\x00\xff", "ip"}
	for _, in := range inputs {
		_ = e.Verify(in, nil)
	}
}

func TestDetectorOrder(t *testing.T) {
	want := []string{"non-compete", "unlawful-object", "excessive-penalty", "ip-overreach", "unfair-terms", "clarity"}
	dets := Detectors(rules.Default())
	if len(dets) != len(want) {
		t.Fatalf("got %d detectors", len(dets))
	}
	for i, d := range dets {
		if d.Name != want[i] {
			t.Errorf("detector %d = %s, want %s", i, d.Name, want[i])
		}
	}
}
