package deviation

import (
	"testing"

	"github.com/ppiankov/sentinel/internal/model"
	"github.com/ppiankov/sentinel/internal/rules"
)

func newTestEngine() *Engine {
	return NewEngine(rules.Default(), rules.DefaultFairStandard())
}

func TestCheckDeviations(t *testing.T) {
	e := newTestEngine()

	tests := []struct {
		name     string
		text     string
		kind     model.DeviationKind
		severity model.Severity
		actual   string
	}{
		{
			name:     "long notice period",
			text:     "Either party may resign by giving 90 days written notice.",
			kind:     model.DeviationExcessiveNotice,
			severity: model.SeverityMedium,
			actual:   "90 days",
		},
		{
			name:     "non-compete in months",
			text:     "The Employee shall not compete for 6 months and this non-compete survives.",
			kind:     model.DeviationNonCompeteDuration,
			severity: model.SeverityCritical,
			actual:   "6 months",
		},
		{
			name:     "not to compete wording",
			text:     "The Consultant agrees not to compete with the Client for 3 years.",
			kind:     model.DeviationNonCompeteDuration,
			severity: model.SeverityCritical,
			actual:   "3 years",
		},
		{
			name:     "unhyphenated non compete",
			text:     "A non compete period of 12 months applies after exit.",
			kind:     model.DeviationNonCompeteDuration,
			severity: model.SeverityCritical,
			actual:   "12 months",
		},
		{
			name:     "notice days after a month figure",
			text:     "After a probation of 6 months, either party may resign by giving 120 days notice.",
			kind:     model.DeviationExcessiveNotice,
			severity: model.SeverityMedium,
			actual:   "120 days",
		},
		{
			name:     "penalty percentage",
			text:     "A penalty equal to 25 percent of the contract value applies.",
			kind:     model.DeviationExcessivePenalty,
			severity: model.SeverityHigh,
			actual:   "25%",
		},
		{
			name:     "fixed lakh penalty",
			text:     "The Employee shall pay 10 lakhs as liquidated damages on breach.",
			kind:     model.DeviationHighFixedPenalty,
			severity: model.SeverityMedium,
			actual:   "10 lakhs",
		},
		{
			name:     "ip all work",
			text:     "All work product and any work created at any time is company intellectual property.",
			kind:     model.DeviationIPScope,
			severity: model.SeverityCritical,
			actual:   "Contains 'all work'",
		},
		{
			name:     "ip perpetual",
			text:     "The Employee grants a perpetual licence to the copyright in deliverables.",
			kind:     model.DeviationIPScope,
			severity: model.SeverityMedium,
			actual:   "Contains 'perpetual'",
		},
		{
			name:     "termination at will",
			text:     "Employment is at will and the Company may terminate it for any reason.",
			kind:     model.DeviationUnfairTermination,
			severity: model.SeverityHigh,
			actual:   "Contains 'at will'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			check := e.Check(tt.text)
			if len(check.Deviations) != 1 {
				t.Fatalf("deviations = %+v, want exactly one", check.Deviations)
			}
			d := check.Deviations[0]
			if d.Kind != tt.kind {
				t.Errorf("kind = %s, want %s", d.Kind, tt.kind)
			}
			if d.Severity != tt.severity {
				t.Errorf("severity = %s, want %s", d.Severity, tt.severity)
			}
			if d.ActualValue != tt.actual {
				t.Errorf("actual = %q, want %q", d.ActualValue, tt.actual)
			}
			if check.Severity != tt.severity || !check.HasDeviation || check.TotalDeviations != 1 {
				t.Errorf("aggregate = %+v", check)
			}
		})
	}
}

func TestCheckNoDeviation(t *testing.T) {
	e := newTestEngine()
	inputs := []string{
		"Either party may resign by giving 30 days written notice.",
		"Either party may resign by giving 3 months written notice.",
		"A penalty of 15% of the monthly fee applies to late delivery.",
		"The Employee shall be paid on the last working day of each month.",
		"",
	}
	for _, in := range inputs {
		check := e.Check(in)
		if check.HasDeviation || len(check.Deviations) != 0 {
			t.Errorf("%q: unexpected deviations %+v", in, check.Deviations)
		}
		if check.Severity != model.SeverityNone {
			t.Errorf("%q: severity = %s, want none", in, check.Severity)
		}
		if check.FairStandard != rules.DefaultFairStandard().Name {
			t.Errorf("fair standard = %q", check.FairStandard)
		}
	}
}

func TestNonCompeteDurationIgnoresException(t *testing.T) {
	e := newTestEngine()
	text := "Employee agrees not to compete with Company for 2 years after termination, except in the context of sale of business."

	check := e.Check(text)
	if check.Severity != model.SeverityCritical {
		t.Fatalf("severity = %s, want critical", check.Severity)
	}
	d := check.Deviations[0]
	if d.Kind != model.DeviationNonCompeteDuration || d.ActualValue != "2 years" {
		t.Errorf("deviation = %+v", d)
	}
	if d.FairStandardValue != "0 (invalid in India)" {
		t.Errorf("fair standard = %q", d.FairStandardValue)
	}
}

func TestSoleDiscretionWithoutNotice(t *testing.T) {
	e := newTestEngine()
	check := e.Check("Company may terminate this agreement at its sole discretion without notice.")

	if len(check.Deviations) != 1 {
		t.Fatalf("deviations = %+v", check.Deviations)
	}
	d := check.Deviations[0]
	if d.Kind != model.DeviationUnfairTermination || d.Severity != model.SeverityMedium {
		t.Errorf("deviation = %+v", d)
	}
}

func TestPenaltyFiftyPercent(t *testing.T) {
	e := newTestEngine()
	check := e.Check("The Employee agrees to a penalty of 50% of annual salary upon early exit.")

	if len(check.Deviations) != 1 || check.Deviations[0].Kind != model.DeviationExcessivePenalty {
		t.Fatalf("deviations = %+v", check.Deviations)
	}
	if check.Deviations[0].FairStandardValue != "≤10%" {
		t.Errorf("fair = %q", check.Deviations[0].FairStandardValue)
	}
}

func TestDurationUnitPrecedence(t *testing.T) {
	e := newTestEngine()
	// Months are tried before days, but only days can breach the notice standard
	check := e.Check("After 3 months of probation the notice period is 60 days.")

	if len(check.Deviations) != 1 || check.Deviations[0].Kind != model.DeviationExcessiveNotice {
		t.Fatalf("deviations = %+v", check.Deviations)
	}
	if check.Deviations[0].ActualValue != "60 days" {
		t.Errorf("actual = %q", check.Deviations[0].ActualValue)
	}
}

func TestMultipleDeviationsAggregateSeverity(t *testing.T) {
	e := newTestEngine()
	text := "The Company may terminate without cause and the Employee shall pay a penalty of 30% of salary."

	check := e.Check(text)
	if check.TotalDeviations != 2 {
		t.Fatalf("deviations = %+v", check.Deviations)
	}
	if check.Deviations[0].Kind != model.DeviationExcessivePenalty || check.Deviations[1].Kind != model.DeviationUnfairTermination {
		t.Errorf("order = %s, %s", check.Deviations[0].Kind, check.Deviations[1].Kind)
	}
	if check.Severity != model.SeverityHigh {
		t.Errorf("severity = %s, want high", check.Severity)
	}
}

func TestCustomStandard(t *testing.T) {
	std := rules.DefaultFairStandard()
	std.NoticePeriodDays = 90
	e := NewEngine(rules.Default(), std)

	if check := e.Check("Either party may resign by giving 90 days written notice."); check.HasDeviation {
		t.Errorf("90 days is fair under a 90 day standard: %+v", check.Deviations)
	}
}

func TestDeviationScore(t *testing.T) {
	points := rules.Default().Deviation.ScorePoints
	devs := []model.Deviation{
		{Severity: model.SeverityCritical},
		{Severity: model.SeverityHigh},
		{Severity: model.SeverityMedium},
		{Severity: model.SeverityLow},
	}
	if got := DeviationScore(devs, points); got != 55 {
		t.Errorf("score = %v, want 55", got)
	}
	if got := DeviationScore(nil, points); got != 0 {
		t.Errorf("empty score = %v", got)
	}

	many := make([]model.Deviation, 10)
	for i := range many {
		many[i].Severity = model.SeverityCritical
	}
	if got := newTestEngine().Score(many); got != 100 {
		t.Errorf("capped score = %v, want 100", got)
	}
}
