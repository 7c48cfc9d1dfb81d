// Package rules holds every keyword list, severity table, weight and threshold
// the analyzers apply. Detection code reads these values and never embeds its
// own literals, so a rule change is a data change that can be reviewed alone.
package rules

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/ppiankov/sentinel/internal/model"
	"gopkg.in/yaml.v3"
)

// Version identifies the compiled-in rule set. Bump it whenever a keyword,
// score or threshold changes so cached analyses are not reused.
const Version = "ica-1872/2"

// RuleSet is the complete, versioned rule configuration
type RuleSet struct {
	Version      string            `yaml:"version"`
	Segmentation SegmentationRules `yaml:"segmentation"`
	Detectors    DetectorRules     `yaml:"detectors"`
	Deviation    DeviationRules    `yaml:"deviation"`
	Scoring      ScoringRules      `yaml:"scoring"`
	Explanation  ExplanationRules  `yaml:"explanation"`
}

// SegmentationRules parameterize clause splitting and noise filtering
type SegmentationRules struct {
	MinClauseLength      int      `yaml:"min_clause_length"`
	MaxClauseLength      int      `yaml:"max_clause_length"`
	MinStructuralMatches int      `yaml:"min_structural_matches"`
	MinAlphaRatio        float64  `yaml:"min_alpha_ratio"`
	BoundaryPhrases      Terms    `yaml:"boundary_phrases"`
	NoisePatterns        []string `yaml:"noise_patterns"`
}

// Finding is the fixed output attached to a detector when it fires
type Finding struct {
	Severity       model.Severity `yaml:"severity"`
	Section        string         `yaml:"section,omitempty"` // Label added to applicable sections
	LawReference   string         `yaml:"law,omitempty"`
	Description    string         `yaml:"description"`
	Recommendation string         `yaml:"recommendation,omitempty"`
}

// DetectorRules configure the statutory-violation detectors
type DetectorRules struct {
	NonCompete  RestraintRule `yaml:"non_compete"`
	Unlawful    KeywordRule   `yaml:"unlawful_object"`
	Penalty     PenaltyRule   `yaml:"excessive_penalty"`
	IPOverreach ScopeRule     `yaml:"ip_overreach"`
	UnfairTerms KeywordRule   `yaml:"unfair_terms"`
	Clarity     ClarityRule   `yaml:"clarity"`
}

// KeywordRule fires when any keyword is present
type KeywordRule struct {
	Finding  `yaml:",inline"`
	Keywords Terms `yaml:"keywords"`
}

// RestraintRule fires on restraint keywords unless an exception is present
type RestraintRule struct {
	Finding    `yaml:",inline"`
	Keywords   Terms `yaml:"keywords"`
	Exceptions Terms `yaml:"exceptions"`
}

// PenaltyRule fires when penalty keywords co-occur with an excessive
// percentage or with an absolute payment obligation and a monetary amount
type PenaltyRule struct {
	Finding            `yaml:",inline"`
	Keywords           Terms `yaml:"keywords"`
	AbsolutePhrases    Terms `yaml:"absolute_phrases"`
	MaxPercent         int   `yaml:"max_percent"`
	CurrencyUnitSuffix Terms `yaml:"currency_units"`
}

// ScopeRule fires when subject keywords co-occur with breadth phrases
type ScopeRule struct {
	Finding   `yaml:",inline"`
	Keywords  Terms `yaml:"keywords"`
	Overreach Terms `yaml:"overreach"`
}

// ClarityRule fires on very short text or on repeated vague qualifiers
type ClarityRule struct {
	Short          Finding `yaml:"short"`
	Vague          Finding `yaml:"vague"`
	MinLength      int     `yaml:"min_length"`
	VagueQualifier Terms   `yaml:"vague_qualifiers"`
	MinVague       int     `yaml:"min_vague"`
}

// DeviationRules configure comparison against the fairness standard
type DeviationRules struct {
	NoticeKeywords         Terms                      `yaml:"notice_keywords"`
	NonCompeteKeywords     Terms                      `yaml:"non_compete_keywords"`
	NoticeToleranceFactor  float64                    `yaml:"notice_tolerance_factor"`
	PenaltyKeywords        Terms                      `yaml:"penalty_keywords"`
	PenaltyToleranceFactor float64                    `yaml:"penalty_tolerance_factor"`
	FixedPenaltyLakhs      int                        `yaml:"fixed_penalty_lakhs"`
	IPKeywords             Terms                      `yaml:"ip_keywords"`
	IPPhrases              Phrases                    `yaml:"ip_phrases"`
	TerminationKeywords    Terms                      `yaml:"termination_keywords"`
	TerminationPhrases     Phrases                    `yaml:"termination_phrases"`
	ScorePoints            map[model.Severity]float64 `yaml:"score_points"` // Report-only deviation score
}

// Weights combine the three sub-scores of a clause
type Weights struct {
	Legal     float64 `yaml:"legal_invalidity"`
	Deviation float64 `yaml:"deviation_severity"`
	Frequency float64 `yaml:"frequency_factor"`
}

// Thresholds map a 0-100 score to a risk level (lower bounds, inclusive)
type Thresholds struct {
	Medium   float64 `yaml:"medium"`
	High     float64 `yaml:"high"`
	Critical float64 `yaml:"critical"`
}

// Level returns the risk level for score
func (t Thresholds) Level(score float64) model.RiskLevel {
	switch {
	case score >= t.Critical:
		return model.RiskCritical
	case score >= t.High:
		return model.RiskHigh
	case score >= t.Medium:
		return model.RiskMedium
	default:
		return model.RiskLow
	}
}

// ScoringRules configure the risk scorer
type ScoringRules struct {
	SeverityScores          map[model.ViolationKind]float64 `yaml:"severity_scores"`
	CriticalBoost           float64                         `yaml:"critical_boost"`
	DeviationPoints         map[model.Severity]float64      `yaml:"deviation_points"`
	FrequencyPointsPerIssue float64                         `yaml:"frequency_points_per_issue"`
	Weights                 Weights                         `yaml:"weights"`
	Thresholds              Thresholds                      `yaml:"thresholds"`
}

// ExplanationRules hold the fixed text used by the explanation composer
type ExplanationRules struct {
	Disclaimer      string `yaml:"disclaimer"`
	NoIssues        string `yaml:"no_issues"`
	MaxViolations   int    `yaml:"max_violations"`
	SummaryMaxChars int    `yaml:"summary_max_chars"`
}

// Default returns the compiled-in rule set for the Indian Contract Act, 1872
func Default() *RuleSet {
	return &RuleSet{
		Version: Version,
		Segmentation: SegmentationRules{
			MinClauseLength:      30,
			MaxClauseLength:      2000,
			MinStructuralMatches: 3,
			MinAlphaRatio:        0.5,
			BoundaryPhrases: Terms{
				"provided that", "notwithstanding", "in consideration of",
				"the parties agree", "it is agreed", "whereas",
			},
			NoisePatterns: []string{
				`^page\s+\d+`,
				`^\d+\s*$`,
				`^confidential$`,
				`^draft$`,
			},
		},
		Detectors: DetectorRules{
			NonCompete: RestraintRule{
				Finding: Finding{
					Severity:       model.SeverityCritical,
					Section:        "Section 27",
					LawReference:   "Section 27, Indian Contract Act, 1872",
					Description:    "Non-compete clause detected. Agreements restraining lawful profession/trade are VOID in India.",
					Recommendation: "Remove or modify clause. Non-compete restrictions are unenforceable except in sale of business.",
				},
				Keywords: Terms{
					"non-compete", "non compete", "not compete", "refrain from engaging",
					"shall not engage", "prohibited from working", "restrain from",
					"covenant not to compete", "restriction on employment",
				},
				Exceptions: Terms{"sale of business", "goodwill", "transfer of business"},
			},
			Unlawful: KeywordRule{
				Finding: Finding{
					Severity:       model.SeverityCritical,
					Section:        "Section 23",
					LawReference:   "Section 23, Indian Contract Act, 1872",
					Description:    "Clause may involve unlawful consideration or object.",
					Recommendation: "Remove clause. Agreements with unlawful objects are void.",
				},
				Keywords: Terms{
					"illegal", "fraudulent", "defeat the law", "circumvent",
					"evade", "money laundering", "bribe", "kickback",
				},
			},
			Penalty: PenaltyRule{
				Finding: Finding{
					Severity:       model.SeverityHigh,
					Section:        "Section 74",
					LawReference:   "Section 74, Indian Contract Act, 1872",
					Description:    "Penalty clause may be excessive. Courts award only reasonable compensation, not punitive damages.",
					Recommendation: "Ensure penalty is reasonable estimate of actual loss, not punitive.",
				},
				Keywords:           Terms{"penalty", "liquidated damages", "damages", "compensation for breach"},
				AbsolutePhrases:    Terms{"shall pay", "must pay", "liable to pay", "required to pay"},
				MaxPercent:         20,
				CurrencyUnitSuffix: Terms{"lakh", "crore", "rupees", "rs", "inr"},
			},
			IPOverreach: ScopeRule{
				Finding: Finding{
					Severity:       model.SeverityMedium,
					Section:        "Copyright Act / IP Law",
					LawReference:   "Copyright Act, 1957 / Contract Law Principles",
					Description:    "IP assignment clause is overly broad. May claim rights to work unrelated to employment.",
					Recommendation: "Limit IP assignment to work created during employment for company purposes only.",
				},
				Keywords: Terms{"intellectual property", "ip", "copyright", "patent", "invention", "creation"},
				Overreach: Terms{
					"all work", "any work", "everything created", "all inventions",
					"automatically assigned", "perpetual", "irrevocable", "worldwide",
					"including personal projects", "off-duty", "outside work hours",
				},
			},
			UnfairTerms: KeywordRule{
				Finding: Finding{
					Severity:       model.SeverityMedium,
					Section:        "Section 16",
					LawReference:   "Section 16, Indian Contract Act (Undue Influence) / General Contract Principles",
					Description:    "Clause appears one-sided with excessive discretion to one party.",
					Recommendation: "Add mutual consent requirements or reasonable limitations to discretionary powers.",
				},
				Keywords: Terms{
					"sole discretion", "without cause", "without reason", "without notice",
					"unilateral right", "company may change", "company reserves the right",
				},
			},
			Clarity: ClarityRule{
				Short: Finding{
					Severity:       model.SeverityLow,
					Description:    "Clause is very short and may lack detail.",
					Recommendation: "Ensure clause has sufficient detail and clarity.",
				},
				Vague: Finding{
					Severity:       model.SeverityLow,
					Description:    "Clause contains vague terms that may lead to disputes.",
					Recommendation: "Define vague terms more specifically.",
				},
				MinLength:      20,
				VagueQualifier: Terms{"reasonable time", "as appropriate", "if necessary", "at discretion"},
				MinVague:       2,
			},
		},
		Deviation: DeviationRules{
			NoticeKeywords:         Terms{"notice"},
			NonCompeteKeywords:     Terms{"non-compete", "non compete", "noncompete", "not compete", "not to compete"},
			NoticeToleranceFactor:  1.5,
			PenaltyKeywords:        Terms{"penalty", "liquidated damages", "damages", "shall pay"},
			PenaltyToleranceFactor: 2,
			FixedPenaltyLakhs:      5,
			IPKeywords:             Terms{"intellectual property", "ip", "copyright", "invention", "work product"},
			IPPhrases: Phrases{
				{Phrase: "all work", Severity: model.SeverityCritical},
				{Phrase: "any work", Severity: model.SeverityCritical},
				{Phrase: "personal projects", Severity: model.SeverityHigh},
				{Phrase: "outside work", Severity: model.SeverityHigh},
				{Phrase: "off-duty", Severity: model.SeverityHigh},
				{Phrase: "perpetual", Severity: model.SeverityMedium},
				{Phrase: "irrevocable", Severity: model.SeverityMedium},
			},
			TerminationKeywords: Terms{"termination", "terminate", "dismissal", "dismiss"},
			TerminationPhrases: Phrases{
				{Phrase: "without cause", Severity: model.SeverityHigh},
				{Phrase: "at will", Severity: model.SeverityHigh},
				{Phrase: "without notice", Severity: model.SeverityMedium},
				{Phrase: "immediate termination", Severity: model.SeverityMedium},
				{Phrase: "sole discretion", Severity: model.SeverityMedium},
			},
			ScorePoints: map[model.Severity]float64{
				model.SeverityCritical: 25,
				model.SeverityHigh:     15,
				model.SeverityMedium:   10,
				model.SeverityLow:      5,
			},
		},
		Scoring: ScoringRules{
			SeverityScores: map[model.ViolationKind]float64{
				model.ViolationNonCompete:       90,
				model.ViolationUnlawfulObject:   95,
				model.ViolationExcessivePenalty: 70,
				model.ViolationIPOverreach:      60,
				model.ViolationUnfairTerms:      0,
				model.ViolationVagueTerms:       40,
			},
			CriticalBoost: 1.2,
			DeviationPoints: map[model.Severity]float64{
				model.SeverityCritical: 30,
				model.SeverityHigh:     20,
				model.SeverityMedium:   12,
				model.SeverityLow:      5,
			},
			FrequencyPointsPerIssue: 20,
			Weights: Weights{
				Legal:     0.5,
				Deviation: 0.3,
				Frequency: 0.2,
			},
			Thresholds: Thresholds{
				Medium:   30,
				High:     60,
				Critical: 85,
			},
		},
		Explanation: ExplanationRules{
			Disclaimer:      "⚠️ **Note:** This is educational information, not legal advice. Consult a lawyer for your specific situation.",
			NoIssues:        "This clause appears generally fair and doesn't violate major Indian contract law provisions.",
			MaxViolations:   3,
			SummaryMaxChars: 100,
		},
	}
}

// Load reads a YAML rule file over the defaults. Keys absent from the file
// keep their default values.
func Load(path string) (*RuleSet, error) {
	rs := Default()
	if path == "" {
		return rs, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules: %w", err)
	}
	if err := yaml.Unmarshal(data, rs); err != nil {
		return nil, fmt.Errorf("parse rules: %w", err)
	}
	if err := rs.Validate(); err != nil {
		return nil, fmt.Errorf("invalid rules %s: %w", path, err)
	}
	return rs, nil
}

// Validate checks internal consistency of the rule set
func (rs *RuleSet) Validate() error {
	var errs []error

	if rs.Version == "" {
		errs = append(errs, errors.New("version is required"))
	}

	seg := rs.Segmentation
	if seg.MinClauseLength <= 0 || seg.MaxClauseLength <= seg.MinClauseLength {
		errs = append(errs, fmt.Errorf("clause length bounds invalid: min=%d max=%d", seg.MinClauseLength, seg.MaxClauseLength))
	}
	if seg.MinStructuralMatches < 1 {
		errs = append(errs, errors.New("min_structural_matches must be positive"))
	}

	t := rs.Scoring.Thresholds
	if !(0 < t.Medium && t.Medium < t.High && t.High < t.Critical && t.Critical <= 100) {
		errs = append(errs, fmt.Errorf("thresholds must satisfy 0 < medium < high < critical <= 100: %+v", t))
	}

	w := rs.Scoring.Weights
	if w.Legal < 0 || w.Deviation < 0 || w.Frequency < 0 {
		errs = append(errs, errors.New("weights must be non-negative"))
	}
	if sum := w.Legal + w.Deviation + w.Frequency; math.Abs(sum-1) > 1e-9 {
		errs = append(errs, fmt.Errorf("weights must sum to 1, got %.4f", sum))
	}

	d := rs.Detectors
	for name, terms := range map[string]Terms{
		"non_compete.keywords":       d.NonCompete.Keywords,
		"unlawful_object.keywords":   d.Unlawful.Keywords,
		"excessive_penalty.keywords": d.Penalty.Keywords,
		"ip_overreach.keywords":      d.IPOverreach.Keywords,
		"ip_overreach.overreach":     d.IPOverreach.Overreach,
		"unfair_terms.keywords":      d.UnfairTerms.Keywords,
	} {
		if len(terms) == 0 {
			errs = append(errs, fmt.Errorf("%s must not be empty", name))
		}
	}

	return errors.Join(errs...)
}
