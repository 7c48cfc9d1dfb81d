package model

// Clause is one ordered unit of contract text produced by segmentation
type Clause struct {
	Index int    `json:"clause_id"` // 1-based position within the document
	Text  string `json:"clause_text"`
}

// ViolationKind enumerates the statutory rules the rule engine checks
type ViolationKind string

const (
	ViolationNonCompete       ViolationKind = "non_compete_restraint"
	ViolationUnlawfulObject   ViolationKind = "unlawful_object"
	ViolationExcessivePenalty ViolationKind = "excessive_penalty"
	ViolationIPOverreach      ViolationKind = "ip_overreach"
	ViolationUnfairTerms      ViolationKind = "unfair_terms"
	ViolationVagueTerms       ViolationKind = "vague_terms"
)

// Violation is a hard legal-rule breach found in a clause
type Violation struct {
	Kind           ViolationKind `json:"type"`
	Severity       Severity      `json:"severity"`
	LawReference   string        `json:"law,omitempty"`
	Description    string        `json:"description"`
	Recommendation string        `json:"recommendation,omitempty"`
}

// DeviationKind enumerates departures from the fairness baseline
type DeviationKind string

const (
	DeviationExcessiveNotice    DeviationKind = "excessive_notice"
	DeviationNonCompeteDuration DeviationKind = "non_compete_duration"
	DeviationExcessivePenalty   DeviationKind = "excessive_penalty_percentage"
	DeviationHighFixedPenalty   DeviationKind = "high_fixed_penalty"
	DeviationIPScope            DeviationKind = "ip_scope_overreach"
	DeviationUnfairTermination  DeviationKind = "unfair_termination"
)

// Deviation is a departure from the fairness standard, independent of legality
type Deviation struct {
	Kind              DeviationKind `json:"type"`
	Severity          Severity      `json:"severity"`
	ActualValue       string        `json:"actual"`
	FairStandardValue string        `json:"fair_standard"`
	Description       string        `json:"description"`
}

// LawRecord is a statutory provision returned by law retrieval
type LawRecord struct {
	Section        string   `json:"section"`
	Act            string   `json:"act"`
	Title          string   `json:"title"`
	Text           string   `json:"text"`
	Summary        string   `json:"summary,omitempty"`
	RelevanceScore *float64 `json:"relevance_score,omitempty"`
}

// FairnessStandard is the baseline of fair contractual terms
type FairnessStandard struct {
	Name                  string `json:"name" yaml:"name"`
	NoticePeriodDays      int    `json:"notice_period_days" yaml:"notice_period_days"`
	ProbationMonths       int    `json:"probation_months" yaml:"probation_months"`
	NonCompeteMonths      int    `json:"non_compete_months" yaml:"non_compete_months"`
	PenaltyPercentage     int    `json:"penalty_percentage" yaml:"penalty_percentage"`
	IPScope               string `json:"ip_scope" yaml:"ip_scope"`
	TerminationNoticeDays int    `json:"termination_notice_days" yaml:"termination_notice_days"`
	WorkingHoursPerWeek   int    `json:"working_hours_per_week" yaml:"working_hours_per_week"`
}

// LegalCheck is the rule engine's result for one clause
type LegalCheck struct {
	IsValid            bool        `json:"is_valid"`
	Violations         []Violation `json:"violations"`
	RiskLevel          RiskLevel   `json:"risk_level"`
	ApplicableSections []string    `json:"applicable_sections"`
	TotalViolations    int         `json:"total_violations"`
}

// DeviationCheck is the deviation engine's result for one clause
type DeviationCheck struct {
	HasDeviation    bool        `json:"has_deviation"`
	Deviations      []Deviation `json:"deviations"`
	Severity        Severity    `json:"severity"`
	TotalDeviations int         `json:"total_deviations"`
	FairStandard    string      `json:"fair_standard,omitempty"`
}
