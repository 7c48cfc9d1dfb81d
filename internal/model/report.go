package model

import "time"

// DocumentAnalysis is the complete, immutable result of analyzing one document
type DocumentAnalysis struct {
	ID             string    `json:"id"`               // Opaque document identifier
	Filename       string    `json:"filename"`         // Original file name, if any
	SourceHash     string    `json:"source_hash"`      // sha256 of the extracted text
	AnalyzedAt     time.Time `json:"analyzed_at"`      // When the analysis completed
	RuleSetVersion string    `json:"rule_set_version"` // Version of the rules applied
	Segmentation   string    `json:"segmentation"`     // Segmentation strategy that won

	Clauses []ClauseAnalysis `json:"analysis"`      // Per-clause results in document order
	Risk    DocumentRisk     `json:"document_risk"` // Mean score and worst-clause level
	Summary ContractSummary  `json:"rule_based_summary"`

	AI *AIExplanation `json:"ai_risk_explanation,omitempty"` // Optional, never affects scoring

	Principles Principles `json:"principles"`
}

// ClauseAnalysis bundles everything computed for a single clause
type ClauseAnalysis struct {
	Clause
	RelevantLaw *LawRecord     `json:"relevant_law"`
	LegalCheck  LegalCheck     `json:"legal_check"`
	Deviation   DeviationCheck `json:"deviation"`
	Risk        RiskScore      `json:"risk"`
	Explanation string         `json:"explanation"`
}

// RiskScore is a clause's 0-100 risk with its transparent breakdown
type RiskScore struct {
	Score   float64   `json:"risk_score"`
	Level   RiskLevel `json:"risk_level"`
	Signals []Signal  `json:"signals,omitempty"`
}

// Signal represents one scoring component with the data that produced it
type Signal struct {
	Type        SignalType             `json:"type"`
	Value       float64                `json:"value"`  // Sub-score on a 0-100 scale
	Weight      float64                `json:"weight"` // Weight applied in the final sum
	Description string                 `json:"description"`
	Data        map[string]interface{} `json:"data,omitempty"` // Inputs and formula
}

// SignalType classifies a scoring component
type SignalType string

const (
	SignalLegalInvalidity SignalType = "legal_invalidity"
	SignalDeviation       SignalType = "deviation_severity"
	SignalFrequency       SignalType = "frequency_factor"
)

// DocumentRisk aggregates clause scores over the whole document
type DocumentRisk struct {
	OverallScore  float64   `json:"overall_score"` // Arithmetic mean of clause scores
	RiskLevel     RiskLevel `json:"risk_level"`    // Worst clause level, not the mean's level
	CriticalCount int       `json:"critical_count"`
	HighCount     int       `json:"high_count"`
	MediumCount   int       `json:"medium_count"`
	LowCount      int       `json:"low_count"`
	TotalClauses  int       `json:"total_clauses"`
}

// ContractSummary is the deterministic, rule-based overview of a document
type ContractSummary struct {
	Overview        string                `json:"overview"`
	ViolationCounts map[ViolationKind]int `json:"violation_counts"`
	DeviationCounts map[DeviationKind]int `json:"deviation_counts"`
	TotalViolations int                   `json:"total_violations"`
	TotalDeviations int                   `json:"total_deviations"`
	TopRiskyClauses []ClauseRef           `json:"top_risky_clauses"`
	InvalidClauses  int                   `json:"invalid_clauses"`
}

// ClauseRef points at a clause together with its score
type ClauseRef struct {
	ClauseID int       `json:"clause_id"`
	Score    float64   `json:"risk_score"`
	Level    RiskLevel `json:"risk_level"`
	Reason   string    `json:"reason,omitempty"`
}

// AIExplanation is the optional document-level explanation from an LLM
// It is produced after scoring and never feeds back into any score
type AIExplanation struct {
	Enabled            bool        `json:"enabled"`
	Provider           string      `json:"provider,omitempty"`
	Model              string      `json:"model,omitempty"`
	OverallExplanation string      `json:"overall_explanation,omitempty"`
	KeyRiskFactors     []string    `json:"key_risk_factors,omitempty"`
	HighRiskClauses    []ClauseRef `json:"high_risk_clauses,omitempty"`
	GeneralPrecautions []string    `json:"general_precautions,omitempty"`
	ConfidenceNote     string      `json:"confidence_note,omitempty"`
	Error              string      `json:"error,omitempty"` // Set when the service was unavailable
}

// Principles documents how the analysis should be read
type Principles struct {
	NotLegalAdvice bool `json:"not_legal_advice"` // Educational output only
	Deterministic  bool `json:"deterministic"`    // Same input and rules, same scores
	Auditable      bool `json:"auditable"`        // Every score carries its formula
}

// DefaultPrinciples returns the standard principles attached to every report
func DefaultPrinciples() Principles {
	return Principles{
		NotLegalAdvice: true,
		Deterministic:  true,
		Auditable:      true,
	}
}
