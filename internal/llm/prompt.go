package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/ppiankov/sentinel/internal/model"
)

// SystemPrompt is sent as the system message on every call
const SystemPrompt = "You are a legal risk analysis assistant."

// DefaultConfidenceNote fills an empty confidence_note
const DefaultConfidenceNote = "This is a risk analysis, not legal advice."

// maxPromptClauseChars bounds each clause quoted in the prompt
const maxPromptClauseChars = 500

const promptTemplate = `You are an AI legal risk analyst assisting a contract review system.

You are NOT a lawyer and must NOT provide legal advice.
Do NOT invent laws, penalties, or outcomes.
Use ONLY the provided input data.

Your task:
- Explain the overall contract risk in simple language
- Identify the most risky clauses and explain why
- Highlight unfair or one-sided patterns
- Suggest high-level precautions (no legal advice)

Input:
--------------------
Document Risk Summary:
%s

Clause Analysis:
%s
--------------------

Return STRICT JSON ONLY in this format:
{
  "overall_explanation": "",
  "key_risk_factors": [],
  "high_risk_clauses": [
    {
      "clause_id": 1,
      "reason": ""
    }
  ],
  "general_precautions": [],
  "confidence_note": "This is a risk analysis, not legal advice."
}
`

// promptClause is the rule-based view of a clause sent to the model
type promptClause struct {
	ClauseID   int               `json:"clause_id"`
	Text       string            `json:"clause_text"`
	Score      float64           `json:"risk_score"`
	Level      model.RiskLevel   `json:"risk_level"`
	LawSection string            `json:"relevant_law,omitempty"`
	Violations []model.Violation `json:"violations,omitempty"`
	Deviations []model.Deviation `json:"deviations,omitempty"`
}

type promptSummary struct {
	model.ContractSummary
	OverallScore float64         `json:"overall_risk_score"`
	RiskLevel    model.RiskLevel `json:"risk_level"`
}

// BuildPrompt renders the rule-based results into the explanation prompt
func BuildPrompt(req ExplainRequest) (string, error) {
	summary, err := json.MarshalIndent(promptSummary{
		ContractSummary: req.Summary,
		OverallScore:    req.Risk.OverallScore,
		RiskLevel:       req.Risk.RiskLevel,
	}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal summary: %w", err)
	}

	clauses := make([]promptClause, 0, len(req.Clauses))
	for _, c := range req.Clauses {
		pc := promptClause{
			ClauseID:   c.Index,
			Text:       truncateRunes(c.Text, maxPromptClauseChars),
			Score:      c.Risk.Score,
			Level:      c.Risk.Level,
			Violations: c.LegalCheck.Violations,
			Deviations: c.Deviation.Deviations,
		}
		if c.RelevantLaw != nil {
			pc.LawSection = c.RelevantLaw.Section + " " + c.RelevantLaw.Act
		}
		clauses = append(clauses, pc)
	}
	analysis, err := json.MarshalIndent(clauses, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal clauses: %w", err)
	}

	return fmt.Sprintf(promptTemplate, summary, analysis), nil
}

// explanationJSON is the response contract the prompt asks for
type explanationJSON struct {
	OverallExplanation string            `json:"overall_explanation"`
	KeyRiskFactors     []string          `json:"key_risk_factors"`
	HighRiskClauses    []model.ClauseRef `json:"high_risk_clauses"`
	GeneralPrecautions []string          `json:"general_precautions"`
	ConfidenceNote     string            `json:"confidence_note"`
}

// ParseExplanation decodes a strict JSON response. A single surrounding
// markdown code fence is tolerated; anything else is an error.
func ParseExplanation(raw string) (model.AIExplanation, error) {
	body := stripCodeFence(strings.TrimSpace(raw))
	if body == "" {
		return model.AIExplanation{}, errors.New("empty response")
	}

	dec := json.NewDecoder(strings.NewReader(body))
	dec.DisallowUnknownFields()

	var out explanationJSON
	if err := dec.Decode(&out); err != nil {
		return model.AIExplanation{}, fmt.Errorf("decode explanation: %w", err)
	}
	if dec.More() {
		return model.AIExplanation{}, errors.New("decode explanation: trailing data after JSON object")
	}
	if strings.TrimSpace(out.OverallExplanation) == "" {
		return model.AIExplanation{}, errors.New("explanation is missing overall_explanation")
	}

	note := out.ConfidenceNote
	if note == "" {
		note = DefaultConfidenceNote
	}

	return model.AIExplanation{
		Enabled:            true,
		OverallExplanation: out.OverallExplanation,
		KeyRiskFactors:     out.KeyRiskFactors,
		HighRiskClauses:    out.HighRiskClauses,
		GeneralPrecautions: out.GeneralPrecautions,
		ConfidenceNote:     note,
	}, nil
}

func stripCodeFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	// Drop the info string, e.g. ```json
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	} else {
		return ""
	}
	s = strings.TrimSpace(s)
	return strings.TrimSpace(strings.TrimSuffix(s, "```"))
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
