// Package explain renders deterministic plain-language explanations from
// rule engine output. Nothing here calls out to a network service.
package explain

import (
	"fmt"
	"strings"

	"github.com/ppiankov/sentinel/internal/model"
	"github.com/ppiankov/sentinel/internal/rules"
)

// Archetype is a recognizable kind of clause with a canned summary
type Archetype struct {
	Name    string
	Terms   rules.Terms
	Summary string
}

// Archetypes returns the clause archetypes in match order
func Archetypes() []Archetype {
	return []Archetype{
		{
			Name:    "non-compete",
			Terms:   rules.Terms{"non-compete", "not compete"},
			Summary: "This clause attempts to restrict you from working in similar roles or companies after leaving.",
		},
		{
			Name:    "intellectual-property",
			Terms:   rules.Terms{"intellectual property", "copyright"},
			Summary: "This clause defines who owns the work, ideas, or creations you produce.",
		},
		{
			Name:    "termination",
			Terms:   rules.Terms{"termination", "terminate"},
			Summary: "This clause explains when and how the employment relationship can be ended.",
		},
		{
			Name:    "penalty",
			Terms:   rules.Terms{"penalty", "liquidated damages"},
			Summary: "This clause specifies financial penalties if the contract is broken.",
		},
		{
			Name:    "notice",
			Terms:   rules.Terms{"notice"},
			Summary: "This clause defines how much advance notice is required before leaving the job.",
		},
		{
			Name:    "confidentiality",
			Terms:   rules.Terms{"confidentiality", "nda"},
			Summary: "This clause requires you to keep certain information private.",
		},
	}
}

var violationTemplates = map[model.ViolationKind]string{
	model.ViolationNonCompete:       "**Non-compete restriction**: In India, clauses that prevent you from working in your field are generally not enforceable. You have the right to earn a livelihood.",
	model.ViolationUnlawfulObject:   "**Unlawful purpose**: This clause may involve something illegal or against public policy, making it void.",
	model.ViolationExcessivePenalty: "**Excessive penalty**: The penalty amount seems unreasonably high. Indian courts typically reduce excessive penalties to actual losses only.",
	model.ViolationIPOverreach:      "**Overly broad IP claim**: The company is claiming ownership of too much - potentially including your personal projects or work done outside of work hours.",
	model.ViolationUnfairTerms:      "**One-sided terms**: This clause gives too much power to one party without reasonable protections for you.",
	model.ViolationVagueTerms:       "**Vague language**: The clause uses unclear terms that could lead to different interpretations and disputes.",
}

// Composer builds clause explanations from fixed templates
type Composer struct {
	rules      rules.ExplanationRules
	archetypes []Archetype
}

// NewComposer creates a composer
func NewComposer(rs *rules.RuleSet) *Composer {
	return &Composer{
		rules:      rs.Explanation,
		archetypes: Archetypes(),
	}
}

// Compose renders the explanation for one clause: summary, legal context,
// up to the configured number of issues, then the disclaimer
func (c *Composer) Compose(text string, check model.LegalCheck, law *model.LawRecord) string {
	var b strings.Builder

	b.WriteString("**What this clause means:** ")
	b.WriteString(c.Summarize(text))

	if law != nil {
		fmt.Fprintf(&b, "\n\n**Legal context:** This relates to %s of the %s, which deals with %s.",
			law.Section, law.Act, strings.ToLower(law.Title))
	}

	if len(check.Violations) > 0 {
		b.WriteString("\n\n**Potential issues:**")
		for i, v := range check.Violations {
			if i >= c.rules.MaxViolations {
				break
			}
			fmt.Fprintf(&b, "\n%d. %s", i+1, ExplainViolation(v))
		}
	} else {
		b.WriteString("\n\n**Assessment:** ")
		b.WriteString(c.rules.NoIssues)
	}

	b.WriteString("\n\n")
	b.WriteString(c.rules.Disclaimer)
	return b.String()
}

// Summarize returns the archetype summary for text, or a truncated excerpt
func (c *Composer) Summarize(text string) string {
	lower := strings.ToLower(text)
	for _, a := range c.archetypes {
		if a.Terms.Match(lower) {
			return a.Summary
		}
	}
	return fmt.Sprintf("This clause covers: %s...", truncate(text, c.rules.SummaryMaxChars))
}

// ExplainViolation renders one violation with its severity indicator
func ExplainViolation(v model.Violation) string {
	body, ok := violationTemplates[v.Kind]
	if !ok {
		body = "Potential issue: " + v.Description
	}

	out := SeverityIndicator(v.Severity) + " " + body
	if v.Recommendation != "" {
		out += " **Suggested action:** " + v.Recommendation
	}
	return out
}

// SeverityIndicator returns the colored marker for a severity
func SeverityIndicator(s model.Severity) string {
	switch s {
	case model.SeverityCritical:
		return "🔴"
	case model.SeverityHigh:
		return "🟠"
	case model.SeverityMedium:
		return "🟡"
	case model.SeverityLow:
		return "🟢"
	default:
		return "⚪"
	}
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
