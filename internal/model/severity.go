package model

import (
	"fmt"
	"strings"
)

// Severity ranks a finding. The ordering is total:
// critical > high > medium > low > none.
type Severity string

const (
	SeverityNone     Severity = "none"
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Rank returns the position of the severity in the fixed ordering (none = 0)
func (s Severity) Rank() int {
	switch s {
	case SeverityLow:
		return 1
	case SeverityMedium:
		return 2
	case SeverityHigh:
		return 3
	case SeverityCritical:
		return 4
	default:
		return 0
	}
}

// AtLeast reports whether s ranks at or above other
func (s Severity) AtLeast(other Severity) bool {
	return s.Rank() >= other.Rank()
}

func (s Severity) String() string {
	if s == "" {
		return string(SeverityNone)
	}
	return string(s)
}

// ParseSeverity parses a case-insensitive severity name
func ParseSeverity(raw string) (Severity, error) {
	switch sev := Severity(strings.ToLower(strings.TrimSpace(raw))); sev {
	case SeverityNone, SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return sev, nil
	case "":
		return SeverityNone, nil
	default:
		return SeverityNone, fmt.Errorf("unknown severity: %q", raw)
	}
}

// MaxSeverity returns the highest-ranked severity, none for no input
func MaxSeverity(severities ...Severity) Severity {
	max := SeverityNone
	for _, s := range severities {
		if s.Rank() > max.Rank() {
			max = s
		}
	}
	return max
}

// UnmarshalYAML accepts severity names in any case
func (s *Severity) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var raw string
	if err := unmarshal(&raw); err != nil {
		return err
	}
	parsed, err := ParseSeverity(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// RiskLevel is the categorical form of a 0-100 risk score
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// Rank orders risk levels low (0) to critical (3)
func (l RiskLevel) Rank() int {
	switch l {
	case RiskMedium:
		return 1
	case RiskHigh:
		return 2
	case RiskCritical:
		return 3
	default:
		return 0
	}
}

// Color returns the display color used by report frontends
func (l RiskLevel) Color() string {
	switch l {
	case RiskLow:
		return "#22c55e"
	case RiskMedium:
		return "#eab308"
	case RiskHigh:
		return "#f97316"
	case RiskCritical:
		return "#ef4444"
	default:
		return "#6b7280"
	}
}

// Badge returns a short human label for terminal and Markdown output
func (l RiskLevel) Badge() string {
	switch l {
	case RiskLow:
		return "🟢 Low Risk"
	case RiskMedium:
		return "🟡 Medium Risk"
	case RiskHigh:
		return "🟠 High Risk"
	case RiskCritical:
		return "🔴 Critical Risk"
	default:
		return "⚪ Unknown"
	}
}
