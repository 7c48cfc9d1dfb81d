package rules

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ppiankov/sentinel/internal/model"
	"gopkg.in/yaml.v3"
)

// DefaultFairStandard returns the compiled-in baseline of fair employment terms
func DefaultFairStandard() model.FairnessStandard {
	return model.FairnessStandard{
		Name:                  "default-india-employment",
		NoticePeriodDays:      30,
		ProbationMonths:       3,
		NonCompeteMonths:      0, // Restraints of trade are void under Section 27
		PenaltyPercentage:     10,
		IPScope:               "work-related only",
		TerminationNoticeDays: 30,
		WorkingHoursPerWeek:   40,
	}
}

// LoadFairStandard reads a fairness standard from a JSON or YAML file.
// The returned standard is always usable: on any failure it is the default
// and the error explains why the file was not applied.
func LoadFairStandard(path string) (model.FairnessStandard, error) {
	def := DefaultFairStandard()
	if path == "" {
		return def, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return def, fmt.Errorf("read fairness standard: %w", err)
	}

	std := def
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(data, &std)
	default:
		err = yaml.Unmarshal(data, &std)
	}
	if err != nil {
		return def, fmt.Errorf("parse fairness standard %s: %w", path, err)
	}

	if std.NoticePeriodDays <= 0 || std.PenaltyPercentage <= 0 {
		return def, fmt.Errorf("fairness standard %s: notice_period_days and penalty_percentage must be positive", path)
	}
	if std.Name == def.Name {
		std.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return std, nil
}
