// Package eval turns computed ratios into categorical judgments: findings
// with stable categories, Japanese comment strings, color classes and
// overall evaluations. All rules are table-driven off Thresholds so cutoffs
// can change without touching rule logic.
package eval

import (
	"fmt"
	"log"
	"os"

	"gopkg.in/yaml.v2"
)

// Band is a two-cutoff classification: >= High, >= Average, below.
type Band struct {
	High    float64 `yaml:"high"`
	Average float64 `yaml:"average"`
}

// Thresholds holds every evaluator cutoff. Values are percentages.
type Thresholds struct {
	AchievementGood    float64 `yaml:"achievement_good"`
	AchievementWarning float64 `yaml:"achievement_warning"`

	ROE Band `yaml:"roe"`

	// ROA carries its own lower cutoffs: total assets exceed equity, so ROA
	// runs structurally below ROE.
	ROA Band `yaml:"roa"`

	OperatingMargin Band `yaml:"operating_margin"`
	EquityRatio     Band `yaml:"equity_ratio"`
	CurrentRatio    Band `yaml:"current_ratio"`

	// FixedRatioMax is the upper bound above which fixed assets exceed
	// equity funding.
	FixedRatioMax float64 `yaml:"fixed_ratio_max"`

	// GrowthStrong separates strong growth from moderate growth in the
	// overall growth evaluation.
	GrowthStrong float64 `yaml:"growth_strong"`

	// SegmentDominance is the composition share above which a single
	// segment is flagged as dominant.
	SegmentDominance float64 `yaml:"segment_dominance"`
}

// DefaultThresholds returns the built-in cutoffs.
func DefaultThresholds() Thresholds {
	return Thresholds{
		AchievementGood:    90,
		AchievementWarning: 80,
		ROE:                Band{High: 10, Average: 5},
		ROA:                Band{High: 5, Average: 2},
		OperatingMargin:    Band{High: 10, Average: 5},
		EquityRatio:        Band{High: 50, Average: 30},
		CurrentRatio:       Band{High: 200, Average: 100},
		FixedRatioMax:      100,
		GrowthStrong:       10,
		SegmentDominance:   50,
	}
}

// LoadThresholds reads the cutoff table from a YAML file. A missing file is
// not an error: defaults apply, and keys absent from the file keep their
// default values.
func LoadThresholds(path string) (Thresholds, error) {
	t := DefaultThresholds()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Printf("[Evaluator] %s not found, using default thresholds", path)
			return t, nil
		}
		return t, fmt.Errorf("failed to read thresholds: %w", err)
	}
	if err := yaml.Unmarshal(data, &t); err != nil {
		return DefaultThresholds(), fmt.Errorf("failed to parse thresholds: %w", err)
	}
	return t, nil
}
