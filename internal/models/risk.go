package models

import "errors"

// ErrInvalidRiskLevel is returned when a selector value is not one of the known risk levels
var ErrInvalidRiskLevel = errors.New("invalid risk level")

// RiskLevel is the qualitative risk selector shown on the form
type RiskLevel string

const (
	RiskLow    RiskLevel = "low risk"
	RiskMedian RiskLevel = "median risk"
	RiskHigh   RiskLevel = "high risk"
)

// DefaultRiskLevel is preselected on the form
const DefaultRiskLevel = RiskMedian

// RiskLevels lists the selector choices in display order
func RiskLevels() []RiskLevel {
	return []RiskLevel{RiskLow, RiskMedian, RiskHigh}
}

// ParseRiskLevel validates a raw selector value. Matching is exact.
func ParseRiskLevel(s string) (RiskLevel, error) {
	for _, r := range RiskLevels() {
		if string(r) == s {
			return r, nil
		}
	}
	return "", ErrInvalidRiskLevel
}
