package model

// ComplianceLevel is the coarse human-readable bucket derived from the
// overall numeric score.
type ComplianceLevel string

const (
	LevelHigh        ComplianceLevel = "High Compliance"
	LevelSubstantial ComplianceLevel = "Substantial Compliance"
	LevelPartial     ComplianceLevel = "Partial Compliance"
	LevelLow         ComplianceLevel = "Low Compliance"

	// LevelError is the degraded-output sentinel: scoring failed and the
	// rest of the Results value carries no real compliance outcome.
	LevelError ComplianceLevel = "Error"
)

func (l ComplianceLevel) Valid() bool {
	switch l {
	case LevelHigh, LevelSubstantial, LevelPartial, LevelLow, LevelError:
		return true
	}
	return false
}

// LevelForScore maps an overall score on the 0-100 scale to its compliance
// level. Thresholds are inclusive lower bounds.
func LevelForScore(overall float64) ComplianceLevel {
	switch {
	case overall >= 90:
		return LevelHigh
	case overall >= 75:
		return LevelSubstantial
	case overall >= 50:
		return LevelPartial
	default:
		return LevelLow
	}
}

// SectionScore is the tagged per-section outcome: a numeric score in [0,1]
// when Applicable, or the not-applicable marker when no question in the
// section could be scored.
type SectionScore struct {
	Section    string  `json:"section"`
	Score      float64 `json:"score"`
	Applicable bool    `json:"applicable"`
}

// Results is the Score Calculator output. It is computed fresh per invocation
// and holds no state beyond one scoring call and its immediate consumers.
type Results struct {
	OverallScore    float64         `json:"overall_score"`
	ComplianceLevel ComplianceLevel `json:"compliance_level"`

	// SectionScores preserves questionnaire section order.
	SectionScores []SectionScore `json:"section_scores"`

	// Recommendations maps section name to ordered advice strings collected
	// from answered questions.
	Recommendations map[string][]string `json:"recommendations"`

	// HighRiskAreas lists applicable sections scoring below 0.6, worst first.
	HighRiskAreas []string `json:"high_risk_areas"`

	// ImprovementPriorities is the first five entries of HighRiskAreas.
	ImprovementPriorities []string `json:"improvement_priorities"`
}

// SectionScore returns the entry for a section name.
func (r *Results) SectionScore(name string) (SectionScore, bool) {
	for _, ss := range r.SectionScores {
		if ss.Section == name {
			return ss, true
		}
	}
	return SectionScore{}, false
}

// Degraded reports whether this Results value is the failure sentinel rather
// than a real scoring outcome.
func (r *Results) Degraded() bool {
	return r.ComplianceLevel == LevelError
}
