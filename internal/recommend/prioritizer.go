// Package recommend ranks and buckets remediation recommendations from a
// scored assessment.
package recommend

import (
	"go.uber.org/zap"

	"github.com/datainfa/compliance-cli/internal/model"
)

// maxPerSection caps how many recommendations a prioritized section keeps.
const maxPerSection = 5

// Priority is the urgency bucket for a section's recommendations.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// PriorityLevel maps a section score in [0, inf) to its urgency bucket.
// Pure and total: scores below 0.3 are high, below 0.5 medium, otherwise low.
func PriorityLevel(score float64) Priority {
	switch {
	case score < 0.3:
		return PriorityHigh
	case score < 0.5:
		return PriorityMedium
	default:
		return PriorityLow
	}
}

// Prioritize returns, for each improvement-priority section that has
// recommendations, at most the first five of them in original order. Sections
// without recommendations are omitted entirely. Internal failure yields an
// empty map and a log entry, never an error.
func Prioritize(results *model.Results) (prioritized map[string][]string) {
	prioritized = map[string][]string{}
	defer func() {
		if r := recover(); r != nil {
			zap.L().Error("recommend: prioritize failed",
				zap.Any("panic", r),
				zap.Stack("stack"),
			)
			prioritized = map[string][]string{}
		}
	}()

	for _, section := range results.ImprovementPriorities {
		recs := results.Recommendations[section]
		if len(recs) == 0 {
			continue
		}
		if len(recs) > maxPerSection {
			recs = recs[:maxPerSection]
		}
		prioritized[section] = recs
	}
	return prioritized
}

// Group is one section's entry within a priority bucket.
type Group struct {
	Section         string   `json:"section"`
	Score           float64  `json:"score"` // percentage, 0-100
	Recommendations []string `json:"recommendations"`
}

// Buckets groups sections by recommendation urgency.
type Buckets struct {
	High   []Group `json:"high"`
	Medium []Group `json:"medium"`
	Low    []Group `json:"low"`
}

// OrganizeByPriority walks the section scores in questionnaire order and
// buckets every applicable section that has recommendations. Sections without
// recommendations are skipped even when their score is low.
func OrganizeByPriority(results *model.Results) (buckets Buckets) {
	defer func() {
		if r := recover(); r != nil {
			zap.L().Error("recommend: organize failed",
				zap.Any("panic", r),
				zap.Stack("stack"),
			)
			buckets = Buckets{}
		}
	}()

	for _, ss := range results.SectionScores {
		if !ss.Applicable {
			continue
		}
		recs := results.Recommendations[ss.Section]
		if len(recs) == 0 {
			continue
		}

		group := Group{
			Section:         ss.Section,
			Score:           ss.Score * 100,
			Recommendations: recs,
		}
		switch PriorityLevel(ss.Score) {
		case PriorityHigh:
			buckets.High = append(buckets.High, group)
		case PriorityMedium:
			buckets.Medium = append(buckets.Medium, group)
		case PriorityLow:
			buckets.Low = append(buckets.Low, group)
		}
	}
	return buckets
}
