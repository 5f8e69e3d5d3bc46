// Package assess implements the scoring core: per-section and overall
// compliance scores, level mapping, and high-risk selection.
package assess

import (
	"sort"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/datainfa/compliance-cli/internal/model"
)

const (
	// highRiskThreshold is the section score below which a section is
	// flagged as a high-risk area.
	highRiskThreshold = 0.6

	// maxPriorities caps the improvement-priorities list.
	maxPriorities = 5
)

// Calculator scores a questionnaire against a set of responses. It holds only
// the externally built recommendation index and no per-call state, so a single
// Calculator is safe for concurrent use as long as the index is not mutated.
type Calculator struct {
	recommendations model.RecommendationIndex
}

// NewCalculator creates a Calculator reading advice from the given index.
// A nil index disables recommendation collection.
func NewCalculator(index model.RecommendationIndex) *Calculator {
	return &Calculator{recommendations: index}
}

// Compute scores every section of the questionnaire and derives the overall
// score, compliance level, recommendation lists, and risk rankings.
//
// Compute never returns an error: any internal failure is recovered, logged
// with its stack, and reported as the degraded sentinel (overall 0, level
// Error, all collections empty). Callers must treat the Error level as
// "scoring failed", not as a compliance outcome.
func (c *Calculator) Compute(q *model.Questionnaire, responses model.ResponseSet) (results model.Results) {
	defer func() {
		if r := recover(); r != nil {
			zap.L().Error("assess: scoring failed",
				zap.Any("panic", r),
				zap.Stack("stack"),
			)
			results = Degraded()
		}
	}()

	results = model.Results{
		Recommendations: map[string][]string{},
	}

	for i, section := range q.Sections {
		results.SectionScores = append(results.SectionScores,
			c.scoreSection(i, section, q.AnswerPoints, responses, results.Recommendations))
	}

	var weightedSum, totalWeight float64
	for i, ss := range results.SectionScores {
		if !ss.Applicable {
			continue
		}
		w := q.Sections[i].Weight
		weightedSum += ss.Score * w
		totalWeight += w
	}
	if totalWeight > 0 {
		results.OverallScore = 100 * weightedSum / totalWeight
	}
	results.ComplianceLevel = model.LevelForScore(results.OverallScore)

	// High-risk candidates: applicable sections under the threshold, worst
	// first, ties kept in questionnaire order. Not-applicable sections are
	// never flagged.
	var atRisk []model.SectionScore
	for _, ss := range results.SectionScores {
		if ss.Applicable && ss.Score < highRiskThreshold {
			atRisk = append(atRisk, ss)
		}
	}
	sort.SliceStable(atRisk, func(i, j int) bool {
		return atRisk[i].Score < atRisk[j].Score
	})
	for _, ss := range atRisk {
		results.HighRiskAreas = append(results.HighRiskAreas, ss.Section)
	}
	results.ImprovementPriorities = results.HighRiskAreas
	if len(results.ImprovementPriorities) > maxPriorities {
		results.ImprovementPriorities = results.ImprovementPriorities[:maxPriorities]
	}

	return results
}

// scoreSection averages the point values of the section's answered, scored
// questions. Unanswered questions, labels missing from the points table, and
// not-applicable answers all stay out of the denominator; advice is still
// collected for every answered question with a matching index entry.
func (c *Calculator) scoreSection(idx int, section model.Section, points map[string]model.Points, responses model.ResponseSet, recs map[string][]string) model.SectionScore {
	var sum float64
	var answered int

	for j := range section.Questions {
		answer, ok := responses.Answer(idx, j)
		if !ok {
			continue
		}

		c.collectAdvice(section.Name, answer, recs)

		p, known := points[answer]
		if !known || p.NA {
			continue
		}
		sum += p.Value
		answered++
	}

	if answered == 0 {
		return model.SectionScore{Section: section.Name}
	}
	return model.SectionScore{
		Section:    section.Name,
		Score:      sum / float64(answered),
		Applicable: true,
	}
}

// collectAdvice appends the index advice for (section, answer) to the
// section's recommendation list, once per distinct advice string.
func (c *Calculator) collectAdvice(section, answer string, recs map[string][]string) {
	advice, ok := c.recommendations.Advice(section, answer)
	if !ok {
		return
	}
	for _, existing := range recs[section] {
		if existing == advice {
			return
		}
	}
	recs[section] = append(recs[section], advice)
}

// Degraded returns the failure sentinel Results value.
func Degraded() model.Results {
	return model.Results{
		ComplianceLevel: model.LevelError,
		Recommendations: map[string][]string{},
	}
}

// Provider resolves a regulation/industry pair to a parsed questionnaire and
// its recommendation index. Implementations fail loudly for unknown pairs.
type Provider interface {
	Questionnaire(regulation, industry string) (*model.Questionnaire, model.RecommendationIndex, error)
}

// Run resolves the questionnaire for the pair and scores responses against
// it. A provider failure is absorbed per the core failure policy: it is
// logged with full detail and reported as the degraded sentinel, never as an
// error to the caller.
func Run(p Provider, regulation, industry string, responses model.ResponseSet) model.Results {
	q, index, err := p.Questionnaire(regulation, industry)
	if err != nil {
		zap.L().Error("assess: load questionnaire",
			zap.String("regulation", regulation),
			zap.String("industry", industry),
			zap.String("trace", eris.ToString(err, true)),
			zap.Error(err),
		)
		return Degraded()
	}
	return NewCalculator(index).Compute(q, responses)
}
