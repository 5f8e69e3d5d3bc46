package report

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datainfa/compliance-cli/internal/model"
)

func sampleResults() *model.Results {
	return &model.Results{
		OverallScore:    55.0,
		ComplianceLevel: model.LevelPartial,
		SectionScores: []model.SectionScore{
			{Section: "Data Governance", Score: 0.85, Applicable: true},
			{Section: "Consent Management", Score: 0.40, Applicable: true},
			{Section: "Breach Response", Score: 0.65, Applicable: true},
			{Section: "Cross-Border Transfers", Applicable: false},
		},
		Recommendations: map[string][]string{
			"Consent Management": {
				"Implement explicit consent capture",
				"Maintain a consent withdrawal register",
				"Review consent language for clarity",
				"Audit legacy consent records",
			},
			"Breach Response": {"Define a 72-hour notification workflow"},
		},
		HighRiskAreas:         []string{"Consent Management"},
		ImprovementPriorities: []string{"Consent Management", "Breach Response", "Data Governance"},
	}
}

func TestMarkdown_Header(t *testing.T) {
	out := Markdown(sampleResults(), Meta{
		Organization: "Acme Corp",
		Regulation:   "DPDP",
		Industry:     "Banking",
		GeneratedAt:  time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
	})

	assert.Contains(t, out, "# Compliance Assessment Report")
	assert.Contains(t, out, "**Organization:** Acme Corp")
	assert.Contains(t, out, "**Regulation:** DPDP")
	assert.Contains(t, out, "**Generated:** 2026-03-10")
}

func TestMarkdown_ExecutiveSummary(t *testing.T) {
	out := Markdown(sampleResults(), Meta{})

	assert.Contains(t, out, "## EXECUTIVE SUMMARY")
	assert.Contains(t, out, "overall compliance score is **55.0%**")
	assert.Contains(t, out, "**Partial Compliance** level of compliance")
	assert.Contains(t, out, "significant compliance gaps")
}

func TestMarkdown_OverallAssessmentTone(t *testing.T) {
	assert.Contains(t, overallAssessment(85), "strong compliance")
	assert.Contains(t, overallAssessment(70), "moderate compliance")
	assert.Contains(t, overallAssessment(40), "significant compliance gaps")
}

func TestMarkdown_FindingsWorstFirst(t *testing.T) {
	out := Markdown(sampleResults(), Meta{})

	consent := strings.Index(out, "### Consent Management - 40.0%")
	breach := strings.Index(out, "### Breach Response - 65.0%")
	governance := strings.Index(out, "### Data Governance - 85.0%")
	require.Positive(t, consent)
	assert.Less(t, consent, breach)
	assert.Less(t, breach, governance)

	// Inapplicable sections are left out.
	assert.NotContains(t, out, "Cross-Border Transfers")
}

func TestMarkdown_RiskLevels(t *testing.T) {
	out := Markdown(sampleResults(), Meta{})

	assert.Contains(t, out, "**Risk Level: HIGH RISK**")
	assert.Contains(t, out, "**Risk Level: MODERATE RISK**")
	assert.Contains(t, out, "**Risk Level: LOW RISK**")
	assert.Contains(t, out, "urgent attention")
	assert.Contains(t, out, "continued monitoring")
}

func TestMarkdown_RecommendationsCapped(t *testing.T) {
	out := Markdown(sampleResults(), Meta{})

	assert.Contains(t, out, "* Implement explicit consent capture")
	assert.Contains(t, out, "* Review consent language for clarity")
	assert.Contains(t, out, "*And 1 more recommendation(s).*")
	assert.NotContains(t, out, "Audit legacy consent records")
}

func TestMarkdown_HighRiskWithoutRecommendations(t *testing.T) {
	r := sampleResults()
	r.SectionScores = append(r.SectionScores, model.SectionScore{
		Section: "Vendor Oversight", Score: 0.30, Applicable: true,
	})
	out := Markdown(r, Meta{})

	assert.Contains(t, out, "* Review Vendor Oversight practices against the regulation's requirements")
	// Non-high-risk sections without recommendations get no placeholder.
	assert.NotContains(t, out, "Review Data Governance practices")
}

func TestMarkdown_ActionPlan(t *testing.T) {
	out := Markdown(sampleResults(), Meta{})

	assert.Contains(t, out, "## ACTION PLAN")
	assert.Contains(t, out, "high-risk areas identified")
	assert.Contains(t, out, "**Focus on improving Consent Management**")
	// Sections without recommendations are skipped in the plan.
	assert.NotContains(t, out, "**Focus on improving Data Governance**")
}

func TestMarkdown_ActionPlanTone(t *testing.T) {
	r := sampleResults()
	r.OverallScore = 70
	assert.Contains(t, Markdown(r, Meta{}), "To improve your compliance posture")

	r.OverallScore = 90
	assert.Contains(t, Markdown(r, Meta{}), "maintain your strong compliance posture")
}

func TestMarkdown_EmptyResults(t *testing.T) {
	out := Markdown(&model.Results{ComplianceLevel: model.LevelLow}, Meta{})

	assert.Contains(t, out, "## EXECUTIVE SUMMARY")
	assert.Contains(t, out, "## DETAILED FINDINGS")
	assert.Contains(t, out, "## ACTION PLAN")
}
