// Package report renders assessment results as human-readable reports,
// either from templates or through an AI narrative.
package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/datainfa/compliance-cli/internal/model"
	"github.com/datainfa/compliance-cli/internal/recommend"
)

// Meta carries assessment context printed in the report header.
type Meta struct {
	Organization string
	Regulation   string
	Industry     string
	GeneratedAt  time.Time
}

// Per-section risk labels on the percentage scale.
const (
	riskHigh     = "HIGH RISK"
	riskModerate = "MODERATE RISK"
	riskLow      = "LOW RISK"
)

const maxSectionRecommendations = 3

// Markdown renders a template-based compliance report.
func Markdown(results *model.Results, meta Meta) string {
	var b strings.Builder

	writeHeader(&b, meta)
	writeExecutiveSummary(&b, results)
	writeDetailedFindings(&b, results)
	writeActionPlan(&b, results)

	return b.String()
}

func writeHeader(b *strings.Builder, meta Meta) {
	fmt.Fprintf(b, "# Compliance Assessment Report\n\n")
	if meta.Organization != "" {
		fmt.Fprintf(b, "**Organization:** %s  \n", meta.Organization)
	}
	if meta.Regulation != "" {
		fmt.Fprintf(b, "**Regulation:** %s  \n", meta.Regulation)
	}
	if meta.Industry != "" {
		fmt.Fprintf(b, "**Industry:** %s  \n", meta.Industry)
	}
	when := meta.GeneratedAt
	if when.IsZero() {
		when = time.Now().UTC()
	}
	fmt.Fprintf(b, "**Generated:** %s\n\n", when.Format("2006-01-02"))
}

func writeExecutiveSummary(b *strings.Builder, results *model.Results) {
	b.WriteString("## EXECUTIVE SUMMARY\n\n")
	fmt.Fprintf(b,
		"Based on the assessment, your organization's overall compliance score is **%.1f%%**, which indicates a **%s** level of compliance.\n\n",
		results.OverallScore, results.ComplianceLevel)
	fmt.Fprintf(b, "%s\n\n", overallAssessment(results.OverallScore))
}

// overallAssessment picks the summary sentence for the overall score.
func overallAssessment(overall float64) string {
	switch {
	case overall >= 80:
		return "Your organization demonstrates strong compliance with the data protection requirements."
	case overall >= 60:
		return "Your organization shows moderate compliance with data protection requirements, but there are areas that need improvement."
	default:
		return "Your organization has significant compliance gaps that should be addressed urgently."
	}
}

func writeDetailedFindings(b *strings.Builder, results *model.Results) {
	b.WriteString("## DETAILED FINDINGS\n\n")

	// Worst sections first.
	sections := applicableSections(results)
	sort.SliceStable(sections, func(i, j int) bool {
		return sections[i].Score < sections[j].Score
	})

	for _, s := range sections {
		pct := s.Score * 100
		risk, urgency := riskLevel(pct)

		fmt.Fprintf(b, "### %s - %.1f%%\n", s.Section, pct)
		fmt.Fprintf(b, "**Risk Level: %s**\n", risk)
		fmt.Fprintf(b, "This area requires %s.\n", urgency)

		recs := results.Recommendations[s.Section]
		switch {
		case len(recs) > 0:
			b.WriteString("#### Key recommendations:\n")
			for i, rec := range recs {
				if i == maxSectionRecommendations {
					fmt.Fprintf(b, "* *And %d more recommendation(s).*\n", len(recs)-maxSectionRecommendations)
					break
				}
				fmt.Fprintf(b, "* %s\n", rec)
			}
		case risk == riskHigh:
			b.WriteString("#### Key recommendations:\n")
			fmt.Fprintf(b, "* Review %s practices against the regulation's requirements and document remediation steps.\n", s.Section)
		}
		b.WriteString("\n")
	}
}

func riskLevel(pct float64) (label, urgency string) {
	switch {
	case pct < 60:
		return riskHigh, "urgent attention"
	case pct < 75:
		return riskModerate, "attention"
	default:
		return riskLow, "continued monitoring"
	}
}

func writeActionPlan(b *strings.Builder, results *model.Results) {
	b.WriteString("## ACTION PLAN\n\n")

	switch {
	case results.OverallScore < 60:
		b.WriteString("**Given the high-risk areas identified, we recommend the following priority actions:**\n\n")
	case results.OverallScore < 75:
		b.WriteString("**To improve your compliance posture, consider the following actions:**\n\n")
	default:
		b.WriteString("**To maintain your strong compliance posture, consider the following actions:**\n\n")
	}

	priorities := recommend.Prioritize(results)
	n := 0
	for _, section := range results.ImprovementPriorities {
		recs := priorities[section]
		if len(recs) == 0 {
			continue
		}
		n++
		if n > 3 {
			break
		}
		fmt.Fprintf(b, "%d. **Focus on improving %s** by implementing these actions:\n", n, section)
		for j, rec := range recs {
			if j == 2 {
				break
			}
			fmt.Fprintf(b, "   %d. %s\n", j+1, rec)
		}
		b.WriteString("\n")
	}
}

func applicableSections(results *model.Results) []model.SectionScore {
	out := make([]model.SectionScore, 0, len(results.SectionScores))
	for _, s := range results.SectionScores {
		if s.Applicable {
			out = append(out, s)
		}
	}
	return out
}
