package report

import (
	"context"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/datainfa/compliance-cli/internal/model"
	"github.com/datainfa/compliance-cli/pkg/anthropic"
)

const systemPrompt = "You are an expert compliance analyst specializing in data protection regulations. " +
	"Create a professional compliance report based on the assessment results provided. " +
	"Format your response using Markdown for clear structure with headings, bullet points, and emphasized text."

// Generator produces AI-written report narratives, falling back to the
// template report when the API is unavailable or fails.
type Generator struct {
	client    anthropic.Client
	model     string
	maxTokens int64
}

// NewGenerator creates a report Generator backed by the given Anthropic client.
func NewGenerator(client anthropic.Client, modelID string, maxTokens int64) *Generator {
	if maxTokens <= 0 {
		maxTokens = 4096
	}
	return &Generator{client: client, model: modelID, maxTokens: maxTokens}
}

// Generate returns an AI-written report for the results. Any failure falls
// back to the template report so callers always get a usable document.
func (g *Generator) Generate(ctx context.Context, results *model.Results, meta Meta) string {
	if g.client == nil {
		zap.L().Warn("report: AI client not configured, using template report")
		return Markdown(results, meta)
	}

	narrative, err := g.generate(ctx, results, meta)
	if err != nil {
		zap.L().Error("report: AI generation failed, using template report",
			zap.Error(err))
		return Markdown(results, meta)
	}
	return narrative
}

func (g *Generator) generate(ctx context.Context, results *model.Results, meta Meta) (string, error) {
	resp, err := g.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:     g.model,
		MaxTokens: g.maxTokens,
		System:    []anthropic.SystemBlock{{Text: systemPrompt}},
		Messages: []anthropic.Message{
			{Role: "user", Content: buildPrompt(results, meta)},
		},
	})
	if err != nil {
		return "", eris.Wrap(err, "report: create message")
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", eris.New("report: empty AI response")
	}
	resp.Usage.LogCost(g.model)
	return text, nil
}

// buildPrompt serializes the assessment results for the model.
func buildPrompt(results *model.Results, meta Meta) string {
	var b strings.Builder

	b.WriteString("Generate a detailed compliance report based on the following assessment results:\n\n")
	if meta.Organization != "" {
		fmt.Fprintf(&b, "Organization: %s\n", meta.Organization)
	}
	if meta.Regulation != "" {
		fmt.Fprintf(&b, "Regulation: %s\n", meta.Regulation)
	}
	if meta.Industry != "" {
		fmt.Fprintf(&b, "Industry: %s\n", meta.Industry)
	}
	fmt.Fprintf(&b, "Overall Compliance Score: %.1f%%\n", results.OverallScore)
	fmt.Fprintf(&b, "Compliance Level: %s\n\n", results.ComplianceLevel)

	b.WriteString("Section Scores and Recommendations:")
	for _, s := range results.SectionScores {
		if !s.Applicable {
			continue
		}
		fmt.Fprintf(&b, "\n- %s: %.1f%% compliance", s.Section, s.Score*100)
		recs := results.Recommendations[s.Section]
		if len(recs) > 0 {
			b.WriteString("\n  Key recommendations:")
			for i, rec := range recs {
				if i == maxSectionRecommendations {
					break
				}
				fmt.Fprintf(&b, "\n  %d. %s", i+1, rec)
			}
		}
	}

	b.WriteString("\n\nYour report should include:\n")
	b.WriteString("1. An executive summary assessing the overall compliance status\n")
	b.WriteString("2. Analysis of each section with risk levels and implications\n")
	b.WriteString("3. Prioritized action items with clear descriptions\n")
	b.WriteString("4. Strategic recommendations for improving compliance posture\n\n")
	b.WriteString("Ensure the tone is professional but accessible, avoiding overly technical language. ")
	b.WriteString("Use data-driven insights to provide specific, actionable recommendations. ")
	b.WriteString("Return ONLY the Markdown formatted report without any explanatory text.")

	return b.String()
}
