package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/datainfa/compliance-cli/internal/report"
	"github.com/datainfa/compliance-cli/pkg/anthropic"
)

var (
	reportOrg        string
	reportRegulation string
	reportIndustry   string
	reportResponses  string
	reportOut        string
	reportAI         bool
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Generate a Markdown compliance report",
	Long:  "Scores a response file and renders a Markdown report with executive summary, per-section findings, and an action plan. With --ai, an AI-written narrative is generated instead, falling back to the template on failure.",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := runAssessment(reportOrg, reportRegulation, reportIndustry, reportResponses)
		if err != nil {
			return err
		}

		meta := report.Meta{
			Organization: a.Organization,
			Regulation:   a.Regulation,
			Industry:     a.Industry,
			GeneratedAt:  a.CreatedAt,
		}

		var doc string
		if reportAI {
			if err := cfg.Validate("anthropic"); err != nil {
				return err
			}
			client := anthropic.NewClient(cfg.Anthropic.Key, anthropic.WithRateLimit(cfg.Anthropic.RPS))
			gen := report.NewGenerator(client, cfg.Anthropic.Model, cfg.Anthropic.MaxTokens)
			doc = gen.Generate(cmd.Context(), &a.Results, meta)
		} else {
			doc = report.Markdown(&a.Results, meta)
		}

		if reportOut == "" || reportOut == "-" {
			fmt.Fprintln(os.Stdout, doc)
			return nil
		}
		return os.WriteFile(reportOut, []byte(doc), 0o644)
	},
}

func init() {
	reportCmd.Flags().StringVar(&reportOrg, "org", "", "organization name")
	reportCmd.Flags().StringVar(&reportRegulation, "regulation", "", "regulation code (DPDP, PDPPL, NPC)")
	reportCmd.Flags().StringVar(&reportIndustry, "industry", "", "industry identifier")
	reportCmd.Flags().StringVar(&reportResponses, "responses", "", "path to JSON responses file")
	reportCmd.Flags().StringVar(&reportOut, "out", "-", "output file (- for stdout)")
	reportCmd.Flags().BoolVar(&reportAI, "ai", false, "generate the narrative with the Anthropic API")
	_ = reportCmd.MarkFlagRequired("regulation")
	_ = reportCmd.MarkFlagRequired("industry")
	_ = reportCmd.MarkFlagRequired("responses")
	rootCmd.AddCommand(reportCmd)
}
