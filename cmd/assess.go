package main

import (
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	assessOrg        string
	assessRegulation string
	assessIndustry   string
	assessResponses  string
	assessOutput     string
	assessSave       bool
)

var assessCmd = &cobra.Command{
	Use:   "assess",
	Short: "Score questionnaire responses",
	Long:  "Scores a JSON response file against the questionnaire for a regulation and industry, printing section scores, compliance level, and improvement priorities.",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := runAssessment(assessOrg, assessRegulation, assessIndustry, assessResponses)
		if err != nil {
			return err
		}

		if assessSave {
			ctx := cmd.Context()
			st, err := initStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close() //nolint:errcheck

			saved, err := st.CreateAssessment(ctx, a)
			if err != nil {
				return eris.Wrap(err, "save assessment")
			}
			a = saved
			zap.L().Info("assessment saved", zap.String("id", saved.ID))
		}

		switch assessOutput {
		case "json":
			return printJSON(a)
		case "table", "":
			fmt.Fprintf(os.Stdout, "Assessment: %s / %s\n\n", a.Regulation, a.Industry)
			formatResults(os.Stdout, &a.Results)
			return nil
		default:
			return eris.Errorf("unknown output format %q", assessOutput)
		}
	},
}

func init() {
	assessCmd.Flags().StringVar(&assessOrg, "org", "", "organization name")
	assessCmd.Flags().StringVar(&assessRegulation, "regulation", "", "regulation code (DPDP, PDPPL, NPC)")
	assessCmd.Flags().StringVar(&assessIndustry, "industry", "", "industry identifier")
	assessCmd.Flags().StringVar(&assessResponses, "responses", "", "path to JSON responses file")
	assessCmd.Flags().StringVar(&assessOutput, "output", "table", "output format (table, json)")
	assessCmd.Flags().BoolVar(&assessSave, "save", false, "save the assessment to the history store")
	_ = assessCmd.MarkFlagRequired("regulation")
	_ = assessCmd.MarkFlagRequired("industry")
	_ = assessCmd.MarkFlagRequired("responses")
	rootCmd.AddCommand(assessCmd)
}
