package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/datainfa/compliance-cli/internal/model"
	"github.com/datainfa/compliance-cli/internal/store"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect assessment history",
	Long:  "Commands for listing and viewing stored assessments.",
}

// -- runs list --

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored assessments",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		regulation, _ := cmd.Flags().GetString("regulation")
		industry, _ := cmd.Flags().GetString("industry")
		org, _ := cmd.Flags().GetString("org")
		limit, _ := cmd.Flags().GetInt("limit")

		assessments, err := st.ListAssessments(ctx, store.Filter{
			Regulation:   regulation,
			Industry:     industry,
			Organization: org,
			Limit:        limit,
		})
		if err != nil {
			return eris.Wrap(err, "runs list")
		}

		if len(assessments) == 0 {
			fmt.Fprintln(os.Stderr, "No assessments found.")
			return nil
		}

		formatAssessmentList(os.Stdout, assessments)
		return nil
	},
}

// -- runs show --

var runsShowCmd = &cobra.Command{
	Use:   "show <assessment-id>",
	Short: "Show full details of a stored assessment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		a, err := st.GetAssessment(ctx, args[0])
		if err != nil {
			return eris.Wrap(err, "runs show")
		}

		return printJSON(a)
	},
}

func init() {
	runsListCmd.Flags().String("regulation", "", "filter by regulation code")
	runsListCmd.Flags().String("industry", "", "filter by industry")
	runsListCmd.Flags().String("org", "", "filter by organization")
	runsListCmd.Flags().Int("limit", 50, "max number of assessments to display")

	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsShowCmd)
	rootCmd.AddCommand(runsCmd)
}

func formatAssessmentList(out io.Writer, assessments []model.Assessment) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "ID\tORGANIZATION\tREGULATION\tINDUSTRY\tSCORE\tLEVEL\tCREATED\n")
	for _, a := range assessments {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.1f%%\t%s\t%s\n",
			a.ID,
			a.Organization,
			a.Regulation,
			a.Industry,
			a.Results.OverallScore,
			a.Results.ComplianceLevel,
			a.CreatedAt.Format("2006-01-02 15:04"),
		)
	}
	_ = w.Flush()
}
