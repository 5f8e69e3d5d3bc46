package main

import (
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/datainfa/compliance-cli/internal/questionnaire"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List available regulations and industries",
	RunE: func(cmd *cobra.Command, args []string) error {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintf(w, "REGULATION\tNAME\tINDUSTRIES\n")

		codes := make([]string, 0, len(questionnaire.Regulations))
		for code := range questionnaire.Regulations {
			codes = append(codes, code)
		}
		sort.Strings(codes)

		for _, code := range codes {
			industries, err := questionnaire.AvailableIndustries(cfg.Questionnaire.Dir, code)
			if err != nil {
				// No questionnaire directory shipped for this regulation.
				industries = nil
			}
			names := make([]string, 0, len(industries))
			for _, name := range industries {
				names = append(names, name)
			}
			sort.Strings(names)

			list := "-"
			if len(names) > 0 {
				list = strings.Join(names, ", ")
			}
			_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", code, questionnaire.RegulationName(code), list)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
