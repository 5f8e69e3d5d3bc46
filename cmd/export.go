package main

import (
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/datainfa/compliance-cli/internal/export"
	"github.com/datainfa/compliance-cli/internal/model"
)

var (
	exportOrg        string
	exportRegulation string
	exportIndustry   string
	exportResponses  string
	exportID         string
	exportFormat     string
	exportOut        string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export assessment results to XLSX or CSV",
	Long:  "Exports an assessment, either scored from a response file or loaded from the history store by --id.",
	RunE: func(cmd *cobra.Command, args []string) error {
		var a *model.Assessment
		var err error

		switch {
		case exportID != "":
			st, sErr := initStore(cmd.Context())
			if sErr != nil {
				return sErr
			}
			defer st.Close() //nolint:errcheck
			a, err = st.GetAssessment(cmd.Context(), exportID)
		case exportResponses != "":
			a, err = runAssessment(exportOrg, exportRegulation, exportIndustry, exportResponses)
		default:
			return eris.New("either --id or --responses is required")
		}
		if err != nil {
			return err
		}

		out := exportOut
		if out == "" {
			if err := os.MkdirAll(cfg.Export.Dir, 0o755); err != nil {
				return eris.Wrap(err, "create export dir")
			}
			out = filepath.Join(cfg.Export.Dir, "assessment."+exportFormat)
		}

		switch exportFormat {
		case "xlsx":
			if err := export.WriteXLSX(out, a); err != nil {
				return err
			}
		case "csv":
			f, err := os.Create(out)
			if err != nil {
				return eris.Wrapf(err, "create %s", out)
			}
			defer f.Close() //nolint:errcheck
			if err := export.WriteCSV(f, a); err != nil {
				return err
			}
		default:
			return eris.Errorf("unknown export format %q", exportFormat)
		}

		zap.L().Info("export written", zap.String("path", out), zap.String("format", exportFormat))
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportOrg, "org", "", "organization name")
	exportCmd.Flags().StringVar(&exportRegulation, "regulation", "", "regulation code (DPDP, PDPPL, NPC)")
	exportCmd.Flags().StringVar(&exportIndustry, "industry", "", "industry identifier")
	exportCmd.Flags().StringVar(&exportResponses, "responses", "", "path to JSON responses file")
	exportCmd.Flags().StringVar(&exportID, "id", "", "stored assessment ID to export")
	exportCmd.Flags().StringVar(&exportFormat, "format", "xlsx", "export format (xlsx, csv)")
	exportCmd.Flags().StringVar(&exportOut, "out", "", "output path (default under export dir)")
	rootCmd.AddCommand(exportCmd)
}
