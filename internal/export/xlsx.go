// Package export writes assessment results to spreadsheet formats.
package export

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/datainfa/compliance-cli/internal/model"
)

// sectionStatus labels a section score for export.
func sectionStatus(score float64) string {
	switch {
	case score < 0.6:
		return "High Risk"
	case score < 0.75:
		return "Moderate Risk"
	default:
		return "Compliant"
	}
}

// WriteXLSX writes an assessment workbook with Overview, Section Scores,
// and Recommendations sheets.
func WriteXLSX(path string, a *model.Assessment) error {
	f := xlsx.NewFile()

	if err := addOverviewSheet(f, a); err != nil {
		return err
	}
	if err := addSectionSheet(f, &a.Results); err != nil {
		return err
	}
	if err := addRecommendationsSheet(f, &a.Results); err != nil {
		return err
	}

	if err := f.Save(path); err != nil {
		return eris.Wrapf(err, "export: save workbook %s", path)
	}
	return nil
}

func addOverviewSheet(f *xlsx.File, a *model.Assessment) error {
	sheet, err := f.AddSheet("Overview")
	if err != nil {
		return eris.Wrap(err, "export: add overview sheet")
	}

	rows := [][]string{
		{"Organization", a.Organization},
		{"Regulation", a.Regulation},
		{"Industry", a.Industry},
		{"Assessment ID", a.ID},
		{"Assessed At", a.CreatedAt.Format("2006-01-02 15:04 UTC")},
		{"Overall Score", fmt.Sprintf("%.1f%%", a.Results.OverallScore)},
		{"Compliance Level", string(a.Results.ComplianceLevel)},
	}
	for _, r := range rows {
		row := sheet.AddRow()
		row.AddCell().Value = r[0]
		row.AddCell().Value = r[1]
	}
	return nil
}

func addSectionSheet(f *xlsx.File, results *model.Results) error {
	sheet, err := f.AddSheet("Section Scores")
	if err != nil {
		return eris.Wrap(err, "export: add section sheet")
	}

	header := sheet.AddRow()
	for _, h := range []string{"Section", "Score", "Status"} {
		header.AddCell().Value = h
	}

	for _, s := range results.SectionScores {
		row := sheet.AddRow()
		row.AddCell().Value = s.Section
		if !s.Applicable {
			row.AddCell().Value = "N/A"
			row.AddCell().Value = "Not Applicable"
			continue
		}
		row.AddCell().Value = fmt.Sprintf("%.1f%%", s.Score*100)
		row.AddCell().Value = sectionStatus(s.Score)
	}
	return nil
}

func addRecommendationsSheet(f *xlsx.File, results *model.Results) error {
	sheet, err := f.AddSheet("Recommendations")
	if err != nil {
		return eris.Wrap(err, "export: add recommendations sheet")
	}

	header := sheet.AddRow()
	for _, h := range []string{"Section", "Recommendation"} {
		header.AddCell().Value = h
	}

	// Schema order, via the section score list.
	for _, s := range results.SectionScores {
		for _, rec := range results.Recommendations[s.Section] {
			row := sheet.AddRow()
			row.AddCell().Value = s.Section
			row.AddCell().Value = rec
		}
	}
	return nil
}
