package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/rotisserie/eris"

	"github.com/datainfa/compliance-cli/internal/model"
)

// WriteCSV writes per-section scores and recommendations as CSV rows.
func WriteCSV(w io.Writer, a *model.Assessment) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"section", "score", "status", "recommendations"}); err != nil {
		return eris.Wrap(err, "export: write csv header")
	}

	for _, s := range a.Results.SectionScores {
		score := "N/A"
		status := "Not Applicable"
		if s.Applicable {
			score = fmt.Sprintf("%.1f", s.Score*100)
			status = sectionStatus(s.Score)
		}
		rec := ""
		if recs := a.Results.Recommendations[s.Section]; len(recs) > 0 {
			rec = recs[0]
			for _, r := range recs[1:] {
				rec += "; " + r
			}
		}
		if err := cw.Write([]string{s.Section, score, status, rec}); err != nil {
			return eris.Wrapf(err, "export: write csv row %s", s.Section)
		}
	}

	cw.Flush()
	return eris.Wrap(cw.Error(), "export: flush csv")
}
