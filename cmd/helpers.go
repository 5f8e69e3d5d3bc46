package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/rotisserie/eris"

	"github.com/datainfa/compliance-cli/internal/assess"
	"github.com/datainfa/compliance-cli/internal/model"
	"github.com/datainfa/compliance-cli/internal/questionnaire"
	"github.com/datainfa/compliance-cli/internal/store"
)

// loadResponses reads a JSON response file keyed by "s<i>_q<j>".
func loadResponses(path string) (model.ResponseSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "read responses %s", path)
	}
	var responses model.ResponseSet
	if err := json.Unmarshal(data, &responses); err != nil {
		return nil, eris.Wrapf(err, "parse responses %s", path)
	}
	return responses, nil
}

// runAssessment scores a response file against the configured questionnaire set.
func runAssessment(org, regulation, industry, responsesPath string) (*model.Assessment, error) {
	responses, err := loadResponses(responsesPath)
	if err != nil {
		return nil, err
	}

	loader := questionnaire.NewLoader(cfg.Questionnaire.Dir)
	results := assess.Run(loader, regulation, industry, responses)

	return &model.Assessment{
		Organization: org,
		Regulation:   regulation,
		Industry:     industry,
		Responses:    responses,
		Results:      results,
		CreatedAt:    time.Now().UTC(),
	}, nil
}

// initStore opens the configured store and runs migrations.
func initStore(ctx context.Context) (store.Store, error) {
	if err := cfg.Validate("store"); err != nil {
		return nil, err
	}
	st, err := store.Open(ctx, cfg.Store)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close() //nolint:errcheck
		return nil, err
	}
	return st, nil
}

// formatResults writes a human-readable summary of assessment results.
func formatResults(out io.Writer, results *model.Results) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "Overall score:\t%.1f%%\n", results.OverallScore)
	_, _ = fmt.Fprintf(w, "Compliance level:\t%s\n", results.ComplianceLevel)
	_, _ = fmt.Fprintln(w)

	_, _ = fmt.Fprintf(w, "SECTION\tSCORE\tSTATUS\n")
	for _, s := range results.SectionScores {
		if !s.Applicable {
			_, _ = fmt.Fprintf(w, "%s\tN/A\tnot applicable\n", s.Section)
			continue
		}
		status := "ok"
		if s.Score < 0.6 {
			status = "high risk"
		}
		_, _ = fmt.Fprintf(w, "%s\t%.1f%%\t%s\n", s.Section, s.Score*100, status)
	}
	_ = w.Flush()

	if len(results.ImprovementPriorities) > 0 {
		_, _ = fmt.Fprintln(out, "\nImprovement priorities:")
		for i, section := range results.ImprovementPriorities {
			_, _ = fmt.Fprintf(out, "  %d. %s\n", i+1, section)
		}
	}
}

// printJSON writes v as indented JSON to stdout.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
