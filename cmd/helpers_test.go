package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datainfa/compliance-cli/internal/config"
	"github.com/datainfa/compliance-cli/internal/model"
)

const fixtureQuestionnaire = `{
	"sections": [
		{
			"name": "Data Governance",
			"weight": 0.5,
			"questions": [
				{
					"text": "Is there a data protection officer?",
					"options": ["Yes", "No"],
					"recommendations": {"No": "Appoint a data protection officer"}
				}
			]
		},
		{
			"name": "Consent Management",
			"weight": 0.5,
			"questions": [
				{
					"text": "Is explicit consent captured?",
					"options": ["Yes", "Partially", "No"],
					"recommendations": {"No": "Implement explicit consent capture"}
				}
			]
		}
	],
	"answer_points": {"Yes": 1, "Partially": 0.5, "No": 0, "Not applicable": null}
}`

// setupFixture points the global config at a temp questionnaire tree and
// returns the temp root.
func setupFixture(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	qDir := filepath.Join(root, "questionnaires", "DPDP")
	require.NoError(t, os.MkdirAll(qDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(qDir, "Banking and finance.json"), []byte(fixtureQuestionnaire), 0o644))

	old := cfg
	cfg = &config.Config{
		Questionnaire: config.QuestionnaireConfig{Dir: filepath.Join(root, "questionnaires")},
		Store: config.StoreConfig{
			Driver:      "sqlite",
			DatabaseURL: filepath.Join(root, "test.db"),
		},
		Batch: config.BatchConfig{MaxConcurrent: 2},
	}
	t.Cleanup(func() { cfg = old })

	return root
}

func writeResponses(t *testing.T, root, name string, responses model.ResponseSet) string {
	t.Helper()
	data := `{"s0_q0": "` + responses["s0_q0"] + `", "s1_q0": "` + responses["s1_q0"] + `"}`
	path := filepath.Join(root, name)
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	return path
}

func TestLoadResponses(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "responses.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"s0_q0": "Yes"}`), 0o644))

	responses, err := loadResponses(path)
	require.NoError(t, err)
	assert.Equal(t, "Yes", responses["s0_q0"])
}

func TestLoadResponses_MissingFile(t *testing.T) {
	_, err := loadResponses(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read responses")
}

func TestLoadResponses_BadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`not json`), 0o644))

	_, err := loadResponses(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse responses")
}

func TestRunAssessment(t *testing.T) {
	root := setupFixture(t)
	path := writeResponses(t, root, "acme.json", model.ResponseSet{"s0_q0": "Yes", "s1_q0": "No"})

	a, err := runAssessment("Acme Corp", "DPDP", "banking", path)
	require.NoError(t, err)

	assert.Equal(t, "Acme Corp", a.Organization)
	assert.Equal(t, "DPDP", a.Regulation)
	assert.InDelta(t, 50.0, a.Results.OverallScore, 0.001)
	assert.Equal(t, model.LevelPartial, a.Results.ComplianceLevel)
	assert.Contains(t, a.Results.Recommendations["Consent Management"], "Implement explicit consent capture")
	assert.False(t, a.CreatedAt.IsZero())
}

func TestRunAssessment_UnknownPairDegrades(t *testing.T) {
	root := setupFixture(t)
	path := writeResponses(t, root, "acme.json", model.ResponseSet{"s0_q0": "Yes", "s1_q0": "Yes"})

	a, err := runAssessment("Acme Corp", "DPDP", "aviation", path)
	require.NoError(t, err)
	assert.True(t, a.Results.Degraded())
}

func TestFormatResults(t *testing.T) {
	var buf bytes.Buffer
	formatResults(&buf, &model.Results{
		OverallScore:    72.5,
		ComplianceLevel: model.LevelPartial,
		SectionScores: []model.SectionScore{
			{Section: "Data Governance", Score: 0.9, Applicable: true},
			{Section: "Consent Management", Score: 0.4, Applicable: true},
			{Section: "Cross-Border Transfers", Applicable: false},
		},
		ImprovementPriorities: []string{"Consent Management"},
	})

	out := buf.String()
	assert.Contains(t, out, "72.5%")
	assert.Contains(t, out, "Partial Compliance")
	assert.Contains(t, out, "high risk")
	assert.Contains(t, out, "not applicable")
	assert.Contains(t, out, "1. Consent Management")
}
