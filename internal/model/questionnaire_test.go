package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestPointsJSON(t *testing.T) {
	var table map[string]Points
	data := []byte(`{"Yes": 1.0, "Partially": 0.5, "No": 0, "Not applicable": null}`)
	require.NoError(t, json.Unmarshal(data, &table))

	assert.Equal(t, Scored(1.0), table["Yes"])
	assert.Equal(t, Scored(0.5), table["Partially"])
	assert.Equal(t, Scored(0), table["No"])
	assert.Equal(t, NotApplicable(), table["Not applicable"])

	out, err := json.Marshal(table["Not applicable"])
	require.NoError(t, err)
	assert.Equal(t, "null", string(out))

	out, err = json.Marshal(table["Partially"])
	require.NoError(t, err)
	assert.Equal(t, "0.5", string(out))
}

func TestPointsYAML(t *testing.T) {
	var table AnswerPoints
	data := []byte("Yes: 1.0\nNot applicable: null\n")
	require.NoError(t, yaml.Unmarshal(data, &table))

	assert.Equal(t, Scored(1.0), table["Yes"])
	assert.True(t, table["Not applicable"].NA)
}

func TestAnswerPointsYAMLNullVariants(t *testing.T) {
	var table AnswerPoints
	data := []byte("Yes: 1.0\nNot applicable: null\nUnknown: ~\nBlank:\n")
	require.NoError(t, yaml.Unmarshal(data, &table))

	assert.Equal(t, Scored(1.0), table["Yes"])
	assert.Equal(t, NotApplicable(), table["Not applicable"])
	assert.Equal(t, NotApplicable(), table["Unknown"])
	assert.Equal(t, NotApplicable(), table["Blank"])
}

func TestAnswerPointsYAMLRejectsNonMapping(t *testing.T) {
	var table AnswerPoints
	assert.Error(t, yaml.Unmarshal([]byte("- 1.0\n- null\n"), &table))
}

func TestResponseKey(t *testing.T) {
	assert.Equal(t, "s0_q0", ResponseKey(0, 0))
	assert.Equal(t, "s3_q12", ResponseKey(3, 12))

	rs := ResponseSet{"s1_q2": "Yes"}
	answer, ok := rs.Answer(1, 2)
	assert.True(t, ok)
	assert.Equal(t, "Yes", answer)

	_, ok = rs.Answer(0, 0)
	assert.False(t, ok)
}

func TestRecommendationIndexAdvice(t *testing.T) {
	ri := RecommendationIndex{
		"Consent Management": {
			"No": "Implement a consent collection workflow.",
		},
	}

	advice, ok := ri.Advice("Consent Management", "No")
	assert.True(t, ok)
	assert.Equal(t, "Implement a consent collection workflow.", advice)

	_, ok = ri.Advice("Consent Management", "Yes")
	assert.False(t, ok)

	// Sections absent from the index never yield advice.
	_, ok = ri.Advice("Data Security", "No")
	assert.False(t, ok)
}
