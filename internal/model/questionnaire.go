// Package model defines the questionnaire schema, response, and result types
// shared across the assessment pipeline.
package model

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Questionnaire is a parsed compliance questionnaire for one
// regulation/industry pair. It is read-only input to the scoring core.
type Questionnaire struct {
	Regulation string            `json:"regulation,omitempty" yaml:"regulation,omitempty"`
	Industry   string            `json:"industry,omitempty" yaml:"industry,omitempty"`
	Sections   []Section         `json:"sections" yaml:"sections"`
	// AnswerPoints maps an answer label to its score. Labels absent from the
	// table are unscored and ignored for averaging.
	AnswerPoints AnswerPoints `json:"answer_points" yaml:"answer_points"`
}

// AnswerPoints is the answer label -> points table of a questionnaire.
type AnswerPoints map[string]Points

// UnmarshalYAML decodes the table one mapping pair at a time. yaml.v3 does not
// invoke a custom unmarshaler for null nodes, so the not-applicable marker has
// to be detected here by tag before the element is decoded.
func (ap *AnswerPoints) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("answer_points: expected mapping, got %s", node.Tag)
	}
	table := make(AnswerPoints, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode, valNode := node.Content[i], node.Content[i+1]
		var label string
		if err := keyNode.Decode(&label); err != nil {
			return err
		}
		var p Points
		if err := p.UnmarshalYAML(valNode); err != nil {
			return err
		}
		table[label] = p
	}
	*ap = table
	return nil
}

// Section is a named, weighted group of related compliance questions.
// Names must be unique within a questionnaire; they key every downstream map.
type Section struct {
	Name      string     `json:"name" yaml:"name"`
	Weight    float64    `json:"weight" yaml:"weight"`
	Questions []Question `json:"questions" yaml:"questions"`
}

// Question holds the allowed answer labels and, for a subset of them,
// free-text remediation advice.
type Question struct {
	ID              string            `json:"id,omitempty" yaml:"id,omitempty"`
	Text            string            `json:"text" yaml:"text"`
	Options         []string          `json:"options" yaml:"options"`
	Recommendations map[string]string `json:"recommendations,omitempty" yaml:"recommendations,omitempty"`
}

// Points is a tagged answer-points value: either a numeric score in [0,1] or
// the explicit not-applicable marker. In questionnaire files the marker is a
// JSON/YAML null.
type Points struct {
	Value float64
	NA    bool
}

// Scored returns a numeric Points value.
func Scored(v float64) Points { return Points{Value: v} }

// NotApplicable returns the not-applicable marker.
func NotApplicable() Points { return Points{NA: true} }

func (p Points) MarshalJSON() ([]byte, error) {
	if p.NA {
		return []byte("null"), nil
	}
	return json.Marshal(p.Value)
}

func (p *Points) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*p = Points{NA: true}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*p = Points{Value: v}
	return nil
}

func (p Points) MarshalYAML() (any, error) {
	if p.NA {
		return nil, nil
	}
	return p.Value, nil
}

func (p *Points) UnmarshalYAML(node *yaml.Node) error {
	if node.Tag == "!!null" {
		*p = Points{NA: true}
		return nil
	}
	var v float64
	if err := node.Decode(&v); err != nil {
		return err
	}
	*p = Points{Value: v}
	return nil
}

// RecommendationIndex is the externally built recommendation accumulator:
// section name -> answer label -> advice. The loader populates it ahead of
// scoring; the scoring core only reads it. Sections absent from the index
// yield no recommendations even when their questions carry advice.
type RecommendationIndex map[string]map[string]string

// Advice looks up advice for an answer within a section.
func (ri RecommendationIndex) Advice(section, answer string) (string, bool) {
	byAnswer, ok := ri[section]
	if !ok {
		return "", false
	}
	advice, ok := byAnswer[answer]
	return advice, ok
}

// ResponseSet maps composite response keys (see ResponseKey) to the selected
// answer label. Absent keys mean the question was left unanswered.
type ResponseSet map[string]string

// ResponseKey builds the composite key for a question position.
func ResponseKey(section, question int) string {
	return fmt.Sprintf("s%d_q%d", section, question)
}

// Answer returns the response for a question position, if any.
func (rs ResponseSet) Answer(section, question int) (string, bool) {
	answer, ok := rs[ResponseKey(section, question)]
	return answer, ok
}
