// Package questionnaire resolves regulation/industry pairs to parsed
// questionnaire schemas and builds the recommendation index the scoring core
// reads from.
package questionnaire

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/datainfa/compliance-cli/internal/model"
)

// Loader reads questionnaire files from <dir>/<REGULATION>/<industry>.{json,yaml}.
type Loader struct {
	dir string
}

// NewLoader creates a Loader rooted at the given questionnaire directory.
func NewLoader(dir string) *Loader {
	return &Loader{dir: dir}
}

// Questionnaire resolves a regulation/industry pair to its parsed schema and
// recommendation index. It fails loudly when the pair has no questionnaire;
// callers inside the scoring path convert that into the degraded sentinel.
func (l *Loader) Questionnaire(regulation, industry string) (*model.Questionnaire, model.RecommendationIndex, error) {
	q, err := l.Load(regulation, industry)
	if err != nil {
		return nil, nil, err
	}
	return q, BuildIndex(q), nil
}

// Load reads, validates, and weight-normalizes the questionnaire for the pair.
func (l *Loader) Load(regulation, industry string) (*model.Questionnaire, error) {
	regulation = strings.ToUpper(strings.TrimSpace(regulation))
	industry = strings.TrimSpace(industry)

	if err := checkPathComponent(regulation); err != nil {
		return nil, err
	}
	if err := checkPathComponent(industry); err != nil {
		return nil, err
	}

	path, err := l.resolvePath(regulation, industry)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "questionnaire: read %s", path)
	}

	var q model.Questionnaire
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &q); err != nil {
			return nil, eris.Wrapf(err, "questionnaire: parse %s", path)
		}
	default:
		if err := json.Unmarshal(data, &q); err != nil {
			return nil, eris.Wrapf(err, "questionnaire: parse %s", path)
		}
	}

	q.Regulation = regulation
	if q.Industry == "" {
		q.Industry = industry
	}

	if err := Validate(&q); err != nil {
		return nil, eris.Wrapf(err, "questionnaire: invalid %s", path)
	}
	NormalizeWeights(&q)

	zap.L().Debug("questionnaire: loaded",
		zap.String("regulation", regulation),
		zap.String("industry", industry),
		zap.Int("sections", len(q.Sections)),
	)
	return &q, nil
}

// resolvePath finds the questionnaire file for the pair. The industry name is
// mapped through the registry first; the directory listing is matched
// case-insensitively so "banking and finance" finds "Banking and finance.json".
func (l *Loader) resolvePath(regulation, industry string) (string, error) {
	regDir := filepath.Join(l.dir, regulation)
	entries, err := os.ReadDir(regDir)
	if err != nil {
		return "", eris.Wrapf(err, "questionnaire: no questionnaires for regulation %s", regulation)
	}

	base := resolveIndustryFile(regulation, industry)
	want := strings.ToLower(base)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		ext := strings.ToLower(filepath.Ext(name))
		if ext != ".json" && ext != ".yaml" && ext != ".yml" {
			continue
		}
		if strings.ToLower(strings.TrimSuffix(name, filepath.Ext(name))) == want {
			return filepath.Join(regDir, name), nil
		}
	}
	return "", eris.Errorf("questionnaire: no questionnaire for %s/%s", regulation, industry)
}

// checkPathComponent rejects regulation/industry values that could escape the
// questionnaire directory.
func checkPathComponent(s string) error {
	if s == "" {
		return eris.New("questionnaire: empty regulation or industry")
	}
	if strings.ContainsAny(s, `/\`) || strings.Contains(s, "..") {
		return eris.Errorf("questionnaire: invalid name %q", s)
	}
	return nil
}

// Validate checks the structural invariants of a questionnaire: at least one
// section, named sections with unique names, and at least one question each.
func Validate(q *model.Questionnaire) error {
	if len(q.Sections) == 0 {
		return eris.New("questionnaire: no sections")
	}
	seen := make(map[string]bool, len(q.Sections))
	for i, section := range q.Sections {
		if section.Name == "" {
			return eris.Errorf("questionnaire: section %d has no name", i)
		}
		if seen[section.Name] {
			return eris.Errorf("questionnaire: duplicate section name %q", section.Name)
		}
		seen[section.Name] = true
		if len(section.Questions) == 0 {
			return eris.Errorf("questionnaire: section %q has no questions", section.Name)
		}
		for j, question := range section.Questions {
			if len(question.Options) == 0 {
				return eris.Errorf("questionnaire: section %q question %d has no options", section.Name, j)
			}
		}
	}
	return nil
}

// NormalizeWeights replaces non-positive section weights with an equal share
// and rescales all weights to sum to 1.0 when the total drifts more than 1%.
// Scoring normalizes by the weight sum anyway; this keeps stored and exported
// weights presentable.
func NormalizeWeights(q *model.Questionnaire) {
	n := len(q.Sections)
	if n == 0 {
		return
	}

	var total float64
	for i := range q.Sections {
		if q.Sections[i].Weight <= 0 {
			q.Sections[i].Weight = 1.0 / float64(n)
		}
		total += q.Sections[i].Weight
	}

	if total < 0.99 || total > 1.01 {
		for i := range q.Sections {
			q.Sections[i].Weight /= total
		}
		zap.L().Info("questionnaire: normalized section weights",
			zap.String("regulation", q.Regulation),
			zap.Float64("original_total", total),
		)
	}
}

// BuildIndex assembles the recommendation accumulator from every question's
// recommendation map, keyed by section name. Within a section the first
// question to define advice for an answer label wins.
func BuildIndex(q *model.Questionnaire) model.RecommendationIndex {
	index := model.RecommendationIndex{}
	for _, section := range q.Sections {
		for _, question := range section.Questions {
			if len(question.Recommendations) == 0 {
				continue
			}
			byAnswer := index[section.Name]
			if byAnswer == nil {
				byAnswer = make(map[string]string)
				index[section.Name] = byAnswer
			}
			for answer, advice := range question.Recommendations {
				if _, exists := byAnswer[answer]; !exists {
					byAnswer[answer] = advice
				}
			}
		}
	}
	return index
}
