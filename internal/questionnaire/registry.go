package questionnaire

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Regulations maps supported regulation codes to their display names.
var Regulations = map[string]string{
	"DPDP":  "Digital Personal Data Protection Act (India)",
	"PDPPL": "Personal Data Privacy Protection Law (Qatar)",
	"NPC":   "National Data Policy (Qatar)",
}

// RegulationName returns the display name for a regulation code, or the code
// itself when unknown.
func RegulationName(code string) string {
	if name, ok := Regulations[strings.ToUpper(code)]; ok {
		return name
	}
	return code
}

// industryFiles maps regulation-specific industry aliases to questionnaire
// file base names.
var industryFiles = map[string]map[string]string{
	"DPDP": {
		"general":             "Banking and finance",
		"banking":             "Banking and finance",
		"banking and finance": "Banking and finance",
		"e-commerce":          "E-commerce",
		"ecommerce":           "E-commerce",
	},
	"NPC": {
		// NPC ships a single questionnaire regardless of industry.
		"*": "npc",
	},
}

// industryDisplayNames overrides the derived display name for known files.
var industryDisplayNames = map[string]string{
	"Banking and finance": "Financial Services",
	"E-commerce":          "E-commerce & Retail",
	"npc":                 "General",
}

var titleCaser = cases.Title(language.English)

// resolveIndustryFile maps an industry input to the questionnaire file base
// name for the regulation.
func resolveIndustryFile(regulation, industry string) string {
	aliases := industryFiles[regulation]
	if file, ok := aliases["*"]; ok {
		return file
	}
	if file, ok := aliases[strings.ToLower(industry)]; ok {
		return file
	}
	return industry
}

// IndustryName returns the display name for a questionnaire file base name.
func IndustryName(base string) string {
	if name, ok := industryDisplayNames[base]; ok {
		return name
	}
	return titleCaser.String(strings.ReplaceAll(base, "_", " "))
}

// AvailableIndustries scans the regulation's questionnaire directory and
// returns industry codes mapped to display names.
func AvailableIndustries(dir, regulation string) (map[string]string, error) {
	regDir := filepath.Join(dir, strings.ToUpper(regulation))
	entries, err := os.ReadDir(regDir)
	if err != nil {
		return nil, eris.Wrapf(err, "questionnaire: list industries for %s", regulation)
	}

	industries := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".json" && ext != ".yaml" && ext != ".yml" {
			continue
		}
		base := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		industries[strings.ToLower(base)] = IndustryName(base)
	}
	return industries, nil
}
