package questionnaire

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegulationName(t *testing.T) {
	assert.Equal(t, "Digital Personal Data Protection Act (India)", RegulationName("dpdp"))
	assert.Equal(t, "XYZ", RegulationName("XYZ"))
}

func TestResolveIndustryFile(t *testing.T) {
	assert.Equal(t, "Banking and finance", resolveIndustryFile("DPDP", "Banking"))
	assert.Equal(t, "E-commerce", resolveIndustryFile("DPDP", "ecommerce"))
	assert.Equal(t, "npc", resolveIndustryFile("NPC", "anything at all"))
	assert.Equal(t, "Healthcare", resolveIndustryFile("PDPPL", "Healthcare"))
}

func TestIndustryName(t *testing.T) {
	assert.Equal(t, "Financial Services", IndustryName("Banking and finance"))
	assert.Equal(t, "General", IndustryName("npc"))
	assert.Equal(t, "Oil And Gas", IndustryName("Oil_and_Gas"))
}

func TestAvailableIndustries(t *testing.T) {
	dir := t.TempDir()
	regDir := filepath.Join(dir, "PDPPL")
	require.NoError(t, os.MkdirAll(regDir, 0o755))
	for _, name := range []string{"Oil_and_Gas.json", "Healthcare.yaml", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(regDir, name), []byte("{}"), 0o644))
	}

	industries, err := AvailableIndustries(dir, "pdppl")
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"oil_and_gas": "Oil And Gas",
		"healthcare":  "Healthcare",
	}, industries)
}

func TestAvailableIndustriesUnknownRegulation(t *testing.T) {
	_, err := AvailableIndustries(t.TempDir(), "GDPR")
	assert.Error(t, err)
}
