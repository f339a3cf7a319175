package bom

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradewatch/ipscreen/internal/catalog"
	"github.com/tradewatch/ipscreen/internal/model"
)

func testExport() *catalog.Export {
	return &catalog.Export{Rows: []catalog.ExportRow{
		{Category: "Power Tool", HSCode: "8467", Description: "cordless drill", Company: "Acme Exports"},
		{Category: "Bearing", HSCode: "8482", Description: "sealed ball bearing"},
		{Category: "Pump", HSCode: "8413", Description: "industrial water pump assembly"},
	}}
}

func TestMatchItemExact(t *testing.T) {
	f := MatchItem(Item{Category: "Power Tool", HSCode: "8467", Product: "Drill"}, testExport())

	assert.Equal(t, model.RiskHigh, f.RiskLevel)
	assert.Equal(t, model.TypeBOM, f.Type)
	assert.Equal(t, "Category and HS Code both found in export list.", f.Explanation)
	assert.Equal(t, "Power Tool", f.Category)
	assert.Equal(t, "Drill", f.Subject)
}

func TestMatchItemExactIsCaseInsensitiveOnCategory(t *testing.T) {
	f := MatchItem(Item{Category: "  power TOOL  ", HSCode: "8467"}, testExport())
	assert.Equal(t, model.RiskHigh, f.RiskLevel)
}

func TestMatchItemPrecedence(t *testing.T) {
	// Category and HS code both exist in the catalog, but on different rows:
	// rule 1 requires a single row to carry both, so this is Moderate.
	f := MatchItem(Item{Category: "Power Tool", HSCode: "8482"}, testExport())
	assert.Equal(t, model.RiskModerate, f.RiskLevel)
	assert.Equal(t, "Either Category or HS Code matches, but not both.", f.Explanation)
}

func TestMatchItemHSCodeOnly(t *testing.T) {
	f := MatchItem(Item{Category: "Unknown Widget", HSCode: "8413"}, testExport())
	assert.Equal(t, model.RiskModerate, f.RiskLevel)
}

func TestMatchItemHSCodeIsExact(t *testing.T) {
	// "846" is a prefix of "8467" and must not match.
	f := MatchItem(Item{Category: "Nothing Here", HSCode: "846"}, testExport())
	assert.Equal(t, model.RiskLow, f.RiskLevel)
}

func TestMatchItemDescriptionFallback(t *testing.T) {
	f := MatchItem(Item{Category: "water pump", HSCode: "0000"}, testExport())
	assert.Equal(t, model.RiskLow, f.RiskLevel)
	assert.Equal(t, "Partial description similarity found in export list.", f.Explanation)
}

func TestMatchItemNoMatch(t *testing.T) {
	f := MatchItem(Item{Category: "Garden Gnome", HSCode: "9999"}, testExport())
	assert.Equal(t, model.RiskLow, f.RiskLevel)
	assert.Equal(t, "No strong match, only weak/description similarity.", f.Explanation)
}

func TestMatchItemBlankFieldsNeverMatch(t *testing.T) {
	export := &catalog.Export{Rows: []catalog.ExportRow{
		{Category: "", HSCode: "", Description: "mystery goods"},
	}}
	f := MatchItem(Item{Category: "", HSCode: "", Product: "Blank"}, export)
	assert.Equal(t, model.RiskLow, f.RiskLevel)
	assert.Equal(t, "No strong match, only weak/description similarity.", f.Explanation)
}

func TestClassifyMissingCatalog(t *testing.T) {
	findings := Classify([]Item{{Category: "Power Tool"}}, nil)

	require.Len(t, findings, 1)
	assert.Equal(t, model.RiskHigh, findings[0].RiskLevel)
	assert.Equal(t, "Configuration Error", findings[0].Subject)
	assert.Equal(t, "Master export data file is missing.", findings[0].Explanation)
}

func TestClassifyAssignsExactlyOneLevelPerItem(t *testing.T) {
	items := []Item{
		{Category: "Power Tool", HSCode: "8467"},
		{Category: "Bearing", HSCode: "0000"},
		{Category: "nothing", HSCode: ""},
	}
	findings := Classify(items, testExport())
	require.Len(t, findings, 3)
	for _, f := range findings {
		assert.True(t, f.RiskLevel.Valid())
	}
	assert.Equal(t, model.RiskHigh, findings[0].RiskLevel)
	assert.Equal(t, model.RiskModerate, findings[1].RiskLevel)
	assert.Equal(t, model.RiskLow, findings[2].RiskLevel)
}

func TestParse(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bom.csv")
	data := "Category,HS Code,Product,Company,Quantity,Net Weight (kg),Total Value (USD)\n" +
		"Power Tool,8467,Drill,Buyer Co,100,250.5,\"12,000\"\n" +
		"Bearing,8482,Ball Bearing,,,,\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	items, err := Parse(path)
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "Power Tool", items[0].Category)
	assert.Equal(t, "Drill", items[0].Product)
	assert.True(t, items[0].VolumeComplete)
	assert.Equal(t, 12000.0, items[0].TotalValueUSD)

	assert.False(t, items[1].VolumeComplete)
}
