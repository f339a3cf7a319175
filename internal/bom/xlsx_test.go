package bom

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
)

func writeWorkbook(t *testing.T, rows [][]string) string {
	t.Helper()
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("BOM")
	require.NoError(t, err)
	for _, cells := range rows {
		row := sheet.AddRow()
		for _, v := range cells {
			row.AddCell().SetString(v)
		}
	}
	path := filepath.Join(t.TempDir(), "bom.xlsx")
	require.NoError(t, f.Save(path))
	return path
}

func TestParseXLSX(t *testing.T) {
	path := writeWorkbook(t, [][]string{
		{"Category", "HS Code", "Product", "Company", "Quantity", "Net Weight (kg)", "Total Value (USD)"},
		{"Power Tools", "8467.21", "Power Tool", "Acme Corp", "100", "250.5", "12,000"},
		{"Textiles", "6109.10", "T-Shirt", "", "", "", ""},
	})

	items, err := Parse(path)
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "Power Tools", items[0].Category)
	assert.Equal(t, "8467.21", items[0].HSCode)
	assert.Equal(t, 12000.0, items[0].TotalValueUSD)
	assert.True(t, items[0].VolumeComplete)

	assert.Equal(t, "T-Shirt", items[1].Product)
	assert.False(t, items[1].VolumeComplete)
}

func TestParseXLSXMissingFile(t *testing.T) {
	_, err := Parse(filepath.Join(t.TempDir(), "nope.xlsx"))
	require.Error(t, err)
}
