package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRiskLevelOrdering(t *testing.T) {
	assert.Greater(t, RiskHigh.Rank(), RiskModerate.Rank())
	assert.Greater(t, RiskModerate.Rank(), RiskLow.Rank())
	assert.False(t, RiskLevel("bogus").Valid())
	assert.True(t, RiskModerate.Valid())
}

func TestFindingTypeCross(t *testing.T) {
	assert.False(t, TypeBOM.Cross())
	assert.False(t, TypeDocument.Cross())
	assert.True(t, TypeBOMImageCross.Cross())
	assert.Equal(t, "BOM-Image Cross-Validation", TypeBOMImageCross.Display())
}

func TestNewFindingAssignsUniqueIDs(t *testing.T) {
	a := NewFinding(TypeBOM, RiskHigh, "Power Tool", "Drill")
	b := NewFinding(TypeBOM, RiskHigh, "Power Tool", "Drill")
	require.NotEmpty(t, a.ID)
	assert.NotEqual(t, a.ID, b.ID, "structurally identical findings must stay distinct")
}

func TestResultSetAddRouting(t *testing.T) {
	rs := NewResultSet()
	rs.Add(NewFinding(TypeBOM, RiskHigh, "a", "s"))
	rs.Add(NewFinding(TypeImage, RiskModerate, "b", "s"))
	rs.Add(NewFinding(TypeDocument, RiskLow, "c", "s"))
	rs.Add(NewFinding(TypeImageDocumentCross, RiskHigh, "d", "s"))

	assert.Len(t, rs.BOM.High, 1)
	assert.Len(t, rs.Image.Moderate, 1)
	assert.Len(t, rs.Document.Low, 1)
	assert.Len(t, rs.Cross, 1)
	assert.Equal(t, 4, rs.Total())
}

func TestResultSetPruneHighPreservesOrder(t *testing.T) {
	rs := NewResultSet()
	a := NewFinding(TypeBOM, RiskHigh, "a", "s")
	b := NewFinding(TypeBOM, RiskHigh, "b", "s")
	c := NewFinding(TypeBOM, RiskHigh, "c", "s")
	rs.AddAll([]Finding{a, b, c})

	rs.PruneHigh(map[string]bool{b.ID: true})

	require.Len(t, rs.BOM.High, 2)
	assert.Equal(t, "a", rs.BOM.High[0].Category)
	assert.Equal(t, "c", rs.BOM.High[1].Category)
}

func TestResultSetSerializationDeterministic(t *testing.T) {
	build := func() *ResultSet {
		rs := NewResultSet()
		f := NewFinding(TypeBOM, RiskHigh, "Power Tool", "Drill")
		f.Company = "Acme Exports"
		f.Explanation = "Category and HS Code both found in export list."
		rs.Add(f)
		rs.Add(NewFinding(TypeImage, RiskLow, "", "photo.jpg"))
		return rs
	}

	first, err := json.Marshal(build())
	require.NoError(t, err)
	second, err := json.Marshal(build())
	require.NoError(t, err)
	assert.Equal(t, first, second, "identical runs must serialize byte-identically")

	var back ResultSet
	require.NoError(t, json.Unmarshal(first, &back))
	require.Len(t, back.BOM.High, 1)
	assert.Equal(t, "Acme Exports", back.BOM.High[0].Company)
	assert.Equal(t, RiskHigh, back.BOM.High[0].RiskLevel)
	assert.Len(t, back.Image.Low, 1)
}
