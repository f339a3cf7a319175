package docsim

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradewatch/ipscreen/internal/catalog"
	"github.com/tradewatch/ipscreen/internal/config"
	"github.com/tradewatch/ipscreen/internal/model"
)

func defaultDocsConfig() config.DocumentsConfig {
	return config.DocumentsConfig{HighThreshold: 0.85, ModerateThreshold: 0.60, TopN: 10}
}

func testRefs() []catalog.RefDescription {
	return []catalog.RefDescription{
		{Product: "Power Tool", Description: "A cordless drill with lithium battery for industrial fastening"},
		{Product: "Bearing", Description: "Sealed ball bearing assembly rated for high speed spindles"},
		{Product: "Pump", Description: "Centrifugal industrial water pump with stainless housing"},
	}
}

func TestTokenize(t *testing.T) {
	tokens := tokenize("Drill-Bit, 18V battery!")
	assert.Equal(t, []string{"drill", "bit", "18v", "battery"}, tokens)
}

func TestRankOrdersBestFirst(t *testing.T) {
	p := NewTFIDFProvider(testRefs())

	scores, err := p.Rank(context.Background(), "cordless drill lithium battery industrial fastening", 10)
	require.NoError(t, err)
	require.Len(t, scores, 3)

	assert.Equal(t, "Power Tool", scores[0].Category)
	assert.Equal(t, "Power Tool (Row 1)", scores[0].RefID)
	for i := 1; i < len(scores); i++ {
		assert.GreaterOrEqual(t, scores[i-1].Score, scores[i].Score)
	}
}

func TestRankIdenticalTextScoresOne(t *testing.T) {
	refs := testRefs()
	p := NewTFIDFProvider(refs)

	scores, err := p.Rank(context.Background(), refs[1].Description, 1)
	require.NoError(t, err)
	require.Len(t, scores, 1)
	assert.Equal(t, "Bearing", scores[0].Category)
	assert.InDelta(t, 1.0, scores[0].Score, 1e-9)
}

func TestRankEmptyInputs(t *testing.T) {
	p := NewTFIDFProvider(testRefs())
	scores, err := p.Rank(context.Background(), "   ", 10)
	require.NoError(t, err)
	assert.Empty(t, scores)

	empty := NewTFIDFProvider(nil)
	scores, err = empty.Rank(context.Background(), "anything", 10)
	require.NoError(t, err)
	assert.Empty(t, scores)
}

func TestClassifyThresholdsAreStrict(t *testing.T) {
	d := NewDetector(defaultDocsConfig())

	findings := d.Classify("upload.txt", []Score{
		{RefID: "A (Row 1)", Category: "A", Score: 0.86},
		{RefID: "B (Row 2)", Category: "B", Score: 0.85}, // exactly at High cut -> Moderate
		{RefID: "C (Row 3)", Category: "C", Score: 0.60}, // exactly at Moderate cut -> dropped
		{RefID: "D (Row 4)", Category: "D", Score: 0.10},
	})

	require.Len(t, findings, 2)
	assert.Equal(t, model.RiskHigh, findings[0].RiskLevel)
	assert.Equal(t, "A", findings[0].Category)
	assert.Equal(t, model.RiskModerate, findings[1].RiskLevel)
	assert.Equal(t, "upload.txt", findings[1].Subject)
	assert.Equal(t, "B (Row 2)", findings[1].Evidence)
}

func TestClassifyEmptyScores(t *testing.T) {
	d := NewDetector(defaultDocsConfig())
	assert.Empty(t, d.Classify("upload.txt", nil))
}
