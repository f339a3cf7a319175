package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/tradewatch/ipscreen/internal/model"
)

func TestFormatRunsList(t *testing.T) {
	rs := model.NewResultSet()
	rs.Add(model.NewFinding(model.TypeBOM, model.RiskHigh, "Power Tools", "Power Tool"))

	runs := []model.Run{
		{
			ID:        "run-1",
			Subject:   "bom.csv",
			Status:    model.RunStatusComplete,
			Result:    rs,
			CreatedAt: time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC),
		},
		{
			ID:        "run-2",
			Subject:   "upload.png",
			Status:    model.RunStatusFailed,
			CreatedAt: time.Date(2025, 3, 14, 11, 0, 0, 0, time.UTC),
		},
	}

	var buf bytes.Buffer
	formatRunsList(&buf, runs)

	out := buf.String()
	assert.Contains(t, out, "RUN ID")
	assert.Contains(t, out, "run-1")
	assert.Contains(t, out, "bom.csv")
	assert.Contains(t, out, "complete")
	// Runs without a result show a dash in the findings column.
	assert.Contains(t, out, "-")
}
