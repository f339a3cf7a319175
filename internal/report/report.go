package report

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/tradewatch/ipscreen/internal/model"
)

const sheetName = "IP Risk Report"

// Fill colors, ARGB.
const (
	fillCross    = "FFDDEBF7"
	fillHigh     = "FFFFC7CE"
	fillModerate = "FFFFEB9C"
	fillLow      = "FFC6EFCE"
)

var header = []string{"Analysis Type", "Risk Level", "Category", "Product", "Company", "Finding"}

// Filename returns the report filename for the given date.
func Filename(now time.Time) string {
	return fmt.Sprintf("ip_risk_report_%s.xlsx", now.Format("2006-01-02"))
}

// Write renders the result set as a workbook under dir and returns the full path.
func Write(rs *model.ResultSet, dir string, now time.Time) (string, error) {
	f, err := Build(rs)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, Filename(now))
	if err := f.Save(path); err != nil {
		return "", eris.Wrap(err, "report: save workbook")
	}
	return path, nil
}

// Build assembles the workbook in memory. Cross-validated findings come
// first, then each detector's findings in descending risk order.
func Build(rs *model.ResultSet) (*xlsx.File, error) {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet(sheetName)
	if err != nil {
		return nil, eris.Wrap(err, "report: add sheet")
	}

	widths := make([]int, len(header))

	headerRow := sheet.AddRow()
	headerStyle := xlsx.NewStyle()
	headerStyle.Font.Bold = true
	headerStyle.ApplyFont = true
	for i, h := range header {
		cell := headerRow.AddCell()
		cell.SetString(h)
		cell.SetStyle(headerStyle)
		if len(h) > widths[i] {
			widths[i] = len(h)
		}
	}

	for _, finding := range rs.Cross {
		addRow(sheet, finding, fillCross, widths)
	}
	for _, bucket := range []model.Bucket{rs.BOM, rs.Image, rs.Document} {
		for _, level := range []model.RiskLevel{model.RiskHigh, model.RiskModerate, model.RiskLow} {
			for _, finding := range bucket.Level(level) {
				addRow(sheet, finding, riskFill(level), widths)
			}
		}
	}

	for i, w := range widths {
		sheet.SetColWidth(i, i, float64(w+2))
	}
	return f, nil
}

func addRow(sheet *xlsx.Sheet, finding model.Finding, fill string, widths []int) {
	explanation := finding.Explanation
	if finding.Type == model.TypeImage && finding.RiskLevel != model.RiskLow && finding.Evidence != "" {
		explanation = fmt.Sprintf("%s (Match: %s)", explanation, finding.Evidence)
	}

	cells := []string{
		finding.Type.Display(),
		string(finding.RiskLevel),
		finding.Category,
		finding.Subject,
		finding.Company,
		explanation,
	}

	style := xlsx.NewStyle()
	style.Fill = *xlsx.NewFill("solid", fill, fill)
	style.ApplyFill = true

	row := sheet.AddRow()
	for i, v := range cells {
		cell := row.AddCell()
		cell.SetString(v)
		cell.SetStyle(style)
		if len(v) > widths[i] {
			widths[i] = len(v)
		}
	}
}

func riskFill(level model.RiskLevel) string {
	switch level {
	case model.RiskHigh:
		return fillHigh
	case model.RiskModerate:
		return fillModerate
	default:
		return fillLow
	}
}
