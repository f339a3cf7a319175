package bom

import (
	"strings"

	"github.com/tradewatch/ipscreen/internal/catalog"
	"github.com/tradewatch/ipscreen/internal/model"
)

// Rationale strings surfaced in reports. These are display text only.
const (
	reasonExactMatch    = "Category and HS Code both found in export list."
	reasonPartialMatch  = "Either Category or HS Code matches, but not both."
	reasonDescMatch     = "Partial description similarity found in export list."
	reasonNoMatch       = "No strong match, only weak/description similarity."
	reasonMissingExport = "Master export data file is missing."
)

// MissingCatalogFinding is the single synthetic finding emitted when the
// export catalog is unavailable. BOM classification is skipped for the run.
func MissingCatalogFinding() model.Finding {
	f := model.NewFinding(model.TypeBOM, model.RiskHigh, "", "Configuration Error")
	f.Explanation = reasonMissingExport
	return f
}

// MatchItem classifies one BOM line item against the export catalog. Rules
// are applied in precedence order; the first that matches wins:
//
//  1. High     - some row matches on both category and HS code
//  2. Moderate - some row matches on HS code, or some row on category
//  3. Low      - the item category appears inside some row's description
//  4. Low      - nothing matched
//
// Category comparison is case-insensitive and trimmed; HS code comparison is
// string-exact after trimming. An empty field on either side never matches:
// blank cells must not corroborate.
func MatchItem(item Item, export *catalog.Export) model.Finding {
	f := model.NewFinding(model.TypeBOM, model.RiskLow, item.Category, item.Product)
	f.Company = item.Company

	itemCategory := strings.ToLower(strings.TrimSpace(item.Category))
	itemCode := strings.TrimSpace(item.HSCode)

	var categoryHit, codeHit, descHit bool
	for _, row := range export.Rows {
		catEq := itemCategory != "" && row.Category != "" &&
			strings.EqualFold(row.Category, itemCategory)
		codeEq := itemCode != "" && row.HSCode != "" && row.HSCode == itemCode

		if catEq && codeEq {
			f.RiskLevel = model.RiskHigh
			f.Explanation = reasonExactMatch
			return f
		}
		categoryHit = categoryHit || catEq
		codeHit = codeHit || codeEq

		if itemCategory != "" && row.Description != "" &&
			strings.Contains(strings.ToLower(row.Description), itemCategory) {
			descHit = true
		}
	}

	if categoryHit || codeHit {
		f.RiskLevel = model.RiskModerate
		f.Explanation = reasonPartialMatch
		return f
	}
	if descHit {
		f.Explanation = reasonDescMatch
		return f
	}
	f.Explanation = reasonNoMatch
	return f
}

// Classify matches every item, in input order. A nil export catalog yields a
// single synthetic configuration-error finding and no per-item findings.
func Classify(items []Item, export *catalog.Export) []model.Finding {
	if export == nil {
		return []model.Finding{MissingCatalogFinding()}
	}
	findings := make([]model.Finding, 0, len(items))
	for _, item := range items {
		findings = append(findings, MatchItem(item, export))
	}
	return findings
}
