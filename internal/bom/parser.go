// Package bom parses uploaded bill-of-materials files and classifies each
// line item against the reference export catalog.
package bom

import (
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/tradewatch/ipscreen/internal/catalog"
)

// Item is one BOM line item submitted for screening. Quantity, net weight and
// total value feed the shipment outlier score; VolumeComplete reports whether
// all three parsed.
type Item struct {
	Category string `json:"category"`
	HSCode   string `json:"hs_code"`
	Product  string `json:"product"`
	Company  string `json:"company,omitempty"`

	Quantity       float64 `json:"quantity,omitempty"`
	NetWeightKg    float64 `json:"net_weight_kg,omitempty"`
	TotalValueUSD  float64 `json:"total_value_usd,omitempty"`
	VolumeComplete bool    `json:"volume_complete,omitempty"`
}

// Parse reads a BOM file, CSV or XLSX by extension. Expected columns
// (case-insensitive header names): Category, HS Code, Product (or Product
// Description), Company, and the optional volume columns Quantity,
// Net Weight (kg), Total Value (USD).
func Parse(path string) ([]Item, error) {
	var records [][]string
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		records, err = readXLSX(path)
	default:
		records, err = catalog.ReadRecords(path)
	}
	if err != nil {
		return nil, eris.Wrap(err, "bom: parse")
	}
	if len(records) == 0 {
		return nil, eris.Errorf("bom: file %s is empty", path)
	}

	idx := catalog.HeaderIndex(records[0])
	items := make([]Item, 0, len(records)-1)
	for _, rec := range records[1:] {
		product := catalog.Field(rec, idx, "product")
		if product == "" {
			product = catalog.Field(rec, idx, "product description")
		}
		item := Item{
			Category: catalog.Field(rec, idx, "category"),
			HSCode:   catalog.Field(rec, idx, "hs code"),
			Product:  product,
			Company:  catalog.Field(rec, idx, "company"),
		}

		var ok [3]bool
		item.Quantity, ok[0] = catalog.ParseNumber(catalog.Field(rec, idx, "quantity"))
		item.NetWeightKg, ok[1] = catalog.ParseNumber(catalog.Field(rec, idx, "net weight (kg)"))
		item.TotalValueUSD, ok[2] = catalog.ParseNumber(catalog.Field(rec, idx, "total value (usd)"))
		item.VolumeComplete = ok[0] && ok[1] && ok[2]

		items = append(items, item)
	}

	zap.L().Debug("bom: parsed file",
		zap.String("path", path),
		zap.Int("items", len(items)),
	)
	return items, nil
}
