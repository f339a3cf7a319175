package anomaly

import (
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/tradewatch/ipscreen/internal/catalog"
)

// LoadMarket reads historical market rows from a CSV. Expected columns
// (case-insensitive): Quantity, Net Weight (kg), Total Value (USD). Rows with
// any unparseable feature are skipped.
func LoadMarket(path string) ([]Point, error) {
	records, err := catalog.ReadRecords(path)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, eris.Errorf("anomaly: market file %s is empty", path)
	}

	idx := catalog.HeaderIndex(records[0])
	var points []Point
	for _, rec := range records[1:] {
		q, okQ := catalog.ParseNumber(catalog.Field(rec, idx, "quantity"))
		w, okW := catalog.ParseNumber(catalog.Field(rec, idx, "net weight (kg)"))
		v, okV := catalog.ParseNumber(catalog.Field(rec, idx, "total value (usd)"))
		if !okQ || !okW || !okV {
			continue
		}
		points = append(points, Point{Quantity: q, NetWeightKg: w, TotalValueUSD: v})
	}

	zap.L().Debug("anomaly: loaded market rows",
		zap.String("path", path),
		zap.Int("rows", len(points)),
	)
	return points, nil
}
