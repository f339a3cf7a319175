// Package anomaly scores a BOM line item's shipment volume against historical
// market rows. The score is advisory context for the report; it feeds no
// risk-level decision.
package anomaly

import (
	"math"
	"sort"

	"github.com/tradewatch/ipscreen/internal/config"
)

// Point is one observation over the three volume features.
type Point struct {
	Quantity      float64 `json:"quantity"`
	NetWeightKg   float64 `json:"net_weight_kg"`
	TotalValueUSD float64 `json:"total_value_usd"`
}

// Result reports whether a point is an outlier and its 0-100 risk score
// relative to the market rows (higher means more anomalous).
type Result struct {
	Anomalous bool    `json:"anomalous"`
	RiskScore float64 `json:"risk_score"`
}

// scale makes the median absolute deviation a consistent estimator of the
// standard deviation for normal data.
const madScale = 0.6745

// Score evaluates test against market. Returns nil when fewer than
// cfg.MinMarketRows rows are available: too little history to call anything
// an outlier.
func Score(market []Point, test Point, cfg config.AnomalyConfig) *Result {
	minRows := cfg.MinMarketRows
	if minRows <= 0 {
		minRows = 10
	}
	if len(market) < minRows {
		return nil
	}
	threshold := cfg.MADThreshold
	if threshold <= 0 {
		threshold = 3.5
	}

	features := [3]func(Point) float64{
		func(p Point) float64 { return p.Quantity },
		func(p Point) float64 { return p.NetWeightKg },
		func(p Point) float64 { return p.TotalValueUSD },
	}

	deviation := func(p Point) float64 {
		var worst float64
		for _, feat := range features {
			values := make([]float64, len(market))
			for i, m := range market {
				values[i] = feat(m)
			}
			z := robustZ(values, feat(p), threshold)
			if z > worst {
				worst = z
			}
		}
		return worst
	}

	testDev := deviation(test)

	// Normalize against the market's own deviation spread, mirroring the
	// min/max normalization of the reference scorer.
	minDev, maxDev := math.Inf(1), math.Inf(-1)
	for _, m := range market {
		d := deviation(m)
		minDev = math.Min(minDev, d)
		maxDev = math.Max(maxDev, d)
	}
	span := maxDev - minDev
	var risk float64
	if span > 0 {
		risk = 100 * (testDev - minDev) / span
	} else if testDev > maxDev {
		risk = 100
	}
	risk = math.Round(math.Min(100, math.Max(0, risk))*100) / 100

	return &Result{
		Anomalous: testDev > threshold,
		RiskScore: risk,
	}
}

// robustZ returns the absolute modified z-score of x against values.
func robustZ(values []float64, x, threshold float64) float64 {
	med := median(values)
	devs := make([]float64, len(values))
	for i, v := range values {
		devs[i] = math.Abs(v - med)
	}
	mad := median(devs)
	if mad == 0 {
		if x == med {
			return 0
		}
		// Zero spread with a deviating point: unambiguously an outlier.
		return threshold * 2
	}
	return madScale * math.Abs(x-med) / mad
}

func median(values []float64) float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
