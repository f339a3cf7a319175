// Package imagesim scores an uploaded image against the brand reference
// corpus using color-histogram correlation and structural similarity, and
// classifies each candidate with fixed two-tier thresholds.
package imagesim

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
)

const (
	// Comparisons run on a fixed-size color representation.
	compareSize = 256

	// 8 bins per channel over [0,256) gives a 512-bucket joint histogram.
	binsPerChannel = 8
	histBuckets    = binsPerChannel * binsPerChannel * binsPerChannel
)

// Histogram is an L2-normalized 8x8x8 joint color histogram.
type Histogram [histBuckets]float64

// resize scales img to the fixed comparison size.
func resize(img image.Image) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, compareSize, compareSize))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}

// ComputeHistogram builds the normalized joint color histogram of img at the
// comparison size.
func ComputeHistogram(img image.Image) Histogram {
	rgba := resize(img)

	var h Histogram
	for y := 0; y < compareSize; y++ {
		for x := 0; x < compareSize; x++ {
			c := rgba.RGBAAt(x, y)
			// Channel range [0,256) split evenly into 8 bins.
			bucket := int(c.R>>5)*binsPerChannel*binsPerChannel +
				int(c.G>>5)*binsPerChannel +
				int(c.B>>5)
			h[bucket]++
		}
	}

	var norm float64
	for _, v := range h {
		norm += v * v
	}
	norm = math.Sqrt(norm)
	if norm > 0 {
		for i := range h {
			h[i] /= norm
		}
	}
	return h
}

// Correlation returns the Pearson correlation coefficient of two histograms,
// in [-1,1]. Degenerate (zero-variance) inputs yield 0.
func Correlation(a, b Histogram) float64 {
	var meanA, meanB float64
	for i := 0; i < histBuckets; i++ {
		meanA += a[i]
		meanB += b[i]
	}
	meanA /= histBuckets
	meanB /= histBuckets

	var cov, varA, varB float64
	for i := 0; i < histBuckets; i++ {
		da := a[i] - meanA
		db := b[i] - meanB
		cov += da * db
		varA += da * da
		varB += db * db
	}
	denom := math.Sqrt(varA * varB)
	if denom == 0 {
		return 0
	}
	return cov / denom
}

// grayAt converts a pixel to 8-bit luma.
func grayAt(c color.RGBA) float64 {
	return 0.299*float64(c.R) + 0.587*float64(c.G) + 0.114*float64(c.B)
}
