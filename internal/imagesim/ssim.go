package imagesim

import "image"

// SSIM dynamic-range stabilization constants for 8-bit images.
const (
	ssimC1 = (0.01 * 255) * (0.01 * 255)
	ssimC2 = (0.03 * 255) * (0.03 * 255)
)

// SSIM returns the structural similarity index of two images, computed on
// grayscale, size-normalized versions. The statistics are taken over the full
// image, yielding the mean index directly rather than a local similarity map.
// The result is 1 for identical images.
func SSIM(a, b image.Image) float64 {
	ga := grayPlane(a)
	gb := grayPlane(b)

	n := float64(len(ga))
	var meanA, meanB float64
	for i := range ga {
		meanA += ga[i]
		meanB += gb[i]
	}
	meanA /= n
	meanB /= n

	var varA, varB, cov float64
	for i := range ga {
		da := ga[i] - meanA
		db := gb[i] - meanB
		varA += da * da
		varB += db * db
		cov += da * db
	}
	varA /= n - 1
	varB /= n - 1
	cov /= n - 1

	num := (2*meanA*meanB + ssimC1) * (2*cov + ssimC2)
	den := (meanA*meanA + meanB*meanB + ssimC1) * (varA + varB + ssimC2)
	return num / den
}

// grayPlane converts img to a flat luma plane at the comparison size.
func grayPlane(img image.Image) []float64 {
	rgba := resize(img)
	plane := make([]float64, compareSize*compareSize)
	i := 0
	for y := 0; y < compareSize; y++ {
		for x := 0; x < compareSize; x++ {
			plane[i] = grayAt(rgba.RGBAAt(x, y))
			i++
		}
	}
	return plane
}
