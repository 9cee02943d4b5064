package frequency

import "math"

// Butterworth filter bank over a DC-centered distance field.
//
// HighPass and LowPass are independently parameterized: each satisfies its
// own Butterworth formula and neither is derived from the other. With equal
// cutoff and order the two responses happen to sum to one at every bin,
// which the homomorphic reconstruction relies on, but that is a property of
// the formulas rather than an enforced invariant.

// HighPass builds the Butterworth high-pass response
// H[u][v] = 1 / (1 + (cutoff/D)^(2*order)) over the given distance field.
// The DC bin (D = 0) is fully attenuated: H = 0.
func HighPass(dist [][]float64, cutoff, order float64) [][]float64 {
	mask := make([][]float64, len(dist))
	for u, row := range dist {
		mask[u] = make([]float64, len(row))
		for v, d := range row {
			if d == 0 {
				continue
			}
			mask[u][v] = 1 / (1 + math.Pow(cutoff/d, 2*order))
		}
	}
	return mask
}

// LowPass builds the Butterworth low-pass response
// H[u][v] = 1 / (1 + (D/cutoff)^(2*order)). The DC bin passes unattenuated: H = 1.
func LowPass(dist [][]float64, cutoff, order float64) [][]float64 {
	mask := make([][]float64, len(dist))
	for u, row := range dist {
		mask[u] = make([]float64, len(row))
		for v, d := range row {
			if d == 0 {
				mask[u][v] = 1
				continue
			}
			mask[u][v] = 1 / (1 + math.Pow(d/cutoff, 2*order))
		}
	}
	return mask
}

// Emphasis builds the single-filter homomorphic response
// H = (gammaHigh - gammaLow) * HP + gammaLow, which scales reflectance
// content by gammaHigh and illumination content by gammaLow in one pass.
// Values range over [gammaLow, gammaHigh] rather than [0, 1].
func Emphasis(dist [][]float64, cutoff, order, gammaLow, gammaHigh float64) [][]float64 {
	mask := HighPass(dist, cutoff, order)
	for u := range mask {
		for v := range mask[u] {
			mask[u][v] = (gammaHigh-gammaLow)*mask[u][v] + gammaLow
		}
	}
	return mask
}
