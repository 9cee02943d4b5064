package homomorphic

import (
	"math"

	"texture-recovery/internal/frequency"
)

// validateGrid rejects grids that are empty, ragged, or carry negative or
// non-finite samples. All fatal conditions surface here, before any
// transform work.
func validateGrid(grid [][]float64) error {
	if len(grid) == 0 || len(grid[0]) == 0 {
		return NewShapeError("image must have at least one row and one column")
	}
	cols := len(grid[0])
	for i, row := range grid {
		if len(row) != cols {
			return NewShapeError("row %d has %d columns, expected %d", i, len(row), cols)
		}
		for j, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return NewShapeError("sample [%d][%d] is not finite", i, j)
			}
			if v < 0 {
				return NewShapeError("sample [%d][%d] is negative (%v); samples must be non-negative", i, j, v)
			}
		}
	}
	return nil
}

// logGrid computes log(v + Epsilon) per sample.
func logGrid(grid [][]float64) [][]float64 {
	out := make([][]float64, len(grid))
	for i, row := range grid {
		out[i] = make([]float64, len(row))
		for j, v := range row {
			out[i][j] = math.Log(v + Epsilon)
		}
	}
	return out
}

// expGrid exponentiates per sample.
func expGrid(grid [][]float64) [][]float64 {
	out := make([][]float64, len(grid))
	for i, row := range grid {
		out[i] = make([]float64, len(row))
		for j, v := range row {
			out[i][j] = math.Exp(v)
		}
	}
	return out
}

// filterLog runs one log-domain filtering pass: forward transform of the
// log-image, centered mask multiplication, inverse transform, real part,
// exponentiation. Returns the intensity-domain result and the imaginary
// residue discarded by the real-part step.
func filterLog(tr frequency.Transformer, logImage [][]float64, mask [][]float64) ([][]float64, float64) {
	spectrum := frequency.Shift(tr.Forward(frequency.ToComplex(logImage)))
	filtered := tr.Inverse(frequency.UnShift(frequency.Multiply(spectrum, mask)))
	logOut, residue := frequency.RealPart(filtered)
	return expGrid(logOut), residue
}

// clipUnit clamps a grid to [0, 1] in place and counts the samples that were
// genuinely out of range. Rounding noise within clipSlack is clamped without
// being counted, so a reconstruction that wobbles around 0 by 1e-15 does not
// report thousands of saturated pixels.
const clipSlack = 1e-9

func clipUnit(grid [][]float64) int {
	clipped := 0
	for i, row := range grid {
		for j, v := range row {
			switch {
			case v < 0:
				if v < -clipSlack {
					clipped++
				}
				grid[i][j] = 0
			case v > 1:
				if v > 1+clipSlack {
					clipped++
				}
				grid[i][j] = 1
			}
		}
	}
	return clipped
}

// meanSquaredError computes the mean of squared differences between two
// grids of identical shape.
func meanSquaredError(a, b [][]float64) float64 {
	sum := 0.0
	n := 0
	for i := range a {
		for j := range a[i] {
			d := a[i][j] - b[i][j]
			sum += d * d
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}
