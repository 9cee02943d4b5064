package frequency

import "math"

// Direct computes the 2D DFT straight from its defining double summation.
// Cost is O(M*N) per output bin, so quadratic in the pixel count overall.
// It exists as the correctness reference for Fast and for stepping through
// the transform on small inputs; it is not the production path.
type Direct struct{}

func (Direct) Name() string { return "direct" }

// Forward evaluates F[u][v] = sum_{x,y} f[x][y] * exp(-2*pi*i*(u*x/M + v*y/N)).
func (Direct) Forward(spatial [][]complex128) [][]complex128 {
	return directSum(spatial, -1, false)
}

// Inverse evaluates the conjugate summation scaled by 1/(M*N).
func (Direct) Inverse(spectrum [][]complex128) [][]complex128 {
	return directSum(spectrum, +1, true)
}

func directSum(grid [][]complex128, sign float64, normalize bool) [][]complex128 {
	rows := len(grid)
	cols := len(grid[0])

	out := make([][]complex128, rows)
	for u := 0; u < rows; u++ {
		out[u] = make([]complex128, cols)
		for v := 0; v < cols; v++ {
			var sum complex128
			for x := 0; x < rows; x++ {
				for y := 0; y < cols; y++ {
					angle := sign * 2 * math.Pi * (float64(u*x)/float64(rows) + float64(v*y)/float64(cols))
					sum += grid[x][y] * complex(math.Cos(angle), math.Sin(angle))
				}
			}
			out[u][v] = sum
		}
	}

	if normalize {
		scale := complex(1/float64(rows*cols), 0)
		for u := range out {
			for v := range out[u] {
				out[u][v] *= scale
			}
		}
	}
	return out
}
