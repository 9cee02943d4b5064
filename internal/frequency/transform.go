// Package frequency provides the frequency-domain primitives behind the
// homomorphic pipeline: the 2D discrete Fourier transform (a from-definition
// reference and a fast decomposition-based variant behind one interface),
// the DC-centered distance field, and the Butterworth filter bank.
//
// Spectrum convention: Forward and Inverse work with the DC component at
// index [0][0]; Shift moves it to the geometric center, where the distance
// field and every filter mask expect it. UnShift restores natural order
// before an inverse transform.
package frequency

// Transformer is the common contract for the 2D DFT variants. Forward and
// Inverse preserve shape, and Inverse(Forward(x)) reconstructs x within
// floating-point tolerance.
type Transformer interface {
	Forward(spatial [][]complex128) [][]complex128
	Inverse(spectrum [][]complex128) [][]complex128
	Name() string
}

// ToComplex widens a real grid into the complex grid the transforms operate on.
func ToComplex(grid [][]float64) [][]complex128 {
	out := make([][]complex128, len(grid))
	for i, row := range grid {
		out[i] = make([]complex128, len(row))
		for j, v := range row {
			out[i][j] = complex(v, 0)
		}
	}
	return out
}

// RealPart extracts the real component of a complex grid and reports the
// largest absolute imaginary value it discarded. An inverse transform of a
// spectrum derived from real data should leave only rounding noise in the
// imaginary part; callers surface the residue instead of dropping it silently.
func RealPart(grid [][]complex128) ([][]float64, float64) {
	out := make([][]float64, len(grid))
	residue := 0.0
	for i, row := range grid {
		out[i] = make([]float64, len(row))
		for j, v := range row {
			out[i][j] = real(v)
			im := imag(v)
			if im < 0 {
				im = -im
			}
			if im > residue {
				residue = im
			}
		}
	}
	return out, residue
}

// Shift moves the DC component from [0][0] to the grid's geometric center
// (rows/2, cols/2), the layout the distance field and filter masks use.
func Shift(grid [][]complex128) [][]complex128 {
	rows := len(grid)
	cols := len(grid[0])
	return roll(grid, rows/2, cols/2)
}

// UnShift undoes Shift, returning the DC component to [0][0]. For odd
// dimensions the roll amounts differ, so Shift and UnShift are not the same
// operation.
func UnShift(grid [][]complex128) [][]complex128 {
	rows := len(grid)
	cols := len(grid[0])
	return roll(grid, rows-rows/2, cols-cols/2)
}

// roll cyclically shifts a grid down by shiftRow and right by shiftCol.
func roll(grid [][]complex128, shiftRow, shiftCol int) [][]complex128 {
	rows := len(grid)
	cols := len(grid[0])
	out := make([][]complex128, rows)
	for i := range out {
		out[i] = make([]complex128, cols)
	}
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			out[(i+shiftRow)%rows][(j+shiftCol)%cols] = grid[i][j]
		}
	}
	return out
}

// Multiply applies a real-valued mask to a complex spectrum elementwise,
// returning a new grid. Mask and spectrum must share a shape.
func Multiply(spectrum [][]complex128, mask [][]float64) [][]complex128 {
	out := make([][]complex128, len(spectrum))
	for i, row := range spectrum {
		out[i] = make([]complex128, len(row))
		for j, v := range row {
			out[i][j] = v * complex(mask[i][j], 0)
		}
	}
	return out
}
