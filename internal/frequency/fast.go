package frequency

import "gonum.org/v1/gonum/dsp/fourier"

// Fast computes the 2D DFT by row/column decomposition over gonum's
// general-length complex FFT. Any rectangular shape is supported directly,
// including non-power-of-two and odd dimensions; nothing is padded or
// cropped. Output matches Direct within floating-point tolerance.
type Fast struct{}

func (Fast) Name() string { return "fast" }

// Forward transforms each row, then each column of the row-transformed grid.
func (Fast) Forward(spatial [][]complex128) [][]complex128 {
	return fastPass(spatial, false)
}

// Inverse applies the inverse FFT along both axes and rescales by 1/(M*N),
// since gonum's sequence reconstruction is unnormalized.
func (Fast) Inverse(spectrum [][]complex128) [][]complex128 {
	rows := len(spectrum)
	cols := len(spectrum[0])

	out := fastPass(spectrum, true)
	scale := complex(1/float64(rows*cols), 0)
	for u := range out {
		for v := range out[u] {
			out[u][v] *= scale
		}
	}
	return out
}

func fastPass(grid [][]complex128, inverse bool) [][]complex128 {
	rows := len(grid)
	cols := len(grid[0])

	out := make([][]complex128, rows)

	rowFFT := fourier.NewCmplxFFT(cols)
	for i := 0; i < rows; i++ {
		out[i] = transform1D(rowFFT, grid[i], inverse)
	}

	colFFT := fourier.NewCmplxFFT(rows)
	col := make([]complex128, rows)
	for j := 0; j < cols; j++ {
		for i := 0; i < rows; i++ {
			col[i] = out[i][j]
		}
		transformed := transform1D(colFFT, col, inverse)
		for i := 0; i < rows; i++ {
			out[i][j] = transformed[i]
		}
	}
	return out
}

func transform1D(fft *fourier.CmplxFFT, seq []complex128, inverse bool) []complex128 {
	in := make([]complex128, len(seq))
	copy(in, seq)
	if inverse {
		return fft.Sequence(nil, in)
	}
	return fft.Coefficients(nil, in)
}
