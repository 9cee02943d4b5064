package imaging

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"gocv.io/x/gocv"

	"texture-recovery/internal/homomorphic"
)

// MatToGrid converts a single-channel 8-bit Mat into a [0, 1] float grid.
func MatToGrid(mat gocv.Mat) ([][]float64, error) {
	if mat.Empty() {
		return nil, fmt.Errorf("mat is empty")
	}
	if mat.Channels() != 1 {
		return nil, fmt.Errorf("expected single-channel mat, got %d channels", mat.Channels())
	}

	rows := mat.Rows()
	cols := mat.Cols()
	grid := make([][]float64, rows)
	for y := 0; y < rows; y++ {
		grid[y] = make([]float64, cols)
		for x := 0; x < cols; x++ {
			grid[y][x] = float64(mat.GetUCharAt(y, x)) / 255.0
		}
	}
	return grid, nil
}

// MatToColorImage converts a three-channel 8-bit BGR Mat into RGB float
// planes in [0, 1].
func MatToColorImage(mat gocv.Mat) (*homomorphic.ColorImage, error) {
	if mat.Empty() {
		return nil, fmt.Errorf("mat is empty")
	}
	if mat.Channels() != 3 {
		return nil, fmt.Errorf("expected three-channel mat, got %d channels", mat.Channels())
	}

	rows := mat.Rows()
	cols := mat.Cols()
	out := &homomorphic.ColorImage{
		R: make([][]float64, rows),
		G: make([][]float64, rows),
		B: make([][]float64, rows),
	}
	for y := 0; y < rows; y++ {
		out.R[y] = make([]float64, cols)
		out.G[y] = make([]float64, cols)
		out.B[y] = make([]float64, cols)
		for x := 0; x < cols; x++ {
			bgr := mat.GetVecbAt(y, x)
			out.B[y][x] = float64(bgr[0]) / 255.0
			out.G[y][x] = float64(bgr[1]) / 255.0
			out.R[y][x] = float64(bgr[2]) / 255.0
		}
	}
	return out, nil
}

// GridToGray renders a float grid as an 8-bit grayscale image. With
// normalize set, the grid's own range is stretched to full contrast (the
// right choice for reflectance/illumination estimates, whose absolute scale
// is arbitrary); otherwise values are clamped to [0, 1].
func GridToGray(grid [][]float64, normalize bool) *image.Gray {
	rows := len(grid)
	cols := len(grid[0])

	lo, span := 0.0, 1.0
	if normalize {
		lo, span = gridRange(grid)
	}

	img := image.NewGray(image.Rect(0, 0, cols, rows))
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			v := grid[y][x]
			if span > 0 {
				v = (v - lo) / span
			} else {
				v = 0
			}
			img.SetGray(x, y, color.Gray{Y: quantize(v)})
		}
	}
	return img
}

// ColorToRGBA renders float planes as an 8-bit RGBA image, clamping each
// sample to [0, 1].
func ColorToRGBA(c *homomorphic.ColorImage) *image.RGBA {
	rows := c.Rows()
	cols := c.Cols()

	img := image.NewRGBA(image.Rect(0, 0, cols, rows))
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			img.SetRGBA(x, y, color.RGBA{
				R: quantize(c.R[y][x]),
				G: quantize(c.G[y][x]),
				B: quantize(c.B[y][x]),
				A: 255,
			})
		}
	}
	return img
}

func gridRange(grid [][]float64) (lo, span float64) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, row := range grid {
		for _, v := range row {
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
	}
	return lo, hi - lo
}

func quantize(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}
