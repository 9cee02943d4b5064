// Package imaging sits at the boundary between image files and the float
// grids the core operates on: decoding (OpenCV plus the standard library,
// the same split the pixel data already goes through upstream tooling),
// normalization to [0, 1], and encoding of results for display.
package imaging

import "texture-recovery/internal/homomorphic"

// ImageData is a decoded image converted to normalized float samples.
// Exactly one of Gray or Color is set, according to how it was loaded.
type ImageData struct {
	Width    int
	Height   int
	Channels int
	Format   string

	Gray  [][]float64
	Color *homomorphic.ColorImage
}
