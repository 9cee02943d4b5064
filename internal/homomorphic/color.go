package homomorphic

import (
	"fmt"
	"math"
	"sort"

	"texture-recovery/internal/frequency"
	"texture-recovery/internal/logger"
)

// ColorImage is a three-channel image as separate planes of identical shape.
type ColorImage struct {
	R, G, B [][]float64
}

// Rows and Cols report the spatial dimensions of the red plane; Validate
// guarantees the other planes match.
func (c ColorImage) Rows() int { return len(c.R) }
func (c ColorImage) Cols() int {
	if len(c.R) == 0 {
		return 0
	}
	return len(c.R[0])
}

// Validate checks all three planes for matching rectangular shape and valid
// sample values.
func (c ColorImage) Validate() error {
	planes := []struct {
		name string
		grid [][]float64
	}{
		{"red", c.R},
		{"green", c.G},
		{"blue", c.B},
	}
	for _, p := range planes {
		if err := validateGrid(p.grid); err != nil {
			return fmt.Errorf("%s channel: %w", p.name, err)
		}
	}
	for _, p := range planes[1:] {
		if len(p.grid) != c.Rows() || len(p.grid[0]) != c.Cols() {
			return NewShapeError("%s channel is %dx%d, expected %dx%d",
				p.name, len(p.grid), len(p.grid[0]), c.Rows(), c.Cols())
		}
	}
	return nil
}

// ColorResult holds the corrected image, clipped to [0, 1], plus the numeric
// diagnostics of the run. ReconstructionMSE stays zero on this path.
type ColorResult struct {
	Corrected   ColorImage
	Diagnostics Diagnostics
}

// Color corrects three-channel images with a selectable strategy. The
// filtering itself always happens in the log-frequency domain through the
// emphasis filter (gammaHigh on reflectance content, gammaLow on
// illumination content); the strategies differ in what gets filtered and
// how the channels are recombined.
type Color struct {
	log logger.Logger
}

func NewColor(log logger.Logger) *Color {
	return &Color{log: log}
}

// Process corrects a color image using the method selected in p.
func (c *Color) Process(image ColorImage, p Params) (*ColorResult, error) {
	if err := image.Validate(); err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("parameter validation failed: %w", err)
	}

	tr := p.Variant.transformer()
	mask := frequency.Emphasis(frequency.DistanceField(image.Rows(), image.Cols()),
		p.Cutoff, p.Order, p.GammaLow, p.GammaHigh)

	c.log.Debug("color", "starting correction", map[string]interface{}{
		"rows":      image.Rows(),
		"cols":      image.Cols(),
		"method":    p.Method.String(),
		"cutoff":    p.Cutoff,
		"order":     p.Order,
		"transform": tr.Name(),
	})

	var corrected ColorImage
	var residue float64
	switch p.Method {
	case MethodIndependent:
		corrected, residue = c.independent(image, tr, mask)
	case MethodChromaticity:
		corrected, residue = c.chromaticity(image, tr, mask)
	case MethodGrayWorld:
		corrected, residue = c.chromaticity(grayWorldBalance(image), tr, mask)
	default:
		return nil, NewParameterError("method", int(p.Method), "unknown method")
	}

	diag := Diagnostics{ImagResidue: residue}
	diag.ClippedPixels = normalizeDisplay(&corrected)

	if diag.ImagResidue > imagResidueTolerance {
		c.log.Warning("color", "inverse transform left a non-negligible imaginary residue", map[string]interface{}{
			"residue":   diag.ImagResidue,
			"tolerance": imagResidueTolerance,
		})
	}
	if diag.ClippedPixels > 0 {
		c.log.Warning("color", "output clipping discarded saturated samples", map[string]interface{}{
			"clipped_pixels": diag.ClippedPixels,
		})
	}

	return &ColorResult{Corrected: corrected, Diagnostics: diag}, nil
}

// independent filters every channel separately. Gains are uncorrelated
// across channels, so hue can shift; that is the documented trade-off.
func (c *Color) independent(image ColorImage, tr frequency.Transformer, mask [][]float64) (ColorImage, float64) {
	var out ColorImage
	var residue float64
	for _, ch := range []struct {
		src [][]float64
		dst *[][]float64
	}{
		{image.R, &out.R},
		{image.G, &out.G},
		{image.B, &out.B},
	} {
		filtered, r := filterLog(tr, logGrid(ch.src), mask)
		*ch.dst = filtered
		if r > residue {
			residue = r
		}
	}
	return out, residue
}

// chromaticity filters only the mean-intensity channel, derives a per-pixel
// gain, and applies that same scalar to all three channels. Channel ratios
// are invariant by construction.
func (c *Color) chromaticity(image ColorImage, tr frequency.Transformer, mask [][]float64) (ColorImage, float64) {
	rows := image.Rows()
	cols := image.Cols()

	intensity := make([][]float64, rows)
	for i := 0; i < rows; i++ {
		intensity[i] = make([]float64, cols)
		for j := 0; j < cols; j++ {
			intensity[i][j] = (image.R[i][j] + image.G[i][j] + image.B[i][j]) / 3
		}
	}

	corrected, residue := filterLog(tr, logGrid(intensity), mask)

	gain := make([][]float64, rows)
	for i := 0; i < rows; i++ {
		gain[i] = make([]float64, cols)
		for j := 0; j < cols; j++ {
			gain[i][j] = corrected[i][j] / (intensity[i][j] + Epsilon)
		}
	}

	return ColorImage{
		R: applyGain(image.R, gain),
		G: applyGain(image.G, gain),
		B: applyGain(image.B, gain),
	}, residue
}

func applyGain(plane, gain [][]float64) [][]float64 {
	out := make([][]float64, len(plane))
	for i, row := range plane {
		out[i] = make([]float64, len(row))
		for j, v := range row {
			out[i][j] = v * gain[i][j]
		}
	}
	return out
}

// grayWorldBalance rescales each channel by overallMean/channelMean so the
// average color of the result is neutral gray.
func grayWorldBalance(image ColorImage) ColorImage {
	meanR := gridMean(image.R)
	meanG := gridMean(image.G)
	meanB := gridMean(image.B)
	overall := (meanR + meanG + meanB) / 3

	return ColorImage{
		R: scalePlane(image.R, balanceGain(overall, meanR)),
		G: scalePlane(image.G, balanceGain(overall, meanG)),
		B: scalePlane(image.B, balanceGain(overall, meanB)),
	}
}

// balanceGain leaves an all-zero channel untouched rather than dividing by zero.
func balanceGain(overall, channelMean float64) float64 {
	if channelMean == 0 {
		return 1
	}
	return overall / channelMean
}

func gridMean(grid [][]float64) float64 {
	sum := 0.0
	n := 0
	for _, row := range grid {
		for _, v := range row {
			sum += v
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

func scalePlane(plane [][]float64, gain float64) [][]float64 {
	out := make([][]float64, len(plane))
	for i, row := range plane {
		out[i] = make([]float64, len(row))
		for j, v := range row {
			out[i][j] = v * gain
		}
	}
	return out
}

// normalizeDisplay rescales the image by its 99th-percentile value (a robust
// white point that a few hot pixels cannot dominate) and clamps to [0, 1],
// returning the count of genuinely clipped samples. The same scalar divides
// every channel, so chromaticity survives the normalization.
func normalizeDisplay(image *ColorImage) int {
	values := make([]float64, 0, 3*len(image.R)*len(image.R[0]))
	for _, plane := range [][][]float64{image.R, image.G, image.B} {
		for _, row := range plane {
			values = append(values, row...)
		}
	}
	sort.Float64s(values)
	white := values[int(float64(len(values)-1)*0.99)] + Epsilon

	clipped := 0
	for _, plane := range [][][]float64{image.R, image.G, image.B} {
		for i, row := range plane {
			for j, v := range row {
				scaled := v / white
				if scaled > 1 {
					if scaled > 1+clipSlack {
						clipped++
					}
					scaled = 1
				}
				if math.IsNaN(scaled) || scaled < 0 {
					scaled = 0
				}
				plane[i][j] = scaled
			}
		}
	}
	return clipped
}
