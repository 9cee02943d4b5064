package homomorphic

import (
	"fmt"

	"texture-recovery/internal/frequency"
	"texture-recovery/internal/logger"
)

// Thresholds above which a diagnostic is logged as a numeric-instability
// warning. The values still reach the caller either way.
const (
	imagResidueTolerance       = 1e-8
	reconstructionMSETolerance = 1e-6
)

// Diagnostics carries the non-fatal numeric findings of a processing call.
// None of these abort processing; the processor logs a warning when a value
// exceeds its expected tolerance and the caller decides what to do.
type Diagnostics struct {
	// ImagResidue is the largest imaginary magnitude discarded when taking
	// the real part after the inverse transforms. Anything beyond rounding
	// noise indicates a broken transform or mask.
	ImagResidue float64
	// ReconstructionMSE is the mean squared error between the input and
	// the recombined R*L reconstruction. Grayscale path only.
	ReconstructionMSE float64
	// ClippedPixels counts samples the output clamp genuinely discarded.
	ClippedPixels int
}

// GrayscaleResult holds the three arrays a decomposition produces. All are
// freshly allocated per call and owned by the caller.
type GrayscaleResult struct {
	// Reflectance and Illumination are the raw positive factors recovered
	// by exponentiating the filtered log-domain content. Their product
	// reconstructs the input; their absolute scale is arbitrary (the DC
	// split between the factors is a filtering choice), so rescaling for
	// display is left to the imaging layer.
	Reflectance  [][]float64
	Illumination [][]float64
	// Reconstruction is R*L recombined before normalization, with the log
	// epsilon removed, clamped to [0, 1]. It should match the input within
	// floating-point tolerance.
	Reconstruction [][]float64
	Diagnostics    Diagnostics
}

// Grayscale decomposes single-channel images. Stateless between calls;
// safe for concurrent use across images.
type Grayscale struct {
	log logger.Logger
}

func NewGrayscale(log logger.Logger) *Grayscale {
	return &Grayscale{log: log}
}

// Process runs the homomorphic pipeline on one channel:
// log(I+eps) -> forward transform -> high-pass/low-pass masking -> inverse
// transform -> exp. The high-pass branch yields reflectance, the low-pass
// branch illumination. Gamma parameters do not apply here; they belong to
// the color path.
func (g *Grayscale) Process(image [][]float64, p Params) (*GrayscaleResult, error) {
	if err := validateGrid(image); err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("parameter validation failed: %w", err)
	}

	rows := len(image)
	cols := len(image[0])
	tr := p.Variant.transformer()

	g.log.Debug("grayscale", "starting decomposition", map[string]interface{}{
		"rows":      rows,
		"cols":      cols,
		"cutoff":    p.Cutoff,
		"order":     p.Order,
		"transform": tr.Name(),
	})

	logI := logGrid(image)
	spectrum := frequency.Shift(tr.Forward(frequency.ToComplex(logI)))

	dist := frequency.DistanceField(rows, cols)
	highPass := frequency.HighPass(dist, p.Cutoff, p.Order)
	lowPass := frequency.LowPass(dist, p.Cutoff, p.Order)

	logR, residueR := frequency.RealPart(tr.Inverse(frequency.UnShift(frequency.Multiply(spectrum, highPass))))
	logL, residueL := frequency.RealPart(tr.Inverse(frequency.UnShift(frequency.Multiply(spectrum, lowPass))))

	diag := Diagnostics{ImagResidue: residueR}
	if residueL > diag.ImagResidue {
		diag.ImagResidue = residueL
	}

	reflectance := expGrid(logR)
	illumination := expGrid(logL)

	// With equal cutoff and order the two masks sum to one at every bin,
	// so exp(logR)*exp(logL) == exp(log(I+eps)) and subtracting Epsilon
	// recovers the input exactly up to rounding.
	reconstruction := make([][]float64, rows)
	for i := 0; i < rows; i++ {
		reconstruction[i] = make([]float64, cols)
		for j := 0; j < cols; j++ {
			reconstruction[i][j] = reflectance[i][j]*illumination[i][j] - Epsilon
		}
	}
	diag.ReconstructionMSE = meanSquaredError(reconstruction, image)
	diag.ClippedPixels = clipUnit(reconstruction)

	if diag.ImagResidue > imagResidueTolerance {
		g.log.Warning("grayscale", "inverse transform left a non-negligible imaginary residue", map[string]interface{}{
			"residue":   diag.ImagResidue,
			"tolerance": imagResidueTolerance,
		})
	}
	if diag.ReconstructionMSE > reconstructionMSETolerance {
		g.log.Warning("grayscale", "reconstruction deviates from input beyond expected tolerance", map[string]interface{}{
			"mse":       diag.ReconstructionMSE,
			"tolerance": reconstructionMSETolerance,
		})
	}
	if diag.ClippedPixels > 0 {
		g.log.Warning("grayscale", "output clipping discarded out-of-range samples", map[string]interface{}{
			"clipped_pixels": diag.ClippedPixels,
		})
	}

	return &GrayscaleResult{
		Reflectance:    reflectance,
		Illumination:   illumination,
		Reconstruction: reconstruction,
		Diagnostics:    diag,
	}, nil
}
