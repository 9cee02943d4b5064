package homomorphic_test

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/stat"

	"texture-recovery/internal/homomorphic"
	"texture-recovery/internal/logger"
)

// checkerboard builds a two-level texture alternating between lo and hi in
// block x block squares, so the pattern repeats every 2*block pixels.
func checkerboard(rows, cols, block int, lo, hi float64) [][]float64 {
	g := make([][]float64, rows)
	for i := 0; i < rows; i++ {
		g[i] = make([]float64, cols)
		for j := 0; j < cols; j++ {
			if ((i/block)+(j/block))%2 == 0 {
				g[i][j] = lo
			} else {
				g[i][j] = hi
			}
		}
	}
	return g
}

// verticalGradient builds a smooth illumination ramp from top to bottom.
func verticalGradient(rows, cols int, top, bottom float64) [][]float64 {
	g := make([][]float64, rows)
	for i := 0; i < rows; i++ {
		g[i] = make([]float64, cols)
		t := float64(i) / float64(rows-1)
		for j := 0; j < cols; j++ {
			g[i][j] = top + (bottom-top)*t
		}
	}
	return g
}

func multiply(a, b [][]float64) [][]float64 {
	out := make([][]float64, len(a))
	for i := range a {
		out[i] = make([]float64, len(a[i]))
		for j := range a[i] {
			out[i][j] = a[i][j] * b[i][j]
		}
	}
	return out
}

func flatten(g [][]float64) []float64 {
	out := make([]float64, 0, len(g)*len(g[0]))
	for _, row := range g {
		out = append(out, row...)
	}
	return out
}

func correlation(a, b [][]float64) float64 {
	return stat.Correlation(flatten(a), flatten(b), nil)
}

func variance(g [][]float64) float64 {
	return stat.Variance(flatten(g), nil)
}

func grayParams() homomorphic.Params {
	p := homomorphic.DefaultParams()
	p.Cutoff = 10
	p.Order = 2
	return p
}

func TestProcessRejectsInvalidShape(t *testing.T) {
	proc := homomorphic.NewGrayscale(logger.NewNop())
	p := grayParams()

	cases := []struct {
		name  string
		image [][]float64
	}{
		{"empty", [][]float64{}},
		{"empty row", [][]float64{{}}},
		{"ragged", [][]float64{{1, 2}, {3}}},
		{"negative sample", [][]float64{{0.5, 0.5}, {0.5, -0.1}}},
		{"non-finite sample", [][]float64{{0.5, math.NaN()}, {0.5, 0.5}}},
	}
	for _, tc := range cases {
		if _, err := proc.Process(tc.image, p); err == nil {
			t.Errorf("%s: expected shape error, got nil", tc.name)
		}
	}
}

func TestProcessRejectsInvalidParameters(t *testing.T) {
	proc := homomorphic.NewGrayscale(logger.NewNop())
	image := checkerboard(8, 8, 2, 0.2, 0.9)

	cases := []struct {
		name   string
		mutate func(*homomorphic.Params)
	}{
		{"zero cutoff", func(p *homomorphic.Params) { p.Cutoff = 0 }},
		{"negative cutoff", func(p *homomorphic.Params) { p.Cutoff = -5 }},
		{"order below one", func(p *homomorphic.Params) { p.Order = 0.5 }},
		{"zero gamma low", func(p *homomorphic.Params) { p.GammaLow = 0 }},
		{"unknown method", func(p *homomorphic.Params) { p.Method = homomorphic.Method(99) }},
	}
	for _, tc := range cases {
		p := grayParams()
		tc.mutate(&p)
		_, err := proc.Process(image, p)
		if err == nil {
			t.Errorf("%s: expected parameter error, got nil", tc.name)
			continue
		}
		var paramErr *homomorphic.ParameterError
		if !errors.As(err, &paramErr) {
			t.Errorf("%s: error %v is not a ParameterError", tc.name, err)
		}
	}
}

// TestCheckerboardGradientSeparation is the end-to-end decomposition check:
// a 4-pixel-period texture under a smooth multiplicative ramp should come
// apart into factors that each track their synthetic origin. The texture's
// fundamental sits around radius 22 in a 64x64 spectrum, well outside the
// cutoff at 10, so the partition is clean.
func TestCheckerboardGradientSeparation(t *testing.T) {
	texture := checkerboard(64, 64, 2, 0.2, 0.9)
	lighting := verticalGradient(64, 64, 0.3, 1.0)
	observed := multiply(texture, lighting)

	proc := homomorphic.NewGrayscale(logger.NewNop())
	result, err := proc.Process(observed, grayParams())
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	if corr := correlation(result.Illumination, lighting); corr < 0.9 {
		t.Errorf("illumination correlation with gradient = %v, want > 0.9", corr)
	}
	if corr := correlation(result.Reflectance, texture); corr < 0.8 {
		t.Errorf("reflectance correlation with checkerboard = %v, want > 0.8", corr)
	}

	// The reflectance estimate should resemble the texture far more than
	// the lighting, and vice versa.
	if rt, rl := correlation(result.Reflectance, texture), correlation(result.Reflectance, lighting); rt <= rl {
		t.Errorf("reflectance correlates with lighting (%v) at least as much as with texture (%v)", rl, rt)
	}
	if lt, ll := correlation(result.Illumination, texture), correlation(result.Illumination, lighting); ll <= lt {
		t.Errorf("illumination correlates with texture (%v) at least as much as with lighting (%v)", lt, ll)
	}
}

// TestReconstructionMatchesInput verifies the multiplicative round trip:
// with equal cutoff and order the recovered factors recombine into the
// input within floating-point tolerance.
func TestReconstructionMatchesInput(t *testing.T) {
	texture := checkerboard(32, 32, 4, 0.2, 0.9)
	lighting := verticalGradient(32, 32, 0.3, 1.0)
	observed := multiply(texture, lighting)

	proc := homomorphic.NewGrayscale(logger.NewNop())
	result, err := proc.Process(observed, grayParams())
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	if result.Diagnostics.ReconstructionMSE > 1e-9 {
		t.Errorf("reconstruction MSE = %e, want < 1e-9", result.Diagnostics.ReconstructionMSE)
	}
	if result.Diagnostics.ImagResidue > 1e-8 {
		t.Errorf("imaginary residue = %e, want < 1e-8", result.Diagnostics.ImagResidue)
	}

	maxDiff := 0.0
	for i := range observed {
		for j := range observed[i] {
			if d := math.Abs(result.Reconstruction[i][j] - observed[i][j]); d > maxDiff {
				maxDiff = d
			}
		}
	}
	if maxDiff > 1e-6 {
		t.Errorf("reconstruction max abs error = %e, want < 1e-6", maxDiff)
	}
}

// TestDirectVariantAgrees runs the same small decomposition through both
// transform implementations and compares the outputs.
func TestDirectVariantAgrees(t *testing.T) {
	observed := multiply(
		checkerboard(16, 16, 2, 0.2, 0.9),
		verticalGradient(16, 16, 0.4, 1.0),
	)

	proc := homomorphic.NewGrayscale(logger.NewNop())

	pFast := grayParams()
	pFast.Cutoff = 4
	fast, err := proc.Process(observed, pFast)
	if err != nil {
		t.Fatalf("fast variant failed: %v", err)
	}

	pDirect := pFast
	pDirect.Variant = homomorphic.TransformDirect
	direct, err := proc.Process(observed, pDirect)
	if err != nil {
		t.Fatalf("direct variant failed: %v", err)
	}

	for i := range fast.Reflectance {
		for j := range fast.Reflectance[i] {
			if d := math.Abs(fast.Reflectance[i][j] - direct.Reflectance[i][j]); d > 1e-6 {
				t.Fatalf("reflectance[%d][%d] differs between variants by %e", i, j, d)
			}
			if d := math.Abs(fast.Illumination[i][j] - direct.Illumination[i][j]); d > 1e-6 {
				t.Fatalf("illumination[%d][%d] differs between variants by %e", i, j, d)
			}
		}
	}
}

// TestDegenerateCutoff sets the cutoff beyond the largest representable
// frequency distance. The high-pass mask collapses toward zero, so the
// reflectance estimate flattens out. Boundary behavior, not an error.
func TestDegenerateCutoff(t *testing.T) {
	observed := multiply(
		checkerboard(32, 32, 4, 0.2, 0.9),
		verticalGradient(32, 32, 0.3, 1.0),
	)

	p := grayParams()
	p.Cutoff = 1000

	proc := homomorphic.NewGrayscale(logger.NewNop())
	result, err := proc.Process(observed, p)
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}

	if v := variance(result.Reflectance); v > 1e-3 {
		t.Errorf("reflectance variance = %e under degenerate cutoff, want near zero", v)
	}
	// Everything lands in the illumination estimate instead.
	if corr := correlation(result.Illumination, observed); corr < 0.99 {
		t.Errorf("illumination correlation with input = %v, want > 0.99", corr)
	}
}

func TestNonPowerOfTwoDimensions(t *testing.T) {
	observed := multiply(
		checkerboard(30, 22, 3, 0.2, 0.9),
		verticalGradient(30, 22, 0.3, 1.0),
	)

	proc := homomorphic.NewGrayscale(logger.NewNop())
	result, err := proc.Process(observed, grayParams())
	if err != nil {
		t.Fatalf("Process failed on 30x22 input: %v", err)
	}
	if len(result.Reflectance) != 30 || len(result.Reflectance[0]) != 22 {
		t.Errorf("output shape %dx%d, want 30x22 (no truncation or padding leak)",
			len(result.Reflectance), len(result.Reflectance[0]))
	}
	if result.Diagnostics.ReconstructionMSE > 1e-9 {
		t.Errorf("reconstruction MSE = %e on non-power-of-two input, want < 1e-9", result.Diagnostics.ReconstructionMSE)
	}
}
