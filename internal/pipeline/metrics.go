package pipeline

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// QualityMetrics summarizes how closely a reconstruction tracks the
// original image.
type QualityMetrics struct {
	MSE  float64 // mean squared error over all samples
	PSNR float64 // peak signal-to-noise ratio in dB, +Inf for an exact match
}

// peak intensity of normalized samples
const maxSampleValue = 1.0

// Evaluate computes MSE and PSNR between an original image and its
// reconstruction. Both grids must share a shape.
func Evaluate(original, reconstruction [][]float64) (*QualityMetrics, error) {
	if len(original) == 0 || len(original[0]) == 0 {
		return nil, fmt.Errorf("original image is empty")
	}
	if len(original) != len(reconstruction) {
		return nil, fmt.Errorf("image dimensions must match: original has %d rows, reconstruction %d",
			len(original), len(reconstruction))
	}

	sum := 0.0
	n := 0
	for i := range original {
		if len(original[i]) != len(reconstruction[i]) {
			return nil, fmt.Errorf("row %d length mismatch: original %d, reconstruction %d",
				i, len(original[i]), len(reconstruction[i]))
		}
		for j := range original[i] {
			d := original[i][j] - reconstruction[i][j]
			sum += d * d
			n++
		}
	}

	metrics := &QualityMetrics{MSE: sum / float64(n)}
	if metrics.MSE == 0 {
		metrics.PSNR = math.Inf(1)
	} else {
		metrics.PSNR = 20 * math.Log10(maxSampleValue/math.Sqrt(metrics.MSE))
	}
	return metrics, nil
}

// NormalizedCorrelation computes the Pearson correlation between two grids
// of identical shape, used to report how well a recovered factor tracks a
// reference pattern.
func NormalizedCorrelation(a, b [][]float64) (float64, error) {
	if len(a) != len(b) || len(a) == 0 {
		return 0, fmt.Errorf("grids must share a non-empty shape")
	}

	flatA := make([]float64, 0, len(a)*len(a[0]))
	flatB := make([]float64, 0, len(b)*len(b[0]))
	for i := range a {
		if len(a[i]) != len(b[i]) {
			return 0, fmt.Errorf("row %d length mismatch: %d vs %d", i, len(a[i]), len(b[i]))
		}
		flatA = append(flatA, a[i]...)
		flatB = append(flatB, b[i]...)
	}
	return stat.Correlation(flatA, flatB, nil), nil
}
