package frequency

import (
	"math"
	"math/cmplx"
	"math/rand"
	"testing"
)

const (
	roundTripEpsilon   = 1e-9
	equivalenceEpsilon = 1e-6
)

func makeGrid(rows, cols int, rng *rand.Rand) [][]float64 {
	g := make([][]float64, rows)
	for i := 0; i < rows; i++ {
		g[i] = make([]float64, cols)
		for j := 0; j < cols; j++ {
			g[i][j] = rng.Float64()*2 - 1
		}
	}
	return g
}

func maxAbsDiffCmplx(a, b [][]complex128) float64 {
	max := 0.0
	for i := range a {
		for j := range a[i] {
			if d := cmplx.Abs(a[i][j] - b[i][j]); d > max {
				max = d
			}
		}
	}
	return max
}

func maxAbs(a [][]complex128) float64 {
	max := 0.0
	for i := range a {
		for j := range a[i] {
			if d := cmplx.Abs(a[i][j]); d > max {
				max = d
			}
		}
	}
	return max
}

func TestFastRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for _, dims := range [][2]int{{8, 8}, {16, 16}, {12, 10}, {9, 7}, {64, 64}} {
		in := ToComplex(makeGrid(dims[0], dims[1], rng))
		rec := Fast{}.Inverse(Fast{}.Forward(in))
		if d := maxAbsDiffCmplx(in, rec); d > roundTripEpsilon {
			t.Errorf("%dx%d fast round-trip max diff = %e, want < %e", dims[0], dims[1], d, roundTripEpsilon)
		}
	}
}

func TestDirectRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(1337))
	in := ToComplex(makeGrid(8, 8, rng))
	rec := Direct{}.Inverse(Direct{}.Forward(in))
	if d := maxAbsDiffCmplx(in, rec); d > roundTripEpsilon {
		t.Errorf("8x8 direct round-trip max diff = %e, want < %e", d, roundTripEpsilon)
	}
}

func TestFastMatchesDirect(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for _, dims := range [][2]int{{8, 8}, {16, 16}, {9, 7}} {
		in := ToComplex(makeGrid(dims[0], dims[1], rng))
		direct := Direct{}.Forward(in)
		fast := Fast{}.Forward(in)

		scale := maxAbs(direct)
		if scale == 0 {
			scale = 1
		}
		if d := maxAbsDiffCmplx(direct, fast) / scale; d > equivalenceEpsilon {
			t.Errorf("%dx%d direct/fast relative diff = %e, want < %e", dims[0], dims[1], d, equivalenceEpsilon)
		}
	}
}

// TestConstantImageSpectrum checks the analytic spectrum of a flat image:
// a single spike of value c*M*N at the DC bin, zero elsewhere.
func TestConstantImageSpectrum(t *testing.T) {
	const c = 0.5
	const rows, cols = 8, 8
	in := make([][]complex128, rows)
	for i := range in {
		in[i] = make([]complex128, cols)
		for j := range in[i] {
			in[i][j] = complex(c, 0)
		}
	}

	for _, tr := range []Transformer{Direct{}, Fast{}} {
		spec := tr.Forward(in)
		wantDC := c * rows * cols
		if d := cmplx.Abs(spec[0][0] - complex(wantDC, 0)); d > 1e-9 {
			t.Errorf("%s: DC bin = %v, want %v", tr.Name(), spec[0][0], wantDC)
		}
		for u := range spec {
			for v := range spec[u] {
				if u == 0 && v == 0 {
					continue
				}
				if cmplx.Abs(spec[u][v]) > 1e-9 {
					t.Errorf("%s: bin [%d][%d] = %v, want ~0 for constant input", tr.Name(), u, v, spec[u][v])
				}
			}
		}

		// After Shift the spike sits at the geometric center.
		centered := Shift(spec)
		if d := cmplx.Abs(centered[rows/2][cols/2] - complex(wantDC, 0)); d > 1e-9 {
			t.Errorf("%s: shifted DC bin = %v, want %v at center", tr.Name(), centered[rows/2][cols/2], wantDC)
		}
	}
}

func TestShiftUnShiftRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	for _, dims := range [][2]int{{8, 8}, {9, 9}, {9, 7}, {10, 13}} {
		in := ToComplex(makeGrid(dims[0], dims[1], rng))
		rec := UnShift(Shift(in))
		if d := maxAbsDiffCmplx(in, rec); d != 0 {
			t.Errorf("%dx%d UnShift(Shift(x)) max diff = %e, want exact", dims[0], dims[1], d)
		}
	}
}

// TestSingleFrequencyPeak verifies a pure cosine lands on the expected
// symmetric pair of bins.
func TestSingleFrequencyPeak(t *testing.T) {
	const rows, cols = 16, 16
	const k = 3 // horizontal frequency index
	in := make([][]complex128, rows)
	for i := range in {
		in[i] = make([]complex128, cols)
		for j := range in[i] {
			in[i][j] = complex(math.Cos(2*math.Pi*k*float64(j)/cols), 0)
		}
	}

	spec := Fast{}.Forward(in)
	want := float64(rows*cols) / 2
	if d := math.Abs(cmplx.Abs(spec[0][k]) - want); d > 1e-6 {
		t.Errorf("bin [0][%d] magnitude = %v, want %v", k, cmplx.Abs(spec[0][k]), want)
	}
	if d := math.Abs(cmplx.Abs(spec[0][cols-k]) - want); d > 1e-6 {
		t.Errorf("bin [0][%d] magnitude = %v, want %v", cols-k, cmplx.Abs(spec[0][cols-k]), want)
	}
}

func TestRealPartResidue(t *testing.T) {
	grid := [][]complex128{
		{complex(1, 1e-12), complex(2, -3e-12)},
		{complex(-4, 0), complex(0.5, 2e-13)},
	}
	re, residue := RealPart(grid)
	if re[0][0] != 1 || re[1][0] != -4 {
		t.Errorf("real parts not extracted: %v", re)
	}
	if math.Abs(residue-3e-12) > 1e-24 {
		t.Errorf("residue = %e, want 3e-12", residue)
	}
}
