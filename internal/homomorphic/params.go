// Package homomorphic separates a single image into reflectance and
// illumination estimates under the multiplicative model I = R * L. The
// logarithm turns the product into a sum, a Butterworth filter bank
// partitions the log-spectrum into high-frequency (reflectance) and
// low-frequency (illumination) content, and exponentiation returns both
// factors to the intensity domain. Grayscale handles single channels,
// Color extends the decomposition to RGB input.
package homomorphic

import (
	"fmt"

	"texture-recovery/internal/frequency"
)

// Epsilon is added to every sample before the logarithm so that zero-valued
// pixels stay finite.
const Epsilon = 1e-6

// Method selects the color correction strategy.
type Method int

const (
	// MethodIndependent filters each channel on its own. Fastest, but the
	// uncorrelated per-channel gains can shift hue.
	MethodIndependent Method = iota
	// MethodChromaticity filters only the intensity channel and applies the
	// resulting per-pixel gain to all three channels, leaving channel
	// ratios untouched.
	MethodChromaticity
	// MethodGrayWorld white-balances the channels against the overall mean
	// gray before chromaticity-preserving filtering.
	MethodGrayWorld
)

func (m Method) String() string {
	switch m {
	case MethodIndependent:
		return "independent"
	case MethodChromaticity:
		return "chromaticity-preserved"
	case MethodGrayWorld:
		return "gray-world"
	default:
		return fmt.Sprintf("Method(%d)", int(m))
	}
}

// ParseMethod resolves a method name from configuration input.
func ParseMethod(name string) (Method, error) {
	switch name {
	case "independent":
		return MethodIndependent, nil
	case "chromaticity-preserved", "chromaticity":
		return MethodChromaticity, nil
	case "gray-world":
		return MethodGrayWorld, nil
	default:
		return 0, NewParameterError("method", name, "must be 'independent', 'chromaticity-preserved', or 'gray-world'")
	}
}

// Variant selects the transform implementation for a call.
type Variant int

const (
	// TransformFast is the production path.
	TransformFast Variant = iota
	// TransformDirect evaluates the DFT from its definition; quadratic
	// cost, intended for verification on small inputs.
	TransformDirect
)

func (v Variant) String() string {
	if v == TransformDirect {
		return "direct"
	}
	return "fast"
}

// ParseVariant resolves a transform variant name from configuration input.
func ParseVariant(name string) (Variant, error) {
	switch name {
	case "fast":
		return TransformFast, nil
	case "direct":
		return TransformDirect, nil
	default:
		return 0, NewParameterError("transform", name, "must be 'fast' or 'direct'")
	}
}

func (v Variant) transformer() frequency.Transformer {
	if v == TransformDirect {
		return frequency.Direct{}
	}
	return frequency.Fast{}
}

// Params holds the per-call configuration. Values are copied in; a call
// never mutates or retains them.
type Params struct {
	Cutoff    float64 // Butterworth cutoff radius in frequency-bin units
	Order     float64 // Butterworth order, controls transition sharpness
	Method    Method  // color path only
	GammaLow  float64 // gain on the illumination component, color path only
	GammaHigh float64 // gain on the reflectance component, color path only
	Variant   Variant
}

// DefaultParams mirrors the classic homomorphic configuration: cutoff 30,
// order 2, illumination compressed to 0.3 and reflectance boosted to 2.0.
func DefaultParams() Params {
	return Params{
		Cutoff:    30,
		Order:     2,
		Method:    MethodChromaticity,
		GammaLow:  0.3,
		GammaHigh: 2.0,
		Variant:   TransformFast,
	}
}

// Validate rejects invalid configuration before any transform work begins.
func (p Params) Validate() error {
	if p.Cutoff <= 0 {
		return NewParameterError("cutoff", p.Cutoff, "must be greater than zero")
	}
	if p.Order < 1 {
		return NewParameterError("order", p.Order, "must be at least 1")
	}
	if p.GammaLow <= 0 {
		return NewParameterError("gamma_low", p.GammaLow, "must be greater than zero")
	}
	if p.GammaHigh <= 0 {
		return NewParameterError("gamma_high", p.GammaHigh, "must be greater than zero")
	}
	switch p.Method {
	case MethodIndependent, MethodChromaticity, MethodGrayWorld:
	default:
		return NewParameterError("method", int(p.Method), "unknown method")
	}
	switch p.Variant {
	case TransformFast, TransformDirect:
	default:
		return NewParameterError("transform", int(p.Variant), "unknown transform variant")
	}
	return nil
}

// ParameterError reports configuration rejected at call entry.
type ParameterError struct {
	Parameter string
	Value     interface{}
	Message   string
}

func NewParameterError(parameter string, value interface{}, message string) *ParameterError {
	return &ParameterError{Parameter: parameter, Value: value, Message: message}
}

func (e *ParameterError) Error() string {
	return fmt.Sprintf("invalid parameter '%s' with value '%v': %s", e.Parameter, e.Value, e.Message)
}

// ShapeError reports input arrays with unsupported dimensionality.
type ShapeError struct {
	Message string
}

func NewShapeError(format string, args ...interface{}) *ShapeError {
	return &ShapeError{Message: fmt.Sprintf(format, args...)}
}

func (e *ShapeError) Error() string {
	return "invalid image shape: " + e.Message
}
