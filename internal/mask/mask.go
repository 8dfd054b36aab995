// Package mask builds oracle time-frequency masks from ground-truth
// sources and applies them to a mixture. Oracle masks are upper-bound
// benchmarks for separation quality, not deployable algorithms.
package mask

import (
	"fmt"
	"math"
)

type Variant string

const (
	// VariantBinary assigns each time-frequency bin entirely to the
	// dominant source (ideal binary mask).
	VariantBinary Variant = "binary"
	// VariantRatio weights each bin by the source's share of the total
	// power (ideal ratio mask).
	VariantRatio Variant = "ratio"
	// VariantPSA is the phase-sensitive approximation: the ratio of
	// source to mixture magnitude scaled by the cosine of their phase
	// difference.
	VariantPSA Variant = "psa"
)

func ParseVariant(s string) (Variant, error) {
	switch Variant(s) {
	case VariantBinary, VariantRatio, VariantPSA:
		return Variant(s), nil
	}
	return "", fmt.Errorf("unknown mask variant %q", s)
}

// Bounds clamps mask values to [Low, High]. Infinities disable the
// corresponding side; Unrestricted leaves mask values untouched.
type Bounds struct {
	Low  float64
	High float64
}

func Unrestricted() Bounds {
	return Bounds{Low: math.Inf(-1), High: math.Inf(1)}
}

func (b Bounds) IsUnrestricted() bool {
	return math.IsInf(b.Low, -1) && math.IsInf(b.High, 1)
}

func (b Bounds) Clamp(v float64) float64 {
	if v < b.Low {
		return b.Low
	}
	if v > b.High {
		return b.High
	}
	return v
}

func (b Bounds) validate() error {
	if math.IsNaN(b.Low) || math.IsNaN(b.High) {
		return fmt.Errorf("mask bounds contain NaN")
	}
	if b.Low > b.High {
		return fmt.Errorf("mask bounds inverted: low %v > high %v", b.Low, b.High)
	}
	return nil
}
