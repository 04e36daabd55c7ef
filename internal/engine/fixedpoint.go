package engine

import (
	"github.com/holiman/uint256"
)

const (
	// FPScale is the fixed-point unit: 1.0 == 1_000_000.
	FPScale = 1_000_000
	// MaxTotalMultiplier caps the combined multiplier applied to the base.
	MaxTotalMultiplier = 10
)

var fpScale = uint256.NewInt(FPScale)

// toFP lifts an integer into fixed point.
func toFP(v uint64) (*uint256.Int, error) {
	z, overflow := new(uint256.Int).MulOverflow(uint256.NewInt(v), fpScale)
	if overflow {
		return nil, ErrMathOverflow
	}
	return z, nil
}

// mulFP returns v * m / FPScale, failing rather than wrapping.
func mulFP(v *uint256.Int, m uint64) (*uint256.Int, error) {
	z, overflow := new(uint256.Int).MulOverflow(v, uint256.NewInt(m))
	if overflow {
		return nil, ErrMathOverflow
	}
	return z.Div(z, fpScale), nil
}

// fromFP truncates a fixed-point value back to an integer. Values that do
// not fit a uint64 are an error.
func fromFP(v *uint256.Int) (uint64, error) {
	z := new(uint256.Int).Div(v, fpScale)
	if !z.IsUint64() {
		return 0, ErrMathOverflow
	}
	return z.Uint64(), nil
}

// clampFP bounds v to limit and reports whether it had to.
func clampFP(v, limit *uint256.Int) (*uint256.Int, bool) {
	if v.Gt(limit) {
		return new(uint256.Int).Set(limit), true
	}
	return v, false
}

// pct returns v * num / den with saturation instead of overflow. It is only
// used for health side effects, which saturate.
func pct(v, num, den uint64) uint64 {
	z, overflow := new(uint256.Int).MulOverflow(uint256.NewInt(v), uint256.NewInt(num))
	if overflow {
		return ^uint64(0)
	}
	z.Div(z, uint256.NewInt(den))
	if !z.IsUint64() {
		return ^uint64(0)
	}
	return z.Uint64()
}

func satSub(a, b uint64) uint64 {
	if b >= a {
		return 0
	}
	return a - b
}

func satAdd(a, b uint64) uint64 {
	if a > ^uint64(0)-b {
		return ^uint64(0)
	}
	return a + b
}
