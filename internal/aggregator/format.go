package aggregator

import (
	"math/big"
	"strings"
)

// toFixed formats x with the given number of decimals. Rounding is done on the
// exact binary value of x with ties going up, so 1.25 -> "1.3" while 0.15
// (stored as 0.1499...) -> "0.1". Only used for non-negative averages.
func toFixed(x float64, digits int) string {
	r := new(big.Rat).SetFloat64(x)
	if r == nil {
		return "0." + strings.Repeat("0", digits)
	}
	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(digits)), nil)
	r.Mul(r, new(big.Rat).SetInt(scale))
	return new(big.Rat).SetFrac(floorHalfUp(r), scale).FloatString(digits)
}

// roundHalfUp rounds x to the nearest integer, ties up.
func roundHalfUp(x float64) int {
	r := new(big.Rat).SetFloat64(x)
	if r == nil {
		return 0
	}
	return int(floorHalfUp(r).Int64())
}

// floorHalfUp returns floor(r + 1/2).
func floorHalfUp(r *big.Rat) *big.Int {
	v := new(big.Rat).Add(r, big.NewRat(1, 2))
	q := new(big.Int)
	m := new(big.Int)
	q.DivMod(v.Num(), v.Denom(), m)
	return q
}

// ratio returns a/b, or 0 when b is 0.
func ratio(a, b int) float64 {
	if b == 0 {
		return 0
	}
	return float64(a) / float64(b)
}
