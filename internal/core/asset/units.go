package asset

import "math/big"

// Pow10 returns 10^n as a big integer. n is a decimal scale, so it is
// bounded by MaxDecimals in practice.
func Pow10(n uint8) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n)), nil)
}

// MulDiv computes a*b/den with integer truncation toward zero.
// The intermediate product is taken over big integers because two
// 18-decimal operands overflow uint64. Returns false if den is zero or the
// quotient does not fit in uint64.
func MulDiv(a, b, den uint64) (uint64, bool) {
	if den == 0 {
		return 0, false
	}
	prod := new(big.Int).Mul(new(big.Int).SetUint64(a), new(big.Int).SetUint64(b))
	q := prod.Quo(prod, new(big.Int).SetUint64(den))
	if !q.IsUint64() {
		return 0, false
	}
	return q.Uint64(), true
}

// MulDivPow10 computes a*b/10^scale with integer truncation. Used for the
// strike-per-underlying conversion where the denominator is the underlying
// asset's decimal scale.
func MulDivPow10(a, b uint64, scale uint8) (uint64, bool) {
	prod := new(big.Int).Mul(new(big.Int).SetUint64(a), new(big.Int).SetUint64(b))
	q := prod.Quo(prod, Pow10(scale))
	if !q.IsUint64() {
		return 0, false
	}
	return q.Uint64(), true
}
