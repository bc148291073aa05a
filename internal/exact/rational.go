// Package exact provides an exact rational scalar used by the circumsphere
// orientation predicate when the floating-point fast path lands inside its
// tolerance envelope.
//
// The type is a thin wrapper over math/big: numerator and denominator are
// arbitrary-precision integers, reduced to lowest terms (via big.Int.GCD) on
// every construction and after every arithmetic operation. This restores the
// "true rational, gcd-cancelled" behavior spec.md §9 calls out as the correct
// fix for a known bug in the source kernel (a rational that degraded to a
// single float64 and silently lost its exactness guarantee).
package exact

import (
	"errors"
	"math/big"
)

// ErrDivideByZero is returned by Quo when the divisor is exactly zero.
var ErrDivideByZero = errors.New("exact: division by zero")

// Rational is an exact, arbitrary-precision rational number num/den with
// den > 0 and gcd(|num|, den) == 1 always maintained as an invariant.
type Rational struct {
	num *big.Int
	den *big.Int
}

// Zero is the additive identity. Safe to use as a zero-value substitute when
// a Rational must be returned before any real computation occurred.
func Zero() Rational {
	return Rational{num: big.NewInt(0), den: big.NewInt(1)}
}

// NewInt builds an exact integer n/1.
func NewInt(n int64) Rational {
	return Rational{num: big.NewInt(n), den: big.NewInt(1)}
}

// NewFloat builds the exact rational value of a float64, preserving its
// binary value precisely (no decimal rounding) via big.Rat's float
// conversion, then normalizes into num/den form.
func NewFloat(f float64) Rational {
	r := new(big.Rat).SetFloat64(f)
	if r == nil {
		// f is NaN or +-Inf; no exact rational value exists. The predicate
		// layer never feeds such values in (coordinates are always finite),
		// so this is defensive rather than reachable in practice.
		return Zero()
	}
	return normalize(new(big.Int).Set(r.Num()), new(big.Int).Set(r.Denom()))
}

// normalize reduces num/den to lowest terms with a strictly positive
// denominator.
func normalize(num, den *big.Int) Rational {
	if den.Sign() < 0 {
		num.Neg(num)
		den.Neg(den)
	}
	if num.Sign() == 0 {
		return Rational{num: big.NewInt(0), den: big.NewInt(1)}
	}
	g := new(big.Int).GCD(nil, nil, new(big.Int).Abs(num), den)
	if g.Cmp(big.NewInt(1)) != 0 {
		num = new(big.Int).Quo(num, g)
		den = new(big.Int).Quo(den, g)
	}
	return Rational{num: num, den: den}
}

// Add returns a + b.
func Add(a, b Rational) Rational {
	num := new(big.Int).Add(
		new(big.Int).Mul(a.num, b.den),
		new(big.Int).Mul(b.num, a.den),
	)
	den := new(big.Int).Mul(a.den, b.den)
	return normalize(num, den)
}

// Sub returns a - b.
func Sub(a, b Rational) Rational {
	return Add(a, Neg(b))
}

// Mul returns a * b.
func Mul(a, b Rational) Rational {
	num := new(big.Int).Mul(a.num, b.num)
	den := new(big.Int).Mul(a.den, b.den)
	return normalize(num, den)
}

// Quo returns a / b. Returns ErrDivideByZero if b is exactly zero.
func Quo(a, b Rational) (Rational, error) {
	if b.IsZero() {
		return Rational{}, ErrDivideByZero
	}
	num := new(big.Int).Mul(a.num, b.den)
	den := new(big.Int).Mul(a.den, b.num)
	return normalize(num, den), nil
}

// Neg returns -a.
func Neg(a Rational) Rational {
	return Rational{num: new(big.Int).Neg(a.num), den: new(big.Int).Set(a.den)}
}

// Cmp returns -1, 0, or +1 as a is less than, equal to, or greater than b.
func Cmp(a, b Rational) int {
	lhs := new(big.Int).Mul(a.num, b.den)
	rhs := new(big.Int).Mul(b.num, a.den)
	return lhs.Cmp(rhs)
}

// Sign returns -1, 0, or +1 matching the sign of a.
func (a Rational) Sign() int {
	return a.num.Sign()
}

// IsZero reports whether a is exactly zero.
func (a Rational) IsZero() bool {
	return a.num.Sign() == 0
}

// String renders a as "num/den" (den elided when 1), for debugging and test
// failure messages.
func (a Rational) String() string {
	if a.den.Cmp(big.NewInt(1)) == 0 {
		return a.num.String()
	}
	return a.num.String() + "/" + a.den.String()
}
