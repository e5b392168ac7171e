// Package rational implements exact fractions used for musical durations.
package rational

import (
	"fmt"
)

// Rational is a reduced fraction with a positive denominator.
//
// The denominator is stored minus one so the zero value is 0/1 and two
// Rationals with the same value compare equal with ==.
type Rational struct {
	num int64
	dm1 int64
}

// Zero and One are provided for readability.
var (
	Zero = Rational{}
	One  = Int(1)
)

// New returns num/den reduced. It panics when den is zero.
func New(num, den int64) Rational {
	if den == 0 {
		panic("rational: zero denominator")
	}
	if den < 0 {
		num, den = -num, -den
	}
	if g := gcd(abs(num), den); g > 1 {
		num, den = num/g, den/g
	}
	if num == 0 {
		den = 1
	}
	return Rational{num: num, dm1: den - 1}
}

// Int returns n/1.
func Int(n int64) Rational { return Rational{num: n} }

func (r Rational) Num() int64 { return r.num }
func (r Rational) Den() int64 { return r.dm1 + 1 }

func (r Rational) Add(o Rational) Rational {
	return New(r.num*o.Den()+o.num*r.Den(), r.Den()*o.Den())
}

func (r Rational) Sub(o Rational) Rational {
	return New(r.num*o.Den()-o.num*r.Den(), r.Den()*o.Den())
}

func (r Rational) Mul(o Rational) Rational {
	return New(r.num*o.num, r.Den()*o.Den())
}

// Div panics when o is zero.
func (r Rational) Div(o Rational) Rational {
	if o.num == 0 {
		panic("rational: division by zero")
	}
	return New(r.num*o.Den(), r.Den()*o.num)
}

// Mod returns r - o*floor(r/o).
func (r Rational) Mod(o Rational) Rational {
	return r.Sub(o.Mul(Int(r.Div(o).Floor())))
}

// Floor returns the largest integer not greater than r.
func (r Rational) Floor() int64 {
	q := r.num / r.Den()
	if r.num%r.Den() != 0 && r.num < 0 {
		q--
	}
	return q
}

func (r Rational) Reciprocal() Rational {
	return One.Div(r)
}

// Pow raises r to an integer power. Negative exponents yield the
// reciprocal of the positive power.
func (r Rational) Pow(exp int) Rational {
	if exp < 0 {
		return r.Pow(-exp).Reciprocal()
	}
	result, base := One, r
	for exp > 0 {
		if exp&1 == 1 {
			result = result.Mul(base)
		}
		base = base.Mul(base)
		exp >>= 1
	}
	return result
}

// IsDyadic reports whether the denominator is a power of two.
func (r Rational) IsDyadic() bool {
	d := r.Den()
	return d&-d == d
}

func (r Rational) Cmp(o Rational) int {
	a, b := r.num*o.Den(), o.num*r.Den()
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func (r Rational) Less(o Rational) bool   { return r.Cmp(o) < 0 }
func (r Rational) LessEq(o Rational) bool { return r.Cmp(o) <= 0 }
func (r Rational) IsZero() bool           { return r.num == 0 }

func (r Rational) Sign() int {
	switch {
	case r.num < 0:
		return -1
	case r.num > 0:
		return 1
	}
	return 0
}

func (r Rational) Float64() float64 {
	return float64(r.num) / float64(r.Den())
}

func (r Rational) String() string {
	return fmt.Sprintf("%d/%d", r.num, r.Den())
}

// GCD returns the greatest rational that divides both a and b a whole
// number of times.
func GCD(a, b Rational) Rational {
	return New(gcd(abs(a.num), abs(b.num)), lcm(a.Den(), b.Den()))
}

// LCM returns the smallest positive rational that is a whole multiple of
// both a and b.
func LCM(a, b Rational) Rational {
	return New(lcm(abs(a.num), abs(b.num)), gcd(a.Den(), b.Den()))
}

// NoRemainder reports whether a is a whole multiple of b.
func NoRemainder(a, b Rational) bool {
	return a.Mod(b).IsZero()
}

func Sum(values ...Rational) Rational {
	total := Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}

// AugmentationDotsFactor returns 2 - 2^-n, the factor n augmentation dots
// apply to an undotted value.
func AugmentationDotsFactor(n int) Rational {
	return Int(2).Sub(Int(2).Pow(-n))
}

func gcd(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func lcm(a, b int64) int64 {
	if a == 0 || b == 0 {
		return 0
	}
	return a / gcd(a, b) * b
}

func abs(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}
