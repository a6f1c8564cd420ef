// Package beat holds exact note positions within a loop.
//
// Positions are stored as reduced fractions of a beat so that toggling the
// same grid index twice always finds the same note, whatever the division
// count was when it was placed.
package beat

import (
	"fmt"
	"strconv"
)

// Pos is a beat offset from the start of a loop, as num/den beats.
// The zero value is beat 0.
type Pos struct {
	num int64
	den int64 // > 0 once normalized; 0 only in the zero value
}

// New returns num/den beats. den must be >= 1.
func New(num, den int) Pos {
	return normalize(int64(num), int64(den))
}

// FromIndex converts a grid index to a position, index/divisions beats.
func FromIndex(index, divisions int) Pos {
	return New(index, divisions)
}

// Beats returns a whole-beat position.
func Beats(n int) Pos {
	return Pos{num: int64(n), den: 1}
}

func normalize(num, den int64) Pos {
	if den < 0 {
		num, den = -num, -den
	}
	if num == 0 {
		return Pos{den: 1}
	}
	g := gcd(abs(num), den)
	return Pos{num: num / g, den: den / g}
}

func gcd(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

func (p Pos) denom() int64 {
	if p.den == 0 {
		return 1
	}
	return p.den
}

// Num and Den expose the reduced fraction.
func (p Pos) Num() int64 { return p.num }
func (p Pos) Den() int64 { return p.denom() }

// Float returns the position in beats.
func (p Pos) Float() float64 {
	return float64(p.num) / float64(p.denom())
}

// Cmp compares two positions: -1, 0 or +1.
func (p Pos) Cmp(q Pos) int {
	l := p.num * q.denom()
	r := q.num * p.denom()
	switch {
	case l < r:
		return -1
	case l > r:
		return 1
	}
	return 0
}

// Equal reports exact equality.
func (p Pos) Equal(q Pos) bool { return p.Cmp(q) == 0 }

// Less reports p < q.
func (p Pos) Less(q Pos) bool { return p.Cmp(q) < 0 }

// Before reports whether the position lies strictly before a whole beat count.
func (p Pos) Before(beats int) bool {
	return p.num < int64(beats)*p.denom()
}

// Reached reports whether the loop phase has arrived at this position.
func (p Pos) Reached(phase float64) bool {
	return phase >= p.Float()
}

// Index maps the position onto a grid of the given divisions per beat.
// ok is false when the position falls between grid lines.
func (p Pos) Index(divisions int) (index int, ok bool) {
	scaled := p.num * int64(divisions)
	d := p.denom()
	if scaled%d != 0 {
		return 0, false
	}
	return int(scaled / d), true
}

// String formats the position in beats the way %g would.
func (p Pos) String() string {
	return strconv.FormatFloat(p.Float(), 'g', -1, 64)
}

// GoString shows the fraction, handy in test failures.
func (p Pos) GoString() string {
	return fmt.Sprintf("beat.New(%d, %d)", p.num, p.denom())
}
