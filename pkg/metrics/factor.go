package metrics

import (
	"encoding/json"
	"fmt"
	"math"
)

// Factor is a ratio that keeps its numerator and denominator. A zero
// denominator makes the factor undefined; check Defined before using the
// value in further arithmetic.
type Factor struct {
	Numerator   int
	Denominator int
}

// Undefined is the factor of an empty member universe.
var Undefined = Factor{}

// NewFactor returns numerator/denominator as a Factor.
func NewFactor(numerator, denominator int) Factor {
	if denominator == 0 {
		return Undefined
	}
	return Factor{Numerator: numerator, Denominator: denominator}
}

// Defined reports whether the denominator is non-zero.
func (f Factor) Defined() bool { return f.Denominator != 0 }

// Value returns the ratio and whether it is defined.
func (f Factor) Value() (float64, bool) {
	if !f.Defined() {
		return 0, false
	}
	return float64(f.Numerator) / float64(f.Denominator), true
}

// Float returns the ratio, or NaN when undefined.
func (f Factor) Float() float64 {
	v, ok := f.Value()
	if !ok {
		return math.NaN()
	}
	return v
}

// Ptr returns the ratio as a pointer, nil when undefined. Used for
// serialised rows where undefined becomes null.
func (f Factor) Ptr() *float64 {
	v, ok := f.Value()
	if !ok {
		return nil
	}
	return &v
}

func (f Factor) String() string {
	v, ok := f.Value()
	if !ok {
		return "undefined"
	}
	return fmt.Sprintf("%.3f", v)
}

// MarshalJSON encodes the ratio as a number, or null when undefined.
func (f Factor) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.Ptr())
}
