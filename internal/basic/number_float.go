//go:build pabasic_float

package basic

import "math"

// Number is the interpreter's scalar numeric type in the IEEE-754
// single-precision build.
type Number = float32

// NumberSize is N from the spec for the float build.
const NumberSize = 4

func numberFromFloat(f float64) Number { return Number(f) }

func numberToFloat(n Number) float64 { return float64(n) }

// truncNumber implements the "% truncates to integer first" rule from
// §4.E in the float build.
func truncNumber(n Number) Number { return Number(math.Trunc(float64(n))) }

func numberToBits(n Number) uint32 { return math.Float32bits(n) }

func numberFromBits(bits uint32) Number { return math.Float32frombits(bits) }
