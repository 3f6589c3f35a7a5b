//go:build !pabasic_float

package basic

// Number is the interpreter's scalar numeric type. This build carries the
// integer core; the pabasic_float build tag swaps in a float32 core behind
// the same name, per the "selectable at build time" numeric mode in the
// original machine.
type Number = int32

// NumberSize is N from the spec: the byte width a Number occupies in the
// shared store, scalar slots and array elements.
const NumberSize = 4

func numberFromFloat(f float64) Number { return Number(f) }

func numberToFloat(n Number) float64 { return float64(n) }

func truncNumber(n Number) Number { return n }

func numberToBits(n Number) uint32 { return uint32(n) }

func numberFromBits(bits uint32) Number { return Number(bits) }
