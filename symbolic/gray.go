package symbolic

import (
	"strconv"

	"github.com/dalzilio/rudd"

	"github.com/sybila/biodivine-logical-model-toolkit/bddenv"
	"github.com/sybila/biodivine-logical-model-toolkit/ints"
)

// GrayDomain encodes {0..max} with the same bit width as BinaryDomain, but
// using the reflected Gray code: adjacent integers differ in exactly one
// bit. Range predicates are not single-bit tests here and are built as
// explicit disjunctions over the in-range values, exactly as spec'd.
type GrayDomain struct {
	vars []int
	max  uint8
}

// NewGrayDomain allocates the same number of variables as a BinaryDomain
// of the same max would.
func NewGrayDomain(builder *bddenv.Builder, name string, max uint8) *GrayDomain {
	width := bitWidth(max)
	vars := make([]int, 0, width)
	for i := 0; i < width; i++ {
		vars = append(vars, builder.MakeVariable(name+"_g"+strconv.Itoa(i)))
	}
	return &GrayDomain{vars: vars, max: max}
}

func (d *GrayDomain) Variables() []int { return d.vars }
func (d *GrayDomain) Size() int        { return len(d.vars) }
func (d *GrayDomain) Max() uint8       { return d.max }

// toGray converts a positional binary value to its reflected Gray code.
func toGray(v uint8) uint8 { return v ^ (v >> 1) }

// fromGray inverts toGray.
func fromGray(g uint8) uint8 {
	v := g
	for mask := v >> 1; mask != 0; mask >>= 1 {
		v ^= mask
	}
	return v
}

func (d *GrayDomain) EncodeBits(val Valuation, value uint8) {
	buf := []uint8{toGray(value)}
	for i, v := range d.vars {
		val[v] = ints.TestBit(buf, i)
	}
}

func (d *GrayDomain) DecodeBits(val Valuation) uint8 {
	buf := []uint8{0}
	for i, v := range d.vars {
		if val[v] {
			ints.SetBit(buf, i)
		}
	}
	return fromGray(buf[0])
}

func (d *GrayDomain) EmptyCollection(env *bddenv.Env) rudd.Node { return env.False() }

func (d *GrayDomain) UnitCollection(env *bddenv.Env) rudd.Node {
	result := env.False()
	for v := uint16(0); v <= uint16(d.max); v++ {
		result = env.Or(result, EncodeOne(env, d, uint8(v)))
	}
	return result
}

func (d *GrayDomain) EncodeLt(env *bddenv.Env, value uint8) rudd.Node {
	return d.rangeDisjunction(env, 0, uint16(value))
}

func (d *GrayDomain) EncodeLe(env *bddenv.Env, value uint8) rudd.Node {
	return d.rangeDisjunction(env, 0, uint16(value)+1)
}

func (d *GrayDomain) EncodeGt(env *bddenv.Env, value uint8) rudd.Node {
	return d.rangeDisjunction(env, uint16(value)+1, uint16(d.max)+1)
}

func (d *GrayDomain) EncodeGe(env *bddenv.Env, value uint8) rudd.Node {
	return d.rangeDisjunction(env, uint16(value), uint16(d.max)+1)
}

func (d *GrayDomain) rangeDisjunction(env *bddenv.Env, lo, hi uint16) rudd.Node {
	lo = ints.Clamp(lo, 0, uint16(d.max)+1)
	hi = ints.Clamp(hi, 0, uint16(d.max)+1)
	result := env.False()
	for v := lo; v < hi; v++ {
		result = env.Or(result, EncodeOne(env, d, uint8(v)))
	}
	return result
}
