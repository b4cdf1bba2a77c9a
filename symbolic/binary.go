package symbolic

import (
	"strconv"

	"github.com/dalzilio/rudd"

	"github.com/sybila/biodivine-logical-model-toolkit/bddenv"
	"github.com/sybila/biodivine-logical-model-toolkit/ints"
)

// BinaryDomain encodes {0..max} with ceil(log2(max+1)) bits in standard
// positional (little-endian) binary.
type BinaryDomain struct {
	vars []int
	max  uint8
}

// NewBinaryDomain allocates ceil(log2(max+1)) fresh variables in builder.
func NewBinaryDomain(builder *bddenv.Builder, name string, max uint8) *BinaryDomain {
	width := bitWidth(max)
	vars := make([]int, 0, width)
	for i := 0; i < width; i++ {
		vars = append(vars, builder.MakeVariable(name+"_b"+strconv.Itoa(i)))
	}
	return &BinaryDomain{vars: vars, max: max}
}

// bitWidth returns the number of bits needed to represent every value in
// {0..max}, i.e. ceil(log2(max+1)), with the convention bitWidth(0) == 0.
func bitWidth(max uint8) int {
	width := 0
	for (uint16(1) << width) <= uint16(max) {
		width++
	}
	return width
}

func (d *BinaryDomain) Variables() []int { return d.vars }
func (d *BinaryDomain) Size() int        { return len(d.vars) }
func (d *BinaryDomain) Max() uint8       { return d.max }

func (d *BinaryDomain) EncodeBits(val Valuation, value uint8) {
	buf := []uint8{value}
	for i, v := range d.vars {
		val[v] = ints.TestBit(buf, i)
	}
}

func (d *BinaryDomain) DecodeBits(val Valuation) uint8 {
	var result uint8
	buf := []uint8{0}
	for i, v := range d.vars {
		if val[v] {
			ints.SetBit(buf, i)
		}
	}
	result = buf[0]
	return result
}

func (d *BinaryDomain) EmptyCollection(env *bddenv.Env) rudd.Node { return env.False() }

// UnitCollection excludes bit patterns whose positional value exceeds max:
// the disjunction of EncodeOne(v) for every valid v.
func (d *BinaryDomain) UnitCollection(env *bddenv.Env) rudd.Node {
	result := env.False()
	for v := uint16(0); v <= uint16(d.max); v++ {
		result = env.Or(result, EncodeOne(env, d, uint8(v)))
	}
	return result
}

func (d *BinaryDomain) EncodeLt(env *bddenv.Env, value uint8) rudd.Node {
	return d.rangeDisjunction(env, 0, uint16(value))
}

func (d *BinaryDomain) EncodeLe(env *bddenv.Env, value uint8) rudd.Node {
	return d.rangeDisjunction(env, 0, uint16(value)+1)
}

func (d *BinaryDomain) EncodeGt(env *bddenv.Env, value uint8) rudd.Node {
	return d.rangeDisjunction(env, uint16(value)+1, uint16(d.max)+1)
}

func (d *BinaryDomain) EncodeGe(env *bddenv.Env, value uint8) rudd.Node {
	return d.rangeDisjunction(env, uint16(value), uint16(d.max)+1)
}

// rangeDisjunction builds the BDD of every value v with lo <= v < hi,
// clamped to this domain's actual range. Binary encodings have no
// single-bit test for "less than", so the range predicates are explicit
// disjunctions, same as the Gray encoding.
func (d *BinaryDomain) rangeDisjunction(env *bddenv.Env, lo, hi uint16) rudd.Node {
	lo = ints.Clamp(lo, 0, uint16(d.max)+1)
	hi = ints.Clamp(hi, 0, uint16(d.max)+1)
	result := env.False()
	for v := lo; v < hi; v++ {
		result = env.Or(result, EncodeOne(env, d, uint8(v)))
	}
	return result
}
