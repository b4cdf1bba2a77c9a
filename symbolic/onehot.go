package symbolic

import (
	"strconv"

	"github.com/dalzilio/rudd"

	"github.com/sybila/biodivine-logical-model-toolkit/bddenv"
)

// OneHotDomain encodes {0..max} with max+1 bits, exactly one of which is
// true: the Petri-net / one-hot style encoding.
type OneHotDomain struct {
	vars []int
	max  uint8
}

// NewOneHotDomain allocates max+1 fresh variables in builder.
func NewOneHotDomain(builder *bddenv.Builder, name string, max uint8) *OneHotDomain {
	vars := make([]int, 0, int(max)+1)
	for i := 0; i <= int(max); i++ {
		vars = append(vars, builder.MakeVariable(name+"_h"+strconv.Itoa(i)))
	}
	return &OneHotDomain{vars: vars, max: max}
}

func (d *OneHotDomain) Variables() []int { return d.vars }
func (d *OneHotDomain) Size() int        { return len(d.vars) }
func (d *OneHotDomain) Max() uint8       { return d.max }

func (d *OneHotDomain) EncodeBits(val Valuation, value uint8) {
	for i, v := range d.vars {
		val[v] = i == int(value)
	}
}

func (d *OneHotDomain) DecodeBits(val Valuation) uint8 {
	for i, v := range d.vars {
		if val[v] {
			return uint8(i)
		}
	}
	return 0
}

func (d *OneHotDomain) EmptyCollection(env *bddenv.Env) rudd.Node { return env.False() }

// UnitCollection enforces pairwise mutual exclusion between every bit (for
// i != j, ¬(bit_i ∧ bit_j)) and requires at least one bit to be true, so it
// admits exactly the max+1 patterns produced by EncodeOne.
func (d *OneHotDomain) UnitCollection(env *bddenv.Env) rudd.Node {
	result := env.True()
	atLeastOne := env.False()
	for i := 0; i < len(d.vars); i++ {
		atLeastOne = env.Or(atLeastOne, env.Ithvar(d.vars[i]))
		for j := i + 1; j < len(d.vars); j++ {
			exclusive := env.Not(env.And(env.Ithvar(d.vars[i]), env.Ithvar(d.vars[j])))
			result = env.And(result, exclusive)
		}
	}
	return env.And(result, atLeastOne)
}

func (d *OneHotDomain) EncodeLt(env *bddenv.Env, value uint8) rudd.Node {
	return d.bitRangeOr(env, 0, int(value))
}

func (d *OneHotDomain) EncodeLe(env *bddenv.Env, value uint8) rudd.Node {
	return d.bitRangeOr(env, 0, int(value)+1)
}

func (d *OneHotDomain) EncodeGt(env *bddenv.Env, value uint8) rudd.Node {
	return d.bitRangeOr(env, int(value)+1, len(d.vars))
}

func (d *OneHotDomain) EncodeGe(env *bddenv.Env, value uint8) rudd.Node {
	return d.bitRangeOr(env, int(value), len(d.vars))
}

// bitRangeOr disjoins the raw bit variables at indices [lo, hi) of this
// domain's own bit list (not raw BDD indices). Since at most one bit is
// ever true, this is exactly the predicate "value is in [lo, hi)".
func (d *OneHotDomain) bitRangeOr(env *bddenv.Env, lo, hi int) rudd.Node {
	if lo < 0 {
		lo = 0
	}
	if hi > len(d.vars) {
		hi = len(d.vars)
	}
	result := env.False()
	for i := lo; i < hi; i++ {
		result = env.Or(result, env.Ithvar(d.vars[i]))
	}
	return result
}
