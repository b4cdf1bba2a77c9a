package symbolic

import (
	"strconv"

	"github.com/dalzilio/rudd"

	"github.com/sybila/biodivine-logical-model-toolkit/bddenv"
)

// UnaryDomain encodes {0..max} using max bits x_1..x_max, where value k sets
// x_1..x_k true and leaves the rest false. Grounded on
// original_source/src/symbolic_domain.rs's UnaryIntegerDomain.
type UnaryDomain struct {
	vars []int
	max  uint8
}

// NewUnaryDomain allocates max fresh variables named "<name>_v1".."<name>_vmax"
// in builder and returns the resulting domain. A max of 0 allocates zero
// bits: the single value 0 is encoded by the empty valuation.
func NewUnaryDomain(builder *bddenv.Builder, name string, max uint8) *UnaryDomain {
	vars := make([]int, 0, max)
	for i := uint8(0); i < max; i++ {
		vars = append(vars, builder.MakeVariable(name+"_v"+strconv.Itoa(int(i+1))))
	}
	return &UnaryDomain{vars: vars, max: max}
}

func (d *UnaryDomain) Variables() []int { return d.vars }
func (d *UnaryDomain) Size() int        { return len(d.vars) }
func (d *UnaryDomain) Max() uint8       { return d.max }

func (d *UnaryDomain) EncodeBits(val Valuation, value uint8) {
	for i, v := range d.vars {
		val[v] = i < int(value)
	}
}

func (d *UnaryDomain) DecodeBits(val Valuation) uint8 {
	result := 0
	for _, v := range d.vars {
		set, ok := val[v]
		if !ok || !set {
			break
		}
		result++
	}
	return uint8(result)
}

func (d *UnaryDomain) EmptyCollection(env *bddenv.Env) rudd.Node { return env.False() }

func (d *UnaryDomain) UnitCollection(env *bddenv.Env) rudd.Node {
	result := env.True()
	for k := 1; k < len(d.vars); k++ {
		implication := env.Imp(env.Ithvar(d.vars[k]), env.Ithvar(d.vars[k-1]))
		result = env.And(result, implication)
	}
	return result
}

func (d *UnaryDomain) EncodeLt(env *bddenv.Env, value uint8) rudd.Node {
	if value == 0 {
		return env.False()
	}
	return d.EncodeLe(env, value-1)
}

// EncodeLe is x_{k+1} = false (or ⊤ once k reaches max, since every value
// satisfies "≤ max").
func (d *UnaryDomain) EncodeLe(env *bddenv.Env, value uint8) rudd.Node {
	if value >= d.max {
		return env.True()
	}
	return env.Not(env.Ithvar(d.vars[value]))
}

func (d *UnaryDomain) EncodeGt(env *bddenv.Env, value uint8) rudd.Node {
	return env.Not(d.EncodeLe(env, value))
}

func (d *UnaryDomain) EncodeGe(env *bddenv.Env, value uint8) rudd.Node {
	return env.Not(d.EncodeLt(env, value))
}
