// Package symbolic implements pluggable integer-to-bit encodings ("symbolic
// domains") used to represent bounded state variables as Binary Decision
// Diagrams. Four concrete encodings are provided: unary, binary, Gray code,
// and one-hot (Petri-net style).
//
// This mirrors original_source/src/symbolic_domain.rs's SymbolicDomain<T>
// trait: a capability set of encode/decode/unit-collection primitives, plus
// shared default behaviour (EncodeOne, DecodeOne, EncodeCollection,
// DecodeCollection) implemented once here as free functions instead of
// per-type default methods, since Go interfaces carry no defaults.
package symbolic

import (
	"errors"

	"github.com/dalzilio/rudd"

	"github.com/sybila/biodivine-logical-model-toolkit/bddenv"
)

// Valuation is a partial assignment of raw BDD variables to Boolean values,
// the Go analogue of lib-bdd's BddPartialValuation. Domains only ever read
// or write the indices returned by their own Variables().
type Valuation map[int]bool

// Domain is the base capability set every concrete encoding provides: it
// can turn a bounded integer into bits and back, and it knows which bit
// patterns are valid encodings of some value in its range.
type Domain interface {
	// EncodeBits sets the bits belonging to this domain within val to encode
	// value, leaving every other entry of val untouched.
	EncodeBits(val Valuation, value uint8)

	// DecodeBits reads this domain's bits out of val. The result is
	// undefined if val does not represent a value accepted by
	// UnitCollection; implementations are encouraged to return the
	// "simplest" interpretation rather than validate.
	DecodeBits(val Valuation) uint8

	// Variables returns the raw BDD variable indices used by this domain,
	// in a fixed, repeatable order.
	Variables() []int

	// Size is the number of bits this domain occupies (len(Variables())).
	Size() int

	// Max is the largest integer value this domain can encode.
	Max() uint8

	// EmptyCollection is the BDD for the empty set of encoded values.
	EmptyCollection(env *bddenv.Env) rudd.Node

	// UnitCollection is the BDD of every bit pattern that is a valid
	// encoding of some value in this domain's range.
	UnitCollection(env *bddenv.Env) rudd.Node
}

// OrdDomain is the refinement of Domain for value types with a total order:
// it supplies the range predicates used to compile guard propositions.
type OrdDomain interface {
	Domain

	EncodeLt(env *bddenv.Env, value uint8) rudd.Node
	EncodeLe(env *bddenv.Env, value uint8) rudd.Node
	EncodeGt(env *bddenv.Env, value uint8) rudd.Node
	EncodeGe(env *bddenv.Env, value uint8) rudd.Node
}

// ConjunctiveClause builds the BDD of a single Valuation: the conjunction
// of each bit's variable, in positive or negated form.
func ConjunctiveClause(env *bddenv.Env, val Valuation) rudd.Node {
	node := env.True()
	for idx, positive := range val {
		lit := env.Ithvar(idx)
		if !positive {
			lit = env.Not(lit)
		}
		node = env.And(node, lit)
	}
	return node
}

// EncodeOne builds the BDD satisfied by exactly the bit pattern that
// encodes value, and no other.
func EncodeOne(env *bddenv.Env, d Domain, value uint8) rudd.Node {
	val := make(Valuation, d.Size())
	d.EncodeBits(val, value)
	return ConjunctiveClause(env, val)
}

// EncodeOneNot is the complement of EncodeOne: every bit pattern except
// the encoding of value (not restricted to the unit collection).
func EncodeOneNot(env *bddenv.Env, d Domain, value uint8) rudd.Node {
	return env.Not(EncodeOne(env, d, value))
}

var errStopIteration = errors.New("symbolic: stop allsat iteration")

// firstValuation extracts the first satisfying assignment of n, restricted
// to the given variable indices, treating don't-care entries as false.
func firstValuation(env *bddenv.Env, n rudd.Node, vars []int) Valuation {
	result := make(Valuation, len(vars))
	found := false
	_ = env.Allsat(n, func(assign []int) error {
		found = true
		for _, idx := range vars {
			result[idx] = assign[idx] == 1
		}
		return errStopIteration
	})
	if !found {
		panic(&EmptyValuationError{})
	}
	return result
}

// DecodeOne interprets n as the encoding of a single value and decodes it.
// n must be satisfied by exactly one valuation of d's variables; behaviour
// is undefined (and will usually panic via firstValuation) if n is
// unsatisfiable.
func DecodeOne(env *bddenv.Env, d Domain, n rudd.Node) uint8 {
	val := firstValuation(env, n, d.Variables())
	return d.DecodeBits(val)
}

// EncodeCollection builds the disjunction of the EncodeOne BDD of every
// value in collection.
func EncodeCollection(env *bddenv.Env, d Domain, collection []uint8) rudd.Node {
	node := env.False()
	for _, v := range collection {
		node = env.Or(node, EncodeOne(env, d, v))
	}
	return node
}

// DecodeCollection decodes every value represented in collection, in an
// order determined by rudd's Allsat variable-assignment enumeration. Bits
// outside d's own variables are existentially eliminated first so that
// unrelated variables do not fragment a single logical value into several
// reported assignments.
func DecodeCollection(env *bddenv.Env, d Domain, collection rudd.Node) []uint8 {
	ownVars := d.Variables()
	own := make(map[int]bool, len(ownVars))
	for _, v := range ownVars {
		own[v] = true
	}
	var foreign []int
	for i := 0; i < env.NumVars(); i++ {
		if !own[i] {
			foreign = append(foreign, i)
		}
	}
	restricted := collection
	if len(foreign) > 0 {
		restricted = env.Exist(collection, env.Makeset(foreign))
	}

	var out []uint8
	_ = env.Allsat(restricted, func(assign []int) error {
		val := make(Valuation, len(ownVars))
		var free []int
		for _, idx := range ownVars {
			val[idx] = assign[idx] == 1
			if assign[idx] < 0 {
				free = append(free, idx)
			}
		}
		// A don't-care bit of d's own stands for both of its values, so each
		// completion of the assignment is decoded separately.
		for mask := 0; mask < 1<<len(free); mask++ {
			for j, idx := range free {
				val[idx] = mask&(1<<j) != 0
			}
			out = append(out, d.DecodeBits(val))
		}
		return nil
	})
	return out
}

// EmptyValuationError is raised when a caller attempts to extract a
// satisfying valuation from an unsatisfiable BDD, e.g. DecodeOne on ⊥.
type EmptyValuationError struct{}

func (e *EmptyValuationError) Error() string {
	return "symbolic: cannot extract a valuation from an empty (unsatisfiable) set"
}
