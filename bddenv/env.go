// Package bddenv wraps github.com/dalzilio/rudd with the small set of
// operations the rest of this module needs: deterministic named-variable
// allocation, the relational-product substitution used for variable
// renaming, and the node iteration (Allnodes) that package system builds its
// Graphviz dot dump on.
//
// rudd variables are plain integer indices (Ithvar(i)); everything here
// exists to let the rest of the module talk about variables by name instead.
package bddenv

import (
	"math/big"

	"github.com/dalzilio/rudd"
)

// Builder accumulates named variables before the underlying BDD variable
// count is known, following the usual two-phase builder-then-build
// pattern for fixed-size resource pools.
type Builder struct {
	names []string
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// MakeVariable allocates a fresh BDD variable under the given name and
// returns its raw index. Names are not required to be unique from the
// Builder's point of view; callers (package system) enforce uniqueness.
func (b *Builder) MakeVariable(name string) int {
	idx := len(b.names)
	b.names = append(b.names, name)
	return idx
}

// Len reports how many variables have been allocated so far.
func (b *Builder) Len() int {
	return len(b.names)
}

// Build fixes the variable count and constructs the underlying BDD engine.
// The returned Env is immutable: no further variables can be allocated.
//
// rudd refuses to construct a zero-variable universe, but a model is free to
// declare a domain that needs zero bits (a unary, binary, or Gray encoding
// of a variable whose max is 0 — the single-state boundary case of spec.md
// §8). When no variable was ever allocated, Build pads the underlying rudd
// universe to one spare variable that is never named, indexed, or referenced
// by any domain, purely to satisfy rudd's own precondition.
func (b *Builder) Build() (*Env, error) {
	varnum := len(b.names)
	if varnum == 0 {
		varnum = 1
	}
	core, err := rudd.New(varnum)
	if err != nil {
		return nil, err
	}
	set := rudd.Set{BDD: core}
	index := make(map[string]int, len(b.names))
	for i, name := range b.names {
		index[name] = i
	}
	return &Env{
		set:   set,
		names: append([]string(nil), b.names...),
		index: index,
	}, nil
}

// Env is an immutable, named BDD variable universe.
type Env struct {
	set   rudd.Set
	names []string
	index map[string]int
}

// NumVars returns the total number of raw BDD variables in this universe.
func (e *Env) NumVars() int {
	return len(e.names)
}

// VarIndex returns the raw index of the named variable and whether it exists.
func (e *Env) VarIndex(name string) (int, bool) {
	i, ok := e.index[name]
	return i, ok
}

// VarName returns the name registered for raw index i.
func (e *Env) VarName(i int) string {
	return e.names[i]
}

// True returns the constant-true node.
func (e *Env) True() rudd.Node { return e.set.True() }

// False returns the constant-false node.
func (e *Env) False() rudd.Node { return e.set.False() }

// Ithvar returns the node for the i'th raw variable.
func (e *Env) Ithvar(i int) rudd.Node { return e.set.Ithvar(i) }

// Var returns the node for the named variable. Panics if name is unknown;
// callers are expected to have validated names already (package system
// resolves names to indices at construction time and carries them from
// then on).
func (e *Env) Var(name string) rudd.Node {
	i, ok := e.index[name]
	if !ok {
		panic(&UnknownVariableError{Name: name})
	}
	return e.set.Ithvar(i)
}

// And conjoins zero or more nodes (And() == True).
func (e *Env) And(n ...rudd.Node) rudd.Node { return e.set.And(n...) }

// Or disjoins zero or more nodes (Or() == False).
func (e *Env) Or(n ...rudd.Node) rudd.Node { return e.set.Or(n...) }

// Not negates n.
func (e *Env) Not(n rudd.Node) rudd.Node { return e.set.Not(n) }

// Imp is material implication.
func (e *Env) Imp(a, b rudd.Node) rudd.Node { return e.set.Imp(a, b) }

// Equiv is bi-implication.
func (e *Env) Equiv(a, b rudd.Node) rudd.Node { return e.set.Equiv(a, b) }

// Equal tests structural equivalence of two nodes.
func (e *Env) Equal(a, b rudd.Node) bool { return e.set.Equal(a, b) }

// Ite is the if-then-else operator.
func (e *Env) Ite(f, g, h rudd.Node) rudd.Node { return e.set.Ite(f, g, h) }

// Makeset builds the conjunctive-clause node used to describe a variable
// set for Exist/AppEx, from raw variable indices.
func (e *Env) Makeset(vars []int) rudd.Node { return e.set.Makeset(vars) }

// Exist existentially quantifies n over the variables in varset (built
// with Makeset).
func (e *Env) Exist(n, varset rudd.Node) rudd.Node { return e.set.Exist(n, varset) }

// AndExist computes ∃varset. (a ∧ b) directly.
func (e *Env) AndExist(varset, a, b rudd.Node) rudd.Node { return e.set.AndExist(varset, a, b) }

// Satcount returns the exact number of satisfying assignments of n over
// the named variables of this universe, as an arbitrary-precision integer.
// The spare variable Build adds to an otherwise empty universe is not counted.
func (e *Env) Satcount(n rudd.Node) *big.Int {
	count := e.set.Satcount(n)
	if len(e.names) == 0 {
		return new(big.Int).Rsh(count, 1)
	}
	return count
}

// Allsat iterates every satisfying assignment of n.
func (e *Env) Allsat(n rudd.Node, f func([]int) error) error { return e.set.Allsat(n, f) }

// Allnodes iterates every BDD node reachable from n (or the whole live
// node table if n is omitted).
func (e *Env) Allnodes(f func(id, level, low, high int) error, n ...rudd.Node) error {
	return e.set.Allnodes(f, n...)
}

// Rename computes f with every raw variable in from replaced simultaneously
// by the corresponding variable in to, via relational-product substitution:
//
//	∃from. (f ∧ ⋀_i (from_i ⇔ to_i))
//
// Because all of `from` is quantified away in a single AppEx call, there is
// no notion of rename order or collision between source and target
// namespaces to worry about — unlike an in-place, bit-by-bit rename, a
// simultaneous relational substitution is correct regardless of whether the
// from/to index ranges overlap.
func (e *Env) Rename(f rudd.Node, from, to []int) rudd.Node {
	if len(from) != len(to) {
		panic(&UnknownVariableError{Name: "rename: mismatched variable lists"})
	}
	constraint := e.set.True()
	for i := range from {
		iff := e.set.Equiv(e.set.Ithvar(from[i]), e.set.Ithvar(to[i]))
		constraint = e.set.And(constraint, iff)
	}
	varset := e.set.Makeset(from)
	return e.set.AppEx(f, constraint, rudd.OPand, varset)
}
