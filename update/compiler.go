// Package update compiles a prioritized table of guarded value assignments
// into a vector of "bit-answering BDDs": one Boolean function per encoding
// bit of the target variable, each a pure function of the current
// (unprimed) state.
//
// Grounded on original_source/src/update/update_fn.rs's
// variable_update_fn::VariableUpdateFn::from_update_fn and
// bdd_from_expression/bdd_from_proposition.
package update

import (
	"github.com/dalzilio/rudd"

	"github.com/sybila/biodivine-logical-model-toolkit/bddenv"
	"github.com/sybila/biodivine-logical-model-toolkit/expr"
	"github.com/sybila/biodivine-logical-model-toolkit/symbolic"
)

// Term is one (output value, guard) pair of an unprocessed update function.
type Term struct {
	Output uint8
	Guard  expr.Node
}

// UnprocessedVariableUpdateFn is the priority-ordered guarded-assignment
// table for a single variable, exactly as handed in by the (out-of-core)
// model loader: the next value is the Output of the first Term whose Guard
// holds over the current state, else Default.
type UnprocessedVariableUpdateFn struct {
	Terms   []Term
	Default uint8
}

// Compiled is the compiled form of an UnprocessedVariableUpdateFn: one
// bit-answering BDD per raw variable index of the target domain, in the
// same order as Domain.Variables().
type Compiled struct {
	BitAnsweringBDDs []rudd.Node
}

// Compile turns fn into bit-answering BDDs for targetVariable, given the
// full name -> domain mapping needed to resolve propositions referencing
// other (or the same) variable. domains must include every variable name
// that can appear in a guard, with primed domains keyed under their primed
// names if the caller needs them (system.System passes both).
//
// Returns an *UnknownVariableError wrapped as a ModelMalformed condition at
// the call site if a guard references a name absent from domains.
func Compile(env *bddenv.Env, domains map[string]symbolic.OrdDomain, targetVariable string, fn UnprocessedVariableUpdateFn) (*Compiled, error) {
	targetDomain, ok := domains[targetVariable]
	if !ok {
		return nil, &UnknownVariableError{Name: targetVariable}
	}

	outputs := make([]uint8, 0, len(fn.Terms)+1)
	guards := make([]rudd.Node, 0, len(fn.Terms)+1)
	for _, term := range fn.Terms {
		g, err := bddFromExpression(env, domains, term.Guard)
		if err != nil {
			return nil, err
		}
		outputs = append(outputs, term.Output)
		guards = append(guards, g)
	}
	outputs = append(outputs, fn.Default)
	guards = append(guards, env.True())

	// Running-exclusion trick: M_j = G_j ∧ ¬(G_0 ∨ … ∨ G_{j-1}).
	seenStates := env.False()
	exclusiveTerms := make([]rudd.Node, len(guards))
	for i, g := range guards {
		exclusiveTerms[i] = env.And(g, env.Not(seenStates))
		seenStates = env.Or(seenStates, g)
	}

	targetVars := targetDomain.Variables()
	bitMatrix := make([][]bool, len(outputs))
	for rowIdx, out := range outputs {
		val := make(symbolic.Valuation, len(targetVars))
		targetDomain.EncodeBits(val, out)
		row := make([]bool, len(targetVars))
		for bitIdx, raw := range targetVars {
			row[bitIdx] = val[raw]
		}
		bitMatrix[rowIdx] = row
	}

	bitAnswering := make([]rudd.Node, len(targetVars))
	for bitIdx := range targetVars {
		acc := env.False()
		for rowIdx := range bitMatrix {
			if bitMatrix[rowIdx][bitIdx] {
				acc = env.Or(acc, exclusiveTerms[rowIdx])
			}
		}
		bitAnswering[bitIdx] = acc
	}

	return &Compiled{BitAnsweringBDDs: bitAnswering}, nil
}

func bddFromExpression(env *bddenv.Env, domains map[string]symbolic.OrdDomain, node expr.Node) (rudd.Node, error) {
	switch n := node.(type) {
	case expr.Terminal:
		return bddFromProposition(env, domains, n.Proposition)
	case expr.Not:
		inner, err := bddFromExpression(env, domains, n.Inner)
		if err != nil {
			return nil, err
		}
		return env.Not(inner), nil
	case expr.And:
		acc := env.True()
		for _, clause := range n.Clauses {
			c, err := bddFromExpression(env, domains, clause)
			if err != nil {
				return nil, err
			}
			acc = env.And(acc, c)
		}
		return acc, nil
	case expr.Or:
		acc := env.False()
		for _, clause := range n.Clauses {
			c, err := bddFromExpression(env, domains, clause)
			if err != nil {
				return nil, err
			}
			acc = env.Or(acc, c)
		}
		return acc, nil
	case expr.Xor:
		l, err := bddFromExpression(env, domains, n.Left)
		if err != nil {
			return nil, err
		}
		r, err := bddFromExpression(env, domains, n.Right)
		if err != nil {
			return nil, err
		}
		return env.Not(env.Equiv(l, r)), nil
	case expr.Implies:
		l, err := bddFromExpression(env, domains, n.Left)
		if err != nil {
			return nil, err
		}
		r, err := bddFromExpression(env, domains, n.Right)
		if err != nil {
			return nil, err
		}
		return env.Imp(l, r), nil
	default:
		return nil, &UnsupportedExpressionError{}
	}
}

func bddFromProposition(env *bddenv.Env, domains map[string]symbolic.OrdDomain, p expr.Proposition) (rudd.Node, error) {
	domain, ok := domains[p.Variable]
	if !ok {
		return nil, &UnknownVariableError{Name: p.Variable}
	}
	switch p.Op {
	case expr.Eq:
		return symbolic.EncodeOne(env, domain, p.Value), nil
	case expr.Neq:
		return symbolic.EncodeOneNot(env, domain, p.Value), nil
	case expr.Lt:
		return domain.EncodeLt(env, p.Value), nil
	case expr.Leq:
		return domain.EncodeLe(env, p.Value), nil
	case expr.Gt:
		return domain.EncodeGt(env, p.Value), nil
	case expr.Geq:
		return domain.EncodeGe(env, p.Value), nil
	default:
		return nil, &UnsupportedExpressionError{}
	}
}
