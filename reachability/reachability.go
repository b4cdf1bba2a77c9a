// Package reachability implements saturation-style forward/backward
// reachability and weak strongly-connected-component enumeration over a
// compiled system.System.
//
// Grounded on original_source/src/prototype/reachability.rs: reach_fwd,
// reach_bwd, pick_state, log_percent, count_states(_exact), and the
// reachability_benchmark driver's weak-SCC peel-off loop.
package reachability

import (
	"math"

	"github.com/dalzilio/rudd"

	"github.com/sybila/biodivine-logical-model-toolkit/system"
)

// ReachFwd computes the set of vertices forward-reachable from initial:
// there is a (possibly zero-length) path from some vertex in initial to x.
//
// The saturation schedule visits variables in descending lexicographic
// order and restarts from the largest variable every time any successor
// computation makes progress, the classic BDD saturation discipline:
// smaller-order-position (later) variables saturate first, which
// empirically yields smaller intermediate BDDs.
func ReachFwd(sys *system.System, initial rudd.Node) rudd.Node {
	return saturate(sys, initial, sys.SuccessorsAsync)
}

// ReachBwd is the backward-reachability counterpart of ReachFwd: x is
// included iff there is a path from x into some vertex in initial.
func ReachBwd(sys *system.System, initial rudd.Node) rudd.Node {
	return saturate(sys, initial, sys.PredecessorsAsync)
}

func saturate(sys *system.System, initial rudd.Node, image func(name string, set rudd.Node) rudd.Node) rudd.Node {
	vars := sys.GetSystemVariables()
	env := sys.Env()
	result := initial

	for {
		progressed := false
		for i := len(vars) - 1; i >= 0; i-- {
			next := image(vars[i], result)
			if isSubset(env, next, result) {
				continue
			}
			result = env.Or(result, next)
			progressed = true
			break
		}
		if !progressed {
			return result
		}
	}
}

// isSubset reports whether a ⊆ b, i.e. a ∧ ¬b is unsatisfiable.
func isSubset(env interface {
	And(...rudd.Node) rudd.Node
	Not(rudd.Node) rudd.Node
	Equal(rudd.Node, rudd.Node) bool
	False() rudd.Node
}, a, b rudd.Node) bool {
	return env.Equal(env.And(a, env.Not(b)), env.False())
}

// PickState returns a BDD representing a single (unprimed) state within
// set. Thin wrapper over system.System.PickStateBdd kept at this layer
// because the reachability driver is where it is actually used (SCC pivot
// selection).
func PickState(sys *system.System, set rudd.Node) rudd.Node {
	return sys.PickStateBdd(set)
}

// LogPercent is a pure log2(|set|)/log2(|universe|)*100 progress metric, a
// function of two BDDs with no I/O — the original prints this during long
// runs; we just compute and return it, consistent with the "no
// logging/progress printouts" exclusion of the core.
func LogPercent(sys *system.System, set, universe rudd.Node) float64 {
	setCount := sys.CountStates(set)
	universeCount := sys.CountStates(universe)
	return math.Log2(setCount) / math.Log2(universeCount) * 100.0
}

// WeakSCC is one discovered weak strongly-connected component: a maximal
// set of mutually reachable states.
type WeakSCC struct {
	States rudd.Node
}

// EnumerateWeakSCCs decomposes universe into its weak SCCs by repeatedly
// picking a pivot state, growing it by alternating backward/forward
// closure restricted to the remaining universe until a fixed point, then
// subtracting the found component and repeating.
func EnumerateWeakSCCs(sys *system.System, universe rudd.Node) []WeakSCC {
	env := sys.Env()
	remaining := universe
	var out []WeakSCC

	for !env.Equal(remaining, env.False()) {
		pivot := sys.PickStateBdd(remaining)
		scc := pivot

		for {
			bwd := env.And(ReachBwd(sys, scc), remaining)
			fwdBwd := env.And(ReachFwd(sys, bwd), remaining)
			if isSubset(env, fwdBwd, scc) {
				break
			}
			scc = fwdBwd
		}

		out = append(out, WeakSCC{States: scc})
		remaining = env.And(remaining, env.Not(scc))
	}

	return out
}
