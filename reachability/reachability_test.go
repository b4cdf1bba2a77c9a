package reachability

import (
	"math/big"
	"strconv"
	"testing"

	"github.com/dalzilio/rudd"

	"github.com/sybila/biodivine-logical-model-toolkit/bddenv"
	"github.com/sybila/biodivine-logical-model-toolkit/expr"
	"github.com/sybila/biodivine-logical-model-toolkit/symbolic"
	"github.com/sybila/biodivine-logical-model-toolkit/system"
	"github.com/sybila/biodivine-logical-model-toolkit/update"
)

func eq(variable string, value uint8) expr.Node {
	return expr.Terminal{Proposition: expr.Proposition{Variable: variable, Op: expr.Eq, Value: value}}
}

func geq(variable string, value uint8) expr.Node {
	return expr.Terminal{Proposition: expr.Proposition{Variable: variable, Op: expr.Geq, Value: value}}
}

var factories = map[string]system.DomainFactory{
	"unary":  func(b *bddenv.Builder, name string, max uint8) symbolic.OrdDomain { return symbolic.NewUnaryDomain(b, name, max) },
	"binary": func(b *bddenv.Builder, name string, max uint8) symbolic.OrdDomain { return symbolic.NewBinaryDomain(b, name, max) },
	"gray":   func(b *bddenv.Builder, name string, max uint8) symbolic.OrdDomain { return symbolic.NewGrayDomain(b, name, max) },
	"onehot": func(b *bddenv.Builder, name string, max uint8) symbolic.OrdDomain { return symbolic.NewOneHotDomain(b, name, max) },
}

// S1 — two-variable toggle.
func toggleModel() map[string]update.UnprocessedVariableUpdateFn {
	return map[string]update.UnprocessedVariableUpdateFn{
		"A": {Terms: []update.Term{{Output: 1, Guard: eq("B", 0)}}, Default: 0},
		"B": {Terms: []update.Term{{Output: 1, Guard: eq("A", 1)}}, Default: 0},
	}
}

// S2 — three-valued saturator: next(X) = min(X+1, 2).
func saturatorModel() map[string]update.UnprocessedVariableUpdateFn {
	return map[string]update.UnprocessedVariableUpdateFn{
		"X": {
			Terms: []update.Term{
				{Output: 2, Guard: geq("X", 2)},
				{Output: 2, Guard: geq("X", 1)},
			},
			Default: 1,
		},
	}
}

// S3 — disconnected components: both A and B are pure identities.
func disconnectedModel() map[string]update.UnprocessedVariableUpdateFn {
	return map[string]update.UnprocessedVariableUpdateFn{
		"A": {Terms: []update.Term{{Output: 1, Guard: eq("A", 1)}}, Default: 0},
		"B": {Terms: []update.Term{{Output: 1, Guard: eq("B", 1)}}, Default: 0},
	}
}

// S4 — unreachable sink: A is forced to 1, B is a pure identity.
func unreachableSinkModel() map[string]update.UnprocessedVariableUpdateFn {
	return map[string]update.UnprocessedVariableUpdateFn{
		"A": {Default: 1},
		"B": {Terms: []update.Term{{Output: 1, Guard: eq("B", 1)}}, Default: 0},
	}
}

// singleStateModel is the spec.md:223 boundary case: a lone variable with
// max = 0, i.e. exactly one admissible state. Its update function is
// irrelevant (there is only one value it could ever hold).
func singleStateModel() map[string]update.UnprocessedVariableUpdateFn {
	return map[string]update.UnprocessedVariableUpdateFn{
		"A": {Default: 0},
	}
}

// wideningModel is the spec.md:225 boundary case: B's own terms/default
// never exceed 1, but A's guard compares B against 3, which must widen B's
// discovered max to 3 even though no term ever outputs 3 for B.
func wideningModel() map[string]update.UnprocessedVariableUpdateFn {
	return map[string]update.UnprocessedVariableUpdateFn{
		"A": {Terms: []update.Term{{Output: 1, Guard: geq("B", 3)}}, Default: 0},
		"B": {Terms: []update.Term{{Output: 1, Guard: eq("B", 0)}}, Default: 0},
	}
}

func buildSystem(t *testing.T, fns map[string]update.UnprocessedVariableUpdateFn, factory system.DomainFactory) *system.System {
	t.Helper()
	sys, err := system.FromUpdateFns(fns, factory)
	if err != nil {
		t.Fatalf("FromUpdateFns: %v", err)
	}
	return sys
}

func TestS1ToggleReachesAllFourStates(t *testing.T) {
	for name, factory := range factories {
		factory := factory
		t.Run(name, func(t *testing.T) {
			sys := buildSystem(t, toggleModel(), factory)
			initial := sys.Env().And(sys.EncodeOne("A", 0), sys.EncodeOne("B", 0))
			result := ReachFwd(sys, initial)
			unit := sys.UnitVertexSet()
			if !sys.Env().Equal(sys.Env().And(result, unit), unit) {
				t.Fatal("reach_fwd did not cover the whole 4-state unit set")
			}
			if got := sys.CountStatesExact(result); got.Int64() != 4 {
				t.Fatalf("state count = %v, want 4", got)
			}

			sccs := EnumerateWeakSCCs(sys, unit)
			if len(sccs) != 1 {
				t.Fatalf("expected exactly 1 weak SCC, got %d", len(sccs))
			}
		})
	}
}

func TestS2SaturatorReachesTopValue(t *testing.T) {
	for name, factory := range factories {
		factory := factory
		t.Run(name, func(t *testing.T) {
			sys := buildSystem(t, saturatorModel(), factory)
			initial := sys.EncodeOne("X", 0)
			result := ReachFwd(sys, initial)
			if got := sys.CountStatesExact(result); got.Int64() != 3 {
				t.Fatalf("state count = %v, want 3 ({0,1,2})", got)
			}

			sccs := EnumerateWeakSCCs(sys, result)
			if len(sccs) != 3 {
				t.Fatalf("expected 3 singleton SCCs ({0},{1},{2}), got %d", len(sccs))
			}
		})
	}
}

func TestS3DisconnectedComponentsAreAllSingletons(t *testing.T) {
	for name, factory := range factories {
		factory := factory
		t.Run(name, func(t *testing.T) {
			sys := buildSystem(t, disconnectedModel(), factory)
			unit := sys.UnitVertexSet()
			sccs := EnumerateWeakSCCs(sys, unit)
			if len(sccs) != 4 {
				t.Fatalf("expected 4 singleton SCCs, got %d", len(sccs))
			}
			for _, scc := range sccs {
				if got := sys.CountStatesExact(scc.States); got.Int64() != 1 {
					t.Fatalf("SCC size = %v, want 1", got)
				}
			}
		})
	}
}

func TestS4UnreachableSink(t *testing.T) {
	for name, factory := range factories {
		factory := factory
		t.Run(name, func(t *testing.T) {
			sys := buildSystem(t, unreachableSinkModel(), factory)
			initial := sys.Env().And(sys.EncodeOne("A", 0), sys.EncodeOne("B", 0))
			result := ReachFwd(sys, initial)
			if got := sys.CountStatesExact(result); got.Int64() != 2 {
				t.Fatalf("state count = %v, want 2 ({(0,0),(1,0)})", got)
			}
			sink := sys.Env().And(sys.EncodeOne("A", 0), sys.EncodeOne("B", 1))
			if !sys.Env().Equal(sys.Env().And(result, sink), sys.Env().False()) {
				t.Fatal("state (0,1) must remain unreachable")
			}
		})
	}
}

// S5 — encoding-invariance smoke test (§8 invariant 10, "the master
// cross-validation property"): step all four encodings of the same model
// through reach_fwd in lockstep, one single-variable saturation step at a
// time, and require exact state counts to coincide after *every* step, not
// just at the converged fixed point. A divergence fails with the step index
// and the differing counts.
//
// Grounded on original_source/src/test_utils.rs's ComputationStep
// (fwd_step/check_consistency), which steps all four domains in lockstep and
// compares counts after every step; each step here is one pass of the same
// descending-variable-order, first-progress-wins schedule ReachFwd's own
// saturate loop uses internally.
func TestS5EncodingInvarianceOfReachFwd(t *testing.T) {
	names := []string{"unary", "binary", "gray", "onehot"}
	systems := make(map[string]*system.System, len(names))
	results := make(map[string]rudd.Node, len(names))
	var vars []string
	for _, name := range names {
		sys := buildSystem(t, toggleModel(), factories[name])
		systems[name] = sys
		results[name] = sys.Env().And(sys.EncodeOne("A", 0), sys.EncodeOne("B", 0))
		vars = sys.GetSystemVariables()
	}

	for step := 0; ; step++ {
		var reference *big.Int
		for _, name := range names {
			count := systems[name].CountStatesExact(results[name])
			if reference == nil {
				reference = count
				continue
			}
			if reference.Cmp(count) != 0 {
				t.Fatalf("step %d: encoding %s diverged: got %v, want %v", step, name, count, reference)
			}
		}

		progressed := false
		for _, name := range names {
			sys := systems[name]
			env := sys.Env()
			result := results[name]
			for i := len(vars) - 1; i >= 0; i-- {
				succ := sys.SuccessorsAsync(vars[i], result)
				if isSubset(env, succ, result) {
					continue
				}
				result = env.Or(result, succ)
				progressed = true
				break
			}
			results[name] = result
		}
		if !progressed {
			break
		}
	}
}

// Boundary case (spec.md §8): a single-variable model with max = 0 has
// exactly one admissible state; its transition relation is the identity on
// that state, and reach_fwd/reach_bwd of any nonempty set equal the
// universe.
func TestSingleStateMaxZeroIsIdentity(t *testing.T) {
	for name, factory := range factories {
		factory := factory
		t.Run(name, func(t *testing.T) {
			sys := buildSystem(t, singleStateModel(), factory)
			unit := sys.UnitVertexSet()
			if got := sys.CountStatesExact(unit); got.Int64() != 1 {
				t.Fatalf("unit vertex set size = %v, want 1", got)
			}

			initial := sys.EncodeOne("A", 0)
			if !sys.Env().Equal(sys.Env().And(initial, unit), unit) {
				t.Fatal("the lone encoded state must be the whole unit vertex set")
			}

			if fwd := ReachFwd(sys, initial); !sys.Env().Equal(fwd, unit) {
				t.Fatal("reach_fwd of the only state must equal the universe")
			}
			if bwd := ReachBwd(sys, initial); !sys.Env().Equal(bwd, unit) {
				t.Fatal("reach_bwd of the only state must equal the universe")
			}

			succ := sys.SuccessorsAsync("A", initial)
			if !sys.Env().Equal(succ, initial) {
				t.Fatal("the transition relation of a max=0 variable must be the identity on its one state")
			}
		})
	}
}

// Boundary case (spec.md §8): a guard comparing a variable against a value
// larger than any of its own terms' outputs (including its default) must
// still widen that variable's discovered max to cover the comparison.
func TestWideningDiscoversLargerMax(t *testing.T) {
	for name, factory := range factories {
		factory := factory
		t.Run(name, func(t *testing.T) {
			sys := buildSystem(t, wideningModel(), factory)
			domainB, ok := sys.GetDomain("B")
			if !ok {
				t.Fatal("domain B not found")
			}
			if domainB.Max() != 3 {
				t.Fatalf("B's widened max = %d, want 3 (A's guard compares B against 3, though B's own terms/default never exceed 1)", domainB.Max())
			}
		})
	}
}

// S6 — a 64-variable Boolean identity model has a unit vertex set of
// cardinality 2^64, reported exactly, not as a float.
func TestS6BigIntCardinality(t *testing.T) {
	fns := make(map[string]update.UnprocessedVariableUpdateFn, 64)
	for i := 0; i < 64; i++ {
		name := "V" + strconv.Itoa(i)
		fns[name] = update.UnprocessedVariableUpdateFn{
			Terms:   []update.Term{{Output: 1, Guard: eq(name, 1)}},
			Default: 0,
		}
	}
	sys := buildSystem(t, fns, factories["unary"])
	unit := sys.UnitVertexSet()

	want, _ := new(big.Int).SetString("18446744073709551616", 10)
	got := sys.CountStatesExact(unit)
	if got.Cmp(want) != 0 {
		t.Fatalf("cardinality = %v, want %v", got, want)
	}
}
