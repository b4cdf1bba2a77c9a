// Package system builds the asynchronous transition relation of a whole
// logical network from its per-variable update functions, and exposes the
// image operators, state counting, and debugging views used by package
// reachability.
//
// Grounded on original_source/src/update/update_fn.rs's
// SmartSystemUpdateFn::from_update_fns and its image/counting methods.
package system

import (
	"fmt"
	"math"
	"math/big"
	"strings"

	"github.com/dalzilio/rudd"
	"github.com/dchest/siphash"
	"github.com/google/uuid"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/sybila/biodivine-logical-model-toolkit/bddenv"
	"github.com/sybila/biodivine-logical-model-toolkit/expr"
	"github.com/sybila/biodivine-logical-model-toolkit/ints"
	"github.com/sybila/biodivine-logical-model-toolkit/symbolic"
	"github.com/sybila/biodivine-logical-model-toolkit/update"
)

// primeSuffix is the reserved character marking primed variable names.
const primeSuffix = "'"

// DomainFactory allocates a fresh OrdDomain of a single concrete encoding
// for one variable. System is parameterized by this factory rather than by
// a Go generic, matching §9's "single concrete encoding chosen at
// instantiation time, heterogeneous mixing is a non-goal."
type DomainFactory func(builder *bddenv.Builder, name string, max uint8) symbolic.OrdDomain

// VarInfo is everything System tracks per variable.
type VarInfo struct {
	Name                string
	PrimedName          string
	Domain              symbolic.OrdDomain
	PrimedDomain        symbolic.OrdDomain
	TransitionRelation  rudd.Node
	EnabledUnderV       rudd.Node // E_V = {s : update_V(s) != s_V}; precomputed, see §4.6 open question.
}

// System is the compiled transition relation of a whole network: one
// VarInfo per state variable, sharing one immutable bddenv.Env.
type System struct {
	env       *bddenv.Env
	order     []string
	index     map[string]int
	variables []VarInfo
	id        uuid.UUID
}

// Env exposes the underlying BDD universe, e.g. for callers building their
// own auxiliary BDDs (debug dumps, custom predicates).
func (s *System) Env() *bddenv.Env { return s.env }

// ID returns the random identifier assigned to this System at construction,
// used to disambiguate BDD dumps collected from different constructed
// systems across a test run or a debugging session.
func (s *System) ID() uuid.UUID { return s.id }

// GetSystemVariables returns variable names in ascending (construction)
// order — the order in which they also appear in the BDD variable set.
func (s *System) GetSystemVariables() []string {
	return append([]string(nil), s.order...)
}

// GetDomain returns the unprimed domain of the named variable.
func (s *System) GetDomain(name string) (symbolic.OrdDomain, bool) {
	idx, ok := s.index[name]
	if !ok {
		return nil, false
	}
	return s.variables[idx].Domain, true
}

// RawDomain is the supplemented GenericStateSpaceDomain::get_raw_domain
// equivalent: direct access to a single variable's domain for callers that
// want to build single-variable restrictions. As in the original, a BDD
// built purely from this domain ignores every other variable's unit
// collection; callers must intersect with UnitVertexSet() themselves.
func (s *System) RawDomain(name string) (symbolic.OrdDomain, bool) {
	return s.GetDomain(name)
}

// StandardVariables returns the raw BDD variable indices of every unprimed
// state variable, in construction order.
func (s *System) StandardVariables() []int {
	var out []int
	for _, v := range s.variables {
		out = append(out, v.Domain.Variables()...)
	}
	return out
}

// PrimedVariables returns the raw BDD variable indices of every primed
// state variable, in construction order.
func (s *System) PrimedVariables() []int {
	var out []int
	for _, v := range s.variables {
		out = append(out, v.PrimedDomain.Variables()...)
	}
	return out
}

// UnitVertexSet is the BDD of every admissible unprimed state: the
// conjunction of every variable's unit collection.
func (s *System) UnitVertexSet() rudd.Node {
	result := s.env.True()
	for _, v := range s.variables {
		result = s.env.And(result, v.Domain.UnitCollection(s.env))
	}
	return result
}

// EncodeOne encodes a single literal value of the named variable. Panics
// with *PreconditionViolationError if value exceeds the variable's max.
func (s *System) EncodeOne(name string, value uint8) rudd.Node {
	idx, ok := s.index[name]
	if !ok {
		panic(&UnknownVariableError{Name: name})
	}
	d := s.variables[idx].Domain
	if value > d.Max() {
		panic(&PreconditionViolationError{Reason: fmt.Sprintf("value %d is outside the domain of %q (max %d)", value, name, d.Max())})
	}
	return symbolic.EncodeOne(s.env, d, value)
}

// CountStates is the approximate state count of set: its exact cardinality
// divided by 2^(primed bit count). This assumes the primed/unprimed bit
// split is exactly half, true whenever every variable carries both domains
// with identical width — which from_update_fns always allocates; see
// DESIGN.md for the Open Question this preserves rather than "fixes."
func (s *System) CountStates(set rudd.Node) float64 {
	primedBits := len(s.PrimedVariables())
	count, _ := new(big.Float).SetInt(s.env.Satcount(set)).Float64()
	return count / math.Pow(2, float64(primedBits))
}

// CountStatesExact is the exact big-integer cardinality of set, shifted
// down by the primed bit count — the arbitrary-precision counterpart of
// CountStates. Grounded on
// prototype/reachability.rs::count_states_exact's
// exact_cardinality().shr(primed_vars).
func (s *System) CountStatesExact(set rudd.Node) *big.Int {
	primedBits := len(s.PrimedVariables())
	count := new(big.Int).Set(s.env.Satcount(set))
	return count.Rsh(count, uint(primedBits))
}

// PickStateBdd returns a BDD representing a single (unprimed) state from
// set, as a conjunctive clause over the unprimed variables only. Panics
// with *PreconditionViolationError if set is empty.
func (s *System) PickStateBdd(set rudd.Node) rudd.Node {
	standard := s.StandardVariables()
	found := false
	val := make(map[int]bool, len(standard))
	_ = s.env.Allsat(set, func(assign []int) error {
		found = true
		for _, idx := range standard {
			val[idx] = assign[idx] == 1
		}
		return errStopAllsat
	})
	if !found {
		panic(&PreconditionViolationError{Reason: "cannot pick a state from an empty set"})
	}

	node := s.env.True()
	for _, idx := range standard {
		lit := s.env.Ithvar(idx)
		if !val[idx] {
			lit = s.env.Not(lit)
		}
		node = s.env.And(node, lit)
	}
	return node
}

// BddToDotString renders bdd as a Graphviz dot digraph. Implemented over
// rudd's Allnodes primitive since rudd exposes no dot exporter of its own.
func (s *System) BddToDotString(bdd rudd.Node) string {
	var b strings.Builder
	fmt.Fprintf(&b, "// system %s\n", s.id)
	b.WriteString("digraph system {\n")
	_ = s.env.Allnodes(func(id, level, low, high int) error {
		if id == 0 || id == 1 {
			return nil
		}
		label := "?"
		if level >= 0 && level < s.env.NumVars() {
			label = s.env.VarName(level)
		}
		fmt.Fprintf(&b, "  %d [label=\"%s\"];\n", id, label)
		fmt.Fprintf(&b, "  %d -> %d [style=dashed];\n", id, low)
		fmt.Fprintf(&b, "  %d -> %d [style=solid];\n", id, high)
		return nil
	}, bdd)
	fmt.Fprintf(&b, "  0 [label=\"false\", shape=box];\n")
	fmt.Fprintf(&b, "  1 [label=\"true\", shape=box];\n")
	b.WriteString("}\n")
	return b.String()
}

// Fingerprint hashes the canonical (sorted name, max-value, encoding-kind)
// manifest of this system with SipHash-2-4, giving cross-encoding and
// cross-process equivalence tests a cheap way to assert "same logical
// model" independent of which concrete symbolic.Domain was instantiated.
func (s *System) Fingerprint(encodingKind string) uint64 {
	var manifest strings.Builder
	for _, name := range s.order {
		d, _ := s.GetDomain(name)
		fmt.Fprintf(&manifest, "%s:%d;", name, d.Max())
	}
	manifest.WriteString(encodingKind)
	const k0, k1 = 0x646f6e7420706812, 0x66696e646c697665 // fixed key, any constant works here
	return siphash.Hash(k0, k1, []byte(manifest.String()))
}

var errStopAllsat = fmt.Errorf("system: stop allsat iteration")

// UnknownVariableError is a PreconditionViolation (§7): an operation named
// a variable this system has no VarInfo for.
type UnknownVariableError struct {
	Name string
}

func (e *UnknownVariableError) Error() string {
	return "system: unknown variable " + e.Name
}

// PreconditionViolationError covers the remaining §7 PreconditionViolation
// conditions (pick-from-empty, EncodeOne with a value above the max).
type PreconditionViolationError struct {
	Reason string
}

func (e *PreconditionViolationError) Error() string {
	return "system: precondition violation: " + e.Reason
}

// ModelError is a ModelMalformed condition (§7): fatal at construction.
type ModelError struct {
	Reason string
}

func (e *ModelError) Error() string {
	return "system: malformed model: " + e.Reason
}

// FromUpdateFns is the Go name for SmartSystemUpdateFn::from_update_fns: it
// builds the whole transition relation from a name -> unprocessed update
// function map, using newDomain as the single concrete encoding for every
// variable.
func FromUpdateFns(fns map[string]update.UnprocessedVariableUpdateFn, newDomain DomainFactory) (*System, error) {
	for name := range fns {
		if strings.Contains(name, primeSuffix) {
			return nil, &ModelError{Reason: fmt.Sprintf("variable name %q contains the reserved prime character", name)}
		}
	}

	order := maps.Keys(fns)
	slices.Sort(order)

	maxValues, err := findMaxValues(fns, order)
	if err != nil {
		return nil, err
	}

	builder := bddenv.NewBuilder()
	unprimedDomains := make(map[string]symbolic.OrdDomain, len(order))
	primedDomains := make(map[string]symbolic.OrdDomain, len(order))
	primedNames := make(map[string]string, len(order))
	for _, name := range order {
		max := maxValues[name]
		unprimedDomains[name] = newDomain(builder, name, max)
		primedName := name + primeSuffix
		primedNames[name] = primedName
		primedDomains[name] = newDomain(builder, primedName, max)
	}

	env, err := builder.Build()
	if err != nil {
		return nil, err
	}

	allDomains := make(map[string]symbolic.OrdDomain, 2*len(order))
	for name, d := range unprimedDomains {
		allDomains[name] = d
	}
	for name, d := range primedDomains {
		allDomains[primedNames[name]] = d
	}

	unitSet := env.True()
	for _, name := range order {
		unitSet = env.And(unitSet, unprimedDomains[name].UnitCollection(env))
	}

	variables := make([]VarInfo, len(order))
	index := make(map[string]int, len(order))
	for i, name := range order {
		index[name] = i

		compiled, err := update.Compile(env, allDomains, name, fns[name])
		if err != nil {
			return nil, &ModelError{Reason: err.Error()}
		}

		unprimed := unprimedDomains[name]
		primed := primedDomains[name]

		relation := unitSet
		for bitIdx, primedRaw := range primed.Variables() {
			primedVar := env.Ithvar(primedRaw)
			relation = env.And(relation, env.Equiv(primedVar, compiled.BitAnsweringBDDs[bitIdx]))
		}
		relation = env.And(relation, primed.UnitCollection(env))

		enabled := computeEnabledUnderV(env, unprimed, primed, relation)

		variables[i] = VarInfo{
			Name:               name,
			PrimedName:         primedNames[name],
			Domain:             unprimed,
			PrimedDomain:       primed,
			TransitionRelation: relation,
			EnabledUnderV:      enabled,
		}
	}

	return &System{
		env:       env,
		order:     order,
		index:     index,
		variables: variables,
		id:        newSystemID(),
	}, nil
}

// computeEnabledUnderV builds E_V = {s : update_V(s) != s_V}, the resolved
// definition for the loop-exclusion open question (§4.6/§9): states where
// at least one encoding bit changes between unprimed and primed value.
func computeEnabledUnderV(env *bddenv.Env, unprimed, primed symbolic.OrdDomain, relation rudd.Node) rudd.Node {
	unprimedVars := unprimed.Variables()
	primedVars := primed.Variables()

	agree := env.True()
	for i := range unprimedVars {
		agree = env.And(agree, env.Equiv(env.Ithvar(unprimedVars[i]), env.Ithvar(primedVars[i])))
	}
	loopRelation := env.And(relation, agree)
	loop := env.Exist(loopRelation, env.Makeset(primedVars))
	return env.Not(loop)
}

func findMaxValues(fns map[string]update.UnprocessedVariableUpdateFn, order []string) (map[string]uint8, error) {
	max := make(map[string]uint8, len(order))
	for _, name := range order {
		fn := fns[name]
		m := fn.Default
		for _, term := range fn.Terms {
			m = ints.Max(m, term.Output)
		}
		max[name] = m
	}

	widen := func(name string, value uint8) error {
		if _, ok := fns[name]; !ok {
			return &ModelError{Reason: fmt.Sprintf("guard references unknown variable %q", name)}
		}
		if value > max[name] {
			max[name] = value
		}
		return nil
	}

	var walk func(n expr.Node) error
	walk = func(n expr.Node) error {
		var err error
		expr.WalkPropositions(n, func(p expr.Proposition) {
			if err == nil {
				err = widen(p.Variable, p.Value)
			}
		})
		return err
	}

	for _, name := range order {
		for _, term := range fns[name].Terms {
			if err := walk(term.Guard); err != nil {
				return nil, err
			}
		}
	}

	return max, nil
}

func newSystemID() uuid.UUID {
	id, err := uuid.NewRandom()
	if err != nil {
		return uuid.UUID{}
	}
	return id
}
