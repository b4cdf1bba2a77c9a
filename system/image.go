package system

import "github.com/dalzilio/rudd"

// mustVar resolves name to its VarInfo or panics with *UnknownVariableError
// — per §7, an image operator invoked with an unknown variable name is a
// PreconditionViolation, fatal at the call site.
func (s *System) mustVar(name string) *VarInfo {
	idx, ok := s.index[name]
	if !ok {
		panic(&UnknownVariableError{Name: name})
	}
	return &s.variables[idx]
}

// SuccessorsAsync computes the set of states reachable in one asynchronous
// V-step from source: relational product with V's transition relation,
// forgetting V's old value, then renaming V's primed bits back onto its
// unprimed ones.
func (s *System) SuccessorsAsync(name string, source rudd.Node) rudd.Node {
	v := s.mustVar(name)
	r := s.env.And(source, v.TransitionRelation)
	forgotten := s.env.Exist(r, s.env.Makeset(v.Domain.Variables()))
	return s.env.Rename(forgotten, v.PrimedDomain.Variables(), v.Domain.Variables())
}

// SuccessorsAsyncExcludeLoops is SuccessorsAsync restricted to states
// actually capable of changing under V: self-transitions are removed from
// the source set before the image is taken.
func (s *System) SuccessorsAsyncExcludeLoops(name string, source rudd.Node) rudd.Node {
	v := s.mustVar(name)
	return s.SuccessorsAsync(name, s.env.And(source, v.EnabledUnderV))
}

// PredecessorsAsync computes the set of states that reach some state in
// source in one asynchronous V-step: rename V's unprimed bits onto its
// primed ones, relational product with V's transition relation, then
// forget the (now primed) target value.
func (s *System) PredecessorsAsync(name string, source rudd.Node) rudd.Node {
	v := s.mustVar(name)
	sourcePrimed := s.env.Rename(source, v.Domain.Variables(), v.PrimedDomain.Variables())
	r := s.env.And(sourcePrimed, v.TransitionRelation)
	return s.env.Exist(r, s.env.Makeset(v.PrimedDomain.Variables()))
}

// PredecessorsAsyncExcludeLoops is PredecessorsAsync with self-transitions
// removed from the result afterward.
func (s *System) PredecessorsAsyncExcludeLoops(name string, source rudd.Node) rudd.Node {
	v := s.mustVar(name)
	return s.env.And(s.PredecessorsAsync(name, source), v.EnabledUnderV)
}
