// Package expr defines the guard expression tree used by update functions:
// Boolean combinations of propositions that compare a named state variable
// against a literal value.
//
// The node/visitor/rewrite shape here follows the same pattern used by
// small closed Go ASTs: a closed Node interface, a Visitor for read-only
// traversal, and a Rewriter for depth-first reconstruction.
package expr

// Node is a guard expression AST node.
type Node interface {
	// walk invokes v on each child of this node, in evaluation order.
	walk(v Visitor)

	// rewrite reconstructs this node with each child passed through r.
	rewrite(r Rewriter) Node
}

// Visitor is invoked for every node encountered by Walk.
type Visitor interface {
	Visit(Node) Visitor
}

// Rewriter rewrites nodes in depth-first order (see Rewrite).
type Rewriter interface {
	// Rewrite is applied to a node after its children have been rewritten.
	Rewrite(Node) Node
	// Walk returns the Rewriter to use for the children of n, or nil to
	// skip descending into n's children entirely.
	Walk(Node) Rewriter
}

// Walk traverses n in depth-first order, calling v.Visit(n) first and then,
// if the returned Visitor is non-nil, visiting every child of n with it.
func Walk(v Visitor, n Node) {
	if n == nil {
		return
	}
	if w := v.Visit(n); w != nil {
		n.walk(w)
	}
}

// Rewrite recursively rewrites n's children with r before applying
// r.Rewrite to n itself.
func Rewrite(r Rewriter, n Node) Node {
	if n == nil {
		return nil
	}
	if rc := r.Walk(n); rc != nil {
		n = n.rewrite(rc)
	}
	return r.Rewrite(n)
}

// Terminal wraps a single Proposition as a leaf expression node.
type Terminal struct {
	Proposition Proposition
}

func (t Terminal) walk(Visitor) {}

func (t Terminal) rewrite(Rewriter) Node { return t }

// Not is the Boolean negation of Inner.
type Not struct {
	Inner Node
}

func (n Not) walk(v Visitor) { Walk(v, n.Inner) }

func (n Not) rewrite(r Rewriter) Node {
	return Not{Inner: Rewrite(r, n.Inner)}
}

// And is the conjunction of all Clauses. An empty And is vacuously true,
// but the compiler (package update) never constructs one: every guard has
// at least one proposition.
type And struct {
	Clauses []Node
}

func (a And) walk(v Visitor) {
	for _, c := range a.Clauses {
		Walk(v, c)
	}
}

func (a And) rewrite(r Rewriter) Node {
	out := make([]Node, len(a.Clauses))
	for i, c := range a.Clauses {
		out[i] = Rewrite(r, c)
	}
	return And{Clauses: out}
}

// Or is the disjunction of all Clauses.
type Or struct {
	Clauses []Node
}

func (o Or) walk(v Visitor) {
	for _, c := range o.Clauses {
		Walk(v, c)
	}
}

func (o Or) rewrite(r Rewriter) Node {
	out := make([]Node, len(o.Clauses))
	for i, c := range o.Clauses {
		out[i] = Rewrite(r, c)
	}
	return Or{Clauses: out}
}

// Xor is the exclusive-or of two sub-expressions.
type Xor struct {
	Left, Right Node
}

func (x Xor) walk(v Visitor) {
	Walk(v, x.Left)
	Walk(v, x.Right)
}

func (x Xor) rewrite(r Rewriter) Node {
	return Xor{Left: Rewrite(r, x.Left), Right: Rewrite(r, x.Right)}
}

// Implies is material implication: Left => Right.
type Implies struct {
	Left, Right Node
}

func (i Implies) walk(v Visitor) {
	Walk(v, i.Left)
	Walk(v, i.Right)
}

func (i Implies) rewrite(r Rewriter) Node {
	return Implies{Left: Rewrite(r, i.Left), Right: Rewrite(r, i.Right)}
}

// propositionVisitor collects every Proposition reachable from a Node.
type propositionVisitor struct {
	f func(Proposition)
}

func (p propositionVisitor) Visit(n Node) Visitor {
	if t, ok := n.(Terminal); ok {
		p.f(t.Proposition)
	}
	return p
}

// WalkPropositions calls f once for every Proposition terminal reachable
// from n, in depth-first order.
func WalkPropositions(n Node, f func(Proposition)) {
	Walk(propositionVisitor{f: f}, n)
}
