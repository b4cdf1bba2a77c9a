package update

// UnknownVariableError is a ModelMalformed condition: a guard (or the
// target of an update function) references a variable name that has no
// registered domain.
type UnknownVariableError struct {
	Name string
}

func (e *UnknownVariableError) Error() string {
	return "update: unknown variable " + e.Name
}

// UnsupportedExpressionError is raised for an expr.Node type this compiler
// does not recognize. It cannot occur for any tree built from expr's own
// constructors; it guards against a caller implementing a foreign Node.
type UnsupportedExpressionError struct{}

func (e *UnsupportedExpressionError) Error() string {
	return "update: unsupported expression node"
}
