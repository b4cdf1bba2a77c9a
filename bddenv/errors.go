package bddenv

// UnknownVariableError is raised when a caller references a variable name
// that was never registered with the Builder.
type UnknownVariableError struct {
	Name string
}

func (e *UnknownVariableError) Error() string {
	return "bddenv: unknown variable " + e.Name
}
