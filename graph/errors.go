package graph

import "fmt"

// UnknownFunctionError is returned when a call names an operation
// outside the catalog.
type UnknownFunctionError struct {
	Name string
}

func (e *UnknownFunctionError) Error() string {
	return fmt.Sprintf("unknown function %q", e.Name)
}

// ArgumentCountError is returned when a call supplies more arguments
// than the catalog arity allows.
type ArgumentCountError struct {
	Name string
	Got  int
	Max  int
}

func (e *ArgumentCountError) Error() string {
	return fmt.Sprintf("%s: too many arguments: got %d, at most %d", e.Name, e.Got, e.Max)
}

// ChainOrderError is returned when a generator appears in modifier
// position or a modifier starts the chain.
type ChainOrderError struct {
	Name        string
	Position    int // zero-based index in the chain
	IsGenerator bool
}

func (e *ChainOrderError) Error() string {
	if e.IsGenerator {
		return fmt.Sprintf("%s: generator cannot be chained as a modifier (position %d)", e.Name, e.Position)
	}
	return fmt.Sprintf("%s: chain must start with a generator, not a modifier", e.Name)
}
