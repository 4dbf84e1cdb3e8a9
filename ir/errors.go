package ir

import "fmt"

// InternalError indicates the lowering received a graph that violates
// the resolver's contract (for example a modifier with no preceding
// generator). It signals a compiler bug, not bad user input, and is
// never recovered.
type InternalError struct {
	Message string
}

func (e *InternalError) Error() string {
	return "internal compiler error: " + e.Message
}

func internalf(format string, args ...any) *InternalError {
	return &InternalError{Message: fmt.Sprintf(format, args...)}
}

// LimitError indicates a program grew past the configured value cap.
// Ordinary chains of a few calls never approach it; the cap exists so
// a bug cannot allocate without bound.
type LimitError struct {
	Count int
	Limit int
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("program exceeds value limit: %d values, limit %d", e.Count, e.Limit)
}
