package chain

// Call represents a single call in a chain: an identifier applied to
// zero or more numeric literal arguments.
type Call struct {
	Name string
	Args []float32
	Span Span
}

// Chain represents a parsed chain expression: an ordered sequence of
// calls. The first call names the generator, the remainder name
// modifiers in written order.
//
// A Chain is immutable once parsed.
type Chain struct {
	Calls []Call
}
