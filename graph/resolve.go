package graph

import "github.com/gogpu/hydra/chain"

// Resolve validates the parsed chain against the operation catalog and
// builds the linear computation graph.
//
// Resolve is pure and deterministic: identical input always yields a
// structurally identical graph.
func Resolve(c *chain.Chain) (*Graph, error) {
	if len(c.Calls) == 0 {
		return nil, chain.ErrEmptyChain
	}

	g := &Graph{Nodes: make([]Node, 0, len(c.Calls))}

	for i, call := range c.Calls {
		kind, defaults, ok := Lookup(call.Name)
		if !ok {
			return nil, &UnknownFunctionError{Name: call.Name}
		}
		if len(call.Args) > len(defaults) {
			return nil, &ArgumentCountError{Name: call.Name, Got: len(call.Args), Max: len(defaults)}
		}

		if i == 0 && !kind.IsGenerator() {
			return nil, &ChainOrderError{Name: call.Name, Position: i}
		}
		if i > 0 && kind.IsGenerator() {
			return nil, &ChainOrderError{Name: call.Name, Position: i, IsGenerator: true}
		}

		params := defaults // Lookup hands out a fresh slice
		copy(params, call.Args)

		g.Nodes = append(g.Nodes, Node{Kind: kind, Params: params})
	}

	return g, nil
}
