package mathflow

// CompiledGraph is an immutable, executable graph produced by Compile().
// It is safe for concurrent Run() calls; the structure cannot change after
// compilation.
type CompiledGraph[S any] struct {
	nodes        map[string]NodeFunc[S]
	edges        map[string][]string
	routers      map[string]RouterFunc[S]
	entry        string
	predecessors map[string][]string
}

// EntryPoint returns the entry node ID.
func (cg *CompiledGraph[S]) EntryPoint() string {
	return cg.entry
}

// NodeIDs returns all node identifiers, in no particular order.
func (cg *CompiledGraph[S]) NodeIDs() []string {
	ids := make([]string, 0, len(cg.nodes))
	for id := range cg.nodes {
		ids = append(ids, id)
	}
	return ids
}

// HasNode reports whether the graph contains the given node.
func (cg *CompiledGraph[S]) HasNode(id string) bool {
	_, ok := cg.nodes[id]
	return ok
}

// Successors returns the simple-edge targets of a node. Targets of
// conditional edges are runtime-determined and not included.
func (cg *CompiledGraph[S]) Successors(id string) []string {
	if id == END {
		return nil
	}
	return cg.edges[id]
}

// Predecessors returns the nodes with simple edges into the given node.
func (cg *CompiledGraph[S]) Predecessors(id string) []string {
	return cg.predecessors[id]
}

// IsConditional reports whether the node routes via a conditional edge.
func (cg *CompiledGraph[S]) IsConditional(id string) bool {
	_, ok := cg.routers[id]
	return ok
}

func (cg *CompiledGraph[S]) getNode(id string) (NodeFunc[S], bool) {
	fn, ok := cg.nodes[id]
	return fn, ok
}

func (cg *CompiledGraph[S]) getRouter(id string) (RouterFunc[S], bool) {
	r, ok := cg.routers[id]
	return r, ok
}
