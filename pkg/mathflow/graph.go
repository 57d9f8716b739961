package mathflow

import (
	"fmt"
	"strings"
	"sync"
)

// Graph is a mutable builder for execution graphs. Construct it on a single
// goroutine, then Compile() into an immutable CompiledGraph that may be
// shared freely.
//
//	g := mathflow.NewGraph[MyState]().
//	    AddNode("plan", plan).
//	    AddNode("act", act).
//	    AddEdge("plan", "act").
//	    AddEdge("act", mathflow.END).
//	    SetEntry("plan")
type Graph[S any] struct {
	mu      sync.Mutex
	nodes   map[string]NodeFunc[S]
	edges   map[string][]string
	routers map[string]RouterFunc[S]
	entry   string
}

// NewGraph creates an empty graph builder for state type S.
func NewGraph[S any]() *Graph[S] {
	return &Graph[S]{
		nodes:   make(map[string]NodeFunc[S]),
		edges:   make(map[string][]string),
		routers: make(map[string]RouterFunc[S]),
	}
}

// AddNode registers a named node. It panics on programmer error: empty or
// reserved IDs, IDs containing whitespace, nil functions, and duplicates.
func (g *Graph[S]) AddNode(id string, fn NodeFunc[S]) *Graph[S] {
	if id == "" {
		panic("mathflow: node ID cannot be empty")
	}
	if low := strings.ToLower(id); low == "end" || low == END {
		panic("mathflow: node ID cannot be the reserved word END")
	}
	if strings.ContainsAny(id, " \t\n\r") {
		panic("mathflow: node ID cannot contain whitespace")
	}
	if fn == nil {
		panic("mathflow: node function cannot be nil")
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if _, dup := g.nodes[id]; dup {
		panic(fmt.Sprintf("mathflow: duplicate node ID %q", id))
	}
	g.nodes[id] = fn
	return g
}

// AddEdge adds an unconditional edge. The target may be a node ID or END.
// Referential validation is deferred to Compile() so edges can be added in
// any order.
func (g *Graph[S]) AddEdge(from, to string) *Graph[S] {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.edges[from] = append(g.edges[from], to)
	return g
}

// AddConditionalEdge installs a router that picks the successor at runtime.
// A router on a node takes precedence over any simple edges from that node.
func (g *Graph[S]) AddConditionalEdge(from string, router RouterFunc[S]) *Graph[S] {
	if router == nil {
		panic("mathflow: router function cannot be nil")
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.routers[from] = router
	return g
}

// SetEntry designates the entry node. Must be called before Compile().
func (g *Graph[S]) SetEntry(id string) *Graph[S] {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.entry = id
	return g
}
