package mathflow

import (
	"errors"
	"fmt"
	"log/slog"
)

// Compile validates the graph and freezes it into a CompiledGraph.
// Validation failures are joined into a single error so callers see every
// problem at once:
//
//  1. an entry point must be set and must name an existing node
//  2. every simple edge must connect existing nodes (or END)
//  3. every conditional edge must originate at an existing node
//  4. END must be reachable from the entry point
//
// Nodes unreachable from the entry are logged as warnings but tolerated.
func (g *Graph[S]) Compile() (*CompiledGraph[S], error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	var errs []error

	if g.entry == "" {
		errs = append(errs, ErrNoEntryPoint)
	} else if _, ok := g.nodes[g.entry]; !ok {
		errs = append(errs, fmt.Errorf("%w: %s", ErrEntryNotFound, g.entry))
	}

	for from, targets := range g.edges {
		if _, ok := g.nodes[from]; !ok {
			if _, routed := g.routers[from]; !routed {
				errs = append(errs, fmt.Errorf("%w: edge source %q", ErrNodeNotFound, from))
			}
		}
		for _, to := range targets {
			if to == END {
				continue
			}
			if _, ok := g.nodes[to]; !ok {
				errs = append(errs, fmt.Errorf("%w: edge target %q", ErrNodeNotFound, to))
			}
		}
	}

	for from := range g.routers {
		if _, ok := g.nodes[from]; !ok {
			errs = append(errs, fmt.Errorf("%w: conditional edge source %q", ErrNodeNotFound, from))
		}
	}

	if _, ok := g.nodes[g.entry]; ok && !g.endReachable() {
		errs = append(errs, ErrNoPathToEnd)
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	g.warnUnreachable()
	return g.freeze(), nil
}

// endReachable reports whether END can be reached from the entry point.
// Nodes with a router are assumed to be able to return END, since the
// actual target is runtime state.
func (g *Graph[S]) endReachable() bool {
	reachesEnd := map[string]bool{END: true}
	for from := range g.routers {
		reachesEnd[from] = true
	}

	for changed := true; changed; {
		changed = false
		for from, targets := range g.edges {
			if reachesEnd[from] {
				continue
			}
			for _, to := range targets {
				if reachesEnd[to] {
					reachesEnd[from] = true
					changed = true
					break
				}
			}
		}
	}
	return reachesEnd[g.entry]
}

// warnUnreachable logs nodes that no path from the entry can visit.
// A node with a conditional predecessor is considered reachable because
// routers may return any node ID.
func (g *Graph[S]) warnUnreachable() {
	reachable := map[string]bool{g.entry: true}
	queue := []string{g.entry}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		if _, routed := g.routers[cur]; routed {
			for id := range g.nodes {
				if !reachable[id] {
					reachable[id] = true
					queue = append(queue, id)
				}
			}
			continue
		}
		for _, to := range g.edges[cur] {
			if to != END && !reachable[to] {
				reachable[to] = true
				queue = append(queue, to)
			}
		}
	}

	for id := range g.nodes {
		if !reachable[id] {
			slog.Warn("node is unreachable from entry", "node_id", id)
		}
	}
}

// freeze copies the builder contents into an immutable CompiledGraph.
func (g *Graph[S]) freeze() *CompiledGraph[S] {
	nodes := make(map[string]NodeFunc[S], len(g.nodes))
	for id, fn := range g.nodes {
		nodes[id] = fn
	}

	edges := make(map[string][]string, len(g.edges))
	predecessors := make(map[string][]string)
	for from, targets := range g.edges {
		edges[from] = append([]string(nil), targets...)
		for _, to := range targets {
			if to != END {
				predecessors[to] = append(predecessors[to], from)
			}
		}
	}

	routers := make(map[string]RouterFunc[S], len(g.routers))
	for from, r := range g.routers {
		routers[from] = r
	}

	return &CompiledGraph[S]{
		nodes:        nodes,
		edges:        edges,
		routers:      routers,
		entry:        g.entry,
		predecessors: predecessors,
	}
}
