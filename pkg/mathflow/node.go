package mathflow

// END is the terminal node identifier. Use it as an edge target (or a
// router return value) to stop execution.
const END = "__end__"

// NodeFunc is the signature every node implements. Nodes receive the
// execution context and the current state by value, and return the updated
// state along with any error. Mutating through pointers held from previous
// calls is not supported; return the new state instead.
type NodeFunc[S any] func(ctx Context, state S) (S, error)

// RouterFunc picks the next node for a conditional edge. It must return an
// existing node ID or END; anything else aborts the run with a RouterError.
type RouterFunc[S any] func(ctx Context, state S) string
