package navigation

import (
	"fmt"

	"github.com/go-drift/nibel/pkg/errors"
	"github.com/go-drift/nibel/pkg/nibel"
)

// Graph is a route graph with a back stack. It must be used from the UI
// context only.
type Graph struct {
	// Observers receive push and pop events.
	Observers []Observer

	nodes     []*indexedNode
	byPattern map[string]*indexedNode
	stack     []*Record
}

type indexedNode struct {
	pattern *PathPattern
	node    nibel.GraphNode
}

// NewGraph returns an empty graph.
func NewGraph(observers ...Observer) *Graph {
	return &Graph{
		Observers: observers,
		byPattern: make(map[string]*indexedNode),
	}
}

// Register adds node. A pattern can be registered once.
func (g *Graph) Register(node nibel.GraphNode) error {
	pattern := node.Pattern
	if pattern == "" {
		pattern = node.Name
	}
	if _, dup := g.byPattern[pattern]; dup {
		return fmt.Errorf("%w: %s", errors.ErrDuplicateRoute, pattern)
	}
	node.Pattern = pattern
	in := &indexedNode{pattern: NewPathPattern(pattern), node: node}
	g.nodes = append(g.nodes, in)
	g.byPattern[pattern] = in
	return nil
}

func (g *Graph) find(route string) (*indexedNode, map[string]string) {
	for _, in := range g.nodes {
		if params, ok := in.pattern.Match(route); ok {
			return in, params
		}
	}
	return nil, nil
}

// HasRoute reports whether a registered node matches route.
func (g *Graph) HasRoute(route string) bool {
	in, _ := g.find(route)
	return in != nil
}

// Navigate pushes the node matching route. The record renders the entry the
// node was registered with.
func (g *Graph) Navigate(route string) error {
	return g.push(route, nil)
}

// NavigateEntry pushes the node matching route and renders entry on it.
func (g *Graph) NavigateEntry(route string, entry nibel.ComposableEntry) error {
	return g.push(route, entry)
}

func (g *Graph) push(route string, entry nibel.ComposableEntry) error {
	in, params := g.find(route)
	if in == nil {
		return fmt.Errorf("%w: %s", errors.ErrUnknownRoute, route)
	}
	if entry == nil {
		entry = in.node.Entry
	}
	record := &Record{Route: route, Params: params, Entry: entry}
	previous := g.top()
	g.stack = append(g.stack, record)
	for _, o := range g.Observers {
		o.DidPush(record, previous)
	}
	return nil
}

func (g *Graph) top() *Record {
	if len(g.stack) == 0 {
		return nil
	}
	return g.stack[len(g.stack)-1]
}

// Current returns the record on top of the back stack.
func (g *Graph) Current() (*Record, bool) {
	r := g.top()
	return r, r != nil
}

// CanPop reports whether more than one record is on the back stack.
func (g *Graph) CanPop() bool { return len(g.stack) > 1 }

// Pop removes the top record. The last record is never removed.
func (g *Graph) Pop() bool {
	if !g.CanPop() {
		return false
	}
	popped := g.stack[len(g.stack)-1]
	g.stack = g.stack[:len(g.stack)-1]
	previous := g.top()
	for _, o := range g.Observers {
		o.DidPop(popped, previous)
	}
	return true
}

// Depth returns the number of records on the back stack.
func (g *Graph) Depth() int { return len(g.stack) }

// Patterns returns the registered patterns in registration order.
func (g *Graph) Patterns() []string {
	out := make([]string, len(g.nodes))
	for i, in := range g.nodes {
		out[i] = in.node.Pattern
	}
	return out
}

// Render renders the current record with ctrl. The root route renders root.
func (g *Graph) Render(ctrl nibel.NavigationController, root func() nibel.View) nibel.View {
	r := g.top()
	if r == nil || r.Entry == nil {
		if root == nil {
			return nil
		}
		return root()
	}
	return nibel.RenderEntry(ctrl, r.Entry)
}

// DecodeArgs decodes the argument parameter captured for r.
func DecodeArgs[A any](r *Record, argsKey string, s nibel.Serializer) (A, error) {
	var zero A
	raw, ok := r.Params[argsKey]
	if !ok {
		return zero, fmt.Errorf("route %s has no %s parameter", r.Route, argsKey)
	}
	return nibel.Decode[A](s, raw)
}
