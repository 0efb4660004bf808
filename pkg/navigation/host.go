package navigation

import (
	"github.com/go-drift/nibel/pkg/nibel"
)

// Host owns the backends of one navigation host and decides which of them
// handles a back press.
type Host struct {
	Fragments *FragmentStack
	Graph     *Graph
	Explored  *nibel.ExploredEntries

	// OnExit is called when a back press finds nothing to pop.
	OnExit func()
}

// NewHost returns a host whose graph shows the root route.
func NewHost(observers ...Observer) *Host {
	h := &Host{
		Fragments: NewFragmentStack(observers...),
		Graph:     NewGraph(observers...),
		Explored:  nibel.NewExploredEntries(),
	}
	// Registering into an empty graph cannot fail.
	_ = h.Graph.Register(nibel.GraphNode{Name: nibel.RootRoute, Pattern: nibel.RootRoute})
	_ = h.Graph.Navigate(nibel.RootRoute)
	return h
}

// HandleBackButton pops the graph if it can, otherwise the fragment back
// stack. It returns false when neither could pop.
func (h *Host) HandleBackButton() bool {
	if h.Graph != nil && h.Graph.Pop() {
		return true
	}
	if h.Fragments != nil && h.Fragments.PopBackStack() {
		return true
	}
	return false
}

// OnBackPressed implements nibel.BackDispatcher.
func (h *Host) OnBackPressed() {
	if !h.HandleBackButton() && h.OnExit != nil {
		h.OnExit()
	}
}

// Nibel returns the backends in the form controllers take.
func (h *Host) Nibel() nibel.Host {
	host := nibel.Host{Back: h, Explored: h.Explored}
	if h.Fragments != nil {
		host.Fragments = h.Fragments
	}
	if h.Graph != nil {
		host.Graph = h.Graph
	}
	return host
}
