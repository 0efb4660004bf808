package nibel

// RootDelegate wraps the content of every hosted screen, for example to
// install a theme.
type RootDelegate interface {
	Content(content func() View) View
}

// RootDelegateFunc adapts a function to RootDelegate.
type RootDelegateFunc func(content func() View) View

// Content calls f.
func (f RootDelegateFunc) Content(content func() View) View { return f(content) }

// EmptyRootDelegate renders content unchanged.
type EmptyRootDelegate struct{}

// Content returns content().
func (EmptyRootDelegate) Content(content func() View) View { return content() }

// BackDispatcher performs the host's native back navigation.
type BackDispatcher interface {
	OnBackPressed()
}

// BackDispatcherFunc adapts a function to BackDispatcher.
type BackDispatcherFunc func()

// OnBackPressed calls f.
func (f BackDispatcherFunc) OnBackPressed() { f() }

// Host bundles the backends available where a controller lives.
type Host struct {
	Fragments FragmentManager
	Graph     Graph
	Back      BackDispatcher
	Explored  *ExploredEntries
}

// NavigationDelegate creates controllers for hosts and renders the root
// content of a hosted screen.
type NavigationDelegate interface {
	NewController(rt *Runtime, host Host) (NavigationController, error)
	Content(rt *Runtime, host Host, rootArgs Arguments, content func(*Scope) View) (View, error)
}

// RootRoute is the graph route of a host's own screen.
const RootRoute = "@root"

// GraphNavigationDelegate hosts screens in a route graph.
type GraphNavigationDelegate struct{}

// NewController returns a Controller for host.
func (GraphNavigationDelegate) NewController(rt *Runtime, host Host) (NavigationController, error) {
	return NewController(rt, host)
}

// Content registers the root route, seeds the controller with the request
// key the screen was opened with, and renders content.
func (d GraphNavigationDelegate) Content(rt *Runtime, host Host, rootArgs Arguments, content func(*Scope) View) (View, error) {
	ctrl, err := d.NewController(rt, host)
	if err != nil {
		return nil, err
	}
	if c, ok := ctrl.(*Controller); ok && rootArgs.RequestKey != "" {
		c.SetRequestKey(rootArgs.RequestKey)
	}
	if host.Graph != nil && !host.Graph.HasRoute(RootRoute) {
		if err := host.Graph.Register(GraphNode{Name: RootRoute, Pattern: RootRoute}); err != nil {
			return nil, backendError("nibel.GraphNavigationDelegate.Content", RootRoute, err)
		}
	}
	scope := NewScope(ctrl, ImplementationComposable, rootArgs.Args, rootArgs.RequestKey)
	return content(scope), nil
}

// RenderFragment renders a composable fragment through the root and
// navigation delegates.
func RenderFragment(rt *Runtime, host Host, f ComposableFragment) (View, error) {
	s, err := rt.current("nibel.RenderFragment")
	if err != nil {
		return nil, err
	}
	var inner error
	view := s.RootDelegate.Content(func() View {
		v, err := s.NavigationDelegate.Content(rt, host, f.Arguments(), func(scope *Scope) View {
			return f.ComposableContent(scope.WithImplementation(ImplementationFragment))
		})
		inner = err
		return v
	})
	if inner != nil {
		return nil, inner
	}
	return view, nil
}

// RenderEntry renders a composable entry hosted by ctrl.
func RenderEntry(ctrl NavigationController, e ComposableEntry) View {
	return e.ComposableContent(NewScope(ctrl, ImplementationComposable, e.Args(), e.RequestKey()))
}
